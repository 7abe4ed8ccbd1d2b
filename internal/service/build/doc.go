// Package build runs the external toolchains (xmake for the d3d11 loader,
// cargo for the Rust crates) one after another before packaging or
// deploying. Failed steps are always logged; whether they abort the run
// is a configuration choice.
package build
