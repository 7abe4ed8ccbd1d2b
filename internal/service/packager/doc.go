// Package packager produces a distributable LuaFramework package.
//
// It runs the native builds, stages the manifest into a fresh output
// directory, derives the archive name from the crate version, the mode and
// (in dev mode) the commit revision, writes the zip and records a YAML
// release description with SHA-512 checksums next to it.
package packager
