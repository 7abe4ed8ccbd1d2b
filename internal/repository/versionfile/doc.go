// Package versionfile reads the package version from the project
// configuration file (Cargo.toml) of the workspace.
package versionfile
