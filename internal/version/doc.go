// Package version exposes build metadata of the packaging tools.
//
// Version, Commit and BuildTime are injected with -ldflags and default to
// placeholders for local builds. The version is also recorded in every
// release description the packager writes.
package version
