// Package fsutil contains go-billy helpers shared by the staging, archive
// and deploy engines: a deterministic tree walk, single file copy and the
// recreate-from-scratch step of an output root.
package fsutil
