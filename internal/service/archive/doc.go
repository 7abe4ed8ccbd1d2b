// Package archive writes a manifest into a deflate zip whose entry names
// mirror the destination layout, and reports a checksum for every entry.
//
// A failed run removes the partially written archive, so an aborted
// packaging run never leaves a package behind.
package archive
