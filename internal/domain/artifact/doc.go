// Package artifact models the packaging manifest: an ordered list of
// file copies, directory copies and empty directories, each mapped to a
// destination under an output root.
package artifact
