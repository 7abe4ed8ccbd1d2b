// Package release holds the naming side of a package: the version scraped
// from the project configuration, the packaging mode and the archive name
// derived from them.
package release
