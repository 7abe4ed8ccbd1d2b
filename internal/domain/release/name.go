package release

import "strings"

// archiveExtension is appended to every package name.
const archiveExtension = ".zip"

// Revision is a short commit identifier that may be absent.
type Revision struct {
	// ID is the short hash; meaningful only when Known is true.
	ID string
	// Known is false when the revision query failed.
	Known bool
}

// PackageName derives the archive file name.
//
//	release:               {product}_v{version}.zip
//	dev, revision known:   {product}_v{version}-dev-{revision}.zip
//	dev, revision unknown: {product}_v{version}-dev.zip
func PackageName(product string, version Version, mode Mode, revision Revision) string {
	var builder strings.Builder

	builder.WriteString(product)
	builder.WriteString("_v")
	builder.WriteString(version.String())

	if mode == ModeDev {
		builder.WriteString("-dev")

		if revision.Known && revision.ID != "" {
			builder.WriteString("-")
			builder.WriteString(revision.ID)
		}
	}

	builder.WriteString(archiveExtension)

	return builder.String()
}
