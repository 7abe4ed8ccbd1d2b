package versionfile

import (
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/eigeen/LuaFramework/internal/domain/release"
)

// Resolve opens path on fs and scans it for the first `version = "X.Y.Z"` line.
// A missing file is an error; a missing or malformed version line is reported
// through the boolean, never as an error.
func Resolve(fs billy.Filesystem, path string) (release.Version, bool, error) {
	file, err := fs.Open(path)
	if err != nil {
		return release.Version{}, false, fmt.Errorf("open version file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	version, found, err := release.ScanVersion(file)
	if err != nil {
		return release.Version{}, false, fmt.Errorf("read version file %s: %w", path, err)
	}

	return version, found, nil
}
