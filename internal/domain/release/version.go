package release

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// versionKey is the token a configuration line must start with to be considered.
const versionKey = "version"

// versionPattern extracts the quoted X.Y.Z triple from a version line.
var versionPattern = regexp.MustCompile(`version = "(\d+\.\d+\.\d+)"`)

// Version is a major.minor.patch triple as written in the project configuration.
// The zero value means "no version found" and renders as an empty string.
type Version struct {
	raw string
}

// String returns the version text, or "" for the zero value.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether no version was found.
func (v Version) IsZero() bool {
	return v.raw == ""
}

// ParseVersionLine extracts a version from a single configuration line.
// The line must begin with "version"; components are only checked to be digits.
func ParseVersionLine(line string) (Version, bool) {
	if !strings.HasPrefix(line, versionKey) {
		return Version{}, false
	}

	match := versionPattern.FindStringSubmatch(line)
	if len(match) < 2 {
		return Version{}, false
	}

	return Version{raw: match[1]}, true
}

// ScanVersion reads r line by line and returns the first version line that
// matches. Lines of any length are accepted.
func ScanVersion(r io.Reader) (Version, bool, error) {
	reader := bufio.NewReader(r)

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Version{}, false, fmt.Errorf("scan version: %w", err)
		}

		if v, ok := ParseVersionLine(strings.TrimRight(line, "\r\n")); ok {
			return v, true, nil
		}

		if err != nil {
			return Version{}, false, nil
		}
	}
}
