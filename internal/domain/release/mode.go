package release

import (
	"errors"
	"fmt"
)

// Mode selects the naming policy of a package.
type Mode int

const (
	// ModeRelease produces {product}_v{version}.zip.
	ModeRelease Mode = iota
	// ModeDev appends a dev tag and, when available, the short revision.
	ModeDev
)

// devArgument is the CLI value that selects ModeDev.
const devArgument = "dev"

// ErrUnknownMode is returned by ParseMode for unsupported values.
var ErrUnknownMode = errors.New("unknown packaging mode")

// ParseMode converts the optional positional CLI argument into a Mode.
func ParseMode(arg string) (Mode, error) {
	switch arg {
	case "":
		return ModeRelease, nil
	case devArgument:
		return ModeDev, nil
	default:
		return ModeRelease, fmt.Errorf("%q: %w", arg, ErrUnknownMode)
	}
}

// String returns the mode name used in logs and the release description.
func (m Mode) String() string {
	if m == ModeDev {
		return "dev"
	}

	return "release"
}
