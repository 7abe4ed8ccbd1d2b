package deploy

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-ps"
)

// isProcessRunning reports whether any process has the given executable name.
// The comparison ignores case because Windows executable names are case-insensitive.
func isProcessRunning(name string) (bool, error) {
	processes, err := ps.Processes()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processes {
		if strings.EqualFold(process.Executable(), name) {
			return true, nil
		}
	}

	return false, nil
}
