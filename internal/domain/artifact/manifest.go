package artifact

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Kind names an operation kind in the declarative (YAML) manifest.
type Kind string

const (
	// KindFile declares a single file copy.
	KindFile Kind = "file"
	// KindDirectory declares a recursive directory copy.
	KindDirectory Kind = "dir"
	// KindCreateEmptyDirectory declares an empty directory.
	KindCreateEmptyDirectory Kind = "create_dir"
)

var (
	// ErrUnknownKind is returned for an entry with an unsupported kind.
	ErrUnknownKind = errors.New("unknown artifact kind")
	// ErrSourceRequired is returned when a file or dir entry has no source.
	ErrSourceRequired = errors.New("source must be provided")
	// ErrUnexpectedSource is returned when a create_dir entry names a source.
	ErrUnexpectedSource = errors.New("source is not allowed for create_dir")
	// ErrInvalidDestination is returned for empty, absolute or escaping destinations.
	ErrInvalidDestination = errors.New("invalid destination")
)

// Entry is the declarative form of an Operation as it appears in configuration.
type Entry struct {
	// Kind selects the operation variant.
	Kind Kind `yaml:"kind"`
	// Source is required for file and dir, absent for create_dir.
	Source string `yaml:"source,omitempty"`
	// Destination is relative to the output root and uses forward slashes.
	Destination string `yaml:"destination"`
}

// Manifest is an ordered list of operations. The order is the processing
// order of every consumer and the entry order of the archive.
type Manifest struct {
	operations []Operation
}

// New builds a manifest from already constructed operations, keeping their order.
func New(operations ...Operation) Manifest {
	return Manifest{
		operations: append([]Operation(nil), operations...),
	}
}

// FromEntries validates declarative entries and converts them into a manifest.
func FromEntries(entries []Entry) (Manifest, error) {
	operations := make([]Operation, 0, len(entries))

	for i, entry := range entries {
		op, err := entry.Operation()
		if err != nil {
			return Manifest{}, fmt.Errorf("artifact #%d: %w", i+1, err)
		}

		operations = append(operations, op)
	}

	return Manifest{operations: operations}, nil
}

// Operation converts the entry into its typed operation.
//
//nolint:ireturn // Operation is a closed sum type.
func (e Entry) Operation() (Operation, error) {
	destination, err := cleanDestination(e.Destination)
	if err != nil {
		return nil, err
	}

	switch e.Kind {
	case KindFile:
		if e.Source == "" {
			return nil, fmt.Errorf("%s %q: %w", e.Kind, destination, ErrSourceRequired)
		}

		return File{Source: e.Source, Destination: destination}, nil
	case KindDirectory:
		if e.Source == "" {
			return nil, fmt.Errorf("%s %q: %w", e.Kind, destination, ErrSourceRequired)
		}

		return Directory{Source: e.Source, Destination: destination}, nil
	case KindCreateEmptyDirectory:
		if e.Source != "" {
			return nil, fmt.Errorf("%q: %w", destination, ErrUnexpectedSource)
		}

		return CreateEmptyDirectory{Destination: destination}, nil
	default:
		return nil, fmt.Errorf("%q: %w", e.Kind, ErrUnknownKind)
	}
}

// Len returns the number of operations.
func (m Manifest) Len() int {
	return len(m.operations)
}

// Operations returns a copy of the operations in manifest order.
func (m Manifest) Operations() []Operation {
	return append([]Operation(nil), m.operations...)
}

// Walk hands every operation to v in manifest order and stops at the first error.
func (m Manifest) Walk(v Visitor) error {
	for _, op := range m.operations {
		if err := op.Accept(v); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// cleanDestination normalises a destination and rejects paths leaving the output root.
func cleanDestination(destination string) (string, error) {
	if strings.TrimSpace(destination) == "" {
		return "", fmt.Errorf("empty: %w", ErrInvalidDestination)
	}

	if strings.Contains(destination, `\`) {
		return "", fmt.Errorf("%q must use forward slashes: %w", destination, ErrInvalidDestination)
	}

	cleaned := path.Clean(destination)

	switch {
	case path.IsAbs(cleaned):
		return "", fmt.Errorf("%q is absolute: %w", destination, ErrInvalidDestination)
	case cleaned == ".", cleaned == "..", strings.HasPrefix(cleaned, "../"):
		return "", fmt.Errorf("%q leaves the output root: %w", destination, ErrInvalidDestination)
	}

	return cleaned, nil
}
