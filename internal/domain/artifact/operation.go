package artifact

import "fmt"

// Visitor handles every operation kind of a manifest.
// Staging, archiving and live deploy each implement it, so a new kind
// does not compile until all of them know how to process it.
type Visitor interface {
	VisitFile(op File) error
	VisitDirectory(op Directory) error
	VisitCreateEmptyDirectory(op CreateEmptyDirectory) error
}

// Operation is a single manifest step. The set of implementations is closed:
// only File, Directory and CreateEmptyDirectory satisfy it.
type Operation interface {
	fmt.Stringer

	// Target returns the slash-separated destination relative to the output root.
	Target() string
	// Accept dispatches the operation to the matching Visitor method.
	Accept(v Visitor) error

	sealed()
}

// File copies a single file.
type File struct {
	// Source is the workspace-relative path of the file to copy.
	Source string
	// Destination is the slash-separated path relative to the output root.
	Destination string
}

// Target implements Operation.
func (op File) Target() string { return op.Destination }

// Accept implements Operation.
func (op File) Accept(v Visitor) error { return v.VisitFile(op) }

// String implements fmt.Stringer.
func (op File) String() string {
	return fmt.Sprintf("file %s -> %s", op.Source, op.Destination)
}

func (File) sealed() {}

// Directory copies a whole subtree, keeping its internal structure.
type Directory struct {
	// Source is the workspace-relative directory to copy.
	Source string
	// Destination is the slash-separated path relative to the output root.
	Destination string
}

// Target implements Operation.
func (op Directory) Target() string { return op.Destination }

// Accept implements Operation.
func (op Directory) Accept(v Visitor) error { return v.VisitDirectory(op) }

// String implements fmt.Stringer.
func (op Directory) String() string {
	return fmt.Sprintf("dir %s -> %s", op.Source, op.Destination)
}

func (Directory) sealed() {}

// CreateEmptyDirectory pre-creates a directory with no content,
// e.g. an extension point populated later by the plugin at runtime.
type CreateEmptyDirectory struct {
	// Destination is the slash-separated path relative to the output root.
	Destination string
}

// Target implements Operation.
func (op CreateEmptyDirectory) Target() string { return op.Destination }

// Accept implements Operation.
func (op CreateEmptyDirectory) Accept(v Visitor) error { return v.VisitCreateEmptyDirectory(op) }

// String implements fmt.Stringer.
func (op CreateEmptyDirectory) String() string {
	return "create_dir " + op.Destination
}

func (CreateEmptyDirectory) sealed() {}
