package packager

import (
	"encoding/base64"
	"fmt"
	"io"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/eigeen/LuaFramework/internal/domain/release"
	"github.com/eigeen/LuaFramework/internal/service/archive"
	"github.com/eigeen/LuaFramework/internal/version"
)

// descriptionFileMode is used for the release description.
const descriptionFileMode = 0o644

// Description is the metadata of a published package, written next to the archive.
type Description struct {
	// Product is the package name prefix.
	Product string `yaml:"product"`
	// Version is the crate version, empty when it could not be found.
	Version string `yaml:"version"`
	// Revision is the short commit id in dev mode, if known.
	Revision string `yaml:"revision,omitempty"`
	// Mode is "release" or "dev".
	Mode string `yaml:"mode"`
	// Package is the archive file name.
	Package string `yaml:"package"`
	// Checksum is the base64-encoded SHA-512 of the archive.
	Checksum string `yaml:"checksum"`
	// Entries lists archive entries in archive order.
	Entries []DescribedEntry `yaml:"entries"`
	// Packager is the version of the tool that produced the package.
	Packager string `yaml:"packager"`
}

// DescribedEntry is one archive entry with its checksum.
type DescribedEntry struct {
	// Name is the entry name inside the archive.
	Name string `yaml:"name"`
	// Checksum is the base64-encoded SHA-512 of the entry, empty for directories.
	Checksum string `yaml:"checksum,omitempty"`
}

// DescriptionFilename returns the release description file name for product.
func DescriptionFilename(product string) string {
	return product + "-release.yaml"
}

// newDescription collects metadata for the archive described by summary.
func newDescription(
	fs billy.Filesystem,
	product string,
	v release.Version,
	mode release.Mode,
	rev release.Revision,
	summary *archive.Summary,
) (*Description, error) {
	checksum, err := fileChecksum(fs, summary.Path)
	if err != nil {
		return nil, err
	}

	entries := make([]DescribedEntry, 0, len(summary.Entries))
	for _, entry := range summary.Entries {
		described := DescribedEntry{Name: entry.Name}
		if !entry.Directory {
			described.Checksum = base64.StdEncoding.EncodeToString(entry.Checksum)
		}

		entries = append(entries, described)
	}

	return &Description{
		Product:  product,
		Version:  v.String(),
		Revision: rev.ID,
		Mode:     mode.String(),
		Package:  path.Base(summary.Path),
		Checksum: base64.StdEncoding.EncodeToString(checksum),
		Entries:  entries,
		Packager: version.Short(),
	}, nil
}

// saveDescription writes desc as YAML.
func saveDescription(fs billy.Filesystem, name string, desc *Description) error {
	contents, err := yaml.Marshal(desc)
	if err != nil {
		return fmt.Errorf("marshal release description: %w", err)
	}

	if err = util.WriteFile(fs, name, contents, descriptionFileMode); err != nil {
		return fmt.Errorf("write release description: %w", err)
	}

	return nil
}

// fileChecksum hashes a file with the archive checksum function.
func fileChecksum(fs billy.Filesystem, name string) ([]byte, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := archive.ChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("calculate checksum of %s: %w", name, err)
	}

	return hasher.Sum(nil), nil
}
