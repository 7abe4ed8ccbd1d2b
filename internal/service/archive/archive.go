package archive

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"

	"github.com/eigeen/LuaFramework/internal/domain/artifact"
	"github.com/eigeen/LuaFramework/internal/fsutil"
	"github.com/eigeen/LuaFramework/internal/logger"

	// Register SHA-512 for entry checksums.
	_ "crypto/sha512"
)

// ChecksumFunction hashes every archived file.
const ChecksumFunction = crypto.SHA512

// errHashUnavailable is returned when ChecksumFunction is not linked in.
var errHashUnavailable = errors.New("hash function unavailable")

// Entry describes one archive entry in write order.
type Entry struct {
	// Name is the slash-separated entry name; directory markers end with "/".
	Name string
	// Directory is true for CreateEmptyDirectory markers.
	Directory bool
	// Size is the uncompressed size in bytes.
	Size int64
	// Checksum is the ChecksumFunction digest of the content; nil for directories.
	Checksum []byte
}

// Summary is the result of a successful Write.
type Summary struct {
	// Path is the archive location on the destination filesystem.
	Path string
	// Entries lists entries in the order they were written.
	Entries []Entry
}

// writer adds manifest operations to an open zip.
type writer struct {
	//nolint:containedctx // Visitor methods have no context parameter.
	ctx     context.Context
	src     billy.Filesystem
	zip     *zip.Writer
	entries []Entry
}

// Write creates archivePath on dst and fills it from m, reading sources from src.
func Write(
	ctx context.Context,
	src, dst billy.Filesystem,
	archivePath string,
	m artifact.Manifest,
) (summary *Summary, err error) {
	ctx = logger.WithName(ctx, "archive")

	if !ChecksumFunction.Available() {
		return nil, errHashUnavailable
	}

	logger.InfoKV(ctx, "Creating archive", "path", archivePath)

	file, err := dst.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}

	// Do not leave a partial package behind.
	defer func() {
		if err == nil {
			return
		}

		_ = file.Close()

		if removeErr := dst.Remove(archivePath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			logger.WarnKV(ctx, "Unable to remove partial archive", "path", archivePath, "error", removeErr)
		}
	}()

	w := &writer{
		ctx: ctx,
		src: src,
		zip: zip.NewWriter(file),
	}

	if err = m.Walk(w); err != nil {
		_ = w.zip.Close()

		return nil, fmt.Errorf("archive: %w", err)
	}

	if err = w.zip.Close(); err != nil {
		return nil, fmt.Errorf("finish archive: %w", err)
	}

	if err = file.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	logger.InfoKV(ctx, "Archive written", "path", archivePath, "entries", len(w.entries))

	return &Summary{
		Path:    archivePath,
		Entries: w.entries,
	}, nil
}

// VisitFile writes a single entry named after the destination.
func (w *writer) VisitFile(op artifact.File) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	return w.addFile(op.Source, op.Destination)
}

// VisitDirectory writes one entry per regular file below the source.
func (w *writer) VisitDirectory(op artifact.Directory) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	return fsutil.WalkTree(w.src, op.Source, func(rel string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}

		return w.addFile(w.src.Join(op.Source, rel), path.Join(op.Destination, rel))
	})
}

// VisitCreateEmptyDirectory writes a directory marker entry.
func (w *writer) VisitCreateEmptyDirectory(op artifact.CreateEmptyDirectory) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	name := op.Destination + "/"

	header := &zip.FileHeader{
		Name:   name,
		Method: zip.Store,
	}
	header.SetMode(os.ModeDir | fsutil.DefaultDirMode)

	if _, err := w.zip.CreateHeader(header); err != nil {
		return fmt.Errorf("add directory %s: %w", name, err)
	}

	w.entries = append(w.entries, Entry{
		Name:      name,
		Directory: true,
	})

	return nil
}

// addFile deflates source into an entry called name and records its checksum.
func (w *writer) addFile(source, name string) error {
	info, err := w.src.Stat(source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}

	in, err := w.src.Open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}

	defer func() {
		_ = in.Close()
	}()

	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	}
	header.SetMode(info.Mode().Perm())

	out, err := w.zip.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}

	hasher := ChecksumFunction.New()

	size, err := io.Copy(io.MultiWriter(out, hasher), in)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	logger.DebugKV(w.ctx, "Archived file", "source", source, "entry", name, "size", size)

	w.entries = append(w.entries, Entry{
		Name:     name,
		Size:     size,
		Checksum: hasher.Sum(nil),
	})

	return nil
}
