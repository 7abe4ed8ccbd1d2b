package deploy

import (
	"bytes"
	"context"
	"crypto"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/go-git/go-billy/v5"

	"github.com/eigeen/LuaFramework/internal/domain/artifact"
	"github.com/eigeen/LuaFramework/internal/fsutil"
	"github.com/eigeen/LuaFramework/internal/logger"

	// Register SHA-512 for update verification.
	_ "crypto/sha512"
)

// ChecksumFunction verifies every applied file.
const ChecksumFunction = crypto.SHA512

// errHashUnavailable is returned when ChecksumFunction is not linked in.
var errHashUnavailable = errors.New("hash function unavailable")

// applier overwrites manifest destinations below an installation root.
type applier struct {
	//nolint:containedctx // Visitor methods have no context parameter.
	ctx    context.Context
	src    billy.Filesystem
	target string
	// applied counts replaced files.
	applied int
}

// apply walks m and writes every operation into target.
func apply(ctx context.Context, src billy.Filesystem, target string, m artifact.Manifest) (int, error) {
	if !ChecksumFunction.Available() {
		return 0, errHashUnavailable
	}

	a := &applier{
		ctx:    ctx,
		src:    src,
		target: target,
	}

	if err := m.Walk(a); err != nil {
		return a.applied, fmt.Errorf("deploy: %w", err)
	}

	return a.applied, nil
}

// VisitFile replaces one file in place.
func (a *applier) VisitFile(op artifact.File) error {
	if err := a.ctx.Err(); err != nil {
		return err
	}

	return a.replace(op.Source, a.destination(op.Destination))
}

// VisitDirectory replaces every file of the subtree, leaving other target files alone.
func (a *applier) VisitDirectory(op artifact.Directory) error {
	if err := a.ctx.Err(); err != nil {
		return err
	}

	root := a.destination(op.Destination)

	return fsutil.WalkTree(a.src, op.Source, func(rel string, info os.FileInfo) error {
		destination := filepath.Join(root, filepath.FromSlash(rel))

		if info.IsDir() {
			return os.MkdirAll(destination, fsutil.DefaultDirMode)
		}

		return a.replace(a.src.Join(op.Source, rel), destination)
	})
}

// VisitCreateEmptyDirectory makes sure the directory exists.
func (a *applier) VisitCreateEmptyDirectory(op artifact.CreateEmptyDirectory) error {
	if err := a.ctx.Err(); err != nil {
		return err
	}

	return os.MkdirAll(a.destination(op.Destination), fsutil.DefaultDirMode)
}

// replace swaps destination for the content of source using go-update.
func (a *applier) replace(source, destination string) error {
	info, err := a.src.Stat(source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}

	in, err := a.src.Open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}

	data, err := io.ReadAll(in)
	_ = in.Close()

	if err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}

	if err = os.MkdirAll(filepath.Dir(destination), fsutil.DefaultDirMode); err != nil {
		return fmt.Errorf("create parent of %s: %w", destination, err)
	}

	// go-update renames the current file aside, so it has to exist.
	if _, err = os.Stat(destination); errors.Is(err, os.ErrNotExist) {
		var placeholder *os.File

		placeholder, err = os.Create(destination)
		if err != nil {
			return fmt.Errorf("create %s: %w", destination, err)
		}

		_ = placeholder.Close()
	}

	hasher := ChecksumFunction.New()
	_, _ = hasher.Write(data)

	logger.InfoKV(a.ctx, "Replacing file", "source", source, "destination", destination)

	options := goupdate.Options{
		TargetPath: destination,
		TargetMode: info.Mode().Perm(),
		Checksum:   hasher.Sum(nil),
		Hash:       ChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("replace %s: %w", destination, err)
	}

	// Windows keeps the previous binary next to the new one.
	if old := destination + ".old"; fileExists(old) {
		_ = os.Remove(old)
	}

	a.applied++

	return nil
}

// destination maps a manifest destination below the installation root.
func (a *applier) destination(dst string) string {
	return filepath.Join(a.target, filepath.FromSlash(dst))
}

func fileExists(name string) bool {
	_, err := os.Stat(name)

	return err == nil
}
