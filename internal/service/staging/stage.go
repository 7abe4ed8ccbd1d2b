package staging

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/eigeen/LuaFramework/internal/domain/artifact"
	"github.com/eigeen/LuaFramework/internal/fsutil"
	"github.com/eigeen/LuaFramework/internal/logger"
)

// ErrDestinationExists is returned when a directory copy would merge into an existing path.
var ErrDestinationExists = errors.New("destination already exists")

// stager applies manifest operations below root on dst.
type stager struct {
	//nolint:containedctx // Visitor methods have no context parameter.
	ctx  context.Context
	src  billy.Filesystem
	dst  billy.Filesystem
	root string
}

// Stage deletes root, recreates it empty and applies m to it in order.
// Sources are read from src; everything is written below root on dst.
func Stage(ctx context.Context, src, dst billy.Filesystem, root string, m artifact.Manifest) error {
	ctx = logger.WithName(ctx, "staging")

	logger.InfoKV(ctx, "Recreating output directory", "path", root)

	if err := fsutil.Recreate(dst, root); err != nil {
		return err
	}

	s := &stager{
		ctx:  ctx,
		src:  src,
		dst:  dst,
		root: root,
	}

	if err := m.Walk(s); err != nil {
		return fmt.Errorf("stage: %w", err)
	}

	logger.InfoKV(ctx, "Staged artifacts", "operations", m.Len(), "path", root)

	return nil
}

// VisitFile copies one file, overwriting any existing destination.
func (s *stager) VisitFile(op artifact.File) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	logger.DebugKV(s.ctx, "Copying file", "source", op.Source, "destination", op.Destination)

	return fsutil.CopyFile(s.src, op.Source, s.dst, s.target(op.Destination))
}

// VisitDirectory copies a whole subtree into a destination that must not exist yet.
func (s *stager) VisitDirectory(op artifact.Directory) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	info, err := s.src.Stat(op.Source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", op.Source, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", op.Source, fsutil.ErrNotDirectory)
	}

	target := s.target(op.Destination)

	exists, err := fsutil.Exists(s.dst, target)
	if err != nil {
		return err
	}

	if exists {
		return fmt.Errorf("%s: %w", op.Destination, ErrDestinationExists)
	}

	logger.DebugKV(s.ctx, "Copying directory", "source", op.Source, "destination", op.Destination)

	if err = s.dst.MkdirAll(target, fsutil.DefaultDirMode); err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	return fsutil.WalkTree(s.src, op.Source, func(rel string, info os.FileInfo) error {
		destination := s.dst.Join(target, rel)

		if info.IsDir() {
			return s.dst.MkdirAll(destination, fsutil.DefaultDirMode)
		}

		return fsutil.CopyFile(s.src, s.src.Join(op.Source, rel), s.dst, destination)
	})
}

// VisitCreateEmptyDirectory creates the destination and any missing parents.
func (s *stager) VisitCreateEmptyDirectory(op artifact.CreateEmptyDirectory) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	logger.DebugKV(s.ctx, "Creating directory", "destination", op.Destination)

	return s.dst.MkdirAll(s.target(op.Destination), fsutil.DefaultDirMode)
}

// target maps a manifest destination below the output root.
func (s *stager) target(destination string) string {
	return s.dst.Join(s.root, destination)
}
