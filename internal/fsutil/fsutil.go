package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// DefaultDirMode is used for every directory created by the engines.
const DefaultDirMode os.FileMode = 0o755

// ErrNotDirectory is returned when a tree walk starts from a regular file.
var ErrNotDirectory = errors.New("not a directory")

// WalkFunc is called for every entry below the walk root.
// rel is slash-separated and relative to the root.
type WalkFunc func(rel string, info os.FileInfo) error

// WalkTree visits every directory and file below root in lexical order,
// parents before children. The root itself is not reported.
func WalkTree(fs billy.Filesystem, root string, fn WalkFunc) error {
	info, err := fs.Stat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	return walk(fs, root, "", fn)
}

func walk(fs billy.Filesystem, dir, rel string, fn WalkFunc) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		entryRel := path.Join(rel, entry.Name())
		entryPath := fs.Join(dir, entry.Name())

		if err = fn(entryRel, entry); err != nil {
			return err
		}

		if !entry.IsDir() {
			continue
		}

		if err = walk(fs, entryPath, entryRel, fn); err != nil {
			return err
		}
	}

	return nil
}

// CopyFile copies srcPath from src into dstPath on dst, creating missing
// parents and overwriting an existing destination. Permission bits are kept.
func CopyFile(src billy.Filesystem, srcPath string, dst billy.Filesystem, dstPath string) error {
	info, err := src.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", srcPath, err)
	}

	if info.IsDir() {
		return fmt.Errorf("copy %s: is a directory", srcPath)
	}

	in, err := src.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}

	defer func() {
		_ = in.Close()
	}()

	if parent := filepath.Dir(dstPath); parent != "." && parent != string(filepath.Separator) {
		if err = dst.MkdirAll(parent, DefaultDirMode); err != nil {
			return fmt.Errorf("create parent of %s: %w", dstPath, err)
		}
	}

	out, err := dst.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dstPath, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("copy %s to %s: %w", srcPath, dstPath, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dstPath, err)
	}

	return nil
}

// Recreate removes root with everything below it and creates it again empty.
func Recreate(fs billy.Filesystem, root string) error {
	if err := util.RemoveAll(fs, root); err != nil {
		return fmt.Errorf("remove %s: %w", root, err)
	}

	if err := fs.MkdirAll(root, DefaultDirMode); err != nil {
		return fmt.Errorf("create %s: %w", root, err)
	}

	return nil
}

// Exists reports whether name exists on fs.
func Exists(fs billy.Filesystem, name string) (bool, error) {
	_, err := fs.Stat(name)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
}
