package fsutil

import (
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// TestWalkTree_LexicalParentsFirst verifies the walk order and slash-relative names.
func TestWalkTree_LexicalParentsFirst(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "root/b.txt", []byte("b"), 0o644))
	require.NoError(t, util.WriteFile(fs, "root/a/z.txt", []byte("z"), 0o644))
	require.NoError(t, util.WriteFile(fs, "root/a/c.txt", []byte("c"), 0o644))
	require.NoError(t, fs.MkdirAll("root/empty", DefaultDirMode))

	var visited []string

	err := WalkTree(fs, "root", func(rel string, _ os.FileInfo) error {
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "a/c.txt", "a/z.txt", "b.txt", "empty"}, visited)
}

// TestWalkTree_Errors covers missing roots and file roots.
func TestWalkTree_Errors(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "file.txt", []byte("x"), 0o644))

	noop := func(string, os.FileInfo) error { return nil }

	require.ErrorIs(t, WalkTree(fs, "missing", noop), os.ErrNotExist)
	require.ErrorIs(t, WalkTree(fs, "file.txt", noop), ErrNotDirectory)
}

// TestCopyFile_CreatesParentsAndOverwrites checks content, parents and truncation.
func TestCopyFile_CreatesParentsAndOverwrites(t *testing.T) {
	t.Parallel()

	src, dst := memfs.New(), memfs.New()
	require.NoError(t, util.WriteFile(src, "in.bin", []byte("new"), 0o640))
	require.NoError(t, util.WriteFile(dst, "deep/dir/out.bin", []byte("much longer old content"), 0o644))

	require.NoError(t, CopyFile(src, "in.bin", dst, "deep/dir/out.bin"))

	got, err := util.ReadFile(dst, "deep/dir/out.bin")
	require.NoError(t, err)
	require.Equal(t, "new", string(got))

	require.NoError(t, CopyFile(src, "in.bin", dst, "top.bin"))

	got, err = util.ReadFile(dst, "top.bin")
	require.NoError(t, err)
	require.Equal(t, "new", string(got))

	require.ErrorIs(t, CopyFile(src, "missing.bin", dst, "x"), os.ErrNotExist)
}

// TestRecreate_RemovesStaleContent ensures the root comes back empty.
func TestRecreate_RemovesStaleContent(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "dist/stale/file.txt", []byte("old"), 0o644))

	require.NoError(t, Recreate(fs, "dist"))

	entries, err := fs.ReadDir("dist")
	require.NoError(t, err)
	require.Empty(t, entries)

	// A missing root is simply created.
	require.NoError(t, Recreate(fs, "fresh"))

	exists, err := Exists(fs, "fresh")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = Exists(fs, "nope")
	require.NoError(t, err)
	require.False(t, exists)
}
