package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/eigeen/LuaFramework/internal/config"
	"github.com/eigeen/LuaFramework/internal/domain/artifact"
)

// newWorkspace lays out a small plugin repository and returns its root.
func newWorkspace(t *testing.T, cargo string) string {
	t.Helper()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "Cargo.toml"), cargo)
	writeFile(t, filepath.Join(dir, "target/release/lua_framework.dll"), "core")
	writeFile(t, filepath.Join(dir, "scripts/_framework/init.lua"), "-- init")
	writeFile(t, filepath.Join(dir, "scripts/_framework/lib/util.lua"), "-- util")

	return dir
}

// writeConfig stores a configuration without build steps for workdir and returns its path.
func writeConfig(t *testing.T, workdir string, mutate func(cfg *config.Config)) string {
	t.Helper()

	cfg := config.Default()
	cfg.Workdir = workdir
	cfg.Build.Steps = nil
	cfg.Artifacts = []artifact.Entry{
		{Kind: artifact.KindFile, Source: "target/release/lua_framework.dll", Destination: "lua_framework.dll"},
		{Kind: artifact.KindCreateEmptyDirectory, Destination: "lua_framework/scripts"},
		{Kind: artifact.KindDirectory, Source: "scripts/_framework", Destination: "lua_framework/scripts/_framework"},
	}
	cfg.Deploy.Artifacts = []artifact.Entry{
		{Kind: artifact.KindFile, Source: "target/release/lua_framework.dll", Destination: "lua_framework.dll"},
	}

	if mutate != nil {
		mutate(cfg)
	}

	name := filepath.Join(t.TempDir(), "luaf.yaml")
	require.NoError(t, config.Save(name, cfg))

	return name
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

func readFile(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	return string(data)
}

// archiveNames lists entry names of a zip archive in archive order.
func archiveNames(t *testing.T, name string) []string {
	t.Helper()

	reader, err := zip.OpenReader(name)
	require.NoError(t, err)

	defer func() {
		_ = reader.Close()
	}()

	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		names = append(names, file.Name)
	}

	return names
}

// commitAll turns dir into a git repository with a single commit and returns the short hash.
func commitAll(t *testing.T, dir string) string {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	_, err = worktree.Add("Cargo.toml")
	require.NoError(t, err)

	hash, err := worktree.Commit("release", &git.CommitOptions{
		Author: &object.Signature{Name: "luaf", Email: "luaf@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return hash.String()[:7]
}
