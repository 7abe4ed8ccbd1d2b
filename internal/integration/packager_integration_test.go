package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/eigeen/LuaFramework/internal/config"
	"github.com/eigeen/LuaFramework/internal/domain/artifact"
	"github.com/eigeen/LuaFramework/internal/domain/release"
	"github.com/eigeen/LuaFramework/internal/service/build"
	"github.com/eigeen/LuaFramework/internal/service/packager"
)

// TestPackager_Release produces the release archive and its description on disk.
func TestPackager_Release(t *testing.T) {
	t.Parallel()

	dir := newWorkspace(t, "[package]\nname = \"lua-framework\"\nversion = \"1.2.3\"\n")
	configPath := writeConfig(t, dir, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := packager.Run(ctx, &packager.Options{ConfigPath: configPath, Mode: release.ModeRelease})
	require.NoError(t, err)
	require.Equal(t, "dist/lua-framework_v1.2.3.zip", result.ArchivePath)

	require.Equal(t, []string{
		"lua_framework.dll",
		"lua_framework/scripts/",
		"lua_framework/scripts/_framework/init.lua",
		"lua_framework/scripts/_framework/lib/util.lua",
	}, archiveNames(t, filepath.Join(dir, result.ArchivePath)))

	// The staged tree stays next to the archive.
	require.Equal(t, "-- util", readFile(t, filepath.Join(dir, "dist/lua_framework/scripts/_framework/lib/util.lua")))

	data, err := os.ReadFile(filepath.Join(dir, result.DescriptionPath))
	require.NoError(t, err)

	var desc packager.Description
	require.NoError(t, yaml.Unmarshal(data, &desc))
	require.Equal(t, "1.2.3", desc.Version)
	require.Equal(t, "release", desc.Mode)
	require.Equal(t, "lua-framework_v1.2.3.zip", desc.Package)
	require.Empty(t, desc.Revision)
	require.NotEmpty(t, desc.Checksum)
	require.Len(t, desc.Entries, 4)
	require.Empty(t, desc.Entries[1].Checksum)
}

// TestPackager_DevWithRepositoryRevision appends the commit id read through go-git.
func TestPackager_DevWithRepositoryRevision(t *testing.T) {
	t.Parallel()

	dir := newWorkspace(t, "version = \"0.3.0\"\n")
	short := commitAll(t, dir)

	configPath := writeConfig(t, dir, func(cfg *config.Config) {
		cfg.Revision.Source = config.RevisionSourceRepository
	})

	result, err := packager.Run(context.Background(), &packager.Options{ConfigPath: configPath, Mode: release.ModeDev})
	require.NoError(t, err)
	require.Equal(t, "dist/lua-framework_v0.3.0-dev-"+short+".zip", result.ArchivePath)
	require.Equal(t, short, result.Description.Revision)

	_, err = os.Stat(filepath.Join(dir, result.ArchivePath))
	require.NoError(t, err)
}

// TestPackager_DevWithoutRepository falls back to the revision-less dev name.
func TestPackager_DevWithoutRepository(t *testing.T) {
	t.Parallel()

	dir := newWorkspace(t, "version = \"0.3.0\"\n")
	configPath := writeConfig(t, dir, func(cfg *config.Config) {
		cfg.Revision.Source = config.RevisionSourceRepository
	})

	result, err := packager.Run(context.Background(), &packager.Options{ConfigPath: configPath, Mode: release.ModeDev})
	require.NoError(t, err)
	require.Equal(t, "dist/lua-framework_v0.3.0-dev.zip", result.ArchivePath)
}

// TestPackager_MissingVersion keeps going with an empty version unless strict.
func TestPackager_MissingVersion(t *testing.T) {
	t.Parallel()

	dir := newWorkspace(t, "[package]\nname = \"lua-framework\"\n")

	result, err := packager.Run(context.Background(), &packager.Options{ConfigPath: writeConfig(t, dir, nil)})
	require.NoError(t, err)
	require.Equal(t, "dist/lua-framework_v.zip", result.ArchivePath)

	strict := writeConfig(t, dir, func(cfg *config.Config) {
		cfg.StrictVersion = true
	})

	_, err = packager.Run(context.Background(), &packager.Options{ConfigPath: strict})
	require.ErrorIs(t, err, packager.ErrVersionNotFound)
}

// TestPackager_MissingSource aborts without producing an archive.
func TestPackager_MissingSource(t *testing.T) {
	t.Parallel()

	dir := newWorkspace(t, "version = \"1.0.0\"\n")
	configPath := writeConfig(t, dir, func(cfg *config.Config) {
		cfg.Artifacts = append(cfg.Artifacts, artifact.Entry{
			Kind:        artifact.KindFile,
			Source:      "lib/cimgui.dll",
			Destination: "lua_framework/bin/cimgui.dll",
		})
	})

	_, err := packager.Run(context.Background(), &packager.Options{ConfigPath: configPath})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(dir, "dist/lua-framework_v1.0.0.zip"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestPackager_FailedBuildStep logs and continues unless fail_on_error is set.
func TestPackager_FailedBuildStep(t *testing.T) {
	t.Parallel()

	dir := newWorkspace(t, "version = \"1.0.0\"\n")
	step := config.BuildStep{Name: "missing-toolchain", Program: "luaf-no-such-toolchain"}

	lenient := writeConfig(t, dir, func(cfg *config.Config) {
		cfg.Build.Steps = []config.BuildStep{step}
	})

	_, err := packager.Run(context.Background(), &packager.Options{ConfigPath: lenient})
	require.NoError(t, err)

	strict := writeConfig(t, dir, func(cfg *config.Config) {
		cfg.Build.Steps = []config.BuildStep{step}
		cfg.Build.FailOnError = true
	})

	_, err = packager.Run(context.Background(), &packager.Options{ConfigPath: strict})
	require.ErrorIs(t, err, build.ErrStepFailed)
}
