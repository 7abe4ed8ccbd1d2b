package packager

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/eigeen/LuaFramework/internal/config"
	"github.com/eigeen/LuaFramework/internal/domain/artifact"
	"github.com/eigeen/LuaFramework/internal/domain/release"
	"github.com/eigeen/LuaFramework/internal/logger"
	"github.com/eigeen/LuaFramework/internal/repository/revision"
	"github.com/eigeen/LuaFramework/internal/repository/versionfile"
	"github.com/eigeen/LuaFramework/internal/runner"
	"github.com/eigeen/LuaFramework/internal/service/archive"
	"github.com/eigeen/LuaFramework/internal/service/build"
	"github.com/eigeen/LuaFramework/internal/service/staging"
)

// ErrVersionNotFound is returned in strict mode when the version file has no version line.
var ErrVersionNotFound = errors.New("version line not found")

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional YAML configuration; empty means built-in defaults.
	ConfigPath string
	// Mode selects release or dev naming.
	Mode release.Mode

	// Filesystem overrides the workspace filesystem (osfs rooted at Workdir by default).
	Filesystem billy.Filesystem
	// Runner overrides the process runner used for build steps (console output by default).
	Runner runner.Runner
	// GitRunner overrides the runner used to query the commit revision (captured output by default).
	GitRunner runner.Runner
}

// Result describes the package produced by a successful run.
type Result struct {
	// ArchivePath is the archive location relative to the workspace.
	ArchivePath string
	// DescriptionPath is the release description location relative to the workspace.
	DescriptionPath string
	// Description is the content written to DescriptionPath.
	Description *Description
}

// packager holds the state of a single packaging run.
// Callers should use Run.
type packager struct {
	// cfg is the validated configuration.
	cfg *config.Config
	// mode is the naming policy of this run.
	mode release.Mode
	// workspace is rooted at cfg.Workdir; sources and the output dir live on it.
	workspace billy.Filesystem
	// runner executes build steps.
	runner runner.Runner
	// gitRunner executes git with captured output.
	gitRunner runner.Runner
	// manifest is the parsed packaging manifest.
	manifest artifact.Manifest
}

// Run executes the packaging workflow: build, stage, name, archive, describe.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "luaf-package")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	pkg, err := newPackager(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("initialize packager: %w", err)
	}

	result, err := pkg.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("packager failed: %w", err)
	}

	logger.InfoKV(ctx, "Packaging completed successfully", "archive", result.ArchivePath)

	return result, nil
}

// newPackager wires the run from configuration and optional overrides.
func newPackager(cfg *config.Config, opts *Options) (*packager, error) {
	manifest, err := cfg.Manifest()
	if err != nil {
		return nil, err
	}

	workspace := opts.Filesystem
	if workspace == nil {
		workspace = osfs.New(cfg.Workdir)
	}

	r := opts.Runner
	if r == nil {
		r = runner.New(runner.WithConsole())
	}

	gitRunner := opts.GitRunner
	if gitRunner == nil {
		gitRunner = runner.New(runner.WithCapture())
	}

	return &packager{
		cfg:       cfg,
		mode:      opts.Mode,
		workspace: workspace,
		runner:    r,
		gitRunner: gitRunner,
		manifest:  manifest,
	}, nil
}

// Run performs the packaging steps in order.
func (p *packager) Run(ctx context.Context) (*Result, error) {
	ctx = logger.WithKV(ctx, "mode", p.mode.String())

	logger.Info(ctx, "Building native components")

	if _, err := build.New(p.runner, p.cfg.Workdir, p.cfg.Build).Run(ctx); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	if err := staging.Stage(ctx, p.workspace, p.workspace, p.cfg.OutputDir, p.manifest); err != nil {
		return nil, err
	}

	version, err := p.resolveVersion(ctx)
	if err != nil {
		return nil, err
	}

	rev := p.resolveRevision(ctx)
	name := release.PackageName(p.cfg.Product, version, p.mode, rev)
	archivePath := path.Join(p.cfg.OutputDir, name)

	logger.InfoKV(ctx, "Packaging", "version", version.String(), "revision", rev.ID, "package", name)

	summary, err := archive.Write(ctx, p.workspace, p.workspace, archivePath, p.manifest)
	if err != nil {
		return nil, err
	}

	desc, err := newDescription(p.workspace, p.cfg.Product, version, p.mode, rev, summary)
	if err != nil {
		return nil, err
	}

	descriptionPath := path.Join(p.cfg.OutputDir, DescriptionFilename(p.cfg.Product))

	logger.InfoKV(ctx, "Saving release description", "path", descriptionPath)

	if err = saveDescription(p.workspace, descriptionPath, desc); err != nil {
		return nil, err
	}

	return &Result{
		ArchivePath:     archivePath,
		DescriptionPath: descriptionPath,
		Description:     desc,
	}, nil
}

// resolveVersion reads the crate version; a missing line is fatal only in strict mode.
func (p *packager) resolveVersion(ctx context.Context) (release.Version, error) {
	version, found, err := versionfile.Resolve(p.workspace, p.cfg.VersionFile)
	if err != nil {
		return release.Version{}, err
	}

	if found {
		return version, nil
	}

	if p.cfg.StrictVersion {
		return release.Version{}, fmt.Errorf("%s: %w", p.cfg.VersionFile, ErrVersionNotFound)
	}

	logger.WarnKV(ctx, "No version line found, the package name will have an empty version",
		"version_file", p.cfg.VersionFile)

	return version, nil
}

// resolveRevision queries the commit id in dev mode only.
func (p *packager) resolveRevision(ctx context.Context) release.Revision {
	if p.mode != release.ModeDev {
		return release.Revision{}
	}

	// Source was validated together with the configuration.
	resolver, err := revision.New(p.cfg.Revision.Source, p.cfg.Workdir, p.gitRunner)
	if err != nil {
		logger.WarnKV(ctx, "Revision resolver unavailable", "error", err)
		return release.Revision{}
	}

	rev := resolver.Resolve(ctx)
	if !rev.Known {
		logger.Warn(ctx, "Commit revision unknown, the dev package name will not carry it")
	}

	return rev
}
