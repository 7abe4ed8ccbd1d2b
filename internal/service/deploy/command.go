package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/eigeen/LuaFramework/internal/config"
	"github.com/eigeen/LuaFramework/internal/logger"
	"github.com/eigeen/LuaFramework/internal/runner"
	"github.com/eigeen/LuaFramework/internal/service/build"
)

var (
	// ErrHostRunning is returned while the game process is alive and holds the files.
	ErrHostRunning = errors.New("host process is running")
	// ErrTargetRequired is returned when no installation root is configured.
	ErrTargetRequired = errors.New("deploy target must be provided")
	// ErrTargetNotDirectory is returned when the installation root is not a directory.
	ErrTargetNotDirectory = errors.New("deploy target is not a directory")
)

// Options are inputs accepted by the deploy entry point.
type Options struct {
	// ConfigPath is an optional YAML configuration; empty means built-in defaults.
	ConfigPath string
	// Target overrides the configured installation root.
	Target string
	// SkipBuild deploys whatever the previous build left behind.
	SkipBuild bool

	// Filesystem overrides the workspace filesystem (osfs rooted at Workdir by default).
	Filesystem billy.Filesystem
	// Runner overrides the process runner used for builds.
	Runner runner.Runner
}

// Run builds the native components and copies the deploy manifest into the installation.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "luaf-deploy")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	manifest, err := cfg.DeployManifest()
	if err != nil {
		return err
	}

	target := cfg.Deploy.Target
	if opts.Target != "" {
		target = opts.Target
	}

	if err = checkTarget(target); err != nil {
		return err
	}

	if err = ensureHostStopped(ctx, cfg.Deploy.Process); err != nil {
		return err
	}

	if !opts.SkipBuild {
		r := opts.Runner
		if r == nil {
			r = runner.New(runner.WithConsole())
		}

		logger.Info(ctx, "Building native components")

		if _, err = build.New(r, cfg.Workdir, cfg.Build).Run(ctx); err != nil {
			return fmt.Errorf("build: %w", err)
		}
	}

	workspace := opts.Filesystem
	if workspace == nil {
		workspace = osfs.New(cfg.Workdir)
	}

	logger.InfoKV(ctx, "Deploying into installation", "target", target, "operations", manifest.Len())

	applied, err := apply(ctx, workspace, target, manifest)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Deploy completed", "files", applied)

	return nil
}

// checkTarget requires an existing installation directory.
func checkTarget(target string) error {
	if target == "" {
		return ErrTargetRequired
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("deploy target: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", target, ErrTargetNotDirectory)
	}

	return nil
}

// ensureHostStopped fails when the configured host executable is running.
func ensureHostStopped(ctx context.Context, process string) error {
	if process == "" {
		return nil
	}

	running, err := isProcessRunning(process)
	if err != nil {
		// Not fatal: the copy itself will fail on locked files.
		logger.WarnKV(ctx, "Unable to check host process", "process", process, "error", err)
		return nil
	}

	if running {
		return fmt.Errorf("%s: %w", process, ErrHostRunning)
	}

	return nil
}
