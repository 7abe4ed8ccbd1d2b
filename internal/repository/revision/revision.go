package revision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/eigeen/LuaFramework/internal/config"
	"github.com/eigeen/LuaFramework/internal/domain/release"
	"github.com/eigeen/LuaFramework/internal/logger"
	"github.com/eigeen/LuaFramework/internal/runner"
)

// shortHashLength matches the default abbreviation of `git rev-parse --short`.
const shortHashLength = 7

// errUnknownSource is returned by New for an unsupported source.
var errUnknownSource = errors.New("unknown revision source")

// Resolver returns the short commit id of the workspace checkout.
type Resolver interface {
	Resolve(ctx context.Context) release.Revision
}

// New returns the resolver for the configured source.
//
//nolint:ireturn // Callers only need the Resolver behaviour.
func New(source, workdir string, r runner.Runner) (Resolver, error) {
	switch source {
	case config.RevisionSourceCLI, "":
		return NewCLIResolver(r, workdir), nil
	case config.RevisionSourceRepository:
		return NewRepositoryResolver(workdir), nil
	default:
		return nil, fmt.Errorf("%q: %w", source, errUnknownSource)
	}
}

// CLIResolver asks the git command line tool.
type CLIResolver struct {
	// runner executes git with output capture.
	runner runner.Runner
	// workdir is the checkout to query.
	workdir string
}

// NewCLIResolver creates a resolver running `git rev-parse --short HEAD` in workdir.
func NewCLIResolver(r runner.Runner, workdir string) *CLIResolver {
	return &CLIResolver{
		runner:  r,
		workdir: workdir,
	}
}

// Resolve implements Resolver.
func (c *CLIResolver) Resolve(ctx context.Context) release.Revision {
	result := c.runner.Run(ctx, runner.Command{
		Name:    "git-revision",
		Program: "git",
		Args:    []string{"rev-parse", "--short", "HEAD"},
		Dir:     c.workdir,
	})

	if !result.Succeeded() {
		logger.WarnKV(ctx, "Unable to query commit revision",
			"status", result.Status.String(),
			"exit_code", result.ExitCode,
			"output", strings.TrimSpace(result.Output),
			"error", result.Err)

		return release.Revision{}
	}

	id := strings.TrimSpace(result.Output)
	if id == "" {
		logger.Warn(ctx, "git returned an empty commit revision")
		return release.Revision{}
	}

	return release.Revision{ID: id, Known: true}
}

// RepositoryResolver reads HEAD directly from the repository with go-git.
type RepositoryResolver struct {
	// workdir is any path inside the checkout; .git is searched upwards.
	workdir string
}

// NewRepositoryResolver creates a go-git based resolver.
func NewRepositoryResolver(workdir string) *RepositoryResolver {
	return &RepositoryResolver{
		workdir: workdir,
	}
}

// Resolve implements Resolver.
func (r *RepositoryResolver) Resolve(ctx context.Context) release.Revision {
	repo, err := git.PlainOpenWithOptions(r.workdir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logger.WarnKV(ctx, "Unable to open git repository", "workdir", r.workdir, "error", err)
		return release.Revision{}
	}

	head, err := repo.Head()
	if err != nil {
		logger.WarnKV(ctx, "Unable to read HEAD", "workdir", r.workdir, "error", err)
		return release.Revision{}
	}

	hash := head.Hash().String()
	if len(hash) > shortHashLength {
		hash = hash[:shortHashLength]
	}

	return release.Revision{ID: hash, Known: true}
}
