package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/eigeen/LuaFramework/internal/config"
	"github.com/eigeen/LuaFramework/internal/logger"
	"github.com/eigeen/LuaFramework/internal/runner"
)

// ErrStepFailed is returned when a step fails and FailOnError is set.
var ErrStepFailed = errors.New("build step failed")

// Orchestrator runs the configured build steps in order.
type Orchestrator struct {
	// runner executes each step.
	runner runner.Runner
	// workdir is the base for relative step directories.
	workdir string
	// steps are executed sequentially.
	steps []config.BuildStep
	// failOnError aborts the run on the first unsuccessful step.
	failOnError bool
}

// New creates an orchestrator for the build section of cfg.
func New(r runner.Runner, workdir string, build config.Build) *Orchestrator {
	return &Orchestrator{
		runner:      r,
		workdir:     workdir,
		steps:       append([]config.BuildStep(nil), build.Steps...),
		failOnError: build.FailOnError,
	}
}

// Run executes every step and waits for each one before starting the next.
// It returns the results in step order.
func (o *Orchestrator) Run(ctx context.Context) ([]*runner.Result, error) {
	ctx = logger.WithName(ctx, "build")
	results := make([]*runner.Result, 0, len(o.steps))

	for _, step := range o.steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		command := o.command(step)

		logger.InfoKV(ctx, "Running build step", "step", command.Name, "command", command.String(), "dir", command.Dir)

		result := o.runner.Run(ctx, command)
		results = append(results, result)

		if result.Succeeded() {
			logger.InfoKV(ctx, "Build step finished", "step", command.Name)
			continue
		}

		logger.WarnKV(ctx, "Build step did not succeed",
			"step", command.Name,
			"status", result.Status.String(),
			"exit_code", result.ExitCode,
			"error", result.Err)

		if o.failOnError {
			return results, fmt.Errorf("%s (%s, exit code %d): %w",
				command.Name, result.Status, result.ExitCode, ErrStepFailed)
		}

		logger.Warn(ctx, "Continuing: artifacts of this step may be stale or missing")
	}

	return results, nil
}

// command converts a configured step into a runner command.
func (o *Orchestrator) command(step config.BuildStep) runner.Command {
	name := step.Name
	if name == "" {
		name = step.Program
	}

	dir := o.workdir
	if step.Dir != "" {
		dir = filepath.Join(o.workdir, filepath.FromSlash(step.Dir))
	}

	return runner.Command{
		Name:    name,
		Program: step.Program,
		Args:    append([]string(nil), step.Args...),
		Dir:     dir,
	}
}
