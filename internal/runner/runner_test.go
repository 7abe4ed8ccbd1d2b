package runner

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// skipWithoutShell skips tests relying on a POSIX shell.
func skipWithoutShell(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// TestExecRunner_Succeeded captures combined output of a successful command.
func TestExecRunner_Succeeded(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	r := New(WithCapture())

	res := r.Run(context.Background(), Command{Program: "sh", Args: []string{"-c", "echo out; echo err 1>&2"}})
	require.True(t, res.Succeeded())
	require.Equal(t, StatusSucceeded, res.Status)
	require.Equal(t, 0, res.ExitCode)
	require.NoError(t, res.Err)
	require.Contains(t, res.Output, "out")
	require.Contains(t, res.Output, "err")
}

// TestExecRunner_CaptureBothStreams keeps every byte when both streams write heavily.
func TestExecRunner_CaptureBothStreams(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	const lines = 2000

	script := `i=0; while [ $i -lt 2000 ]; do echo out; echo err 1>&2; i=$((i+1)); done`

	res := New(WithCapture()).Run(context.Background(), Command{Program: "sh", Args: []string{"-c", script}})
	require.True(t, res.Succeeded())
	require.Len(t, res.Output, lines*len("out\n")*2)
	require.Equal(t, lines, strings.Count(res.Output, "o"))
	require.Equal(t, lines, strings.Count(res.Output, "e"))
}

// TestExecRunner_Failed reports the exit code of a failing command.
func TestExecRunner_Failed(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	res := New().Run(context.Background(), Command{Program: "sh", Args: []string{"-c", "exit 3"}})
	require.False(t, res.Succeeded())
	require.Equal(t, StatusFailed, res.Status)
	require.Equal(t, 3, res.ExitCode)
	require.Error(t, res.Err)
	require.Empty(t, res.Output)
}

// TestExecRunner_NotStarted distinguishes a launch failure from a failed run.
func TestExecRunner_NotStarted(t *testing.T) {
	t.Parallel()

	res := New().Run(context.Background(), Command{Program: "luaf-definitely-missing-tool"})
	require.Equal(t, StatusNotStarted, res.Status)
	require.Equal(t, -1, res.ExitCode)
	require.Error(t, res.Err)
}

// TestExecRunner_DirAndEnv checks working directory and extra environment.
func TestExecRunner_DirAndEnv(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	dir := t.TempDir()
	var out strings.Builder

	res := New(WithOutput(&out, nil)).Run(context.Background(), Command{
		Program: "sh",
		Args:    []string{"-c", `pwd; echo "$LUAF_TEST"`},
		Dir:     dir,
		Env:     map[string]string{"LUAF_TEST": "yes"},
	})
	require.True(t, res.Succeeded())
	require.Contains(t, out.String(), "yes")
	require.Empty(t, res.Output)
}

// TestCommand_String renders the command line.
func TestCommand_String(t *testing.T) {
	t.Parallel()

	cmd := Command{Program: "cargo", Args: []string{"build", "--release"}}
	require.Equal(t, "cargo build --release", cmd.String())
	require.Equal(t, "not started", StatusNotStarted.String())
}
