// Package execute runs the post-translation commands of a rule set.
package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
)

// CommandError reports a command that exited unsuccessfully.
type CommandError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("command %q: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes shell commands, forwarding their output.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
}

// NewRunner returns a Runner attached to the process stdout and stderr.
func NewRunner() *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes commands in order through the platform shell. It stops at the
// first command that fails and returns a *CommandError for it.
func (r *Runner) Run(ctx context.Context, commands []string) error {
	for i, c := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info().Int("step", i+1).Int("total", len(commands)).Str("command", c).Msg("Executing")
		if err := r.run(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, command string) error {
	name, args := shell(command)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Command: command, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return &CommandError{Command: command, ExitCode: -1, Err: err}
}

func shell(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "sh", []string{"-c", command}
}
