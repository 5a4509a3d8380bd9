// Package executor runs composed command lines through a shell and captures
// what they print.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Output is what a finished command left behind. A nonzero ExitCode is a
// tool failure, not a Go error.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

func (o *Output) Success() bool { return o.ExitCode == 0 }

type Executor interface {
	Run(ctx context.Context, shell, command string) (*Output, error)
}

// ShellExecutor runs commands as `<shell> -c <command>`.
type ShellExecutor struct{}

func NewShell() *ShellExecutor {
	return &ShellExecutor{}
}

func (e *ShellExecutor) Run(ctx context.Context, shell, command string) (*Output, error) {
	if _, err := exec.LookPath(shell); err != nil {
		return nil, fmt.Errorf("shell %s not found: %w", shell, err)
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	setProcAttr(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case ctx.Err() != nil:
		return out, fmt.Errorf("%s interrupted: %w", shell, ctx.Err())
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	default:
		return nil, fmt.Errorf("failed to start %s: %w", shell, err)
	}
}
