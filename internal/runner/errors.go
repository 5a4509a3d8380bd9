package runner

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrOutputExists means the output directory holds a completed run and
	// neither overwrite nor exists-ok was requested.
	ErrOutputExists = errors.New("output directory already holds a completed run")

	// ErrToolFailed means antiSMASH ran and exited with a nonzero status.
	ErrToolFailed = errors.New("antiSMASH failed")
)

type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, ErrOutputExists)
}

// Is matches ErrOutputExists and fs.ErrExist.
func (e *ExistsError) Is(target error) bool {
	return target == ErrOutputExists || target == fs.ErrExist
}

// ToolError carries the diagnostics of a failed antiSMASH run.
type ToolError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("antiSMASH exited with status %d", e.ExitCode)
}

func (e *ToolError) Is(target error) bool {
	return target == ErrToolFailed
}
