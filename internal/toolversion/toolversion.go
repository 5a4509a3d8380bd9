// Package toolversion asks the installed antiSMASH for its version and
// compares it against the minimum a run needs.
package toolversion

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/sixban6/smashrun/internal/command"
	"github.com/sixban6/smashrun/internal/envwrap"
	"github.com/sixban6/smashrun/internal/executor"
)

// MibigMinimum is the first release that understands --cc-mibig.
const MibigMinimum = "v6.0.0"

var versionPattern = regexp.MustCompile(`(?i)antismash\s+v?(\d+\.\d+(?:\.\d+)?[0-9A-Za-z.+-]*)`)

// Target describes how the tool is launched.
type Target struct {
	Executable string
	CondaEnv   string
	CondaExe   string
	Shell      string
}

type Finder interface {
	Installed(ctx context.Context, t Target) (string, error)
}

// ExecFinder runs `<executable> --version` inside the target environment.
type ExecFinder struct {
	exec executor.Executor
}

func NewExecFinder(e executor.Executor) *ExecFinder {
	if e == nil {
		e = executor.NewShell()
	}
	return &ExecFinder{exec: e}
}

func (f *ExecFinder) Installed(ctx context.Context, t Target) (string, error) {
	cmd := envwrap.Wrap(command.Join([]string{t.Executable, "--version"}), t.CondaEnv, t.CondaExe, t.Shell)
	out, err := f.exec.Run(ctx, t.Shell, cmd)
	if err != nil {
		return "", fmt.Errorf("failed to query %s version: %w", t.Executable, err)
	}
	if !out.Success() {
		return "", fmt.Errorf("%s --version exited with status %d: %s",
			t.Executable, out.ExitCode, strings.TrimSpace(string(out.Stderr)))
	}
	return Parse(string(out.Stdout) + "\n" + string(out.Stderr))
}

// Parse extracts a semver tag from `antismash --version` output, e.g.
// "antiSMASH 7.1.0-1a2b3c" -> "v7.1.0".
func Parse(out string) (string, error) {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("no antiSMASH version in %q", strings.TrimSpace(out))
	}
	v := normalizeTag(m[1])
	if !semver.IsValid(v) {
		return "", fmt.Errorf("unparseable antiSMASH version %q", m[1])
	}
	return semver.Canonical(v), nil
}

// Required returns the minimum version for a run at level, taking the
// higher of configured and what the tier's flags need. Empty means any.
func Required(level command.Completeness, configured string) string {
	need := ""
	if configured != "" {
		need = normalizeTag(configured)
	}
	if level >= 3 && (need == "" || semver.Compare(MibigMinimum, need) > 0) {
		need = MibigMinimum
	}
	return need
}

// Check fails when installed is older than min.
func Check(installed, min string) error {
	if min == "" {
		return nil
	}
	min = normalizeTag(min)
	if !semver.IsValid(min) {
		return fmt.Errorf("invalid minimum version %q", min)
	}
	installed = normalizeTag(installed)
	if !semver.IsValid(installed) {
		return fmt.Errorf("invalid installed version %q", installed)
	}
	if semver.Compare(installed, min) < 0 {
		return fmt.Errorf("antiSMASH %s is older than required %s", installed, min)
	}
	return nil
}

func normalizeTag(tag string) string {
	if tag == "" {
		return ""
	}

	if strings.HasPrefix(tag, "v") {
		return tag
	}

	return "v" + tag
}
