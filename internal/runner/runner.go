// Package runner drives one antiSMASH invocation: it prepares the input,
// applies the output directory policy, builds and wraps the command, runs it
// and cleans up after itself.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sixban6/smashrun/internal/command"
	"github.com/sixban6/smashrun/internal/decompress"
	"github.com/sixban6/smashrun/internal/downloader"
	"github.com/sixban6/smashrun/internal/envwrap"
	"github.com/sixban6/smashrun/internal/executor"
	"github.com/sixban6/smashrun/internal/toolversion"
)

// MarkerFile is written by antiSMASH when a run finished.
const MarkerFile = "index.html"

type Options struct {
	command.Options

	CondaExe string
	CondaEnv string
	Shell    string

	// NoEnv runs the tool directly even when CondaEnv is set.
	NoEnv bool

	Silent    bool
	Dry       bool
	Overwrite bool
	ExistsOK  bool

	// MinVersion is the lowest antiSMASH release accepted. Empty means any,
	// although tiers that need newer flags still raise it.
	MinVersion  string
	DownloadDir string
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusDryRun    Status = "dry-run"
	StatusFailed    Status = "failed"
)

type Result struct {
	// OutputDir is absolute and set for every status.
	OutputDir string
	Command   string
	Status    Status
	ExitCode  int
	Stdout    []byte
	Stderr    []byte
}

type Runner struct {
	decompressor decompress.Decompressor
	executor     executor.Executor
	versions     toolversion.Finder
	downloader   downloader.Client
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Runner)

func WithDownloader(c downloader.Client) Option {
	return func(r *Runner) { r.downloader = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithClock sets the time source used for timestamped output names.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func New(d decompress.Decompressor, e executor.Executor, v toolversion.Finder, opts ...Option) *Runner {
	if d == nil {
		d = decompress.New()
	}
	if e == nil {
		e = executor.NewShell()
	}
	if v == nil {
		v = toolversion.NewExecFinder(e)
	}

	r := &Runner{
		decompressor: d,
		executor:     e,
		versions:     v,
		downloader:   downloader.NewHTTPClient(),
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (o *Options) defaults() {
	o.Options.Defaults()
	if o.CondaExe == "" {
		o.CondaExe = envwrap.Conda
	}
	if o.Shell == "" {
		o.Shell = envwrap.Bash
	}
	if o.NoEnv {
		o.CondaEnv = ""
	}
}

func (o *Options) validate() error {
	if err := o.Options.Validate(); err != nil {
		return err
	}
	if !envwrap.ValidShell(o.Shell) {
		return fmt.Errorf("unsupported shell %q", o.Shell)
	}
	if !envwrap.ValidManager(o.CondaExe) {
		return fmt.Errorf("unsupported environment manager %q", o.CondaExe)
	}
	return nil
}

// Run performs one antiSMASH invocation.
//
// A completed output directory is an *ExistsError unless Overwrite or
// ExistsOK is set. A nonzero tool exit is logged and returned as a
// *ToolError together with a Result whose OutputDir is still usable.
// A temporary decompressed input is removed on every path. In Dry mode
// nothing is deleted: a stale or overwritten directory is only logged.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	opts.defaults()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	r.logger.Info("Running antiSMASH", "input", opts.Input)

	input := opts.Input
	if downloader.IsRemote(input) {
		r.logger.Info("Downloading input", "url", input)
		local, err := downloader.Fetch(ctx, r.downloader, input, opts.DownloadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch input: %w", err)
		}
		input = local
	}

	input, unzipped, err := r.decompressor.Decompress(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare input: %w", err)
	}
	if unzipped {
		defer r.removeTemp(input)
	}

	res, err := r.run(ctx, opts, input)
	if err != nil && res == nil {
		return nil, err
	}

	r.logger.Info("Done antiSMASH", "input", input, "status", res.Status)
	return res, err
}

func (r *Runner) run(ctx context.Context, opts Options, input string) (*Result, error) {
	outdir, title := command.ResolveOutput(opts.Options, input, r.now())
	abs, err := filepath.Abs(outdir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", outdir, err)
	}
	res := &Result{OutputDir: abs}

	// before prepareOutput, which may delete an earlier run
	if !opts.Dry {
		if err := r.checkVersion(ctx, opts); err != nil {
			return nil, err
		}
	}

	skip, err := r.prepareOutput(outdir, opts)
	if err != nil {
		return nil, err
	}
	if skip {
		res.Status = StatusSkipped
		return res, nil
	}

	argv := command.Build(opts.Options, input, outdir, title)
	cmd := command.Join(argv)
	if !opts.Silent {
		r.logger.Info(cmd)
	}
	cmd = envwrap.Wrap(cmd, opts.CondaEnv, opts.CondaExe, opts.Shell)
	res.Command = cmd

	if opts.Dry {
		r.logger.Info(cmd)
		res.Status = StatusDryRun
		return res, nil
	}

	out, err := r.executor.Run(ctx, opts.Shell, cmd)
	if err != nil {
		res.Status = StatusFailed
		r.logger.Error("Failed antiSMASH", "cmd", cmd, "error", err)
		return res, fmt.Errorf("failed to run antiSMASH: %w", err)
	}

	res.ExitCode = out.ExitCode
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr
	if !out.Success() {
		res.Status = StatusFailed
		r.logger.Error("Failed antiSMASH",
			"cmd", cmd,
			"exit_code", out.ExitCode,
			"stdout", string(out.Stdout),
			"stderr", string(out.Stderr),
		)
		return res, &ToolError{
			Command:  cmd,
			ExitCode: out.ExitCode,
			Stdout:   string(out.Stdout),
			Stderr:   string(out.Stderr),
		}
	}

	res.Status = StatusCompleted
	return res, nil
}

// prepareOutput applies the overwrite policy to dir. It returns true when an
// earlier completed run should be reused.
func (r *Runner) prepareOutput(dir string, opts Options) (bool, error) {
	marker := filepath.Join(dir, MarkerFile)
	_, err := os.Stat(marker)
	switch {
	case err == nil:
		if opts.Overwrite {
			return false, r.removeTree(dir, opts.Dry)
		}
		if opts.ExistsOK {
			r.logger.Info("Find result file, pass", "dir", dir)
			return true, nil
		}
		return false, &ExistsError{Path: dir}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, fmt.Errorf("failed to check %s: %w", marker, err)
	}

	// a directory without the marker is a partial run
	_, err = os.Lstat(dir)
	switch {
	case err == nil:
		return false, r.removeTree(dir, opts.Dry)
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check %s: %w", dir, err)
	}
}

func (r *Runner) removeTree(dir string, dry bool) error {
	if dry {
		r.logger.Info("Would remove existing output", "dir", dir)
		return nil
	}
	r.logger.Info("Removing existing output", "dir", dir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}

func (r *Runner) checkVersion(ctx context.Context, opts Options) error {
	need := toolversion.Required(opts.Completeness, opts.MinVersion)
	if need == "" {
		return nil
	}
	installed, err := r.versions.Installed(ctx, toolversion.Target{
		Executable: opts.Executable,
		CondaEnv:   opts.CondaEnv,
		CondaExe:   opts.CondaExe,
		Shell:      opts.Shell,
	})
	if err != nil {
		return err
	}
	r.logger.Debug("antiSMASH version", "installed", installed, "required", need)
	return toolversion.Check(installed, need)
}

func (r *Runner) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.logger.Warn("Failed to remove decompressed input", "path", path, "error", err)
	}
}
