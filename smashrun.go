// Package smashrun runs antiSMASH on sequence files: it decompresses inputs,
// names output directories, builds the flag set for a completeness tier,
// activates a conda environment and reports how the run went.
package smashrun

import (
	"context"

	"github.com/sixban6/smashrun/internal/cluster"
	"github.com/sixban6/smashrun/internal/command"
	"github.com/sixban6/smashrun/internal/config"
	"github.com/sixban6/smashrun/internal/runner"
)

// Run executes antiSMASH with default components and settings taken from
// the environment.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return RunWithConfig(ctx, cfg, opts)
}

// RunWithConfig fills unset options from cfg and executes antiSMASH.
func RunWithConfig(ctx context.Context, cfg *Config, opts Options) (*Result, error) {
	if err := ApplyConfig(cfg, &opts); err != nil {
		return nil, err
	}
	return runner.New(nil, nil, nil).Run(ctx, opts)
}

// ApplyConfig copies settings from cfg into options the caller left unset.
// The configured environment is not applied when opts.NoEnv is set.
func ApplyConfig(cfg *Config, opts *Options) error {
	if opts.Executable == "" {
		opts.Executable = cfg.Executable
	}
	if opts.CondaExe == "" {
		opts.CondaExe = cfg.CondaExe
	}
	if opts.CondaEnv == "" && !opts.NoEnv {
		opts.CondaEnv = cfg.CondaEnv
	}
	if opts.Shell == "" {
		opts.Shell = cfg.Shell
	}
	if opts.CPUs == 0 {
		opts.CPUs = cfg.CPUs
	}
	if opts.DefaultGeneFinding == "" {
		opts.DefaultGeneFinding = command.GeneFinding(cfg.DefaultGeneFinding)
	}
	if opts.MinVersion == "" {
		opts.MinVersion = cfg.MinVersion
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = cfg.DownloadDir
	}
	if opts.ExtraArgs == nil {
		extra, err := cfg.ExtraArgList()
		if err != nil {
			return err
		}
		opts.ExtraArgs = extra
	}
	return nil
}

// Config exports the settings file structure for library usage.
type Config = config.Config

// LoadConfig loads and validates a settings file. An empty path uses
// defaults and environment variables only.
func LoadConfig(cfgPath string) (*Config, error) {
	return config.Load(cfgPath)
}

type (
	Options        = runner.Options
	CommandOptions = command.Options
	Result         = runner.Result
	Status         = runner.Status
	ExistsError    = runner.ExistsError
	ToolError      = runner.ToolError

	Taxon        = command.Taxon
	Completeness = command.Completeness
	GeneFinding  = command.GeneFinding
)

const (
	StatusCompleted = runner.StatusCompleted
	StatusSkipped   = runner.StatusSkipped
	StatusDryRun    = runner.StatusDryRun
	StatusFailed    = runner.StatusFailed

	Bacteria = command.Bacteria
	Fungi    = command.Fungi

	LevelMinimal  = command.LevelMinimal
	LevelStandard = command.LevelStandard
	LevelFull     = command.LevelFull
)

var (
	ErrOutputExists = runner.ErrOutputExists
	ErrToolFailed   = runner.ErrToolFailed
)

// ClusterNumber returns the region token of an antiSMASH region GenBank
// file name, e.g. "region045", or "045" when numberOnly is set.
func ClusterNumber(name string, numberOnly bool) (string, bool) {
	return cluster.Number(name, numberOnly)
}

// ListClusters returns the region GenBank files in an antiSMASH output directory.
func ListClusters(dir string) ([]string, error) {
	return cluster.List(dir)
}
