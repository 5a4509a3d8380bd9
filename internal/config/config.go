package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/sixban6/smashrun/internal/command"
	"github.com/sixban6/smashrun/internal/envwrap"
)

// Environment variables that override the settings file.
const (
	EnvCondaEnv = "ANTISMASH_ENV"
	EnvCondaExe = "CONDAEXE"
	EnvShell    = "SMASHRUN_SHELL"
)

type Config struct {
	Executable         string `yaml:"executable"`
	CondaExe           string `yaml:"conda_exe"`
	CondaEnv           string `yaml:"conda_env"`
	Shell              string `yaml:"shell"`
	CPUs               int    `yaml:"cpus"`
	DefaultGeneFinding string `yaml:"default_genefinding"`
	MinVersion         string `yaml:"min_version"`
	ExtraArgs          string `yaml:"extra_args"`
	DownloadDir        string `yaml:"download_dir"`
}

func Default() *Config {
	return &Config{
		Executable:         command.DefaultExecutable,
		CondaExe:           envwrap.Conda,
		Shell:              envwrap.Bash,
		CPUs:               command.DefaultCPUs,
		DefaultGeneFinding: string(command.Prodigal),
	}
}

// Load reads cfgPath over the defaults and applies environment overrides.
// An empty cfgPath uses defaults and the environment only.
func Load(cfgPath string) (*Config, error) {
	cfg := Default()

	if cfgPath != "" {
		data, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", cfgPath, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// ApplyEnv overrides settings from non-empty environment variables. lookup
// is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvCondaEnv); ok && v != "" {
		c.CondaEnv = v
	}
	if v, ok := lookup(EnvCondaExe); ok && v != "" {
		c.CondaExe = v
	}
	if v, ok := lookup(EnvShell); ok && v != "" {
		c.Shell = v
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Executable) == "" {
		return fmt.Errorf("executable is required")
	}
	if !envwrap.ValidManager(c.CondaExe) {
		return fmt.Errorf("conda_exe must be conda, mamba or micromamba, got %q", c.CondaExe)
	}
	if !envwrap.ValidShell(c.Shell) {
		return fmt.Errorf("shell must be bash or zsh, got %q", c.Shell)
	}
	if c.CPUs < 1 {
		return fmt.Errorf("cpus must be positive, got %d", c.CPUs)
	}
	switch g := command.GeneFinding(c.DefaultGeneFinding); g {
	case command.GlimmerHMM, command.Prodigal, command.ProdigalM, command.Error, command.None:
	default:
		return fmt.Errorf("default_genefinding %q is not a gene finding tool", c.DefaultGeneFinding)
	}
	if c.MinVersion != "" && !semver.IsValid(withV(c.MinVersion)) {
		return fmt.Errorf("min_version %q is not a semantic version", c.MinVersion)
	}
	if _, err := c.ExtraArgList(); err != nil {
		return fmt.Errorf("extra_args: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	c.CondaEnv = strings.TrimSpace(c.CondaEnv)
	if c.DownloadDir != "" {
		c.DownloadDir = filepath.Clean(c.DownloadDir)
	}
	if c.MinVersion != "" {
		c.MinVersion = withV(c.MinVersion)
	}
}

// ExtraArgList splits ExtraArgs into arguments.
func (c *Config) ExtraArgList() ([]string, error) {
	return command.ParseExtraArgs(c.ExtraArgs)
}

func withV(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
