package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sixban6/smashrun"
	"github.com/sixban6/smashrun/internal/command"
)

var (
	runFlags     smashrun.Options
	configFile   string
	taxon        string
	completeness int
	geneFinding  string
	defaultGF    string
	extraArgs    string
	timeout      time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Annotate one sequence file with antiSMASH",
	Example: `  smashrun run genome.fna.gz --completeness 3 --genefinding auto
  smashrun run contigs.gbk --taxon fungi --conda-env antismash7 --exists-ok
  smashrun run https://example.org/genomes/strainA.fna.gz --download-dir ./inputs --dry`,
	Args: cobra.ExactArgs(1),
	RunE: runAntismash,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "path to a YAML settings file")
	f.StringVarP(&runFlags.Title, "title", "t", "", "title added to the output directory name")
	f.StringVar(&runFlags.Description, "description", "", "HTML description of the run")
	f.StringVar(&taxon, "taxon", string(command.Bacteria), "taxonomic classification: bacteria or fungi")
	f.IntVarP(&completeness, "completeness", "l", int(command.LevelStandard), "analysis tier (1 minimal, 2 standard, 3 extended, 4+ full)")
	f.IntVar(&runFlags.CPUs, "cpus", 0, "CPUs for antiSMASH (default from config, 4)")
	f.StringVarP(&runFlags.Output, "output", "o", "", "explicit output directory")
	f.StringVar(&runFlags.Prefix, "prefix", command.DefaultPrefix, "output directory name prefix")
	f.BoolVar(&runFlags.AddDateTime, "datetime", false, "append a YYYYmmddHHMM timestamp to the output name")
	f.StringVar(&geneFinding, "genefinding", string(command.Error), "glimmerhmm, prodigal, prodigal-m, none, error or auto")
	f.StringVar(&defaultGF, "default-genefinding", "", "tool used by --genefinding auto for nucleotide input")
	f.StringVar(&extraArgs, "extra-args", "", "additional antiSMASH arguments, shell quoted")
	f.StringVar(&runFlags.Executable, "executable", "", "antiSMASH executable")
	f.StringVar(&runFlags.CondaExe, "conda-exe", "", "environment manager: conda, mamba or micromamba")
	f.StringVar(&runFlags.CondaEnv, "conda-env", "", "environment name or path to activate")
	f.BoolVar(&runFlags.NoEnv, "no-env", false, "run antiSMASH without activating an environment")
	f.StringVar(&runFlags.Shell, "shell", "", "shell used to run the command: bash or zsh")
	f.StringVar(&runFlags.MinVersion, "min-version", "", "minimum antiSMASH version")
	f.StringVar(&runFlags.DownloadDir, "download-dir", "", "where remote inputs are saved")
	f.BoolVar(&runFlags.Silent, "silent", false, "do not log the antiSMASH command")
	f.BoolVar(&runFlags.Dry, "dry", false, "log the command without running it")
	f.BoolVar(&runFlags.Overwrite, "overwrite", false, "replace a completed output directory")
	f.BoolVar(&runFlags.ExistsOK, "exists-ok", false, "reuse a completed output directory")
	f.DurationVar(&timeout, "timeout", 0, "abort antiSMASH after this long (0 means no limit)")
}

func runAntismash(cmd *cobra.Command, args []string) error {
	cfg, err := smashrun.LoadConfig(configFile)
	if err != nil {
		return err
	}

	opts := runFlags
	opts.Input = args[0]
	opts.Taxon = command.Taxon(taxon)
	opts.Completeness = command.Completeness(completeness)
	opts.GeneFinding = command.GeneFinding(geneFinding)
	opts.DefaultGeneFinding = command.GeneFinding(defaultGF)
	if cmd.Flags().Changed("extra-args") {
		if opts.ExtraArgs, err = command.ParseExtraArgs(extraArgs); err != nil {
			return fmt.Errorf("invalid --extra-args: %w", err)
		}
		if opts.ExtraArgs == nil {
			opts.ExtraArgs = []string{}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := smashrun.RunWithConfig(ctx, cfg, opts)
	if res != nil {
		printResult(res, time.Since(start))
	}
	return err
}

func printResult(res *smashrun.Result, took time.Duration) {
	switch res.Status {
	case smashrun.StatusCompleted:
		color.New(color.FgGreen).Fprintf(os.Stderr, "completed in %v: %s\n", took.Round(time.Second), res.OutputDir)
	case smashrun.StatusSkipped:
		color.New(color.FgYellow).Fprintf(os.Stderr, "already complete, skipped: %s\n", res.OutputDir)
	case smashrun.StatusDryRun:
		color.New(color.FgCyan).Fprintf(os.Stderr, "dry run: %s\n", res.OutputDir)
		fmt.Println(res.Command)
	case smashrun.StatusFailed:
		color.New(color.FgRed).Fprintf(os.Stderr, "failed (exit %d), partial output: %s\n", res.ExitCode, res.OutputDir)
	}
}

func printFailure(err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	var exists *smashrun.ExistsError
	switch {
	case errors.As(err, &exists):
		fmt.Fprintf(os.Stderr, "%s %s\n  use --overwrite to replace it or --exists-ok to reuse it\n", red("error:"), err)
	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
	}
}
