package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

var (
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "smashrun",
	Short: "Run antiSMASH on genome sequence files",
	Long: `Run antiSMASH on (optionally compressed) sequence files with output
directories named after the run, tiered analysis levels and conda
environment activation.`,
	Version:       appVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.AddCommand(runCmd, clustersCmd)
}

func setupLogging() {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printFailure(err)
		os.Exit(1)
	}
}
