package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sixban6/smashrun"
)

var numberOnly bool

var clustersCmd = &cobra.Command{
	Use:   "clusters <output-dir>",
	Short: "List region GenBank files of an antiSMASH run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := smashrun.ListClusters(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range files {
			token, _ := smashrun.ClusterNumber(f, numberOnly)
			fmt.Fprintf(out, "%s\t%s\n", token, filepath.Base(f))
		}
		return nil
	},
}

func init() {
	clustersCmd.Flags().BoolVarP(&numberOnly, "number-only", "n", false, "print only the three digit region number")
}
