package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print woolywalk version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "woolywalk %s (%s)\n", Version, Commit)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}
