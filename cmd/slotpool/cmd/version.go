package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// semver is overridden at build time with -ldflags "-X github.com/onflow/flow-slotpool/cmd/slotpool/cmd.semver=..."
var semver = "undefined"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the slot pool",
	// the version does not depend on the configuration.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "slotpool %s\n", semver)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
