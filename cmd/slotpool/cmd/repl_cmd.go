package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/onflow/flow-slotpool/module/irrecoverable"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run the interactive slot pool shell (default command)",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runRepl serves the pool to the interactive shell until the input ends, the shell exits or the
// process is interrupted. An exception thrown by the pool is fatal.
func runRepl(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
	if irrecoverable.IsException(err) {
		log.Fatal().Err(err).Msg("slot pool encountered an irrecoverable error")
	}
	return err
}
