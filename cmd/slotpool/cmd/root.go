package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onflow/flow-slotpool/config"
)

var (
	log zerolog.Logger
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "slotpool",
	Short: "Interactive fixed-capacity slot pool",
	Long: `Interactive fixed-capacity slot pool.
Payloads are stored in a preallocated array of slots, linked into a live chain in insertion order.
Removed slots are recycled through a free chain, so the pool never allocates after start up.`,
	PersistentPreRunE: loadConfig,
	RunE:              runRepl,
	SilenceUsage:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	defaults, err := config.DefaultConfig()
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	config.InitializePFlagSet(rootCmd.PersistentFlags(), defaults)
}

// loadConfig resolves the configuration of the invoked command and builds the logger from it.
func loadConfig(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	c, err := config.Load(flags, config.ConfigFilePath(flags))
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("could not parse log level: %w", err)
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().
		Timestamp().
		Logger()
	cfg = c

	return nil
}
