// Package cli wires the cobra command tree spec §6 describes: a root
// command carrying the -v/-vv verbosity and -t/--threads flags, with
// `index` and `filter` as subcommands. Grounded on
// go/cli/mcap/cmd/root.go's cobra+viper root command and
// cobra.OnInitialize config wiring.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/orottier/csvindex/internal/logging"
)

var (
	verboseCount int
	threads      int
	logger       *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "csvindex",
	Short: "Build and query a range index over a column of a delimited-text file",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		l, err := logging.New(verboseCount)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command, printing any returned error and exiting
// non-zero on failure (spec §6: "Exit code 0 on success, non-zero with a
// message on any failure").
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "csvindex:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "increase log verbosity (-v info->debug, -vv ->trace)")
	rootCmd.PersistentFlags().IntVarP(&threads, "threads", "t", 2, "worker thread count for indexing (must be >= 1)")
}

func initConfig() {
	viper.SetEnvPrefix("csvindex")
	viper.AutomaticEnv()
}
