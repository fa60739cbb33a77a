package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orottier/csvindex/internal/query"
)

func isInOp(op string) bool {
	return strings.EqualFold(op, "in")
}

var filterCmd = &cobra.Command{
	Use:   "filter <INPUT> <COLUMN> <OP> <VALUE> [<VALUE2>]",
	Short: "Stream source records whose column value satisfies a predicate",
	Long: `Reads "<INPUT>.index.<COLUMN>" (1-based) and streams every matching
source record, verbatim including its newline, to standard output.
OP is one of eq, lt, le, gt, ge, in, pre (case-insensitive); "in" requires
VALUE2; "pre" is only valid against a str-indexed column.`,
	Args: cobra.RangeArgs(4, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		column1, err := strconv.Atoi(args[1])
		if err != nil || column1 < 1 {
			return fmt.Errorf("COLUMN must be a positive integer, got %q", args[1])
		}

		opts := query.Options{
			SourcePath: args[0],
			IndexPath:  fmt.Sprintf("%s.index.%d", args[0], column1),
			Op:         args[2],
			Value:      args[3],
		}
		if len(args) == 5 {
			opts.Value2 = args[4]
		} else if len(args) == 4 && isInOp(opts.Op) {
			return fmt.Errorf("op %q requires VALUE2", opts.Op)
		}

		stats, err := query.Run(opts, os.Stdout, logger)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("filter complete", zap.Int("chunks_read", stats.ChunksRead), zap.Uint64("records", stats.Records))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)
}
