package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orottier/csvindex/internal/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index <INPUT> <COLUMN> [<TYPE>]",
	Short: "Build a range index over one column of a delimited-text file",
	Long: `Builds an on-disk range index over the given column and writes it to
"<INPUT>.index.<COLUMN>" (1-based). COLUMN is 1-based on the command line
and converted to 0-based internally. TYPE is one of str, int, float
(case-insensitive), defaulting to str.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if threads < 1 {
			return fmt.Errorf("threads must be >= 1, got %d", threads)
		}

		column1, err := strconv.Atoi(args[1])
		if err != nil || column1 < 1 {
			return fmt.Errorf("COLUMN must be a positive integer, got %q", args[1])
		}

		kind := "str"
		if len(args) == 3 {
			kind = args[2]
		}

		res, err := indexer.Run(cmd.Context(), indexer.Options{
			InputPath: args[0],
			Column:    column1 - 1,
			Kind:      kind,
			Threads:   threads,
		}, logger)
		if err != nil {
			return err
		}

		if logger != nil {
			logger.Info("index written",
				zap.String("path", res.OutputPath),
				zap.Uint64("records", res.Records),
				zap.Int("uniques", res.Uniques),
				zap.Int("chunks", res.Chunks),
			)
		}
		fmt.Printf("wrote %s (%d records, %d unique keys, %d chunks)\n", res.OutputPath, res.Records, res.Uniques, res.Chunks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
