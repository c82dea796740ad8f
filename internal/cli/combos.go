package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comandalabs/comanda/internal/query"
)

// CombosOptions holds flags for the combos command.
type CombosOptions struct {
	*RunOptions
	Min  int
	From string
	To   string
}

// NewCombosCommand creates the combos command.
func NewCombosCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CombosOptions{RunOptions: &RunOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "combos",
		Short: "List frequently bought-together product pairs",
		Long: `Compute all product pairs purchased on the same sale, with counts,
summed revenue and average ticket, keeping pairs seen at least --min
times. --from/--to bound the sale date (both inclusive).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombosCmd(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Min, "min", 1, "minimum co-occurrence count")
	cmd.Flags().StringVar(&opts.From, "from", "", "window start (inclusive)")
	cmd.Flags().StringVar(&opts.To, "to", "", "window end (inclusive)")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "database connection string (default: DATABASE_URL)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "postgres", "database driver (postgres|sqlite3)")

	return cmd
}

func runCombosCmd(opts *CombosOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var tr *query.TimeRange
	if opts.From != "" || opts.To != "" {
		if opts.From == "" || opts.To == "" {
			msg := "--from and --to must be given together"
			_ = formatter.Error(ErrCodeBadRequest, msg, nil)
			return NewExitError(ExitFailure, msg)
		}
		tr = &query.TimeRange{From: opts.From, To: opts.To}
	}

	eng, cleanup, err := openEngine(opts.RunOptions, formatter)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := eng.ProductCombinations(cmd.Context(), opts.Min, tr)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d pair(s) in %dms\n\n",
		result.Metadata.TotalRows, result.Metadata.ExecutionTimeMs)
	for _, c := range result.Data {
		fmt.Fprintf(formatter.Writer, "%d + %d: %d time(s), revenue %.2f, avg ticket %.2f\n",
			c.ProductIDA, c.ProductIDB, c.TimesTogether, c.TotalRevenue, c.AverageTicket)
	}
	return nil
}
