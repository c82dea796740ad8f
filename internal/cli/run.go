package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/comandalabs/comanda/internal/engine"
	"github.com/comandalabs/comanda/internal/query"
	"github.com/comandalabs/comanda/internal/schema"
	"github.com/comandalabs/comanda/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	DSN    string
	Driver string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <request-file>",
		Short: "Execute a request against the database",
		Long: `Compile a request file and execute it.

The connection string comes from --dsn, or DATABASE_URL in the
environment (a .env file is honored).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunCmd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "database connection string (default: DATABASE_URL)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "postgres", "database driver (postgres|sqlite3)")

	return cmd
}

func runRunCmd(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	req, err := LoadRequest(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	eng, cleanup, err := openEngine(opts, formatter)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := eng.Execute(cmd.Context(), *req)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	printResultText(formatter, result)
	return nil
}

// openEngine connects the store and wires an engine over the default
// catalog. The returned cleanup closes the store.
func openEngine(opts *RunOptions, formatter *OutputFormatter) (*engine.Engine, func(), error) {
	dsn := databaseURL(opts.DSN)
	if dsn == "" {
		msg := "no database configured: set DATABASE_URL or pass --dsn"
		_ = formatter.Error(ErrCodeConnectFailed, msg, nil)
		return nil, nil, NewExitError(ExitCommandError, msg)
	}

	s, err := store.Open(opts.Driver, dsn)
	if err != nil {
		_ = formatter.Error(ErrCodeConnectFailed, err.Error(), nil)
		return nil, nil, NewExitError(ExitCommandError, err.Error())
	}

	return engine.New(s, schema.Default()), func() { s.Close() }, nil
}

// outputQueryError maps an engine failure to formatter output and exit
// code: bad requests are request failures, execution failures are
// command errors.
func outputQueryError(formatter *OutputFormatter, err error) error {
	var queryErr *engine.QueryError
	if errors.As(err, &queryErr) {
		if queryErr.Code == engine.CodeBadRequest {
			_ = formatter.Error(ErrCodeBadRequest, queryErr.Message, nil)
			return NewExitError(ExitFailure, queryErr.Message)
		}
		_ = formatter.Error(ErrCodeExecutionFailed, queryErr.Message, nil)
		return NewExitError(ExitCommandError, queryErr.Message)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}

func printResultText(formatter *OutputFormatter, result *query.Result) {
	fmt.Fprintf(formatter.Writer, "✓ %d row(s) in %dms\n\n",
		result.Metadata.TotalRows, result.Metadata.ExecutionTimeMs)

	for _, row := range result.Data {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(formatter.Writer, "  ")
			}
			fmt.Fprintf(formatter.Writer, "%s=%v", k, row[k])
		}
		fmt.Fprintln(formatter.Writer)
	}

	formatter.VerboseLog("\nSQL:\n%s", result.Metadata.SQL)
}
