package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comandalabs/comanda/internal/schema"
	"github.com/comandalabs/comanda/internal/sqlgen"
)

// CompileResult is the JSON payload of the compile command.
type CompileResult struct {
	SQL   string   `json:"sql"`
	Args  []any    `json:"args,omitempty"`
	Joins []string `json:"joins,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <request-file>",
		Short: "Compile a request file to SQL without executing it",
		Long: `Compile a YAML/JSON analytics request to SQL.

The compiled statement uses ? placeholders; the bound values are listed
separately. Nothing is sent to a database.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompileCmd(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCompileCmd(opts *RootOptions, path string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Loaded request: subject=%s measures=%d dimensions=%d",
		req.Subject, len(req.Measures), len(req.Dimensions))

	compiled, err := sqlgen.New(schema.Default()).Compile(*req)
	if err != nil {
		var badReq *sqlgen.BadRequestError
		if errors.As(err, &badReq) {
			_ = formatter.Error(ErrCodeBadRequest, badReq.Message, nil)
			return NewExitError(ExitFailure, badReq.Message)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	result := &CompileResult{SQL: compiled.SQL, Args: compiled.Args, Joins: compiled.Joins}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, compiled.SQL)
	if len(compiled.Args) > 0 {
		fmt.Fprintf(formatter.Writer, "\n-- args: %v\n", compiled.Args)
	}
	return nil
}

// outputLoadError reports a loader failure with the right exit code:
// grammar rejections are request failures, unreadable files are
// command errors.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		if loadErr.Code == ErrCodeSchemaInvalid {
			return NewExitError(ExitFailure, loadErr.Message)
		}
		return NewExitError(ExitCommandError, loadErr.Message)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}
