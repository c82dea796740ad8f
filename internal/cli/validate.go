package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateResult is the JSON payload of the validate command.
type ValidateResult struct {
	Valid   bool   `json:"valid"`
	Subject string `json:"subject,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <request-file>",
		Short: "Check a request file against the DSL grammar",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateCmd(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidateCmd(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	if formatter.Format == "json" {
		return formatter.Success(&ValidateResult{Valid: true, Subject: string(req.Subject)})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is a valid %s request\n", path, req.Subject)
	return nil
}
