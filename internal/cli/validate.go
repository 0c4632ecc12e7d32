package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuubasoft/srimdb/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Tables []string                   `json:"tables,omitempty"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema.cue>...",
		Short: "Validate CUE table schemas",
		Long: `Compile CUE table schemas and check cross-table rules without
creating a snapshot. Reports every error found, not just the first.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	tables, err := compiler.LoadTables(paths...)
	if err != nil {
		_ = formatter.Error("COMPILE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "schema compilation failed", err)
	}
	formatter.VerboseLog("Compiled %d table(s) from %d file(s)", len(tables), len(paths))

	names := make([]string, 0, len(tables))
	for _, table := range tables {
		names = append(names, table.Name())
	}

	errs := compiler.Validate(tables)
	if len(errs) > 0 {
		if formatter.Format == "json" {
			_ = formatter.Error(errs[0].Code, errs[0].Message, ValidationResult{
				Valid:  false,
				Tables: names,
				Errors: errs,
			})
		} else {
			fmt.Fprintln(formatter.Writer, "Validation failed")
			for _, e := range errs {
				fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Tables: names})
	}
	fmt.Fprintf(formatter.Writer, "OK: %d table(s) valid\n", len(tables))
	return nil
}
