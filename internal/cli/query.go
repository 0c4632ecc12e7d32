package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuubasoft/srimdb/internal/query"
	"github.com/tuubasoft/srimdb/internal/queryfile"
	"github.com/tuubasoft/srimdb/internal/store"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "query <queryfile.yaml>",
		Short: "Run a queryfile against a snapshot",
		Long: `Load a snapshot, parse a YAML queryfile into an operator tree, and
evaluate it. Text output is an aligned table; JSON output carries the
field list and canonically rendered rows.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "snapshot file to query (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(opts *RootOptions, dbPath, queryPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(dbPath); err != nil {
		_ = formatter.Error("SNAPSHOT", "snapshot file not found: "+dbPath, nil)
		return WrapExitError(ExitCommandError, "snapshot file not found", err)
	}

	q, err := queryfile.ParseFile(queryPath)
	if err != nil {
		_ = formatter.Error("QUERYFILE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "could not parse queryfile", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error("SNAPSHOT", err.Error(), nil)
		return WrapExitError(ExitCommandError, "could not open snapshot", err)
	}
	defer s.Close()

	db, err := s.Load(cmd.Context())
	if err != nil {
		_ = formatter.Error("SNAPSHOT", err.Error(), nil)
		return WrapExitError(ExitCommandError, "could not load snapshot", err)
	}

	result, err := db.Query(q)
	if err != nil {
		code := "QUERY"
		var qe *query.Error
		if errors.As(err, &qe) {
			code = string(qe.Code)
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "query failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(NewQueryPayload(result))
	}
	return RenderResult(formatter.Writer, result)
}
