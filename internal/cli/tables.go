package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuubasoft/srimdb/internal/schema"
	"github.com/tuubasoft/srimdb/internal/store"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "tables",
		Short:         "List the tables stored in a snapshot",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(rootOpts, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "snapshot file to inspect (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTables(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
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

	tables := db.Tables()
	if formatter.Format == "json" {
		return formatter.Success(tableSummaries(tables))
	}

	for _, table := range tables {
		rows, _ := db.AllRows(table.Name())
		fmt.Fprintf(formatter.Writer, "%s (%d rows)\n", table.Name(), len(rows))
		mask := table.KeyFieldMask()
		for i, f := range table.Fields() {
			marker := " "
			if mask[i] {
				marker = "*"
			}
			fmt.Fprintf(formatter.Writer, "  %s %-12s %s\n", marker, f.Name, schema.KindString(f.Kind))
		}
	}
	return nil
}
