package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuubasoft/srimdb/internal/compiler"
	"github.com/tuubasoft/srimdb/internal/engine"
	"github.com/tuubasoft/srimdb/internal/schema"
	"github.com/tuubasoft/srimdb/internal/store"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "init <schema.cue>...",
		Short: "Create a snapshot file from CUE table schemas",
		Long: `Compile and validate CUE table schemas, then write an empty
database with those tables to a snapshot file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, dbPath, args, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "snapshot file to create (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runInit(opts *RootOptions, dbPath string, paths []string, cmd *cobra.Command) error {
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
	if errs := compiler.Validate(tables); len(errs) > 0 {
		_ = formatter.Error(errs[0].Code, errs[0].Message, errs)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	db := engine.New()
	for _, table := range tables {
		if err := db.Apply(engine.CreateTable{Table: table}); err != nil {
			_ = formatter.Error(string(engine.ApplyCodeOf(err)), err.Error(), nil)
			return WrapExitError(ExitFailure, "could not create table", err)
		}
	}

	if err := saveSnapshot(cmd, dbPath, db); err != nil {
		_ = formatter.Error("SNAPSHOT", err.Error(), nil)
		return WrapExitError(ExitCommandError, "could not write snapshot", err)
	}

	formatter.VerboseLog("Wrote snapshot %s", dbPath)
	if formatter.Format == "json" {
		return formatter.Success(tableSummaries(tables))
	}
	fmt.Fprintf(formatter.Writer, "Initialized %s with %d table(s)\n", dbPath, len(tables))
	return nil
}

func saveSnapshot(cmd *cobra.Command, path string, db *engine.Database) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Save(cmd.Context(), db)
}

// TableSummary is the JSON shape of one table declaration.
type TableSummary struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
	Key    []string          `json:"key"`
}

func tableSummaries(tables []schema.Table) []TableSummary {
	summaries := make([]TableSummary, 0, len(tables))
	for _, table := range tables {
		summary := TableSummary{
			Name:   table.Name(),
			Fields: make(map[string]string, table.NumFields()),
		}
		mask := table.KeyFieldMask()
		for i, f := range table.Fields() {
			summary.Fields[f.Name] = schema.KindString(f.Kind)
			if mask[i] {
				summary.Key = append(summary.Key, f.Name)
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
