// Package harness runs conformance scenarios end to end: it compiles a
// scenario's CUE schemas, seeds a fresh database, executes every query
// step, and records each step's result or error code.
//
// Each scenario runs against its own database, with logging suppressed
// and fixed execution tokens, so the recorded output is fully
// deterministic and suitable for golden file comparison.
package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/tuubasoft/srimdb/internal/compiler"
	"github.com/tuubasoft/srimdb/internal/engine"
	"github.com/tuubasoft/srimdb/internal/query"
	"github.com/tuubasoft/srimdb/internal/queryfile"
	"github.com/tuubasoft/srimdb/internal/value"
)

// StepResult records what one step produced: a materialized result or
// an error code.
type StepResult struct {
	Name      string
	Fields    []string
	Rows      [][]string
	ErrorCode string
}

// Result holds a scenario run: every step result in order, plus any
// mismatches between expected and actual outcomes.
type Result struct {
	Scenario string
	Steps    []StepResult
	Failures []string
}

// Passed reports whether every step met its expectation.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes a scenario and returns its result.
//
// Execution flow:
//  1. Compile and validate the scenario's CUE schemas
//  2. Create a fresh database with those tables
//  3. Insert the seed rows
//  4. Execute each step, comparing outcome against expect_error
func Run(scenario *Scenario) (*Result, error) {
	tables, err := compiler.LoadTables(scenario.Schemas...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schemas: %w", err)
	}
	if errs := compiler.Validate(tables); len(errs) > 0 {
		return nil, fmt.Errorf("invalid schemas: %s", errs[0].Error())
	}

	tokens := make([]string, len(scenario.Steps))
	for i := range tokens {
		tokens[i] = fmt.Sprintf("step-%d", i)
	}
	db := engine.New(
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithTokenGenerator(engine.NewFixedGenerator(tokens...)),
	)
	for _, table := range tables {
		if err := db.Apply(engine.CreateTable{Table: table}); err != nil {
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	if err := seed(db, scenario.Seed); err != nil {
		return nil, err
	}

	result := &Result{Scenario: scenario.Name}
	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		stepResult, err := runStep(db, step)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Name, err)
		}
		result.Steps = append(result.Steps, stepResult)

		switch {
		case step.ExpectError == "" && stepResult.ErrorCode != "":
			result.Failures = append(result.Failures, fmt.Sprintf(
				"step %q: unexpected error %s", step.Name, stepResult.ErrorCode))
		case step.ExpectError != "" && stepResult.ErrorCode != step.ExpectError:
			result.Failures = append(result.Failures, fmt.Sprintf(
				"step %q: expected error %s, got %q", step.Name, step.ExpectError, stepResult.ErrorCode))
		}
	}
	return result, nil
}

func seed(db *engine.Database, seeds []SeedTable) error {
	for _, s := range seeds {
		for i := range s.Rows {
			row, err := decodeSeedRow(&s.Rows[i])
			if err != nil {
				return fmt.Errorf("seed %q row %d: %w", s.Table, i, err)
			}
			if err := db.Apply(engine.AddRow{Table: s.Table, Row: row}); err != nil {
				return fmt.Errorf("seed %q row %d: %w", s.Table, i, err)
			}
		}
	}
	return nil
}

func decodeSeedRow(node *yaml.Node) (value.Row, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("row must be a list of tagged values")
	}
	row := make(value.Row, 0, len(node.Content))
	for _, item := range node.Content {
		v, err := queryfile.DecodeValue(item)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	return row, nil
}

// runStep executes one step. Evaluation errors with a structured code
// are part of the recorded outcome; anything else aborts the run.
func runStep(db *engine.Database, step *Step) (StepResult, error) {
	q, err := queryfile.Decode(&step.Query)
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to decode query: %w", err)
	}

	result, err := db.Query(q)
	if err != nil {
		var qe *query.Error
		if errors.As(err, &qe) {
			return StepResult{Name: step.Name, ErrorCode: string(qe.Code)}, nil
		}
		return StepResult{}, err
	}

	stepResult := StepResult{Name: step.Name}
	for _, f := range result.Fields() {
		stepResult.Fields = append(stepResult.Fields, f.String())
	}
	for _, row := range result.Rows() {
		rendered := make([]string, len(row))
		for i, v := range row {
			rendered[i] = value.Render(v)
		}
		stepResult.Rows = append(stepResult.Rows, rendered)
	}
	return stepResult, nil
}
