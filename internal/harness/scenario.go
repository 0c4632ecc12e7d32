package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a schema, seed rows,
// and a sequence of queries with expected outcomes. Scenarios validate
// end-to-end behavior from CUE schema through seeding to query results,
// with golden files as the source of truth for the produced output.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schemas lists paths to CUE schema files to compile and load.
	// Paths are relative to the scenario file location.
	Schemas []string `yaml:"schemas"`

	// Seed lists rows to insert before running the steps.
	Seed []SeedTable `yaml:"seed,omitempty"`

	// Steps contains the queries to run, in order.
	Steps []Step `yaml:"steps"`
}

// SeedTable holds the initial rows of one table. Each row is a YAML
// list of tagged literals in queryfile notation.
type SeedTable struct {
	Table string      `yaml:"table"`
	Rows  []yaml.Node `yaml:"rows"`
}

// Step is one query execution. Either the query succeeds and its result
// is recorded, or ExpectError names the error code the evaluation must
// fail with.
type Step struct {
	// Name identifies the step inside the scenario output.
	Name string `yaml:"name"`

	// Query is the operator tree in queryfile notation.
	Query yaml.Node `yaml:"query"`

	// ExpectError is the error code this step must fail with, e.g.
	// "NO_SUCH_TABLE". Empty means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Schema paths are
// resolved relative to the scenario file. Returns an error if the file
// is malformed, contains unknown fields (typos), or is missing required
// fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, schemaPath := range scenario.Schemas {
		if !filepath.IsAbs(schemaPath) {
			scenario.Schemas[i] = filepath.Join(base, schemaPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Schemas) == 0 {
		return fmt.Errorf("schemas list is required and must be non-empty")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, schemaPath := range s.Schemas {
		if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
			return fmt.Errorf("schema file not found: %s", schemaPath)
		}
	}

	for i, seed := range s.Seed {
		if seed.Table == "" {
			return fmt.Errorf("seed[%d]: table is required", i)
		}
	}

	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if step.Query.IsZero() {
			return fmt.Errorf("steps[%d]: query is required", i)
		}
	}

	return nil
}
