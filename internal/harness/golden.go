package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a scenario result as deterministic text, one block
// per step. This rendering is what golden files store.
func Snapshot(result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", result.Scenario)

	for _, step := range result.Steps {
		fmt.Fprintf(&b, "\nstep: %s\n", step.Name)
		if step.ErrorCode != "" {
			fmt.Fprintf(&b, "error: %s\n", step.ErrorCode)
			continue
		}
		fmt.Fprintf(&b, "fields: %s\n", strings.Join(step.Fields, ", "))
		for _, row := range step.Rows {
			fmt.Fprintf(&b, "row: %s\n", strings.Join(row, " | "))
		}
		fmt.Fprintf(&b, "rows: %d\n", len(step.Rows))
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario itself fails to run or a step
// outcome does not meet its expectation; a snapshot mismatch fails the
// test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Passed() {
		return fmt.Errorf("scenario %q failed: %s", result.Scenario, strings.Join(result.Failures, "; "))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(result))

	return nil
}
