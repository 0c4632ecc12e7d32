package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/tuubasoft/srimdb/internal/schema"
)

// LoadTables reads CUE schema files and compiles every table they
// declare. Files are processed in argument order and tables within a
// file in declaration order, so the result is stable.
//
// Cross-file checks (duplicate names, dangling foreign keys) are the
// caller's concern; run Validate on the result.
func LoadTables(paths ...string) ([]schema.Table, error) {
	ctx := cuecontext.New()

	var tables []schema.Table
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
		v := ctx.CompileBytes(source, cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		compiled, err := CompileTables(v)
		if err != nil {
			return nil, fmt.Errorf("load schema %s: %w", path, err)
		}
		tables = append(tables, compiled...)
	}
	return tables, nil
}
