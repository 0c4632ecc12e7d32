package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/tuubasoft/srimdb/internal/query"
	"github.com/tuubasoft/srimdb/internal/value"
)

// QueryPayload is the JSON shape of a rendered query result. Values are
// rendered to their canonical text form.
type QueryPayload struct {
	Fields []string   `json:"fields"`
	Rows   [][]string `json:"rows"`
	Count  int        `json:"count"`
}

// NewQueryPayload renders a result into its JSON payload form.
func NewQueryPayload(result *query.Result) QueryPayload {
	payload := QueryPayload{
		Fields: fieldHeaders(result),
		Rows:   make([][]string, 0, result.NumRows()),
		Count:  result.NumRows(),
	}
	for _, row := range result.Rows() {
		rendered := make([]string, len(row))
		for i, v := range row {
			rendered[i] = value.Render(v)
		}
		payload.Rows = append(payload.Rows, rendered)
	}
	return payload
}

// RenderResult writes a result as an aligned text table:
//
//	Companies.id  Companies.name
//	------------  --------------
//	0             TuubaSoft
func RenderResult(w io.Writer, result *query.Result) error {
	headers := fieldHeaders(result)
	payload := NewQueryPayload(result)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range payload.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := writeRow(w, headers, widths); err != nil {
		return err
	}
	rules := make([]string, len(widths))
	for i, width := range widths {
		rules[i] = strings.Repeat("-", width)
	}
	if err := writeRow(w, rules, widths); err != nil {
		return err
	}
	for _, row := range payload.Rows {
		if err := writeRow(w, row, widths); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "(%d rows)\n", result.NumRows())
	return err
}

func fieldHeaders(result *query.Result) []string {
	fields := result.Fields()
	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = f.String()
	}
	return headers
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i == len(cells)-1 {
			parts[i] = cell
			continue
		}
		parts[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}
