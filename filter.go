package oematch

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// FilterResults keeps the rows for which expression evaluates to true. The
// expression sees the fields and methods of ResultRow, for example
// `Matched && HasImage()` or `!Matched`. An empty expression keeps every row.
func FilterResults(results []ResultRow, expression string) ([]ResultRow, error) {
	if strings.TrimSpace(expression) == "" {
		return results, nil
	}
	program, err := expr.Compile(expression, expr.Env(ResultRow{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}

	kept := make([]ResultRow, 0, len(results))
	for i, row := range results {
		out, err := expr.Run(program, row)
		if err != nil {
			return nil, fmt.Errorf("evaluate filter %q on row %d: %w", expression, i+1, err)
		}
		if out.(bool) {
			kept = append(kept, row)
		}
	}
	return kept, nil
}
