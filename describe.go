package oematch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Describe opens a reference workbook and returns a human-readable summary of
// what the matcher sees in it: the header row, resolved columns, pictures and
// index size. Useful for checking a new reference file before matching.
func Describe(referencePath string, opts ...Option) (string, error) {
	return NewMatcher(opts...).Describe(referencePath)
}

// Describe summarizes the reference workbook at referencePath.
func (m *Matcher) Describe(referencePath string) (string, error) {
	f, err := excelize.OpenFile(referencePath)
	if err != nil {
		return "", fmt.Errorf("open reference %q: %w", referencePath, err)
	}
	defer f.Close()

	ref, err := m.LoadReference(f)
	if err != nil {
		return "", err
	}

	ws, err := NewExcelSheet(f, ref.Sheet)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reference: %s\n", referencePath)
	fmt.Fprintf(&b, "Sheet: %s (%d rows)\n", ref.Sheet, ws.MaxRow())
	fmt.Fprintf(&b, "Header row: %d\n", ref.HeaderRow)

	b.WriteString("Columns:\n")
	headers := RowTexts(ws, ref.HeaderRow)
	for _, field := range Fields {
		col, ok := ref.Columns.Index(field)
		if !ok {
			fmt.Fprintf(&b, "  %-15s -\n", field)
			continue
		}
		title := ""
		if col < len(headers) {
			title = headers[col]
		}
		fmt.Fprintf(&b, "  %-15s %s %q\n", field, ColToName(col), title)
	}

	fmt.Fprintf(&b, "Images: %d", len(ref.Images))
	if len(ref.Images) > 0 {
		rows := make([]int, 0, len(ref.Images))
		for row := range ref.Images {
			rows = append(rows, row)
		}
		sort.Ints(rows)
		fmt.Fprintf(&b, " (rows %d-%d)", rows[0], rows[len(rows)-1])
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Records: %d\n", len(ref.Index.Records()))
	fmt.Fprintf(&b, "Keys: %d\n", ref.Index.Len())
	if n := ref.Index.Collisions(); n > 0 {
		fmt.Fprintf(&b, "Collisions: %d (later rows win)\n", n)
	}
	return b.String(), nil
}
