package oematch

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Worksheet is read-only access to the cells of one sheet.
type Worksheet interface {
	// Name returns the sheet name.
	Name() string
	// MaxRow returns the number of the last row holding data (1-based).
	MaxRow() int
	// RowWidth returns the number of columns in a row, trailing blanks excluded.
	RowWidth(row int) int
	// Cell returns the cell at a 1-based row and 0-based column. It never
	// returns nil; missing cells come back blank.
	Cell(row, col int) *CellData
}

// RowTexts returns the resolved text of every cell in a row.
func RowTexts(ws Worksheet, row int) []string {
	n := ws.RowWidth(row)
	texts := make([]string, n)
	for col := 0; col < n; col++ {
		texts[col] = Text(Resolve(ws.Cell(row, col)))
	}
	return texts
}

// ExcelSheet is a Worksheet backed by an excelize workbook. Display values are
// read once; formulas, hyperlinks and rich text are looked up per cell on
// demand.
type ExcelSheet struct {
	file *excelize.File
	name string
	rows [][]string
}

// NewExcelSheet reads the display values of the named sheet.
func NewExcelSheet(f *excelize.File, sheet string) (*ExcelSheet, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	return &ExcelSheet{file: f, name: sheet, rows: rows}, nil
}

// FirstSheet opens the first worksheet of a workbook.
func FirstSheet(f *excelize.File) (*ExcelSheet, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return NewExcelSheet(f, sheets[0])
}

// Name returns the sheet name.
func (s *ExcelSheet) Name() string { return s.name }

// MaxRow returns the number of the last row holding data.
func (s *ExcelSheet) MaxRow() int { return len(s.rows) }

// RowWidth returns the number of columns read for a row.
func (s *ExcelSheet) RowWidth(row int) int {
	if row < 1 || row > len(s.rows) {
		return 0
	}
	return len(s.rows[row-1])
}

// Cell reads a cell. Blank cells skip the formula, hyperlink and rich text
// lookups since none of them can change an empty result.
func (s *ExcelSheet) Cell(row, col int) *CellData {
	ref := NewCellRef(row, col)
	cd := &CellData{Ref: ref, Type: CellBlank}
	if row < 1 || row > len(s.rows) || col < 0 || col >= len(s.rows[row-1]) {
		return cd
	}
	cd.Value = s.rows[row-1][col]
	if cd.Value == "" {
		return cd
	}

	name := ref.CellName()
	raw, err := s.file.GetCellValue(s.name, name, excelize.Options{RawCellValue: true})
	if err != nil {
		raw = cd.Value
	}
	cd.Raw = raw

	t, err := s.file.GetCellType(s.name, name)
	if err != nil {
		t = excelize.CellTypeUnset
	}
	cd.Type = cellTypeOf(t, raw)

	if formula, err := s.file.GetCellFormula(s.name, name); err == nil && formula != "" {
		cd.Formula = formula
		return cd
	}
	if ok, target, err := s.file.GetCellHyperLink(s.name, name); err == nil && ok {
		cd.Hyperlink = target
		return cd
	}
	if runs, err := s.file.GetCellRichText(s.name, name); err == nil && isStyledRuns(runs) {
		cd.RichText = runs
	}
	return cd
}

// isStyledRuns distinguishes true rich text from the single unstyled run
// excelize reports for plain shared strings.
func isStyledRuns(runs []excelize.RichTextRun) bool {
	if len(runs) > 1 {
		return true
	}
	return len(runs) == 1 && runs[0].Font != nil
}

// CSVSheet is a Worksheet over comma-separated text. Every cell is a string
// literal.
type CSVSheet struct {
	name    string
	records [][]string
}

// ReadCSVSheet reads all records from r. Rows may have differing widths.
func ReadCSVSheet(name string, r io.Reader) (*CSVSheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %q: %w", name, err)
	}
	for i, rec := range records {
		end := len(rec)
		for end > 0 && rec[end-1] == "" {
			end--
		}
		records[i] = rec[:end]
	}
	return &CSVSheet{name: name, records: records}, nil
}

// Name returns the sheet name.
func (s *CSVSheet) Name() string { return s.name }

// MaxRow returns the number of records.
func (s *CSVSheet) MaxRow() int { return len(s.records) }

// RowWidth returns the number of fields in a record.
func (s *CSVSheet) RowWidth(row int) int {
	if row < 1 || row > len(s.records) {
		return 0
	}
	return len(s.records[row-1])
}

// Cell returns a field as a string cell.
func (s *CSVSheet) Cell(row, col int) *CellData {
	cd := &CellData{Ref: NewCellRef(row, col), Type: CellBlank}
	if row < 1 || row > len(s.records) || col < 0 || col >= len(s.records[row-1]) {
		return cd
	}
	cd.Value = s.records[row-1][col]
	cd.Raw = cd.Value
	if cd.Value != "" {
		cd.Type = CellString
	}
	return cd
}
