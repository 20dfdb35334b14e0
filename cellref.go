package oematch

import "github.com/xuri/excelize/v2"

// CellRef addresses a cell on a worksheet. Rows follow the workbook's 1-based
// numbering; columns are 0-based.
type CellRef struct {
	Row int
	Col int
}

// NewCellRef creates a CellRef from a 1-based row and a 0-based column.
func NewCellRef(row, col int) CellRef {
	return CellRef{Row: row, Col: col}
}

// String formats the reference as "B7".
func (c CellRef) String() string {
	return c.CellName()
}

// CellName returns the A1-style name of the cell, or "" when the reference is
// outside the worksheet grid.
func (c CellRef) CellName() string {
	name, err := excelize.CoordinatesToCellName(c.Col+1, c.Row)
	if err != nil {
		return ""
	}
	return name
}

// ColToName converts a 0-based column index to a column name, or "" when the
// index is out of range.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return ""
	}
	return name
}
