package oematch

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// createTestPNG generates a small PNG image for testing.
func createTestPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

// reopen round-trips a workbook through its serialized form, the way a file
// read from disk would look.
func reopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	out, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { out.Close() })
	return out
}

// createReferenceWorkbook builds a reference sheet.
// Layout:
//
//	A1: "Parts Catalogue 2024"
//	A2: "XX CODE"  B2: "OEM No."  C2: "Application"  D2: "Year"  E2: "Drive"  F2: "Price"  G2: "Picture"
//	A3: "XX-001"   B3: "1234-ABC / 5678DEF"  C3: "Model X"  D3: "2020"  E3: "L"  F3: 120.5  G3: red picture
//	A4: "XX-002"   B4: "A1"  ...
//	A5: "XX-003"   B5: "ABC-123"  C5: "Model S"  ...  G5: green picture
//	A6: "XX-004"   B6: ""
//	A7: "XX-005"   B7: "abc123，99887766"  C7: "Model 3"  F7: 88
func createReferenceWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := "Sheet1"

	rows := [][]any{
		{"Parts Catalogue 2024"},
		{"XX CODE", "OEM No.", "Application", "Year", "Drive", "Price", "Picture"},
		{"XX-001", "1234-ABC / 5678DEF", "Model X", "2020", "L", 120.5},
		{"XX-002", "A1", "Model Y", "2021", "R", 99},
		{"XX-003", "ABC-123", "Model S", "2019", "L", 45},
		{"XX-004", "", "Model Z", "2018", "R", 1},
		{"XX-005", "abc123，99887766", "Model 3", "2022", "R", 88},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	require.NoError(t, f.AddPictureFromBytes(sheet, "G3", &excelize.Picture{
		Extension: ".png", File: createTestPNG(t, red),
	}))
	require.NoError(t, f.AddPictureFromBytes(sheet, "G5", &excelize.Picture{
		Extension: ".png", File: createTestPNG(t, green),
	}))
	return reopen(t, f)
}

// saveWorkbook writes f into dir under name and returns the path.
func saveWorkbook(t *testing.T, f *excelize.File, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// createQueryWorkbook builds a query sheet with an optional header row.
func createQueryWorkbook(t *testing.T, header string, ids ...any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	row := 1
	if header != "" {
		require.NoError(t, f.SetCellStr("Sheet1", "A1", header))
		row++
	}
	for _, id := range ids {
		require.NoError(t, f.SetCellValue("Sheet1", "A"+strconv.Itoa(row), id))
		row++
	}
	return reopen(t, f)
}

// memSheet is an in-memory Worksheet. Cells may be strings, float64 or
// *CellData.
type memSheet struct {
	name string
	rows [][]any
}

func (s memSheet) Name() string { return s.name }
func (s memSheet) MaxRow() int  { return len(s.rows) }

func (s memSheet) RowWidth(row int) int {
	if row < 1 || row > len(s.rows) {
		return 0
	}
	return len(s.rows[row-1])
}

func (s memSheet) Cell(row, col int) *CellData {
	cd := &CellData{Ref: NewCellRef(row, col)}
	if row < 1 || row > len(s.rows) || col >= len(s.rows[row-1]) {
		return cd
	}
	switch v := s.rows[row-1][col].(type) {
	case *CellData:
		c := *v
		c.Ref = cd.Ref
		return &c
	case string:
		cd.Value, cd.Raw = v, v
		if v != "" {
			cd.Type = CellString
		}
	case float64:
		cd.Raw = strconv.FormatFloat(v, 'f', -1, 64)
		cd.Value = cd.Raw
		cd.Type = CellNumber
	}
	return cd
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func richRuns(texts ...string) []excelize.RichTextRun {
	runs := make([]excelize.RichTextRun, len(texts))
	for i, text := range texts {
		runs[i] = excelize.RichTextRun{Text: text}
	}
	return runs
}
