package oematch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindColumn(t *testing.T) {
	names := []string{"OEM", "OE"}
	assert.Equal(t, 1, FindColumn([]string{"Code", " oem no. "}, names))
	assert.Equal(t, 0, FindColumn([]string{"shoe size", "OEM"}, names), "substring match on first qualifying header")
	assert.Equal(t, -1, FindColumn([]string{"Code", "", "Price"}, names))
	assert.Equal(t, -1, FindColumn(nil, names))
	assert.Equal(t, 2, FindColumn([]string{"编码", "车型", "原厂编号"}, []string{"原厂编号"}))
}

func TestResolveColumns_Reference(t *testing.T) {
	ws, err := FirstSheet(createReferenceWorkbook(t))
	require.NoError(t, err)

	row, cols, err := ResolveColumns(ws, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, ColumnMap{
		FieldIdentifier:    1,
		FieldAuxiliaryCode: 0,
		FieldApplication:   2,
		FieldYear:          3,
		FieldDrive:         4,
		FieldPrice:         5,
	}, cols)
}

func TestResolveColumns_UnresolvedFieldsAreAbsent(t *testing.T) {
	ws := memSheet{name: "Ref", rows: [][]any{
		{"原厂编号", "车型"},
		{"1234-ABC", "Model X"},
	}}
	row, cols, err := ResolveColumns(ws, DefaultCandidates())
	require.NoError(t, err)
	assert.Equal(t, 1, row)

	col, ok := cols.Index(FieldIdentifier)
	assert.True(t, ok)
	assert.Equal(t, 0, col)
	col, ok = cols.Index(FieldApplication)
	assert.True(t, ok)
	assert.Equal(t, 1, col)
	_, ok = cols.Index(FieldPrice)
	assert.False(t, ok)
	_, ok = cols.Index(FieldDrive)
	assert.False(t, ok)
}

func TestResolveColumns_HeaderOutsideWindow(t *testing.T) {
	rows := make([][]any, 0, 26)
	for i := 0; i < 24; i++ {
		rows = append(rows, []any{"data", "1234-ABC"})
	}
	rows = append(rows, []any{"Code", "OEM"})
	rows = append(rows, []any{"XX-1", "5678DEF"})
	ws := memSheet{name: "Ref", rows: rows}

	_, _, err := ResolveColumns(ws, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingIdentifierColumn))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Ref", cfgErr.Sheet)
	assert.Equal(t, HeaderScanRows, cfgErr.ScanRows)
	assert.Contains(t, err.Error(), "reference sheet missing identifier column")
}

func TestResolveColumns_HeaderOnLastWindowRow(t *testing.T) {
	rows := make([][]any, 0, 21)
	for i := 0; i < 19; i++ {
		rows = append(rows, []any{"notes"})
	}
	rows = append(rows, []any{"Part", "零件号"})
	rows = append(rows, []any{"x", "1234-ABC"})

	row, cols, err := ResolveColumns(memSheet{rows: rows}, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, row)
	assert.Equal(t, 1, cols[FieldIdentifier])
}

func TestResolveColumns_CustomCandidates(t *testing.T) {
	ws := memSheet{rows: [][]any{{"Part Number", "Vehicle"}}}
	_, _, err := ResolveColumns(ws, nil)
	require.Error(t, err)

	cands := DefaultCandidates()
	cands[FieldIdentifier] = []string{"part number"}
	cands[FieldApplication] = []string{"vehicle"}
	_, cols, err := ResolveColumns(ws, cands)
	require.NoError(t, err)
	assert.Equal(t, ColumnMap{FieldIdentifier: 0, FieldApplication: 1}, cols)
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "identifier", FieldIdentifier.String())
	assert.Equal(t, "auxiliary_code", FieldAuxiliaryCode.String())
	assert.Equal(t, "unknown", Field(42).String())
}

func TestQueryCandidates(t *testing.T) {
	got := QueryCandidates([]string{"OEM", "OE", "原厂编号"}, []string{"oe", "输入", " "})
	assert.Equal(t, []string{"OEM", "OE", "原厂编号", "输入"}, got)
	assert.Empty(t, QueryCandidates(nil, nil))
}
