package oematch

import (
	"errors"
	"fmt"
	"strings"
)

// HeaderScanRows bounds the header search: rows after this are never headers.
const HeaderScanRows = 20

// Field names a semantic column of the reference sheet.
type Field int

const (
	FieldIdentifier Field = iota
	FieldAuxiliaryCode
	FieldApplication
	FieldYear
	FieldDrive
	FieldPrice
)

// Fields lists every Field in column-resolution order.
var Fields = []Field{FieldIdentifier, FieldAuxiliaryCode, FieldApplication, FieldYear, FieldDrive, FieldPrice}

// String returns the configuration key of the field.
func (f Field) String() string {
	switch f {
	case FieldIdentifier:
		return "identifier"
	case FieldAuxiliaryCode:
		return "auxiliary_code"
	case FieldApplication:
		return "application"
	case FieldYear:
		return "year"
	case FieldDrive:
		return "drive"
	case FieldPrice:
		return "price"
	default:
		return "unknown"
	}
}

// Candidates lists, per field, the header names that identify its column.
type Candidates map[Field][]string

// DefaultCandidates returns the header names recognised out of the box.
func DefaultCandidates() Candidates {
	return Candidates{
		FieldIdentifier:    {"OEM", "OE", "原厂编号", "零件号"},
		FieldAuxiliaryCode: {"XX CODE", "XX编码", "公司编号"},
		FieldApplication:   {"Application", "适用车型", "车型"},
		FieldYear:          {"Year", "年份", "年度"},
		FieldDrive:         {"Drive", "驱动", "左/右"},
		FieldPrice:         {"广州", "Price", "价格", "单价"},
	}
}

// DefaultQueryNames are the header names that mark the identifier column of a
// query sheet in addition to the reference identifier candidates.
var DefaultQueryNames = []string{"查询", "输入", "零件"}

// QueryCandidates returns the header names that mark the identifier column of
// a query sheet: the reference identifier names followed by the query-only
// extras, without duplicates.
func QueryCandidates(identifier, extra []string) []string {
	names := make([]string, 0, len(identifier)+len(extra))
	seen := make(map[string]bool, cap(names))
	for _, list := range [][]string{identifier, extra} {
		for _, name := range list {
			key := strings.ToUpper(strings.TrimSpace(name))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, name)
		}
	}
	return names
}

// ColumnMap maps fields to 0-based column indexes. Unresolved fields are absent.
type ColumnMap map[Field]int

// Index returns the column of a field and whether it was resolved.
func (m ColumnMap) Index(f Field) (int, bool) {
	col, ok := m[f]
	return col, ok
}

// ErrMissingIdentifierColumn is matched by every ConfigurationError.
var ErrMissingIdentifierColumn = errors.New("reference sheet missing identifier column")

// ConfigurationError reports a reference sheet with no identifiable
// identifier column. It aborts the pipeline.
type ConfigurationError struct {
	Sheet      string
	Candidates []string
	ScanRows   int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: no header in rows 1-%d of sheet %q contains any of %s",
		ErrMissingIdentifierColumn, e.ScanRows, e.Sheet, strings.Join(e.Candidates, ", "))
}

// Is lets errors.Is match ErrMissingIdentifierColumn.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrMissingIdentifierColumn
}

// FindColumn returns the index of the first header whose trimmed, uppercased
// text contains one of names, or -1.
func FindColumn(headers []string, names []string) int {
	for i, h := range headers {
		h = strings.ToUpper(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		for _, name := range names {
			if strings.Contains(h, strings.ToUpper(name)) {
				return i
			}
		}
	}
	return -1
}

// ResolveColumns locates the header row within the first HeaderScanRows rows
// and resolves every field against it. The header row is the first row with a
// cell naming the identifier column; other fields that match nothing on that
// row are left unresolved.
func ResolveColumns(ws Worksheet, cands Candidates) (int, ColumnMap, error) {
	if cands == nil {
		cands = DefaultCandidates()
	}
	idNames := cands[FieldIdentifier]

	last := min(HeaderScanRows, ws.MaxRow())
	for row := 1; row <= last; row++ {
		headers := RowTexts(ws, row)
		idCol := FindColumn(headers, idNames)
		if idCol == -1 {
			continue
		}
		cols := ColumnMap{FieldIdentifier: idCol}
		for _, f := range Fields[1:] {
			if col := FindColumn(headers, cands[f]); col != -1 {
				cols[f] = col
			}
		}
		return row, cols, nil
	}
	return 0, nil, &ConfigurationError{Sheet: ws.Name(), Candidates: idNames, ScanRows: HeaderScanRows}
}
