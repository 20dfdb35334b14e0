package oematch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellType represents the type of data stored in a cell.
type CellType int

const (
	CellBlank CellType = iota
	CellString
	CellNumber
	CellBoolean
	CellDate
	CellError
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellBlank:
		return "Blank"
	case CellString:
		return "String"
	case CellNumber:
		return "Number"
	case CellBoolean:
		return "Boolean"
	case CellDate:
		return "Date"
	case CellError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CellData holds everything read from a single worksheet cell.
type CellData struct {
	Ref       CellRef
	Value     string                 // display text
	Raw       string                 // stored value, unformatted
	Type      CellType               // type of Raw (for formulas, of the cached result)
	Formula   string                 // formula without leading "="
	Hyperlink string                 // link target, if any
	RichText  []excelize.RichTextRun // styled runs, if the cell holds rich text
}

// IsFormulaCell reports whether the cell holds a formula.
func (cd *CellData) IsFormulaCell() bool {
	return cd.Formula != ""
}

// IsRichText reports whether the cell holds more than plain text.
func (cd *CellData) IsRichText() bool {
	return len(cd.RichText) > 0
}

// Resolve extracts a plain scalar from a cell. Formula cells yield their
// cached result, hyperlinks their display text, rich text the concatenation of
// its runs, and literals their value. Numbers come back as float64 and
// booleans as bool; everything else is a string. A nil cell yields "".
func Resolve(cd *CellData) any {
	if cd == nil {
		return ""
	}
	switch {
	case cd.IsFormulaCell():
		return cd.scalar()
	case cd.Hyperlink != "":
		return cd.Value
	case cd.IsRichText():
		var b strings.Builder
		for _, run := range cd.RichText {
			b.WriteString(run.Text)
		}
		return b.String()
	default:
		return cd.scalar()
	}
}

func (cd *CellData) scalar() any {
	switch cd.Type {
	case CellNumber:
		if f, err := strconv.ParseFloat(cd.Raw, 64); err == nil {
			return f
		}
	case CellBoolean:
		switch cd.Raw {
		case "1", "TRUE", "true":
			return true
		case "0", "FALSE", "false":
			return false
		}
	}
	return cd.Value
}

// Text stringifies a resolved scalar. Whole numbers print without a
// fractional part and nil prints as "".
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case *CellData:
		return Text(Resolve(val))
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// cellTypeOf maps the excelize cell type of a stored value onto CellType.
// Numeric cells written without an explicit type are detected by parsing raw.
func cellTypeOf(t excelize.CellType, raw string) CellType {
	switch t {
	case excelize.CellTypeBool:
		return CellBoolean
	case excelize.CellTypeDate:
		return CellDate
	case excelize.CellTypeError:
		return CellError
	case excelize.CellTypeNumber:
		return CellNumber
	case excelize.CellTypeUnset:
		if raw == "" {
			return CellBlank
		}
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return CellNumber
		}
		return CellString
	default:
		if raw == "" {
			return CellBlank
		}
		return CellString
	}
}
