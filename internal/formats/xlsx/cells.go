package xlsx

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateLayout is how date cells are written into value grids.
const DateLayout = "2006-01-02T15:04:05.000Z"

// builtinDateFormats are the predefined number format IDs that render dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true,
	20: true, 21: true, 22: true, 45: true, 46: true, 47: true,
}

type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	dates    map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	r := &cellReader{f: f, sheet: sheet, dates: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

// formula returns the cell's formula with a leading "=", or "" for literals.
func (r *cellReader) formula(cell string) (string, error) {
	formula, err := r.f.GetCellFormula(r.sheet, cell)
	if err != nil || formula == "" {
		return "", err
	}
	if !strings.HasPrefix(formula, "=") {
		formula = "=" + formula
	}
	return formula, nil
}

// value returns the typed value of a cell: float64, bool, a date string, or
// a string. Empty cells are "". Formula cells without a cached result are
// calculated.
func (r *cellReader) value(cell, formula string) (any, error) {
	typ, err := r.f.GetCellType(r.sheet, cell)
	if err != nil {
		return nil, err
	}
	raw, err := r.f.GetCellValue(r.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	if raw == "" && formula != "" {
		// On a formula error the result still carries its text, e.g. "#DIV/0!".
		calc, _ := r.f.CalcCellValue(r.sheet, cell, excelize.Options{RawCellValue: true})
		return inferValue(calc), nil
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeError, excelize.CellTypeFormula:
		return raw, nil
	case excelize.CellTypeDate:
		return isoDate(raw), nil
	}

	if raw == "" {
		return "", nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}
	if r.isDate(cell) {
		if t, err := excelize.ExcelDateToTime(n, r.date1904); err == nil {
			return t.UTC().Format(DateLayout), nil
		}
	}
	return n, nil
}

// isoLayouts are the ISO 8601 forms found in t="d" cells.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// isoDate rewrites an ISO 8601 date cell in DateLayout. Text that is not a
// date is returned unchanged.
func isoDate(raw string) string {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t.UTC().Format(DateLayout)
		}
	}
	return raw
}

// isDate reports whether the cell's number format displays a date or time.
func (r *cellReader) isDate(cell string) bool {
	styleID, err := r.f.GetCellStyle(r.sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	if known, ok := r.dates[styleID]; ok {
		return known
	}

	isDate := false
	if style, err := r.f.GetStyle(styleID); err == nil && style != nil {
		isDate = builtinDateFormats[style.NumFmt]
		if style.CustomNumFmt != nil {
			isDate = isDateFormat(*style.CustomNumFmt)
		}
	}
	r.dates[styleID] = isDate
	return isDate
}

// isDateFormat looks for date or time tokens outside quoted literals and
// bracketed sections.
func isDateFormat(format string) bool {
	var quoted, bracket bool
	for _, c := range strings.ToLower(format) {
		switch {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '[':
			bracket = true
		case c == ']':
			bracket = false
		case bracket:
		case c == 'y' || c == 'd' || c == 'h' || c == 's' || c == 'm':
			return true
		}
	}
	return false
}

// inferValue types a calculated result.
func inferValue(s string) any {
	if s == "" {
		return ""
	}
	switch strings.ToUpper(s) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
