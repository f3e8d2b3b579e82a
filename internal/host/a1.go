package host

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Ref is a rectangular cell reference with 1-based inclusive corners.
type Ref struct {
	FromCol, FromRow int
	ToCol, ToRow     int
}

// ParseRef parses an A1-style reference such as "B2", "B2:C3" or "$C$3:$B$2".
// Corners are normalised so From is the top-left cell.
func ParseRef(s string) (Ref, error) {
	clean := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "$", ""))
	if clean == "" {
		return Ref{}, fmt.Errorf("empty range reference")
	}

	parts := strings.Split(clean, ":")
	if len(parts) > 2 {
		return Ref{}, fmt.Errorf("invalid range reference %q", s)
	}

	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid range reference %q: %w", s, err)
	}
	c2, r2 := c1, r1
	if len(parts) == 2 {
		c2, r2, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return Ref{}, fmt.Errorf("invalid range reference %q: %w", s, err)
		}
	}

	return Ref{
		FromCol: min(c1, c2), FromRow: min(r1, r2),
		ToCol: max(c1, c2), ToRow: max(r1, r2),
	}, nil
}

// Dimensions returns the size of the reference.
func (r Ref) Dimensions() Dimensions {
	return Dimensions{Rows: r.ToRow - r.FromRow + 1, Columns: r.ToCol - r.FromCol + 1}
}

// Label renders the reference in A1 notation. A single cell has no colon.
func (r Ref) Label() string {
	from, _ := excelize.CoordinatesToCellName(r.FromCol, r.FromRow)
	if r.FromCol == r.ToCol && r.FromRow == r.ToRow {
		return from
	}
	to, _ := excelize.CoordinatesToCellName(r.ToCol, r.ToRow)
	return from + ":" + to
}

// Within limits r to the first rows x cols cells of a sheet. A reference
// starting outside that area keeps its top-left cell.
func (r Ref) Within(rows, cols int) Ref {
	r.ToRow = max(min(r.ToRow, rows), r.FromRow)
	r.ToCol = max(min(r.ToCol, cols), r.FromCol)
	return r
}

// Cell returns the A1 name of the cell at the given 0-based offset inside the reference.
func (r Ref) Cell(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(r.FromCol+col, r.FromRow+row)
	return name
}

// SplitQualified splits "Sheet1!A1:B2" into its sheet and range parts.
// Quoted sheet names ('My Sheet'!A1) are unquoted. The sheet is empty when
// the reference is unqualified.
func SplitQualified(s string) (sheet, ref string) {
	i := strings.LastIndex(s, "!")
	if i < 0 {
		return "", strings.TrimSpace(s)
	}
	sheet = strings.TrimSpace(s[:i])
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, strings.TrimSpace(s[i+1:])
}
