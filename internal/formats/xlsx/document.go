// Package xlsx hosts exports on .xlsx workbooks: it finds the user's saved
// selection and reads typed cell values and formulas out of a range.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetjson/internal/host"
)

// ErrNoSuchSheet is returned when a selection names a sheet the workbook lacks.
var ErrNoSuchSheet = errors.New("no such sheet")

// Document is an open workbook acting as the selection source for exports.
type Document struct {
	Path string

	file     *excelize.File
	selected string
}

// Open opens an .xlsx file.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	return &Document{Path: path, file: f}, nil
}

// OpenBytes opens an .xlsx workbook held in memory.
func OpenBytes(data []byte) (*Document, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	return &Document{file: f}, nil
}

// Close releases the underlying workbook.
func (d *Document) Close() error {
	return d.file.Close()
}

// Reload re-reads the workbook from disk, keeping any explicit selection.
func (d *Document) Reload() error {
	if d.Path == "" {
		return fmt.Errorf("workbook was not opened from a file")
	}
	f, err := excelize.OpenFile(d.Path)
	if err != nil {
		return fmt.Errorf("could not reopen %s: %w", d.Path, err)
	}
	old := d.file
	d.file = f
	return old.Close()
}

// Sheets lists the sheet names in workbook order.
func (d *Document) Sheets() []string {
	return d.file.GetSheetList()
}

// ActiveSheet returns the name of the sheet the workbook was saved on.
func (d *Document) ActiveSheet() string {
	return d.file.GetSheetName(d.file.GetActiveSheetIndex())
}

// Select sets an explicit selection such as "Sheet1!B2:C3" or "B2:C3" (on the
// active sheet). An empty string clears it so the saved selection applies again.
func (d *Document) Select(qualified string) error {
	if strings.TrimSpace(qualified) == "" {
		d.selected = ""
		return nil
	}
	if _, err := d.Resolve(qualified); err != nil {
		return err
	}
	d.selected = qualified
	return nil
}

// Selected returns the explicit selection, if any.
func (d *Document) Selected() string {
	return d.selected
}

// ActiveSelection returns the explicit selection if one was set, otherwise the
// selection saved in the active sheet's view. It returns nil when the
// workbook has no single contiguous selection.
func (d *Document) ActiveSelection() (host.Range, error) {
	if d.selected != "" {
		snap, err := d.Resolve(d.selected)
		if err != nil {
			return nil, err
		}
		return snap, nil
	}

	sheet := d.ActiveSheet()
	ref, err := d.savedSelection(sheet)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		return nil, nil
	}

	parsed, err := host.ParseRef(ref)
	if err != nil {
		return nil, nil
	}
	snap, err := d.ReadRange(sheet, parsed)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// savedSelection finds the selected cells in the sheet view. Multi-area
// selections are not a single range and yield "".
func (d *Document) savedSelection(sheet string) (string, error) {
	panes, err := d.file.GetPanes(sheet)
	if err != nil {
		return "", fmt.Errorf("could not read sheet view of %q: %w", sheet, err)
	}
	if len(panes.Selection) == 0 {
		return "", nil
	}

	sel := panes.Selection[len(panes.Selection)-1]
	for _, s := range panes.Selection {
		if panes.ActivePane != "" && s.Pane == panes.ActivePane {
			sel = s
		}
	}

	ref := strings.TrimSpace(sel.SQRef)
	if ref == "" {
		ref = strings.TrimSpace(sel.ActiveCell)
	}
	if strings.ContainsAny(ref, " ,") {
		return "", nil
	}
	return ref, nil
}

// Resolve reads the range named by a possibly sheet-qualified reference.
func (d *Document) Resolve(qualified string) (*host.Snapshot, error) {
	sheet, ref := host.SplitQualified(qualified)
	if sheet == "" {
		sheet = d.ActiveSheet()
	}
	if idx, err := d.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q — available sheets: %v", ErrNoSuchSheet, sheet, d.Sheets())
	}

	parsed, err := host.ParseRef(ref)
	if err != nil {
		return nil, err
	}
	return d.ReadRange(sheet, parsed)
}

// ReadRange reads the values and formulas of ref on sheet. The reference is
// limited to the sheet's used area first, so a whole-sheet selection reads
// only the cells that hold data.
func (d *Document) ReadRange(sheet string, ref host.Ref) (*host.Snapshot, error) {
	rows, cols, err := d.usedArea(sheet)
	if err != nil {
		return nil, err
	}
	ref = ref.Within(rows, cols)

	r := newCellReader(d.file, sheet)
	dims := ref.Dimensions()

	values := make([][]any, dims.Rows)
	formulas := make([][]string, dims.Rows)
	for i := 0; i < dims.Rows; i++ {
		values[i] = make([]any, dims.Columns)
		formulas[i] = make([]string, dims.Columns)
		for j := 0; j < dims.Columns; j++ {
			cell := ref.Cell(i, j)

			formula, err := r.formula(cell)
			if err != nil {
				return nil, fmt.Errorf("could not read formula at %s!%s: %w", sheet, cell, err)
			}
			v, err := r.value(cell, formula)
			if err != nil {
				return nil, fmt.Errorf("could not read value at %s!%s: %w", sheet, cell, err)
			}
			values[i][j] = v
			formulas[i][j] = formula
		}
	}

	return host.NewSnapshot(sheet, ref, values, formulas)
}

// usedArea returns the number of rows and columns from A1 to the last used
// cell of sheet. It covers both the saved dimension and the stored rows,
// since writers do not always keep the dimension up to date.
func (d *Document) usedArea(sheet string) (rows, cols int, err error) {
	if dim, err := d.file.GetSheetDimension(sheet); err == nil && dim != "" {
		if ref, err := host.ParseRef(dim); err == nil {
			rows, cols = ref.ToRow, ref.ToCol
		}
	}

	grid, err := d.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, 0, fmt.Errorf("could not read rows of %q: %w", sheet, err)
	}
	rows = max(rows, len(grid))
	for _, row := range grid {
		cols = max(cols, len(row))
	}
	return rows, cols, nil
}
