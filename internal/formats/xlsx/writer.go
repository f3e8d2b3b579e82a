package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet describes a worksheet to write. A string cell starting with "=" is
// written as a formula; any other value is written as a literal.
type Sheet struct {
	Name      string
	Rows      [][]any
	Selection string
}

// Workbook describes a workbook to write. Active is the index of the sheet
// the workbook opens on.
type Workbook struct {
	Sheets []Sheet
	Active int
}

// WriteFile creates a new .xlsx file from the given workbook description.
func WriteFile(wb *Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return fmt.Errorf("could not create sheet %q: %w", sheetName, err)
			}
		}

		lastCol := 0
		for rowIdx, row := range sheet.Rows {
			lastCol = max(lastCol, len(row))
			for colIdx, cell := range row {
				cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					return fmt.Errorf("invalid cell coordinates: %w", err)
				}
				if err := setCell(f, sheetName, cellName, cell); err != nil {
					return fmt.Errorf("could not set cell %s: %w", cellName, err)
				}
			}
		}

		if len(sheet.Rows) > 0 && lastCol > 0 {
			last, _ := excelize.CoordinatesToCellName(lastCol, len(sheet.Rows))
			if err := f.SetSheetDimension(sheetName, "A1:"+last); err != nil {
				return fmt.Errorf("could not set dimension on %q: %w", sheetName, err)
			}
		}

		if sheet.Selection != "" {
			active := strings.SplitN(sheet.Selection, ":", 2)[0]
			err := f.SetPanes(sheetName, &excelize.Panes{
				Selection: []excelize.Selection{{SQRef: sheet.Selection, ActiveCell: active}},
			})
			if err != nil {
				return fmt.Errorf("could not set selection on %q: %w", sheetName, err)
			}
		}
	}

	if wb.Active > 0 && wb.Active < len(wb.Sheets) {
		f.SetActiveSheet(wb.Active)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}

	return nil
}

func setCell(f *excelize.File, sheet, cell string, v any) error {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if strings.HasPrefix(val, "=") {
			return f.SetCellFormula(sheet, cell, strings.TrimPrefix(val, "="))
		}
	}
	return f.SetCellValue(sheet, cell, v)
}
