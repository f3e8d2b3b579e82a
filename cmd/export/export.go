// Package export provides the export commands: one per menu item.
package export

import (
	"github.com/spf13/cobra"

	"github.com/klytics/sheetjson/internal/app"
	"github.com/klytics/sheetjson/internal/export"
)

// NewCommand returns the export subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the selected range of a workbook as JSON",
		Long: `Export the selected range of an .xlsx workbook as JSON.

The selection saved in the workbook's active sheet is used unless --range
names one explicitly.

Example:
  sheetjson export values book.xlsx
  sheetjson export formulas book.xlsx --range 'Sheet1!B2:C3'
  sheetjson export both book.xlsx --range B2:C3 --json > range.json`,
	}

	cmd.AddCommand(newTypeCommand("values", "Copy the selected values as JSON", export.TypeValues))
	cmd.AddCommand(newTypeCommand("formulas", "Copy the selected formulas as JSON", export.TypeFormulas))
	cmd.AddCommand(newTypeCommand("both", "Copy the selected values and formulas as JSON", export.TypeCombined))

	return cmd
}

func newTypeCommand(use, short string, typ export.Type) *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   use + " <file.xlsx>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd)
			if err != nil {
				return err
			}

			doc, err := a.Open(args[0], selection)
			if err != nil {
				return err
			}
			defer doc.Close()

			r, err := doc.ActiveSelection()
			if err != nil {
				return err
			}
			return a.Exporter().Export(typ, r)
		},
	}

	cmd.Flags().StringVarP(&selection, "range", "r", "", "Range to export, e.g. Sheet1!B2:C3 (default: the saved selection)")
	return cmd
}
