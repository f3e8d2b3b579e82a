// Package menu provides the command that lists the export menu of a workbook.
package menu

import (
	"github.com/spf13/cobra"

	"github.com/klytics/sheetjson/internal/app"
	"github.com/klytics/sheetjson/internal/present"
)

// NewCommand returns the menu command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu <file.xlsx>",
		Short: "Show the export menu installed for a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd)
			if err != nil {
				return err
			}
			doc, err := a.Open(args[0], "")
			if err != nil {
				return err
			}
			defer doc.Close()

			m, err := a.InstallMenu(doc)
			if err != nil {
				return err
			}
			present.WriteMenu(cmd.OutOrStdout(), m)
			return nil
		},
	}
}
