// Package open provides the interactive session command.
package open

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetjson/internal/app"
	"github.com/klytics/sheetjson/internal/shell"
)

// NewCommand creates the "open" command.
func NewCommand() *cobra.Command {
	var (
		evalCmd   string
		selection string
	)

	cmd := &cobra.Command{
		Use:   "open <file.xlsx>",
		Short: "Open a workbook in an interactive export session",
		Long: `Open a workbook, install the "Export to JSON" menu and start an
interactive session with tab completion.

Pick a menu item by number or name (values, formulas, both), change the
selection with 'select Sheet1!B2:C3', and 'reload' after saving the workbook.`,
		Args: cobra.ExactArgs(1),
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

			m, err := a.InstallMenu(doc)
			if err != nil {
				return err
			}

			session := shell.NewSession(doc, m)
			session.Out = cmd.OutOrStdout()
			session.Err = cmd.ErrOrStderr()

			if evalCmd != "" {
				err := session.Eval(evalCmd)
				if errors.Is(err, shell.ErrExit) {
					return nil
				}
				return err
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single session command and exit")
	cmd.Flags().StringVarP(&selection, "range", "r", "", "Initial selection, e.g. Sheet1!B2:C3")
	return cmd
}
