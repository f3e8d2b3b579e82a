// Package watch provides the "sheetjson watch" command, which re-exports a
// selection every time its workbook is saved.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetjson/internal/app"
	"github.com/klytics/sheetjson/internal/export"
	w "github.com/klytics/sheetjson/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		typeName  string
		selection string
		debounce  int
	)

	cmd := &cobra.Command{
		Use:   "watch <file.xlsx>",
		Short: "Export the selection again each time the workbook is saved",
		Long: `Watch a workbook and show a fresh export of its selection after every save.

Example:
  sheetjson watch book.xlsx --type both
  sheetjson watch book.xlsx --range 'Data!A1:D20' --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := export.ParseType(typeName)
			if err != nil {
				return err
			}

			a, err := app.New(cmd)
			if err != nil {
				return err
			}
			doc, err := a.Open(args[0], selection)
			if err != nil {
				return err
			}
			defer doc.Close()

			ex := a.Exporter()
			runExport := func() error {
				r, err := doc.ActiveSelection()
				if err != nil {
					return err
				}
				return ex.Export(typ, r)
			}

			if !cmd.Flags().Changed("debounce") {
				debounce = a.Config.Watch.DebounceMs
			}
			watcher, err := w.New(args[0], time.Duration(debounce)*time.Millisecond, func(string) error {
				if err := doc.Reload(); err != nil {
					return err
				}
				return runExport()
			})
			if err != nil {
				return err
			}
			watcher.Logger.SetOutput(a.Logger.Writer())

			// Show the current state once before waiting for saves.
			if err := runExport(); err != nil && !errors.Is(err, export.ErrInvalidSelection) {
				watcher.Close()
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Watching for saves. Press Ctrl+C to stop")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					fmt.Fprintln(cmd.ErrOrStderr(), "\nStopping watcher...")
					cancel()
				case <-ctx.Done():
				}
			}()

			if err := watcher.Start(ctx); err != nil {
				return err
			}

			events := watcher.Events()
			failed := 0
			for _, e := range events {
				if e.Status == "error" {
					failed++
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d saves seen, %d failed\n", len(events), failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "values", "What to export: values, formulas or both")
	cmd.Flags().StringVarP(&selection, "range", "r", "", "Range to export, e.g. Sheet1!B2:C3 (default: the saved selection)")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")

	return cmd
}
