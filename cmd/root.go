// Package cmd contains all CLI commands for the sheetjson binary.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetjson/cmd/completion"
	cmdconfig "github.com/klytics/sheetjson/cmd/config"
	cmdexport "github.com/klytics/sheetjson/cmd/export"
	cmdmenu "github.com/klytics/sheetjson/cmd/menu"
	"github.com/klytics/sheetjson/cmd/open"
	"github.com/klytics/sheetjson/cmd/version"
	cmdwatch "github.com/klytics/sheetjson/cmd/watch"
	"github.com/klytics/sheetjson/internal/export"
	"github.com/klytics/sheetjson/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetjson",
		Short: "Export spreadsheet selections as JSON",
		Long: `sheetjson — copy a spreadsheet selection as JSON.

Reads the selected range of an .xlsx workbook and shows its values, formulas,
or both as an indented JSON document with sheet, range and timestamp metadata,
ready to select and copy from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print only the JSON document, without the dialog frame")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(cmdexport.NewCommand())
	rootCmd.AddCommand(cmdmenu.NewCommand())
	rootCmd.AddCommand(open.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		// A missing selection has already been reported by an alert.
		if !errors.Is(err, export.ErrInvalidSelection) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(output.ExitUserError)
	}
}
