// Package app wires configuration, the terminal UI and a workbook into the
// collaborators the commands need.
package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetjson/internal/config"
	"github.com/klytics/sheetjson/internal/export"
	"github.com/klytics/sheetjson/internal/formats/xlsx"
	"github.com/klytics/sheetjson/internal/host"
	"github.com/klytics/sheetjson/internal/menu"
	"github.com/klytics/sheetjson/internal/present"
)

// App is the per-invocation state shared by commands.
type App struct {
	Config *config.Config
	UI     *present.Terminal
	Logger *log.Logger
}

// New loads config and reads the global --json, --verbose and --no-color flags.
func New(cmd *cobra.Command) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	jsonFlag, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor || !cfg.Output.Color {
		color.NoColor = true
	}

	ui := present.NewTerminal()
	ui.Out = cmd.OutOrStdout()
	ui.Err = cmd.ErrOrStderr()
	ui.Raw = jsonFlag
	ui.Pager = cfg.Output.Pager

	var logOut io.Writer = io.Discard
	if verbose {
		logOut = os.Stderr
	}

	return &App{
		Config: cfg,
		UI:     ui,
		Logger: log.New(logOut, "[sheetjson] ", log.LstdFlags),
	}, nil
}

// Exporter returns the export triggers bound to the terminal UI.
func (a *App) Exporter() *export.Exporter {
	ex := export.New(a.UI)
	ex.Title = a.Config.Dialog.Title
	ex.DialogWidth = a.Config.Dialog.Width
	ex.DialogHeight = a.Config.Dialog.Height
	ex.Logger = a.Logger
	return ex
}

// Open opens the workbook at path and applies an optional explicit selection.
func (a *App) Open(path, selection string) (*xlsx.Document, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return nil, fmt.Errorf("expected an .xlsx file, got %q", path)
	}
	doc, err := xlsx.Open(path)
	if err != nil {
		return nil, err
	}
	if err := doc.Select(selection); err != nil {
		doc.Close()
		return nil, err
	}
	a.Logger.Printf("opened %s (active sheet %q)", path, doc.ActiveSheet())
	return doc, nil
}

// InstallMenu registers the export menu for doc, as happens when a document opens.
func (a *App) InstallMenu(doc *xlsx.Document) (host.Menu, error) {
	return menu.Install(host.Compose(doc, a.UI), a.Config.Menu.Title, a.Exporter())
}
