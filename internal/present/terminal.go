// Package present renders host UI surfaces (menus, alerts and the export
// dialog) on a terminal. It never writes to the system clipboard; the user
// copies the JSON from the rendered text.
package present

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/klytics/sheetjson/internal/host"
	"github.com/klytics/sheetjson/internal/output"
)

// Logical units per terminal cell, used to size dialogs.
const (
	UnitsPerColumn = 6
	UnitsPerRow    = 15
)

// Terminal implements host.UI on a pair of writers.
type Terminal struct {
	Out io.Writer
	Err io.Writer

	// Raw writes only the dialog body, for piping into other tools.
	Raw bool
	// Pager sends dialogs taller than their height through $PAGER when Out is a terminal.
	Pager bool

	menus []host.Menu
}

// NewTerminal creates a Terminal on stdout and stderr.
func NewTerminal() *Terminal {
	return &Terminal{Out: os.Stdout, Err: os.Stderr, Pager: true}
}

// Menus returns the menus registered so far.
func (t *Terminal) Menus() []host.Menu {
	return t.menus
}

// AddMenu registers a menu.
func (t *Terminal) AddMenu(m host.Menu) error {
	if m.Title == "" {
		return fmt.Errorf("menu has no title")
	}
	for _, existing := range t.menus {
		if existing.Title == m.Title {
			return fmt.Errorf("menu %q is already installed", m.Title)
		}
	}
	t.menus = append(t.menus, m)
	return nil
}

// ShowAlert writes a warning line to the error stream.
func (t *Terminal) ShowAlert(text string) error {
	warn := color.New(color.FgYellow, color.Bold)
	_, err := warn.Fprintf(t.Err, "! %s\n", text)
	return err
}

// ShowDialog renders the dialog frame and the body. The body is written
// verbatim below the frame so a terminal selection copies clean JSON.
func (t *Terminal) ShowDialog(d host.Dialog) error {
	if t.Raw {
		_, err := fmt.Fprintln(t.Out, d.Body)
		return err
	}

	cols, rows := Cells(d.Width, d.Height)
	content := Frame(d, cols) + "\n" + d.Body + "\n"

	if t.Pager && output.ShouldPage(t.Out, content, rows) {
		return output.Page(t.Out, content)
	}
	_, err := io.WriteString(t.Out, content)
	return err
}

// Cells converts a logical dialog size into terminal columns and rows.
func Cells(width, height int) (cols, rows int) {
	if width <= 0 {
		width = host.DefaultDialogWidth
	}
	if height <= 0 {
		height = host.DefaultDialogHeight
	}
	return width / UnitsPerColumn, height / UnitsPerRow
}

// Frame renders the dialog header: the title and a copy instruction naming
// what was exported, boxed to the given width.
func Frame(d host.Dialog, cols int) string {
	title := lipgloss.NewStyle().Bold(true).Render(d.Title)
	hint := fmt.Sprintf("Select the %s JSON below and copy it.", strings.ToLower(d.Label))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(cols - 2)

	return box.Render(title + "\n" + hint)
}

// WriteMenu lists a menu with 1-based item numbers.
func WriteMenu(w io.Writer, m host.Menu) {
	header := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	header.Fprintf(w, "%s\n", m.Title)
	for i, it := range m.Items {
		fmt.Fprintf(w, "  %d. %s ", i+1, it.Label)
		dim.Fprintf(w, "(%s)\n", it.Command)
	}
}
