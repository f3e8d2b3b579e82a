package export

import (
	"errors"
	"io"
	"log"
	"time"

	"github.com/klytics/sheetjson/internal/host"
)

// ErrInvalidSelection is returned by a trigger invoked without a selected range.
var ErrInvalidSelection = errors.New("no range selected")

// SelectRangeMessage is the alert shown when nothing is selected.
const SelectRangeMessage = "Please select a range first."

// DialogTitle is the default title of the export dialog.
const DialogTitle = "Export to JSON"

// Exporter runs the export triggers against a host UI.
type Exporter struct {
	UI           host.UI
	Title        string
	DialogWidth  int
	DialogHeight int
	Now          func() time.Time
	Logger       *log.Logger
}

// New creates an Exporter with the default dialog settings.
func New(ui host.UI) *Exporter {
	return &Exporter{
		UI:           ui,
		Title:        DialogTitle,
		DialogWidth:  host.DefaultDialogWidth,
		DialogHeight: host.DefaultDialogHeight,
		Now:          time.Now,
		Logger:       log.New(io.Discard, "[export] ", log.LstdFlags),
	}
}

// ExportValues shows the values of r.
func (e *Exporter) ExportValues(r host.Range) error {
	return e.Export(TypeValues, r)
}

// ExportFormulas shows the formulas of r.
func (e *Exporter) ExportFormulas(r host.Range) error {
	return e.Export(TypeFormulas, r)
}

// ExportBoth shows the values and formulas of r.
func (e *Exporter) ExportBoth(r host.Range) error {
	return e.Export(TypeCombined, r)
}

// Export builds a document of type t from r and shows it in a dialog. A nil
// range raises an alert instead and returns ErrInvalidSelection.
func (e *Exporter) Export(t Type, r host.Range) error {
	if r == nil {
		e.Logger.Printf("%s export aborted: no selection", t)
		if err := e.UI.ShowAlert(SelectRangeMessage); err != nil {
			return err
		}
		return ErrInvalidSelection
	}

	doc, err := Build(t, r, e.Now())
	if err != nil {
		return err
	}
	body, err := Render(doc)
	if err != nil {
		return err
	}

	e.Logger.Printf("%s export of %s!%s (%dx%d)", t, r.SheetName(), r.Label(),
		doc.Metadata.Dimensions.Rows, doc.Metadata.Dimensions.Columns)

	return e.UI.ShowDialog(host.Dialog{
		Title:  e.Title,
		Label:  t.Label(),
		Body:   body,
		Width:  e.DialogWidth,
		Height: e.DialogHeight,
	})
}
