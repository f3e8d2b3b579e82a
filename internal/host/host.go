// Package host defines the collaborators an export needs from the spreadsheet
// application: a source for the user's selection and a UI that can show
// menus, alerts and dialogs.
package host

import "fmt"

// Default dialog size in logical units.
const (
	DefaultDialogWidth  = 500
	DefaultDialogHeight = 300
)

// Dimensions is the row and column count of a range.
type Dimensions struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Range is a read-only rectangular block of cells in a named sheet.
type Range interface {
	SheetName() string
	Label() string
	Dimensions() Dimensions
	Values() [][]any
	Formulas() [][]string
}

// Selector returns the user's current selection. A nil Range with a nil
// error means nothing is selected.
type Selector interface {
	ActiveSelection() (Range, error)
}

// Dialog is a modal surface showing text for the user to copy.
type Dialog struct {
	Title  string
	Label  string
	Body   string
	Width  int
	Height int
}

// MenuItem is a single entry of a host menu.
type MenuItem struct {
	Label   string
	Command string
	Run     func() error
}

// Menu is a titled list of items registered with the host UI.
type Menu struct {
	Title string
	Items []MenuItem
}

// UI is the interactive surface of the host.
type UI interface {
	ShowAlert(text string) error
	ShowDialog(d Dialog) error
	AddMenu(m Menu) error
}

// Host is a spreadsheet application: something that has a selection and a UI.
type Host interface {
	Selector
	UI
}

type composed struct {
	Selector
	UI
}

// Compose joins a selection source and a UI into a Host.
func Compose(sel Selector, ui UI) Host {
	return composed{Selector: sel, UI: ui}
}

// Snapshot is an immutable Range whose grids were read up front.
type Snapshot struct {
	sheet    string
	ref      Ref
	values   [][]any
	formulas [][]string
}

// NewSnapshot builds a Range from already-read grids. Both grids must match
// the dimensions of ref exactly.
func NewSnapshot(sheet string, ref Ref, values [][]any, formulas [][]string) (*Snapshot, error) {
	dims := ref.Dimensions()
	if err := checkShape("values", len(values), func(i int) int { return len(values[i]) }, dims); err != nil {
		return nil, err
	}
	if err := checkShape("formulas", len(formulas), func(i int) int { return len(formulas[i]) }, dims); err != nil {
		return nil, err
	}
	return &Snapshot{sheet: sheet, ref: ref, values: values, formulas: formulas}, nil
}

func checkShape(name string, rows int, cols func(int) int, dims Dimensions) error {
	if rows != dims.Rows {
		return fmt.Errorf("%s grid has %d rows, range has %d", name, rows, dims.Rows)
	}
	for i := 0; i < rows; i++ {
		if c := cols(i); c != dims.Columns {
			return fmt.Errorf("%s grid row %d has %d columns, range has %d", name, i+1, c, dims.Columns)
		}
	}
	return nil
}

func (s *Snapshot) SheetName() string      { return s.sheet }
func (s *Snapshot) Label() string          { return s.ref.Label() }
func (s *Snapshot) Dimensions() Dimensions { return s.ref.Dimensions() }
func (s *Snapshot) Values() [][]any        { return s.values }
func (s *Snapshot) Formulas() [][]string   { return s.formulas }

// Ref returns the normalised cell reference of the snapshot.
func (s *Snapshot) Ref() Ref { return s.ref }
