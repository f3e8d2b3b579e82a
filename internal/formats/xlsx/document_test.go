package xlsx

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFixture(t *testing.T, wb *Workbook) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := WriteFile(wb, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func openFixture(t *testing.T, wb *Workbook) *Document {
	t.Helper()
	doc, err := Open(writeFixture(t, wb))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

func numbersSheet(selection string) Sheet {
	return Sheet{
		Name: "Sheet1",
		Rows: [][]any{
			{"Label", "A", "B"},
			{"row1", 1, 2},
			{"row2", 3, 4},
		},
		Selection: selection,
	}
}

func TestActiveSelectionFromSheetView(t *testing.T) {
	doc := openFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("B2:C3")}})

	r, err := doc.ActiveSelection()
	if err != nil {
		t.Fatal(err)
	}
	if r == nil {
		t.Fatal("expected a selection")
	}
	if r.SheetName() != "Sheet1" || r.Label() != "B2:C3" {
		t.Errorf("selection = %s!%s", r.SheetName(), r.Label())
	}

	want := [][]any{{1.0, 2.0}, {3.0, 4.0}}
	if !reflect.DeepEqual(r.Values(), want) {
		t.Errorf("values = %v, want %v", r.Values(), want)
	}
	if !reflect.DeepEqual(r.Formulas(), [][]string{{"", ""}, {"", ""}}) {
		t.Errorf("formulas = %v", r.Formulas())
	}
}

func TestActiveSelectionNone(t *testing.T) {
	doc := openFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("")}})

	r, err := doc.ActiveSelection()
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Errorf("expected no selection, got %s", r.Label())
	}
}

func TestActiveSelectionMultiArea(t *testing.T) {
	doc := openFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("A1:B2 C3")}})

	r, err := doc.ActiveSelection()
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Errorf("multi-area selection should not resolve, got %s", r.Label())
	}
}

func TestActiveSelectionUsesActiveSheet(t *testing.T) {
	doc := openFixture(t, &Workbook{
		Sheets: []Sheet{
			numbersSheet("A1"),
			{Name: "Other", Rows: [][]any{{"x", "y"}}, Selection: "A1:B1"},
		},
		Active: 1,
	})

	r, err := doc.ActiveSelection()
	if err != nil || r == nil {
		t.Fatalf("ActiveSelection() = (%v, %v)", r, err)
	}
	if r.SheetName() != "Other" {
		t.Errorf("sheet = %q, want Other", r.SheetName())
	}
	if !reflect.DeepEqual(r.Values(), [][]any{{"x", "y"}}) {
		t.Errorf("values = %v", r.Values())
	}
}

func TestSelectOverridesSavedSelection(t *testing.T) {
	doc := openFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("B2:C3")}})

	if err := doc.Select("Sheet1!A1"); err != nil {
		t.Fatal(err)
	}
	r, _ := doc.ActiveSelection()
	if r.Label() != "A1" {
		t.Errorf("label = %q, want A1", r.Label())
	}
	if !reflect.DeepEqual(r.Values(), [][]any{{"Label"}}) {
		t.Errorf("values = %v", r.Values())
	}

	if err := doc.Select(""); err != nil {
		t.Fatal(err)
	}
	r, _ = doc.ActiveSelection()
	if r.Label() != "B2:C3" {
		t.Errorf("label after clear = %q, want B2:C3", r.Label())
	}
}

func TestSelectErrors(t *testing.T) {
	doc := openFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("")}})

	if err := doc.Select("Missing!A1"); !errors.Is(err, ErrNoSuchSheet) {
		t.Errorf("err = %v, want ErrNoSuchSheet", err)
	}
	if err := doc.Select("A1:B2:C3"); err == nil {
		t.Error("expected error for malformed reference")
	}
	if doc.Selected() != "" {
		t.Errorf("failed Select should not change selection, got %q", doc.Selected())
	}
}

func TestReadTypedValuesAndFormulas(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	doc := openFixture(t, &Workbook{Sheets: []Sheet{{
		Name: "Types",
		Rows: [][]any{
			{10, 2.5, "text", true},
			{day, nil, "=A1*2", "=A1>5"},
		},
	}}})

	if err := doc.Select("Types!A1:D2"); err != nil {
		t.Fatal(err)
	}
	r, err := doc.ActiveSelection()
	if err != nil {
		t.Fatal(err)
	}

	want := [][]any{
		{10.0, 2.5, "text", true},
		{"2024-01-15T00:00:00.000Z", "", 20.0, true},
	}
	if !reflect.DeepEqual(r.Values(), want) {
		t.Errorf("values = %#v\nwant %#v", r.Values(), want)
	}

	wantFormulas := [][]string{
		{"", "", "", ""},
		{"", "", "=A1*2", "=A1>5"},
	}
	if !reflect.DeepEqual(r.Formulas(), wantFormulas) {
		t.Errorf("formulas = %v, want %v", r.Formulas(), wantFormulas)
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	path := writeFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("B2")}})
	doc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	changed := numbersSheet("B2")
	changed.Rows[1][1] = 99
	if err := WriteFile(&Workbook{Sheets: []Sheet{changed}}, path); err != nil {
		t.Fatal(err)
	}
	if err := doc.Reload(); err != nil {
		t.Fatal(err)
	}

	r, _ := doc.ActiveSelection()
	if !reflect.DeepEqual(r.Values(), [][]any{{99.0}}) {
		t.Errorf("values after reload = %v", r.Values())
	}
}

func TestOpenBytes(t *testing.T) {
	data, err := os.ReadFile(writeFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("C3")}}))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	r, _ := doc.ActiveSelection()
	if r == nil || !reflect.DeepEqual(r.Values(), [][]any{{4.0}}) {
		t.Errorf("selection = %v", r)
	}
	if err := doc.Reload(); err == nil {
		t.Error("Reload of an in-memory workbook should fail")
	}
}

func TestOpenNotFound(t *testing.T) {
	if _, err := Open("/nonexistent/file.xlsx"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := map[string]bool{
		"yyyy-mm-dd":      true,
		"h:mm AM/PM":      true,
		"0.00":            false,
		`#,##0 "days"`:    false,
		"[Red]0.00":       false,
		"[$-409]d-mmm-yy": true,
		"General":         false,
	}
	for format, want := range tests {
		if got := isDateFormat(format); got != want {
			t.Errorf("isDateFormat(%q) = %v, want %v", format, got, want)
		}
	}
}

func TestWholeSheetSelectionIsLimitedToUsedArea(t *testing.T) {
	doc := openFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("A1:XFD1048576")}})

	type result struct {
		label  string
		values [][]any
		err    error
	}
	done := make(chan result, 1)
	go func() {
		r, err := doc.ActiveSelection()
		if err != nil || r == nil {
			done <- result{err: err}
			return
		}
		done <- result{label: r.Label(), values: r.Values()}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatal(res.err)
		}
		if res.label != "A1:C3" {
			t.Errorf("label = %q, want A1:C3", res.label)
		}
		if len(res.values) != 3 || len(res.values[0]) != 3 {
			t.Errorf("values = %v", res.values)
		}
	case <-time.After(20 * time.Second):
		t.Fatal("whole-sheet selection did not finish")
	}
}

func TestSelectionOutsideUsedAreaKeepsTopLeft(t *testing.T) {
	doc := openFixture(t, &Workbook{Sheets: []Sheet{numbersSheet("")}})

	if err := doc.Select("Sheet1!E5:F9"); err != nil {
		t.Fatal(err)
	}
	r, err := doc.ActiveSelection()
	if err != nil {
		t.Fatal(err)
	}
	if r.Label() != "E5" || !reflect.DeepEqual(r.Values(), [][]any{{""}}) {
		t.Errorf("selection = %s %v", r.Label(), r.Values())
	}
}

func TestFormulaErrorsKeepTheirText(t *testing.T) {
	doc := openFixture(t, &Workbook{Sheets: []Sheet{{
		Name: "Errors",
		Rows: [][]any{{1, 0, "=A1/B1"}},
	}}})

	if err := doc.Select("Errors!A1:C1"); err != nil {
		t.Fatal(err)
	}
	r, err := doc.ActiveSelection()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]any{{1.0, 0.0, "#DIV/0!"}}
	if !reflect.DeepEqual(r.Values(), want) {
		t.Errorf("values = %#v, want %#v", r.Values(), want)
	}
	if !reflect.DeepEqual(r.Formulas(), [][]string{{"", "", "=A1/B1"}}) {
		t.Errorf("formulas = %v", r.Formulas())
	}
}

func TestISODate(t *testing.T) {
	tests := map[string]string{
		"2024-01-15T10:30:00Z":      "2024-01-15T10:30:00.000Z",
		"2024-01-15T10:30:00.25Z":   "2024-01-15T10:30:00.250Z",
		"2024-01-15T10:30:00+02:00": "2024-01-15T08:30:00.000Z",
		"2024-01-15T10:30:00":       "2024-01-15T10:30:00.000Z",
		"2024-01-15":                "2024-01-15T00:00:00.000Z",
		"not a date":                "not a date",
	}
	for raw, want := range tests {
		if got := isoDate(raw); got != want {
			t.Errorf("isoDate(%q) = %q, want %q", raw, got, want)
		}
	}
}
