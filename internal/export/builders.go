// Package export turns a selected range into a JSON document and hands it to
// the host UI for manual copying.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/klytics/sheetjson/internal/host"
)

// Type tags which payload a document carries.
type Type string

const (
	TypeValues   Type = "values"
	TypeFormulas Type = "formulas"
	TypeCombined Type = "combined"
)

// TimeLayout is the exportedAt format: UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// ParseType accepts a type tag. "both" is an alias for combined.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "values":
		return TypeValues, nil
	case "formulas":
		return TypeFormulas, nil
	case "combined", "both":
		return TypeCombined, nil
	}
	return "", fmt.Errorf("unknown export type %q — use values, formulas, or both", s)
}

// Label is the human-readable name shown in the export dialog.
func (t Type) Label() string {
	switch t {
	case TypeValues:
		return "Values"
	case TypeFormulas:
		return "Formulas"
	case TypeCombined:
		return "Values and Formulas"
	}
	return string(t)
}

// Metadata describes where a document came from. Field order is the
// serialised key order.
type Metadata struct {
	SheetName  string          `json:"sheetName"`
	Range      string          `json:"range"`
	Dimensions host.Dimensions `json:"dimensions"`
	ExportedAt string          `json:"exportedAt"`
	ExportType Type            `json:"exportType"`
}

// Document is the exported JSON object. Data is set for values and formulas
// exports; Values and Formulas are set for combined exports.
type Document struct {
	Metadata Metadata   `json:"metadata"`
	Data     [][]any    `json:"data,omitempty"`
	Values   [][]any    `json:"values,omitempty"`
	Formulas [][]string `json:"formulas,omitempty"`
}

func metadata(r host.Range, now time.Time, t Type) Metadata {
	return Metadata{
		SheetName:  r.SheetName(),
		Range:      r.Label(),
		Dimensions: r.Dimensions(),
		ExportedAt: now.UTC().Format(TimeLayout),
		ExportType: t,
	}
}

// BuildValues exports the cell values of r.
func BuildValues(r host.Range, now time.Time) *Document {
	return &Document{
		Metadata: metadata(r, now, TypeValues),
		Data:     r.Values(),
	}
}

// BuildFormulas exports the formula text of r. Literal cells are "".
func BuildFormulas(r host.Range, now time.Time) *Document {
	formulas := r.Formulas()
	data := make([][]any, len(formulas))
	for i, row := range formulas {
		data[i] = make([]any, len(row))
		for j, f := range row {
			data[i][j] = f
		}
	}
	return &Document{
		Metadata: metadata(r, now, TypeFormulas),
		Data:     data,
	}
}

// BuildCombined exports values and formulas side by side.
func BuildCombined(r host.Range, now time.Time) *Document {
	return &Document{
		Metadata: metadata(r, now, TypeCombined),
		Values:   r.Values(),
		Formulas: r.Formulas(),
	}
}

// Build dispatches on the export type.
func Build(t Type, r host.Range, now time.Time) (*Document, error) {
	switch t {
	case TypeValues:
		return BuildValues(r, now), nil
	case TypeFormulas:
		return BuildFormulas(r, now), nil
	case TypeCombined:
		return BuildCombined(r, now), nil
	}
	return nil, fmt.Errorf("unknown export type %q", t)
}

// Render encodes the document as 2-space indented JSON. Formula operators
// such as < and & are written as-is.
func Render(doc *Document) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("could not encode document: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
