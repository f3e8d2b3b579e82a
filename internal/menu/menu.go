// Package menu installs the export commands into a host UI.
package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klytics/sheetjson/internal/export"
	"github.com/klytics/sheetjson/internal/host"
)

// Title is the default menu title.
const Title = "Export to JSON"

// Items are the menu entries in display order.
var Items = []struct {
	Label   string
	Command string
	Type    export.Type
}{
	{"Copy Values (JSON)", "values", export.TypeValues},
	{"Copy Formulas (JSON)", "formulas", export.TypeFormulas},
	{"Copy Both (JSON)", "both", export.TypeCombined},
}

// Build returns the export menu. Each item reads the current selection from
// sel when it runs and passes it to the matching trigger.
func Build(title string, ex *export.Exporter, sel host.Selector) host.Menu {
	if title == "" {
		title = Title
	}

	m := host.Menu{Title: title}
	for _, it := range Items {
		typ := it.Type
		m.Items = append(m.Items, host.MenuItem{
			Label:   it.Label,
			Command: it.Command,
			Run: func() error {
				r, err := sel.ActiveSelection()
				if err != nil {
					return err
				}
				return ex.Export(typ, r)
			},
		})
	}
	return m
}

// Install registers the export menu with the host. Call it once when a
// document is opened.
func Install(h host.Host, title string, ex *export.Exporter) (host.Menu, error) {
	m := Build(title, ex, h)
	if err := h.AddMenu(m); err != nil {
		return host.Menu{}, fmt.Errorf("could not install menu: %w", err)
	}
	return m, nil
}

// Find resolves a menu item by 1-based position, command name or label.
func Find(m host.Menu, key string) (host.MenuItem, bool) {
	key = strings.TrimSpace(key)
	if n, err := strconv.Atoi(key); err == nil {
		if n >= 1 && n <= len(m.Items) {
			return m.Items[n-1], true
		}
		return host.MenuItem{}, false
	}
	for _, it := range m.Items {
		if strings.EqualFold(it.Command, key) || strings.EqualFold(it.Label, key) {
			return it, true
		}
	}
	return host.MenuItem{}, false
}
