package benchmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klytics/sheetjson/internal/export"
	"github.com/klytics/sheetjson/internal/formats/xlsx"
	"github.com/klytics/sheetjson/internal/host"
)

var sampleXlsx = filepath.Join("..", "testdata", "sample.xlsx")

var now = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func gridSnapshot(b *testing.B, rows, cols int) *host.Snapshot {
	b.Helper()
	values := make([][]any, rows)
	formulas := make([][]string, rows)
	for r := range values {
		values[r] = make([]any, cols)
		formulas[r] = make([]string, cols)
		for c := range values[r] {
			values[r][c] = float64(r*cols + c)
			if c%2 == 1 {
				formulas[r][c] = fmt.Sprintf("=A%d*2", r+1)
			}
		}
	}
	ref := host.Ref{FromCol: 1, FromRow: 1, ToCol: cols, ToRow: rows}
	s, err := host.NewSnapshot("Data", ref, values, formulas)
	if err != nil {
		b.Fatal(err)
	}
	return s
}

// --- Builder Benchmarks ---

func BenchmarkBuildValuesSmall(b *testing.B) {
	s := gridSnapshot(b, 10, 5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := export.Render(export.BuildValues(s, now)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildCombinedLarge(b *testing.B) {
	s := gridSnapshot(b, 1000, 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := export.Render(export.BuildCombined(s, now)); err != nil {
			b.Fatal(err)
		}
	}
}

// --- XLSX Benchmarks ---

func BenchmarkXlsxReadSelection(b *testing.B) {
	if _, err := os.Stat(sampleXlsx); os.IsNotExist(err) {
		b.Skip("sample.xlsx not found")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc, err := xlsx.Open(sampleXlsx)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := doc.ActiveSelection(); err != nil {
			b.Fatal(err)
		}
		doc.Close()
	}
}

func BenchmarkXlsxWrite(b *testing.B) {
	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			{
				Name: "Data",
				Rows: [][]any{
					{"Name", "Value", "Category"},
					{"Alpha", 100, "A"},
					{"Beta", 200, "B"},
					{"Gamma", 300, "=B3+B4"},
					{"Delta", 400, "C"},
				},
				Selection: "A1:C5",
			},
		},
	}
	dir := b.TempDir()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := xlsx.WriteFile(wb, filepath.Join(dir, "bench.xlsx"))
		if err != nil {
			b.Fatal(err)
		}
	}
}
