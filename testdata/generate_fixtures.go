//go:build ignore

// This program generates the sample workbook used by the benchmarks and smoke tests.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/klytics/sheetjson/internal/formats/xlsx"
)

func main() {
	if err := generateXlsx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.xlsx: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}

func generateXlsx() error {
	quarter := func(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }

	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			{
				Name: "Revenue",
				Rows: [][]any{
					{"Quarter", "Product", "Revenue", "Growth", "Double"},
					{quarter(2024, 1), "Enterprise", 1250000, 0.12, "=C2*2"},
					{quarter(2024, 1), "SMB", 450000, 0.08, "=C3*2"},
					{quarter(2024, 1), "Consumer", 320000, 0.15, "=C4*2"},
					{quarter(2024, 4), "Enterprise", 1380000, 0.10, "=C5*2"},
					{quarter(2024, 4), "SMB", 520000, 0.16, "=C6*2"},
					{quarter(2024, 4), "Consumer", 350000, 0.09, "=C7*2"},
					{quarter(2024, 7), "Enterprise", 1450000, 0.05, "=C8*2"},
					{quarter(2024, 7), "SMB", 580000, 0.12, "=C9*2"},
					{quarter(2024, 7), "Consumer", 410000, 0.17, "=C10*2"},
					{quarter(2024, 10), "Enterprise", 1620000, 0.12, "=C11*2"},
					{quarter(2024, 10), "SMB", 640000, 0.10, "=C12*2"},
					{quarter(2024, 10), "Consumer", 480000, 0.17, "=C13*2"},
				},
				Selection: "B2:E4",
			},
			{
				Name: "Summary",
				Rows: [][]any{
					{"Metric", "Value"},
					{"Total Revenue", "=SUM(Revenue!C2:C13)"},
					{"Average Growth", "=AVERAGE(Revenue!D2:D13)"},
					{"Above 1M", `=COUNTIF(Revenue!C2:C13,">1000000")`},
					{"Top Product", "Enterprise"},
					{"Audited", true},
				},
				Selection: "A1:B6",
			},
		},
	}

	return xlsx.WriteFile(wb, "testdata/sample.xlsx")
}
