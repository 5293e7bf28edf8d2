package export

import (
	"bytes"
	"testing"

	"ledgerpro/internal/core"
	"ledgerpro/internal/report"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestSpreadsheet(t *testing.T) {
	records := []core.Record{
		{ID: 2, Date: civil.Date{Year: 2024, Month: 5, Day: 3}, Direction: core.Expense, Category: "餐饮", Amount: decimal.RequireFromString("120.50"), Note: "lunch"},
		{ID: 1, Date: civil.Date{Year: 2024, Month: 5, Day: 1}, Direction: core.Income, Category: "工资", Amount: decimal.NewFromInt(5000)},
	}
	table := report.Balance(report.ExportTable(records, core.EN), core.EN)

	data, err := Spreadsheet(table)
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	tests := []struct {
		cell string
		want string
	}{
		{"A1", "Date"},
		{"B1", "Category"},
		{"C1", "Income"},
		{"D1", "Expense"},
		{"E1", "Note"},
		{"A2", "2024-05-03"},
		{"B2", "Food"},
		{"C2", ""},
		{"D2", "120.5"},
		{"E2", "lunch"},
		{"B3", "Salary"},
		{"C3", "5000"},
		{"B4", "Balancing Entry"},
		{"D4", "4879.5"},
		{"B5", "Total"},
		{"C5", "5000"},
		{"D5", "5000"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(SheetName, tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
		}
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("expected header + 4 rows, got %d", len(rows))
	}
}

func TestSpreadsheetEmptyTable(t *testing.T) {
	data, err := Spreadsheet(report.ExportTable(nil, core.CN))
	if err != nil {
		t.Fatalf("Spreadsheet: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetName)
	if len(rows) != 1 || rows[0][0] != "日期" {
		t.Errorf("rows = %v", rows)
	}
}

func TestFileName(t *testing.T) {
	start := civil.Date{Year: 2024, Month: 5, Day: 1}
	end := civil.Date{Year: 2024, Month: 5, Day: 31}
	tests := []struct {
		ledger string
		want   string
	}{
		{"My Ledger", "My_Ledger_2024-05-01_2024-05-31.xlsx"},
		{"家庭账本", "家庭账本_2024-05-01_2024-05-31.xlsx"},
		{"a/b:c", "a_b_c_2024-05-01_2024-05-31.xlsx"},
		{"  ", "ledger_2024-05-01_2024-05-31.xlsx"},
	}
	for _, tt := range tests {
		if got := FileName(tt.ledger, start, end); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.ledger, got, tt.want)
		}
	}
}
