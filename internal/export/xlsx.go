// Package export renders report tables as spreadsheet workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"ledgerpro/internal/report"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Sheet1"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Spreadsheet writes the table into a single-sheet workbook: a header row
// with the column names followed by one row per table row. Amount cells are
// numeric, missing amounts are left blank.
func Spreadsheet(table report.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}

	for i, r := range table.Rows {
		values := []interface{}{r.Date, r.Category, nil, nil, r.Note}
		if r.Income.Valid {
			values[2] = r.Income.Decimal.InexactFloat64()
		}
		if r.Expense.Valid {
			values[3] = r.Expense.Decimal.InexactFloat64()
		}
		if err := setRow(f, i+2, values); err != nil {
			return nil, err
		}
	}

	f.SetColWidth(SheetName, "A", "A", 12)
	f.SetColWidth(SheetName, "B", "B", 18)
	f.SetColWidth(SheetName, "C", "D", 12)
	f.SetColWidth(SheetName, "E", "E", 30)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

var unsafeName = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_", " ", "_",
)

// FileName builds the download name <ledger>_<start>_<end>.xlsx.
func FileName(ledgerName string, start, end civil.Date) string {
	name := unsafeName.Replace(strings.TrimSpace(ledgerName))
	if name == "" {
		name = "ledger"
	}
	return fmt.Sprintf("%s_%s_%s.xlsx", name, start, end)
}
