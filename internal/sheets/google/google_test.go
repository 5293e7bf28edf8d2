package google

import (
	"context"
	"strings"
	"testing"

	"ledgerpro/internal/core"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "  ", "Records")
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	clearCredentials(t)
	_, err := New(context.Background(), "sheet-id", "Records")
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewSheetsService_UnreadableFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", t.TempDir()+"/missing.json")
	_, err := newSheetsService(context.Background())
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_UninitializedService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheet: "Records"}
	ctx := context.Background()

	if _, err := c.AppendRecord(ctx, core.Record{ID: 1}); err == nil {
		t.Error("AppendRecord: expected error")
	}
	if _, err := c.RemoveRecord(ctx, 1); err == nil {
		t.Error("RemoveRecord: expected error")
	}
	if _, err := c.ListMirrored(ctx); err == nil {
		t.Error("ListMirrored: expected error")
	}
}

func TestA1(t *testing.T) {
	tests := []struct {
		sheet, cells, want string
	}{
		{"Records", "A:A", "Records!A:A"},
		{"My Records", "A1:G1", "'My Records'!A1:G1"},
		{"Bob's", "A:G", "'Bob''s'!A:G"},
	}
	for _, tt := range tests {
		if got := a1(tt.sheet, tt.cells); got != tt.want {
			t.Errorf("a1(%q, %q) = %q, want %q", tt.sheet, tt.cells, got, tt.want)
		}
	}
	if got := rowRef("Records", 5); got != "Records!A5:G5" {
		t.Errorf("rowRef = %q", got)
	}
}

func TestLocateRecord(t *testing.T) {
	values := [][]any{
		{"ID"},
		{"1"},
		{},
		{float64(12)},
		{" 7 "},
	}
	tests := []struct {
		id      int64
		wantRow int
		wantOK  bool
	}{
		{1, 2, true},
		{12, 4, true},
		{7, 5, true},
		{99, 0, false},
	}
	for _, tt := range tests {
		row, ok := locateRecord(values, tt.id)
		if row != tt.wantRow || ok != tt.wantOK {
			t.Errorf("locateRecord(%d) = %d, %v", tt.id, row, ok)
		}
	}
}

func TestParseRows(t *testing.T) {
	values := [][]any{
		{"ID", "Ledger", "Date", "Type", "Category", "Amount", "Note"},
		{"1", "1", "2024-05-01", "income", "工资", "5000.00", ""},
		{},
		{"2", "1", "not-a-date", "expense", "餐饮", "1", ""},
		{"3", "1", "2024-05-14", "expense", "餐饮", 120.5},
	}
	got := parseRows(context.Background(), values)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("parseRows = %+v", got)
	}
	if got[1].Amount.String() != "120.5" || got[1].Note != "" {
		t.Errorf("row 3 = %+v", got[1])
	}
}
