package i18n

import (
	"reflect"
	"testing"

	"ledgerpro/internal/core"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		key    string
		locale core.Locale
		want   string
	}{
		{"total_income", core.CN, "总收入"},
		{"total_income", core.EN, "Total Income"},
		{"view_week", core.CN, "周视图"},
		{"missing_key", core.EN, "missing_key"},
		{"balance", core.Locale("FR"), "balance"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"_"+string(tt.locale), func(t *testing.T) {
			if got := Translate(tt.key, tt.locale); got != tt.want {
				t.Errorf("Translate(%q, %q) = %q, want %q", tt.key, tt.locale, got, tt.want)
			}
		})
	}
}

func TestEveryKeyHasBothLocales(t *testing.T) {
	for _, key := range Keys() {
		for _, loc := range []core.Locale{core.CN, core.EN} {
			if Translate(key, loc) == key {
				t.Errorf("key %q missing locale %s", key, loc)
			}
		}
	}
}

func TestDisplayCategory(t *testing.T) {
	if got := DisplayCategory("餐饮", core.EN); got != "🍔 Food" {
		t.Errorf("EN seed = %q", got)
	}
	if got := DisplayCategory("餐饮", core.CN); got != "餐饮" {
		t.Errorf("CN seed = %q", got)
	}
	if got := DisplayCategory("Gifts", core.EN); got != "Gifts" {
		t.Errorf("EN custom = %q", got)
	}
	if got := CanonicalCategory("💰 Salary"); got != "工资" {
		t.Errorf("reverse = %q", got)
	}
	if got := CanonicalCategory("Gifts"); got != "Gifts" {
		t.Errorf("reverse custom = %q", got)
	}
}

func sampleRows() []DisplayRecord {
	d := civil.Date{Year: 2024, Month: 5, Day: 1}
	return []DisplayRecord{
		{ID: 1, Date: d, Type: "收入", Category: "工资", Amount: decimal.NewFromInt(5000)},
		{ID: 2, Date: d, Type: "Expense", Category: "餐饮", Amount: decimal.RequireFromString("120.50"), Note: "lunch"},
		{ID: 3, Date: d, Type: "支出", Category: "Gifts", Amount: decimal.NewFromInt(30)},
		{ID: 4, Date: d, Type: "expense", Category: "🚗 Transport", Amount: decimal.NewFromInt(8)},
	}
}

func TestTranslateRecordsIdempotent(t *testing.T) {
	for _, loc := range []core.Locale{core.CN, core.EN} {
		once := TranslateRecords(sampleRows(), loc)
		twice := TranslateRecords(once, loc)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("%s: translate not idempotent\nonce=%v\ntwice=%v", loc, once, twice)
		}
	}
}

func TestTranslateRecordsRoundTrip(t *testing.T) {
	cn := TranslateRecords(sampleRows(), core.CN)
	back := TranslateRecords(TranslateRecords(cn, core.EN), core.CN)
	if !reflect.DeepEqual(cn, back) {
		t.Fatalf("EN->CN did not restore CN rows\nwant=%v\ngot=%v", cn, back)
	}

	wantTypes := []string{"收入", "支出", "支出", "支出"}
	wantCats := []string{"工资", "餐饮", "Gifts", "交通"}
	for i, row := range cn {
		if row.Type != wantTypes[i] || row.Category != wantCats[i] {
			t.Errorf("row %d = (%q, %q), want (%q, %q)", i, row.Type, row.Category, wantTypes[i], wantCats[i])
		}
	}

	en := TranslateRecords(sampleRows(), core.EN)
	if en[0].Type != "Income" || en[0].Category != "💰 Salary" {
		t.Errorf("EN row 0 = %+v", en[0])
	}
	if en[2].Category != "Gifts" {
		t.Errorf("unmapped category changed: %q", en[2].Category)
	}
}

func TestPresent(t *testing.T) {
	records := []core.Record{{ID: 7, LedgerID: 1, Direction: core.Expense, Category: "交通", Amount: decimal.NewFromInt(3)}}
	got := Present(records, core.EN)
	if got[0].Type != "Expense" || got[0].Category != "🚗 Transport" || got[0].ID != 7 {
		t.Errorf("Present = %+v", got[0])
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":           "RM 0.00",
		"5000":        "RM 5,000.00",
		"4879.5":      "RM 4,879.50",
		"-120.50":     "RM -120.50",
		"1234567":     "RM 1,234,567.00",
		"999.999":     "RM 1,000.00",
		"-0.001":      "RM 0.00",
		"-98765.4":    "RM -98,765.40",
		"1234567.891": "RM 1,234,567.89",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatAmount(%s) = %q, want %q", in, got, want)
		}
	}
}
