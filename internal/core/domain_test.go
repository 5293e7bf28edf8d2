package core

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func TestParseDirection(t *testing.T) {
	cases := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"income", Income, true},
		{"Income", Income, true},
		{"收入", Income, true},
		{"expense", Expense, true},
		{"Expense", Expense, true},
		{"支出", Expense, true},
		{" EXPENSE ", Expense, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDirection(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDirection) {
			t.Fatalf("%q expected ErrInvalidDirection, got %v", tc.in, err)
		}
	}
}

func TestParseLocale(t *testing.T) {
	if ParseLocale("cn") != CN || ParseLocale("CN") != CN {
		t.Fatalf("expected CN")
	}
	if ParseLocale("EN") != EN || ParseLocale("fr") != EN || ParseLocale("") != EN {
		t.Fatalf("expected EN fallback")
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{
		LedgerID:  1,
		Date:      civil.Date{Year: 2024, Month: 5, Day: 1},
		Direction: Income,
		Category:  "工资",
		Amount:    decimal.NewFromInt(5000),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Record)
		want   error
	}{
		{"no ledger", func(r *Record) { r.LedgerID = 0 }, ErrNoLedger},
		{"zero date", func(r *Record) { r.Date = civil.Date{} }, ErrInvalidDate},
		{"bad direction", func(r *Record) { r.Direction = "x" }, ErrInvalidDirection},
		{"blank category", func(r *Record) { r.Category = "  " }, ErrEmptyCategory},
		{"zero amount", func(r *Record) { r.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(r *Record) { r.Amount = decimal.NewFromInt(-3) }, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := good
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecordSignedAndInRange(t *testing.T) {
	r := Record{Direction: Expense, Amount: decimal.RequireFromString("120.50"), Date: civil.Date{Year: 2024, Month: 5, Day: 3}}
	if !r.Signed().Equal(decimal.RequireFromString("-120.50")) {
		t.Fatalf("expected negative delta, got %s", r.Signed())
	}
	start := civil.Date{Year: 2024, Month: 5, Day: 1}
	end := civil.Date{Year: 2024, Month: 5, Day: 31}
	if !r.InRange(start, end) || !r.InRange(r.Date, r.Date) {
		t.Fatalf("expected record within range")
	}
	if r.InRange(civil.Date{Year: 2024, Month: 5, Day: 4}, end) {
		t.Fatalf("expected record outside range")
	}
}
