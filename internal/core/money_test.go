package core

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.001", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestSummarize(t *testing.T) {
	d := civil.Date{Year: 2024, Month: 5, Day: 1}
	records := []Record{
		{Date: d, Direction: Income, Amount: decimal.NewFromInt(5000)},
		{Date: d, Direction: Expense, Amount: decimal.RequireFromString("120.50")},
	}
	s := Summarize(records)
	if !s.Income.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("income = %s", s.Income)
	}
	if !s.Expense.Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("expense = %s", s.Expense)
	}
	if !s.Balance.Equal(decimal.RequireFromString("4879.50")) {
		t.Errorf("balance = %s", s.Balance)
	}

	empty := Summarize(nil)
	if !empty.Income.IsZero() || !empty.Expense.IsZero() || !empty.Balance.IsZero() {
		t.Errorf("expected zero summary, got %+v", empty)
	}
}
