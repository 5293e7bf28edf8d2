package core

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

const (
	Income  Direction = "income"
	Expense Direction = "expense"

	CN Locale = "CN"
	EN Locale = "EN"
)

const (
	// DefaultLedgerName is the ledger seeded on first start.
	DefaultLedgerName = "My Ledger"

	// Currency is a fixed display prefix, independent of locale.
	Currency = "RM"
)

var (
	// DefaultCategories seed the first ledger.
	DefaultCategories = []string{"餐饮", "交通", "购物", "居住", "工资", "娱乐"}

	// NewLedgerCategories seed every ledger created afterwards.
	NewLedgerCategories = []string{"餐饮", "交通", "工资"}
)

type (
	// Direction is the stable storage code of a record's type.
	Direction string

	Locale string

	Ledger struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	Category struct {
		ID       int64  `json:"id"`
		LedgerID int64  `json:"ledger_id"`
		Name     string `json:"name"`
	}

	// Record is a single dated income or expense entry. Category is a free-text
	// copy taken at creation time, not a reference to the categories table.
	Record struct {
		ID        int64           `json:"id"`
		LedgerID  int64           `json:"ledger_id"`
		Date      civil.Date      `json:"date"`
		Direction Direction       `json:"type"`
		Category  string          `json:"category"`
		Amount    decimal.Decimal `json:"amount"`
		Note      string          `json:"note"`
	}

	// Session carries the per-call user context: display locale and active ledger.
	Session struct {
		Locale   Locale
		LedgerID int64
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrEmptyCategory    = errors.New("empty category")
	ErrNoLedger         = errors.New("no ledger selected")

	ErrLastLedger     = errors.New("cannot delete the last remaining ledger")
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrRecordNotFound = errors.New("record not found")
)

// ParseDirection maps a stored code or any display literal of either locale
// onto the stable code. "支出", "Expense" and "expense" are synonyms, as are
// "收入", "Income" and "income".
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(s, "支出") || strings.Contains(lower, "expense"):
		return Expense, nil
	case strings.Contains(s, "收入") || strings.Contains(lower, "income"):
		return Income, nil
	}
	return "", ErrInvalidDirection
}

func (d Direction) Valid() bool {
	return d == Income || d == Expense
}

func (d Direction) String() string {
	return string(d)
}

// ParseLocale returns CN for any spelling of it and EN otherwise.
func ParseLocale(s string) Locale {
	if strings.EqualFold(strings.TrimSpace(s), string(CN)) {
		return CN
	}
	return EN
}

// Signed returns the amount as a signed daily delta: positive for income,
// negative for expense.
func (r Record) Signed() decimal.Decimal {
	if r.Direction == Expense {
		return r.Amount.Neg()
	}
	return r.Amount
}

// Validate checks the invariants the entry form enforces before a save.
// Storage performs no validation of its own.
func (r Record) Validate() error {
	if r.LedgerID <= 0 {
		return ErrNoLedger
	}
	if !r.Date.IsValid() {
		return ErrInvalidDate
	}
	if !r.Direction.Valid() {
		return ErrInvalidDirection
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// InRange reports whether the record's date lies within [start, end].
func (r Record) InRange(start, end civil.Date) bool {
	return !r.Date.Before(start) && !r.Date.After(end)
}
