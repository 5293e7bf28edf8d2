// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and the totals every view of a ledger shares.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into a positive amount rounded
// half-up to two decimal places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for invalid formats, signed values, or zero amounts.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Summary holds the headline totals of a set of records.
type Summary struct {
	Income  decimal.Decimal `json:"total_income"`
	Expense decimal.Decimal `json:"total_expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Summarize totals income and expense and derives the balance.
func Summarize(records []Record) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, r := range records {
		switch r.Direction {
		case Income:
			s.Income = s.Income.Add(r.Amount)
		case Expense:
			s.Expense = s.Expense.Add(r.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}
