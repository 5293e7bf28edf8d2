package report

import (
	"sort"

	"ledgerpro/internal/core"
	"ledgerpro/internal/i18n"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// MonthTotal is the amount of one direction in one calendar month.
type MonthTotal struct {
	Month     string          `json:"month"` // YYYY-MM
	Direction core.Direction  `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
}

// CategoryAmount is the amount attributed to a display category.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DayAmount is the amount recorded on a single date.
type DayAmount struct {
	Date   civil.Date      `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Criteria narrows a record list. Zero values match everything.
type Criteria struct {
	Categories []string
	Direction  core.Direction
}

// Filter keeps the records matching c, preserving order.
func Filter(records []core.Record, c Criteria) []core.Record {
	var allowed map[string]bool
	if len(c.Categories) > 0 {
		allowed = make(map[string]bool, len(c.Categories))
		for _, name := range c.Categories {
			allowed[i18n.CanonicalCategory(name)] = true
		}
	}
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if allowed != nil && !allowed[r.Category] {
			continue
		}
		if c.Direction != "" && r.Direction != c.Direction {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MonthlyTotals groups amounts by month and direction, oldest month first.
func MonthlyTotals(records []core.Record) []MonthTotal {
	type key struct {
		month     string
		direction core.Direction
	}
	sums := make(map[key]decimal.Decimal)
	for _, r := range records {
		k := key{r.Date.String()[:7], r.Direction}
		sums[k] = sums[k].Add(r.Amount)
	}
	out := make([]MonthTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, MonthTotal{Month: k.month, Direction: k.direction, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Direction < out[j].Direction
	})
	return out
}

// ExpenseRanking sums expenses per category, smallest first so the largest
// bar ends up on top of a horizontal chart.
func ExpenseRanking(records []core.Record, locale core.Locale) []CategoryAmount {
	out := byCategory(Filter(records, Criteria{Direction: core.Expense}), locale)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.LessThan(out[j].Amount)
	})
	return out
}

// Composition sums every record's amount per category regardless of direction,
// largest first.
func Composition(records []core.Record, locale core.Locale) []CategoryAmount {
	out := byCategory(records, locale)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// DailyTrend sums amounts per date, oldest first.
func DailyTrend(records []core.Record) []DayAmount {
	sums := make(map[civil.Date]decimal.Decimal)
	for _, r := range records {
		sums[r.Date] = sums[r.Date].Add(r.Amount)
	}
	out := make([]DayAmount, 0, len(sums))
	for d, v := range sums {
		out = append(out, DayAmount{Date: d, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// byCategory returns per-category sums ordered by display name.
func byCategory(records []core.Record, locale core.Locale) []CategoryAmount {
	sums := make(map[string]decimal.Decimal)
	for _, r := range records {
		sums[r.Category] = sums[r.Category].Add(r.Amount)
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, v := range sums {
		out = append(out, CategoryAmount{Category: i18n.DisplayCategory(name, locale), Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
