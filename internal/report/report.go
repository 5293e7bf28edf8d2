package report

import (
	"sort"
	"strings"

	"ledgerpro/internal/core"
	"ledgerpro/internal/i18n"

	"github.com/shopspring/decimal"
)

// RowKind tells record rows apart from the synthetic rows Balance appends.
type RowKind string

const (
	RowRecord    RowKind = "record"
	RowBalancing RowKind = "balancing"
	RowTotal     RowKind = "total"
)

// Row is one line of the export table. Exactly one of Income and Expense is
// set on record rows.
type Row struct {
	Kind     RowKind             `json:"kind"`
	Date     string              `json:"date"`
	Category string              `json:"category"`
	Income   decimal.NullDecimal `json:"income"`
	Expense  decimal.NullDecimal `json:"expense"`
	Note     string              `json:"note"`
}

type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Sums totals the income and expense columns.
func (t Table) Sums() (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, r := range t.Rows {
		if r.Income.Valid {
			income = income.Add(r.Income.Decimal)
		}
		if r.Expense.Valid {
			expense = expense.Add(r.Expense.Decimal)
		}
	}
	return income, expense
}

// CategoryTotal is one line of the category × type breakdown.
type CategoryTotal struct {
	Category  string          `json:"category"`
	Direction core.Direction  `json:"direction"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

type Result struct {
	Range     Range           `json:"range"`
	Records   []core.Record   `json:"records"`
	Summary   core.Summary    `json:"summary"`
	Breakdown []CategoryTotal `json:"breakdown"`
	Export    Table           `json:"export"`
}

// Build filters records to rng and aggregates them for display and export.
func Build(records []core.Record, rng Range, locale core.Locale) Result {
	filtered := make([]core.Record, 0, len(records))
	for _, r := range records {
		if rng.Contains(r.Date) {
			filtered = append(filtered, r)
		}
	}
	return Result{
		Range:     rng,
		Records:   filtered,
		Summary:   core.Summarize(filtered),
		Breakdown: Breakdown(filtered, locale),
		Export:    Balance(ExportTable(filtered, locale), locale),
	}
}

// Breakdown sums amounts by (category, direction), largest first.
func Breakdown(records []core.Record, locale core.Locale) []CategoryTotal {
	type key struct {
		category  string
		direction core.Direction
	}
	sums := make(map[key]decimal.Decimal)
	for _, r := range records {
		k := key{r.Category, r.Direction}
		sums[k] = sums[k].Add(r.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for k, amount := range sums {
		out = append(out, CategoryTotal{
			Category:  i18n.DisplayCategory(k.category, locale),
			Direction: k.direction,
			Type:      i18n.DirectionLabel(k.direction, locale),
			Amount:    amount,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Direction < out[j].Direction
	})
	return out
}

// StripDecoration drops a leading decoration token such as "🍔 " from a
// category label. Labels made of a single token are kept as they are.
func StripDecoration(label string) string {
	parts := strings.SplitN(label, " ", 2)
	if len(parts) > 1 {
		return parts[1]
	}
	return label
}

// ExportTable splits each record's amount into the income or expense column.
func ExportTable(records []core.Record, locale core.Locale) Table {
	t := Table{
		Columns: []string{
			i18n.Translate("date", locale),
			i18n.Translate("category", locale),
			i18n.Translate("income", locale),
			i18n.Translate("expense", locale),
			i18n.Translate("note", locale),
		},
		Rows: make([]Row, 0, len(records)+2),
	}
	for _, r := range records {
		row := Row{
			Kind:     RowRecord,
			Date:     r.Date.String(),
			Category: StripDecoration(i18n.DisplayCategory(r.Category, locale)),
			Note:     r.Note,
		}
		if r.Direction == core.Income {
			row.Income = decimal.NewNullDecimal(r.Amount)
		} else {
			row.Expense = decimal.NewNullDecimal(r.Amount)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Balance reconciles the export table so both amount columns foot to the same
// total. When the column sums differ a balancing row carrying the difference
// goes into the smaller column; a totals row with both columns set to the
// larger sum closes the table. An empty table is returned unchanged.
func Balance(t Table, locale core.Locale) Table {
	if len(t.Rows) == 0 {
		return t
	}
	income, expense := t.Sums()

	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    append(make([]Row, 0, len(t.Rows)+2), t.Rows...),
	}

	if !income.Equal(expense) {
		diff := income.Sub(expense).Abs()
		row := Row{Kind: RowBalancing, Category: i18n.Translate("export_balancing", locale)}
		if income.LessThan(expense) {
			row.Income = decimal.NewNullDecimal(diff)
		} else {
			row.Expense = decimal.NewNullDecimal(diff)
		}
		out.Rows = append(out.Rows, row)
	}

	total := decimal.Max(income, expense)
	out.Rows = append(out.Rows, Row{
		Kind:     RowTotal,
		Category: i18n.Translate("export_total", locale),
		Income:   decimal.NewNullDecimal(total),
		Expense:  decimal.NewNullDecimal(total),
	})
	return out
}
