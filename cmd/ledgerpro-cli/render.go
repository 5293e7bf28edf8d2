package main

import (
	"fmt"
	"strconv"
	"strings"

	"ledgerpro/internal/calendar"
	"ledgerpro/internal/core"
	"ledgerpro/internal/i18n"
	"ledgerpro/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	expenseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	refusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	calendarCell  = lipgloss.NewStyle().Width(12).Height(2).Padding(0, 1).Border(lipgloss.RoundedBorder())
	calendarEmpty = calendarCell.BorderForeground(lipgloss.Color("#45475a"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func styledAmount(d decimal.Decimal) string {
	switch d.Sign() {
	case 1:
		return incomeStyle.Render(i18n.FormatAmount(d))
	case -1:
		return expenseStyle.Render(i18n.FormatAmount(d))
	}
	return i18n.FormatAmount(d)
}

func renderOutcome(ok bool, message string) string {
	if ok {
		return okStyle.Render(message)
	}
	return refusedStyle.Render(message)
}

func renderLedgers(ledgers []core.Ledger, active int64, locale core.Locale) string {
	t := newTable("ID", i18n.Translate("current_ledger", locale))
	for _, l := range ledgers {
		name := l.Name
		if l.ID == active {
			name = titleStyle.Render("* " + name)
		}
		t.Row(strconv.FormatInt(l.ID, 10), name)
	}
	return titleStyle.Render(i18n.Translate("sidebar_title", locale)) + "\n" + t.String()
}

func renderCategories(names []string, locale core.Locale) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.Translate("manage_cats", locale)))
	for _, n := range names {
		b.WriteString("\n  " + i18n.DisplayCategory(n, locale))
	}
	return b.String()
}

func renderSummary(s core.Summary, locale core.Locale) string {
	return fmt.Sprintf("%s %s   %s %s   %s %s",
		mutedStyle.Render(i18n.Translate("total_income", locale)), incomeStyle.Render(i18n.FormatAmount(s.Income)),
		mutedStyle.Render(i18n.Translate("total_expense", locale)), expenseStyle.Render(i18n.FormatAmount(s.Expense)),
		mutedStyle.Render(i18n.Translate("balance", locale)), styledAmount(s.Balance))
}

func renderRecords(records []core.Record, locale core.Locale) string {
	if len(records) == 0 {
		return mutedStyle.Render(i18n.Translate("empty", locale))
	}
	t := newTable("ID",
		i18n.Translate("date", locale),
		i18n.Translate("type", locale),
		i18n.Translate("category", locale),
		i18n.Translate("amount", locale),
		i18n.Translate("note", locale))
	for _, r := range i18n.Present(records, locale) {
		t.Row(strconv.FormatInt(r.ID, 10), r.Date.String(), r.Type, r.Category, i18n.FormatAmount(r.Amount), r.Note)
	}
	return renderSummary(core.Summarize(records), locale) + "\n" + t.String()
}

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// renderCalendar draws the grid as bordered cells coloured by the sign of
// the day's net amount.
func renderCalendar(g calendar.Grid, locale core.Locale) string {
	head := make([]string, len(weekdays))
	for i, d := range weekdays {
		head[i] = lipgloss.NewStyle().Width(14).Align(lipgloss.Center).Bold(true).Render(d)
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, head...)}

	for _, week := range g.Weeks {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = renderCell(c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	title := titleStyle.Render(fmt.Sprintf("%s %d-%02d", i18n.Translate("tab_stats", locale), g.Year, int(g.Month)))
	total := fmt.Sprintf("%s %s", mutedStyle.Render(i18n.Translate("balance", locale)), styledAmount(g.Total()))
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...), total)
}

func renderCell(c calendar.Cell) string {
	if c.Empty {
		return calendarEmpty.Render("")
	}
	day := strconv.Itoa(c.Day)
	if c.IsToday {
		day = lipgloss.NewStyle().Bold(true).Underline(true).Render(day)
	}
	net := ""
	switch c.Class {
	case calendar.Positive:
		net = incomeStyle.Render("+" + c.Net.StringFixed(2))
	case calendar.Negative:
		net = expenseStyle.Render(c.Net.StringFixed(2))
	}
	return calendarCell.Render(day + "\n" + net)
}

func renderReport(res report.Result, locale core.Locale) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s .. %s", i18n.Translate("summary", locale), res.Range.Start, res.Range.End)))
	b.WriteString("\n" + renderSummary(res.Summary, locale) + "\n\n")

	b.WriteString(titleStyle.Render(i18n.Translate("cat_breakdown", locale)) + "\n")
	if len(res.Breakdown) == 0 {
		b.WriteString(mutedStyle.Render(i18n.Translate("empty", locale)))
		return b.String()
	}
	t := newTable(i18n.Translate("category", locale), i18n.Translate("type", locale), i18n.Translate("amount", locale))
	for _, ct := range res.Breakdown {
		t.Row(ct.Category, ct.Type, i18n.FormatAmount(ct.Amount))
	}
	b.WriteString(t.String())
	return b.String()
}
