// Package calendar builds the month heat-map: a Sunday-first grid of day cells
// annotated with the net signed total of each day.
package calendar

import (
	"strings"
	"time"

	"ledgerpro/internal/core"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeMonth Mode = "month"
	ModeWeek  Mode = "week"
)

// Class is the styling bucket of a cell.
type Class string

const (
	Positive Class = "positive"
	Negative Class = "negative"
	Neutral  Class = "neutral"
)

// Cell is one position of the grid. Empty cells pad the first and last week
// rows and carry no day.
type Cell struct {
	Day     int             `json:"day,omitempty"`
	Net     decimal.Decimal `json:"net"`
	Class   Class           `json:"class,omitempty"`
	IsToday bool            `json:"is_today,omitempty"`
	Empty   bool            `json:"empty,omitempty"`
}

type Grid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Mode  Mode       `json:"mode"`
	Weeks [][]Cell   `json:"weeks"`
}

// Request holds every input of BuildGrid. Today is explicit so that the
// same request always yields the same grid.
type Request struct {
	Year     int
	Month    time.Month
	Records  []core.Record
	Mode     Mode
	Selected civil.Date
	Today    civil.Date
}

// ParseMode accepts the codes and the localized view labels; anything else is ModeMonth.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ModeWeek), "周视图":
		return ModeWeek
	}
	return ModeMonth
}

// DailyNet sums the signed delta of every record per calendar date.
func DailyNet(records []core.Record) map[civil.Date]decimal.Decimal {
	net := make(map[civil.Date]decimal.Decimal)
	for _, r := range records {
		net[r.Date] = net[r.Date].Add(r.Signed())
	}
	return net
}

// BuildGrid lays out the requested month. In ModeWeek only the row holding
// the selected day is returned; if no row holds it the whole month is.
func BuildGrid(req Request) Grid {
	net := DailyNet(req.Records)
	weeks := monthWeeks(req.Year, req.Month)

	for _, week := range weeks {
		for i := range week {
			if week[i].Empty {
				continue
			}
			d := civil.Date{Year: req.Year, Month: req.Month, Day: week[i].Day}
			v := net[d]
			week[i].Net = v
			week[i].Class = classify(v)
			week[i].IsToday = d == req.Today
		}
	}

	g := Grid{Year: req.Year, Month: req.Month, Mode: req.Mode, Weeks: weeks}
	if req.Mode == ModeWeek {
		if row, ok := weekOf(weeks, req.Selected.Day); ok {
			g.Weeks = [][]Cell{row}
		}
	}
	return g
}

// Total is the sum of every populated cell's net value.
func (g Grid) Total() decimal.Decimal {
	total := decimal.Zero
	for _, week := range g.Weeks {
		for _, c := range week {
			if !c.Empty {
				total = total.Add(c.Net)
			}
		}
	}
	return total
}

func classify(v decimal.Decimal) Class {
	switch v.Sign() {
	case 1:
		return Positive
	case -1:
		return Negative
	}
	return Neutral
}

// monthWeeks decomposes a month into Sunday-first rows of seven cells.
func monthWeeks(year int, month time.Month) [][]Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	offset := int(first.Weekday())

	var weeks [][]Cell
	week := make([]Cell, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, Cell{Empty: true})
	}
	for day := 1; day <= daysIn; day++ {
		week = append(week, Cell{Day: day})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, Cell{Empty: true})
		}
		weeks = append(weeks, week)
	}
	return weeks
}

func weekOf(weeks [][]Cell, day int) ([]Cell, bool) {
	for _, week := range weeks {
		for _, c := range week {
			if !c.Empty && c.Day == day {
				return week, true
			}
		}
	}
	return nil, false
}
