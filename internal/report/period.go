// Package report aggregates records over a period into totals, a category
// breakdown and a balanced export table.
//
// This file implements the Strategy Pattern for period resolution: each
// report kind owns the rule turning a reference date into a date range.
package report

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type Kind string

const (
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
	Yearly  Kind = "yearly"
)

// Range is an inclusive date interval.
type Range struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Contains reports whether d lies within the range, bounds included.
func (r Range) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r Range) String() string {
	return r.Start.String() + "_" + r.End.String()
}

// PeriodResolver turns a reference date into the report range of its kind.
type PeriodResolver interface {
	Resolve(ref civil.Date) Range
}

// WeekResolver covers Monday through Sunday of the reference week.
type WeekResolver struct{}

func (WeekResolver) Resolve(ref civil.Date) Range {
	// Monday-based weekday: Monday=0 .. Sunday=6.
	weekday := (int(ref.In(time.UTC).Weekday()) + 6) % 7
	start := ref.AddDays(-weekday)
	return Range{Start: start, End: start.AddDays(6)}
}

// MonthResolver covers the first through the last day of the reference month.
// The last day is found by rolling back one day from the next month's first.
type MonthResolver struct{}

func (MonthResolver) Resolve(ref civil.Date) Range {
	start := civil.Date{Year: ref.Year, Month: ref.Month, Day: 1}
	next := civil.DateOf(time.Date(ref.Year, ref.Month+1, 1, 0, 0, 0, 0, time.UTC))
	return Range{Start: start, End: next.AddDays(-1)}
}

// YearResolver covers January 1st through December 31st of the reference year.
type YearResolver struct{}

func (YearResolver) Resolve(ref civil.Date) Range {
	return Range{
		Start: civil.Date{Year: ref.Year, Month: time.January, Day: 1},
		End:   civil.Date{Year: ref.Year, Month: time.December, Day: 31},
	}
}

var resolvers = map[Kind]PeriodResolver{
	Weekly:  WeekResolver{},
	Monthly: MonthResolver{},
	Yearly:  YearResolver{},
}

// Resolve returns the range of kind around ref.
func Resolve(kind Kind, ref civil.Date) (Range, error) {
	r, ok := resolvers[kind]
	if !ok {
		return Range{}, fmt.Errorf("unsupported report kind: %s", kind)
	}
	return r.Resolve(ref), nil
}

// ParseKind accepts the codes and the localized report labels.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == string(Weekly) || strings.HasPrefix(s, "周报"):
		return Weekly, nil
	case s == string(Monthly) || strings.HasPrefix(s, "月报"):
		return Monthly, nil
	case s == string(Yearly) || strings.HasPrefix(s, "年报"):
		return Yearly, nil
	}
	return "", fmt.Errorf("unsupported report kind: %q", s)
}
