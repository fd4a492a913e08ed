// Package calendar computes reporting periods (day, ISO week, month) relative
// to an arbitrary reference instant. All functions are pure and operate in the
// location of the reference instant.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinWeeksBack = 1
	MaxWeeksBack = 52

	lastNano = 999_000_000 // 23:59:59.999
)

var ErrWeeksOutOfRange = errors.New("weeks back out of range")

// Bounds is an inclusive [Start, End] interval.
type Bounds struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%s, %s]", b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339))
}

// BoundsFunc resolves a reporting period for a reference instant.
type BoundsFunc func(ref time.Time) Bounds

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, lastNano, t.Location())
}

// DayOf re-anchors the civil date of t (as it was recorded) at midnight in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func Today(ref time.Time) Bounds {
	return Bounds{
		Start: StartOfDay(ref),
		End:   EndOfDay(ref),
	}
}

// Week returns the ISO week (Monday to Sunday) containing ref.
func Week(ref time.Time) Bounds {
	offset := int(ref.Weekday()) - 1
	if ref.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := ref.Date()
	loc := ref.Location()
	return Bounds{
		Start: time.Date(y, m, d-offset, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d-offset+6, 23, 59, 59, lastNano, loc),
	}
}

func Month(ref time.Time) Bounds {
	y, m, _ := ref.Date()
	loc := ref.Location()
	return Bounds{
		Start: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		// day 0 of the next month is the last day of this one
		End: time.Date(y, m+1, 0, 23, 59, 59, lastNano, loc),
	}
}

// WeeksBack spans n ISO weeks ending with the week containing ref.
func WeeksBack(n int, ref time.Time) (Bounds, error) {
	if n < MinWeeksBack || n > MaxWeeksBack {
		return Bounds{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrWeeksOutOfRange, n, MinWeeksBack, MaxWeeksBack)
	}
	week := Week(ref)
	y, m, d := week.Start.Date()
	return Bounds{
		Start: time.Date(y, m, d-(n-1)*7, 0, 0, 0, 0, week.Start.Location()),
		End:   week.End,
	}, nil
}

// WeeksBackFunc is WeeksBack with n fixed; n is clamped into the valid range.
func WeeksBackFunc(n int) BoundsFunc {
	n = max(MinWeeksBack, min(n, MaxWeeksBack))
	return func(ref time.Time) Bounds {
		b, _ := WeeksBack(n, ref)
		return b
	}
}

// Custom spans whole days, from the start of start's day to the end of end's day.
func Custom(start, end time.Time) Bounds {
	if end.Before(start) {
		start, end = end, start
	}
	return Bounds{
		Start: StartOfDay(start),
		End:   EndOfDay(end),
	}
}

// Contains reports whether t lies within b, both ends inclusive.
func Contains(b Bounds, t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}

// DaysBetween returns the number of calendar days from a to b. It compares
// civil dates, so daylight saving transitions never shift the result.
func DaysBetween(a, b time.Time) int {
	ca := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	cb := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(cb.Sub(ca) / (24 * time.Hour))
}

// Days enumerates the start of every calendar day in b.
func Days(b Bounds) []time.Time {
	if b.End.Before(b.Start) {
		return nil
	}

	days := make([]time.Time, 0, DaysBetween(b.Start, b.End)+1)
	day := StartOfDay(b.Start)
	for !day.After(b.End) {
		days = append(days, day)
		y, m, d := day.Date()
		day = time.Date(y, m, d+1, 0, 0, 0, 0, day.Location())
	}
	return days
}
