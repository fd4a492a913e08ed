// Package aggregate turns raw event collections into scalar progress metrics.
//
// Every aggregator is a total, pure function of (events, reference instant):
// missing numbers count as 0, events with an unparsable (zero) date are left
// out of every bounded aggregation, and divisions by zero yield 0.
package aggregate

import (
	"math"
	"time"

	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/fitlog"
)

// inBounds compares by calendar day: the event's recorded date is
// re-anchored in the location of the bounds.
func inBounds(t time.Time, b calendar.Bounds) bool {
	if t.IsZero() {
		return false
	}
	return calendar.Contains(b, calendar.DayOf(t, b.Start.Location()))
}

// InBounds returns the events dated within b, in their original order.
func InBounds[E fitlog.Dated](events []E, b calendar.Bounds) []E {
	var filtered []E
	for _, e := range events {
		if inBounds(e.EventDate(), b) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func CountInBounds[E fitlog.Dated](events []E, boundsFn calendar.BoundsFunc, ref time.Time) int {
	b := boundsFn(ref)
	count := 0
	for _, e := range events {
		if inBounds(e.EventDate(), b) {
			count++
		}
	}
	return count
}

// CountDaysMeetingThreshold counts the days of b for which threshold holds
// over the events of that day. Days without events are evaluated too.
func CountDaysMeetingThreshold[E fitlog.Dated](events []E, b calendar.Bounds, threshold func(dayEvents []E) bool) int {
	byDay := groupByDay(InBounds(events, b), b.Start.Location())

	count := 0
	for _, day := range calendar.Days(b) {
		if threshold(byDay[day]) {
			count++
		}
	}
	return count
}

func SumField[E fitlog.Dated](events []E, b calendar.Bounds, selector func(E) float64) float64 {
	sum := 0.0
	for _, e := range events {
		if inBounds(e.EventDate(), b) {
			sum += finite(selector(e))
		}
	}
	return sum
}

// EventDays returns the dates of all events, zero dates included; the
// streak calculator skips those.
func EventDays[E fitlog.Dated](events []E) []time.Time {
	days := make([]time.Time, 0, len(events))
	for _, e := range events {
		days = append(days, e.EventDate())
	}
	return days
}

func groupByDay[E fitlog.Dated](events []E, loc *time.Location) map[time.Time][]E {
	byDay := make(map[time.Time][]E)
	for _, e := range events {
		day := calendar.DayOf(e.EventDate(), loc)
		byDay[day] = append(byDay[day], e)
	}
	return byDay
}

// Round rounds half away from zero to the given number of decimal places.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return finite(a / b)
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
