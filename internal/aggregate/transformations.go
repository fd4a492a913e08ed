package aggregate

import (
	"sort"
	"time"

	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/fitlog"
)

const minLossRateDays = 7

// firstLastDelta returns first-last of the given field over the in-bounds
// measurements carrying a positive value, sorted by date. Fewer than two
// such measurements yield 0.
func firstLastDelta(measurements []fitlog.Measurement, b calendar.Bounds, field func(fitlog.Measurement) float64) float64 {
	var qualifying []fitlog.Measurement
	for _, m := range InBounds(measurements, b) {
		if field(m) > 0 {
			qualifying = append(qualifying, m)
		}
	}
	if len(qualifying) < 2 {
		return 0
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].Date.Before(qualifying[j].Date.Time)
	})
	return field(qualifying[0]) - field(qualifying[len(qualifying)-1])
}

func weight(m fitlog.Measurement) float64  { return m.Weight.Float() }
func bodyFat(m fitlog.Measurement) float64 { return m.BodyFat.Float() }

// WeightDelta is the weight change within b; positive means weight lost.
func WeightDelta(measurements []fitlog.Measurement, b calendar.Bounds) float64 {
	return Round(firstLastDelta(measurements, b, weight), 2)
}

func MonthWeightDelta(measurements []fitlog.Measurement, ref time.Time) float64 {
	return WeightDelta(measurements, calendar.Month(ref))
}

func RangeWeightDelta(measurements []fitlog.Measurement, start, end time.Time) float64 {
	return WeightDelta(measurements, calendar.Custom(start, end))
}

// WeightLossRate returns the weight lost per week between start and end. It
// is only defined for ranges of at least a week and is 0 otherwise.
func WeightLossRate(measurements []fitlog.Measurement, start, end time.Time) float64 {
	days := calendar.DaysBetween(start, end)
	if days < 0 {
		days = -days
	}
	if days < minLossRateDays {
		return 0
	}
	delta := firstLastDelta(measurements, calendar.Custom(start, end), weight)
	return Round(safeDiv(delta, float64(days)/7), 2)
}

// BodyFatDeltaThisMonth is the body fat percentage lost within ref's month.
func BodyFatDeltaThisMonth(measurements []fitlog.Measurement, ref time.Time) float64 {
	return Round(firstLastDelta(measurements, calendar.Month(ref), bodyFat), 2)
}
