package aggregate

import (
	"time"

	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/fitlog"
	"github.com/2beens/fitcoach/internal/streak"
)

const GoodSleepHours = 7.0

func weighIns(measurements []fitlog.Measurement) []fitlog.Measurement {
	var filtered []fitlog.Measurement
	for _, m := range measurements {
		if m.Weight.Float() > 0 {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// WeighInsThisWeek counts the measurements of ref's week that carry a weight.
func WeighInsThisWeek(measurements []fitlog.Measurement, ref time.Time) int {
	return CountInBounds(weighIns(measurements), calendar.Week, ref)
}

func MeasurementsThisMonth(measurements []fitlog.Measurement, ref time.Time) int {
	return CountInBounds(measurements, calendar.Month, ref)
}

func WeighInStreak(measurements []fitlog.Measurement, ref time.Time) int {
	return streak.Length(EventDays(weighIns(measurements)), ref)
}

func JournalStreak(journal []fitlog.JournalEntry, ref time.Time) int {
	return streak.Length(EventDays(journal), ref)
}

func JournalEntriesThisWeek(journal []fitlog.JournalEntry, ref time.Time) int {
	return CountInBounds(journal, calendar.Week, ref)
}

// GoodSleepNights counts the days of ref's week with an entry reporting at
// least GoodSleepHours of sleep.
func GoodSleepNights(journal []fitlog.JournalEntry, ref time.Time) int {
	return CountDaysMeetingThreshold(journal, calendar.Week(ref), func(dayEntries []fitlog.JournalEntry) bool {
		for _, e := range dayEntries {
			if e.SleepHours.Float() >= GoodSleepHours {
				return true
			}
		}
		return false
	})
}

// AverageMoodThisWeek averages the mood scores of ref's week; unset (zero)
// scores are left out.
func AverageMoodThisWeek(journal []fitlog.JournalEntry, ref time.Time) float64 {
	sum, n := 0.0, 0
	for _, e := range InBounds(journal, calendar.Week(ref)) {
		if mood := e.Mood.Float(); mood > 0 {
			sum += mood
			n++
		}
	}
	return Round(safeDiv(sum, float64(n)), 2)
}
