// Package streak measures runs of consecutive calendar days.
//
// The same implementation backs training, weigh-in, journal and meal logging
// streaks.
package streak

import (
	"sort"
	"time"

	"github.com/2beens/fitcoach/internal/calendar"
)

// Length returns the length of the current unbroken run of days ending today
// or yesterday, relative to ref. Zero dates are ignored, as are days after
// ref's day.
func Length(dates []time.Time, ref time.Time) int {
	days := uniqueDaysDesc(dates, ref.Location())

	today := calendar.StartOfDay(ref)
	for len(days) > 0 && days[0].After(today) {
		days = days[1:]
	}
	if len(days) == 0 {
		return 0
	}

	// must have acted today or yesterday to keep the streak alive
	if calendar.DaysBetween(days[0], today) > 1 {
		return 0
	}

	return runLength(days)
}

// Longest returns the longest run of consecutive days found in dates.
func Longest(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	days := uniqueDaysDesc(dates, time.UTC)
	longest := 0
	for len(days) > 0 {
		n := runLength(days)
		longest = max(longest, n)
		days = days[n:]
	}
	return longest
}

// runLength counts how many leading entries of days (unique, descending)
// are exactly one calendar day apart.
func runLength(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	count := 1
	for i := 1; i < len(days); i++ {
		if calendar.DaysBetween(days[i], days[i-1]) != 1 {
			break
		}
		count++
	}
	return count
}

func uniqueDaysDesc(dates []time.Time, loc *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		day := calendar.DayOf(d, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})
	return days
}
