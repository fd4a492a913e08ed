package aggregate

import (
	"time"

	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/fitlog"
)

const (
	ConsistencyWeeks       = 4
	ConsistentWeekWorkouts = 3
)

// AllRoundDaysThisWeek counts the days of ref's week on which a meal, a
// workout and a journal entry were all logged.
func AllRoundDaysThisWeek(snapshot *fitlog.Snapshot, ref time.Time) int {
	if snapshot == nil {
		return 0
	}

	week := calendar.Week(ref)
	loc := week.Start.Location()
	meals := groupByDay(InBounds(snapshot.Meals, week), loc)
	workouts := groupByDay(InBounds(snapshot.Workouts, week), loc)
	journal := groupByDay(InBounds(snapshot.Journal, week), loc)

	count := 0
	for _, day := range calendar.Days(week) {
		if len(meals[day]) > 0 && len(workouts[day]) > 0 && len(journal[day]) > 0 {
			count++
		}
	}
	return count
}

// ConsistentWeeks counts how many of the last ConsistencyWeeks ISO weeks,
// the current one included, had at least ConsistentWeekWorkouts workouts.
func ConsistentWeeks(workouts []fitlog.Workout, ref time.Time) int {
	count := 0
	weekRef := ref
	for range ConsistencyWeeks {
		if CountInBounds(workouts, calendar.Week, weekRef) >= ConsistentWeekWorkouts {
			count++
		}
		weekRef = weekRef.AddDate(0, 0, -7)
	}
	return count
}
