package aggregate

import (
	"time"

	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/fitlog"
	"github.com/2beens/fitcoach/internal/streak"
)

func WorkoutsThisWeek(workouts []fitlog.Workout, ref time.Time) int {
	return CountInBounds(workouts, calendar.Week, ref)
}

func WorkoutsThisMonth(workouts []fitlog.Workout, ref time.Time) int {
	return CountInBounds(workouts, calendar.Month, ref)
}

func WeekTrainingMinutes(workouts []fitlog.Workout, ref time.Time) float64 {
	return Round(SumField(workouts, calendar.Week(ref), func(w fitlog.Workout) float64 {
		return w.Duration.Float()
	}), 2)
}

// TrainingVolume sums reps*weight over all sets of the strength workouts in b.
func TrainingVolume(workouts []fitlog.Workout, b calendar.Bounds) float64 {
	volume := SumField(workouts, b, func(w fitlog.Workout) float64 {
		if !w.Type.Is(fitlog.WorkoutTypeStrength) {
			return 0
		}
		v := 0.0
		for _, ex := range w.Exercises {
			for _, set := range ex.Series {
				v += set.Reps.Float() * set.Weight.Float()
			}
		}
		return v
	})
	return Round(volume, 2)
}

func WeekTrainingVolume(workouts []fitlog.Workout, ref time.Time) float64 {
	return TrainingVolume(workouts, calendar.Week(ref))
}

func TrainingStreak(workouts []fitlog.Workout, ref time.Time) int {
	return streak.Length(EventDays(workouts), ref)
}

func CardioSessionsThisWeek(workouts []fitlog.Workout, ref time.Time) int {
	count := 0
	for _, w := range InBounds(workouts, calendar.Week(ref)) {
		if w.Type.Is(fitlog.WorkoutTypeCardio) {
			count++
		}
	}
	return count
}

// ActiveDaysThisWeek counts the days of ref's week with at least one workout.
func ActiveDaysThisWeek(workouts []fitlog.Workout, ref time.Time) int {
	return CountDaysMeetingThreshold(workouts, calendar.Week(ref), func(dayWorkouts []fitlog.Workout) bool {
		return len(dayWorkouts) > 0
	})
}
