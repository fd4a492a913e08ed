package aggregate

import (
	"time"

	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/fitlog"
	"github.com/2beens/fitcoach/internal/streak"
)

const (
	DefaultWeightKg = 70.0
	// grams of protein per kilo of body weight
	proteinPerKg = 1.6
	// meals needed for a day to count as a perfect nutrition day
	perfectDayMeals = 3
)

func MealsToday(meals []fitlog.Meal, ref time.Time) int {
	return CountInBounds(meals, calendar.Today, ref)
}

func MealsThisWeek(meals []fitlog.Meal, ref time.Time) int {
	return CountInBounds(meals, calendar.Week, ref)
}

// PerfectNutritionDays counts the days of ref's week with at least three
// logged meals.
func PerfectNutritionDays(meals []fitlog.Meal, ref time.Time) int {
	return CountDaysMeetingThreshold(meals, calendar.Week(ref), func(dayMeals []fitlog.Meal) bool {
		return len(dayMeals) >= perfectDayMeals
	})
}

// LatestWeight returns the weight of the most recent dated measurement with a
// positive weight, or false when there is none.
func LatestWeight(measurements []fitlog.Measurement) (float64, bool) {
	var (
		latest fitlog.Measurement
		found  bool
	)
	for _, m := range measurements {
		if m.Weight.Float() <= 0 || m.Date.IsZero() {
			continue
		}
		if !found || m.Date.After(latest.Date.Time) {
			latest = m
			found = true
		}
	}
	return latest.Weight.Float(), found
}

// ProteinGoal returns the daily protein goal in grams for the latest known
// body weight, falling back to defaultWeightKg.
func ProteinGoal(measurements []fitlog.Measurement, defaultWeightKg float64) int {
	weight, ok := LatestWeight(measurements)
	if !ok {
		weight = defaultWeightKg
	}
	return int(Round(weight*proteinPerKg, 0))
}

// ProteinGoalDays counts the days of ref's week on which the logged protein
// reached the protein goal.
func ProteinGoalDays(meals []fitlog.Meal, measurements []fitlog.Measurement, ref time.Time, defaultWeightKg float64) int {
	goal := float64(ProteinGoal(measurements, defaultWeightKg))
	if goal <= 0 {
		return 0
	}
	return CountDaysMeetingThreshold(meals, calendar.Week(ref), func(dayMeals []fitlog.Meal) bool {
		protein := 0.0
		for _, m := range dayMeals {
			protein += m.Protein.Float()
		}
		return protein >= goal
	})
}

func WeekProtein(meals []fitlog.Meal, ref time.Time) float64 {
	return Round(SumField(meals, calendar.Week(ref), func(m fitlog.Meal) float64 {
		return m.Protein.Float()
	}), 2)
}

func DailyCalories(meals []fitlog.Meal, day time.Time) float64 {
	return Round(SumField(meals, calendar.Today(day), func(m fitlog.Meal) float64 {
		return m.Calories.Float()
	}), 2)
}

func MealStreak(meals []fitlog.Meal, ref time.Time) int {
	return streak.Length(EventDays(meals), ref)
}
