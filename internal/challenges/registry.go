package challenges

import (
	"fmt"
	"slices"
	"time"

	"github.com/2beens/fitcoach/internal/aggregate"
	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/fitlog"
)

// Domain groups metrics by the part of the fitness log they summarize.
type Domain string

const (
	DomainNutrition       Domain = "nutrition"
	DomainTraining        Domain = "training"
	DomainTracking        Domain = "tracking"
	DomainTransformations Domain = "transformations"
	DomainMeta            Domain = "meta"
)

const (
	MetricMealsToday           MetricKey = "meals_today"
	MetricMealsWeek            MetricKey = "meals_week"
	MetricPerfectNutritionDays MetricKey = "perfect_nutrition_days"
	MetricProteinGoalDays      MetricKey = "protein_goal_days"
	MetricWeekProtein          MetricKey = "week_protein"
	MetricCaloriesToday        MetricKey = "calories_today"
	MetricMealStreak           MetricKey = "meal_streak"

	MetricWorkoutsWeek        MetricKey = "workouts_week"
	MetricWorkoutsMonth       MetricKey = "workouts_month"
	MetricWeekTrainingMinutes MetricKey = "week_training_minutes"
	MetricWeekTrainingVolume  MetricKey = "week_training_volume"
	MetricTrainingStreak      MetricKey = "training_streak"
	MetricCardioSessionsWeek  MetricKey = "cardio_sessions_week"
	MetricActiveDaysWeek      MetricKey = "active_days_week"

	MetricWeighInsWeek       MetricKey = "weigh_ins_week"
	MetricMeasurementsMonth  MetricKey = "measurements_month"
	MetricWeighInStreak      MetricKey = "weigh_in_streak"
	MetricJournalStreak      MetricKey = "journal_streak"
	MetricJournalEntriesWeek MetricKey = "journal_entries_week"
	MetricGoodSleepNights    MetricKey = "good_sleep_nights"
	MetricAverageMoodWeek    MetricKey = "average_mood_week"
	MetricMonthWeightLoss    MetricKey = "month_weight_loss"
	MetricMonthBodyFatLoss   MetricKey = "month_body_fat_loss"
	MetricFourWeekWeightLoss MetricKey = "four_week_weight_loss"
	MetricFourWeekLossRate   MetricKey = "four_week_loss_rate"

	MetricAllRoundDaysWeek MetricKey = "all_round_days_week"
	MetricConsistentWeeks  MetricKey = "consistent_weeks"
)

// MetricFunc computes one metric over a user's snapshot at ref.
type MetricFunc func(snapshot *fitlog.Snapshot, ref time.Time) float64

type MetricDef struct {
	Key    MetricKey
	Domain Domain
	// Collections the metric reads; a change to any of them makes it stale.
	Collections []fitlog.Collection
	Compute     MetricFunc
}

// Registry maps metric keys to their definitions.
type Registry struct {
	defs  map[MetricKey]MetricDef
	order []MetricKey
}

func NewRegistry(defs []MetricDef) (*Registry, error) {
	r := &Registry{
		defs: make(map[MetricKey]MetricDef, len(defs)),
	}
	for _, def := range defs {
		if def.Key == "" || def.Compute == nil {
			return nil, fmt.Errorf("metric definition %q: key and compute func are required", def.Key)
		}
		if _, ok := r.defs[def.Key]; ok {
			return nil, fmt.Errorf("metric %q registered twice", def.Key)
		}
		r.defs[def.Key] = def
		r.order = append(r.order, def.Key)
	}
	return r, nil
}

// NewDefaultRegistry builds the registry of DefaultMetrics.
func NewDefaultRegistry(defaultWeightKg float64) *Registry {
	r, err := NewRegistry(DefaultMetrics(defaultWeightKg))
	if err != nil {
		// only reachable through a programming error in DefaultMetrics
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(key MetricKey) (MetricDef, bool) {
	def, ok := r.defs[key]
	return def, ok
}

// Keys returns all registered keys in registration order.
func (r *Registry) Keys() []MetricKey {
	return slices.Clone(r.order)
}

// Compute evaluates the metrics of the given domains, or all of them when no
// domain is given.
func (r *Registry) Compute(snapshot *fitlog.Snapshot, ref time.Time, domains []Domain) map[MetricKey]float64 {
	if snapshot == nil {
		snapshot = &fitlog.Snapshot{}
	}

	values := make(map[MetricKey]float64)
	for _, key := range r.order {
		def := r.defs[key]
		if len(domains) > 0 && !slices.Contains(domains, def.Domain) {
			continue
		}
		values[key] = def.Compute(snapshot, ref)
	}
	return values
}

// DomainsFor returns the domains having at least one metric that reads any of
// the given collections. No collections means every domain.
func (r *Registry) DomainsFor(collections []fitlog.Collection) []Domain {
	var domains []Domain
	for _, key := range r.order {
		def := r.defs[key]
		if slices.Contains(domains, def.Domain) {
			continue
		}
		if len(collections) == 0 || slices.ContainsFunc(def.Collections, func(c fitlog.Collection) bool {
			return slices.Contains(collections, c)
		}) {
			domains = append(domains, def.Domain)
		}
	}
	return domains
}

func count(n int) float64 { return float64(n) }

// loss reports a weight or body fat delta as progress; a gain is no loss.
func loss(delta float64) float64 { return max(delta, 0) }

func DefaultMetrics(defaultWeightKg float64) []MetricDef {
	if defaultWeightKg <= 0 {
		defaultWeightKg = aggregate.DefaultWeightKg
	}

	meals := []fitlog.Collection{fitlog.CollectionMeals}
	workouts := []fitlog.Collection{fitlog.CollectionWorkouts}
	measurements := []fitlog.Collection{fitlog.CollectionMeasurements}
	journal := []fitlog.Collection{fitlog.CollectionJournal}

	return []MetricDef{
		// nutrition
		{MetricMealsToday, DomainNutrition, meals, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.MealsToday(s.Meals, ref))
		}},
		{MetricMealsWeek, DomainNutrition, meals, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.MealsThisWeek(s.Meals, ref))
		}},
		{MetricPerfectNutritionDays, DomainNutrition, meals, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.PerfectNutritionDays(s.Meals, ref))
		}},
		{
			MetricProteinGoalDays, DomainNutrition,
			[]fitlog.Collection{fitlog.CollectionMeals, fitlog.CollectionMeasurements},
			func(s *fitlog.Snapshot, ref time.Time) float64 {
				return count(aggregate.ProteinGoalDays(s.Meals, s.Measurements, ref, defaultWeightKg))
			},
		},
		{MetricWeekProtein, DomainNutrition, meals, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return aggregate.WeekProtein(s.Meals, ref)
		}},
		{MetricCaloriesToday, DomainNutrition, meals, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return aggregate.DailyCalories(s.Meals, ref)
		}},
		{MetricMealStreak, DomainNutrition, meals, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.MealStreak(s.Meals, ref))
		}},

		// training
		{MetricWorkoutsWeek, DomainTraining, workouts, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.WorkoutsThisWeek(s.Workouts, ref))
		}},
		{MetricWorkoutsMonth, DomainTraining, workouts, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.WorkoutsThisMonth(s.Workouts, ref))
		}},
		{MetricWeekTrainingMinutes, DomainTraining, workouts, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return aggregate.WeekTrainingMinutes(s.Workouts, ref)
		}},
		{MetricWeekTrainingVolume, DomainTraining, workouts, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return aggregate.WeekTrainingVolume(s.Workouts, ref)
		}},
		{MetricTrainingStreak, DomainTraining, workouts, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.TrainingStreak(s.Workouts, ref))
		}},
		{MetricCardioSessionsWeek, DomainTraining, workouts, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.CardioSessionsThisWeek(s.Workouts, ref))
		}},
		{MetricActiveDaysWeek, DomainTraining, workouts, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.ActiveDaysThisWeek(s.Workouts, ref))
		}},

		// tracking
		{MetricWeighInsWeek, DomainTracking, measurements, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.WeighInsThisWeek(s.Measurements, ref))
		}},
		{MetricMeasurementsMonth, DomainTracking, measurements, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.MeasurementsThisMonth(s.Measurements, ref))
		}},
		{MetricWeighInStreak, DomainTracking, measurements, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.WeighInStreak(s.Measurements, ref))
		}},
		{MetricJournalStreak, DomainTracking, journal, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.JournalStreak(s.Journal, ref))
		}},
		{MetricJournalEntriesWeek, DomainTracking, journal, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.JournalEntriesThisWeek(s.Journal, ref))
		}},
		{MetricGoodSleepNights, DomainTracking, journal, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.GoodSleepNights(s.Journal, ref))
		}},
		{MetricAverageMoodWeek, DomainTracking, journal, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return aggregate.AverageMoodThisWeek(s.Journal, ref)
		}},

		// transformations
		{MetricMonthWeightLoss, DomainTransformations, measurements, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return loss(aggregate.MonthWeightDelta(s.Measurements, ref))
		}},
		{MetricMonthBodyFatLoss, DomainTransformations, measurements, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return loss(aggregate.BodyFatDeltaThisMonth(s.Measurements, ref))
		}},
		{MetricFourWeekWeightLoss, DomainTransformations, measurements, func(s *fitlog.Snapshot, ref time.Time) float64 {
			b := calendar.WeeksBackFunc(4)(ref)
			return loss(aggregate.RangeWeightDelta(s.Measurements, b.Start, ref))
		}},
		{MetricFourWeekLossRate, DomainTransformations, measurements, func(s *fitlog.Snapshot, ref time.Time) float64 {
			b := calendar.WeeksBackFunc(4)(ref)
			return loss(aggregate.WeightLossRate(s.Measurements, b.Start, ref))
		}},

		// meta
		{
			MetricAllRoundDaysWeek, DomainMeta,
			[]fitlog.Collection{fitlog.CollectionMeals, fitlog.CollectionWorkouts, fitlog.CollectionJournal},
			func(s *fitlog.Snapshot, ref time.Time) float64 {
				return count(aggregate.AllRoundDaysThisWeek(s, ref))
			},
		},
		{MetricConsistentWeeks, DomainMeta, workouts, func(s *fitlog.Snapshot, ref time.Time) float64 {
			return count(aggregate.ConsistentWeeks(s.Workouts, ref))
		}},
	}
}
