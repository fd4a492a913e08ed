package fitlog

import (
	"strings"
	"time"
)

// Collection names one of the user's event collections.
type Collection string

const (
	CollectionMeals        Collection = "meals"
	CollectionWorkouts     Collection = "workouts"
	CollectionMeasurements Collection = "measurements"
	CollectionJournal      Collection = "journal"
)

var AllCollections = []Collection{
	CollectionMeals,
	CollectionWorkouts,
	CollectionMeasurements,
	CollectionJournal,
}

func (c Collection) String() string {
	return string(c)
}

func (c Collection) IsValid() bool {
	switch c {
	case CollectionMeals,
		CollectionWorkouts,
		CollectionMeasurements,
		CollectionJournal:
		return true
	default:
		return false
	}
}

// Dated is implemented by every logged event.
type Dated interface {
	EventDate() time.Time
}

type Meal struct {
	ID       int    `json:"id"`
	UserID   string `json:"userId"`
	Date     Date   `json:"date"`
	Name     string `json:"name"`
	Calories Number `json:"calories"`
	Protein  Number `json:"protein"`
	Carbs    Number `json:"carbs"`
	Fat      Number `json:"fat"`
}

func (m Meal) EventDate() time.Time { return m.Date.Time }

// WorkoutType can be one of:
//   - strength
//   - cardio
//   - mobility
//   - other
type WorkoutType string

const (
	WorkoutTypeStrength WorkoutType = "strength"
	WorkoutTypeCardio   WorkoutType = "cardio"
	WorkoutTypeMobility WorkoutType = "mobility"
	WorkoutTypeOther    WorkoutType = "other"
)

func (wt WorkoutType) Is(other WorkoutType) bool {
	return strings.EqualFold(strings.TrimSpace(string(wt)), string(other))
}

// Set is a single series of an exercise.
type Set struct {
	Reps   Number `json:"reps"`
	Weight Number `json:"weight"`
}

type Exercise struct {
	Name   string `json:"name"`
	Series []Set  `json:"series"`
}

type Workout struct {
	ID     int         `json:"id"`
	UserID string      `json:"userId"`
	Date   Date        `json:"date"`
	Type   WorkoutType `json:"type"`
	// Duration in minutes
	Duration  Number     `json:"duration"`
	Exercises []Exercise `json:"exercises"`
}

func (w Workout) EventDate() time.Time { return w.Date.Time }

// Measurement is a body measurement; weight in kilos, lengths in centimeters.
type Measurement struct {
	ID      int    `json:"id"`
	UserID  string `json:"userId"`
	Date    Date   `json:"date"`
	Weight  Number `json:"weight"`
	BodyFat Number `json:"bodyFat"`
	Waist   Number `json:"waist"`
	Chest   Number `json:"chest"`
	Hips    Number `json:"hips"`
}

func (m Measurement) EventDate() time.Time { return m.Date.Time }

// JournalEntry holds the daily self-assessment; mood and energy are 1-10 scores.
type JournalEntry struct {
	ID         int    `json:"id"`
	UserID     string `json:"userId"`
	Date       Date   `json:"date"`
	Mood       Number `json:"mood"`
	Energy     Number `json:"energy"`
	SleepHours Number `json:"sleepHours"`
	Note       string `json:"note"`
}

func (j JournalEntry) EventDate() time.Time { return j.Date.Time }

// Snapshot is the set of event collections of one user at one point in time.
type Snapshot struct {
	UserID       string         `json:"userId"`
	Meals        []Meal         `json:"meals"`
	Workouts     []Workout      `json:"workouts"`
	Measurements []Measurement  `json:"measurements"`
	Journal      []JournalEntry `json:"journal"`
}

// Change tells that one of the user's collections, or the user's set of
// challenges, was modified.
type Change struct {
	UserID     string     `json:"userId"`
	Collection Collection `json:"collection,omitempty"`
	Challenges bool       `json:"challenges,omitempty"`
}
