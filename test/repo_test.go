//go:build integration

package test

import (
	"context"
	"time"

	"github.com/2beens/fitcoach/internal/challenges"
	"github.com/2beens/fitcoach/internal/fitlog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestChallengesRepo() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t := s.T()
	repo := challenges.NewRepo(s.dbPool)
	userID := "repo-user-" + uuid.NewString()

	added, err := repo.Add(ctx, challenges.Challenge{
		UserID:    userID,
		Title:     "Weekly Warrior",
		MetricKey: challenges.MetricWorkoutsWeek,
		Category:  "training",
		Target:    4,
		Status:    challenges.StatusActive,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, added.ID)

	_, err = repo.Add(ctx, challenges.Challenge{
		UserID:    userID,
		Title:     "Weekly Warrior",
		MetricKey: challenges.MetricWorkoutsWeek,
		Target:    4,
		Status:    challenges.StatusActive,
	})
	assert.ErrorIs(t, err, challenges.ErrChallengeExists)

	users, err := repo.UsersWithActive(ctx)
	require.NoError(t, err)
	assert.Contains(t, users, userID)

	require.NoError(t, repo.UpdateCurrent(ctx, added.ID, 2))
	got, err := repo.Get(ctx, userID, added.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Current)

	assert.ErrorIs(t, repo.UpdateCurrent(ctx, uuid.New(), 1), challenges.ErrChallengeNotFound)
	_, err = repo.Get(ctx, "someone-else", added.ID)
	assert.ErrorIs(t, err, challenges.ErrChallengeNotFound)

	require.NoError(t, repo.SetStatus(ctx, userID, added.ID, challenges.StatusPaused))
	active, err := repo.ListActive(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, userID, added.ID))
	assert.ErrorIs(t, repo.Delete(ctx, userID, added.ID), challenges.ErrChallengeNotFound)
}

func (s *IntegrationTestSuite) TestFitlogRepo() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t := s.T()
	repo := fitlog.NewRepo(s.dbPool)
	userID := "repo-user-" + uuid.NewString()
	day := fitlog.NewDate(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))

	meal, err := repo.AddMeal(ctx, fitlog.Meal{UserID: userID, Date: day, Name: "oats", Protein: 25, Calories: 450})
	require.NoError(t, err)
	assert.NotZero(t, meal.ID)

	_, err = repo.AddMeasurement(ctx, fitlog.Measurement{UserID: userID, Date: day, Weight: 81.5})
	require.NoError(t, err)

	meals, err := repo.ListMeals(ctx, userID)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "oats", meals[0].Name)
	assert.True(t, meals[0].Date.Equal(day.Time))

	measurements, err := repo.ListMeasurements(ctx, userID)
	require.NoError(t, err)
	require.Len(t, measurements, 1)
	assert.Equal(t, fitlog.Number(81.5), measurements[0].Weight)

	require.NoError(t, repo.Delete(ctx, fitlog.CollectionMeals, userID, meal.ID))
	assert.ErrorIs(t, repo.Delete(ctx, fitlog.CollectionMeals, userID, meal.ID), fitlog.ErrEventNotFound)
}
