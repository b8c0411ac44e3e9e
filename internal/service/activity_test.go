package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/pkg/logger"
)

func activityFixture(t *testing.T) (*ActivityService, *MealLogService, *gorm.DB) {
	t.Helper()
	db := openSeededDB(t)
	log := logger.NewNop()
	users := NewUserService(db)
	meals := NewMealLogService(db)
	return NewActivityService(db, users, meals, log), meals, db
}

func TestCurrentLevelDefault(t *testing.T) {
	svc, _, _ := activityFixture(t)
	level, err := svc.CurrentLevel(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultActivityLevel, level)
}

func TestSetLevel(t *testing.T) {
	svc, _, db := activityFixture(t)
	user := createTestUser(t, db, 65)

	require.NoError(t, svc.SetLevel(context.Background(), user.ID, models.ActivityVeryActive))
	level, err := svc.CurrentLevel(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityVeryActive, level)

	// overwrite, not duplicate
	require.NoError(t, svc.SetLevel(context.Background(), user.ID, models.ActivitySedentary))
	var count int64
	require.NoError(t, db.Model(&models.ActivityLevelEstimate{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.Error(t, svc.SetLevel(context.Background(), user.ID, "hyperactive"))
}

func TestActivityTrainSingleLabelStaysUntrained(t *testing.T) {
	svc, meals, db := activityFixture(t)
	user := createTestUser(t, db, 65)
	require.NoError(t, svc.SetLevel(context.Background(), user.ID, models.ActivitySedentary))
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindActual,
		map[string]float64{"apple": 150}, time.Now().UTC()))

	clf, err := svc.Train(context.Background(), svc.NewModel())
	require.NoError(t, err)
	assert.False(t, clf.Trained())
}

func TestActivityTrainAndPredict(t *testing.T) {
	svc, meals, db := activityFixture(t)

	sedentary := createTestUser(t, db, 65)
	active := createTestUser(t, db, 75)
	require.NoError(t, svc.SetLevel(context.Background(), sedentary.ID, models.ActivitySedentary))
	require.NoError(t, svc.SetLevel(context.Background(), active.ID, models.ActivitySuperActive))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * 24 * time.Hour)
		require.NoError(t, meals.LogMeal(context.Background(), sedentary.ID, models.MealKindActual,
			map[string]float64{"apple": 200}, at))
		require.NoError(t, meals.LogMeal(context.Background(), active.ID, models.MealKindActual,
			map[string]float64{"oats": 300, "chicken_breast": 400, "olive_oil": 30}, at))
	}

	clf, err := svc.Train(context.Background(), svc.NewModel())
	require.NoError(t, err)
	require.True(t, clf.Trained())

	level, err := svc.Predict(context.Background(), clf, active.ID)
	require.NoError(t, err)
	assert.Contains(t, models.ActivityLevels, level)

	persisted, err := svc.CurrentLevel(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, level, persisted)
}

func TestPredictUnknownUser(t *testing.T) {
	svc, _, _ := activityFixture(t)
	clf := svc.NewModel()
	require.NoError(t, clf.PartialFit([][]float64{{1000, 0}, {3000, 0}}, []int{0, 4}))

	_, err := svc.Predict(context.Background(), clf, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAverageRecentCaloriesNoHistory(t *testing.T) {
	svc, _, db := activityFixture(t)
	user := createTestUser(t, db, 65)

	avg, err := svc.averageRecentCalories(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestAverageRecentCaloriesLookback(t *testing.T) {
	svc, meals, db := activityFixture(t)
	user := createTestUser(t, db, 65)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// four meals; only the last three count
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindActual, map[string]float64{"olive_oil": 1000}, base))
	for i := 1; i <= 3; i++ {
		require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindActual,
			map[string]float64{"apple": 100, "banana": 100}, base.Add(time.Duration(i)*24*time.Hour)))
	}

	// the mean is per log entry, not per meal: six entries, 52+89 each pair
	avg, err := svc.averageRecentCalories(context.Background(), user.ID)
	require.NoError(t, err)
	assert.InDelta(t, (52.0+89.0)/2, avg, 0.001)
}

func TestLatestWeightRate(t *testing.T) {
	svc, _, db := activityFixture(t)
	users := NewUserService(db)
	user := createTestUser(t, db, 65)

	rate, err := svc.latestWeightRate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, rate)

	obs, err := users.Observations(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, users.AppendWeight(context.Background(), user.ID, 69, obs[0].ObservedAt.Add(2*24*time.Hour)))

	rate, err = svc.latestWeightRate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, rate, 0.001)
}
