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
	"github.com/mealwise/backend/internal/nutrition"
	"github.com/mealwise/backend/internal/pkg/logger"
	"github.com/mealwise/backend/internal/testhelpers"
)

func trendFixture(t *testing.T) (*TrendService, *UserService, *gorm.DB) {
	t.Helper()
	db := testhelpers.OpenTestDB(t)
	log := logger.NewNop()
	users := NewUserService(db)
	meals := NewMealLogService(db)
	activity := NewActivityService(db, users, meals, log)
	return NewTrendService(db, users, activity, log), users, db
}

func TestTrendGetDefaultsWhenAbsent(t *testing.T) {
	svc, _, _ := trendFixture(t)
	gain, loss, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGainFactor, gain)
	assert.Equal(t, models.DefaultLossFactor, loss)
}

func TestTrendUpdateNoObservationsPersistsDefaults(t *testing.T) {
	svc, _, db := trendFixture(t)

	user := &models.User{
		ID: uuid.New(), Sex: "F", Age: 30, HeightCM: 165,
		WeightKG: 70, TargetWeightKG: 65, EstimatedDays: 50,
	}
	insertBareUser(t, db, user)

	gain, loss, err := svc.Update(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGainFactor, gain)
	assert.Equal(t, models.DefaultLossFactor, loss)

	var row models.WeightTrendFactor
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&row).Error)
	assert.Equal(t, models.DefaultGainFactor, row.GainFactor)
}

func TestTrendUpdateLosingWeight(t *testing.T) {
	svc, _, db := trendFixture(t)
	user := createTestUser(t, db, 65)

	gain, loss, err := svc.Update(context.Background(), user.ID)
	require.NoError(t, err)

	// losing: the loss factor is an undershoot and gain is its reciprocal
	assert.Less(t, loss, 1.0)
	assert.Greater(t, gain, 1.0)
	assert.InDelta(t, 1.0, gain*loss, 1e-9)

	// daily delta -0.1 kg over ~50 remaining days against the default
	// activity level's maintenance
	needs, err := nutrition.MaintenanceCalories(70, 165, 30, "F", models.DefaultActivityLevel)
	require.NoError(t, err)
	wantLoss := (needs + (65.0-70.0)/50*nutrition.KcalPerKG) / needs
	assert.InDelta(t, wantLoss, loss, 0.01)
}

func TestTrendUpdateGainingWeight(t *testing.T) {
	svc, _, db := trendFixture(t)
	user := createTestUser(t, db, 78)

	gain, loss, err := svc.Update(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Greater(t, gain, 1.0)
	assert.Less(t, loss, 1.0)
	assert.InDelta(t, 1.0, gain*loss, 1e-9)
}

func TestTrendUpdateLapsedDeadlineFallsBackToDefaults(t *testing.T) {
	svc, users, db := trendFixture(t)

	user := &models.User{
		ID: uuid.New(), Sex: "F", Age: 30, HeightCM: 165,
		WeightKG: 70, TargetWeightKG: 65, EstimatedDays: 10,
	}
	insertBareUser(t, db, user)
	start := time.Now().UTC().Add(-30 * 24 * time.Hour)
	require.NoError(t, db.Create(&models.WeightObservation{UserID: user.ID, WeightKG: 71, ObservedAt: start}).Error)
	require.NoError(t, users.AppendWeight(context.Background(), user.ID, 70, start.Add(15*24*time.Hour)))

	gain, loss, err := svc.Update(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGainFactor, gain)
	assert.Equal(t, models.DefaultLossFactor, loss)
}

func TestTrendUpdateRejectsDuplicateObservationTimes(t *testing.T) {
	svc, _, db := trendFixture(t)

	user := &models.User{
		ID: uuid.New(), Sex: "F", Age: 30, HeightCM: 165,
		WeightKG: 70, TargetWeightKG: 65, EstimatedDays: 50,
	}
	insertBareUser(t, db, user)
	at := time.Now().UTC()
	require.NoError(t, db.Create(&models.WeightObservation{UserID: user.ID, WeightKG: 70, ObservedAt: at}).Error)
	require.NoError(t, db.Create(&models.WeightObservation{UserID: user.ID, WeightKG: 69, ObservedAt: at}).Error)

	_, _, err := svc.Update(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrInconsistentState)
}

func TestTrendUpdateOverwritesPriorRow(t *testing.T) {
	svc, _, db := trendFixture(t)
	user := createTestUser(t, db, 65)

	_, _, err := svc.Update(context.Background(), user.ID)
	require.NoError(t, err)
	_, _, err = svc.Update(context.Background(), user.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.WeightTrendFactor{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
