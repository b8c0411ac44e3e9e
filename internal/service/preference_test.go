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

func preferenceFixture(t *testing.T) (*PreferenceService, *MealLogService, *gorm.DB) {
	t.Helper()
	db := openSeededDB(t)
	meals := NewMealLogService(db)
	return NewPreferenceService(db, meals, logger.NewNop()), meals, db
}

func TestPreferenceScoreDefault(t *testing.T) {
	svc, _, _ := preferenceFixture(t)
	score, err := svc.Score(context.Background(), uuid.New(), "apple")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferenceScore, score)
}

func TestPreferenceTrainMatchedOnlyHistoryStaysUntrained(t *testing.T) {
	svc, meals, db := preferenceFixture(t)
	user := createTestUser(t, db, 65)
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// every recommendation was eaten, so every label is positive and the
	// fit is degenerate
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindRecommended, map[string]float64{"brown_rice": 200}, at))
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindActual, map[string]float64{"brown_rice": 200}, at))

	clf, vocab, err := svc.Train(context.Background(), svc.NewModel())
	require.NoError(t, err)
	assert.False(t, clf.Trained())
	assert.Equal(t, 1, vocab.Len())
}

func TestPreferenceTrainLabelsRecommendedByActualMatch(t *testing.T) {
	svc, meals, db := preferenceFixture(t)
	user := createTestUser(t, db, 65)
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// eaten recommendation: same user, food and timestamp in both logs
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindRecommended, map[string]float64{"brown_rice": 200}, at))
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindActual, map[string]float64{"brown_rice": 200}, at))
	// ignored recommendation: no matching actual entry
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindRecommended, map[string]float64{"broccoli": 150}, at))

	clf, vocab, err := svc.Train(context.Background(), svc.NewModel())
	require.NoError(t, err)
	// the ignored recommendation supplies the negative class
	assert.True(t, clf.Trained())
	assert.Equal(t, []int{0, 1}, clf.Classes)
	assert.Equal(t, 2, vocab.Len())
	assert.NotEqual(t, vocab.Code("brown_rice"), vocab.Code("broccoli"))
}

func TestPreferencePredictPersistsScore(t *testing.T) {
	svc, meals, db := preferenceFixture(t)
	user := createTestUser(t, db, 65)
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindRecommended, map[string]float64{"brown_rice": 200}, at))
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindActual, map[string]float64{"brown_rice": 200}, at))
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindRecommended, map[string]float64{"broccoli": 150}, at))

	clf, vocab, err := svc.Train(context.Background(), svc.NewModel())
	require.NoError(t, err)
	require.True(t, clf.Trained())

	score, err := svc.Predict(context.Background(), clf, vocab, user.ID, "brown_rice", true, 200)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)

	var row models.FoodPreference
	require.NoError(t, db.Where("user_id = ? AND food_name = ?", user.ID, "brown_rice").First(&row).Error)
	assert.Equal(t, score, row.Score)
	assert.Equal(t, models.CategoryGrains, row.Category)

	stored, err := svc.Score(context.Background(), user.ID, "brown_rice")
	require.NoError(t, err)
	assert.Equal(t, score, stored)

	// unseen foods ride the reserved unknown code and still score
	score, err = svc.Predict(context.Background(), clf, vocab, user.ID, "durian", false, 100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
	var unseen models.FoodPreference
	require.NoError(t, db.Where("user_id = ? AND food_name = ?", user.ID, "durian").First(&unseen).Error)
	assert.Equal(t, "", unseen.Category)
}

func TestPreferencePredictOverwrites(t *testing.T) {
	svc, meals, db := preferenceFixture(t)
	user := createTestUser(t, db, 65)
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindRecommended, map[string]float64{"brown_rice": 200}, at))
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindActual, map[string]float64{"brown_rice": 200}, at))
	require.NoError(t, meals.LogMeal(context.Background(), user.ID, models.MealKindRecommended, map[string]float64{"broccoli": 150}, at))

	clf, vocab, err := svc.Train(context.Background(), svc.NewModel())
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), clf, vocab, user.ID, "brown_rice", true, 200)
	require.NoError(t, err)
	_, err = svc.Predict(context.Background(), clf, vocab, user.ID, "brown_rice", false, 100)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.FoodPreference{}).Where("user_id = ? AND food_name = ?", user.ID, "brown_rice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
