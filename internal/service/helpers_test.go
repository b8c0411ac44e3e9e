package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/testhelpers"
)

// createTestUser stores a user through the service, so the registration
// weight observation is seeded the same way production does it.
func createTestUser(t *testing.T, db *gorm.DB, targetKG float64) *models.User {
	t.Helper()
	user := &models.User{
		Name:           "Test User",
		Sex:            "F",
		Age:            30,
		HeightCM:       165,
		WeightKG:       70,
		TargetWeightKG: targetKG,
		EstimatedDays:  50,
	}
	require.NoError(t, NewUserService(db).Create(context.Background(), user))
	return user
}

// insertBareUser writes the user row directly, without the registration
// observation, for tests exercising the empty-history paths.
func insertBareUser(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()
	require.NoError(t, db.Create(user).Error)
}

func openSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testhelpers.OpenTestDB(t)
	testhelpers.SeedFoods(t, db)
	return db
}

func logActualMeal(t *testing.T, db *gorm.DB, user *models.User, items map[string]float64, at time.Time) {
	t.Helper()
	require.NoError(t, NewMealLogService(db).LogMeal(context.Background(), user.ID, models.MealKindActual, items, at))
}
