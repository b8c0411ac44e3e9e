package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/nutrition"
)

// repetitionWindow is how far back the composer looks when penalizing
// recently eaten foods.
const repetitionWindow = 5 * 24 * time.Hour

// MealLogService appends to and queries the append-only meal log.
type MealLogService struct {
	db *gorm.DB
}

// NewMealLogService creates a new MealLogService instance
func NewMealLogService(db *gorm.DB) *MealLogService {
	return &MealLogService{db: db}
}

// LogMeal appends one entry per item. Every food must exist in the
// catalog and every quantity must be positive.
func (s *MealLogService) LogMeal(ctx context.Context, userID uuid.UUID, kind string, items map[string]float64, mealTime time.Time) error {
	if kind != models.MealKindActual && kind != models.MealKindRecommended {
		return fmt.Errorf("unrecognized meal kind %q", kind)
	}
	if len(items) == 0 {
		return fmt.Errorf("meal has no items")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for food, qty := range items {
			if qty <= 0 {
				return fmt.Errorf("quantity for %q must be positive, got %v", food, qty)
			}
			var count int64
			if err := tx.Model(&models.FoodItem{}).Where("name = ?", food).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: %s", ErrFoodNotFound, food)
			}
			entry := models.MealLogEntry{
				UserID:    userID,
				FoodName:  food,
				QuantityG: qty,
				MealTime:  mealTime,
				Kind:      kind,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Entries returns a user's log entries of one kind, optionally bounded by
// a time range (zero values mean unbounded).
func (s *MealLogService) Entries(ctx context.Context, userID uuid.UUID, kind string, from, to time.Time) ([]models.MealLogEntry, error) {
	q := s.db.WithContext(ctx).Where("user_id = ? AND kind = ?", userID, kind)
	if !from.IsZero() {
		q = q.Where("meal_time >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("meal_time <= ?", to)
	}
	var entries []models.MealLogEntry
	if err := q.Order("meal_time ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// AllEntries returns every entry of one kind across all users; the
// training paths re-read the full history on every call.
func (s *MealLogService) AllEntries(ctx context.Context, kind string) ([]models.MealLogEntry, error) {
	var entries []models.MealLogEntry
	if err := s.db.WithContext(ctx).Where("kind = ?", kind).Order("meal_time ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// RepetitionCount counts how many times a user's actual-meal log contains
// the food within the repetition window before t.
func (s *MealLogService) RepetitionCount(ctx context.Context, userID uuid.UUID, food string, t time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.MealLogEntry{}).
		Where("user_id = ? AND kind = ? AND food_name = ?", userID, models.MealKindActual, food).
		Where("meal_time >= ? AND meal_time < ?", t.Add(-repetitionWindow), t).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// RecentMealTimes returns the user's n most recent distinct actual meal
// times, newest first.
func (s *MealLogService) RecentMealTimes(ctx context.Context, userID uuid.UUID, n int) ([]time.Time, error) {
	var times []time.Time
	err := s.db.WithContext(ctx).Model(&models.MealLogEntry{}).
		Where("user_id = ? AND kind = ?", userID, models.MealKindActual).
		Distinct("meal_time").
		Order("meal_time DESC").
		Limit(n).
		Pluck("meal_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// MealVector totals the nutrient content of an entry set against the
// catalog: per-100g vectors scaled by quantity.
func (s *MealLogService) MealVector(ctx context.Context, entries []models.MealLogEntry) (nutrition.Vector, error) {
	var total nutrition.Vector
	for _, e := range entries {
		var food models.FoodItem
		if err := s.db.WithContext(ctx).Where("name = ?", e.FoodName).First(&food).Error; err != nil {
			return nutrition.Vector{}, fmt.Errorf("%w: %s", ErrFoodNotFound, e.FoodName)
		}
		total = total.Add(foodVector(&food).Scale(e.QuantityG / 100))
	}
	return total, nil
}

// DailyCalories is one (user, day) consumed-calorie total.
type DailyCalories struct {
	UserID   uuid.UUID
	Day      time.Time
	Calories float64
}

// DailyConsumedCalories aggregates every actual-meal entry into per-user,
// per-day calorie totals. Aggregation happens in process to stay
// dialect-independent. Entries referencing foods no longer in the catalog
// contribute nothing.
func (s *MealLogService) DailyConsumedCalories(ctx context.Context) ([]DailyCalories, error) {
	entries, err := s.AllEntries(ctx, models.MealKindActual)
	if err != nil {
		return nil, err
	}

	foods, err := NewCatalogService(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	perFood := make(map[string]float64, len(foods))
	for _, f := range foods {
		perFood[f.Name] = f.Calories
	}

	type key struct {
		user uuid.UUID
		day  time.Time
	}
	totals := make(map[key]float64)
	var order []key
	for _, e := range entries {
		cal100, ok := perFood[e.FoodName]
		if !ok {
			continue
		}
		k := key{user: e.UserID, day: e.MealTime.UTC().Truncate(24 * time.Hour)}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += cal100 * e.QuantityG / 100
	}

	out := make([]DailyCalories, 0, len(order))
	for _, k := range order {
		out = append(out, DailyCalories{UserID: k.user, Day: k.day, Calories: totals[k]})
	}
	return out, nil
}
