package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/nutrition"
	"github.com/mealwise/backend/internal/pkg/logger"
)

// Composite score weights: healthy composition, nutrition gap,
// preference, nonrepeat.
const (
	weightHealthy      = 0.35
	weightNutritionGap = 0.20
	weightPreference   = 0.30
	weightNonrepeat    = 0.15
)

// ratioAdjustBound caps how far a category's calorie share can move from
// its base per composition.
const ratioAdjustBound = 0.05

// nonrepeatPenaltyStep is the score lost per recent repetition of a food.
const nonrepeatPenaltyStep = 0.1

// fallbackGrams is used when a food's per-100g calories is zero or the
// lookup fails.
const fallbackGrams = 100.0

// ComposerService builds a daily meal: for each food category it samples
// candidates through a biased acceptance test over the composite score,
// adapts the category's calorie share to how hard the category was to
// satisfy, and logs the result as a recommended meal.
//
// The acceptance loop redraws with replacement, so it favors high-scoring
// foods probabilistically without being a normalized weighted sample;
// that bias is intentional. A draw cap with a best-seen fallback makes
// termination unconditional.
type ComposerService struct {
	catalog     *CatalogService
	meals       *MealLogService
	users       *UserService
	activity    *ActivityService
	trend       *TrendService
	preferences *PreferenceService
	log         *logger.Logger

	maxDraws int

	// rng is shared across composes; draws go through draw() so
	// concurrent requests never touch it unsynchronized.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewComposerService creates a new ComposerService instance. src may be
// nil, in which case a time-seeded source is used; tests inject a fixed
// seed.
func NewComposerService(
	catalog *CatalogService,
	meals *MealLogService,
	users *UserService,
	activity *ActivityService,
	trend *TrendService,
	preferences *PreferenceService,
	log *logger.Logger,
	maxDraws int,
	src rand.Source,
) *ComposerService {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	if maxDraws < 1 {
		maxDraws = 1
	}
	return &ComposerService{
		catalog:     catalog,
		meals:       meals,
		users:       users,
		activity:    activity,
		trend:       trend,
		preferences: preferences,
		log:         log,
		maxDraws:    maxDraws,
		rng:         rand.New(src),
	}
}

// Compose builds a meal for the user at the given timestamp, one food per
// category, and appends it to the recommended-meal log. Composing for an
// unknown user is an error.
func (s *ComposerService) Compose(ctx context.Context, userID uuid.UUID, t time.Time) (*models.Meal, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	level, err := s.activity.CurrentLevel(ctx, userID)
	if err != nil {
		return nil, err
	}
	gain, loss, err := s.trend.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	needs, err := nutrition.ComputeNeeds(user, level, gain, loss)
	if err != nil {
		return nil, err
	}

	ratios := make(map[string]float64, len(nutrition.BaseCategoryRatios))
	for c, r := range nutrition.BaseCategoryRatios {
		ratios[c] = r
	}

	meal := &models.Meal{Items: make(map[string]float64, len(models.Categories)), Time: t}
	var committed nutrition.Vector

	for _, category := range models.Categories {
		food, reselects, err := s.pickFood(ctx, user, category, needs, committed, t)
		if err != nil {
			return nil, err
		}

		ratios[category] = adjustedShare(ratios[category], reselects)

		grams := fallbackGrams
		if food.Calories > 0 {
			grams = needs.Calories * ratios[category] / food.Calories * 100
		}
		meal.Items[food.Name] = grams
		committed = committed.Add(foodVector(food).Scale(grams / 100))
	}

	if err := s.meals.LogMeal(ctx, userID, models.MealKindRecommended, meal.Items, t); err != nil {
		return nil, err
	}
	s.log.Info("meal composed", "user_id", userID, "items", len(meal.Items), "calories", committed.Calories)
	return meal, nil
}

// pickFood runs the acceptance loop for one category: draw uniformly,
// accept when a uniform threshold falls at or below the composite score.
// After maxDraws the best-scoring draw seen is taken.
func (s *ComposerService) pickFood(ctx context.Context, user *models.User, category string, needs nutrition.Needs, committed nutrition.Vector, t time.Time) (*models.FoodItem, int, error) {
	candidates, err := s.catalog.ListByCategory(ctx, category)
	if err != nil {
		return nil, 0, err
	}
	if len(candidates) == 0 {
		return nil, 0, fmt.Errorf("%w: no catalog foods in category %s", ErrFoodNotFound, category)
	}

	// Scores are stable within one category pass; memoize per food so
	// redraws don't requery the log.
	scores := make(map[string]float64, len(candidates))

	var best *models.FoodItem
	bestScore := -1.0
	reselects := 0
	for i := 0; i < s.maxDraws; i++ {
		idx, threshold := s.draw(len(candidates))
		candidate := &candidates[idx]

		score, ok := scores[candidate.Name]
		if !ok {
			score, err = s.compositeScore(ctx, user, candidate, category, needs, committed, t)
			if err != nil {
				return nil, 0, err
			}
			scores[candidate.Name] = score
		}
		if score > bestScore {
			best, bestScore = candidate, score
		}

		if threshold <= score {
			return candidate, reselects, nil
		}
		reselects++
	}

	s.log.Warn("draw cap reached, falling back to best candidate",
		"user_id", user.ID, "category", category, "food", best.Name, "score", bestScore)
	return best, reselects, nil
}

// compositeScore blends the four sub-scores, each in [0, 1].
func (s *ComposerService) compositeScore(ctx context.Context, user *models.User, food *models.FoodItem, category string, needs nutrition.Needs, committed nutrition.Vector, t time.Time) (float64, error) {
	vec := foodVector(food)

	healthy := nutrition.Similarity(vec, nutrition.HealthyComposition(category))
	gap := nutrition.Similarity(vec, needs.Vector().Sub(committed))

	pref, err := s.preferences.Score(ctx, user.ID, food.Name)
	if err != nil {
		return 0, err
	}

	repetitions, err := s.meals.RepetitionCount(ctx, user.ID, food.Name, t)
	if err != nil {
		return 0, err
	}
	nonrepeat := math.Max(0, 1-nonrepeatPenaltyStep*float64(repetitions))

	return weightHealthy*healthy +
		weightNutritionGap*gap +
		weightPreference*pref +
		weightNonrepeat*nonrepeat, nil
}

// draw yields one candidate index and one acceptance threshold. The
// underlying rand.Rand is not safe for concurrent use, so draws for
// simultaneous composes serialize here.
func (s *ComposerService) draw(n int) (idx int, threshold float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n), s.rng.Float64()
}

// ratioAdjustment converts a category's rejection count into a bounded
// calorie-share delta: quick acceptance earns up to +0.05, hard
// categories approach -0.05 asymptotically.
func ratioAdjustment(reselects int) float64 {
	delta := (math.Exp(5-float64(reselects)) - 1) * 0.05
	return math.Max(-ratioAdjustBound, math.Min(ratioAdjustBound, delta))
}

// adjustedShare applies the reselect adjustment to a category's calorie
// share. The oil share is small enough that a full negative adjustment
// can wipe it out; a non-positive result falls back to the unadjusted
// share so recommended quantities stay positive.
func adjustedShare(base float64, reselects int) float64 {
	share := base + ratioAdjustment(reselects)
	if share <= 0 {
		return base
	}
	return share
}
