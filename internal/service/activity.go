package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealwise/backend/internal/ml"
	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/nutrition"
	"github.com/mealwise/backend/internal/pkg/logger"
)

// activityFeatureDim: consumed calories for the day, day-over-day weight
// change rate.
const activityFeatureDim = 2

// activityLookbackMeals is how many recent meal times the inference
// features average calories over.
const activityLookbackMeals = 3

// ActivityService trains the online activity-level classifier and
// persists its per-user predictions.
type ActivityService struct {
	db    *gorm.DB
	users *UserService
	meals *MealLogService
	log   *logger.Logger

	// levels is the fixed label vocabulary shared between training and
	// inference.
	levels *ml.Vocabulary
}

// NewActivityService creates a new ActivityService instance
func NewActivityService(db *gorm.DB, users *UserService, meals *MealLogService, log *logger.Logger) *ActivityService {
	return &ActivityService{
		db:     db,
		users:  users,
		meals:  meals,
		log:    log,
		levels: ml.NewVocabulary(models.ActivityLevels),
	}
}

// NewModel returns an untrained activity classifier.
func (s *ActivityService) NewModel() *ml.Classifier {
	return ml.NewClassifier(activityFeatureDim)
}

// Levels exposes the label vocabulary; checkpoints store it alongside the
// coefficients.
func (s *ActivityService) Levels() *ml.Vocabulary {
	return s.levels
}

// CurrentLevel returns the user's persisted activity estimate, or the
// documented default when none exists.
func (s *ActivityService) CurrentLevel(ctx context.Context, userID uuid.UUID) (string, error) {
	var row models.ActivityLevelEstimate
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultActivityLevel, nil
		}
		return "", err
	}
	return row.Level, nil
}

// Train updates the classifier incrementally from the full history: one
// row per (user, day) with that day's consumed calories and the
// day-over-day weight-change rate, labeled with the user's current
// activity estimate. Users without a label are dropped. With fewer than
// two label classes the prior model is returned unchanged.
func (s *ActivityService) Train(ctx context.Context, clf *ml.Classifier) (*ml.Classifier, error) {
	daily, err := s.meals.DailyConsumedCalories(ctx)
	if err != nil {
		return nil, err
	}

	var labelRows []models.ActivityLevelEstimate
	if err := s.db.WithContext(ctx).Find(&labelRows).Error; err != nil {
		return nil, err
	}
	labels := make(map[uuid.UUID]int, len(labelRows))
	for _, row := range labelRows {
		code := s.levels.Code(row.Level)
		if code == ml.UnknownCode {
			continue
		}
		labels[row.UserID] = code
	}

	rates, err := s.weightRatesByDay(ctx, labels)
	if err != nil {
		return nil, err
	}

	var X [][]float64
	var y []int
	for _, d := range daily {
		label, ok := labels[d.UserID]
		if !ok {
			continue
		}
		rate := rates[dayKey{user: d.UserID, day: d.Day}]
		X = append(X, []float64{d.Calories, rate})
		y = append(y, label)
	}

	if err := clf.PartialFit(X, y); err != nil {
		return nil, err
	}
	s.log.Info("activity model trained", "rows", len(X), "trained", clf.Trained())
	return clf, nil
}

type dayKey struct {
	user uuid.UUID
	day  time.Time
}

// weightRatesByDay maps each labeled user's observation days to the
// weight-change rate leading into that day (Δkg / Δdays between
// consecutive observations; 0 for the first).
func (s *ActivityService) weightRatesByDay(ctx context.Context, users map[uuid.UUID]int) (map[dayKey]float64, error) {
	rates := make(map[dayKey]float64)
	for userID := range users {
		obs, err := s.users.Observations(ctx, userID)
		if err != nil {
			return nil, err
		}
		for i, o := range obs {
			rate := 0.0
			if i > 0 {
				days := o.ObservedAt.Sub(obs[i-1].ObservedAt).Hours() / 24
				if days < 1 {
					days = 1
				}
				rate = (o.WeightKG - obs[i-1].WeightKG) / days
			}
			rates[dayKey{user: userID, day: o.ObservedAt.UTC().Truncate(24 * time.Hour)}] = rate
		}
	}
	return rates, nil
}

// Predict infers the user's activity level and persists it. Features:
// average consumed calories over the last few logged meal times (falling
// back to the user's computed caloric need when no meal history exists)
// and the weight-change rate between the two most recent observations.
func (s *ActivityService) Predict(ctx context.Context, clf *ml.Classifier, userID uuid.UUID) (string, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	avgCalories, err := s.averageRecentCalories(ctx, userID)
	if err != nil {
		return "", err
	}
	if avgCalories == 0 {
		level, err := s.CurrentLevel(ctx, userID)
		if err != nil {
			return "", err
		}
		avgCalories, err = nutrition.MaintenanceCalories(user.WeightKG, user.HeightCM, user.Age, user.Sex, level)
		if err != nil {
			return "", err
		}
	}

	rate, err := s.latestWeightRate(ctx, userID)
	if err != nil {
		return "", err
	}

	code, err := clf.Predict([]float64{avgCalories, rate})
	if err != nil {
		return "", err
	}
	level := s.levels.Term(code)
	if level == "" {
		return "", fmt.Errorf("%w: classifier produced unknown level code %d", ErrInconsistentState, code)
	}

	if err := s.persistEstimate(ctx, userID, level); err != nil {
		return "", err
	}
	s.log.Debug("activity level predicted", "user_id", userID, "level", level)
	return level, nil
}

// averageRecentCalories averages per-entry calories over the log
// entries of the last activityLookbackMeals distinct meal times.
// Returns 0 when the user has no meal history.
func (s *ActivityService) averageRecentCalories(ctx context.Context, userID uuid.UUID) (float64, error) {
	times, err := s.meals.RecentMealTimes(ctx, userID, activityLookbackMeals)
	if err != nil {
		return 0, err
	}
	if len(times) == 0 {
		return 0, nil
	}

	total := 0.0
	count := 0
	for _, t := range times {
		entries, err := s.meals.Entries(ctx, userID, models.MealKindActual, t, t)
		if err != nil {
			return 0, err
		}
		vec, err := s.meals.MealVector(ctx, entries)
		if err != nil {
			return 0, err
		}
		total += vec.Calories
		count += len(entries)
	}
	if count == 0 {
		return 0, nil
	}
	return total / float64(count), nil
}

// latestWeightRate is Δkg/Δdays between the two most recent
// observations, 0 when fewer than two exist.
func (s *ActivityService) latestWeightRate(ctx context.Context, userID uuid.UUID) (float64, error) {
	obs, err := s.users.Observations(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(obs) < 2 {
		return 0, nil
	}
	last, prev := obs[len(obs)-1], obs[len(obs)-2]
	days := last.ObservedAt.Sub(prev.ObservedAt).Hours() / 24
	if days < 1 {
		days = 1
	}
	return (last.WeightKG - prev.WeightKG) / days, nil
}

// SetLevel stores a caller-provided activity level, the supervision
// signal training relies on (e.g. from an onboarding questionnaire).
func (s *ActivityService) SetLevel(ctx context.Context, userID uuid.UUID, level string) error {
	if s.levels.Code(level) == ml.UnknownCode {
		return nutrition.ErrInvalidBiometrics{Reason: fmt.Sprintf("unrecognized activity level %q", level)}
	}
	return s.persistEstimate(ctx, userID, level)
}

func (s *ActivityService) persistEstimate(ctx context.Context, userID uuid.UUID, level string) error {
	var row models.ActivityLevelEstimate
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.ActivityLevelEstimate{UserID: userID, Level: level}
		return s.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	row.Level = level
	return s.db.WithContext(ctx).Save(&row).Error
}
