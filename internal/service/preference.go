package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealwise/backend/internal/ml"
	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/pkg/logger"
)

// preferenceFeatureDim: food identity code, was-recommended flag,
// quantity in grams.
const preferenceFeatureDim = 3

// PreferenceService trains the food-preference classifier and persists
// its per-(user, food) predictions.
type PreferenceService struct {
	db    *gorm.DB
	meals *MealLogService
	log   *logger.Logger
}

// NewPreferenceService creates a new PreferenceService instance
func NewPreferenceService(db *gorm.DB, meals *MealLogService, log *logger.Logger) *PreferenceService {
	return &PreferenceService{db: db, meals: meals, log: log}
}

// NewModel returns an untrained preference classifier.
func (s *PreferenceService) NewModel() *ml.Classifier {
	return ml.NewClassifier(preferenceFeatureDim)
}

type mealKey struct {
	user uuid.UUID
	food string
	time time.Time
}

// Train rebuilds the training set from the full meal history and updates
// the classifier incrementally. Actual-log rows are positive examples
// with was_recommended=0; recommended-log rows are positive only when a
// matching (user, food, timestamp) triple appears in the actual log. The
// food vocabulary is refit from the observed history and returned with
// the model; inference must reuse it.
func (s *PreferenceService) Train(ctx context.Context, clf *ml.Classifier) (*ml.Classifier, *ml.Vocabulary, error) {
	actual, err := s.meals.AllEntries(ctx, models.MealKindActual)
	if err != nil {
		return nil, nil, err
	}
	recommended, err := s.meals.AllEntries(ctx, models.MealKindRecommended)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(actual)+len(recommended))
	for _, e := range actual {
		names = append(names, e.FoodName)
	}
	for _, e := range recommended {
		names = append(names, e.FoodName)
	}
	vocab := ml.NewVocabulary(names)

	eaten := make(map[mealKey]struct{}, len(actual))
	for _, e := range actual {
		eaten[mealKey{user: e.UserID, food: e.FoodName, time: e.MealTime.UTC()}] = struct{}{}
	}

	X := make([][]float64, 0, len(actual)+len(recommended))
	y := make([]int, 0, len(actual)+len(recommended))
	for _, e := range actual {
		X = append(X, []float64{float64(vocab.Code(e.FoodName)), 0, e.QuantityG})
		y = append(y, 1)
	}
	for _, e := range recommended {
		ate := 0
		if _, ok := eaten[mealKey{user: e.UserID, food: e.FoodName, time: e.MealTime.UTC()}]; ok {
			ate = 1
		}
		X = append(X, []float64{float64(vocab.Code(e.FoodName)), 1, e.QuantityG})
		y = append(y, ate)
	}

	if err := clf.PartialFit(X, y); err != nil {
		return nil, nil, err
	}
	s.log.Info("preference model trained", "rows", len(X), "foods", vocab.Len(), "trained", clf.Trained())
	return clf, vocab, nil
}

// Predict returns the probability the user consumes the food and persists
// it as the (user, food) preference score. Foods unseen at training time
// encode to the reserved unknown code, never to a real training-time
// category.
func (s *PreferenceService) Predict(ctx context.Context, clf *ml.Classifier, vocab *ml.Vocabulary, userID uuid.UUID, food string, wasRecommended bool, quantityG float64) (float64, error) {
	rec := 0.0
	if wasRecommended {
		rec = 1
	}
	x := []float64{float64(vocab.Code(food)), rec, quantityG}
	score, err := clf.ProbaFor(x, 1)
	if err != nil {
		return 0, err
	}

	category := ""
	var item models.FoodItem
	if err := s.db.WithContext(ctx).Where("name = ?", food).First(&item).Error; err == nil {
		category = item.Category
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	if err := s.persistScore(ctx, userID, food, category, score); err != nil {
		return 0, err
	}
	s.log.Debug("preference predicted", "user_id", userID, "food", food, "score", score)
	return score, nil
}

// Score reads the persisted preference for (user, food), falling back to
// the documented neutral default when absent.
func (s *PreferenceService) Score(ctx context.Context, userID uuid.UUID, food string) (float64, error) {
	var row models.FoodPreference
	if err := s.db.WithContext(ctx).Where("user_id = ? AND food_name = ?", userID, food).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultPreferenceScore, nil
		}
		return 0, err
	}
	return row.Score, nil
}

func (s *PreferenceService) persistScore(ctx context.Context, userID uuid.UUID, food, category string, score float64) error {
	var row models.FoodPreference
	err := s.db.WithContext(ctx).Where("user_id = ? AND food_name = ?", userID, food).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.FoodPreference{UserID: userID, FoodName: food, Category: category, Score: score}
		return s.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	row.Category = category
	row.Score = score
	return s.db.WithContext(ctx).Save(&row).Error
}
