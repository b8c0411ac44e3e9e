package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/nutrition"
	"github.com/mealwise/backend/internal/pkg/logger"
)

// TrendService derives the per-user weight-trend correction factor from
// the target-weight trajectory and persists it.
type TrendService struct {
	db       *gorm.DB
	users    *UserService
	activity *ActivityService
	log      *logger.Logger
}

// NewTrendService creates a new TrendService instance
func NewTrendService(db *gorm.DB, users *UserService, activity *ActivityService, log *logger.Logger) *TrendService {
	return &TrendService{db: db, users: users, activity: activity, log: log}
}

// Get returns the user's persisted trend factors, or the documented
// defaults when no row exists.
func (s *TrendService) Get(ctx context.Context, userID uuid.UUID) (gain, loss float64, err error) {
	var row models.WeightTrendFactor
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultGainFactor, models.DefaultLossFactor, nil
		}
		return 0, 0, err
	}
	return row.GainFactor, row.LossFactor, nil
}

// Update recomputes and persists the trend factor pair from the user's
// weight series. With no observations, or when the goal deadline has
// already lapsed, the defaults are persisted instead: the engine never
// extrapolates through a past deadline.
func (s *TrendService) Update(ctx context.Context, userID uuid.UUID) (gain, loss float64, err error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	obs, err := s.users.Observations(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	gain, loss, err = s.idealFactors(ctx, user, obs)
	if err != nil {
		return 0, 0, err
	}
	if err := s.persist(ctx, userID, gain, loss); err != nil {
		return 0, 0, err
	}
	s.log.Debug("updated weight trend factor", "user_id", userID, "gain", gain, "loss", loss)
	return gain, loss, nil
}

func (s *TrendService) idealFactors(ctx context.Context, user *models.User, obs []models.WeightObservation) (float64, float64, error) {
	if len(obs) == 0 {
		return models.DefaultGainFactor, models.DefaultLossFactor, nil
	}
	for i := 1; i < len(obs); i++ {
		if !obs[i-1].ObservedAt.Before(obs[i].ObservedAt) {
			return 0, 0, fmt.Errorf("%w: weight observations out of order for user %s", ErrInconsistentState, user.ID)
		}
	}

	deadline := obs[0].ObservedAt.Add(time.Duration(user.EstimatedDays) * 24 * time.Hour)
	latest := obs[len(obs)-1].ObservedAt
	if latest.After(deadline) {
		return models.DefaultGainFactor, models.DefaultLossFactor, nil
	}

	remainingDays := deadline.Sub(latest).Hours() / 24
	if remainingDays < 1 {
		remainingDays = 1
	}
	dailyWeightDelta := (user.TargetWeightKG - user.WeightKG) / remainingDays

	level, err := s.activity.CurrentLevel(ctx, user.ID)
	if err != nil {
		return 0, 0, err
	}
	// Trend factor deliberately not applied here; the factor is derived
	// from the uncorrected expenditure.
	dailyNeeds, err := nutrition.MaintenanceCalories(user.WeightKG, user.HeightCM, user.Age, user.Sex, level)
	if err != nil {
		return 0, 0, err
	}

	if user.WeightKG > user.TargetWeightKG {
		loss := (dailyNeeds + dailyWeightDelta*nutrition.KcalPerKG) / dailyNeeds
		return 1 / loss, loss, nil
	}
	gain := (dailyNeeds + dailyWeightDelta*nutrition.KcalPerKG) / dailyNeeds
	return gain, 1 / gain, nil
}

func (s *TrendService) persist(ctx context.Context, userID uuid.UUID, gain, loss float64) error {
	var row models.WeightTrendFactor
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.WeightTrendFactor{UserID: userID, GainFactor: gain, LossFactor: loss}
		return s.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	row.GainFactor = gain
	row.LossFactor = loss
	return s.db.WithContext(ctx).Save(&row).Error
}
