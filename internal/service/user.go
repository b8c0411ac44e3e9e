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
)

// UserService handles user accounts, their weight observation series and
// the cascade on removal.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserUpdate carries optional field updates; nil fields are left alone.
type UserUpdate struct {
	Name           *string
	Sex            *string
	Age            *int
	HeightCM       *float64
	TargetWeightKG *float64
	EstimatedDays  *int
}

// Create validates and stores a new user, seeding the weight observation
// series with the registration weight so the goal clock starts at
// creation time.
func (s *UserService) Create(ctx context.Context, user *models.User) error {
	if err := nutrition.ValidateBiometrics(user.WeightKG, user.HeightCM, user.Age, user.Sex); err != nil {
		return err
	}
	if user.TargetWeightKG <= 0 {
		return nutrition.ErrInvalidBiometrics{Reason: "target weight must be positive"}
	}
	if user.EstimatedDays <= 0 {
		return nutrition.ErrInvalidBiometrics{Reason: "estimated days must be positive"}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		obs := models.WeightObservation{
			UserID:     user.ID,
			WeightKG:   user.WeightKG,
			ObservedAt: time.Now().UTC(),
		}
		return tx.Create(&obs).Error
	})
}

// Get retrieves a user by id.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

// Update applies the provided field updates to a user.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, upd *UserUpdate) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Sex != nil {
		user.Sex = *upd.Sex
	}
	if upd.Age != nil {
		user.Age = *upd.Age
	}
	if upd.HeightCM != nil {
		user.HeightCM = *upd.HeightCM
	}
	if upd.TargetWeightKG != nil {
		user.TargetWeightKG = *upd.TargetWeightKG
	}
	if upd.EstimatedDays != nil {
		user.EstimatedDays = *upd.EstimatedDays
	}

	if err := nutrition.ValidateBiometrics(user.WeightKG, user.HeightCM, user.Age, user.Sex); err != nil {
		return nil, err
	}
	if user.TargetWeightKG <= 0 {
		return nil, nutrition.ErrInvalidBiometrics{Reason: "target weight must be positive"}
	}
	if user.EstimatedDays <= 0 {
		return nil, nutrition.ErrInvalidBiometrics{Reason: "estimated days must be positive"}
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user and everything derived from them: observations,
// meal logs and model predictions.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.WeightObservation{},
			&models.MealLogEntry{},
			&models.FoodPreference{},
			&models.ActivityLevelEstimate{},
			&models.WeightTrendFactor{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

// AppendWeight records a new weight observation. Observations are
// append-only and must arrive in strictly increasing timestamp order;
// violations surface as ErrInconsistentState. The user's denormalized
// current weight is updated in the same transaction.
func (s *UserService) AppendWeight(ctx context.Context, id uuid.UUID, weightKG float64, observedAt time.Time) error {
	if weightKG <= 0 {
		return nutrition.ErrInvalidBiometrics{Reason: "weight must be positive"}
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest models.WeightObservation
		err := tx.Where("user_id = ?", id).Order("observed_at DESC").First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && !latest.ObservedAt.Before(observedAt) {
			return fmt.Errorf("%w: weight observation at %s is not after latest %s",
				ErrInconsistentState, observedAt.Format(time.RFC3339), latest.ObservedAt.Format(time.RFC3339))
		}

		obs := models.WeightObservation{UserID: id, WeightKG: weightKG, ObservedAt: observedAt}
		if err := tx.Create(&obs).Error; err != nil {
			return err
		}
		user.WeightKG = weightKG
		return tx.Save(user).Error
	})
}

// Observations returns the user's weight series ordered by time.
func (s *UserService) Observations(ctx context.Context, id uuid.UUID) ([]models.WeightObservation, error) {
	var obs []models.WeightObservation
	if err := s.db.WithContext(ctx).Where("user_id = ?", id).Order("observed_at ASC").Find(&obs).Error; err != nil {
		return nil, err
	}
	return obs, nil
}
