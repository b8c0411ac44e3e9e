package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/nutrition"
)

// CatalogService reads the nutrient catalog. The catalog is read-only to
// the engine; seeding happens out of band.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Get retrieves a food by name.
func (s *CatalogService) Get(ctx context.Context, name string) (*models.FoodItem, error) {
	var food models.FoodItem
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&food).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFoodNotFound, name)
		}
		return nil, err
	}
	return &food, nil
}

// ListByCategory returns every catalog food in the given category.
func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	if err := s.db.WithContext(ctx).Where("category = ?", category).Order("name").Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// List returns the entire catalog.
func (s *CatalogService) List(ctx context.Context) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	if err := s.db.WithContext(ctx).Order("name").Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// foodVector is a catalog row's per-100g nutrient vector.
func foodVector(f *models.FoodItem) nutrition.Vector {
	return nutrition.Vector{
		Calories: f.Calories,
		Protein:  f.Protein,
		Carbs:    f.Carbs,
		Fats:     f.Fats,
	}
}
