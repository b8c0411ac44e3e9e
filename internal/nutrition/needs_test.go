package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealwise/backend/internal/models"
)

func TestBMRMifflinStJeor(t *testing.T) {
	bmr, err := BMR(70, 165, 30, "F")
	require.NoError(t, err)
	assert.InDelta(t, 1332.25, bmr, 0.001)

	bmr, err = BMR(70, 165, 30, "M")
	require.NoError(t, err)
	assert.InDelta(t, 1498.25, bmr, 0.001)
}

func TestBMRInvalidInput(t *testing.T) {
	_, err := BMR(0, 165, 30, "F")
	assert.Error(t, err)
	_, err = BMR(70, -1, 30, "F")
	assert.Error(t, err)
	_, err = BMR(70, 165, 0, "F")
	assert.Error(t, err)
	_, err = BMR(70, 165, 30, "X")
	assert.Error(t, err)

	var invalid ErrInvalidBiometrics
	_, err = BMR(70, 165, 30, "female")
	assert.ErrorAs(t, err, &invalid)
}

func TestMaintenanceCaloriesUnknownLevel(t *testing.T) {
	_, err := MaintenanceCalories(70, 165, 30, "F", "couch_potato")
	assert.Error(t, err)
}

func TestComputeNeedsWorkedScenario(t *testing.T) {
	// 70kg, target 65kg, F, 30y, 165cm, moderately active, default loss
	// factor 0.9: TDEE 1332.25*1.55 then steered down.
	user := &models.User{
		Sex: "F", Age: 30, HeightCM: 165,
		WeightKG: 70, TargetWeightKG: 65, EstimatedDays: 50,
	}
	needs, err := ComputeNeeds(user, models.ActivityModeratelyActive, models.DefaultGainFactor, models.DefaultLossFactor)
	require.NoError(t, err)
	assert.InDelta(t, 1858.49, needs.Calories, 0.1)
	assert.GreaterOrEqual(t, needs.Calories, CalorieFloorFemale)

	// losing weight macro split 30/40/30
	assert.InDelta(t, needs.Calories*0.30/4, needs.ProteinG, 0.001)
	assert.InDelta(t, needs.Calories*0.40/4, needs.CarbsG, 0.001)
	assert.InDelta(t, needs.Calories*0.30/9, needs.FatsG, 0.001)
}

func TestComputeNeedsFloorNeverUndercut(t *testing.T) {
	cases := []struct {
		sex   string
		floor float64
	}{
		{"F", CalorieFloorFemale},
		{"M", CalorieFloorMale},
	}
	for _, tc := range cases {
		user := &models.User{
			Sex: tc.sex, Age: 80, HeightCM: 140,
			WeightKG: 40, TargetWeightKG: 35, EstimatedDays: 30,
		}
		for level := range ActivityMultipliers {
			needs, err := ComputeNeeds(user, level, 1.1, 0.5)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, needs.Calories, tc.floor,
				"sex %s level %s must respect the floor", tc.sex, level)
		}
	}
}

func TestComputeNeedsMacroSplitByDirection(t *testing.T) {
	base := models.User{Sex: "M", Age: 30, HeightCM: 180, WeightKG: 80, EstimatedDays: 60}

	gaining := base
	gaining.TargetWeightKG = 90
	needs, err := ComputeNeeds(&gaining, models.ActivitySedentary, 1.1, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, needs.Calories*0.50/4, needs.CarbsG, 0.001)
	assert.InDelta(t, needs.Calories*0.20/9, needs.FatsG, 0.001)

	maintaining := base
	maintaining.TargetWeightKG = 80
	needs, err = ComputeNeeds(&maintaining, models.ActivitySedentary, 1.1, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, needs.Calories*0.25/4, needs.ProteinG, 0.001)
	assert.InDelta(t, needs.Calories*0.25/9, needs.FatsG, 0.001)
}

func TestSimilarity(t *testing.T) {
	a := Vector{Calories: 100, Protein: 10, Carbs: 20, Fats: 5}
	assert.InDelta(t, 1.0, Similarity(a, a), 1e-9)
	assert.InDelta(t, 1.0, Similarity(a, a.Scale(3)), 1e-9)
	assert.Equal(t, 0.0, Similarity(a, Vector{}))

	b := Vector{Calories: 100, Protein: 0, Carbs: 0, Fats: 0}
	c := Vector{Calories: 0, Protein: 10, Carbs: 0, Fats: 0}
	assert.InDelta(t, 0.0, Similarity(b, c), 1e-9)
}

func TestSimilarityClampsNegative(t *testing.T) {
	// Remaining-needs vectors can go negative once the meal overshoots;
	// similarity must stay within [0, 1].
	over := Vector{Calories: -500, Protein: -10, Carbs: -50, Fats: -20}
	food := Vector{Calories: 100, Protein: 5, Carbs: 20, Fats: 2}
	sim := Similarity(food, over)
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.LessOrEqual(t, sim, 1.0)
}

func TestHealthyCompositionCoversAllCategories(t *testing.T) {
	for _, category := range models.Categories {
		comp := HealthyComposition(category)
		assert.NotEqual(t, Vector{}, comp, "category %s should have a reference composition", category)
	}
	assert.Equal(t, Vector{}, HealthyComposition("snacks"))
}

func TestBaseCategoryRatios(t *testing.T) {
	assert.Len(t, BaseCategoryRatios, len(models.Categories))
	assert.InDelta(t, 0.005, BaseCategoryRatios[models.CategoryOil], 1e-9)
}
