package nutrition

import (
	"fmt"

	"github.com/mealwise/backend/internal/models"
)

// ErrInvalidBiometrics marks input rejected before any computation:
// non-positive measurements or unrecognized sex/activity tokens.
type ErrInvalidBiometrics struct {
	Reason string
}

func (e ErrInvalidBiometrics) Error() string {
	return fmt.Sprintf("invalid biometrics: %s", e.Reason)
}

// ActivityMultipliers maps activity levels to their energy-expenditure
// multiplier. This is the single source of truth for valid levels.
var ActivityMultipliers = map[string]float64{
	models.ActivitySedentary:        1.20,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivitySuperActive:      1.90,
}

// Hard caloric floors; recommendations never go below these regardless of
// what the models produce.
const (
	CalorieFloorMale   = 1500.0
	CalorieFloorFemale = 1200.0
)

// KcalPerKG is the physiological constant relating a caloric surplus or
// deficit to body-weight change: roughly 7700 kcal per kilogram.
const KcalPerKG = 7700.0

// Kcal content per gram of each macronutrient.
const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFats    = 9.0
)

// Needs is a user's daily caloric target and macronutrient allocation.
type Needs struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
}

// Vector returns the needs as a nutrient vector in absolute amounts.
func (n Needs) Vector() Vector {
	return Vector{Calories: n.Calories, Protein: n.ProteinG, Carbs: n.CarbsG, Fats: n.FatsG}
}

// ValidateBiometrics rejects non-positive measurements and unrecognized
// sex tokens before any computation runs.
func ValidateBiometrics(weightKG, heightCM float64, age int, sex string) error {
	if weightKG <= 0 {
		return ErrInvalidBiometrics{Reason: "weight must be positive"}
	}
	if heightCM <= 0 {
		return ErrInvalidBiometrics{Reason: "height must be positive"}
	}
	if age <= 0 {
		return ErrInvalidBiometrics{Reason: "age must be positive"}
	}
	if sex != "M" && sex != "F" {
		return ErrInvalidBiometrics{Reason: fmt.Sprintf("sex must be M or F, got %q", sex)}
	}
	return nil
}

// BMR computes the base metabolic rate via Mifflin-St Jeor.
func BMR(weightKG, heightCM float64, age int, sex string) (float64, error) {
	if err := ValidateBiometrics(weightKG, heightCM, age, sex); err != nil {
		return 0, err
	}
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if sex == "M" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr, nil
}

// MaintenanceCalories is BMR scaled by the activity multiplier: the daily
// energy expenditure before any trend correction.
func MaintenanceCalories(weightKG, heightCM float64, age int, sex, activityLevel string) (float64, error) {
	bmr, err := BMR(weightKG, heightCM, age, sex)
	if err != nil {
		return 0, err
	}
	mult, ok := ActivityMultipliers[activityLevel]
	if !ok {
		return 0, ErrInvalidBiometrics{Reason: fmt.Sprintf("unrecognized activity level %q", activityLevel)}
	}
	return bmr * mult, nil
}

func calorieFloor(sex string) float64 {
	if sex == "M" {
		return CalorieFloorMale
	}
	return CalorieFloorFemale
}

// ComputeNeeds derives the daily caloric target and macro allocation for
// a user: maintenance calories, steered by the weight-trend factor, then
// clamped to the sex-specific floor. The macro split depends on whether
// the user is losing, gaining or maintaining.
func ComputeNeeds(user *models.User, activityLevel string, gainFactor, lossFactor float64) (Needs, error) {
	maintenance, err := MaintenanceCalories(user.WeightKG, user.HeightCM, user.Age, user.Sex, activityLevel)
	if err != nil {
		return Needs{}, err
	}

	calories := maintenance
	if user.TargetWeightKG > user.WeightKG {
		calories *= gainFactor
	} else {
		calories *= lossFactor
	}
	if floor := calorieFloor(user.Sex); calories < floor {
		calories = floor
	}

	var proteinPct, carbPct, fatPct float64
	switch {
	case user.TargetWeightKG < user.WeightKG:
		proteinPct, carbPct, fatPct = 0.30, 0.40, 0.30
	case user.TargetWeightKG > user.WeightKG:
		proteinPct, carbPct, fatPct = 0.30, 0.50, 0.20
	default:
		proteinPct, carbPct, fatPct = 0.25, 0.50, 0.25
	}

	return Needs{
		Calories: calories,
		ProteinG: calories * proteinPct / kcalPerGramProtein,
		CarbsG:   calories * carbPct / kcalPerGramCarbs,
		FatsG:    calories * fatPct / kcalPerGramFats,
	}, nil
}
