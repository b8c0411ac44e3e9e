package nutrition

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a nutrient vector: calories plus macronutrients. Catalog rows
// use it per 100 grams; daily needs and meal totals use it as absolute
// amounts.
type Vector struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

func (v Vector) Add(o Vector) Vector {
	return Vector{
		Calories: v.Calories + o.Calories,
		Protein:  v.Protein + o.Protein,
		Carbs:    v.Carbs + o.Carbs,
		Fats:     v.Fats + o.Fats,
	}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{
		Calories: v.Calories - o.Calories,
		Protein:  v.Protein - o.Protein,
		Carbs:    v.Carbs - o.Carbs,
		Fats:     v.Fats - o.Fats,
	}
}

// Scale multiplies every component by f. Converting a per-100g vector to
// a serving is Scale(quantityG / 100).
func (v Vector) Scale(f float64) Vector {
	return Vector{
		Calories: v.Calories * f,
		Protein:  v.Protein * f,
		Carbs:    v.Carbs * f,
		Fats:     v.Fats * f,
	}
}

func (v Vector) slice() []float64 {
	return []float64{v.Calories, v.Protein, v.Carbs, v.Fats}
}

// Similarity is the cosine similarity between two nutrient vectors,
// clamped to [0, 1]. A zero vector on either side scores 0: there is
// nothing to match against.
func Similarity(a, b Vector) float64 {
	as, bs := a.slice(), b.slice()
	na := floats.Norm(as, 2)
	nb := floats.Norm(bs, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	sim := floats.Dot(as, bs) / (na * nb)
	return math.Max(0, math.Min(1, sim))
}
