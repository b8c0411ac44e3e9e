package ml

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Classifier is an online one-vs-rest logistic classifier updated by
// stochastic gradient descent. It is an explicit value: all learned state
// lives in exported, JSON-serializable fields, and persistence between
// process invocations is the caller's responsibility.
type Classifier struct {
	// Classes holds the label codes in the order Weights/Bias are laid
	// out. Fixed on the first non-degenerate PartialFit call.
	Classes []int `json:"classes"`
	// Weights has one coefficient vector per class.
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`

	LearningRate float64 `json:"learning_rate"`
	FeatureDim   int     `json:"feature_dim"`
}

// NewClassifier returns an untrained classifier for the given feature
// dimensionality.
func NewClassifier(featureDim int) *Classifier {
	return &Classifier{
		LearningRate: 0.001,
		FeatureDim:   featureDim,
	}
}

// Trained reports whether the classifier has fitted coefficients.
func (c *Classifier) Trained() bool {
	return len(c.Classes) > 0
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// sanitizeFeatures replaces non-finite values with 0 in place; NaN or
// infinity must never reach the update rule or a prediction.
func sanitizeFeatures(x []float64) []float64 {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			x[i] = 0
		}
	}
	return x
}

// distinctLabels counts the label classes across the prior model and the
// incoming batch.
func (c *Classifier) distinctLabels(y []int) map[int]struct{} {
	labels := make(map[int]struct{})
	for _, cls := range c.Classes {
		labels[cls] = struct{}{}
	}
	for _, cls := range y {
		labels[cls] = struct{}{}
	}
	return labels
}

// PartialFit runs one SGD pass over the batch, updating the model
// incrementally. When fewer than two distinct label classes are available
// the fit is a no-op and the prior coefficients are kept: the classifier
// is never fitted on a degenerate single-class dataset.
func (c *Classifier) PartialFit(X [][]float64, y []int) error {
	if len(X) != len(y) {
		return fmt.Errorf("ml: feature rows (%d) and labels (%d) differ", len(X), len(y))
	}
	if len(X) == 0 {
		return nil
	}

	// validate the whole batch before touching any model state, so a
	// malformed batch cannot leave a half-initialized layout behind
	for i, row := range X {
		if len(row) != c.FeatureDim {
			return fmt.Errorf("ml: feature row %d has %d values, want %d", i, len(row), c.FeatureDim)
		}
	}

	labels := c.distinctLabels(y)
	if len(labels) < 2 {
		return nil
	}

	if !c.Trained() {
		classes := make([]int, 0, len(labels))
		for cls := range labels {
			classes = append(classes, cls)
		}
		// map iteration order is random; fix the layout
		sort.Ints(classes)
		c.Classes = classes
		c.Weights = make([][]float64, len(classes))
		for i := range c.Weights {
			c.Weights[i] = make([]float64, c.FeatureDim)
		}
		c.Bias = make([]float64, len(classes))
	}

	classIdx := make(map[int]int, len(c.Classes))
	for i, cls := range c.Classes {
		classIdx[cls] = i
	}

	for i, row := range X {
		if _, ok := classIdx[y[i]]; !ok {
			// Labels unseen at first fit cannot be learned online; skip
			// the row rather than corrupting the layout.
			continue
		}
		x := sanitizeFeatures(row)
		for k := range c.Classes {
			target := 0.0
			if classIdx[y[i]] == k {
				target = 1.0
			}
			p := sigmoid(floats.Dot(c.Weights[k], x) + c.Bias[k])
			grad := p - target
			floats.AddScaled(c.Weights[k], -c.LearningRate*grad, x)
			c.Bias[k] -= c.LearningRate * grad
		}
	}
	return nil
}

// scores returns the raw per-class decision values for x.
func (c *Classifier) scores(x []float64) ([]float64, error) {
	if !c.Trained() {
		return nil, fmt.Errorf("ml: classifier is not trained")
	}
	if len(x) != c.FeatureDim {
		return nil, fmt.Errorf("ml: feature vector has %d values, want %d", len(x), c.FeatureDim)
	}
	x = sanitizeFeatures(x)
	out := make([]float64, len(c.Classes))
	for k := range c.Classes {
		out[k] = floats.Dot(c.Weights[k], x) + c.Bias[k]
	}
	return out, nil
}

// Predict returns the label code with the highest decision value.
func (c *Classifier) Predict(x []float64) (int, error) {
	scores, err := c.scores(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for k := range scores {
		if scores[k] > scores[best] {
			best = k
		}
	}
	return c.Classes[best], nil
}

// PredictProba returns per-class probabilities: the per-class logistic
// outputs normalized to sum to one, in Classes order.
func (c *Classifier) PredictProba(x []float64) ([]float64, error) {
	scores, err := c.scores(x)
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(scores))
	sum := 0.0
	for k, s := range scores {
		probs[k] = sigmoid(s)
		sum += probs[k]
	}
	if sum == 0 {
		for k := range probs {
			probs[k] = 1 / float64(len(probs))
		}
		return probs, nil
	}
	floats.Scale(1/sum, probs)
	return probs, nil
}

// ProbaFor returns the probability assigned to a specific label code.
func (c *Classifier) ProbaFor(x []float64, class int) (float64, error) {
	probs, err := c.PredictProba(x)
	if err != nil {
		return 0, err
	}
	for k, cls := range c.Classes {
		if cls == class {
			return probs[k], nil
		}
	}
	return 0, fmt.Errorf("ml: unknown class %d", class)
}
