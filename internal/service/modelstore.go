package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mealwise/backend/internal/ml"
)

// Redis keys for the two model checkpoints.
const (
	activityModelKey   = "model:activity"
	preferenceModelKey = "model:preference"
)

// ModelStore persists trained classifier coefficients between process
// invocations. Learned state survives only for a training session unless
// checkpointed here.
type ModelStore struct {
	client *redis.Client
}

// NewModelStore creates a new ModelStore instance
func NewModelStore(client *redis.Client) *ModelStore {
	return &ModelStore{client: client}
}

// checkpoint is the serialized envelope: coefficients plus the category
// vocabulary fitted at training time.
type checkpoint struct {
	Classifier *ml.Classifier `json:"classifier"`
	Vocabulary *ml.Vocabulary `json:"vocabulary,omitempty"`
}

func (s *ModelStore) save(ctx context.Context, key string, cp checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to encode model checkpoint: %w", err)
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *ModelStore) load(ctx context.Context, key string) (checkpoint, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return checkpoint{}, fmt.Errorf("%w: %s", ErrModelNotFound, key)
	}
	if err != nil {
		return checkpoint{}, err
	}
	var cp checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return checkpoint{}, fmt.Errorf("failed to decode model checkpoint: %w", err)
	}
	return cp, nil
}

// SaveActivity checkpoints the activity classifier.
func (s *ModelStore) SaveActivity(ctx context.Context, clf *ml.Classifier) error {
	return s.save(ctx, activityModelKey, checkpoint{Classifier: clf})
}

// LoadActivity restores the activity classifier checkpoint.
func (s *ModelStore) LoadActivity(ctx context.Context) (*ml.Classifier, error) {
	cp, err := s.load(ctx, activityModelKey)
	if err != nil {
		return nil, err
	}
	return cp.Classifier, nil
}

// SavePreference checkpoints the preference classifier together with its
// food vocabulary; inference must reuse the exact vocabulary seen at
// training time.
func (s *ModelStore) SavePreference(ctx context.Context, clf *ml.Classifier, vocab *ml.Vocabulary) error {
	return s.save(ctx, preferenceModelKey, checkpoint{Classifier: clf, Vocabulary: vocab})
}

// LoadPreference restores the preference classifier checkpoint.
func (s *ModelStore) LoadPreference(ctx context.Context) (*ml.Classifier, *ml.Vocabulary, error) {
	cp, err := s.load(ctx, preferenceModelKey)
	if err != nil {
		return nil, nil, err
	}
	return cp.Classifier, cp.Vocabulary, nil
}
