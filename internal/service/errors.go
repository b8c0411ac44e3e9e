package service

import "errors"

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrFoodNotFound is returned when a food is absent from the
	// nutrient catalog.
	ErrFoodNotFound = errors.New("food not found")

	// ErrInconsistentState marks invariant violations in persisted data,
	// such as weight observations arriving out of timestamp order. These
	// are programming errors, not recoverable conditions.
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrModelNotFound is returned when no checkpoint exists for a
	// requested model.
	ErrModelNotFound = errors.New("model checkpoint not found")
)
