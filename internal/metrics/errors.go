// Package metrics holds the derived-metric calculations: body composition,
// energy budgets, sleep classification, hydration goals, digestion modeling
// and the shared statistics helpers. Every function is pure and safe for
// concurrent use; failures are always input-validation errors.
package metrics

import "errors"

var (
	// ErrInvalidMeasurement indicates missing or physically impossible
	// anthropometric measurements.
	ErrInvalidMeasurement = errors.New("invalid measurement")

	// ErrIncompleteProfile indicates the stored health profile lacks fields
	// required by the requested calculation.
	ErrIncompleteProfile = errors.New("incomplete profile")

	// ErrInvalidWeight indicates a non-positive body weight.
	ErrInvalidWeight = errors.New("invalid weight")
)
