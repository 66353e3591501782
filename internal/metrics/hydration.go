package metrics

import (
	"fmt"
	"math"
)

// mlPerKg is the daily water target per kilogram of body weight.
const mlPerKg = 35

// WaterGoalInput is a day's total intake together with the body weight the
// goal is derived from.
type WaterGoalInput struct {
	BodyWeightKg  float64
	TotalIntakeMl int
}

// WaterGoalResult is the evaluated daily goal. Percent is deliberately not
// clamped so callers can show intake beyond 100% of goal.
type WaterGoalResult struct {
	GoalMl   int
	Achieved bool
	Percent  int
}

// EvaluateHydration derives the weight-based daily goal (35 ml per kg) and
// scores the supplied intake against it.
func EvaluateHydration(in WaterGoalInput) (WaterGoalResult, error) {
	if in.BodyWeightKg <= 0 {
		return WaterGoalResult{}, fmt.Errorf("%w: body weight must be positive", ErrInvalidWeight)
	}

	goalMl := int(math.Round(in.BodyWeightKg * mlPerKg))
	percent := int(math.Round(float64(in.TotalIntakeMl) / float64(goalMl) * 100))

	return WaterGoalResult{
		GoalMl:   goalMl,
		Achieved: in.TotalIntakeMl >= goalMl,
		Percent:  percent,
	}, nil
}
