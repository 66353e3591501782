package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/ayusharma/vitaltrack/internal/domain"
)

// activityMultipliers maps activity levels to their TDEE multiplier. Declared
// once; unrecognised levels fall back to the sedentary multiplier.
var activityMultipliers = map[string]float64{
	domain.ActivitySedentary:        1.2,
	domain.ActivityLightlyActive:    1.375,
	domain.ActivityModeratelyActive: 1.55,
	domain.ActivityVeryActive:       1.725,
}

const defaultActivityMultiplier = 1.2

// EnergyProfile is the demographic input for the energy budget calculation.
// Goal is free text; it is matched by substring ("lose", "gain", "muscle").
type EnergyProfile struct {
	AgeYears      int
	Gender        string
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
	Goal          string
}

// EnergyBudget is the computed daily energy expenditure and macro targets.
// Gram targets use 4 kcal/g for carbs and protein, 9 kcal/g for fat.
type EnergyBudget struct {
	BMR            float64
	TDEE           float64
	CaloriesTarget int
	CarbsGrams     int
	ProteinGrams   int
	FatGrams       int
}

// ComputeEnergyBudget derives BMR (Mifflin-St Jeor), TDEE and a 50/25/25
// carb/protein/fat split from the profile. The TDEE is scaled down 15% for
// weight-loss goals and up 10% for gain or muscle goals.
func ComputeEnergyBudget(p EnergyProfile) (EnergyBudget, error) {
	if p.AgeYears <= 0 {
		return EnergyBudget{}, fmt.Errorf("%w: age is required", ErrIncompleteProfile)
	}
	if p.Gender == "" {
		return EnergyBudget{}, fmt.Errorf("%w: gender is required", ErrIncompleteProfile)
	}
	if p.HeightCm <= 0 {
		return EnergyBudget{}, fmt.Errorf("%w: height is required", ErrIncompleteProfile)
	}
	if p.WeightKg <= 0 {
		return EnergyBudget{}, fmt.Errorf("%w: weight is required", ErrIncompleteProfile)
	}
	if p.ActivityLevel == "" {
		return EnergyBudget{}, fmt.Errorf("%w: activity level is required", ErrIncompleteProfile)
	}

	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.AgeYears)
	switch strings.ToLower(p.Gender) {
	case domain.GenderMale:
		bmr += 5
	case domain.GenderFemale:
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[strings.ToLower(p.ActivityLevel)]
	if !ok {
		multiplier = defaultActivityMultiplier
	}
	tdee := bmr * multiplier

	goal := strings.ToLower(p.Goal)
	if strings.Contains(goal, "lose") {
		tdee *= 0.85
	} else if strings.Contains(goal, "gain") || strings.Contains(goal, "muscle") {
		tdee *= 1.1
	}

	return EnergyBudget{
		BMR:            bmr,
		TDEE:           tdee,
		CaloriesTarget: int(math.Round(tdee)),
		CarbsGrams:     int(math.Round(tdee * 0.5 / 4)),
		ProteinGrams:   int(math.Round(tdee * 0.25 / 4)),
		FatGrams:       int(math.Round(tdee * 0.25 / 9)),
	}, nil
}
