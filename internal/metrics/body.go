package metrics

import (
	"fmt"
	"math"

	"github.com/ayusharma/vitaltrack/internal/domain"
)

// AnthropometricInput carries the circumference measurements used by the
// Navy body-fat estimate. Hip is only required for the female formula.
type AnthropometricInput struct {
	NeckCm   float64
	WaistCm  float64
	HipCm    *float64
	HeightCm float64
	WeightKg float64
	Gender   string
}

// BodyComposition is the result of a body-fat estimate.
type BodyComposition struct {
	BodyFatPercent float64
	BMI            float64
}

// EstimateBodyComposition computes body-fat percentage with the U.S. Navy
// circumference method and BMI from the supplied weight. The result is
// clamped to [0, 50] percent.
func EstimateBodyComposition(in AnthropometricInput) (BodyComposition, error) {
	if in.NeckCm <= 0 {
		return BodyComposition{}, fmt.Errorf("%w: neck circumference must be positive", ErrInvalidMeasurement)
	}
	if in.WaistCm <= 0 {
		return BodyComposition{}, fmt.Errorf("%w: waist circumference must be positive", ErrInvalidMeasurement)
	}
	if in.HeightCm <= 0 {
		return BodyComposition{}, fmt.Errorf("%w: height must be positive", ErrInvalidMeasurement)
	}
	if in.WeightKg <= 0 {
		return BodyComposition{}, fmt.Errorf("%w: weight is required for BMI", ErrIncompleteProfile)
	}

	var bodyFat float64
	switch in.Gender {
	case domain.GenderMale:
		if in.WaistCm <= in.NeckCm {
			return BodyComposition{}, fmt.Errorf("%w: waist must exceed neck circumference", ErrInvalidMeasurement)
		}
		bodyFat = 86.010*math.Log10(in.WaistCm-in.NeckCm) - 70.041*math.Log10(in.HeightCm) + 36.76
	case domain.GenderFemale:
		if in.HipCm == nil || *in.HipCm <= 0 {
			return BodyComposition{}, fmt.Errorf("%w: hip circumference is required for the female formula", ErrInvalidMeasurement)
		}
		if in.WaistCm+*in.HipCm <= in.NeckCm {
			return BodyComposition{}, fmt.Errorf("%w: waist plus hip must exceed neck circumference", ErrInvalidMeasurement)
		}
		bodyFat = 163.205*math.Log10(in.WaistCm+*in.HipCm-in.NeckCm) - 97.684*math.Log10(in.HeightCm) - 78.387
	default:
		return BodyComposition{}, fmt.Errorf("%w: gender must be male or female", ErrInvalidMeasurement)
	}

	bodyFat = clamp(bodyFat, 0, 50)

	heightM := in.HeightCm / 100
	bmi := in.WeightKg / (heightM * heightM)

	return BodyComposition{BodyFatPercent: bodyFat, BMI: bmi}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
