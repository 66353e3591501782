package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusharma/vitaltrack/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestEstimateBodyCompositionMale(t *testing.T) {
	in := AnthropometricInput{
		NeckCm:   38,
		WaistCm:  85,
		HeightCm: 175,
		WeightKg: 70,
		Gender:   domain.GenderMale,
	}

	got, err := EstimateBodyComposition(in)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}

	want := 86.010*math.Log10(85-38) - 70.041*math.Log10(175) + 36.76
	if math.Abs(got.BodyFatPercent-want) > 1e-9 {
		t.Fatalf("expected body fat %.4f, got %.4f", want, got.BodyFatPercent)
	}
	if got.BodyFatPercent < 0 || got.BodyFatPercent > 50 {
		t.Fatalf("body fat %.4f out of [0, 50]", got.BodyFatPercent)
	}

	wantBMI := 70 / (1.75 * 1.75)
	if math.Abs(got.BMI-wantBMI) > 1e-9 {
		t.Fatalf("expected bmi %.4f, got %.4f", wantBMI, got.BMI)
	}
}

func TestEstimateBodyCompositionFemale(t *testing.T) {
	in := AnthropometricInput{
		NeckCm:   33,
		WaistCm:  72,
		HipCm:    floatPtr(94),
		HeightCm: 165,
		WeightKg: 58,
		Gender:   domain.GenderFemale,
	}

	got, err := EstimateBodyComposition(in)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if got.BodyFatPercent < 0 || got.BodyFatPercent > 50 {
		t.Fatalf("body fat %.4f out of [0, 50]", got.BodyFatPercent)
	}
}

func TestEstimateBodyCompositionClampsBounds(t *testing.T) {
	// waist barely above neck produces a large negative raw value.
	low, err := EstimateBodyComposition(AnthropometricInput{
		NeckCm:   40,
		WaistCm:  41,
		HeightCm: 180,
		WeightKg: 75,
		Gender:   domain.GenderMale,
	})
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if low.BodyFatPercent != 0 {
		t.Fatalf("expected clamp to 0, got %.4f", low.BodyFatPercent)
	}

	// very large circumferences push the raw value past 50.
	high, err := EstimateBodyComposition(AnthropometricInput{
		NeckCm:   34,
		WaistCm:  120,
		HipCm:    floatPtr(140),
		HeightCm: 150,
		WeightKg: 90,
		Gender:   domain.GenderFemale,
	})
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if high.BodyFatPercent != 50 {
		t.Fatalf("expected clamp to 50, got %.4f", high.BodyFatPercent)
	}
}

func TestEstimateBodyCompositionDeterministic(t *testing.T) {
	in := AnthropometricInput{
		NeckCm:   37,
		WaistCm:  82,
		HeightCm: 172,
		WeightKg: 68,
		Gender:   domain.GenderMale,
	}
	first, err := EstimateBodyComposition(in)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	second, err := EstimateBodyComposition(in)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestEstimateBodyCompositionValidation(t *testing.T) {
	cases := []struct {
		name    string
		input   AnthropometricInput
		wantErr error
	}{
		{
			name:    "missing neck",
			input:   AnthropometricInput{WaistCm: 80, HeightCm: 175, WeightKg: 70, Gender: domain.GenderMale},
			wantErr: ErrInvalidMeasurement,
		},
		{
			name:    "missing height",
			input:   AnthropometricInput{NeckCm: 38, WaistCm: 80, WeightKg: 70, Gender: domain.GenderMale},
			wantErr: ErrInvalidMeasurement,
		},
		{
			name:    "male waist not above neck",
			input:   AnthropometricInput{NeckCm: 40, WaistCm: 40, HeightCm: 175, WeightKg: 70, Gender: domain.GenderMale},
			wantErr: ErrInvalidMeasurement,
		},
		{
			name:    "female without hip",
			input:   AnthropometricInput{NeckCm: 33, WaistCm: 70, HeightCm: 165, WeightKg: 58, Gender: domain.GenderFemale},
			wantErr: ErrInvalidMeasurement,
		},
		{
			name:    "unknown gender",
			input:   AnthropometricInput{NeckCm: 33, WaistCm: 70, HeightCm: 165, WeightKg: 58, Gender: "unknown"},
			wantErr: ErrInvalidMeasurement,
		},
		{
			name:    "missing weight",
			input:   AnthropometricInput{NeckCm: 38, WaistCm: 85, HeightCm: 175, Gender: domain.GenderMale},
			wantErr: ErrIncompleteProfile,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EstimateBodyComposition(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
