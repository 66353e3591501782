package metrics

import (
	"math"
	"sort"
	"time"
)

// Nutrient identifies one of the three tracked macronutrients.
type Nutrient string

const (
	NutrientCarbs   Nutrient = "carbs"
	NutrientProtein Nutrient = "protein"
	NutrientFat     Nutrient = "fat"
)

// Absorption statuses reported for a meal in progress.
const (
	AbsorptionDigesting      = "digesting"
	AbsorptionMostlyAbsorbed = "mostly_absorbed"
	AbsorptionFullyAbsorbed  = "fully_absorbed"
)

// AbsorptionWindow is the modeled min/max/average absorption time for one
// nutrient, in hours.
type AbsorptionWindow struct {
	MinHours float64
	MaxHours float64
	AvgHours float64
}

// absorptionTimes is the process-wide absorption table. Only the average is
// used operationally; min/max document the modeled range.
var absorptionTimes = map[Nutrient]AbsorptionWindow{
	NutrientCarbs:   {MinHours: 0.5, MaxHours: 2, AvgHours: 1.25},
	NutrientProtein: {MinHours: 2, MaxHours: 4, AvgHours: 3},
	NutrientFat:     {MinHours: 4, MaxHours: 6, AvgHours: 5},
}

// nutrientOrder fixes iteration order over the absorption table.
var nutrientOrder = []Nutrient{NutrientCarbs, NutrientProtein, NutrientFat}

const (
	digestionBaseGrams = 10
	digestionMaxScale  = 2
	kcalPerGramCarbs   = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
)

// MealMacros is the macro breakdown of a single meal in grams.
type MealMacros struct {
	CarbsG     float64
	ProteinG   float64
	FatG       float64
	ConsumedAt time.Time
}

func (m MealMacros) amount(n Nutrient) float64 {
	switch n {
	case NutrientCarbs:
		return m.CarbsG
	case NutrientProtein:
		return m.ProteinG
	case NutrientFat:
		return m.FatG
	}
	return 0
}

// NutrientDigestion describes the modeled digestion window for one nutrient.
type NutrientDigestion struct {
	StartTime     time.Time
	EndTime       time.Time
	DurationHours float64
	AmountGrams   float64
}

// DigestionTimeline maps each nutrient present in a meal to its digestion
// window. TotalHours is the longest of the per-nutrient durations.
type DigestionTimeline struct {
	Nutrients  map[Nutrient]NutrientDigestion
	TotalHours float64
}

// SatietyForecast predicts how full a meal keeps the eater.
type SatietyForecast struct {
	Score           float64
	DurationHours   float64
	NextMealTime    time.Time
	Recommendations []string
}

// EnergyCurvePoint is one release event on a meal's energy timeline.
type EnergyCurvePoint struct {
	TimeOffsetHours float64
	EnergyKcal      float64
	Source          Nutrient
}

// AbsorptionStatus reports how far along digestion of a meal is.
type AbsorptionStatus struct {
	Percentage         int
	Status             string
	TimeRemainingHours float64
}

// DigestionDuration returns the modeled digestion time in hours for the
// given amount of a nutrient. Amounts at or below 10 g take the baseline
// average; above that the duration grows proportionally, saturating at twice
// the baseline.
func DigestionDuration(nutrient Nutrient, amountGrams float64) float64 {
	window, ok := absorptionTimes[nutrient]
	if !ok {
		return 0
	}
	if amountGrams <= digestionBaseGrams {
		return window.AvgHours
	}
	multiplier := math.Min(1+(amountGrams-digestionBaseGrams)/digestionBaseGrams*0.5, digestionMaxScale)
	return window.AvgHours * multiplier
}

// ModelDigestion builds the per-nutrient digestion timeline for a meal.
// Nutrients with no amount are omitted; durations are rounded to one decimal.
func ModelDigestion(meal MealMacros) DigestionTimeline {
	timeline := DigestionTimeline{Nutrients: make(map[Nutrient]NutrientDigestion)}

	for _, nutrient := range nutrientOrder {
		amount := meal.amount(nutrient)
		if amount <= 0 {
			continue
		}
		duration := roundTenth(DigestionDuration(nutrient, amount))
		timeline.Nutrients[nutrient] = NutrientDigestion{
			StartTime:     meal.ConsumedAt,
			EndTime:       meal.ConsumedAt.Add(hoursToDuration(duration)),
			DurationHours: duration,
			AmountGrams:   amount,
		}
		if duration > timeline.TotalHours {
			timeline.TotalHours = duration
		}
	}

	return timeline
}

// ForecastSatiety scores a meal's fullness from its macro composition.
// Protein contributes most (0.3/g), then fat (0.2/g), then carbs (0.1/g);
// the score caps at 10 and the satiety window at 8 hours.
func ForecastSatiety(meal MealMacros) SatietyForecast {
	sum := meal.ProteinG*0.3 + meal.FatG*0.2 + meal.CarbsG*0.1
	duration := math.Min(sum*2, 8)

	return SatietyForecast{
		Score:           math.Min(sum, 10),
		DurationHours:   duration,
		NextMealTime:    meal.ConsumedAt.Add(hoursToDuration(duration)),
		Recommendations: satietyRecommendations(meal),
	}
}

func satietyRecommendations(meal MealMacros) []string {
	var recs []string
	if meal.ProteinG < 20 {
		recs = append(recs, "Consider adding more protein for better satiety")
	}
	if meal.FatG < 10 {
		recs = append(recs, "Add healthy fats to prolong satiety")
	}
	if meal.CarbsG > 100 {
		recs = append(recs, "High carb intake may cause energy crashes")
	}
	return recs
}

// EnergyReleaseCurve models when a meal's calories become available: carbs
// release 70% immediately and 30% at two hours, protein splits evenly at one
// and four hours, fat releases 30% at two hours and 70% at six. Points are
// sorted by time offset.
func EnergyReleaseCurve(meal MealMacros) []EnergyCurvePoint {
	var curve []EnergyCurvePoint

	if meal.CarbsG > 0 {
		kcal := meal.CarbsG * kcalPerGramCarbs
		curve = append(curve,
			EnergyCurvePoint{TimeOffsetHours: 0, EnergyKcal: kcal * 0.7, Source: NutrientCarbs},
			EnergyCurvePoint{TimeOffsetHours: 2, EnergyKcal: kcal * 0.3, Source: NutrientCarbs},
		)
	}
	if meal.ProteinG > 0 {
		kcal := meal.ProteinG * kcalPerGramProtein
		curve = append(curve,
			EnergyCurvePoint{TimeOffsetHours: 1, EnergyKcal: kcal * 0.5, Source: NutrientProtein},
			EnergyCurvePoint{TimeOffsetHours: 4, EnergyKcal: kcal * 0.5, Source: NutrientProtein},
		)
	}
	if meal.FatG > 0 {
		kcal := meal.FatG * kcalPerGramFat
		curve = append(curve,
			EnergyCurvePoint{TimeOffsetHours: 2, EnergyKcal: kcal * 0.3, Source: NutrientFat},
			EnergyCurvePoint{TimeOffsetHours: 6, EnergyKcal: kcal * 0.7, Source: NutrientFat},
		)
	}

	sort.SliceStable(curve, func(i, j int) bool {
		return curve[i].TimeOffsetHours < curve[j].TimeOffsetHours
	})
	return curve
}

// AbsorptionStatusAt reports digestion progress for a meal after the given
// elapsed time. Progress per nutrient is elapsed over its average absorption
// time capped at 1; the overall percentage is the maximum across nutrients
// present in the meal.
func AbsorptionStatusAt(meal MealMacros, elapsedHours float64) AbsorptionStatus {
	var progress float64
	for _, nutrient := range nutrientOrder {
		if meal.amount(nutrient) <= 0 {
			continue
		}
		p := math.Min(elapsedHours/absorptionTimes[nutrient].AvgHours, 1)
		progress = math.Max(progress, p*100)
	}

	status := AbsorptionStatus{Percentage: int(math.Round(progress))}
	switch {
	case progress >= 100:
		status.Status = AbsorptionFullyAbsorbed
	case progress >= 70:
		status.Status = AbsorptionMostlyAbsorbed
		status.TimeRemainingHours = math.Max(0, 6-elapsedHours)
	default:
		status.Status = AbsorptionDigesting
		status.TimeRemainingHours = math.Max(0, 6-elapsedHours)
	}
	return status
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
