package service

import (
	"context"
	"time"

	"github.com/ayusharma/vitaltrack/internal/domain"
	"github.com/ayusharma/vitaltrack/internal/metrics"
)

// lateMealHour is the hour of day from which a meal counts as late-night.
const lateMealHour = 20

// FoodReader is the storage contract required by the insight service.
type FoodReader interface {
	ListFoodLogsByDate(ctx context.Context, userID string, date time.Time) ([]domain.FoodLog, error)
}

// InsightService derives digestion and nutrition insights from meals.
type InsightService struct {
	foods FoodReader
	nowFn func() time.Time
}

// NewInsightService constructs an InsightService.
func NewInsightService(foods FoodReader) *InsightService {
	return &InsightService{foods: foods, nowFn: time.Now}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *InsightService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// MealInsight bundles the three digestion models for a single meal.
type MealInsight struct {
	Digestion   metrics.DigestionTimeline
	Satiety     metrics.SatietyForecast
	EnergyCurve []metrics.EnergyCurvePoint
}

// AnalyzeMeal runs the digestion, satiety and energy release models over a
// meal's macros. A zero ConsumedAt means now.
func (s *InsightService) AnalyzeMeal(meal metrics.MealMacros) MealInsight {
	if meal.ConsumedAt.IsZero() {
		meal.ConsumedAt = s.nowFn()
	}
	return MealInsight{
		Digestion:   metrics.ModelDigestion(meal),
		Satiety:     metrics.ForecastSatiety(meal),
		EnergyCurve: metrics.EnergyReleaseCurve(meal),
	}
}

// AbsorptionNow reports how far along digestion of a meal is at the current
// time.
func (s *InsightService) AbsorptionNow(meal metrics.MealMacros) metrics.AbsorptionStatus {
	elapsed := s.nowFn().Sub(meal.ConsumedAt).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	return metrics.AbsorptionStatusAt(meal, elapsed)
}

// MacroBalance is a day's macro totals with their calorie shares.
type MacroBalance struct {
	TotalKcal       float64
	CarbsG          float64
	ProteinG        float64
	FatG            float64
	CarbsPercent    float64
	ProteinPercent  float64
	FatPercent      float64
	Recommendations []string
}

// LateMeal is a food entry consumed late in the evening, with the modeled
// digestion time it still needs.
type LateMeal struct {
	Name           string
	ConsumedAt     time.Time
	DigestionHours float64
}

// DailyInsights summarises one calendar day of eating.
type DailyInsights struct {
	Date      time.Time
	Meals     int
	Balance   MacroBalance
	LateMeals []LateMeal
}

// DailyMealInsights aggregates a day's food logs into a macro balance with
// recommendations and flags late-night meals. A zero date means today.
func (s *InsightService) DailyMealInsights(ctx context.Context, userID string, date time.Time) (DailyInsights, error) {
	if date.IsZero() {
		date = s.nowFn()
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	foods, err := s.foods.ListFoodLogsByDate(ctx, userID, day)
	if err != nil {
		return DailyInsights{}, err
	}

	insights := DailyInsights{Date: day, Meals: len(foods)}
	for _, food := range foods {
		insights.Balance.CarbsG += food.CarbsG
		insights.Balance.ProteinG += food.ProteinG
		insights.Balance.FatG += food.FatG

		if food.ConsumedAt.Hour() >= lateMealHour {
			timeline := metrics.ModelDigestion(metrics.MealMacros{
				CarbsG:     food.CarbsG,
				ProteinG:   food.ProteinG,
				FatG:       food.FatG,
				ConsumedAt: food.ConsumedAt,
			})
			insights.LateMeals = append(insights.LateMeals, LateMeal{
				Name:           food.Name,
				ConsumedAt:     food.ConsumedAt,
				DigestionHours: timeline.TotalHours,
			})
		}
	}

	insights.Balance = balanceMacros(insights.Balance)
	return insights, nil
}

func balanceMacros(b MacroBalance) MacroBalance {
	carbsKcal := b.CarbsG * 4
	proteinKcal := b.ProteinG * 4
	fatKcal := b.FatG * 9
	b.TotalKcal = carbsKcal + proteinKcal + fatKcal
	if b.TotalKcal == 0 {
		return b
	}

	b.CarbsPercent = roundTenth(metrics.PercentOf(carbsKcal, b.TotalKcal))
	b.ProteinPercent = roundTenth(metrics.PercentOf(proteinKcal, b.TotalKcal))
	b.FatPercent = roundTenth(metrics.PercentOf(fatKcal, b.TotalKcal))

	if b.ProteinPercent < 15 {
		b.Recommendations = append(b.Recommendations,
			"Protein is under 15% of calories; add a protein source to your next meal")
	}
	if b.FatPercent < 20 {
		b.Recommendations = append(b.Recommendations,
			"Fat is under 20% of calories; include healthy fats like nuts or olive oil")
	}
	if b.CarbsPercent > 60 {
		b.Recommendations = append(b.Recommendations,
			"Carbs exceed 60% of calories; swap refined carbs for protein or vegetables")
	}
	return b
}
