package service

import (
	"context"
	"testing"
	"time"

	"github.com/ayusharma/vitaltrack/internal/domain"
	"github.com/ayusharma/vitaltrack/internal/metrics"
)

func TestAnalyzeMealDefaultsConsumedAt(t *testing.T) {
	svc := NewInsightService(newStubHealthRepo())
	now := time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	insight := svc.AnalyzeMeal(metrics.MealMacros{CarbsG: 50, ProteinG: 20, FatG: 10})

	carbs, ok := insight.Digestion.Nutrients[metrics.NutrientCarbs]
	if !ok {
		t.Fatal("expected carbs digestion window")
	}
	if !carbs.StartTime.Equal(now) {
		t.Fatalf("StartTime = %v, want %v", carbs.StartTime, now)
	}
	if insight.Satiety.Score <= 0 {
		t.Fatalf("Satiety.Score = %v", insight.Satiety.Score)
	}
	if len(insight.EnergyCurve) == 0 {
		t.Fatal("expected energy curve points")
	}
}

func TestAbsorptionNow(t *testing.T) {
	svc := NewInsightService(newStubHealthRepo())
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	meal := metrics.MealMacros{CarbsG: 50, ConsumedAt: now.Add(-7 * time.Hour)}
	status := svc.AbsorptionNow(meal)
	if status.Status != metrics.AbsorptionFullyAbsorbed {
		t.Fatalf("Status = %q after 7h, want fully absorbed", status.Status)
	}
	if status.TimeRemainingHours != 0 {
		t.Fatalf("TimeRemainingHours = %v, want 0", status.TimeRemainingHours)
	}

	// A meal dated in the future is treated as just eaten.
	future := metrics.MealMacros{CarbsG: 50, ConsumedAt: now.Add(time.Hour)}
	status = svc.AbsorptionNow(future)
	if status.Percentage != 0 {
		t.Fatalf("Percentage = %d, want 0", status.Percentage)
	}
}

func TestDailyMealInsights(t *testing.T) {
	repo := newStubHealthRepo()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	repo.foods = []domain.FoodLog{
		{UserID: "u1", Name: "rice bowl", CarbsG: 100, ProteinG: 10, FatG: 10, ConsumedAt: day.Add(12 * time.Hour)},
		{UserID: "u1", Name: "noodles", CarbsG: 50, ProteinG: 5, FatG: 5, ConsumedAt: day.Add(21*time.Hour + 30*time.Minute)},
		{UserID: "u2", Name: "other user", CarbsG: 80, ConsumedAt: day.Add(12 * time.Hour)},
	}

	svc := NewInsightService(repo)
	insights, err := svc.DailyMealInsights(context.Background(), "u1", day)
	if err != nil {
		t.Fatalf("DailyMealInsights: %v", err)
	}

	if insights.Meals != 2 {
		t.Fatalf("Meals = %d, want 2", insights.Meals)
	}
	// 150g carbs, 15g protein, 15g fat: 600 + 60 + 135 = 795 kcal.
	if insights.Balance.TotalKcal != 795 {
		t.Fatalf("TotalKcal = %v, want 795", insights.Balance.TotalKcal)
	}
	if insights.Balance.CarbsPercent != 75.5 {
		t.Fatalf("CarbsPercent = %v, want 75.5", insights.Balance.CarbsPercent)
	}
	if insights.Balance.ProteinPercent != 7.5 {
		t.Fatalf("ProteinPercent = %v, want 7.5", insights.Balance.ProteinPercent)
	}
	if len(insights.Balance.Recommendations) != 3 {
		t.Fatalf("Recommendations = %v, want 3 entries", insights.Balance.Recommendations)
	}

	if len(insights.LateMeals) != 1 {
		t.Fatalf("LateMeals = %v, want 1 entry", insights.LateMeals)
	}
	late := insights.LateMeals[0]
	if late.Name != "noodles" {
		t.Fatalf("late meal = %q", late.Name)
	}
	// Fat digests slowest: 5g takes the 5h baseline.
	if late.DigestionHours != 5 {
		t.Fatalf("DigestionHours = %v, want 5", late.DigestionHours)
	}
}

func TestDailyMealInsightsEmptyDay(t *testing.T) {
	svc := NewInsightService(newStubHealthRepo())

	insights, err := svc.DailyMealInsights(context.Background(), "u1", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DailyMealInsights: %v", err)
	}
	if insights.Meals != 0 || insights.Balance.TotalKcal != 0 {
		t.Fatalf("got %+v, want empty", insights)
	}
	if len(insights.Balance.Recommendations) != 0 {
		t.Fatalf("Recommendations = %v, want none", insights.Balance.Recommendations)
	}
}
