package service

import (
	"context"
	"sort"
	"time"

	"github.com/ayusharma/vitaltrack/internal/domain"
	"github.com/ayusharma/vitaltrack/internal/metrics"
)

// analysisWindowDays is how far back the correlation and trend views look.
const analysisWindowDays = 30

// ActivityReader is the storage contract required by the analytics service.
type ActivityReader interface {
	ListBreathHoldsSince(ctx context.Context, userID string, since time.Time) ([]domain.BreathHoldRecord, error)
	ListCardioSetsSince(ctx context.Context, userID string, since time.Time) ([]domain.CardioSet, error)
}

// AnalyticsService correlates and trends activity history.
type AnalyticsService struct {
	repo  ActivityReader
	nowFn func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(repo ActivityReader) *AnalyticsService {
	return &AnalyticsService{repo: repo, nowFn: time.Now}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *AnalyticsService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// CardioBreathCorrelation relates daily cardio volume to breath-hold
// performance over the analysis window.
type CardioBreathCorrelation struct {
	Days        int
	Coefficient float64
	Strength    string
	Direction   string
}

// Overview computes, for each day both activities were recorded, the cardio
// set count against the average breath-hold duration, and correlates the two
// series.
func (s *AnalyticsService) Overview(ctx context.Context, userID string) (CardioBreathCorrelation, error) {
	since := s.nowFn().AddDate(0, 0, -analysisWindowDays)

	holds, err := s.repo.ListBreathHoldsSince(ctx, userID, since)
	if err != nil {
		return CardioBreathCorrelation{}, err
	}
	sets, err := s.repo.ListCardioSetsSince(ctx, userID, since)
	if err != nil {
		return CardioBreathCorrelation{}, err
	}

	holdsByDay := map[string][]float64{}
	for _, h := range holds {
		key := h.Date.Format("2006-01-02")
		holdsByDay[key] = append(holdsByDay[key], h.DurationSeconds)
	}
	setsByDay := map[string]int{}
	for _, c := range sets {
		setsByDay[c.CompletedAt.Format("2006-01-02")]++
	}

	var points []metrics.Point
	for day, durations := range holdsByDay {
		count, ok := setsByDay[day]
		if !ok {
			continue
		}
		total := 0.0
		for _, d := range durations {
			total += d
		}
		points = append(points, metrics.Point{
			X: float64(count),
			Y: total / float64(len(durations)),
		})
	}

	r := metrics.PearsonCorrelation(points)
	return CardioBreathCorrelation{
		Days:        len(points),
		Coefficient: r,
		Strength:    metrics.CorrelationStrength(r),
		Direction:   metrics.CorrelationDirection(r),
	}, nil
}

// BreathHoldTrends is the smoothed breath-hold history plus headline numbers.
type BreathHoldTrends struct {
	Attempts            int
	PersonalBestSeconds float64
	LatestSeconds       float64
	Durations           []float64
	WeeklyAverage       []float64
	BiweeklyAverage     []float64
}

// BreathHoldTrends returns the attempt series over the analysis window with
// seven and fourteen point moving averages and the personal best.
func (s *AnalyticsService) BreathHoldTrends(ctx context.Context, userID string) (BreathHoldTrends, error) {
	since := s.nowFn().AddDate(0, 0, -analysisWindowDays)
	holds, err := s.repo.ListBreathHoldsSince(ctx, userID, since)
	if err != nil {
		return BreathHoldTrends{}, err
	}

	trends := BreathHoldTrends{Attempts: len(holds)}
	if len(holds) == 0 {
		return trends, nil
	}

	trends.Durations = make([]float64, 0, len(holds))
	for _, h := range holds {
		trends.Durations = append(trends.Durations, h.DurationSeconds)
		if h.DurationSeconds > trends.PersonalBestSeconds {
			trends.PersonalBestSeconds = h.DurationSeconds
		}
	}
	trends.LatestSeconds = trends.Durations[len(trends.Durations)-1]
	trends.WeeklyAverage = metrics.MovingAverage(trends.Durations, 7)
	trends.BiweeklyAverage = metrics.MovingAverage(trends.Durations, 14)
	return trends, nil
}

// CardioDay is one day's set volume.
type CardioDay struct {
	Date time.Time
	Sets int
}

// CardioProgress is daily set volume over the analysis window.
type CardioProgress struct {
	TotalSets int
	Days      []CardioDay
	Trend     []float64
}

// CardioProgress aggregates cardio sets per day, oldest-first, with a
// seven-point moving average over the daily counts.
func (s *AnalyticsService) CardioProgress(ctx context.Context, userID string) (CardioProgress, error) {
	since := s.nowFn().AddDate(0, 0, -analysisWindowDays)
	sets, err := s.repo.ListCardioSetsSince(ctx, userID, since)
	if err != nil {
		return CardioProgress{}, err
	}

	byDay := map[time.Time]int{}
	for _, c := range sets {
		t := c.CompletedAt
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		byDay[day]++
	}

	progress := CardioProgress{TotalSets: len(sets)}
	for day, count := range byDay {
		progress.Days = append(progress.Days, CardioDay{Date: day, Sets: count})
	}
	sort.Slice(progress.Days, func(i, j int) bool {
		return progress.Days[i].Date.Before(progress.Days[j].Date)
	})

	counts := make([]float64, 0, len(progress.Days))
	for _, d := range progress.Days {
		counts = append(counts, float64(d.Sets))
	}
	progress.Trend = metrics.MovingAverage(counts, 7)
	return progress, nil
}
