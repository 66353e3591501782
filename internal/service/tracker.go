package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ayusharma/vitaltrack/internal/domain"
	"github.com/ayusharma/vitaltrack/internal/metrics"
	"github.com/ayusharma/vitaltrack/internal/repository"
)

var (
	// ErrProfileNotFound is returned when an operation needs a health
	// profile the user has not created yet.
	ErrProfileNotFound = errors.New("health profile not found")

	// ErrInvalidInput marks request payloads rejected by validation.
	ErrInvalidInput = errors.New("invalid input")
)

// HealthRepository is the storage contract required by the tracker service.
type HealthRepository interface {
	UpsertProfile(ctx context.Context, profile domain.HealthProfile) error
	FetchProfile(ctx context.Context, userID string) (domain.HealthProfile, error)
	InsertSleepLog(ctx context.Context, log domain.SleepLog) (domain.SleepLog, error)
	ListSleepLogs(ctx context.Context, userID string, limit int) ([]domain.SleepLog, error)
	ListSleepLogsSince(ctx context.Context, userID string, since time.Time) ([]domain.SleepLog, error)
	UpsertWaterRecord(ctx context.Context, rec domain.WaterRecord) (domain.WaterRecord, error)
	FetchWaterRecord(ctx context.Context, userID string, date time.Time) (domain.WaterRecord, error)
	ListWaterRecordsSince(ctx context.Context, userID string, since time.Time) ([]domain.WaterRecord, error)
	InsertFoodLog(ctx context.Context, log domain.FoodLog) (domain.FoodLog, error)
	ListFoodLogsByDate(ctx context.Context, userID string, date time.Time) ([]domain.FoodLog, error)
	InsertBodyFatRecord(ctx context.Context, rec domain.BodyFatRecord) (domain.BodyFatRecord, error)
	ListBodyFatRecords(ctx context.Context, userID string) ([]domain.BodyFatRecord, error)
	InsertBreathHold(ctx context.Context, rec domain.BreathHoldRecord) (domain.BreathHoldRecord, error)
	InsertCardioSet(ctx context.Context, rec domain.CardioSet) (domain.CardioSet, error)
	InsertHealthScore(ctx context.Context, rec domain.HealthScore) (domain.HealthScore, error)
	ListHealthScores(ctx context.Context, userID string, limit int) ([]domain.HealthScore, error)
}

// TrackerService records measurements and derives metrics from them.
type TrackerService struct {
	repo  HealthRepository
	nowFn func() time.Time
}

// NewTrackerService constructs a TrackerService.
func NewTrackerService(repo HealthRepository) *TrackerService {
	return &TrackerService{repo: repo, nowFn: time.Now}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *TrackerService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// ProfileInput is the payload for creating or updating a health profile.
type ProfileInput struct {
	Name           string
	Age            int
	Gender         string
	HeightCm       float64
	WeightKg       float64
	ActivityLevel  string
	SleepHours     string
	DietPreference string
	Goal           string
	StressLevel    string
}

// SaveProfile validates and stores a user's health profile.
func (s *TrackerService) SaveProfile(ctx context.Context, userID string, input ProfileInput) (domain.HealthProfile, error) {
	if input.Age <= 0 {
		return domain.HealthProfile{}, fmt.Errorf("%w: age must be positive", ErrInvalidInput)
	}
	if input.HeightCm <= 0 || input.WeightKg <= 0 {
		return domain.HealthProfile{}, fmt.Errorf("%w: height and weight must be positive", ErrInvalidInput)
	}
	gender := strings.ToLower(strings.TrimSpace(input.Gender))
	switch gender {
	case domain.GenderMale, domain.GenderFemale, domain.GenderOther:
	default:
		return domain.HealthProfile{}, fmt.Errorf("%w: gender must be male, female or other", ErrInvalidInput)
	}

	profile := domain.HealthProfile{
		UserID:         userID,
		Name:           strings.TrimSpace(input.Name),
		Age:            input.Age,
		Gender:         gender,
		HeightCm:       input.HeightCm,
		WeightKg:       input.WeightKg,
		ActivityLevel:  strings.ToLower(strings.TrimSpace(input.ActivityLevel)),
		SleepHours:     input.SleepHours,
		DietPreference: input.DietPreference,
		Goal:           input.Goal,
		StressLevel:    input.StressLevel,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return domain.HealthProfile{}, err
	}
	return s.repo.FetchProfile(ctx, userID)
}

// GetProfile returns a user's health profile.
func (s *TrackerService) GetProfile(ctx context.Context, userID string) (domain.HealthProfile, error) {
	profile, err := s.repo.FetchProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.HealthProfile{}, ErrProfileNotFound
	}
	return profile, err
}

// --- sleep ---

// SleepInput is one recorded sleep interval.
type SleepInput struct {
	Start time.Time
	End   time.Time
	Notes string
}

// LogSleep classifies a sleep interval and stores it.
func (s *TrackerService) LogSleep(ctx context.Context, userID string, input SleepInput) (domain.SleepLog, error) {
	if input.Start.IsZero() || input.End.IsZero() {
		return domain.SleepLog{}, fmt.Errorf("%w: sleep start and end are required", ErrInvalidInput)
	}

	result := metrics.ClassifySleep(metrics.SleepInterval{Start: input.Start, End: input.End})

	end := result.End
	return s.repo.InsertSleepLog(ctx, domain.SleepLog{
		UserID:        userID,
		SleepDate:     time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()),
		SleepStart:    result.Start,
		SleepEnd:      result.End,
		DurationHours: result.DurationHours,
		Quality:       result.Quality,
		Notes:         input.Notes,
	})
}

// SleepHistory returns a user's most recent sleep logs.
func (s *TrackerService) SleepHistory(ctx context.Context, userID string, limit int) ([]domain.SleepLog, error) {
	return s.repo.ListSleepLogs(ctx, userID, limit)
}

// SleepSummary aggregates the last seven days of sleep.
type SleepSummary struct {
	Days          int
	AverageHours  float64
	QualityCounts map[string]int
}

// WeeklySleepSummary averages sleep duration and tallies quality buckets for
// the seven days ending now.
func (s *TrackerService) WeeklySleepSummary(ctx context.Context, userID string) (SleepSummary, error) {
	since := s.nowFn().AddDate(0, 0, -7)
	logs, err := s.repo.ListSleepLogsSince(ctx, userID, since)
	if err != nil {
		return SleepSummary{}, err
	}

	summary := SleepSummary{QualityCounts: map[string]int{}}
	if len(logs) == 0 {
		return summary, nil
	}

	total := 0.0
	for _, log := range logs {
		total += log.DurationHours
		summary.QualityCounts[log.Quality]++
	}
	summary.Days = len(logs)
	summary.AverageHours = roundTenth(total / float64(len(logs)))
	return summary, nil
}

// --- water ---

// WaterStatus is the stored day record evaluated against the weight-based
// goal.
type WaterStatus struct {
	Record  domain.WaterRecord
	GoalMl  int
	Percent int
}

// RecordWater adds an intake amount to the given day's record and re-evaluates
// the goal. A zero date means today.
func (s *TrackerService) RecordWater(ctx context.Context, userID string, amountMl int, date time.Time) (WaterStatus, error) {
	if amountMl <= 0 {
		return WaterStatus{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	day := s.dayOf(date)

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return WaterStatus{}, err
	}

	total := amountMl
	existing, err := s.repo.FetchWaterRecord(ctx, userID, day)
	if err == nil {
		total += existing.TotalIntakeMl
	} else if !errors.Is(err, repository.ErrNotFound) {
		return WaterStatus{}, err
	}

	eval, err := metrics.EvaluateHydration(metrics.WaterGoalInput{
		BodyWeightKg:  profile.WeightKg,
		TotalIntakeMl: total,
	})
	if err != nil {
		return WaterStatus{}, err
	}

	rec, err := s.repo.UpsertWaterRecord(ctx, domain.WaterRecord{
		UserID:        userID,
		Date:          day,
		TotalIntakeMl: total,
		GoalAchieved:  eval.Achieved,
	})
	if err != nil {
		return WaterStatus{}, err
	}

	return WaterStatus{Record: rec, GoalMl: eval.GoalMl, Percent: eval.Percent}, nil
}

// WaterStatusFor returns the day's record evaluated against the goal. A day
// with no record yet reports zero intake.
func (s *TrackerService) WaterStatusFor(ctx context.Context, userID string, date time.Time) (WaterStatus, error) {
	day := s.dayOf(date)

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return WaterStatus{}, err
	}

	rec, err := s.repo.FetchWaterRecord(ctx, userID, day)
	if errors.Is(err, repository.ErrNotFound) {
		rec = domain.WaterRecord{UserID: userID, Date: day}
	} else if err != nil {
		return WaterStatus{}, err
	}

	eval, err := metrics.EvaluateHydration(metrics.WaterGoalInput{
		BodyWeightKg:  profile.WeightKg,
		TotalIntakeMl: rec.TotalIntakeMl,
	})
	if err != nil {
		return WaterStatus{}, err
	}

	return WaterStatus{Record: rec, GoalMl: eval.GoalMl, Percent: eval.Percent}, nil
}

// WaterWeek returns the last seven days of recorded intake, each day
// evaluated against the profile-derived goal.
func (s *TrackerService) WaterWeek(ctx context.Context, userID string) ([]WaterStatus, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := s.dayOf(s.nowFn()).AddDate(0, 0, -6)
	records, err := s.repo.ListWaterRecordsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	out := make([]WaterStatus, 0, len(records))
	for _, rec := range records {
		eval, err := metrics.EvaluateHydration(metrics.WaterGoalInput{
			BodyWeightKg:  profile.WeightKg,
			TotalIntakeMl: rec.TotalIntakeMl,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, WaterStatus{Record: rec, GoalMl: eval.GoalMl, Percent: eval.Percent})
	}
	return out, nil
}

// --- body composition ---

// BodyFatInput carries the tape measurements for a body fat estimate.
// Profile height, weight and gender supply the rest.
type BodyFatInput struct {
	NeckCm  float64
	WaistCm float64
	HipCm   *float64
}

// CalculateBodyFat runs the circumference-based estimate against the user's
// profile and stores the result.
func (s *TrackerService) CalculateBodyFat(ctx context.Context, userID string, input BodyFatInput) (domain.BodyFatRecord, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.BodyFatRecord{}, err
	}

	comp, err := metrics.EstimateBodyComposition(metrics.AnthropometricInput{
		NeckCm:   input.NeckCm,
		WaistCm:  input.WaistCm,
		HipCm:    input.HipCm,
		HeightCm: profile.HeightCm,
		WeightKg: profile.WeightKg,
		Gender:   profile.Gender,
	})
	if err != nil {
		return domain.BodyFatRecord{}, err
	}

	return s.repo.InsertBodyFatRecord(ctx, domain.BodyFatRecord{
		UserID:         userID,
		WeightKg:       profile.WeightKg,
		HeightCm:       profile.HeightCm,
		NeckCm:         input.NeckCm,
		WaistCm:        input.WaistCm,
		HipCm:          input.HipCm,
		Gender:         profile.Gender,
		BMI:            comp.BMI,
		BodyFatPercent: comp.BodyFatPercent,
		RecordedAt:     s.nowFn(),
	})
}

// BodyFatHistory returns a user's body fat estimates newest-first.
func (s *TrackerService) BodyFatHistory(ctx context.Context, userID string) ([]domain.BodyFatRecord, error) {
	return s.repo.ListBodyFatRecords(ctx, userID)
}

// MacroTargets derives the daily energy budget and macro split from the
// user's profile.
func (s *TrackerService) MacroTargets(ctx context.Context, userID string) (metrics.EnergyBudget, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return metrics.EnergyBudget{}, err
	}

	return metrics.ComputeEnergyBudget(metrics.EnergyProfile{
		AgeYears:      profile.Age,
		Gender:        profile.Gender,
		HeightCm:      profile.HeightCm,
		WeightKg:      profile.WeightKg,
		ActivityLevel: profile.ActivityLevel,
		Goal:          profile.Goal,
	})
}

// --- food ---

// FoodInput is one consumed food entry.
type FoodInput struct {
	Name       string
	Category   string
	Calories   float64
	CarbsG     float64
	ProteinG   float64
	FatG       float64
	ConsumedAt time.Time
}

// LogFood stores a consumed food entry. A zero ConsumedAt means now.
func (s *TrackerService) LogFood(ctx context.Context, userID string, input FoodInput) (domain.FoodLog, error) {
	if strings.TrimSpace(input.Name) == "" {
		return domain.FoodLog{}, fmt.Errorf("%w: food name is required", ErrInvalidInput)
	}
	if input.Calories < 0 || input.CarbsG < 0 || input.ProteinG < 0 || input.FatG < 0 {
		return domain.FoodLog{}, fmt.Errorf("%w: calories and macros must not be negative", ErrInvalidInput)
	}

	consumedAt := input.ConsumedAt
	if consumedAt.IsZero() {
		consumedAt = s.nowFn()
	}

	return s.repo.InsertFoodLog(ctx, domain.FoodLog{
		UserID:     userID,
		Name:       strings.TrimSpace(input.Name),
		Category:   input.Category,
		Calories:   input.Calories,
		CarbsG:     input.CarbsG,
		ProteinG:   input.ProteinG,
		FatG:       input.FatG,
		ConsumedAt: consumedAt,
	})
}

// FoodsByDate returns the food entries consumed on the given day, in
// consumption order. A zero date means today.
func (s *TrackerService) FoodsByDate(ctx context.Context, userID string, date time.Time) ([]domain.FoodLog, error) {
	return s.repo.ListFoodLogsByDate(ctx, userID, s.dayOf(date))
}

// --- breath hold, cardio, scores ---

// LogBreathHold stores a breath-hold attempt. A zero date means now.
func (s *TrackerService) LogBreathHold(ctx context.Context, userID string, durationSeconds float64, date time.Time) (domain.BreathHoldRecord, error) {
	if durationSeconds <= 0 {
		return domain.BreathHoldRecord{}, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		date = s.nowFn()
	}
	return s.repo.InsertBreathHold(ctx, domain.BreathHoldRecord{
		UserID:          userID,
		DurationSeconds: durationSeconds,
		Date:            date,
	})
}

// LogCardioSet stores a completed cardio set. A zero timestamp means now.
func (s *TrackerService) LogCardioSet(ctx context.Context, userID, exercise string, setNumber int, completedAt time.Time) (domain.CardioSet, error) {
	if strings.TrimSpace(exercise) == "" {
		return domain.CardioSet{}, fmt.Errorf("%w: exercise name is required", ErrInvalidInput)
	}
	if setNumber <= 0 {
		return domain.CardioSet{}, fmt.Errorf("%w: set number must be positive", ErrInvalidInput)
	}
	if completedAt.IsZero() {
		completedAt = s.nowFn()
	}
	return s.repo.InsertCardioSet(ctx, domain.CardioSet{
		UserID:      userID,
		Exercise:    strings.TrimSpace(exercise),
		SetNumber:   setNumber,
		CompletedAt: completedAt,
	})
}

// SaveHealthScore stores a wellbeing score snapshot.
func (s *TrackerService) SaveHealthScore(ctx context.Context, userID string, score float64, level, tip string) (domain.HealthScore, error) {
	if score < 0 || score > 100 {
		return domain.HealthScore{}, fmt.Errorf("%w: score must be between 0 and 100", ErrInvalidInput)
	}
	return s.repo.InsertHealthScore(ctx, domain.HealthScore{
		UserID:    userID,
		Score:     score,
		Level:     level,
		Tip:       tip,
		Timestamp: s.nowFn(),
	})
}

// HealthScoreHistory returns a user's score snapshots newest-first.
func (s *TrackerService) HealthScoreHistory(ctx context.Context, userID string, limit int) ([]domain.HealthScore, error) {
	return s.repo.ListHealthScores(ctx, userID, limit)
}

func (s *TrackerService) dayOf(date time.Time) time.Time {
	if date.IsZero() {
		date = s.nowFn()
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
