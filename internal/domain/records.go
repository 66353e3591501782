package domain

import "time"

// SleepLog is one recorded sleep interval with its derived quality bucket.
type SleepLog struct {
	ID            string
	UserID        string
	SleepDate     time.Time
	SleepStart    time.Time
	SleepEnd      time.Time
	DurationHours float64
	Quality       string
	Notes         string
	CreatedAt     time.Time
}

// WaterRecord aggregates a single day's water intake in millilitres.
type WaterRecord struct {
	ID            string
	UserID        string
	Date          time.Time
	TotalIntakeMl int
	GoalAchieved  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FoodLog is one consumed food entry with its macro breakdown in grams.
type FoodLog struct {
	ID         string
	UserID     string
	Name       string
	Category   string
	Calories   float64
	CarbsG     float64
	ProteinG   float64
	FatG       float64
	ConsumedAt time.Time
}

// BodyFatRecord stores the outcome of one body composition estimate.
type BodyFatRecord struct {
	ID             string
	UserID         string
	WeightKg       float64
	HeightCm       float64
	NeckCm         float64
	WaistCm        float64
	HipCm          *float64
	Gender         string
	BMI            float64
	BodyFatPercent float64
	RecordedAt     time.Time
}

// BreathHoldRecord is one breath-hold attempt in seconds.
type BreathHoldRecord struct {
	ID              string
	UserID          string
	DurationSeconds float64
	Date            time.Time
}

// CardioSet is one completed set of a cardio exercise.
type CardioSet struct {
	ID          string
	UserID      string
	Exercise    string
	SetNumber   int
	CompletedAt time.Time
}

// HealthScore is a client-computed wellbeing score snapshot.
type HealthScore struct {
	ID        string
	UserID    string
	Score     float64
	Level     string
	Tip       string
	Timestamp time.Time
}
