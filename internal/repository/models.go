package repository

import "time"

type userModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type profileModel struct {
	UserID         string `gorm:"primaryKey"`
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
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (profileModel) TableName() string { return "health_profiles" }

type sleepLogModel struct {
	ID            string    `gorm:"primaryKey"`
	UserID        string    `gorm:"not null;index"`
	SleepDate     time.Time `gorm:"not null;index"`
	SleepStart    time.Time `gorm:"not null"`
	SleepEnd      time.Time `gorm:"not null"`
	DurationHours float64   `gorm:"not null"`
	Quality       string    `gorm:"not null"`
	Notes         string
	CreatedAt     time.Time
}

func (sleepLogModel) TableName() string { return "sleep_logs" }

type waterRecordModel struct {
	ID            string `gorm:"primaryKey"`
	UserID        string `gorm:"not null;index:idx_water_user_date,unique"`
	Date          string `gorm:"not null;index:idx_water_user_date,unique"`
	TotalIntakeMl int    `gorm:"not null;default:0"`
	GoalAchieved  bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (waterRecordModel) TableName() string { return "water_intake_records" }

type foodLogModel struct {
	ID         string    `gorm:"primaryKey"`
	UserID     string    `gorm:"not null;index"`
	Name       string    `gorm:"not null"`
	Category   string    `gorm:"index"`
	Calories   float64   `gorm:"not null;default:0"`
	CarbsG     float64   `gorm:"not null;default:0"`
	ProteinG   float64   `gorm:"not null;default:0"`
	FatG       float64   `gorm:"not null;default:0"`
	ConsumedAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (foodLogModel) TableName() string { return "food_logs" }

type bodyFatRecordModel struct {
	ID             string `gorm:"primaryKey"`
	UserID         string `gorm:"not null;index"`
	WeightKg       float64
	HeightCm       float64
	NeckCm         float64
	WaistCm        float64
	HipCm          *float64
	Gender         string
	BMI            float64
	BodyFatPercent float64
	RecordedAt     time.Time `gorm:"not null;index"`
}

func (bodyFatRecordModel) TableName() string { return "body_fat_records" }

type breathHoldModel struct {
	ID              string    `gorm:"primaryKey"`
	UserID          string    `gorm:"not null;index"`
	DurationSeconds float64   `gorm:"not null"`
	Date            time.Time `gorm:"not null;index"`
}

func (breathHoldModel) TableName() string { return "breath_hold_records" }

type cardioSetModel struct {
	ID          string    `gorm:"primaryKey"`
	UserID      string    `gorm:"not null;index"`
	Exercise    string    `gorm:"not null"`
	SetNumber   int       `gorm:"not null"`
	CompletedAt time.Time `gorm:"not null;index"`
}

func (cardioSetModel) TableName() string { return "cardio_history" }

type healthScoreModel struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Score     float64
	Level     string
	Tip       string
	Timestamp time.Time `gorm:"not null;index"`
}

func (healthScoreModel) TableName() string { return "health_scores" }
