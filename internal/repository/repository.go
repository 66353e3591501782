// Package repository persists users, profiles and measurement logs in SQLite
// through gorm, using the pure-Go modernc driver.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	_ "modernc.org/sqlite"

	"github.com/ayusharma/vitaltrack/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

const dateLayout = "2006-01-02"

// Open opens (or creates) the SQLite database at path and migrates the
// schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(
		&userModel{},
		&profileModel{},
		&sleepLogModel{},
		&waterRecordModel{},
		&foodLogModel{},
		&bodyFatRecordModel{},
		&breathHoldModel{},
		&cardioSetModel{},
		&healthScoreModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

// Repository wraps the gorm handle with typed accessors.
type Repository struct {
	db *gorm.DB
}

// New constructs a Repository over an opened database.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Ping verifies database connectivity, used by the health probe.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- users ---

// CreateUser inserts a new account. The ID is assigned when empty.
func (r *Repository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	m := userModel{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return toDomainUser(m), nil
}

// FindUserByEmail returns the account registered under email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return toDomainUser(m), nil
}

// FindUserByID returns the account with the given ID.
func (r *Repository) FindUserByID(ctx context.Context, id string) (domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(m), nil
}

// --- health profiles ---

// UpsertProfile creates or replaces a user's health profile.
func (r *Repository) UpsertProfile(ctx context.Context, profile domain.HealthProfile) error {
	m := profileModel{
		UserID:         profile.UserID,
		Name:           profile.Name,
		Age:            profile.Age,
		Gender:         profile.Gender,
		HeightCm:       profile.HeightCm,
		WeightKg:       profile.WeightKg,
		ActivityLevel:  profile.ActivityLevel,
		SleepHours:     profile.SleepHours,
		DietPreference: profile.DietPreference,
		Goal:           profile.Goal,
		StressLevel:    profile.StressLevel,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// FetchProfile returns a user's health profile.
func (r *Repository) FetchProfile(ctx context.Context, userID string) (domain.HealthProfile, error) {
	var m profileModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.HealthProfile{}, ErrNotFound
	}
	if err != nil {
		return domain.HealthProfile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return domain.HealthProfile{
		UserID:         m.UserID,
		Name:           m.Name,
		Age:            m.Age,
		Gender:         m.Gender,
		HeightCm:       m.HeightCm,
		WeightKg:       m.WeightKg,
		ActivityLevel:  m.ActivityLevel,
		SleepHours:     m.SleepHours,
		DietPreference: m.DietPreference,
		Goal:           m.Goal,
		StressLevel:    m.StressLevel,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

// --- sleep logs ---

// InsertSleepLog stores a classified sleep interval.
func (r *Repository) InsertSleepLog(ctx context.Context, log domain.SleepLog) (domain.SleepLog, error) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	m := sleepLogModel{
		ID:            log.ID,
		UserID:        log.UserID,
		SleepDate:     log.SleepDate,
		SleepStart:    log.SleepStart,
		SleepEnd:      log.SleepEnd,
		DurationHours: log.DurationHours,
		Quality:       log.Quality,
		Notes:         log.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.SleepLog{}, fmt.Errorf("insert sleep log: %w", err)
	}
	log.CreatedAt = m.CreatedAt
	return log, nil
}

// ListSleepLogs returns a user's sleep logs newest-first.
func (r *Repository) ListSleepLogs(ctx context.Context, userID string, limit int) ([]domain.SleepLog, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("sleep_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []sleepLogModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sleep logs: %w", err)
	}
	out := make([]domain.SleepLog, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainSleepLog(m))
	}
	return out, nil
}

// ListSleepLogsSince returns sleep logs dated at or after since, oldest-first.
func (r *Repository) ListSleepLogsSince(ctx context.Context, userID string, since time.Time) ([]domain.SleepLog, error) {
	var rows []sleepLogModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sleep_date >= ?", userID, since).
		Order("sleep_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list sleep logs since: %w", err)
	}
	out := make([]domain.SleepLog, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainSleepLog(m))
	}
	return out, nil
}

// --- water records ---

// UpsertWaterRecord creates or updates the single record for a user and day.
func (r *Repository) UpsertWaterRecord(ctx context.Context, rec domain.WaterRecord) (domain.WaterRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m := waterRecordModel{
		ID:            rec.ID,
		UserID:        rec.UserID,
		Date:          rec.Date.Format(dateLayout),
		TotalIntakeMl: rec.TotalIntakeMl,
		GoalAchieved:  rec.GoalAchieved,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_intake_ml", "goal_achieved", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return domain.WaterRecord{}, fmt.Errorf("upsert water record: %w", err)
	}
	return r.FetchWaterRecord(ctx, rec.UserID, rec.Date)
}

// FetchWaterRecord returns the water record for a user on the given day.
func (r *Repository) FetchWaterRecord(ctx context.Context, userID string, date time.Time) (domain.WaterRecord, error) {
	var m waterRecordModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format(dateLayout)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.WaterRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.WaterRecord{}, fmt.Errorf("fetch water record: %w", err)
	}
	return toDomainWaterRecord(m)
}

// ListWaterRecordsSince returns water records dated at or after since,
// oldest-first.
func (r *Repository) ListWaterRecordsSince(ctx context.Context, userID string, since time.Time) ([]domain.WaterRecord, error) {
	var rows []waterRecordModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since.Format(dateLayout)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list water records: %w", err)
	}
	out := make([]domain.WaterRecord, 0, len(rows))
	for _, m := range rows {
		rec, err := toDomainWaterRecord(m)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// --- food logs ---

// InsertFoodLog stores one consumed food entry.
func (r *Repository) InsertFoodLog(ctx context.Context, log domain.FoodLog) (domain.FoodLog, error) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	m := foodLogModel{
		ID:         log.ID,
		UserID:     log.UserID,
		Name:       log.Name,
		Category:   log.Category,
		Calories:   log.Calories,
		CarbsG:     log.CarbsG,
		ProteinG:   log.ProteinG,
		FatG:       log.FatG,
		ConsumedAt: log.ConsumedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.FoodLog{}, fmt.Errorf("insert food log: %w", err)
	}
	return log, nil
}

// ListFoodLogsByDate returns food entries consumed on the given calendar day,
// in consumption order.
func (r *Repository) ListFoodLogsByDate(ctx context.Context, userID string, date time.Time) ([]domain.FoodLog, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var rows []foodLogModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND consumed_at >= ? AND consumed_at < ?", userID, dayStart, dayEnd).
		Order("consumed_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list food logs: %w", err)
	}
	out := make([]domain.FoodLog, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.FoodLog{
			ID:         m.ID,
			UserID:     m.UserID,
			Name:       m.Name,
			Category:   m.Category,
			Calories:   m.Calories,
			CarbsG:     m.CarbsG,
			ProteinG:   m.ProteinG,
			FatG:       m.FatG,
			ConsumedAt: m.ConsumedAt,
		})
	}
	return out, nil
}

// --- body fat records ---

// InsertBodyFatRecord stores the outcome of one body composition estimate.
func (r *Repository) InsertBodyFatRecord(ctx context.Context, rec domain.BodyFatRecord) (domain.BodyFatRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m := bodyFatRecordModel{
		ID:             rec.ID,
		UserID:         rec.UserID,
		WeightKg:       rec.WeightKg,
		HeightCm:       rec.HeightCm,
		NeckCm:         rec.NeckCm,
		WaistCm:        rec.WaistCm,
		HipCm:          rec.HipCm,
		Gender:         rec.Gender,
		BMI:            rec.BMI,
		BodyFatPercent: rec.BodyFatPercent,
		RecordedAt:     rec.RecordedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.BodyFatRecord{}, fmt.Errorf("insert body fat record: %w", err)
	}
	return rec, nil
}

// ListBodyFatRecords returns a user's body fat history newest-first.
func (r *Repository) ListBodyFatRecords(ctx context.Context, userID string) ([]domain.BodyFatRecord, error) {
	var rows []bodyFatRecordModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list body fat records: %w", err)
	}
	out := make([]domain.BodyFatRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.BodyFatRecord{
			ID:             m.ID,
			UserID:         m.UserID,
			WeightKg:       m.WeightKg,
			HeightCm:       m.HeightCm,
			NeckCm:         m.NeckCm,
			WaistCm:        m.WaistCm,
			HipCm:          m.HipCm,
			Gender:         m.Gender,
			BMI:            m.BMI,
			BodyFatPercent: m.BodyFatPercent,
			RecordedAt:     m.RecordedAt,
		})
	}
	return out, nil
}

// --- breath hold and cardio ---

// InsertBreathHold stores one breath-hold attempt.
func (r *Repository) InsertBreathHold(ctx context.Context, rec domain.BreathHoldRecord) (domain.BreathHoldRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m := breathHoldModel{
		ID:              rec.ID,
		UserID:          rec.UserID,
		DurationSeconds: rec.DurationSeconds,
		Date:            rec.Date,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.BreathHoldRecord{}, fmt.Errorf("insert breath hold: %w", err)
	}
	return rec, nil
}

// ListBreathHoldsSince returns breath-hold attempts at or after since,
// oldest-first.
func (r *Repository) ListBreathHoldsSince(ctx context.Context, userID string, since time.Time) ([]domain.BreathHoldRecord, error) {
	var rows []breathHoldModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list breath holds: %w", err)
	}
	out := make([]domain.BreathHoldRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.BreathHoldRecord{
			ID:              m.ID,
			UserID:          m.UserID,
			DurationSeconds: m.DurationSeconds,
			Date:            m.Date,
		})
	}
	return out, nil
}

// InsertCardioSet stores one completed cardio set.
func (r *Repository) InsertCardioSet(ctx context.Context, rec domain.CardioSet) (domain.CardioSet, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m := cardioSetModel{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Exercise:    rec.Exercise,
		SetNumber:   rec.SetNumber,
		CompletedAt: rec.CompletedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.CardioSet{}, fmt.Errorf("insert cardio set: %w", err)
	}
	return rec, nil
}

// ListCardioSetsSince returns cardio sets completed at or after since,
// oldest-first.
func (r *Repository) ListCardioSetsSince(ctx context.Context, userID string, since time.Time) ([]domain.CardioSet, error) {
	var rows []cardioSetModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed_at >= ?", userID, since).
		Order("completed_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list cardio sets: %w", err)
	}
	out := make([]domain.CardioSet, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.CardioSet{
			ID:          m.ID,
			UserID:      m.UserID,
			Exercise:    m.Exercise,
			SetNumber:   m.SetNumber,
			CompletedAt: m.CompletedAt,
		})
	}
	return out, nil
}

// --- health scores ---

// InsertHealthScore stores a wellbeing score snapshot.
func (r *Repository) InsertHealthScore(ctx context.Context, rec domain.HealthScore) (domain.HealthScore, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m := healthScoreModel{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Score:     rec.Score,
		Level:     rec.Level,
		Tip:       rec.Tip,
		Timestamp: rec.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.HealthScore{}, fmt.Errorf("insert health score: %w", err)
	}
	return rec, nil
}

// ListHealthScores returns a user's score snapshots newest-first.
func (r *Repository) ListHealthScores(ctx context.Context, userID string, limit int) ([]domain.HealthScore, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []healthScoreModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list health scores: %w", err)
	}
	out := make([]domain.HealthScore, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.HealthScore{
			ID:        m.ID,
			UserID:    m.UserID,
			Score:     m.Score,
			Level:     m.Level,
			Tip:       m.Tip,
			Timestamp: m.Timestamp,
		})
	}
	return out, nil
}

// --- conversions ---

func toDomainUser(m userModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainSleepLog(m sleepLogModel) domain.SleepLog {
	return domain.SleepLog{
		ID:            m.ID,
		UserID:        m.UserID,
		SleepDate:     m.SleepDate,
		SleepStart:    m.SleepStart,
		SleepEnd:      m.SleepEnd,
		DurationHours: m.DurationHours,
		Quality:       m.Quality,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

func toDomainWaterRecord(m waterRecordModel) (domain.WaterRecord, error) {
	date, err := time.Parse(dateLayout, m.Date)
	if err != nil {
		return domain.WaterRecord{}, fmt.Errorf("parse water record date: %w", err)
	}
	return domain.WaterRecord{
		ID:            m.ID,
		UserID:        m.UserID,
		Date:          date,
		TotalIntakeMl: m.TotalIntakeMl,
		GoalAchieved:  m.GoalAchieved,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}
