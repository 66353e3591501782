package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayusharma/vitaltrack/internal/auth"
	"github.com/ayusharma/vitaltrack/internal/domain"
	"github.com/ayusharma/vitaltrack/internal/repository"
	"github.com/ayusharma/vitaltrack/internal/service"
)

// memRepo is an in-memory stand-in for the SQLite repository.
type memRepo struct {
	users    map[string]domain.User
	profiles map[string]domain.HealthProfile
	sleep    []domain.SleepLog
	water    map[string]domain.WaterRecord
	foods    []domain.FoodLog
	bodyFat  []domain.BodyFatRecord
	holds    []domain.BreathHoldRecord
	cardio   []domain.CardioSet
	scores   []domain.HealthScore
	nextID   int
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:    map[string]domain.User{},
		profiles: map[string]domain.HealthProfile{},
		water:    map[string]domain.WaterRecord{},
	}
}

func (m *memRepo) id() string {
	m.nextID++
	return "id-" + strconv.Itoa(m.nextID)
}

func (m *memRepo) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	if user.ID == "" {
		user.ID = m.id()
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memRepo) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *memRepo) FindUserByID(ctx context.Context, id string) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *memRepo) UpsertProfile(ctx context.Context, profile domain.HealthProfile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *memRepo) FetchProfile(ctx context.Context, userID string) (domain.HealthProfile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return domain.HealthProfile{}, repository.ErrNotFound
	}
	return profile, nil
}

func (m *memRepo) InsertSleepLog(ctx context.Context, log domain.SleepLog) (domain.SleepLog, error) {
	log.ID = m.id()
	m.sleep = append(m.sleep, log)
	return log, nil
}

func (m *memRepo) ListSleepLogs(ctx context.Context, userID string, limit int) ([]domain.SleepLog, error) {
	out := append([]domain.SleepLog(nil), m.sleep...)
	sort.Slice(out, func(i, j int) bool { return out[i].SleepDate.After(out[j].SleepDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) ListSleepLogsSince(ctx context.Context, userID string, since time.Time) ([]domain.SleepLog, error) {
	var out []domain.SleepLog
	for _, log := range m.sleep {
		if !log.SleepDate.Before(since) {
			out = append(out, log)
		}
	}
	return out, nil
}

func (m *memRepo) UpsertWaterRecord(ctx context.Context, rec domain.WaterRecord) (domain.WaterRecord, error) {
	rec.ID = m.id()
	m.water[rec.UserID+rec.Date.Format("2006-01-02")] = rec
	return rec, nil
}

func (m *memRepo) FetchWaterRecord(ctx context.Context, userID string, date time.Time) (domain.WaterRecord, error) {
	rec, ok := m.water[userID+date.Format("2006-01-02")]
	if !ok {
		return domain.WaterRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (m *memRepo) ListWaterRecordsSince(ctx context.Context, userID string, since time.Time) ([]domain.WaterRecord, error) {
	var out []domain.WaterRecord
	for _, rec := range m.water {
		if rec.UserID == userID && !rec.Date.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRepo) InsertFoodLog(ctx context.Context, log domain.FoodLog) (domain.FoodLog, error) {
	log.ID = m.id()
	m.foods = append(m.foods, log)
	return log, nil
}

func (m *memRepo) ListFoodLogsByDate(ctx context.Context, userID string, date time.Time) ([]domain.FoodLog, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	var out []domain.FoodLog
	for _, log := range m.foods {
		if log.UserID == userID && !log.ConsumedAt.Before(dayStart) && log.ConsumedAt.Before(dayEnd) {
			out = append(out, log)
		}
	}
	return out, nil
}

func (m *memRepo) InsertBodyFatRecord(ctx context.Context, rec domain.BodyFatRecord) (domain.BodyFatRecord, error) {
	rec.ID = m.id()
	m.bodyFat = append(m.bodyFat, rec)
	return rec, nil
}

func (m *memRepo) ListBodyFatRecords(ctx context.Context, userID string) ([]domain.BodyFatRecord, error) {
	return append([]domain.BodyFatRecord(nil), m.bodyFat...), nil
}

func (m *memRepo) InsertBreathHold(ctx context.Context, rec domain.BreathHoldRecord) (domain.BreathHoldRecord, error) {
	rec.ID = m.id()
	m.holds = append(m.holds, rec)
	return rec, nil
}

func (m *memRepo) ListBreathHoldsSince(ctx context.Context, userID string, since time.Time) ([]domain.BreathHoldRecord, error) {
	var out []domain.BreathHoldRecord
	for _, rec := range m.holds {
		if rec.UserID == userID && !rec.Date.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRepo) InsertCardioSet(ctx context.Context, rec domain.CardioSet) (domain.CardioSet, error) {
	rec.ID = m.id()
	m.cardio = append(m.cardio, rec)
	return rec, nil
}

func (m *memRepo) ListCardioSetsSince(ctx context.Context, userID string, since time.Time) ([]domain.CardioSet, error) {
	var out []domain.CardioSet
	for _, rec := range m.cardio {
		if rec.UserID == userID && !rec.CompletedAt.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRepo) InsertHealthScore(ctx context.Context, rec domain.HealthScore) (domain.HealthScore, error) {
	rec.ID = m.id()
	m.scores = append(m.scores, rec)
	return rec, nil
}

func (m *memRepo) ListHealthScores(ctx context.Context, userID string, limit int) ([]domain.HealthScore, error) {
	return append([]domain.HealthScore(nil), m.scores...), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemRepo()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	accounts := service.NewAccountService(repo, tokens, bcrypt.MinCost)
	tracker := service.NewTrackerService(repo)
	insights := service.NewInsightService(repo)
	analytics := service.NewAnalyticsService(repo)

	api := NewAPIHandlers(logger, accounts, tracker, insights, analytics)
	return NewRouter(logger, RouterDependencies{API: api, Tokens: tokens})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func registerTestUser(t *testing.T, router http.Handler) string {
	t.Helper()
	rec, body := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %v", rec.Code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected token in register response")
	}
	return token
}

func saveTestProfile(t *testing.T, router http.Handler, token string) {
	t.Helper()
	rec, body := doJSON(t, router, http.MethodPut, "/profile", token, map[string]any{
		"name":          "Asha",
		"age":           30,
		"gender":        "female",
		"heightCm":      165,
		"weightKg":      60,
		"activityLevel": "moderately active",
		"goal":          "maintain weight",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save profile status = %d, body %v", rec.Code, body)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %v", body["status"])
	}
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)
	registerTestUser(t, router)

	rec, body := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "asha@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %v", rec.Code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected token in login response")
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "asha@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}

	rec, body = doJSON(t, router, http.MethodGet, "/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	if body["email"] != "asha@example.com" {
		t.Fatalf("me email = %v", body["email"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/profile", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/profile", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}
}

func TestProfileLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	rec, _ := doJSON(t, router, http.MethodGet, "/profile", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing profile status = %d, want 404", rec.Code)
	}

	saveTestProfile(t, router, token)

	rec, body := doJSON(t, router, http.MethodGet, "/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile status = %d", rec.Code)
	}
	if body["gender"] != "female" || body["weightKg"] != 60.0 {
		t.Fatalf("profile body = %v", body)
	}

	rec, _ = doJSON(t, router, http.MethodPut, "/profile", token, map[string]any{
		"age": 30, "gender": "beast", "heightCm": 165, "weightKg": 60,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad gender status = %d, want 400", rec.Code)
	}
}

func TestMacroTargets(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	rec, _ := doJSON(t, router, http.MethodGet, "/macros", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("macros without profile status = %d, want 404", rec.Code)
	}

	saveTestProfile(t, router, token)

	rec, body := doJSON(t, router, http.MethodGet, "/macros", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("macros status = %d, body %v", rec.Code, body)
	}
	// Female, 30y, 165cm, 60kg: BMR 1320.25, moderately active TDEE 2046.39.
	if body["caloriesTarget"] != 2046.0 {
		t.Fatalf("caloriesTarget = %v, want 2046", body["caloriesTarget"])
	}
	if body["carbsGrams"] != 256.0 {
		t.Fatalf("carbsGrams = %v, want 256", body["carbsGrams"])
	}
}

func TestSleepEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	rec, body := doJSON(t, router, http.MethodPost, "/sleep", token, map[string]any{
		"sleepStart": "2024-03-10T22:00:00Z",
		"sleepEnd":   "2024-03-10T06:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("log sleep status = %d, body %v", rec.Code, body)
	}
	if body["durationHours"] != 8.0 {
		t.Fatalf("durationHours = %v, want 8", body["durationHours"])
	}
	if body["quality"] != "Excellent" {
		t.Fatalf("quality = %v", body["quality"])
	}
	if body["sleepDate"] != "2024-03-11" {
		t.Fatalf("sleepDate = %v", body["sleepDate"])
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/sleep", token, map[string]any{
		"sleepStart": "yesterday evening",
		"sleepEnd":   "2024-03-10T06:00:00Z",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad timestamp status = %d, want 400", rec.Code)
	}

	rec, body = doJSON(t, router, http.MethodGet, "/sleep", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	logs, _ := body["logs"].([]any)
	if len(logs) != 1 {
		t.Fatalf("logs = %v", body["logs"])
	}
}

func TestWaterEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/water", token, map[string]any{"amountMl": 500})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("water without profile status = %d, want 404", rec.Code)
	}

	saveTestProfile(t, router, token)

	rec, body := doJSON(t, router, http.MethodPost, "/water", token, map[string]any{
		"amountMl": 2100,
		"date":     "2024-03-10",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("record water status = %d, body %v", rec.Code, body)
	}
	if body["goalMl"] != 2100.0 {
		t.Fatalf("goalMl = %v, want 2100", body["goalMl"])
	}
	if body["goalAchieved"] != true {
		t.Fatalf("goalAchieved = %v", body["goalAchieved"])
	}
	if body["percent"] != 100.0 {
		t.Fatalf("percent = %v, want 100", body["percent"])
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/water", token, map[string]any{"amountMl": -5})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative amount status = %d, want 400", rec.Code)
	}
}

func TestBodyFatEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)
	saveTestProfile(t, router, token)

	// Female estimate requires the hip measurement.
	rec, _ := doJSON(t, router, http.MethodPost, "/body-fat", token, map[string]any{
		"neckCm": 34, "waistCm": 64,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing hip status = %d, want 400", rec.Code)
	}

	rec, body := doJSON(t, router, http.MethodPost, "/body-fat", token, map[string]any{
		"neckCm": 34, "waistCm": 64, "hipCm": 88,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("body fat status = %d, body %v", rec.Code, body)
	}
	pct, _ := body["bodyFatPercent"].(float64)
	if pct <= 0 || pct > 50 {
		t.Fatalf("bodyFatPercent = %v", body["bodyFatPercent"])
	}

	rec, body = doJSON(t, router, http.MethodGet, "/body-fat", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	records, _ := body["records"].([]any)
	if len(records) != 1 {
		t.Fatalf("records = %v", body["records"])
	}
}

func TestMealInsightEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	rec, body := doJSON(t, router, http.MethodPost, "/insights/meal", token, map[string]any{
		"carbsG": 50, "proteinG": 20, "fatG": 10,
		"consumedAt": "2024-03-10T12:00:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("meal insight status = %d, body %v", rec.Code, body)
	}
	digestion, _ := body["digestion"].(map[string]any)
	if digestion == nil {
		t.Fatalf("body = %v", body)
	}
	nutrients, _ := digestion["nutrients"].(map[string]any)
	if _, ok := nutrients["carbs"]; !ok {
		t.Fatalf("nutrients = %v", nutrients)
	}
	curve, _ := body["energyCurve"].([]any)
	if len(curve) != 6 {
		t.Fatalf("energyCurve has %d points, want 6", len(curve))
	}
}

func TestAbsorptionEndpointRequiresConsumedAt(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/insights/absorption", token, map[string]any{
		"carbsG": 50,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing consumedAt status = %d, want 400", rec.Code)
	}
}

func TestBreathHoldAndTrends(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	now := time.Now().UTC()
	for i, dur := range []float64{40, 45, 50} {
		rec, body := doJSON(t, router, http.MethodPost, "/breath-holds", token, map[string]any{
			"durationSeconds": dur,
			"date":            now.AddDate(0, 0, i-4).Format(time.RFC3339),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("log breath hold status = %d, body %v", rec.Code, body)
		}
	}

	rec, body := doJSON(t, router, http.MethodGet, "/breath-holds/trends", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trends status = %d", rec.Code)
	}
	if body["attempts"] != 3.0 {
		t.Fatalf("attempts = %v, want 3", body["attempts"])
	}
	if body["personalBestSeconds"] != 50.0 {
		t.Fatalf("personalBestSeconds = %v, want 50", body["personalBestSeconds"])
	}
}

func TestHealthScoreEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/health-scores", token, map[string]any{
		"score": 120,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range score status = %d, want 400", rec.Code)
	}

	rec, body := doJSON(t, router, http.MethodPost, "/health-scores", token, map[string]any{
		"score": 74, "level": "Good", "tip": "keep it up",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save score status = %d, body %v", rec.Code, body)
	}

	rec, body = doJSON(t, router, http.MethodGet, "/health-scores", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	scores, _ := body["scores"].([]any)
	if len(scores) != 1 {
		t.Fatalf("scores = %v", body["scores"])
	}
}
