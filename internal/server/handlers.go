package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusharma/vitaltrack/internal/auth"
	"github.com/ayusharma/vitaltrack/internal/domain"
	"github.com/ayusharma/vitaltrack/internal/metrics"
	"github.com/ayusharma/vitaltrack/internal/repository"
	"github.com/ayusharma/vitaltrack/internal/service"
)

const dateLayout = "2006-01-02"

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger    *slog.Logger
	accounts  *service.AccountService
	tracker   *service.TrackerService
	insights  *service.InsightService
	analytics *service.AnalyticsService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, accounts *service.AccountService, tracker *service.TrackerService, insights *service.InsightService, analytics *service.AnalyticsService) *APIHandlers {
	return &APIHandlers{
		logger:    logger,
		accounts:  accounts,
		tracker:   tracker,
		insights:  insights,
		analytics: analytics,
	}
}

// --- auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *APIHandlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	session, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to register")
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *APIHandlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	session, err := h.accounts.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.writeServiceError(w, err, "failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *APIHandlers) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.accounts.CurrentUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to load account")
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// --- profile ---

type profileRequest struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	HeightCm       float64 `json:"heightCm"`
	WeightKg       float64 `json:"weightKg"`
	ActivityLevel  string  `json:"activityLevel"`
	SleepHours     string  `json:"sleepHours"`
	DietPreference string  `json:"dietPreference"`
	Goal           string  `json:"goal"`
	StressLevel    string  `json:"stressLevel"`
}

type profileResponse struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	HeightCm       float64 `json:"heightCm"`
	WeightKg       float64 `json:"weightKg"`
	ActivityLevel  string  `json:"activityLevel"`
	SleepHours     string  `json:"sleepHours,omitempty"`
	DietPreference string  `json:"dietPreference,omitempty"`
	Goal           string  `json:"goal,omitempty"`
	StressLevel    string  `json:"stressLevel,omitempty"`
	UpdatedAt      string  `json:"updatedAt,omitempty"`
}

func (h *APIHandlers) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload profileRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	profile, err := h.tracker.SaveProfile(r.Context(), userID, service.ProfileInput{
		Name:           payload.Name,
		Age:            payload.Age,
		Gender:         payload.Gender,
		HeightCm:       payload.HeightCm,
		WeightKg:       payload.WeightKg,
		ActivityLevel:  payload.ActivityLevel,
		SleepHours:     payload.SleepHours,
		DietPreference: payload.DietPreference,
		Goal:           payload.Goal,
		StressLevel:    payload.StressLevel,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to save profile")
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *APIHandlers) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	profile, err := h.tracker.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

type macroResponse struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	CaloriesTarget int     `json:"caloriesTarget"`
	CarbsGrams     int     `json:"carbsGrams"`
	ProteinGrams   int     `json:"proteinGrams"`
	FatGrams       int     `json:"fatGrams"`
}

func (h *APIHandlers) handleMacroTargets(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	budget, err := h.tracker.MacroTargets(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to compute macro targets")
		return
	}

	respondJSON(w, http.StatusOK, macroResponse{
		BMR:            budget.BMR,
		TDEE:           budget.TDEE,
		CaloriesTarget: budget.CaloriesTarget,
		CarbsGrams:     budget.CarbsGrams,
		ProteinGrams:   budget.ProteinGrams,
		FatGrams:       budget.FatGrams,
	})
}

// --- body composition ---

type bodyFatRequest struct {
	NeckCm  float64  `json:"neckCm"`
	WaistCm float64  `json:"waistCm"`
	HipCm   *float64 `json:"hipCm,omitempty"`
}

type bodyFatResponse struct {
	ID             string   `json:"id"`
	BodyFatPercent float64  `json:"bodyFatPercent"`
	BMI            float64  `json:"bmi"`
	WeightKg       float64  `json:"weightKg"`
	HeightCm       float64  `json:"heightCm"`
	NeckCm         float64  `json:"neckCm"`
	WaistCm        float64  `json:"waistCm"`
	HipCm          *float64 `json:"hipCm,omitempty"`
	Gender         string   `json:"gender"`
	RecordedAt     string   `json:"recordedAt"`
}

func (h *APIHandlers) handleCalculateBodyFat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload bodyFatRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	rec, err := h.tracker.CalculateBodyFat(r.Context(), userID, service.BodyFatInput{
		NeckCm:  payload.NeckCm,
		WaistCm: payload.WaistCm,
		HipCm:   payload.HipCm,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to calculate body fat")
		return
	}

	respondJSON(w, http.StatusCreated, toBodyFatResponse(rec))
}

func (h *APIHandlers) handleBodyFatHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	records, err := h.tracker.BodyFatHistory(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to load body fat history")
		return
	}

	out := make([]bodyFatResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toBodyFatResponse(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"records": out})
}

// --- sleep ---

type sleepRequest struct {
	SleepStart string `json:"sleepStart"`
	SleepEnd   string `json:"sleepEnd"`
	Notes      string `json:"notes,omitempty"`
}

type sleepLogResponse struct {
	ID            string  `json:"id"`
	SleepDate     string  `json:"sleepDate"`
	SleepStart    string  `json:"sleepStart"`
	SleepEnd      string  `json:"sleepEnd"`
	DurationHours float64 `json:"durationHours"`
	Quality       string  `json:"quality"`
	Notes         string  `json:"notes,omitempty"`
}

func (h *APIHandlers) handleLogSleep(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload sleepRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	start, err := time.Parse(time.RFC3339, payload.SleepStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sleepStart")
		return
	}
	end, err := time.Parse(time.RFC3339, payload.SleepEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sleepEnd")
		return
	}

	log, err := h.tracker.LogSleep(r.Context(), userID, service.SleepInput{
		Start: start,
		End:   end,
		Notes: payload.Notes,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to log sleep")
		return
	}

	respondJSON(w, http.StatusCreated, toSleepLogResponse(log))
}

func (h *APIHandlers) handleSleepHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), 30)
	logs, err := h.tracker.SleepHistory(r.Context(), userID, limit)
	if err != nil {
		h.writeServiceError(w, err, "failed to load sleep history")
		return
	}

	out := make([]sleepLogResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, toSleepLogResponse(log))
	}
	respondJSON(w, http.StatusOK, map[string]any{"logs": out})
}

func (h *APIHandlers) handleSleepSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	summary, err := h.tracker.WeeklySleepSummary(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to summarize sleep")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"days":          summary.Days,
		"averageHours":  summary.AverageHours,
		"qualityCounts": summary.QualityCounts,
	})
}

// --- water ---

type waterRequest struct {
	AmountMl int    `json:"amountMl"`
	Date     string `json:"date,omitempty"`
}

type waterStatusResponse struct {
	Date          string `json:"date"`
	TotalIntakeMl int    `json:"totalIntakeMl"`
	GoalMl        int    `json:"goalMl"`
	GoalAchieved  bool   `json:"goalAchieved"`
	Percent       int    `json:"percent"`
}

func (h *APIHandlers) handleRecordWater(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload waterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	status, err := h.tracker.RecordWater(r.Context(), userID, payload.AmountMl, date)
	if err != nil {
		h.writeServiceError(w, err, "failed to record water intake")
		return
	}

	respondJSON(w, http.StatusOK, toWaterStatusResponse(status))
}

func (h *APIHandlers) handleWaterStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	status, err := h.tracker.WaterStatusFor(r.Context(), userID, date)
	if err != nil {
		h.writeServiceError(w, err, "failed to load water status")
		return
	}

	respondJSON(w, http.StatusOK, toWaterStatusResponse(status))
}

func (h *APIHandlers) handleWaterWeek(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	statuses, err := h.tracker.WaterWeek(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to load water history")
		return
	}

	out := make([]waterStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, toWaterStatusResponse(status))
	}
	respondJSON(w, http.StatusOK, map[string]any{"days": out})
}

// --- food ---

type foodRequest struct {
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	Calories   float64 `json:"calories"`
	CarbsG     float64 `json:"carbsG"`
	ProteinG   float64 `json:"proteinG"`
	FatG       float64 `json:"fatG"`
	ConsumedAt string  `json:"consumedAt,omitempty"`
}

type foodResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	Calories   float64 `json:"calories"`
	CarbsG     float64 `json:"carbsG"`
	ProteinG   float64 `json:"proteinG"`
	FatG       float64 `json:"fatG"`
	ConsumedAt string  `json:"consumedAt"`
}

func (h *APIHandlers) handleLogFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload foodRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	consumedAt, err := parseTime(payload.ConsumedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid consumedAt")
		return
	}

	log, err := h.tracker.LogFood(r.Context(), userID, service.FoodInput{
		Name:       payload.Name,
		Category:   payload.Category,
		Calories:   payload.Calories,
		CarbsG:     payload.CarbsG,
		ProteinG:   payload.ProteinG,
		FatG:       payload.FatG,
		ConsumedAt: consumedAt,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to log food")
		return
	}

	respondJSON(w, http.StatusCreated, toFoodResponse(log))
}

func (h *APIHandlers) handleFoodsByDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	logs, err := h.tracker.FoodsByDate(r.Context(), userID, date)
	if err != nil {
		h.writeServiceError(w, err, "failed to load food logs")
		return
	}

	out := make([]foodResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, toFoodResponse(log))
	}
	respondJSON(w, http.StatusOK, map[string]any{"foods": out})
}

// --- insights ---

type mealRequest struct {
	CarbsG     float64 `json:"carbsG"`
	ProteinG   float64 `json:"proteinG"`
	FatG       float64 `json:"fatG"`
	ConsumedAt string  `json:"consumedAt,omitempty"`
}

func (req mealRequest) toMacros() (metrics.MealMacros, error) {
	consumedAt, err := parseTime(req.ConsumedAt)
	if err != nil {
		return metrics.MealMacros{}, err
	}
	return metrics.MealMacros{
		CarbsG:     req.CarbsG,
		ProteinG:   req.ProteinG,
		FatG:       req.FatG,
		ConsumedAt: consumedAt,
	}, nil
}

type nutrientWindowResponse struct {
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	DurationHours float64 `json:"durationHours"`
	AmountGrams   float64 `json:"amountGrams"`
}

type energyPointResponse struct {
	TimeOffsetHours float64 `json:"timeOffsetHours"`
	EnergyKcal      float64 `json:"energyKcal"`
	Source          string  `json:"source"`
}

type mealInsightResponse struct {
	Digestion struct {
		Nutrients  map[string]nutrientWindowResponse `json:"nutrients"`
		TotalHours float64                           `json:"totalHours"`
	} `json:"digestion"`
	Satiety struct {
		Score           float64  `json:"score"`
		DurationHours   float64  `json:"durationHours"`
		NextMealTime    string   `json:"nextMealTime"`
		Recommendations []string `json:"recommendations"`
	} `json:"satiety"`
	EnergyCurve []energyPointResponse `json:"energyCurve"`
}

func (h *APIHandlers) handleMealInsight(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload mealRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	meal, err := payload.toMacros()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid consumedAt")
		return
	}

	insight := h.insights.AnalyzeMeal(meal)

	var resp mealInsightResponse
	resp.Digestion.Nutrients = make(map[string]nutrientWindowResponse, len(insight.Digestion.Nutrients))
	for nutrient, window := range insight.Digestion.Nutrients {
		resp.Digestion.Nutrients[string(nutrient)] = nutrientWindowResponse{
			StartTime:     formatTime(window.StartTime),
			EndTime:       formatTime(window.EndTime),
			DurationHours: window.DurationHours,
			AmountGrams:   window.AmountGrams,
		}
	}
	resp.Digestion.TotalHours = insight.Digestion.TotalHours
	resp.Satiety.Score = insight.Satiety.Score
	resp.Satiety.DurationHours = insight.Satiety.DurationHours
	resp.Satiety.NextMealTime = formatTime(insight.Satiety.NextMealTime)
	resp.Satiety.Recommendations = insight.Satiety.Recommendations
	resp.EnergyCurve = make([]energyPointResponse, 0, len(insight.EnergyCurve))
	for _, point := range insight.EnergyCurve {
		resp.EnergyCurve = append(resp.EnergyCurve, energyPointResponse{
			TimeOffsetHours: point.TimeOffsetHours,
			EnergyKcal:      point.EnergyKcal,
			Source:          string(point.Source),
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleAbsorptionStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload mealRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payload.ConsumedAt == "" {
		writeError(w, http.StatusBadRequest, "consumedAt is required")
		return
	}
	meal, err := payload.toMacros()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid consumedAt")
		return
	}

	status := h.insights.AbsorptionNow(meal)
	respondJSON(w, http.StatusOK, map[string]any{
		"percentage":         status.Percentage,
		"status":             status.Status,
		"timeRemainingHours": status.TimeRemainingHours,
	})
}

type lateMealResponse struct {
	Name           string  `json:"name"`
	ConsumedAt     string  `json:"consumedAt"`
	DigestionHours float64 `json:"digestionHours"`
}

func (h *APIHandlers) handleDailyInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	insights, err := h.insights.DailyMealInsights(r.Context(), userID, date)
	if err != nil {
		h.writeServiceError(w, err, "failed to compute daily insights")
		return
	}

	lateMeals := make([]lateMealResponse, 0, len(insights.LateMeals))
	for _, meal := range insights.LateMeals {
		lateMeals = append(lateMeals, lateMealResponse{
			Name:           meal.Name,
			ConsumedAt:     formatTime(meal.ConsumedAt),
			DigestionHours: meal.DigestionHours,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":  insights.Date.Format(dateLayout),
		"meals": insights.Meals,
		"balance": map[string]any{
			"totalKcal":       insights.Balance.TotalKcal,
			"carbsG":          insights.Balance.CarbsG,
			"proteinG":        insights.Balance.ProteinG,
			"fatG":            insights.Balance.FatG,
			"carbsPercent":    insights.Balance.CarbsPercent,
			"proteinPercent":  insights.Balance.ProteinPercent,
			"fatPercent":      insights.Balance.FatPercent,
			"recommendations": insights.Balance.Recommendations,
		},
		"lateMeals": lateMeals,
	})
}

// --- breath hold, cardio, analytics ---

type breathHoldRequest struct {
	DurationSeconds float64 `json:"durationSeconds"`
	Date            string  `json:"date,omitempty"`
}

func (h *APIHandlers) handleLogBreathHold(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload breathHoldRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	date, err := parseTime(payload.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	rec, err := h.tracker.LogBreathHold(r.Context(), userID, payload.DurationSeconds, date)
	if err != nil {
		h.writeServiceError(w, err, "failed to log breath hold")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":              rec.ID,
		"durationSeconds": rec.DurationSeconds,
		"date":            formatTime(rec.Date),
	})
}

func (h *APIHandlers) handleBreathHoldTrends(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	trends, err := h.analytics.BreathHoldTrends(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to compute breath hold trends")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"attempts":            trends.Attempts,
		"personalBestSeconds": trends.PersonalBestSeconds,
		"latestSeconds":       trends.LatestSeconds,
		"durations":           trends.Durations,
		"weeklyAverage":       trends.WeeklyAverage,
		"biweeklyAverage":     trends.BiweeklyAverage,
	})
}

type cardioRequest struct {
	Exercise    string `json:"exercise"`
	SetNumber   int    `json:"setNumber"`
	CompletedAt string `json:"completedAt,omitempty"`
}

func (h *APIHandlers) handleLogCardioSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload cardioRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	completedAt, err := parseTime(payload.CompletedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid completedAt")
		return
	}

	rec, err := h.tracker.LogCardioSet(r.Context(), userID, payload.Exercise, payload.SetNumber, completedAt)
	if err != nil {
		h.writeServiceError(w, err, "failed to log cardio set")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":          rec.ID,
		"exercise":    rec.Exercise,
		"setNumber":   rec.SetNumber,
		"completedAt": formatTime(rec.CompletedAt),
	})
}

func (h *APIHandlers) handleCardioProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	progress, err := h.analytics.CardioProgress(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to compute cardio progress")
		return
	}

	days := make([]map[string]any, 0, len(progress.Days))
	for _, day := range progress.Days {
		days = append(days, map[string]any{
			"date": day.Date.Format(dateLayout),
			"sets": day.Sets,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"totalSets": progress.TotalSets,
		"days":      days,
		"trend":     progress.Trend,
	})
}

func (h *APIHandlers) handleAnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	overview, err := h.analytics.Overview(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to compute analytics overview")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"days":        overview.Days,
		"coefficient": overview.Coefficient,
		"strength":    overview.Strength,
		"direction":   overview.Direction,
	})
}

// --- health scores ---

type healthScoreRequest struct {
	Score float64 `json:"score"`
	Level string  `json:"level,omitempty"`
	Tip   string  `json:"tip,omitempty"`
}

func (h *APIHandlers) handleSaveHealthScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var payload healthScoreRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	rec, err := h.tracker.SaveHealthScore(r.Context(), userID, payload.Score, payload.Level, payload.Tip)
	if err != nil {
		h.writeServiceError(w, err, "failed to save health score")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":        rec.ID,
		"score":     rec.Score,
		"level":     rec.Level,
		"tip":       rec.Tip,
		"timestamp": formatTime(rec.Timestamp),
	})
}

func (h *APIHandlers) handleHealthScoreHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), 30)
	records, err := h.tracker.HealthScoreHistory(r.Context(), userID, limit)
	if err != nil {
		h.writeServiceError(w, err, "failed to load health scores")
		return
	}

	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, map[string]any{
			"id":        rec.ID,
			"score":     rec.Score,
			"level":     rec.Level,
			"tip":       rec.Tip,
			"timestamp": formatTime(rec.Timestamp),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"scores": out})
}

// --- response conversion ---

func toSessionResponse(session service.Session) sessionResponse {
	return sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	}
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: formatTime(user.CreatedAt),
	}
}

func toProfileResponse(profile domain.HealthProfile) profileResponse {
	return profileResponse{
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
		UpdatedAt:      formatTime(profile.UpdatedAt),
	}
}

func toBodyFatResponse(rec domain.BodyFatRecord) bodyFatResponse {
	return bodyFatResponse{
		ID:             rec.ID,
		BodyFatPercent: rec.BodyFatPercent,
		BMI:            rec.BMI,
		WeightKg:       rec.WeightKg,
		HeightCm:       rec.HeightCm,
		NeckCm:         rec.NeckCm,
		WaistCm:        rec.WaistCm,
		HipCm:          rec.HipCm,
		Gender:         rec.Gender,
		RecordedAt:     formatTime(rec.RecordedAt),
	}
}

func toSleepLogResponse(log domain.SleepLog) sleepLogResponse {
	return sleepLogResponse{
		ID:            log.ID,
		SleepDate:     log.SleepDate.Format(dateLayout),
		SleepStart:    formatTime(log.SleepStart),
		SleepEnd:      formatTime(log.SleepEnd),
		DurationHours: log.DurationHours,
		Quality:       log.Quality,
		Notes:         log.Notes,
	}
}

func toWaterStatusResponse(status service.WaterStatus) waterStatusResponse {
	return waterStatusResponse{
		Date:          status.Record.Date.Format(dateLayout),
		TotalIntakeMl: status.Record.TotalIntakeMl,
		GoalMl:        status.GoalMl,
		GoalAchieved:  status.Record.GoalAchieved,
		Percent:       status.Percent,
	}
}

func toFoodResponse(log domain.FoodLog) foodResponse {
	return foodResponse{
		ID:         log.ID,
		Name:       log.Name,
		Category:   log.Category,
		Calories:   log.Calories,
		CarbsG:     log.CarbsG,
		ProteinG:   log.ProteinG,
		FatG:       log.FatG,
		ConsumedAt: formatTime(log.ConsumedAt),
	}
}

// --- error mapping and helpers ---

func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, metrics.ErrInvalidMeasurement),
		errors.Is(err, metrics.ErrIncompleteProfile),
		errors.Is(err, metrics.ErrInvalidWeight):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

// parseTime parses an optional RFC3339 timestamp; empty means zero time.
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

// parseDate parses an optional YYYY-MM-DD date; empty means zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, value)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
