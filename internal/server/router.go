package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayusharma/vitaltrack/internal/auth"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health           HealthService
	API              *APIHandlers
	Tokens           *auth.TokenManager
	AllowedOrigins   []string
	AllowCredentials bool
}

// NewRouter wires the HTTP routes exposed by the backend API.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{
			"status": "ok",
		}

		if deps.Health != nil {
			if err := deps.Health.Probe(ctx); err != nil {
				logger.Error("health probe failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}

		respondJSON(w, status, payload)
	})

	if h := deps.API; h != nil {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(protected chi.Router) {
			protected.Use(requireAuth(deps.Tokens))

			protected.Get("/me", h.handleCurrentUser)
			protected.Put("/profile", h.handleSaveProfile)
			protected.Get("/profile", h.handleGetProfile)
			protected.Get("/macros", h.handleMacroTargets)

			protected.Post("/body-fat", h.handleCalculateBodyFat)
			protected.Get("/body-fat", h.handleBodyFatHistory)

			protected.Post("/sleep", h.handleLogSleep)
			protected.Get("/sleep", h.handleSleepHistory)
			protected.Get("/sleep/summary", h.handleSleepSummary)

			protected.Post("/water", h.handleRecordWater)
			protected.Get("/water", h.handleWaterStatus)
			protected.Get("/water/week", h.handleWaterWeek)

			protected.Post("/foods", h.handleLogFood)
			protected.Get("/foods", h.handleFoodsByDate)

			protected.Post("/insights/meal", h.handleMealInsight)
			protected.Post("/insights/absorption", h.handleAbsorptionStatus)
			protected.Get("/insights/daily", h.handleDailyInsights)

			protected.Post("/breath-holds", h.handleLogBreathHold)
			protected.Get("/breath-holds/trends", h.handleBreathHoldTrends)

			protected.Post("/cardio", h.handleLogCardioSet)
			protected.Get("/cardio/progress", h.handleCardioProgress)
			protected.Get("/analytics/overview", h.handleAnalyticsOverview)

			protected.Post("/health-scores", h.handleSaveHealthScore)
			protected.Get("/health-scores", h.handleHealthScoreHistory)
		})
	}

	handler := http.Handler(loggingMiddleware(logger, r))
	if len(deps.AllowedOrigins) > 0 {
		handler = corsMiddleware(deps.AllowedOrigins, deps.AllowCredentials)(handler)
	}
	return handler
}

// requireAuth verifies the bearer token and stores the user ID on the request
// context.
func requireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			userID, err := tokens.Verify(strings.TrimSpace(header[7:]))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func corsMiddleware(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	normalized := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		normalized[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || (!containsOrigin(normalized, origin) && !containsOrigin(normalized, "*")) {
				if r.Method == http.MethodOptions {
					// Reject bare pre-flight if origin is not whitelisted.
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if allowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func containsOrigin(set map[string]struct{}, origin string) bool {
	_, ok := set[origin]
	return ok
}
