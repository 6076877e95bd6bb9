package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/stepperapp/stepper-insights/internal/adapters/handler/http"
	"github.com/stepperapp/stepper-insights/internal/adapters/repository"
	"github.com/stepperapp/stepper-insights/internal/core/services"
	"github.com/stepperapp/stepper-insights/internal/core/workers"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		envOr("DB_USER", "stepper_user"),
		envOr("DB_PASSWORD", "secret"),
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_NAME", "stepper_db"),
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Database connection failed (skipping end-to-end test): %v", err)
	}
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestRouter(t *testing.T, db *sqlx.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stepRepo := repository.NewPostgresStepRepository(db)
	userRepo := repository.NewPostgresUserRepository(db.DB)

	worker := workers.NewStreakWorker(userRepo, stepRepo)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService("e2e-secret", "stepper-e2e", 1*time.Hour, userRepo)
	stepService := services.NewStepService(stepRepo, worker)
	chartService := services.NewChartService(stepRepo)
	sessionService := services.NewChartSessionService(chartService)
	streakService := services.NewStreakService(stepRepo)

	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authService, tokenService),
		StepsHandler:   adapterHTTP.NewStepsHandler(stepService),
		ChartHandler:   adapterHTTP.NewChartHandler(chartService, sessionService),
		ProfileHandler: adapterHTTP.NewProfileHandler(streakService),
		TokenService:   tokenService,
		DB:             db,
		StartTime:      time.Now(),
	})
}

func request(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_StepsAndCharts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Exec("TRUNCATE TABLE daily_steps, users CASCADE")
	require.NoError(t, err, "Failed to truncate tables")

	router := setupTestRouter(t, db)

	var token string

	t.Run("1. Register And Login", func(t *testing.T) {
		w := request(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"email":        "e2e@stepper.app",
			"password":     "super_secret",
			"display_name": "E2E Walker",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = request(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "e2e@stepper.app",
			"password": "super_secret",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
		token = resp.Token
	})

	t.Run("2. Reject Anonymous Access", func(t *testing.T) {
		w := request(t, router, http.MethodGet, "/api/v1/charts", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("3. Log A Week Of Steps", func(t *testing.T) {
		require.NotEmpty(t, token, "Login step failed")

		today := time.Now().UTC()
		for i := 0; i < 5; i++ {
			day := today.AddDate(0, 0, -i).Format("2006-01-02")
			w := request(t, router, http.MethodPost, "/api/v1/steps", token, gin.H{
				"date":            day,
				"step_count":      5000 + i*1000,
				"distance_meters": 3500.0,
			})
			require.Equal(t, http.StatusCreated, w.Code)
		}
	})

	t.Run("4. Daily Chart Aggregates The Window", func(t *testing.T) {
		require.NotEmpty(t, token, "Login step failed")

		w := request(t, router, http.MethodGet, "/api/v1/charts?view=daily&offset=0", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view struct {
			Data []struct {
				Value int `json:"value"`
			} `json:"data"`
			Stats struct {
				Total int `json:"total"`
			} `json:"stats"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.Len(t, view.Data, 7)
		assert.Equal(t, 5000+6000+7000+8000+9000, view.Stats.Total)
	})

	t.Run("5. Custom Range Session", func(t *testing.T) {
		require.NotEmpty(t, token, "Login step failed")

		today := time.Now().UTC()
		start := today.AddDate(0, 0, -2).Format("2006-01-02")
		end := today.Format("2006-01-02")

		w := request(t, router, http.MethodPost, "/api/v1/charts/custom/range", token, gin.H{
			"start_date": start,
			"end_date":   end,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var session struct {
			Chart *struct {
				Stats struct {
					Total int `json:"total"`
				} `json:"stats"`
			} `json:"chart"`
			Loading bool `json:"loading"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
		assert.False(t, session.Loading)
		require.NotNil(t, session.Chart)
		assert.Equal(t, 5000+6000+7000, session.Chart.Stats.Total)

		view := request(t, router, http.MethodGet, "/api/v1/charts/view?view=daily&offset=0", token, nil)
		require.Equal(t, http.StatusOK, view.Code)
		assert.Contains(t, view.Body.String(), `"is_custom_mode":true`)

		cleared := request(t, router, http.MethodDelete, "/api/v1/charts/custom/range", token, nil)
		require.Equal(t, http.StatusOK, cleared.Code)
	})

	t.Run("6. Activity Summary Reflects The Streak", func(t *testing.T) {
		require.NotEmpty(t, token, "Login step failed")

		w := request(t, router, http.MethodGet, "/api/v1/profile/activity", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var summary struct {
			CurrentStreak   int `json:"current_streak"`
			TotalActiveDays int `json:"total_active_days"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 5, summary.CurrentStreak)
		assert.Equal(t, 5, summary.TotalActiveDays)
	})

	t.Run("7. Delete A Day Breaks Nothing", func(t *testing.T) {
		require.NotEmpty(t, token, "Login step failed")

		day := time.Now().UTC().AddDate(0, 0, -4).Format("2006-01-02")
		w := request(t, router, http.MethodDelete, "/api/v1/steps/"+day, token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		history := request(t, router, http.MethodGet, "/api/v1/steps/history", token, nil)
		require.Equal(t, http.StatusOK, history.Code)

		var records []json.RawMessage
		require.NoError(t, json.Unmarshal(history.Body.Bytes(), &records))
		assert.Len(t, records, 4)
	})
}
