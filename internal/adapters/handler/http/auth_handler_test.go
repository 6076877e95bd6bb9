package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/stepperapp/stepper-insights/internal/adapters/handler/http"
	"github.com/stepperapp/stepper-insights/internal/adapters/repository"
	"github.com/stepperapp/stepper-insights/internal/core/services"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := repository.NewInMemoryUserRepository()
	authSvc := services.NewAuthService(users)
	tokenSvc := services.NewTokenService("test-secret", "stepper-test", 1*time.Hour, users)
	handler := adapterHTTP.NewAuthHandler(authSvc, tokenSvc)

	r := gin.New()
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)

	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success: Creates Account", func(t *testing.T) {
		r := setupAuthRouter()

		w := postJSON(t, r, "/api/v1/auth/register", gin.H{
			"email":        "walker@stepper.app",
			"password":     "super_secret",
			"display_name": "Walker",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "walker@stepper.app")
		assert.Contains(t, w.Body.String(), "Walker")
		assert.NotContains(t, w.Body.String(), "super_secret")
	})

	t.Run("Fail: Duplicate Email Returns 409", func(t *testing.T) {
		r := setupAuthRouter()

		first := postJSON(t, r, "/api/v1/auth/register", gin.H{
			"email":    "dup@stepper.app",
			"password": "super_secret",
		})
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, r, "/api/v1/auth/register", gin.H{
			"email":    "dup@stepper.app",
			"password": "super_secret",
		})
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("Fail: Short Password Returns 400", func(t *testing.T) {
		r := setupAuthRouter()

		w := postJSON(t, r, "/api/v1/auth/register", gin.H{
			"email":    "short@stepper.app",
			"password": "tiny",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Malformed Email Returns 400", func(t *testing.T) {
		r := setupAuthRouter()

		w := postJSON(t, r, "/api/v1/auth/register", gin.H{
			"email":    "not-an-email",
			"password": "super_secret",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	register := func(t *testing.T, r *gin.Engine) {
		t.Helper()
		w := postJSON(t, r, "/api/v1/auth/register", gin.H{
			"email":    "login@stepper.app",
			"password": "super_secret",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("Success: Returns Token", func(t *testing.T) {
		r := setupAuthRouter()
		register(t, r)

		w := postJSON(t, r, "/api/v1/auth/login", gin.H{
			"email":    "login@stepper.app",
			"password": "super_secret",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Fail: Wrong Password Returns 401", func(t *testing.T) {
		r := setupAuthRouter()
		register(t, r)

		w := postJSON(t, r, "/api/v1/auth/login", gin.H{
			"email":    "login@stepper.app",
			"password": "wrong_password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Fail: Unknown Email Returns 401", func(t *testing.T) {
		r := setupAuthRouter()

		w := postJSON(t, r, "/api/v1/auth/login", gin.H{
			"email":    "ghost@stepper.app",
			"password": "super_secret",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
