package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/middleware"
	"onchain-re-lending/pkg/config"
)

func newMiddlewareApp(perMinute float64, burst int) *App {
	gin.SetMode(gin.TestMode)
	app := &App{
		Config:      config.Default(),
		Router:      gin.New(),
		RateLimiter: middleware.NewRateLimiter(middleware.PerMinute(perMinute), burst),
	}
	app.setupMiddleware()
	return app
}

func TestSetupMiddleware_ThrottledRequestGets429(t *testing.T) {
	app := newMiddlewareApp(1, 1)
	app.Router.GET("/api/property-valuation", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	first := httptest.NewRecorder()
	app.Router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/property-valuation", nil))
	require.Equal(t, http.StatusOK, first.Code)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/property-valuation", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrCodeRateLimited, body["code"])
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestSetupMiddleware_RendersHandlerErrorsAndPanics(t *testing.T) {
	app := newMiddlewareApp(600, 10)
	app.Router.GET("/missing", func(c *gin.Context) {
		c.Error(errors.MissingParameter("address"))
	})
	app.Router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), errors.ErrCodeMissingParameter)

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
