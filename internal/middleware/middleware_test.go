package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onchain-re-lending/internal/auth"
	"onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/notfound", func(c *gin.Context) {
		c.Error(errors.NoMatchingRecords(models.SearchCriteria{District: "板橋區", Street: "文化路"}))
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Error(fmt.Errorf("database exploded"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notfound", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, errors.ErrCodeNoMatchingRecords, body["code"])
	assert.Equal(t, errors.SuggestNoRecords, body["suggestion"])
	criteria := body["searchCriteria"].(map[string]interface{})
	assert.Equal(t, "板橋區", criteria["district"])
	assert.Equal(t, "文化路", criteria["street"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body = decode(t, w)
	assert.Equal(t, errors.MsgInternalError, body["error"])
	assert.NotContains(t, w.Body.String(), "database exploded")
}

func TestSessionAuth(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/me", SessionAuth("secret"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": c.GetString(ContextSessionID), "wallet": c.GetString(ContextWalletAddress)})
	})

	token, err := auth.GenerateJWT("sess-9", "0xabc", "secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token.Token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token.Token, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "sess-9", decode(t, w)["session"])
			} else {
				assert.Equal(t, errors.ErrCodeUnauthorized, decode(t, w)["code"])
			}
		})
	}
}

func TestAdminKey(t *testing.T) {
	newRouter := func(key string) *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler())
		r.POST("/admin", AdminKey(key), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "k")
	w := httptest.NewRecorder()
	newRouter("k").ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	newRouter("k").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// An unset key disables the endpoint even for an empty header.
	w = httptest.NewRecorder()
	newRouter("").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(PerMinute(1), 2)
	r := gin.New()
	// no ErrorHandler: the limiter must render the 429 on its own
	r.Use(RateLimitMiddleware(rl))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	body := decode(t, last)
	assert.Equal(t, errors.ErrCodeRateLimited, body["code"])
	assert.Equal(t, errors.MsgRateLimited, body["error"])
}

func TestRateLimitMiddleware_BeforeErrorHandler(t *testing.T) {
	rl := NewRateLimiter(PerMinute(1), 1)
	r := gin.New()
	r.Use(RateLimitMiddleware(rl), ErrorHandler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, errors.ErrCodeRateLimited, decode(t, w)["code"])
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(PerMinute(60), 1)
	rl.getLimiter("1.1.1.1")
	rl.getLimiter("2.2.2.2")
	rl.limiters["1.1.1.1"].lastSeen = time.Now().Add(-2 * time.Hour)

	rl.evictIdle(time.Now())
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "2.2.2.2")
}

func TestSecureHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecureHeaders())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/api/property-valuation", ok)
	r.GET("/api/sessions/current", ok)
	r.GET("/swagger/index.html", ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/property-valuation", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Empty(t, w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/current", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.GlobalLogger
	logger.GlobalLogger = logger.New(&buf, "INFO")
	defer func() { logger.GlobalLogger = prev }()

	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/sessions/current", func(c *gin.Context) {
		c.Set(ContextSessionID, "s-42")
		c.Status(http.StatusOK)
	})
	r.POST("/api/sessions/current/mint", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("rpc unreachable"))
		c.Status(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String(), "health checks stay below INFO")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sessions/current", nil))
	assert.Contains(t, buf.String(), "INFO: ")
	assert.Contains(t, buf.String(), "GET /api/sessions/current 200")
	assert.Contains(t, buf.String(), "session=s-42")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/sessions/current/mint", nil))
	assert.Contains(t, buf.String(), "ERROR: ")
	assert.Contains(t, buf.String(), "POST /api/sessions/current/mint 502")
	assert.Contains(t, buf.String(), "error=rpc unreachable")
}
