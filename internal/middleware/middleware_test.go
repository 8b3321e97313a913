package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hemicycle/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })
	r.OPTIONS("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := newEngine(RequestID(), RequestLogger(logger.Nop()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:5173"}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		token   string
		header  string
		want    int
	}{
		{"disabled", false, "", "", http.StatusNotFound},
		{"closed when no token", true, "", "", http.StatusUnauthorized},
		{"closed when no token even with empty bearer", true, "", "Bearer ", http.StatusUnauthorized},
		{"missing token", true, "s3cret", "", http.StatusUnauthorized},
		{"wrong token", true, "s3cret", "Bearer nope", http.StatusUnauthorized},
		{"valid token", true, "s3cret", "Bearer s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(AdminRequired(tt.enabled, tt.token))
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
