package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterAuthRoutes(r)
	RegisterDataRoutes(r)
	RegisterRecommendationRoutes(r)
	return r
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestRequireDBRejectsWhenDatabaseDown(t *testing.T) {
	r := newTestEngine()

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/data/raw/history", ""},
		{http.MethodGet, "/api/data/calibrated", ""},
		{http.MethodGet, "/api/latest/calibrated", ""},
		{http.MethodGet, "/api/users", ""},
		{http.MethodPost, "/api/login", `{"username":"admin","password":"admin123"}`},
		{http.MethodPost, "/api/recommendation", `{"P":10,"N":20,"K":15}`},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var body *strings.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusServiceUnavailable, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, "Database tidak tersedia", resp["message"])
		})
	}
}

func TestHealthAndPreviewBypassDBGuard(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Payload kosong gagal di validasi, bukan di penjagaan database.
	req = httptest.NewRequest(http.MethodPost, "/api/recommendation/input", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
