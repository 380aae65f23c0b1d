package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/messages", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, []string{}) })
	r.POST("/messages", func(ctx *gin.Context) { ctx.Status(http.StatusCreated) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORS_PreflightEchoesRequest(t *testing.T) {
	r := newEngine(CORS(true))

	req := httptest.NewRequest(http.MethodOptions, "/messages", nil)
	req.Header.Set("Origin", "https://chat.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-custom")
	rec := serve(r, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://chat.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	require.Equal(t, "content-type,x-custom", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_SimpleRequestWithoutCredentials(t *testing.T) {
	r := newEngine(CORS(false))

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := serve(r, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_NoOriginLeavesResponseAlone(t *testing.T) {
	r := newEngine(CORS(true))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/messages", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = serve(r, req)
	require.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestLogging_WritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	r := newEngine(RequestID(), Logging(log))

	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	serve(r, req)

	out := buf.String()
	require.Contains(t, out, `"msg":"request"`)
	require.Contains(t, out, `"method":"POST"`)
	require.Contains(t, out, `"status":201`)
	require.Contains(t, out, `"request_id":"req-1"`)
}

func TestMaintenance(t *testing.T) {
	flag := filepath.Join(t.TempDir(), "maintenance.flag")
	r := newEngine(Maintenance(slog.New(slog.DiscardHandler), flag, "/health"))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/messages", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, os.WriteFile(flag, nil, 0o600))

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/messages", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "maintenance")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
