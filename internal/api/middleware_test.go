package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/vytor/matchlog/internal/logger"
)

func TestPanicIsLoggedWithRequestFields(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Default()
	logger.SetDefault(logger.New(logger.WithOutput(&buf), logger.WithColors(false)))
	t.Cleanup(func() { logger.SetDefault(prev) })

	r := chi.NewRouter()
	r.Use(baseMiddleware()...)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")

	var panicLine, requestLine string
	for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
		switch {
		case bytes.Contains(line, []byte("panic recovered")):
			panicLine = string(line)
		case bytes.Contains(line, []byte("request failed")):
			requestLine = string(line)
		}
	}
	assert.Contains(t, panicLine, "request_id=req-42")
	assert.Contains(t, panicLine, "path=/boom")
	assert.Contains(t, requestLine, "status=500")
}
