package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/api/shared"
	"taskboard/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	t.Run("sets a trace id on the request context", func(t *testing.T) {
		var traceID string
		handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.Len(t, traceID, shared.TraceIDLength*2)
	})

	t.Run("context logger carries the trace id", func(t *testing.T) {
		var buf bytes.Buffer
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
		defer slog.SetDefault(prev)

		var traceID string
		handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			logger.FromContext(r.Context()).Info("handled")
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		require.NotEmpty(t, traceID)
		assert.Contains(t, buf.String(), "handled")
		assert.Contains(t, buf.String(), traceID)
	})
}
