package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	record slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.record = r.Clone()
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func (h *capturingHandler) attrs() map[string]slog.Value {
	out := make(map[string]slog.Value)
	h.record.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value
		return true
	})
	return out
}

func TestLoggingMiddleware(t *testing.T) {
	var cap capturingHandler
	logger := slog.New(&cap)

	tests := []struct {
		name          string
		handlerStatus int
		target        string
		method        string
		wantPath      string
		wantQuery     string
		wantLevel     slog.Level
	}{
		{"created", http.StatusCreated, "/signup", http.MethodPost, "/signup", "", slog.LevelInfo},
		{"search with query", http.StatusOK, "/events/search?keyword=team", http.MethodGet, "/events/search", "keyword=team", slog.LevelInfo},
		{"not found", http.StatusNotFound, "/events/responses/abc", http.MethodGet, "/events/responses/abc", "", slog.LevelWarn},
		{"server error", http.StatusInternalServerError, "/events/all", http.MethodGet, "/events/all", "", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})
			handler := LoggingMiddleware(logger, next)
			req := httptest.NewRequest(tt.method, "http://test"+tt.target, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, "request", cap.record.Message)
			assert.Equal(t, tt.wantLevel, cap.record.Level)
			attrs := cap.attrs()
			require.Contains(t, attrs, "duration_ms")
			assert.Equal(t, tt.method, attrs["method"].String())
			assert.Equal(t, tt.wantPath, attrs["path"].String())
			assert.Equal(t, int64(tt.handlerStatus), attrs["status"].Int64())
			assert.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
			if tt.wantQuery == "" {
				assert.NotContains(t, attrs, "query")
			} else {
				assert.Equal(t, tt.wantQuery, attrs["query"].String())
			}
			assert.Equal(t, tt.handlerStatus, rr.Code)
		})
	}
}

func TestLoggingMiddleware_implicitOK(t *testing.T) {
	var cap capturingHandler
	handler := LoggingMiddleware(slog.New(&cap), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	attrs := cap.attrs()
	assert.Equal(t, int64(http.StatusOK), attrs["status"].Int64())
	assert.Equal(t, int64(2), attrs["bytes"].Int64())
	assert.Equal(t, "ok", rr.Body.String())
}
