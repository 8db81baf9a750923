package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pysugar/push-to-notion/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestGetOrGenerateRequestID_WithHeader(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", nil)
	req.Header.Set("X-Request-ID", "client-provided-id")

	assert.Equal(t, "client-provided-id", GetOrGenerateRequestID(req))
}

func TestGetOrGenerateRequestID_GenerateNew(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", nil)

	assert.Len(t, GetOrGenerateRequestID(req), 8)
}

func TestRequestID_PropagatesToContextAndResponse(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := RequestID(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))
	req := httptest.NewRequest("POST", "/push", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "status=201")
	assert.Contains(t, out, "path=/push")
	assert.Contains(t, out, "request_id=rid-1")
}
