package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	assert.Len(t, id, 8)

	// Verify uniqueness
	assert.NotEqual(t, id, GenerateRequestID())
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))

	ctx = WithRequestID(ctx, "test1234")
	assert.Equal(t, "test1234", GetRequestID(ctx))
}

func TestGenerateAndRetrieveRoundTrip(t *testing.T) {
	id := GenerateRequestID()
	ctx := WithRequestID(context.Background(), id)

	assert.Equal(t, id, GetRequestID(ctx))
}

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestFromContextTagsRequestID(t *testing.T) {
	buf := captureDefault(t)

	FromContext(WithRequestID(context.Background(), "abcd1234")).Info("hello")

	assert.Contains(t, buf.String(), `"request_id":"abcd1234"`)
}

func TestFromContextWithoutRequestID(t *testing.T) {
	buf := captureDefault(t)

	FromContext(context.Background()).Info("hello")

	assert.NotContains(t, buf.String(), "request_id")
}
