package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/shopease/pkg/logger"
)

func newTestLogger(w *bytes.Buffer) *slog.Logger {
	return logger.NewWithWriter("storefront", "debug", w)
}

func serveAndDecode(t *testing.T, identify UsernameFunc, ctx context.Context) map[string]any {
	t.Helper()
	var buf bytes.Buffer

	h := RequestLogger(newTestLogger(&buf), identify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).InfoContext(r.Context(), "handled")
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRequestLogger_IncludesCorrelationID(t *testing.T) {
	out := serveAndDecode(t, nil, logger.WithCorrelationID(context.Background(), "corr-1"))
	assert.Equal(t, "corr-1", out["correlation_id"])
}

func TestRequestLogger_IncludesUsername(t *testing.T) {
	identify := func(context.Context) string { return "mor_2314" }
	out := serveAndDecode(t, identify, context.Background())
	assert.Equal(t, "mor_2314", out["username"])
}

func TestRequestLogger_AnonymousOmitsUsername(t *testing.T) {
	identify := func(context.Context) string { return "" }
	out := serveAndDecode(t, identify, context.Background())
	_, ok := out["username"]
	assert.False(t, ok)
}
