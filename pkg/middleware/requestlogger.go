package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/utafrali/shopease/pkg/logger"
)

// UsernameFunc reports the signed-in username for a request, or "" when the
// visitor is anonymous.
type UsernameFunc func(ctx context.Context) string

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// username, trace_id and span_id, and stores it in the request context.
// Mount it after RequestLogging and Tracing. identify may be nil.
func RequestLogger(base *slog.Logger, identify UsernameFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if identify != nil {
				if username := identify(ctx); username != "" {
					ctx = logger.WithUsername(ctx, username)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
