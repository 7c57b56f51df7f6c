package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/myprogress/internal/auth"
	"github.com/templui/myprogress/internal/ctxkeys"
	"github.com/templui/myprogress/internal/metrics"
	"github.com/templui/myprogress/internal/response"
)

// RequireSubject authenticates the bearer token and puts the user in the
// request context. Every rejection looks the same to the client; the reason
// only reaches the logs.
func RequireSubject(guard *auth.Guard) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, err := guard.Authenticate(r.Context(), r.Header.Get("Authorization"))

			var authErr *auth.Error
			if errors.As(err, &authErr) {
				slog.Warn("request rejected",
					"reason", authErr.Kind.String(),
					"error", authErr.Err,
					"path", r.URL.Path,
					"request_id", ctxkeys.RequestID(r.Context()),
				)
				metrics.ObserveAuthRejection(authErr.Kind.String())
				response.Unauthorized(w)
				return
			}
			if err != nil {
				slog.Error("failed to authenticate request", "error", err, "path", r.URL.Path)
				response.Internal(w, "Failed to authenticate request", err)
				return
			}

			next(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
		}
	}
}
