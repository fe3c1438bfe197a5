package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/httpx"
)

// ProfileEnsurer is the one collaborator that creates profiles lazily.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, userID int64) (Profile, error)
}

// EnsureProfile makes sure an authenticated caller has a profile before the
// wrapped handler runs. Anonymous requests pass through untouched.
func EnsureProfile(profiles ProfileEnsurer, logger *slog.Logger) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if _, err := profiles.EnsureProfile(r.Context(), p.UserID); err != nil {
				logger.ErrorContext(r.Context(), "ensure profile failed",
					"request_id", httpx.GetRequestID(r.Context()),
					"user_id", p.UserID,
					"error", err.Error(),
					"operation", errx.OpOf(err),
				)
				httpx.WriteErr(w, err, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
