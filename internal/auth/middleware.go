package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/httpx"
)

// Verifier checks an access token and returns its principal.
type Verifier interface {
	Verify(token, tokenType string) (Principal, error)
}

// Authenticate attaches the principal of a valid bearer token to the request
// context. Requests without an Authorization header pass through anonymously;
// a present but invalid token is rejected with 401.
func Authenticate(v Verifier, logger *slog.Logger) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized",
					"Authorization header must be 'Bearer <token>'.", nil)
				return
			}

			p, err := v.Verify(token, AccessToken)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected bearer token",
					"request_id", httpx.GetRequestID(r.Context()),
					"path", r.URL.Path,
					"error", err.Error(),
				)
				httpx.WriteError(w, http.StatusUnauthorized, "token_not_valid",
					"Given token not valid for any token type", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			httpx.WriteErr(w, errx.E("auth.RequireAuth", errx.Unauthorized, errNoCredentials), "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
