package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/httpx"
)

var errNoCredentials = errors.New("authentication credentials were not provided")

// Authenticator resolves a username/password pair to a principal.
// It returns errx.Unauthorized for unknown users and wrong passwords alike.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Principal, error)
}

type obtainRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Handler serves the token obtain and refresh endpoints.
type Handler struct {
	users  Authenticator
	issuer *Issuer
	logger *slog.Logger
}

// NewHandler returns a token Handler.
func NewHandler(users Authenticator, issuer *Issuer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{users: users, issuer: issuer, logger: logger}
}

// Obtain handles POST /api/token/.
func (h *Handler) Obtain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.Bind[obtainRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "invalid token request", "error", err.Error())
		httpx.WriteBindError(w, err)
		return
	}

	p, err := h.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errx.Is(err, errx.Unauthorized) {
			logger.WarnContext(ctx, "login failed", "username", req.Username)
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized",
				"No active account found with the given credentials", nil)
			return
		}
		logger.ErrorContext(ctx, "login error", "error", err.Error(), "operation", errx.OpOf(err))
		httpx.WriteErr(w, err, "")
		return
	}

	pair, err := h.issuer.Issue(p)
	if err != nil {
		logger.ErrorContext(ctx, "token issue failed", "error", err.Error())
		httpx.WriteErr(w, err, "")
		return
	}

	logger.InfoContext(ctx, "tokens issued", "user_id", p.UserID)
	httpx.WriteJSON(w, http.StatusOK, pair)
}

// Refresh handles POST /api/token/refresh/.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.Bind[refreshRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}

	access, err := h.issuer.Refresh(req.Refresh)
	if err != nil {
		logger.WarnContext(ctx, "refresh rejected", "error", err.Error())
		httpx.WriteError(w, http.StatusUnauthorized, "token_not_valid", "Token is invalid or expired", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, refreshResponse{Access: access})
}
