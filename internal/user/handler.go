package user

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/httpx"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,passwordbytes,strongpassword"`
}

type updateAccountRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
	Password *string `json:"password" validate:"omitempty,passwordbytes,strongpassword"`
}

type updateProfileRequest struct {
	Bio *string `json:"bio" validate:"omitempty,max=2000"`
}

type userResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

type registerResponse struct {
	userResponse
	ProfileID int64 `json:"profile_id"`
}

type profileResponse struct {
	ID        int64     `json:"id"`
	User      int64     `json:"user"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsStaff:    u.IsStaff,
		DateJoined: u.DateJoined,
	}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		User:      p.UserID,
		Username:  p.Username,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Handler serves account and profile endpoints.
type Handler struct {
	service     Service
	logger      *slog.Logger
	baseURL     string
	pageSize    int
	maxPageSize int
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service     Service
	Logger      *slog.Logger
	BaseURL     string
	PageSize    int
	MaxPageSize int
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:     cfg.Service,
		logger:      logger,
		baseURL:     cfg.BaseURL,
		pageSize:    cfg.PageSize,
		maxPageSize: cfg.MaxPageSize,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// fail logs err at a level matching its kind and writes the error response.
func fail(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, msg string) {
	attrs := []any{
		"error", err.Error(),
		"error_kind", errx.KindOf(err),
		"operation", errx.OpOf(err),
	}
	if httpx.ErrorKindToStatus(errx.KindOf(err)) >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, msg, attrs...)
	} else {
		logger.WarnContext(ctx, msg, attrs...)
	}
	httpx.WriteErr(w, err, "")
}

// Register handles POST /api/auth/.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.Bind[registerRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "invalid registration", "error", err.Error())
		httpx.WriteBindError(w, err)
		return
	}

	u, p, err := h.service.Register(ctx, RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errx.Is(err, errx.Conflict) {
			logger.WarnContext(ctx, "username taken", "username", req.Username)
			httpx.WriteError(w, http.StatusConflict, "conflict", "A user with that username already exists.",
				map[string][]string{"username": {"A user with that username already exists."}})
			return
		}
		fail(ctx, logger, w, err, "registration failed")
		return
	}

	logger.InfoContext(ctx, "user registered", "user_id", u.ID, "profile_id", p.ID)
	httpx.WriteJSON(w, http.StatusCreated, registerResponse{userResponse: toUserResponse(u), ProfileID: p.ID})
}

// Me handles GET /api/auth/me/.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	h.getUser(w, r, p.UserID)
}

// UpdateMe handles PATCH /api/auth/me/.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	h.updateUser(w, r, p.UserID)
}

// GetUser handles GET /api/auth/{id}/.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}
	h.getUser(w, r, id)
}

// UpdateUser handles PATCH /api/auth/{id}/.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}
	h.updateUser(w, r, id)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, id int64) {
	ctx := r.Context()

	u, err := h.service.Get(ctx, id)
	if err != nil {
		fail(ctx, h.requestLogger(r), w, err, "get user failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request, id int64) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	actor, _ := auth.FromContext(ctx)

	req, err := httpx.Bind[updateAccountRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}

	u, err := h.service.UpdateAccount(ctx, actor, id, UpdateAccountRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(ctx, logger, w, err, "update user failed")
		return
	}

	logger.InfoContext(ctx, "user updated", "user_id", u.ID, "password_changed", req.Password != nil)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// ListProfiles handles GET /api/user-profiles/.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := httpx.ParsePage(r, h.pageSize, h.maxPageSize)

	profiles, total, err := h.service.ListProfiles(ctx, page.PageSize, page.Offset())
	if err != nil {
		fail(ctx, h.requestLogger(r), w, err, "list profiles failed")
		return
	}

	results := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		results = append(results, toProfileResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.NewPage(r, h.baseURL, page, total, results))
}

// GetProfile handles GET /api/user-profiles/{id}/.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}

	p, err := h.service.GetProfile(ctx, id)
	if err != nil {
		fail(ctx, h.requestLogger(r), w, err, "get profile failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(p))
}

// UpdateProfile handles PATCH /api/user-profiles/{id}/.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	actor, _ := auth.FromContext(ctx)

	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}

	req, err := httpx.Bind[updateProfileRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}

	var p Profile
	if req.Bio == nil {
		p, err = h.service.GetProfile(ctx, id)
	} else {
		p, err = h.service.UpdateProfile(ctx, actor, id, *req.Bio)
	}
	if err != nil {
		fail(ctx, logger, w, err, "update profile failed")
		return
	}

	logger.InfoContext(ctx, "profile updated", "profile_id", p.ID)
	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(p))
}
