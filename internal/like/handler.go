package like

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/httpx"
)

const (
	statusLiked   = "liked"
	statusUnliked = "unliked"
)

// flexBool accepts true/false, numbers and the usual truthy strings.
type flexBool struct {
	set   bool
	value bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*b = flexBool{}
	case bool:
		*b = flexBool{set: true, value: v}
	case float64:
		*b = flexBool{set: true, value: v != 0}
	case string:
		*b = flexBool{set: true, value: httpx.Truthy(v)}
	default:
		return fmt.Errorf("toggle must be a boolean")
	}
	return nil
}

// enabled defaults to true when the field was omitted.
func (b flexBool) enabled() bool {
	return !b.set || b.value
}

type likeRequest struct {
	Article int64    `json:"article" validate:"required,gt=0"`
	Toggle  flexBool `json:"toggle"`
}

type likeResponse struct {
	ID         int64     `json:"id"`
	User       int64     `json:"user"`
	Article    int64     `json:"article"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status,omitempty"`
	LikesCount *int64    `json:"likes_count,omitempty"`
}

type toggleResponse struct {
	Status     string `json:"status"`
	LikesCount int64  `json:"likes_count"`
}

func toLikeResponse(l Like) likeResponse {
	return likeResponse{
		ID:        l.ID,
		User:      l.UserID,
		Article:   l.ArticleID,
		CreatedAt: l.CreatedAt,
	}
}

func createdResponse(l Like, count int64) likeResponse {
	resp := toLikeResponse(l)
	resp.Status = statusLiked
	resp.LikesCount = &count
	return resp
}

type Handler struct {
	service     Service
	logger      *slog.Logger
	baseURL     string
	pageSize    int
	maxPageSize int
}

type HandlerConfig struct {
	Service     Service
	Logger      *slog.Logger
	BaseURL     string
	PageSize    int
	MaxPageSize int
}

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

func (h *Handler) fail(r *http.Request, w http.ResponseWriter, err error, msg string) {
	logger := h.requestLogger(r)
	kind := errx.KindOf(err)
	if httpx.ErrorKindToStatus(kind) >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), msg, "error", err.Error(), "error_kind", kind, "operation", errx.OpOf(err))
	} else {
		logger.WarnContext(r.Context(), msg, "error", err.Error(), "error_kind", kind)
	}

	switch {
	case errors.Is(err, ErrArticleNotFound):
		httpx.WriteErr(w, err, "Article not found.")
	case errors.Is(err, ErrAlreadyLiked):
		httpx.WriteErr(w, err, "Already liked")
	case kind == errx.NotFound:
		httpx.WriteErr(w, err, "Not found.")
	default:
		httpx.WriteErr(w, err, "")
	}
}

// Create handles POST /api/post-user-likes/. With toggle (the default) it
// flips the caller's like; with toggle=false it only creates.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := auth.FromContext(ctx)

	req, err := httpx.Bind[likeRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}

	if !req.Toggle.enabled() {
		l, n, err := h.service.Create(ctx, actor, req.Article)
		if err != nil {
			h.fail(r, w, err, "create like failed")
			return
		}
		h.requestLogger(r).InfoContext(ctx, "article liked", "like_id", l.ID, "article_id", l.ArticleID)
		httpx.WriteJSON(w, http.StatusCreated, createdResponse(l, n))
		return
	}

	res, err := h.service.Toggle(ctx, actor, req.Article)
	if err != nil {
		h.fail(r, w, err, "toggle like failed")
		return
	}

	h.requestLogger(r).InfoContext(ctx, "like toggled",
		"article_id", req.Article,
		"liked", res.Liked,
		"likes_count", res.LikesCount,
	)
	switch {
	case res.Like != nil:
		httpx.WriteJSON(w, http.StatusCreated, createdResponse(*res.Like, res.LikesCount))
	case res.Liked:
		httpx.WriteJSON(w, http.StatusOK, toggleResponse{Status: statusLiked, LikesCount: res.LikesCount})
	default:
		httpx.WriteJSON(w, http.StatusOK, toggleResponse{Status: statusUnliked, LikesCount: res.LikesCount})
	}
}

// List handles GET /api/post-user-likes/?article=&mine=1.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r, h.pageSize, h.maxPageSize)
	f := ListFilter{Limit: page.PageSize, Offset: page.Offset()}
	articleID, ok := httpx.QueryID(r, "article")
	if !ok {
		httpx.WriteQueryError(w, "article")
		return
	}
	f.ArticleID = articleID
	if httpx.QueryBool(r, "mine") {
		f.UserID = auth.ViewerID(r.Context())
	}

	likes, total, err := h.service.List(r.Context(), f)
	if err != nil {
		h.fail(r, w, err, "list likes failed")
		return
	}

	results := make([]likeResponse, 0, len(likes))
	for _, l := range likes {
		results = append(results, toLikeResponse(l))
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.NewPage(r, h.baseURL, page, total, results))
}

// Get handles GET /api/post-user-likes/{id}/.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}
	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(r, w, err, "get like failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLikeResponse(l))
}

// Delete handles DELETE /api/post-user-likes/{id}/.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := auth.FromContext(ctx)

	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}
	if err := h.service.Delete(ctx, actor, id); err != nil {
		h.fail(r, w, err, "delete like failed")
		return
	}

	h.requestLogger(r).InfoContext(ctx, "like removed", "like_id", id)
	httpx.WriteNoContent(w)
}
