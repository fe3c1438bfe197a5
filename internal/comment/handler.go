package comment

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/httpx"
)

type createCommentRequest struct {
	Article int64  `json:"article" validate:"required,gt=0"`
	Content string `json:"content" validate:"notblank"`
}

type contentRequest struct {
	Content string `json:"content" validate:"notblank"`
}

type commentResponse struct {
	ID             int64     `json:"id"`
	Article        int64     `json:"article"`
	Author         int64     `json:"author"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toCommentResponse(c Comment) commentResponse {
	return commentResponse{
		ID:             c.ID,
		Article:        c.ArticleID,
		Author:         c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		Content:        c.Content,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
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
	httpx.WriteErr(w, err, "")
}

func notFound(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, page httpx.PageParams, total int64, comments []Comment) {
	results := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		results = append(results, toCommentResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.NewPage(r, h.baseURL, page, total, results))
}

// List handles GET /api/comments/ with an optional ?article= filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r, h.pageSize, h.maxPageSize)
	article, ok := httpx.QueryID(r, "article")
	if !ok {
		httpx.WriteQueryError(w, "article")
		return
	}

	comments, total, err := h.service.List(r.Context(), article, page.PageSize, page.Offset())
	if err != nil {
		h.fail(r, w, err, "list comments failed")
		return
	}
	h.writePage(w, r, page, total, comments)
}

// Create handles POST /api/comments/. A missing article is a field error here.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := auth.FromContext(ctx)

	req, err := httpx.Bind[createCommentRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}

	c, err := h.service.Create(ctx, actor, req.Article, req.Content)
	if err != nil {
		if errors.Is(err, ErrArticleNotFound) {
			httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "validation failed",
				map[string][]string{"article": {"Invalid pk - object does not exist."}})
			return
		}
		h.fail(r, w, err, "create comment failed")
		return
	}

	h.requestLogger(r).InfoContext(ctx, "comment created", "comment_id", c.ID, "article_id", c.ArticleID)
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(c))
}

// ListForArticle handles GET /api/articles/{id}/comments/.
func (h *Handler) ListForArticle(w http.ResponseWriter, r *http.Request) {
	articleID, ok := httpx.PathInt64(r, "id")
	if !ok {
		notFound(w)
		return
	}
	page := httpx.ParsePage(r, h.pageSize, h.maxPageSize)

	comments, total, err := h.service.ListForArticle(r.Context(), articleID, page.PageSize, page.Offset())
	if err != nil {
		h.fail(r, w, err, "list article comments failed")
		return
	}
	h.writePage(w, r, page, total, comments)
}

// CreateForArticle handles POST /api/articles/{id}/comments/.
func (h *Handler) CreateForArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := auth.FromContext(ctx)

	articleID, ok := httpx.PathInt64(r, "id")
	if !ok {
		notFound(w)
		return
	}
	req, err := httpx.Bind[contentRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}

	c, err := h.service.Create(ctx, actor, articleID, req.Content)
	if err != nil {
		h.fail(r, w, err, "create comment failed")
		return
	}

	h.requestLogger(r).InfoContext(ctx, "comment created", "comment_id", c.ID, "article_id", c.ArticleID)
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(c))
}

// Get handles GET /api/comments/{id}/.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		notFound(w)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(r, w, err, "get comment failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCommentResponse(c))
}

// Update handles PATCH and PUT /api/comments/{id}/.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := auth.FromContext(ctx)

	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		notFound(w)
		return
	}
	req, err := httpx.Bind[contentRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}

	c, err := h.service.Update(ctx, actor, id, req.Content)
	if err != nil {
		h.fail(r, w, err, "update comment failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCommentResponse(c))
}

// Delete handles DELETE /api/comments/{id}/.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := auth.FromContext(ctx)

	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		notFound(w)
		return
	}
	if err := h.service.Delete(ctx, actor, id); err != nil {
		h.fail(r, w, err, "delete comment failed")
		return
	}

	h.requestLogger(r).InfoContext(ctx, "comment deleted", "comment_id", id)
	httpx.WriteNoContent(w)
}
