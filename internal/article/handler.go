package article

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/httpx"
)

type createArticleRequest struct {
	Title       string   `json:"title" validate:"notblank,max=255"`
	Content     string   `json:"content" validate:"notblank"`
	IsPublished *bool    `json:"is_published"`
	Tags        []string `json:"tags" validate:"max=20,dive,notblank,max=50"`
}

type patchArticleRequest struct {
	Title       *string   `json:"title" validate:"omitempty,notblank,max=255"`
	Content     *string   `json:"content" validate:"omitempty,notblank"`
	IsPublished *bool     `json:"is_published"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=50"`
}

type createTagRequest struct {
	Name string `json:"name" validate:"notblank,max=50"`
}

type tagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type articleResponse struct {
	ID             int64         `json:"id"`
	Author         int64         `json:"author"`
	AuthorUsername string        `json:"author_username"`
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	Content        string        `json:"content"`
	IsPublished    bool          `json:"is_published"`
	Tags           []tagResponse `json:"tags"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	LikesCount     int64         `json:"likes_count"`
	UserLiked      bool          `json:"user_liked"`
}

func toTagResponse(t Tag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func toArticleResponse(a Article) articleResponse {
	tags := make([]tagResponse, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, toTagResponse(t))
	}
	return articleResponse{
		ID:             a.ID,
		Author:         a.AuthorID,
		AuthorUsername: a.AuthorUsername,
		Title:          a.Title,
		Slug:           a.Slug,
		Content:        a.Content,
		IsPublished:    a.IsPublished,
		Tags:           tags,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		LikesCount:     a.LikesCount,
		UserLiked:      a.UserLiked,
	}
}

// Handler serves article and tag endpoints.
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

func (h *Handler) fail(r *http.Request, w http.ResponseWriter, logger *slog.Logger, err error, msg string) {
	kind := errx.KindOf(err)
	attrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}
	if httpx.ErrorKindToStatus(kind) >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), msg, attrs...)
	} else {
		logger.WarnContext(r.Context(), msg, attrs...)
	}
	httpx.WriteErr(w, err, "")
}

// List handles GET /api/articles/.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := httpx.ParsePage(r, h.pageSize, h.maxPageSize)
	q := r.URL.Query()

	author, ok := httpx.QueryID(r, "author")
	if !ok {
		httpx.WriteQueryError(w, "author")
		return
	}
	articles, total, err := h.service.List(ctx, ListRequest{
		ViewerID: auth.ViewerID(ctx),
		Search:   q.Get("search"),
		AuthorID: author,
		Tag:      q.Get("tag"),
		Ordering: q.Get("ordering"),
		Limit:    page.PageSize,
		Offset:   page.Offset(),
	})
	if err != nil {
		h.fail(r, w, h.requestLogger(r), err, "list articles failed")
		return
	}

	results := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		results = append(results, toArticleResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.NewPage(r, h.baseURL, page, total, results))
}

// Create handles POST /api/articles/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	actor, _ := auth.FromContext(ctx)

	req, err := httpx.Bind[createArticleRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "invalid article", "error", err.Error())
		httpx.WriteBindError(w, err)
		return
	}

	a, err := h.service.Create(ctx, actor, CreateRequest{
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: req.IsPublished,
		Tags:        req.Tags,
	})
	if err != nil {
		h.writeWriteError(r, w, logger, err, "create article failed")
		return
	}

	logger.InfoContext(ctx, "article created", "article_id", a.ID, "slug", a.Slug)
	httpx.WriteJSON(w, http.StatusCreated, toArticleResponse(a))
}

// writeWriteError renders errors from create and update, where a tag
// conflict is the client's fault and a lost slug race is not.
func (h *Handler) writeWriteError(r *http.Request, w http.ResponseWriter, logger *slog.Logger, err error, msg string) {
	if errors.Is(err, ErrTagExists) {
		logger.WarnContext(r.Context(), msg, "error", err.Error())
		httpx.WriteError(w, http.StatusConflict, "conflict", "A tag with that name already exists.",
			map[string][]string{"tags": {"A tag with that name already exists."}})
		return
	}
	h.fail(r, w, logger, err, msg)
}

// Get handles GET /api/articles/{id}/.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}

	a, err := h.service.Get(ctx, id, auth.ViewerID(ctx))
	if err != nil {
		h.fail(r, w, h.requestLogger(r), err, "get article failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
}

// Replace handles PUT /api/articles/{id}/; title and content are required.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.Bind[createArticleRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}
	h.update(w, r, UpdateRequest{
		Title:       &req.Title,
		Content:     &req.Content,
		IsPublished: req.IsPublished,
		Tags:        &req.Tags,
	})
}

// Patch handles PATCH /api/articles/{id}/.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.Bind[patchArticleRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}
	h.update(w, r, UpdateRequest{
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: req.IsPublished,
		Tags:        req.Tags,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, req UpdateRequest) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	actor, _ := auth.FromContext(ctx)

	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}

	a, err := h.service.Update(ctx, actor, id, req)
	if err != nil {
		h.writeWriteError(r, w, logger, err, "update article failed")
		return
	}

	logger.InfoContext(ctx, "article updated", "article_id", a.ID)
	httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
}

// Delete handles DELETE /api/articles/{id}/.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	actor, _ := auth.FromContext(ctx)

	id, ok := httpx.PathInt64(r, "id")
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found.", nil)
		return
	}

	if err := h.service.Delete(ctx, actor, id); err != nil {
		h.fail(r, w, logger, err, "delete article failed")
		return
	}

	logger.InfoContext(ctx, "article deleted", "article_id", id)
	httpx.WriteNoContent(w)
}

// ListTags handles GET /api/tags/.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r, h.pageSize, h.maxPageSize)

	tags, total, err := h.service.ListTags(r.Context(), page.PageSize, page.Offset())
	if err != nil {
		h.fail(r, w, h.requestLogger(r), err, "list tags failed")
		return
	}

	results := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		results = append(results, toTagResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.NewPage(r, h.baseURL, page, total, results))
}

// CreateTag handles POST /api/tags/.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.Bind[createTagRequest](r)
	if err != nil {
		httpx.WriteBindError(w, err)
		return
	}

	t, err := h.service.CreateTag(ctx, req.Name)
	if err != nil {
		if errx.Is(err, errx.Conflict) {
			logger.WarnContext(ctx, "tag exists", "name", req.Name)
			httpx.WriteError(w, http.StatusConflict, "conflict", "A tag with that name already exists.",
				map[string][]string{"name": {"A tag with that name already exists."}})
			return
		}
		h.fail(r, w, logger, err, "create tag failed")
		return
	}

	logger.InfoContext(ctx, "tag created", "tag_id", t.ID, "slug", t.Slug)
	httpx.WriteJSON(w, http.StatusCreated, toTagResponse(t))
}
