package article

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/sluggen"
)

const (
	MaxTitleLength   = 255
	MaxTagNameLength = 50
	MaxTagSlugLength = 60
	MaxTagsPerPost   = 20

	DefaultOrdering   = "-created_at"
	defaultMaxRetries = 3
)

var orderings = map[string]bool{
	"created_at": true, "-created_at": true,
	"updated_at": true, "-updated_at": true,
	"title": true, "-title": true,
	"likes_count": true, "-likes_count": true,
}

// CreateRequest holds the fields of a new article.
type CreateRequest struct {
	Title       string
	Content     string
	IsPublished *bool
	Tags        []string
}

// UpdateRequest holds optional article changes. Nil means unchanged.
type UpdateRequest struct {
	Title       *string
	Content     *string
	IsPublished *bool
	Tags        *[]string
}

// ListRequest holds the query of an article listing.
type ListRequest struct {
	ViewerID int64
	Search   string
	AuthorID int64
	Tag      string
	Ordering string
	Limit    int
	Offset   int
}

// Service is the article and tag business logic.
type Service interface {
	Create(ctx context.Context, actor auth.Principal, req CreateRequest) (Article, error)
	Get(ctx context.Context, id, viewerID int64) (Article, error)
	List(ctx context.Context, req ListRequest) ([]Article, int64, error)
	Update(ctx context.Context, actor auth.Principal, id int64, req UpdateRequest) (Article, error)
	Delete(ctx context.Context, actor auth.Principal, id int64) error

	ListTags(ctx context.Context, limit, offset int) ([]Tag, int64, error)
	CreateTag(ctx context.Context, name string) (Tag, error)
}

type service struct {
	repo               Repository
	slugs              *sluggen.Allocator
	maxRetries         int
	revalidateOnUpdate bool
	logger             *slog.Logger
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Slugs *sluggen.Allocator
	// MaxRetries bounds how often a slug is reallocated after losing a
	// commit-time race on the unique constraint.
	MaxRetries int
	// RevalidateOnUpdate reallocates the slug when a title changes.
	// Slugs are immutable after creation otherwise.
	RevalidateOnUpdate bool
	Logger             *slog.Logger
}

// NewService creates a new article service.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}
	if config.Slugs == nil {
		config.Slugs = sluggen.New()
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaultMaxRetries
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &service{
		repo:               repo,
		slugs:              config.Slugs,
		maxRetries:         config.MaxRetries,
		revalidateOnUpdate: config.RevalidateOnUpdate,
		logger:             config.Logger,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Principal, req CreateRequest) (Article, error) {
	const op = "article.service.Create"

	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return Article{}, errx.E(op, errx.Invalid, err)
	}
	if strings.TrimSpace(req.Content) == "" {
		return Article{}, errx.E(op, errx.Invalid, errors.New("content is required"))
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return Article{}, errx.E(op, errx.Invalid, err)
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	a, err := s.withSlug(ctx, op, title, 0, func(candidate string) (Article, error) {
		return s.repo.Create(ctx, NewArticle{
			Title:       title,
			Content:     req.Content,
			Slug:        candidate,
			AuthorID:    actor.UserID,
			IsPublished: published,
			Tags:        tags,
		})
	})
	if err != nil {
		return Article{}, err
	}

	a.AuthorUsername = actor.Username
	return a, nil
}

// withSlug allocates a slug for title and hands it to commit. When commit
// loses the race for that slug it allocates again, up to maxRetries times.
func (s *service) withSlug(ctx context.Context, op, title string, excludeID int64, commit func(candidate string) (Article, error)) (Article, error) {
	for attempt := 1; ; attempt++ {
		candidate, err := s.slugs.Allocate(ctx, title, s.repo.SlugExists, excludeID)
		if err != nil {
			if errors.Is(err, sluggen.ErrExhausted) {
				return Article{}, errx.E(op, errx.Unavailable, err)
			}
			return Article{}, errx.Wrap(op, err)
		}

		a, err := commit(candidate)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, ErrSlugTaken) {
			return Article{}, errx.Wrap(op, err)
		}

		s.logger.WarnContext(ctx, "slug taken at commit, reallocating",
			"slug", candidate,
			"attempt", attempt,
		)
		if attempt >= s.maxRetries {
			return Article{}, errx.E(op, errx.Unavailable, sluggen.ErrExhausted)
		}
	}
}

func (s *service) Get(ctx context.Context, id, viewerID int64) (Article, error) {
	const op = "article.service.Get"

	a, err := s.repo.Get(ctx, id, viewerID)
	if err != nil {
		return Article{}, errx.Wrap(op, err)
	}
	return a, nil
}

func (s *service) List(ctx context.Context, req ListRequest) ([]Article, int64, error) {
	const op = "article.service.List"

	ordering := strings.TrimSpace(req.Ordering)
	if !orderings[ordering] {
		ordering = DefaultOrdering
	}

	articles, total, err := s.repo.List(ctx, ListFilter{
		ViewerID: req.ViewerID,
		Search:   strings.TrimSpace(req.Search),
		AuthorID: req.AuthorID,
		Tag:      strings.TrimSpace(req.Tag),
		Ordering: ordering,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return nil, 0, errx.Wrap(op, err)
	}
	return articles, total, nil
}

func (s *service) Update(ctx context.Context, actor auth.Principal, id int64, req UpdateRequest) (Article, error) {
	const op = "article.service.Update"

	current, err := s.repo.Get(ctx, id, actor.UserID)
	if err != nil {
		return Article{}, errx.Wrap(op, err)
	}
	if !actor.CanModify(current.AuthorID) {
		return Article{}, errx.E(op, errx.Forbidden, errors.New("only the author can modify this article"))
	}

	var patch ArticlePatch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateTitle(title); err != nil {
			return Article{}, errx.E(op, errx.Invalid, err)
		}
		patch.Title = &title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return Article{}, errx.E(op, errx.Invalid, errors.New("content may not be blank"))
		}
		patch.Content = req.Content
	}
	patch.IsPublished = req.IsPublished
	if req.Tags != nil {
		tags, err := normalizeTags(*req.Tags)
		if err != nil {
			return Article{}, errx.E(op, errx.Invalid, err)
		}
		patch.Tags = &tags
	}

	commit := func(candidate string) (Article, error) {
		if candidate != "" {
			patch.Slug = &candidate
		}
		return s.repo.Update(ctx, id, patch)
	}

	var updated Article
	if s.revalidateOnUpdate && patch.Title != nil && *patch.Title != current.Title {
		updated, err = s.withSlug(ctx, op, *patch.Title, id, commit)
	} else {
		updated, err = commit("")
	}
	if err != nil {
		return Article{}, errx.Wrap(op, err)
	}

	updated.AuthorUsername = current.AuthorUsername
	updated.LikesCount = current.LikesCount
	updated.UserLiked = current.UserLiked
	if patch.Tags == nil {
		updated.Tags = current.Tags
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor auth.Principal, id int64) error {
	const op = "article.service.Delete"

	current, err := s.repo.Get(ctx, id, actor.UserID)
	if err != nil {
		return errx.Wrap(op, err)
	}
	if !actor.CanModify(current.AuthorID) {
		return errx.E(op, errx.Forbidden, errors.New("only the author can delete this article"))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errx.Wrap(op, err)
	}
	return nil
}

func (s *service) ListTags(ctx context.Context, limit, offset int) ([]Tag, int64, error) {
	const op = "article.service.ListTags"

	tags, total, err := s.repo.ListTags(ctx, limit, offset)
	if err != nil {
		return nil, 0, errx.Wrap(op, err)
	}
	return tags, total, nil
}

func (s *service) CreateTag(ctx context.Context, name string) (Tag, error) {
	const op = "article.service.CreateTag"

	t, err := newTag(name)
	if err != nil {
		return Tag{}, errx.E(op, errx.Invalid, err)
	}
	created, err := s.repo.CreateTag(ctx, t)
	if err != nil {
		return Tag{}, errx.Wrap(op, err)
	}
	return created, nil
}

func validateTitle(title string) error {
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errors.New("title too long (maximum 255 characters)")
	}
	return nil
}

func newTag(name string) (NewTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewTag{}, errors.New("tag name is required")
	}
	if utf8.RuneCountInString(name) > MaxTagNameLength {
		return NewTag{}, errors.New("tag name too long (maximum 50 characters)")
	}
	s := slug.Make(name)
	if runes := []rune(s); len(runes) > MaxTagSlugLength {
		// Transliteration can outgrow the name.
		s = strings.TrimRight(string(runes[:MaxTagSlugLength]), "-")
	}
	if s == "" {
		return NewTag{}, errors.New("tag name must contain a letter or digit")
	}
	return NewTag{Name: name, Slug: s}, nil
}

// normalizeTags trims names and drops duplicates, keeping first-seen order.
func normalizeTags(names []string) ([]NewTag, error) {
	if len(names) > MaxTagsPerPost {
		return nil, errors.New("too many tags (maximum 20)")
	}
	seen := make(map[string]bool, len(names))
	out := make([]NewTag, 0, len(names))
	for _, n := range names {
		t, err := newTag(n)
		if err != nil {
			return nil, err
		}
		if seen[t.Slug] {
			continue
		}
		seen[t.Slug] = true
		out = append(out, t)
	}
	return out, nil
}
