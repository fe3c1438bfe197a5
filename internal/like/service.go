package like

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/events"
)

var (
	// ErrArticleNotFound is returned when a like targets a missing article.
	ErrArticleNotFound = errors.New("article not found")
	// ErrAlreadyLiked is returned by Create when the pair already exists.
	ErrAlreadyLiked = errors.New("already liked")
)

type Service interface {
	// Toggle likes the article if the actor has not, and unlikes it otherwise.
	Toggle(ctx context.Context, actor auth.Principal, articleID int64) (ToggleResult, error)
	// Create likes the article and fails with a Conflict if it is already liked.
	Create(ctx context.Context, actor auth.Principal, articleID int64) (Like, int64, error)
	Get(ctx context.Context, id int64) (Like, error)
	List(ctx context.Context, f ListFilter) ([]Like, int64, error)
	Delete(ctx context.Context, actor auth.Principal, id int64) error
}

type ServiceConfig struct {
	Publisher events.Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

type service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, cfg ServiceConfig) Service {
	s := &service{
		repo:      repo,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) requireArticle(ctx context.Context, op string, articleID int64) error {
	ok, err := s.repo.ArticleExists(ctx, articleID)
	if err != nil {
		return errx.Wrap(op, err)
	}
	if !ok {
		return errx.E(op, errx.NotFound, ErrArticleNotFound)
	}
	return nil
}

// publish never fails the request; the like is already committed.
func (s *service) publish(ctx context.Context, userID, articleID int64, liked bool, count int64) {
	e := events.NewLikeToggled(userID, articleID, liked, count, s.now())
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "publish like event failed",
			"event", e.Name(),
			"user_id", userID,
			"article_id", articleID,
			"error", err.Error(),
		)
	}
}

func (s *service) Toggle(ctx context.Context, actor auth.Principal, articleID int64) (ToggleResult, error) {
	const op = "like.service.Toggle"

	if err := s.requireArticle(ctx, op, articleID); err != nil {
		return ToggleResult{}, err
	}

	res, err := Toggle(ctx, actor.UserID, articleID, s.repo)
	if err != nil {
		// The article can be deleted between the check and the insert.
		if errx.Is(err, errx.NotFound) {
			return ToggleResult{}, errx.E(op, errx.NotFound, ErrArticleNotFound)
		}
		return ToggleResult{}, errx.Wrap(op, err)
	}

	s.publish(ctx, actor.UserID, articleID, res.Liked, res.LikesCount)
	return res, nil
}

func (s *service) Create(ctx context.Context, actor auth.Principal, articleID int64) (Like, int64, error) {
	const op = "like.service.Create"

	if err := s.requireArticle(ctx, op, articleID); err != nil {
		return Like{}, 0, err
	}

	l, err := s.repo.Insert(ctx, actor.UserID, articleID)
	if err != nil {
		switch {
		case errx.Is(err, errx.Conflict):
			return Like{}, 0, errx.E(op, errx.Conflict, ErrAlreadyLiked)
		case errx.Is(err, errx.NotFound):
			return Like{}, 0, errx.E(op, errx.NotFound, ErrArticleNotFound)
		}
		return Like{}, 0, errx.Wrap(op, err)
	}

	n, err := s.repo.Count(ctx, articleID)
	if err != nil {
		return Like{}, 0, errx.Wrap(op, err)
	}
	s.publish(ctx, actor.UserID, articleID, true, n)
	return l, n, nil
}

func (s *service) Get(ctx context.Context, id int64) (Like, error) {
	const op = "like.service.Get"

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return Like{}, errx.Wrap(op, err)
	}
	return l, nil
}

func (s *service) List(ctx context.Context, f ListFilter) ([]Like, int64, error) {
	const op = "like.service.List"

	likes, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, errx.Wrap(op, err)
	}
	return likes, total, nil
}

func (s *service) Delete(ctx context.Context, actor auth.Principal, id int64) error {
	const op = "like.service.Delete"

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return errx.Wrap(op, err)
	}
	if !actor.CanModify(l.UserID) {
		return errx.E(op, errx.Forbidden, errors.New("only the owner can remove this like"))
	}
	if err := s.repo.Delete(ctx, l); err != nil {
		return errx.Wrap(op, err)
	}

	n, err := s.repo.Count(ctx, l.ArticleID)
	if err != nil {
		s.logger.WarnContext(ctx, "count likes after delete failed", "article_id", l.ArticleID, "error", err.Error())
		return nil
	}
	s.publish(ctx, l.UserID, l.ArticleID, false, n)
	return nil
}
