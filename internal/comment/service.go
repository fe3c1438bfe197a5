package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
)

// ErrArticleNotFound is returned when a comment targets a missing article.
var ErrArticleNotFound = errors.New("article not found")

type Service interface {
	Create(ctx context.Context, actor auth.Principal, articleID int64, content string) (Comment, error)
	Get(ctx context.Context, id int64) (Comment, error)
	List(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int64, error)
	// ListForArticle is List with a NotFound error when the article is missing.
	ListForArticle(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int64, error)
	Update(ctx context.Context, actor auth.Principal, id int64, content string) (Comment, error)
	Delete(ctx context.Context, actor auth.Principal, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
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

func (s *service) Create(ctx context.Context, actor auth.Principal, articleID int64, content string) (Comment, error) {
	const op = "comment.service.Create"

	if strings.TrimSpace(content) == "" {
		return Comment{}, errx.E(op, errx.Invalid, errors.New("content may not be blank"))
	}
	if err := s.requireArticle(ctx, op, articleID); err != nil {
		return Comment{}, err
	}

	c, err := s.repo.Create(ctx, NewComment{ArticleID: articleID, AuthorID: actor.UserID, Content: content})
	if err != nil {
		// The article can be deleted between the check and the insert.
		if errx.Is(err, errx.NotFound) {
			return Comment{}, errx.E(op, errx.NotFound, ErrArticleNotFound)
		}
		return Comment{}, errx.Wrap(op, err)
	}
	c.AuthorUsername = actor.Username
	return c, nil
}

func (s *service) Get(ctx context.Context, id int64) (Comment, error) {
	const op = "comment.service.Get"

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Comment{}, errx.Wrap(op, err)
	}
	return c, nil
}

func (s *service) List(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int64, error) {
	const op = "comment.service.List"

	comments, total, err := s.repo.List(ctx, articleID, limit, offset)
	if err != nil {
		return nil, 0, errx.Wrap(op, err)
	}
	return comments, total, nil
}

func (s *service) ListForArticle(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int64, error) {
	const op = "comment.service.ListForArticle"

	if err := s.requireArticle(ctx, op, articleID); err != nil {
		return nil, 0, err
	}
	return s.List(ctx, articleID, limit, offset)
}

func (s *service) Update(ctx context.Context, actor auth.Principal, id int64, content string) (Comment, error) {
	const op = "comment.service.Update"

	if strings.TrimSpace(content) == "" {
		return Comment{}, errx.E(op, errx.Invalid, errors.New("content may not be blank"))
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Comment{}, errx.Wrap(op, err)
	}
	if !actor.CanModify(current.AuthorID) {
		return Comment{}, errx.E(op, errx.Forbidden, errors.New("only the author can modify this comment"))
	}

	updated, err := s.repo.Update(ctx, id, content)
	if err != nil {
		return Comment{}, errx.Wrap(op, err)
	}
	updated.AuthorUsername = current.AuthorUsername
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor auth.Principal, id int64) error {
	const op = "comment.service.Delete"

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return errx.Wrap(op, err)
	}
	if !actor.CanModify(current.AuthorID) {
		return errx.E(op, errx.Forbidden, errors.New("only the author can delete this comment"))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errx.Wrap(op, err)
	}
	return nil
}
