package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/blogapi/internal/db/sqlc"
)

type querier interface {
	ArticleExists(ctx context.Context, id int64) (bool, error)
	CreateComment(ctx context.Context, arg db.CreateCommentParams) (db.Comment, error)
	GetComment(ctx context.Context, id int64) (db.GetCommentRow, error)
	ListComments(ctx context.Context, arg db.ListCommentsParams) ([]db.ListCommentsRow, error)
	CountComments(ctx context.Context, articleID pgtype.Int8) (int64, error)
	UpdateComment(ctx context.Context, arg db.UpdateCommentParams) (db.Comment, error)
	DeleteComment(ctx context.Context, id int64) (int64, error)
}

type repo struct {
	q querier
}

// NewRepository returns a Repository backed by sqlc queries.
func NewRepository(q querier) Repository {
	return &repo{q: q}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func toDomainComment(x db.GetCommentRow) (Comment, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Comment{}, err
	}
	updatedAt, err := mustTime(x.UpdatedAt, "updated_at")
	if err != nil {
		return Comment{}, err
	}
	return Comment{
		ID:             x.ID,
		ArticleID:      x.ArticleID,
		AuthorID:       x.AuthorID,
		AuthorUsername: x.AuthorUsername,
		Content:        x.Content,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

func fromRow(x db.Comment) db.GetCommentRow {
	return db.GetCommentRow{
		ID:        x.ID,
		ArticleID: x.ArticleID,
		AuthorID:  x.AuthorID,
		Content:   x.Content,
		CreatedAt: x.CreatedAt,
		UpdatedAt: x.UpdatedAt,
	}
}

func (r *repo) ArticleExists(ctx context.Context, articleID int64) (bool, error) {
	const op = "comment.repo.ArticleExists"

	ok, err := r.q.ArticleExists(ctx, articleID)
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return ok, nil
}

func (r *repo) Create(ctx context.Context, c NewComment) (Comment, error) {
	const op = "comment.repo.Create"

	row, err := r.q.CreateComment(ctx, db.CreateCommentParams{
		ArticleID: c.ArticleID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
	})
	if err != nil {
		return Comment{}, mapRepoError(op, err)
	}
	return toDomainComment(fromRow(row))
}

func (r *repo) Get(ctx context.Context, id int64) (Comment, error) {
	const op = "comment.repo.Get"

	row, err := r.q.GetComment(ctx, id)
	if err != nil {
		return Comment{}, mapRepoError(op, err)
	}
	return toDomainComment(row)
}

func (r *repo) List(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int64, error) {
	const op = "comment.repo.List"

	var article pgtype.Int8
	if articleID > 0 {
		article = pgtype.Int8{Int64: articleID, Valid: true}
	}

	total, err := r.q.CountComments(ctx, article)
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}
	rows, err := r.q.ListComments(ctx, db.ListCommentsParams{
		ArticleID:  article,
		PageLimit:  int32(limit),
		PageOffset: int32(offset),
	})
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}

	comments := make([]Comment, 0, len(rows))
	for _, row := range rows {
		c, err := toDomainComment(db.GetCommentRow(row))
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	return comments, total, nil
}

func (r *repo) Update(ctx context.Context, id int64, content string) (Comment, error) {
	const op = "comment.repo.Update"

	row, err := r.q.UpdateComment(ctx, db.UpdateCommentParams{ID: id, Content: content})
	if err != nil {
		return Comment{}, mapRepoError(op, err)
	}
	return toDomainComment(fromRow(row))
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const op = "comment.repo.Delete"

	n, err := r.q.DeleteComment(ctx, id)
	if err != nil {
		return mapRepoError(op, err)
	}
	if n == 0 {
		return mapRepoError(op, pgx.ErrNoRows)
	}
	return nil
}
