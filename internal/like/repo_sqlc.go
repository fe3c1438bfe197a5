package like

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/blogapi/internal/db/sqlc"
)

type querier interface {
	ArticleExists(ctx context.Context, id int64) (bool, error)
	FindLike(ctx context.Context, arg db.FindLikeParams) (db.Like, error)
	GetLike(ctx context.Context, id int64) (db.Like, error)
	CreateLike(ctx context.Context, arg db.CreateLikeParams) (db.Like, error)
	DeleteLike(ctx context.Context, id int64) (int64, error)
	CountLikes(ctx context.Context, articleID int64) (int64, error)
	ListLikes(ctx context.Context, arg db.ListLikesParams) ([]db.Like, error)
	CountLikesFiltered(ctx context.Context, arg db.CountLikesFilteredParams) (int64, error)
}

type repo struct {
	q querier
}

// NewRepository returns a Repository backed by sqlc queries. It must run
// outside an explicit transaction: a unique violation aborts a Postgres
// transaction and the follow-up count would fail.
func NewRepository(q querier) Repository {
	return &repo{q: q}
}

func toDomainLike(x db.Like) (Like, error) {
	if !x.CreatedAt.Valid {
		return Like{}, fmt.Errorf("created_at unexpectedly NULL")
	}
	return Like{
		ID:        x.ID,
		UserID:    x.UserID,
		ArticleID: x.ArticleID,
		CreatedAt: x.CreatedAt.Time,
	}, nil
}

func optionalID(id int64) pgtype.Int8 {
	return pgtype.Int8{Int64: id, Valid: id > 0}
}

func (r *repo) ArticleExists(ctx context.Context, articleID int64) (bool, error) {
	const op = "like.repo.ArticleExists"

	ok, err := r.q.ArticleExists(ctx, articleID)
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return ok, nil
}

func (r *repo) FindOne(ctx context.Context, userID, articleID int64) (Like, bool, error) {
	const op = "like.repo.FindOne"

	row, err := r.q.FindLike(ctx, db.FindLikeParams{UserID: userID, ArticleID: articleID})
	if errors.Is(err, pgx.ErrNoRows) {
		return Like{}, false, nil
	}
	if err != nil {
		return Like{}, false, mapRepoError(op, err)
	}
	l, err := toDomainLike(row)
	if err != nil {
		return Like{}, false, err
	}
	return l, true, nil
}

func (r *repo) Insert(ctx context.Context, userID, articleID int64) (Like, error) {
	const op = "like.repo.Insert"

	row, err := r.q.CreateLike(ctx, db.CreateLikeParams{UserID: userID, ArticleID: articleID})
	if err != nil {
		return Like{}, mapRepoError(op, err)
	}
	return toDomainLike(row)
}

// Delete removes l. A row already removed by a concurrent request is not an error.
func (r *repo) Delete(ctx context.Context, l Like) error {
	const op = "like.repo.Delete"

	if _, err := r.q.DeleteLike(ctx, l.ID); err != nil {
		return mapRepoError(op, err)
	}
	return nil
}

func (r *repo) Count(ctx context.Context, articleID int64) (int64, error) {
	const op = "like.repo.Count"

	n, err := r.q.CountLikes(ctx, articleID)
	if err != nil {
		return 0, mapRepoError(op, err)
	}
	return n, nil
}

func (r *repo) Get(ctx context.Context, id int64) (Like, error) {
	const op = "like.repo.Get"

	row, err := r.q.GetLike(ctx, id)
	if err != nil {
		return Like{}, mapRepoError(op, err)
	}
	return toDomainLike(row)
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]Like, int64, error) {
	const op = "like.repo.List"

	article, user := optionalID(f.ArticleID), optionalID(f.UserID)

	total, err := r.q.CountLikesFiltered(ctx, db.CountLikesFilteredParams{ArticleID: article, UserID: user})
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}
	rows, err := r.q.ListLikes(ctx, db.ListLikesParams{
		ArticleID:  article,
		UserID:     user,
		PageLimit:  int32(f.Limit),
		PageOffset: int32(f.Offset),
	})
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}

	likes := make([]Like, 0, len(rows))
	for _, row := range rows {
		l, err := toDomainLike(row)
		if err != nil {
			return nil, 0, err
		}
		likes = append(likes, l)
	}
	return likes, total, nil
}

