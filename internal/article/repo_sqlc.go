package article

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/sundayezeilo/blogapi/internal/db/sqlc"
)

// querier is the subset of *db.Queries the article repository needs.
type querier interface {
	ArticleSlugExists(ctx context.Context, arg db.ArticleSlugExistsParams) (bool, error)
	CreateArticle(ctx context.Context, arg db.CreateArticleParams) (db.Article, error)
	GetArticle(ctx context.Context, arg db.GetArticleParams) (db.GetArticleRow, error)
	ListArticles(ctx context.Context, arg db.ListArticlesParams) ([]db.ListArticlesRow, error)
	CountArticles(ctx context.Context, arg db.CountArticlesParams) (int64, error)
	UpdateArticle(ctx context.Context, arg db.UpdateArticleParams) (db.Article, error)
	DeleteArticle(ctx context.Context, id int64) (int64, error)

	UpsertTag(ctx context.Context, arg db.UpsertTagParams) (db.Tag, error)
	AddArticleTag(ctx context.Context, arg db.AddArticleTagParams) error
	ClearArticleTags(ctx context.Context, articleID int64) error
	ListTagsForArticles(ctx context.Context, articleIds []int64) ([]db.ListTagsForArticlesRow, error)
	ListTags(ctx context.Context, arg db.ListTagsParams) ([]db.Tag, error)
	CountTags(ctx context.Context) (int64, error)
	CreateTag(ctx context.Context, arg db.CreateTagParams) (db.Tag, error)
}

type repo struct {
	q querier
	// inTx runs fn so that every statement it issues commits or rolls back together.
	inTx func(ctx context.Context, fn func(q querier) error) error
}

// NewRepository returns a Repository over q. Multi-statement writes run
// directly on q, so q should already be transaction-scoped if atomicity matters.
func NewRepository(q querier) Repository {
	return &repo{
		q: q,
		inTx: func(_ context.Context, fn func(querier) error) error {
			return fn(q)
		},
	}
}

// NewPostgresRepository returns a Repository over pool whose article writes
// and tag links commit in a single transaction.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	base := db.New(pool)
	return &repo{
		q: base,
		inTx: func(ctx context.Context, fn func(querier) error) error {
			return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
				return fn(base.WithTx(tx))
			})
		},
	}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func nonEmptyText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func positiveInt8(v int64) pgtype.Int8 {
	if v <= 0 {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: v, Valid: true}
}

func toDomainArticle(x db.Article) (Article, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Article{}, err
	}
	updatedAt, err := mustTime(x.UpdatedAt, "updated_at")
	if err != nil {
		return Article{}, err
	}
	return Article{
		ID:          x.ID,
		Title:       x.Title,
		Content:     x.Content,
		Slug:        x.Slug,
		AuthorID:    x.AuthorID,
		IsPublished: x.IsPublished,
		Tags:        []Tag{},
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// toDomainListed converts the joined read rows, which share one column layout.
func toDomainListed(x db.GetArticleRow) (Article, error) {
	a, err := toDomainArticle(db.Article{
		ID:          x.ID,
		Title:       x.Title,
		Content:     x.Content,
		Slug:        x.Slug,
		AuthorID:    x.AuthorID,
		IsPublished: x.IsPublished,
		CreatedAt:   x.CreatedAt,
		UpdatedAt:   x.UpdatedAt,
	})
	if err != nil {
		return Article{}, err
	}
	a.AuthorUsername = x.AuthorUsername
	a.LikesCount = x.LikesCount
	a.UserLiked = x.UserLiked
	return a, nil
}

func toDomainTag(x db.Tag) Tag {
	return Tag{ID: x.ID, Name: x.Name, Slug: x.Slug}
}

func (r *repo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	const op = "article.repo.SlugExists"

	taken, err := r.q.ArticleSlugExists(ctx, db.ArticleSlugExistsParams{Slug: slug, ExcludeID: excludeID})
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return taken, nil
}

func (r *repo) Create(ctx context.Context, a NewArticle) (Article, error) {
	const op = "article.repo.Create"

	var out Article
	err := r.inTx(ctx, func(q querier) error {
		row, err := q.CreateArticle(ctx, db.CreateArticleParams{
			Title:       a.Title,
			Content:     a.Content,
			Slug:        a.Slug,
			AuthorID:    a.AuthorID,
			IsPublished: a.IsPublished,
		})
		if err != nil {
			return err
		}

		out, err = toDomainArticle(row)
		if err != nil {
			return err
		}
		out.Tags, err = attachTags(ctx, q, row.ID, a.Tags)
		return err
	})
	if err != nil {
		return Article{}, mapRepoError(op, err)
	}
	return out, nil
}

func attachTags(ctx context.Context, q querier, articleID int64, tags []NewTag) ([]Tag, error) {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		row, err := q.UpsertTag(ctx, db.UpsertTagParams{Name: t.Name, Slug: t.Slug})
		if err != nil {
			return nil, err
		}
		if err := q.AddArticleTag(ctx, db.AddArticleTagParams{ArticleID: articleID, TagID: row.ID}); err != nil {
			return nil, err
		}
		out = append(out, toDomainTag(row))
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, id, viewerID int64) (Article, error) {
	const op = "article.repo.Get"

	row, err := r.q.GetArticle(ctx, db.GetArticleParams{ViewerID: viewerID, ID: id})
	if err != nil {
		return Article{}, mapRepoError(op, err)
	}
	a, err := toDomainListed(row)
	if err != nil {
		return Article{}, err
	}

	tags, err := r.tagsFor(ctx, []int64{id})
	if err != nil {
		return Article{}, mapRepoError(op, err)
	}
	if t, ok := tags[id]; ok {
		a.Tags = t
	}
	return a, nil
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]Article, int64, error) {
	const op = "article.repo.List"

	search := nonEmptyText(f.Search)
	author := positiveInt8(f.AuthorID)
	tag := nonEmptyText(f.Tag)

	total, err := r.q.CountArticles(ctx, db.CountArticlesParams{Search: search, AuthorID: author, Tag: tag})
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}

	rows, err := r.q.ListArticles(ctx, db.ListArticlesParams{
		ViewerID:   f.ViewerID,
		Search:     search,
		AuthorID:   author,
		Tag:        tag,
		Ordering:   f.Ordering,
		PageLimit:  int32(f.Limit),
		PageOffset: int32(f.Offset),
	})
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}

	articles := make([]Article, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		a, err := toDomainListed(db.GetArticleRow(row))
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, a)
		ids = append(ids, a.ID)
	}

	if len(ids) > 0 {
		tags, err := r.tagsFor(ctx, ids)
		if err != nil {
			return nil, 0, mapRepoError(op, err)
		}
		for i := range articles {
			if t, ok := tags[articles[i].ID]; ok {
				articles[i].Tags = t
			}
		}
	}
	return articles, total, nil
}

func (r *repo) tagsFor(ctx context.Context, ids []int64) (map[int64][]Tag, error) {
	rows, err := r.q.ListTagsForArticles(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]Tag, len(ids))
	for _, row := range rows {
		out[row.ArticleID] = append(out[row.ArticleID], Tag{ID: row.ID, Name: row.Name, Slug: row.Slug})
	}
	return out, nil
}

func (r *repo) Update(ctx context.Context, id int64, patch ArticlePatch) (Article, error) {
	const op = "article.repo.Update"

	var out Article
	err := r.inTx(ctx, func(q querier) error {
		params := db.UpdateArticleParams{
			ID:      id,
			Title:   textOrNull(patch.Title),
			Content: textOrNull(patch.Content),
			Slug:    textOrNull(patch.Slug),
		}
		if patch.IsPublished != nil {
			params.IsPublished = pgtype.Bool{Bool: *patch.IsPublished, Valid: true}
		}

		row, err := q.UpdateArticle(ctx, params)
		if err != nil {
			return err
		}
		out, err = toDomainArticle(row)
		if err != nil {
			return err
		}

		if patch.Tags == nil {
			return nil
		}
		if err := q.ClearArticleTags(ctx, id); err != nil {
			return err
		}
		out.Tags, err = attachTags(ctx, q, id, *patch.Tags)
		return err
	})
	if err != nil {
		return Article{}, mapRepoError(op, err)
	}
	return out, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const op = "article.repo.Delete"

	n, err := r.q.DeleteArticle(ctx, id)
	if err != nil {
		return mapRepoError(op, err)
	}
	if n == 0 {
		return mapRepoError(op, pgx.ErrNoRows)
	}
	return nil
}

func (r *repo) ListTags(ctx context.Context, limit, offset int) ([]Tag, int64, error) {
	const op = "article.repo.ListTags"

	total, err := r.q.CountTags(ctx)
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}
	rows, err := r.q.ListTags(ctx, db.ListTagsParams{Limit: int32(limit), Offset: int32(offset)})
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}

	tags := make([]Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, toDomainTag(row))
	}
	return tags, total, nil
}

func (r *repo) CreateTag(ctx context.Context, t NewTag) (Tag, error) {
	const op = "article.repo.CreateTag"

	row, err := r.q.CreateTag(ctx, db.CreateTagParams{Name: t.Name, Slug: t.Slug})
	if err != nil {
		return Tag{}, mapRepoError(op, err)
	}
	return toDomainTag(row), nil
}
