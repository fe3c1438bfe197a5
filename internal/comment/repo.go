package comment

import "context"

// Repository persists comments.
type Repository interface {
	ArticleExists(ctx context.Context, articleID int64) (bool, error)

	Create(ctx context.Context, c NewComment) (Comment, error)
	Get(ctx context.Context, id int64) (Comment, error)
	// List returns comments oldest first. articleID 0 lists every article.
	List(ctx context.Context, articleID int64, limit, offset int) ([]Comment, int64, error)
	Update(ctx context.Context, id int64, content string) (Comment, error)
	Delete(ctx context.Context, id int64) error
}
