package article

import "context"

// Repository persists articles and tags.
type Repository interface {
	// SlugExists reports whether slug is used by an article other than excludeID.
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)

	Create(ctx context.Context, a NewArticle) (Article, error)
	Get(ctx context.Context, id, viewerID int64) (Article, error)
	List(ctx context.Context, f ListFilter) ([]Article, int64, error)
	Update(ctx context.Context, id int64, patch ArticlePatch) (Article, error)
	Delete(ctx context.Context, id int64) error

	ListTags(ctx context.Context, limit, offset int) ([]Tag, int64, error)
	CreateTag(ctx context.Context, t NewTag) (Tag, error)
}
