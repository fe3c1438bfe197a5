package like

import "context"

// Repository is the like store plus the lookups the HTTP surface needs.
type Repository interface {
	Store
	ArticleExists(ctx context.Context, articleID int64) (bool, error)
	Get(ctx context.Context, id int64) (Like, error)
	List(ctx context.Context, f ListFilter) ([]Like, int64, error)
}
