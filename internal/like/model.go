package like

import "time"

// Like records that a user likes an article. At most one exists per
// (UserID, ArticleID).
type Like struct {
	ID        int64
	UserID    int64
	ArticleID int64
	CreatedAt time.Time
}

// ListFilter narrows a like listing. Zero IDs mean no filter.
type ListFilter struct {
	ArticleID int64
	UserID    int64
	Limit     int
	Offset    int
}
