package comment

import "time"

type Comment struct {
	ID             int64
	ArticleID      int64
	AuthorID       int64
	AuthorUsername string
	Content        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type NewComment struct {
	ArticleID int64
	AuthorID  int64
	Content   string
}
