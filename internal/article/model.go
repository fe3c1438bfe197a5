package article

import "time"

type Article struct {
	ID             int64
	Title          string
	Content        string
	Slug           string
	AuthorID       int64
	AuthorUsername string
	IsPublished    bool
	Tags           []Tag
	LikesCount     int64
	UserLiked      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Tag struct {
	ID   int64
	Name string
	Slug string
}

// NewTag is a tag name with its precomputed slug.
type NewTag struct {
	Name string
	Slug string
}

// NewArticle carries the fields for article creation. Slug is already allocated.
type NewArticle struct {
	Title       string
	Content     string
	Slug        string
	AuthorID    int64
	IsPublished bool
	Tags        []NewTag
}

// ArticlePatch lists the fields an update may change. Nil means unchanged;
// a non-nil Tags replaces the whole tag set.
type ArticlePatch struct {
	Title       *string
	Content     *string
	IsPublished *bool
	Slug        *string
	Tags        *[]NewTag
}

// ListFilter narrows and orders an article listing. Zero values mean no filter.
type ListFilter struct {
	ViewerID int64
	Search   string
	AuthorID int64
	Tag      string
	Ordering string
	Limit    int
	Offset   int
}
