// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"time"
)

const LikeToggledName = "like.toggled"

// Event is anything that can be published; Name becomes the message type.
type Event interface {
	Name() string
}

// LikeToggled is emitted after every successful like toggle.
type LikeToggled struct {
	Event      string    `json:"event"`
	UserID     int64     `json:"user_id"`
	ArticleID  int64     `json:"article_id"`
	Liked      bool      `json:"liked"`
	LikesCount int64     `json:"likes_count"`
	At         time.Time `json:"at"`
}

func NewLikeToggled(userID, articleID int64, liked bool, likesCount int64, at time.Time) LikeToggled {
	return LikeToggled{
		Event:      LikeToggledName,
		UserID:     userID,
		ArticleID:  articleID,
		Liked:      liked,
		LikesCount: likesCount,
		At:         at.UTC(),
	}
}

func (LikeToggled) Name() string { return LikeToggledName }

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
