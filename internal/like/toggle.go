package like

import (
	"context"

	"github.com/sundayezeilo/blogapi/internal/errx"
)

// Store is the persistence Toggle needs. Insert must report a duplicate
// (user, article) pair as an errx.Conflict.
type Store interface {
	FindOne(ctx context.Context, userID, articleID int64) (Like, bool, error)
	Insert(ctx context.Context, userID, articleID int64) (Like, error)
	Delete(ctx context.Context, l Like) error
	Count(ctx context.Context, articleID int64) (int64, error)
}

// ToggleResult is the state after a toggle. Like is set only when this call
// inserted the row.
type ToggleResult struct {
	Liked      bool
	LikesCount int64
	Like       *Like
}

// Toggle flips whether userID likes articleID. A concurrent insert of the
// same pair is reported as liked rather than as an error; LikesCount is
// always read after the mutation.
func Toggle(ctx context.Context, userID, articleID int64, store Store) (ToggleResult, error) {
	const op = "like.Toggle"

	existing, found, err := store.FindOne(ctx, userID, articleID)
	if err != nil {
		return ToggleResult{}, errx.Wrap(op, err)
	}

	if found {
		if err := store.Delete(ctx, existing); err != nil {
			return ToggleResult{}, errx.Wrap(op, err)
		}
		return counted(ctx, op, store, articleID, ToggleResult{Liked: false})
	}

	created, err := store.Insert(ctx, userID, articleID)
	switch {
	case err == nil:
		return counted(ctx, op, store, articleID, ToggleResult{Liked: true, Like: &created})
	case errx.Is(err, errx.Conflict):
		// lost the race to a concurrent toggle for the same pair
		return counted(ctx, op, store, articleID, ToggleResult{Liked: true})
	default:
		return ToggleResult{}, errx.Wrap(op, err)
	}
}

func counted(ctx context.Context, op string, store Store, articleID int64, res ToggleResult) (ToggleResult, error) {
	n, err := store.Count(ctx, articleID)
	if err != nil {
		return ToggleResult{}, errx.Wrap(op, err)
	}
	res.LikesCount = n
	return res, nil
}
