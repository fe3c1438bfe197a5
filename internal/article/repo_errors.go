package article

import (
	"errors"
	"slices"

	"github.com/sundayezeilo/blogapi/internal/db/pgerr"
	"github.com/sundayezeilo/blogapi/internal/errx"
)

const (
	slugUniqueConstraint    = "articles_slug_unique"
	slugLowerUniqueIndex    = "articles_slug_lower_idx"
	tagNameUniqueConstraint = "tags_name_unique"
	tagSlugUniqueConstraint = "tags_slug_unique"
)

// ErrSlugTaken marks a commit that lost a slug race to another writer.
var ErrSlugTaken = errors.New("slug already taken")

// ErrTagExists is returned when a tag name or slug is already used.
var ErrTagExists = errors.New("tag already exists")

func mapRepoError(op string, err error) error {
	switch c := pgerr.Constraint(err); {
	case slices.Contains([]string{slugUniqueConstraint, slugLowerUniqueIndex}, c):
		return errx.E(op, errx.Conflict, errors.Join(ErrSlugTaken, err))
	case c == tagNameUniqueConstraint || c == tagSlugUniqueConstraint:
		return errx.E(op, errx.Conflict, errors.Join(ErrTagExists, err))
	}
	return pgerr.Map(op, err)
}
