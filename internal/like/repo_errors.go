package like

import "github.com/sundayezeilo/blogapi/internal/db/pgerr"

const userArticleUniqueConstraint = "likes_user_article_unique"

// A duplicate pair is a Conflict; a foreign key failure (article gone) is NotFound.
func mapRepoError(op string, err error) error {
	return pgerr.Map(op, err, userArticleUniqueConstraint)
}
