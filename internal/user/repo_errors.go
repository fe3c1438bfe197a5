package user

import "github.com/sundayezeilo/blogapi/internal/db/pgerr"

const (
	usernameUniqueConstraint    = "users_username_unique"
	profileUserUniqueConstraint = "user_profiles_user_unique"
)

func mapRepoError(op string, err error) error {
	return pgerr.Map(op, err, usernameUniqueConstraint, profileUserUniqueConstraint)
}
