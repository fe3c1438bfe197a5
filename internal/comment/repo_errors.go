package comment

import "github.com/sundayezeilo/blogapi/internal/db/pgerr"

// Comments carry no unique constraints; a foreign key failure means the
// article or author vanished and maps to NotFound.
func mapRepoError(op string, err error) error {
	return pgerr.Map(op, err)
}
