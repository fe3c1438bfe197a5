package user

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	DateJoined   time.Time
}

// Profile is the public, per-user record that authors and likers hang off.
type Profile struct {
	ID        int64
	UserID    int64
	Username  string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser carries the fields for account creation; the password is already hashed.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
}

// UserPatch lists the account fields a PATCH may change. Nil means unchanged.
type UserPatch struct {
	Email        *string
	PasswordHash *string
}
