package user

import "context"

// Repository persists users and their profiles.
type Repository interface {
	Create(ctx context.Context, u NewUser) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (User, error)

	// EnsureProfile returns the user's profile, creating it on first use.
	// It is idempotent and safe under concurrent calls for the same user.
	EnsureProfile(ctx context.Context, userID int64) (Profile, error)
	GetProfile(ctx context.Context, id int64) (Profile, error)
	ListProfiles(ctx context.Context, limit, offset int) ([]Profile, int64, error)
	UpdateProfileBio(ctx context.Context, id int64, bio string) (Profile, error)
}
