package user

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/blogapi/internal/db/sqlc"
)

// querier is the subset of *db.Queries the user repository needs.
type querier interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUserByID(ctx context.Context, id int64) (db.User, error)
	GetUserByUsername(ctx context.Context, username string) (db.User, error)
	UpdateUser(ctx context.Context, arg db.UpdateUserParams) (db.User, error)
	EnsureProfile(ctx context.Context, userID int64) (db.UserProfile, error)
	GetProfile(ctx context.Context, id int64) (db.GetProfileRow, error)
	ListProfiles(ctx context.Context, arg db.ListProfilesParams) ([]db.ListProfilesRow, error)
	CountProfiles(ctx context.Context) (int64, error)
	UpdateProfileBio(ctx context.Context, arg db.UpdateProfileBioParams) (db.UserProfile, error)
}

type repo struct {
	q querier
}

// NewRepository returns a Repository backed by sqlc queries.
func NewRepository(q querier) Repository {
	return &repo{q: q}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func toDomainUser(x db.User) (User, error) {
	joined, err := mustTime(x.DateJoined, "date_joined")
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           x.ID,
		Username:     x.Username,
		Email:        x.Email,
		PasswordHash: x.PasswordHash,
		IsStaff:      x.IsStaff,
		DateJoined:   joined,
	}, nil
}

func toDomainProfile(id, userID int64, username, bio string, created, updated pgtype.Timestamptz) (Profile, error) {
	createdAt, err := mustTime(created, "created_at")
	if err != nil {
		return Profile{}, err
	}
	updatedAt, err := mustTime(updated, "updated_at")
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:        id,
		UserID:    userID,
		Username:  username,
		Bio:       bio,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (r *repo) Create(ctx context.Context, u NewUser) (User, error) {
	const op = "user.repo.Create"

	row, err := r.q.CreateUser(ctx, db.CreateUserParams{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
	})
	if err != nil {
		return User{}, mapRepoError(op, err)
	}
	return toDomainUser(row)
}

func (r *repo) GetByID(ctx context.Context, id int64) (User, error) {
	const op = "user.repo.GetByID"

	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return User{}, mapRepoError(op, err)
	}
	return toDomainUser(row)
}

func (r *repo) GetByUsername(ctx context.Context, username string) (User, error) {
	const op = "user.repo.GetByUsername"

	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return User{}, mapRepoError(op, err)
	}
	return toDomainUser(row)
}

func (r *repo) Update(ctx context.Context, id int64, patch UserPatch) (User, error) {
	const op = "user.repo.Update"

	row, err := r.q.UpdateUser(ctx, db.UpdateUserParams{
		ID:           id,
		Email:        textOrNull(patch.Email),
		PasswordHash: textOrNull(patch.PasswordHash),
	})
	if err != nil {
		return User{}, mapRepoError(op, err)
	}
	return toDomainUser(row)
}

func (r *repo) EnsureProfile(ctx context.Context, userID int64) (Profile, error) {
	const op = "user.repo.EnsureProfile"

	row, err := r.q.EnsureProfile(ctx, userID)
	if err != nil {
		return Profile{}, mapRepoError(op, err)
	}
	return toDomainProfile(row.ID, row.UserID, "", row.Bio, row.CreatedAt, row.UpdatedAt)
}

func (r *repo) GetProfile(ctx context.Context, id int64) (Profile, error) {
	const op = "user.repo.GetProfile"

	row, err := r.q.GetProfile(ctx, id)
	if err != nil {
		return Profile{}, mapRepoError(op, err)
	}
	return toDomainProfile(row.ID, row.UserID, row.Username, row.Bio, row.CreatedAt, row.UpdatedAt)
}

func (r *repo) ListProfiles(ctx context.Context, limit, offset int) ([]Profile, int64, error) {
	const op = "user.repo.ListProfiles"

	total, err := r.q.CountProfiles(ctx)
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}

	rows, err := r.q.ListProfiles(ctx, db.ListProfilesParams{Limit: int32(limit), Offset: int32(offset)})
	if err != nil {
		return nil, 0, mapRepoError(op, err)
	}

	profiles := make([]Profile, 0, len(rows))
	for _, row := range rows {
		p, err := toDomainProfile(row.ID, row.UserID, row.Username, row.Bio, row.CreatedAt, row.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}
	return profiles, total, nil
}

func (r *repo) UpdateProfileBio(ctx context.Context, id int64, bio string) (Profile, error) {
	const op = "user.repo.UpdateProfileBio"

	row, err := r.q.UpdateProfileBio(ctx, db.UpdateProfileBioParams{ID: id, Bio: bio})
	if err != nil {
		return Profile{}, mapRepoError(op, err)
	}
	return toDomainProfile(row.ID, row.UserID, "", row.Bio, row.CreatedAt, row.UpdatedAt)
}
