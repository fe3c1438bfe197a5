package user

import (
	"context"
	"errors"
	"strings"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/httpx"
)

const (
	MaxUsernameLength = 150
	MaxBioLength      = 2000
)

// RegisterRequest holds the fields of a new account.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// UpdateAccountRequest holds optional account changes. Nil means unchanged.
type UpdateAccountRequest struct {
	Email    *string
	Password *string
}

// Service is the account and profile business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (User, Profile, error)
	Authenticate(ctx context.Context, username, password string) (auth.Principal, error)
	Get(ctx context.Context, id int64) (User, error)
	UpdateAccount(ctx context.Context, actor auth.Principal, id int64, req UpdateAccountRequest) (User, error)

	EnsureProfile(ctx context.Context, userID int64) (Profile, error)
	GetProfile(ctx context.Context, id int64) (Profile, error)
	ListProfiles(ctx context.Context, limit, offset int) ([]Profile, int64, error)
	UpdateProfile(ctx context.Context, actor auth.Principal, id int64, bio string) (Profile, error)
}

type service struct {
	repo       Repository
	bcryptCost int
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	BcryptCost int
}

// NewService creates a new user service.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}
	return &service{repo: repo, bcryptCost: config.BcryptCost}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (User, Profile, error) {
	const op = "user.service.Register"

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRegister(req); err != nil {
		return User{}, Profile{}, errx.E(op, errx.Invalid, err)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return User{}, Profile{}, errx.E(op, errx.Internal, err)
	}

	u, err := s.repo.Create(ctx, NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return User{}, Profile{}, errx.Wrap(op, err)
	}

	p, err := s.repo.EnsureProfile(ctx, u.ID)
	if err != nil {
		return User{}, Profile{}, errx.Wrap(op, err)
	}
	p.Username = u.Username

	return u, p, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (auth.Principal, error) {
	const op = "user.service.Authenticate"

	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errx.Is(err, errx.NotFound) {
			return auth.Principal{}, errx.E(op, errx.Unauthorized, errors.New("invalid credentials"))
		}
		return auth.Principal{}, errx.Wrap(op, err)
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return auth.Principal{}, errx.E(op, errx.Unauthorized, errors.New("invalid credentials"))
	}

	return auth.Principal{UserID: u.ID, Username: u.Username, IsStaff: u.IsStaff}, nil
}

func (s *service) Get(ctx context.Context, id int64) (User, error) {
	const op = "user.service.Get"

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, errx.Wrap(op, err)
	}
	return u, nil
}

func (s *service) UpdateAccount(ctx context.Context, actor auth.Principal, id int64, req UpdateAccountRequest) (User, error) {
	const op = "user.service.UpdateAccount"

	if !actor.CanModify(id) {
		return User{}, errx.E(op, errx.Forbidden, errors.New("cannot modify another user's account"))
	}

	var patch UserPatch
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		patch.Email = &email
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return User{}, errx.E(op, errx.Invalid, err)
		}
		hash, err := auth.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return User{}, errx.E(op, errx.Internal, err)
		}
		patch.PasswordHash = &hash
	}

	u, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return User{}, errx.Wrap(op, err)
	}
	return u, nil
}

func (s *service) EnsureProfile(ctx context.Context, userID int64) (Profile, error) {
	const op = "user.service.EnsureProfile"

	if userID <= 0 {
		return Profile{}, errx.E(op, errx.Invalid, errors.New("user id must be positive"))
	}
	p, err := s.repo.EnsureProfile(ctx, userID)
	if err != nil {
		return Profile{}, errx.Wrap(op, err)
	}
	return p, nil
}

func (s *service) GetProfile(ctx context.Context, id int64) (Profile, error) {
	const op = "user.service.GetProfile"

	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return Profile{}, errx.Wrap(op, err)
	}
	return p, nil
}

func (s *service) ListProfiles(ctx context.Context, limit, offset int) ([]Profile, int64, error) {
	const op = "user.service.ListProfiles"

	profiles, total, err := s.repo.ListProfiles(ctx, limit, offset)
	if err != nil {
		return nil, 0, errx.Wrap(op, err)
	}
	return profiles, total, nil
}

func (s *service) UpdateProfile(ctx context.Context, actor auth.Principal, id int64, bio string) (Profile, error) {
	const op = "user.service.UpdateProfile"

	if len(bio) > MaxBioLength {
		return Profile{}, errx.Errorf(op, errx.Invalid, "bio too long (maximum %d characters)", MaxBioLength)
	}

	current, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return Profile{}, errx.Wrap(op, err)
	}
	if !actor.CanModify(current.UserID) {
		return Profile{}, errx.E(op, errx.Forbidden, errors.New("cannot modify another user's profile"))
	}

	updated, err := s.repo.UpdateProfileBio(ctx, id, bio)
	if err != nil {
		return Profile{}, errx.Wrap(op, err)
	}
	updated.Username = current.Username
	return updated, nil
}

var (
	errWeakPassword    = errors.New("password must be 8+ chars incl. upper, lower, digit & symbol")
	errPasswordTooLong = errors.New("password too long (maximum 72 bytes)")
)

func validatePassword(p string) error {
	if !httpx.PasswordFits(p) {
		return errPasswordTooLong
	}
	if !httpx.StrongPassword(p) {
		return errWeakPassword
	}
	return nil
}

func validateRegister(req RegisterRequest) error {
	if req.Username == "" {
		return errors.New("username is required")
	}
	if len(req.Username) > MaxUsernameLength {
		return errors.New("username too long (maximum 150 characters)")
	}
	if !httpx.ValidUsername(req.Username) {
		return errors.New("username may contain only letters, digits and @/./+/-/_")
	}
	return validatePassword(req.Password)
}
