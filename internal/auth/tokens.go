package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/idgen"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

// Claims are the JWT claims carried by access and refresh tokens.
type Claims struct {
	TokenType string `json:"token_type"`
	Username  string `json:"username"`
	IsStaff   bool   `json:"is_staff,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is returned by the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IssuerConfig configures an Issuer.
type IssuerConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	IDs        idgen.Generator // jti source; defaults to time-ordered UUIDs
	Now        func() time.Time
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	ids        idgen.Generator
	now        func() time.Time
}

// NewIssuer returns an Issuer for cfg.
func NewIssuer(cfg IssuerConfig) *Issuer {
	ids := cfg.IDs
	if ids == nil {
		ids = idgen.TimeOrdered(1)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		ids:        ids,
		now:        now,
	}
}

// Issue returns a fresh access/refresh pair for p.
func (i *Issuer) Issue(p Principal) (TokenPair, error) {
	const op = "auth.issuer.Issue"

	access, err := i.sign(p, AccessToken, i.accessTTL)
	if err != nil {
		return TokenPair{}, errx.E(op, errx.Internal, err)
	}
	refresh, err := i.sign(p, RefreshToken, i.refreshTTL)
	if err != nil {
		return TokenPair{}, errx.E(op, errx.Internal, err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh verifies a refresh token and returns a new access token for the
// same principal.
func (i *Issuer) Refresh(refresh string) (string, error) {
	const op = "auth.issuer.Refresh"

	p, err := i.Verify(refresh, RefreshToken)
	if err != nil {
		return "", errx.Wrap(op, err)
	}
	access, err := i.sign(p, AccessToken, i.accessTTL)
	if err != nil {
		return "", errx.E(op, errx.Internal, err)
	}
	return access, nil
}

// Verify parses token, checks its signature, expiry, issuer and type, and
// returns the principal it was issued for. Every failure is errx.Unauthorized.
func (i *Issuer) Verify(token, tokenType string) (Principal, error) {
	const op = "auth.issuer.Verify"

	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return Principal{}, errx.E(op, errx.Unauthorized, err)
	}
	if !parsed.Valid {
		return Principal{}, errx.E(op, errx.Unauthorized, errors.New("token is not valid"))
	}
	if claims.TokenType != tokenType {
		return Principal{}, errx.Errorf(op, errx.Unauthorized, "token has wrong type %q", claims.TokenType)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Principal{}, errx.Errorf(op, errx.Unauthorized, "token subject %q is not a user id", claims.Subject)
	}

	return Principal{UserID: userID, Username: claims.Username, IsStaff: claims.IsStaff}, nil
}

func (i *Issuer) sign(p Principal, tokenType string, ttl time.Duration) (string, error) {
	jti, err := i.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("token id: %w", err)
	}

	now := i.now()
	claims := Claims{
		TokenType: tokenType,
		Username:  p.Username,
		IsStaff:   p.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   strconv.FormatInt(p.UserID, 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
