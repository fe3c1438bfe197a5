package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundayezeilo/blogapi/internal/errx"
	"github.com/sundayezeilo/blogapi/internal/idgen"
)

const testSecret = "test-secret-0123456789"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestIssuer(now func() time.Time) *Issuer {
	return NewIssuer(IssuerConfig{
		Secret:     testSecret,
		Issuer:     "blogapi-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		IDs:        idgen.Random(),
		Now:        now,
	})
}

/*** Mocks ***/

type mockAuthenticator struct {
	authenticateFunc func(ctx context.Context, username, password string) (Principal, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	return m.authenticateFunc(ctx, username, password)
}

/*** Tests ***/

func TestIssuer_IssueAndVerify(t *testing.T) {
	iss := newTestIssuer(nil)
	p := Principal{UserID: 7, Username: "ada", IsStaff: true}

	pair, err := iss.Issue(p)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	got, err := iss.Verify(pair.Access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	got, err = iss.Verify(pair.Refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestIssuer_Verify_Rejects(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	iss := newTestIssuer(func() time.Time { return issuedAt })
	pair, err := iss.Issue(Principal{UserID: 3, Username: "bob"})
	require.NoError(t, err)

	other := NewIssuer(IssuerConfig{Secret: "another-secret-value", Issuer: "blogapi-test", AccessTTL: time.Hour, RefreshTTL: time.Hour})
	foreign, err := other.Issue(Principal{UserID: 3, Username: "bob"})
	require.NoError(t, err)

	later := newTestIssuer(func() time.Time { return issuedAt.Add(2 * time.Hour) })

	tests := []struct {
		name      string
		issuer    *Issuer
		token     string
		tokenType string
	}{
		{"refresh used as access", iss, pair.Refresh, AccessToken},
		{"access used as refresh", iss, pair.Access, RefreshToken},
		{"expired access", later, pair.Access, AccessToken},
		{"wrong signature", iss, foreign.Access, AccessToken},
		{"garbage", iss, "not.a.token", AccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.issuer.Verify(tt.token, tt.tokenType)
			require.Error(t, err)
			assert.True(t, errx.Is(err, errx.Unauthorized), "kind = %v", errx.KindOf(err))
		})
	}
}

func TestIssuer_Verify_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "blogapi-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestIssuer(nil).Verify(token, AccessToken)
	assert.True(t, errx.Is(err, errx.Unauthorized))
}

func TestIssuer_Refresh(t *testing.T) {
	iss := newTestIssuer(nil)
	pair, err := iss.Issue(Principal{UserID: 9, Username: "cy"})
	require.NoError(t, err)

	access, err := iss.Refresh(pair.Refresh)
	require.NoError(t, err)

	p, err := iss.Verify(access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.UserID)

	_, err = iss.Refresh(pair.Access)
	assert.True(t, errx.Is(err, errx.Unauthorized))
}

func TestIssuer_IDGeneratorFailure(t *testing.T) {
	iss := NewIssuer(IssuerConfig{
		Secret:    testSecret,
		AccessTTL: time.Hour,
		IDs:       idgen.Func(func() (string, error) { return "", errors.New("entropy exhausted") }),
	})

	_, err := iss.Issue(Principal{UserID: 1})
	assert.True(t, errx.Is(err, errx.Internal))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("P@ssw0rd!", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "P@ssw0rd!", hash)

	assert.NoError(t, CheckPassword(hash, "P@ssw0rd!"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)

	_, err = HashPassword("Aa1!"+strings.Repeat("x", 69), 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestPrincipal_CanModify(t *testing.T) {
	assert.True(t, Principal{UserID: 1}.CanModify(1))
	assert.False(t, Principal{UserID: 1}.CanModify(2))
	assert.True(t, Principal{UserID: 1, IsStaff: true}.CanModify(2))
}

func TestAuthenticate(t *testing.T) {
	iss := newTestIssuer(nil)
	pair, err := iss.Issue(Principal{UserID: 5, Username: "eve"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID int64
	}{
		{"anonymous", "", http.StatusOK, 0},
		{"valid token", "Bearer " + pair.Access, http.StatusOK, 5},
		{"lowercase scheme", "bearer " + pair.Access, http.StatusOK, 5},
		{"refresh token rejected", "Bearer " + pair.Refresh, http.StatusUnauthorized, 0},
		{"bad scheme", "Token " + pair.Access, http.StatusUnauthorized, 0},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = ViewerID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/articles/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			Authenticate(iss, discardLogger())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantUserID, seen)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rr := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/articles/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/articles/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: 1}))
	rr = httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestHandler_Obtain(t *testing.T) {
	iss := newTestIssuer(nil)
	users := &mockAuthenticator{
		authenticateFunc: func(_ context.Context, username, password string) (Principal, error) {
			if username == "ada" && password == "P@ssw0rd!" {
				return Principal{UserID: 1, Username: "ada"}, nil
			}
			if username == "down" {
				return Principal{}, errx.E("user.service.Authenticate", errx.Unavailable, errors.New("db down"))
			}
			return Principal{}, errx.E("user.service.Authenticate", errx.Unauthorized, errors.New("bad credentials"))
		},
	}
	h := NewHandler(users, iss, discardLogger())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid credentials", `{"username":"ada","password":"P@ssw0rd!"}`, http.StatusOK},
		{"wrong password", `{"username":"ada","password":"nope"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"ada"}`, http.StatusBadRequest},
		{"store unavailable", `{"username":"down","password":"x"}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/token/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.Obtain(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var pair TokenPair
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&pair))
			p, err := iss.Verify(pair.Access, AccessToken)
			require.NoError(t, err)
			assert.Equal(t, "ada", p.Username)
		})
	}
}

func TestHandler_Refresh(t *testing.T) {
	iss := newTestIssuer(nil)
	h := NewHandler(&mockAuthenticator{}, iss, discardLogger())
	pair, err := iss.Issue(Principal{UserID: 2, Username: "bo"})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/api/token/refresh/",
		strings.NewReader(`{"refresh":"`+pair.Refresh+`"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp refreshResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	_, err = iss.Verify(resp.Access, AccessToken)
	assert.NoError(t, err)

	rr = httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/api/token/refresh/",
		strings.NewReader(`{"refresh":"`+pair.Access+`"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
