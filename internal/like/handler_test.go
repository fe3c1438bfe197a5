package like

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/events"
)

func newTestHandler(repo Repository, pub events.Publisher) *Handler {
	return NewHandler(HandlerConfig{
		Service:     newTestService(repo, pub),
		Logger:      discardLogger(),
		BaseURL:     "http://localhost:8000",
		PageSize:    10,
		MaxPageSize: 100,
	})
}

func withPrincipal(r *http.Request, p auth.Principal) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), p))
}

func postLike(t *testing.T, h *Handler, p auth.Principal, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/post-user-likes/", strings.NewReader(body)), p)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		body    string
		enabled bool
		wantErr bool
	}{
		{`{}`, true, false},
		{`{"toggle": null}`, true, false},
		{`{"toggle": true}`, true, false},
		{`{"toggle": false}`, false, false},
		{`{"toggle": "true"}`, true, false},
		{`{"toggle": "False"}`, false, false},
		{`{"toggle": "0"}`, false, false},
		{`{"toggle": 1}`, true, false},
		{`{"toggle": 0}`, false, false},
		{`{"toggle": []}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var v struct {
				Toggle flexBool `json:"toggle"`
			}
			err := json.Unmarshal([]byte(tt.body), &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, v.Toggle.enabled())
		})
	}
}

func TestHandler_Toggle(t *testing.T) {
	repo := newMemRepository(5)
	pub := &recordingPublisher{}
	h := newTestHandler(repo, pub)

	rec, body := postLike(t, h, alice, `{"article": 5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "liked", body["status"])
	assert.EqualValues(t, 1, body["likes_count"])
	assert.EqualValues(t, 1, body["user"])
	assert.EqualValues(t, 5, body["article"])
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["created_at"])

	rec, body = postLike(t, h, alice, `{"article": 5, "toggle": "true"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "unliked", "likes_count": float64(0)}, body)

	assert.Len(t, pub.published(), 2)
}

func TestHandler_Toggle_LostRace(t *testing.T) {
	repo := newMemRepository(5)
	h := newTestHandler(repo, nil)

	repo.afterFind = func() {
		repo.afterFind = nil
		_, _ = repo.Insert(context.Background(), alice.UserID, 5)
	}

	rec, body := postLike(t, h, alice, `{"article": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "liked", "likes_count": float64(1)}, body)
}

func TestHandler_CreateOnly(t *testing.T) {
	h := newTestHandler(newMemRepository(5), nil)

	rec, body := postLike(t, h, alice, `{"article": 5, "toggle": false}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "liked", body["status"])

	rec, body = postLike(t, h, alice, `{"article": 5, "toggle": false}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Already liked", body["message"])
}

func TestHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing article", `{}`, http.StatusBadRequest},
		{"zero article", `{"article": 0}`, http.StatusBadRequest},
		{"unknown article", `{"article": 404}`, http.StatusNotFound},
		{"unknown article create-only", `{"article": 404, "toggle": false}`, http.StatusNotFound},
		{"bad toggle", `{"article": 5, "toggle": {}}`, http.StatusBadRequest},
		{"unknown field", `{"article": 5, "post": 5}`, http.StatusBadRequest},
		{"malformed", `{"article":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(newMemRepository(5), nil)
			rec, _ := postLike(t, h, alice, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_ListGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepository(5, 6)
	h := newTestHandler(repo, nil)

	mine, err := repo.Insert(ctx, alice.UserID, 5)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, bob.UserID, 5)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, alice.UserID, 6)
	require.NoError(t, err)

	list := func(query string) map[string]any {
		req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/post-user-likes/"+query, nil), alice)
		rec := httptest.NewRecorder()
		h.List(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var out map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	assert.EqualValues(t, 3, list("")["count"])
	assert.EqualValues(t, 2, list("?article=5")["count"])
	assert.EqualValues(t, 2, list("?mine=1")["count"])
	assert.EqualValues(t, 1, list("?mine=true&article=5")["count"])

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/post-user-likes/?article=abc", nil), alice)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"article"`)

	id := strconv.FormatInt(mine.ID, 10)

	req = withPrincipal(httptest.NewRequest(http.MethodGet, "/api/post-user-likes/"+id+"/", nil), bob)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"article":5`)

	req = withPrincipal(httptest.NewRequest(http.MethodDelete, "/api/post-user-likes/"+id+"/", nil), bob)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = withPrincipal(httptest.NewRequest(http.MethodDelete, "/api/post-user-likes/"+id+"/", nil), alice)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = withPrincipal(httptest.NewRequest(http.MethodGet, "/api/post-user-likes/"+id+"/", nil), alice)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = withPrincipal(httptest.NewRequest(http.MethodGet, "/api/post-user-likes/abc/", nil), alice)
	req.SetPathValue("id", "abc")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
