package article

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundayezeilo/blogapi/internal/auth"
	"github.com/sundayezeilo/blogapi/internal/errx"
)

func newTestHandler(repo *memRepository) *Handler {
	return NewHandler(HandlerConfig{
		Service:     newTestService(repo, false),
		Logger:      discardLogger(),
		BaseURL:     "http://localhost:8000",
		PageSize:    10,
		MaxPageSize: 100,
	})
}

func as(r *http.Request, p auth.Principal) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), p))
}

func withID(r *http.Request, id int64) *http.Request {
	r.SetPathValue("id", strconv.FormatInt(id, 10))
	return r
}

func decodeArticle(t *testing.T, rr *httptest.ResponseRecorder) articleResponse {
	t.Helper()
	var a articleResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&a))
	return a
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantSlug   string
	}{
		{"valid", `{"title":"Hello World!","content":"body","tags":["go"]}`, http.StatusCreated, "hello-world"},
		{"missing title", `{"content":"body"}`, http.StatusBadRequest, ""},
		{"blank content", `{"title":"T","content":"   "}`, http.StatusBadRequest, ""},
		{"slug is read-only", `{"title":"T","content":"c","slug":"mine"}`, http.StatusBadRequest, ""},
		{"malformed", `{"title":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(newMemRepository())
			rr := httptest.NewRecorder()
			h.Create(rr, as(httptest.NewRequest(http.MethodPost, "/api/articles/", strings.NewReader(tt.body)), alice))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantSlug != "" {
				a := decodeArticle(t, rr)
				assert.Equal(t, tt.wantSlug, a.Slug)
				assert.Equal(t, alice.UserID, a.Author)
				assert.Equal(t, int64(0), a.LikesCount)
				assert.False(t, a.UserLiked)
				require.Len(t, a.Tags, 1)
			}
		})
	}
}

func TestHandler_Create_SlugExhaustedIs503(t *testing.T) {
	repo := newMemRepository()
	repo.createHook = func(NewArticle) error {
		return errx.E("article.repo.Create", errx.Conflict, ErrSlugTaken)
	}
	h := newTestHandler(repo)

	rr := httptest.NewRecorder()
	h.Create(rr, as(httptest.NewRequest(http.MethodPost, "/api/articles/", strings.NewReader(`{"title":"T","content":"c"}`)), alice))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.NotContains(t, rr.Body.String(), "slug")
}

func TestHandler_GetUpdateDelete(t *testing.T) {
	repo := newMemRepository()
	h := newTestHandler(repo)

	rr := httptest.NewRecorder()
	h.Create(rr, as(httptest.NewRequest(http.MethodPost, "/api/articles/", strings.NewReader(`{"title":"Post","content":"c"}`)), alice))
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decodeArticle(t, rr).ID

	t.Run("get", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Get(rr, withID(httptest.NewRequest(http.MethodGet, "/api/articles/x/", nil), id))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "post", decodeArticle(t, rr).Slug)

		rr = httptest.NewRecorder()
		h.Get(rr, withID(httptest.NewRequest(http.MethodGet, "/api/articles/x/", nil), id+100))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("patch by non-owner", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withID(httptest.NewRequest(http.MethodPatch, "/api/articles/x/", strings.NewReader(`{"content":"x"}`)), id)
		h.Patch(rr, as(req, bob))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("patch keeps slug", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withID(httptest.NewRequest(http.MethodPatch, "/api/articles/x/", strings.NewReader(`{"title":"Renamed"}`)), id)
		h.Patch(rr, as(req, alice))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		a := decodeArticle(t, rr)
		assert.Equal(t, "Renamed", a.Title)
		assert.Equal(t, "post", a.Slug)
	})

	t.Run("put requires content", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withID(httptest.NewRequest(http.MethodPut, "/api/articles/x/", strings.NewReader(`{"title":"Only title"}`)), id)
		h.Replace(rr, as(req, alice))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Delete(rr, as(withID(httptest.NewRequest(http.MethodDelete, "/api/articles/x/", nil), id), bob))
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = httptest.NewRecorder()
		h.Delete(rr, as(withID(httptest.NewRequest(http.MethodDelete, "/api/articles/x/", nil), id), staff))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestHandler_List(t *testing.T) {
	repo := newMemRepository()
	h := newTestHandler(repo)

	var got ListFilter
	repo.listFunc = func(_ context.Context, f ListFilter) ([]Article, int64, error) {
		got = f
		return []Article{{ID: 1, Slug: "a", LikesCount: 2, UserLiked: true}}, 11, nil
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/articles/?search=go&ordering=-likes_count&author=4&tag=web", nil)
	h.List(rr, as(req, bob))
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Count   int64             `json:"count"`
		Next    *string           `json:"next"`
		Results []articleResponse `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&page))
	assert.Equal(t, int64(11), page.Count)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=2")
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].UserLiked)

	assert.Equal(t, bob.UserID, got.ViewerID)
	assert.Equal(t, int64(4), got.AuthorID)
	assert.Equal(t, "web", got.Tag)
	assert.Equal(t, "-likes_count", got.Ordering)

	t.Run("anonymous viewer", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/articles/", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(0), got.ViewerID)
	})

	t.Run("malformed author", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/articles/?author=bob", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"author"`)
	})

	t.Run("store failure", func(t *testing.T) {
		repo.listFunc = func(context.Context, ListFilter) ([]Article, int64, error) {
			return nil, 0, errx.E("article.repo.List", errx.Unavailable, errors.New("db down"))
		}
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/articles/", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestHandler_Tags(t *testing.T) {
	h := newTestHandler(newMemRepository())

	rr := httptest.NewRecorder()
	h.CreateTag(rr, as(httptest.NewRequest(http.MethodPost, "/api/tags/", strings.NewReader(`{"name":"Go Lang"}`)), alice))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"slug":"go-lang"`)

	rr = httptest.NewRecorder()
	h.CreateTag(rr, as(httptest.NewRequest(http.MethodPost, "/api/tags/", strings.NewReader(`{"name":"Go Lang"}`)), alice))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	h.ListTags(rr, httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":1`)
}
