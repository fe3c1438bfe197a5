package like

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundayezeilo/blogapi/internal/errx"
)

/*** Mocks ***/

type pair struct{ user, article int64 }

// memStore enforces the (user, article) uniqueness the way the table does.
type memStore struct {
	mu       sync.Mutex
	rows     map[pair]Like
	articles map[int64]bool
	nextID   int64

	// afterFind runs between FindOne and the caller's next step, to force races.
	afterFind func()

	findErr   error
	insertErr error
	deleteErr error
	countErr  error
}

func newMemStore(articles ...int64) *memStore {
	m := &memStore{rows: map[pair]Like{}, articles: map[int64]bool{}}
	for _, id := range articles {
		m.articles[id] = true
	}
	return m
}

func (m *memStore) FindOne(_ context.Context, userID, articleID int64) (Like, bool, error) {
	if m.findErr != nil {
		return Like{}, false, m.findErr
	}
	m.mu.Lock()
	l, ok := m.rows[pair{userID, articleID}]
	m.mu.Unlock()
	if m.afterFind != nil {
		m.afterFind()
	}
	return l, ok, nil
}

func (m *memStore) Insert(_ context.Context, userID, articleID int64) (Like, error) {
	if m.insertErr != nil {
		return Like{}, m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pair{userID, articleID}
	if _, ok := m.rows[k]; ok {
		return Like{}, errx.E("like.repo.Insert", errx.Conflict, errors.New("duplicate key"))
	}
	m.nextID++
	l := Like{ID: m.nextID, UserID: userID, ArticleID: articleID, CreatedAt: time.Now()}
	m.rows[k] = l
	return l, nil
}

func (m *memStore) Delete(_ context.Context, l Like) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, pair{l.UserID, l.ArticleID})
	return nil
}

func (m *memStore) Count(_ context.Context, articleID int64) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.rows {
		if k.article == articleID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) has(userID, articleID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[pair{userID, articleID}]
	return ok
}

/*** Tests ***/

func TestToggle_LikeThenUnlike(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	first, err := Toggle(ctx, 1, 5, store)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, int64(1), first.LikesCount)
	require.NotNil(t, first.Like)
	assert.Equal(t, int64(5), first.Like.ArticleID)

	second, err := Toggle(ctx, 1, 5, store)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, int64(0), second.LikesCount)
	assert.Nil(t, second.Like)
}

func TestToggle_ParityAfterNCalls(t *testing.T) {
	ctx := context.Background()

	for n := 1; n <= 7; n++ {
		store := newMemStore()
		var last ToggleResult
		for range n {
			res, err := Toggle(ctx, 3, 9, store)
			require.NoError(t, err)
			assert.Equal(t, store.has(3, 9), res.Liked)
			last = res
		}
		want := n%2 == 1
		assert.Equal(t, want, store.has(3, 9), "after %d toggles", n)
		assert.Equal(t, want, last.Liked, "after %d toggles", n)
	}
}

func TestToggle_CountsOtherUsers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	for _, user := range []int64{1, 2, 3} {
		_, err := Toggle(ctx, user, 5, store)
		require.NoError(t, err)
	}
	_, err := Toggle(ctx, 7, 6, store)
	require.NoError(t, err)

	res, err := Toggle(ctx, 2, 5, store)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, int64(2), res.LikesCount)
}

func TestToggle_LostRaceIsLiked(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	// Another request inserts the same pair after our lookup.
	store.afterFind = func() {
		store.afterFind = nil
		_, _ = store.Insert(ctx, 1, 5)
	}

	res, err := Toggle(ctx, 1, 5, store)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikesCount)
	assert.Nil(t, res.Like, "the losing call did not create the row")
	assert.Len(t, store.rows, 1)
}

func TestToggle_ConcurrentFromEmpty(t *testing.T) {
	store := newMemStore()
	start := make(chan struct{})
	store.afterFind = func() { <-start }

	var wg sync.WaitGroup
	results := make(chan ToggleResult, 2)
	for range 2 {
		wg.Go(func() {
			res, err := Toggle(context.Background(), 1, 5, store)
			if err != nil {
				t.Errorf("Toggle() unexpected error: %v", err)
				return
			}
			results <- res
		})
	}
	close(start)
	wg.Wait()
	close(results)

	assert.Len(t, store.rows, 1, "exactly one like must exist")
	anyLiked := false
	for res := range results {
		anyLiked = anyLiked || res.Liked
		assert.Equal(t, int64(1), res.LikesCount)
	}
	assert.True(t, anyLiked)
}

func TestToggle_ManyConcurrentUsers(t *testing.T) {
	store := newMemStore()

	var wg sync.WaitGroup
	for user := int64(1); user <= 50; user++ {
		wg.Go(func() {
			if _, err := Toggle(context.Background(), user, 5, store); err != nil {
				t.Errorf("Toggle() unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	n, err := store.Count(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)
}

func TestToggle_Errors(t *testing.T) {
	ctx := context.Background()
	storeErr := errx.E("like.repo", errx.Unavailable, errors.New("connection reset"))

	tests := []struct {
		name  string
		setup func(*memStore)
	}{
		{"find fails", func(m *memStore) { m.findErr = storeErr }},
		{"insert fails", func(m *memStore) { m.insertErr = storeErr }},
		{"count fails", func(m *memStore) { m.countErr = storeErr }},
		{"delete fails", func(m *memStore) {
			m.rows[pair{1, 5}] = Like{ID: 1, UserID: 1, ArticleID: 5}
			m.deleteErr = storeErr
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			tt.setup(store)

			_, err := Toggle(ctx, 1, 5, store)
			require.Error(t, err)
			assert.True(t, errx.Is(err, errx.Unavailable))
			assert.ErrorContains(t, err, "connection reset")
		})
	}
}

func TestToggle_ForeignKeyFailurePropagates(t *testing.T) {
	store := newMemStore()
	store.insertErr = errx.E("like.repo.Insert", errx.NotFound, errors.New("fk violation"))

	_, err := Toggle(context.Background(), 1, 5, store)
	require.Error(t, err)
	assert.True(t, errx.Is(err, errx.NotFound))
}
