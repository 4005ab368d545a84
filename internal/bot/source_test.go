package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tootmimic/tootmimic/internal/cache"
	"github.com/tootmimic/tootmimic/internal/feed"
)

type fakeFeed struct {
	lookups  int
	pages    [][]feed.Status
	sinceIDs []string
	err      error
}

func (f *fakeFeed) Lookup(ctx context.Context, acct string) (*feed.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lookups++
	return &feed.Account{ID: "1", Acct: acct}, nil
}

func (f *fakeFeed) Statuses(ctx context.Context, accountID string, maxPosts int, sinceID string) ([]feed.Status, error) {
	f.sinceIDs = append(f.sinceIDs, sinceID)
	page := f.pages[0]
	if len(f.pages) > 1 {
		f.pages = f.pages[1:]
	}
	return page, nil
}

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSource(t *testing.T) {
	firstFetch := []feed.Status{
		{ID: "30", Content: "<p>Third post today</p>"},
		{ID: "20", Content: "<p>Second post today</p>"},
	}

	t.Run("Should fetch and cache on a miss", func(t *testing.T) {
		f := &fakeFeed{pages: [][]feed.Status{firstFetch}}
		store := newTestStore(t)
		s := NewSource(f, store, 100, time.Hour, discardLogger())

		corpus, err := s.Corpus(context.Background(), "someone@example.social")

		require.NoError(t, err)
		assert.Equal(t, "Third post today\nSecond post today", corpus)

		id, found, err := store.NewestID("someone@example.social")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "30", id)
	})

	t.Run("Should serve from cache while fresh", func(t *testing.T) {
		f := &fakeFeed{pages: [][]feed.Status{firstFetch}}
		s := NewSource(f, newTestStore(t), 100, time.Hour, discardLogger())

		first, err := s.Corpus(context.Background(), "someone@example.social")
		require.NoError(t, err)
		second, err := s.Corpus(context.Background(), "someone@example.social")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, f.lookups, "second call must not hit the feed")
	})

	t.Run("Should refresh from the newest id once stale", func(t *testing.T) {
		f := &fakeFeed{pages: [][]feed.Status{
			firstFetch,
			{{ID: "40", Content: "<p>Fourth post today</p>"}},
		}}
		// A zero ttl makes every cached corpus immediately stale.
		s := NewSource(f, newTestStore(t), 100, 0, discardLogger())

		_, err := s.Corpus(context.Background(), "someone@example.social")
		require.NoError(t, err)
		corpus, err := s.Corpus(context.Background(), "someone@example.social")
		require.NoError(t, err)

		assert.Equal(t, "Fourth post today\nThird post today\nSecond post today", corpus)
		require.Len(t, f.sinceIDs, 2)
		assert.Equal(t, "", f.sinceIDs[0])
		assert.Equal(t, "30", f.sinceIDs[1])
	})

	t.Run("Should serve stale cache when the refresh fails", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SetCorpus("someone@example.social", "Old but usable post"))
		f := &fakeFeed{err: errors.New("server on fire")}
		s := NewSource(f, store, 100, time.Hour, discardLogger())

		corpus, err := s.Corpus(context.Background(), "someone@example.social")

		require.NoError(t, err)
		assert.Equal(t, "Old but usable post", corpus)
	})

	t.Run("Should fail when there is no cache to fall back on", func(t *testing.T) {
		f := &fakeFeed{err: errors.New("server on fire")}
		s := NewSource(f, newTestStore(t), 100, time.Hour, discardLogger())

		_, err := s.Corpus(context.Background(), "someone@example.social")

		assert.ErrorContains(t, err, "server on fire")
	})
}

func TestMergeCorpora(t *testing.T) {
	t.Run("Should prepend fresh lines and dedupe against cached ones", func(t *testing.T) {
		merged := mergeCorpora("New post\nShared post", "Shared post\nOld post")

		assert.Equal(t, "New post\nShared post\nOld post", merged)
	})

	t.Run("Should tolerate empty sides", func(t *testing.T) {
		assert.Equal(t, "Only post", mergeCorpora("Only post", ""))
		assert.Equal(t, "Only post", mergeCorpora("", "Only post"))
	})
}
