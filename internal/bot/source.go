package bot

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tootmimic/tootmimic/internal/cache"
	"github.com/tootmimic/tootmimic/internal/feed"
)

// FeedClient is the slice of the feed API the source needs.
type FeedClient interface {
	Lookup(ctx context.Context, acct string) (*feed.Account, error)
	Statuses(ctx context.Context, accountID string, maxPosts int, sinceID string) ([]feed.Status, error)
}

// Source acquires corpora through the feed API, keeping cleaned
// corpora in the on-disk cache. While a cached corpus is younger than
// ttl it is served as-is; after that a refresh fetches only statuses
// newer than the ones already cached.
type Source struct {
	feed     FeedClient
	store    *cache.Store
	maxPosts int
	ttl      time.Duration
	log      *log.Logger
}

func NewSource(client FeedClient, store *cache.Store, maxPosts int, ttl time.Duration, logger *log.Logger) *Source {
	return &Source{
		feed:     client,
		store:    store,
		maxPosts: maxPosts,
		ttl:      ttl,
		log:      logger,
	}
}

// Corpus implements CorpusSource.
func (s *Source) Corpus(ctx context.Context, acct string) (string, error) {
	cached, haveCached, err := s.store.Corpus(acct)
	if err != nil {
		return "", err
	}
	if haveCached && s.fresh(acct) {
		s.log.Debug("cache hit", "acct", acct)
		return cached, nil
	}
	return s.refresh(ctx, acct, cached, haveCached)
}

// Refresh fetches unconditionally, merging with whatever is cached.
func (s *Source) Refresh(ctx context.Context, acct string) (string, error) {
	cached, haveCached, err := s.store.Corpus(acct)
	if err != nil {
		return "", err
	}
	return s.refresh(ctx, acct, cached, haveCached)
}

func (s *Source) refresh(ctx context.Context, acct, cached string, haveCached bool) (string, error) {
	account, err := s.feed.Lookup(ctx, acct)
	if err != nil {
		return s.fallback(acct, cached, haveCached, err)
	}

	sinceID := ""
	if haveCached {
		sinceID, _, err = s.store.NewestID(acct)
		if err != nil {
			return "", err
		}
	}

	statuses, err := s.feed.Statuses(ctx, account.ID, s.maxPosts, sinceID)
	if err != nil {
		return s.fallback(acct, cached, haveCached, err)
	}
	s.log.Info("fetched history", "acct", acct, "new_statuses", len(statuses))

	corpus := feed.Corpus(statuses)
	if haveCached {
		corpus = mergeCorpora(corpus, cached)
	}

	if len(statuses) > 0 {
		if err := s.store.SetNewestID(acct, statuses[0].ID); err != nil {
			return "", err
		}
	}
	if err := s.store.SetCorpus(acct, corpus); err != nil {
		return "", err
	}
	if err := s.store.Touch(acct); err != nil {
		return "", err
	}

	return corpus, nil
}

// fallback serves a stale corpus when a refresh fails, so a flaky
// server does not take the bot down with it.
func (s *Source) fallback(acct, cached string, haveCached bool, err error) (string, error) {
	if !haveCached {
		return "", err
	}
	s.log.Warn("refresh failed, serving stale cache", "acct", acct, "err", err)
	return cached, nil
}

func (s *Source) fresh(acct string) bool {
	at, found, err := s.store.FetchedAt(acct)
	if err != nil || !found {
		return false
	}
	return time.Since(at) < s.ttl
}

// mergeCorpora prepends freshly fetched lines to the cached ones,
// deduplicating case-insensitively while preserving newest-first
// order.
func mergeCorpora(fresh, cached string) string {
	seen := make(map[string]struct{})
	var lines []string

	for _, line := range strings.Split(fresh+"\n"+cached, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
