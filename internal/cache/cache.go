// Package cache stores fetched corpora on disk so repeated runs do
// not hammer the feed API.
package cache

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v2"
)

const (
	corpusPrefix  = "corpus/"
	newestPrefix  = "newest/"
	fetchedPrefix = "fetched/"
)

// Store is a badger-backed cache keyed by source account. Per account
// it holds the cleaned corpus, the newest status ID in it, and the
// time it was last fetched.
type Store struct {
	db *badger.DB
}

// Open opens or creates the cache at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Corpus returns the cached corpus for acct. found is false on a miss.
func (s *Store) Corpus(acct string) (string, bool, error) {
	b, found, err := s.get(corpusPrefix + acct)
	return string(b), found, err
}

// SetCorpus stores the corpus for acct.
func (s *Store) SetCorpus(acct, text string) error {
	return s.set(corpusPrefix+acct, []byte(text))
}

// NewestID returns the most recent status ID already in the cached
// corpus, so a refresh can stop paging early.
func (s *Store) NewestID(acct string) (string, bool, error) {
	b, found, err := s.get(newestPrefix + acct)
	return string(b), found, err
}

// SetNewestID records the most recent status ID for acct.
func (s *Store) SetNewestID(acct, id string) error {
	return s.set(newestPrefix+acct, []byte(id))
}

// FetchedAt returns when acct's corpus was last fetched.
func (s *Store) FetchedAt(acct string) (time.Time, bool, error) {
	b, found, err := s.get(fetchedPrefix + acct)
	if err != nil || !found {
		return time.Time{}, found, err
	}
	return time.Unix(int64(binary.BigEndian.Uint64(b)), 0), true, nil
}

// Touch records that acct's corpus was fetched just now.
func (s *Store) Touch(acct string) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(time.Now().Unix()))
	return s.set(fetchedPrefix+acct, b[:])
}

func (s *Store) get(key string) ([]byte, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *Store) set(key string, val []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}
