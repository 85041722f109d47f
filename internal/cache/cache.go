// Package cache memoizes search results per normalized input and mode
package cache

import (
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/igusev/cfl/internal/logger"
	"github.com/igusev/cfl/internal/model"
	"github.com/igusev/cfl/internal/terms"
)

// Store holds search results by key.
// Cached slices are shared; callers must not modify them.
type Store interface {
	Get(key string) ([]model.Company, bool)
	Add(key string, companies []model.Company)
	Len() int
	Purge()
}

// Key builds the cache key for a raw search input and mode flag
func Key(input string, fuzzy bool) string {
	return terms.Normalize(input) + ":" + strconv.FormatBool(fuzzy)
}

// New returns an unbounded store when maxEntries <= 0,
// otherwise a store evicting the least recently used entry
func New(maxEntries int) Store {
	if maxEntries <= 0 {
		return newMapStore()
	}

	store, err := lru.New[string, []model.Company](maxEntries)
	if err != nil {
		// lru.New only fails for a non-positive size
		logger.Warn("Failed to create bounded cache (%v), falling back to unbounded", err)
		return newMapStore()
	}
	return &lruStore{cache: store}
}

// mapStore grows until Purge is called
type mapStore struct {
	mu      sync.RWMutex
	entries map[string][]model.Company
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string][]model.Company)}
}

func (s *mapStore) Get(key string) ([]model.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	companies, ok := s.entries[key]
	return companies, ok
}

func (s *mapStore) Add(key string, companies []model.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = companies
}

func (s *mapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *mapStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]model.Company)
}

// lruStore wraps the thread-safe golang-lru cache
type lruStore struct {
	cache *lru.Cache[string, []model.Company]
}

func (s *lruStore) Get(key string) ([]model.Company, bool) {
	return s.cache.Get(key)
}

func (s *lruStore) Add(key string, companies []model.Company) {
	s.cache.Add(key, companies)
}

func (s *lruStore) Len() int {
	return s.cache.Len()
}

func (s *lruStore) Purge() {
	s.cache.Purge()
}
