// Package session owns the loaded company list and serves cached searches over it
package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/igusev/cfl/internal/cache"
	"github.com/igusev/cfl/internal/dataset"
	"github.com/igusev/cfl/internal/logger"
	"github.com/igusev/cfl/internal/match"
	"github.com/igusev/cfl/internal/model"
	"github.com/igusev/cfl/internal/search"
	"github.com/igusev/cfl/internal/terms"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxRetries is the number of manual reloads allowed after a failed load
const DefaultMaxRetries = 3

// ErrRetryExhausted is returned by Retry once every allowed attempt was used
var ErrRetryExhausted = errors.New("retry limit reached")

// Options configures a Session
type Options struct {
	IndexThreshold  int // negative selects search.DefaultIndexThreshold
	MaxCacheEntries int // 0 = unbounded
	MaxRetries      int
}

// DefaultOptions returns the stock session settings
func DefaultOptions() Options {
	return Options{
		IndexThreshold:  search.DefaultIndexThreshold,
		MaxCacheEntries: 0,
		MaxRetries:      DefaultMaxRetries,
	}
}

// Result is the outcome of one search request
type Result struct {
	Companies []model.Company `json:"companies"`
	TermCount int             `json:"terms"`
	Searched  bool            `json:"searched"`
	Cached    bool            `json:"cached"`
}

// Stats is a snapshot of session state
type Stats struct {
	TotalCompanies int    `json:"totalCompanies"`
	CacheSize      int    `json:"cacheSize"`
	HasData        bool   `json:"hasData"`
	Computations   int64  `json:"computations"`
	RetryCount     int    `json:"retryCount"`
	MaxRetries     int    `json:"maxRetries"`
	UpdateTime     string `json:"updateTime"`
	Error          string `json:"error,omitempty"`
}

// Session loads the company list from a source and answers searches against it.
// Safe for concurrent use.
type Session struct {
	src    dataset.Source
	opts   Options
	engine *search.Engine
	cache  cache.Store
	group  singleflight.Group

	mu         sync.RWMutex
	list       model.CompanyList
	errMsg     string
	retries    int
	generation uint64

	computations atomic.Int64
}

// New creates a session over src. Nothing is fetched until Load is called.
func New(src dataset.Source, opts Options) *Session {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.MaxCacheEntries < 0 {
		opts.MaxCacheEntries = 0
	}

	return &Session{
		src:    src,
		opts:   opts,
		engine: search.NewEngine(opts.IndexThreshold),
		cache:  cache.New(opts.MaxCacheEntries),
		list:   model.CompanyList{Companies: []model.Company{}},
	}
}

// Load fetches and parses the company list, replacing the current one.
// On failure the session keeps an empty list and remembers the error message.
func (s *Session) Load(ctx context.Context) (model.CompanyList, error) {
	list, err := dataset.Load(ctx, s.src)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Any cached result refers to the previous list
	s.generation++
	s.cache.Purge()

	if err != nil {
		s.list = model.CompanyList{Companies: []model.Company{}}
		s.errMsg = err.Error()
		logger.Debug("Load failed: %v", err)
		return s.list, err
	}

	if list.Companies == nil {
		list.Companies = []model.Company{}
	}
	s.list = list
	s.errMsg = ""
	s.retries = 0
	return s.list, nil
}

// Retry reloads after a failure, at most MaxRetries times between successful loads
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.retries >= s.opts.MaxRetries {
		s.mu.Unlock()
		return ErrRetryExhausted
	}
	s.retries++
	attempt := s.retries
	s.mu.Unlock()

	logger.Debug("Reloading company list (attempt %d/%d)", attempt, s.opts.MaxRetries)
	_, err := s.Load(ctx)
	return err
}

// CanRetry reports whether the last load failed and another attempt is allowed
func (s *Session) CanRetry() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg != "" && s.retries < s.opts.MaxRetries
}

// Err returns the message of the last failed load, or "" after a successful one
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// UpdateTime returns the update time of the loaded list
func (s *Session) UpdateTime() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.UpdateTime
}

// Companies returns the loaded companies in data order. The slice must not be modified.
func (s *Session) Companies() []model.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Companies
}

// Search runs input against the loaded list.
// Blank input performs no search. The only error is a canceled context.
func (s *Session) Search(ctx context.Context, input string, fuzzy bool) (Result, error) {
	if terms.IsBlank(input) {
		return Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	parsed := terms.Parse(input)
	key := cache.Key(input, fuzzy)

	if companies, ok := s.cache.Get(key); ok {
		logger.Debug("Cache hit for %q", key)
		return Result{Companies: companies, TermCount: len(parsed), Searched: true, Cached: true}, nil
	}

	s.mu.RLock()
	list, generation := s.list, s.generation
	s.mu.RUnlock()

	// Identical concurrent misses share one computation
	flightKey := strconv.FormatUint(generation, 10) + "/" + key
	v, _, _ := s.group.Do(flightKey, func() (interface{}, error) {
		companies := s.engine.Search(list, parsed, match.ModeFor(fuzzy))
		s.computations.Add(1)

		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.generation == generation {
			s.cache.Add(key, companies)
		}
		return companies, nil
	})

	companies := v.([]model.Company)
	logger.Debug("Search %q: %d terms, %d hits", key, len(parsed), len(companies))
	return Result{Companies: companies, TermCount: len(parsed), Searched: true}, nil
}

// ClearCache drops every memoized search result
func (s *Session) ClearCache() {
	s.cache.Purge()
}

// Stats returns a snapshot of session state
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		TotalCompanies: s.list.Len(),
		CacheSize:      s.cache.Len(),
		HasData:        !s.list.Empty(),
		Computations:   s.computations.Load(),
		RetryCount:     s.retries,
		MaxRetries:     s.opts.MaxRetries,
		UpdateTime:     s.list.UpdateTime,
		Error:          s.errMsg,
	}
}

// EngineStats returns the search engine counters
func (s *Session) EngineStats() search.EngineStats {
	return s.engine.Stats()
}
