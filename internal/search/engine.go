// Package search selects between scanning and indexed lookup for company searches
package search

import (
	"sync"
	"time"

	"github.com/igusev/cfl/internal/index"
	"github.com/igusev/cfl/internal/logger"
	"github.com/igusev/cfl/internal/match"
	"github.com/igusev/cfl/internal/model"
)

// DefaultIndexThreshold is the list size above which searches go through the index
const DefaultIndexThreshold = 100

// Engine runs searches and memoizes one index for the most recent dataset.
// Safe for concurrent use.
type Engine struct {
	threshold int

	mu          sync.Mutex
	idx         *index.Index
	fingerprint string
	// identity of the list the index was built from, for the fast path
	first      *model.Company
	length     int
	updateTime string

	builds   int
	indexed  int
	scanned  int
	lastPath Path
}

// Path tells which code path served a search
type Path string

const (
	PathNone  Path = ""
	PathScan  Path = "scan"
	PathIndex Path = "index"
)

// EngineStats reports engine activity
type EngineStats struct {
	IndexThreshold  int          `json:"indexThreshold"`
	IndexBuilds     int          `json:"indexBuilds"`
	IndexedSearches int          `json:"indexedSearches"`
	ScannedSearches int          `json:"scannedSearches"`
	LastPath        Path         `json:"lastPath"`
	Index           *index.Stats `json:"index,omitempty"`
}

// NewEngine creates an engine. A negative threshold selects DefaultIndexThreshold.
func NewEngine(threshold int) *Engine {
	if threshold < 0 {
		threshold = DefaultIndexThreshold
	}
	return &Engine{threshold: threshold}
}

// UsesIndex reports whether a list of n companies is searched through the index
func (e *Engine) UsesIndex(n int) bool {
	return n > e.threshold
}

// Search returns the companies in list matching any of terms under mode.
// Lists above the threshold are served by the index, smaller ones by a scan.
// Both paths return the same set for terms of at least index.MinKeyRunes runes.
func (e *Engine) Search(list model.CompanyList, terms []string, mode match.Mode) []model.Company {
	if !e.UsesIndex(list.Len()) {
		e.record(PathScan)
		return match.Scan(mode, list.Companies, terms)
	}

	idx := e.indexFor(list)
	e.record(PathIndex)
	return idx.Lookup(mode, terms)
}

func (e *Engine) record(path Path) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastPath = path
	if path == PathIndex {
		e.indexed++
	} else {
		e.scanned++
	}
}

// indexFor returns the memoized index for list, rebuilding it when the content changed
func (e *Engine) indexFor(list model.CompanyList) *index.Index {
	e.mu.Lock()
	defer e.mu.Unlock()

	first := &list.Companies[0]
	if e.idx != nil && e.first == first && e.length == list.Len() && e.updateTime == list.UpdateTime {
		return e.idx
	}

	fingerprint := list.Fingerprint()
	if e.idx == nil || e.fingerprint != fingerprint {
		start := time.Now()
		e.idx = index.Build(list.Companies)
		e.fingerprint = fingerprint
		e.builds++
		logger.Debug("Built search index for %d companies in %v", list.Len(), time.Since(start))
	}

	e.first = first
	e.length = list.Len()
	e.updateTime = list.UpdateTime
	return e.idx
}

// Reset drops the memoized index
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.idx = nil
	e.fingerprint = ""
	e.first = nil
	e.length = 0
	e.updateTime = ""
}

// Stats returns a snapshot of engine counters
func (e *Engine) Stats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := EngineStats{
		IndexThreshold:  e.threshold,
		IndexBuilds:     e.builds,
		IndexedSearches: e.indexed,
		ScannedSearches: e.scanned,
		LastPath:        e.lastPath,
	}
	if e.idx != nil {
		s := e.idx.Stats()
		stats.Index = &s
	}
	return stats
}
