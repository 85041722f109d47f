// Package index provides a precomputed substring index over company fields
package index

import (
	"github.com/igusev/cfl/internal/match"
	"github.com/igusev/cfl/internal/model"
)

// MinKeyRunes is the shortest substring registered as a key.
// Single-character terms are not meaningful lookups.
const MinKeyRunes = 2

// postings maps a folded key to positions in Index.companies
type postings map[string][]int32

// Index maps folded codes and field substrings to the companies containing them.
// It is built once and never mutated afterwards, so it is safe for concurrent reads.
type Index struct {
	companies []model.Company
	fields    []match.Fields

	code          postings // exact code
	codeSubstring postings // code substrings of MinKeyRunes or more
	name          postings // name substrings
	furigana      postings // furigana substrings
}

// Build creates an index over companies.
// Cost is quadratic in field length since every substring becomes a key.
func Build(companies []model.Company) *Index {
	idx := &Index{
		companies:     companies,
		fields:        make([]match.Fields, len(companies)),
		code:          make(postings, len(companies)),
		codeSubstring: make(postings),
		name:          make(postings, len(companies)*8),
		furigana:      make(postings, len(companies)*8),
	}

	seenCodes := make(map[string]struct{}, len(companies))
	for i, c := range companies {
		f := match.FieldsOf(c)
		idx.fields[i] = f

		_, dupCode := seenCodes[f.Code]
		seenCodes[f.Code] = struct{}{}

		pos := int32(i)
		idx.add(idx.code, f.Code, pos, dupCode)
		idx.addSubstrings(idx.codeSubstring, f.Code, pos, dupCode)
		idx.addSubstrings(idx.name, f.Name, pos, dupCode)
		idx.addSubstrings(idx.furigana, f.Furigana, pos, dupCode)
	}

	return idx
}

// add registers pos under key unless a company with the same code is already there
func (idx *Index) add(p postings, key string, pos int32, dupCode bool) {
	if key == "" {
		return
	}
	list := p[key]
	// Repeated substring within the same field, e.g. "AB" in "ABAB"
	if n := len(list); n > 0 && list[n-1] == pos {
		return
	}
	if dupCode && idx.hasCode(list, idx.fields[pos].Code) {
		return
	}
	p[key] = append(list, pos)
}

// addSubstrings registers every substring of s with at least MinKeyRunes runes
func (idx *Index) addSubstrings(p postings, s string, pos int32, dupCode bool) {
	// Byte offsets of rune starts plus the end of s
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))

	runes := len(offsets) - 1
	for start := 0; start < runes; start++ {
		for end := start + MinKeyRunes; end <= runes; end++ {
			idx.add(p, s[offsets[start]:offsets[end]], pos, dupCode)
		}
	}
}

func (idx *Index) hasCode(list []int32, code string) bool {
	for _, p := range list {
		if idx.fields[p].Code == code {
			return true
		}
	}
	return false
}

// Len returns the number of indexed companies
func (idx *Index) Len() int {
	return len(idx.companies)
}
