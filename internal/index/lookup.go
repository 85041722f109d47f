package index

import (
	"github.com/igusev/cfl/internal/match"
	"github.com/igusev/cfl/internal/model"
)

// collector unions positions into a result list deduplicated by folded code
type collector struct {
	idx     *Index
	seen    map[string]struct{}
	results []model.Company
}

func (idx *Index) newCollector() *collector {
	return &collector{
		idx:     idx,
		seen:    make(map[string]struct{}),
		results: make([]model.Company, 0),
	}
}

func (c *collector) add(pos int32) {
	code := c.idx.fields[pos].Code
	if _, ok := c.seen[code]; ok {
		return
	}
	c.seen[code] = struct{}{}
	c.results = append(c.results, c.idx.companies[pos])
}

func (c *collector) addAll(list []int32) {
	for _, pos := range list {
		c.add(pos)
	}
}

// FuzzyLookup returns companies whose code equals a term or whose code, name
// or furigana contains it. Terms shorter than MinKeyRunes only match codes exactly.
func (idx *Index) FuzzyLookup(terms []string) []model.Company {
	c := idx.newCollector()
	for _, term := range match.FoldAll(terms) {
		c.addAll(idx.code[term])
		c.addAll(idx.codeSubstring[term])
		c.addAll(idx.name[term])
		c.addAll(idx.furigana[term])
	}
	return c.results
}

// ExactLookup rescans all companies with the exact predicate.
// Substring keys cannot answer equality with marker normalization.
func (idx *Index) ExactLookup(terms []string) []model.Company {
	c := idx.newCollector()
	for _, term := range match.FoldAll(terms) {
		for i, f := range idx.fields {
			if match.Exact(term, f) {
				c.add(int32(i))
			}
		}
	}
	return c.results
}

// Lookup dispatches to FuzzyLookup or ExactLookup
func (idx *Index) Lookup(mode match.Mode, terms []string) []model.Company {
	if mode == match.ModeExact {
		return idx.ExactLookup(terms)
	}
	return idx.FuzzyLookup(terms)
}

// Stats describes the size of an index
type Stats struct {
	TotalCompanies    int `json:"totalCompanies"`
	CodeKeys          int `json:"codeKeys"`
	CodeSubstringKeys int `json:"codeSubstringKeys"`
	NameKeys          int `json:"nameKeys"`
	FuriganaKeys      int `json:"furiganaKeys"`
}

// Stats returns key counts per mapping
func (idx *Index) Stats() Stats {
	return Stats{
		TotalCompanies:    len(idx.companies),
		CodeKeys:          len(idx.code),
		CodeSubstringKeys: len(idx.codeSubstring),
		NameKeys:          len(idx.name),
		FuriganaKeys:      len(idx.furigana),
	}
}
