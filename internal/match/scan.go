package match

import (
	"unicode"

	"github.com/igusev/cfl/internal/model"
)

// Predicate decides whether a folded term matches folded fields
type Predicate func(term string, f Fields) bool

// Strategy searches companies for terms without an index
type Strategy func(companies []model.Company, terms []string) []model.Company

// PredicateFor returns the match predicate of mode
func PredicateFor(mode Mode) Predicate {
	if mode == ModeExact {
		return Exact
	}
	return Fuzzy
}

// StrategyFor returns the scanning strategy of mode
func StrategyFor(mode Mode) Strategy {
	return func(companies []model.Company, terms []string) []model.Company {
		return Scan(mode, companies, terms)
	}
}

// Scan returns companies matching any term under mode, in data order.
// Companies sharing a code are reported once (first occurrence wins).
func Scan(mode Mode, companies []model.Company, terms []string) []model.Company {
	folded := FoldAll(terms)
	if len(folded) == 0 {
		return []model.Company{}
	}
	pred := PredicateFor(mode)

	results := make([]model.Company, 0)
	seen := make(map[string]struct{})
	for _, c := range companies {
		f := FieldsOf(c)
		if !anyTerm(pred, folded, f) {
			continue
		}
		if _, dup := seen[f.Code]; dup {
			continue
		}
		seen[f.Code] = struct{}{}
		results = append(results, c)
	}
	return results
}

func anyTerm(pred Predicate, terms []string, f Fields) bool {
	for _, term := range terms {
		if pred(term, f) {
			return true
		}
	}
	return false
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
