// Package match implements the fuzzy and exact company match strategies
package match

import (
	"strings"

	"github.com/igusev/cfl/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CorporateMarker is the legal-entity marker added or stripped by exact matching
const CorporateMarker = "株式会社"

// Mode selects the match strategy
type Mode int

const (
	// ModeFuzzy matches terms as substrings of code, name or furigana
	ModeFuzzy Mode = iota
	// ModeExact matches whole fields with corporate marker normalization
	ModeExact
)

// ModeFor returns ModeFuzzy when fuzzy is true, ModeExact otherwise
func ModeFor(fuzzy bool) Mode {
	if fuzzy {
		return ModeFuzzy
	}
	return ModeExact
}

func (m Mode) String() string {
	if m == ModeExact {
		return "exact"
	}
	return "fuzzy"
}

// Fold upper-cases s with full Unicode case mapping (e.g., "ß" → "SS").
// A new Caser is created per call because Casers keep state.
func Fold(s string) string {
	return cases.Upper(language.Und).String(s)
}

// FoldAll trims and folds every term, dropping terms left empty
func FoldAll(terms []string) []string {
	folded := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		folded = append(folded, Fold(term))
	}
	return folded
}

// Fields holds the folded comparison fields of one company
type Fields struct {
	Code     string
	Name     string
	Furigana string
}

// FieldsOf folds the searchable fields of c
func FieldsOf(c model.Company) Fields {
	return Fields{
		Code:     Fold(c.Code),
		Name:     Fold(c.Name),
		Furigana: Fold(c.Furigana),
	}
}

// Fuzzy reports whether the folded term is a substring of any field
func Fuzzy(term string, f Fields) bool {
	return strings.Contains(f.Code, term) ||
		strings.Contains(f.Name, term) ||
		strings.Contains(f.Furigana, term)
}

// Exact reports whether the folded term equals a field, allowing the
// corporate marker to be present on the stored name but not in the term.
// The branches are not symmetric: a term carrying the marker never matches
// a stored name without it.
func Exact(term string, f Fields) bool {
	if f.Code == term {
		return true
	}
	if f.Furigana == term {
		return true
	}
	if f.Name == term {
		return true
	}
	return matchNameVariations(term, f.Name)
}

// matchNameVariations compares term against the stored name with the marker
// stripped, then against the name variations built from term
func matchNameVariations(term, name string) bool {
	if StripMarker(name) == term {
		return true
	}
	for _, variation := range Variations(term) {
		if name == variation {
			return true
		}
	}
	return false
}

// StripMarker removes a trailing marker, then a leading marker with the
// whitespace after it, and trims the result
func StripMarker(name string) string {
	name = strings.TrimSuffix(name, CorporateMarker)
	if rest, ok := strings.CutPrefix(name, CorporateMarker); ok {
		name = strings.TrimLeftFunc(rest, isSpace)
	}
	return strings.TrimSpace(name)
}

// Variations returns the stored-name forms a bare term may appear in:
// suffix marker, prefix marker with a space, prefix marker without a space
func Variations(term string) []string {
	return []string{
		term + CorporateMarker,
		CorporateMarker + " " + term,
		CorporateMarker + term,
	}
}
