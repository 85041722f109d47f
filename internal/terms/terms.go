// Package terms splits raw user input into search terms
package terms

import "strings"

// isSeparator reports whether r splits two terms
func isSeparator(r rune) bool {
	return r == ',' || r == '\n'
}

// Parse splits input on runs of commas and newlines, trims each piece and
// drops empty ones. Order and duplicates are preserved.
func Parse(input string) []string {
	pieces := strings.FieldsFunc(input, isSeparator)

	result := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		result = append(result, piece)
	}
	return result
}

// Normalize returns the lower-cased, trimmed form of input used as a cache key
func Normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// IsBlank reports whether input has nothing to search for
func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}
