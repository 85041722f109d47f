// Package jsonc decodes JSON documents that carry // and /* */ comments
package jsonc

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyInput is returned when the document is empty or whitespace only
var ErrEmptyInput = errors.New("input is empty")

// MalformedError is returned when the document is not valid JSON after comments are removed
type MalformedError struct {
	Err error
}

func (e *MalformedError) Error() string {
	return "malformed document: " + e.Err.Error()
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// scanner modes, mutually exclusive
type mode int

const (
	modeNormal mode = iota
	modeString
	modeLineComment
	modeBlockComment
)

// Strip removes comments from text while leaving string literals untouched.
// A line comment ends at the next line break, which is kept in the output.
func Strip(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	m := modeNormal
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		var next byte
		if i+1 < len(text) {
			next = text[i+1]
		}

		switch m {
		case modeString:
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				m = modeNormal
			}

		case modeLineComment:
			if ch == '\n' || ch == '\r' {
				m = modeNormal
				out.WriteByte(ch)
			}

		case modeBlockComment:
			if ch == '*' && next == '/' {
				m = modeNormal
				i++
			}

		default:
			switch {
			case ch == '/' && next == '/':
				m = modeLineComment
				i++
			case ch == '/' && next == '*':
				m = modeBlockComment
				i++
			default:
				if ch == '"' {
					m = modeString
				}
				out.WriteByte(ch)
			}
		}
	}

	return out.String()
}

// Decode strips comments and parses the remainder into a generic value
// (map[string]any, []any, string, float64, bool or nil)
func Decode(text string) (any, error) {
	var v any
	if err := Unmarshal(text, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Unmarshal strips comments and parses the remainder into v
func Unmarshal(text string, v any) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	if err := json.Unmarshal([]byte(Strip(text)), v); err != nil {
		return &MalformedError{Err: err}
	}
	return nil
}
