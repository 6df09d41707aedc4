package repository

import (
	"encoding/base64"
	"fmt"
)

// Constants for pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions describes one page request against an entity collection.
// Filters hold equality predicates on enumerated columns; unset filters are
// omitted from the query entirely. Cursor, when non-empty, is the decoded
// sort-column value of the last row of the previous page.
type ListOptions struct {
	Filters   map[string]string
	SortBy    string
	SortOrder string // "asc" or "desc"
	Limit     int    // rows to fetch; callers pass limit+1 to probe for a next page
	Cursor    string
}

// EffectiveLimit clamps a requested page size into [1, MaxPageSize],
// defaulting when the request is zero or negative.
func EffectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// EncodeCursor wraps a sort-column value into an opaque token.
func EncodeCursor(value string) string {
	if value == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(value))
}

// DecodeCursor unwraps an opaque token back to the sort-column value.
func DecodeCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return string(raw), nil
}
