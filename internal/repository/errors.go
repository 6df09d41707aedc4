package repository

import "errors"

// ErrNotFound wraps all "no such row" results so handlers can map them to 404.
var ErrNotFound = errors.New("not found")

// ErrSearchUnsupported is returned by full-text search on stores without
// full-text infrastructure (SQLite). Callers fall back to substring search.
var ErrSearchUnsupported = errors.New("full-text search not supported")

// ErrInvalidCursor marks pagination tokens that cannot be decoded or do not
// hold a sort-column value. Handlers map it to 400.
var ErrInvalidCursor = errors.New("invalid cursor")
