// Package utils holds the query-string and paging helpers shared by the
// comment handlers and services.
package utils

import (
	"strconv"
	"strings"
)

// DefaultPageSize is used when a caller asks for a non-positive page size.
const DefaultPageSize = 20

// AtoiDefault parses a query value such as ?page=2. Surrounding blanks are
// ignored; empty or malformed input yields def.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// Paginate normalizes 1-based page parameters and returns the row offset.
// page < 1 becomes 1; pageSize <= 0 becomes DefaultPageSize; when maxSize > 0
// pageSize is capped at it.
func Paginate(page, pageSize, maxSize int) (p, size, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize, (page - 1) * pageSize
}
