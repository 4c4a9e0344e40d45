package util

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate turns a 1-based page number and a page size into an offset and
// limit. Out of range values fall back to page 1 and DefaultPageSize.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

// Pages is the number of pages needed for total items, never less than 1.
func Pages(total, size int) int {
	if size <= 0 || total <= size {
		return 1
	}
	return (total + size - 1) / size
}

// Window clamps the range [from, from+limit) to a slice of length n.
func Window(n, from, limit int) (lo, hi int) {
	lo = min(max(from, 0), n)
	hi = min(lo+max(limit, 0), n)
	return lo, hi
}

func ParseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
