// Package query filters, sorts and paginates in-memory collections.
//
// Every admin table runs the same pipeline over a slice fetched from the
// backend: keep the items matching a predicate, order them with a comparator,
// then cut one page out. The input slice is never modified.
package query

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const DefaultPageSize = 50

// Page is one slice of a filtered collection plus the totals needed to
// render a pager.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Comparator returns a negative number when a sorts before b, zero when
// they are equal and a positive number otherwise.
type Comparator[T any] func(a, b T) int

type Options[T any] struct {
	Predicate func(T) bool
	Compare   Comparator[T]
	Page      int
	PageSize  int
}

// Collection runs filter, stable sort and pagination over items.
func Collection[T any](items []T, opts Options[T]) Page[T] {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if opts.Predicate == nil || opts.Predicate(item) {
			filtered = append(filtered, item)
		}
	}
	if opts.Compare != nil {
		slices.SortStableFunc(filtered, opts.Compare)
	}
	return Paginate(filtered, opts.Page, opts.PageSize)
}

// Paginate cuts page (1-based) out of items. Pages past the end are empty
// but keep the totals.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	// Compared before multiplying so that huge page numbers cannot overflow.
	start := total
	if page-1 < totalPages {
		start = (page - 1) * pageSize
	}
	end := total
	if total-start > pageSize {
		end = start + pageSize
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// MatchAny reports whether term is a case-insensitive substring of any of
// fields. An empty term matches everything.
func MatchAny(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// And combines predicates; nil predicates are skipped.
func And[T any](preds ...func(T) bool) func(T) bool {
	return func(item T) bool {
		for _, p := range preds {
			if p != nil && !p(item) {
				return false
			}
		}
		return true
	}
}

// collate.Collator keeps internal buffers, one per goroutine.
var collators = sync.Pool{
	New: func() any { return collate.New(language.Und) },
}

// CompareStrings orders a and b the way a browser's localeCompare does for
// the root locale.
func CompareStrings(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

func ByString[T any](key func(T) string) Comparator[T] {
	return func(a, b T) int {
		return CompareStrings(key(a), key(b))
	}
}

func ByNumber[T any, N cmp.Ordered](key func(T) N) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

func ByTime[T any](key func(T) time.Time) Comparator[T] {
	return func(a, b T) int {
		return key(a).Compare(key(b))
	}
}

func (c Comparator[T]) Reverse() Comparator[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}
