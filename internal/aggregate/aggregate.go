// Package aggregate merges per-hypothesis catalog results into one
// bounded, deduplicated list.
package aggregate

import "github.com/openshelf/shelfscan/internal/books"

// DefaultLimit caps the merged result list when callers pass no
// explicit bound.
const DefaultLimit = 10

// Merge walks the lists in the order given (hypothesis, region, or tag
// arrival order) and each list in source order, emitting a record the
// first time its ISBN-13 is seen. First seen wins, so the earlier
// record's display fields are kept. Merging stops once limit unique
// records have been emitted.
func Merge(lists [][]books.Book, limit int) []books.Book {
	if limit <= 0 {
		limit = DefaultLimit
	}

	seen := make(map[string]struct{})
	merged := make([]books.Book, 0, limit)
	for _, list := range lists {
		for _, b := range list {
			if b.ISBN13 == "" {
				continue
			}
			if _, dup := seen[b.ISBN13]; dup {
				continue
			}
			seen[b.ISBN13] = struct{}{}
			merged = append(merged, b)
			if len(merged) >= limit {
				return merged
			}
		}
	}
	return merged
}
