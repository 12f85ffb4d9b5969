package models

// SearchResult is what the search pages render: the match count and rows.
type SearchResult[T any] struct {
	Count int
	Data  []T
}
