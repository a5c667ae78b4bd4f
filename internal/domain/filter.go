package domain

import "math"

// Wildcard matches any value of a filter field.
const Wildcard = "all"

// FilterCriteria selects products from the standard collection.
type FilterCriteria struct {
	Category string
	MaxPrice float64 // inclusive
	Size     string
	Color    string
}

// MatchAll returns criteria that every product satisfies.
func MatchAll() FilterCriteria {
	return FilterCriteria{
		Category: Wildcard,
		MaxPrice: math.Inf(1),
		Size:     Wildcard,
		Color:    Wildcard,
	}
}
