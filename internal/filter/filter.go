// Package filter selects products for listings: criteria filtering for the
// products page and random featured sampling for the home page.
package filter

import (
	"math"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

// DefaultFeaturedCount is the size of the home page selection.
const DefaultFeaturedCount = 6

// Filter returns the products matching c, in their original order.
func Filter(products []domain.Product, c domain.FilterCriteria) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Match(p, c) {
			result = append(result, p)
		}
	}
	return result
}

// Match reports whether p satisfies every predicate of c.
func Match(p domain.Product, c domain.FilterCriteria) bool {
	if c.Category != domain.Wildcard && p.Category != c.Category {
		return false
	}
	if !(p.Price <= c.MaxPrice) {
		return false
	}
	if c.Size != domain.Wildcard && !p.HasSize(c.Size) {
		return false
	}
	if c.Color != domain.Wildcard && !p.HasColor(c.Color) {
		return false
	}
	return true
}

// Featured picks up to n products not flagged ExcludeFromFeatured, in random
// order. A nil rng uses the global source.
func Featured(products []domain.Product, n int, rng *rand.Rand) []domain.Product {
	eligible := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !p.ExcludeFromFeatured {
			eligible = append(eligible, p)
		}
	}

	swap := func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] }
	if rng != nil {
		rng.Shuffle(len(eligible), swap)
	} else {
		rand.Shuffle(len(eligible), swap)
	}

	if n < 0 {
		n = 0
	}
	if n < len(eligible) {
		eligible = eligible[:n]
	}
	return eligible
}

// ParseCriteria builds criteria from raw form values. Absent or empty
// category, size and color mean "all"; an absent or empty maxPrice means no
// limit.
// maxPrice is read like a price slider value: the leading integer counts and
// the rest is ignored, so "1500.9" is 1500. A value with no leading integer
// becomes NaN and matches nothing.
func ParseCriteria(values url.Values) domain.FilterCriteria {
	c := domain.FilterCriteria{
		Category: valueOrWildcard(values, "category"),
		MaxPrice: math.Inf(1),
		Size:     valueOrWildcard(values, "size"),
		Color:    valueOrWildcard(values, "color"),
	}
	if raw := values.Get("maxPrice"); strings.TrimSpace(raw) != "" {
		c.MaxPrice = leadingInt(raw)
	}
	return c
}

// leadingInt parses an optional sign followed by decimal digits at the start
// of s, after leading whitespace. It returns NaN when there are no digits.
func leadingInt(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

func valueOrWildcard(values url.Values, key string) string {
	if v := strings.TrimSpace(values.Get(key)); v != "" {
		return v
	}
	return domain.Wildcard
}
