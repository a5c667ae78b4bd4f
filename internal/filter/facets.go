package filter

import "github.com/fjod/go_cart/storefront-service/internal/domain"

// Facets lists the distinct values the filter form can offer, in first-seen order.
type Facets struct {
	Categories []string `json:"categories"`
	Sizes      []string `json:"sizes"`
	Colors     []string `json:"colors"`
	MaxPrice   float64  `json:"max_price"`
}

func BuildFacets(products []domain.Product) Facets {
	f := Facets{
		Categories: []string{},
		Sizes:      []string{},
		Colors:     []string{},
	}
	seenCategory := map[string]bool{}
	seenSize := map[string]bool{}
	seenColor := map[string]bool{}

	for _, p := range products {
		if p.Price > f.MaxPrice {
			f.MaxPrice = p.Price
		}
		if p.Category != "" && !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			f.Categories = append(f.Categories, p.Category)
		}
		for _, s := range p.Sizes {
			if !seenSize[s] {
				seenSize[s] = true
				f.Sizes = append(f.Sizes, s)
			}
		}
		for _, c := range p.Colors {
			if !seenColor[c] {
				seenColor[c] = true
				f.Colors = append(f.Colors, c)
			}
		}
	}
	return f
}
