package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrMissingProductID   = errors.New("product id is required")
	ErrMissingProductName = errors.New("product name is required")
	ErrInvalidPrice       = errors.New("product price must be a finite non-negative number")
)

// ProductID identifies a product across both catalog collections.
// Catalog documents carry it either as a JSON number or a JSON string;
// both decode to the same textual form, so 7 and "7" are equal.
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("product id: null is not an identifier")
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		*id = ProductID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string {
	return string(id)
}

// Product is a catalog record. It is never modified after the catalog is published.
type Product struct {
	ID                  ProductID `json:"id"`
	Name                string    `json:"name"`
	Price               float64   `json:"price"`
	Description         string    `json:"description"`
	Category            string    `json:"category"`
	Image               string    `json:"image"`
	Sizes               []string  `json:"sizes,omitempty"`
	Colors              []string  `json:"colors,omitempty"`
	ExcludeFromFeatured bool      `json:"excludeFromFeatured,omitempty"`
}

// Validate checks the fields the engine relies on.
func (p Product) Validate() error {
	if p.ID == "" {
		return ErrMissingProductID
	}
	if p.Name == "" {
		return fmt.Errorf("product %s: %w", p.ID, ErrMissingProductName)
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("product %s: %w", p.ID, ErrInvalidPrice)
	}
	return nil
}

// HasSize reports whether the product declares the given size variant.
func (p Product) HasSize(size string) bool {
	return contains(p.Sizes, size)
}

// HasColor reports whether the product declares the given color variant.
func (p Product) HasColor(color string) bool {
	return contains(p.Colors, color)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
