package domain

import "time"

// CartLine is one product in a cart. Name, Image and Price are copied from
// the product when the line is created and are not refreshed afterwards.
type CartLine struct {
	ProductID ProductID `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// NewCartLine snapshots the display fields of p into a line of quantity 1.
func NewCartLine(p Product, now time.Time) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Price:     p.Price,
		Quantity:  1,
		AddedAt:   now,
	}
}
