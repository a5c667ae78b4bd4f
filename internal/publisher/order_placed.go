// Package publisher announces completed checkouts to downstream consumers.
package publisher

import (
	"time"

	"github.com/fjod/go_cart/storefront-service/internal/cart"
	"github.com/fjod/go_cart/storefront-service/internal/domain"
	"github.com/fjod/go_cart/storefront-service/internal/pricing"
)

type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// OrderPlaced is the event emitted for every successful checkout.
type OrderPlaced struct {
	OrderID     string      `json:"order_id"`
	SessionID   string      `json:"session_id"`
	UserID      int         `json:"user_id,omitempty"`
	Items       []OrderItem `json:"items"`
	ItemCount   int         `json:"item_count"`
	TotalAmount string      `json:"total_amount"`
	Currency    string      `json:"currency"`
	PlacedAt    time.Time   `json:"placed_at"`
}

func NewOrderPlaced(sessionID string, user *domain.User, r cart.Receipt) OrderPlaced {
	items := make([]OrderItem, len(r.Lines))
	for i, line := range r.Lines {
		items[i] = OrderItem{
			ProductID:   line.ProductID.String(),
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   pricing.FormatTotal(pricing.DisplayPrice(line.Price)),
			Subtotal:    pricing.FormatTotal(pricing.LineTotal(line.Price, line.Quantity)),
		}
	}

	event := OrderPlaced{
		OrderID:     r.ID,
		SessionID:   sessionID,
		Items:       items,
		ItemCount:   r.ItemCount,
		TotalAmount: pricing.FormatTotal(r.Total),
		Currency:    pricing.CurrencyCode,
		PlacedAt:    r.PlacedAt,
	}
	if user != nil {
		event.UserID = user.ID
	}
	return event
}
