// Package cart holds the line items of a single shopping session.
package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
	"github.com/fjod/go_cart/storefront-service/internal/pricing"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Catalog resolves product ids for Add. *domain.Catalog satisfies it.
type Catalog interface {
	Lookup(id domain.ProductID) (domain.Product, bool)
}

// EventKind tells listeners what changed.
type EventKind string

const (
	EventItemAdded   EventKind = "item_added"
	EventItemRemoved EventKind = "item_removed"
	EventCleared     EventKind = "cleared"
)

// Event is delivered to listeners after every mutation.
type Event struct {
	Kind      EventKind
	ProductID domain.ProductID
	ItemCount int
	Total     decimal.Decimal
}

type Listener func(Event)

// Receipt describes a completed checkout.
type Receipt struct {
	ID        string
	Lines     []domain.CartLine
	ItemCount int
	Total     decimal.Decimal
	PlacedAt  time.Time
}

// Store keeps cart lines in insertion order with at most one line per product.
// It is not safe for concurrent use; callers serialise access per session.
type Store struct {
	catalog   Catalog
	lines     []domain.CartLine
	listeners []Listener
	now       func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for AddedAt and receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLines seeds the store, e.g. from a persisted session.
func WithLines(lines []domain.CartLine) Option {
	return func(s *Store) {
		s.lines = append([]domain.CartLine(nil), lines...)
	}
}

func NewStore(catalog Catalog, opts ...Option) *Store {
	s := &Store{
		catalog: catalog,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to be called after every mutation.
func (s *Store) Subscribe(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

// Add puts one unit of productID into the cart. Unknown ids are ignored and
// Add reports false.
func (s *Store) Add(productID domain.ProductID) bool {
	if s.catalog == nil {
		return false
	}
	product, ok := s.catalog.Lookup(productID)
	if !ok {
		return false
	}

	if i := s.indexOf(productID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, domain.NewCartLine(product, s.now()))
	}

	s.notify(EventItemAdded, productID)
	return true
}

// Remove deletes the line for productID and reports whether one existed.
// Listeners are notified either way.
func (s *Store) Remove(productID domain.ProductID) bool {
	removed := false
	if i := s.indexOf(productID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		removed = true
	}

	s.notify(EventItemRemoved, productID)
	return removed
}

func (s *Store) Clear() {
	s.lines = nil
	s.notify(EventCleared, "")
}

// ItemCount is the sum of quantities, the number shown on the cart badge.
func (s *Store) ItemCount() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// TotalPrice sums the rounded unit price of every line times its quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(pricing.LineTotal(line.Price, line.Quantity))
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	return append([]domain.CartLine{}, s.lines...)
}

// Line returns the line for productID, if any.
func (s *Store) Line(productID domain.ProductID) (domain.CartLine, bool) {
	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i], true
	}
	return domain.CartLine{}, false
}

// Checkout empties the cart and returns what was in it. An empty cart
// yields ErrEmptyCart and is left untouched.
func (s *Store) Checkout() (Receipt, error) {
	if len(s.lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	receipt := Receipt{
		ID:        uuid.New().String(),
		Lines:     s.Lines(),
		ItemCount: s.ItemCount(),
		Total:     s.TotalPrice(),
		PlacedAt:  s.now(),
	}
	s.Clear()
	return receipt, nil
}

func (s *Store) indexOf(productID domain.ProductID) int {
	for i, line := range s.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) notify(kind EventKind, productID domain.ProductID) {
	if len(s.listeners) == 0 {
		return
	}
	ev := Event{
		Kind:      kind,
		ProductID: productID,
		ItemCount: s.ItemCount(),
		Total:     s.TotalPrice(),
	}
	for _, fn := range s.listeners {
		fn(ev)
	}
}
