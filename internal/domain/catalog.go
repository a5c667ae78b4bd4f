package domain

import "time"

// Catalog is the union of the standard and exclusive collections.
// It is read-only once published.
type Catalog struct {
	Standard  []Product
	Exclusive []Product
	LoadedAt  time.Time
}

// Lookup finds a product by id, searching the standard collection first.
// When an id exists in both collections the standard product wins.
func (c *Catalog) Lookup(id ProductID) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	for _, p := range c.Standard {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range c.Exclusive {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// SharedIDs returns ids present in both collections, in standard-collection order.
func (c *Catalog) SharedIDs() []ProductID {
	if c == nil {
		return nil
	}
	exclusive := make(map[ProductID]struct{}, len(c.Exclusive))
	for _, p := range c.Exclusive {
		exclusive[p.ID] = struct{}{}
	}
	var shared []ProductID
	for _, p := range c.Standard {
		if _, ok := exclusive[p.ID]; ok {
			shared = append(shared, p.ID)
		}
	}
	return shared
}
