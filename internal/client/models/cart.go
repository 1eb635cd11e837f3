// Package models defines the client-side domain types: cart items, the
// signed-in user, the token pair, and order shapes.
package models

// CartItem is one line of the cart. Quantity is always >= 1: an item with a
// non-positive quantity does not exist (removal, not zero-quantity).
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Cart is an ordered list of items, unique by ProductID. Order matters only
// for display; correctness is defined over the Quantities view.
type Cart []CartItem

// Quantities returns the productID -> quantity view used for diffing.
func (c Cart) Quantities() map[string]int {
	m := make(map[string]int, len(c))
	for _, it := range c {
		m[it.ProductID] = it.Quantity
	}
	return m
}

// Clone returns a by-value copy, safe to keep as a baseline snapshot.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
