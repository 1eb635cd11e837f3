package models

import "time"

// CartItem is one line of a user's server-side cart. One row per
// (user, product) pair.
type CartItem struct {
	UserID    string
	ProductID string
	Name      string
	Quantity  int
	UpdatedAt time.Time
}
