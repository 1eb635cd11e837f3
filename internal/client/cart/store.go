// Package cart holds the reactive source of truth for the live cart. The UI
// mutates it, the persistence mirror and the sync engine observe it.
package cart

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/notify"
)

// FlagCleaner is the slice of the persistence mirror Clear needs: dropping
// the cart snapshot together with the merge and checkout flags.
type FlagCleaner interface {
	ClearCartState()
}

// Store owns the live cart. All mutations are synchronous and never touch
// the network; subscribers are invoked after every mutation, in order of
// subscription, while the lock is NOT held.
type Store struct {
	mu       sync.Mutex
	items    models.Cart
	subs     []func(models.Cart)
	notifier notify.Notifier
	flags    FlagCleaner
}

func NewStore(notifier notify.Notifier, flags FlagCleaner) *Store {
	return &Store{notifier: notifier, flags: flags}
}

// Subscribe registers fn to be called with a snapshot of the cart after
// every mutation. Not safe to call concurrently with mutations.
func (s *Store) Subscribe(fn func(models.Cart)) {
	s.subs = append(s.subs, fn)
}

// Items returns a by-value snapshot of the cart.
func (s *Store) Items() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Quantities returns the productID -> quantity view of the current cart.
func (s *Store) Quantities() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Quantities()
}

// AddItem appends the item or, if the product is already in the cart,
// accumulates its quantity. Quantities <= 0 are ignored.
func (s *Store) AddItem(item models.CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, item)
	}
	snapshot := s.items.Clone()
	s.mu.Unlock()

	if s.notifier != nil {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		s.notifier.Notify(fmt.Sprintf("%s added to cart", name))
	}
	s.publish(snapshot)
}

// RemoveItem deletes the product from the cart. Removing an absent product
// is a no-op (no notification, no publish).
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	snapshot := s.items.Clone()
	s.mu.Unlock()

	s.publish(snapshot)
}

// SetQuantity sets the product's quantity. qty <= 0 is equivalent to
// RemoveItem. Setting the quantity an item already has is a no-op.
func (s *Store) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			if s.items[i].Quantity != qty {
				s.items[i].Quantity = qty
				changed = true
			}
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	snapshot := s.items.Clone()
	s.mu.Unlock()

	s.publish(snapshot)
}

// Clear resets the cart to empty and drops all cart-related durable flags so
// a fresh session starts clean.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	if s.flags != nil {
		s.flags.ClearCartState()
	}
	s.publish(nil)
}

// Replace swaps the whole cart content. Used only by the merge resolver and
// the session guard when the server becomes (or stops being) authoritative.
func (s *Store) Replace(items models.Cart) {
	s.mu.Lock()
	s.items = items.Clone()
	snapshot := s.items.Clone()
	s.mu.Unlock()

	s.publish(snapshot)
}

func (s *Store) publish(snapshot models.Cart) {
	for _, fn := range s.subs {
		fn(snapshot)
	}
}
