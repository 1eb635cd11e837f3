// Package services contains application services composed on top of the
// reconciliation core. This file defines checkout: validation, session
// revalidation, order submission, and the post-order cart reset.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cartsync/internal/client/api"
	"github.com/dmitrijs2005/cartsync/internal/client/cart"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/notify"
	"github.com/dmitrijs2005/cartsync/internal/client/session"
	"github.com/dmitrijs2005/cartsync/internal/client/storage"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

// syncBaseline is the slice of the sync engine checkout needs: after a
// successful order the server cart is already empty, so the local clear must
// not be pushed as removals.
type syncBaseline interface {
	SetBaseline(models.Cart)
}

type CheckoutService struct {
	client   api.Client
	store    *cart.Store
	guard    *session.Guard
	mirror   *storage.Mirror
	notifier notify.Notifier
	log      logging.Logger
	syncer   syncBaseline
}

func NewCheckoutService(client api.Client, store *cart.Store, guard *session.Guard, mirror *storage.Mirror, notifier notify.Notifier, log logging.Logger) *CheckoutService {
	return &CheckoutService{client: client, store: store, guard: guard, mirror: mirror, notifier: notifier, log: log}
}

// AttachSync registers the sync engine so a successful checkout can mark the
// emptied cart as already server-consistent.
func (s *CheckoutService) AttachSync(syncer syncBaseline) {
	s.syncer = syncer
}

// PlaceOrder submits the current cart as an order. Validation failures are
// rejected before any network call and leave the cart untouched. The session
// is revalidated first; the rate limiter in the guard absorbs the collision
// with a concurrently running background refresh.
func (s *CheckoutService) PlaceOrder(ctx context.Context, shippingAddress, paymentMethod string) (*models.Order, error) {
	items := s.store.Items()
	if items.IsEmpty() {
		s.notifier.Notify("Your cart is empty")
		return nil, common.ErrorEmptyCart
	}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 {
			s.notifier.Notify("Your cart contains an invalid item")
			return nil, fmt.Errorf("%w: bad line item %+v", common.ErrorValidation, it)
		}
	}
	if shippingAddress == "" {
		s.notifier.Notify("A shipping address is required")
		return nil, fmt.Errorf("%w: missing shipping address", common.ErrorValidation)
	}

	if !s.guard.RefreshSession(ctx) {
		s.notifier.Notify("Your session has expired, please sign in again")
		return nil, common.ErrorUnauthorized
	}

	order, err := s.client.CreateOrder(ctx, models.NewOrder{
		Items:           items,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
	})
	if err != nil {
		return nil, fmt.Errorf("order submission error: %w", err)
	}

	// The backend cleared its cart as part of order creation, so the local
	// clear must not be diffed into removals.
	if s.syncer != nil {
		s.syncer.SetBaseline(nil)
	}
	// Clear first (it drops all cart flags), then set the one-shot flag so a
	// restart does not resurrect the just-ordered cart.
	s.store.Clear()
	if err := s.mirror.SetCheckoutJustCompleted(ctx, true); err != nil {
		s.log.Warn(ctx, "failed to set checkout flag", "error", err)
	}

	s.notifier.Notify(fmt.Sprintf("Order %s placed", order.ID))
	return order, nil
}

// Orders lists the user's orders.
func (s *CheckoutService) Orders(ctx context.Context) ([]models.Order, error) {
	return s.client.ListOrders(ctx)
}

// CancelOrder cancels a placed order.
func (s *CheckoutService) CancelOrder(ctx context.Context, orderID string) error {
	if err := s.client.CancelOrder(ctx, orderID); err != nil {
		return fmt.Errorf("order cancel error: %w", err)
	}
	s.notifier.Notify(fmt.Sprintf("Order %s canceled", orderID))
	return nil
}
