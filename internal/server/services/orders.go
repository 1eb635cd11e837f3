package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/dbx"
	"github.com/dmitrijs2005/cartsync/internal/server/models"
	"github.com/dmitrijs2005/cartsync/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager) *OrderService {
	return &OrderService{db: db, repomanager: m}
}

// Create turns the submitted cart snapshot into an order and clears the
// user's cart rows, both inside one transaction. The snapshot is what the
// buyer saw at checkout and may be ahead of the server rows by a
// not-yet-synced change, so the rows are never consulted.
func (s *OrderService) Create(ctx context.Context, userID, shippingAddress, paymentMethod string, items []models.CartItem) (*models.Order, error) {
	if shippingAddress == "" {
		return nil, fmt.Errorf("%w: missing shipping address", common.ErrorValidation)
	}
	if len(items) == 0 {
		return nil, common.ErrorEmptyCart
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: bad line item %+v", common.ErrorValidation, item)
		}
	}

	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
		})
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Orders(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.repomanager.CartItems(tx).Clear(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID string) ([]models.Order, error) {
	return s.repomanager.Orders(s.db).ListByUser(ctx, userID)
}

// Cancel marks the order canceled. Orders of other users surface as
// common.ErrorNotFound; canceling an already-canceled order is a no-op.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) error {
	repo := s.repomanager.Orders(s.db)

	order, err := repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return common.ErrorNotFound
	}
	if order.Status == models.OrderStatusCanceled {
		return nil
	}

	if err := repo.UpdateStatus(ctx, orderID, models.OrderStatusCanceled); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return err
	}
	return nil
}

// CancelItem removes a single line from an order. Lines of canceled orders
// cannot be touched, and orders of other users surface as not found.
func (s *OrderService) CancelItem(ctx context.Context, userID, orderID, productID string) error {
	repo := s.repomanager.Orders(s.db)

	order, err := repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return common.ErrorNotFound
	}
	if order.Status == models.OrderStatusCanceled {
		return fmt.Errorf("%w: order is already canceled", common.ErrorValidation)
	}

	return repo.DeleteItem(ctx, orderID, productID)
}
