package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/dbx"
	"github.com/dmitrijs2005/cartsync/internal/server/models"
	"github.com/dmitrijs2005/cartsync/internal/server/repositories/repomanager"
)

// CartService owns the server-side cart: one row per (user, product), always
// positive quantities.
type CartService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCartService(db *sql.DB, m repomanager.RepositoryManager) *CartService {
	return &CartService{db: db, repomanager: m}
}

// Get returns the user's cart. An empty cart is an empty slice, not an error.
func (s *CartService) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.repomanager.CartItems(s.db).ListByUser(ctx, userID)
}

// Add accumulates quantity onto an existing line or creates a new one.
// Non-positive quantities are rejected.
func (s *CartService) Add(ctx context.Context, userID, productID, name string, qty int) error {
	if productID == "" {
		return fmt.Errorf("%w: missing product id", common.ErrorValidation)
	}
	if qty <= 0 {
		return common.ErrorInvalidQuantity
	}
	return s.repomanager.CartItems(s.db).AddQuantity(ctx, models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Name:      name,
		Quantity:  qty,
	})
}

// Remove drops a line. A missing line surfaces as common.ErrorNotFound.
func (s *CartService) Remove(ctx context.Context, userID, productID string) error {
	return s.repomanager.CartItems(s.db).Delete(ctx, userID, productID)
}

// UpdateQuantity overwrites a line's quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, qty int) error {
	if qty < 0 {
		return common.ErrorInvalidQuantity
	}
	if qty == 0 {
		return s.repomanager.CartItems(s.db).Delete(ctx, userID, productID)
	}
	return s.repomanager.CartItems(s.db).SetQuantity(ctx, userID, productID, qty)
}

// Merge folds a guest cart into the user's cart additively: quantities of
// shared products accumulate, everything else is a union. The whole fold runs
// in one transaction and the merged cart is returned.
func (s *CartService) Merge(ctx context.Context, userID string, items []models.CartItem) ([]models.CartItem, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.CartItems(tx)
		for _, item := range items {
			if item.ProductID == "" || item.Quantity <= 0 {
				return fmt.Errorf("%w: bad line item %+v", common.ErrorValidation, item)
			}
			item.UserID = userID
			if err := repo.AddQuantity(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.repomanager.CartItems(s.db).Clear(ctx, userID)
}
