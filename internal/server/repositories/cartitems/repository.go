package cartitems

import (
	"context"

	"github.com/dmitrijs2005/cartsync/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	AddQuantity(ctx context.Context, item models.CartItem) error
	SetQuantity(ctx context.Context, userID, productID string, qty int) error
	Delete(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
