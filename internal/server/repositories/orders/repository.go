package orders

import (
	"context"

	"github.com/dmitrijs2005/cartsync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
	DeleteItem(ctx context.Context, orderID, productID string) error
}
