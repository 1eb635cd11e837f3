// Package api defines the backend collaborator the reconciliation core talks
// to. The core only sees this interface and the sentinel errors in
// internal/common; the wire protocol lives entirely in the HTTP
// implementation.
package api

import (
	"context"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
)

// Client is the request/response collaborator for the shop backend.
//
// Implementations must map "credential rejected" responses to
// common.ErrorUnauthorized and transient backend unavailability to
// common.ErrUnavailable so callers can distinguish them with errors.Is.
type Client interface {
	Close() error

	// Auth.
	SignIn(ctx context.Context, email, password string, guestCart models.Cart) (*models.AuthResult, error)
	SignUp(ctx context.Context, reg Registration, guestCart models.Cart) (*models.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	FetchProfile(ctx context.Context) (*models.User, error)
	// Logout tells the backend to drop the server-side cart for this user.
	Logout(ctx context.Context) error

	// Cart.
	FetchCart(ctx context.Context) (models.Cart, error)
	AddItem(ctx context.Context, productID string, qty int) error
	RemoveItem(ctx context.Context, productID string) error
	UpdateQuantity(ctx context.Context, productID string, qty int) error
	MergeCart(ctx context.Context, items models.Cart) (models.Cart, error)
	ClearCart(ctx context.Context) error

	// Orders.
	CreateOrder(ctx context.Context, order models.NewOrder) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	CancelOrder(ctx context.Context, orderID string) error

	// SetTokens installs the credentials attached to subsequent requests.
	// It is called by the session guard on sign-in, refresh, and logout
	// (with empty strings).
	SetTokens(access, refresh string)
}

// Registration carries the sign-up form fields.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}
