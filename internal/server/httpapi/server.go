// Package httpapi exposes the shop services over the JSON HTTP API the
// client speaks: token endpoints, registration, profile, cart operations
// and orders.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/cartsync/internal/logging"
	"github.com/dmitrijs2005/cartsync/internal/server/models"
	"github.com/dmitrijs2005/cartsync/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UserService is the account and token surface the handlers need.
type UserService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, *models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	Logout(ctx context.Context, userID string) error
	UserIDFromAccessToken(tokenString string) (string, error)
}

type CartService interface {
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
	Add(ctx context.Context, userID, productID, name string, qty int) error
	Remove(ctx context.Context, userID, productID string) error
	UpdateQuantity(ctx context.Context, userID, productID string, qty int) error
	Merge(ctx context.Context, userID string, items []models.CartItem) ([]models.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

type OrderService interface {
	Create(ctx context.Context, userID, shippingAddress, paymentMethod string, items []models.CartItem) (*models.Order, error)
	List(ctx context.Context, userID string) ([]models.Order, error)
	Cancel(ctx context.Context, userID, orderID string) error
	CancelItem(ctx context.Context, userID, orderID, productID string) error
}

type Server struct {
	users  UserService
	carts  CartService
	orders OrderService
	log    logging.Logger
}

func NewServer(users UserService, carts CartService, orders OrderService, log logging.Logger) *Server {
	return &Server{users: users, carts: carts, orders: orders, log: log}
}

// Router wires the handlers onto the API paths. Token obtainment and
// registration are public; everything else requires a bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/api/token/", s.handleToken)
	r.Post("/api/token/refresh/", s.handleTokenRefresh)
	r.Post("/api/register/", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/profile/", s.handleProfile)
		r.Post("/api/logout/", s.handleLogout)

		r.Get("/api/cart/", s.handleCartGet)
		r.Post("/api/cart/add", s.handleCartAdd)
		r.Post("/api/cart/remove", s.handleCartRemove)
		r.Post("/api/cart/update-quantity", s.handleCartUpdateQuantity)
		r.Post("/api/cart/merge", s.handleCartMerge)
		r.Post("/api/cart/clear", s.handleCartClear)

		r.Post("/api/orders/", s.handleOrderCreate)
		r.Get("/api/orders/", s.handleOrderList)
		r.Post("/api/orders/{orderID}/cancel", s.handleOrderCancel)
		r.Post("/api/orders/{orderID}/cancel-item", s.handleOrderCancelItem)
	})

	return r
}
