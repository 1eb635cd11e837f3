package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/common"
)

const requestTimeout = 12 * time.Second

// HTTPClient implements Client over the shop's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

func (c *HTTPClient) access() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// doJSON performs one request. A non-nil out is filled from the response
// body. Status codes are mapped to sentinel errors here and nowhere else.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("request encoding error: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t := c.access(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.ErrorUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", common.ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: %s", common.ErrorValidation, readDetail(resp.Body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("response decoding error: %w", err)
		}
	}
	return nil
}

func readDetail(r io.Reader) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&e); err != nil || e.Detail == "" {
		return "bad request"
	}
	return e.Detail
}

type authResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    models.User `json:"user"`
	Cart    models.Cart `json:"cart"`
}

func (r *authResponse) result() *models.AuthResult {
	return &models.AuthResult{
		Tokens: models.TokenPair{Access: r.Access, Refresh: r.Refresh},
		User:   r.User,
		Cart:   r.Cart,
	}
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string, guestCart models.Cart) (*models.AuthResult, error) {
	req := struct {
		Email     string      `json:"email"`
		Password  string      `json:"password"`
		GuestCart models.Cart `json:"guest_cart,omitempty"`
	}{email, password, guestCart}

	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/token/", req, &resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

func (c *HTTPClient) SignUp(ctx context.Context, reg Registration, guestCart models.Cart) (*models.AuthResult, error) {
	req := struct {
		Registration
		GuestCart models.Cart `json:"guest_cart,omitempty"`
	}{reg, guestCart}

	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/register/", req, &resp); err != nil {
		// The server reports a duplicate account as a plain 400 with the
		// sentinel's text in the detail field.
		if errors.Is(err, common.ErrorValidation) &&
			strings.Contains(err.Error(), common.ErrorUserAlreadyExists.Error()) {
			return nil, common.ErrorUserAlreadyExists
		}
		return nil, err
	}
	return resp.result(), nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	req := struct {
		Refresh string `json:"refresh"`
	}{refreshToken}

	var pair models.TokenPair
	if err := c.doJSON(ctx, http.MethodPost, "/api/token/refresh/", req, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout/", struct{}{}, nil)
}

func (c *HTTPClient) FetchProfile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/profile/", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) FetchCart(ctx context.Context) (models.Cart, error) {
	var cart models.Cart
	if err := c.doJSON(ctx, http.MethodGet, "/api/cart/", nil, &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

func (c *HTTPClient) AddItem(ctx context.Context, productID string, qty int) error {
	return c.doJSON(ctx, http.MethodPost, "/api/cart/add", cartItemRequest{productID, qty}, nil)
}

func (c *HTTPClient) RemoveItem(ctx context.Context, productID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/cart/remove", cartItemRequest{ProductID: productID}, nil)
}

func (c *HTTPClient) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	req := struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}{productID, qty}
	return c.doJSON(ctx, http.MethodPost, "/api/cart/update-quantity", req, nil)
}

func (c *HTTPClient) MergeCart(ctx context.Context, items models.Cart) (models.Cart, error) {
	req := struct {
		Items models.Cart `json:"items"`
	}{items}

	var merged models.Cart
	if err := c.doJSON(ctx, http.MethodPost, "/api/cart/merge", req, &merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (c *HTTPClient) ClearCart(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/cart/clear", struct{}{}, nil)
}

func (c *HTTPClient) CreateOrder(ctx context.Context, order models.NewOrder) (*models.Order, error) {
	var created models.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders/", order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *HTTPClient) CancelOrder(ctx context.Context, orderID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/orders/"+orderID+"/cancel", struct{}{}, nil)
}
