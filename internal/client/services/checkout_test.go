package services

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cartsync/internal/client/api"
	"github.com/dmitrijs2005/cartsync/internal/client/cart"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/notify"
	"github.com/dmitrijs2005/cartsync/internal/client/session"
	"github.com/dmitrijs2005/cartsync/internal/client/storage"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeClient implements api.Client; only the checkout-relevant calls record
// anything.
type fakeClient struct {
	mu sync.Mutex

	profile    *models.User
	profileErr error

	createdOrders []models.NewOrder
	createErr     error

	canceled []string
}

func (f *fakeClient) Close() error                     { return nil }
func (f *fakeClient) SetTokens(a, r string)            {}
func (f *fakeClient) Logout(ctx context.Context) error { return nil }

func (f *fakeClient) SignIn(ctx context.Context, email, password string, guestCart models.Cart) (*models.AuthResult, error) {
	return &models.AuthResult{
		Tokens: models.TokenPair{Access: "acc", Refresh: "ref"},
		User:   models.User{ID: "u1"},
	}, nil
}

func (f *fakeClient) SignUp(ctx context.Context, reg api.Registration, guestCart models.Cart) (*models.AuthResult, error) {
	return f.SignIn(ctx, reg.Email, reg.Password, guestCart)
}

func (f *fakeClient) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return nil, common.ErrorUnauthorized
}

func (f *fakeClient) FetchProfile(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile, f.profileErr
}

func (f *fakeClient) FetchCart(ctx context.Context) (models.Cart, error)      { return nil, nil }
func (f *fakeClient) AddItem(ctx context.Context, id string, qty int) error   { return nil }
func (f *fakeClient) RemoveItem(ctx context.Context, id string) error         { return nil }
func (f *fakeClient) UpdateQuantity(ctx context.Context, id string, qty int) error {
	return nil
}
func (f *fakeClient) MergeCart(ctx context.Context, items models.Cart) (models.Cart, error) {
	return nil, nil
}
func (f *fakeClient) ClearCart(ctx context.Context) error { return nil }

func (f *fakeClient) CreateOrder(ctx context.Context, o models.NewOrder) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdOrders = append(f.createdOrders, o)
	return &models.Order{ID: "o1", Status: "pending", Items: o.Items}, nil
}

func (f *fakeClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	return []models.Order{{ID: "o1", Status: "pending"}}, nil
}

func (f *fakeClient) CancelOrder(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled = append(f.canceled, id)
	return nil
}

func setupCheckout(t *testing.T, client *fakeClient) (*CheckoutService, *cart.Store, *storage.Mirror, *[]string) {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE local_state (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	mirror := storage.NewMirror(storage.NewKVRepository(db), log)

	var msgs []string
	notifier := notify.Func(func(m string) { msgs = append(msgs, m) })

	store := cart.NewStore(notifier, mirror)
	guard := session.NewGuard(client, mirror, store, log)
	guard.SetIntervals(time.Hour, 2*time.Second)
	t.Cleanup(guard.Close)

	_, err = guard.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	return NewCheckoutService(client, store, guard, mirror, notifier, log), store, mirror, &msgs
}

func TestPlaceOrder_EmptyCartRejectedBeforeNetwork(t *testing.T) {
	client := &fakeClient{profile: &models.User{ID: "u1"}}
	svc, _, _, msgs := setupCheckout(t, client)

	_, err := svc.PlaceOrder(context.Background(), "Street 1", "card")
	require.ErrorIs(t, err, common.ErrorEmptyCart)
	assert.Empty(t, client.createdOrders)
	assert.Contains(t, (*msgs)[len(*msgs)-1], "empty")
}

func TestPlaceOrder_MissingShippingAddress(t *testing.T) {
	client := &fakeClient{profile: &models.User{ID: "u1"}}
	svc, store, _, _ := setupCheckout(t, client)
	store.AddItem(models.CartItem{ProductID: "p1", Quantity: 2})

	_, err := svc.PlaceOrder(context.Background(), "", "card")
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Empty(t, client.createdOrders)
	assert.Len(t, store.Items(), 1, "cart left untouched")
}

func TestPlaceOrder_SessionExpired(t *testing.T) {
	client := &fakeClient{profileErr: common.ErrorUnauthorized}
	svc, store, _, _ := setupCheckout(t, client)
	store.AddItem(models.CartItem{ProductID: "p1", Quantity: 2})

	_, err := svc.PlaceOrder(context.Background(), "Street 1", "card")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Empty(t, client.createdOrders)
}

func TestPlaceOrder_Success(t *testing.T) {
	client := &fakeClient{profile: &models.User{ID: "u1"}}
	svc, store, mirror, _ := setupCheckout(t, client)
	store.AddItem(models.CartItem{ProductID: "p1", Quantity: 2})
	store.AddItem(models.CartItem{ProductID: "p2", Quantity: 1})

	order, err := svc.PlaceOrder(context.Background(), "Street 1", "card")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	require.Len(t, client.createdOrders, 1)
	assert.Equal(t, "Street 1", client.createdOrders[0].ShippingAddress)
	assert.Len(t, client.createdOrders[0].Items, 2)

	assert.Empty(t, store.Items(), "cart cleared after a successful order")
	assert.True(t, mirror.CheckoutJustCompleted(context.Background()))
	assert.Empty(t, mirror.Load(context.Background()), "restart starts clean")
}

func TestPlaceOrder_OrderReflectsCartAtCheckoutTime(t *testing.T) {
	client := &fakeClient{profile: &models.User{ID: "u1"}}
	svc, store, _, _ := setupCheckout(t, client)
	store.AddItem(models.CartItem{ProductID: "p1", Name: "Mug", Quantity: 2})
	// A line added moments before checkout has not been pushed to the
	// server yet. The order must still carry it.
	store.AddItem(models.CartItem{ProductID: "p2", Name: "Pen", Quantity: 1})

	_, err := svc.PlaceOrder(context.Background(), "Street 1", "card")
	require.NoError(t, err)

	require.Len(t, client.createdOrders, 1)
	got := map[string]int{}
	for _, item := range client.createdOrders[0].Items {
		got[item.ProductID] = item.Quantity
	}
	assert.Equal(t, map[string]int{"p1": 2, "p2": 1}, got)
	assert.Empty(t, store.Items())
}

type recordingBaseline struct {
	calls []models.Cart
}

func (r *recordingBaseline) SetBaseline(c models.Cart) { r.calls = append(r.calls, c) }

func TestPlaceOrder_MarksClearAsServerConsistent(t *testing.T) {
	client := &fakeClient{profile: &models.User{ID: "u1"}}
	svc, store, _, _ := setupCheckout(t, client)
	rec := &recordingBaseline{}
	svc.AttachSync(rec)
	store.AddItem(models.CartItem{ProductID: "p1", Quantity: 2})

	_, err := svc.PlaceOrder(context.Background(), "Street 1", "card")
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Empty(t, rec.calls[0])
}

func TestCancelOrder(t *testing.T) {
	client := &fakeClient{profile: &models.User{ID: "u1"}}
	svc, _, _, _ := setupCheckout(t, client)

	require.NoError(t, svc.CancelOrder(context.Background(), "o9"))
	assert.Equal(t, []string{"o9"}, client.canceled)
}
