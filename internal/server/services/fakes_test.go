package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/dbx"
	"github.com/dmitrijs2005/cartsync/internal/server/models"
	cartitemsrepo "github.com/dmitrijs2005/cartsync/internal/server/repositories/cartitems"
	ordersrepo "github.com/dmitrijs2005/cartsync/internal/server/repositories/orders"
	refreshtokensrepo "github.com/dmitrijs2005/cartsync/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/cartsync/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- in-memory fakes ---

type fakeUsersRepo struct {
	byID      map[string]*models.User
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorUserAlreadyExists
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

type fakeRefreshRepo struct {
	tokens    map[string]*models.RefreshToken
	createErr error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteForUser(ctx context.Context, userID string) error {
	for tok, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, tok)
		}
	}
	return nil
}

type fakeCartRepo struct {
	items  map[string]map[string]models.CartItem // userID -> productID -> item
	addErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: map[string]map[string]models.CartItem{}}
}

func (f *fakeCartRepo) user(userID string) map[string]models.CartItem {
	if f.items[userID] == nil {
		f.items[userID] = map[string]models.CartItem{}
	}
	return f.items[userID]
}

func (f *fakeCartRepo) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	cart := f.user(userID)
	ids := make([]string, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]models.CartItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, cart[id])
	}
	return out, nil
}

func (f *fakeCartRepo) AddQuantity(ctx context.Context, item models.CartItem) error {
	if f.addErr != nil {
		return f.addErr
	}
	cart := f.user(item.UserID)
	if existing, ok := cart[item.ProductID]; ok {
		existing.Quantity += item.Quantity
		cart[item.ProductID] = existing
		return nil
	}
	cart[item.ProductID] = item
	return nil
}

func (f *fakeCartRepo) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	cart := f.user(userID)
	item, ok := cart[productID]
	if !ok {
		return common.ErrorNotFound
	}
	item.Quantity = qty
	cart[productID] = item
	return nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, userID, productID string) error {
	cart := f.user(userID)
	if _, ok := cart[productID]; !ok {
		return common.ErrorNotFound
	}
	delete(cart, productID)
	return nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, userID string) error {
	f.items[userID] = map[string]models.CartItem{}
	return nil
}

type fakeOrdersRepo struct {
	orders    map[string]*models.Order
	createErr error
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{orders: map[string]*models.Order{}}
}

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrdersRepo) Get(ctx context.Context, orderID string) (*models.Order, error) {
	if o, ok := f.orders[orderID]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeOrdersRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrdersRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return common.ErrorNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrdersRepo) DeleteItem(ctx context.Context, orderID, productID string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return common.ErrorNotFound
	}
	for i, item := range o.Items {
		if item.ProductID == productID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	c *fakeCartRepo
	o *fakeOrdersRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		r: newFakeRefreshRepo(),
		c: newFakeCartRepo(),
		o: newFakeOrdersRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) CartItems(db dbx.DBTX) cartitemsrepo.Repository         { return m.c }
func (m *fakeRepoManager) Orders(db dbx.DBTX) ordersrepo.Repository               { return m.o }
