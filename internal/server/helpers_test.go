package server

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/backend"
	"github.com/dean3213321/pos-go/internal/board"
	"github.com/dean3213321/pos-go/internal/cart"
	"github.com/dean3213321/pos-go/internal/checkout"
	"github.com/dean3213321/pos-go/internal/domain"
	"github.com/dean3213321/pos-go/internal/wispaycache"
)

// fakeBackend stands in for the whole REST client across handler tests.
type fakeBackend struct {
	mu sync.Mutex

	categories []domain.Category
	items      []domain.CatalogItem
	itemsQuery string

	orderNumber string
	orderErr    error
	orderCalls  []domain.OrderRequest
	orders      []domain.Order

	credit     backend.CreditInfo
	creditErr  error
	payBalance float64
	payErr     error

	token    string
	loginErr error

	topUpBalance float64
	topUpErr     error
	topUpCalls   int

	statusCalls []string

	users    []domain.WispayAccount
	balances []domain.WispayAccount
}

func (f *fakeBackend) Categories(context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeBackend) Items(_ context.Context, category string) ([]domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemsQuery = category
	return f.items, nil
}

func (f *fakeBackend) SubmitOrder(_ context.Context, req domain.OrderRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls = append(f.orderCalls, req)
	if f.orderErr != nil {
		return "", f.orderErr
	}
	return f.orderNumber, nil
}

func (f *fakeBackend) Orders(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders, nil
}

func (f *fakeBackend) WispayCredit(context.Context, string) (backend.CreditInfo, error) {
	if f.creditErr != nil {
		return backend.CreditInfo{}, f.creditErr
	}
	return f.credit, nil
}

func (f *fakeBackend) WispayPayment(_ context.Context, _ string, amount float64, _ string, _ int) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payErr != nil {
		return 0, f.payErr
	}
	f.payBalance -= amount
	return f.payBalance, nil
}

func (f *fakeBackend) AddWispayCredit(_ context.Context, _ string, amount float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topUpCalls++
	if f.topUpErr != nil {
		return 0, f.topUpErr
	}
	f.topUpBalance += amount
	return f.topUpBalance, nil
}

func (f *fakeBackend) AdminLogin(context.Context, string, string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeBackend) CreateCategory(_ context.Context, form backend.CategoryForm) (domain.Category, error) {
	return domain.Category{ID: 10, Name: form.Name}, nil
}

func (f *fakeBackend) UpdateCategory(context.Context, int64, backend.CategoryForm) error {
	return nil
}

func (f *fakeBackend) DeleteCategory(context.Context, int64) error { return nil }

func (f *fakeBackend) CreateItem(_ context.Context, form backend.ItemForm) (domain.CatalogItem, error) {
	return domain.CatalogItem{ID: 20, Name: form.Name, Price: domain.Price(form.Price)}, nil
}

func (f *fakeBackend) UpdateItem(context.Context, int64, backend.ItemForm) error { return nil }

func (f *fakeBackend) DeleteItem(context.Context, int64) error { return nil }

func (f *fakeBackend) UpdateOrderStatus(_ context.Context, orderNumber string, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, orderNumber+":"+string(status))
	return nil
}

func (f *fakeBackend) WispayUsers(context.Context) ([]domain.WispayAccount, error) {
	return f.users, nil
}

func (f *fakeBackend) WispayBalances(context.Context) ([]domain.WispayAccount, error) {
	return f.balances, nil
}

// memCacheStore is an in-memory wispaycache.Store.
type memCacheStore struct {
	mu    sync.Mutex
	users []domain.WispayAccount
	full  bool
}

func (m *memCacheStore) Get(context.Context) ([]domain.WispayAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return nil, wispaycache.ErrCacheMiss
	}
	return m.users, nil
}

func (m *memCacheStore) Set(_ context.Context, users []domain.WispayAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
	m.full = true
	return nil
}

func (m *memCacheStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = nil
	m.full = false
	return nil
}

func (m *memCacheStore) cached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.full
}

type testEnv struct {
	srv     *Server
	handler http.Handler
	api     *fakeBackend
	cache   *memCacheStore
	boards  *board.Board
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	api := &fakeBackend{orderNumber: "1001", token: "tok"}
	cache := &memCacheStore{}

	store := cart.NewStore(0)
	t.Cleanup(store.Close)

	wispay := wispaycache.NewService(cache, api, zap.NewNop())
	t.Cleanup(wispay.Close)

	boards := board.NewBoard(api, zap.NewNop())
	t.Cleanup(boards.Close)

	refresh := NewRefreshFeed()
	svc := checkout.NewService(api, refresh.Bump, zap.NewNop())

	srv := New(Deps{
		Store:    store,
		Checkout: svc,
		Catalog:  api,
		Admin:    api,
		Board:    boards,
		Wispay:   wispay,
		Refresh:  refresh,
		Log:      zap.NewNop(),
	})

	return &testEnv{
		srv:     srv,
		handler: srv.Router(5 * time.Second),
		api:     api,
		cache:   cache,
		boards:  boards,
	}
}
