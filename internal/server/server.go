package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/backend"
	"github.com/dean3213321/pos-go/internal/board"
	"github.com/dean3213321/pos-go/internal/cart"
	"github.com/dean3213321/pos-go/internal/checkout"
	"github.com/dean3213321/pos-go/internal/domain"
	"github.com/dean3213321/pos-go/internal/wispaycache"
)

// CatalogAPI is the slice of the REST client the catalog endpoints proxy.
type CatalogAPI interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Items(ctx context.Context, category string) ([]domain.CatalogItem, error)
}

// AdminAPI is the slice of the REST client behind the admin screens.
type AdminAPI interface {
	AdminLogin(ctx context.Context, username, password string) (string, error)
	CreateCategory(ctx context.Context, form backend.CategoryForm) (domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, form backend.CategoryForm) error
	DeleteCategory(ctx context.Context, id int64) error
	CreateItem(ctx context.Context, form backend.ItemForm) (domain.CatalogItem, error)
	UpdateItem(ctx context.Context, id int64, form backend.ItemForm) error
	DeleteItem(ctx context.Context, id int64) error
	AddWispayCredit(ctx context.Context, rfid string, amount float64) (float64, error)
	UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error
}

// Server owns the HTTP surface of the POS terminal.
type Server struct {
	store    *cart.Store
	checkout *checkout.Service
	catalog  CatalogAPI
	admin    AdminAPI
	board    *board.Board
	wispay   *wispaycache.Service
	refresh  *RefreshFeed
	log      *zap.Logger
}

type Deps struct {
	Store    *cart.Store
	Checkout *checkout.Service
	Catalog  CatalogAPI
	Admin    AdminAPI
	Board    *board.Board
	Wispay   *wispaycache.Service
	Refresh  *RefreshFeed
	Log      *zap.Logger
}

func New(deps Deps) *Server {
	if deps.Refresh == nil {
		deps.Refresh = NewRefreshFeed()
	}
	return &Server{
		store:    deps.Store,
		checkout: deps.Checkout,
		catalog:  deps.Catalog,
		admin:    deps.Admin,
		board:    deps.Board,
		wispay:   deps.Wispay,
		refresh:  deps.Refresh,
		log:      deps.Log,
	}
}

// Router assembles the chi router with the global middleware stack.
func (s *Server) Router(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The board feed holds its connection open, so the timeout middleware
	// wraps everything except it.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Route("/api", func(r chi.Router) {
			r.Get("/categories", s.GetCategories)
			r.Get("/items", s.GetItems)
			r.Get("/catalog/version", s.GetCatalogVersion)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", s.GetCart)
				r.Delete("/", s.ClearCart)
				r.Post("/items", s.AddItem)
				r.Put("/items/{id}", s.SetQuantity)
				r.Delete("/items/{id}", s.RemoveItem)
				r.Post("/items/{id}/hold", s.PressHold)
				r.Delete("/items/{id}/hold", s.ReleaseHold)
				r.Put("/method", s.SetMethod)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/confirm", s.ConfirmCheckout)
				r.Post("/credit", s.CheckCredit)
				r.Post("/cash", s.SubmitCash)
				r.Post("/wispay/confirm", s.ConfirmWispay)
				r.Post("/wispay", s.SubmitWispay)
			})

			r.Get("/board", s.GetBoard)
			r.Patch("/orders/{orderNumber}/status", s.UpdateOrderStatus)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/login", s.AdminLogin)
				r.Post("/categories", s.CreateCategory)
				r.Put("/categories/{id}", s.UpdateCategory)
				r.Delete("/categories/{id}", s.DeleteCategory)
				r.Post("/items", s.CreateItem)
				r.Put("/items/{id}", s.UpdateItem)
				r.Delete("/items/{id}", s.DeleteItem)
				r.Get("/wispay/users", s.GetWispayUsers)
				r.Post("/wispay/credit", s.TopUpWispay)
			})
		})
	})

	r.Get("/api/board/feed", s.BoardFeed)

	return r
}

// RefreshFeed tells catalog views to re-fetch after a completed order changed
// the stock counts. Clients poll the version and re-fetch on change.
type RefreshFeed struct {
	version atomic.Uint64
}

func NewRefreshFeed() *RefreshFeed {
	return &RefreshFeed{}
}

// Bump marks the catalog stale. Wired as the checkout service's refresh hook.
func (f *RefreshFeed) Bump() {
	f.version.Add(1)
}

func (f *RefreshFeed) Version() uint64 {
	return f.version.Load()
}
