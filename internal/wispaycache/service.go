package wispaycache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dean3213321/pos-go/internal/domain"
)

// BalanceRefreshInterval is how often the admin screen's balances are
// re-fetched while at least one viewer is on it.
const BalanceRefreshInterval = 10 * time.Second

// Store is the cache layer under the service.
type Store interface {
	Get(ctx context.Context) ([]domain.WispayAccount, error)
	Set(ctx context.Context, users []domain.WispayAccount) error
	Delete(ctx context.Context) error
}

// UserSource is the slice of the REST client the cache reads through to.
type UserSource interface {
	WispayUsers(ctx context.Context) ([]domain.WispayAccount, error)
	WispayBalances(ctx context.Context) ([]domain.WispayAccount, error)
}

// Service serves the wispay account list cache-first. Concurrent misses are
// collapsed into one backend call, and a background loop keeps cached
// balances fresh without re-fetching full profiles.
type Service struct {
	store Store
	src   UserSource
	sf    singleflight.Group
	log   *zap.Logger

	stop     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewService(store Store, src UserSource, log *zap.Logger) *Service {
	s := &Service{
		store: store,
		src:   src,
		log:   log,
		stop:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.refreshLoop(BalanceRefreshInterval)
	return s
}

func (s *Service) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// Users returns the account list, cache-first. A miss goes to the backend
// once per in-flight request regardless of how many callers race on it.
func (s *Service) Users(ctx context.Context) ([]domain.WispayAccount, error) {
	cached, err := s.store.Get(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn("wispay cache read failed, falling back to backend", zap.Error(err))
	}

	v, err, _ := s.sf.Do("wispay-users", func() (interface{}, error) {
		users, err := s.src.WispayUsers(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, users); err != nil {
			s.log.Warn("wispay cache write failed", zap.Error(err))
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.WispayAccount), nil
}

// Invalidate drops the cached list. Called after a top-up so the admin screen
// does not show a stale balance for the full TTL.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.store.Delete(ctx); err != nil {
		s.log.Warn("wispay cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) refreshLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.refreshBalances()
		}
	}
}

// refreshBalances patches fresh balances into the cached list. Only an
// already-populated cache is touched; an empty one stays empty until the
// next real read.
func (s *Service) refreshBalances() {
	ctx, cancel := context.WithTimeout(context.Background(), BalanceRefreshInterval)
	defer cancel()

	cached, err := s.store.Get(ctx)
	if err != nil {
		return
	}

	balances, err := s.src.WispayBalances(ctx)
	if err != nil {
		s.log.Warn("balance refresh failed", zap.Error(err))
		return
	}

	byRFID := make(map[string]float64, len(balances))
	for _, b := range balances {
		byRFID[b.RFID] = b.Balance
	}
	for i := range cached {
		if bal, ok := byRFID[cached[i].RFID]; ok {
			cached[i].Balance = bal
		}
	}

	if err := s.store.Set(ctx, cached); err != nil {
		s.log.Warn("wispay cache write failed", zap.Error(err))
	}
}
