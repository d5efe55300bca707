package wispaycache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/domain"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type memStore struct {
	mu    sync.Mutex
	users []domain.WispayAccount
	full  bool
}

func (m *memStore) Get(context.Context) ([]domain.WispayAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return nil, ErrCacheMiss
	}
	out := make([]domain.WispayAccount, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *memStore) Set(_ context.Context, users []domain.WispayAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
	m.full = true
	return nil
}

func (m *memStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = nil
	m.full = false
	return nil
}

type fakeUserSource struct {
	mu           sync.Mutex
	users        []domain.WispayAccount
	usersErr     error
	usersCalls   int
	balances     []domain.WispayAccount
	balancesErr  error
	balanceCalls int

	block chan struct{} // when set, WispayUsers waits on it
}

func (f *fakeUserSource) WispayUsers(context.Context) ([]domain.WispayAccount, error) {
	f.mu.Lock()
	f.usersCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, f.usersErr
}

func (f *fakeUserSource) WispayBalances(context.Context) ([]domain.WispayAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++
	return f.balances, f.balancesErr
}

func setupService(t *testing.T, src *fakeUserSource) (*Service, *memStore) {
	t.Helper()
	store := &memStore{}
	svc := NewService(store, src, zap.NewNop())
	t.Cleanup(svc.Close)
	return svc, store
}

func TestUsers_CacheHitSkipsBackend(t *testing.T) {
	src := &fakeUserSource{}
	svc, store := setupService(t, src)

	seeded := []domain.WispayAccount{{RFID: "A", Name: "Ana", Balance: 100}}
	require.NoError(t, store.Set(context.Background(), seeded))

	users, err := svc.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seeded, users)
	assert.Zero(t, src.usersCalls)
}

func TestUsers_MissFetchesAndCaches(t *testing.T) {
	src := &fakeUserSource{users: []domain.WispayAccount{{RFID: "A", Name: "Ana", Balance: 100}}}
	svc, store := setupService(t, src)

	users, err := svc.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1, src.usersCalls)

	cached, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, users, cached)
}

func TestUsers_ConcurrentMissesCollapse(t *testing.T) {
	src := &fakeUserSource{
		users: []domain.WispayAccount{{RFID: "A"}},
		block: make(chan struct{}),
	}
	svc, _ := setupService(t, src)

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			users, err := svc.Users(context.Background())
			assert.NoError(t, err)
			assert.Len(t, users, 1)
		}()
	}

	// Let the racers pile onto the in-flight fetch, then release it.
	assert.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.usersCalls >= 1
	}, waitFor, tick)
	close(src.block)
	wg.Wait()

	assert.Equal(t, 1, src.usersCalls, "one backend call for all concurrent misses")
}

func TestUsers_BackendErrorPropagates(t *testing.T) {
	src := &fakeUserSource{usersErr: errors.New("backend down")}
	svc, store := setupService(t, src)

	_, err := svc.Users(context.Background())
	require.Error(t, err)

	_, err = store.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss, "failed fetch must not cache anything")
}

func TestInvalidate(t *testing.T) {
	src := &fakeUserSource{}
	svc, store := setupService(t, src)

	require.NoError(t, store.Set(context.Background(), []domain.WispayAccount{{RFID: "A"}}))
	svc.Invalidate(context.Background())

	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRefreshBalances_PatchesCachedList(t *testing.T) {
	src := &fakeUserSource{balances: []domain.WispayAccount{
		{RFID: "A", Balance: 75},
		{RFID: "Z", Balance: 10}, // not cached, ignored
	}}
	svc, store := setupService(t, src)

	require.NoError(t, store.Set(context.Background(), []domain.WispayAccount{
		{RFID: "A", Name: "Ana", Balance: 100},
		{RFID: "B", Name: "Ben", Balance: 50},
	}))

	svc.refreshBalances()

	cached, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 75, cached[0].Balance, 1e-9, "balance patched in place")
	assert.Equal(t, "Ana", cached[0].Name, "profile fields untouched")
	assert.InDelta(t, 50, cached[1].Balance, 1e-9, "missing balance row leaves the old value")
}

func TestRefreshBalances_EmptyCacheUntouched(t *testing.T) {
	src := &fakeUserSource{balances: []domain.WispayAccount{{RFID: "A", Balance: 75}}}
	svc, store := setupService(t, src)

	svc.refreshBalances()

	assert.Zero(t, src.balanceCalls, "no balance fetch when nothing is cached")
	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRefreshBalances_FetchFailureKeepsCache(t *testing.T) {
	src := &fakeUserSource{balancesErr: errors.New("backend down")}
	svc, store := setupService(t, src)

	require.NoError(t, store.Set(context.Background(), []domain.WispayAccount{{RFID: "A", Balance: 100}}))
	svc.refreshBalances()

	cached, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100, cached[0].Balance, 1e-9)
}
