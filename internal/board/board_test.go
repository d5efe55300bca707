package board

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

type fakeSource struct {
	mu     sync.Mutex
	orders []domain.Order
	err    error
	calls  int
}

func (f *fakeSource) Orders(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

func (f *fakeSource) set(orders []domain.Order, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = orders
	f.err = err
}

func setupBoard(t *testing.T, src *fakeSource) *Board {
	t.Helper()
	b := NewBoard(src, zap.NewNop())
	b.interval = 10 * time.Millisecond
	t.Cleanup(b.Close)
	return b
}

func at(now time.Time, offset time.Duration) time.Time {
	return now.Add(offset)
}

func TestBuildFiltersAndSorts(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.Local)
	b := NewBoard(&fakeSource{}, zap.NewNop())
	b.now = func() time.Time { return now }

	orders := []domain.Order{
		{OrderNumber: "1", Status: domain.StatusPreparing, CreatedAt: at(now, -3*time.Hour)},
		{OrderNumber: "2", Status: domain.StatusPreparing, CreatedAt: at(now, -time.Hour)},
		{OrderNumber: "3", Status: domain.StatusServing, CreatedAt: at(now, -30*time.Minute)},
		{OrderNumber: "4", Status: domain.StatusCompleted, CreatedAt: at(now, -time.Minute)},
		{OrderNumber: "5", Status: domain.StatusCancelled, CreatedAt: at(now, -time.Minute)},
		{OrderNumber: "6", Status: domain.StatusPreparing, CreatedAt: at(now, -26*time.Hour)},
	}

	snap := b.build(orders)

	require.Len(t, snap.Preparing, 2, "completed, cancelled and yesterday's orders are excluded")
	assert.Equal(t, "2", snap.Preparing[0].OrderNumber, "newest first")
	assert.Equal(t, "1", snap.Preparing[1].OrderNumber)
	require.Len(t, snap.Serving, 1)
	assert.Equal(t, "3", snap.Serving[0].OrderNumber)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	src := &fakeSource{orders: []domain.Order{
		{OrderNumber: "1", Status: domain.StatusPreparing, CreatedAt: time.Now()},
	}}
	b := setupBoard(t, src)

	require.True(t, b.refresh())
	require.Len(t, b.Snapshot().Preparing, 1)

	src.set(nil, errors.New("backend down"))
	assert.False(t, b.refresh())
	assert.Len(t, b.Snapshot().Preparing, 1, "stale snapshot beats no snapshot")
}

func TestSubscribeDeliversLatest(t *testing.T) {
	src := &fakeSource{}
	b := setupBoard(t, src)

	ch, cancel := b.Subscribe()
	defer cancel()

	src.set([]domain.Order{
		{OrderNumber: "1", Status: domain.StatusServing, CreatedAt: time.Now()},
	}, nil)
	require.True(t, b.refresh())

	// Consumer never read; two more refreshes pile up and only the newest
	// must survive.
	src.set([]domain.Order{
		{OrderNumber: "1", Status: domain.StatusServing, CreatedAt: time.Now()},
		{OrderNumber: "2", Status: domain.StatusServing, CreatedAt: time.Now()},
	}, nil)
	require.True(t, b.refresh())

	select {
	case snap := <-ch:
		assert.Len(t, snap.Serving, 2, "slow consumer gets the latest snapshot")
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestSubscribeAfterFirstPollGetsCurrentState(t *testing.T) {
	src := &fakeSource{orders: []domain.Order{
		{OrderNumber: "1", Status: domain.StatusPreparing, CreatedAt: time.Now()},
	}}
	b := setupBoard(t, src)
	require.True(t, b.refresh())

	ch, cancel := b.Subscribe()
	defer cancel()

	select {
	case snap := <-ch:
		assert.Len(t, snap.Preparing, 1, "late subscriber sees the current board immediately")
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}
}

func TestLoopPollsOnInterval(t *testing.T) {
	src := &fakeSource{}
	b := setupBoard(t, src)

	b.Start()
	b.Start() // second call must not spawn another loop

	assert.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls >= 3
	}, time.Second, 5*time.Millisecond)

	b.Close()
	b.Close() // idempotent

	src.mu.Lock()
	settled := src.calls
	src.mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	src.mu.Lock()
	assert.Equal(t, settled, src.calls, "no polls after Close")
	src.mu.Unlock()
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	base := PollInterval
	for i := 1; i < 12; i++ {
		d := backoff(base, i)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, MaxBackoff+MaxBackoff/4)
	}
	assert.Greater(t, backoff(base, 4), backoff(base, 1))
}
