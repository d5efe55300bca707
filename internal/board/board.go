package board

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/domain"
)

const (
	// PollInterval is how often the kitchen board re-fetches orders.
	PollInterval = 5 * time.Second

	// MaxBackoff caps the delay between retries when the backend is down.
	MaxBackoff = time.Minute
)

// OrderSource is the slice of the REST client the board polls.
type OrderSource interface {
	Orders(ctx context.Context) ([]domain.Order, error)
}

// Snapshot is one full refresh of the kitchen screen: today's active orders,
// newest first, split by status. Every poll replaces the whole snapshot, so a
// consumer never sees a partial update.
type Snapshot struct {
	Preparing []domain.Order `json:"preparing"`
	Serving   []domain.Order `json:"serving"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Board polls the order list on a fixed interval and fans snapshots out to
// subscribers. One Board runs exactly one poll loop regardless of how many
// screens watch it.
type Board struct {
	src      OrderSource
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger

	mu   sync.RWMutex
	snap Snapshot
	subs map[chan Snapshot]struct{}

	stop      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewBoard(src OrderSource, log *zap.Logger) *Board {
	return &Board{
		src:      src,
		interval: PollInterval,
		now:      time.Now,
		log:      log,
		subs:     make(map[chan Snapshot]struct{}),
		stop:     make(chan struct{}),
	}
}

// Start launches the poll loop. Subsequent calls are no-ops.
func (b *Board) Start() {
	b.startOnce.Do(func() {
		b.wg.Add(1)
		go b.loop()
	})
}

// Close stops the poll loop and waits for it to exit. Safe to call more than
// once; subscriber channels stay open so readers drain normally.
func (b *Board) Close() {
	b.stopOnce.Do(func() { close(b.stop) })
	b.wg.Wait()
}

// Snapshot returns the latest board state for the polling fallback endpoint.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// Subscribe registers a live feed. The returned channel carries every new
// snapshot; slow consumers only ever miss intermediate states, never the
// latest one. The cancel func must be called when the consumer goes away.
func (b *Board) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	if !b.snap.UpdatedAt.IsZero() {
		ch <- b.snap
	}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Board) loop() {
	defer b.wg.Done()

	b.refresh()

	var failures int
	for {
		delay := b.interval
		if failures > 0 {
			delay = backoff(b.interval, failures)
		}

		timer := time.NewTimer(delay)
		select {
		case <-b.stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		if b.refresh() {
			failures = 0
		} else {
			failures++
		}
	}
}

// refresh polls once and publishes the result. Returns false on fetch failure,
// in which case the previous snapshot stays up.
func (b *Board) refresh() bool {
	ctx, cancel := context.WithTimeout(context.Background(), b.interval)
	defer cancel()

	orders, err := b.src.Orders(ctx)
	if err != nil {
		b.log.Warn("board poll failed, keeping last snapshot", zap.Error(err))
		return false
	}

	snap := b.build(orders)

	b.mu.Lock()
	b.snap = snap
	for ch := range b.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale pending snapshot with the fresh one.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	b.mu.Unlock()
	return true
}

// build filters to today's Preparing and Serving orders and sorts each bucket
// newest first.
func (b *Board) build(orders []domain.Order) Snapshot {
	now := b.now()
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	snap := Snapshot{UpdatedAt: now}
	for _, o := range orders {
		created := o.CreatedAt.In(now.Location())
		if created.Before(dayStart) || !created.Before(dayEnd) {
			continue
		}
		switch o.Status {
		case domain.StatusPreparing:
			snap.Preparing = append(snap.Preparing, o)
		case domain.StatusServing:
			snap.Serving = append(snap.Serving, o)
		}
	}
	newestFirst(snap.Preparing)
	newestFirst(snap.Serving)
	return snap
}

func newestFirst(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// backoff is exponential on consecutive failures, jittered so restarting
// screens do not line up, capped at MaxBackoff.
func backoff(base time.Duration, failures int) time.Duration {
	d := base
	for i := 1; i < failures && d < MaxBackoff; i++ {
		d *= 2
	}
	if d > MaxBackoff {
		d = MaxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(d / 4)))
	return d + jitter
}
