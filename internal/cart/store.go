package cart

import (
	"sync"
	"time"

	"github.com/dean3213321/pos-go/internal/domain"
)

const (
	// SessionTTL is how long an idle terminal session is kept before it is
	// dropped together with its cart.
	SessionTTL = 30 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = time.Minute
)

// Session holds the live cart and checkout state for one POS terminal.
// All access goes through its methods; the embedded mutex makes the cart safe
// against the hold controller's timer goroutine.
type Session struct {
	ID string

	mu       sync.Mutex
	cart     domain.Cart
	method   domain.PaymentMethod
	hold     *HoldController
	lastSeen time.Time
}

func newSession(id string) *Session {
	s := &Session{
		ID:       id,
		method:   domain.PaymentCash,
		lastSeen: time.Now(),
	}
	s.hold = NewHoldController(s)
	return s
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

// Add puts one unit of the item into the cart, subject to the stock limit.
func (s *Session) Add(item domain.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Add(item)
}

// Remove deletes the line for the given item id.
func (s *Session) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Remove(id)
}

// SetQuantity clamps the value into [1, stockLimit] for the line.
func (s *Session) SetQuantity(id int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.SetQuantity(id, quantity)
}

// ClearAll removes every line one by one and resets the payment method to
// Cash. Flows call this after a completed order.
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart.Clear()
	s.method = domain.PaymentCash
}

func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Session) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *Session) Line(id int64) (domain.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Line(id)
}

func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Empty()
}

// Snapshot captures the lines and total in one locked read, for order
// submission.
func (s *Session) Snapshot(method domain.PaymentMethod, rfid string) domain.OrderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewOrderRequest(&s.cart, method, rfid)
}

// Method returns the active payment method.
func (s *Session) Method() domain.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

// SetMethod switches the active payment method. Switching never touches the
// cart lines.
func (s *Session) SetMethod(m domain.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.method = m
}

// Hold returns the session's quantity hold controller.
func (s *Session) Hold() *HoldController {
	return s.hold
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Store is the in-memory registry of terminal sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

// NewStore creates a session store and starts its background cleanup. A zero
// ttl falls back to SessionTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	s := &Store{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *Store) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *Store) expireSessions() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			sess.hold.Close()
			delete(s.sessions, id)
		}
	}
}

// Get returns the session for the given id, creating it on first use.
func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = newSession(id)
	s.sessions[id] = sess
	return sess
}

// Close stops the cleanup loop and every session's hold timers.
func (s *Store) Close() {
	close(s.stopCleanup)
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.hold.Close()
		delete(s.sessions, id)
	}
}
