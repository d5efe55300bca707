package cart

import (
	"sync"
	"time"
)

const (
	// InitialHoldDelay is how long a press must be held before repeat
	// updates start firing.
	InitialHoldDelay = 400 * time.Millisecond

	// RapidUpdateInterval is the spacing between repeat updates while held.
	RapidUpdateInterval = 80 * time.Millisecond
)

type HoldOp string

const (
	HoldIncrement HoldOp = "increment"
	HoldDecrement HoldOp = "decrement"
)

type HoldState string

const (
	HoldIdle      HoldState = "idle"
	HoldArmed     HoldState = "armed"
	HoldRepeating HoldState = "repeating"
)

// HoldController turns press-and-hold on a quantity control into a stream of
// bounded quantity updates against the live cart. It owns at most one timer
// pair at a time; a new press cancels the previous one, and release cancels
// both the pending delay and the active repeat ticker.
type HoldController struct {
	session      *Session
	initialDelay time.Duration
	repeatEvery  time.Duration

	mu     sync.Mutex
	state  HoldState
	itemID int64
	op     HoldOp
	cancel chan struct{}
}

func NewHoldController(session *Session) *HoldController {
	return &HoldController{
		session:      session,
		initialDelay: InitialHoldDelay,
		repeatEvery:  RapidUpdateInterval,
		state:        HoldIdle,
	}
}

// Press performs one immediate update and arms the repeat timer. If the line
// is already at its bound nothing fires and the controller stays idle.
func (h *HoldController) Press(itemID int64, op HoldOp) {
	h.mu.Lock()
	h.stopLocked()

	if !h.step(itemID, op) {
		h.mu.Unlock()
		return
	}

	cancel := make(chan struct{})
	h.cancel = cancel
	h.state = HoldArmed
	h.itemID = itemID
	h.op = op
	h.mu.Unlock()

	go h.run(itemID, op, cancel)
}

// Release cancels the pending delay timer and any active repeat ticker.
// Covers pointer-up, pointer-leave and touch-end.
func (h *HoldController) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopLocked()
}

// Close releases any held timers. Must be called when the owning session is
// torn down so no interval outlives it.
func (h *HoldController) Close() {
	h.Release()
}

// State reports the current phase of the press gesture.
func (h *HoldController) State() HoldState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *HoldController) stopLocked() {
	if h.cancel != nil {
		close(h.cancel)
		h.cancel = nil
	}
	h.state = HoldIdle
	h.itemID = 0
	h.op = ""
}

// step re-reads the current quantity from the live cart and applies one
// bounded update. Returns false when the line is gone or the bound is
// reached, which tells the caller to stop the timers.
func (h *HoldController) step(itemID int64, op HoldOp) bool {
	line, ok := h.session.Line(itemID)
	if !ok {
		return false
	}
	switch op {
	case HoldIncrement:
		if line.Quantity < line.StockLimit {
			h.session.SetQuantity(itemID, line.Quantity+1)
			return true
		}
	case HoldDecrement:
		if line.Quantity > 1 {
			h.session.SetQuantity(itemID, line.Quantity-1)
			return true
		}
	}
	return false
}

func (h *HoldController) run(itemID int64, op HoldOp, cancel chan struct{}) {
	timer := time.NewTimer(h.initialDelay)
	defer timer.Stop()

	select {
	case <-cancel:
		return
	case <-timer.C:
	}

	h.mu.Lock()
	if h.cancel != cancel {
		// Released or re-pressed while the delay was running.
		h.mu.Unlock()
		return
	}
	h.state = HoldRepeating
	h.mu.Unlock()

	ticker := time.NewTicker(h.repeatEvery)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			h.mu.Lock()
			if h.cancel != cancel {
				// A release raced this tick; nothing may fire after it.
				h.mu.Unlock()
				return
			}
			if !h.step(itemID, op) {
				h.stopLocked()
				h.mu.Unlock()
				return
			}
			h.mu.Unlock()
		}
	}
}
