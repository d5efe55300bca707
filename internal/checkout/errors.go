package checkout

import (
	"errors"
	"fmt"

	"github.com/dean3213321/pos-go/internal/domain"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to check out")
	ErrMissingRFID         = errors.New("please enter RFID")
	ErrInsufficientBalance = errors.New("insufficient wispay balance")
	IllegalTransitionError = errors.New("illegal transition of checkout status")
)

// DebitReversedError means the order submission failed after a successful
// debit, and the compensating credit restored the balance. The cart is kept
// so the operator can retry.
type DebitReversedError struct {
	Cause error
}

func (e *DebitReversedError) Error() string {
	return fmt.Sprintf("order failed, payment reversed: %v", e.Cause)
}

func (e *DebitReversedError) Unwrap() error {
	return e.Cause
}

// DebitNotReversedError is the worst outcome: the balance was debited, the
// order was never recorded, and the compensating credit failed too. Operators
// must resolve it manually.
type DebitNotReversedError struct {
	RFID        string
	Amount      float64
	Cause       error
	ReversalErr error
}

func (e *DebitNotReversedError) Error() string {
	return fmt.Sprintf("payment of %s taken from %s but order not recorded, contact support: %v",
		domain.FormatAmount(e.Amount), e.RFID, e.Cause)
}

func (e *DebitNotReversedError) Unwrap() error {
	return e.Cause
}
