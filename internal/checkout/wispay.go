package checkout

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/cart"
	"github.com/dean3213321/pos-go/internal/domain"
)

// SubmitWispay debits the card by the cart total, then records the order.
// The two backend calls are strictly sequential; the order is never attempted
// when the debit fails. When the order fails after a successful debit, a
// compensating credit is attempted: if it lands the run ends FAILED with the
// balance restored, if it fails too the run ends COMPENSATION_FAILED and the
// error tells the operator the payment was taken without an order.
func (s *Service) SubmitWispay(ctx context.Context, sess *cart.Session, rfid string) (*Result, error) {
	if rfid == "" {
		return nil, ErrMissingRFID
	}
	if sess.Empty() {
		return nil, ErrEmptyCart
	}

	req := sess.Snapshot(domain.PaymentWispay, rfid)
	r := &run{status: StatusIdle}

	// Balance is a hint unless it is known and short: a failed lookup does
	// not block the debit, a confirmed shortfall does.
	info, err := s.api.WispayCredit(ctx, rfid)
	if err != nil {
		s.log.Warn("balance lookup failed, proceeding without it",
			zap.String("rfid", rfid),
			zap.Error(err))
	} else {
		if err := r.advance(StatusCreditChecked); err != nil {
			return nil, err
		}
		if info.Credit < req.Total {
			return nil, ErrInsufficientBalance
		}
	}

	if err := r.advance(StatusConfirming); err != nil {
		return nil, err
	}
	if err := r.advance(StatusDebitingBalance); err != nil {
		return nil, err
	}

	newBalance, err := s.api.WispayPayment(ctx, rfid, req.Total, productSummary(req.Items), totalQuantity(req.Items))
	if err != nil {
		r.status = StatusFailed
		s.log.Warn("wispay debit failed",
			zap.String("session", sess.ID),
			zap.String("rfid", rfid),
			zap.Error(err))
		return nil, err
	}

	if err := r.advance(StatusSubmittingOrder); err != nil {
		return nil, err
	}

	orderNumber, err := s.api.SubmitOrder(ctx, req)
	if err != nil {
		return nil, s.compensate(ctx, r, rfid, req.Total, err)
	}
	r.status = StatusSuccess

	s.log.Info("wispay order placed",
		zap.String("session", sess.ID),
		zap.String("order_number", orderNumber),
		zap.Float64("total", req.Total),
		zap.Float64("new_balance", newBalance))

	s.refresh()
	sess.ClearAll()

	return &Result{
		OrderNumber: orderNumber,
		Total:       req.Total,
		NewBalance:  &newBalance,
		Status:      StatusSuccess,
	}, nil
}

// compensate reverses a debit whose order never got recorded.
func (s *Service) compensate(ctx context.Context, r *run, rfid string, amount float64, cause error) error {
	if _, revErr := s.api.AddWispayCredit(ctx, rfid, amount); revErr != nil {
		r.status = StatusCompensationFailed
		s.log.Error("debit reversal failed, manual intervention required",
			zap.String("rfid", rfid),
			zap.Float64("amount", amount),
			zap.NamedError("order_error", cause),
			zap.NamedError("reversal_error", revErr))
		return &DebitNotReversedError{
			RFID:        rfid,
			Amount:      amount,
			Cause:       cause,
			ReversalErr: revErr,
		}
	}

	r.status = StatusFailed
	s.log.Warn("order failed after debit, balance restored",
		zap.String("rfid", rfid),
		zap.Float64("amount", amount),
		zap.Error(cause))
	return &DebitReversedError{Cause: cause}
}

func productSummary(items []domain.OrderLine) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return strings.Join(names, ", ")
}

func totalQuantity(items []domain.OrderLine) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
