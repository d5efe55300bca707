package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/cart"
	"github.com/dean3213321/pos-go/internal/domain"
)

// SubmitCash sends exactly one order for the session's cart. On success the
// catalog refresh fires, the cart is cleared and the session is back at idle.
// On failure the cart is untouched so the operator can retry.
func (s *Service) SubmitCash(ctx context.Context, sess *cart.Session) (*Result, error) {
	if sess.Empty() {
		return nil, ErrEmptyCart
	}

	r := &run{status: StatusIdle}
	if err := r.advance(StatusConfirming); err != nil {
		return nil, err
	}
	if err := r.advance(StatusSubmitting); err != nil {
		return nil, err
	}

	req := sess.Snapshot(domain.PaymentCash, "")
	orderNumber, err := s.api.SubmitOrder(ctx, req)
	if err != nil {
		r.status = StatusFailed
		s.log.Warn("cash order failed",
			zap.String("session", sess.ID),
			zap.Error(err))
		return nil, err
	}
	r.status = StatusSuccess

	s.log.Info("cash order placed",
		zap.String("session", sess.ID),
		zap.String("order_number", orderNumber),
		zap.Float64("total", req.Total))

	s.refresh()
	sess.ClearAll()

	return &Result{
		OrderNumber: orderNumber,
		Total:       req.Total,
		Status:      StatusSuccess,
	}, nil
}
