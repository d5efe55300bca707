package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/backend"
	"github.com/dean3213321/pos-go/internal/cart"
	"github.com/dean3213321/pos-go/internal/domain"
)

// Backend is the slice of the REST client the checkout flows use.
type Backend interface {
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (string, error)
	WispayCredit(ctx context.Context, rfid string) (backend.CreditInfo, error)
	WispayPayment(ctx context.Context, rfid string, amount float64, productName string, quantity int) (float64, error)
	AddWispayCredit(ctx context.Context, rfid string, amount float64) (float64, error)
}

// Service runs the two checkout flows. refresh is called exactly once after
// every completed order so the catalog view re-fetches stock.
type Service struct {
	api     Backend
	refresh func()
	log     *zap.Logger
}

func NewService(api Backend, refresh func(), log *zap.Logger) *Service {
	if refresh == nil {
		refresh = func() {}
	}
	return &Service{api: api, refresh: refresh, log: log}
}

// Preview is the confirmation step content: the lines and total the operator
// acknowledges before any request is sent.
type Preview struct {
	Lines      []domain.CartLine `json:"lines"`
	Total      float64           `json:"total"`
	Display    string            `json:"display"`
	Balance    *float64          `json:"balance,omitempty"`
	NewBalance *float64          `json:"newBalance,omitempty"`
}

// Confirm opens the confirmation step for the session. An empty cart blocks
// entry; declining afterwards has no side effects because nothing was sent.
func (s *Service) Confirm(sess *cart.Session) (*Preview, error) {
	if sess.Empty() {
		return nil, ErrEmptyCart
	}
	total := sess.Total()
	return &Preview{
		Lines:   sess.Lines(),
		Total:   total,
		Display: domain.FormatAmount(total),
	}, nil
}

// ConfirmWispay is Confirm plus the balance projection for the wispay
// confirmation dialog. credit is the last checked balance, if any.
func (s *Service) ConfirmWispay(sess *cart.Session, rfid string, credit *float64) (*Preview, error) {
	if rfid == "" {
		return nil, ErrMissingRFID
	}
	preview, err := s.Confirm(sess)
	if err != nil {
		return nil, err
	}
	if credit != nil {
		remaining := *credit - preview.Total
		preview.Balance = credit
		preview.NewBalance = &remaining
	}
	return preview, nil
}

// CheckCredit looks up the balance for a card before confirmation.
func (s *Service) CheckCredit(ctx context.Context, rfid string) (backend.CreditInfo, error) {
	if rfid == "" {
		return backend.CreditInfo{}, ErrMissingRFID
	}
	return s.api.WispayCredit(ctx, rfid)
}

// Result is a completed checkout.
type Result struct {
	OrderNumber string   `json:"orderNumber"`
	Total       float64  `json:"total"`
	NewBalance  *float64 `json:"newBalance,omitempty"`
	Status      Status   `json:"status"`
}

// run guards one checkout's status transitions.
type run struct {
	status Status
}

func (r *run) advance(to Status) error {
	if !CanTransitionTo(r.status, to) {
		return IllegalTransitionError
	}
	r.status = to
	return nil
}
