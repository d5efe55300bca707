package checkout

import (
	"context"
	"sync"

	"github.com/dean3213321/pos-go/internal/backend"
	"github.com/dean3213321/pos-go/internal/domain"
)

// MockBackend implements Backend for testing. Balance tracks the wispay
// account so tests can observe whether a debit stuck.
type MockBackend struct {
	mu sync.Mutex

	OrderNumber string
	OrderErr    error
	OrderCalls  []domain.OrderRequest

	Credit    backend.CreditInfo
	CreditErr error

	Balance      float64
	PaymentErr   error
	PaymentCalls int

	ReversalErr   error
	ReversalCalls int
}

func (m *MockBackend) SubmitOrder(_ context.Context, req domain.OrderRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderCalls = append(m.OrderCalls, req)
	if m.OrderErr != nil {
		return "", m.OrderErr
	}
	return m.OrderNumber, nil
}

func (m *MockBackend) WispayCredit(context.Context, string) (backend.CreditInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreditErr != nil {
		return backend.CreditInfo{}, m.CreditErr
	}
	return m.Credit, nil
}

func (m *MockBackend) WispayPayment(_ context.Context, _ string, amount float64, _ string, _ int) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PaymentCalls++
	if m.PaymentErr != nil {
		return 0, m.PaymentErr
	}
	m.Balance -= amount
	return m.Balance, nil
}

func (m *MockBackend) AddWispayCredit(_ context.Context, _ string, amount float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReversalCalls++
	if m.ReversalErr != nil {
		return 0, m.ReversalErr
	}
	m.Balance += amount
	return m.Balance, nil
}
