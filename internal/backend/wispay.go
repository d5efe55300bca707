package backend

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/dean3213321/pos-go/internal/domain"
)

// ErrWispayRejected is returned when the backend answers 2xx but flags the
// wispay operation as unsuccessful without a message.
var ErrWispayRejected = errors.New("wispay request rejected")

// CreditInfo is the result of a balance lookup.
type CreditInfo struct {
	Credit float64
	User   *domain.WispayAccount
}

type wispayEnvelope struct {
	Success    bool                  `json:"success"`
	Error      string                `json:"error"`
	Credit     domain.Price          `json:"credit"`
	NewBalance domain.Price          `json:"newBalance"`
	Balance    *wispayBalancePayload `json:"balance"`
	User       *domain.WispayAccount `json:"user"`
}

type wispayBalancePayload struct {
	New domain.Price `json:"new"`
}

func (e *wispayEnvelope) err() error {
	if e.Success {
		return nil
	}
	if e.Error != "" {
		return errors.New(e.Error)
	}
	return ErrWispayRejected
}

// WispayCredit looks up the balance for a card.
func (c *Client) WispayCredit(ctx context.Context, rfid string) (CreditInfo, error) {
	var env wispayEnvelope
	if err := c.getJSON(ctx, "/api/wispay/credit?rfid="+url.QueryEscape(rfid), &env); err != nil {
		return CreditInfo{}, err
	}
	if err := env.err(); err != nil {
		return CreditInfo{}, err
	}
	return CreditInfo{Credit: env.Credit.Amount(), User: env.User}, nil
}

// WispayPayment debits the account by the order total and returns the new
// balance. The operator identity is attached for transaction attribution.
func (c *Client) WispayPayment(ctx context.Context, rfid string, amount float64, productName string, quantity int) (float64, error) {
	body := struct {
		RFID        string `json:"rfid"`
		Amount      string `json:"amount"`
		EmpID       string `json:"empid"`
		Username    string `json:"username"`
		ProductName string `json:"product_name"`
		Quantity    int    `json:"quantity"`
	}{
		RFID:        rfid,
		Amount:      strconv.FormatFloat(amount, 'f', -1, 64),
		EmpID:       c.operator.EmpID,
		Username:    c.operator.Username,
		ProductName: productName,
		Quantity:    quantity,
	}

	var env wispayEnvelope
	if err := c.postJSON(ctx, "/api/wispay/payment", body, &env); err != nil {
		return 0, err
	}
	if err := env.err(); err != nil {
		return 0, err
	}
	return env.NewBalance.Amount(), nil
}

// AddWispayCredit tops up an account and returns the new balance. The saga
// also uses it to reverse a debit whose order never got recorded.
func (c *Client) AddWispayCredit(ctx context.Context, rfid string, amount float64) (float64, error) {
	body := struct {
		RFID     string `json:"rfid"`
		Amount   string `json:"amount"`
		EmpID    string `json:"empid"`
		Username string `json:"username"`
	}{
		RFID:     rfid,
		Amount:   strconv.FormatFloat(amount, 'f', -1, 64),
		EmpID:    c.operator.EmpID,
		Username: c.operator.Username,
	}

	var env wispayEnvelope
	if err := c.postJSON(ctx, "/api/wispay/credit", body, &env); err != nil {
		return 0, err
	}
	if err := env.err(); err != nil {
		return 0, err
	}
	if env.Balance == nil {
		return 0, nil
	}
	return env.Balance.New.Amount(), nil
}

// WispayUsers fetches the full account list for the admin screen.
func (c *Client) WispayUsers(ctx context.Context) ([]domain.WispayAccount, error) {
	var out struct {
		Users []domain.WispayAccount `json:"users"`
	}
	if err := c.getJSON(ctx, "/api/wispay/user", &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// WispayBalances fetches just the current balances, for the refresh loop.
func (c *Client) WispayBalances(ctx context.Context) ([]domain.WispayAccount, error) {
	var out []domain.WispayAccount
	if err := c.getJSON(ctx, "/api/wispay/user/balances", &out); err != nil {
		return nil, err
	}
	return out, nil
}
