package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dean3213321/pos-go/internal/domain"
)

// SubmitOrder posts the order and returns the backend-assigned order number.
func (c *Client) SubmitOrder(ctx context.Context, req domain.OrderRequest) (string, error) {
	var out struct {
		OrderNumber string `json:"orderNumber"`
	}
	if err := c.postJSON(ctx, "/api/order", req, &out); err != nil {
		return "", err
	}
	return out.OrderNumber, nil
}

// Orders fetches the full order list.
func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.getJSON(ctx, "/api/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrderStatus moves an order along its lifecycle.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	body := struct {
		Status domain.OrderStatus `json:"status"`
	}{Status: status}
	data, err := jsonBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%s/status", orderNumber), "application/json", data, nil)
}
