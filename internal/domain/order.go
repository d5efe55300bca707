package domain

import "time"

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentWispay PaymentMethod = "Wispay"
)

// OrderStatus is owned by the backend; this service only reads it back.
type OrderStatus string

const (
	StatusPreparing OrderStatus = "Preparing"
	StatusServing   OrderStatus = "Serving"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// OrderLine is one line of an outbound order, snapshotted from the cart at
// submission time.
type OrderLine struct {
	ID       int64  `json:"id"`
	Quantity int    `json:"quantity"`
	Price    Price  `json:"price"`
	Name     string `json:"name"`
}

// OrderRequest is the POST /api/order body.
type OrderRequest struct {
	Items       []OrderLine   `json:"items"`
	PaymentType PaymentMethod `json:"paymentType"`
	RFID        string        `json:"rfid,omitempty"`
	Total       float64       `json:"total"`
}

// Order mirrors GET /api/orders rows.
type Order struct {
	OrderNumber string        `json:"orderNumber"`
	Items       []OrderLine   `json:"items"`
	Total       float64       `json:"total"`
	Status      OrderStatus   `json:"status"`
	PaymentType PaymentMethod `json:"paymentType"`
	RFID        string        `json:"rfid,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// NewOrderRequest captures the cart as an order submission. The rfid is only
// set for Wispay payments.
func NewOrderRequest(cart *Cart, method PaymentMethod, rfid string) OrderRequest {
	lines := cart.Lines()
	items := make([]OrderLine, len(lines))
	for i, l := range lines {
		items[i] = OrderLine{
			ID:       l.ID,
			Quantity: l.Quantity,
			Price:    l.UnitPrice,
			Name:     l.Name,
		}
	}
	return OrderRequest{
		Items:       items,
		PaymentType: method,
		RFID:        rfid,
		Total:       cart.Total(),
	}
}
