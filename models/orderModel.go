package models

import "time"

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

type OrderItem struct {
	MenuItem            string  `json:"menuItem"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

type OrderTotals struct {
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
}

// OrderPayload is the body of POST /orders.
type OrderPayload struct {
	Restaurant      string      `json:"restaurant"`
	Table           string      `json:"table"`
	Items           []OrderItem `json:"items"`
	Totals          OrderTotals `json:"totals"`
	PaymentMethod   string      `json:"paymentMethod"`
	CustomerName    string      `json:"customerName,omitempty"`
	CustomerPhone   string      `json:"customerPhone,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	ClientReference string      `json:"clientReference,omitempty"`
}

// Order is the server's view of a placed order.
type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	Restaurant    string      `json:"restaurant"`
	Table         string      `json:"table"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentMethod string      `json:"paymentMethod"`
	Items         []OrderItem `json:"items"`
	Totals        OrderTotals `json:"totals"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// QueuedOrder is an order submission captured while the device was offline.
type QueuedOrder struct {
	ID        string       `json:"id"`
	Payload   OrderPayload `json:"payload"`
	QueuedAt  time.Time    `json:"queuedAt"`
	Attempts  int          `json:"attempts"`
	LastError string       `json:"lastError,omitempty"`
}
