package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreatedEvent struct {
	OrderID    string          `json:"orderId"`
	Email      string          `json:"email"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	ItemCount  int             `json:"itemCount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID        string      `json:"orderId"`
	OldStatus      OrderStatus `json:"oldStatus"`
	NewStatus      OrderStatus `json:"newStatus"`
	TrackingNumber string      `json:"trackingNumber,omitempty"`
	ChangedAt      time.Time   `json:"changedAt"`
}
