package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s is a resting state that only an undo can leave.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentCashOnDelivery || m == PaymentBankTransfer
}

type Customer struct {
	FirstName string `json:"firstName" gorm:"size:100;not null"`
	LastName  string `json:"lastName" gorm:"size:100;not null"`
	Email     string `json:"email" gorm:"size:255;not null;index"`
	Phone     string `json:"phone" gorm:"size:32;not null"`
	Street    string `json:"street" gorm:"size:255;not null"`
	City      string `json:"city" gorm:"size:100;not null"`
	State     string `json:"state" gorm:"size:100;not null"`
	District  string `json:"district" gorm:"size:100;not null"`
	Postcode  string `json:"postcode,omitempty" gorm:"size:16"`
}

// OrderItem is the denormalized copy of a cart line taken at checkout.
// Later catalog edits never touch it.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color,omitempty"`
	Size      string          `json:"size,omitempty"`
	ImageRef  string          `json:"imageRef,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt      time.Time       `json:"createdAt" gorm:"index"`
	Customer       Customer        `json:"customer" gorm:"embedded"`
	Items          []OrderItem     `json:"items" gorm:"serializer:json"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2)"`
	ShippingCost   decimal.Decimal `json:"shippingCost" gorm:"type:decimal(12,2)"`
	GrandTotal     decimal.Decimal `json:"grandTotal" gorm:"type:decimal(12,2)"`
	Status         OrderStatus     `json:"status" gorm:"size:16;default:'pending';index"`
	TrackingNumber string          `json:"trackingNumber,omitempty" gorm:"size:64"`
	Notes          string          `json:"notes,omitempty" gorm:"type:text"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod" gorm:"size:32"`
	PaymentSlipRef string          `json:"paymentSlipRef,omitempty" gorm:"size:255"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	CancelledAt    *time.Time      `json:"cancelledAt,omitempty"`
	UndoExpiresAt  *time.Time      `json:"undoExpiresAt,omitempty"`
}
