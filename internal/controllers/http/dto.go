package http

import (
	"storefront-service/internal/domain"
	"storefront-service/internal/services"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest intentionally carries no binding tags: field-by-field
// validation happens in the service so the response can name the first
// failing field.
type CreateOrderRequest struct {
	FirstName      string             `json:"firstName"`
	LastName       string             `json:"lastName"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Street         string             `json:"street"`
	City           string             `json:"city"`
	State          string             `json:"state"`
	District       string             `json:"district"`
	Postcode       string             `json:"postcode"`
	Items          []domain.OrderItem `json:"items"`
	TotalPrice     decimal.Decimal    `json:"totalPrice"`
	ShippingCost   decimal.Decimal    `json:"shippingCost"`
	GrandTotal     decimal.Decimal    `json:"grandTotal"`
	PaymentMethod  string             `json:"paymentMethod"`
	PaymentSlipRef string             `json:"paymentSlipRef"`
	Notes          string             `json:"notes"`
}

func (r CreateOrderRequest) toDraft() services.OrderDraft {
	return services.OrderDraft{
		Customer: domain.Customer{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
			Street:    r.Street,
			City:      r.City,
			State:     r.State,
			District:  r.District,
			Postcode:  r.Postcode,
		},
		Items:          r.Items,
		Subtotal:       r.TotalPrice,
		ShippingCost:   r.ShippingCost,
		GrandTotal:     r.GrandTotal,
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		PaymentSlipRef: r.PaymentSlipRef,
		Notes:          r.Notes,
	}
}

type UpdateOrderRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
	Notes          *string `json:"notes"`
}

type HideOrderRequest struct {
	ClientID string `json:"clientId" binding:"required"`
}

type AddCartItemRequest struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	ImageRef  string          `json:"imageRef"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type ReconcileCartRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type SendStatusEmailRequest struct {
	Email          string `json:"email" binding:"required"`
	OrderID        string `json:"orderId" binding:"required"`
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
	CustomerName   string `json:"customerName" binding:"required"`
}

// CartResponse returns the items with the derived totals recomputed on
// every read.
type CartResponse struct {
	SessionID    string            `json:"sessionId"`
	Items        []domain.CartItem `json:"items"`
	TotalItems   int               `json:"totalItems"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	ShippingCost decimal.Decimal   `json:"shippingCost"`
	GrandTotal   decimal.Decimal   `json:"grandTotal"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponse{
		SessionID:    cart.SessionID,
		Items:        items,
		TotalItems:   cart.TotalItems(),
		Subtotal:     cart.Subtotal(),
		ShippingCost: cart.ShippingCost(),
		GrandTotal:   cart.GrandTotal(),
	}
}
