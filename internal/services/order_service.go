package services

import (
	"context"
	"log"
	"time"

	"storefront-service/internal/domain"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notifier is the status-change email dispatcher. It reports success but
// never returns an error: a failed send must not affect the mutation that
// triggered it.
type Notifier interface {
	Notify(ctx context.Context, order *domain.Order, status domain.OrderStatus, trackingNumber string) bool
}

// OrderDraft is what checkout submits. The claimed totals are reconciled
// against the item prices, never trusted.
type OrderDraft struct {
	Customer       domain.Customer
	Items          []domain.OrderItem
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	GrandTotal     decimal.Decimal
	PaymentMethod  domain.PaymentMethod
	PaymentSlipRef string
	Notes          string
}

// OrderPatch carries the partial fields an operator may update. Nil means
// leave the field alone.
type OrderPatch struct {
	Status         *domain.OrderStatus
	TrackingNumber *string
	Notes          *string
}

type OrderService struct {
	repo      repository.OrderRepository
	hidden    repository.HiddenOrderStore
	publisher rabbit.PublisherInterface
	notifier  Notifier
	now       func() time.Time
}

func NewOrderService(r repository.OrderRepository, h repository.HiddenOrderStore, pub rabbit.PublisherInterface, n Notifier) *OrderService {
	return &OrderService{
		repo:      r,
		hidden:    h,
		publisher: pub,
		notifier:  n,
		now:       time.Now,
	}
}

// SetClock overrides the service clock. Tests use it to pin undo windows.
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *OrderService) CreateOrder(ctx context.Context, draft OrderDraft) (*domain.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	subtotal := domain.SubtotalForItems(draft.Items)
	shipping := domain.ShippingCostForItems(draft.Items)
	grand := subtotal.Add(shipping)
	if !draft.GrandTotal.IsZero() && !draft.GrandTotal.Equal(grand) {
		log.Printf("order create: claimed grand total %s differs from computed %s, using computed",
			draft.GrandTotal, grand)
	}

	method := draft.PaymentMethod
	if method == "" {
		method = domain.PaymentCashOnDelivery
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		CreatedAt:      s.now(),
		Customer:       draft.Customer,
		Items:          draft.Items,
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		GrandTotal:     grand,
		Status:         domain.StatusPending,
		PaymentMethod:  method,
		PaymentSlipRef: draft.PaymentSlipRef,
		Notes:          draft.Notes,
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	go s.publishCreated(context.Background(), order)

	return order, nil
}

func validateDraft(d OrderDraft) error {
	required := []struct {
		field, value string
	}{
		{"firstName", d.Customer.FirstName},
		{"lastName", d.Customer.LastName},
		{"email", d.Customer.Email},
		{"phone", d.Customer.Phone},
		{"state", d.Customer.State},
		{"district", d.Customer.District},
		{"street", d.Customer.Street},
		{"city", d.Customer.City},
	}
	for _, r := range required {
		if r.value == "" {
			return domain.NewValidationError(r.field, "is required")
		}
	}
	if len(d.Items) == 0 {
		return domain.NewValidationError("items", "must not be empty")
	}
	for _, it := range d.Items {
		if it.Quantity < 1 {
			return domain.NewValidationError("items", "contain a quantity below 1")
		}
		if it.UnitPrice.IsNegative() {
			return domain.NewValidationError("items", "contain a negative unit price")
		}
	}
	if d.PaymentMethod != "" && !d.PaymentMethod.IsValid() {
		return domain.NewValidationError("paymentMethod", "is not a recognized payment method")
	}
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidOrderID
	}
	return s.repo.FindByID(ctx, id)
}

// ListOrders returns every order newest first. When clientID is set, orders
// that client chose to hide are filtered out; the hide ledger is advisory,
// so a ledger read failure degrades to the unfiltered list.
func (s *OrderService) ListOrders(ctx context.Context, clientID string) ([]domain.Order, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if clientID == "" {
		return orders, nil
	}

	hidden, err := s.hidden.HiddenIDs(ctx, clientID)
	if err != nil {
		log.Printf("hidden order ledger read failed for %s: %v", clientID, err)
		return orders, nil
	}
	visible := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if !hidden[o.ID] {
			visible = append(visible, o)
		}
	}
	return visible, nil
}

// UpdateOrder applies a partial update. Status changes run through the
// transition rules; tracking and notes edits are refused once the order is
// terminal. Each successful mutation fires a best-effort notification and
// event publish.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, patch OrderPatch) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidOrderID
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	oldStatus := current.Status

	if patch.Status != nil {
		updated, err = domain.ApplyTransition(updated, *patch.Status, s.now())
		if err != nil {
			return nil, err
		}
	}
	if patch.TrackingNumber != nil {
		if current.Status.IsTerminal() {
			return nil, &domain.TerminalStateError{Status: current.Status}
		}
		updated.TrackingNumber = *patch.TrackingNumber
	}
	if patch.Notes != nil {
		if current.Status.IsTerminal() {
			return nil, &domain.TerminalStateError{Status: current.Status}
		}
		updated.Notes = *patch.Notes
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if patch.Status != nil || patch.TrackingNumber != nil {
		order := updated
		go s.notifyStatusChange(context.Background(), &order, oldStatus)
	}

	return &updated, nil
}

// UndoTerminal reverses the last completed/cancelled transition while the
// stored undo deadline has not passed.
func (s *OrderService) UndoTerminal(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidOrderID
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := domain.ApplyUndo(*current, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	order := updated
	go s.notifyStatusChange(context.Background(), &order, current.Status)

	return &updated, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidOrderID
	}
	return s.repo.Delete(ctx, id)
}

// HideOrder records the order as hidden for one viewing client only. The
// row itself is untouched, so other views still see it.
func (s *OrderService) HideOrder(ctx context.Context, clientID, orderID string) error {
	if _, err := uuid.Parse(orderID); err != nil {
		return domain.ErrInvalidOrderID
	}
	if clientID == "" {
		return domain.NewValidationError("clientId", "is required")
	}
	return s.hidden.Hide(ctx, clientID, orderID)
}

func (s *OrderService) publishCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:    order.ID,
		Email:      order.Customer.Email,
		GrandTotal: order.GrandTotal,
		ItemCount:  len(order.Items),
		CreatedAt:  order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("failed to publish order.created for %s: %v", order.ID, err)
	}
}

func (s *OrderService) notifyStatusChange(ctx context.Context, order *domain.Order, oldStatus domain.OrderStatus) {
	if ok := s.notifier.Notify(ctx, order, order.Status, order.TrackingNumber); !ok {
		log.Printf("status notification for order %s not delivered", order.ID)
	}

	evt := domain.OrderStatusChangedEvent{
		OrderID:        order.ID,
		OldStatus:      oldStatus,
		NewStatus:      order.Status,
		TrackingNumber: order.TrackingNumber,
		ChangedAt:      s.now(),
	}
	if err := s.publisher.Publish(ctx, "order.status_changed", evt); err != nil {
		log.Printf("failed to publish order.status_changed for %s: %v", order.ID, err)
	}
}
