package repository

import (
	"context"

	"storefront-service/internal/domain"
)

// CartStore persists cart contents across page loads. A missing session
// yields an empty cart, not an error.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Put(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// HiddenOrderStore keeps the per-client ledger of order ids a viewer chose
// to hide. Hiding is scoped to one viewing client and never removes the row.
type HiddenOrderStore interface {
	Hide(ctx context.Context, clientID, orderID string) error
	HiddenIDs(ctx context.Context, clientID string) (map[string]bool, error)
}
