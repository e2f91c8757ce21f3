package services

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"golang.org/x/sync/singleflight"
)

type CartService struct {
	store  repository.CartStore
	flight singleflight.Group
}

func NewCartService(store repository.CartStore) *CartService {
	return &CartService{store: store}
}

// GetCart returns the cart for sessionID, empty if none exists. Totals are
// derived from the items on every read, never stored.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, item domain.CartItem) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(item); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := s.store.Put(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// Reconcile runs the one-shot sign-in merge between the anonymous session
// cart and the signed-in user's cart. If the user already has a non-empty
// cart it wins and replaces the session cart; otherwise the session cart is
// copied to the user's key. Concurrent triggers for the same session
// collapse into a single execution.
func (s *CartService) Reconcile(ctx context.Context, sessionID, userID string) (*domain.Cart, error) {
	v, err, _ := s.flight.Do(sessionID, func() (any, error) {
		userKey := "user:" + userID

		userCart, err := s.store.Get(ctx, userKey)
		if err != nil {
			return nil, err
		}
		sessionCart, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		if len(userCart.Items) > 0 {
			sessionCart.Items = userCart.Items
			if err := s.store.Put(ctx, sessionCart); err != nil {
				return nil, err
			}
			return sessionCart, nil
		}

		userCart.Items = sessionCart.Items
		if err := s.store.Put(ctx, userCart); err != nil {
			return nil, err
		}
		return sessionCart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}
