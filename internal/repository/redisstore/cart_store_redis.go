package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"github.com/go-redis/redis/v8"
)

// Carts idle for this long are dropped. Matches how long an anonymous
// browsing session is worth keeping around.
const cartTTL = 30 * 24 * time.Hour

type cartStore struct {
	rdb *redis.Client
}

func NewCartStore(rdb *redis.Client) repository.CartStore {
	return &cartStore{rdb: rdb}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *cartStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	b, err := s.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart store get: %w", err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(b, &cart); err != nil {
		return nil, fmt.Errorf("cart store decode: %w", err)
	}
	cart.SessionID = sessionID
	return &cart, nil
}

func (s *cartStore) Put(ctx context.Context, cart *domain.Cart) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart store encode: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKey(cart.SessionID), b, cartTTL).Err(); err != nil {
		return fmt.Errorf("cart store put: %w", err)
	}
	return nil
}

func (s *cartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("cart store delete: %w", err)
	}
	return nil
}
