package redisstore

import (
	"context"
	"fmt"

	"storefront-service/internal/repository"

	"github.com/go-redis/redis/v8"
)

type hiddenOrderStore struct {
	rdb *redis.Client
}

func NewHiddenOrderStore(rdb *redis.Client) repository.HiddenOrderStore {
	return &hiddenOrderStore{rdb: rdb}
}

func hiddenKey(clientID string) string {
	return "hidden_orders:" + clientID
}

func (s *hiddenOrderStore) Hide(ctx context.Context, clientID, orderID string) error {
	if err := s.rdb.SAdd(ctx, hiddenKey(clientID), orderID).Err(); err != nil {
		return fmt.Errorf("hidden orders add: %w", err)
	}
	return nil
}

func (s *hiddenOrderStore) HiddenIDs(ctx context.Context, clientID string) (map[string]bool, error) {
	ids, err := s.rdb.SMembers(ctx, hiddenKey(clientID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hidden orders read: %w", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
