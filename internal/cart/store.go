package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/arigading/go-catalog-checkout/internal/redisx"
)

// Store adalah storage durable key-value untuk keranjang. Keranjang kosong
// dan keranjang yang belum pernah ada diperlakukan sama.
type Store interface {
	Load(ctx context.Context, cartID string) (Cart, error)
	Save(ctx context.Context, cartID string, c Cart) error
	Delete(ctx context.Context, cartID string) error
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Load(ctx context.Context, cartID string) (Cart, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(redisx.KeyCart, cartID)).Result()
	if errors.Is(err, redis.Nil) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("cart load: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Cart{}, fmt.Errorf("cart decode: %w", err)
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, cartID string, c Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	// tanpa TTL: keranjang bersifat durable
	if err := s.rdb.Set(ctx, fmt.Sprintf(redisx.KeyCart, cartID), b, 0).Err(); err != nil {
		return fmt.Errorf("cart save: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, cartID string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(redisx.KeyCart, cartID)).Err()
}

// MemStore dipakai di test sebagai pengganti Redis.
type MemStore struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewMemStore() *MemStore {
	return &MemStore{carts: map[string]Cart{}}
}

func (s *MemStore) Load(ctx context.Context, cartID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.carts[cartID]
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}, nil
}

func (s *MemStore) Save(ctx context.Context, cartID string, c Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	s.carts[cartID] = Cart{Items: items}
	return nil
}

func (s *MemStore) Delete(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}
