package redisad

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"stay_pricer/internal/adapters/observability"
)

// Store is the durable artifact blob store: fitted model, scaler, and
// encoders are written here at training time and read back at serving time.
// Values are JSON with no TTL; artifacts live until the next training run
// overwrites them.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (s *Store) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", key, err)
	}
	observability.ObserveCache("redis", "set")
	return s.c.Set(ctx, key, b, 0).Err()
}

func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	v, err := s.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (s *Store) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return s.c.Del(ctx, key).Err()
}
