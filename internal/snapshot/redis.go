package snapshot

import (
	"context"
	"errors"
	"fmt"

	"callops-platform/internal/callops"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the snapshot as a single value under the fixed key. Useful
// when the operator already runs a local redis and wants the state to outlive
// the working directory.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Load(ctx context.Context) (callops.State, bool, error) {
	data, err := r.rdb.Get(ctx, Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return callops.State{}, false, nil
	}
	if err != nil {
		return callops.State{}, false, fmt.Errorf("redis load: %w", err)
	}
	st, err := decode(data)
	if err != nil {
		return callops.State{}, false, err
	}
	return st, true, nil
}

func (r *RedisStore) Save(ctx context.Context, st callops.State) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, Key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}
