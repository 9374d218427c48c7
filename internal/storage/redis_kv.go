package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps the board in Redis string keys.
type RedisKV struct {
	client *redis.Client
	prefix string
}

func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	if client == nil {
		panic("storage.NewRedisKV: client is nil")
	}
	return &RedisKV{client: client, prefix: prefix}
}

// DialRedisKV connects to addr and checks the connection. addr may also be a
// redis:// URL.
func DialRedisKV(ctx context.Context, addr string, db int, prefix string) (*RedisKV, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr, DB: db}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisKV(client, prefix), nil
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv get: %w", err)
	}
	return v, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv set: %w", err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

// Batch applies muts inside MULTI/EXEC.
func (r *RedisKV) Batch(ctx context.Context, muts []Mutation) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, m := range muts {
			if m.Delete {
				p.Del(ctx, r.prefix+m.Key)
				continue
			}
			p.Set(ctx, r.prefix+m.Key, m.Value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv batch: %w", err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
