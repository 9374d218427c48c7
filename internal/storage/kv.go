package storage

import (
	"context"
	"fmt"
)

// KV is a string key-value store. Implementations must apply a Batch
// atomically: a concurrent reader sees all of it or none of it.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Batch(ctx context.Context, muts []Mutation) error
	Close() error
}

// Backend names accepted by OpenKV.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a KV backend.
type Options struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisDB   int
	KeyPrefix string
}

// OpenKV opens the configured backend.
func OpenKV(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		path, err := ResolveDBPath(opts.Path)
		if err != nil {
			return nil, err
		}
		db, err := Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(db, opts.KeyPrefix), nil
	case BackendRedis:
		return DialRedisKV(ctx, opts.RedisAddr, opts.RedisDB, opts.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
