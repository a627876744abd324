package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the subset of *redis.Client used here. It also satisfies the
// scripter interface redis.Script.Run expects.
type CacheClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd
	ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd
	ScriptLoad(ctx context.Context, script string) *redis.StringCmd
	Close() error
}

// CacheOperations are JSON-valued key operations.
type CacheOperations interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Touch(ctx context.Context, key string, expiration time.Duration) error
}

// SessionOperations store a session document together with its wallet index,
// and hold short-lived per-session locks.
type SessionOperations interface {
	SetWithIndex(ctx context.Context, key, indexKey string, value interface{}, expiration time.Duration) error
	UpdateWithIndex(ctx context.Context, key, indexKey string, value interface{}, expiration time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Acquire(ctx context.Context, key, token string, expiration time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}
