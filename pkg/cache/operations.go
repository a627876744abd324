package cache

import (
	"context"
	"encoding/json"
	"time"

	"onchain-re-lending/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// Store implements CacheOperations and SessionOperations over a Redis client.
type Store struct {
	client CacheClient
}

func NewStore(client CacheClient) *Store {
	return &Store{client: client}
}

// Set stores a value in the cache with the given key and expiration time.
func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	start := time.Now()
	data, err := json.Marshal(value)
	if err != nil {
		countFailure("set_marshal")
		logger.GlobalLogger.Errorf("failed to marshal value for key %s: %v", key, err)
		return NewCacheError("marshal", err, false)
	}
	err = s.client.Set(ctx, key, data, expiration).Err()
	observe("set", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to set key %s: %v", key, err)
		return NewCacheError("set", err, true)
	}
	return nil
}

// Get retrieves a value and unmarshals it into dest. A missing key yields ErrCacheMiss.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := s.GetString(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		countFailure("get_unmarshal")
		logger.GlobalLogger.Errorf("failed to unmarshal value for key %s: %v", key, err)
		return NewCacheError("unmarshal", err, false)
	}
	return nil
}

// GetString returns the raw value stored at key.
func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := s.client.Get(ctx, key).Result()
	observe("get", start, err)
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		logger.GlobalLogger.Errorf("failed to get key %s: %v", key, err)
		return "", NewCacheError("get", err, true)
	}
	return val, nil
}

// Delete removes a key from the cache.
func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.client.Del(ctx, key).Err()
	observe("delete", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to delete key %s: %v", key, err)
		return NewCacheError("delete", err, true)
	}
	return nil
}

// Exists checks if a key exists in the cache.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	count, err := s.client.Exists(ctx, key).Result()
	observe("exists", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to check existence of key %s: %v", key, err)
		return false, NewCacheError("exists", err, true)
	}
	return count > 0, nil
}

// Touch resets the expiry of key.
func (s *Store) Touch(ctx context.Context, key string, expiration time.Duration) error {
	start := time.Now()
	err := s.client.Expire(ctx, key, expiration).Err()
	observe("expire", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to refresh expiry of key %s: %v", key, err)
		return NewCacheError("expire", err, true)
	}
	return nil
}

// SetWithIndex writes value at key and points indexKey at key, in one script call.
// SetWithIndex stores a new document and points indexKey at it.
func (s *Store) SetWithIndex(ctx context.Context, key, indexKey string, value interface{}, expiration time.Duration) error {
	_, err := s.setWithIndex(ctx, indexModeCreate, key, indexKey, value, expiration)
	return err
}

// UpdateWithIndex rewrites an existing document and returns ErrCacheMiss when it
// has expired or been deleted. indexKey is refreshed only if it still points at key.
func (s *Store) UpdateWithIndex(ctx context.Context, key, indexKey string, value interface{}, expiration time.Duration) error {
	written, err := s.setWithIndex(ctx, indexModeUpdate, key, indexKey, value, expiration)
	if err != nil {
		return err
	}
	if !written {
		return ErrCacheMiss
	}
	return nil
}

func (s *Store) setWithIndex(ctx context.Context, mode, key, indexKey string, value interface{}, expiration time.Duration) (bool, error) {
	start := time.Now()
	data, err := json.Marshal(value)
	if err != nil {
		countFailure("set_index_marshal")
		logger.GlobalLogger.Errorf("failed to marshal value for key %s: %v", key, err)
		return false, NewCacheError("marshal", err, false)
	}

	n, err := setWithIndexScript.Run(ctx, s.client, []string{key, indexKey}, string(data), key, expiration.Milliseconds(), mode).Int64()
	observe("set_with_index", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to execute set-with-index script for key %s: %v", key, err)
		return false, NewCacheError("set_with_index", err, true)
	}
	return n == 1, nil
}

// Acquire takes key for token unless someone else holds it.
func (s *Store) Acquire(ctx context.Context, key, token string, expiration time.Duration) (bool, error) {
	start := time.Now()
	ok, err := s.client.SetNX(ctx, key, token, expiration).Result()
	observe("acquire", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to acquire lock %s: %v", key, err)
		return false, NewCacheError("acquire", err, true)
	}
	return ok, nil
}

// Release drops key if token still holds it; a lock taken over after expiry is left alone.
func (s *Store) Release(ctx context.Context, key, token string) error {
	start := time.Now()
	_, err := releaseScript.Run(ctx, s.client, []string{key}, token).Result()
	observe("release", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to release lock %s: %v", key, err)
		return NewCacheError("release", err, true)
	}
	return nil
}
