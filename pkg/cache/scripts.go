package cache

import (
	"github.com/go-redis/redis/v8"
)

const (
	indexModeCreate = "create"
	indexModeUpdate = "update"
)

// Lua scripts for Redis operations
var (
	// store a document and point an index key at it, both with the same expiry.
	// In update mode a missing document is not recreated (returns 0) and the
	// index is only refreshed while it still points at this document.
	setWithIndexScript = redis.NewScript(`
		local doc_key = KEYS[1]
		local index_key = KEYS[2]
		local ttl_ms = tonumber(ARGV[3])
		local mode = ARGV[4]
		if mode == 'update' and redis.call('EXISTS', doc_key) == 0 then
			return 0
		end
		redis.call('SET', doc_key, ARGV[1], 'PX', ttl_ms)
		local current = redis.call('GET', index_key)
		if mode ~= 'update' or not current or current == ARGV[2] then
			redis.call('SET', index_key, ARGV[2], 'PX', ttl_ms)
		end
		return 1
	`)

	// delete a lock key only while it still holds the caller's token.
	releaseScript = redis.NewScript(`
		if redis.call('GET', KEYS[1]) == ARGV[1] then
			return redis.call('DEL', KEYS[1])
		end
		return 0
	`)
)
