package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

const redisKeyPrefix = "trace:search:"

// nextScript pops the next page of a session and advances its offset in
// one step, so concurrent continuations never see the same page.
//
// KEYS[1] candidate list, KEYS[2] offset. ARGV[1] page size.
// Returns nil when the session does not exist.
var nextScript = redis.NewScript(`
local off = redis.call('GET', KEYS[2])
if not off then
  return false
end
off = tonumber(off)
local len = redis.call('LLEN', KEYS[1])
local n = tonumber(ARGV[1])
if off >= len then
  return {}
end
local items = redis.call('LRANGE', KEYS[1], off, off + n - 1)
local newoff = math.min(len, off + n)
redis.call('INCRBY', KEYS[2], newoff - off)
return items
`)

// RedisStore is a SessionStore backed by Redis, shared by every server
// instance pointing at the same database. Candidates are kept as JSON in a
// list; the offset is a separate integer key.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore wraps client. A zero ttl keeps sessions forever.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKeys(key string) (list, offset string) {
	return redisKeyPrefix + key + ":candidates", redisKeyPrefix + key + ":offset"
}

func (s *RedisStore) Put(ctx context.Context, key string, candidates []model.Candidate, offset int) error {
	listKey, offsetKey := redisKeys(key)

	values := make([]any, 0, len(candidates))
	for _, c := range candidates {
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("search: encoding candidate %d: %w", c.ID, err)
		}
		values = append(values, b)
	}
	offset = min(max(offset, 0), len(candidates))

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, listKey, offsetKey)
		if len(values) > 0 {
			pipe.RPush(ctx, listKey, values...)
		}
		pipe.Set(ctx, offsetKey, offset, s.ttl)
		if s.ttl > 0 && len(values) > 0 {
			pipe.Expire(ctx, listKey, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("search: storing session %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Next(ctx context.Context, key string, n int) ([]model.Candidate, bool, error) {
	listKey, offsetKey := redisKeys(key)

	raw, err := nextScript.Run(ctx, s.client, []string{listKey, offsetKey}, n).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("search: reading session %q: %w", key, err)
	}

	page := make([]model.Candidate, 0, len(raw))
	for _, item := range raw {
		var c model.Candidate
		if err := json.Unmarshal([]byte(item), &c); err != nil {
			return nil, false, fmt.Errorf("search: decoding cached candidate: %w", err)
		}
		page = append(page, c)
	}
	return page, true, nil
}
