// Package cache stores hotel search results in Redis.
//
// Entries are keyed by a generation number. Invalidate bumps the generation,
// which orphans every older entry until its TTL expires.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "umrahstay:search"

type SearchCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewSearchCache returns a cache backed by rdb. A nil rdb yields a disabled
// cache whose methods are no-ops.
func NewSearchCache(rdb *redis.Client, ttl time.Duration) *SearchCache {
	if rdb == nil {
		return newSearchCache(nil, ttl)
	}
	return newSearchCache(rdb, ttl)
}

func newSearchCache(rdb redis.Cmdable, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &SearchCache{rdb: rdb, ttl: ttl, prefix: defaultPrefix}
}

func (c *SearchCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get loads the entry for query into dst. The bool is false on a miss. The
// returned generation is the one the lookup ran against; pass it to Set so a
// result computed before an Invalidate is never stored under the newer
// generation.
func (c *SearchCache) Get(ctx context.Context, query string, dst any) (bool, int64, error) {
	if !c.Enabled() {
		return false, 0, nil
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return false, 0, err
	}

	bs, err := c.rdb.Get(ctx, entryKey(c.prefix, gen, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, gen, nil
	}
	if err != nil {
		return false, gen, err
	}

	if err := json.Unmarshal(bs, dst); err != nil {
		return false, gen, fmt.Errorf("decode cached search: %w", err)
	}
	return true, gen, nil
}

// Set stores v for query under generation gen.
func (c *SearchCache) Set(ctx context.Context, gen int64, query string, v any) error {
	if !c.Enabled() {
		return nil
	}

	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, entryKey(c.prefix, gen, query), bs, c.ttl).Err()
}

// Invalidate drops every cached search by moving to a new generation.
func (c *SearchCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Incr(ctx, c.versionKey()).Err()
}

func (c *SearchCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return gen, nil
}

func (c *SearchCache) versionKey() string {
	return c.prefix + ":version"
}

func entryKey(prefix string, version int64, query string) string {
	sum := sha1.Sum([]byte(query))
	return prefix + ":v" + strconv.FormatInt(version, 10) + ":" + fmt.Sprintf("%x", sum[:])
}
