package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastRefreshKey = "last_refresh"

// DashboardCache holds the admin panel's cached aggregates. Writers invalidate
// it after changing the activity log so the next dashboard read recomputes.
type DashboardCache interface {
	Invalidate(ctx context.Context, at time.Time) (int, error)
	LastRefresh(ctx context.Context) (time.Time, bool, error)
	Close() error
}

type redisDashboardCache struct {
	client *redis.Client
	prefix string
}

func NewRedisDashboardCache(addr, password string, db int, prefix string) (DashboardCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if prefix == "" {
		prefix = "dashboard"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisDashboardCache{client: client, prefix: prefix}, nil
}

func (c *redisDashboardCache) key(k string) string {
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

// Invalidate deletes every cached key under the prefix and stamps the refresh
// time. It returns the number of cached keys removed; the stamp is overwritten,
// not counted.
func (c *redisDashboardCache) Invalidate(ctx context.Context, at time.Time) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	var (
		cursor  uint64
		removed int
		stamp   = c.key(lastRefreshKey)
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.key("*"), 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scan %s: %w", c.prefix, err)
		}
		cached := keys[:0]
		for _, k := range keys {
			if k != stamp {
				cached = append(cached, k)
			}
		}
		if len(cached) > 0 {
			n, err := c.client.Del(ctx, cached...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete %s keys: %w", c.prefix, err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if err := c.client.Set(ctx, stamp, at.UTC().Format(time.RFC3339), 0).Err(); err != nil {
		return removed, fmt.Errorf("stamp refresh: %w", err)
	}
	return removed, nil
}

func (c *redisDashboardCache) LastRefresh(ctx context.Context) (time.Time, bool, error) {
	if c == nil || c.client == nil {
		return time.Time{}, false, nil
	}
	val, err := c.client.Get(ctx, c.key(lastRefreshKey)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse refresh stamp: %w", err)
	}
	return t, true, nil
}

func (c *redisDashboardCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
