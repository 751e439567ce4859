// Package taxoncache is a Redis-backed name -> taxon lookaside. It implements
// the resolver's Cache interface and is entirely optional: the service runs
// without Redis configured.
package taxoncache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourorg/taxa-api/inat"
)

const (
	taxonKeyPrefix = "taxon:name:"
	missKeyPrefix  = "taxon:miss:"
)

type Client struct {
	rdb         *redis.Client
	ttl         time.Duration
	negativeTTL time.Duration
}

func New(addr, password string, db int, ttl, negativeTTL time.Duration) *Client {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if negativeTTL <= 0 {
		negativeTTL = 10 * time.Minute
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Client{rdb: rdb, ttl: ttl, negativeTTL: negativeTTL}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Lookup(ctx context.Context, name string) (inat.Taxon, bool, error) {
	val, err := c.rdb.Get(ctx, taxonKeyPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return inat.Taxon{}, false, nil
	}
	if err != nil {
		return inat.Taxon{}, false, err
	}
	var t inat.Taxon
	if err := json.Unmarshal([]byte(val), &t); err != nil {
		return inat.Taxon{}, false, err
	}
	return t, true, nil
}

func (c *Client) Store(ctx context.Context, name string, t inat.Taxon) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, taxonKeyPrefix+name, string(b), c.ttl).Err()
}

// LookupMiss reports whether the name is inside its not-found cooldown.
func (c *Client) LookupMiss(ctx context.Context, name string) (bool, error) {
	n, err := c.rdb.Exists(ctx, missKeyPrefix+name).Result()
	return n == 1, err
}

func (c *Client) StoreMiss(ctx context.Context, name string) error {
	return c.rdb.Set(ctx, missKeyPrefix+name, "1", c.negativeTTL).Err()
}
