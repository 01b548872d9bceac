package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type SetNXClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Cooldown throttles repeated commands per key. Only the throttle marker is
// stored; no market data ever reaches redis.
type Cooldown struct {
	client SetNXClient
	window time.Duration
	prefix string
}

func NewCooldown(client SetNXClient, window time.Duration) *Cooldown {
	return &Cooldown{client: client, window: window, prefix: "cooldown:"}
}

// Allow reports whether key may run now and starts its window if so. A nil
// Cooldown, a zero window or a redis error all allow the command.
func (c *Cooldown) Allow(ctx context.Context, key string) (bool, error) {
	if c == nil || c.client == nil || c.window <= 0 {
		return true, nil
	}
	ok, err := c.client.SetNX(ctx, c.prefix+key, 1, c.window).Result()
	if err != nil {
		return true, err
	}
	return ok, nil
}
