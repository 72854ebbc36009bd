package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend is one storage tier for in-flight flow state. A record is a flat
// string map. Get on an empty tier returns an empty record, and Clear on an
// empty tier is a no-op.
type Backend interface {
	Get(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, record map[string]string) error
	Clear(ctx context.Context) error
}

// Config selects the concrete backends for the two storage tiers. Cookie
// options are carried opaquely for cookie-capable backends supplied by the
// embedding application; this package never interprets them.
type Config struct {
	// PreferDurable routes session-tier traffic to the durable backend,
	// for runtimes with no session-scoped storage of their own.
	PreferDurable bool              `yaml:"preferDurable" json:"preferDurable"`
	RedisAddr     string            `yaml:"redisAddr" json:"redisAddr"`
	RedisKey      string            `yaml:"redisKey" json:"redisKey"`
	TTL           time.Duration     `yaml:"ttl" json:"ttl"`
	Cookie        map[string]string `yaml:"cookie" json:"cookie"`
}

// Resolve returns the durable and session tier backends for cfg. Redis backs
// the durable tier when an address is configured, otherwise both tiers live
// in process memory.
func Resolve(cfg Config) (durable, session Backend) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		durable = NewRedis(client, cfg.RedisKey, cfg.TTL)
	} else {
		durable = NewMemory()
	}

	if cfg.PreferDurable {
		session = durable
	} else {
		session = NewMemory()
	}
	return durable, session
}
