package session

import (
	"context"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Redis es un backend distribuido sobre go-redis.
type Redis struct {
	c          *rdb.Client
	prefix     string
	defaultTTL time.Duration
}

// NewRedis crea un backend Redis.
func NewRedis(addr string, db int, prefix string, defaultTTL time.Duration) *Redis {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &Redis{
		c:          rdb.NewClient(&rdb.Options{Addr: addr, DB: db}),
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}
}

func (r *Redis) Get(k string) (string, bool) {
	s, err := r.c.Get(context.Background(), r.prefix+k).Result()
	if err != nil {
		return "", false
	}
	return s, true
}

func (r *Redis) Set(k, v string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	_ = r.c.Set(context.Background(), r.prefix+k, v, ttl).Err()
}

func (r *Redis) Delete(k string) { _ = r.c.Del(context.Background(), r.prefix+k).Err() }

// Ping verifica la conexión.
func (r *Redis) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

// Close cierra la conexión.
func (r *Redis) Close() error { return r.c.Close() }
