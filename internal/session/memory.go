package session

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory es un backend in-process sobre go-cache.
type Memory struct{ c *gocache.Cache }

// NewMemory crea un backend de memoria con TTL default.
func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &Memory{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Memory) Get(k string) (string, bool) {
	v, ok := m.c.Get(k)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

func (m *Memory) Set(k, v string, ttl time.Duration) { m.c.Set(k, v, ttl) }

func (m *Memory) Delete(k string) { m.c.Delete(k) }
