package storage

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReplayGuard tracks consumed visit ids in Redis so attestations survive
// process restarts. Markers expire with the attestation freshness window.
type RedisReplayGuard struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisReplayGuard(client *redis.Client, ttl time.Duration) *RedisReplayGuard {
	return &RedisReplayGuard{Client: client, TTL: ttl}
}

func (g *RedisReplayGuard) MarkerKey(restaurantID, visitID string) string {
	return "visit:" + restaurantID + ":" + visitID
}

func (g *RedisReplayGuard) Exists(ctx context.Context, key string) (bool, error) {
	res, err := g.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (g *RedisReplayGuard) SetMarker(ctx context.Context, key string) error {
	return g.Client.Set(ctx, key, "1", g.TTL).Err()
}

// MemoryReplayGuard is the in-process fallback when Redis is unavailable.
// Markers do not survive restarts.
type MemoryReplayGuard struct {
	mu   sync.Mutex
	used map[string]struct{}
}

func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{used: make(map[string]struct{})}
}

func (g *MemoryReplayGuard) MarkerKey(restaurantID, visitID string) string {
	return "visit:" + restaurantID + ":" + visitID
}

func (g *MemoryReplayGuard) Exists(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.used[key]
	return ok, nil
}

func (g *MemoryReplayGuard) SetMarker(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.used[key] = struct{}{}
	return nil
}
