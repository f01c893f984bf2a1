package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/infrastructure/dex"
)

// Cache stores venue snapshots per DEX and token pair, plus rendered prices.
// Get methods report a miss with ok == false; an empty snapshot list is a
// valid hit meaning the DEX has no venue for the pair.
type Cache interface {
	GetSnapshots(ctx context.Context, key string) (snapshots []dex.Snapshot, ok bool, err error)
	SetSnapshots(ctx context.Context, key string, snapshots []dex.Snapshot, ttl time.Duration) error
	GetPrice(ctx context.Context, key string) (price string, ok bool, err error)
	SetPrice(ctx context.Context, key string, price string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects and pings the server
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetSnapshots(ctx context.Context, key string) ([]dex.Snapshot, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: get %s: %w", key, err)
	}

	var snapshots []dex.Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, false, fmt.Errorf("redis: unmarshal %s: %w", key, err)
	}
	return snapshots, true, nil
}

func (c *RedisCache) SetSnapshots(ctx context.Context, key string, snapshots []dex.Snapshot, ttl time.Duration) error {
	if snapshots == nil {
		snapshots = []dex.Snapshot{}
	}
	data, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("redis: marshal %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) GetPrice(ctx context.Context, key string) (string, bool, error) {
	price, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return price, true, nil
}

func (c *RedisCache) SetPrice(ctx context.Context, key string, price string, ttl time.Duration) error {
	return c.client.Set(ctx, key, price, ttl).Err()
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// SnapshotCacheKey is independent of token order
func SnapshotCacheKey(dexType entities.DEXType, tokenA, tokenB common.Address) string {
	if tokenB.Cmp(tokenA) < 0 {
		tokenA, tokenB = tokenB, tokenA
	}
	return fmt.Sprintf("venues:%s:%s:%s", dexType, strings.ToLower(tokenA.Hex()), strings.ToLower(tokenB.Hex()))
}

// PriceCacheKey generates a cache key for a price
func PriceCacheKey(token common.Address) string {
	return "price:" + strings.ToLower(token.Hex())
}

// InMemoryCache implements Cache in process, for tests and for running without Redis
type InMemoryCache struct {
	mu        sync.Mutex
	snapshots map[string]cachedSnapshots
	prices    map[string]cachedPrice
	now       func() time.Time
}

type cachedSnapshots struct {
	snapshots []dex.Snapshot
	expiresAt time.Time
}

type cachedPrice struct {
	price     string
	expiresAt time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		snapshots: make(map[string]cachedSnapshots),
		prices:    make(map[string]cachedPrice),
		now:       time.Now,
	}
}

func (c *InMemoryCache) GetSnapshots(_ context.Context, key string) ([]dex.Snapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.snapshots[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(cached.expiresAt) {
		delete(c.snapshots, key)
		return nil, false, nil
	}
	return append([]dex.Snapshot(nil), cached.snapshots...), true, nil
}

func (c *InMemoryCache) SetSnapshots(_ context.Context, key string, snapshots []dex.Snapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[key] = cachedSnapshots{
		snapshots: append([]dex.Snapshot(nil), snapshots...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) GetPrice(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.prices[key]
	if !ok {
		return "", false, nil
	}
	if !c.now().Before(cached.expiresAt) {
		delete(c.prices, key)
		return "", false, nil
	}
	return cached.price, true, nil
}

func (c *InMemoryCache) SetPrice(_ context.Context, key string, price string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[key] = cachedPrice{
		price:     price,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, key)
	delete(c.prices, key)
	return nil
}
