// Package cache stores JSON-encoded values in Redis, falling back to an
// in-process map when Redis is not reachable so local runs and tests work
// without it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies it with a ping. On
// failure RDB stays nil and the memory store is used.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(Ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Driver reports which backend is active.
func Driver() string {
	if RDB != nil {
		return "redis"
	}
	return "memory"
}

// Get unmarshals the value under key into dest and reports a hit.
func Get(key string, dest interface{}) bool {
	raw, ok := getRaw(key)
	if !ok {
		metrics.CacheMisses.WithLabelValues(Driver()).Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(Driver()).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(Driver()).Inc()
	return true
}

// Has reports whether key exists without decoding it.
func Has(key string) bool {
	_, ok := getRaw(key)
	return ok
}

// Set stores value under key for ttl. A zero ttl never expires.
func Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if RDB != nil {
		return RDB.Set(Ctx, key, data, ttl).Err()
	}
	mem.set(key, data, ttl)
	return nil
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB != nil {
		return RDB.Del(Ctx, keys...).Err()
	}
	for _, k := range keys {
		mem.del(k)
	}
	return nil
}

// Forget is an alias for Del.
func Forget(key string) error {
	return Del(key)
}

// ForgetPrefix drops every key starting with prefix.
func ForgetPrefix(prefix string) error {
	if RDB != nil {
		iter := RDB.Scan(Ctx, 0, prefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(Ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return RDB.Del(Ctx, keys...).Err()
	}
	mem.delPrefix(prefix)
	return nil
}

// Remember returns the cached value for key or stores the result of fn.
func Remember[T any](key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var out T
	if Get(key, &out) {
		return out, nil
	}
	out, err := fn()
	if err != nil {
		return out, err
	}
	_ = Set(key, out, ttl)
	return out, nil
}

// Incr increments the counter at key, starting its ttl on first use, and
// returns the new value.
func Incr(key string, ttl time.Duration) (int64, error) {
	if RDB != nil {
		pipe := RDB.TxPipeline()
		incr := pipe.Incr(Ctx, key)
		pipe.ExpireNX(Ctx, key, ttl)
		if _, err := pipe.Exec(Ctx); err != nil {
			return 0, err
		}
		return incr.Val(), nil
	}
	return mem.incr(key, ttl), nil
}

func getRaw(key string) ([]byte, bool) {
	if RDB != nil {
		val, err := RDB.Get(Ctx, key).Bytes()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				metrics.CacheErrors.WithLabelValues("get").Inc()
			}
			return nil, false
		}
		return val, true
	}
	return mem.get(key)
}

// ── memory store ────────────────────────────────────────────────────────────

type item struct {
	data    []byte
	counter int64
	expires time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expires.IsZero() && now.After(i.expires)
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]item
}

var mem = &memoryStore{items: map[string]item{}}

func (m *memoryStore) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok || it.expired(time.Now()) {
		delete(m.items, key)
		return nil, false
	}
	return it.data, true
}

func (m *memoryStore) set(key string, data []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := item{data: data}
	if ttl > 0 {
		it.expires = time.Now().Add(ttl)
	}
	m.items[key] = it
}

func (m *memoryStore) del(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

func (m *memoryStore) delPrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
}

func (m *memoryStore) incr(key string, ttl time.Duration) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	it, ok := m.items[key]
	if !ok || it.expired(now) {
		it = item{}
		if ttl > 0 {
			it.expires = now.Add(ttl)
		}
	}
	it.counter++
	it.data = []byte(fmt.Sprint(it.counter))
	m.items[key] = it
	return it.counter
}

// Flush empties the memory store. Used by tests.
func Flush() {
	mem.mu.Lock()
	mem.items = map[string]item{}
	mem.mu.Unlock()
}
