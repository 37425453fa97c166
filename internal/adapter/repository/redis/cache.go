// Package redis implements the dashboard cache: a remote Redis store that
// transparently degrades to an in-process TTL map whenever the remote is
// unreachable, and recovers on its own. Failures never reach callers; they
// surface only as logs, metrics and a state transition.
package redis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
)

// Clock abstracts time for deterministic expiry tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

const (
	defaultNamespace   = "dashboard"
	defaultOpTimeout   = 2 * time.Second
	defaultMaxAttempts = 3

	// memorySweepThreshold triggers an expiry sweep of the in-process map.
	memorySweepThreshold = 1000
)

// Config holds FallbackCache dependencies. A nil Client disables the remote
// path entirely (memory-only mode).
type Config struct {
	Client      *redislib.Client
	Clock       Clock
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics
	MaxAttempts int           // reconnect probes before giving up on the remote
	OpTimeout   time.Duration // bound for any single remote call
	Namespace   string
}

// FallbackCache is the cache service. All operations are best-effort: remote
// errors degrade to the memory path and are absorbed.
type FallbackCache struct {
	client      *redislib.Client
	clock       Clock
	logger      zerolog.Logger
	metrics     *metrics.Metrics
	maxAttempts int
	opTimeout   time.Duration
	namespace   string

	probeCtx    context.Context
	probeCancel context.CancelFunc

	mu       sync.Mutex
	memory   map[string]memoryEntry
	degraded bool
	disabled bool // remote given up for good after exhausting probes
	probing  bool
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// New creates a FallbackCache.
func New(cfg Config) *FallbackCache {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &FallbackCache{
		client:      cfg.Client,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		maxAttempts: cfg.MaxAttempts,
		opTimeout:   cfg.OpTimeout,
		namespace:   cfg.Namespace,
		probeCtx:    ctx,
		probeCancel: cancel,
		memory:      make(map[string]memoryEntry),
	}

	if c.client == nil {
		c.disabled = true
		c.degraded = true
		c.setDegradedGauge(true)
		c.logger.Info().Msg("remote cache disabled, using in-process cache only")
	}

	return c
}

// Close stops the recovery probe.
func (c *FallbackCache) Close() {
	c.probeCancel()
}

// Key builds a deterministic cache key from the namespace, a prefix and a
// canonical encoding of params. Params are round-tripped through a generic
// JSON value so object keys serialize sorted; semantically equal params
// always yield the same key regardless of field order.
func (c *FallbackCache) Key(prefix string, params any) string {
	encoded, err := json.Marshal(params)
	if err == nil {
		var generic any
		if json.Unmarshal(encoded, &generic) == nil {
			encoded, _ = json.Marshal(generic)
		}
	} else {
		encoded = []byte("null")
	}

	return c.namespace + ":" + prefix + ":" + base64.StdEncoding.EncodeToString(encoded)
}

// Get looks the key up remotely when active, falling back to the memory map.
// It reports whether out was populated. Expired memory entries are evicted
// lazily.
func (c *FallbackCache) Get(ctx context.Context, key string, out any) bool {
	c.countOp("get")

	if c.remoteActive() {
		opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
		val, err := c.client.Get(opCtx, key).Bytes()
		cancel()

		switch {
		case err == nil:
			if jsonErr := json.Unmarshal(val, out); jsonErr != nil {
				c.logger.Warn().Err(jsonErr).Str("key", key).Msg("cache entry undecodable, treating as miss")
				break
			}
			c.countHit("redis")
			return true
		case err == redislib.Nil:
			// plain miss, still worth checking the memory mirror
		default:
			c.absorb("get", err)
		}
	}

	if val, ok := c.memoryGet(key); ok {
		if err := json.Unmarshal(val, out); err == nil {
			c.countHit("memory")
			return true
		}
	}

	c.countMiss()
	return false
}

// Set stores the value with a TTL, write-through to the remote when active
// and always into the memory map once degraded.
func (c *FallbackCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	c.countOp("set")

	encoded, err := json.Marshal(value)
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("cache value not serializable, dropping")
		return
	}

	if c.remoteActive() {
		opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
		err := c.client.Set(opCtx, key, encoded, ttl).Err()
		cancel()

		if err == nil {
			return
		}
		c.absorb("set", err)
	}

	c.memorySet(key, encoded, ttl)
}

// Delete removes the key from both backends.
func (c *FallbackCache) Delete(ctx context.Context, key string) {
	c.countOp("delete")

	if c.remoteActive() {
		opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
		err := c.client.Del(opCtx, key).Err()
		cancel()

		if err != nil {
			c.absorb("delete", err)
		}
	}

	c.mu.Lock()
	delete(c.memory, key)
	c.mu.Unlock()
	c.updateSizeGauge()
}

// Clear removes matching keys from both backends. With a prefix only
// namespace:prefix:* keys go; without one, everything is flushed.
func (c *FallbackCache) Clear(ctx context.Context, prefix string) {
	c.countOp("clear")

	if c.remoteActive() {
		opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
		err := c.remoteClear(opCtx, prefix)
		cancel()

		if err != nil {
			c.absorb("clear", err)
		}
	}

	c.mu.Lock()
	if prefix == "" {
		c.memory = make(map[string]memoryEntry)
	} else {
		match := c.namespace + ":" + prefix + ":"
		for key := range c.memory {
			if strings.HasPrefix(key, match) {
				delete(c.memory, key)
			}
		}
	}
	c.mu.Unlock()
	c.updateSizeGauge()
}

// Degraded reports whether the service is serving from memory only.
func (c *FallbackCache) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

func (c *FallbackCache) remoteClear(ctx context.Context, prefix string) error {
	if prefix == "" {
		return c.client.FlushDB(ctx).Err()
	}

	keys, err := c.client.Keys(ctx, c.namespace+":"+prefix+":*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *FallbackCache) remoteActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil && !c.degraded && !c.disabled
}

// absorb records a remote failure, flips the service to Degraded so later
// calls skip the remote latency, and kicks off the recovery probe.
func (c *FallbackCache) absorb(op string, err error) {
	c.countError(op)
	c.logger.Warn().Err(err).Str("operation", op).Msg("remote cache error, serving from memory")

	c.mu.Lock()
	alreadyProbing := c.probing || c.disabled
	c.degraded = true
	if !alreadyProbing {
		c.probing = true
	}
	c.mu.Unlock()
	c.setDegradedGauge(true)

	if !alreadyProbing {
		go c.probe()
	}
}

// probe pings the remote with exponential backoff until it answers or the
// attempt budget is spent. On success the service flips back to Active; on
// exhaustion the remote is disabled for the rest of the process lifetime.
func (c *FallbackCache) probe() {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0

	attempts := 0
	err := backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(c.probeCtx, c.opTimeout)
		err := c.client.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			return nil
		}

		attempts++
		if attempts >= c.maxAttempts {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, c.probeCtx))

	c.mu.Lock()
	c.probing = false
	if err == nil {
		c.degraded = false
		c.mu.Unlock()
		c.setDegradedGauge(false)
		c.logger.Info().Msg("remote cache reachable again, leaving degraded mode")
		return
	}
	c.disabled = true
	c.mu.Unlock()

	c.logger.Warn().Err(err).Int("attempts", c.maxAttempts).
		Msg("remote cache reconnect attempts exhausted, staying on in-process cache")
}

func (c *FallbackCache) memoryGet(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.memory[key]
	if !ok {
		return nil, false
	}
	if !entry.expires.After(c.clock.Now()) {
		delete(c.memory, key)
		return nil, false
	}
	return entry.value, true
}

func (c *FallbackCache) memorySet(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	c.memory[key] = memoryEntry{value: value, expires: c.clock.Now().Add(ttl)}
	if len(c.memory) > memorySweepThreshold {
		c.sweepLocked()
	}
	size := len(c.memory)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.CacheMemorySize.Set(float64(size))
	}
}

// sweepLocked drops every expired entry. TTL based, not LRU: the map is a
// mirror of short-lived dashboard payloads, not a working set worth ranking.
func (c *FallbackCache) sweepLocked() {
	now := c.clock.Now()
	for key, entry := range c.memory {
		if !entry.expires.After(now) {
			delete(c.memory, key)
		}
	}
}

func (c *FallbackCache) countOp(op string) {
	if c.metrics != nil {
		c.metrics.CacheOperations.WithLabelValues(op).Inc()
	}
}

func (c *FallbackCache) countHit(backend string) {
	if c.metrics != nil {
		c.metrics.CacheHits.WithLabelValues(backend).Inc()
	}
}

func (c *FallbackCache) countMiss() {
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
}

func (c *FallbackCache) countError(op string) {
	if c.metrics != nil {
		c.metrics.CacheErrors.WithLabelValues(op).Inc()
	}
}

func (c *FallbackCache) setDegradedGauge(degraded bool) {
	if c.metrics == nil {
		return
	}
	if degraded {
		c.metrics.CacheDegraded.Set(1)
	} else {
		c.metrics.CacheDegraded.Set(0)
	}
}

func (c *FallbackCache) updateSizeGauge() {
	if c.metrics == nil {
		return
	}
	c.mu.Lock()
	size := len(c.memory)
	c.mu.Unlock()
	c.metrics.CacheMemorySize.Set(float64(size))
}
