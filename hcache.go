package hcache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// NoExpiry is the explicit "never expires" TTL sentinel for SetWithTTL
// (spec §6: "-1 explicitly denotes no-expiry").
const NoExpiry time.Duration = -1

// KV is a single key/value pair, returned by Items and accepted (in order)
// by Update.
type KV[K comparable, V any] struct {
	Key   K
	Value V
}

// Cache is the public, goroutine-safe cache type: a sync.Mutex-guarded
// wrapper around the unsynchronized core (spec §5). Every method takes the
// lock for its full duration, mirroring ammario/tlru's own Cache[K,V] and
// Krishna8167/tempuscache's RWMutex-guarded Cache — the corpus's own idiom
// for making a single-owner data structure safe for concurrent callers.
type Cache[K comparable, V any] struct {
	mu   sync.Mutex
	core *core[K, V]

	logger  *zerolog.Logger
	metrics *CacheMetrics

	lastHits, lastMisses uint64
}

// Option configures a Cache at construction time (spec §6, §12).
type Option[K comparable, V any] func(*config[K, V])

type config[K comparable, V any] struct {
	ttl      time.Duration
	hasTTL   bool
	callback EvictionCallback[K, V]
	clock    Clock
	logger   *zerolog.Logger
	metrics  *CacheMetrics
}

// WithTTL sets the cache's default TTL, applied whenever Set is used
// without an explicit per-entry override (spec §3 default_ttl).
func WithTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(c *config[K, V]) {
		c.ttl = ttl
		c.hasTTL = true
	}
}

// WithEvictionCallback installs the eviction callback invoked on capacity
// eviction, TTL expiry, and resize shrink (spec §4.6).
func WithEvictionCallback[K comparable, V any](cb EvictionCallback[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.callback = cb
	}
}

// WithClock overrides the Clock, a seam for deterministic tests (spec §12).
// Production callers should not need this; the default is a real
// monotonic clock.
func WithClock[K comparable, V any](clock Clock) Option[K, V] {
	return func(c *config[K, V]) {
		c.clock = clock
	}
}

// WithLogger attaches a zerolog logger that receives Debug-level eviction
// traces and Warn-level callback-failure traces (spec §11).
func WithLogger[K comparable, V any](logger *zerolog.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.logger = logger
	}
}

// WithMetrics attaches a Prometheus CacheMetrics instrument set (spec §14).
// Create one with NewCacheMetrics.
func WithMetrics[K comparable, V any](cm *CacheMetrics) Option[K, V] {
	return func(c *config[K, V]) {
		c.metrics = cm
	}
}

// New constructs an empty Cache with the given capacity (spec §4.7 "new").
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, invalidArgumentf("capacity must be >= 1, got %d", capacity)
	}

	cfg := &config[K, V]{}
	for _, opt := range opts {
		opt(cfg)
	}

	clock := cfg.clock
	if clock == nil {
		clock = NewClock()
	}

	core := newCore[K, V](capacity, clock)
	core.callback = cfg.callback
	if cfg.hasTTL {
		if cfg.ttl == 0 {
			return nil, invalidArgumentf("WithTTL duration of 0 is invalid; use hcache.NoExpiry for no default TTL")
		}
		if cfg.ttl != NoExpiry && cfg.ttl < 0 {
			return nil, invalidArgumentf("WithTTL duration must be positive or hcache.NoExpiry, got %s", cfg.ttl)
		}
		if cfg.ttl != NoExpiry {
			core.hasDefaultTTL = true
			core.defaultTTL = int64(cfg.ttl)
		}
	}

	var trace traceFunc[K, V]
	if cfg.logger != nil {
		trace = chainTrace(trace, newLogTrace[K, V](cfg.logger))
	}
	if cfg.metrics != nil {
		trace = chainTrace(trace, newMetricsTrace[K, V](cfg.metrics))
	}
	core.trace = trace

	return &Cache[K, V]{
		core:    core,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}, nil
}

// syncMetrics mirrors the core's current stats/occupancy onto the
// Prometheus instruments, if any are attached. Must be called with mu
// held.
func (c *Cache[K, V]) syncMetrics() {
	if c.metrics == nil {
		return
	}
	c.metrics.observeStats(Stats{Hits: c.core.hits, Misses: c.core.misses}, c.lastHits, c.lastMisses)
	c.lastHits, c.lastMisses = c.core.hits, c.core.misses
	c.metrics.setSize(c.core.recency.len())
}

// Set inserts or overwrites k with v, applying the cache's default TTL
// rule (spec §4.7 "insert").
func (c *Cache[K, V]) Set(k K, v V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.core.insert(k, v, nil)
	c.syncMetrics()
	return err
}

// SetWithTTL inserts or overwrites k with v using an explicit TTL,
// overriding the cache's default TTL rule for this entry (spec §4.7
// "insert_with_ttl"). Use hcache.NoExpiry for an entry that never expires.
func (c *Cache[K, V]) SetWithTTL(k K, v V, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	nanos := int64(ttl)
	err := c.core.insert(k, v, &nanos)
	c.syncMetrics()
	return err
}

// Update applies Set to each pair in pairs, in the given order (spec §4.7
// "update"). Go maps have no defined iteration order, so — unlike the
// source's **kwargs-style mapping argument — this takes an ordered slice.
func (c *Cache[K, V]) Update(pairs []KV[K, V]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for _, kv := range pairs {
		if err := c.core.insert(kv.Key, kv.Value, nil); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.syncMetrics()
	return firstErr
}

// Get returns the value stored for k, or ErrKeyNotFound if absent or
// expired (spec §4.7 "get" without a default).
func (c *Cache[K, V]) Get(k K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, found, err := c.core.get(k)
	c.syncMetrics()
	if err != nil {
		return v, err
	}
	if !found {
		return v, keyNotFound(k)
	}
	return v, nil
}

// GetOrDefault returns the value stored for k, or def if k is absent or
// expired (spec §4.7 "get" with a default). A miss still counts toward
// Stats.Misses either way.
func (c *Cache[K, V]) GetOrDefault(k K, def V) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, found, _ := c.core.get(k)
	c.syncMetrics()
	if !found {
		return def
	}
	return v
}

// Peek returns the value stored for k without affecting recency order or
// hit/miss statistics (spec §4.7 "peek"). The returned error, when
// non-nil, is never ErrKeyNotFound — §7 is explicit that peek-family
// operations return (zero, false) on an absent key rather than raising,
// which this rendering follows over the operations table's own
// "KeyNotFound" entry for this row (see DESIGN.md).
func (c *Cache[K, V]) Peek(k K) (V, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, found, err := c.core.peek(k)
	c.syncMetrics()
	return v, found, err
}

// Contains reports whether k is live, without affecting recency order or
// statistics (spec §4.7 "contains").
func (c *Cache[K, V]) Contains(k K) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ok, err := c.core.contains(k)
	c.syncMetrics()
	return ok, err
}

// Remove deletes k. It never invokes the eviction callback (spec §4.7
// "remove"). Returns ErrKeyNotFound if k is absent or already expired.
func (c *Cache[K, V]) Remove(k K) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.core.remove(k)
	c.syncMetrics()
	return err
}

// PeekFirstItem returns the most-recently-used (key, value), or
// (zero, zero, false) if the cache is empty (spec §4.7 "peek_first_item").
func (c *Cache[K, V]) PeekFirstItem() (K, V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k, v, ok, _ := c.core.peekFirstItem()
	c.syncMetrics()
	return k, v, ok
}

// PeekLastItem returns the least-recently-used (key, value), or
// (zero, zero, false) if the cache is empty (spec §4.7 "peek_last_item").
func (c *Cache[K, V]) PeekLastItem() (K, V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k, v, ok, _ := c.core.peekLastItem()
	c.syncMetrics()
	return k, v, ok
}

// Keys returns a snapshot of live keys, most-recently-used first.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys, _, _ := c.core.snapshot()
	c.syncMetrics()
	return keys
}

// Values returns a snapshot of live values, most-recently-used first.
func (c *Cache[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, values, _ := c.core.snapshot()
	c.syncMetrics()
	return values
}

// Items returns a snapshot of live (key, value) pairs, most-recently-used
// first.
func (c *Cache[K, V]) Items() []KV[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys, values, _ := c.core.snapshot()
	c.syncMetrics()
	items := make([]KV[K, V], len(keys))
	for i := range keys {
		items[i] = KV[K, V]{Key: keys[i], Value: values[i]}
	}
	return items
}

// Len returns the current occupancy.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := c.core.length()
	c.syncMetrics()
	return n
}

// Clear removes every entry. It never invokes the eviction callback for
// entries it clears live, and it resets Stats to zero (spec §4.7
// "clear"). Entries that were already expired drain first and do invoke
// the callback, as on every other public operation.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.core.clear()
	c.lastHits, c.lastMisses = 0, 0
	c.syncMetrics()
}

// GetSize returns the current capacity.
func (c *Cache[K, V]) GetSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := c.core.getSize()
	c.syncMetrics()
	return n
}

// SetSize changes the capacity. Shrinking evicts the recency tail
// (invoking the callback) until occupancy is within the new bound (spec
// §4.7 "set_size").
func (c *Cache[K, V]) SetSize(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.core.setSize(n)
	c.syncMetrics()
	return err
}

// SetCallback replaces the eviction callback. Pass nil to clear it.
func (c *Cache[K, V]) SetCallback(cb EvictionCallback[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.core.setCallback(cb)
	c.syncMetrics()
}

// Stats returns the current hit/miss snapshot.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, _ := c.core.stats()
	c.syncMetrics()
	return s
}
