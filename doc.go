// Package hcache implements a bounded, in-process cache that composes
// capacity-bounded LRU eviction with per-entry TTL expiration.
//
// The cache is backed by an intrusive node participating simultaneously in
// a hash index (for lookup), a doubly linked recency list (for LRU
// eviction), and a radix-tree-backed deadline index (for TTL expiration).
// Expiration is strictly lazy: no timers or background goroutines run;
// every public operation drains expired entries before doing its own work.
package hcache
