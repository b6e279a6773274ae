package hcache

import "github.com/rs/zerolog"

// newLogTrace adapts a *zerolog.Logger into the core's traceFunc hook
// (spec §11). It logs at Debug for ordinary evictions and Warn when the
// user's eviction callback itself failed, mirroring the level discipline
// GabrielNunesIT/go-libs/logger's own zerolog wrapper uses for expected
// vs. exceptional events.
func newLogTrace[K comparable, V any](logger *zerolog.Logger) traceFunc[K, V] {
	return func(kind evictionKind, key K, _ V, callbackErr error) {
		if callbackErr != nil {
			logger.Warn().
				Str("event", "callback_failure").
				Str("kind", kind.String()).
				Interface("key", key).
				Err(callbackErr).
				Msg("hcache: eviction callback failed")
			return
		}
		logger.Debug().
			Str("event", "evict").
			Str("kind", kind.String()).
			Interface("key", key).
			Msg("hcache: entry evicted")
	}
}

// chainTrace composes two trace hooks (e.g. logging and metrics) so the
// wrapper can install both without either needing to know about the
// other.
func chainTrace[K comparable, V any](a, b traceFunc[K, V]) traceFunc[K, V] {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return func(kind evictionKind, key K, value V, callbackErr error) {
			a(kind, key, value, callbackErr)
			b(kind, key, value, callbackErr)
		}
	}
}
