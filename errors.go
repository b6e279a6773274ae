package hcache

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the taxonomy of spec §7, plus ErrReentrant — a
// Go-rendering addition (spec §5, §9, SPEC_FULL.md §7) for a failure class
// the source's single-threaded host doesn't need a name for, but that a Go
// implementation that refuses to silently corrupt state does.
var (
	// ErrInvalidArgument is returned for a non-positive capacity, a zero
	// TTL, or a malformed resize target.
	ErrInvalidArgument = errors.New("hcache: invalid argument")

	// ErrUnhashableKey is returned when a key cannot be compared/hashed.
	// For any concretely-typed Cache[K, V] this is unreachable — Go's
	// comparable constraint rejects such a K at compile time. It is only
	// reachable for Cache[any, V] callers who store a dynamically
	// uncomparable value in the key (SPEC_FULL.md §15).
	ErrUnhashableKey = errors.New("hcache: unhashable key")

	// ErrKeyNotFound is returned by a lookup or delete on an absent (or
	// expired-and-drained) key when no default was supplied.
	ErrKeyNotFound = errors.New("hcache: key not found")

	// ErrCallbackFailure wraps an error returned by the user's eviction
	// callback. The eviction that triggered it has already completed.
	ErrCallbackFailure = errors.New("hcache: eviction callback failed")

	// ErrReentrant is returned when a public operation is invoked from
	// within the dynamic extent of another public operation on the same
	// Core — in practice, from inside an eviction callback.
	ErrReentrant = errors.New("hcache: reentrant call into cache during eviction callback")
)

func invalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func keyNotFound[K any](k K) error {
	return fmt.Errorf("%w: %v", ErrKeyNotFound, k)
}

func callbackFailure[K any](k K, cause error) error {
	return fmt.Errorf("%w for key %v: %w", ErrCallbackFailure, k, cause)
}
