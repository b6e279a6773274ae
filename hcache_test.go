package hcache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadCapacity(t *testing.T) {
	_, err := New[string, int](0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New[string, int](-1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNew_RejectsBadDefaultTTL(t *testing.T) {
	_, err := New[string, int](2, WithTTL[string, int](0))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New[string, int](2, WithTTL[string, int](-2*time.Second))
	require.ErrorIs(t, err, ErrInvalidArgument)

	c, err := New[string, int](2, WithTTL[string, int](NoExpiry))
	require.NoError(t, err)
	require.False(t, c.core.hasDefaultTTL)
}

func TestCache_SetGet(t *testing.T) {
	c, err := New[string, int](2)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1))
	v, err := c.Get("a")
	require.NoError(t, err)
	require.Equal(t, 1, v)

	_, err = c.Get("missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.Equal(t, 42, c.GetOrDefault("missing", 42))
}

func TestCache_PeekAndContainsNeverRaiseKeyNotFound(t *testing.T) {
	c, err := New[string, int](2)
	require.NoError(t, err)

	v, found, err := c.Peek("missing")
	require.NoError(t, err)
	require.False(t, found)
	require.Zero(t, v)

	ok, err := c.Contains("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_PeekDoesNotAffectRecency(t *testing.T) {
	c, err := New[string, int](2)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1))
	require.NoError(t, c.Set("b", 2))

	_, _, err = c.Peek("a")
	require.NoError(t, err)

	require.NoError(t, c.Set("c", 3)) // should evict "a", not "b"

	_, err = c.Get("a")
	require.ErrorIs(t, err, ErrKeyNotFound)
	_, err = c.Get("b")
	require.NoError(t, err)
}

func TestCache_Update(t *testing.T) {
	c, err := New[string, int](3)
	require.NoError(t, err)

	err = c.Update([]KV[string, int]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
		{Key: "c", Value: 3},
	})
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"a", "b", "c"}, c.Keys())
}

func TestCache_RemoveMissingIsError(t *testing.T) {
	c, err := New[string, int](2)
	require.NoError(t, err)
	err = c.Remove("nope")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestCache_PeekFirstAndLastItem(t *testing.T) {
	c, err := New[string, int](3)
	require.NoError(t, err)

	_, _, ok := c.PeekFirstItem()
	require.False(t, ok)

	require.NoError(t, c.Set("a", 1))
	require.NoError(t, c.Set("b", 2))

	k, v, ok := c.PeekFirstItem()
	require.True(t, ok)
	require.Equal(t, "b", k)
	require.Equal(t, 2, v)

	k, v, ok = c.PeekLastItem()
	require.True(t, ok)
	require.Equal(t, "a", k)
	require.Equal(t, 1, v)
}

func TestCache_ClearResetsStatsAndSuppressesCallback(t *testing.T) {
	c, err := New[string, int](2)
	require.NoError(t, err)

	var evicted int
	c.SetCallback(func(k string, v int) error {
		evicted++
		return nil
	})

	require.NoError(t, c.Set("a", 1))
	_, err = c.Get("a")
	require.NoError(t, err)

	c.Clear()
	require.Equal(t, Stats{}, c.Stats())
	require.Equal(t, 0, evicted)
	require.Equal(t, 0, c.Len())
}

func TestCache_SetSize(t *testing.T) {
	c, err := New[string, int](2)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1))
	require.NoError(t, c.Set("b", 2))
	require.NoError(t, c.SetSize(1))
	require.Equal(t, 1, c.Len())
	require.Equal(t, 1, c.GetSize())

	err = c.SetSize(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCache_EvictionCallbackFailurePropagates(t *testing.T) {
	c, err := New[string, int](1, WithEvictionCallback[string, int](func(k string, v int) error {
		return errBoom
	}))
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1))
	err = c.Set("b", 2) // evicts "a", callback fails
	require.ErrorIs(t, err, ErrCallbackFailure)
	require.ErrorIs(t, err, errBoom)

	// The insert itself still completed despite the callback failure.
	v, getErr := c.Get("b")
	require.NoError(t, getErr)
	require.Equal(t, 2, v)
}

func TestCache_UnhashableKeyOnInterfaceCache(t *testing.T) {
	c, err := New[any, int](2)
	require.NoError(t, err)

	err = c.Set([]int{1, 2, 3}, 1)
	require.ErrorIs(t, err, ErrUnhashableKey)
}

func TestCache_WithClockSeam(t *testing.T) {
	clock := &fakeClock{}
	c, err := New[string, int](2, WithClock[string, int](clock), WithTTL[string, int](10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1))
	clock.advance(int64(20 * time.Millisecond))

	ok, err := c.Contains("a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_WithLoggerAndMetricsDoNotPanic(t *testing.T) {
	logger := zerolog.Nop()
	reg := prometheus.NewRegistry()
	cm := NewCacheMetrics(reg, "test_cache")

	c, err := New[string, int](1,
		WithLogger[string, int](&logger),
		WithMetrics[string, int](cm),
		WithEvictionCallback[string, int](func(k string, v int) error { return nil }),
	)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1))
	require.NoError(t, c.Set("b", 2)) // triggers eviction trace through both hooks

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, metricFamilies)
}

var errBoom = &testBoomError{}

type testBoomError struct{}

func (*testBoomError) Error() string { return "boom" }
