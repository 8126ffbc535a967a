package dedup

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually stepped time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestShouldProcessSuppressesWithinWindow(t *testing.T) {
	clock := newFakeClock()
	cache := New(WithClock(clock.Now))

	require.True(t, cache.ShouldProcess("session-1"), "first sighting must be processed")
	require.False(t, cache.ShouldProcess("session-1"), "immediate repeat must be suppressed")

	clock.Advance(DefaultRecentThreshold - time.Millisecond)
	assert.False(t, cache.ShouldProcess("session-1"), "repeat inside the window must be suppressed")

	clock.Advance(time.Millisecond)
	assert.True(t, cache.ShouldProcess("session-1"), "repeat after the window must be processed")
}

func TestShouldProcessIndependentKeys(t *testing.T) {
	cache := New(WithClock(newFakeClock().Now))

	assert.True(t, cache.ShouldProcess("a"))
	assert.True(t, cache.ShouldProcess("b"))
	assert.False(t, cache.ShouldProcess("a"))
	assert.False(t, cache.ShouldProcess("b"))
}

func TestAcceptedCallResetsWindow(t *testing.T) {
	clock := newFakeClock()
	cache := New(WithClock(clock.Now))

	require.True(t, cache.ShouldProcess("k"))

	// Each accepted call restarts the cool-down: suppressed calls do not.
	clock.Advance(DefaultRecentThreshold)
	require.True(t, cache.ShouldProcess("k"))

	clock.Advance(DefaultRecentThreshold / 2)
	assert.False(t, cache.ShouldProcess("k"), "window restarted by the second accepted call")
}

func TestShouldProcessWithinOverridesThreshold(t *testing.T) {
	clock := newFakeClock()
	cache := New(WithClock(clock.Now))

	require.True(t, cache.ShouldProcessWithin("k", time.Minute))
	clock.Advance(30 * time.Second)
	assert.False(t, cache.ShouldProcessWithin("k", time.Minute))
	clock.Advance(30 * time.Second)
	assert.True(t, cache.ShouldProcessWithin("k", time.Minute))
}

func TestCleanupReapsOnlyStaleEntries(t *testing.T) {
	clock := newFakeClock()
	cache := New(WithClock(clock.Now))

	require.True(t, cache.ShouldProcess("old"))

	clock.Advance(DefaultRecentThreshold + DefaultCleanupThreshold - time.Second)
	require.True(t, cache.ShouldProcess("fresh"))

	// "old" is one second short of eligibility.
	assert.Equal(t, 0, cache.Cleanup())
	assert.Equal(t, 2, cache.Len())

	clock.Advance(time.Second)
	assert.Equal(t, 1, cache.Cleanup(), "only the stale entry is reaped")
	assert.Equal(t, 1, cache.Len())

	// A reaped key behaves as never seen.
	assert.True(t, cache.ShouldProcess("old"))
}

func TestCleanupNeverRemovesRefreshedEntry(t *testing.T) {
	clock := newFakeClock()
	cache := New(WithClock(clock.Now))

	require.True(t, cache.ShouldProcess("k"))
	clock.Advance(DefaultRecentThreshold + DefaultCleanupThreshold)

	// Refresh right at the eligibility boundary, then sweep. The refreshed
	// entry must survive.
	require.True(t, cache.ShouldProcess("k"))
	assert.Equal(t, 0, cache.Cleanup())
	assert.Equal(t, 1, cache.Len())
	assert.False(t, cache.ShouldProcess("k"))
}

func TestConcurrentShouldProcessAcceptsExactlyOnce(t *testing.T) {
	cache := New()

	const goroutines = 64
	var (
		wg       sync.WaitGroup
		accepted int64
		mu       sync.Mutex
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cache.ShouldProcess("contested") {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), accepted, "exactly one goroutine may win the key")
}

func TestConcurrentCleanupAndProcess(t *testing.T) {
	cache := New(WithThresholds(time.Nanosecond, time.Nanosecond))

	// Hammer distinct and shared keys while cleanup sweeps run concurrently.
	// The test asserts nothing panics and the map stays bounded; correctness
	// of individual decisions is covered by the clocked tests above.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				cache.ShouldProcess(fmt.Sprintf("key-%d-%d", n, j%10))
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Cleanup()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 80)
}
