package host

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeightClock_Monotonic(t *testing.T) {
	c := NewHeightClock()

	assert.Equal(t, uint64(0), c.Current())
	assert.Equal(t, uint64(1), c.Next())
	assert.Equal(t, uint64(2), c.Next())
	assert.Equal(t, uint64(2), c.Current())
}

func TestHeightClock_ResumeAt(t *testing.T) {
	c := NewHeightClockAt(100)

	assert.Equal(t, uint64(100), c.Current())
	assert.Equal(t, uint64(101), c.Next())
}

func TestHeightClock_ConcurrentUnique(t *testing.T) {
	c := NewHeightClock()

	const n = 100
	results := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.Next()
		}()
	}
	wg.Wait()
	close(results)

	seen := map[uint64]bool{}
	for h := range results {
		assert.False(t, seen[h], "duplicate height %d", h)
		seen[h] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, uint64(n), c.Current())
}

func TestFixedTime(t *testing.T) {
	instant := time.Unix(1000, 0).UTC()
	src := FixedTime(instant)

	assert.Equal(t, instant, src())
	assert.Equal(t, instant, src())
}

func TestSteppedTime(t *testing.T) {
	start := time.Unix(1000, 0).UTC()
	src := SteppedTime(start, time.Second)

	assert.Equal(t, start, src())
	assert.Equal(t, start.Add(time.Second), src())
	assert.Equal(t, start.Add(2*time.Second), src())
}
