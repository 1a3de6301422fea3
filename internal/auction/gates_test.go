package auction

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGateMap_GetOrCreateIsAtomic races many first-acquirers for a
// never-seen item id; all of them must receive the same gate.
func TestGateMap_GetOrCreateIsAtomic(t *testing.T) {
	g := newGateMap()

	const n = 100
	gates := make([]*sync.Mutex, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gates[i] = g.get("fresh-item")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, gates[0], gates[i])
	}
}

// TestGateMap_MutualExclusion verifies at most one goroutine is ever inside
// a given item's critical section, via an instrumented counter.
func TestGateMap_MutualExclusion(t *testing.T) {
	g := newGateMap()

	var (
		wg        sync.WaitGroup
		inside    atomic.Int32
		violation atomic.Bool
	)

	const n = 50
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate := g.get("item")
			gate.Lock()
			if inside.Add(1) > 1 {
				violation.Store(true)
			}
			inside.Add(-1)
			gate.Unlock()
		}()
	}
	wg.Wait()

	assert.False(t, violation.Load(), "two critical sections ran concurrently for the same item")
}

// TestGateMap_DistinctItemsDistinctGates checks gates are keyed per item.
func TestGateMap_DistinctItemsDistinctGates(t *testing.T) {
	g := newGateMap()

	a := g.get("a")
	b := g.get("b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, g.get("a"))
}
