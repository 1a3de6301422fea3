package auction

import "sync"

// gateMap holds one mutual-exclusion gate per item ID. Gates are created
// lazily on first reference and live for the rest of the process; the map's
// own lock guards only get-or-create, never bid evaluation.
type gateMap struct {
	mu    sync.Mutex
	gates map[string]*sync.Mutex
}

func newGateMap() *gateMap {
	return &gateMap{gates: make(map[string]*sync.Mutex)}
}

// get returns the gate for itemID, creating it atomically on first use.
// Two simultaneous first-acquirers always receive the same gate.
func (g *gateMap) get(itemID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	gate, ok := g.gates[itemID]
	if !ok {
		gate = &sync.Mutex{}
		g.gates[itemID] = gate
	}
	return gate
}
