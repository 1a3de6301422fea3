package auction

import "sync"

// Registry owns the item set, its stable ordering, and the per-item gates.
// The registry lock guards only the item map and ordering slice; item field
// mutation is governed by the per-item gates.
//
// Lock ordering: a goroutine never waits on the registry lock while holding
// an item gate and vice versa, except for Reset, which acquires every gate
// before taking the registry write lock. That is safe because no other path
// holds the registry lock while waiting for a gate.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*Item
	order []string

	seeds []ItemSeed
	gates *gateMap
	clock Clock
}

// NewRegistry builds a registry populated from the seed catalog, with
// deadlines computed relative to the clock's current reading.
func NewRegistry(seeds []ItemSeed, clock Clock) *Registry {
	r := &Registry{
		seeds: seeds,
		gates: newGateMap(),
		clock: clock,
	}
	r.items, r.order = r.seed()
	return r
}

// seed builds a fresh item set from the catalog.
func (r *Registry) seed() (map[string]*Item, []string) {
	now := r.clock.Now()
	items := make(map[string]*Item, len(r.seeds))
	order := make([]string, 0, len(r.seeds))
	for _, s := range r.seeds {
		items[s.ID] = &Item{
			ID:            s.ID,
			Title:         s.Title,
			Description:   s.Description,
			ImageURL:      s.ImageURL,
			StartingPrice: s.StartingPrice,
			CurrentBid:    s.StartingPrice,
			EndAt:         now.Add(s.Duration),
		}
		order = append(order, s.ID)
	}
	return items, order
}

// lookup resolves an item pointer without touching its gate.
func (r *Registry) lookup(itemID string) (*Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[itemID]
	return item, ok
}

// gate returns the serialization gate for itemID, creating it on first use.
func (r *Registry) gate(itemID string) *sync.Mutex {
	return r.gates.get(itemID)
}

// snapshot copies the current ordering and item pointers. The registry lock
// is released before any gate is taken, which keeps the lock ordering with
// Reset sound; a caller may therefore observe items from just before a
// concurrent reset, which is the documented eventual-consistency window.
func (r *Registry) snapshot() []*Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*Item, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.items[id])
	}
	return items
}

// ListItems returns the public views of all items in stable seed order.
func (r *Registry) ListItems() []ItemView {
	items := r.snapshot()
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		gate := r.gate(item.ID)
		gate.Lock()
		views = append(views, item.view())
		gate.Unlock()
	}
	return views
}

// GetItem returns the public view of a single item.
func (r *Registry) GetItem(itemID string) (ItemView, error) {
	item, ok := r.lookup(itemID)
	if !ok {
		return ItemView{}, ErrItemNotFound
	}
	gate := r.gate(itemID)
	gate.Lock()
	defer gate.Unlock()
	return item.view(), nil
}

// BidHistory returns a copy of an item's append-only bid history,
// in acceptance order.
func (r *Registry) BidHistory(itemID string) ([]Bid, error) {
	item, ok := r.lookup(itemID)
	if !ok {
		return nil, ErrItemNotFound
	}
	gate := r.gate(itemID)
	gate.Lock()
	defer gate.Unlock()
	history := make([]Bid, len(item.History))
	copy(history, item.History)
	return history, nil
}

// Reset atomically replaces the whole item set with a freshly seeded one.
// It first acquires every item's gate in seed order, so no in-flight bid
// evaluation can interleave with the swap and no evaluator ever observes a
// half-replaced registry.
func (r *Registry) Reset() []ItemView {
	for _, s := range r.seeds {
		gate := r.gates.get(s.ID)
		gate.Lock()
		defer gate.Unlock()
	}

	r.mu.Lock()
	r.items, r.order = r.seed()
	views := make([]ItemView, 0, len(r.order))
	for _, id := range r.order {
		views = append(views, r.items[id].view())
	}
	r.mu.Unlock()
	return views
}
