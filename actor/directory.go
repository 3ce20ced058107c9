package actor

import (
	"hash/fnv"
	"sync"
)

// Directory is the sharded Address -> ActorCell registry. Each shard
// guards its own map with its own RWMutex, so unrelated addresses never
// contend on the same lock, giving expected O(1) lookup under concurrent
// registration and lookup even as the actor population grows.
type Directory struct {
	shards []*directoryShard
}

type directoryShard struct {
	mu      sync.RWMutex
	cells   map[string]*ActorCell
	proxies map[string]*Proxy
}

// NewDirectory builds a Directory with shardCount buckets. shardCount is
// clamped to at least 1.
func NewDirectory(shardCount int) *Directory {
	if shardCount < 1 {
		shardCount = 1
	}
	shards := make([]*directoryShard, shardCount)
	for i := range shards {
		shards[i] = &directoryShard{
			cells:   make(map[string]*ActorCell),
			proxies: make(map[string]*Proxy),
		}
	}
	return &Directory{shards: shards}
}

func (d *Directory) shardFor(key string) *directoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return d.shards[h.Sum32()%uint32(len(d.shards))]
}

// Register adds cell under its own address. It fails with
// ErrAlreadyRegistered if the address is already live.
func (d *Directory) Register(cell *ActorCell) error {
	key := cell.address.String()
	shard := d.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if _, exists := shard.cells[key]; exists {
		return ErrAlreadyRegistered
	}
	shard.cells[key] = cell
	return nil
}

// Get looks up the live cell for addr.
func (d *Directory) Get(addr Address) (*ActorCell, bool) {
	shard := d.shardFor(addr.String())
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	cell, ok := shard.cells[addr.String()]
	return cell, ok
}

// Unregister removes addr's cell (and any interned proxy for it) from
// the Directory. A no-op if the address is not present.
func (d *Directory) Unregister(addr Address) {
	shard := d.shardFor(addr.String())
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.cells, addr.String())
	delete(shard.proxies, addr.String())
}

// ProxyFor returns the interned Proxy for addr, creating and caching one
// if this is the first lookup, so repeated lookups for the same address
// yield the identical *Proxy.
func (d *Directory) ProxyFor(addr Address) (*Proxy, bool) {
	key := addr.String()
	shard := d.shardFor(key)

	shard.mu.RLock()
	if p, ok := shard.proxies[key]; ok {
		shard.mu.RUnlock()
		return p, true
	}
	shard.mu.RUnlock()

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if p, ok := shard.proxies[key]; ok {
		return p, true
	}
	cell, ok := shard.cells[key]
	if !ok {
		return nil, false
	}
	p := cell.selfProxy
	shard.proxies[key] = p
	return p, true
}

// Size returns the total number of live cells across every shard.
func (d *Directory) Size() int {
	total := 0
	for _, s := range d.shards {
		s.mu.RLock()
		total += len(s.cells)
		s.mu.RUnlock()
	}
	return total
}

// Stats returns the live-cell count per shard, for diagnostics.
func (d *Directory) Stats() []int {
	stats := make([]int, len(d.shards))
	for i, s := range d.shards {
		s.mu.RLock()
		stats[i] = len(s.cells)
		s.mu.RUnlock()
	}
	return stats
}
