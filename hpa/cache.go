package hpa

import (
	"fmt"

	"github.com/katalvlaran/hpastar/astar"
	"github.com/katalvlaran/hpastar/grid"
)

// pairKey keys one intra-cluster path: the cluster plus the unordered
// point pair, canonicalized so (a,b) and (b,a) share an entry.
type pairKey struct {
	cluster int
	a, b    grid.Cell
}

// newPairKey canonicalizes the pair order (row-major: Y first, then X)
// so lookups are direction-independent.
func newPairKey(cluster int, a, b grid.Cell) (pairKey, bool) {
	if a.Y > b.Y || (a.Y == b.Y && a.X > b.X) {
		return pairKey{cluster: cluster, a: b, b: a}, true
	}

	return pairKey{cluster: cluster, a: a, b: b}, false
}

// cacheEntry is one cached intra-cluster result. Unreachable pairs are
// cached too (Reachable=false): a cluster interior split by obstacles
// makes some entrance pairs mutually unreachable, which is a valid
// outcome that must not be recomputed on every query.
type cacheEntry struct {
	// Cells is the concrete path oriented from the canonical key's a to
	// b, inclusive. Nil when unreachable.
	Cells []grid.Cell
	// Cost is the summed movement cost of Cells.
	Cost float64
	// Reachable distinguishes a cached path from a cached failure.
	Reachable bool
}

// pathCache stores intra-cluster paths keyed by (cluster, unordered
// pair). Entries are never evicted automatically; ClearCache discards
// everything wholesale (no fine-grained dirty tracking).
type pathCache struct {
	entries map[pairKey]cacheEntry
}

func newPathCache() *pathCache {
	return &pathCache{entries: make(map[pairKey]cacheEntry)}
}

// clear discards all entries; subsequent lookups recompute.
func (pc *pathCache) clear() {
	pc.entries = make(map[pairKey]cacheEntry)
}

// clusterPath returns the shortest path between a and b confined to the
// cluster's rectangle, serving cache hits in O(1) and delegating misses
// to the local grid search. The returned cells are oriented a→b.
//
// A negative local-search cost is an unsound result from the cache or
// search layer and panics with ErrNegativeEdgeCost (invariant
// violation; never silently tolerated).
func (e *Engine) clusterPath(p *Partition, clusterID int, a, b grid.Cell, g *grid.Grid) cacheEntry {
	key, swapped := newPairKey(clusterID, a, b)
	if ent, ok := e.cache.entries[key]; ok {
		e.stats.CacheHits++

		return orient(ent, swapped)
	}
	e.stats.CacheMisses++

	res := astar.Search(g, p.Clusters[clusterID].Bounds, key.a, key.b,
		astar.WithHeuristic(e.cfg.Heuristic))
	if res.Found && res.Cost < 0 {
		panic(fmt.Errorf("%w: cluster %d %v→%v cost=%v",
			ErrNegativeEdgeCost, clusterID, key.a, key.b, res.Cost))
	}

	ent := cacheEntry{Cells: res.Cells, Cost: res.Cost, Reachable: res.Found}
	e.cache.entries[key] = ent

	return orient(ent, swapped)
}

// orient returns the entry with its cells reversed when the caller
// asked for the pair in the opposite order to the canonical key. The
// cached slice is never mutated; reversal copies.
func orient(ent cacheEntry, swapped bool) cacheEntry {
	if !swapped || !ent.Reachable {
		return ent
	}
	rev := make([]grid.Cell, len(ent.Cells))
	for i, c := range ent.Cells {
		rev[len(ent.Cells)-1-i] = c
	}
	ent.Cells = rev

	return ent
}
