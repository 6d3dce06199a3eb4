// Package hpa implements Hierarchical Pathfinding A* (HPA*) over 2D
// occupancy grids: near-optimal long-range routes that scale far
// better than flat grid search on large maps.
//
// What:
//
//   - GenerateClusters partitions the grid into fixed-size rectangular
//     clusters and detects entrances — maximal passable runs on shared
//     borders between adjacent clusters.
//   - BuildAbstractGraph lifts entrance representative points into a
//     coarse graph: intra-cluster edges weighted by cached local paths,
//     inter-cluster edges for the border crossings.
//   - FindPath splices temporary start/goal nodes into the abstract
//     graph, runs multi-goal A* over it, and refines the abstract route
//     back into a concrete cell path, optionally smoothed by
//     line-of-sight string pulling.
//   - The intra-cluster path cache makes repeated queries on a stable
//     grid cheap; ClearCache resets everything when the world changes.
//
// Why:
//
//   - Game maps and simulations: thousands of route queries per tick on
//     grids where flat A* is too slow.
//   - The abstraction cost is paid once per grid version and amortized
//     across every query; the price is near-optimality instead of
//     guaranteed shortest paths.
//
// Complexity:
//
//   - GenerateClusters:    O(W×H).
//   - BuildAbstractGraph:  O(Σ k² · localSearch) over clusters with k
//     representative points each — the documented trade-off of the
//     hierarchical approach.
//   - FindPath (warm):     O((V + E) log V) on the abstract graph plus
//     O(path length) refinement.
//
// Concurrency:
//
//	An Engine owns its caches exclusively and performs no internal
//	locking. Concurrent use of one instance requires external
//	synchronization; independent engines are fully isolated (no
//	process-wide state). All work is pure CPU: no I/O, no blocking,
//	cancellation is cooperative via WithMaxIterations.
//
// Errors:
//
//	Constructor errors (ErrBadClusterSize, ErrBadCost, …) reject
//	malformed configuration. Query failures — out-of-bounds or
//	impassable endpoints, no path, iteration cap, MaxPathLength
//	exceeded — are Result values with Success=false and a FailReason,
//	never errors or panics. Internal invariant violations (negative
//	edge cost) panic at graph-build time: they mean the cache or the
//	local search produced an unsound structure.
package hpa
