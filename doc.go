// Package hpastar is hierarchical pathfinding for large 2D occupancy
// grids — near-optimal routes at a fraction of flat-search cost.
//
// 🚀 What is hpastar?
//
//	A pure-Go implementation of Hierarchical Pathfinding A* (HPA*):
//		• grid/  — the occupancy-grid model: movement rules, rectangle
//		  restriction, line-of-sight geometry
//		• astar/ — plain grid A* confined to a sub-rectangle, the local
//		  search the hierarchy is built on
//		• hpa/   — the engine: cluster partitioning, entrance detection,
//		  abstract graph construction, multi-goal abstract search, path
//		  refinement and smoothing, all behind one FindPath call
//
// ✨ Why choose hpastar?
//
//   - Scales – abstraction cost is paid once per grid and amortized
//     over every query; repeated queries on a stable grid are cheap
//   - Deterministic – stable tie-breaking end to end; a fixed grid and
//     query always produce the same path
//   - Honest failures – unreachable goals, iteration caps, and length
//     budgets come back as typed results, never panics
//   - Pure Go – no cgo, no hidden deps
//
// Quick ASCII example — the wall with a gap:
//
//	S . . . . # . . . .
//	. . . . . # . . . .
//	. . . . . # . . . .
//	. . . . . # . . . .
//	. . . . . # . . . .
//	. . . . . . . . . .   ← the gap
//	. . . . . # . . . .
//	. . . . . # . . . .
//	. . . . . # . . . .
//	. . . . . # . . . G
//
// FindPath(S, G) clusters the map, lifts the border gaps into an
// abstract graph, routes over it, and expands the answer back into a
// concrete cell path through the gap.
//
// See hpa/doc.go for the engine's full contract.
package hpastar
