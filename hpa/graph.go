package hpa

import (
	"fmt"

	"github.com/katalvlaran/hpastar/grid"
)

// EdgeKind classifies an abstract edge.
type EdgeKind uint8

const (
	// EdgeIntra connects two representative points of the same cluster;
	// its cost summarizes a cached concrete path inside that cluster.
	EdgeIntra EdgeKind = iota
	// EdgeInter connects paired representative points across a cluster
	// border; its cost is the single crossing step.
	EdgeInter
)

// node is one abstract graph node: an entrance representative point or
// a temporarily injected query point, pinned to the cluster containing
// its cell.
type node struct {
	cell    grid.Cell
	cluster int
	temp    bool
}

// edge is one directed half of an abstract connection, stored in the
// adjacency list of its source node.
type edge struct {
	to   int
	cost float64
	kind EdgeKind
}

// AbstractGraph is the coarse search graph over entrance representative
// points. Nodes live in a dense arena addressed by integer index, with
// adjacency lists as index slices; no pointer cycles between nodes,
// edges, and clusters. The region above the base watermark holds
// temporary per-query nodes and is truncated after each query, so the
// shared graph returns to its pre-query state.
type AbstractGraph struct {
	nodes  []node
	adj    [][]edge
	byCell map[grid.Cell]int // coordinate → node index

	// base is the arena watermark: nodes[0:base] are permanent entrance
	// nodes, nodes[base:] are live temporaries.
	base int
	// touched lists permanent nodes that gained edges to temporaries in
	// the current query, so release can trim exactly those lists.
	touched []int

	// GridVersion stamps the grid this graph was built for.
	GridVersion uint64
}

// NodeCount returns the number of permanent abstract nodes.
func (ag *AbstractGraph) NodeCount() int { return ag.base }

// EdgeCount returns the number of permanent undirected abstract edges.
// Complexity: O(V + E) (adjacency lists store both directions).
func (ag *AbstractGraph) EdgeCount() int {
	total := 0
	for i := 0; i < ag.base; i++ {
		for _, ed := range ag.adj[i] {
			if ed.to < ag.base {
				total++
			}
		}
	}

	return total / 2
}

// NodeCell returns the grid cell of node idx.
func (ag *AbstractGraph) NodeCell(idx int) grid.Cell { return ag.nodes[idx].cell }

// addNode interns the node for cell c in cluster, reusing an existing
// index when the coordinate is already present (entrance runs meeting
// at a cluster corner share cells).
func (ag *AbstractGraph) addNode(c grid.Cell, cluster int, temp bool) int {
	if idx, ok := ag.byCell[c]; ok {
		return idx
	}
	idx := len(ag.nodes)
	ag.nodes = append(ag.nodes, node{cell: c, cluster: cluster, temp: temp})
	ag.adj = append(ag.adj, nil)
	ag.byCell[c] = idx

	return idx
}

// addEdge inserts the undirected edge u↔v. Edge weights must be
// non-negative; a negative cost is an unsound structure and panics
// (invariant violation — fail fast rather than corrupt every query).
func (ag *AbstractGraph) addEdge(u, v int, cost float64, kind EdgeKind) {
	if cost < 0 {
		panic(fmt.Errorf("%w: %v→%v cost=%v", ErrNegativeEdgeCost,
			ag.nodes[u].cell, ag.nodes[v].cell, cost))
	}
	ag.adj[u] = append(ag.adj[u], edge{to: v, cost: cost, kind: kind})
	ag.adj[v] = append(ag.adj[v], edge{to: u, cost: cost, kind: kind})
}

// BuildAbstractGraph constructs the abstract graph for a partition:
// one node per entrance representative point on each side of its
// border, inter-cluster edges across each border, and intra-cluster
// edges between every reachable representative pair of each cluster.
// Idempotent and pure given the same partition and grid.
//
// The intra-cluster pass is the dominant cost driver: a cluster with k
// representative points computes O(k²) cached local paths. That is the
// documented trade-off of the hierarchical approach — the work happens
// once per grid version and is amortized over every subsequent query.
//
// Complexity: O(Σ k_c² · localSearch) time on first build; cached
// local paths make rebuilds after ClearCache proportionally cheaper
// only if the path cache survived (it does not — ClearCache drops both).
func (e *Engine) BuildAbstractGraph(p *Partition, g *grid.Grid) *AbstractGraph {
	ag := &AbstractGraph{
		byCell:      make(map[grid.Cell]int),
		GridVersion: p.GridVersion,
	}

	// 1) Entrance nodes and inter-cluster edges. Each representative
	//    point inside cluster A is paired with its counterpart across
	//    the border inside cluster B; crossing costs one cardinal step.
	for _, ent := range p.Entrances {
		for _, rep := range ent.Reps {
			u := ag.addNode(rep, ent.A, false)
			v := ag.addNode(ent.Across(rep), ent.B, false)
			ag.addEdge(u, v, e.cfg.CardinalCost, EdgeInter)
		}
	}
	ag.base = len(ag.nodes)

	// 2) Intra-cluster edges between every reachable representative
	//    pair, weighted by the cached local path cost. Unreachable
	//    pairs (cluster interior split by obstacles) simply get no edge.
	clusterNodes := make([][]int, len(p.Clusters))
	for idx, n := range ag.nodes {
		clusterNodes[n.cluster] = append(clusterNodes[n.cluster], idx)
	}
	for cid, nodes := range clusterNodes {
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				ent := e.clusterPath(p, cid, ag.nodes[nodes[i]].cell, ag.nodes[nodes[j]].cell, g)
				if ent.Reachable {
					ag.addEdge(nodes[i], nodes[j], ent.Cost, EdgeIntra)
				}
			}
		}
	}

	e.stats.GraphBuilds++

	return ag
}

// clusterNodeIndices returns the node indices (permanent and live
// temporary) whose cells lie in cluster cid.
func (ag *AbstractGraph) clusterNodeIndices(cid int) []int {
	var out []int
	for idx, n := range ag.nodes {
		if n.cluster == cid {
			out = append(out, idx)
		}
	}

	return out
}

// spliceTemporaryNode injects the query point c into the graph: if the
// coordinate already hosts an entrance node that node is reused,
// otherwise a temporary node is appended above the arena watermark and
// connected by on-demand intra-cluster edges (via the path cache) to
// every node of the cluster containing c — including temporaries
// spliced earlier in the same query, which is what links a start and
// goal sharing one cluster.
//
// Returns the node index. Temporaries are discarded by release.
func (e *Engine) spliceTemporaryNode(ag *AbstractGraph, p *Partition, g *grid.Grid, c grid.Cell) int {
	if idx, ok := ag.byCell[c]; ok {
		return idx
	}
	cid := p.ClusterAt(c)
	peers := ag.clusterNodeIndices(cid)
	idx := ag.addNode(c, cid, true)
	e.stats.TempNodesSpliced++

	for _, peer := range peers {
		ent := e.clusterPath(p, cid, c, ag.nodes[peer].cell, g)
		if !ent.Reachable {
			continue
		}
		ag.addEdge(idx, peer, ent.Cost, EdgeIntra)
		if peer < ag.base {
			ag.touched = append(ag.touched, peer)
		}
	}

	return idx
}

// release truncates the temporary arena region and trims the edges
// that permanent nodes gained toward temporaries, restoring the graph
// to its pre-query state.
func (ag *AbstractGraph) release() {
	for i := ag.base; i < len(ag.nodes); i++ {
		delete(ag.byCell, ag.nodes[i].cell)
	}
	ag.nodes = ag.nodes[:ag.base]
	ag.adj = ag.adj[:ag.base]

	for _, u := range ag.touched {
		kept := ag.adj[u][:0]
		for _, ed := range ag.adj[u] {
			if ed.to < ag.base {
				kept = append(kept, ed)
			}
		}
		ag.adj[u] = kept
	}
	ag.touched = ag.touched[:0]
}

// edgeBetween returns the cheapest edge u→v and whether one exists.
// Used by refinement to recover the kind and cost of each abstract hop.
func (ag *AbstractGraph) edgeBetween(u, v int) (edge, bool) {
	var best edge
	found := false
	for _, ed := range ag.adj[u] {
		if ed.to != v {
			continue
		}
		if !found || ed.cost < best.cost {
			best = ed
			found = true
		}
	}

	return best, found
}
