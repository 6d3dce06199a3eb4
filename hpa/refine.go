package hpa

import "github.com/katalvlaran/hpastar/grid"

// refineNodes expands an abstract node sequence into a concrete grid
// path. For each consecutive node pair: an intra-cluster edge splices
// in the cached concrete cell sequence oriented to the traversal
// direction; an inter-cluster edge appends the direct crossing hop.
// The duplicated junction cell between segments is dropped so the
// final sequence has no repeated consecutive points.
//
// Returns ok=false only if the graph and cache disagree (an edge whose
// cached path vanished mid-query), which callers surface as an
// internal failure rather than a partial path.
//
// Complexity: O(total refined path length).
func (e *Engine) refineNodes(ag *AbstractGraph, p *Partition, g *grid.Grid, nodes []int) ([]grid.Cell, bool) {
	if len(nodes) == 0 {
		return nil, false
	}
	out := []grid.Cell{ag.nodes[nodes[0]].cell}

	for i := 1; i < len(nodes); i++ {
		u, v := nodes[i-1], nodes[i]
		ed, ok := ag.edgeBetween(u, v)
		if !ok {
			return nil, false
		}

		var segment []grid.Cell
		switch ed.kind {
		case EdgeInter:
			// Adjacent cells across the border: the hop is just the far cell.
			segment = []grid.Cell{ag.nodes[u].cell, ag.nodes[v].cell}
		default:
			ent := e.clusterPath(p, ag.nodes[u].cluster, ag.nodes[u].cell, ag.nodes[v].cell, g)
			if !ent.Reachable {
				return nil, false
			}
			segment = ent.Cells
		}

		// Drop the junction cell shared with the previous segment.
		out = append(out, segment[1:]...)
	}

	return out, true
}

// RefinePath expands an abstract cell sequence (as returned in
// Result.AbstractPath) back into a concrete grid path using the
// intra-cluster path cache. Consecutive cells in the same cluster are
// bridged by the cached local path; cells in adjacent clusters by the
// direct crossing hop. Exposed so callers driving the stages manually
// (GenerateClusters → BuildAbstractGraph → RefinePath) can reuse the
// engine's cache.
func (e *Engine) RefinePath(abstract []grid.Cell, p *Partition, g *grid.Grid) []grid.Cell {
	if len(abstract) == 0 {
		return nil
	}
	out := []grid.Cell{abstract[0]}
	for i := 1; i < len(abstract); i++ {
		a, b := abstract[i-1], abstract[i]
		ca, cb := p.ClusterAt(a), p.ClusterAt(b)

		var segment []grid.Cell
		if ca == cb {
			ent := e.clusterPath(p, ca, a, b, g)
			if !ent.Reachable {
				return nil
			}
			segment = ent.Cells
		} else {
			segment = []grid.Cell{a, b}
		}
		out = append(out, segment[1:]...)
	}

	return out
}

// pathCost sums the per-step movement cost of a refined path.
func pathCost(g *grid.Grid, cells []grid.Cell) float64 {
	var total float64
	for i := 1; i < len(cells); i++ {
		total += g.StepCost(cells[i-1], cells[i])
	}

	return total
}

// smooth performs string-pulling over a refined path: runs of cells
// that a straight traversable segment can replace are collapsed into
// the segment's cell chain. A candidate shortcut is applied only when
//
//  1. the straight segment is fully traversable (grid.LineOfSight), and
//  2. its cost does not exceed the replaced subpath's cost plus the
//     configured tolerance,
//
// so smoothing never increases path cost and never routes through
// impassable cells; a failing candidate is rejected, not approximated.
//
// SmoothingFactor scales the look-ahead window: 1 considers shortcuts
// to the farthest remaining cell first, smaller values bound the
// window to a fraction of the remaining path (cheaper, less aggressive).
//
// Complexity: O(L²) worst case over path length L with factor 1.
func (e *Engine) smooth(g *grid.Grid, path []grid.Cell) []grid.Cell {
	if len(path) < 3 {
		return path
	}

	// Prefix costs let any subpath cost be read in O(1).
	prefix := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		prefix[i] = prefix[i-1] + g.StepCost(path[i-1], path[i])
	}

	out := make([]grid.Cell, 0, len(path))
	out = append(out, path[0])
	i := 0
	for i < len(path)-1 {
		// Farthest candidate within the smoothing window.
		limit := len(path) - 1
		if e.cfg.SmoothingFactor < 1 {
			window := int(e.cfg.SmoothingFactor * float64(len(path)-1-i))
			if window < 2 {
				window = 2
			}
			if i+window < limit {
				limit = i + window
			}
		}

		advanced := false
		for j := limit; j >= i+2; j-- {
			if !g.LineOfSight(path[i], path[j]) {
				continue
			}
			direct := g.LineCost(path[i], path[j])
			if direct > prefix[j]-prefix[i]+e.cfg.Tolerance {
				continue // shortcut would cost more; reject
			}
			chain := g.LinePath(path[i], path[j])
			out = append(out, chain[1:]...)
			i = j
			advanced = true

			break
		}
		if !advanced {
			out = append(out, path[i+1])
			i++
		}
	}

	return out
}
