package hpa

import "github.com/katalvlaran/hpastar/grid"

// Side identifies which border of the owning cluster an entrance sits on.
type Side int

const (
	// SideEast is the border shared with the cluster one column right.
	SideEast Side = iota
	// SideSouth is the border shared with the cluster one row down.
	SideSouth
)

// String returns a short stable label for the side.
func (s Side) String() string {
	if s == SideEast {
		return "east"
	}

	return "south"
}

// Entrance is a maximal run of mutually passable border cell pairs
// shared by two adjacent clusters. Start..End are the run's endpoint
// cells inclusive, all inside cluster A; the paired cells inside
// cluster B sit one step across the border on Side. An entrance always
// references exactly two clusters and has at least one passable pair.
type Entrance struct {
	// A owns the run cells; B is the cluster across the border.
	A, B int
	// Side is the border of A the run lies on (east or south).
	Side Side
	// Start and End are the inclusive run endpoints inside A. For east
	// borders they share X and span Y; for south borders vice versa.
	Start, End grid.Cell
	// Length is the run length in cells (≥ 1).
	Length int
	// Reps are the representative points inside A that become abstract
	// graph node candidates: the midpoint for short runs, both
	// endpoints for runs of length ≥ longEntranceLen.
	Reps []grid.Cell
}

// longEntranceLen is the run length at which an entrance gets two
// representative points (one per endpoint) instead of the midpoint, so
// long open borders do not force every path through a single non-optimal
// crossing.
const longEntranceLen = 6

// Across returns the cell inside cluster B paired with the given run
// cell inside A.
func (e Entrance) Across(c grid.Cell) grid.Cell {
	return across(e.Side, c)
}

// across maps a run cell inside the owning cluster to its counterpart
// one step over the border.
func across(side Side, c grid.Cell) grid.Cell {
	if side == SideEast {
		return grid.Cell{X: c.X + 1, Y: c.Y}
	}

	return grid.Cell{X: c.X, Y: c.Y + 1}
}

// Cluster is one axis-aligned partition rectangle of the grid.
// Entrances holds indices into Partition.Entrances for every entrance
// touching this cluster, on either side of the border.
type Cluster struct {
	ID        int
	Col, Row  int
	Bounds    grid.Rect
	Entrances []int
}

// Partition is the cluster decomposition of one grid: the clusters in
// row-major order plus the shared entrance table. It is immutable once
// built and valid for exactly one grid version.
type Partition struct {
	ClusterSize int
	Cols, Rows  int
	Clusters    []Cluster
	Entrances   []Entrance
	GridVersion uint64
}

// ClusterAt returns the index of the cluster containing c, or -1 if c
// is outside the grid the partition was built for.
// Complexity: O(1) (pure index arithmetic, row-major layout).
func (p *Partition) ClusterAt(c grid.Cell) int {
	col, row := c.X/p.ClusterSize, c.Y/p.ClusterSize
	if col < 0 || col >= p.Cols || row < 0 || row >= p.Rows {
		return -1
	}

	return row*p.Cols + col
}

// GenerateClusters divides g into ClusterSize×ClusterSize clusters laid
// out row-major from the grid origin (boundary clusters truncated,
// never padded) and detects every entrance on shared borders. A
// cluster size exceeding the grid dimensions yields a single
// border-less cluster, which is valid, not an error.
//
// Entrance detection scans each inter-cluster border line once,
// grouping consecutive passable cell pairs into maximal runs; a lone
// passable pair flanked by blocked neighbors is still a valid
// single-cell entrance.
//
// Deterministic and pure: same grid and config produce the same
// partition. Callers cache the result for the grid's lifetime (the
// Engine does this when EnableCaching is set).
//
// Complexity: O(W×H) time, O(clusters + entrances) memory.
func (e *Engine) GenerateClusters(g *grid.Grid) *Partition {
	cs := e.cfg.ClusterSize
	cols := (g.Width + cs - 1) / cs
	rows := (g.Height + cs - 1) / cs

	p := &Partition{
		ClusterSize: cs,
		Cols:        cols,
		Rows:        rows,
		Clusters:    make([]Cluster, 0, cols*rows),
		GridVersion: g.Version(),
	}

	// 1) Lay out the clusters row-major, truncating at grid edges.
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			b := grid.Rect{
				MinX: col * cs,
				MinY: row * cs,
				MaxX: min((col+1)*cs-1, g.Width-1),
				MaxY: min((row+1)*cs-1, g.Height-1),
			}
			p.Clusters = append(p.Clusters, Cluster{
				ID:     row*cols + col,
				Col:    col,
				Row:    row,
				Bounds: b,
			})
		}
	}

	// 2) Scan east and south borders of every cluster exactly once;
	//    each shared border is visited from its west/north owner.
	for i := range p.Clusters {
		c := &p.Clusters[i]
		if c.Col+1 < cols {
			p.scanBorder(g, c.ID, c.ID+1, SideEast)
		}
		if c.Row+1 < rows {
			p.scanBorder(g, c.ID, c.ID+cols, SideSouth)
		}
	}

	e.stats.ClusterBuilds++

	return p
}

// scanBorder walks the border line between clusters a and b, groups
// consecutive mutually passable cell pairs into maximal runs, and
// records each run as an Entrance indexed from both clusters.
func (p *Partition) scanBorder(g *grid.Grid, a, b int, side Side) {
	ca := &p.Clusters[a]

	// The run walks along the border line inside cluster a. For an east
	// border the line is the column x=MaxX spanning MinY..MaxY; for a
	// south border the row y=MaxY spanning MinX..MaxX.
	var lo, hi int
	cellAt := func(i int) grid.Cell { return grid.Cell{X: ca.Bounds.MaxX, Y: i} }
	if side == SideEast {
		lo, hi = ca.Bounds.MinY, ca.Bounds.MaxY
	} else {
		lo, hi = ca.Bounds.MinX, ca.Bounds.MaxX
		cellAt = func(i int) grid.Cell { return grid.Cell{X: i, Y: ca.Bounds.MaxY} }
	}

	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		p.addEntrance(a, b, side, cellAt(runStart), cellAt(end), end-runStart+1)
		runStart = -1
	}

	for i := lo; i <= hi; i++ {
		c := cellAt(i)
		// The pair is passable only if both sides of the border are.
		open := g.Passable(c) && g.Passable(across(side, c))
		if open && runStart < 0 {
			runStart = i
		}
		if !open {
			flush(i - 1)
		}
	}
	flush(hi)
}

// addEntrance appends one entrance with its representative points and
// indexes it from both clusters.
func (p *Partition) addEntrance(a, b int, side Side, start, end grid.Cell, length int) {
	ent := Entrance{
		A:      a,
		B:      b,
		Side:   side,
		Start:  start,
		End:    end,
		Length: length,
	}
	if length >= longEntranceLen {
		ent.Reps = []grid.Cell{start, end}
	} else {
		// Midpoint of the run; for even lengths the lower-index cell.
		mid := start
		if side == SideEast {
			mid.Y += (length - 1) / 2
		} else {
			mid.X += (length - 1) / 2
		}
		ent.Reps = []grid.Cell{mid}
	}

	idx := len(p.Entrances)
	p.Entrances = append(p.Entrances, ent)
	p.Clusters[a].Entrances = append(p.Clusters[a].Entrances, idx)
	p.Clusters[b].Entrances = append(p.Clusters[b].Entrances, idx)
}
