package grid

// LinePath returns the chain of adjacent cells tracing the straight
// segment a→b, including both endpoints. With Conn8 the chain is the
// 8-connected Bresenham line; with Conn4 the diagonal error steps are
// split into two cardinal moves so every consecutive pair stays
// 4-adjacent. The chain is purely geometric: passability is not
// consulted here (see LineOfSight).
// Complexity: O(max(|dx|,|dy|)).
func (g *Grid) LinePath(a, b Cell) []Cell {
	dx, dy := abs(b.X-a.X), abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	out := make([]Cell, 0, dx+dy+1)
	out = append(out, a)

	cur := a
	err := dx - dy
	for cur != b {
		e2 := 2 * err
		stepX := e2 > -dy
		stepY := e2 < dx
		switch {
		case stepX && stepY && g.opts.Conn == Conn8:
			err += dx - dy
			cur = Cell{X: cur.X + sx, Y: cur.Y + sy}
		case stepX && stepY:
			// Conn4: split the diagonal into x-then-y cardinal moves.
			err += dx - dy
			cur = Cell{X: cur.X + sx, Y: cur.Y}
			out = append(out, cur)
			cur = Cell{X: cur.X, Y: cur.Y + sy}
		case stepX:
			err -= dy
			cur = Cell{X: cur.X + sx, Y: cur.Y}
		default:
			err += dx
			cur = Cell{X: cur.X, Y: cur.Y + sy}
		}
		out = append(out, cur)
	}

	return out
}

// LineOfSight reports whether the straight segment a→b is fully
// traversable: every cell of LinePath(a, b) is passable, and every
// diagonal step in the chain respects DiagonalOnlyWhenClear. Used by
// path smoothing to validate candidate shortcuts; a failing segment
// must be rejected, never approximated.
// Complexity: O(max(|dx|,|dy|)).
func (g *Grid) LineOfSight(a, b Cell) bool {
	if !g.Passable(a) || !g.Passable(b) {
		return false
	}
	chain := g.LinePath(a, b)
	for i, c := range chain {
		if !g.Passable(c) {
			return false
		}
		if i == 0 {
			continue
		}
		prev := chain[i-1]
		if abs(c.X-prev.X) == 1 && abs(c.Y-prev.Y) == 1 && g.opts.DiagonalOnlyWhenClear {
			if !g.Passable(Cell{X: c.X, Y: prev.Y}) || !g.Passable(Cell{X: prev.X, Y: c.Y}) {
				return false
			}
		}
	}

	return true
}

// LineCost returns the movement cost of walking LinePath(a, b):
// the sum of per-step costs along the chain. Callers comparing a
// candidate shortcut against an existing subpath use this to enforce
// cost monotonicity.
func (g *Grid) LineCost(a, b Cell) float64 {
	chain := g.LinePath(a, b)
	var total float64
	for i := 1; i < len(chain); i++ {
		total += g.StepCost(chain[i-1], chain[i])
	}

	return total
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
