package hpa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hpastar/grid"
	"github.com/katalvlaran/hpastar/hpa"
)

func TestRefinePath_ReproducesFindPathResult(t *testing.T) {
	// Driving the stages manually (abstract path → RefinePath) must
	// reproduce the engine's own refined result: same endpoints, same
	// cost, all cells sound.
	e := newEngine(t, 5)
	g := wallGrid(t, e)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g,
		hpa.WithAbstractPath())
	require.True(t, res.Success)
	require.NotEmpty(t, res.AbstractPath)

	p := e.GenerateClusters(g)
	refined := e.RefinePath(res.AbstractPath, p, g)
	require.NotEmpty(t, refined)
	assert.Equal(t, res.Path[0], refined[0])
	assert.Equal(t, res.Path[len(res.Path)-1], refined[len(refined)-1])
	assert.Equal(t, res.Path, refined)
	assertSoundPath(t, g, refined)
}

func TestRefinePath_NoRepeatedConsecutiveCells(t *testing.T) {
	e := newEngine(t, 4)
	cells := openCells(16, 16)
	for y := 0; y < 16; y++ {
		if y != 2 && y != 13 {
			cells[y][8] = false
		}
	}
	g, err := e.NewGrid(cells)
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 0, Y: 15}, []grid.Cell{{X: 15, Y: 0}}, g)
	require.True(t, res.Success, "reason: %v", res.Reason)
	for i := 1; i < len(res.Path); i++ {
		assert.NotEqual(t, res.Path[i-1], res.Path[i],
			"duplicated junction cell at %d", i)
	}
}

func TestRefinePath_EmptyInput(t *testing.T) {
	e := newEngine(t, 5)
	g, err := e.NewGrid(openCells(10, 10))
	require.NoError(t, err)
	p := e.GenerateClusters(g)

	assert.Nil(t, e.RefinePath(nil, p, g))
}

func TestSmoothing_StraightensDetour(t *testing.T) {
	// An open corridor: the hierarchical route detours through entrance
	// midpoints, smoothing must pull it back toward the straight line.
	rough := newEngine(t, 5)
	smooth := newEngine(t, 5, func(c *hpa.Config) { c.UsePathSmoothing = true })

	gr, err := rough.NewGrid(openCells(20, 5))
	require.NoError(t, err)
	gs, err := smooth.NewGrid(openCells(20, 5))
	require.NoError(t, err)

	start, goal := grid.Cell{X: 0, Y: 2}, grid.Cell{X: 19, Y: 2}
	a := rough.FindPath(start, []grid.Cell{goal}, gr)
	b := smooth.FindPath(start, []grid.Cell{goal}, gs)
	require.True(t, a.Success)
	require.True(t, b.Success)

	// The straight corridor line costs exactly 19 cardinal steps.
	assert.InDelta(t, 19, b.Cost, 1e-9)
	assert.LessOrEqual(t, b.Cost, a.Cost+1e-9)
	assertSoundPath(t, gs, b.Path)
}

func TestSmoothing_RespectsObstacles(t *testing.T) {
	// A pocket wall between start and goal: smoothing must keep the
	// route around it, never cutting through blocked cells.
	e := newEngine(t, 6, func(c *hpa.Config) { c.UsePathSmoothing = true })
	cells := openCells(12, 12)
	for y := 3; y <= 8; y++ {
		cells[y][6] = false
	}
	g, err := e.NewGrid(cells)
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 2, Y: 6}, []grid.Cell{{X: 10, Y: 6}}, g)
	require.True(t, res.Success, "reason: %v", res.Reason)
	assertSoundPath(t, g, res.Path)
}
