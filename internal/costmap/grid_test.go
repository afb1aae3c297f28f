package costmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosswood-robotics/gridnav/internal/geom"
)

func TestGridBounds(t *testing.T) {
	g := NewEmpty(4, 3, 0.5)

	_, ok := g.At(0, 0)
	assert.True(t, ok)
	_, ok = g.At(3, 2)
	assert.True(t, ok)

	// Out-of-bounds lookups must report failure, never clamp.
	for _, c := range []Cell{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}} {
		_, ok := g.At(c.X, c.Y)
		assert.False(t, ok, "cell %v should be out of bounds", c)
	}

	assert.False(t, g.Set(4, 0, 0.5))
	assert.True(t, g.Set(3, 2, 0.5))
	cost, ok := g.At(3, 2)
	require.True(t, ok)
	assert.Equal(t, 0.5, cost)
}

func TestGridCoordinateConversion(t *testing.T) {
	g := New(10, 10, 0.5, geom.V2(-2, 1))

	c := g.WorldToGrid(geom.V2(-2, 1))
	assert.Equal(t, Cell{0, 0}, c)

	c = g.WorldToGrid(geom.V2(0.3, 2.7))
	assert.Equal(t, Cell{4, 3}, c)

	w := g.GridToWorld(Cell{4, 3})
	assert.InDelta(t, 0.0, w.X, 1e-12)
	assert.InDelta(t, 2.5, w.Y, 1e-12)

	// GridToWorld then WorldToGrid round-trips to the same cell.
	for _, c := range []Cell{{0, 0}, {9, 9}, {3, 7}} {
		assert.Equal(t, c, g.WorldToGrid(g.GridToWorld(c)))
	}

	// A 3D pose is projected before conversion.
	assert.Equal(t, Cell{0, 0}, g.WorldToGrid(geom.V3(-2, 1, 0.35)))
}

func TestGridFromCells(t *testing.T) {
	_, err := FromCells(2, 2, 1.0, geom.V2(0, 0), []float64{0, 0, 0})
	assert.Error(t, err)

	cells := []float64{0, 1, CostUnknown, 0.5}
	g, err := FromCells(2, 2, 1.0, geom.V2(0, 0), cells)
	require.NoError(t, err)

	// Backing storage is copied, not aliased.
	cells[0] = 1
	cost, _ := g.At(0, 0)
	assert.Equal(t, 0.0, cost)

	s := g.Stats()
	assert.Equal(t, Stats{TotalCells: 4, FreeCells: 2, ObstacleCells: 1, UnknownCells: 1}, s)
}

func TestIsObstacle(t *testing.T) {
	assert.False(t, IsObstacle(0))
	assert.False(t, IsObstacle(0.89))
	assert.False(t, IsObstacle(CostUnknown))
	assert.True(t, IsObstacle(ObstacleThreshold))
	assert.True(t, IsObstacle(1.0))
	// Values outside [0,1] are impassable.
	assert.True(t, IsObstacle(1.5))
	assert.True(t, IsObstacle(-0.5))
}

func TestIsOccupied(t *testing.T) {
	g := NewEmpty(5, 5, 1.0)
	g.Set(2, 2, 1.0)

	assert.True(t, g.IsOccupied(geom.V2(2.5, 2.5)))
	assert.False(t, g.IsOccupied(geom.V2(0.5, 0.5)))
	// Out of bounds counts as occupied.
	assert.True(t, g.IsOccupied(geom.V2(-10, -10)))
}

func TestSmudgeInflatesWithinRadius(t *testing.T) {
	g := NewEmpty(11, 11, 1.0)
	g.Set(5, 5, 1.0)

	s := g.Smudge(2, false)

	// Receiver untouched.
	cost, _ := g.At(5, 6)
	assert.Equal(t, 0.0, cost)

	// Seed keeps its original cost.
	cost, _ = s.At(5, 5)
	assert.Equal(t, 1.0, cost)

	// Cells within the Euclidean disc are raised to the threshold.
	for _, c := range []Cell{{5, 7}, {3, 5}, {6, 6}, {4, 4}} {
		cost, _ := s.At(c.X, c.Y)
		assert.Equal(t, ObstacleThreshold, cost, "cell %v", c)
	}

	// (7,7) is at distance 2*sqrt(2) > 2: outside the disc.
	cost, _ = s.At(7, 7)
	assert.Equal(t, 0.0, cost)
	cost, _ = s.At(5, 8)
	assert.Equal(t, 0.0, cost)
}

func TestSmudgeIdempotent(t *testing.T) {
	g := NewEmpty(20, 20, 0.1)
	g.Set(4, 4, 1.0)
	g.Set(12, 15, 0.95)
	g.Set(0, 19, 1.0)
	g.Set(7, 7, CostUnknown)

	for _, preserve := range []bool{true, false} {
		once := g.Smudge(3, preserve)
		twice := once.Smudge(3, preserve)
		if diff := cmp.Diff(once.cells, twice.cells); diff != "" {
			t.Errorf("smudge not idempotent (preserveUnknown=%v):\n%s", preserve, diff)
		}
	}
}

func TestSmudgeUnknownHandling(t *testing.T) {
	g := NewEmpty(9, 9, 1.0)
	g.Set(4, 4, 1.0)
	g.Set(4, 5, CostUnknown) // adjacent to obstacle
	g.Set(0, 0, CostUnknown) // far from obstacle

	preserved := g.Smudge(1, true)
	cost, _ := preserved.At(4, 5)
	assert.Equal(t, CostUnknown, cost, "preserved unknown must stay unknown")
	cost, _ = preserved.At(0, 0)
	assert.Equal(t, CostUnknown, cost)

	cleared := g.Smudge(1, false)
	cost, _ = cleared.At(4, 5)
	assert.Equal(t, ObstacleThreshold, cost, "unknown next to obstacle inflates")
	cost, _ = cleared.At(0, 0)
	assert.Equal(t, 0.0, cost, "unknown far from obstacles becomes free")
}

func TestSmudgeZeroRadius(t *testing.T) {
	g := NewEmpty(5, 5, 1.0)
	g.Set(2, 2, 1.0)
	s := g.Smudge(0, true)
	cost, _ := s.At(2, 3)
	assert.Equal(t, 0.0, cost)
	cost, _ = s.At(2, 2)
	assert.Equal(t, 1.0, cost)
}
