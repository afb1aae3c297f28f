package costmap

import (
	"fmt"
	"math"

	"github.com/mosswood-robotics/gridnav/internal/geom"
)

// CostUnknown marks a cell whose traversal cost has never been observed.
// It is distinct from both free (0) and obstacle (>= ObstacleThreshold).
const CostUnknown = -1.0

// ObstacleThreshold is the cost at or above which a cell is treated as an
// obstacle by the search. Smudge seeds inflation from cells strictly above
// the threshold and raises their neighbourhood to exactly the threshold,
// which is what makes repeated inflation with the same radius idempotent.
const ObstacleThreshold = 0.9

// Cell is a grid index. X is the column, Y the row.
type Cell struct {
	X, Y int
}

// Grid is a rectangular costmap: Width*Height cells, each holding a cost in
// [0, 1], CostUnknown, or a value > 1 (impassable). Resolution is meters per
// cell and Origin is the world position of cell (0, 0). Resolution and
// Origin are fixed after construction.
type Grid struct {
	Width      int
	Height     int
	Resolution float64
	Origin     geom.Vector

	cells []float64 // len = Width*Height, idx = y*Width + x
}

// New creates an all-free grid.
func New(width, height int, resolution float64, origin geom.Vector) *Grid {
	return &Grid{
		Width:      width,
		Height:     height,
		Resolution: resolution,
		Origin:     origin.To2D(),
		cells:      make([]float64, width*height),
	}
}

// NewEmpty creates an all-free grid with origin (0, 0).
func NewEmpty(width, height int, resolution float64) *Grid {
	return New(width, height, resolution, geom.V2(0, 0))
}

// FromCells creates a grid backed by a copy of the given row-major cell
// slice. len(cells) must equal width*height.
func FromCells(width, height int, resolution float64, origin geom.Vector, cells []float64) (*Grid, error) {
	if len(cells) != width*height {
		return nil, fmt.Errorf("costmap: cell count %d does not match %dx%d grid", len(cells), width, height)
	}
	g := New(width, height, resolution, origin)
	copy(g.cells, cells)
	return g, nil
}

// Idx returns the flat index for a cell. Callers must bounds-check first.
func (g *Grid) Idx(cx, cy int) int { return cy*g.Width + cx }

// InBounds reports whether the cell lies inside the grid.
func (g *Grid) InBounds(cx, cy int) bool {
	return cx >= 0 && cx < g.Width && cy >= 0 && cy < g.Height
}

// At returns the cost of a cell. ok is false for out-of-bounds lookups;
// indices are never clamped.
func (g *Grid) At(cx, cy int) (cost float64, ok bool) {
	if !g.InBounds(cx, cy) {
		return 0, false
	}
	return g.cells[g.Idx(cx, cy)], true
}

// Set writes a cell cost, returning false (and writing nothing) when the
// cell is out of bounds.
func (g *Grid) Set(cx, cy int, cost float64) bool {
	if !g.InBounds(cx, cy) {
		return false
	}
	g.cells[g.Idx(cx, cy)] = cost
	return true
}

// WorldToGrid converts a world position to the containing cell index. The
// result may be out of bounds; callers check with InBounds.
func (g *Grid) WorldToGrid(p geom.Vector) Cell {
	d := p.To2D().Sub(g.Origin)
	return Cell{
		X: int(math.Floor(d.X / g.Resolution)),
		Y: int(math.Floor(d.Y / g.Resolution)),
	}
}

// GridToWorld converts a cell index to the world position of its corner,
// the inverse of WorldToGrid up to cell quantisation.
func (g *Grid) GridToWorld(c Cell) geom.Vector {
	return geom.V2(float64(c.X), float64(c.Y)).Scale(g.Resolution).Add(g.Origin)
}

// IsObstacle reports whether the given cost value marks an impassable cell.
// Costs outside [0, 1] other than CostUnknown are impassable.
func IsObstacle(cost float64) bool {
	if cost == CostUnknown {
		return false
	}
	return cost >= ObstacleThreshold || cost < 0 || cost > 1
}

// IsOccupied reports whether a world position falls in an obstacle cell.
// Out-of-bounds positions count as occupied.
func (g *Grid) IsOccupied(p geom.Vector) bool {
	c := g.WorldToGrid(p)
	cost, ok := g.At(c.X, c.Y)
	if !ok {
		return true
	}
	return IsObstacle(cost)
}

// Clone returns a deep copy sharing no cell storage with the receiver.
func (g *Grid) Clone() *Grid {
	out := New(g.Width, g.Height, g.Resolution, g.Origin)
	copy(out.cells, g.cells)
	return out
}

// Stats summarises grid occupancy.
type Stats struct {
	TotalCells    int
	FreeCells     int
	ObstacleCells int
	UnknownCells  int
}

// Stats counts free, obstacle and unknown cells.
func (g *Grid) Stats() Stats {
	s := Stats{TotalCells: len(g.cells)}
	for _, c := range g.cells {
		switch {
		case c == CostUnknown:
			s.UnknownCells++
		case IsObstacle(c):
			s.ObstacleCells++
		default:
			s.FreeCells++
		}
	}
	return s
}

func (g *Grid) String() string {
	s := g.Stats()
	pct := func(n int) float64 {
		if s.TotalCells == 0 {
			return 0
		}
		return 100 * float64(n) / float64(s.TotalCells)
	}
	return fmt.Sprintf("Costmap %dx%d (%.1fx%.1fm @ %.0fcm) origin=%s occupied=%.1f%% free=%.1f%% unknown=%.1f%%",
		g.Width, g.Height,
		float64(g.Width)*g.Resolution, float64(g.Height)*g.Resolution,
		g.Resolution*100, g.Origin,
		pct(s.ObstacleCells), pct(s.FreeCells), pct(s.UnknownCells))
}
