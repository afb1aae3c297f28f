package costmap

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/mosswood-robotics/gridnav/internal/geom"
)

// obstacleEntry wraps one obstacle cell for R-tree storage.
type obstacleEntry struct {
	center geom.Vector
	bbox   rtreego.Rect
}

func (e *obstacleEntry) Bounds() rtreego.Rect { return e.bbox }

// ClearanceIndex answers nearest-obstacle distance queries against a grid
// snapshot. It is built once per (smudged) grid and is safe for concurrent
// reads afterwards.
type ClearanceIndex struct {
	tree      *rtreego.Rtree
	obstacles int
}

// NewClearanceIndex indexes the centres of all obstacle cells of the grid.
func NewClearanceIndex(g *Grid) *ClearanceIndex {
	tree := rtreego.NewTree(2, 25, 50)
	count := 0
	half := g.Resolution / 2
	for cy := 0; cy < g.Height; cy++ {
		for cx := 0; cx < g.Width; cx++ {
			cost := g.cells[g.Idx(cx, cy)]
			if cost == CostUnknown || !IsObstacle(cost) {
				continue
			}
			center := g.GridToWorld(Cell{X: cx, Y: cy}).Add(geom.V2(half, half))
			rect, err := rtreego.NewRect(
				rtreego.Point{center.X - half, center.Y - half},
				[]float64{g.Resolution, g.Resolution},
			)
			if err != nil {
				continue
			}
			tree.Insert(&obstacleEntry{center: center, bbox: rect})
			count++
		}
	}
	return &ClearanceIndex{tree: tree, obstacles: count}
}

// ObstacleCount returns the number of indexed obstacle cells.
func (ci *ClearanceIndex) ObstacleCount() int { return ci.obstacles }

// Clearance returns the distance from a world point to the nearest obstacle
// cell centre, or +Inf when the grid holds no obstacles.
func (ci *ClearanceIndex) Clearance(p geom.Vector) float64 {
	if ci.obstacles == 0 {
		return math.Inf(1)
	}
	q := p.To2D()
	nearest := ci.tree.NearestNeighbor(rtreego.Point{q.X, q.Y})
	entry, ok := nearest.(*obstacleEntry)
	if !ok {
		return math.Inf(1)
	}
	return q.Distance(entry.center)
}

// MinClearance returns the smallest clearance over a set of waypoints, or
// +Inf for an empty set or an obstacle-free grid.
func (ci *ClearanceIndex) MinClearance(points []geom.Vector) float64 {
	min := math.Inf(1)
	for _, p := range points {
		if d := ci.Clearance(p); d < min {
			min = d
		}
	}
	return min
}
