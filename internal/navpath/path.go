package navpath

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/mosswood-robotics/gridnav/internal/geom"
)

// Path is an ordered waypoint sequence in traversal order. All methods are
// copy-on-write: a Path handed to another component can be shared freely.
type Path struct {
	points []geom.Vector
}

// New builds a path from waypoints.
func New(points ...geom.Vector) Path {
	p := Path{points: make([]geom.Vector, len(points))}
	copy(p.points, points)
	return p
}

// Len returns the number of waypoints.
func (p Path) Len() int { return len(p.points) }

// IsEmpty reports whether the path has no waypoints.
func (p Path) IsEmpty() bool { return len(p.points) == 0 }

// At returns the waypoint at index i.
func (p Path) At(i int) geom.Vector { return p.points[i] }

// Points returns a copy of the waypoint slice.
func (p Path) Points() []geom.Vector {
	out := make([]geom.Vector, len(p.points))
	copy(out, p.points)
	return out
}

// Push returns a new path with the waypoint appended.
func (p Path) Push(v geom.Vector) Path {
	out := make([]geom.Vector, len(p.points), len(p.points)+1)
	copy(out, p.points)
	return Path{points: append(out, v)}
}

// ClipTail returns a new path retaining only the last n waypoints.
func (p Path) ClipTail(n int) Path {
	if n < 0 {
		n = 0
	}
	if n >= len(p.points) {
		return New(p.points...)
	}
	return New(p.points[len(p.points)-n:]...)
}

// Head returns the first waypoint, or ok=false for an empty path.
func (p Path) Head() (geom.Vector, bool) {
	if len(p.points) == 0 {
		return geom.Vector{}, false
	}
	return p.points[0], true
}

// Last returns the final waypoint, or ok=false for an empty path.
func (p Path) Last() (geom.Vector, bool) {
	if len(p.points) == 0 {
		return geom.Vector{}, false
	}
	return p.points[len(p.points)-1], true
}

// Length returns the total arc length along consecutive waypoints.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.points); i++ {
		total += p.points[i].Distance(p.points[i-1])
	}
	return total
}

// Reverse returns the path in opposite traversal order.
func (p Path) Reverse() Path {
	out := make([]geom.Vector, len(p.points))
	for i, v := range p.points {
		out[len(p.points)-1-i] = v
	}
	return Path{points: out}
}

// NearestIndex returns the index of the waypoint closest to the given point,
// or -1 for an empty path.
func (p Path) NearestIndex(q geom.Vector) int {
	best, bestD := -1, math.Inf(1)
	for i, v := range p.points {
		if d := v.DistanceSquared(q); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Resample returns a new path with waypoints at the given spacing (meters)
// along cumulative arc length, interpolated linearly between the original
// waypoints. The first and last original waypoints are preserved exactly.
// A path shorter than the spacing resamples to its two endpoints. Resample
// is deterministic and pure.
func (p Path) Resample(spacing float64) Path {
	if len(p.points) < 2 || spacing <= 0 {
		return New(p.points...)
	}

	// Cumulative arc length at each original waypoint.
	cum := make([]float64, len(p.points))
	for i := 1; i < len(p.points); i++ {
		cum[i] = cum[i-1] + p.points[i].Distance(p.points[i-1])
	}
	total := cum[len(cum)-1]

	out := []geom.Vector{p.points[0]}
	seg := 1
	for k := 1; ; k++ {
		target := float64(k) * spacing
		if target >= total {
			break
		}
		for seg < len(cum) && cum[seg] < target {
			seg++
		}
		// The advance loop leaves cum[seg-1] < target <= cum[seg], so the
		// segment length is strictly positive.
		segLen := cum[seg] - cum[seg-1]
		t := (target - cum[seg-1]) / segLen
		out = append(out, p.points[seg-1].Lerp(p.points[seg], t))
	}
	out = append(out, p.points[len(p.points)-1])
	return Path{points: out}
}

// Simplify returns a new path reduced with Douglas-Peucker at the given
// tolerance (meters of allowed perpendicular deviation). Endpoints are
// preserved. Simplification operates on the 2D projection of the waypoints.
func (p Path) Simplify(tolerance float64) Path {
	if len(p.points) <= 2 || tolerance <= 0 {
		return New(p.points...)
	}
	ls := make(orb.LineString, len(p.points))
	for i, v := range p.points {
		q := v.To2D()
		ls[i] = orb.Point{q.X, q.Y}
	}
	reduced := simplify.DouglasPeucker(tolerance).Simplify(ls).(orb.LineString)
	out := make([]geom.Vector, len(reduced))
	for i, pt := range reduced {
		out[i] = geom.V2(pt[0], pt[1])
	}
	return Path{points: out}
}

func (p Path) String() string {
	return fmt.Sprintf("Path (%d points, %.2fm)", len(p.points), p.Length())
}
