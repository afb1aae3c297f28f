package geom

import (
	"fmt"
	"math"
)

// Vector is an immutable 2D or 3D point/direction in world coordinates.
// Dimensionality is fixed at construction; all arithmetic returns new values.
// The zero Vector has dimension 0 and is used as a "no value" marker.
type Vector struct {
	X, Y, Z float64
	dim     int
}

// V2 constructs a 2D vector.
func V2(x, y float64) Vector {
	return Vector{X: x, Y: y, dim: 2}
}

// V3 constructs a 3D vector.
func V3(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z, dim: 3}
}

// Dim returns the dimensionality (0 for the zero Vector, otherwise 2 or 3).
func (v Vector) Dim() int { return v.dim }

// IsZero reports whether v is the zero "no value" Vector.
func (v Vector) IsZero() bool { return v.dim == 0 }

// IsFinite reports whether every component is a finite number.
func (v Vector) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// binary operations promote to the larger dimensionality so that a 3D pose
// can be combined with a 2D goal without an explicit projection first.
func promote(a, b Vector) int {
	if a.dim > b.dim {
		return a.dim
	}
	return b.dim
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z, dim: promote(v, o)}
}

// Sub returns v - o. The length of the result is the Euclidean distance
// between the two points.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z, dim: promote(v, o)}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s, Z: v.Z * s, dim: v.dim}
}

// Neg returns -v.
func (v Vector) Neg() Vector { return v.Scale(-1) }

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the Euclidean norm.
func (v Vector) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared Euclidean norm.
func (v Vector) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Distance returns the Euclidean distance between v and o.
func (v Vector) Distance(o Vector) float64 {
	return v.Sub(o).Length()
}

// DistanceSquared returns the squared Euclidean distance between v and o.
func (v Vector) DistanceSquared(o Vector) float64 {
	return v.Sub(o).LengthSquared()
}

// Normalize returns a unit vector in the same direction, or the zero-length
// vector unchanged.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l < 1e-10 {
		return Vector{dim: v.dim}
	}
	return v.Scale(1 / l)
}

// Lerp returns the linear interpolation between v and o at parameter t,
// where t=0 yields v and t=1 yields o.
func (v Vector) Lerp(o Vector, t float64) Vector {
	return v.Add(o.Sub(v).Scale(t))
}

// To2D projects to two coordinates, discarding any third. It is total: a 2D
// vector is returned unchanged.
func (v Vector) To2D() Vector {
	return Vector{X: v.X, Y: v.Y, dim: 2}
}

func (v Vector) String() string {
	if v.dim == 3 {
		return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
	}
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}
