package geom

import (
	"math"
	"testing"
)

func TestVectorArithmetic(t *testing.T) {
	a := V2(1, 2)
	b := V2(4, 6)

	sum := a.Add(b)
	if sum.X != 5 || sum.Y != 8 {
		t.Errorf("Add: expected (5, 8), got %v", sum)
	}

	diff := b.Sub(a)
	if diff.X != 3 || diff.Y != 4 {
		t.Errorf("Sub: expected (3, 4), got %v", diff)
	}
	if got := diff.Length(); got != 5 {
		t.Errorf("Sub().Length(): expected 5, got %v", got)
	}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance: expected 5, got %v", got)
	}

	scaled := a.Scale(3)
	if scaled.X != 3 || scaled.Y != 6 {
		t.Errorf("Scale: expected (3, 6), got %v", scaled)
	}

	// a must be unchanged: value semantics.
	if a.X != 1 || a.Y != 2 {
		t.Errorf("receiver mutated: %v", a)
	}
}

func TestVectorTo2D(t *testing.T) {
	v := V3(1, 2, 3)
	p := v.To2D()
	if p.Dim() != 2 {
		t.Fatalf("To2D dim: expected 2, got %d", p.Dim())
	}
	if p.X != 1 || p.Y != 2 || p.Z != 0 {
		t.Errorf("To2D: expected (1, 2), got %v", p)
	}

	// Already 2D: unchanged.
	q := V2(7, 8).To2D()
	if q.X != 7 || q.Y != 8 || q.Dim() != 2 {
		t.Errorf("To2D on 2D vector: got %v", q)
	}
}

func TestVectorMixedDimArithmetic(t *testing.T) {
	pose := V3(1, 1, 0.5)
	goal := V2(4, 5)
	d := goal.Sub(pose)
	if d.Dim() != 3 {
		t.Errorf("promoted dim: expected 3, got %d", d.Dim())
	}
	if got := goal.Sub(pose.To2D()).Length(); got != 5 {
		t.Errorf("2D distance: expected 5, got %v", got)
	}
}

func TestVectorNormalize(t *testing.T) {
	v := V2(3, 4).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Normalize length: got %v", v.Length())
	}
	z := V2(0, 0).Normalize()
	if z.Length() != 0 {
		t.Errorf("Normalize zero vector: got %v", z)
	}
}

func TestVectorLerp(t *testing.T) {
	a := V2(0, 0)
	b := V2(10, 0)
	m := a.Lerp(b, 0.25)
	if m.X != 2.5 || m.Y != 0 {
		t.Errorf("Lerp: expected (2.5, 0), got %v", m)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp t=0: got %v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp t=1: got %v", got)
	}
}

func TestVectorIsFinite(t *testing.T) {
	if !V2(1, 2).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if V2(math.NaN(), 0).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if V3(0, math.Inf(1), 0).IsFinite() {
		t.Error("Inf vector reported finite")
	}
}

func TestVectorZeroValue(t *testing.T) {
	var v Vector
	if !v.IsZero() || v.Dim() != 0 {
		t.Errorf("zero Vector: IsZero=%v Dim=%d", v.IsZero(), v.Dim())
	}
	if V2(0, 0).IsZero() {
		t.Error("V2(0,0) must not be the zero marker")
	}
}
