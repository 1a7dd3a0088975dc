package bvh

import (
	"math"
	"testing"
)

func TestNewEmptyBoundsGrowsCorrectly(t *testing.T) {
	b := NewEmptyBounds()
	b = b.GrowPoint(Vec3{1, 2, 3})
	if b.Min != (Vec3{1, 2, 3}) || b.Max != (Vec3{1, 2, 3}) {
		t.Fatalf("got %+v, want a degenerate box at (1,2,3)", b)
	}
}

func TestBoundsGrowPoint(t *testing.T) {
	b := BoundsOf(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b = b.GrowPoint(Vec3{-1, 2, 0.5})
	want := Bounds{Min: Vec3{-1, 0, 0}, Max: Vec3{1, 2, 1}}
	if b != want {
		t.Fatalf("got %+v, want %+v", b, want)
	}
}

func TestBoundsArea(t *testing.T) {
	b := Bounds{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 0}}
	// a flat 1x1 quad: 2*(1*1 + 1*0 + 0*1) = 2
	if got := b.Area(); got != 2 {
		t.Errorf("Area() = %v, want 2", got)
	}
}

func TestBoundsSafeAreaNegativeExtent(t *testing.T) {
	// an invalid box produced by intersecting two disjoint boxes
	a := Bounds{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	c := Bounds{Min: Vec3{5, 5, 5}, Max: Vec3{6, 6, 6}}
	inv := a.Intersect(c)
	if inv.Valid() {
		t.Fatal("expected intersection of disjoint boxes to be invalid")
	}
	if got := inv.SafeArea(); got != 0 {
		t.Errorf("SafeArea() of invalid box = %v, want 0", got)
	}
}

func TestBoundsValid(t *testing.T) {
	valid := Bounds{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	if !valid.Valid() {
		t.Error("expected valid box to report Valid() == true")
	}
	invalid := Bounds{Min: Vec3{1, 0, 0}, Max: Vec3{0, 1, 1}}
	if invalid.Valid() {
		t.Error("expected invalid box to report Valid() == false")
	}
}

func TestBoundsCenterAndSize(t *testing.T) {
	b := Bounds{Min: Vec3{-1, -2, -3}, Max: Vec3{1, 2, 3}}
	if got := b.Center(); got != (Vec3{0, 0, 0}) {
		t.Errorf("Center() = %+v, want origin", got)
	}
	if got := b.Size(); got != (Vec3{2, 4, 6}) {
		t.Errorf("Size() = %+v, want (2,4,6)", got)
	}
}

func TestBoundsTransformed(t *testing.T) {
	b := Bounds{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	m := Translation(Vec3{10, 0, 0})
	got := b.Transformed(m)
	want := Bounds{Min: Vec3{10, 0, 0}, Max: Vec3{11, 1, 1}}
	if got != want {
		t.Fatalf("Transformed() = %+v, want %+v", got, want)
	}
}

func TestBoundsGrowRadius(t *testing.T) {
	b := Bounds{Min: Vec3{0, 0, 0}, Max: Vec3{0, 0, 0}}
	got := b.GrowRadius(0.5)
	want := Bounds{Min: Vec3{-0.5, -0.5, -0.5}, Max: Vec3{0.5, 0.5, 0.5}}
	if got != want {
		t.Fatalf("GrowRadius() = %+v, want %+v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize() of zero vector = %+v, want zero", got)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{3, 4, 0}
	if got := v.Length(); math.Abs(float64(got)-5) > 1e-6 {
		t.Errorf("Length() = %v, want 5", got)
	}
}
