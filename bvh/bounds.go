package bvh

import "math"

// Bounds is an axis-aligned bounding box. The zero value is not a valid
// empty box; use NewEmptyBounds to get one min=+inf/max=-inf so that
// Grow converges correctly from an unset state.
type Bounds struct {
	Min, Max Vec3
}

// NewEmptyBounds returns a box with min=+inf, max=-inf, the identity
// element for Grow.
func NewEmptyBounds() Bounds {
	inf := float32(math.Inf(1))
	return Bounds{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// BoundsOf returns the smallest box containing every point in pts.
func BoundsOf(pts ...Vec3) Bounds {
	b := NewEmptyBounds()
	for _, p := range pts {
		b = b.GrowPoint(p)
	}
	return b
}

// GrowPoint returns b expanded to contain p.
func (b Bounds) GrowPoint(p Vec3) Bounds {
	return Bounds{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Grow returns b expanded to contain o.
func (b Bounds) Grow(o Bounds) Bounds {
	return Bounds{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// GrowRadius returns b expanded by a scalar radius on every axis, as
// used when growing a box around curve segments by their width.
func (b Bounds) GrowRadius(radius float32) Bounds {
	r := Vec3{radius, radius, radius}
	return Bounds{Min: b.Min.Sub(r), Max: b.Max.Add(r)}
}

// Intersect returns the intersection of b and o, which may be an empty
// (invalid) box when the two do not overlap.
func (b Bounds) Intersect(o Bounds) Bounds {
	return Bounds{Min: b.Min.Max(o.Min), Max: b.Max.Min(o.Max)}
}

// Valid reports whether min <= max on every axis.
func (b Bounds) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Size returns max - min.
func (b Bounds) Size() Vec3 { return b.Max.Sub(b.Min) }

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Area returns the SAH surface-area proxy 2*(dx*dy + dy*dz + dz*dx).
// It does not guard against negative extents; callers that may pass an
// invalid box should use SafeArea instead.
func (b Bounds) Area() float32 {
	d := b.Size()
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// SafeArea returns Area(), or 0 if any extent is negative. Builders use
// this throughout so an invalid (post-intersection) box never poisons a
// SAH evaluation with a spurious negative contribution.
func (b Bounds) SafeArea() float32 {
	d := b.Size()
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return b.Area()
}

// Transformed returns the AABB of the 8 corners of b transformed by m.
// Used by the top-level builder when an object's transform has not
// been baked into its geometry.
func (b Bounds) Transformed(m Matrix4) Bounds {
	out := NewEmptyBounds()
	for i := 0; i < 8; i++ {
		corner := Vec3{
			X: pick(i&1 != 0, b.Max.X, b.Min.X),
			Y: pick(i&2 != 0, b.Max.Y, b.Min.Y),
			Z: pick(i&4 != 0, b.Max.Z, b.Min.Z),
		}
		out = out.GrowPoint(m.TransformPoint(corner))
	}
	return out
}

func pick(cond bool, a, b float32) float32 {
	if cond {
		return a
	}
	return b
}
