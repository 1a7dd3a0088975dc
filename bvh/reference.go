package bvh

// NoSegment is the sentinel SegmentID for triangle references — curve
// segment references use their actual segment index within the curve.
const NoSegment = ^uint32(0)

// ObjectRef marks a Reference as an object proxy (primitive_id = -1):
// a whole-object reference used by the top-level two-level BVH builder,
// rather than an individual triangle or curve segment.
const ObjectRef = -1

// Reference is a handle to one primitive — a triangle, a curve
// segment, or (in a top-level build) a whole object — together with
// its current, possibly spatially clipped, bounds.
//
// Invariant: after any spatial split, Bounds is always a subset of the
// primitive's original (unclipped) bounds.
type Reference struct {
	ObjectID    int32
	PrimitiveID int32 // ObjectRef (-1) denotes a whole-object reference
	SegmentID   uint32

	Bounds Bounds

	// TimeFrom, TimeTo bound the reference's validity interval for
	// motion blur. A static (non-deforming) reference has
	// TimeFrom == TimeTo == 0.
	TimeFrom, TimeTo float32
}

// IsObject reports whether r is a whole-object reference rather than an
// individual primitive.
func (r Reference) IsObject() bool { return r.PrimitiveID == ObjectRef }

// Center returns the midpoint of the reference's current bounds, used
// as the sort/partition key by the object-split finder.
func (r Reference) Center() Vec3 { return r.Bounds.Center() }

// sortKey returns the center-proxy `bounds.min[axis] + bounds.max[axis]`
// the object-split finder sorts by (cheaper than a true centroid: no
// division, and stable under degenerate zero-extent bounds).
func (r Reference) sortKey(axis int) float32 {
	return r.Bounds.Min.Axis(axis) + r.Bounds.Max.Axis(axis)
}

// less gives the deterministic total order object-split sorting uses:
// by sortKey, tie-broken by (ObjectID, PrimitiveID) so that two builds
// over the same input produce an identical topology (testable property 8).
func (r Reference) less(o Reference, axis int) bool {
	rk, ok := r.sortKey(axis), o.sortKey(axis)
	if rk != ok {
		return rk < ok
	}
	if r.ObjectID != o.ObjectID {
		return r.ObjectID < o.ObjectID
	}
	if r.PrimitiveID != o.PrimitiveID {
		return r.PrimitiveID < o.PrimitiveID
	}
	return r.SegmentID < o.SegmentID
}

// Range is a contiguous slice of the reference pool and its combined
// bounds: [Start, Start+Count) together with the union of those
// references' bounds.
//
// Invariant: Bounds == union of pool[Start:Start+Count].Bounds, except
// immediately after a spatial-split partition where supersets are
// permitted until the next recompute.
type Range struct {
	Start, Count int
	Bounds       Bounds
}

// End returns the exclusive end index Start+Count.
func (rg Range) End() int { return rg.Start + rg.Count }

// Empty reports whether the range has zero references.
func (rg Range) Empty() bool { return rg.Count == 0 }
