package bvh

import (
	"math"
	"sort"
)

// UnalignedFrame is an oriented basis (three orthonormal axes plus an
// origin) a subtree's inner node can carry so traversal transforms the
// ray once before testing children, instead of paying for a
// scene-aligned AABB that poorly fits long, thin hair geometry.
type UnalignedFrame struct {
	Origin     Vec3
	X, Y, Z    Vec3
}

// TransformPoint expresses p in the frame's local coordinates.
func (f UnalignedFrame) TransformPoint(p Vec3) Vec3 {
	d := p.Sub(f.Origin)
	return Vec3{d.Dot(f.X), d.Dot(f.Y), d.Dot(f.Z)}
}

// fitFrame computes a best-fit oriented frame for the active range's
// reference centers using the direction of greatest variance (power
// iteration on the covariance matrix) as the primary axis — a
// lightweight stand-in for a full PCA solve, adequate for the curve
// bundles this heuristic targets.
func fitFrame(pool *Pool, rg Range) UnalignedFrame {
	refs := pool.Slice(rg)

	mean := Vec3{}
	for _, r := range refs {
		mean = mean.Add(r.Center())
	}
	mean = mean.Scale(1 / float32(len(refs)))

	var cov [3][3]float64
	for _, r := range refs {
		d := r.Center().Sub(mean)
		dd := [3]float64{float64(d.X), float64(d.Y), float64(d.Z)}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i][j] += dd[i] * dd[j]
			}
		}
	}

	primary := powerIteration(cov)
	// Build an orthonormal basis from the primary axis via Gram-Schmidt
	// against a stable reference vector.
	ref := Vec3{0, 1, 0}
	if math.Abs(float64(primary.Dot(ref))) > 0.9 {
		ref = Vec3{1, 0, 0}
	}
	y := ref.Sub(primary.Scale(primary.Dot(ref))).Normalize()
	z := primary.Cross(y)

	return UnalignedFrame{Origin: mean, X: primary, Y: y, Z: z}
}

// powerIteration returns the dominant eigenvector of a symmetric 3x3
// matrix via a small fixed number of iterations — exact eigen-solving
// is unnecessary here since the frame only needs to roughly align with
// the data's dominant spread.
func powerIteration(m [3][3]float64) Vec3 {
	v := Vec3{1, 0, 0}
	for i := 0; i < 24; i++ {
		nv := Vec3{
			X: float32(m[0][0])*v.X + float32(m[0][1])*v.Y + float32(m[0][2])*v.Z,
			Y: float32(m[1][0])*v.X + float32(m[1][1])*v.Y + float32(m[1][2])*v.Z,
			Z: float32(m[2][0])*v.X + float32(m[2][1])*v.Y + float32(m[2][2])*v.Z,
		}
		if nv.Length() == 0 {
			return v
		}
		v = nv.Normalize()
	}
	return v
}

// unalignedBoundsOf recomputes each reference's bounds within a frame's
// local coordinates so the object-split SAH evaluation can run as if
// the frame's axes were world axes.
func unalignedBoundsOf(frame UnalignedFrame, center Vec3, halfExtents Vec3) Bounds {
	local := frame.TransformPoint(center)
	return Bounds{Min: local.Sub(halfExtents), Max: local.Add(halfExtents)}
}

// findUnalignedSplit fits an oriented frame to the range and evaluates
// an object-split SAH within that frame, returning it alongside the
// frame only when it beats the aligned candidate by more than a small
// margin — a large tree of mostly-useless unaligned nodes costs more at
// traversal time than it saves.
func (p Params) findUnalignedSplit(pool *Pool, rg Range, aligned ObjectSplit) (UnalignedFrame, ObjectSplit, bool) {
	if !p.UseUnalignedNodes || p.Kind != ShadingCurves || rg.Count < 4 {
		return UnalignedFrame{}, ObjectSplit{}, false
	}

	frame := fitFrame(pool, rg)

	refs := pool.Slice(rg)
	type localBound struct {
		bounds Bounds
		center float32
	}
	local := make([]localBound, len(refs))
	transformed := NewEmptyBounds()
	for i, r := range refs {
		lo := frame.TransformPoint(r.Bounds.Min)
		hi := frame.TransformPoint(r.Bounds.Max)
		b := BoundsOf(lo, hi)
		local[i] = localBound{bounds: b, center: (lo.X + hi.X) / 2}
		transformed = transformed.Grow(b)
	}

	// Evaluate a median-split SAH along the frame's dominant (local X)
	// axis: cheaper than a full sweep and sufficient to decide whether
	// the orientation is worthwhile at all.
	sort.Slice(local, func(i, j int) bool { return local[i].center < local[j].center })
	mid := len(local) / 2
	left := NewEmptyBounds()
	for _, b := range local[:mid] {
		left = left.Grow(b.bounds)
	}
	right := NewEmptyBounds()
	for _, b := range local[mid:] {
		right = right.Grow(b.bounds)
	}

	sah := p.splitSAH(transformed.SafeArea(), left.SafeArea(), mid, right.SafeArea(), len(local)-mid)

	const unalignedMargin = 1.05 // must beat the aligned candidate by 5%
	if !aligned.Found || sah*unalignedMargin < aligned.SAH {
		return frame, ObjectSplit{Found: true, Axis: 0, NumLeft: mid, LeftBounds: left, RightBounds: right, SAH: sah}, true
	}
	return UnalignedFrame{}, ObjectSplit{}, false
}

// doUnalignedSplit partitions rg in place by the frame-local X center,
// mirroring doObjectSplit's re-sort-then-slice pattern but keyed on the
// oriented frame's dominant axis instead of a world axis. No locking is
// required for the same reason as doObjectSplit: rg is this task's own
// disjoint window. The returned ranges carry world-space bounds
// recomputed from their references, not split's frame-local bounds.
func doUnalignedSplit(pool *Pool, rg Range, frame UnalignedFrame, split ObjectSplit) (left, right Range) {
	refs := pool.Slice(rg)
	sort.Slice(refs, func(i, j int) bool {
		ci := frame.TransformPoint(refs[i].Center()).X
		cj := frame.TransformPoint(refs[j].Center()).X
		return ci < cj
	})

	left = Range{Start: rg.Start, Count: split.NumLeft, Bounds: NewEmptyBounds()}
	right = Range{Start: rg.Start + split.NumLeft, Count: rg.Count - split.NumLeft, Bounds: NewEmptyBounds()}
	for i, r := range refs {
		if i < split.NumLeft {
			left.Bounds = left.Bounds.Grow(r.Bounds)
		} else {
			right.Bounds = right.Bounds.Grow(r.Bounds)
		}
	}
	return left, right
}
