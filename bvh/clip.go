package bvh

// clipReference splits ref at the plane `axis = pos`, returning the
// left (<= pos) and right (>= pos) fragments. Both fragments preserve
// ObjectID, PrimitiveID, and SegmentID; only Bounds differs.
//
// Triangles are clipped exactly: each edge is tested against the plane
// and, where it crosses, the intersection point is added to both
// sides. Curve segments are clipped using only their two endpoints —
// the segment's width is ignored, an acknowledged approximation that
// trades precision for not having to reason about a swept cylinder
// against a plane.
func clipReference(scene *Scene, ref Reference, axis int, pos float32) (left, right Reference) {
	left = Reference{ObjectID: ref.ObjectID, PrimitiveID: ref.PrimitiveID, SegmentID: ref.SegmentID, TimeFrom: ref.TimeFrom, TimeTo: ref.TimeTo}
	right = left
	left.Bounds = NewEmptyBounds()
	right.Bounds = NewEmptyBounds()

	var verts []Vec3
	if ref.SegmentID == NoSegment {
		obj := scene.Objects[ref.ObjectID]
		tri := obj.Mesh.Triangles[ref.PrimitiveID]
		corners := obj.Mesh.Vertices(tri)
		verts = corners[:]
	} else {
		obj := scene.Objects[ref.ObjectID]
		curve := obj.Curves.Curves[ref.PrimitiveID]
		a, b := curve.Segment(obj.Curves, int32(ref.SegmentID))
		verts = []Vec3{a.Co, b.Co}
	}

	clipPolyline(verts, axis, pos, &left.Bounds, &right.Bounds)

	left.Bounds.Max = left.Bounds.Max.WithAxis(axis, pos)
	right.Bounds.Min = right.Bounds.Min.WithAxis(axis, pos)
	left.Bounds = left.Bounds.Intersect(ref.Bounds)
	right.Bounds = right.Bounds.Intersect(ref.Bounds)

	return left, right
}

// clipPolyline walks the closed edge loop of a triangle (3 vertices) or
// the open segment of a curve (2 vertices) and grows leftBounds /
// rightBounds with each vertex and plane-crossing intersection point,
// per §4.E.1.
func clipPolyline(verts []Vec3, axis int, pos float32, leftBounds, rightBounds *Bounds) {
	n := len(verts)
	closed := n == 3 // triangles are a closed loop; curve segments are not

	edges := n
	if !closed {
		edges = n - 1
	}

	for i := 0; i < edges; i++ {
		v0 := verts[i]
		v1 := verts[(i+1)%n]

		v0p := v0.Axis(axis)
		v1p := v1.Axis(axis)

		growSide(v0, v0p, pos, leftBounds, rightBounds)
		growSide(v1, v1p, pos, leftBounds, rightBounds)

		if (v0p < pos && v1p > pos) || (v0p > pos && v1p < pos) {
			t := clamp01((pos - v0p) / (v1p - v0p))
			x := v0.Lerp(v1, t)
			*leftBounds = leftBounds.GrowPoint(x)
			*rightBounds = rightBounds.GrowPoint(x)
		}
	}
}

func growSide(v Vec3, vp, pos float32, leftBounds, rightBounds *Bounds) {
	if vp <= pos {
		*leftBounds = leftBounds.GrowPoint(v)
	}
	if vp >= pos {
		*rightBounds = rightBounds.GrowPoint(v)
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
