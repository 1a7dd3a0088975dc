package bvh

// BuildReferences walks scene's objects and emits one Reference per
// triangle, one per curve segment, or (for an instanced object in a
// top-level build) a single whole-object reference — component H's
// algorithm step 1. The returned pool's ActiveRange().Bounds is the
// root bounds the rest of the build starts from.
//
// A top-level build (params.TopLevel) only emits a whole-object
// reference for objects whose mesh has not baked its transform in
// (Object.TransformApplied == false); an object whose geometry is
// already in world space still contributes its triangles/segments
// directly to the top-level tree, exactly as a non-top-level build
// would.
func BuildReferences(scene *Scene, params Params) *Pool {
	capacity := 0
	for _, obj := range scene.Objects {
		if params.TopLevel && !obj.TransformApplied {
			capacity++
			continue
		}
		if obj.Mesh != nil {
			capacity += len(obj.Mesh.Triangles)
		}
		if obj.Curves != nil {
			capacity += len(obj.Curves.Keys)
		}
	}

	// Spatial splitting duplicates references into the same pool as the
	// build proceeds; reserve headroom so that duplication never forces
	// a reallocation out from under a concurrent Slice reader (Pool's
	// own invariant — see pool.go). Top-level builds never spatial-split.
	if params.UseSpatialSplit && !params.TopLevel {
		capacity *= 2
	}
	pool := NewPool(capacity)
	for i, obj := range scene.Objects {
		objectID := int32(i)
		if params.TopLevel && !obj.TransformApplied {
			addObjectReference(pool, obj, objectID)
			continue
		}
		if obj.Mesh != nil {
			addMeshReferences(pool, obj, objectID, params)
		}
		if obj.Curves != nil {
			addCurveReferences(pool, obj, objectID, params)
		}
	}
	return pool
}

// addObjectReference emits the single whole-object proxy reference a
// top-level build uses for an instanced (not-yet-baked) object; its
// bounds come straight from the object's own world-space AABB, per
// Object.Bounds's contract.
func addObjectReference(pool *Pool, obj Object, objectID int32) {
	pool.Append(Reference{
		ObjectID:    objectID,
		PrimitiveID: ObjectRef,
		SegmentID:   NoSegment,
		Bounds:      obj.Bounds,
	})
}

// addMeshReferences emits one reference per triangle of obj's mesh. If
// the mesh carries motion vertex streams and params.NumMotionTriangleSteps
// is non-zero, each triangle's bounds grow to cover every motion step so
// a moving triangle's reference still bounds its whole swept volume; the
// reference's time interval then spans the full shutter ([-1, 1], the
// same convention original_source's motion keyframes center on).
func addMeshReferences(pool *Pool, obj Object, objectID int32, params Params) {
	mesh := obj.Mesh
	useMotion := params.NumMotionTriangleSteps > 0 && len(mesh.MotionVerts) > 0

	for j, tri := range mesh.Triangles {
		corners := mesh.Vertices(tri)
		b := boundsOfTriangle(corners, obj)

		timeFrom, timeTo := float32(0), float32(0)
		if useMotion {
			for _, step := range mesh.MotionVerts {
				stepCorners := [3]Vec3{step[tri.V[0]], step[tri.V[1]], step[tri.V[2]]}
				b = b.Grow(boundsOfTriangle(stepCorners, obj))
			}
			timeFrom, timeTo = -1, 1
		}

		if !b.Valid() {
			continue
		}
		pool.Append(Reference{
			ObjectID:    objectID,
			PrimitiveID: int32(j),
			SegmentID:   NoSegment,
			Bounds:      b,
			TimeFrom:    timeFrom,
			TimeTo:      timeTo,
		})
	}
}

// boundsOfTriangle returns a triangle's world-space bounds, transforming
// its corners through obj's transform first when the mesh hasn't
// already baked it in.
func boundsOfTriangle(corners [3]Vec3, obj Object) Bounds {
	if obj.TransformApplied {
		return BoundsOf(corners[0], corners[1], corners[2])
	}
	return BoundsOf(
		obj.Transform.TransformPoint(corners[0]),
		obj.Transform.TransformPoint(corners[1]),
		obj.Transform.TransformPoint(corners[2]),
	)
}

// addCurveReferences emits one reference per curve segment of obj's
// curve set. params.CurveSubdivisions controls how many points along
// each segment are sampled when fitting its bounds. The samples lie on
// the straight line between the segment's two keys, with a linearly
// interpolated radius, so the result equals the endpoint-to-endpoint box
// grown by the larger endpoint radius; curvature between keys is not
// bounded. params.NumMotionCurveSteps, when non-zero, marks every curve
// reference's time interval as spanning the full shutter — this build
// has no per-key motion vertex stream to bound more tightly, so it
// falls back to treating the whole segment as in motion for the entire
// interval.
func addCurveReferences(pool *Pool, obj Object, objectID int32, params Params) {
	cs := obj.Curves
	subdivisions := params.CurveSubdivisions
	if subdivisions < 1 {
		subdivisions = 1
	}

	timeFrom, timeTo := float32(0), float32(0)
	if params.NumMotionCurveSteps > 0 {
		timeFrom, timeTo = -1, 1
	}

	for ci, curve := range cs.Curves {
		numSegments := curve.NumKeys - 1
		for seg := int32(0); seg < numSegments; seg++ {
			b, maxRadius := curveSegmentBounds(cs, curve, seg, subdivisions, obj)
			if !b.Valid() {
				continue
			}
			pool.Append(Reference{
				ObjectID:    objectID,
				PrimitiveID: int32(ci),
				SegmentID:   uint32(seg),
				Bounds:      b.GrowRadius(maxRadius),
				TimeFrom:    timeFrom,
				TimeTo:      timeTo,
			})
		}
	}
}

// curveSegmentBounds samples subdivisions+1 points along segment seg of
// curve and returns the union of their (transformed) centerline
// positions together with the largest radius seen, ready for the
// caller to grow the centerline bounds by.
func curveSegmentBounds(cs *CurveSet, curve Curve, seg int32, subdivisions int, obj Object) (Bounds, float32) {
	a, b := curve.Segment(cs, seg)

	bounds := NewEmptyBounds()
	maxRadius := float32(0)
	for s := 0; s <= subdivisions; s++ {
		t := float32(s) / float32(subdivisions)
		pos := a.Co.Lerp(b.Co, t)
		if !obj.TransformApplied {
			pos = obj.Transform.TransformPoint(pos)
		}
		bounds = bounds.GrowPoint(pos)

		radius := a.Radius + (b.Radius-a.Radius)*t
		if radius > maxRadius {
			maxRadius = radius
		}
	}
	return bounds, maxRadius
}
