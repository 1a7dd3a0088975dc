package bvh

// Scene is the input the builder consumes: the flat list of objects to
// reference (component H's "scene objects" input, §6 Scene interface).
type Scene struct {
	Objects []Object
}

// Object is one entry of the scene the builder consumes: a mesh and/or
// curve set, its world transform, and the visibility/motion
// configuration needed to populate Reference and Node fields.
//
// This is deliberately a thin data-holder, not a behavior-carrying
// collaborator: scene ingestion, transforms baking, and mesh
// tessellation are out of scope (spec §1) and live in the caller.
type Object struct {
	Mesh   *Mesh
	Curves *CurveSet

	Transform        Matrix4
	TransformApplied bool
	Visibility       uint32

	// Bounds is the object's world-space AABB, used directly for
	// top-level (TopLevel) builds where the object itself — not its
	// individual primitives — is the reference.
	Bounds Bounds
}

// Mesh is a triangle soup in object space.
type Mesh struct {
	Verts     []Vec3
	Triangles []Triangle

	// MotionVerts optionally holds one extra vertex stream per motion
	// step for deforming geometry, indexed [step][vertex]. Empty for
	// static meshes.
	MotionVerts [][]Vec3
}

// Triangle indexes three vertices of its owning Mesh.Verts.
type Triangle struct {
	V [3]int32
}

// Vertices returns the three corner positions of t.
func (m *Mesh) Vertices(t Triangle) [3]Vec3 {
	return [3]Vec3{m.Verts[t.V[0]], m.Verts[t.V[1]], m.Verts[t.V[2]]}
}

// CurveSet is a set of hair/fur curves, each a polyline of keys with a
// per-key radius.
type CurveSet struct {
	Keys   []CurveKey
	Curves []Curve
}

// CurveKey is one control point of a curve: position plus radius.
type CurveKey struct {
	Co     Vec3
	Radius float32
}

// Curve is a contiguous run of keys within CurveSet.Keys;
// NumKeys-1 is the number of segments.
type Curve struct {
	FirstKey int32
	NumKeys  int32
}

// Segment returns the two endpoint keys of segment i (0-based) within
// the curve.
func (c Curve) Segment(cs *CurveSet, i int32) (a, b CurveKey) {
	base := c.FirstKey + i
	return cs.Keys[base], cs.Keys[base+1]
}
