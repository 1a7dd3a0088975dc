package bvh

// Matrix4 is a row-major 3x4 affine transform (the bottom row (0,0,0,1)
// is implicit). Scene objects that have not baked their transform into
// their geometry hand one of these to Bounds.Transformed when the
// top-level builder needs their world-space AABB.
type Matrix4 struct {
	// Rows 0-2 hold the linear part in columns 0-2 and the translation
	// in column 3.
	M [3][4]float32
}

// Identity returns the identity transform.
func Identity() Matrix4 {
	var m Matrix4
	m.M[0][0] = 1
	m.M[1][1] = 1
	m.M[2][2] = 1
	return m
}

// Translation returns a pure translation transform.
func Translation(t Vec3) Matrix4 {
	m := Identity()
	m.M[0][3] = t.X
	m.M[1][3] = t.Y
	m.M[2][3] = t.Z
	return m
}

// TransformPoint applies the affine transform to p.
func (m Matrix4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m.M[0][0]*p.X + m.M[0][1]*p.Y + m.M[0][2]*p.Z + m.M[0][3],
		Y: m.M[1][0]*p.X + m.M[1][1]*p.Y + m.M[1][2]*p.Z + m.M[1][3],
		Z: m.M[2][0]*p.X + m.M[2][1]*p.Y + m.M[2][2]*p.Z + m.M[2][3],
	}
}

// TransformDirection applies only the linear part of the transform,
// ignoring translation — used for basis vectors of an oriented frame.
func (m Matrix4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		X: m.M[0][0]*d.X + m.M[0][1]*d.Y + m.M[0][2]*d.Z,
		Y: m.M[1][0]*d.X + m.M[1][1]*d.Y + m.M[1][2]*d.Z,
		Z: m.M[2][0]*d.X + m.M[2][1]*d.Y + m.M[2][2]*d.Z,
	}
}
