package bvh

import (
	"math/rand"
	"testing"
)

func triangleScene(v0, v1, v2 Vec3) *Scene {
	mesh := &Mesh{
		Verts:     []Vec3{v0, v1, v2},
		Triangles: []Triangle{{V: [3]int32{0, 1, 2}}},
	}
	return &Scene{Objects: []Object{{Mesh: mesh}}}
}

func TestClipReferencePreservesIdentity(t *testing.T) {
	scene := triangleScene(Vec3{0, 0, 0}, Vec3{2, 0, 0}, Vec3{0, 2, 0})
	ref := Reference{ObjectID: 0, PrimitiveID: 0, SegmentID: NoSegment, Bounds: BoundsOf(Vec3{0, 0, 0}, Vec3{2, 0, 0}, Vec3{0, 2, 0})}

	left, right := clipReference(scene, ref, 0, 1.0)

	if left.ObjectID != ref.ObjectID || left.PrimitiveID != ref.PrimitiveID || left.SegmentID != ref.SegmentID {
		t.Fatal("clip must preserve reference identity on the left fragment")
	}
	if right.ObjectID != ref.ObjectID || right.PrimitiveID != ref.PrimitiveID || right.SegmentID != ref.SegmentID {
		t.Fatal("clip must preserve reference identity on the right fragment")
	}
}

func TestClipReferenceBoundsWithinOriginal(t *testing.T) {
	scene := triangleScene(Vec3{0, 0, 0}, Vec3{2, 0, 0}, Vec3{0, 2, 0})
	original := BoundsOf(Vec3{0, 0, 0}, Vec3{2, 0, 0}, Vec3{0, 2, 0})
	ref := Reference{ObjectID: 0, PrimitiveID: 0, SegmentID: NoSegment, Bounds: original}

	left, right := clipReference(scene, ref, 0, 1.0)

	assertSubset(t, left.Bounds, original)
	assertSubset(t, right.Bounds, original)

	if left.Bounds.Max.X > 1.0+1e-5 {
		t.Errorf("left fragment should be clamped to x<=1, got max.x=%v", left.Bounds.Max.X)
	}
	if right.Bounds.Min.X < 1.0-1e-5 {
		t.Errorf("right fragment should be clamped to x>=1, got min.x=%v", right.Bounds.Min.X)
	}
}

func assertSubset(t *testing.T, sub, sup Bounds) {
	t.Helper()
	if !sub.Valid() {
		return // an empty fragment is trivially a subset
	}
	const eps = 1e-4
	if sub.Min.X < sup.Min.X-eps || sub.Min.Y < sup.Min.Y-eps || sub.Min.Z < sup.Min.Z-eps ||
		sub.Max.X > sup.Max.X+eps || sub.Max.Y > sup.Max.Y+eps || sub.Max.Z > sup.Max.Z+eps {
		t.Fatalf("bounds %+v is not a subset of %+v", sub, sup)
	}
}

func TestClipReferenceRandomizedFuzzStaysWithinOriginal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		v0 := randVec(rng)
		v1 := randVec(rng)
		v2 := randVec(rng)
		scene := triangleScene(v0, v1, v2)
		original := BoundsOf(v0, v1, v2)
		ref := Reference{ObjectID: 0, PrimitiveID: 0, SegmentID: NoSegment, Bounds: original}

		axis := i % 3
		pos := original.Min.Axis(axis) + (original.Max.Axis(axis)-original.Min.Axis(axis))*0.5

		left, right := clipReference(scene, ref, axis, pos)
		assertSubset(t, left.Bounds, original)
		assertSubset(t, right.Bounds, original)
	}
}

func randVec(rng *rand.Rand) Vec3 {
	return Vec3{
		X: float32(rng.Float64()*10 - 5),
		Y: float32(rng.Float64()*10 - 5),
		Z: float32(rng.Float64()*10 - 5),
	}
}
