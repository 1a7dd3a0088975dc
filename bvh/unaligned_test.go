package bvh

import "testing"

func curveRangeAlongDiagonal(n int) (*Pool, Range) {
	pool := NewPool(n)
	for i := 0; i < n; i++ {
		c := float32(i)
		pool.Append(Reference{
			ObjectID:    0,
			PrimitiveID: int32(i),
			SegmentID:   uint32(i),
			Bounds:      Bounds{Min: Vec3{c, c, c}, Max: Vec3{c + 0.1, c + 0.1, c + 0.1}},
		})
	}
	return pool, pool.ActiveRange()
}

func TestFindUnalignedSplitDisabledByFlag(t *testing.T) {
	pool, rg := curveRangeAlongDiagonal(8)
	p := DefaultParams()
	p.Kind = ShadingCurves
	p.UseUnalignedNodes = false

	_, _, ok := p.findUnalignedSplit(pool, rg, ObjectSplit{Found: true, SAH: 1000})
	if ok {
		t.Error("UseUnalignedNodes=false should never produce an unaligned split")
	}
}

func TestFindUnalignedSplitTooFewReferences(t *testing.T) {
	pool, rg := curveRangeAlongDiagonal(2)
	p := DefaultParams()
	p.Kind = ShadingCurves

	_, _, ok := p.findUnalignedSplit(pool, rg, ObjectSplit{Found: true, SAH: 1000})
	if ok {
		t.Error("a range below the minimum size should never produce an unaligned split")
	}
}

func TestFitFrameProducesOrthonormalBasis(t *testing.T) {
	pool, rg := curveRangeAlongDiagonal(16)
	frame := fitFrame(pool, rg)

	const eps = 1e-3
	if d := frame.X.Dot(frame.Y); d > eps || d < -eps {
		t.Errorf("X.Y = %v, want ~0", d)
	}
	if l := frame.X.Length(); l < 1-eps || l > 1+eps {
		t.Errorf("|X| = %v, want 1", l)
	}
}
