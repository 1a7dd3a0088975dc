package bvh

import "testing"

func refAt(objID int32, center float32) Reference {
	return Reference{
		ObjectID:    objID,
		PrimitiveID: 0,
		SegmentID:   NoSegment,
		Bounds:      Bounds{Min: Vec3{center, 0, 0}, Max: Vec3{center + 1, 1, 1}},
	}
}

func TestFindObjectSplitSeparatesDisjointRanges(t *testing.T) {
	pool := NewPool(8)
	pool.Append(refAt(0, 0), refAt(1, 10))
	rg := pool.ActiveRange()

	p := DefaultParams()
	split := p.findObjectSplit(pool, rg, nil)

	if !split.Found {
		t.Fatal("expected a split to be found for two disjoint references")
	}
	if split.NumLeft != 1 {
		t.Errorf("NumLeft = %d, want 1", split.NumLeft)
	}
}

func TestDoObjectSplitProducesDisjointDisjointCounts(t *testing.T) {
	pool := NewPool(8)
	pool.Append(refAt(0, 0), refAt(1, 10), refAt(2, 20))
	rg := pool.ActiveRange()

	p := DefaultParams()
	split := p.findObjectSplit(pool, rg, nil)
	left, right := doObjectSplit(pool, rg, split)

	if left.Count+right.Count != rg.Count {
		t.Fatalf("left.Count(%d) + right.Count(%d) != parent.Count(%d)", left.Count, right.Count, rg.Count)
	}
	if left.Start != rg.Start || right.Start != left.Start+left.Count {
		t.Fatalf("left/right ranges are not contiguous: left=%+v right=%+v", left, right)
	}
}

func TestFindObjectSplitTooFewReferences(t *testing.T) {
	pool := NewPool(8)
	pool.Append(refAt(0, 0))
	rg := pool.ActiveRange()

	p := DefaultParams()
	split := p.findObjectSplit(pool, rg, nil)
	if split.Found {
		t.Error("a single-reference range should never produce a split")
	}
}
