package bvh

import "testing"

func TestPreferLeafRespectsSizeBounds(t *testing.T) {
	p := DefaultParams()
	p.MinLeafSize = 2
	p.MaxLeafSize = 4

	if p.preferLeaf(1, 1000) {
		t.Error("leaf below MinLeafSize should never be preferred")
	}
	if p.preferLeaf(5, 0) {
		t.Error("leaf above MaxLeafSize should never be preferred, even at zero split cost")
	}
	if !p.preferLeaf(3, p.leafCost(3)+1) {
		t.Error("leaf within bounds and cheaper than the best split should be preferred")
	}
}

func TestSplitSAHZeroParentArea(t *testing.T) {
	p := DefaultParams()
	// A degenerate (flat) parent box has zero area; splitSAH must not
	// divide by zero and should fall back to the raw leaf-cost sum.
	got := p.splitSAH(0, 1, 2, 1, 2)
	want := p.innerCost(2) + p.leafCost(2) + p.leafCost(2)
	if got != want {
		t.Errorf("splitSAH with zero parent area = %v, want %v", got, want)
	}
}

func TestLeafCostLinearInCount(t *testing.T) {
	p := DefaultParams()
	if got := p.leafCost(4); got != 4*p.TriangleCost {
		t.Errorf("leafCost(4) = %v, want %v", got, 4*p.TriangleCost)
	}
}
