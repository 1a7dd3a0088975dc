package bvh

// leafCost approximates the expected traversal cost of a leaf holding n
// primitives: linear in the primitive count.
func (p Params) leafCost(n int) float32 {
	return float32(n) * p.primCost()
}

// primCost returns the per-primitive tuning weight for the current
// shading kind.
func (p Params) primCost() float32 {
	if p.Kind == ShadingCurves {
		return p.CurveCost
	}
	return p.TriangleCost
}

// innerCost approximates the expected traversal cost of visiting an
// inner node with k children (typically k=2).
func (p Params) innerCost(k int) float32 {
	return p.NodeCost * float32(k)
}

// splitSAH returns inner_cost(2) + (areaL/areaParent)*leaf_cost(nL) +
// (areaR/areaParent)*leaf_cost(nR), the cost function both the
// object-split and spatial-split finders minimize.
func (p Params) splitSAH(areaParent, areaL float32, nL int, areaR float32, nR int) float32 {
	cost := p.innerCost(2)
	if areaParent > 0 {
		cost += (areaL / areaParent) * p.leafCost(nL)
		cost += (areaR / areaParent) * p.leafCost(nR)
	} else {
		cost += p.leafCost(nL) + p.leafCost(nR)
	}
	return cost
}

// preferLeaf decides whether a range of n references should become a
// leaf outright: the leaf cost undercuts every split candidate's cost
// and n is within the configured leaf-size bounds. Ties favor the leaf
// per the source's "no_split" rule only when a split isn't otherwise
// mandated by MaxLeafSize being exceeded.
func (p Params) preferLeaf(n int, bestSplitSAH float32) bool {
	if n > p.MaxLeafSize {
		return false
	}
	if n < p.MinLeafSize {
		return false
	}
	return p.leafCost(n) <= bestSplitSAH
}
