package bvh

// Rotate runs a post-build local tree-rotation pass over root, resolving
// the Design Notes' open question of whether any post-build balancing
// should be attempted: each pass walks the subtree bottom-up and, at
// every inner node whose two children are themselves inner, tries
// exchanging one grandchild for the other's sibling if doing so lowers
// that node's subtree SAH cost (Kensler's "tree rotations" scheme,
// ported from the shape of `void rotate(BVHNode *node, int max_depth)`
// — the original left this unimplemented, so the rotation rule itself
// is this port's own design, built the way the rest of the builder
// evaluates candidates: compute SAH cost before and after, keep the
// cheaper tree).
//
// Rotate mutates root's Inner children in place; it never changes leaf
// contents, so the Output arrays Build already wrote remain valid.
func Rotate(p Params, root *Node) {
	if !p.UseRotations || root == nil {
		return
	}
	for i := 0; i < p.MaxRotationIterations; i++ {
		if rotateSubtree(p, root) < p.MinRotationGain {
			return
		}
	}
}

// rotateSubtree applies tryRotate at every inner node, post-order (children
// before parent, so a parent's cost comparison always sees its
// children's already-improved shape) and returns the total SAH-cost
// reduction achieved in this one pass.
func rotateSubtree(p Params, node *Node) float32 {
	if node == nil || node.IsLeaf() {
		return 0
	}
	gain := rotateSubtree(p, node.Inner.Left) + rotateSubtree(p, node.Inner.Right)
	gain += tryRotate(p, node)
	return gain
}

// tryRotate considers the four grandchild swaps available at node when
// both its children are inner nodes — left.Left<->right.Left,
// left.Left<->right.Right, left.Right<->right.Left,
// left.Right<->right.Right — and commits whichever swap most reduces
// node's subtree SAH cost, provided the reduction exceeds
// p.MinRotationGain. Returns the gain committed, or 0 if none qualified.
func tryRotate(p Params, node *Node) float32 {
	left, right := node.Inner.Left, node.Inner.Right
	if left.IsLeaf() || right.IsLeaf() {
		return 0
	}

	baseCost := node.SubtreeSAHCost(p, 1)
	bestGain := float32(0)
	bestSwap := -1

	swaps := []func(){
		func() { left.Inner.Left, right.Inner.Left = right.Inner.Left, left.Inner.Left },
		func() { left.Inner.Left, right.Inner.Right = right.Inner.Right, left.Inner.Left },
		func() { left.Inner.Right, right.Inner.Left = right.Inner.Left, left.Inner.Right },
		func() { left.Inner.Right, right.Inner.Right = right.Inner.Right, left.Inner.Right },
	}

	for i, swap := range swaps {
		swap()
		recomputeRollup(left)
		recomputeRollup(right)
		recomputeRollup(node)

		cost := node.SubtreeSAHCost(p, 1)
		if gain := baseCost - cost; gain > bestGain {
			bestGain = gain
			bestSwap = i
		}

		// Every swap above is its own inverse (a plain value exchange),
		// so applying it again restores the pre-swap shape for the next
		// candidate's trial.
		swap()
		recomputeRollup(left)
		recomputeRollup(right)
		recomputeRollup(node)
	}

	if bestSwap < 0 || bestGain < p.MinRotationGain {
		return 0
	}

	swaps[bestSwap]()
	recomputeRollup(left)
	recomputeRollup(right)
	recomputeRollup(node)
	return bestGain
}

// recomputeRollup refreshes n's bounds/visibility/time rollup from its
// current children — needed after tryRotate reassigns grandchildren,
// since Node caches these at construction time rather than deriving
// them on every read.
func recomputeRollup(n *Node) {
	if n.IsLeaf() {
		return
	}
	l, r := n.Inner.Left, n.Inner.Right
	n.Bounds = l.Bounds.Grow(r.Bounds)
	n.VisibilityMask = l.VisibilityMask | r.VisibilityMask
	n.TimeFrom = min32(l.TimeFrom, r.TimeFrom)
	n.TimeTo = max32(l.TimeTo, r.TimeTo)
	n.IsUnaligned = l.IsUnaligned || r.IsUnaligned
}
