package bvh

// Node is a sealed variant: exactly one of Leaf or Inner is non-nil.
// This replaces the source renderer's class hierarchy of owning raw
// pointers (BVHNode / InnerNode / LeafNode) with a single Go value
// whose ownership is unambiguous — a Node's children belong to it
// alone, and the whole tree is freed by the garbage collector when the
// root becomes unreachable (Design Note: "owning raw child pointers in
// the build tree").
type Node struct {
	Bounds         Bounds
	VisibilityMask uint32
	TimeFrom       float32
	TimeTo         float32
	IsUnaligned    bool
	Frame          UnalignedFrame

	Leaf  *LeafData
	Inner *InnerData
}

// LeafData is the payload of a leaf node: a contiguous [Lo, Hi) window
// into the build's final prim_index/prim_object/prim_time output
// arrays.
type LeafData struct {
	Lo, Hi int
}

// InnerData is the payload of an inner node: two owned children.
type InnerData struct {
	Left, Right *Node
}

// IsLeaf reports whether n is a leaf node.
func (n *Node) IsLeaf() bool { return n.Leaf != nil }

// NumPrimitives returns the number of primitives a leaf spans, or 0 for
// an inner node.
func (n *Node) NumPrimitives() int {
	if n.Leaf == nil {
		return 0
	}
	return n.Leaf.Hi - n.Leaf.Lo
}

// newLeaf constructs a leaf node, rolling up bounds/visibility/time
// from the caller (who has already scanned the emitted primitive
// range).
func newLeaf(bounds Bounds, visibility uint32, timeFrom, timeTo float32, lo, hi int) *Node {
	return &Node{
		Bounds:         bounds,
		VisibilityMask: visibility,
		TimeFrom:       timeFrom,
		TimeTo:         timeTo,
		Leaf:           &LeafData{Lo: lo, Hi: hi},
	}
}

// newInner constructs an inner node, rolling up bounds (union),
// visibility (OR), time bounds (min/max), and the unaligned flag from
// its two children — per §4.G.
func newInner(left, right *Node) *Node {
	return &Node{
		Bounds:         left.Bounds.Grow(right.Bounds),
		VisibilityMask: left.VisibilityMask | right.VisibilityMask,
		TimeFrom:       min32(left.TimeFrom, right.TimeFrom),
		TimeTo:         max32(left.TimeTo, right.TimeTo),
		IsUnaligned:    left.IsUnaligned || right.IsUnaligned,
		Inner:          &InnerData{Left: left, Right: right},
	}
}

// newUnalignedInner is newInner but tagged with the oriented frame the
// split was evaluated in, so traversal knows to transform the ray
// before testing this node's children.
func newUnalignedInner(left, right *Node, frame UnalignedFrame) *Node {
	n := newInner(left, right)
	n.IsUnaligned = true
	n.Frame = frame
	return n
}

// Stat enumerates the subtree statistics Visit can accumulate, mirroring
// the source renderer's BVH_STAT_* enum (component G "subtree queries").
type Stat int

const (
	StatNodeCount Stat = iota
	StatLeafCount
	StatInnerCount
	StatPrimitiveCount
	StatDepth
	StatUnalignedCount
)

// Visit walks the subtree rooted at n and accumulates the requested
// statistic — the Go equivalent of the source's visitor-pattern
// subtree queries.
func (n *Node) Visit(stat Stat) int {
	if n == nil {
		return 0
	}
	switch stat {
	case StatNodeCount:
		return 1 + n.childStat(stat)
	case StatLeafCount:
		if n.IsLeaf() {
			return 1
		}
		return n.childStat(stat)
	case StatInnerCount:
		if n.IsLeaf() {
			return 0
		}
		return 1 + n.childStat(stat)
	case StatPrimitiveCount:
		if n.IsLeaf() {
			return n.NumPrimitives()
		}
		return n.childStat(stat)
	case StatUnalignedCount:
		self := 0
		if n.IsUnaligned {
			self = 1
		}
		return self + n.childStat(stat)
	case StatDepth:
		if n.IsLeaf() {
			return 1
		}
		l := n.Inner.Left.Visit(StatDepth)
		r := n.Inner.Right.Visit(StatDepth)
		if l > r {
			return 1 + l
		}
		return 1 + r
	default:
		return 0
	}
}

func (n *Node) childStat(stat Stat) int {
	if n.IsLeaf() {
		return 0
	}
	return n.Inner.Left.Visit(stat) + n.Inner.Right.Visit(stat)
}

// UpdateVisibility recomputes lazily-rolled-up visibility masks across
// the subtree — used after post-build tree rotations, which can change
// which leaves sit under which inner node.
func (n *Node) UpdateVisibility() uint32 {
	if n.IsLeaf() {
		return n.VisibilityMask
	}
	n.VisibilityMask = n.Inner.Left.UpdateVisibility() | n.Inner.Right.UpdateVisibility()
	return n.VisibilityMask
}

// UpdateTime recomputes time_from/time_to across the subtree, mirroring
// update_visibility's lazy rollup for motion-blur bounds.
func (n *Node) UpdateTime() {
	if n.IsLeaf() {
		return
	}
	n.Inner.Left.UpdateTime()
	n.Inner.Right.UpdateTime()
	n.TimeFrom = min32(n.Inner.Left.TimeFrom, n.Inner.Right.TimeFrom)
	n.TimeTo = max32(n.Inner.Left.TimeTo, n.Inner.Right.TimeTo)
}

// SubtreeSAHCost computes the weighted SAH cost of the subtree rooted
// at n, used by the tree-rotation pass to compare candidate swaps.
// probability is the parent's contribution — callers start with 1.0 at
// the root.
func (n *Node) SubtreeSAHCost(p Params, probability float32) float32 {
	if n == nil {
		return 0
	}
	var cost float32
	if n.IsLeaf() {
		cost = probability * p.leafCost(n.NumPrimitives())
	} else {
		cost = probability * p.innerCost(2)
		area := n.Bounds.SafeArea()
		if area > 0 {
			cost += n.Inner.Left.SubtreeSAHCost(p, probability*n.Inner.Left.Bounds.SafeArea()/area)
			cost += n.Inner.Right.SubtreeSAHCost(p, probability*n.Inner.Right.Bounds.SafeArea()/area)
		}
	}
	return cost
}
