package bvh

import (
	"math"
	"sort"
)

// ObjectSplit is a per-axis sorted-sweep SAH split candidate that
// partitions by primitive identity: no duplication.
type ObjectSplit struct {
	Found      bool
	Axis       int
	NumLeft    int
	LeftBounds Bounds
	RightBounds Bounds
	SAH        float32
}

// findObjectSplit evaluates all three axes and returns the lowest-cost
// object split for the active range.
//
// For each axis: sort the range by the center proxy (tie-broken by
// object/primitive id for determinism, property 8), sweep right-to-left
// to accumulate suffix bounds into scratch, then sweep left-to-right
// evaluating the SAH at every cut point.
func (p Params) findObjectSplit(pool *Pool, rg Range, scratch []Bounds) ObjectSplit {
	best := ObjectSplit{SAH: math.MaxFloat32}
	n := rg.Count
	if n < 2 {
		return best
	}
	if cap(scratch) < n {
		scratch = make([]Bounds, n)
	}
	scratch = scratch[:n]

	areaParent := rg.Bounds.SafeArea()

	for axis := 0; axis < 3; axis++ {
		refs := pool.Slice(rg)
		sort.Slice(refs, func(i, j int) bool { return refs[i].less(refs[j], axis) })

		right := NewEmptyBounds()
		for i := n - 1; i > 0; i-- {
			right = right.Grow(refs[i].Bounds)
			scratch[i-1] = right
		}

		left := NewEmptyBounds()
		for i := 1; i < n; i++ {
			left = left.Grow(refs[i-1].Bounds)
			rightBounds := scratch[i-1]

			sah := p.splitSAH(areaParent, left.SafeArea(), i, rightBounds.SafeArea(), n-i)
			if sah < best.SAH {
				best = ObjectSplit{
					Found:       true,
					Axis:        axis,
					NumLeft:     i,
					LeftBounds:  left,
					RightBounds: rightBounds,
					SAH:         sah,
				}
			}
		}
	}

	return best
}

// doObjectSplit re-sorts the range by the winning axis (so the split
// position from findObjectSplit is valid again) and returns the two
// disjoint sub-ranges. No locking is required: the range is this
// task's own window, disjoint from every sibling task's.
func doObjectSplit(pool *Pool, rg Range, split ObjectSplit) (left, right Range) {
	refs := pool.Slice(rg)
	sort.Slice(refs, func(i, j int) bool { return refs[i].less(refs[j], split.Axis) })

	left = Range{Start: rg.Start, Count: split.NumLeft, Bounds: split.LeftBounds}
	right = Range{Start: rg.Start + split.NumLeft, Count: rg.Count - split.NumLeft, Bounds: split.RightBounds}
	return left, right
}
