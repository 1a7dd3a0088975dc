package bvh

import "sync"

// Pool is the single growable vector of primitive references shared by
// an entire build.
//
// The source renderer's single-threaded builder relies on an implicit
// invariant: the range under construction is always the literal tail of
// the references vector, so a leaf "pops" its references off the back
// and a spatial-split duplicate is simply appended. That trick does not
// survive a parallel build driver recursing into two subtrees at once —
// both cannot simultaneously be "the tail". Per the redesign guidance
// for this port, the active range is instead always an explicit
// (start, count) [Range] value threaded through the recursion; Pool
// only has to guarantee two things used by every caller:
//
//   - object-split partitioning mutates only the slots inside its own
//     range and needs no lock, since sibling tasks' ranges are disjoint
//     index windows of the same backing array;
//   - spatial-split duplication must serialize (Lock/Unlock) because it
//     appends to the pool's shared backing array, and a duplicate's
//     index is always strictly greater than its original's at the
//     moment of duplication.
//
// Callers must size NewPool's capacity generously enough that
// AppendDuplicate never forces a reallocation while another goroutine
// holds a slice from Slice — the same headroom the source renderer
// reserves for its per-axis scratch buffers before building.
type Pool struct {
	refs []Reference

	spatialMu sync.Mutex
}

// NewPool returns an empty reference pool with capacity pre-reserved
// for capacity references, so spatial-split duplication during a
// parallel build never reallocates the backing array out from under a
// concurrent reader.
func NewPool(capacity int) *Pool {
	return &Pool{refs: make([]Reference, 0, capacity)}
}

// Len returns the current number of references held by the pool.
func (p *Pool) Len() int { return len(p.refs) }

// Append adds references to the end of the pool. Used only during
// initial scene ingestion, before any recursion has begun and no
// concurrent readers exist yet.
func (p *Pool) Append(refs ...Reference) {
	p.refs = append(p.refs, refs...)
}

// At returns the reference at index i.
func (p *Pool) At(i int) Reference { return p.refs[i] }

// Set overwrites the reference at index i.
func (p *Pool) Set(i int, r Reference) { p.refs[i] = r }

// Swap exchanges the references at indices i and j.
func (p *Pool) Swap(i, j int) { p.refs[i], p.refs[j] = p.refs[j], p.refs[i] }

// Slice returns the references in rg without copying.
func (p *Pool) Slice(rg Range) []Reference {
	return p.refs[rg.Start:rg.End()]
}

// AppendDuplicate appends r to the back of the pool under the spatial
// spin lock and returns the index it was stored at. Callers hold Lock
// for the whole spatial-split partition this belongs to, not just this
// one append — see Lock.
func (p *Pool) AppendDuplicate(r Reference) int {
	p.refs = append(p.refs, r)
	return len(p.refs) - 1
}

// Lock acquires the spatial spin lock for the duration of an entire
// spatial-split partition (the three-way partition walk mutates slot
// contents across the whole active range and appends new ones, so the
// critical section spans the whole operation, not each individual
// append).
func (p *Pool) Lock() { p.spatialMu.Lock() }

// Unlock releases the spatial spin lock.
func (p *Pool) Unlock() { p.spatialMu.Unlock() }

// ActiveRange returns the range describing the whole pool's current
// contents — the initial active range a fresh build recurses from.
func (p *Pool) ActiveRange() Range {
	b := NewEmptyBounds()
	for _, r := range p.refs {
		b = b.Grow(r.Bounds)
	}
	return Range{Start: 0, Count: len(p.refs), Bounds: b}
}
