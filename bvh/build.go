package bvh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocycles/cycles/internal/parallel"
)

// Output collects the build's final primitive-order arrays: every leaf
// node's [Lo, Hi) window indexes into these parallel slices rather than
// the (possibly duplicated, possibly reordered) reference pool.
type Output struct {
	PrimIndex    []int32
	PrimObject   []int32
	PrimSegment  []uint32
	PrimTimeFrom []float32
	PrimTimeTo   []float32
}

func (o *Output) append(r Reference) int {
	o.PrimIndex = append(o.PrimIndex, r.PrimitiveID)
	o.PrimObject = append(o.PrimObject, r.ObjectID)
	o.PrimSegment = append(o.PrimSegment, r.SegmentID)
	o.PrimTimeFrom = append(o.PrimTimeFrom, r.TimeFrom)
	o.PrimTimeTo = append(o.PrimTimeTo, r.TimeTo)
	return len(o.PrimIndex) - 1
}

// BuildStats reports counters accumulated over the course of one build.
type BuildStats struct {
	NumDuplicates int
	NumLeaves     int
	NumInner      int
	MaxDepthSeen  int
}

// ProgressFunc receives a throttled count of primitives emitted to
// leaves so far against the estimated total (the reference count the
// build started from; spatial-split duplication can push the final
// count past this estimate, in which case the ratio may briefly exceed
// 1).
type ProgressFunc func(emitted, estimatedTotal int)

// builder holds all state shared across one parallel build.
type builder struct {
	ctx    context.Context
	scene  *Scene
	pool   *Pool
	params Params
	tasks  *parallel.WorkerPool // nil means build fully inline on the caller's goroutine

	out   Output
	outMu sync.Mutex

	duplicates   atomic.Int64
	cancelled    atomic.Bool
	estimate     int
	progress     ProgressFunc
	lastReport   time.Time
	progressMu   sync.Mutex
}

// Build runs one complete BVH construction over pool's current
// contents and returns the root node together with the flattened
// primitive-order output arrays.
//
// tasks may be nil, in which case the whole build runs inline on the
// calling goroutine — appropriate for small scenes or tests. When
// non-nil, ranges at or above params.ThreadTaskSize fork their second
// child onto the pool while the first continues inline on the current
// goroutine (a classic fork-join split, not a balanced two-way
// dispatch: this keeps one goroutine always making forward progress
// down the tree, bounding how many goroutines can simultaneously be
// parked in a wg.Wait()).
//
// ctx is checked at every recursive step; a cancelled context aborts
// the build and Build returns ctx.Err(). progress, if non-nil, is
// called at most once every 250ms with the running count of primitives
// emitted to leaves so far.
func Build(ctx context.Context, scene *Scene, pool *Pool, params Params, tasks *parallel.WorkerPool, progress ProgressFunc) (*Node, Output, BuildStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	b := &builder{
		ctx:      ctx,
		scene:    scene,
		pool:     pool,
		params:   params,
		tasks:    tasks,
		estimate: pool.Len(),
		progress: progress,
	}

	if pool.Len() == 0 {
		// Scenario A: an empty scene still produces one empty leaf, never
		// a construction error.
		root := newLeaf(NewEmptyBounds(), 0, 0, 0, 0, 0)
		return root, b.out, BuildStats{NumLeaves: 1}, nil
	}

	root := b.buildNode(pool.ActiveRange(), 0)
	if b.cancelled.Load() {
		return nil, Output{}, BuildStats{}, ctx.Err()
	}

	stats := BuildStats{
		NumDuplicates: int(b.duplicates.Load()),
		NumLeaves:     root.Visit(StatLeafCount),
		NumInner:      root.Visit(StatInnerCount),
		MaxDepthSeen:  root.Visit(StatDepth),
	}
	return root, b.out, stats, nil
}

// BuildScene runs component H's algorithm from scratch: it walks scene
// with BuildReferences (step 1) and hands the resulting pool to Build.
// Callers that already have a populated *Pool — resuming a build driver
// test, or replaying a previously partitioned reference stream — should
// call Build directly instead.
func BuildScene(ctx context.Context, scene *Scene, params Params, tasks *parallel.WorkerPool, progress ProgressFunc) (*Node, Output, BuildStats, error) {
	pool := BuildReferences(scene, params)
	return Build(ctx, scene, pool, params, tasks, progress)
}

// buildNode decides, for one active range, whether to emit a leaf or
// recurse into the cheapest of the object-split, spatial-split, and
// unaligned-split candidates, per the SAH comparison in §4.H.
func (b *builder) buildNode(rg Range, depth int) *Node {
	if b.checkCancelled() {
		return nil
	}
	b.reportProgress()

	if rg.Empty() {
		return newLeaf(NewEmptyBounds(), 0, 0, 0, 0, 0)
	}

	aligned := b.params.findObjectSplit(b.pool, rg, nil)

	var spatial SpatialSplit
	if b.params.spatialSplitEligible(depth) {
		spatial = b.params.findSpatialSplit(b.scene, b.pool, rg)
	}

	bestSAH := aligned.SAH
	if spatial.Found && spatial.SAH < bestSAH {
		bestSAH = spatial.SAH
	}

	if depth >= b.params.MaxDepth || b.params.preferLeaf(rg.Count, bestSAH) || (!aligned.Found && !spatial.Found) {
		return b.emitLeaf(rg)
	}

	if frame, unaligned, ok := b.params.findUnalignedSplit(b.pool, rg, aligned); ok && (!spatial.Found || unaligned.SAH < spatial.SAH) {
		left, right := doUnalignedSplit(b.pool, rg, frame, unaligned)
		leftNode, rightNode := b.buildChildren(left, right, depth)
		if b.checkCancelled() {
			return nil
		}
		return newUnalignedInner(leftNode, rightNode, frame)
	}

	useSpatial := spatial.Found && (!aligned.Found || spatial.SAH < aligned.SAH)
	var left, right Range
	if useSpatial {
		var dup int
		left, right, dup = doSpatialSplit(b.params, b.scene, b.pool, rg, spatial)
		if dup > 0 {
			b.duplicates.Add(int64(dup))
		}
	} else {
		left, right = doObjectSplit(b.pool, rg, aligned)
	}

	leftNode, rightNode := b.buildChildren(left, right, depth)
	if b.checkCancelled() {
		return nil
	}
	return newInner(leftNode, rightNode)
}

// buildChildren builds left and right, forking right onto the task
// pool when the range is large enough and a pool was supplied.
func (b *builder) buildChildren(left, right Range, depth int) (*Node, *Node) {
	if b.tasks == nil || left.Count+right.Count < b.params.ThreadTaskSize {
		leftNode := b.buildNode(left, depth+1)
		rightNode := b.buildNode(right, depth+1)
		return leftNode, rightNode
	}

	var rightNode *Node
	var wg sync.WaitGroup
	wg.Add(1)
	b.tasks.Submit(func() {
		defer wg.Done()
		rightNode = b.buildNode(right, depth+1)
	})

	leftNode := b.buildNode(left, depth+1)
	wg.Wait()
	return leftNode, rightNode
}

// emitLeaf appends rg's references (in whatever order they currently
// sit in the pool) to the shared output arrays and returns a leaf node
// spanning the window they were written to.
func (b *builder) emitLeaf(rg Range) *Node {
	refs := b.pool.Slice(rg)

	b.outMu.Lock()
	lo := len(b.out.PrimIndex)
	var visibility uint32
	timeFrom := float32(0)
	timeTo := float32(0)
	for i, r := range refs {
		b.out.append(r)
		visibility |= objectVisibility(b.scene, r)
		if i == 0 {
			timeFrom, timeTo = r.TimeFrom, r.TimeTo
		} else {
			timeFrom = min32(timeFrom, r.TimeFrom)
			timeTo = max32(timeTo, r.TimeTo)
		}
	}
	hi := len(b.out.PrimIndex)
	b.outMu.Unlock()

	return newLeaf(rg.Bounds, visibility, timeFrom, timeTo, lo, hi)
}

// objectVisibility looks up the ray-visibility flags of the object a
// reference belongs to, defaulting to "visible to everything" when the
// scene has no explicit object table (e.g. in unit tests).
func objectVisibility(scene *Scene, r Reference) uint32 {
	if scene == nil || int(r.ObjectID) >= len(scene.Objects) {
		return ^uint32(0)
	}
	return scene.Objects[r.ObjectID].Visibility
}

func (b *builder) checkCancelled() bool {
	if b.cancelled.Load() {
		return true
	}
	select {
	case <-b.ctx.Done():
		b.cancelled.Store(true)
		return true
	default:
		return false
	}
}

func (b *builder) reportProgress() {
	if b.progress == nil {
		return
	}
	b.progressMu.Lock()
	defer b.progressMu.Unlock()
	if time.Since(b.lastReport) < 250*time.Millisecond {
		return
	}
	b.lastReport = time.Now()
	b.outMu.Lock()
	emitted := len(b.out.PrimIndex)
	b.outMu.Unlock()
	b.progress(emitted, b.estimate)
}
