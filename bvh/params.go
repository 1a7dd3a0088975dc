package bvh

// Layout selects the memory layout the caller's device-specific packer
// will use once the build-node tree is flattened. The builder itself is
// layout-agnostic; this is carried through so external packers know
// which convention produced the tree.
type Layout int

const (
	LayoutBVH2 Layout = iota
	LayoutBVH4
	LayoutBVH8
)

// ShadingKind distinguishes a triangle mesh build from a hair/curve
// build, which affects whether the unaligned heuristic is tried.
type ShadingKind int

const (
	ShadingTriangles ShadingKind = iota
	ShadingCurves
)

// Default tuning constants, matching the source renderer's own defaults.
const (
	// DefaultMaxDepth bounds recursion depth (property 7).
	DefaultMaxDepth = 64

	// DefaultMaxSpatialDepth bounds how deep spatial splitting is still
	// attempted; below the root, duplication cost compounds quickly.
	DefaultMaxSpatialDepth = 48

	// DefaultNumSpatialBins is the number of bins per axis the spatial
	// split finder sweeps.
	DefaultNumSpatialBins = 32

	// DefaultThreadTaskSize is the reference-count threshold below which
	// a range is built inline rather than queued as a separate task.
	DefaultThreadTaskSize = 4096

	// DefaultSpatialSplitAlpha is the default for Params.SpatialSplitAlpha.
	// The builder does not read that field: whether a spatial split is
	// tried depends only on UseSpatialSplit, TopLevel and MaxSpatialDepth,
	// not on how much the object split's children overlap.
	DefaultSpatialSplitAlpha = 1e-5

	// DefaultMaxRotationIterations bounds the post-build tree-rotation
	// pass (SPEC_FULL §5 4.G supplement, resolving Design Note 2).
	DefaultMaxRotationIterations = 16

	// DefaultMinRotationGain is the minimum SAH-cost reduction a
	// grandchild rotation must achieve to be committed.
	DefaultMinRotationGain = 1e-6
)

// Params configures a single BVH build (component H input).
type Params struct {
	// TopLevel builds the two-level top BVH over whole-object
	// references rather than individual primitives; spatial splitting
	// is always disabled for a top-level build since object references
	// cannot be clipped.
	TopLevel bool

	Layout Layout
	Kind   ShadingKind

	UseSpatialSplit      bool
	UseUnalignedNodes    bool
	SpatialSplitAlpha    float32
	NumSpatialBins       int
	MaxSpatialDepth      int

	MinLeafSize int
	MaxLeafSize int
	MaxDepth    int

	ThreadTaskSize int

	NumMotionCurveSteps    int
	NumMotionTriangleSteps int
	CurveSubdivisions      int

	// Tuning costs for the SAH model (component B).
	TriangleCost float32
	CurveCost    float32
	NodeCost     float32

	// Tree-rotation pass (SPEC_FULL §5 supplement).
	UseRotations          bool
	MaxRotationIterations int
	MinRotationGain       float32
}

// DefaultParams returns Params populated with the renderer's documented
// defaults. Callers typically start here and override only what they
// need.
func DefaultParams() Params {
	return Params{
		Layout:                 LayoutBVH2,
		Kind:                   ShadingTriangles,
		UseSpatialSplit:        true,
		UseUnalignedNodes:      true,
		SpatialSplitAlpha:      DefaultSpatialSplitAlpha,
		NumSpatialBins:         DefaultNumSpatialBins,
		MaxSpatialDepth:        DefaultMaxSpatialDepth,
		MinLeafSize:            1,
		MaxLeafSize:            8,
		MaxDepth:               DefaultMaxDepth,
		ThreadTaskSize:         DefaultThreadTaskSize,
		NumMotionCurveSteps:    0,
		NumMotionTriangleSteps: 0,
		CurveSubdivisions:      3,
		TriangleCost:           1.0,
		CurveCost:              1.2,
		NodeCost:               1.0,
		UseRotations:           true,
		MaxRotationIterations:  DefaultMaxRotationIterations,
		MinRotationGain:        DefaultMinRotationGain,
	}
}

// spatialSplitEligible reports whether the spatial-split finder should
// even be tried for this build: globally enabled, not a top-level
// (object-reference) build, and still within MaxSpatialDepth.
func (p Params) spatialSplitEligible(depth int) bool {
	return p.UseSpatialSplit && !p.TopLevel && depth < p.MaxSpatialDepth
}
