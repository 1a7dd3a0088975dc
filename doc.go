// Package cycles implements the BVH acceleration-structure construction
// engine and render-session tile scheduler of a physically based
// path-tracing renderer.
//
// The module is split by concern:
//
//   - bvh: primitive reference pooling, SAH cost model, object/spatial
//     split finders, the unaligned (oriented) heuristic for hair and
//     curves, the build-node model, tree rotations, and the parallel
//     build driver.
//   - progress: cancellable, throttled progress and status reporting
//     shared by BVH builds and render sessions.
//   - tile: render-tile lifecycle management, ordering policies, and
//     resumable chunked rendering.
//   - device: the external device-kernel contract a session dispatches
//     work through.
//   - session: the render session that ties tiles, devices, and
//     progress together into GPU-like and CPU run loops.
//
// Ray/shading kernels, device back-ends, scene ingestion, and image I/O
// are out of scope; they are represented only by the interfaces in
// device and bvh's scene-provider types.
//
// This root package holds only the ambient logging facility shared by
// every sub-package.
package cycles
