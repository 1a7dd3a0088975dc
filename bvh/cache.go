package bvh

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/gocycles/cycles/internal/buildcache"
)

// SceneHash content-hashes a pool's reference stream: same primitives,
// same bounds, same order hash identically. A caller can compare a
// fresh SceneHash against the one returned by a previous BuiltTree to
// decide whether reset() actually needs a full rebuild, or whether the
// tree it already holds still matches the scene.
func SceneHash(pool *Pool) uint64 {
	h := xxhash.New()
	var buf [44]byte
	for i := 0; i < pool.Len(); i++ {
		r := pool.At(i)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(r.ObjectID))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(r.PrimitiveID))
		binary.LittleEndian.PutUint32(buf[8:12], r.SegmentID)
		putFloat32(buf[12:16], r.Bounds.Min.X)
		putFloat32(buf[16:20], r.Bounds.Min.Y)
		putFloat32(buf[20:24], r.Bounds.Min.Z)
		putFloat32(buf[24:28], r.Bounds.Max.X)
		putFloat32(buf[28:32], r.Bounds.Max.Y)
		putFloat32(buf[32:36], r.Bounds.Max.Z)
		putFloat32(buf[36:40], r.TimeFrom)
		putFloat32(buf[40:44], r.TimeTo)
		_, _ = h.Write(buf[:]) // xxhash.Write never returns an error
	}
	return h.Sum64()
}

func putFloat32(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}

// BuiltTree is a cached build result keyed by the scene hash it was
// built from.
type BuiltTree struct {
	Hash  uint64
	Root  *Node
	Out   Output
	Stats BuildStats
}

// TreeCache caches BuiltTree values by SceneHash, letting cooperating
// resumable-chunk processes (§4.J) reuse a tree across chunks of the
// same render without re-partitioning, and letting reset() (§4.K.5)
// skip a rebuild entirely when the incoming scene hashes identically
// to the last one built.
type TreeCache struct {
	cache *buildcache.Cache[uint64, *BuiltTree]
}

// NewTreeCache returns a TreeCache holding up to capacity built trees
// (a render session typically only ever holds one or two: the
// currently-rendering scene and, briefly, the one being replaced during
// a scene edit).
func NewTreeCache(capacity int) *TreeCache {
	return &TreeCache{cache: buildcache.New[uint64, *BuiltTree](capacity)}
}

// Get returns the cached tree for hash, if any.
func (c *TreeCache) Get(hash uint64) (*BuiltTree, bool) {
	return c.cache.Get(hash)
}

// Put stores tree under its own Hash.
func (c *TreeCache) Put(tree *BuiltTree) {
	c.cache.Set(tree.Hash, tree)
}
