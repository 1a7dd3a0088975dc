// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"github.com/gocycles/cycles/device"
	"github.com/gocycles/cycles/tile"
)

// RenderTile is the struct a session fills in and hands to a device
// for one unit of tile work — spec.md §4.K.3 step 3.
type RenderTile struct {
	Index int
	X, Y  int
	W, H  int

	StartSample int
	NumSamples  int
	Resolution  int

	Task device.TaskKind

	// Buffer is the accumulation buffer this tile renders into: either
	// the session's shared buffer (persistent tiles) or a per-tile
	// slice kept alive across samples by tileBuffers (transient tiles).
	Buffer []float32
}

// persistentBuffers reports whether tiles should reuse the session's
// single shared buffer rather than being allocated a buffer of their
// own. Per §4.K.3 step 4: persistent for background-with-no-file-output
// or viewport mode; transient for background-with-file-output, where
// tiles are written out and freed individually to bound memory.
func (s *Session) persistentBuffers() bool {
	return !s.Params.Background || s.WriteRenderTileCB == nil
}

func (s *Session) tileBuffer(idx int, size int) []float32 {
	if s.persistentBuffers() {
		s.buffersMu.Lock()
		defer s.buffersMu.Unlock()
		return nil // shared buffer; caller addresses it by tile rect, not a private slice
	}

	s.tileBuffersMu.Lock()
	defer s.tileBuffersMu.Unlock()
	buf, ok := s.tileBuffers[idx]
	if !ok || len(buf) != size {
		buf = make([]float32, size)
		s.tileBuffers[idx] = buf
	}
	return buf
}

// acquireTile asks the tile manager for the next tile for deviceIndex,
// fills in a RenderTile, and notifies observers. Returns false once the
// device has no more work for now.
func (s *Session) acquireTile(deviceIndex int) (RenderTile, bool) {
	t, ok := s.tiles.NextTile(deviceIndex)
	if !ok {
		return RenderTile{}, false
	}

	task := device.TaskRender
	if t.State == tile.Denoising {
		task = device.TaskFilmConvert // stand-in denoise task kind
	}

	rt := RenderTile{
		Index:       t.Index,
		X:           t.X,
		Y:           t.Y,
		W:           t.W,
		H:           t.H,
		StartSample: t.StartSample,
		NumSamples:  t.NumSamples,
		Resolution:  t.Resolution,
		Task:        task,
		Buffer:      s.tileBuffer(t.Index, t.W*t.H*4),
	}

	s.updateTileSample(rt)
	return rt, true
}

// updateTileSample notifies observers of in-progress tile state, the
// "may be marked in progress" half of the acquire_tile contract.
func (s *Session) updateTileSample(t RenderTile) {
	if s.UpdateRenderTileCB != nil {
		s.UpdateRenderTileCB(t, true)
	}
}

// releaseTile finishes a tile: marks it Done or NeedDenoise via the
// tile manager, fires the write/update callback, and updates progress.
func (s *Session) releaseTile(t RenderTile) {
	done, release := s.tiles.FinishTile(t.Index)

	if done {
		if s.WriteRenderTileCB != nil {
			s.WriteRenderTileCB(t)
		}
		if release && !s.persistentBuffers() {
			s.tileBuffersMu.Lock()
			delete(s.tileBuffers, t.Index)
			s.tileBuffersMu.Unlock()
		}
	} else if s.UpdateRenderTileCB != nil {
		s.UpdateRenderTileCB(t, true)
	}

	s.Progress.AddFinishedTile(t.Task == device.TaskFilmConvert)
}

// neighborTiles returns the Done/in-flight tile metadata surrounding
// index as a 3x3 block for denoise read access; positions outside the
// image are left as a nil pointer, matching map_neighbor_tiles's
// "null buffers at clamped coordinates" for out-of-image entries.
func (s *Session) neighborTiles(index int) [9]*tile.Tile {
	return s.tiles.NeighborTiles(index)
}
