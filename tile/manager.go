package tile

import "sync"

// Manager owns the grid of tiles covering one target image and their
// processing order, lifecycle, and resumable-chunk sample range.
//
// Mutex discipline: Manager's own mutex sits at position 4 in the
// session's documented lock order (after buffers_mutex/display_mutex,
// before pause_mutex) — callers that also hold those locks must
// acquire them in that order to avoid inversion.
type Manager struct {
	mu sync.Mutex

	width, height int
	tileW, tileH  int
	cols, rows    int
	divider       int

	order Order
	perm  []int
	tiles []Tile

	cursor int // index into perm of the next tile to consider

	scheduleDenoising bool

	totalSamples int
	chunkStart   int
	chunkSamples int
}

// NewManager builds a manager for a width x height image tiled into
// tileW x tileH tiles (border tiles clipped), in the given order, to
// render totalSamples samples per pixel.
func NewManager(width, height, tileW, tileH int, order Order, totalSamples int) *Manager {
	m := &Manager{divider: 1}
	m.Reset(width, height, tileW, tileH, order, totalSamples)
	return m
}

// Reset rebuilds the tile grid from scratch, discarding all in-flight
// tile state — used both for a fresh render and for a resolution-
// divider change, which per spec must discard tile state and rebuild.
func (m *Manager) Reset(width, height, tileW, tileH int, order Order, totalSamples int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.width, m.height = width, height
	m.tileW, m.tileH = tileW, tileH
	m.order = order
	m.totalSamples = totalSamples
	m.chunkStart = 0
	m.chunkSamples = totalSamples
	m.cursor = 0

	m.cols = ceilDiv(width, tileW)
	m.rows = ceilDiv(height, tileH)

	m.tiles = make([]Tile, m.cols*m.rows)
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			idx := row*m.cols + col
			x, y := col*tileW, row*tileH
			w := minInt(tileW, width-x)
			h := minInt(tileH, height-y)
			m.tiles[idx] = Tile{
				Index:           idx,
				X:               x,
				Y:               y,
				W:               w,
				H:               h,
				StartSample:     m.chunkStart,
				NumSamples:      m.chunkSamples,
				Resolution:      m.divider,
				State:           Pending,
				Task:            TaskRender,
				PreferredDevice: AnyDevice,
			}
		}
	}

	m.perm = buildOrder(m.cols, m.rows, order)
}

// SetResolutionDivider sets the interactive-preview downsample factor.
// Per spec, changing it to a smaller value discards tile state and
// rebuilds the grid; this is left to the caller (who owns the image
// dimensions) by calling Reset again — SetResolutionDivider only
// updates the value new tiles are stamped with.
func (m *Manager) SetResolutionDivider(d int) {
	if d < 1 {
		d = 1
	}
	m.mu.Lock()
	m.divider = d
	m.mu.Unlock()
}

// SetChunk restricts the sample range every tile exposes to chunk
// `current` of `total`, so multiple cooperating processes can each
// render a disjoint slice of the same frame's samples.
//
// Resolves Open Question 1: rangeNumSamples is clamped to
// totalSamples-rangeStartSample (clamping to total minus start, not
// total minus the naive per-chunk count), since that is the only
// choice that cannot produce a negative sample count for a short final
// chunk when totalSamples doesn't divide evenly by total chunks.
func (m *Manager) SetChunk(current, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if total < 1 {
		total = 1
	}
	if current < 0 {
		current = 0
	}
	if current >= total {
		current = total - 1
	}

	perChunk := m.totalSamples / total
	start := current * perChunk
	count := perChunk
	if current == total-1 {
		// Last chunk absorbs any remainder from integer division.
		count = m.totalSamples - start
	}
	if count > m.totalSamples-start {
		count = m.totalSamples - start
	}
	if count < 0 {
		count = 0
	}

	m.chunkStart = start
	m.chunkSamples = count

	for i := range m.tiles {
		if m.tiles[i].State == Pending {
			m.tiles[i].StartSample = start
			m.tiles[i].NumSamples = count
		}
	}
}

// SetScheduleDenoising toggles whether finished-rendering tiles flow
// through NeedDenoise -> Denoising -> Done, or go straight to Done.
func (m *Manager) SetScheduleDenoising(enabled bool) {
	m.mu.Lock()
	m.scheduleDenoising = enabled
	m.mu.Unlock()
}

// NextTile pops the next Pending tile preferring deviceIndex — a tile
// already pinned to a different device is skipped so its buffer stays
// resident where progressive-refine samples were already accumulated —
// and transitions it to Rendering.
func (m *Manager) NextTile(deviceIndex int) (*Tile, bool) {
	return m.nextInState(Pending, Rendering, deviceIndex)
}

// NextDenoise pops the next NeedDenoise tile for deviceIndex and
// transitions it to Denoising.
func (m *Manager) NextDenoise(deviceIndex int) (*Tile, bool) {
	return m.nextInState(NeedDenoise, Denoising, deviceIndex)
}

func (m *Manager) nextInState(from, to State, deviceIndex int) (*Tile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < len(m.perm); i++ {
		idx := m.perm[(m.cursor+i)%len(m.perm)]
		t := &m.tiles[idx]
		if t.State != from {
			continue
		}
		if t.PreferredDevice != AnyDevice && t.PreferredDevice != deviceIndex {
			continue
		}
		t.State = to
		if t.PreferredDevice == AnyDevice {
			t.PreferredDevice = deviceIndex
		}
		return t, true
	}
	return nil, false
}

// FinishTile marks a Rendering tile finished: NeedDenoise if denoising
// is scheduled, otherwise Done directly. releaseBuffers reports whether
// the caller may free the tile's buffer now (true) or must retain it
// for the denoise stage (false).
func (m *Manager) FinishTile(index int) (done, releaseBuffers bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &m.tiles[index]
	if m.scheduleDenoising {
		t.State = NeedDenoise
		return false, false
	}
	t.State = Done
	return true, true
}

// FinishDenoise marks a Denoising tile Done.
func (m *Manager) FinishDenoise(index int) {
	m.mu.Lock()
	m.tiles[index].State = Done
	m.mu.Unlock()
}

// AllDone reports whether every tile has reached Done — the tile
// manager is the sole authority for "render complete" (§5 ordering
// guarantees: tiles finish in no particular order across devices).
func (m *Manager) AllDone() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tiles {
		if m.tiles[i].State != Done {
			return false
		}
	}
	return true
}

// Tile returns a copy of the tile at index.
func (m *Manager) Tile(index int) Tile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tiles[index]
}

// NumTiles returns the total tile count in the current grid.
func (m *Manager) NumTiles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tiles)
}

// NeighborTiles returns the 3x3 block of tiles surrounding index
// (index itself at the center), with nil for positions outside the
// grid — the denoiser's read-access window.
func (m *Manager) NeighborTiles(index int) [9]*Tile {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out [9]*Tile
	row, col := index/m.cols, index%m.cols
	k := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := row+dr, col+dc
			if r >= 0 && r < m.rows && c >= 0 && c < m.cols {
				out[k] = &m.tiles[r*m.cols+c]
			}
			k++
		}
	}
	return out
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
