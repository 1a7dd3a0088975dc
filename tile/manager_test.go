package tile

import (
	"testing"
)

func TestNewManagerBuildsExpectedGrid(t *testing.T) {
	m := NewManager(100, 50, 32, 32, OrderLeftToRight, 64)
	if got := m.NumTiles(); got != 4*2 {
		t.Fatalf("NumTiles() = %d, want 8", got)
	}
	// Border tiles must clip rather than overrun the image.
	last := m.Tile(m.NumTiles() - 1)
	if last.X+last.W != 100 || last.Y+last.H != 50 {
		t.Errorf("last tile = %+v, does not end flush with image bounds", last)
	}
}

func TestNewManagerCoversEveryPixelExactlyOnce(t *testing.T) {
	m := NewManager(37, 19, 8, 8, OrderLeftToRight, 4)
	covered := make([][]bool, 19)
	for i := range covered {
		covered[i] = make([]bool, 37)
	}
	for i := 0; i < m.NumTiles(); i++ {
		tl := m.Tile(i)
		for y := tl.Y; y < tl.Y+tl.H; y++ {
			for x := tl.X; x < tl.X+tl.W; x++ {
				if covered[y][x] {
					t.Fatalf("pixel (%d,%d) covered by more than one tile", x, y)
				}
				covered[y][x] = true
			}
		}
	}
	for y := 0; y < 19; y++ {
		for x := 0; x < 37; x++ {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) not covered by any tile", x, y)
			}
		}
	}
}

func TestNextTilePinsToRequestingDevice(t *testing.T) {
	m := NewManager(64, 64, 32, 32, OrderLeftToRight, 16)

	first, ok := m.NextTile(0)
	if !ok {
		t.Fatal("expected a tile for device 0")
	}
	if first.PreferredDevice != 0 {
		t.Errorf("PreferredDevice = %d, want 0", first.PreferredDevice)
	}

	// Once pinned to device 0 and back in Rendering, device 1 must not
	// see it again even after it's re-marked Pending.
	m.mu.Lock()
	m.tiles[first.Index].State = Pending
	m.mu.Unlock()

	got, ok := m.NextTile(1)
	if !ok {
		t.Fatal("expected device 1 to still find its own tile")
	}
	if got.Index == first.Index {
		t.Error("device 1 should not have been handed device 0's pinned tile")
	}
}

func TestNextTileExhaustsAllThenReturnsFalse(t *testing.T) {
	m := NewManager(64, 32, 32, 32, OrderLeftToRight, 16)
	n := m.NumTiles()
	for i := 0; i < n; i++ {
		if _, ok := m.NextTile(AnyDevice); !ok {
			t.Fatalf("expected a tile on iteration %d of %d", i, n)
		}
	}
	if _, ok := m.NextTile(AnyDevice); ok {
		t.Error("expected no more Pending tiles")
	}
}

func TestFinishTileWithoutDenoisingGoesStraightToDone(t *testing.T) {
	m := NewManager(32, 32, 32, 32, OrderLeftToRight, 8)
	tl, _ := m.NextTile(AnyDevice)

	done, release := m.FinishTile(tl.Index)
	if !done || !release {
		t.Errorf("FinishTile() = (%v, %v), want (true, true) with denoising disabled", done, release)
	}
	if m.Tile(tl.Index).State != Done {
		t.Errorf("tile state = %v, want Done", m.Tile(tl.Index).State)
	}
}

func TestFinishTileWithDenoisingGoesToNeedDenoiseFirst(t *testing.T) {
	m := NewManager(32, 32, 32, 32, OrderLeftToRight, 8)
	m.SetScheduleDenoising(true)
	tl, _ := m.NextTile(AnyDevice)

	done, release := m.FinishTile(tl.Index)
	if done || release {
		t.Errorf("FinishTile() = (%v, %v), want (false, false) with denoising enabled", done, release)
	}
	if m.Tile(tl.Index).State != NeedDenoise {
		t.Fatalf("tile state = %v, want NeedDenoise", m.Tile(tl.Index).State)
	}

	dn, ok := m.NextDenoise(AnyDevice)
	if !ok || dn.Index != tl.Index {
		t.Fatal("expected NextDenoise to return the same tile")
	}
	m.FinishDenoise(dn.Index)
	if m.Tile(tl.Index).State != Done {
		t.Errorf("tile state after FinishDenoise = %v, want Done", m.Tile(tl.Index).State)
	}
}

func TestAllDoneReflectsEveryTile(t *testing.T) {
	m := NewManager(64, 32, 32, 32, OrderLeftToRight, 8)
	if m.AllDone() {
		t.Fatal("a fresh manager should not report AllDone")
	}
	for {
		tl, ok := m.NextTile(AnyDevice)
		if !ok {
			break
		}
		m.FinishTile(tl.Index)
	}
	if !m.AllDone() {
		t.Error("expected AllDone once every tile reached Done")
	}
}

func TestNeighborTilesReturnsNilOutsideGrid(t *testing.T) {
	m := NewManager(96, 96, 32, 32, OrderLeftToRight, 4) // 3x3 grid
	corner := m.NeighborTiles(0) // top-left tile
	// Index layout: 0 1 2 / 3 4 5 / 6 7 8 relative offsets.
	if corner[4] == nil || corner[4].Index != 0 {
		t.Fatal("center neighbor must be the tile itself")
	}
	nilCount := 0
	for _, n := range corner {
		if n == nil {
			nilCount++
		}
	}
	if nilCount != 5 {
		t.Errorf("top-left tile should have 5 out-of-grid neighbors, got %d", nilCount)
	}

	center := m.NeighborTiles(4) // middle tile of a 3x3 grid
	for _, n := range center {
		if n == nil {
			t.Error("the middle tile of a 3x3 grid should have all 9 neighbors present")
		}
	}
}

func TestSetChunkClampsFinalChunkToRemainder(t *testing.T) {
	m := NewManager(32, 32, 32, 32, OrderLeftToRight, 100)
	m.SetChunk(2, 3) // last of 3 chunks of 100 samples: 33,33,34

	tl := m.Tile(0)
	if tl.StartSample != 66 {
		t.Errorf("StartSample = %d, want 66", tl.StartSample)
	}
	if tl.NumSamples != 34 {
		t.Errorf("NumSamples = %d, want 34 (100-66)", tl.NumSamples)
	}
	if tl.StartSample+tl.NumSamples != 100 {
		t.Error("chunk range must not exceed totalSamples")
	}
}

func TestSetChunkNeverProducesNegativeCount(t *testing.T) {
	m := NewManager(32, 32, 32, 32, OrderLeftToRight, 7)
	m.SetChunk(4, 5) // 7/5 = 1 per chunk, last chunk starts at 4
	tl := m.Tile(0)
	if tl.NumSamples < 0 {
		t.Fatalf("NumSamples = %d, must never be negative", tl.NumSamples)
	}
	if tl.StartSample+tl.NumSamples != 7 {
		t.Errorf("got start=%d count=%d, want them to sum to total 7", tl.StartSample, tl.NumSamples)
	}
}

func TestSetChunkOnlyTouchesPendingTiles(t *testing.T) {
	m := NewManager(64, 32, 32, 32, OrderLeftToRight, 100)
	tl, _ := m.NextTile(AnyDevice) // now Rendering
	before := m.Tile(tl.Index)

	m.SetChunk(1, 2)

	after := m.Tile(tl.Index)
	if after.StartSample != before.StartSample || after.NumSamples != before.NumSamples {
		t.Error("SetChunk must not rewrite the sample range of a tile already in flight")
	}
}

func TestOrderPermutationIsABijection(t *testing.T) {
	for _, order := range []Order{OrderCenter, OrderRightToLeft, OrderLeftToRight, OrderTopToBottom, OrderBottomToTop, OrderHilbert} {
		perm := buildOrder(5, 4, order)
		seen := make([]bool, len(perm))
		for _, idx := range perm {
			if idx < 0 || idx >= len(perm) || seen[idx] {
				t.Fatalf("order %v produced an invalid permutation: %v", order, perm)
			}
			seen[idx] = true
		}
	}
}

func TestCenterOutOrderStartsNearGridCenter(t *testing.T) {
	perm := centerOutOrder(5, 5)
	// Grid center index for a 5x5 grid is (2,2) -> idx 12.
	if perm[0] != 12 {
		t.Errorf("centerOutOrder()[0] = %d, want 12 (the grid center)", perm[0])
	}
}
