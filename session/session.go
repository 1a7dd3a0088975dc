// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package session runs the render control loop: it owns the tile
// manager, the progress object, and the render buffers, and dispatches
// tile work to a device driver until every tile reaches Done.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gocycles/cycles/device"
	"github.com/gocycles/cycles/progress"
	"github.com/gocycles/cycles/tile"
)

// ErrCancelled is returned by Wait when the session stopped because of
// a cancel rather than running every tile to completion. Per the error
// taxonomy, this is not logged as an error — callers treat it as an
// early, non-error exit.
var ErrCancelled = errors.New("session: cancelled")

// BufferParams describes the target image a session renders into.
// Pixel storage itself (RenderBuffers/DisplayBuffer) is out of scope;
// only the dimensions a tile grid is built from are modeled here.
type BufferParams struct {
	Width, Height int
}

// Equal reports whether two BufferParams describe the same grid.
func (p BufferParams) Equal(o BufferParams) bool {
	return p.Width == o.Width && p.Height == o.Height
}

// Params mirrors the original's SessionParams: everything that shapes
// how a session schedules and reports work, independent of the scene
// being rendered.
type Params struct {
	Background         bool
	ProgressiveRefine  bool
	Progressive        bool
	Samples            int
	TileSize           [2]int
	TileOrder          tile.Order
	StartResolution    int
	PixelSize          int
	Threads            int
	UseDenoising       bool
	DenoisePerChunk    bool // 4.K supplement, resolves Open Question 3
	CancelTimeout      time.Duration
	ResetTimeout       time.Duration
	TextTimeout        time.Duration
	ProgressiveUpdate  time.Duration
}

// DefaultParams returns Params with the original's defaults translated
// to Go idioms (int2(64,64) tile size, TILE_CENTER order, 0.1s/1.0s
// timeouts).
func DefaultParams() Params {
	return Params{
		TileSize:          [2]int{64, 64},
		TileOrder:         tile.OrderCenter,
		StartResolution:   1 << 30,
		PixelSize:         1,
		CancelTimeout:     100 * time.Millisecond,
		ResetTimeout:      100 * time.Millisecond,
		TextTimeout:       time.Second,
		ProgressiveUpdate: time.Second,
	}
}

// UpdateSceneFunc resyncs scene state to the device before a render
// iteration; potentially heavy, so the session does not charge the
// time it takes against progress timing.
type UpdateSceneFunc func(ctx context.Context) error

// WriteRenderTileFunc is invoked once a tile reaches Done, for callers
// that want to persist tiles to a file as they finish (background mode
// with an output path) rather than waiting for the whole image.
type WriteRenderTileFunc func(RenderTile)

// UpdateRenderTileFunc is invoked on tile progress short of Done —
// "keep displayed" signals the tile's buffer is still needed for
// display even though this particular update didn't finish it.
type UpdateRenderTileFunc func(t RenderTile, keepDisplayed bool)

// delayedReset holds a pending CPU-path reset: the requester fills
// this in and signals the session thread, which applies it at the top
// of its next loop iteration rather than racing a live device task.
type delayedReset struct {
	mu      sync.Mutex
	pending bool
	params  BufferParams
	samples int
}

// Session owns one render control loop driving one device.Driver.
type Session struct {
	ID uuid.UUID

	Params   Params
	Progress *progress.Progress

	WriteRenderTileCB  WriteRenderTileFunc
	UpdateRenderTileCB UpdateRenderTileFunc
	UpdateSceneCB      UpdateSceneFunc

	driver device.Driver

	tiles        *tile.Manager
	buffers      BufferParams
	totalSamples int

	// Mutex discipline, acquired in this order when more than one is
	// held at once: delayedReset.mu, buffersMu, displayMu, tiles' own
	// internal mutex, pauseMu, then Progress's internal mutex.
	buffersMu sync.Mutex
	displayMu sync.Mutex

	delayedReset delayedReset

	pauseMu        sync.Mutex
	pauseCond      *sync.Cond
	paused         bool
	pauseStartedAt time.Time

	tileBuffers   map[int][]float32 // transient per-tile buffers, keyed by tile index
	tileBuffersMu sync.Mutex

	lastUpdate time.Time

	cancel context.CancelFunc
	done   chan struct{}
	runErr error
}

// New constructs a Session for buffers, scheduling tileSamples total
// samples per pixel across driver. The session does not start its loop
// until Start is called.
func New(driver device.Driver, params Params, buffers BufferParams, tileSamples int) *Session {
	s := &Session{
		ID:           uuid.New(),
		Params:       params,
		Progress:     progress.New(),
		driver:       driver,
		buffers:      buffers,
		totalSamples: tileSamples,
		tileBuffers:  make(map[int][]float32),
	}
	s.pauseCond = sync.NewCond(&s.pauseMu)
	s.tiles = tile.NewManager(buffers.Width, buffers.Height, params.TileSize[0], params.TileSize[1], params.TileOrder, tileSamples)
	s.tiles.SetScheduleDenoising(params.UseDenoising)
	s.Progress.SetTotalPixelSamples(uint64(buffers.Width) * uint64(buffers.Height) * uint64(tileSamples))
	return s
}

// Start launches the session's control loop in its own goroutine. The
// loop selects CPU or GPU scheduling by driver.Kind().
func (s *Session) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.Progress.SetStartTime()
	s.Progress.SetRenderStartTime()
	s.Progress.SetCancelProbe(func() bool { return ctx.Err() != nil })

	go func() {
		defer close(s.done)
		if s.driver.Kind() == device.KindGPU {
			s.runErr = s.runGPU(ctx)
		} else {
			s.runErr = s.runCPU(ctx)
		}
	}()
}

// Wait blocks until the control loop exits, returning ErrCancelled if
// it exited via cancellation rather than finishing every tile.
func (s *Session) Wait() error {
	<-s.done
	s.Progress.SetEndTime()
	return s.runErr
}

// Cancel requests the session stop as soon as it next polls
// cancellation, with reason recorded on Progress.
func (s *Session) Cancel(reason string) {
	s.Progress.SetCancel(reason)
	if s.cancel != nil {
		s.cancel()
	}
	s.pauseMu.Lock()
	s.pauseCond.Broadcast()
	s.pauseMu.Unlock()
}

// SetPause flips the pause flag; while paused the loop parks on the
// pause condition variable and the session accumulates skip time so
// elapsed-time reporting stays meaningful across the pause.
func (s *Session) SetPause(pause bool) {
	s.pauseMu.Lock()
	wasPaused := s.paused
	var pauseStarted time.Time
	if pause && !wasPaused {
		s.pauseStartedAt = time.Now()
	}
	if !pause && wasPaused {
		pauseStarted = s.pauseStartedAt
	}
	s.paused = pause
	s.pauseCond.Broadcast()
	s.pauseMu.Unlock()

	if wasPaused && !pause {
		s.Progress.AddSkipTime(pauseStarted, false)
	}
	status := "Rendering"
	if pause {
		status = "Paused"
	}
	s.Progress.SetStatus(status, "")
}

// SetSamples increases the total sample target. Per §4.K.5, a decrease
// is ignored — it would invalidate progress already reported and the
// resumable-chunk math — and an increase wakes the loop if it was
// parked on "no more tiles".
func (s *Session) SetSamples(samples int) {
	s.buffersMu.Lock()
	if samples <= s.totalSamples {
		s.buffersMu.Unlock()
		return
	}
	s.totalSamples = samples
	s.buffersMu.Unlock()

	s.applyReset(s.buffers, samples)

	s.pauseMu.Lock()
	s.pauseCond.Broadcast()
	s.pauseMu.Unlock()
}

// RequestReset stages a new buffer grid and sample count to be applied
// at the top of the loop's next iteration (CPU path) rather than
// mutating a grid a device task may still be reading.
func (s *Session) RequestReset(buffers BufferParams, samples int) {
	s.delayedReset.mu.Lock()
	s.delayedReset.pending = true
	s.delayedReset.params = buffers
	s.delayedReset.samples = samples
	s.delayedReset.mu.Unlock()

	if s.driver.Kind() == device.KindGPU {
		// GPU path applies immediately under the buffer/display locks
		// rather than deferring, since there is no separate device
		// task in flight between loop iterations the way CPU dispatch
		// assumes.
		s.applyReset(buffers, samples)
	}

	s.pauseMu.Lock()
	s.pauseCond.Broadcast()
	s.pauseMu.Unlock()
}

func (s *Session) applyReset(buffers BufferParams, samples int) {
	s.buffersMu.Lock()
	s.displayMu.Lock()
	defer s.displayMu.Unlock()
	defer s.buffersMu.Unlock()

	s.buffers = buffers
	s.totalSamples = samples
	s.tiles.Reset(buffers.Width, buffers.Height, s.Params.TileSize[0], s.Params.TileSize[1], s.Params.TileOrder, samples)
	s.tiles.SetScheduleDenoising(s.Params.UseDenoising)
	s.tileBuffersMu.Lock()
	s.tileBuffers = make(map[int][]float32)
	s.tileBuffersMu.Unlock()

	s.Progress.ResetSample()
	s.Progress.SetTotalPixelSamples(uint64(buffers.Width) * uint64(buffers.Height) * uint64(samples))
	s.Progress.SetRenderStartTime()
}

func (s *Session) consumeDelayedReset() {
	s.delayedReset.mu.Lock()
	if !s.delayedReset.pending {
		s.delayedReset.mu.Unlock()
		return
	}
	buffers, samples := s.delayedReset.params, s.delayedReset.samples
	s.delayedReset.pending = false
	s.delayedReset.mu.Unlock()

	s.applyReset(buffers, samples)
}

// Fraction reports overall progress in [0, 1], or 0 if no total is
// known yet.
func (s *Session) Fraction() float64 { return s.Progress.Fraction() }
