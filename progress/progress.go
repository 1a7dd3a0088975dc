// Package progress provides cancellable, throttled status and timing
// reporting shared by BVH builds and render sessions.
package progress

import (
	"sync"
	"time"
)

// Progress communicates status messages, timing, and cancellation
// between a job running on another goroutine and whatever is watching
// it (a CLI, a UI). Every exported method is safe for concurrent use.
type Progress struct {
	mu sync.Mutex

	pixelSamples      uint64
	totalPixelSamples uint64
	currentTileSample int
	renderedTiles     int
	denoisedTiles     int

	startTime       time.Time
	renderStartTime time.Time
	endTime         time.Time

	status, substatus         string
	syncStatus, syncSubstatus string
	kernelStatus              string

	cancelled     bool
	cancelMessage string
	cancelProbe   func() bool

	failed       bool
	errorMessage string

	updateMu sync.Mutex
	onUpdate func()
}

// New returns a Progress ready for a fresh job, with its clocks started.
func New() *Progress {
	p := &Progress{}
	p.Reset()
	return p
}

// Reset restores a Progress to its initial state, restarting both
// clocks — used when a session begins rendering a new scene rather than
// resuming the current one.
func (p *Progress) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.pixelSamples = 0
	p.totalPixelSamples = 0
	p.currentTileSample = 0
	p.renderedTiles = 0
	p.denoisedTiles = 0
	p.startTime = now
	p.renderStartTime = now
	p.endTime = time.Time{}
	p.status = "Initializing"
	p.substatus = ""
	p.syncStatus = ""
	p.syncSubstatus = ""
	p.kernelStatus = ""
	p.cancelled = false
	p.cancelMessage = ""
	p.failed = false
	p.errorMessage = ""
}

// ResetSample clears only the per-sample counters, used when a session
// restarts sampling without discarding elapsed-time accounting (e.g.
// after a parameter change that doesn't require a full Reset).
func (p *Progress) ResetSample() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pixelSamples = 0
	p.currentTileSample = 0
	p.renderedTiles = 0
	p.denoisedTiles = 0
}

// --- cancellation ---

// SetCancel marks the job cancelled with a human-readable reason.
func (p *Progress) SetCancel(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelMessage = message
	p.cancelled = true
}

// SetCancelProbe installs a callback Cancelled polls in addition to the
// sticky cancelled flag — used to wire an external cancellation source
// (e.g. a context.Context) without requiring every caller to also plumb
// a context through.
func (p *Progress) SetCancelProbe(probe func() bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelProbe = probe
}

// Cancelled reports whether the job has been cancelled, either directly
// or via the installed cancel probe.
func (p *Progress) Cancelled() bool {
	p.mu.Lock()
	cancelled, probe := p.cancelled, p.cancelProbe
	p.mu.Unlock()

	if !cancelled && probe != nil && probe() {
		p.mu.Lock()
		p.cancelled = true
		p.mu.Unlock()
		return true
	}
	return cancelled
}

// CancelMessage returns the reason the job was cancelled.
func (p *Progress) CancelMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelMessage
}

// --- error ---

// SetError marks the job failed with message and implies cancellation —
// a render that failed should stop, not keep producing samples.
func (p *Progress) SetError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errorMessage = message
	p.failed = true
	p.cancelMessage = message
	p.cancelled = true
}

// Failed reports whether SetError has been called.
func (p *Progress) Failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// ErrorMessage returns the reason SetError was called.
func (p *Progress) ErrorMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errorMessage
}

// --- timing ---

// SetStartTime resets the total-elapsed-time clock, clearing any
// previously recorded end time.
func (p *Progress) SetStartTime() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startTime = time.Now()
	p.endTime = time.Time{}
}

// SetRenderStartTime resets the render-elapsed-time clock independently
// of the total clock, so sync/setup time can be excluded from "time
// spent rendering" while still counting toward total elapsed time.
func (p *Progress) SetRenderStartTime() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderStartTime = time.Now()
}

// AddSkipTime shifts both clocks forward by the time elapsed since
// since, so a pause (or any other span that shouldn't count as either
// render or total time) doesn't inflate reported elapsed time. When
// onlyRender is true, only the render clock is shifted — used when the
// skipped interval was setup/sync work that should still count against
// total wall time.
func (p *Progress) AddSkipTime(since time.Time, onlyRender bool) {
	skip := time.Since(since)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderStartTime = p.renderStartTime.Add(skip)
	if !onlyRender {
		p.startTime = p.startTime.Add(skip)
	}
}

// SetEndTime fixes the end time so repeated time queries don't keep
// advancing once the job has actually finished.
func (p *Progress) SetEndTime() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endTime = time.Now()
}

// Elapsed returns the total elapsed time and the render-only elapsed
// time, both measured against SetEndTime's fixed point once set.
func (p *Progress) Elapsed() (total, render time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if !p.endTime.IsZero() {
		now = p.endTime
	}
	return now.Sub(p.startTime), now.Sub(p.renderStartTime)
}

// --- samples and tiles ---

// SetTotalPixelSamples sets the denominator Fraction uses to compute
// completion ratio.
func (p *Progress) SetTotalPixelSamples(total uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.totalPixelSamples = total
}

// Fraction returns the job's completion ratio in [0, 1], or 0 if no
// total has been set yet.
func (p *Progress) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.totalPixelSamples == 0 {
		return 0
	}
	return float64(p.pixelSamples) / float64(p.totalPixelSamples)
}

// AddSamples records pixelSamples additional pixel-samples rendered and
// the current tile's running per-pixel sample count.
func (p *Progress) AddSamples(pixelSamples uint64, tileSample int) {
	p.mu.Lock()
	p.pixelSamples += pixelSamples
	p.currentTileSample = tileSample
	p.mu.Unlock()
}

// AddSamplesUpdate is AddSamples followed by firing the update
// callback — the common case for a worker reporting progress inline.
func (p *Progress) AddSamplesUpdate(pixelSamples uint64, tileSample int) {
	p.AddSamples(pixelSamples, tileSample)
	p.fireUpdate()
}

// AddFinishedTile records one more tile completed, either rendered or
// denoised.
func (p *Progress) AddFinishedTile(denoised bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if denoised {
		p.denoisedTiles++
	} else {
		p.renderedTiles++
	}
}

// CurrentTileSample returns the last-reported per-pixel sample count.
// Only meaningful when a single tile is actively rendering.
func (p *Progress) CurrentTileSample() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentTileSample
}

// RenderedTiles returns the count of tiles that finished rendering
// (denoising not included).
func (p *Progress) RenderedTiles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderedTiles
}

// DenoisedTiles returns the count of tiles that finished denoising.
func (p *Progress) DenoisedTiles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.denoisedTiles
}

// --- status messages ---

// SetStatus sets the primary status/substatus pair and fires the update
// callback.
func (p *Progress) SetStatus(status, substatus string) {
	p.mu.Lock()
	p.status, p.substatus = status, substatus
	p.mu.Unlock()
	p.fireUpdate()
}

// SetSubstatus updates only the substatus and fires the update callback.
func (p *Progress) SetSubstatus(substatus string) {
	p.mu.Lock()
	p.substatus = substatus
	p.mu.Unlock()
	p.fireUpdate()
}

// SetSyncStatus sets the sync-phase status/substatus pair, which takes
// priority over the primary pair in Status until cleared (set to "").
func (p *Progress) SetSyncStatus(status, substatus string) {
	p.mu.Lock()
	p.syncStatus, p.syncSubstatus = status, substatus
	p.mu.Unlock()
	p.fireUpdate()
}

// Status returns the status/substatus pair a caller should display: the
// sync pair if one is set, otherwise the primary pair.
func (p *Progress) Status() (status, substatus string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syncStatus != "" {
		return p.syncStatus, p.syncSubstatus
	}
	return p.status, p.substatus
}

// SetKernelStatus sets the active device kernel's name for display.
func (p *Progress) SetKernelStatus(status string) {
	p.mu.Lock()
	p.kernelStatus = status
	p.mu.Unlock()
	p.fireUpdate()
}

// KernelStatus returns the active device kernel's name.
func (p *Progress) KernelStatus() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kernelStatus
}

// --- update callback ---

// SetUpdateCallback installs the function fired on every status,
// sample, or kernel-status change. The callback runs under a dedicated
// mutex distinct from the one guarding Progress's fields, so a callback
// that reads Progress (e.g. Status) cannot deadlock against the very
// update that triggered it; a callback must not itself call a method
// that fires the update callback.
func (p *Progress) SetUpdateCallback(fn func()) {
	p.updateMu.Lock()
	p.onUpdate = fn
	p.updateMu.Unlock()
}

func (p *Progress) fireUpdate() {
	p.updateMu.Lock()
	defer p.updateMu.Unlock()
	if p.onUpdate != nil {
		p.onUpdate()
	}
}
