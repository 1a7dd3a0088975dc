// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"context"
	"time"

	"github.com/gocycles/cycles/device"
)

// runCPU is the CPU control loop (§4.K.2): tonemap/reset work that the
// GPU path does immediately happens here via consumeDelayedReset at the
// top of each iteration instead, keeping render buffers untouched while
// a device task might still be reading them.
func (s *Session) runCPU(ctx context.Context) error {
	for {
		if s.shouldStop(ctx) {
			return s.finish()
		}

		s.consumeDelayedReset()

		if s.waitWhilePausedOrIdle(ctx) {
			return s.finish()
		}

		rt, ok := s.acquireTile(0)
		if !ok {
			if s.Params.Background {
				return s.finish()
			}
			s.parkUntilSignalled(ctx)
			continue
		}

		if err := s.updateScene(ctx); err != nil {
			s.Progress.SetError(err.Error())
			s.releaseTile(rt)
			return s.finish()
		}

		if err := s.renderTile(ctx, rt); err != nil {
			s.releaseTile(rt)
			return s.finish()
		}

		s.releaseTile(rt)
		s.maybeUpdate()
	}
}

// runGPU is the GPU-like loop (§4.K.1): viewport and async devices. The
// session submits a task and waits for the device to finish the current
// sample set before moving on; there is no delayed-reset staging since
// resets are applied immediately under the buffer/display locks.
func (s *Session) runGPU(ctx context.Context) error {
	for {
		if s.shouldStop(ctx) {
			return s.finish()
		}

		if s.waitWhilePausedOrIdle(ctx) {
			return s.finish()
		}

		rt, ok := s.acquireTile(0)
		if !ok {
			if s.Params.Background {
				return s.finish()
			}
			s.parkUntilSignalled(ctx)
			continue
		}

		if err := s.updateScene(ctx); err != nil {
			s.Progress.SetError(err.Error())
			s.releaseTile(rt)
			return s.finish()
		}

		if err := s.renderTile(ctx, rt); err != nil {
			s.releaseTile(rt)
			return s.finish()
		}
		if err := s.driver.TaskWait(ctx); err != nil {
			s.releaseTile(rt)
			return s.finish()
		}

		s.releaseTile(rt)
		s.maybeUpdate()
	}
}

func (s *Session) shouldStop(ctx context.Context) bool {
	return ctx.Err() != nil || s.Progress.Cancelled() || s.driver.GetCancel()
}

// waitWhilePausedOrIdle parks the loop on the pause condition variable
// while interactive rendering is paused, returning true if the session
// should stop instead of continuing to wait.
func (s *Session) waitWhilePausedOrIdle(ctx context.Context) bool {
	if s.Params.Background {
		return false
	}
	s.pauseMu.Lock()
	for s.paused {
		s.pauseCond.Wait()
		if s.shouldStop(ctx) {
			s.pauseMu.Unlock()
			return true
		}
	}
	s.pauseMu.Unlock()
	return false
}

// parkUntilSignalled blocks until SetSamples, RequestReset, or Cancel
// broadcasts the pause condition — the "no more tiles yet" wait an
// interactive session uses instead of busy-polling.
func (s *Session) parkUntilSignalled(ctx context.Context) {
	s.pauseMu.Lock()
	s.pauseCond.Wait()
	s.pauseMu.Unlock()
}

func (s *Session) updateScene(ctx context.Context) error {
	if s.UpdateSceneCB == nil {
		return nil
	}
	since := time.Now()
	err := s.UpdateSceneCB(ctx)
	// update_scene may be heavy; its time is skipped in progress, per
	// §4.K.1's "timer is skipped in progress" note.
	s.Progress.AddSkipTime(since, false)
	return err
}

// renderTile submits one Render task for rt and records the samples it
// produced against progress.
func (s *Session) renderTile(ctx context.Context, rt RenderTile) error {
	task := device.Task{
		Kind:        device.TaskRender,
		X:           rt.X,
		Y:           rt.Y,
		W:           rt.W,
		H:           rt.H,
		BufferPtr:   rt.Buffer,
		SampleIndex: rt.StartSample,
		NumSamples:  rt.NumSamples,
		Denoise: device.DenoiseParams{
			Enabled: s.Params.UseDenoising && rt.Task != device.TaskRender,
		},
	}

	if err := s.driver.SubmitTask(ctx, task); err != nil {
		// A submission that fails while the session is still live is a
		// device error: record it so finish reports the render as failed.
		if ctx.Err() == nil && err != device.ErrCancelled {
			s.Progress.SetError(err.Error())
		}
		return err
	}

	// A Render task covers a tile's whole chunk of samples in one
	// device submission (sample-by-sample stepping is kernel-level
	// work, out of scope here), so every renderTile call is the "last
	// sample of a tile" case and fires the update immediately.
	pixelSamples := uint64(rt.W) * uint64(rt.H) * uint64(rt.NumSamples)
	s.Progress.AddSamplesUpdate(pixelSamples, rt.StartSample+rt.NumSamples)
	return nil
}

// maybeUpdate fires the throttled progress update at most once per
// ProgressiveUpdate interval — the "at most once per
// progressive_update_timeout seconds, or immediately on last sample of
// a tile" rule from §4.K.4 (the immediate half is handled by
// AddSamplesUpdate in renderTile above).
func (s *Session) maybeUpdate() {
	now := time.Now()
	if now.Sub(s.lastUpdate) < s.Params.ProgressiveUpdate {
		return
	}
	s.lastUpdate = now
	status, substatus := s.Progress.Status()
	s.Progress.SetStatus(status, substatus)
}

func (s *Session) finish() error {
	if s.Progress.Cancelled() {
		s.Progress.SetStatus("Cancel", s.Progress.CancelMessage())
		return ErrCancelled
	}
	s.Progress.SetStatus("Finished", "")
	return nil
}
