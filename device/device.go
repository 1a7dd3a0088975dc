// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device defines the render device contract a session drives:
// task submission, cancellation, and the GPU/CPU handle a caller
// supplies to get compute resources shared with the rest of their
// application.
package device

import (
	"context"
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Handle provides device access from the host application to a
// session. A session never creates a device; it receives one, so GPU
// resources stay shared with whatever else the host is doing with
// that device.
//
// Handle is an alias for gpucontext.DeviceProvider, giving this domain
// its own name for the interface while staying fully interchangeable
// with anything else built against gpucontext.
type Handle = gpucontext.DeviceProvider

// NullHandle is a Handle with nil implementations throughout, used for
// CPU-only rendering where no GPU is present.
type NullHandle struct{}

func (NullHandle) Device() gpucontext.Device   { return nil }
func (NullHandle) Queue() gpucontext.Queue     { return nil }
func (NullHandle) Adapter() gpucontext.Adapter { return nil }
func (NullHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ Handle = NullHandle{}

// Kind selects the run loop a session drives a device with: the GPU-like
// loop (viewport & async devices, §4.K.1) or the CPU loop (§4.K.2).
type Kind int

const (
	KindCPU Kind = iota
	KindGPU
)

// TaskKind is the unit of work a session hands to a device.
type TaskKind int

const (
	TaskRender TaskKind = iota
	TaskFilmConvert
	TaskShader
)

func (k TaskKind) String() string {
	switch k {
	case TaskRender:
		return "Render"
	case TaskFilmConvert:
		return "FilmConvert"
	case TaskShader:
		return "Shader"
	default:
		return "Unknown"
	}
}

// ShaderEvalType selects what a Shader task evaluates, mirroring the
// background-shader-evaluation modes a device kernel supports.
type ShaderEvalType int

const (
	ShaderEvalDisplace ShaderEvalType = iota
	ShaderEvalBackground
	ShaderEvalCurveShadowTransparency
)

// Task carries one unit of device work; fields not used by a given
// Kind are left at their zero value. Pointer fields model the
// original's raw buffer pointers — a device implementation reads or
// writes through them without copying whole buffers across the
// session/device boundary.
type Task struct {
	Kind TaskKind

	X, Y, W, H int

	RGBABytePtr []uint8
	RGBAHalfPtr []uint16
	BufferPtr   []float32

	SampleIndex int
	NumSamples  int
	Offset      int
	Stride      int

	ShaderInputPtr  []float32
	ShaderOutputPtr []float32
	ShaderEvalType  ShaderEvalType
	ShaderFilter    bool
	ShaderX         int
	ShaderW         int

	PassesSize int

	Denoise DenoiseParams
}

// DenoiseParams carries the optional denoise-specific fields a Render
// task needs when a tile has reached the NeedDenoise state.
type DenoiseParams struct {
	Enabled    bool
	Radius     int
	StrengthFn func(sampleIndex int) float32
}

// ErrCancelled is returned by task submission/wait when the device or
// the caller's context cancelled the task before it completed. It is
// not a device error: callers treat it as a non-error early exit, per
// the cancel/error taxonomy.
var ErrCancelled = errors.New("device: task cancelled")

// Driver is what a session expects from any render device: submit
// work, wait for it, and cancel it cooperatively. A concrete device
// back-end (CPU kernel pool, GPU compute pipeline) implements this;
// none is provided here — kernels and device back-ends are out of
// scope for this module, only the contract is.
type Driver interface {
	// Kind reports which session run loop this driver expects to be
	// driven by.
	Kind() Kind

	// Capabilities reports static limits used by session setup to
	// size buffers and choose tile dimensions.
	Capabilities() Capabilities

	// SubmitTask enqueues task for execution and returns once the
	// device has accepted it (not once it has completed — see
	// TaskWait). It must return ctx.Err() if ctx is already
	// cancelled.
	SubmitTask(ctx context.Context, task Task) error

	// TaskWait blocks until every task submitted so far has completed,
	// or returns ErrCancelled if TaskCancel was called meanwhile.
	TaskWait(ctx context.Context) error

	// TaskCancel requests that in-flight and queued tasks stop as soon
	// as they next poll cancellation.
	TaskCancel()

	// GetCancel reports whether TaskCancel has been called — a device
	// kernel loop polls this alongside its own work.
	GetCancel() bool
}

// Capabilities describes the limits of a render device relevant to
// session setup — how large a tile it can process, and whether it
// supports denoising.
type Capabilities struct {
	MaxTextureSize uint32
	SupportsDenoise bool
	VendorName      string
	DeviceName      string
}
