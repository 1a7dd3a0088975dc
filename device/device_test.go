// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNullHandleReturnsNilThroughout(t *testing.T) {
	var h Handle = NullHandle{}
	if h.Device() != nil {
		t.Error("NullHandle.Device() should be nil")
	}
	if h.Queue() != nil {
		t.Error("NullHandle.Queue() should be nil")
	}
	if h.Adapter() != nil {
		t.Error("NullHandle.Adapter() should be nil")
	}
	if h.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("NullHandle.SurfaceFormat() = %v, want Undefined", h.SurfaceFormat())
	}
}

func TestTaskKindString(t *testing.T) {
	cases := map[TaskKind]string{
		TaskRender:      "Render",
		TaskFilmConvert: "FilmConvert",
		TaskShader:      "Shader",
		TaskKind(99):    "Unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
