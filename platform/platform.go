// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package platform opens the native windows a context presents into.
package platform

import (
	"unsafe"

	"github.com/devblok/vkboot/core"
	"github.com/pkg/errors"
)

// Window is a native window that can host a Vulkan surface.
type Window interface {
	core.SurfaceProvider

	// ProcAddr returns the vkGetInstanceProcAddr the windowing
	// library loaded, nil when it did not load one
	ProcAddr() unsafe.Pointer
}

// NewWindow opens a window with the backend named in cfg.
func NewWindow(cfg core.WindowConfiguration) (Window, error) {
	switch cfg.Backend {
	case core.BackendSDL:
		return NewSDLWindow(cfg)
	case core.BackendGLFW:
		return NewGLFWWindow(cfg)
	}
	return nil, errors.Errorf("platform: unknown window backend %q", cfg.Backend)
}

func clampSize(w, h int) (uint32, uint32) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return uint32(w), uint32(h)
}
