package gfxtest

import (
	"github.com/devblok/vkboot/gfx"
)

// Window is a fake window that never shows anything. It satisfies
// core.SurfaceProvider.
type Window struct {
	Extensions []string
	Width      uint32
	Height     uint32

	// SurfaceErr is returned by CreateSurface when set
	SurfaceErr error

	// CloseAfter closes the window after that many polls, zero never closes
	CloseAfter int

	polls     int
	resized   bool
	surfaces  int
	destroyed bool
}

// NewWindow returns an 800x600 window needing the xlib surface extensions.
func NewWindow() *Window {
	return &Window{
		Extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface"},
		Width:      800,
		Height:     600,
	}
}

// Resize changes the drawable size and raises the resize flag.
func (w *Window) Resize(width, height uint32) {
	w.Width, w.Height = width, height
	w.resized = true
}

// RequiredInstanceExtensions implements interface
func (w *Window) RequiredInstanceExtensions() []string {
	return append([]string(nil), w.Extensions...)
}

// CreateSurface implements interface
func (w *Window) CreateSurface(instance gfx.Instance) (uintptr, error) {
	if w.SurfaceErr != nil {
		return 0, w.SurfaceErr
	}
	w.surfaces++
	return uintptr(0x1000 + w.surfaces), nil
}

// DrawableSize implements interface
func (w *Window) DrawableSize() (uint32, uint32) {
	return w.Width, w.Height
}

// ShouldClose implements interface
func (w *Window) ShouldClose() bool {
	return w.CloseAfter > 0 && w.polls >= w.CloseAfter
}

// PollEvents implements interface
func (w *Window) PollEvents() {
	w.polls++
}

// Polls returns how many times events were polled.
func (w *Window) Polls() int {
	return w.polls
}

// Resized implements interface
func (w *Window) Resized() bool {
	r := w.resized
	w.resized = false
	return r
}

// Destroy implements interface
func (w *Window) Destroy() {
	w.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (w *Window) Destroyed() bool {
	return w.destroyed
}
