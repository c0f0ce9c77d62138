// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package platform

import (
	"unsafe"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// SDLWindow is a window opened with SDL2.
type SDLWindow struct {
	window  *sdl.Window
	logger  *log.Entry
	closed  bool
	resized bool
}

// NewSDLWindow initialises SDL video and opens a Vulkan capable window.
func NewSDLWindow(cfg core.WindowConfiguration) (*SDLWindow, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "sdl.Init()")
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl.VulkanLoadLibrary()")
	}

	flags := uint32(sdl.WINDOW_VULKAN)
	if cfg.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}
	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags)
	if err != nil {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl.CreateWindow()")
	}

	return &SDLWindow{
		window: window,
		logger: log.WithField("component", "sdl"),
	}, nil
}

// ProcAddr implements interface
func (s *SDLWindow) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// RequiredInstanceExtensions implements interface
func (s *SDLWindow) RequiredInstanceExtensions() []string {
	return s.window.VulkanGetInstanceExtensions()
}

// CreateSurface implements interface
func (s *SDLWindow) CreateSurface(instance gfx.Instance) (uintptr, error) {
	surface, err := s.window.VulkanCreateSurface(instance)
	if err != nil {
		return 0, errors.Wrap(err, "sdl.Window.VulkanCreateSurface()")
	}
	return uintptr(surface), nil
}

// DrawableSize implements interface
func (s *SDLWindow) DrawableSize() (uint32, uint32) {
	if s.window.GetFlags()&sdl.WINDOW_MINIMIZED != 0 {
		return 0, 0
	}
	w, h := s.window.VulkanGetDrawableSize()
	return clampSize(int(w), int(h))
}

// ShouldClose implements interface
func (s *SDLWindow) ShouldClose() bool {
	return s.closed
}

// PollEvents implements interface
func (s *SDLWindow) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.QuitEvent:
			s.closed = true
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				s.closed = true
			}
		case *sdl.WindowEvent:
			switch et.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_MINIMIZED, sdl.WINDOWEVENT_RESTORED:
				s.logger.WithField("event", et.Event).Debug("window size changed")
				s.resized = true
			}
		}
	}
}

// Resized implements interface
func (s *SDLWindow) Resized() bool {
	r := s.resized
	s.resized = false
	return r
}

// Destroy implements interface
func (s *SDLWindow) Destroy() {
	if s.window == nil {
		return
	}
	if err := s.window.Destroy(); err != nil {
		s.logger.WithError(err).Warn("destroying window")
	}
	s.window = nil
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}
