// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package platform

import (
	"unsafe"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/gfx"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// GLFWWindow is a window opened with GLFW.
type GLFWWindow struct {
	window  *glfw.Window
	logger  *log.Entry
	resized bool
}

// NewGLFWWindow initialises GLFW and opens a window without a client API.
func NewGLFWWindow(cfg core.WindowConfiguration) (*GLFWWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw.Init()")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, errors.New("glfw: Vulkan loader not found")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	window, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "glfw.CreateWindow()")
	}

	w := &GLFWWindow{
		window: window,
		logger: log.WithField("component", "glfw"),
	}
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.logger.WithFields(log.Fields{"width": width, "height": height}).Debug("framebuffer resized")
		w.resized = true
	})
	window.SetKeyCallback(func(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
		}
	})
	return w, nil
}

// ProcAddr implements interface
func (g *GLFWWindow) ProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// RequiredInstanceExtensions implements interface
func (g *GLFWWindow) RequiredInstanceExtensions() []string {
	return g.window.GetRequiredInstanceExtensions()
}

// CreateSurface implements interface
func (g *GLFWWindow) CreateSurface(instance gfx.Instance) (uintptr, error) {
	surface, err := g.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return 0, errors.Wrap(err, "glfw.Window.CreateWindowSurface()")
	}
	return surface, nil
}

// DrawableSize implements interface
func (g *GLFWWindow) DrawableSize() (uint32, uint32) {
	return clampSize(g.window.GetFramebufferSize())
}

// ShouldClose implements interface
func (g *GLFWWindow) ShouldClose() bool {
	return g.window.ShouldClose()
}

// PollEvents implements interface
func (g *GLFWWindow) PollEvents() {
	glfw.PollEvents()
}

// Resized implements interface
func (g *GLFWWindow) Resized() bool {
	r := g.resized
	g.resized = false
	return r
}

// Destroy implements interface
func (g *GLFWWindow) Destroy() {
	if g.window == nil {
		return
	}
	g.window.Destroy()
	g.window = nil
	glfw.Terminate()
}
