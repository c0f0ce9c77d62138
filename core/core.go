// Package core brings up a Vulkan rendering context and drives its frame loop.
//
// The bootstrap runs InstanceFactory, DeviceSelector, LogicalDeviceFactory,
// SwapchainBuilder, PipelineBuilder, FramebufferSet, CommandExecutor and
// FramePresenter in that order. Context ties them together and tears
// everything down in reverse. All GPU access goes through a gfx.Driver.
package core

import (
	"github.com/devblok/vkboot/gfx"
)

// Renderer describes the rendering machinery.
// It's created only with internal values set,
// it needs to be initialised with Initialise() before use.
type Renderer interface {
	// Initialise sets up the configured rendering pipeline
	Initialise() error

	// Draw renders and presents one frame
	Draw() error

	// Destroy waits for the device and releases everything
	Destroy()
}

// SurfaceProvider is the window a context presents into.
type SurfaceProvider interface {
	// RequiredInstanceExtensions lists the instance extensions
	// needed to create a surface for this window
	RequiredInstanceExtensions() []string

	// CreateSurface creates a surface for instance and returns
	// the address of the written surface handle
	CreateSurface(instance gfx.Instance) (uintptr, error)

	// DrawableSize returns the size of the drawable area in pixels
	DrawableSize() (width, height uint32)

	// ShouldClose reports whether the user asked to close the window
	ShouldClose() bool

	// PollEvents processes pending window events
	PollEvents()

	// Resized reports whether the window changed size since the
	// last call, and clears the flag
	Resized() bool

	// Destroy destroys the window and shuts the windowing library down
	Destroy()
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)

// Stage returns the pipeline stage the shader type runs in.
func (t ShaderType) Stage() gfx.ShaderStage {
	switch t {
	case VertexShaderType:
		return gfx.ShaderStageVertex
	case FragmentShaderType:
		return gfx.ShaderStageFragment
	}
	return 0
}

func (t ShaderType) String() string {
	switch t {
	case VertexShaderType:
		return "vert"
	case FragmentShaderType:
		return "frag"
	}
	return "unknown"
}
