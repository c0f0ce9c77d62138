// Package gfx defines the rendering features that a GPU backend must implement.
// Everything above this package talks to the hardware only through Driver,
// so the bootstrap can run against Vulkan or against an in-memory fake.
package gfx

// Releasable defines any GPU-occupying item that can be freed.
type Releasable interface {

	// Release frees everything owned by the implementing structure.
	// Calling it more than once has no further effect.
	Release()
}

// ReleaseFunc adapts a plain function to Releasable.
type ReleaseFunc func()

// Release implements interface
func (f ReleaseFunc) Release() {
	f()
}

// Opaque handles of the underlying API. Backends store their native
// handle inside and type-assert it back when it is passed in again.
type (
	Instance       interface{}
	DebugMessenger interface{}
	Surface        interface{}
	PhysicalDevice interface{}
	Device         interface{}
	Queue          interface{}
	Swapchain      interface{}
	Image          interface{}
	ImageView      interface{}
	ShaderModule   interface{}
	RenderPass     interface{}
	PipelineLayout interface{}
	Pipeline       interface{}
	Framebuffer    interface{}
	CommandPool    interface{}
	CommandBuffer  interface{}
	Semaphore      interface{}
	Fence          interface{}
)
