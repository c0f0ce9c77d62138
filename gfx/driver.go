package gfx

// NoTimeout makes a wait block until it completes.
const NoTimeout = ^uint64(0)

// InstanceDriver creates and inspects API instances.
type InstanceDriver interface {
	// InstanceExtensions lists the instance extensions the loader offers
	InstanceExtensions() ([]string, error)

	// InstanceLayers lists the installed instance layers
	InstanceLayers() ([]string, error)

	CreateInstance(info InstanceInfo) (Instance, error)
	DestroyInstance(instance Instance)

	// CreateDebugMessenger registers cb for validation messages
	CreateDebugMessenger(instance Instance, cb DebugCallback) (DebugMessenger, error)
	DestroyDebugMessenger(instance Instance, messenger DebugMessenger)

	// SurfaceFromPointer converts the surface handle written by
	// a windowing library at ptr into a Surface
	SurfaceFromPointer(ptr uintptr) Surface
	DestroySurface(instance Instance, surface Surface)
}

// PhysicalDeviceDriver enumerates physical devices and queries their capabilities.
type PhysicalDeviceDriver interface {
	EnumeratePhysicalDevices(instance Instance) ([]PhysicalDevice, error)
	PhysicalDeviceInfo(device PhysicalDevice) PhysicalDeviceInfo
	QueueFamilies(device PhysicalDevice) []QueueFamily

	// SurfaceSupport reports whether family can present to surface
	SurfaceSupport(device PhysicalDevice, family uint32, surface Surface) (bool, error)
	DeviceExtensions(device PhysicalDevice) ([]string, error)

	SurfaceCapabilities(device PhysicalDevice, surface Surface) (SurfaceCapabilities, error)
	SurfaceFormats(device PhysicalDevice, surface Surface) ([]SurfaceFormat, error)
	SurfacePresentModes(device PhysicalDevice, surface Surface) ([]PresentMode, error)
}

// DeviceDriver manages logical devices.
type DeviceDriver interface {
	CreateDevice(physical PhysicalDevice, info DeviceInfo) (Device, error)
	DestroyDevice(device Device)

	// DeviceQueue returns the first queue of family
	DeviceQueue(device Device, family uint32) Queue

	// WaitIdle blocks until all work on device has finished
	WaitIdle(device Device) error
}

// SwapchainDriver manages swapchains and the views of their images.
type SwapchainDriver interface {
	CreateSwapchain(device Device, info SwapchainInfo) (Swapchain, error)
	DestroySwapchain(device Device, swapchain Swapchain)
	SwapchainImages(device Device, swapchain Swapchain) ([]Image, error)

	// CreateImageView creates a 2D color view over a single mip level and layer
	CreateImageView(device Device, image Image, format Format) (ImageView, error)
	DestroyImageView(device Device, view ImageView)
}

// PipelineDriver manages shader modules, render passes, pipelines and framebuffers.
type PipelineDriver interface {
	// CreateShaderModule creates a module from SPIR-V code
	CreateShaderModule(device Device, code []byte) (ShaderModule, error)
	DestroyShaderModule(device Device, module ShaderModule)

	CreateRenderPass(device Device, info RenderPassInfo) (RenderPass, error)
	DestroyRenderPass(device Device, pass RenderPass)

	// CreatePipelineLayout creates a layout without descriptor sets or push constants
	CreatePipelineLayout(device Device) (PipelineLayout, error)
	DestroyPipelineLayout(device Device, layout PipelineLayout)

	CreateGraphicsPipeline(device Device, info GraphicsPipelineInfo) (Pipeline, error)
	DestroyPipeline(device Device, pipeline Pipeline)

	CreateFramebuffer(device Device, info FramebufferInfo) (Framebuffer, error)
	DestroyFramebuffer(device Device, framebuffer Framebuffer)
}

// CommandDriver manages command pools and records command buffers.
type CommandDriver interface {
	CreateCommandPool(device Device, family uint32) (CommandPool, error)
	DestroyCommandPool(device Device, pool CommandPool)

	AllocateCommandBuffers(device Device, pool CommandPool, count int) ([]CommandBuffer, error)
	FreeCommandBuffers(device Device, pool CommandPool, buffers []CommandBuffer)

	// RecordDraw records info into buffer from start to end
	RecordDraw(buffer CommandBuffer, info DrawInfo) error
}

// SyncDriver manages synchronization primitives and the acquire/submit/present cycle.
type SyncDriver interface {
	CreateSemaphore(device Device) (Semaphore, error)
	DestroySemaphore(device Device, semaphore Semaphore)

	CreateFence(device Device, signaled bool) (Fence, error)
	DestroyFence(device Device, fence Fence)

	// WaitForFence blocks for at most timeout nanoseconds, returns ErrTimeout on expiry
	WaitForFence(device Device, fence Fence, timeout uint64) error
	ResetFence(device Device, fence Fence) error

	// AcquireNextImage returns the index of the next presentable image.
	// signal is signaled once the image can be rendered to.
	AcquireNextImage(device Device, swapchain Swapchain, timeout uint64, signal Semaphore) (index uint32, suboptimal bool, err error)

	QueueSubmit(queue Queue, info SubmitInfo) error
	QueuePresent(queue Queue, info PresentInfo) (suboptimal bool, err error)
}

// Driver is a complete GPU backend.
type Driver interface {
	InstanceDriver
	PhysicalDeviceDriver
	DeviceDriver
	SwapchainDriver
	PipelineDriver
	CommandDriver
	SyncDriver
}
