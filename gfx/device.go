package gfx

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            uint32
	VendorID      uint32
	DriverVersion uint32
	APIVersion    uint32
	Name          string
	Type          DeviceType
	Memory        uint64
}

// InstanceInfo is everything needed to create an API instance.
// Names are given without a terminating NUL.
type InstanceInfo struct {
	ApplicationName string
	EngineName      string
	Extensions      []string
	Layers          []string
}

// DeviceInfo is everything needed to create a logical device.
// One queue is created for every entry of QueueFamilies.
type DeviceInfo struct {
	QueueFamilies []uint32
	Extensions    []string
	Layers        []string
}

// SwapchainInfo describes the image chain to create for a surface.
type SwapchainInfo struct {
	Surface            Surface
	MinImageCount      uint32
	Format             SurfaceFormat
	Extent             Extent2D
	PresentMode        PresentMode
	SharingMode        SharingMode
	QueueFamilyIndices []uint32
	PreTransform       SurfaceTransform
	CompositeAlpha     CompositeAlpha
	Clipped            bool
	OldSwapchain       Swapchain
}

// AttachmentDescription describes one render pass attachment.
type AttachmentDescription struct {
	Format         Format
	Samples        SampleCount
	LoadOp         AttachmentLoadOp
	StoreOp        AttachmentStoreOp
	StencilLoadOp  AttachmentLoadOp
	StencilStoreOp AttachmentStoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

// AttachmentReference points a subpass at an attachment.
type AttachmentReference struct {
	Attachment uint32
	Layout     ImageLayout
}

// SubpassDescription is a graphics subpass.
type SubpassDescription struct {
	ColorAttachments []AttachmentReference
}

// SubpassDependency orders work between subpasses.
type SubpassDependency struct {
	SrcSubpass    uint32
	DstSubpass    uint32
	SrcStageMask  PipelineStage
	DstStageMask  PipelineStage
	SrcAccessMask Access
	DstAccessMask Access
}

// RenderPassInfo describes a render pass.
type RenderPassInfo struct {
	Attachments  []AttachmentDescription
	Subpasses    []SubpassDescription
	Dependencies []SubpassDependency
}

// ShaderStageInfo binds a shader module to a pipeline stage.
type ShaderStageInfo struct {
	Stage      ShaderStage
	Module     ShaderModule
	EntryPoint string
}

// ColorBlendAttachment is the blend state of one color attachment.
type ColorBlendAttachment struct {
	BlendEnable    bool
	ColorWriteMask ColorComponent
}

// GraphicsPipelineInfo describes a graphics pipeline with static state.
// Vertex input is always empty, geometry comes from the shaders.
type GraphicsPipelineInfo struct {
	Stages      []ShaderStageInfo
	Topology    PrimitiveTopology
	Viewport    Viewport
	Scissor     Rect2D
	PolygonMode PolygonMode
	CullMode    CullMode
	FrontFace   FrontFace
	LineWidth   float32
	Samples     SampleCount
	DepthTest   bool
	Blend       ColorBlendAttachment
	Layout      PipelineLayout
	RenderPass  RenderPass
	Subpass     uint32
}

// FramebufferInfo binds image views to a render pass.
type FramebufferInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Extent      Extent2D
	Layers      uint32
}

// DrawInfo is the content of a statically recorded command buffer:
// one render pass instance with a single non-indexed draw.
type DrawInfo struct {
	RenderPass    RenderPass
	Framebuffer   Framebuffer
	Pipeline      Pipeline
	RenderArea    Rect2D
	ClearColor    [4]float32
	VertexCount   uint32
	InstanceCount uint32
}

// SubmitInfo is one queue submission.
type SubmitInfo struct {
	WaitSemaphores   []Semaphore
	WaitStages       []PipelineStage
	CommandBuffers   []CommandBuffer
	SignalSemaphores []Semaphore
	Fence            Fence
}

// PresentInfo is one presentation request.
type PresentInfo struct {
	WaitSemaphores []Semaphore
	Swapchain      Swapchain
	ImageIndex     uint32
}
