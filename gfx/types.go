package gfx

import (
	"fmt"
	"math"
)

// Enumerant values below equal their Vulkan counterparts, so a backend
// can convert them with a plain type conversion.

// Format is a pixel format of an image.
type Format uint32

// Formats in use by the presentation path
const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Srgb  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "UNDEFINED"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case FormatR8G8B8A8Srgb:
		return "R8G8B8A8_SRGB"
	case FormatB8G8R8A8Unorm:
		return "B8G8R8A8_UNORM"
	case FormatB8G8R8A8Srgb:
		return "B8G8R8A8_SRGB"
	}
	return fmt.Sprintf("FORMAT(%d)", uint32(f))
}

// ColorSpace is the color space a presentable image is interpreted in.
type ColorSpace uint32

// ColorSpaceSrgbNonlinear is the only color space every surface supports.
const ColorSpaceSrgbNonlinear ColorSpace = 0

// SurfaceFormat is a format and color space pair supported by a surface.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

func (s SurfaceFormat) String() string {
	return fmt.Sprintf("%s/%d", s.Format, s.ColorSpace)
}

// PresentMode is a surface's frame pacing and tearing policy.
type PresentMode uint32

// Present modes
const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFifo        PresentMode = 2
	PresentModeFifoRelaxed PresentMode = 3
)

func (p PresentMode) String() string {
	switch p {
	case PresentModeImmediate:
		return "IMMEDIATE"
	case PresentModeMailbox:
		return "MAILBOX"
	case PresentModeFifo:
		return "FIFO"
	case PresentModeFifoRelaxed:
		return "FIFO_RELAXED"
	}
	return fmt.Sprintf("PRESENT_MODE(%d)", uint32(p))
}

// UndefinedExtent is the current extent value a surface reports when
// the window manager lets the application pick the size.
const UndefinedExtent = math.MaxUint32

// Extent2D is a size in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// IsZero reports whether either side is zero, as with a minimized window.
func (e Extent2D) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// Offset2D is a position in pixels.
type Offset2D struct {
	X int32
	Y int32
}

// Rect2D is a rectangle in pixels.
type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

// Viewport maps normalized device coordinates to the framebuffer.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// SurfaceTransform is a bit of the surface pre-transform mask.
type SurfaceTransform uint32

// SurfaceTransformIdentity leaves images as rendered.
const SurfaceTransformIdentity SurfaceTransform = 0x1

// CompositeAlpha is a bit of the surface composite alpha mask.
type CompositeAlpha uint32

// Composite alpha modes
const (
	CompositeAlphaOpaque         CompositeAlpha = 0x1
	CompositeAlphaPreMultiplied  CompositeAlpha = 0x2
	CompositeAlphaPostMultiplied CompositeAlpha = 0x4
	CompositeAlphaInherit        CompositeAlpha = 0x8
)

// SurfaceCapabilities describes what a device can do with a surface.
// MaxImageCount of zero means there is no upper bound.
type SurfaceCapabilities struct {
	MinImageCount           uint32
	MaxImageCount           uint32
	CurrentExtent           Extent2D
	MinImageExtent          Extent2D
	MaxImageExtent          Extent2D
	SupportedTransforms     SurfaceTransform
	CurrentTransform        SurfaceTransform
	SupportedCompositeAlpha CompositeAlpha
}

// QueueFlags is a mask of queue family capabilities.
type QueueFlags uint32

// Queue capabilities
const (
	QueueGraphics QueueFlags = 0x1
	QueueCompute  QueueFlags = 0x2
	QueueTransfer QueueFlags = 0x4
)

// QueueFamily describes one entry of a device's queue family table.
type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}

// SharingMode says whether images are owned by one queue family at a time.
type SharingMode uint32

// Sharing modes
const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

func (s SharingMode) String() string {
	if s == SharingModeConcurrent {
		return "CONCURRENT"
	}
	return "EXCLUSIVE"
}

// AttachmentLoadOp is what happens to an attachment at the start of a render pass.
type AttachmentLoadOp uint32

// Load operations
const (
	LoadOpLoad     AttachmentLoadOp = 0
	LoadOpClear    AttachmentLoadOp = 1
	LoadOpDontCare AttachmentLoadOp = 2
)

// AttachmentStoreOp is what happens to an attachment at the end of a render pass.
type AttachmentStoreOp uint32

// Store operations
const (
	StoreOpStore    AttachmentStoreOp = 0
	StoreOpDontCare AttachmentStoreOp = 1
)

// ImageLayout is the memory layout of an image.
type ImageLayout uint32

// Image layouts
const (
	ImageLayoutUndefined              ImageLayout = 0
	ImageLayoutColorAttachmentOptimal ImageLayout = 2
	ImageLayoutPresentSrc             ImageLayout = 1000001002
)

// SampleCount is the number of samples per pixel.
type SampleCount uint32

// SampleCount1 is single sampling.
const SampleCount1 SampleCount = 0x1

// PipelineStage is a bit of a pipeline stage mask.
type PipelineStage uint32

// Pipeline stages
const (
	StageTopOfPipe             PipelineStage = 0x1
	StageColorAttachmentOutput PipelineStage = 0x400
)

// Access is a bit of a memory access mask.
type Access uint32

// Access kinds
const (
	AccessColorAttachmentRead  Access = 0x80
	AccessColorAttachmentWrite Access = 0x100
)

// SubpassExternal refers to operations outside of the render pass.
const SubpassExternal = ^uint32(0)

// ShaderStage is a programmable pipeline stage.
type ShaderStage uint32

// Shader stages
const (
	ShaderStageVertex   ShaderStage = 0x1
	ShaderStageFragment ShaderStage = 0x10
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	}
	return fmt.Sprintf("stage(%#x)", uint32(s))
}

// PrimitiveTopology is how vertices are assembled into primitives.
type PrimitiveTopology uint32

// TopologyTriangleList assembles every three vertices into a triangle.
const TopologyTriangleList PrimitiveTopology = 3

// PolygonMode is how polygons are rasterized.
type PolygonMode uint32

// PolygonModeFill fills the polygon area.
const PolygonModeFill PolygonMode = 0

// CullMode selects which faces are discarded.
type CullMode uint32

// Cull modes
const (
	CullModeNone  CullMode = 0
	CullModeFront CullMode = 0x1
	CullModeBack  CullMode = 0x2
)

// FrontFace is the winding order of front-facing triangles.
type FrontFace uint32

// Winding orders
const (
	FrontFaceCounterClockwise FrontFace = 0
	FrontFaceClockwise        FrontFace = 1
)

// ColorComponent is a mask of color channels written by a pipeline.
type ColorComponent uint32

// Color channels
const (
	ColorComponentR    ColorComponent = 0x1
	ColorComponentG    ColorComponent = 0x2
	ColorComponentB    ColorComponent = 0x4
	ColorComponentA    ColorComponent = 0x8
	ColorComponentRGBA                = ColorComponentR | ColorComponentG | ColorComponentB | ColorComponentA
)

// DeviceType is the kind of a physical device.
type DeviceType uint32

// Device kinds
const (
	DeviceTypeOther         DeviceType = 0
	DeviceTypeIntegratedGPU DeviceType = 1
	DeviceTypeDiscreteGPU   DeviceType = 2
	DeviceTypeVirtualGPU    DeviceType = 3
	DeviceTypeCPU           DeviceType = 4
)

func (d DeviceType) String() string {
	switch d {
	case DeviceTypeIntegratedGPU:
		return "integrated"
	case DeviceTypeDiscreteGPU:
		return "discrete"
	case DeviceTypeVirtualGPU:
		return "virtual"
	case DeviceTypeCPU:
		return "cpu"
	}
	return "other"
}

// DebugSeverity classifies a driver diagnostic message.
type DebugSeverity int

// Diagnostic severities, from least to most severe
const (
	SeverityVerbose DebugSeverity = iota
	SeverityInfo
	SeverityPerformance
	SeverityWarning
	SeverityError
)

func (s DebugSeverity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityPerformance:
		return "performance"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// DebugCallback receives driver diagnostics.
type DebugCallback func(severity DebugSeverity, message string)
