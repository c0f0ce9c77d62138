package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/devblok/vkboot/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	"github.com/pkg/errors"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Window   WindowConfiguration
	Instance InstanceConfiguration
	Renderer RendererConfiguration

	// LogLevel is a logrus level name
	LogLevel string
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int
}

// Windowing backends
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// WindowConfiguration is used to configure the window
type WindowConfiguration struct {
	Title     string
	Width     uint32
	Height    uint32
	Resizable bool

	// Backend is BackendSDL or BackendGLFW
	Backend string
}

// InstanceConfiguration is used to configure the API instance
type InstanceConfiguration struct {
	ApplicationName string
	EngineName      string

	// Validation enables the validation layer and the diagnostic
	// callback. It is turned off at runtime if the layer is missing.
	Validation bool

	// Extensions and Layers are enabled in addition to
	// what the window and validation need
	Extensions []string
	Layers     []string
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	// DeviceExtensions must all be present on the selected device
	DeviceExtensions []string

	// PreferredFormat is picked whenever the surface offers it
	PreferredFormat gfx.SurfaceFormat

	// ShaderDirectory holds compiled shaders, ShaderArchive, when set,
	// is a kar bundle that takes precedence over it
	ShaderDirectory string
	ShaderArchive   string
	VertexShader    string
	FragmentShader  string

	ClearColor glm.Vec4

	// FramesInFlight is the number of frames the host may
	// record ahead of the device
	FramesInFlight int

	// AcquireTimeout bounds image acquisition and fence waits,
	// zero waits indefinitely
	AcquireTimeout time.Duration

	// VertexCount is the number of vertices the shaders generate
	VertexCount uint32
}

// Names of the extensions and layers the bootstrap relies on
const (
	SwapchainExtension   = "VK_KHR_swapchain"
	DebugReportExtension = "VK_EXT_debug_report"
	ValidationLayer      = "VK_LAYER_KHRONOS_validation"
)

// DefaultConfiguration returns the configuration used when nothing is overridden.
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
		},
		Window: WindowConfiguration{
			Title:     "vkboot",
			Width:     800,
			Height:    600,
			Resizable: true,
			Backend:   BackendSDL,
		},
		Instance: InstanceConfiguration{
			ApplicationName: "vkboot",
			EngineName:      "vkboot",
			Validation:      validationDefault,
		},
		Renderer: RendererConfiguration{
			DeviceExtensions: []string{SwapchainExtension},
			PreferredFormat: gfx.SurfaceFormat{
				Format:     gfx.FormatB8G8R8A8Unorm,
				ColorSpace: gfx.ColorSpaceSrgbNonlinear,
			},
			ShaderDirectory: "./shaders",
			VertexShader:    "triangle.vert.spv",
			FragmentShader:  "triangle.frag.spv",
			ClearColor:      glm.Vec4{0, 0, 0, 1},
			FramesInFlight:  2,
			VertexCount:     3,
		},
		LogLevel: "info",
	}
}

// LoadConfiguration returns the default configuration overridden by
// VKBOOT_* variables from the environment and the given .env files.
func LoadConfiguration(files ...string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if len(files) > 0 {
		if err := envy.Load(files...); err != nil {
			return cfg, newError(InitializationError, "envy.Load()", err)
		}
	}

	var p envParser
	p.uint32("VKBOOT_WIDTH", &cfg.Window.Width)
	p.uint32("VKBOOT_HEIGHT", &cfg.Window.Height)
	p.string("VKBOOT_TITLE", &cfg.Window.Title)
	p.string("VKBOOT_BACKEND", &cfg.Window.Backend)
	p.bool("VKBOOT_VALIDATION", &cfg.Instance.Validation)
	p.int("VKBOOT_FPS", &cfg.Time.FramesPerSecond)
	p.string("VKBOOT_SHADERS", &cfg.Renderer.ShaderDirectory)
	p.string("VKBOOT_SHADER_ARCHIVE", &cfg.Renderer.ShaderArchive)
	p.int("VKBOOT_FRAMES_IN_FLIGHT", &cfg.Renderer.FramesInFlight)
	p.duration("VKBOOT_ACQUIRE_TIMEOUT", &cfg.Renderer.AcquireTimeout)
	p.vec4("VKBOOT_CLEAR_COLOR", &cfg.Renderer.ClearColor)
	p.string("VKBOOT_LOG_LEVEL", &cfg.LogLevel)
	if p.err != nil {
		return cfg, newError(InitializationError, "core.LoadConfiguration()", p.err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the configuration can be used for a bootstrap.
func (c Configuration) Validate() error {
	const op = "core.Configuration.Validate()"
	switch {
	case c.Window.Width == 0 || c.Window.Height == 0:
		return newErrorf(InitializationError, op, "window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.Backend != BackendSDL && c.Window.Backend != BackendGLFW:
		return newErrorf(InitializationError, op, "unknown window backend %q", c.Window.Backend)
	case c.Renderer.FramesInFlight < 1:
		return newErrorf(InitializationError, op, "frames in flight %d", c.Renderer.FramesInFlight)
	case c.Time.FramesPerSecond < 0:
		return newErrorf(InitializationError, op, "frames per second %d", c.Time.FramesPerSecond)
	case c.Renderer.AcquireTimeout < 0:
		return newErrorf(InitializationError, op, "acquire timeout %s", c.Renderer.AcquireTimeout)
	}
	return nil
}

// acquireTimeout converts the configured timeout for the driver.
func (c RendererConfiguration) acquireTimeout() uint64 {
	if c.AcquireTimeout <= 0 {
		return gfx.NoTimeout
	}
	return uint64(c.AcquireTimeout.Nanoseconds())
}

// envParser reads typed values out of the environment, keeping the first error.
type envParser struct {
	err error
}

func (p *envParser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v := strings.TrimSpace(envy.Get(key, ""))
	return v, v != ""
}

func (p *envParser) string(key string, dst *string) {
	if v, ok := p.lookup(key); ok {
		*dst = v
	}
}

func (p *envParser) uint32(key string, dst *uint32) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			p.err = errors.Wrap(err, key)
			return
		}
		*dst = uint32(n)
	}
}

func (p *envParser) int(key string, dst *int) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.err = errors.Wrap(err, key)
			return
		}
		*dst = n
	}
}

func (p *envParser) bool(key string, dst *bool) {
	if v, ok := p.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.err = errors.Wrap(err, key)
			return
		}
		*dst = b
	}
}

func (p *envParser) duration(key string, dst *time.Duration) {
	if v, ok := p.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.err = errors.Wrap(err, key)
			return
		}
		*dst = d
	}
}

// vec4 reads four comma separated floats, as in "0.1,0.1,0.1,1"
func (p *envParser) vec4(key string, dst *glm.Vec4) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		p.err = errors.Errorf("%s: want 4 components, got %d", key, len(parts))
		return
	}
	var vec glm.Vec4
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			p.err = errors.Wrap(err, key)
			return
		}
		vec[i] = float32(f)
	}
	*dst = vec
}
