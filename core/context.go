package core

import (
	"context"

	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewContext creates a rendering context presenting into window.
// Nothing is created until Initialise is called.
func NewContext(cfg Configuration, driver gfx.Driver, window SurfaceProvider, shaders ShaderSource) *Context {
	logger := log.WithField("component", "context")
	return &Context{
		cfg:        cfg,
		driver:     driver,
		window:     window,
		instances:  NewInstanceFactory(driver, cfg.Instance),
		selector:   NewDeviceSelector(driver, cfg.Renderer),
		swapchains: NewSwapchainBuilder(driver, cfg.Renderer),
		pipelines:  NewPipelineBuilder(driver, shaders, cfg.Renderer),
		commands:   NewCommandExecutor(driver, cfg.Renderer),
		stack:      releaseStack{logger: logger},
		logger:     logger,
	}
}

// Context is a Vulkan rendering context bound to a window.
// It implements Renderer.
type Context struct {
	cfg    Configuration
	driver gfx.Driver
	window SurfaceProvider
	logger *log.Entry

	instances  *InstanceFactory
	selector   *DeviceSelector
	swapchains *SwapchainBuilder
	pipelines  *PipelineBuilder
	commands   *CommandExecutor

	instance  *Instance
	surface   gfx.Surface
	candidate DeviceCandidate
	device    *LogicalDevice

	swapchain    *Swapchain
	pipeline     *GraphicsPipeline
	framebuffers *FramebufferSet
	presenter    *FramePresenter

	// stack owns everything, deviceMark is where the
	// swapchain generation starts on it
	stack      releaseStack
	deviceMark int

	stale      bool
	generation int
}

var _ Renderer = (*Context)(nil)

// Initialise runs the bootstrap. On failure everything created so far
// is released and the context is left empty.
func (c *Context) Initialise() error {
	if err := c.bootstrap(); err != nil {
		c.stack.Release()
		c.reset()
		return err
	}
	return nil
}

func (c *Context) bootstrap() error {
	instance, err := c.instances.Create(c.window.RequiredInstanceExtensions())
	if err != nil {
		return err
	}
	c.instance = instance
	c.stack.push("instance", instance.Release)

	ptr, err := c.window.CreateSurface(instance.Handle)
	if err != nil {
		return newError(InitializationError, "core.Context.bootstrap()", errors.Wrap(err, "create surface"))
	}
	surface := c.driver.SurfaceFromPointer(ptr)
	c.surface = surface
	c.stack.push("surface", func() {
		c.driver.DestroySurface(instance.Handle, surface)
	})

	if c.candidate, err = c.selector.Select(instance.Handle, surface); err != nil {
		return err
	}

	var layers []string
	if instance.Validation {
		layers = instance.Layers
	}
	device, err := NewLogicalDeviceFactory(c.driver, c.cfg.Renderer, layers).Create(c.candidate)
	if err != nil {
		return err
	}
	c.device = device
	c.stack.push("device", device.Release)

	if err := c.commands.Open(device); err != nil {
		return err
	}
	c.stack.push("command pool", c.commands.Release)
	c.deviceMark = c.stack.mark()

	return c.build(c.candidate.Support)
}

// build creates a swapchain generation on top of the device.
func (c *Context) build(support SwapchainSupportDetails) error {
	width, height := c.window.DrawableSize()
	swapchain, err := c.swapchains.Build(c.device, c.surface, support, gfx.Extent2D{Width: width, Height: height})
	if err != nil {
		return err
	}
	c.swapchain = swapchain
	c.stack.push("swapchain", swapchain.Release)

	pipeline, err := c.pipelines.Build(c.device.Handle, swapchain.Config.Format.Format, swapchain.Config.Extent)
	if err != nil {
		return err
	}
	c.pipeline = pipeline
	c.stack.push("pipeline", pipeline.Release)

	framebuffers, err := NewFramebufferSet(c.driver, c.device.Handle, swapchain, pipeline)
	if err != nil {
		return err
	}
	c.framebuffers = framebuffers
	c.stack.push("framebuffers", framebuffers.Release)

	if err := c.commands.Record(pipeline, framebuffers); err != nil {
		return err
	}
	c.stack.push("command buffers", c.commands.ReleaseBuffers)

	presenter, err := NewFramePresenter(c.driver, c.device, c.cfg.Renderer, len(swapchain.Images))
	if err != nil {
		return err
	}
	c.presenter = presenter
	c.stack.push("frame sync", presenter.Release)

	c.generation++
	c.stale = false
	c.logger.WithField("generation", c.generation).Debug("swapchain generation built")
	return nil
}

// releaseGeneration releases everything built on top of the device.
func (c *Context) releaseGeneration() {
	c.stack.unwindTo(c.deviceMark)
	c.swapchain = nil
	c.pipeline = nil
	c.framebuffers = nil
	c.presenter = nil
}

func (c *Context) reset() {
	c.instance = nil
	c.surface = nil
	c.device = nil
	c.candidate = DeviceCandidate{}
	c.releaseGeneration()
	c.deviceMark = 0
}

// Invalidate marks the swapchain for recreation before the next frame.
func (c *Context) Invalidate() {
	c.stale = true
}

// Generation counts the swapchain generations built so far.
func (c *Context) Generation() int {
	return c.generation
}

// Candidate returns the selected device.
func (c *Context) Candidate() DeviceCandidate {
	return c.candidate
}

// Swapchain returns the current swapchain, nil while recreation is deferred.
func (c *Context) Swapchain() *Swapchain {
	return c.swapchain
}

// Recreate rebuilds the swapchain generation for the current size of
// the window. It reports false when the window has no drawable area,
// in which case recreation stays pending.
func (c *Context) Recreate() (bool, error) {
	if c.device == nil {
		return false, errors.New("core.Context.Recreate(): context is not initialised")
	}
	if width, height := c.window.DrawableSize(); width == 0 || height == 0 {
		c.stale = true
		return false, nil
	}

	if err := c.device.WaitIdle(); err != nil {
		return false, errors.Wrap(err, "core.Context.Recreate()")
	}
	c.releaseGeneration()

	support, err := c.selector.QuerySwapchainSupport(c.candidate.Device, c.surface)
	if err != nil {
		return false, newError(SwapchainCreationError, "core.Context.Recreate()", err)
	}
	if err := c.build(support); err != nil {
		c.releaseGeneration()
		return false, err
	}
	c.logger.WithField("extent", c.swapchain.Config.Extent.String()).Info("swapchain recreated")
	return true, nil
}

// Draw renders and presents one frame, recreating the swapchain
// first when it went stale.
func (c *Context) Draw() error {
	if c.device == nil {
		return errors.New("core.Context.Draw(): context is not initialised")
	}
	if c.stale || c.swapchain == nil {
		ready, err := c.Recreate()
		if err != nil || !ready {
			return err
		}
	}

	stale, err := c.presenter.Present(c.swapchain, c.commands)
	if err != nil {
		return err
	}
	if stale {
		c.stale = true
	}
	return nil
}

// Destroy waits for the device and releases everything in reverse
// creation order. It is safe to call more than once.
func (c *Context) Destroy() {
	if c.device != nil {
		if err := c.device.WaitIdle(); err != nil {
			c.logger.WithError(err).Error("wait idle before teardown")
		}
	}
	c.stack.Release()
	c.reset()
}

// Run draws frames paced by t until the window is closed or ctx is
// done. Window events are polled between frames.
func (c *Context) Run(ctx context.Context, t *Time) error {
	for {
		c.window.PollEvents()
		if c.window.ShouldClose() {
			c.logger.Info("window closed")
			return nil
		}
		if c.window.Resized() {
			c.Invalidate()
		}

		generation := c.generation
		if err := c.Draw(); err != nil {
			return err
		}
		if c.generation != generation {
			t.Recreated()
		}
		t.Frame()

		if err := t.Wait(ctx); err != nil {
			return nil
		}
	}
}
