package core

import (
	"github.com/devblok/vkboot/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewCommandExecutor creates a CommandExecutor.
func NewCommandExecutor(driver gfx.CommandDriver, cfg RendererConfiguration) *CommandExecutor {
	return &CommandExecutor{
		driver:      driver,
		clearColor:  cfg.ClearColor,
		vertexCount: cfg.VertexCount,
		logger:      log.WithField("component", "commands"),
	}
}

// CommandExecutor owns the command pool of a device and one statically
// recorded command buffer per framebuffer of the current generation.
type CommandExecutor struct {
	driver      gfx.CommandDriver
	clearColor  glm.Vec4
	vertexCount uint32
	logger      *log.Entry

	device  gfx.Device
	pool    gfx.CommandPool
	buffers []gfx.CommandBuffer

	// buffers are pushed above poolMark
	owned    releaseStack
	poolMark int
}

// Buffers returns the command buffers, indexed like the framebuffers.
func (c *CommandExecutor) Buffers() []gfx.CommandBuffer {
	return c.buffers
}

// Buffer returns the command buffer that draws into image.
func (c *CommandExecutor) Buffer(image uint32) gfx.CommandBuffer {
	return c.buffers[image]
}

// drawInfo is what gets recorded for one framebuffer.
func (c *CommandExecutor) drawInfo(pipeline *GraphicsPipeline, fb gfx.Framebuffer, extent gfx.Extent2D) gfx.DrawInfo {
	return gfx.DrawInfo{
		RenderPass:    pipeline.RenderPass,
		Framebuffer:   fb,
		Pipeline:      pipeline.Pipeline,
		RenderArea:    gfx.Rect2D{Extent: extent},
		ClearColor:    [4]float32(c.clearColor),
		VertexCount:   c.vertexCount,
		InstanceCount: 1,
	}
}

// Open creates the command pool on the graphics family of device.
// The pool outlives swapchain recreation, only Release destroys it.
func (c *CommandExecutor) Open(device *LogicalDevice) error {
	const op = "core.CommandExecutor.Open()"
	c.Release()
	c.device = device.Handle

	pool, err := c.driver.CreateCommandPool(device.Handle, device.Indices.Graphics.Value())
	if err != nil {
		return newError(InitializationError, op, err)
	}
	c.pool = pool
	c.owned.push("command pool", func() {
		c.driver.DestroyCommandPool(device.Handle, pool)
	})
	c.poolMark = c.owned.mark()

	c.logger.WithField("family", device.Indices.Graphics.Value()).Debug("command pool created")
	return nil
}

// Record allocates a buffer per framebuffer from the pool and records
// the draw into each. Buffers recorded before are freed first.
func (c *CommandExecutor) Record(pipeline *GraphicsPipeline, framebuffers *FramebufferSet) error {
	const op = "core.CommandExecutor.Record()"
	if c.pool == nil {
		return newError(InitializationError, op, errors.New("command pool is not open"))
	}
	c.ReleaseBuffers()

	device, pool := c.device, c.pool
	buffers, err := c.driver.AllocateCommandBuffers(device, pool, framebuffers.Len())
	if err != nil {
		return newError(InitializationError, op, err)
	}
	c.buffers = buffers
	c.owned.push("command buffers", func() {
		c.driver.FreeCommandBuffers(device, pool, buffers)
	})

	for idx, buffer := range buffers {
		info := c.drawInfo(pipeline, framebuffers.Framebuffers[idx], framebuffers.Extent)
		if err := c.driver.RecordDraw(buffer, info); err != nil {
			c.ReleaseBuffers()
			return newError(InitializationError, op, errorAt(idx, err))
		}
	}

	c.logger.WithField("buffers", len(buffers)).Debug("command buffers recorded")
	return nil
}

// ReleaseBuffers frees the command buffers and keeps the pool.
func (c *CommandExecutor) ReleaseBuffers() {
	c.owned.unwindTo(c.poolMark)
	c.buffers = nil
}

// Release frees the command buffers and destroys the pool.
func (c *CommandExecutor) Release() {
	c.owned.Release()
	c.poolMark = 0
	c.buffers = nil
	c.pool = nil
}
