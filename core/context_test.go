package core_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/gfx"
	"github.com/devblok/vkboot/gfx/gfxtest"
)

type contextFixture struct {
	driver *gfxtest.Driver
	window *gfxtest.Window
	ctx    *core.Context
}

func newContext(c *qt.C, cfg core.Configuration, devices ...*gfxtest.PhysicalDevice) contextFixture {
	if len(devices) == 0 {
		devices = []*gfxtest.PhysicalDevice{gfxtest.SuitableDevice("gpu")}
	}
	f := contextFixture{
		driver: gfxtest.New(devices...),
		window: gfxtest.NewWindow(),
	}
	f.ctx = core.NewContext(cfg, f.driver, f.window, core.FinderShaderSource{Finder: shaderBox(c)})
	return f
}

func (f contextFixture) draw(c *qt.C, frames int) {
	for i := 0; i < frames; i++ {
		c.Assert(f.ctx.Draw(), qt.IsNil, qt.Commentf("frame %d", i))
	}
}

func TestContextRoundTrip(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())

	c.Assert(f.ctx.Initialise(), qt.IsNil)
	f.draw(c, 7)
	f.ctx.Destroy()

	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
	c.Assert(f.driver.Live(), qt.HasLen, 0)
	c.Assert(f.driver.Created(gfxtest.KindDebugMessenger), qt.HasLen, 1)
	c.Assert(f.driver.Presented(), qt.HasLen, 7)
	c.Assert(f.driver.IdleWaits(), qt.Equals, 1)

	// every handle is destroyed exactly once
	c.Assert(len(f.driver.Events()), qt.Equals, 2*len(uniqueObjects(f.driver.Events())))
}

func uniqueObjects(events []gfxtest.Event) map[*gfxtest.Object]bool {
	seen := make(map[*gfxtest.Object]bool)
	for _, e := range events {
		seen[e.Object] = true
	}
	return seen
}

func TestContextTeardownOrder(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	c.Assert(f.ctx.Initialise(), qt.IsNil)
	f.ctx.Destroy()

	var kinds []string
	for _, e := range f.driver.Events() {
		if !e.Create && (len(kinds) == 0 || kinds[len(kinds)-1] != e.Object.Kind) {
			kinds = append(kinds, e.Object.Kind)
		}
	}
	c.Assert(kinds, qt.DeepEquals, []string{
		gfxtest.KindShaderModule,
		gfxtest.KindSemaphore,
		gfxtest.KindFence,
		gfxtest.KindSemaphore,
		gfxtest.KindFence,
		gfxtest.KindSemaphore,
		gfxtest.KindCommandBuffer,
		gfxtest.KindFramebuffer,
		gfxtest.KindPipeline,
		gfxtest.KindPipelineLayout,
		gfxtest.KindRenderPass,
		gfxtest.KindImageView,
		gfxtest.KindSwapchain,
		gfxtest.KindCommandPool,
		gfxtest.KindDevice,
		gfxtest.KindSurface,
		gfxtest.KindDebugMessenger,
		gfxtest.KindInstance,
	})
}

func TestContextFrameSynchronization(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	c.Assert(f.ctx.Initialise(), qt.IsNil)
	defer f.ctx.Destroy()

	f.draw(c, 5)

	submits := f.driver.Submits()
	presented := f.driver.Presented()
	c.Assert(submits, qt.HasLen, 5)
	for i, submit := range submits {
		c.Assert(submit.WaitStages, qt.DeepEquals, []gfx.PipelineStage{gfx.StageColorAttachmentOutput})
		c.Assert(submit.Fence, qt.Not(qt.IsNil))
		// present waits on what the submission signals
		c.Assert(presented[i].WaitSemaphores, qt.HasLen, 1)
		c.Assert(submit.SignalSemaphores, qt.HasLen, 1)
		c.Assert(presented[i].WaitSemaphores[0], qt.Equals, submit.SignalSemaphores[0])
		c.Assert(presented[i].ImageIndex, qt.Equals, uint32(i%3))
		// the buffer drawing into the presented image was submitted
		info, ok := f.driver.Recorded(submit.CommandBuffers[0])
		c.Assert(ok, qt.IsTrue)
		c.Assert(info.VertexCount, qt.Equals, uint32(3))
		c.Assert(info.InstanceCount, qt.Equals, uint32(1))
		c.Assert(info.ClearColor, qt.Equals, [4]float32{0, 0, 0, 1})
	}
	// two frames in flight alternate fences
	c.Assert(submits[0].Fence, qt.Equals, submits[2].Fence)
	c.Assert(submits[0].Fence, qt.Not(qt.Equals), submits[1].Fence)
	c.Assert(f.driver.Problems(), qt.HasLen, 0)
}

func TestContextRecreatesOnOutOfDateAcquire(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	f.driver.Acquires = []gfxtest.Acquire{{}, {Err: gfx.ErrOutOfDate}}
	c.Assert(f.ctx.Initialise(), qt.IsNil)

	f.draw(c, 2)
	c.Assert(f.ctx.Generation(), qt.Equals, 1)
	c.Assert(f.driver.Presented(), qt.HasLen, 1)

	f.draw(c, 2)
	c.Assert(f.ctx.Generation(), qt.Equals, 2)
	c.Assert(f.driver.Presented(), qt.HasLen, 3)
	c.Assert(f.driver.Created(gfxtest.KindSwapchain), qt.HasLen, 2)
	c.Assert(f.driver.Created(gfxtest.KindDevice), qt.HasLen, 1)

	f.ctx.Destroy()
	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
}

func TestContextRecreatesOnSuboptimalPresent(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	f.driver.Presents = []gfxtest.Present{{Suboptimal: true}, {}, {Err: gfx.ErrOutOfDate}}
	c.Assert(f.ctx.Initialise(), qt.IsNil)

	f.draw(c, 4)
	c.Assert(f.ctx.Generation(), qt.Equals, 3)
	c.Assert(f.driver.Presented(), qt.HasLen, 4)

	f.ctx.Destroy()
	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
}

func TestContextRecreatesOnResize(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	c.Assert(f.ctx.Initialise(), qt.IsNil)
	f.draw(c, 1)

	f.window.Resize(1024, 768)
	f.ctx.Invalidate()
	f.draw(c, 1)
	c.Assert(f.ctx.Generation(), qt.Equals, 2)

	// only the buffers are recorded again, the pool stays
	c.Assert(f.driver.Created(gfxtest.KindCommandPool), qt.HasLen, 1)
	c.Assert(f.driver.Created(gfxtest.KindCommandBuffer), qt.HasLen, 6)
	pool := f.driver.Created(gfxtest.KindCommandPool)[0]
	c.Assert(liveObjects(f.driver)[pool], qt.IsTrue)

	f.ctx.Destroy()
	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
}

func TestContextDefersRecreationWhileMinimized(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	c.Assert(f.ctx.Initialise(), qt.IsNil)
	f.draw(c, 1)

	f.window.Resize(0, 0)
	f.ctx.Invalidate()
	f.draw(c, 3)
	c.Assert(f.ctx.Generation(), qt.Equals, 1)
	c.Assert(f.driver.Presented(), qt.HasLen, 1)
	c.Assert(f.driver.IdleWaits(), qt.Equals, 0)

	f.window.Resize(800, 600)
	f.draw(c, 1)
	c.Assert(f.ctx.Generation(), qt.Equals, 2)
	c.Assert(f.driver.Presented(), qt.HasLen, 2)

	f.ctx.Destroy()
	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
}

func TestContextAcquireTimeout(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	cfg.Renderer.AcquireTimeout = time.Millisecond
	f := newContext(c, cfg)
	f.driver.Fail("AcquireNextImage", 2, gfx.ErrTimeout)
	c.Assert(f.ctx.Initialise(), qt.IsNil)

	f.draw(c, 1)
	err := f.ctx.Draw()
	c.Assert(errors.Is(err, core.ResourceAcquisitionTimeout), qt.IsTrue)
	c.Assert(errors.Is(err, gfx.ErrTimeout), qt.IsTrue)

	f.ctx.Destroy()
	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
}

func TestContextFenceTimeout(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	f.driver.Fail("WaitForFence", 1, gfx.ErrTimeout)
	c.Assert(f.ctx.Initialise(), qt.IsNil)

	err := f.ctx.Draw()
	c.Assert(core.KindOf(err), qt.Equals, core.ResourceAcquisitionTimeout)
	f.ctx.Destroy()
}

func TestContextFatalPresentError(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	f.driver.Presents = []gfxtest.Present{{Err: gfx.ErrSurfaceLost}}
	c.Assert(f.ctx.Initialise(), qt.IsNil)

	err := f.ctx.Draw()
	c.Assert(errors.Is(err, gfx.ErrSurfaceLost), qt.IsTrue)
	c.Assert(core.KindOf(err), qt.Equals, core.Kind(0))

	f.ctx.Destroy()
	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
}

func TestContextBootstrapFailureReleasesEverything(t *testing.T) {
	afterPipeline := []string{gfxtest.KindShaderModule}
	tests := []struct {
		method string
		nth    int
		kind   core.Kind
		// modules are destroyed out of order once a pipeline exists
		ignore []string
	}{
		{"CreateInstance", 1, core.InitializationError, nil},
		{"CreateDebugMessenger", 1, core.InitializationError, nil},
		{"CreateDevice", 1, core.InitializationError, nil},
		{"CreateCommandPool", 1, core.InitializationError, nil},
		{"CreateSwapchain", 1, core.SwapchainCreationError, nil},
		{"CreateImageView", 3, core.SwapchainCreationError, nil},
		{"CreateRenderPass", 1, core.PipelineCreationError, nil},
		{"CreateShaderModule", 1, core.ShaderCompileError, nil},
		{"CreateShaderModule", 2, core.ShaderCompileError, nil},
		{"CreateGraphicsPipeline", 1, core.PipelineCreationError, nil},
		{"CreateFramebuffer", 2, core.SwapchainCreationError, afterPipeline},
		{"RecordDraw", 2, core.InitializationError, afterPipeline},
		{"CreateFence", 2, core.InitializationError, afterPipeline},
		{"CreateSemaphore", 4, core.InitializationError, afterPipeline},
	}
	c := qt.New(t)
	for _, test := range tests {
		c.Run(fmt.Sprintf("%s#%d", test.method, test.nth), func(c *qt.C) {
			f := newContext(c, testConfig())
			f.driver.Fail(test.method, test.nth, errors.New("injected"))

			err := f.ctx.Initialise()
			c.Assert(core.KindOf(err), qt.Equals, test.kind)
			c.Assert(err, qt.ErrorMatches, ".*injected.*")
			c.Assert(f.driver.CheckLIFO(test.ignore...), qt.IsNil)

			// Destroy after a failed Initialise is harmless
			f.ctx.Destroy()
			c.Assert(f.driver.Problems(), qt.HasLen, 0)
		})
	}
}

func TestContextSurfaceFailure(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	f.window.SurfaceErr = errors.New("no display")

	err := f.ctx.Initialise()
	c.Assert(core.KindOf(err), qt.Equals, core.InitializationError)
	c.Assert(f.driver.CheckLIFO(), qt.IsNil)
}

func TestContextNoSuitableDevice(t *testing.T) {
	c := qt.New(t)
	graphicsOnly := gfxtest.SuitableDevice("graphics only")
	graphicsOnly.PresentFamilies = nil
	f := newContext(c, testConfig(), graphicsOnly)

	err := f.ctx.Initialise()
	c.Assert(errors.Is(err, core.NoSuitableDeviceError), qt.IsTrue)
	c.Assert(f.driver.CheckLIFO(), qt.IsNil)
	c.Assert(f.driver.Created(gfxtest.KindDevice), qt.HasLen, 0)
}

func TestContextDrawBeforeInitialise(t *testing.T) {
	c := qt.New(t)
	f := newContext(c, testConfig())
	c.Assert(f.ctx.Draw(), qt.ErrorMatches, ".*not initialised")
}

func TestContextRun(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	cfg.Time.FramesPerSecond = 0
	f := newContext(c, cfg)
	f.window.CloseAfter = 5
	c.Assert(f.ctx.Initialise(), qt.IsNil)

	clock := core.NewTime(cfg.Time)
	defer clock.Stop()
	c.Assert(f.ctx.Run(context.Background(), clock), qt.IsNil)
	c.Assert(clock.Stats().Frames, qt.Equals, int64(4))
	c.Assert(f.driver.Presented(), qt.HasLen, 4)

	f.ctx.Destroy()
	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
}

func TestContextRunHandlesResize(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	cfg.Time.FramesPerSecond = 0
	f := newContext(c, cfg)
	f.window.CloseAfter = 3
	c.Assert(f.ctx.Initialise(), qt.IsNil)
	f.window.Resize(1024, 768)

	clock := core.NewTime(cfg.Time)
	c.Assert(f.ctx.Run(context.Background(), clock), qt.IsNil)
	c.Assert(clock.Stats().Recreated, qt.Equals, int64(1))

	f.ctx.Destroy()
	c.Assert(f.driver.CheckLIFO(gfxtest.KindShaderModule), qt.IsNil)
}

func TestContextRunStopsOnCancel(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	cfg.Time.FramesPerSecond = 1000
	f := newContext(c, cfg)
	c.Assert(f.ctx.Initialise(), qt.IsNil)
	defer f.ctx.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	clock := core.NewTime(cfg.Time)
	defer clock.Stop()
	c.Assert(f.ctx.Run(ctx, clock), qt.IsNil)
	c.Assert(f.driver.Presented(), qt.HasLen, 1)
}
