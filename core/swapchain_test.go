package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/gfx"
	"github.com/devblok/vkboot/gfx/gfxtest"
)

var (
	bgraUnorm = gfx.SurfaceFormat{Format: gfx.FormatB8G8R8A8Unorm, ColorSpace: gfx.ColorSpaceSrgbNonlinear}
	bgraSrgb  = gfx.SurfaceFormat{Format: gfx.FormatB8G8R8A8Srgb, ColorSpace: gfx.ColorSpaceSrgbNonlinear}
	rgbaUnorm = gfx.SurfaceFormat{Format: gfx.FormatR8G8B8A8Unorm, ColorSpace: gfx.ColorSpaceSrgbNonlinear}
)

func TestChooseSurfaceFormat(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		about   string
		formats []gfx.SurfaceFormat
		expect  gfx.SurfaceFormat
	}{{
		about:   "undefined only means anything goes",
		formats: []gfx.SurfaceFormat{{Format: gfx.FormatUndefined, ColorSpace: gfx.ColorSpaceSrgbNonlinear}},
		expect:  bgraUnorm,
	}, {
		about:   "preferred anywhere in the list",
		formats: []gfx.SurfaceFormat{rgbaUnorm, bgraSrgb, bgraUnorm},
		expect:  bgraUnorm,
	}, {
		about:   "first entry without preferred",
		formats: []gfx.SurfaceFormat{bgraSrgb, rgbaUnorm},
		expect:  bgraSrgb,
	}, {
		about:   "empty list falls back to preferred",
		formats: nil,
		expect:  bgraUnorm,
	}}
	for _, test := range tests {
		c.Run(test.about, func(c *qt.C) {
			c.Assert(core.ChooseSurfaceFormat(test.formats, bgraUnorm), qt.Equals, test.expect)
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		modes  []gfx.PresentMode
		expect gfx.PresentMode
	}{
		{[]gfx.PresentMode{gfx.PresentModeFifo, gfx.PresentModeMailbox}, gfx.PresentModeMailbox},
		{[]gfx.PresentMode{gfx.PresentModeFifo, gfx.PresentModeImmediate, gfx.PresentModeMailbox}, gfx.PresentModeMailbox},
		{[]gfx.PresentMode{gfx.PresentModeImmediate, gfx.PresentModeMailbox}, gfx.PresentModeMailbox},
		{[]gfx.PresentMode{gfx.PresentModeFifo, gfx.PresentModeImmediate}, gfx.PresentModeImmediate},
		{[]gfx.PresentMode{gfx.PresentModeFifoRelaxed, gfx.PresentModeFifo}, gfx.PresentModeFifo},
		{[]gfx.PresentMode{gfx.PresentModeFifo}, gfx.PresentModeFifo},
		{nil, gfx.PresentModeFifo},
	}
	for _, test := range tests {
		c.Assert(core.ChoosePresentMode(test.modes), qt.Equals, test.expect, qt.Commentf("%v", test.modes))
	}
}

func TestChooseExtent(t *testing.T) {
	c := qt.New(t)
	caps := gfx.SurfaceCapabilities{
		CurrentExtent:  gfx.Extent2D{Width: gfx.UndefinedExtent, Height: gfx.UndefinedExtent},
		MinImageExtent: gfx.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: gfx.Extent2D{Width: 1920, Height: 1080},
	}

	c.Assert(core.ChooseExtent(caps, gfx.Extent2D{Width: 800, Height: 600}), qt.Equals, gfx.Extent2D{Width: 800, Height: 600})
	c.Assert(core.ChooseExtent(caps, gfx.Extent2D{Width: 4000, Height: 50}), qt.Equals, gfx.Extent2D{Width: 1920, Height: 100})
	c.Assert(core.ChooseExtent(caps, gfx.Extent2D{Width: 10, Height: 2000}), qt.Equals, gfx.Extent2D{Width: 100, Height: 1080})
	c.Assert(core.ChooseExtent(caps, gfx.Extent2D{Width: 50, Height: 1200}), qt.Equals, gfx.Extent2D{Width: 100, Height: 1080})

	caps.CurrentExtent = gfx.Extent2D{Width: 1024, Height: 768}
	c.Assert(core.ChooseExtent(caps, gfx.Extent2D{Width: 800, Height: 600}), qt.Equals, gfx.Extent2D{Width: 1024, Height: 768})

	// a sentinel on either axis leaves the extent to the application
	caps.CurrentExtent = gfx.Extent2D{Width: 1024, Height: gfx.UndefinedExtent}
	c.Assert(core.ChooseExtent(caps, gfx.Extent2D{Width: 800, Height: 600}), qt.Equals, gfx.Extent2D{Width: 800, Height: 600})
	caps.CurrentExtent = gfx.Extent2D{Width: gfx.UndefinedExtent, Height: 768}
	c.Assert(core.ChooseExtent(caps, gfx.Extent2D{Width: 4000, Height: 600}), qt.Equals, gfx.Extent2D{Width: 1920, Height: 600})
}

func TestChooseImageCount(t *testing.T) {
	c := qt.New(t)
	c.Assert(core.ChooseImageCount(gfx.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8}), qt.Equals, uint32(3))
	c.Assert(core.ChooseImageCount(gfx.SurfaceCapabilities{MinImageCount: 3, MaxImageCount: 3}), qt.Equals, uint32(3))
	c.Assert(core.ChooseImageCount(gfx.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}), qt.Equals, uint32(2))
	c.Assert(core.ChooseImageCount(gfx.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}), qt.Equals, uint32(3))
}

func TestChooseSharing(t *testing.T) {
	c := qt.New(t)

	mode, families := core.ChooseSharing(core.QueueFamilyIndices{Graphics: core.Index(0), Present: core.Index(0)})
	c.Assert(mode, qt.Equals, gfx.SharingModeExclusive)
	c.Assert(families, qt.HasLen, 0)

	mode, families = core.ChooseSharing(core.QueueFamilyIndices{Graphics: core.Index(0), Present: core.Index(2)})
	c.Assert(mode, qt.Equals, gfx.SharingModeConcurrent)
	c.Assert(families, qt.DeepEquals, []uint32{0, 2})
}

func TestBuildSwapchain(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	d := gfxtest.New(gfxtest.SuitableDevice("gpu"))
	device, candidate, surface := logicalDevice(c, d, cfg)

	sc, err := core.NewSwapchainBuilder(d, cfg.Renderer).Build(device, surface, candidate.Support, gfx.Extent2D{Width: 640, Height: 480})
	c.Assert(err, qt.IsNil)
	c.Assert(sc.Config.Format, qt.Equals, bgraUnorm)
	c.Assert(sc.Config.PresentMode, qt.Equals, gfx.PresentModeMailbox)
	c.Assert(sc.Config.Extent, qt.Equals, gfx.Extent2D{Width: 800, Height: 600})
	c.Assert(sc.Config.SharingMode, qt.Equals, gfx.SharingModeExclusive)
	c.Assert(sc.Images, qt.HasLen, 3)
	c.Assert(sc.Views, qt.HasLen, 3)

	info := d.Created(gfxtest.KindSwapchain)[0].Info.(gfx.SwapchainInfo)
	c.Assert(info.MinImageCount, qt.Equals, uint32(3))
	c.Assert(info.CompositeAlpha, qt.Equals, gfx.CompositeAlphaOpaque)
	c.Assert(info.PreTransform, qt.Equals, gfx.SurfaceTransformIdentity)
	c.Assert(info.Clipped, qt.IsTrue)

	sc.Release()
	c.Assert(d.Created(gfxtest.KindImageView), qt.HasLen, 3)
	for _, o := range d.Live() {
		c.Assert(o.Kind, qt.Not(qt.Equals), gfxtest.KindImageView)
		c.Assert(o.Kind, qt.Not(qt.Equals), gfxtest.KindSwapchain)
	}
}

func TestBuildSwapchainConcurrentSharing(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()

	gpu := gfxtest.SuitableDevice("gpu")
	gpu.Families = append(gpu.Families, gfx.QueueFamily{Flags: gfx.QueueTransfer, Count: 1})
	gpu.PresentFamilies = []uint32{1}
	d := gfxtest.New(gpu)
	device, candidate, surface := logicalDevice(c, d, cfg)

	sc, err := core.NewSwapchainBuilder(d, cfg.Renderer).Build(device, surface, candidate.Support, gfx.Extent2D{Width: 800, Height: 600})
	c.Assert(err, qt.IsNil)
	defer sc.Release()
	c.Assert(sc.Config.SharingMode, qt.Equals, gfx.SharingModeConcurrent)
	c.Assert(sc.Config.QueueFamilyIndices, qt.DeepEquals, []uint32{0, 1})
}

func TestBuildSwapchainReleasesOnFailure(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	d := gfxtest.New(gfxtest.SuitableDevice("gpu"))
	d.Fail("CreateImageView", 2, gfx.ErrDeviceLost)
	device, candidate, surface := logicalDevice(c, d, cfg)

	_, err := core.NewSwapchainBuilder(d, cfg.Renderer).Build(device, surface, candidate.Support, gfx.Extent2D{Width: 800, Height: 600})
	c.Assert(errors.Is(err, core.SwapchainCreationError), qt.IsTrue)
	c.Assert(errors.Is(err, gfx.ErrDeviceLost), qt.IsTrue)
	c.Assert(d.Live(), qt.HasLen, 3) // instance, surface and device
	c.Assert(d.Problems(), qt.HasLen, 0)
}

func TestBuildSwapchainInadequateSupport(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	d := gfxtest.New(gfxtest.SuitableDevice("gpu"))
	device, candidate, surface := logicalDevice(c, d, cfg)

	support := candidate.Support
	support.PresentModes = nil
	_, err := core.NewSwapchainBuilder(d, cfg.Renderer).Build(device, surface, support, gfx.Extent2D{Width: 800, Height: 600})
	c.Assert(core.KindOf(err), qt.Equals, core.SwapchainCreationError)
	c.Assert(d.Calls("CreateSwapchain"), qt.Equals, 0)
}
