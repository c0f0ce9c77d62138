package core

import (
	"github.com/devblok/vkboot/gfx"
	log "github.com/sirupsen/logrus"
)

// SwapchainConfig is what was negotiated with the surface.
type SwapchainConfig struct {
	Format             gfx.SurfaceFormat
	PresentMode        gfx.PresentMode
	Extent             gfx.Extent2D
	ImageCount         uint32
	SharingMode        gfx.SharingMode
	QueueFamilyIndices []uint32
}

// Swapchain is the image chain with one view per image.
type Swapchain struct {
	Config SwapchainConfig
	Handle gfx.Swapchain
	Images []gfx.Image
	Views  []gfx.ImageView

	owned releaseStack
}

// Release destroys the image views, then the swapchain.
func (s *Swapchain) Release() {
	s.owned.Release()
}

// ChooseSurfaceFormat picks preferred whenever the surface allows it.
// A single UNDEFINED entry, or no entry at all, means any format is fine.
// Without preferred in the list, the first entry wins.
func ChooseSurfaceFormat(formats []gfx.SurfaceFormat, preferred gfx.SurfaceFormat) gfx.SurfaceFormat {
	if len(formats) == 0 || (len(formats) == 1 && formats[0].Format == gfx.FormatUndefined) {
		return preferred
	}
	for _, f := range formats {
		if f == preferred {
			return f
		}
	}
	return formats[0]
}

// ChoosePresentMode prefers MAILBOX, then IMMEDIATE, then FIFO,
// which every surface supports.
func ChoosePresentMode(modes []gfx.PresentMode) gfx.PresentMode {
	best := gfx.PresentModeFifo
	for _, m := range modes {
		switch m {
		case gfx.PresentModeMailbox:
			return m
		case gfx.PresentModeImmediate:
			best = m
		}
	}
	return best
}

// ChooseExtent uses the current extent of the surface unless the surface
// leaves it to the application, then requested is clamped per axis.
// Either axis holding the sentinel counts as left to the application.
func ChooseExtent(caps gfx.SurfaceCapabilities, requested gfx.Extent2D) gfx.Extent2D {
	if caps.CurrentExtent.Width != gfx.UndefinedExtent && caps.CurrentExtent.Height != gfx.UndefinedExtent {
		return caps.CurrentExtent
	}
	return gfx.Extent2D{
		Width:  clamp(requested.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(requested.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, min, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ChooseImageCount asks for one image more than the minimum,
// within the maximum when there is one.
func ChooseImageCount(caps gfx.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// ChooseSharing shares images between the graphics and present
// families when they differ.
func ChooseSharing(indices QueueFamilyIndices) (gfx.SharingMode, []uint32) {
	if indices.Shared() {
		return gfx.SharingModeExclusive, nil
	}
	return gfx.SharingModeConcurrent, []uint32{indices.Graphics.Value(), indices.Present.Value()}
}

// chooseCompositeAlpha returns the first supported mode,
// preferring an opaque surface.
func chooseCompositeAlpha(caps gfx.SurfaceCapabilities) gfx.CompositeAlpha {
	for _, a := range []gfx.CompositeAlpha{
		gfx.CompositeAlphaOpaque,
		gfx.CompositeAlphaPreMultiplied,
		gfx.CompositeAlphaPostMultiplied,
		gfx.CompositeAlphaInherit,
	} {
		if caps.SupportedCompositeAlpha&a != 0 {
			return a
		}
	}
	return gfx.CompositeAlphaOpaque
}

// NewSwapchainBuilder creates a SwapchainBuilder.
func NewSwapchainBuilder(driver gfx.SwapchainDriver, cfg RendererConfiguration) *SwapchainBuilder {
	return &SwapchainBuilder{
		driver:    driver,
		preferred: cfg.PreferredFormat,
		logger:    log.WithField("component", "swapchain"),
	}
}

// SwapchainBuilder creates swapchains and their image views.
type SwapchainBuilder struct {
	driver    gfx.SwapchainDriver
	preferred gfx.SurfaceFormat
	logger    *log.Entry
}

// Configure negotiates the swapchain settings for a device.
func (b *SwapchainBuilder) Configure(indices QueueFamilyIndices, support SwapchainSupportDetails, hint gfx.Extent2D) SwapchainConfig {
	mode, families := ChooseSharing(indices)
	return SwapchainConfig{
		Format:             ChooseSurfaceFormat(support.Formats, b.preferred),
		PresentMode:        ChoosePresentMode(support.PresentModes),
		Extent:             ChooseExtent(support.Capabilities, hint),
		ImageCount:         ChooseImageCount(support.Capabilities),
		SharingMode:        mode,
		QueueFamilyIndices: families,
	}
}

// Build creates a swapchain for surface on device. hint is the
// drawable size of the window.
func (b *SwapchainBuilder) Build(device *LogicalDevice, surface gfx.Surface, support SwapchainSupportDetails, hint gfx.Extent2D) (*Swapchain, error) {
	const op = "core.SwapchainBuilder.Build()"
	if !support.Adequate() {
		return nil, newErrorf(SwapchainCreationError, op, "surface offers %d formats and %d present modes",
			len(support.Formats), len(support.PresentModes))
	}

	cfg := b.Configure(device.Indices, support, hint)
	if cfg.Extent.IsZero() {
		return nil, newErrorf(SwapchainCreationError, op, "zero extent %s", cfg.Extent)
	}

	handle, err := b.driver.CreateSwapchain(device.Handle, gfx.SwapchainInfo{
		Surface:            surface,
		MinImageCount:      cfg.ImageCount,
		Format:             cfg.Format,
		Extent:             cfg.Extent,
		PresentMode:        cfg.PresentMode,
		SharingMode:        cfg.SharingMode,
		QueueFamilyIndices: cfg.QueueFamilyIndices,
		PreTransform:       support.Capabilities.CurrentTransform,
		CompositeAlpha:     chooseCompositeAlpha(support.Capabilities),
		Clipped:            true,
	})
	if err != nil {
		return nil, newError(SwapchainCreationError, op, err)
	}

	sc := &Swapchain{
		Config: cfg,
		Handle: handle,
	}
	sc.owned.push("swapchain", func() {
		b.driver.DestroySwapchain(device.Handle, handle)
	})

	if sc.Images, err = b.driver.SwapchainImages(device.Handle, handle); err != nil {
		sc.Release()
		return nil, newError(SwapchainCreationError, op, err)
	}

	for idx, image := range sc.Images {
		view, err := b.driver.CreateImageView(device.Handle, image, cfg.Format.Format)
		if err != nil {
			sc.Release()
			return nil, newError(SwapchainCreationError, op, errorAt(idx, err))
		}
		sc.Views = append(sc.Views, view)
		sc.owned.push("image view", func() {
			b.driver.DestroyImageView(device.Handle, view)
		})
	}

	b.logger.WithFields(log.Fields{
		"format":  cfg.Format.String(),
		"mode":    cfg.PresentMode.String(),
		"extent":  cfg.Extent.String(),
		"images":  len(sc.Images),
		"sharing": cfg.SharingMode.String(),
	}).Info("swapchain created")
	return sc, nil
}
