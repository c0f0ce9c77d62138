package core

import (
	"github.com/devblok/vkboot/gfx"
)

// FramebufferSet holds one framebuffer per swapchain image view.
type FramebufferSet struct {
	Framebuffers []gfx.Framebuffer
	Extent       gfx.Extent2D

	owned releaseStack
}

// Len returns the number of framebuffers.
func (f *FramebufferSet) Len() int {
	return len(f.Framebuffers)
}

// Release destroys the framebuffers, last first.
func (f *FramebufferSet) Release() {
	f.owned.Release()
}

// NewFramebufferSet creates a framebuffer for every view of swapchain,
// bound to the render pass of pipeline.
func NewFramebufferSet(driver gfx.PipelineDriver, device gfx.Device, swapchain *Swapchain, pipeline *GraphicsPipeline) (*FramebufferSet, error) {
	set := &FramebufferSet{
		Framebuffers: make([]gfx.Framebuffer, 0, len(swapchain.Views)),
		Extent:       swapchain.Config.Extent,
	}
	for idx, view := range swapchain.Views {
		fb, err := driver.CreateFramebuffer(device, gfx.FramebufferInfo{
			RenderPass:  pipeline.RenderPass,
			Attachments: []gfx.ImageView{view},
			Extent:      swapchain.Config.Extent,
			Layers:      1,
		})
		if err != nil {
			set.Release()
			return nil, newError(SwapchainCreationError, "core.NewFramebufferSet()", errorAt(idx, err))
		}
		set.Framebuffers = append(set.Framebuffers, fb)
		set.owned.push("framebuffer", func() {
			driver.DestroyFramebuffer(device, fb)
		})
	}
	return set, nil
}
