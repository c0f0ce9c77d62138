// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"github.com/devblok/vkboot/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// CreateSwapchain implements interface
func (d *Driver) CreateSwapchain(device gfx.Device, info gfx.SwapchainInfo) (gfx.Swapchain, error) {
	var old vk.Swapchain
	if info.OldSwapchain != nil {
		old = info.OldSwapchain.(vk.Swapchain)
	}

	scci := vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               info.Surface.(vk.Surface),
		MinImageCount:         info.MinImageCount,
		ImageFormat:           vk.Format(info.Format.Format),
		ImageColorSpace:       vk.ColorSpace(info.Format.ColorSpace),
		ImageExtent:           extentToVk(info.Extent),
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      vk.SharingMode(info.SharingMode),
		QueueFamilyIndexCount: uint32(len(info.QueueFamilyIndices)),
		PQueueFamilyIndices:   info.QueueFamilyIndices,
		PreTransform:          vk.SurfaceTransformFlagBits(info.PreTransform),
		CompositeAlpha:        vk.CompositeAlphaFlagBits(info.CompositeAlpha),
		PresentMode:           vk.PresentMode(info.PresentMode),
		Clipped:               bool32(info.Clipped),
		OldSwapchain:          old,
	}

	var swapchain vk.Swapchain
	if err := result("vk.CreateSwapchain()", vk.CreateSwapchain(device.(vk.Device), &scci, nil, &swapchain)); err != nil {
		return nil, err
	}
	return swapchain, nil
}

// DestroySwapchain implements interface
func (d *Driver) DestroySwapchain(device gfx.Device, swapchain gfx.Swapchain) {
	vk.DestroySwapchain(device.(vk.Device), swapchain.(vk.Swapchain), nil)
}

// SwapchainImages implements interface
func (d *Driver) SwapchainImages(device gfx.Device, swapchain gfx.Swapchain) ([]gfx.Image, error) {
	dev, sc := device.(vk.Device), swapchain.(vk.Swapchain)
	var count uint32
	if err := result("vk.GetSwapchainImages(num)", vk.GetSwapchainImages(dev, sc, &count, nil)); err != nil {
		return nil, err
	}
	native := make([]vk.Image, count)
	if err := result("vk.GetSwapchainImages(images)", vk.GetSwapchainImages(dev, sc, &count, native)); err != nil {
		return nil, err
	}
	images := make([]gfx.Image, 0, count)
	for _, img := range native[:count] {
		images = append(images, img)
	}
	return images, nil
}

// CreateImageView implements interface
func (d *Driver) CreateImageView(device gfx.Device, image gfx.Image, format gfx.Format) (gfx.ImageView, error) {
	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image.(vk.Image),
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	if err := result("vk.CreateImageView()", vk.CreateImageView(device.(vk.Device), &ivci, nil, &view)); err != nil {
		return nil, err
	}
	return view, nil
}

// DestroyImageView implements interface
func (d *Driver) DestroyImageView(device gfx.Device, view gfx.ImageView) {
	vk.DestroyImageView(device.(vk.Device), view.(vk.ImageView), nil)
}
