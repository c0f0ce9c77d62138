// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"github.com/devblok/vkboot/gfx"
	vk "github.com/vulkan-go/vulkan"
)

func extentFromVk(e vk.Extent2D) gfx.Extent2D {
	return gfx.Extent2D{Width: e.Width, Height: e.Height}
}

func extentToVk(e gfx.Extent2D) vk.Extent2D {
	return vk.Extent2D{Width: e.Width, Height: e.Height}
}

func rectToVk(r gfx.Rect2D) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: r.Offset.X, Y: r.Offset.Y},
		Extent: extentToVk(r.Extent),
	}
}

func bool32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

func semaphores(handles []gfx.Semaphore) []vk.Semaphore {
	out := make([]vk.Semaphore, 0, len(handles))
	for _, h := range handles {
		out = append(out, h.(vk.Semaphore))
	}
	return out
}

func commandBuffers(handles []gfx.CommandBuffer) []vk.CommandBuffer {
	out := make([]vk.CommandBuffer, 0, len(handles))
	for _, h := range handles {
		out = append(out, h.(vk.CommandBuffer))
	}
	return out
}
