// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"github.com/devblok/vkboot/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// CreateSemaphore implements interface
func (d *Driver) CreateSemaphore(device gfx.Device) (gfx.Semaphore, error) {
	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var semaphore vk.Semaphore
	if err := result("vk.CreateSemaphore()", vk.CreateSemaphore(device.(vk.Device), &sci, nil, &semaphore)); err != nil {
		return nil, err
	}
	return semaphore, nil
}

// DestroySemaphore implements interface
func (d *Driver) DestroySemaphore(device gfx.Device, semaphore gfx.Semaphore) {
	vk.DestroySemaphore(device.(vk.Device), semaphore.(vk.Semaphore), nil)
}

// CreateFence implements interface
func (d *Driver) CreateFence(device gfx.Device, signaled bool) (gfx.Fence, error) {
	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fci.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	if err := result("vk.CreateFence()", vk.CreateFence(device.(vk.Device), &fci, nil, &fence)); err != nil {
		return nil, err
	}
	return fence, nil
}

// DestroyFence implements interface
func (d *Driver) DestroyFence(device gfx.Device, fence gfx.Fence) {
	vk.DestroyFence(device.(vk.Device), fence.(vk.Fence), nil)
}

// WaitForFence implements interface
func (d *Driver) WaitForFence(device gfx.Device, fence gfx.Fence, timeout uint64) error {
	return result("vk.WaitForFences()",
		vk.WaitForFences(device.(vk.Device), 1, []vk.Fence{fence.(vk.Fence)}, vk.True, timeout))
}

// ResetFence implements interface
func (d *Driver) ResetFence(device gfx.Device, fence gfx.Fence) error {
	return result("vk.ResetFences()", vk.ResetFences(device.(vk.Device), 1, []vk.Fence{fence.(vk.Fence)}))
}

// AcquireNextImage implements interface
func (d *Driver) AcquireNextImage(device gfx.Device, swapchain gfx.Swapchain, timeout uint64, signal gfx.Semaphore) (uint32, bool, error) {
	var index uint32
	err := result("vk.AcquireNextImage()",
		vk.AcquireNextImage(device.(vk.Device), swapchain.(vk.Swapchain), timeout, signal.(vk.Semaphore), nil, &index))
	sub, err := suboptimal(err)
	return index, sub, err
}

// QueueSubmit implements interface
func (d *Driver) QueueSubmit(queue gfx.Queue, info gfx.SubmitInfo) error {
	stages := make([]vk.PipelineStageFlags, 0, len(info.WaitStages))
	for _, s := range info.WaitStages {
		stages = append(stages, vk.PipelineStageFlags(s))
	}
	wait := semaphores(info.WaitSemaphores)
	signal := semaphores(info.SignalSemaphores)
	buffers := commandBuffers(info.CommandBuffers)

	submit := []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   uint32(len(wait)),
		PWaitSemaphores:      wait,
		PWaitDstStageMask:    stages,
		CommandBufferCount:   uint32(len(buffers)),
		PCommandBuffers:      buffers,
		SignalSemaphoreCount: uint32(len(signal)),
		PSignalSemaphores:    signal,
	}}

	var fence vk.Fence
	if info.Fence != nil {
		fence = info.Fence.(vk.Fence)
	}
	return result("vk.QueueSubmit()", vk.QueueSubmit(queue.(vk.Queue), 1, submit, fence))
}

// QueuePresent implements interface
func (d *Driver) QueuePresent(queue gfx.Queue, info gfx.PresentInfo) (bool, error) {
	wait := semaphores(info.WaitSemaphores)
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(wait)),
		PWaitSemaphores:    wait,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{info.Swapchain.(vk.Swapchain)},
		PImageIndices:      []uint32{info.ImageIndex},
	}
	return suboptimal(result("vk.QueuePresent()", vk.QueuePresent(queue.(vk.Queue), &presentInfo)))
}
