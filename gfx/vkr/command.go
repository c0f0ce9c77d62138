// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"github.com/devblok/vkboot/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// CreateCommandPool implements interface
func (d *Driver) CreateCommandPool(device gfx.Device, family uint32) (gfx.CommandPool, error) {
	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
	}

	var pool vk.CommandPool
	if err := result("vk.CreateCommandPool()", vk.CreateCommandPool(device.(vk.Device), &cpci, nil, &pool)); err != nil {
		return nil, err
	}
	return pool, nil
}

// DestroyCommandPool implements interface
func (d *Driver) DestroyCommandPool(device gfx.Device, pool gfx.CommandPool) {
	vk.DestroyCommandPool(device.(vk.Device), pool.(vk.CommandPool), nil)
}

// AllocateCommandBuffers implements interface
func (d *Driver) AllocateCommandBuffers(device gfx.Device, pool gfx.CommandPool, count int) ([]gfx.CommandBuffer, error) {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool.(vk.CommandPool),
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}

	native := make([]vk.CommandBuffer, count)
	if err := result("vk.AllocateCommandBuffers()", vk.AllocateCommandBuffers(device.(vk.Device), &cbai, native)); err != nil {
		return nil, err
	}
	buffers := make([]gfx.CommandBuffer, 0, count)
	for _, b := range native {
		buffers = append(buffers, b)
	}
	return buffers, nil
}

// FreeCommandBuffers implements interface
func (d *Driver) FreeCommandBuffers(device gfx.Device, pool gfx.CommandPool, buffers []gfx.CommandBuffer) {
	if len(buffers) == 0 {
		return
	}
	native := commandBuffers(buffers)
	vk.FreeCommandBuffers(device.(vk.Device), pool.(vk.CommandPool), uint32(len(native)), native)
}

// RecordDraw implements interface
func (d *Driver) RecordDraw(buffer gfx.CommandBuffer, info gfx.DrawInfo) error {
	cmd := buffer.(vk.CommandBuffer)

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageSimultaneousUseBit),
	}
	if err := result("vk.BeginCommandBuffer()", vk.BeginCommandBuffer(cmd, &cbbi)); err != nil {
		return err
	}

	clearValues := make([]vk.ClearValue, 1)
	clearValues[0].SetColor(info.ClearColor[:])

	rpbi := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      info.RenderPass.(vk.RenderPass),
		Framebuffer:     info.Framebuffer.(vk.Framebuffer),
		RenderArea:      rectToVk(info.RenderArea),
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(cmd, &rpbi, vk.SubpassContentsInline)
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, info.Pipeline.(vk.Pipeline))
	vk.CmdDraw(cmd, info.VertexCount, info.InstanceCount, 0, 0)
	vk.CmdEndRenderPass(cmd)

	return result("vk.EndCommandBuffer()", vk.EndCommandBuffer(cmd))
}
