// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"github.com/devblok/vkboot/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// CreateShaderModule implements interface
func (d *Driver) CreateShaderModule(device gfx.Device, code []byte) (gfx.ShaderModule, error) {
	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    spirvWords(code),
	}

	var module vk.ShaderModule
	if err := result("vk.CreateShaderModule()", vk.CreateShaderModule(device.(vk.Device), &smci, nil, &module)); err != nil {
		return nil, err
	}
	return module, nil
}

// DestroyShaderModule implements interface
func (d *Driver) DestroyShaderModule(device gfx.Device, module gfx.ShaderModule) {
	vk.DestroyShaderModule(device.(vk.Device), module.(vk.ShaderModule), nil)
}

// CreateRenderPass implements interface
func (d *Driver) CreateRenderPass(device gfx.Device, info gfx.RenderPassInfo) (gfx.RenderPass, error) {
	attachments := make([]vk.AttachmentDescription, 0, len(info.Attachments))
	for _, a := range info.Attachments {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         vk.Format(a.Format),
			Samples:        vk.SampleCountFlagBits(a.Samples),
			LoadOp:         vk.AttachmentLoadOp(a.LoadOp),
			StoreOp:        vk.AttachmentStoreOp(a.StoreOp),
			StencilLoadOp:  vk.AttachmentLoadOp(a.StencilLoadOp),
			StencilStoreOp: vk.AttachmentStoreOp(a.StencilStoreOp),
			InitialLayout:  vk.ImageLayout(a.InitialLayout),
			FinalLayout:    vk.ImageLayout(a.FinalLayout),
		})
	}

	subpasses := make([]vk.SubpassDescription, 0, len(info.Subpasses))
	for _, s := range info.Subpasses {
		refs := make([]vk.AttachmentReference, 0, len(s.ColorAttachments))
		for _, r := range s.ColorAttachments {
			refs = append(refs, vk.AttachmentReference{
				Attachment: r.Attachment,
				Layout:     vk.ImageLayout(r.Layout),
			})
		}
		subpasses = append(subpasses, vk.SubpassDescription{
			PipelineBindPoint:    vk.PipelineBindPointGraphics,
			ColorAttachmentCount: uint32(len(refs)),
			PColorAttachments:    refs,
		})
	}

	dependencies := make([]vk.SubpassDependency, 0, len(info.Dependencies))
	for _, dep := range info.Dependencies {
		dependencies = append(dependencies, vk.SubpassDependency{
			SrcSubpass:    dep.SrcSubpass,
			DstSubpass:    dep.DstSubpass,
			SrcStageMask:  vk.PipelineStageFlags(dep.SrcStageMask),
			DstStageMask:  vk.PipelineStageFlags(dep.DstStageMask),
			SrcAccessMask: vk.AccessFlags(dep.SrcAccessMask),
			DstAccessMask: vk.AccessFlags(dep.DstAccessMask),
		})
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}

	var pass vk.RenderPass
	if err := result("vk.CreateRenderPass()", vk.CreateRenderPass(device.(vk.Device), &rpci, nil, &pass)); err != nil {
		return nil, err
	}
	return pass, nil
}

// DestroyRenderPass implements interface
func (d *Driver) DestroyRenderPass(device gfx.Device, pass gfx.RenderPass) {
	vk.DestroyRenderPass(device.(vk.Device), pass.(vk.RenderPass), nil)
}

// CreatePipelineLayout implements interface
func (d *Driver) CreatePipelineLayout(device gfx.Device) (gfx.PipelineLayout, error) {
	plci := vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}

	var layout vk.PipelineLayout
	if err := result("vk.CreatePipelineLayout()", vk.CreatePipelineLayout(device.(vk.Device), &plci, nil, &layout)); err != nil {
		return nil, err
	}
	return layout, nil
}

// DestroyPipelineLayout implements interface
func (d *Driver) DestroyPipelineLayout(device gfx.Device, layout gfx.PipelineLayout) {
	vk.DestroyPipelineLayout(device.(vk.Device), layout.(vk.PipelineLayout), nil)
}

// CreateGraphicsPipeline implements interface
func (d *Driver) CreateGraphicsPipeline(device gfx.Device, info gfx.GraphicsPipelineInfo) (gfx.Pipeline, error) {
	dev := device.(vk.Device)

	stages := make([]vk.PipelineShaderStageCreateInfo, 0, len(info.Stages))
	for _, s := range info.Stages {
		stages = append(stages, vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFlagBits(s.Stage),
			Module: s.Module.(vk.ShaderModule),
			PName:  safeString(s.EntryPoint),
		})
	}

	vp := info.Viewport
	gpci := []vk.GraphicsPipelineCreateInfo{{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vk.PrimitiveTopology(info.Topology),
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			PViewports: []vk.Viewport{{
				X:        vp.X,
				Y:        vp.Y,
				Width:    vp.Width,
				Height:   vp.Height,
				MinDepth: vp.MinDepth,
				MaxDepth: vp.MaxDepth,
			}},
			ScissorCount: 1,
			PScissors:    []vk.Rect2D{rectToVk(info.Scissor)},
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonMode(info.PolygonMode),
			CullMode:    vk.CullModeFlags(info.CullMode),
			FrontFace:   vk.FrontFace(info.FrontFace),
			LineWidth:   info.LineWidth,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  bool32(info.DepthTest),
			DepthWriteEnable: bool32(info.DepthTest),
			DepthCompareOp:   vk.CompareOpLess,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCountFlagBits(info.Samples),
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: 1,
			PAttachments: []vk.PipelineColorBlendAttachmentState{{
				ColorWriteMask: vk.ColorComponentFlags(info.Blend.ColorWriteMask),
				BlendEnable:    bool32(info.Blend.BlendEnable),
			}},
		},
		Layout:     info.Layout.(vk.PipelineLayout),
		RenderPass: info.RenderPass.(vk.RenderPass),
		Subpass:    info.Subpass,
	}}

	pcci := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}
	var cache vk.PipelineCache
	if err := result("vk.CreatePipelineCache()", vk.CreatePipelineCache(dev, &pcci, nil, &cache)); err != nil {
		return nil, err
	}
	defer vk.DestroyPipelineCache(dev, cache, nil)

	pipelines := make([]vk.Pipeline, len(gpci))
	if err := result("vk.CreateGraphicsPipelines()", vk.CreateGraphicsPipelines(dev, cache, uint32(len(gpci)), gpci, nil, pipelines)); err != nil {
		return nil, err
	}
	return pipelines[0], nil
}

// DestroyPipeline implements interface
func (d *Driver) DestroyPipeline(device gfx.Device, pipeline gfx.Pipeline) {
	vk.DestroyPipeline(device.(vk.Device), pipeline.(vk.Pipeline), nil)
}

// CreateFramebuffer implements interface
func (d *Driver) CreateFramebuffer(device gfx.Device, info gfx.FramebufferInfo) (gfx.Framebuffer, error) {
	attachments := make([]vk.ImageView, 0, len(info.Attachments))
	for _, view := range info.Attachments {
		attachments = append(attachments, view.(vk.ImageView))
	}

	fci := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      info.RenderPass.(vk.RenderPass),
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           info.Extent.Width,
		Height:          info.Extent.Height,
		Layers:          info.Layers,
	}

	var framebuffer vk.Framebuffer
	if err := result("vk.CreateFramebuffer()", vk.CreateFramebuffer(device.(vk.Device), &fci, nil, &framebuffer)); err != nil {
		return nil, err
	}
	return framebuffer, nil
}

// DestroyFramebuffer implements interface
func (d *Driver) DestroyFramebuffer(device gfx.Device, framebuffer gfx.Framebuffer) {
	vk.DestroyFramebuffer(device.(vk.Device), framebuffer.(vk.Framebuffer), nil)
}
