package core

import (
	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// GraphicsPipeline is the render pass, layout and pipeline
// used to draw into swapchain images.
type GraphicsPipeline struct {
	RenderPass gfx.RenderPass
	Layout     gfx.PipelineLayout
	Pipeline   gfx.Pipeline
	Extent     gfx.Extent2D

	owned releaseStack
}

// Release destroys the pipeline, the layout and the render pass.
func (p *GraphicsPipeline) Release() {
	p.owned.Release()
}

// NewPipelineBuilder creates a PipelineBuilder that loads
// the configured shaders from source.
func NewPipelineBuilder(driver gfx.PipelineDriver, source ShaderSource, cfg RendererConfiguration) *PipelineBuilder {
	return &PipelineBuilder{
		driver:   driver,
		source:   source,
		vertex:   cfg.VertexShader,
		fragment: cfg.FragmentShader,
		logger:   log.WithField("component", "pipeline"),
	}
}

// PipelineBuilder creates the fixed graphics pipeline.
type PipelineBuilder struct {
	driver   gfx.PipelineDriver
	source   ShaderSource
	vertex   string
	fragment string
	logger   *log.Entry
}

// renderPassInfo is a single subpass writing one cleared color
// attachment that ends up ready for presentation.
func renderPassInfo(format gfx.Format) gfx.RenderPassInfo {
	return gfx.RenderPassInfo{
		Attachments: []gfx.AttachmentDescription{{
			Format:         format,
			Samples:        gfx.SampleCount1,
			LoadOp:         gfx.LoadOpClear,
			StoreOp:        gfx.StoreOpStore,
			StencilLoadOp:  gfx.LoadOpDontCare,
			StencilStoreOp: gfx.StoreOpDontCare,
			InitialLayout:  gfx.ImageLayoutUndefined,
			FinalLayout:    gfx.ImageLayoutPresentSrc,
		}},
		Subpasses: []gfx.SubpassDescription{{
			ColorAttachments: []gfx.AttachmentReference{{
				Attachment: 0,
				Layout:     gfx.ImageLayoutColorAttachmentOptimal,
			}},
		}},
		Dependencies: []gfx.SubpassDependency{{
			SrcSubpass:    gfx.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  gfx.StageColorAttachmentOutput,
			DstStageMask:  gfx.StageColorAttachmentOutput,
			DstAccessMask: gfx.AccessColorAttachmentRead | gfx.AccessColorAttachmentWrite,
		}},
	}
}

// pipelineInfo is the fixed function state over the whole extent.
func pipelineInfo(extent gfx.Extent2D, stages []gfx.ShaderStageInfo, layout gfx.PipelineLayout, pass gfx.RenderPass) gfx.GraphicsPipelineInfo {
	return gfx.GraphicsPipelineInfo{
		Stages:   stages,
		Topology: gfx.TopologyTriangleList,
		Viewport: gfx.Viewport{
			Width:    float32(extent.Width),
			Height:   float32(extent.Height),
			MinDepth: 0,
			MaxDepth: 1,
		},
		Scissor: gfx.Rect2D{
			Extent: extent,
		},
		PolygonMode: gfx.PolygonModeFill,
		CullMode:    gfx.CullModeBack,
		FrontFace:   gfx.FrontFaceClockwise,
		LineWidth:   1,
		Samples:     gfx.SampleCount1,
		Blend: gfx.ColorBlendAttachment{
			ColorWriteMask: gfx.ColorComponentRGBA,
		},
		Layout:     layout,
		RenderPass: pass,
		Subpass:    0,
	}
}

// Build creates the render pass and pipeline for images of format and extent.
func (b *PipelineBuilder) Build(device gfx.Device, format gfx.Format, extent gfx.Extent2D) (*GraphicsPipeline, error) {
	const op = "core.PipelineBuilder.Build()"

	shaders := make([]Shader, 0, 2)
	for _, name := range []string{b.vertex, b.fragment} {
		shader, err := LoadShader(b.source, name)
		if err != nil {
			return nil, err
		}
		shaders = append(shaders, shader)
	}

	p := &GraphicsPipeline{Extent: extent}

	pass, err := b.driver.CreateRenderPass(device, renderPassInfo(format))
	if err != nil {
		return nil, newError(PipelineCreationError, op, err)
	}
	p.RenderPass = pass
	p.owned.push("render pass", func() {
		b.driver.DestroyRenderPass(device, pass)
	})

	layout, err := b.driver.CreatePipelineLayout(device)
	if err != nil {
		p.Release()
		return nil, newError(PipelineCreationError, op, err)
	}
	p.Layout = layout
	p.owned.push("pipeline layout", func() {
		b.driver.DestroyPipelineLayout(device, layout)
	})

	// Modules only live until the pipeline is created
	var modules releaseStack
	defer modules.Release()

	stages := make([]gfx.ShaderStageInfo, 0, len(shaders))
	for _, shader := range shaders {
		module, err := b.driver.CreateShaderModule(device, shader.Code)
		if err != nil {
			modules.Release()
			p.Release()
			return nil, newError(ShaderCompileError, op, errors.Wrap(err, shader.Name))
		}
		modules.push("shader module", func() {
			b.driver.DestroyShaderModule(device, module)
		})
		stages = append(stages, gfx.ShaderStageInfo{
			Stage:      shader.Type.Stage(),
			Module:     module,
			EntryPoint: "main",
		})
	}

	pipeline, err := b.driver.CreateGraphicsPipeline(device, pipelineInfo(extent, stages, layout, pass))
	if err != nil {
		modules.Release()
		p.Release()
		return nil, newError(PipelineCreationError, op, err)
	}
	p.Pipeline = pipeline
	p.owned.push("pipeline", func() {
		b.driver.DestroyPipeline(device, pipeline)
	})

	b.logger.WithFields(log.Fields{
		"vertex":   b.vertex,
		"fragment": b.fragment,
		"extent":   extent.String(),
	}).Debug("graphics pipeline created")
	return p, nil
}
