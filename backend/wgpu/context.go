// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/render"
)

// Context errors.
var (
	// ErrNilEncoder is returned when drawing without a render pass.
	ErrNilEncoder = errors.New("wgpu: no render pass encoder bound")

	// ErrNoVertexBuffer is returned when drawing without a bound vertex
	// buffer.
	ErrNoVertexBuffer = errors.New("wgpu: no vertex buffer bound")

	// ErrNoIndexBuffer is returned when an indexed draw has no bound
	// index buffer.
	ErrNoIndexBuffer = errors.New("wgpu: no index buffer bound")
)

// pipelineKey identifies one cached render pipeline variant.
type pipelineKey struct {
	layout   string
	topology render.PrimitiveTopology
	blended  bool
}

// Context records draw commands into a host-owned render pass encoder.
// Shaders are generated from the bound vertex layout; pipelines are
// derived lazily from the layout, the current topology, and the blend
// state, and cached per variant.
type Context struct {
	sys      *System
	rp       hal.RenderPassEncoder
	deferred bool

	shaders    map[string]hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipelines  map[pipelineKey]hal.RenderPipeline

	vb *VertexBuffer
	ib *IndexBuffer

	blend        render.BlendState
	depthStencil render.DepthStencilState
	rasterizer   render.RasterizerState
}

// NewContext creates an immediate-mode context for the system.
func NewContext(sys *System) *Context {
	return newContext(sys, false)
}

// NewDeferredContext creates a context whose consumers treat each Begin
// as a fresh frame, restarting their ring cursors.
func NewDeferredContext(sys *System) *Context {
	return newContext(sys, true)
}

func newContext(sys *System, deferred bool) *Context {
	return &Context{
		sys:          sys,
		deferred:     deferred,
		shaders:      make(map[string]hal.ShaderModule),
		pipelines:    make(map[pipelineKey]hal.RenderPipeline),
		blend:        *sys.states.AlphaBlend(),
		depthStencil: *sys.states.DepthDefault(),
		rasterizer:   *sys.states.CullCounterClockwise(),
	}
}

// BeginPass binds the render pass encoder draws are recorded into. The
// encoder stays bound until EndPass.
func (c *Context) BeginPass(rp hal.RenderPassEncoder) {
	c.rp = rp
}

// EndPass releases the encoder. The host ends and submits the pass.
func (c *Context) EndPass() {
	c.rp = nil
}

// Release destroys the cached pipelines and shader modules. Buffers
// are owned by their creators and are not touched.
func (c *Context) Release() {
	for _, p := range c.pipelines {
		c.sys.device.DestroyRenderPipeline(p)
	}
	c.pipelines = make(map[pipelineKey]hal.RenderPipeline)
	if c.pipeLayout != nil {
		c.sys.device.DestroyPipelineLayout(c.pipeLayout)
		c.pipeLayout = nil
	}
	for _, s := range c.shaders {
		c.sys.device.DestroyShaderModule(s)
	}
	c.shaders = make(map[string]hal.ShaderModule)
}

// System implements render.Context.
func (c *Context) System() render.System { return c.sys }

// Deferred implements render.Context.
func (c *Context) Deferred() bool { return c.deferred }

// SetVertexBuffer implements render.Context.
func (c *Context) SetVertexBuffer(vb render.VertexBuffer) {
	c.vb, _ = vb.(*VertexBuffer)
}

// SetIndexBuffer implements render.Context.
func (c *Context) SetIndexBuffer(ib render.IndexBuffer) {
	c.ib, _ = ib.(*IndexBuffer)
}

// SetTexture implements render.Context. The built-in pipelines do not
// sample textures, so the binding has no effect on draws recorded here;
// texture identity still drives run grouping upstream, and hosts that
// sample use Texture.View with their own pipelines.
func (c *Context) SetTexture(tex render.Texture) {}

// SetBlendState implements render.Context. A nil state restores the
// provider default.
func (c *Context) SetBlendState(state *render.BlendState) {
	if state == nil {
		c.blend = *c.sys.states.AlphaBlend()
		return
	}
	c.blend = *state
}

// SetDepthStencilState implements render.Context.
func (c *Context) SetDepthStencilState(state *render.DepthStencilState) {
	if state == nil {
		c.depthStencil = *c.sys.states.DepthDefault()
		return
	}
	c.depthStencil = *state
}

// SetRasterizerState implements render.Context.
func (c *Context) SetRasterizerState(state *render.RasterizerState) {
	if state == nil {
		c.rasterizer = *c.sys.states.CullCounterClockwise()
		return
	}
	c.rasterizer = *state
}

// Draw implements render.Context.
func (c *Context) Draw(topology render.PrimitiveTopology, startVertex, vertexCount int) error {
	if err := c.bind(topology); err != nil {
		return err
	}
	c.rp.Draw(uint32(vertexCount), 1, uint32(startVertex), 0)
	return nil
}

// DrawIndexed implements render.Context.
func (c *Context) DrawIndexed(topology render.PrimitiveTopology, startIndex, indexCount, baseVertex int) error {
	return c.drawIndexed(topology, startIndex, indexCount, baseVertex, 1)
}

// DrawIndexedInstanced implements render.Context.
func (c *Context) DrawIndexedInstanced(topology render.PrimitiveTopology, startIndex, indexCount, baseVertex, instanceCount int) error {
	return c.drawIndexed(topology, startIndex, indexCount, baseVertex, instanceCount)
}

func (c *Context) drawIndexed(topology render.PrimitiveTopology, startIndex, indexCount, baseVertex, instanceCount int) error {
	if err := c.bind(topology); err != nil {
		return err
	}
	if c.ib == nil {
		return ErrNoIndexBuffer
	}
	c.rp.SetIndexBuffer(c.ib.halBuffer(), gpuIndexFormat(c.ib.format), 0)
	c.rp.DrawIndexed(uint32(indexCount), uint32(instanceCount), uint32(startIndex), int32(baseVertex), 0)
	return nil
}

// bind resolves the pipeline for the current state and binds it along
// with the vertex buffer.
func (c *Context) bind(topology render.PrimitiveTopology) error {
	if c.rp == nil {
		return ErrNilEncoder
	}
	if c.vb == nil {
		return ErrNoVertexBuffer
	}
	pipeline, err := c.pipeline(topology, c.vb.layout)
	if err != nil {
		return err
	}
	c.rp.SetPipeline(pipeline)
	c.rp.SetVertexBuffer(0, c.vb.halBuffer(), 0)
	return nil
}

// pipeline returns the cached pipeline for the key, creating it on
// first use.
func (c *Context) pipeline(topology render.PrimitiveTopology, layout render.VertexLayout) (hal.RenderPipeline, error) {
	sig := layoutSignature(layout)
	key := pipelineKey{layout: sig, topology: topology, blended: c.blend.Enabled}
	if p, ok := c.pipelines[key]; ok {
		return p, nil
	}
	shader, err := c.ensureShader(sig, layout)
	if err != nil {
		return nil, err
	}

	var blend *gputypes.BlendState
	if c.blend.Enabled {
		premul := gputypes.BlendStatePremultiplied()
		blend = &premul
	}
	pipeline, err := c.sys.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "g3d_pipeline",
		Layout: c.pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{layout.GPU()},
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology.GPU(),
			CullMode: gpuCullMode(c.rasterizer.Cull),
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline: %w", err)
	}
	g3d.Logger().Debug("pipeline created", "topology", topology, "stride", layout.Stride, "blended", c.blend.Enabled)
	c.pipelines[key] = pipeline
	return pipeline, nil
}

// ensureShader returns the shader module for the layout signature,
// generating and compiling it on first use. The shared pipeline layout
// is created alongside the first module; it is empty because generated
// shaders bind no resources.
func (c *Context) ensureShader(sig string, layout render.VertexLayout) (hal.ShaderModule, error) {
	if s, ok := c.shaders[sig]; ok {
		return s, nil
	}
	source, err := generateWGSL(layout)
	if err != nil {
		return nil, err
	}
	spirv, err := compileShaderToSPIRV(source)
	if err != nil {
		return nil, err
	}
	shader, err := createShaderModule(c.sys.device, "g3d_forward_shader", spirv)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module: %w", err)
	}
	if c.pipeLayout == nil {
		pipeLayout, err := c.sys.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label: "g3d_pipe_layout",
		})
		if err != nil {
			c.sys.device.DestroyShaderModule(shader)
			return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
		}
		c.pipeLayout = pipeLayout
	}
	c.shaders[sig] = shader
	return shader, nil
}

// gpuCullMode maps the boundary cull mode onto the HAL enum. Clockwise
// triangles are front faces in this engine, so culling clockwise culls
// front.
func gpuCullMode(m render.CullMode) gputypes.CullMode {
	switch m {
	case render.CullClockwise:
		return gputypes.CullModeFront
	case render.CullCounterClockwise:
		return gputypes.CullModeBack
	}
	return gputypes.CullModeNone
}
