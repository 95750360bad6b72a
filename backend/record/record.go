// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package record provides a recording implementation of render.System
// and render.Context. Instead of talking to a GPU, it keeps CPU-side
// copies of every buffer and a log of every write and draw call.
//
// The package serves two purposes: it is the test harness for the mesh
// and batch packages (draw-call counts, write modes, and buffer contents
// are all observable), and it is a diagnostic tool for applications that
// want to inspect what a frame would submit.
package record

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/g3d/render"
)

// WriteOp is one recorded buffer write.
type WriteOp struct {
	// First is the destination position in vertices or indices.
	First int

	// Bytes is the length of the written data.
	Bytes int

	// Mode is the write hint the caller supplied.
	Mode render.WriteMode
}

// DrawKind discriminates recorded draw calls.
type DrawKind uint32

const (
	DrawNonIndexed DrawKind = iota
	DrawIndexed
	DrawIndexedInstanced
)

// DrawCall is one recorded device draw call.
type DrawCall struct {
	Kind     DrawKind
	Topology render.PrimitiveTopology

	// StartVertex/VertexCount are set for non-indexed draws.
	StartVertex int
	VertexCount int

	// StartIndex/IndexCount/BaseVertex are set for indexed draws.
	StartIndex int
	IndexCount int
	BaseVertex int

	// InstanceCount is set for instanced draws (1 otherwise).
	InstanceCount int

	// TextureID is the NativeID of the bound texture, or 0 if none.
	TextureID uint64
}

// System is a recording render.System.
type System struct {
	states *render.StateProvider

	// VertexBuffers and IndexBuffers list every buffer created through
	// this system, in creation order, including released ones.
	VertexBuffers []*VertexBuffer
	IndexBuffers  []*IndexBuffer
}

// NewSystem creates an empty recording system.
func NewSystem() *System {
	return &System{states: render.NewStateProvider()}
}

// CreateVertexBuffer implements render.System.
func (s *System) CreateVertexBuffer(layout render.VertexLayout, count int, usage render.BufferUsage) (render.VertexBuffer, error) {
	if count <= 0 || layout.Stride <= 0 {
		return nil, fmt.Errorf("record: invalid vertex buffer size (count=%d, stride=%d)", count, layout.Stride)
	}
	vb := &VertexBuffer{
		layout: layout,
		count:  count,
		usage:  usage,
		Data:   make([]byte, count*layout.Stride),
	}
	s.VertexBuffers = append(s.VertexBuffers, vb)
	return vb, nil
}

// CreateIndexBuffer implements render.System.
func (s *System) CreateIndexBuffer(format render.IndexFormat, count int, usage render.BufferUsage) (render.IndexBuffer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("record: invalid index buffer size (count=%d)", count)
	}
	ib := &IndexBuffer{
		format: format,
		count:  count,
		usage:  usage,
		Data:   make([]byte, count*format.SizeInBytes()),
	}
	s.IndexBuffers = append(s.IndexBuffers, ib)
	return ib, nil
}

// States implements render.System.
func (s *System) States() *render.StateProvider {
	return s.states
}

// VertexBuffer is a recording render.VertexBuffer.
type VertexBuffer struct {
	layout   render.VertexLayout
	count    int
	usage    render.BufferUsage
	released bool

	// Data mirrors the buffer contents.
	Data []byte

	// Writes logs every Write in order.
	Writes []WriteOp
}

// Layout implements render.VertexBuffer.
func (b *VertexBuffer) Layout() render.VertexLayout { return b.layout }

// Count implements render.VertexBuffer.
func (b *VertexBuffer) Count() int { return b.count }

// Usage implements render.VertexBuffer.
func (b *VertexBuffer) Usage() render.BufferUsage { return b.usage }

// Released reports whether Release has been called.
func (b *VertexBuffer) Released() bool { return b.released }

// Write implements render.VertexBuffer.
func (b *VertexBuffer) Write(firstVertex int, data []byte, mode render.WriteMode) error {
	if b.released {
		return render.ErrReleased
	}
	if data == nil {
		return render.ErrNilData
	}
	offset := firstVertex * b.layout.Stride
	if firstVertex < 0 || offset+len(data) > len(b.Data) {
		return render.ErrOutOfRange
	}
	copy(b.Data[offset:], data)
	b.Writes = append(b.Writes, WriteOp{First: firstVertex, Bytes: len(data), Mode: mode})
	return nil
}

// Release implements render.VertexBuffer.
func (b *VertexBuffer) Release() { b.released = true }

// IndexBuffer is a recording render.IndexBuffer.
type IndexBuffer struct {
	format   render.IndexFormat
	count    int
	usage    render.BufferUsage
	released bool

	// Data mirrors the buffer contents.
	Data []byte

	// Writes logs every Write in order.
	Writes []WriteOp
}

// Format implements render.IndexBuffer.
func (b *IndexBuffer) Format() render.IndexFormat { return b.format }

// Count implements render.IndexBuffer.
func (b *IndexBuffer) Count() int { return b.count }

// Usage implements render.IndexBuffer.
func (b *IndexBuffer) Usage() render.BufferUsage { return b.usage }

// Released reports whether Release has been called.
func (b *IndexBuffer) Released() bool { return b.released }

// Write implements render.IndexBuffer.
func (b *IndexBuffer) Write(firstIndex int, data []byte, mode render.WriteMode) error {
	if b.released {
		return render.ErrReleased
	}
	if data == nil {
		return render.ErrNilData
	}
	offset := firstIndex * b.format.SizeInBytes()
	if firstIndex < 0 || offset+len(data) > len(b.Data) {
		return render.ErrOutOfRange
	}
	copy(b.Data[offset:], data)
	b.Writes = append(b.Writes, WriteOp{First: firstIndex, Bytes: len(data), Mode: mode})
	return nil
}

// Release implements render.IndexBuffer.
func (b *IndexBuffer) Release() { b.released = true }

// Context is a recording render.Context.
type Context struct {
	system   *System
	deferred bool

	vertexBuffer render.VertexBuffer
	indexBuffer  render.IndexBuffer
	texture      render.Texture

	blend        *render.BlendState
	depthStencil *render.DepthStencilState
	rasterizer   *render.RasterizerState

	// Draws logs every draw call in order.
	Draws []DrawCall
}

// NewContext creates a recording context backed by the given system.
func NewContext(system *System) *Context {
	return &Context{system: system}
}

// NewDeferredContext creates a recording context that reports itself as
// deferred, for exercising the per-Begin discard discipline.
func NewDeferredContext(system *System) *Context {
	return &Context{system: system, deferred: true}
}

// System implements render.Context.
func (c *Context) System() render.System { return c.system }

// Deferred implements render.Context.
func (c *Context) Deferred() bool { return c.deferred }

// SetVertexBuffer implements render.Context.
func (c *Context) SetVertexBuffer(vb render.VertexBuffer) { c.vertexBuffer = vb }

// SetIndexBuffer implements render.Context.
func (c *Context) SetIndexBuffer(ib render.IndexBuffer) { c.indexBuffer = ib }

// SetTexture implements render.Context.
func (c *Context) SetTexture(tex render.Texture) { c.texture = tex }

// SetBlendState implements render.Context.
func (c *Context) SetBlendState(state *render.BlendState) { c.blend = state }

// SetDepthStencilState implements render.Context.
func (c *Context) SetDepthStencilState(state *render.DepthStencilState) { c.depthStencil = state }

// SetRasterizerState implements render.Context.
func (c *Context) SetRasterizerState(state *render.RasterizerState) { c.rasterizer = state }

// Draw implements render.Context.
func (c *Context) Draw(topology render.PrimitiveTopology, startVertex, vertexCount int) error {
	c.Draws = append(c.Draws, DrawCall{
		Kind:          DrawNonIndexed,
		Topology:      topology,
		StartVertex:   startVertex,
		VertexCount:   vertexCount,
		InstanceCount: 1,
		TextureID:     c.textureID(),
	})
	return nil
}

// DrawIndexed implements render.Context.
func (c *Context) DrawIndexed(topology render.PrimitiveTopology, startIndex, indexCount, baseVertex int) error {
	c.Draws = append(c.Draws, DrawCall{
		Kind:          DrawIndexed,
		Topology:      topology,
		StartIndex:    startIndex,
		IndexCount:    indexCount,
		BaseVertex:    baseVertex,
		InstanceCount: 1,
		TextureID:     c.textureID(),
	})
	return nil
}

// DrawIndexedInstanced implements render.Context.
func (c *Context) DrawIndexedInstanced(topology render.PrimitiveTopology, startIndex, indexCount, baseVertex, instanceCount int) error {
	c.Draws = append(c.Draws, DrawCall{
		Kind:          DrawIndexedInstanced,
		Topology:      topology,
		StartIndex:    startIndex,
		IndexCount:    indexCount,
		BaseVertex:    baseVertex,
		InstanceCount: instanceCount,
		TextureID:     c.textureID(),
	})
	return nil
}

// Reset clears the draw log. Buffer contents and write logs are kept.
func (c *Context) Reset() {
	c.Draws = c.Draws[:0]
}

func (c *Context) textureID() uint64 {
	if c.texture == nil {
		return 0
	}
	return c.texture.NativeID()
}

// textureIDs issues unique NativeIDs for recording textures.
var textureIDs atomic.Uint64

// Texture is a recording render.Texture with a unique NativeID.
type Texture struct {
	id     uint64
	width  int
	height int
}

// NewTexture creates a texture handle of the given size.
func NewTexture(width, height int) *Texture {
	return &Texture{id: textureIDs.Add(1), width: width, height: height}
}

// NativeID implements render.Texture.
func (t *Texture) NativeID() uint64 { return t.id }

// Width implements render.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements render.Texture.
func (t *Texture) Height() int { return t.height }
