// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Errors shared by System implementations.
var (
	// ErrNilData is returned when a write is attempted with no data.
	ErrNilData = errors.New("render: nil data")

	// ErrOutOfRange is returned when a buffer write exceeds the buffer's
	// capacity.
	ErrOutOfRange = errors.New("render: write out of range")

	// ErrReleased is returned when operating on a released resource.
	ErrReleased = errors.New("render: resource has been released")
)

// WriteMode is the hint accompanying a GPU buffer write.
type WriteMode uint32

const (
	// WriteNoOverwrite asserts the caller is writing to a region the GPU
	// is not currently reading, avoiding a synchronization stall.
	WriteNoOverwrite WriteMode = iota

	// WriteDiscard tells the device the entire previous buffer contents
	// may be discarded, permitting a fresh backing allocation instead of
	// stalling on in-flight GPU reads.
	WriteDiscard
)

// String returns a human-readable name for the write mode.
func (m WriteMode) String() string {
	if m == WriteDiscard {
		return "Discard"
	}
	return "NoOverwrite"
}

// BufferUsage selects the allocation strategy for a GPU buffer.
type BufferUsage uint32

const (
	// UsageStatic is for buffers written rarely and drawn many times.
	UsageStatic BufferUsage = iota

	// UsageDynamic is for buffers rewritten every frame (batch staging).
	UsageDynamic
)

// String returns a human-readable name for the usage.
func (u BufferUsage) String() string {
	if u == UsageDynamic {
		return "Dynamic"
	}
	return "Static"
}

// VertexBuffer is a GPU-backed vertex buffer created by a System.
// The creating component owns the buffer exclusively and releases it
// deterministically via Release.
type VertexBuffer interface {
	// Layout returns the vertex layout the buffer was created with.
	Layout() VertexLayout

	// Count returns the buffer capacity in vertices.
	Count() int

	// Usage returns the buffer's usage.
	Usage() BufferUsage

	// Write stores data (whole interleaved vertices) starting at the
	// given vertex position. len(data) must be a multiple of the layout
	// stride and fit within the buffer.
	Write(firstVertex int, data []byte, mode WriteMode) error

	// Release frees the GPU resource. Further operations return
	// ErrReleased. Release is idempotent.
	Release()
}

// IndexBuffer is a GPU-backed index buffer created by a System.
type IndexBuffer interface {
	// Format returns the index storage width.
	Format() IndexFormat

	// Count returns the buffer capacity in indices.
	Count() int

	// Usage returns the buffer's usage.
	Usage() BufferUsage

	// Write stores data (raw index values of the buffer's format)
	// starting at the given index position.
	Write(firstIndex int, data []byte, mode WriteMode) error

	// Release frees the GPU resource. Release is idempotent.
	Release()
}

// Texture identifies a texture resource for draw submission. Sprite
// batching groups consecutive submissions by NativeID, so two Texture
// values wrapping the same device resource must report the same ID.
type Texture interface {
	// NativeID returns a device-unique identity for the underlying
	// texture resource.
	NativeID() uint64

	// Width returns the texture width in texels.
	Width() int

	// Height returns the texture height in texels.
	Height() int
}

// System creates GPU resources. Backends implement it; mesh compilation
// and batch construction consume it.
type System interface {
	// CreateVertexBuffer creates a vertex buffer with capacity for count
	// vertices of the given layout.
	CreateVertexBuffer(layout VertexLayout, count int, usage BufferUsage) (VertexBuffer, error)

	// CreateIndexBuffer creates an index buffer with capacity for count
	// indices of the given format.
	CreateIndexBuffer(format IndexFormat, count int, usage BufferUsage) (IndexBuffer, error)

	// States returns the provider of predefined render states scoped to
	// this system.
	States() *StateProvider
}

// Context issues draw calls against bound buffers. All methods are
// single-threaded; a Context must only be driven from one goroutine.
type Context interface {
	// System returns the System that resources for this context come from.
	System() System

	// Deferred reports whether this is a deferred (command-recording)
	// context. Batches always discard-write on first use per Begin on
	// deferred contexts instead of continuing a ring buffer.
	Deferred() bool

	// SetVertexBuffer binds the vertex buffer for subsequent draws.
	SetVertexBuffer(vb VertexBuffer)

	// SetIndexBuffer binds the index buffer for subsequent indexed draws.
	SetIndexBuffer(ib IndexBuffer)

	// SetTexture binds the texture for subsequent draws. A nil texture
	// unbinds.
	SetTexture(tex Texture)

	// SetBlendState applies a blend state. Nil restores the default.
	SetBlendState(state *BlendState)

	// SetDepthStencilState applies a depth-stencil state. Nil restores
	// the default.
	SetDepthStencilState(state *DepthStencilState)

	// SetRasterizerState applies a rasterizer state. Nil restores the
	// default.
	SetRasterizerState(state *RasterizerState)

	// Draw issues one non-indexed draw call.
	Draw(topology PrimitiveTopology, startVertex, vertexCount int) error

	// DrawIndexed issues one indexed draw call. Indices are offset by
	// baseVertex when fetching vertices.
	DrawIndexed(topology PrimitiveTopology, startIndex, indexCount, baseVertex int) error

	// DrawIndexedInstanced issues one indexed draw call replicated over
	// instanceCount instances.
	DrawIndexedInstanced(topology PrimitiveTopology, startIndex, indexCount, baseVertex, instanceCount int) error
}
