// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package batch

import (
	"errors"

	"github.com/gogpu/g3d/render"
)

// Batch errors.
var (
	// ErrAlreadyAccumulating is returned by a nested Begin.
	ErrAlreadyAccumulating = errors.New("batch: Begin while accumulating")

	// ErrNotAccumulating is returned by Draw or End outside Begin/End.
	ErrNotAccumulating = errors.New("batch: not accumulating, call Begin first")

	// ErrNilContext is returned by Begin with a nil render context.
	ErrNilContext = errors.New("batch: nil render context")

	// ErrNilVertices is returned when a submission carries no vertex data.
	ErrNilVertices = errors.New("batch: nil vertices")

	// ErrNilIndices is returned when an indexed submission carries no
	// index data.
	ErrNilIndices = errors.New("batch: nil indices")

	// ErrCapacityExceeded is returned when a single submission is larger
	// than the batch's declared capacity.
	ErrCapacityExceeded = errors.New("batch: submission exceeds batch capacity")

	// ErrQuadVertexCount is returned when a quad-list submission's vertex
	// count is not a multiple of 4.
	ErrQuadVertexCount = errors.New("batch: quad vertex count not a multiple of 4")
)

// EncodeFunc packs one vertex into dst, which is at least one layout
// stride long.
type EncodeFunc[V any] func(dst []byte, v V)

// PrimitiveBatch accumulates draw submissions of a single vertex type
// and flushes them as a minimal number of device draw calls.
//
// The GPU buffers are rings: each flush writes the pending range at the
// current cursor (discard at cursor zero, no-overwrite otherwise) and
// advances, so several Begin/End cycles within one frame never stall on
// in-flight GPU reads. Cursors persist across flushes and reset only on
// wraparound, or at Begin on deferred contexts.
type PrimitiveBatch[V any] struct {
	layout render.VertexLayout
	encode EncodeFunc[V]

	vb render.VertexBuffer
	ib render.IndexBuffer

	vertexCapacity int
	indexCapacity  int

	ctx          render.Context
	accumulating bool

	vertexCursor int
	indexCursor  int

	pendingVerts   []V
	pendingIndices []uint16
	topology       render.PrimitiveTopology
	indexed        bool

	scratch []byte
}

// NewPrimitiveBatch creates a batch with GPU buffers sized for the
// given capacities. encode packs one vertex according to layout.
func NewPrimitiveBatch[V any](sys render.System, layout render.VertexLayout, encode EncodeFunc[V], vertexCapacity, indexCapacity int) (*PrimitiveBatch[V], error) {
	if sys == nil {
		return nil, ErrNilContext
	}
	vb, err := sys.CreateVertexBuffer(layout, vertexCapacity, render.UsageDynamic)
	if err != nil {
		return nil, err
	}
	ib, err := sys.CreateIndexBuffer(render.IndexUint16, indexCapacity, render.UsageDynamic)
	if err != nil {
		vb.Release()
		return nil, err
	}
	return &PrimitiveBatch[V]{
		layout:         layout,
		encode:         encode,
		vb:             vb,
		ib:             ib,
		vertexCapacity: vertexCapacity,
		indexCapacity:  indexCapacity,
	}, nil
}

// Release frees the batch's GPU buffers.
func (b *PrimitiveBatch[V]) Release() {
	b.vb.Release()
	b.ib.Release()
}

// Begin starts an accumulation pass against ctx. Deferred contexts
// reset the write cursors, so the first flush of the pass discard-writes.
func (b *PrimitiveBatch[V]) Begin(ctx render.Context) error {
	if b.accumulating {
		return ErrAlreadyAccumulating
	}
	if ctx == nil {
		return ErrNilContext
	}
	if ctx.Deferred() {
		b.vertexCursor = 0
		b.indexCursor = 0
	}
	b.ctx = ctx
	b.accumulating = true
	b.pendingVerts = b.pendingVerts[:0]
	b.pendingIndices = b.pendingIndices[:0]
	return nil
}

// End flushes any queued primitives and leaves the batch idle.
func (b *PrimitiveBatch[V]) End() error {
	if !b.accumulating {
		return ErrNotAccumulating
	}
	err := b.Flush()
	b.accumulating = false
	b.ctx = nil
	return err
}

// Draw submits non-indexed vertices. Quad lists are expanded to
// triangle lists on the way in.
func (b *PrimitiveBatch[V]) Draw(topology render.PrimitiveTopology, vertices []V) error {
	if !b.accumulating {
		return ErrNotAccumulating
	}
	if vertices == nil {
		return ErrNilVertices
	}
	if topology == render.QuadList {
		expanded, err := expandQuadVertices(vertices)
		if err != nil {
			return err
		}
		vertices = expanded
		topology = render.TriangleList
	}
	if len(vertices) > b.vertexCapacity {
		return ErrCapacityExceeded
	}

	if err := b.reconcile(topology, false, len(vertices), 0); err != nil {
		return err
	}
	b.pendingVerts = append(b.pendingVerts, vertices...)
	return nil
}

// DrawIndexed submits indexed vertices. Indices are relative to the
// submission and are rebased onto the accumulated range. Quad-list
// index runs are expanded to triangle-list index runs.
func (b *PrimitiveBatch[V]) DrawIndexed(topology render.PrimitiveTopology, vertices []V, indices []uint16) error {
	if !b.accumulating {
		return ErrNotAccumulating
	}
	if vertices == nil {
		return ErrNilVertices
	}
	if indices == nil {
		return ErrNilIndices
	}
	if topology == render.QuadList {
		expanded, err := expandQuadIndices(indices)
		if err != nil {
			return err
		}
		indices = expanded
		topology = render.TriangleList
	}
	if len(vertices) > b.vertexCapacity || len(indices) > b.indexCapacity {
		return ErrCapacityExceeded
	}

	if err := b.reconcile(topology, true, len(vertices), len(indices)); err != nil {
		return err
	}
	base := uint16(len(b.pendingVerts))
	b.pendingVerts = append(b.pendingVerts, vertices...)
	for _, i := range indices {
		b.pendingIndices = append(b.pendingIndices, i+base)
	}
	return nil
}

// reconcile flushes the pending accumulation when the incoming
// submission cannot merge into it: incompatible topology, a changed
// index mode, an unbatchable topology, or a capacity overflow
// (wraparound, which also resets the cursors to zero).
func (b *PrimitiveBatch[V]) reconcile(topology render.PrimitiveTopology, indexed bool, vertexCount, indexCount int) error {
	if len(b.pendingVerts) > 0 {
		mergeable := b.topology.Compatible(topology) &&
			b.indexed == indexed &&
			topology.IsBatchable()
		if !mergeable {
			if err := b.Flush(); err != nil {
				return err
			}
		}
	}
	if b.vertexCursor+len(b.pendingVerts)+vertexCount > b.vertexCapacity ||
		b.indexCursor+len(b.pendingIndices)+indexCount > b.indexCapacity {
		if err := b.Flush(); err != nil {
			return err
		}
		b.vertexCursor = 0
		b.indexCursor = 0
	}
	b.topology = topology
	b.indexed = indexed
	return nil
}

// Flush writes the pending ranges to the GPU buffers and issues exactly
// one draw call for them. A no-op when nothing is queued.
func (b *PrimitiveBatch[V]) Flush() error {
	if len(b.pendingVerts) == 0 {
		return nil
	}

	mode := render.WriteNoOverwrite
	if b.vertexCursor == 0 {
		mode = render.WriteDiscard
	}
	if err := b.vb.Write(b.vertexCursor, b.encodeVertices(), mode); err != nil {
		return err
	}
	b.ctx.SetVertexBuffer(b.vb)

	if b.indexed {
		mode = render.WriteNoOverwrite
		if b.indexCursor == 0 {
			mode = render.WriteDiscard
		}
		if err := b.ib.Write(b.indexCursor, encodeIndices(b.pendingIndices), mode); err != nil {
			return err
		}
		b.ctx.SetIndexBuffer(b.ib)
		if err := b.ctx.DrawIndexed(b.topology, b.indexCursor, len(b.pendingIndices), b.vertexCursor); err != nil {
			return err
		}
	} else {
		if err := b.ctx.Draw(b.topology, b.vertexCursor, len(b.pendingVerts)); err != nil {
			return err
		}
	}

	b.vertexCursor += len(b.pendingVerts)
	b.indexCursor += len(b.pendingIndices)
	b.pendingVerts = b.pendingVerts[:0]
	b.pendingIndices = b.pendingIndices[:0]
	return nil
}

func (b *PrimitiveBatch[V]) encodeVertices() []byte {
	stride := b.layout.Stride
	need := len(b.pendingVerts) * stride
	if cap(b.scratch) < need {
		b.scratch = make([]byte, need)
	}
	buf := b.scratch[:need]
	for i, v := range b.pendingVerts {
		b.encode(buf[i*stride:(i+1)*stride], v)
	}
	return buf
}

func encodeIndices(indices []uint16) []byte {
	out := make([]byte, len(indices)*2)
	for i, v := range indices {
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

// expandQuadVertices turns each quad {p0,p1,p2,p3} into the triangles
// {p0,p1,p2} and {p0,p2,p3}.
func expandQuadVertices[V any](quads []V) ([]V, error) {
	if len(quads)%4 != 0 {
		return nil, ErrQuadVertexCount
	}
	out := make([]V, 0, len(quads)+len(quads)/2)
	for q := 0; q < len(quads); q += 4 {
		out = append(out,
			quads[q], quads[q+1], quads[q+2],
			quads[q], quads[q+2], quads[q+3])
	}
	return out, nil
}

// expandQuadIndices applies the quad-to-triangle expansion to an index
// run.
func expandQuadIndices(quads []uint16) ([]uint16, error) {
	if len(quads)%4 != 0 {
		return nil, ErrQuadVertexCount
	}
	out := make([]uint16, 0, len(quads)+len(quads)/2)
	for q := 0; q < len(quads); q += 4 {
		out = append(out,
			quads[q], quads[q+1], quads[q+2],
			quads[q], quads[q+2], quads[q+3])
	}
	return out, nil
}
