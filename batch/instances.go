// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package batch

import (
	"errors"
	"sync"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/mesh"
	"github.com/gogpu/g3d/render"
)

// InstanceSet collects per-instance transforms for one mesh drawn many
// times per frame. Multiple notifying callers may append within the
// same frame, so the list is guarded by a mutex; the critical sections
// are a single append or a slice swap.
type InstanceSet struct {
	mu         sync.Mutex
	transforms []g3d.Mat4
}

// Add queues one instance transform for the next Draw.
func (s *InstanceSet) Add(transform g3d.Mat4) {
	s.mu.Lock()
	s.transforms = append(s.transforms, transform)
	s.mu.Unlock()
}

// Len returns the number of queued instances.
func (s *InstanceSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transforms)
}

// Clear drops all queued instances.
func (s *InstanceSet) Clear() {
	s.mu.Lock()
	s.transforms = s.transforms[:0]
	s.mu.Unlock()
}

// take swaps out the queued transforms, leaving an empty list.
func (s *InstanceSet) take() []g3d.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.transforms
	s.transforms = nil
	return out
}

// ErrNotIndexed is returned when instancing a mesh without index data.
var ErrNotIndexed = errors.New("batch: instanced draw requires an indexed mesh")

// Draw issues one instanced draw call for the compiled indexed mesh,
// consuming the queued transforms. A no-op with zero instances. The
// transforms are returned so the caller can upload them to its
// instance buffer.
func (s *InstanceSet) Draw(ctx render.Context, md *mesh.MeshData) ([]g3d.Mat4, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if !md.UseIndexedPrimitives() {
		return nil, ErrNotIndexed
	}
	transforms := s.take()
	if len(transforms) == 0 {
		return nil, nil
	}
	ctx.SetVertexBuffer(md.GPUVertexBuffer())
	ctx.SetIndexBuffer(md.GPUIndexBuffer())
	if err := ctx.DrawIndexedInstanced(md.Topology(), 0, md.IndexCount(), 0, len(transforms)); err != nil {
		return nil, err
	}
	return transforms, nil
}
