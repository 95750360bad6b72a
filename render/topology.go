// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PrimitiveTopology is the interpretation of a vertex/index sequence as
// geometric primitives.
//
// QuadList is a CPU-side convenience topology: batches expand quads to
// triangle lists before anything reaches the device, so it never
// appears in a draw call.
type PrimitiveTopology uint32

const (
	TriangleList PrimitiveTopology = iota
	TriangleStrip
	LineList
	LineStrip
	PointList
	QuadList
)

// String returns a human-readable name for the topology.
func (t PrimitiveTopology) String() string {
	switch t {
	case TriangleList:
		return "TriangleList"
	case TriangleStrip:
		return "TriangleStrip"
	case LineList:
		return "LineList"
	case LineStrip:
		return "LineStrip"
	case PointList:
		return "PointList"
	case QuadList:
		return "QuadList"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}
}

// PrimitiveCount returns the number of primitives formed by n vertices
// (or indices) under this topology. Results are clamped non-negative.
func (t PrimitiveTopology) PrimitiveCount(n int) int {
	var count int
	switch t {
	case TriangleList:
		count = n / 3
	case TriangleStrip:
		count = n - 2
	case LineList:
		count = n / 2
	case LineStrip:
		count = n - 1
	case PointList:
		count = n
	case QuadList:
		count = n / 4 * 2 // two triangles per quad after expansion
	}
	if count < 0 {
		count = 0
	}
	return count
}

// VertexCount returns the number of vertices (or indices) needed to
// form the given number of primitives under this topology. It is the
// inverse of PrimitiveCount for the list topologies.
func (t PrimitiveTopology) VertexCount(primitives int) int {
	if primitives <= 0 {
		return 0
	}
	switch t {
	case TriangleList:
		return primitives * 3
	case TriangleStrip:
		return primitives + 2
	case LineList:
		return primitives * 2
	case LineStrip:
		return primitives + 1
	case PointList:
		return primitives
	case QuadList:
		return primitives / 2 * 4
	}
	return 0
}

// IsTriangulated returns true for topologies made of triangles.
func (t PrimitiveTopology) IsTriangulated() bool {
	return t == TriangleList || t == TriangleStrip || t == QuadList
}

// IsStrip returns true for strip topologies. Strips cannot be
// concatenated meaningfully, so batches flush between strip submissions.
func (t PrimitiveTopology) IsStrip() bool {
	return t == TriangleStrip || t == LineStrip
}

// IsBatchable returns true for list topologies whose submissions can be
// appended to one another within a single draw call.
func (t PrimitiveTopology) IsBatchable() bool {
	switch t {
	case TriangleList, LineList, PointList, QuadList:
		return true
	}
	return false
}

// Compatible reports whether two topologies can share an accumulating
// batch. Topologies are compatible when equal, or when they are the
// TriangleList/QuadList pair: both map to a triangle list on the device.
func (t PrimitiveTopology) Compatible(other PrimitiveTopology) bool {
	if t == other {
		return true
	}
	isTri := func(p PrimitiveTopology) bool { return p == TriangleList || p == QuadList }
	return isTri(t) && isTri(other)
}

// GPU returns the device topology this maps to. QuadList maps to a
// triangle list since quads are expanded before submission.
func (t PrimitiveTopology) GPU() gputypes.PrimitiveTopology {
	switch t {
	case TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	case LineList:
		return gputypes.PrimitiveTopologyLineList
	case LineStrip:
		return gputypes.PrimitiveTopologyLineStrip
	case PointList:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}
