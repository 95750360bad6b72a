// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Semantic is the named role of a vertex attribute stream.
type Semantic uint32

const (
	SemanticPosition Semantic = iota
	SemanticNormal
	SemanticColor
	SemanticTextureCoordinate
	SemanticTangent
	SemanticBitangent
	SemanticBlendIndices
	SemanticBlendWeight
)

// String returns a human-readable name for the semantic.
func (s Semantic) String() string {
	switch s {
	case SemanticPosition:
		return "Position"
	case SemanticNormal:
		return "Normal"
	case SemanticColor:
		return "Color"
	case SemanticTextureCoordinate:
		return "TextureCoordinate"
	case SemanticTangent:
		return "Tangent"
	case SemanticBitangent:
		return "Bitangent"
	case SemanticBlendIndices:
		return "BlendIndices"
	case SemanticBlendWeight:
		return "BlendWeight"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(s))
	}
}

// VertexFormat describes the component layout of a single vertex
// attribute.
type VertexFormat uint32

const (
	Float32 VertexFormat = iota
	Float32x2
	Float32x3
	Float32x4
)

// Components returns the number of float32 components in the format.
func (f VertexFormat) Components() int {
	switch f {
	case Float32:
		return 1
	case Float32x2:
		return 2
	case Float32x3:
		return 3
	case Float32x4:
		return 4
	}
	return 0
}

// SizeInBytes returns the byte size of one attribute of this format.
func (f VertexFormat) SizeInBytes() int {
	return f.Components() * 4
}

// GPU returns the device vertex format.
func (f VertexFormat) GPU() gputypes.VertexFormat {
	switch f {
	case Float32:
		return gputypes.VertexFormatFloat32
	case Float32x2:
		return gputypes.VertexFormatFloat32x2
	case Float32x3:
		return gputypes.VertexFormatFloat32x3
	default:
		return gputypes.VertexFormatFloat32x4
	}
}

// VertexElement is one attribute within a vertex layout: a (semantic,
// semantic-index) key, the attribute format, and its byte offset within
// the interleaved vertex.
type VertexElement struct {
	Semantic      Semantic
	SemanticIndex int
	Format        VertexFormat
	Offset        int
}

// VertexLayout describes an interleaved vertex: its elements in
// ascending (semantic, semantic-index) order and the resulting stride.
type VertexLayout struct {
	Elements []VertexElement
	Stride   int
}

// NewVertexLayout builds a layout from elements, assigning sequential
// byte offsets and computing the stride. Element order is preserved;
// callers wanting deterministic layouts supply elements in ascending
// key order (MeshData does this for its streams).
func NewVertexLayout(elements ...VertexElement) VertexLayout {
	offset := 0
	out := make([]VertexElement, len(elements))
	for i, el := range elements {
		el.Offset = offset
		offset += el.Format.SizeInBytes()
		out[i] = el
	}
	return VertexLayout{Elements: out, Stride: offset}
}

// FindElement returns the element with the given key, or false if the
// layout does not contain it.
func (l VertexLayout) FindElement(sem Semantic, index int) (VertexElement, bool) {
	for _, el := range l.Elements {
		if el.Semantic == sem && el.SemanticIndex == index {
			return el, true
		}
	}
	return VertexElement{}, false
}

// GPU returns the device vertex buffer layout with sequential shader
// locations.
func (l VertexLayout) GPU() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(l.Elements))
	for i, el := range l.Elements {
		attrs[i] = gputypes.VertexAttribute{
			Format:         el.Format.GPU(),
			Offset:         uint64(el.Offset),
			ShaderLocation: uint32(i),
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(l.Stride),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// IndexFormat is the storage width of an index buffer.
type IndexFormat uint32

const (
	IndexUint16 IndexFormat = iota
	IndexUint32
)

// SizeInBytes returns the byte size of one index.
func (f IndexFormat) SizeInBytes() int {
	if f == IndexUint32 {
		return 4
	}
	return 2
}

// String returns a human-readable name for the index format.
func (f IndexFormat) String() string {
	if f == IndexUint32 {
		return "Uint32"
	}
	return "Uint16"
}
