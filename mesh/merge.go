// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import "github.com/gogpu/g3d/render"

// widenThreshold is the combined vertex count above which merged index
// data is widened to 32 bits. 65536 vertices still index as 0..65535.
const widenThreshold = 1 << 16

// Merge concatenates another mesh's vertex streams and indices onto
// this one. Both meshes must have valid position data. Streams present
// on only one side are zero-padded over the other side's vertex range
// so every stream covers the combined count. When either side is
// indexed, missing index data is synthesized as sequential indices and
// the other mesh's indices are appended with its vertices' offset
// added; 16-bit storage is widened to 32-bit when the combined vertex
// count requires it. When neither side is indexed the result stays
// non-indexed.
//
// Stream format checks run before any mutation, so a failed Merge
// leaves the receiver unchanged. The other mesh is never modified.
func (md *MeshData) Merge(other *MeshData) error {
	if other == nil {
		return ErrNilMesh
	}
	if !md.HasValidPositions() || !other.HasValidPositions() {
		return ErrInvalidPositions
	}
	for _, os := range other.streams {
		pos, found := md.findStream(os.semantic, os.semanticIndex)
		if found && md.streams[pos].format.SizeInBytes() != os.format.SizeInBytes() {
			return ErrStreamSizeMismatch
		}
	}

	myVerts := md.computeVertexCount()
	otherVerts := other.computeVertexCount()
	combined := myVerts + otherVerts

	md.mergeIndices(other, myVerts, otherVerts, combined)
	md.mergeStreams(other, myVerts, otherVerts, combined)
	return nil
}

func (md *MeshData) mergeIndices(other *MeshData, myVerts, otherVerts, combined int) {
	myIndexed := md.useIndexed && md.indices != nil
	otherIndexed := other.useIndexed && other.indices != nil
	if !myIndexed && !otherIndexed {
		return
	}

	wide := combined > widenThreshold
	if !myIndexed {
		md.indices = sequentialIndices(myVerts, wide)
		md.useIndexed = true
	} else if wide || (otherIndexed && other.indices.Format() == render.IndexUint32) {
		md.indices.Widen()
	}

	otherIdx := other.indices
	if !otherIndexed {
		otherIdx = sequentialIndices(otherVerts, md.indices.Format() == render.IndexUint32)
	}

	base := md.indices.Len()
	md.indices.Resize(base + otherIdx.Len())
	for i := 0; i < otherIdx.Len(); i++ {
		md.indices.Set(base+i, otherIdx.Get(i)+myVerts)
	}
	md.markIndexDirty()
}

func (md *MeshData) mergeStreams(other *MeshData, myVerts, otherVerts, combined int) {
	// Bring the receiver's streams to the combined length first; the
	// growth region stays zeroed unless the other mesh fills it below.
	for _, s := range md.streams {
		s.data.Resize(combined * s.format.Components())
	}
	for _, os := range other.streams {
		comps := os.format.Components()
		target, found := md.GetBuffer(os.semantic, os.semanticIndex)
		if !found {
			target = NewBuffer[float32](combined * comps)
			_ = md.AddBuffer(os.semantic, os.semanticIndex, os.format, target)
		}
		src := os.data.Data()
		if len(src) > otherVerts*comps {
			src = src[:otherVerts*comps]
		}
		copy(target.Data()[myVerts*comps:], src)
	}
	md.markVertexDirty()
}

// sequentialIndices builds the identity index run 0..count-1.
func sequentialIndices(count int, wide bool) *IndexData {
	if wide {
		b := NewBuffer[uint32](count)
		for i := 0; i < count; i++ {
			b.Set(i, uint32(i))
		}
		return NewIndexData32(b)
	}
	b := NewBuffer[uint16](count)
	for i := 0; i < count; i++ {
		b.Set(i, uint16(i))
	}
	return NewIndexData16(b)
}
