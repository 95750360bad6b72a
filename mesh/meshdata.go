// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/render"
)

// MeshData errors.
var (
	// ErrNilBuffer is returned when adding a nil stream buffer.
	ErrNilBuffer = errors.New("mesh: nil buffer")

	// ErrDuplicateStream is returned when a (semantic, index) key is
	// already occupied.
	ErrDuplicateStream = errors.New("mesh: stream already exists for semantic key")

	// ErrNilRenderSystem is returned when compiling without a render system.
	ErrNilRenderSystem = errors.New("mesh: nil render system")

	// ErrMissingIndices is returned when compiling an indexed mesh that
	// has no index data.
	ErrMissingIndices = errors.New("mesh: indexed mesh has no index data")

	// ErrMissingStream is returned when an operation requires a stream
	// the mesh does not have.
	ErrMissingStream = errors.New("mesh: required stream missing")

	// ErrStreamTooShort is returned when a stream holds fewer elements
	// than the mesh's vertex count requires.
	ErrStreamTooShort = errors.New("mesh: stream shorter than vertex count")

	// ErrNilMesh is returned when merging with a nil mesh.
	ErrNilMesh = errors.New("mesh: nil mesh")

	// ErrInvalidPositions is returned when merging meshes without valid
	// position data on both sides.
	ErrInvalidPositions = errors.New("mesh: merge requires valid positions on both meshes")

	// ErrStreamSizeMismatch is returned when merging streams whose
	// element sizes disagree for the same semantic key.
	ErrStreamSizeMismatch = errors.New("mesh: stream element size mismatch")
)

// bufferState tracks whether a GPU buffer mirror is in sync with the
// CPU-side data. Transitions: Clean -> Dirty on any mutation (through
// markVertexDirty/markIndexDirty), Dirty -> Clean only on a successful
// Compile.
type bufferState uint32

const (
	stateClean bufferState = iota
	stateDirty
)

// SubMesh identifies a contiguous slice of a MeshData's vertex/index
// range, allowing one MeshData to host multiple logical meshes.
// Offset and Count are in indices for indexed meshes and in vertices
// otherwise. BaseVertex is added to fetched index values.
type SubMesh struct {
	Offset     int
	Count      int
	BaseVertex int
}

// stream is one vertex attribute stream keyed by (semantic, index).
type stream struct {
	semantic      render.Semantic
	semanticIndex int
	format        render.VertexFormat
	data          *Float32Buffer
}

func (s *stream) keyLess(sem render.Semantic, idx int) bool {
	if s.semantic != sem {
		return s.semantic < sem
	}
	return s.semanticIndex < idx
}

// MeshData is the central repository for a mesh's vertex/index data,
// its GPU buffer mirrors, and derived geometry. Streams are kept in
// ascending (semantic, semantic-index) order for deterministic vertex
// layout construction.
type MeshData struct {
	topology   render.PrimitiveTopology
	streams    []*stream
	indices    *IndexData
	useIndexed bool
	dynamic    bool

	vertexCount    int
	indexCount     int
	primitiveCount int

	vertexState bufferState
	indexState  bufferState

	vb        render.VertexBuffer
	ib        render.IndexBuffer
	vbWritten bool
	ibWritten bool
}

// New creates an empty MeshData with the given topology.
func New(topology render.PrimitiveTopology) *MeshData {
	return &MeshData{
		topology:    topology,
		vertexState: stateDirty,
		indexState:  stateDirty,
	}
}

// Topology returns the primitive topology.
func (md *MeshData) Topology() render.PrimitiveTopology { return md.topology }

// SetTopology changes the primitive topology and marks the mesh dirty.
func (md *MeshData) SetTopology(t render.PrimitiveTopology) {
	if md.topology == t {
		return
	}
	md.topology = t
	md.markVertexDirty()
	md.markIndexDirty()
}

// Dynamic reports whether GPU buffers are created with dynamic usage.
func (md *MeshData) Dynamic() bool { return md.dynamic }

// SetDynamic selects dynamic GPU buffer usage for the next Compile.
func (md *MeshData) SetDynamic(dynamic bool) {
	if md.dynamic == dynamic {
		return
	}
	md.dynamic = dynamic
	md.markVertexDirty()
	md.markIndexDirty()
}

// UseIndexedPrimitives reports whether the mesh draws through indices.
// It is derived from whether index data has been supplied.
func (md *MeshData) UseIndexedPrimitives() bool { return md.useIndexed }

// markVertexDirty is the single entry point for vertex-side mutations.
func (md *MeshData) markVertexDirty() { md.vertexState = stateDirty }

// markIndexDirty is the single entry point for index-side mutations.
func (md *MeshData) markIndexDirty() { md.indexState = stateDirty }

// IsVertexBufferDirty reports whether the GPU vertex buffer is out of
// sync with the stream data.
func (md *MeshData) IsVertexBufferDirty() bool { return md.vertexState == stateDirty }

// IsIndexBufferDirty reports whether the GPU index buffer is out of
// sync with the index data.
func (md *MeshData) IsIndexBufferDirty() bool { return md.indexState == stateDirty }

// findStream returns the position of the stream with the given key, or
// the insertion position and false.
func (md *MeshData) findStream(sem render.Semantic, idx int) (int, bool) {
	for i, s := range md.streams {
		if s.semantic == sem && s.semanticIndex == idx {
			return i, true
		}
		if !s.keyLess(sem, idx) {
			return i, false
		}
	}
	return len(md.streams), false
}

// AddBuffer adds a vertex attribute stream under the (semantic, index)
// key. It fails if data is nil or the key already exists.
func (md *MeshData) AddBuffer(sem render.Semantic, idx int, format render.VertexFormat, data *Float32Buffer) error {
	if data == nil {
		return ErrNilBuffer
	}
	pos, found := md.findStream(sem, idx)
	if found {
		return ErrDuplicateStream
	}
	s := &stream{semantic: sem, semanticIndex: idx, format: format, data: data}
	md.streams = append(md.streams, nil)
	copy(md.streams[pos+1:], md.streams[pos:])
	md.streams[pos] = s
	md.markVertexDirty()
	return nil
}

// GetBuffer returns the stream buffer for the given key.
func (md *MeshData) GetBuffer(sem render.Semantic, idx int) (*Float32Buffer, bool) {
	pos, found := md.findStream(sem, idx)
	if !found {
		return nil, false
	}
	return md.streams[pos].data, true
}

// StreamFormat returns the vertex format of the stream for the given key.
func (md *MeshData) StreamFormat(sem render.Semantic, idx int) (render.VertexFormat, bool) {
	pos, found := md.findStream(sem, idx)
	if !found {
		return 0, false
	}
	return md.streams[pos].format, true
}

// RemoveBuffer removes the stream for the given key, reporting whether
// it existed.
func (md *MeshData) RemoveBuffer(sem render.Semantic, idx int) bool {
	pos, found := md.findStream(sem, idx)
	if !found {
		return false
	}
	md.streams = append(md.streams[:pos], md.streams[pos+1:]...)
	md.markVertexDirty()
	return true
}

// StreamCount returns the number of vertex attribute streams.
func (md *MeshData) StreamCount() int { return len(md.streams) }

// Indices returns the index data, or nil for non-indexed meshes.
func (md *MeshData) Indices() *IndexData { return md.indices }

// SetIndices replaces the index stream wholesale. Indexed drawing is
// derived from whether data is non-nil.
func (md *MeshData) SetIndices(data *IndexData) {
	md.indices = data
	md.useIndexed = data != nil
	md.markIndexDirty()
}

// VertexCount returns the vertex count computed by the last Compile.
func (md *MeshData) VertexCount() int { return md.vertexCount }

// IndexCount returns the index count computed by the last Compile.
func (md *MeshData) IndexCount() int { return md.indexCount }

// PrimitiveCount returns the primitive count computed by the last Compile.
func (md *MeshData) PrimitiveCount() int { return md.primitiveCount }

// Layout returns the vertex layout implied by the current streams, in
// ascending key order.
func (md *MeshData) Layout() render.VertexLayout {
	elements := make([]render.VertexElement, len(md.streams))
	for i, s := range md.streams {
		elements[i] = render.VertexElement{
			Semantic:      s.semantic,
			SemanticIndex: s.semanticIndex,
			Format:        s.format,
		}
	}
	return render.NewVertexLayout(elements...)
}

// GPUVertexBuffer returns the compiled vertex buffer, or nil before the
// first successful Compile.
func (md *MeshData) GPUVertexBuffer() render.VertexBuffer { return md.vb }

// GPUIndexBuffer returns the compiled index buffer, or nil for
// non-indexed meshes or before Compile.
func (md *MeshData) GPUIndexBuffer() render.IndexBuffer { return md.ib }

// HasValidPositions reports whether the mesh has a position stream with
// a whole number of Float32x3 positions.
func (md *MeshData) HasValidPositions() bool {
	pos, found := md.findStream(render.SemanticPosition, 0)
	if !found {
		return false
	}
	s := md.streams[pos]
	return s.format == render.Float32x3 && s.data.Len() > 0 && s.data.Len()%3 == 0
}

// computeVertexCount derives the vertex count from current stream
// lengths: the position stream when present, the shortest stream
// otherwise.
func (md *MeshData) computeVertexCount() int {
	if pos, found := md.findStream(render.SemanticPosition, 0); found {
		s := md.streams[pos]
		return s.data.Len() / s.format.Components()
	}
	count := -1
	for _, s := range md.streams {
		n := s.data.Len() / s.format.Components()
		if count < 0 || n < count {
			count = n
		}
	}
	if count < 0 {
		return 0
	}
	return count
}

// usage returns the GPU buffer usage for the current dynamic flag.
func (md *MeshData) usage() render.BufferUsage {
	if md.dynamic {
		return render.UsageDynamic
	}
	return render.UsageStatic
}

// Compile recomputes the derived counts and reconciles the GPU buffer
// mirrors with the CPU-side data.
//
// Reconstruction policy: when an existing GPU buffer matches the new
// size, format/layout, and usage, its data is rewritten in place
// (discard on the first write after creation, no-overwrite thereafter)
// to avoid reallocation; otherwise the old buffer is released and a new
// one created.
//
// A failed Compile can leave the buffers inconsistent with the dirty
// flags; callers must treat the MeshData as unusable until a subsequent
// Compile succeeds.
func (md *MeshData) Compile(sys render.System) error {
	if sys == nil {
		return ErrNilRenderSystem
	}

	md.vertexCount = md.computeVertexCount()
	if md.useIndexed {
		if md.indices == nil {
			return ErrMissingIndices
		}
		md.indexCount = md.indices.Len()
	} else {
		md.indexCount = 0
	}
	basis := md.vertexCount
	if md.useIndexed {
		basis = md.indexCount
	}
	md.primitiveCount = md.topology.PrimitiveCount(basis)

	if err := md.compileIndexBuffer(sys); err != nil {
		return err
	}
	if err := md.compileVertexBuffer(sys); err != nil {
		return err
	}

	md.vertexState = stateClean
	md.indexState = stateClean
	return nil
}

func (md *MeshData) compileIndexBuffer(sys render.System) error {
	if !md.useIndexed {
		if md.ib != nil {
			md.ib.Release()
			md.ib = nil
			md.ibWritten = false
		}
		return nil
	}
	if md.indexState == stateClean && md.ib != nil {
		return nil
	}

	format := md.indices.Format()
	if md.ib != nil &&
		(md.ib.Count() != md.indexCount || md.ib.Format() != format || md.ib.Usage() != md.usage()) {
		md.ib.Release()
		md.ib = nil
		md.ibWritten = false
	}
	if md.indexCount == 0 {
		return nil
	}
	if md.ib == nil {
		ib, err := sys.CreateIndexBuffer(format, md.indexCount, md.usage())
		if err != nil {
			return err
		}
		md.ib = ib
		md.ibWritten = false
	}
	mode := render.WriteNoOverwrite
	if !md.ibWritten {
		mode = render.WriteDiscard
	}
	if err := md.ib.Write(0, md.indices.Bytes(), mode); err != nil {
		return err
	}
	md.ibWritten = true
	return nil
}

func (md *MeshData) compileVertexBuffer(sys render.System) error {
	if md.vertexState == stateClean && md.vb != nil {
		return nil
	}

	layout := md.Layout()
	if md.vb != nil &&
		(md.vb.Count() != md.vertexCount || md.vb.Layout().Stride != layout.Stride || md.vb.Usage() != md.usage()) {
		md.vb.Release()
		md.vb = nil
		md.vbWritten = false
	}
	if md.vertexCount == 0 || layout.Stride == 0 {
		return nil
	}
	if md.vb == nil {
		vb, err := sys.CreateVertexBuffer(layout, md.vertexCount, md.usage())
		if err != nil {
			return err
		}
		md.vb = vb
		md.vbWritten = false
	}
	mode := render.WriteNoOverwrite
	if !md.vbWritten {
		mode = render.WriteDiscard
	}
	if err := md.vb.Write(0, md.interleave(layout), mode); err != nil {
		return err
	}
	md.vbWritten = true
	return nil
}

// interleave packs all streams into one interleaved vertex array in
// layout order. Streams shorter than the vertex count pad with zeros.
func (md *MeshData) interleave(layout render.VertexLayout) []byte {
	out := make([]byte, md.vertexCount*layout.Stride)
	for si, s := range md.streams {
		el := layout.Elements[si]
		comps := s.format.Components()
		data := s.data.Data()
		for vi := 0; vi < md.vertexCount; vi++ {
			base := vi*layout.Stride + el.Offset
			for c := 0; c < comps; c++ {
				var f float32
				if idx := vi*comps + c; idx < len(data) {
					f = data[idx]
				}
				binary.LittleEndian.PutUint32(out[base+c*4:], math.Float32bits(f))
			}
		}
	}
	return out
}

// ClearData releases all streams, indices, and GPU resources, leaving
// an empty mesh with the same topology.
func (md *MeshData) ClearData() {
	md.streams = nil
	md.indices = nil
	md.useIndexed = false
	md.vertexCount = 0
	md.indexCount = 0
	md.primitiveCount = 0
	if md.vb != nil {
		md.vb.Release()
		md.vb = nil
		md.vbWritten = false
	}
	if md.ib != nil {
		md.ib.Release()
		md.ib = nil
		md.ibWritten = false
	}
	md.markVertexDirty()
	md.markIndexDirty()
}

// Clone produces an independent copy with deep-copied streams and
// indices. GPU buffers are not shared; pass a non-nil sys to compile
// the clone immediately.
func (md *MeshData) Clone(sys render.System) (*MeshData, error) {
	clone := New(md.topology)
	clone.dynamic = md.dynamic
	for _, s := range md.streams {
		clone.streams = append(clone.streams, &stream{
			semantic:      s.semantic,
			semanticIndex: s.semanticIndex,
			format:        s.format,
			data:          s.data.Clone(),
		})
	}
	if md.indices != nil {
		clone.indices = md.indices.Clone()
		clone.useIndexed = md.useIndexed
	}
	if sys != nil {
		if err := clone.Compile(sys); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

// Transform applies the matrix to positions (full transform) and to
// normals, tangents, and bitangents (rotation-only, renormalized).
// A bit-exact identity matrix is a no-op.
func (md *MeshData) Transform(m g3d.Mat4) {
	if m.IsIdentity() {
		return
	}
	mutated := false
	for _, s := range md.streams {
		if s.format != render.Float32x3 {
			continue
		}
		switch s.semantic {
		case render.SemanticPosition:
			transformVec3Stream(s.data, m.TransformPoint)
			mutated = true
		case render.SemanticNormal, render.SemanticTangent, render.SemanticBitangent:
			transformVec3Stream(s.data, m.TransformNormal)
			mutated = true
		}
	}
	if mutated {
		md.markVertexDirty()
	}
}

func transformVec3Stream(data *Float32Buffer, f func(g3d.Vec3) g3d.Vec3) {
	raw := data.Data()
	for i := 0; i+2 < len(raw); i += 3 {
		v := f(g3d.Vec3{X: raw[i], Y: raw[i+1], Z: raw[i+2]})
		raw[i], raw[i+1], raw[i+2] = v.X, v.Y, v.Z
	}
}
