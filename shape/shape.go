// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shape provides parametric geometry generators that populate
// mesh data streams.
//
// Generators honor a reuse contract: an existing stream buffer whose
// length already matches the generated data is overwritten in place
// rather than replaced, so repeated regeneration does not allocate.
package shape

import (
	"errors"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/mesh"
	"github.com/gogpu/g3d/render"
)

// ErrNilMesh is returned when generating into a nil mesh.
var ErrNilMesh = errors.New("shape: nil mesh")

// Options selects which attribute streams a generator emits.
type Options uint32

const (
	Positions Options = 1 << iota
	Normals
	TextureCoordinates

	// All emits every stream a generator supports.
	All = Positions | Normals | TextureCoordinates
)

// ensureStream returns the mesh's stream buffer for the key, reusing it
// when its length matches, resizing or creating it otherwise.
func ensureStream(md *mesh.MeshData, sem render.Semantic, format render.VertexFormat, length int) *mesh.Float32Buffer {
	if buf, ok := md.GetBuffer(sem, 0); ok {
		if buf.Len() != length {
			buf.Resize(length)
		}
		buf.Rewind()
		return buf
	}
	buf := mesh.NewBuffer[float32](length)
	_ = md.AddBuffer(sem, 0, format, buf)
	return buf
}

// Plane generates a width x depth quad on the XZ plane, centered on the
// origin, facing +Y.
func Plane(md *mesh.MeshData, width, depth float32, opts Options) error {
	if md == nil {
		return ErrNilMesh
	}
	hw, hd := width/2, depth/2

	if opts&Positions != 0 {
		positions := ensureStream(md, render.SemanticPosition, render.Float32x3, 4*3)
		positions.Put(
			-hw, 0, -hd,
			-hw, 0, hd,
			hw, 0, hd,
			hw, 0, -hd,
		)
	}
	if opts&Normals != 0 {
		normals := ensureStream(md, render.SemanticNormal, render.Float32x3, 4*3)
		for i := 0; i < 4; i++ {
			normals.Put(0, 1, 0)
		}
	}
	if opts&TextureCoordinates != 0 {
		uvs := ensureStream(md, render.SemanticTextureCoordinate, render.Float32x2, 4*2)
		uvs.Put(
			0, 0,
			0, 1,
			1, 1,
			1, 0,
		)
	}

	md.SetIndices(quadIndices(md.Indices(), 1))
	return nil
}

// boxFace describes one cube face: its outward normal and the two
// in-plane axes spanning it.
type boxFace struct {
	normal g3d.Vec3
	u, v   g3d.Vec3
}

var boxFaces = [6]boxFace{
	{normal: g3d.V3(0, 0, 1), u: g3d.V3(1, 0, 0), v: g3d.V3(0, 1, 0)},
	{normal: g3d.V3(0, 0, -1), u: g3d.V3(-1, 0, 0), v: g3d.V3(0, 1, 0)},
	{normal: g3d.V3(1, 0, 0), u: g3d.V3(0, 0, -1), v: g3d.V3(0, 1, 0)},
	{normal: g3d.V3(-1, 0, 0), u: g3d.V3(0, 0, 1), v: g3d.V3(0, 1, 0)},
	{normal: g3d.V3(0, 1, 0), u: g3d.V3(1, 0, 0), v: g3d.V3(0, 0, -1)},
	{normal: g3d.V3(0, -1, 0), u: g3d.V3(1, 0, 0), v: g3d.V3(0, 0, 1)},
}

// Box generates an axis-aligned box of the given extents centered on
// the origin, 4 vertices per face so each face has flat normals.
func Box(md *mesh.MeshData, size g3d.Vec3, opts Options) error {
	if md == nil {
		return ErrNilMesh
	}
	half := size.Mul(0.5)

	if opts&Positions != 0 {
		positions := ensureStream(md, render.SemanticPosition, render.Float32x3, 24*3)
		for _, f := range boxFaces {
			center := g3d.V3(f.normal.X*half.X, f.normal.Y*half.Y, f.normal.Z*half.Z)
			u := g3d.V3(f.u.X*half.X, f.u.Y*half.Y, f.u.Z*half.Z)
			v := g3d.V3(f.v.X*half.X, f.v.Y*half.Y, f.v.Z*half.Z)
			for _, c := range [4]g3d.Vec3{
				center.Sub(u).Add(v),
				center.Sub(u).Sub(v),
				center.Add(u).Sub(v),
				center.Add(u).Add(v),
			} {
				positions.Put(c.X, c.Y, c.Z)
			}
		}
	}
	if opts&Normals != 0 {
		normals := ensureStream(md, render.SemanticNormal, render.Float32x3, 24*3)
		for _, f := range boxFaces {
			for i := 0; i < 4; i++ {
				normals.Put(f.normal.X, f.normal.Y, f.normal.Z)
			}
		}
	}
	if opts&TextureCoordinates != 0 {
		uvs := ensureStream(md, render.SemanticTextureCoordinate, render.Float32x2, 24*2)
		for range boxFaces {
			uvs.Put(
				0, 0,
				0, 1,
				1, 1,
				1, 0,
			)
		}
	}

	md.SetIndices(quadIndices(md.Indices(), 6))
	return nil
}

// quadIndices emits the {0,1,2, 0,2,3} pattern for quadCount quads,
// reusing existing index storage when its length matches.
func quadIndices(existing *mesh.IndexData, quadCount int) *mesh.IndexData {
	data := existing
	if data == nil || data.Format() != render.IndexUint16 || data.Len() != quadCount*6 {
		data = mesh.NewIndexData16(mesh.NewBuffer[uint16](quadCount * 6))
	}
	for q := 0; q < quadCount; q++ {
		base := q * 4
		for i, offset := range [6]int{0, 1, 2, 0, 2, 3} {
			data.Set(q*6+i, base+offset)
		}
	}
	return data
}
