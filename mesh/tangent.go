// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/render"
)

// triangle returns the three vertex indices of primitive p, resolving
// indices and strip alternation. For strips, odd primitives swap the
// second and third vertices to keep a consistent winding.
func (md *MeshData) triangle(p, offset, baseVertex int) (int, int, int) {
	var i0, i1, i2 int
	if md.topology.IsStrip() {
		i0, i1, i2 = offset+p, offset+p+1, offset+p+2
		if p%2 == 1 {
			i1, i2 = i2, i1
		}
	} else {
		i0, i1, i2 = offset+p*3, offset+p*3+1, offset+p*3+2
	}
	if md.useIndexed && md.indices != nil {
		return md.indices.Get(i0) + baseVertex, md.indices.Get(i1) + baseVertex, md.indices.Get(i2) + baseVertex
	}
	return i0, i1, i2
}

// triangleCount returns the number of triangles the mesh currently
// describes, from live stream lengths rather than compiled counts.
func (md *MeshData) triangleCount() int {
	if md.useIndexed && md.indices != nil {
		return md.topology.PrimitiveCount(md.indices.Len())
	}
	return md.topology.PrimitiveCount(md.computeVertexCount())
}

func vec3At(data *Float32Buffer, i int) g3d.Vec3 {
	return g3d.Vec3{X: data.Get(i * 3), Y: data.Get(i*3 + 1), Z: data.Get(i*3 + 2)}
}

func setVec3At(data *Float32Buffer, i int, v g3d.Vec3) {
	data.Set(i*3, v.X)
	data.Set(i*3+1, v.Y)
	data.Set(i*3+2, v.Z)
}

// ComputeTangentBasis derives per-vertex tangent and bitangent vectors
// from positions, normals, and texture coordinates, following Lengyel's
// accumulation method: per-triangle tangent directions are summed into
// each incident vertex, then Gram-Schmidt-orthogonalized against the
// vertex normal, with bitangent handedness recovered from the sign of
// dot(cross(normal, tangent), accumulated bitangent).
//
// Tangent and bitangent streams are allocated when absent. Normal and
// texture coordinate streams shorter than the position stream are
// rejected with ErrStreamTooShort. Line and point topologies are a
// no-op. The mesh is recompiled against sys afterward.
func (md *MeshData) ComputeTangentBasis(sys render.System) error {
	if !md.topology.IsTriangulated() {
		return nil
	}
	positions, ok := md.GetBuffer(render.SemanticPosition, 0)
	if !ok {
		return ErrMissingStream
	}
	normals, ok := md.GetBuffer(render.SemanticNormal, 0)
	if !ok {
		return ErrMissingStream
	}
	uvs, ok := md.GetBuffer(render.SemanticTextureCoordinate, 0)
	if !ok {
		return ErrMissingStream
	}

	vertexCount := positions.Len() / 3
	if normals.Len() < vertexCount*3 || uvs.Len() < vertexCount*2 {
		return ErrStreamTooShort
	}
	tangents := md.ensureVec3Stream(render.SemanticTangent, vertexCount)
	bitangents := md.ensureVec3Stream(render.SemanticBitangent, vertexCount)

	tan1 := make([]g3d.Vec3, vertexCount)
	tan2 := make([]g3d.Vec3, vertexCount)

	for p := 0; p < md.triangleCount(); p++ {
		i0, i1, i2 := md.triangle(p, 0, 0)
		if i0 >= vertexCount || i1 >= vertexCount || i2 >= vertexCount {
			continue
		}
		p0, p1, p2 := vec3At(positions, i0), vec3At(positions, i1), vec3At(positions, i2)
		u0x, u0y := uvs.Get(i0*2), uvs.Get(i0*2+1)
		u1x, u1y := uvs.Get(i1*2), uvs.Get(i1*2+1)
		u2x, u2y := uvs.Get(i2*2), uvs.Get(i2*2+1)

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)
		s1, t1 := u1x-u0x, u1y-u0y
		s2, t2 := u2x-u0x, u2y-u0y

		det := s1*t2 - s2*t1
		if det == 0 {
			continue
		}
		r := 1 / det
		sdir := g3d.Vec3{
			X: (t2*e1.X - t1*e2.X) * r,
			Y: (t2*e1.Y - t1*e2.Y) * r,
			Z: (t2*e1.Z - t1*e2.Z) * r,
		}
		tdir := g3d.Vec3{
			X: (s1*e2.X - s2*e1.X) * r,
			Y: (s1*e2.Y - s2*e1.Y) * r,
			Z: (s1*e2.Z - s2*e1.Z) * r,
		}

		tan1[i0] = tan1[i0].Add(sdir)
		tan1[i1] = tan1[i1].Add(sdir)
		tan1[i2] = tan1[i2].Add(sdir)
		tan2[i0] = tan2[i0].Add(tdir)
		tan2[i1] = tan2[i1].Add(tdir)
		tan2[i2] = tan2[i2].Add(tdir)
	}

	for i := 0; i < vertexCount; i++ {
		n := vec3At(normals, i)
		t := tan1[i]

		// Gram-Schmidt orthogonalize.
		tangent := t.Sub(n.Mul(n.Dot(t))).Normalize()

		var handedness float32 = 1
		if n.Cross(t).Dot(tan2[i]) < 0 {
			handedness = -1
		}
		setVec3At(tangents, i, tangent)
		setVec3At(bitangents, i, n.Cross(tangent).Mul(handedness))
	}

	md.markVertexDirty()
	return md.Compile(sys)
}

// ensureVec3Stream returns the Float32x3 stream for the key, creating
// or resizing it to hold vertexCount vectors.
func (md *MeshData) ensureVec3Stream(sem render.Semantic, vertexCount int) *Float32Buffer {
	if buf, ok := md.GetBuffer(sem, 0); ok {
		if buf.Len() != vertexCount*3 {
			buf.Resize(vertexCount * 3)
		}
		return buf
	}
	buf := NewBuffer[float32](vertexCount * 3)
	// Key is known absent, AddBuffer cannot fail.
	_ = md.AddBuffer(sem, 0, render.Float32x3, buf)
	return buf
}
