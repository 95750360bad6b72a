// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/render"
)

// intersectEpsilon bounds the ray-triangle determinant and hit distance
// away from zero.
const intersectEpsilon = 1e-7

// RayHit is one ray-mesh intersection, in world space.
type RayHit struct {
	Point    g3d.Vec3
	Normal   g3d.Vec3
	Distance float32
}

// Intersects tests the ray against the mesh's triangles.
//
// The ray is given in world space; world transforms the mesh into world
// space and is inverted to bring the ray into object space. A bit-exact
// identity world matrix skips the inversion. When sub is non-nil, only
// that range of elements is tested and its BaseVertex is added to
// fetched index values. When results is non-nil every hit is appended
// (point, normal, and distance mapped back to world space) and all
// primitives are tested; when results is nil the first hit returns true
// immediately. Backfacing triangles are skipped when ignoreBackfaces is
// set.
//
// Meshes without triangulated topology or valid positions never
// intersect.
func (md *MeshData) Intersects(ray g3d.Ray, world g3d.Mat4, sub *SubMesh, results *[]RayHit, ignoreBackfaces bool) bool {
	if !md.topology.IsTriangulated() || !md.HasValidPositions() {
		return false
	}

	worldRay := ray
	identity := world.IsIdentity()
	if !identity {
		inv, ok := world.Inverse()
		if !ok {
			return false
		}
		ray = ray.Transform(inv)
	}

	positions, _ := md.GetBuffer(render.SemanticPosition, 0)
	vertexCount := positions.Len() / 3

	limit := vertexCount
	if md.useIndexed && md.indices != nil {
		limit = md.indices.Len()
	}
	offset, baseVertex := 0, 0
	elements := limit
	if sub != nil {
		offset = sub.Offset
		elements = sub.Count
		baseVertex = sub.BaseVertex
		if offset < 0 || offset >= limit {
			return false
		}
		// Clamp ranges that run past the live element count.
		if elements > limit-offset {
			elements = limit - offset
		}
	}

	hit := false
	for p := 0; p < md.topology.PrimitiveCount(elements); p++ {
		i0, i1, i2 := md.triangle(p, offset, baseVertex)
		if i0 >= vertexCount || i1 >= vertexCount || i2 >= vertexCount {
			continue
		}
		p0, p1, p2 := vec3At(positions, i0), vec3At(positions, i1), vec3At(positions, i2)

		t, ok := rayTriangle(ray, p0, p1, p2, ignoreBackfaces)
		if !ok {
			continue
		}
		hit = true
		if results == nil {
			return true
		}

		point := ray.At(t)
		normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		if !identity {
			point = world.TransformPoint(point)
			normal = world.TransformNormal(normal)
		}
		*results = append(*results, RayHit{
			Point:    point,
			Normal:   normal,
			Distance: point.Sub(worldRay.Origin).Length(),
		})
	}
	return hit
}

// rayTriangle is the Möller-Trumbore ray-triangle test. It returns the
// distance along the ray and whether the triangle was hit.
func rayTriangle(ray g3d.Ray, p0, p1, p2 g3d.Vec3, ignoreBackfaces bool) (float32, bool) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)

	pvec := ray.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if ignoreBackfaces {
		if det < intersectEpsilon {
			return 0, false
		}
	} else if det > -intersectEpsilon && det < intersectEpsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(p0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(e1)
	v := ray.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(qvec) * invDet
	if t < intersectEpsilon {
		return 0, false
	}
	return t, true
}
