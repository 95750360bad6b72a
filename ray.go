package g3d

// Ray is a half-line in 3D space, defined by an origin point and a
// direction. The direction does not have to be normalized; reported hit
// distances are in units of the direction's length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray with a normalized direction.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point along the ray at parameter t.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform returns the ray transformed by the given matrix: the origin
// as a point, the direction as a vector (not renormalized, so distances
// along the transformed ray remain comparable after transforming back).
func (r Ray) Transform(m Mat4) Ray {
	return Ray{
		Origin:    m.TransformPoint(r.Origin),
		Direction: m.TransformVector(r.Direction),
	}
}
