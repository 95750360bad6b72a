package g3d

// Rect is an axis-aligned rectangle defined by its top-left corner and
// its size. Sprite destinations use it in screen space; sprite sources
// use it in texel space.
type Rect struct {
	X, Y, W, H float32
}

// R is a convenience function to create a Rect.
func R(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float32 {
	return r.X + r.W
}

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float32 {
	return r.Y + r.H
}
