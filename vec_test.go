package g3d

import (
	"testing"

	"github.com/chewxy/math32"
)

const vecEpsilon = 1e-6

func TestVec3Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"add", V3(1, 2, 3).Add(V3(4, 5, 6)), V3(5, 7, 9)},
		{"sub", V3(4, 5, 6).Sub(V3(1, 2, 3)), V3(3, 3, 3)},
		{"mul", V3(1, -2, 3).Mul(2), V3(2, -4, 6)},
		{"neg", V3(1, -2, 3).Neg(), V3(-1, 2, -3)},
		{"lerp start", V3(0, 0, 0).Lerp(V3(10, 20, 30), 0), V3(0, 0, 0)},
		{"lerp end", V3(0, 0, 0).Lerp(V3(10, 20, 30), 1), V3(10, 20, 30)},
		{"lerp mid", V3(0, 0, 0).Lerp(V3(10, 20, 30), 0.5), V3(5, 10, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Approx(tt.want, vecEpsilon) {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"y cross z", V3(0, 1, 0), V3(0, 0, 1), V3(1, 0, 0)},
		{"z cross x", V3(0, 0, 1), V3(1, 0, 0), V3(0, 1, 0)},
		{"anticommute", V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, -1)},
		{"parallel", V3(2, 2, 2), V3(1, 1, 1), V3(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Cross(tt.b)
			if !got.Approx(tt.want, vecEpsilon) {
				t.Errorf("%+v.Cross(%+v) = %+v, want %+v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestVec3DotLength(t *testing.T) {
	if got := V3(1, 2, 3).Dot(V3(4, -5, 6)); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
	if got := V3(3, 4, 0).Length(); math32.Abs(got-5) > vecEpsilon {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := V3(3, 4, 0).LengthSq(); got != 25 {
		t.Errorf("LengthSq = %v, want 25", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(0, 3, 4).Normalize()
	if !n.Approx(V3(0, 0.6, 0.8), vecEpsilon) {
		t.Errorf("Normalize = %+v, want (0, 0.6, 0.8)", n)
	}
	if math32.Abs(n.Length()-1) > vecEpsilon {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}

	// Zero vector stays zero rather than producing NaN.
	z := Vec3{}.Normalize()
	if !z.IsZero() {
		t.Errorf("Normalize of zero = %+v, want zero", z)
	}
}

func TestVec2Ops(t *testing.T) {
	if got := V2(1, 2).Add(V2(3, 4)); got != V2(4, 6) {
		t.Errorf("Add = %+v, want (4, 6)", got)
	}
	if got := V2(3, 4).Sub(V2(1, 1)); got != V2(2, 3) {
		t.Errorf("Sub = %+v, want (2, 3)", got)
	}
	if got := V2(1, 2).Dot(V2(3, 4)); got != 11 {
		t.Errorf("Dot = %v, want 11", got)
	}
	if got := V2(3, 4).Length(); math32.Abs(got-5) > vecEpsilon {
		t.Errorf("Length = %v, want 5", got)
	}
}

func TestVec4(t *testing.T) {
	v := V4(1, 2, 3, 4)
	if got := v.XYZ(); got != V3(1, 2, 3) {
		t.Errorf("XYZ = %+v, want (1, 2, 3)", got)
	}
	if got := v.Dot(V4(2, 2, 2, 2)); got != 20 {
		t.Errorf("Dot = %v, want 20", got)
	}
}
