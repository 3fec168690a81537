package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func matsAlmostEqual(t *testing.T, got, want Mat4, context string) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("%s: element %d = %v, want %v", context, i, got[i], want[i])
		}
	}
}

func TestIdentityIsMultiplicativeIdentity(t *testing.T) {
	m := Translate(V3(1, -2, 3)).Mul(RotateY(0.7)).Mul(ScaleUniform(2.5))

	// Multiplication by identity only involves 1s and 0s, so the
	// result must be bit-exact.
	if got := Identity().Mul(m); got != m {
		t.Errorf("Identity()*M = %v, want %v", got, m)
	}
	if got := m.Mul(Identity()); got != m {
		t.Errorf("M*Identity() = %v, want %v", got, m)
	}
}

func TestMulAssociative(t *testing.T) {
	a := RotateX(0.3)
	b := Translate(V3(1, 2, 3))
	c := RotateZ(-1.1).Mul(ScaleUniform(0.5))

	left := a.Mul(b).Mul(c)
	right := a.Mul(b.Mul(c))
	matsAlmostEqual(t, left, right, "(A*B)*C vs A*(B*C)")
}

func TestZeroRotationsAreIdentity(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"RotateX(0)", RotateX(0)},
		{"RotateY(0)", RotateY(0)},
		{"RotateZ(0)", RotateZ(0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.m != Identity() {
				t.Errorf("%s = %v, want identity", tc.name, tc.m)
			}
		})
	}
}

// The rotation sign conventions are load-bearing: the frame composer
// depends on the exact sense of each axis rotation.
func TestRotationSignConventions(t *testing.T) {
	theta := 0.65
	c, s := math.Cos(theta), math.Sin(theta)

	tests := []struct {
		name string
		m    Mat4
		in   Vec4
		want Vec4
	}{
		// RotateZ takes +X toward +Y.
		{"RotateZ on x-axis", RotateZ(theta), V4(1, 0, 0, 1), V4(c, s, 0, 1)},
		// RotateX takes +Y toward +Z.
		{"RotateX on y-axis", RotateX(theta), V4(0, 1, 0, 1), V4(0, c, s, 1)},
		// RotateY takes +Z toward +X.
		{"RotateY on z-axis", RotateY(theta), V4(0, 0, 1, 1), V4(s, 0, c, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec4(tc.in)
			if math.Abs(got.X-tc.want.X) > eps ||
				math.Abs(got.Y-tc.want.Y) > eps ||
				math.Abs(got.Z-tc.want.Z) > eps ||
				math.Abs(got.W-tc.want.W) > eps {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRotationRoundTrip(t *testing.T) {
	for _, theta := range []float64{0.1, 1.0, -2.5, math.Pi / 3, 17.0} {
		got := RotateX(theta).Mul(RotateX(-theta))
		matsAlmostEqual(t, got, Identity(), "RotateX(θ)*RotateX(-θ)")

		got = RotateY(theta).Mul(RotateY(-theta))
		matsAlmostEqual(t, got, Identity(), "RotateY(θ)*RotateY(-θ)")

		got = RotateZ(theta).Mul(RotateZ(-theta))
		matsAlmostEqual(t, got, Identity(), "RotateZ(θ)*RotateZ(-θ)")
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(V3(4, -5, 6))

	// Translation terms live in column 3 of the flat layout.
	if m[12] != 4 || m[13] != -5 || m[14] != 6 {
		t.Errorf("translation column = (%v, %v, %v), want (4, -5, 6)", m[12], m[13], m[14])
	}

	// Origin moves to (x, y, z).
	got := m.MulVec4(V4(0, 0, 0, 1))
	if got != V4(4, -5, 6, 1) {
		t.Errorf("translate origin = %v, want (4, -5, 6, 1)", got)
	}

	// A pure translation must not rotate or scale: direction
	// components (w=0) pass through unchanged.
	dir := m.MulVec4(V4(1, 2, 3, 0))
	if dir != V4(1, 2, 3, 0) {
		t.Errorf("translate direction = %v, want (1, 2, 3, 0)", dir)
	}
}

func TestScale(t *testing.T) {
	m := ScaleUniform(3)
	got := m.MulVec4(V4(1, -2, 0.5, 1))
	if got != V4(3, -6, 1.5, 1) {
		t.Errorf("scale point = %v, want (3, -6, 1.5, 1)", got)
	}
	if m[15] != 1 {
		t.Errorf("scale w term = %v, want 1", m[15])
	}
}

func TestPerspectiveDepthMapping(t *testing.T) {
	// With near=1 and far=2, the on-axis near-plane point z=-1 must
	// land on clip z'=-1 after the divide, and z=-2 on z'=+1.
	p := Perspective(math.Pi/2, 1.0, 1.0, 2.0)

	tests := []struct {
		name  string
		viewZ float64
		wantZ float64
	}{
		{"near plane", -1, -1},
		{"far plane", -2, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clip := p.MulVec4(V4(0, 0, tc.viewZ, 1))
			ndc := clip.PerspectiveDivide()
			if math.Abs(ndc.Z-tc.wantZ) > eps {
				t.Errorf("z=%v maps to z'=%v, want %v", tc.viewZ, ndc.Z, tc.wantZ)
			}
		})
	}

	// w must receive -z for the divide to work.
	clip := p.MulVec4(V4(0, 0, -1.5, 1))
	if math.Abs(clip.W-1.5) > eps {
		t.Errorf("clip w = %v, want 1.5", clip.W)
	}
}

func TestPerspectiveFocalTerm(t *testing.T) {
	fovy := math.Pi / 3
	aspect := 1.6
	p := Perspective(fovy, aspect, 0.1, 100)

	f := 1 / math.Tan(fovy/2)
	if math.Abs(p.Get(0, 0)-f/aspect) > eps {
		t.Errorf("[0][0] = %v, want %v", p.Get(0, 0), f/aspect)
	}
	if math.Abs(p.Get(1, 1)-f) > eps {
		t.Errorf("[1][1] = %v, want %v", p.Get(1, 1), f)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.4))
	mt := m.Transpose()
	for row := range 4 {
		for col := range 4 {
			if mt.Get(row, col) != m.Get(col, row) {
				t.Fatalf("transpose[%d][%d] = %v, want %v", row, col, mt.Get(row, col), m.Get(col, row))
			}
		}
	}
	matsAlmostEqual(t, mt.Transpose(), m, "double transpose")
}

func TestInverse(t *testing.T) {
	m := Translate(V3(1, -2, 3)).Mul(RotateX(0.8)).Mul(ScaleUniform(2))
	matsAlmostEqual(t, m.Mul(m.Inverse()), Identity(), "M*M^-1")
	matsAlmostEqual(t, m.Inverse().Mul(m), Identity(), "M^-1*M")
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if got := zero.Inverse(); got != Identity() {
		t.Errorf("inverse of singular matrix = %v, want identity", got)
	}
}

func TestMulVec3Point(t *testing.T) {
	m := Translate(V3(10, 0, 0)).Mul(ScaleUniform(2))
	got := m.MulVec3(V3(1, 1, 1))
	want := V3(12, 2, 2)
	if got.Sub(want).Len() > eps {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMulVec3DirIgnoresTranslation(t *testing.T) {
	m := Translate(V3(100, 100, 100)).Mul(RotateZ(math.Pi / 2))
	got := m.MulVec3Dir(V3(1, 0, 0))
	want := V3(0, 1, 0)
	if got.Sub(want).Len() > eps {
		t.Errorf("got %v, want %v", got, want)
	}
}
