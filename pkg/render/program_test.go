package render

import (
	"testing"

	"github.com/arvidh/orrery/pkg/math3d"
)

func TestProgramLookup(t *testing.T) {
	p := NewProgram("MV", "P", "T")

	for _, name := range []string{"MV", "P", "T"} {
		if loc := p.UniformLocation(name); loc < 0 {
			t.Errorf("UniformLocation(%q) = %d, want >= 0", name, loc)
		}
	}
	if loc := p.UniformLocation("bogus"); loc != -1 {
		t.Errorf("UniformLocation(bogus) = %d, want -1", loc)
	}
}

func TestProgramDefaultsToIdentity(t *testing.T) {
	p := NewProgram("MV")
	if got := p.Matrix4(p.UniformLocation("MV")); got != math3d.Identity() {
		t.Errorf("fresh uniform = %v, want identity", got)
	}
}

func TestProgramSetAndGet(t *testing.T) {
	p := NewProgram("MV", "P")
	m := math3d.Translate(math3d.V3(1, 2, 3))

	loc := p.UniformLocation("MV")
	p.SetMatrix4(loc, m)

	if got := p.Matrix4(loc); got != m {
		t.Errorf("Matrix4 = %v, want %v", got, m)
	}
	// P untouched.
	if got := p.Matrix4(p.UniformLocation("P")); got != math3d.Identity() {
		t.Errorf("unrelated uniform changed: %v", got)
	}
}

// A set through a missing location must be silently dropped; the
// frame proceeds with whatever the program holds.
func TestProgramMissingLocationNoOp(t *testing.T) {
	p := NewProgram("MV")
	p.SetMatrix4(-1, math3d.ScaleUniform(7))

	if got := p.Matrix4(p.UniformLocation("MV")); got != math3d.Identity() {
		t.Errorf("uniform changed through invalid location: %v", got)
	}
	if got := p.Matrix4(-1); got != math3d.Identity() {
		t.Errorf("Matrix4(-1) = %v, want identity", got)
	}
}
