package render

import (
	"log/slog"

	"github.com/arvidh/orrery/pkg/math3d"
)

// Program is the shader-uniform boundary: a named store of flat
// 16-element column-major matrices, mirroring the uniformMatrix4
// contract. Uniform state persists across frames until overwritten.
//
// Lookup of an undeclared name returns -1 and logs a warning; setting
// through a negative location is a no-op. A failed lookup never
// aborts a frame — the pipeline draws with whatever matrices the
// program holds.
type Program struct {
	locations map[string]int
	mats      []math3d.Mat4
	log       *slog.Logger
}

// NewProgram declares a program with the given uniform names, each
// initialized to the identity matrix.
func NewProgram(names ...string) *Program {
	p := &Program{
		locations: make(map[string]int, len(names)),
		mats:      make([]math3d.Mat4, len(names)),
		log:       slog.Default(),
	}
	for i, name := range names {
		p.locations[name] = i
		p.mats[i] = math3d.Identity()
	}
	return p
}

// UniformLocation returns the location of a named uniform, or -1 if
// the program does not declare it.
func (p *Program) UniformLocation(name string) int {
	loc, ok := p.locations[name]
	if !ok {
		p.log.Warn("uniform not found in program", "name", name)
		return -1
	}
	return loc
}

// SetMatrix4 uploads a matrix to the given location. Negative
// locations are ignored, matching the degrade-don't-crash policy for
// missing uniforms.
func (p *Program) SetMatrix4(loc int, m math3d.Mat4) {
	if loc < 0 || loc >= len(p.mats) {
		return
	}
	p.mats[loc] = m
}

// Matrix4 returns the matrix at the given location, or identity for
// an invalid location.
func (p *Program) Matrix4(loc int) math3d.Mat4 {
	if loc < 0 || loc >= len(p.mats) {
		return math3d.Identity()
	}
	return p.mats[loc]
}
