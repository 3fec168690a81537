package models

import (
	"math"

	"github.com/arvidh/orrery/pkg/math3d"
)

// Sphere generates a latitude/longitude sphere of the given radius.
// segments is the number of horizontal bands; twice as many slices
// run around the equator. Normals point outward, UVs wrap the
// equirectangular way. Front faces wind clockwise seen from outside,
// matching the pipeline's culling convention.
func Sphere(radius float64, segments int) *Mesh {
	if segments < 2 {
		segments = 2
	}
	stacks := segments
	slices := segments * 2

	mesh := NewMesh("sphere")

	for j := 0; j <= stacks; j++ {
		theta := float64(j) / float64(stacks) * math.Pi
		y := radius * math.Cos(theta)
		ring := radius * math.Sin(theta)

		for i := 0; i <= slices; i++ {
			phi := float64(i) / float64(slices) * 2 * math.Pi
			pos := math3d.V3(ring*math.Sin(phi), y, ring*math.Cos(phi))

			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   pos.Scale(1 / radius),
				UV:       math3d.V2(float64(i)/float64(slices), 1-float64(j)/float64(stacks)),
			})
		}
	}

	// Ring j has slices+1 vertices; the seam vertex is duplicated so
	// UVs don't wrap backwards.
	rowLen := slices + 1
	for j := 0; j < stacks; j++ {
		for i := 0; i < slices; i++ {
			p00 := j*rowLen + i
			p01 := p00 + 1
			p10 := p00 + rowLen
			p11 := p10 + 1

			mesh.Faces = append(mesh.Faces,
				Face{V: [3]int{p00, p11, p10}},
				Face{V: [3]int{p00, p01, p11}},
			)
		}
	}

	mesh.CalculateBounds()
	return mesh
}

// Box generates an axis-aligned box with the given full extents,
// centered on the origin. Each face carries its own four vertices so
// normals and UVs stay flat per face.
func Box(width, height, depth float64) *Mesh {
	x, y, z := width/2, height/2, depth/2

	// Quad corners per face: top-left, top-right, bottom-right,
	// bottom-left as seen from outside, winding clockwise.
	type quad struct {
		corners [4]math3d.Vec3
		normal  math3d.Vec3
	}
	quads := []quad{
		{[4]math3d.Vec3{math3d.V3(-x, y, z), math3d.V3(x, y, z), math3d.V3(x, -y, z), math3d.V3(-x, -y, z)}, math3d.V3(0, 0, 1)},
		{[4]math3d.Vec3{math3d.V3(x, y, -z), math3d.V3(-x, y, -z), math3d.V3(-x, -y, -z), math3d.V3(x, -y, -z)}, math3d.V3(0, 0, -1)},
		{[4]math3d.Vec3{math3d.V3(x, y, z), math3d.V3(x, y, -z), math3d.V3(x, -y, -z), math3d.V3(x, -y, z)}, math3d.V3(1, 0, 0)},
		{[4]math3d.Vec3{math3d.V3(-x, y, -z), math3d.V3(-x, y, z), math3d.V3(-x, -y, z), math3d.V3(-x, -y, -z)}, math3d.V3(-1, 0, 0)},
		{[4]math3d.Vec3{math3d.V3(-x, y, -z), math3d.V3(x, y, -z), math3d.V3(x, y, z), math3d.V3(-x, y, z)}, math3d.V3(0, 1, 0)},
		{[4]math3d.Vec3{math3d.V3(-x, -y, z), math3d.V3(x, -y, z), math3d.V3(x, -y, -z), math3d.V3(-x, -y, -z)}, math3d.V3(0, -1, 0)},
	}
	uvs := [4]math3d.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}

	mesh := NewMesh("box")
	for _, q := range quads {
		base := len(mesh.Vertices)
		for k := range 4 {
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: q.corners[k],
				Normal:   q.normal,
				UV:       uvs[k],
			})
		}
		mesh.Faces = append(mesh.Faces,
			Face{V: [3]int{base, base + 1, base + 2}},
			Face{V: [3]int{base, base + 2, base + 3}},
		)
	}

	mesh.CalculateBounds()
	return mesh
}
