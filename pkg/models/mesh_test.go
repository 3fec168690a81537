package models

import (
	"math"
	"testing"

	"github.com/arvidh/orrery/pkg/math3d"
)

func TestFitUnit(t *testing.T) {
	b := Box(4, 2, 1)
	b.Transform(math3d.Translate(math3d.V3(10, -5, 3)))

	b.FitUnit(2)

	if c := b.Center(); c.Len() > eps {
		t.Errorf("center = %v, want origin", c)
	}
	size := b.Size()
	if math.Abs(size.X-2) > eps {
		t.Errorf("largest dimension = %v, want 2", size.X)
	}
	// Uniform scale preserves proportions.
	if math.Abs(size.Y-1) > eps || math.Abs(size.Z-0.5) > eps {
		t.Errorf("size = %v, want (2, 1, 0.5)", size)
	}
}

func TestFitUnitDegenerateMesh(t *testing.T) {
	m := NewMesh("point")
	m.Vertices = append(m.Vertices, Vertex{Position: math3d.V3(1, 1, 1)})

	// A zero-extent mesh must not divide by zero.
	m.FitUnit(2)

	if m.Vertices[0].Position != math3d.V3(1, 1, 1) {
		t.Errorf("degenerate mesh moved to %v", m.Vertices[0].Position)
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	// Two triangles in the XY plane share an edge; all normals
	// should come out +Z.
	m := NewMesh("flat")
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(1, 1, 0)},
	}
	m.Faces = []Face{
		{V: [3]int{0, 1, 2}},
		{V: [3]int{2, 1, 3}},
	}

	m.CalculateSmoothNormals()

	for i, v := range m.Vertices {
		if math.Abs(v.Normal.Z-1) > eps || math.Abs(v.Normal.X) > eps || math.Abs(v.Normal.Y) > eps {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
}

func TestTransformRotatesNormals(t *testing.T) {
	b := Box(2, 2, 2)
	b.Transform(math3d.RotateY(math.Pi / 2))

	for i, v := range b.Vertices {
		if math.Abs(v.Normal.Len()-1) > eps {
			t.Errorf("vertex %d normal length %v after rotation", i, v.Normal.Len())
		}
		if v.Normal.Dot(v.Position.Normalize()) <= 0 {
			t.Errorf("vertex %d normal no longer outward", i)
		}
	}
}

func TestMeshSourceAccessors(t *testing.T) {
	b := Box(2, 2, 2)

	pos, normal, uv := b.GetVertex(0)
	if pos != b.Vertices[0].Position || normal != b.Vertices[0].Normal || uv != b.Vertices[0].UV {
		t.Error("GetVertex disagrees with vertex slice")
	}
	if b.GetFace(0) != b.Faces[0].V {
		t.Error("GetFace disagrees with face slice")
	}
}
