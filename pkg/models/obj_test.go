package models

import (
	"os"
	"path/filepath"
	"testing"
)

func writeOBJ(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.obj")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write obj: %v", err)
	}
	return path
}

func TestLoadOBJTriangle(t *testing.T) {
	path := writeOBJ(t, `
# a single triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`)

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	if mesh.VertexCount() != 3 {
		t.Errorf("vertex count = %d, want 3", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("triangle count = %d, want 1", mesh.TriangleCount())
	}

	v := mesh.Vertices[1]
	if v.Position.X != 1 || v.Position.Y != 0 {
		t.Errorf("vertex 1 position = %v", v.Position)
	}
	if v.UV.X != 1 || v.UV.Y != 0 {
		t.Errorf("vertex 1 uv = %v", v.UV)
	}
	if v.Normal.Z != 1 {
		t.Errorf("vertex 1 normal = %v", v.Normal)
	}
}

func TestLoadOBJQuadTriangulation(t *testing.T) {
	path := writeOBJ(t, `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", mesh.TriangleCount())
	}
	// Fan triangulation pivots on the first vertex, with the
	// source's counter-clockwise winding flipped to clockwise.
	if mesh.Faces[0].V != [3]int{0, 2, 1} {
		t.Errorf("face 0 = %v", mesh.Faces[0].V)
	}
	if mesh.Faces[1].V != [3]int{0, 3, 2} {
		t.Errorf("face 1 = %v", mesh.Faces[1].V)
	}
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	path := writeOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("triangle count = %d, want 1", mesh.TriangleCount())
	}
	if mesh.Vertices[mesh.Faces[0].V[1]].Position.Y != 1 {
		t.Errorf("face should reference the third position")
	}
}

func TestLoadOBJVertexDedupe(t *testing.T) {
	path := writeOBJ(t, `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`)

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	// Shared corners collapse into one vertex each.
	if mesh.VertexCount() != 4 {
		t.Errorf("vertex count = %d, want 4", mesh.VertexCount())
	}
}

func TestLoadOBJComputesNormals(t *testing.T) {
	path := writeOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	for i, v := range mesh.Vertices {
		if v.Normal.Len() < 0.9 {
			t.Errorf("vertex %d normal %v not computed", i, v.Normal)
		}
	}
}

func TestLoadOBJErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no faces", "v 0 0 0\nv 1 0 0\nv 0 1 0\n"},
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"short vertex", "v 1 2\nf 1 1 1\n"},
		{"bad float", "v a b c\nf 1 1 1\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeOBJ(t, tt.content)
			if _, err := LoadOBJ(path); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ("/nonexistent/mesh.obj"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
