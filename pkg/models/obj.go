package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arvidh/orrery/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Faces with more than three
// vertices are triangulated as fans; negative indices are resolved
// relative to the end of the respective list. Meshes without normals
// get smooth normals computed after loading.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	var (
		positions []math3d.Vec3
		normals   []math3d.Vec3
		uvs       []math3d.Vec2
	)

	mesh := NewMesh(filepath.Base(path))
	hasNormals := false

	// OBJ repeats position/uv/normal index triples across faces;
	// dedupe them into mesh vertices.
	vertexCache := make(map[string]int)

	addVertex := func(spec string) (int, error) {
		if idx, ok := vertexCache[spec]; ok {
			return idx, nil
		}

		var v Vertex
		parts := strings.Split(spec, "/")

		pi, err := objIndex(parts[0], len(positions))
		if err != nil {
			return 0, fmt.Errorf("vertex index %q: %w", parts[0], err)
		}
		v.Position = positions[pi]

		if len(parts) > 1 && parts[1] != "" {
			ti, err := objIndex(parts[1], len(uvs))
			if err != nil {
				return 0, fmt.Errorf("uv index %q: %w", parts[1], err)
			}
			v.UV = uvs[ti]
		}
		if len(parts) > 2 && parts[2] != "" {
			ni, err := objIndex(parts[2], len(normals))
			if err != nil {
				return 0, fmt.Errorf("normal index %q: %w", parts[2], err)
			}
			v.Normal = normals[ni]
			hasNormals = true
		}

		idx := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, v)
		vertexCache[spec] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, n)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: vt needs 2 components", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad vt", lineNo)
			}
			uvs = append(uvs, math3d.V2(u, v))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				vi, err := addVertex(spec)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, vi)
			}
			// Fan triangulation. OBJ front faces wind
			// counter-clockwise; the pipeline culls the other way,
			// so swap two indices per triangle.
			for i := 1; i+1 < len(idx); i++ {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{idx[0], idx[i+1], idx[i]}})
			}

			// Ignore groups, objects, materials and smoothing groups.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("obj %s contains no faces", path)
	}

	if !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// objIndex resolves a 1-based, possibly negative OBJ index against a
// list of the given length.
func objIndex(s string, length int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = length + n
	} else {
		n--
	}
	if n < 0 || n >= length {
		return 0, fmt.Errorf("index %s out of range (%d elements)", s, length)
	}
	return n, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("need 3 components, got %d", len(fields))
	}
	x, err1 := strconv.ParseFloat(fields[0], 64)
	y, err2 := strconv.ParseFloat(fields[1], 64)
	z, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return math3d.Vec3{}, fmt.Errorf("bad float in %v", fields)
	}
	return math3d.V3(x, y, z), nil
}
