package render

import (
	"math"

	"github.com/arvidh/orrery/pkg/math3d"
)

// Uniform names the pipeline consumes.
const (
	UniformModelView    = "MV"
	UniformProjection   = "P"
	UniformIllumination = "T"
)

// MeshSource is the geometry contract the pipeline draws from.
type MeshSource interface {
	TriangleCount() int
	GetFace(i int) [3]int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
}

// Pipeline is a software vertex and raster stage. Unlike a
// camera-owned renderer it takes its transforms from the program's
// uniforms: positions go through P*MV, normals through the model-view
// inverse transpose, and the light direction through the illumination
// basis T, so the light stays put under camera orbit regardless of
// object spin.
type Pipeline struct {
	prog    *Program
	fb      *Framebuffer
	zbuffer []float64

	// LightDir is the base light direction before the illumination
	// basis is applied.
	LightDir math3d.Vec3

	locMV, locP, locT int
}

// NewPipeline creates a pipeline drawing into fb with transforms from
// prog.
func NewPipeline(prog *Program, fb *Framebuffer) *Pipeline {
	p := &Pipeline{
		prog:     prog,
		fb:       fb,
		LightDir: math3d.V3(0.5, 1, 0.3).Normalize(),
		locMV:    prog.UniformLocation(UniformModelView),
		locP:     prog.UniformLocation(UniformProjection),
		locT:     prog.UniformLocation(UniformIllumination),
	}
	p.zbuffer = make([]float64, fb.Width*fb.Height)
	return p
}

// ClearDepth resets the z-buffer. Call once per frame before drawing.
func (p *Pipeline) ClearDepth() {
	n := len(p.zbuffer)
	if n == 0 {
		return
	}
	p.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(p.zbuffer[i:], p.zbuffer[:i])
	}
}

// screenVertex is a vertex after the vertex stage: screen position,
// depth, lighting intensity and interpolation attributes.
type screenVertex struct {
	X, Y, Z   float64
	W         float64
	UV        math3d.Vec2
	Intensity float64
}

// frameState caches the per-draw matrices pulled from the program.
type frameState struct {
	clip  math3d.Mat4 // P * MV
	nrm   math3d.Mat4 // (MV^-1)^T for normals
	light math3d.Vec3 // light direction through T, normalized
}

func (p *Pipeline) state() frameState {
	mv := p.prog.Matrix4(p.locMV)
	proj := p.prog.Matrix4(p.locP)
	illum := p.prog.Matrix4(p.locT)

	return frameState{
		clip:  proj.Mul(mv),
		nrm:   mv.Inverse().Transpose(),
		light: illum.MulVec3Dir(p.LightDir).Normalize(),
	}
}

// vertexStage runs one vertex through clip space to the screen.
// Returns false if the vertex sits behind the eye.
func (p *Pipeline) vertexStage(st frameState, pos, normal math3d.Vec3, uv math3d.Vec2) (screenVertex, bool) {
	clipPos := st.clip.MulVec4(math3d.V4FromV3(pos, 1))

	var sv screenVertex
	sv.W = clipPos.W
	if clipPos.W != 0 {
		sv.X = clipPos.X / clipPos.W
		sv.Y = clipPos.Y / clipPos.W
		sv.Z = clipPos.Z / clipPos.W
	}

	// NDC to screen, Y flipped.
	sv.X = (sv.X + 1) * 0.5 * float64(p.fb.Width)
	sv.Y = (1 - sv.Y) * 0.5 * float64(p.fb.Height)

	// Per-vertex lighting: ambient floor plus diffuse.
	n := st.nrm.MulVec3Dir(normal).Normalize()
	diffuse := math.Max(0, n.Dot(st.light))
	sv.Intensity = 0.3 + 0.7*diffuse

	sv.UV = uv
	return sv, clipPos.W > 0
}

// DrawMesh renders a mesh with gouraud shading, modulating tex by the
// interpolated intensity. A nil texture falls back to flat white.
func (p *Pipeline) DrawMesh(mesh MeshSource, tex *Texture) {
	if tex == nil {
		tex = solidTexture(RGB(255, 255, 255))
	}
	st := p.state()

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		var sv [3]screenVertex
		anyFront := false
		for j := range 3 {
			pos, normal, uv := mesh.GetVertex(face[j])
			v, front := p.vertexStage(st, pos, normal, uv)
			sv[j] = v
			anyFront = anyFront || front
		}
		if !anyFront {
			continue
		}

		p.fillTriangle(sv, tex)
	}
}

// DrawMeshFlat renders a mesh with gouraud shading in a single color.
func (p *Pipeline) DrawMeshFlat(mesh MeshSource, c Color) {
	tex := solidTexture(c)
	p.DrawMesh(mesh, tex)
}

// DrawMeshWireframe renders only the mesh's triangle edges.
func (p *Pipeline) DrawMeshWireframe(mesh MeshSource, c Color) {
	st := p.state()

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		var sv [3]screenVertex
		anyFront := false
		for j := range 3 {
			pos, normal, uv := mesh.GetVertex(face[j])
			v, front := p.vertexStage(st, pos, normal, uv)
			sv[j] = v
			anyFront = anyFront || front
		}
		if !anyFront {
			continue
		}

		p.fb.DrawLine(int(sv[0].X), int(sv[0].Y), int(sv[1].X), int(sv[1].Y), c)
		p.fb.DrawLine(int(sv[1].X), int(sv[1].Y), int(sv[2].X), int(sv[2].Y), c)
		p.fb.DrawLine(int(sv[2].X), int(sv[2].Y), int(sv[0].X), int(sv[0].Y), c)
	}
}

// fillTriangle rasterizes one screen-space triangle with barycentric
// interpolation of depth, intensity and texture coordinates.
func (p *Pipeline) fillTriangle(sv [3]screenVertex, tex *Texture) {
	// Backface culling via screen-space winding.
	edge1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	edge2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	if edge1.Cross(edge2) < 0 {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(p.fb.Width-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(p.fb.Height-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= p.depth(x, y) {
				continue
			}

			u := bc.X*sv[0].UV.X + bc.Y*sv[1].UV.X + bc.Z*sv[2].UV.X
			v := bc.X*sv[0].UV.Y + bc.Y*sv[1].UV.Y + bc.Z*sv[2].UV.Y
			intensity := bc.X*sv[0].Intensity + bc.Y*sv[1].Intensity + bc.Z*sv[2].Intensity

			c := MultiplyColor(tex.Sample(u, v), intensity)

			p.setDepth(x, y, z)
			p.fb.SetPixel(x, y, c)
		}
	}
}

func (p *Pipeline) depth(x, y int) float64 {
	if x < 0 || x >= p.fb.Width || y < 0 || y >= p.fb.Height {
		return math.MaxFloat64
	}
	return p.zbuffer[y*p.fb.Width+x]
}

func (p *Pipeline) setDepth(x, y int, z float64) {
	if x < 0 || x >= p.fb.Width || y < 0 || y >= p.fb.Height {
		return
	}
	p.zbuffer[y*p.fb.Width+x] = z
}

// barycentric computes barycentric coordinates of (px, py) in the
// triangle (x0, y0), (x1, y1), (x2, y2).
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	d := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if d == 0 {
		return math3d.V3(-1, -1, -1) // degenerate triangle
	}

	a := ((y1-y2)*(px-x2) + (x2-x1)*(py-y2)) / d
	b := ((y2-y0)*(px-x2) + (x0-x2)*(py-y2)) / d
	return math3d.V3(a, b, 1-a-b)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
