package model

import "github.com/go-gl/mathgl/mgl32"

type face struct {
	normal mgl32.Vec3
	// corners in counter-clockwise order seen from outside: top-left,
	// bottom-left, top-right, bottom-right
	corners [4]mgl32.Vec3
}

var cubeFaces = [6]face{
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, 1, 1}, {-1, -1, 1}, {1, 1, 1}, {1, -1, 1}}},
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, 1, 1}, {1, -1, 1}, {1, 1, -1}, {1, -1, -1}}},
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 1, -1}, {-1, 1, 1}, {1, 1, -1}, {1, 1, 1}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{1, 1, -1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, -1}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, 1, -1}, {-1, -1, -1}, {-1, 1, 1}, {-1, -1, 1}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, -1, 1}, {-1, -1, -1}, {1, -1, 1}, {1, -1, -1}}},
}

var quadUVs = [4]mgl32.Vec2{{0, 1}, {0, 0}, {1, 1}, {1, 0}}

// quad order: tl, bl, tr / tr, bl, br
var quadOrder = [6]int{0, 1, 2, 2, 1, 3}

// CubeVertices returns a non-indexed cube of the given edge length centered on
// the origin, with per-face normals, UVs and tangents.
func CubeVertices(width float32) []Vertex {
	half := width / 2
	vertices := make([]Vertex, 0, 36)
	for _, f := range cubeFaces {
		for _, c := range quadOrder {
			vertices = append(vertices, Vertex{
				Position: f.corners[c].Mul(half),
				TexCoord: quadUVs[c],
				Normal:   f.normal,
			})
		}
	}
	_ = ComputeTangents(vertices)
	return vertices
}

// FloorVertices returns a non-indexed square on the XZ plane at height y,
// facing up, with UVs repeated tiles times across it.
func FloorVertices(size, y, tiles float32) []Vertex {
	half := size / 2
	corners := [4]mgl32.Vec3{{-half, y, -half}, {-half, y, half}, {half, y, -half}, {half, y, half}}
	vertices := make([]Vertex, 0, 6)
	for _, c := range quadOrder {
		vertices = append(vertices, Vertex{
			Position: corners[c],
			TexCoord: quadUVs[c].Mul(tiles),
			Normal:   mgl32.Vec3{0, 1, 0},
		})
	}
	_ = ComputeTangents(vertices)
	return vertices
}

// SkyboxVertices returns the 36 positions of a unit cube seen from inside.
func SkyboxVertices() []Vertex {
	vertices := make([]Vertex, 0, 36)
	for _, f := range cubeFaces {
		for i := len(quadOrder) - 1; i >= 0; i-- {
			vertices = append(vertices, Vertex{Position: f.corners[quadOrder[i]]})
		}
	}
	return vertices
}

// NewCube returns an unuploaded cube mesh bound to material.
func NewCube(width float32, material MaterialID) *Mesh {
	m, _ := NewMesh("cube", CubeVertices(width), nil, material)
	return m
}

// NewFloor returns an unuploaded floor mesh bound to material.
func NewFloor(size, y, tiles float32, material MaterialID) *Mesh {
	m, _ := NewMesh("floor", FloorVertices(size, y, tiles), nil, material)
	return m
}

// NewSkybox returns an unuploaded skybox cube.
func NewSkybox() *Mesh {
	m, _ := NewMesh("skybox", SkyboxVertices(), nil, NoMaterial)
	return m
}
