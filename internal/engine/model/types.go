// Package model holds the CPU-side mesh and material records and draws them
// through a gpu.Device.
package model

import (
	"errors"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved vertex layout shared by every mesh.
type Vertex struct {
	Position  mgl32.Vec3
	TexCoord  mgl32.Vec2
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// VertexSize is the byte stride of Vertex.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Attribute binds a shader input name to a slice of Vertex.
type Attribute struct {
	Name   string
	Size   int
	Offset int
}

// VertexLayout lists the attributes in Vertex, resolved by name at draw time.
var VertexLayout = []Attribute{
	{Name: "inPos", Size: 3, Offset: int(unsafe.Offsetof(Vertex{}.Position))},
	{Name: "inTexCoord", Size: 2, Offset: int(unsafe.Offsetof(Vertex{}.TexCoord))},
	{Name: "inNormal", Size: 3, Offset: int(unsafe.Offsetof(Vertex{}.Normal))},
	{Name: "inTangent", Size: 3, Offset: int(unsafe.Offsetof(Vertex{}.Tangent))},
	{Name: "inBitangent", Size: 3, Offset: int(unsafe.Offsetof(Vertex{}.Bitangent))},
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns the box covering b and o.
func (b Bounds) Union(o Bounds) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], o.Min[i])
		b.Max[i] = max(b.Max[i], o.Max[i])
	}
	return b
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	return b
}

// Mesh errors.
var (
	ErrNotTriangleList = errors.New("vertex count is not a multiple of 3")
	ErrInvalidMesh     = errors.New("invalid mesh")
)
