package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/pkg/wavefront"
)

// Mesh is a triangle list with an optional index buffer and a material reference.
type Mesh struct {
	Name     string
	Vertices []Vertex
	// Indices is nil for non-indexed meshes, which draw with DrawArrays.
	Indices  []uint32
	Material MaterialID
	Bounds   Bounds

	vbo gpu.Buffer
	ebo gpu.Buffer
}

// NewMesh validates the triangle list and returns a mesh ready for Upload.
// An indexed mesh needs a multiple of 3 indices, each below len(vertices);
// a non-indexed mesh needs a multiple of 3 vertices.
func NewMesh(name string, vertices []Vertex, indices []uint32, material MaterialID) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: %s has no vertices", ErrInvalidMesh, name)
	}
	if indices == nil {
		if len(vertices)%3 != 0 {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMesh, name, ErrNotTriangleList)
		}
	} else {
		if len(indices) == 0 || len(indices)%3 != 0 {
			return nil, fmt.Errorf("%w: %s has %d indices", ErrInvalidMesh, name, len(indices))
		}
		for i, idx := range indices {
			if int(idx) >= len(vertices) {
				return nil, fmt.Errorf("%w: %s index %d = %d, %d vertices", ErrInvalidMesh, name, i, idx, len(vertices))
			}
		}
	}

	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Material: material,
		Bounds:   computeBounds(vertices),
	}, nil
}

// Indexed reports whether the mesh draws through an index buffer.
func (m *Mesh) Indexed() bool {
	return m.Indices != nil
}

// Uploaded reports whether the buffers the draw needs exist.
func (m *Mesh) Uploaded() bool {
	if m.vbo == 0 {
		return false
	}
	return !m.Indexed() || m.ebo != 0
}

// Upload creates the vertex and index buffers. Calling it again is a no-op.
func (m *Mesh) Upload(dev gpu.Device) {
	if m.vbo == 0 {
		m.vbo = dev.CreateBuffer(gpu.ArrayBuffer, gpu.Bytes(m.Vertices))
	}
	if m.Indexed() && m.ebo == 0 {
		m.ebo = dev.CreateBuffer(gpu.ElementBuffer, gpu.Bytes(m.Indices))
	}
}

// Release deletes the buffers.
func (m *Mesh) Release(dev gpu.Device) {
	dev.DeleteBuffer(m.vbo)
	dev.DeleteBuffer(m.ebo)
	m.vbo, m.ebo = 0, 0
}

// textureSlot ties a texture role to its unit, its uniforms and the value
// uploaded when the role has no texture.
type textureSlot struct {
	kind     wavefront.TextureKind
	unit     int
	flag     string
	sampler  string
	fallback func(p gpu.Program, m *Material)
}

var textureSlots = []textureSlot{
	{
		kind: wavefront.TextureAlbedo, unit: 0,
		flag: "material.useAlbedoMap", sampler: "material.albedoMap",
		fallback: func(p gpu.Program, m *Material) { p.SetVec3("material.diffuse", m.Diffuse) },
	},
	{
		kind: wavefront.TextureNormal, unit: 1,
		flag: "material.useNormalMap", sampler: "material.normalMap",
	},
	{
		kind: wavefront.TextureMetallic, unit: 2,
		flag: "material.useMetallicMap", sampler: "material.metallicMap",
		fallback: func(p gpu.Program, m *Material) { p.SetFloat("material.metallic", m.Metallic) },
	},
	{
		kind: wavefront.TextureRoughness, unit: 3,
		flag: "material.useRoughnessMap", sampler: "material.roughnessMap",
		fallback: func(p gpu.Program, m *Material) { p.SetFloat("material.roughness", m.Roughness) },
	},
	{
		kind: wavefront.TextureAmbientOcclusion, unit: 4,
		flag: "material.useAoMap", sampler: "material.aoMap",
		fallback: func(p gpu.Program, m *Material) { p.SetFloat("material.ao", m.AmbientOcclusion) },
	},
	{
		kind: wavefront.TextureSpecular, unit: 5,
		flag: "material.useSpecularMap", sampler: "material.specularMap",
		fallback: func(p gpu.Program, m *Material) { p.SetVec3("material.specular", m.Specular) },
	},
}

// TextureUnit returns the texture unit a role binds to.
func TextureUnit(kind wavefront.TextureKind) int {
	for _, s := range textureSlots {
		if s.kind == kind {
			return s.unit
		}
	}
	return -1
}

// bindMaterial binds present slots and uploads fallbacks for absent ones.
// It returns the units it bound.
func bindMaterial(dev gpu.Device, prog gpu.Program, m *Material) []int {
	var bound []int
	for _, s := range textureSlots {
		tex := m.Textures[s.kind]
		if tex != 0 {
			dev.BindTexture(s.unit, gpu.Texture2D, tex)
			prog.SetInt(s.sampler, int32(s.unit))
			prog.SetBool(s.flag, true)
			bound = append(bound, s.unit)
			continue
		}
		prog.SetBool(s.flag, false)
		if s.fallback != nil {
			s.fallback(prog, m)
		}
	}
	prog.SetFloat("material.shininess", m.SpecularExponent)
	return bound
}

// Draw issues the mesh with its material bound. The caller has already made
// prog current and set its transforms. A mesh or program that is not ready is
// skipped silently.
func (m *Mesh) Draw(dev gpu.Device, prog gpu.Program, materials *MaterialTable) {
	if prog == nil || !prog.Linked() || !m.Uploaded() {
		return
	}

	mat := materials.Get(m.Material)
	if mat == nil {
		mat = defaultMaterial
	}

	locs := m.bindAttributes(dev, prog)
	bound := bindMaterial(dev, prog, mat)
	m.issue(dev)

	for _, unit := range bound {
		dev.UnbindTexture(unit, gpu.Texture2D)
	}
	unbindAttributes(dev, locs)
}

// DrawGeometry issues the mesh without touching material state, for passes
// such as light markers, the skybox and normal visualization.
func (m *Mesh) DrawGeometry(dev gpu.Device, prog gpu.Program) {
	if prog == nil || !prog.Linked() || !m.Uploaded() {
		return
	}
	locs := m.bindAttributes(dev, prog)
	m.issue(dev)
	unbindAttributes(dev, locs)
}

func (m *Mesh) bindAttributes(dev gpu.Device, prog gpu.Program) []int32 {
	dev.BindBuffer(gpu.ArrayBuffer, m.vbo)
	locs := make([]int32, 0, len(VertexLayout))
	for _, a := range VertexLayout {
		loc := prog.AttribLocation(a.Name)
		if loc < 0 {
			continue
		}
		dev.EnableAttribute(loc, a.Size, VertexSize, a.Offset)
		locs = append(locs, loc)
	}
	return locs
}

func unbindAttributes(dev gpu.Device, locs []int32) {
	for _, loc := range locs {
		dev.DisableAttribute(loc)
	}
}

func (m *Mesh) issue(dev gpu.Device) {
	if m.Indexed() {
		dev.BindBuffer(gpu.ElementBuffer, m.ebo)
		dev.DrawElements(len(m.Indices))
		return
	}
	dev.DrawArrays(0, len(m.Vertices))
}

var defaultMaterial = DefaultMaterial()

// Transform returns the model matrix for a translation, uniform scale and a
// rotation in degrees around axis.
func Transform(translate mgl32.Vec3, scale float32, angleDeg float32, axis mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Translate3D(translate.X(), translate.Y(), translate.Z())
	if angleDeg != 0 && axis.Len() > 0 {
		m = m.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(angleDeg), axis.Normalize()))
	}
	return m.Mul4(mgl32.Scale3D(scale, scale, scale))
}
