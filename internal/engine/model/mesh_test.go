package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/internal/engine/gpu/gputest"
	"github.com/Faultbox/glsandbox/pkg/wavefront"
)

func triangle() []Vertex {
	return []Vertex{
		{Position: mgl32.Vec3{0, 0, 0}, TexCoord: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{1, 0, 0}, TexCoord: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{0, 1, 0}, TexCoord: mgl32.Vec2{0, 1}},
	}
}

func TestNewMesh_Validation(t *testing.T) {
	tests := []struct {
		name     string
		vertices []Vertex
		indices  []uint32
		ok       bool
	}{
		{"indexed triangle", triangle(), []uint32{0, 1, 2}, true},
		{"non-indexed triangle", triangle(), nil, true},
		{"no vertices", nil, nil, false},
		{"index past end", triangle(), []uint32{0, 1, 3}, false},
		{"partial triangle", triangle(), []uint32{0, 1}, false},
		{"empty index list", triangle(), []uint32{}, false},
		{"non-indexed remainder", append(triangle(), Vertex{}), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMesh(tt.name, tt.vertices, tt.indices, NoMaterial)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.indices != nil, m.Indexed())
				return
			}
			assert.ErrorIs(t, err, ErrInvalidMesh)
		})
	}
}

func TestMesh_Bounds(t *testing.T) {
	m, err := NewMesh("b", []Vertex{
		{Position: mgl32.Vec3{-1, 2, 0}},
		{Position: mgl32.Vec3{3, -2, 1}},
		{Position: mgl32.Vec3{0, 0, -5}},
	}, nil, NoMaterial)
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec3{-1, -2, -5}, m.Bounds.Min)
	assert.Equal(t, mgl32.Vec3{3, 2, 1}, m.Bounds.Max)
	assert.Equal(t, mgl32.Vec3{1, 0, -2}, m.Bounds.Center())
	assert.Equal(t, mgl32.Vec3{4, 4, 6}, m.Bounds.Size())
}

func newDrawFixture(t *testing.T) (*gputest.Device, *gputest.Program) {
	t.Helper()
	dev := gputest.New()
	p, err := dev.CompileProgram(gpu.ShaderSource{Name: "pbr"})
	require.NoError(t, err)
	p.Use()
	return dev, p.(*gputest.Program)
}

func TestMesh_DrawIndexedBindsPresentSlots(t *testing.T) {
	dev, prog := newDrawFixture(t)

	def := wavefront.NewMaterialDef("Brick")
	def.Roughness = 0.4
	def.AmbientOcclusion = 0.7
	mat := NewMaterial(def)
	albedo := dev.CreateTexture(testImage(), gpu.MaterialSampling)
	normal := dev.CreateTexture(testImage(), gpu.MaterialSampling)
	metallic := dev.CreateTexture(testImage(), gpu.MaterialSampling)
	require.True(t, mat.SetTexture(wavefront.TextureAlbedo, albedo))
	require.True(t, mat.SetTexture(wavefront.TextureNormal, normal))
	require.True(t, mat.SetTexture(wavefront.TextureMetallic, metallic))

	table := NewMaterialTable()
	id := table.Put(mat)

	m, err := NewMesh("wall", triangle(), []uint32{0, 1, 2}, id)
	require.NoError(t, err)
	m.Upload(dev)
	require.True(t, m.Uploaded())

	m.Draw(dev, prog, table)

	require.Len(t, dev.Draws, 1)
	draw := dev.Draws[0]
	assert.True(t, draw.Indexed)
	assert.Equal(t, 3, draw.Count)
	assert.Same(t, prog, draw.Program)
	assert.Equal(t, map[int]gpu.Texture{0: albedo, 1: normal, 2: metallic}, draw.Units)
	assert.Equal(t, gputest.Attribute{Size: 3, Stride: 56, Offset: 44}, draw.Attributes[4])
	assert.Len(t, draw.Attributes, 5)

	assert.True(t, prog.Bools["material.useAlbedoMap"])
	assert.True(t, prog.Bools["material.useNormalMap"])
	assert.True(t, prog.Bools["material.useMetallicMap"])
	assert.False(t, prog.Bools["material.useRoughnessMap"])
	assert.False(t, prog.Bools["material.useAoMap"])
	assert.False(t, prog.Bools["material.useSpecularMap"])

	assert.Equal(t, int32(0), prog.Ints["material.albedoMap"])
	assert.Equal(t, int32(1), prog.Ints["material.normalMap"])
	assert.Equal(t, int32(2), prog.Ints["material.metallicMap"])

	// fallbacks only for absent slots
	assert.NotContains(t, prog.Vec3s, "material.diffuse")
	assert.NotContains(t, prog.Floats, "material.metallic")
	assert.Equal(t, float32(0.4), prog.Floats["material.roughness"])
	assert.Equal(t, float32(0.7), prog.Floats["material.ao"])
	assert.Equal(t, def.Specular, prog.Vec3s["material.specular"])

	// exactly the bound units are released afterwards
	assert.Empty(t, dev.Units)
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, dev.Unbinds)
	assert.Empty(t, dev.Attribs)
}

func TestMesh_DrawWithoutMaterialUsesFallbacks(t *testing.T) {
	dev, prog := newDrawFixture(t)

	m, err := NewMesh("bare", triangle(), []uint32{0, 1, 2}, NoMaterial)
	require.NoError(t, err)
	m.Upload(dev)

	m.Draw(dev, prog, nil)

	require.Len(t, dev.Draws, 1)
	assert.Empty(t, dev.Draws[0].Units)
	assert.Empty(t, dev.Unbinds)
	def := wavefront.NewMaterialDef("default")
	assert.Equal(t, def.Diffuse, prog.Vec3s["material.diffuse"])
	assert.Equal(t, float32(0), prog.Floats["material.metallic"])
	assert.Equal(t, float32(1), prog.Floats["material.ao"])
	assert.Equal(t, float32(32), prog.Floats["material.shininess"])
}

func TestMesh_DrawArraysForBuiltins(t *testing.T) {
	dev, prog := newDrawFixture(t)

	cube := NewCube(1, NoMaterial)
	cube.Upload(dev)
	cube.Draw(dev, prog, nil)

	require.Len(t, dev.Draws, 1)
	assert.False(t, dev.Draws[0].Indexed)
	assert.Equal(t, 36, dev.Draws[0].Count)
	assert.Equal(t, gpu.Buffer(0), dev.Draws[0].Element)
}

func TestMesh_DrawNotReadyIsNoop(t *testing.T) {
	tests := []struct {
		name  string
		setup func(dev *gputest.Device, prog *gputest.Program, m *Mesh)
	}{
		{"not uploaded", func(*gputest.Device, *gputest.Program, *Mesh) {}},
		{"program not linked", func(dev *gputest.Device, prog *gputest.Program, m *Mesh) {
			m.Upload(dev)
			prog.SetLinked(false)
		}},
		{"index buffer missing", func(dev *gputest.Device, _ *gputest.Program, m *Mesh) {
			m.Upload(dev)
			dev.DeleteBuffer(m.ebo)
			m.ebo = 0
		}},
		{"released", func(dev *gputest.Device, _ *gputest.Program, m *Mesh) {
			m.Upload(dev)
			m.Release(dev)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, prog := newDrawFixture(t)
			m, err := NewMesh("m", triangle(), []uint32{0, 1, 2}, NoMaterial)
			require.NoError(t, err)
			tt.setup(dev, prog, m)

			m.Draw(dev, prog, nil)
			m.DrawGeometry(dev, prog)

			assert.Empty(t, dev.Draws)
			assert.Empty(t, dev.Units)
		})
	}
}

func TestMesh_DrawSkipsInactiveAttributes(t *testing.T) {
	dev, prog := newDrawFixture(t)
	delete(prog.Attribs, "inTangent")
	delete(prog.Attribs, "inBitangent")

	m := NewSkybox()
	m.Upload(dev)
	m.DrawGeometry(dev, prog)

	require.Len(t, dev.Draws, 1)
	assert.Len(t, dev.Draws[0].Attributes, 3)
	assert.NotContains(t, prog.Bools, "material.useAlbedoMap")
}

func TestMesh_UploadAndRelease(t *testing.T) {
	dev := gputest.New()
	m, err := NewMesh("m", triangle(), []uint32{0, 1, 2}, NoMaterial)
	require.NoError(t, err)

	m.Upload(dev)
	m.Upload(dev)

	require.Len(t, dev.Buffers, 2)
	assert.Len(t, dev.Buffers[m.vbo], 3*VertexSize)
	assert.Len(t, dev.Buffers[m.ebo], 12)

	m.Release(dev)
	assert.Empty(t, dev.Buffers)
	assert.False(t, m.Uploaded())
}

func TestTextureUnit(t *testing.T) {
	assert.Equal(t, 0, TextureUnit(wavefront.TextureAlbedo))
	assert.Equal(t, 1, TextureUnit(wavefront.TextureNormal))
	assert.Equal(t, 2, TextureUnit(wavefront.TextureMetallic))
	assert.Equal(t, 3, TextureUnit(wavefront.TextureRoughness))
	assert.Equal(t, 4, TextureUnit(wavefront.TextureAmbientOcclusion))
	assert.Equal(t, 5, TextureUnit(wavefront.TextureSpecular))
}

func TestTransform(t *testing.T) {
	m := Transform(mgl32.Vec3{1, 2, 3}, 2, 0, mgl32.Vec3{})
	p := m.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.Equal(t, mgl32.Vec4{3, 4, 5, 1}, p)

	r := Transform(mgl32.Vec3{}, 1, 90, mgl32.Vec3{0, 1, 0})
	q := r.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec3Near(t, mgl32.Vec3{0, 0, -1}, q)
}

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5, msgAndArgs...)
}
