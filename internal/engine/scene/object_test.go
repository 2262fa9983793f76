package scene

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/internal/engine/gpu/gputest"
	"github.com/Faultbox/glsandbox/internal/engine/model"
	"github.com/Faultbox/glsandbox/internal/engine/texture"
	"github.com/Faultbox/glsandbox/pkg/wavefront"
)

const pools = `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePNG(t *testing.T, dir, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
}

func newObject(t *testing.T) (*Object, *gputest.Device, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	dev := gputest.New()
	return NewObject(dev, texture.NewLoader(dev, log), log), dev, logs
}

// brickScene writes a scene with a textured material, an untextured mesh and a
// missing texture reference.
func brickScene(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, dir, "brick.png")
	writePNG(t, dir, "brick_n.png")
	writeFile(t, dir, "scene.mtl", `
newmtl Brick
Kd 0.7 0.3 0.2
map_Kd brick.png
map_Bump brick_n.png
map_Ks missing_spec.png
`)
	return writeFile(t, dir, "scene.obj", "mtllib scene.mtl\n"+pools+`
o Wall
usemtl Brick
f 1/1/1 2/2/1 3/3/1
o Bare
f 1/1/1 3/3/1 4/1/1
`)
}

func TestObject_Load(t *testing.T) {
	obj, dev, logs := newObject(t)
	path := brickScene(t)

	require.NoError(t, obj.Load(path))

	assert.True(t, obj.Loaded())
	assert.Equal(t, path, obj.Path())
	require.Len(t, obj.Meshes(), 2)

	wall, bare := obj.Meshes()[0], obj.Meshes()[1]
	assert.Equal(t, "Wall", wall.Name)
	assert.Equal(t, []uint32{0, 1, 2}, wall.Indices)
	assert.True(t, wall.Uploaded())

	brickID, ok := obj.Materials().Lookup("Brick")
	require.True(t, ok)
	assert.Equal(t, brickID, wall.Material)
	assert.Equal(t, model.NoMaterial, bare.Material)

	// tangents only for meshes with a material
	assertVec3Near(t, mgl32.Vec3{1, 0, 0}, wall.Vertices[0].Tangent)
	assert.Equal(t, mgl32.Vec3{}, bare.Vertices[0].Tangent)

	brick := obj.Materials().Get(brickID)
	assert.True(t, brick.HasTexture(wavefront.TextureAlbedo))
	assert.True(t, brick.HasTexture(wavefront.TextureNormal))
	assert.False(t, brick.HasTexture(wavefront.TextureSpecular), "missing file leaves the slot empty")
	assert.Len(t, dev.Textures, 2)

	require.Len(t, obj.Diagnostics(), 1)
	assert.ErrorIs(t, obj.Diagnostics()[0], texture.ErrNotFound)
	assert.Equal(t, 1, logs.FilterMessage("texture unavailable, slot left empty").Len())

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, obj.Bounds().Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Bounds().Max)
}

func TestObject_Draw(t *testing.T) {
	obj, dev, _ := newObject(t)
	require.NoError(t, obj.Load(brickScene(t)))

	prog, err := dev.CompileProgram(gpu.ShaderSource{Name: "phong"})
	require.NoError(t, err)
	prog.Use()

	obj.Draw(prog)

	require.Len(t, dev.Draws, 2)
	assert.Len(t, dev.Draws[0].Units, 2, "albedo and normal bound for Wall")
	assert.Empty(t, dev.Draws[1].Units)
	assert.Empty(t, dev.Units)
}

func TestObject_FailedReloadKeepsPrevious(t *testing.T) {
	obj, dev, _ := newObject(t)
	good := brickScene(t)
	require.NoError(t, obj.Load(good))
	buffers := len(dev.Buffers)

	bad := writeFile(t, t.TempDir(), "bad.obj", pools+"f 9/1/1 1/1/1 2/1/1\n")
	err := obj.Load(bad)

	assert.ErrorIs(t, err, wavefront.ErrOutOfRange)
	assert.Equal(t, good, obj.Path())
	assert.Len(t, obj.Meshes(), 2)
	assert.Len(t, dev.Buffers, buffers)
	assert.Empty(t, dev.DeletedBuffers)

	err = obj.Load(filepath.Join(t.TempDir(), "missing.obj"))
	assert.ErrorIs(t, err, wavefront.ErrNotFound)
	assert.Equal(t, good, obj.Path())
}

func TestObject_ReloadReleasesPrevious(t *testing.T) {
	obj, dev, _ := newObject(t)
	require.NoError(t, obj.Load(brickScene(t)))
	first := obj.Meshes()

	second := writeFile(t, t.TempDir(), "tri.obj", pools+"f 1/1/1 2/2/1 3/3/1\n")
	require.NoError(t, obj.Load(second))

	require.Len(t, obj.Meshes(), 1)
	assert.Equal(t, 0, obj.Materials().Len())
	for _, m := range first {
		assert.False(t, m.Uploaded())
	}
	assert.Empty(t, dev.Textures, "old material textures released")
	assert.Len(t, dev.Buffers, 2)
}

func TestObject_Release(t *testing.T) {
	obj, dev, _ := newObject(t)
	require.NoError(t, obj.Load(brickScene(t)))

	obj.Release()

	assert.False(t, obj.Loaded())
	assert.Empty(t, dev.Buffers)
	assert.Empty(t, dev.Textures)

	prog, err := dev.CompileProgram(gpu.ShaderSource{Name: "phong"})
	require.NoError(t, err)
	obj.Draw(prog)
	assert.Empty(t, dev.Draws)
}

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5, msgAndArgs...)
}
