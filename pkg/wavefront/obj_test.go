package wavefront

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const quadPools = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseOBJ(t *testing.T, src string) *Object {
	t.Helper()
	obj, err := ParseObject(strings.NewReader(src), Options{Name: "test.obj"})
	require.NoError(t, err)
	return obj
}

func TestParseObject_SingleTriangle(t *testing.T) {
	obj := parseOBJ(t, quadPools+"f 1/1/1 2/2/1 3/3/1\n")

	require.Len(t, obj.Groups, 1)
	g := obj.Groups[0]
	assert.Equal(t, "", g.Name)
	assert.Equal(t, "", g.Material)
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)
	require.Len(t, g.Corners, 3)
	assert.Equal(t, Corner{
		Position: mgl32.Vec3{1, 0, 0},
		TexCoord: mgl32.Vec2{1, 0},
		Normal:   mgl32.Vec3{0, 0, 1},
	}, g.Corners[1])
	assert.Empty(t, obj.Diagnostics)
}

func TestParseObject_CornersAreNotDeduplicated(t *testing.T) {
	obj := parseOBJ(t, quadPools+`
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`)

	require.Len(t, obj.Groups, 1)
	g := obj.Groups[0]
	assert.Len(t, g.Corners, 6)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, g.Indices)
	assert.Equal(t, g.Corners[0], g.Corners[3])
}

func TestParseObject_ObjectsSplitGroups(t *testing.T) {
	obj := parseOBJ(t, quadPools+`
o First
f 1/1/1 2/2/1 3/3/1
o Second Part
f 1/1/1 3/3/1 4/4/1
`)

	require.Len(t, obj.Groups, 2)
	assert.Equal(t, "First", obj.Groups[0].Name)
	assert.Equal(t, "Second Part", obj.Groups[1].Name)
	for _, g := range obj.Groups {
		assert.Len(t, g.Corners, 3)
		assert.Equal(t, []uint32{0, 1, 2}, g.Indices)
	}
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, obj.Groups[1].Corners[2].Position)
}

func TestParseObject_EmptyObjectsAreDropped(t *testing.T) {
	obj := parseOBJ(t, quadPools+`
o Empty
o Full
f 1/1/1 2/2/1 3/3/1
`)

	require.Len(t, obj.Groups, 1)
	assert.Equal(t, "Full", obj.Groups[0].Name)
}

func TestParseObject_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"index past pool", quadPools + "f 9/1/1 1/1/1 2/1/1\n", ErrOutOfRange},
		{"zero index", quadPools + "f 0/1/1 1/1/1 2/1/1\n", ErrOutOfRange},
		{"negative index", quadPools + "f -1/1/1 1/1/1 2/1/1\n", ErrOutOfRange},
		{"texcoord past pool", quadPools + "f 1/5/1 2/1/1 3/1/1\n", ErrOutOfRange},
		{"normal past pool", quadPools + "f 1/1/2 2/1/1 3/1/1\n", ErrOutOfRange},
		{"forward reference", "v 0 0 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\nv 1 0 0\nv 1 1 0\n", ErrOutOfRange},
		{"two corners", quadPools + "f 1/1/1 2/2/1\n", ErrParse},
		{"missing texcoord", quadPools + "f 1//1 2//1 3//1\n", ErrParse},
		{"position only", quadPools + "f 1 2 3\n", ErrParse},
		{"bad index", quadPools + "f a/1/1 2/1/1 3/1/1\n", ErrParse},
		{"short position", "v 1 2\n", ErrParse},
		{"bad position", "v 1 two 3\n", ErrParse},
		{"short texcoord", "vt 0.5\n", ErrParse},
		{"bad normal", "vn 0 0 up\n", ErrParse},
		{"mtllib without name", "mtllib\n", ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseObject(strings.NewReader(tt.src), Options{Name: "bad.obj"})
			assert.Nil(t, obj)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "bad.obj:")
		})
	}
}

func TestParseObject_PolygonIsTruncated(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	obj, err := ParseObject(strings.NewReader(quadPools+"f 1/1/1 2/2/1 3/3/1 4/4/1\n"),
		Options{Name: "quad.obj", Logger: zap.New(core)})
	require.NoError(t, err)

	require.Len(t, obj.Groups, 1)
	assert.Len(t, obj.Groups[0].Corners, 3)
	require.Len(t, obj.Diagnostics, 1)
	assert.ErrorIs(t, obj.Diagnostics[0], ErrParse)
	assert.Equal(t, 1, logs.FilterMessage("scene diagnostic").Len())
}

func TestParseObject_UnknownDirectivesIgnored(t *testing.T) {
	obj := parseOBJ(t, quadPools+`
# exported by hand
s off
g legacy
l 1 2
f 1/1/1 2/2/1 3/3/1
`)

	require.Len(t, obj.Groups, 1)
	assert.Empty(t, obj.Diagnostics)
}

func TestParseObject_UnresolvedMaterial(t *testing.T) {
	obj := parseOBJ(t, quadPools+`
usemtl Ghost
f 1/1/1 2/2/1 3/3/1
`)

	require.Len(t, obj.Groups, 1)
	assert.Equal(t, "", obj.Groups[0].Material)
	require.Len(t, obj.Diagnostics, 1)
	assert.ErrorIs(t, obj.Diagnostics[0], ErrUnresolvedReference)
	assert.Contains(t, obj.Diagnostics[0].Error(), "Ghost")
}

func TestLoadObject_WithMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scene.mtl", `
newmtl Brick
Kd 0.7 0.3 0.2
map_Kd brick.png
map_Bump brick_n.png
newmtl Glass
d 0.25
`)
	path := writeFile(t, dir, "scene.obj", `
mtllib scene.mtl
`+quadPools+`
o Wall
usemtl Brick
f 1/1/1 2/2/1 3/3/1
o Window
usemtl Glass
f 1/1/1 3/3/1 4/4/1
usemtl Brick
f 2/2/1 3/3/1 4/4/1
`)

	obj, err := LoadObject(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, obj.Name)
	assert.Equal(t, 2, obj.Materials.Len())
	require.Len(t, obj.Groups, 2)
	assert.Equal(t, "Brick", obj.Groups[0].Material)
	// the last usemtl inside a group wins for the whole group
	assert.Equal(t, "Brick", obj.Groups[1].Material)
	assert.Len(t, obj.Groups[1].Corners, 6)

	brick, ok := obj.Materials.Lookup("Brick")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "brick.png"), brick.Maps[TextureAlbedo])
	assert.Equal(t, filepath.Join(dir, "brick_n.png"), brick.Maps[TextureNormal])
	assert.Empty(t, obj.Diagnostics)
	assert.Contains(t, obj.String(), "2 groups, 9 vertices, 2 materials")
}

func TestLoadObject_MissingMaterialLibraryIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lonely.obj", "mtllib gone.mtl\n"+quadPools+"usemtl Brick\nf 1/1/1 2/2/1 3/3/1\n")

	obj, err := LoadObject(path, nil)
	require.NoError(t, err)

	require.Len(t, obj.Groups, 1)
	assert.Equal(t, "", obj.Groups[0].Material)
	require.Len(t, obj.Diagnostics, 2)
	assert.ErrorIs(t, obj.Diagnostics[0], ErrUnresolvedReference)
	assert.Contains(t, obj.Diagnostics[0].Error(), "gone.mtl")
	assert.ErrorIs(t, obj.Diagnostics[1], ErrUnresolvedReference)
}

func TestLoadObject_MaterialDiagnosticsPropagate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.mtl", "newmtl M\nNs wet\n")
	path := writeFile(t, dir, "m.obj", "mtllib bad.mtl\n"+quadPools+"usemtl M\nf 1/1/1 2/2/1 3/3/1\n")

	obj, err := LoadObject(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "M", obj.Groups[0].Material)
	require.Len(t, obj.Diagnostics, 1)
	assert.ErrorIs(t, obj.Diagnostics[0], ErrParse)
}

func TestLoadObject_Missing(t *testing.T) {
	_, err := LoadObject(filepath.Join(t.TempDir(), "absent.obj"), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseObject_EmptyInput(t *testing.T) {
	obj := parseOBJ(t, "")
	assert.Empty(t, obj.Groups)
	assert.Equal(t, 0, obj.Materials.Len())
}

func TestParseObject_ByteOrderMark(t *testing.T) {
	obj := parseOBJ(t, "\ufeffv 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n")

	require.Len(t, obj.Groups, 1)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, obj.Groups[0].Corners[0].Position)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, obj.Groups[0].Corners[2].Position)
	assert.Empty(t, obj.Diagnostics)
}

func TestLoadObject_ByteOrderMarkBeforeMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bom.mtl", "\ufeffnewmtl Brick\nKd 1 0 0\n")
	path := writeFile(t, dir, "bom.obj", "\ufeffmtllib bom.mtl\n"+quadPools+"usemtl Brick\nf 1/1/1 2/2/1 3/3/1\n")

	obj, err := LoadObject(path, nil)
	require.NoError(t, err)

	require.Len(t, obj.Groups, 1)
	assert.Equal(t, "Brick", obj.Groups[0].Material)
	assert.Empty(t, obj.Diagnostics)
}
