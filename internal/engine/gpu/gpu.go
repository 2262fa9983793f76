// Package gpu describes the small slice of the graphics API the sandbox draws with.
//
// Rendering code talks to a Device instead of calling OpenGL directly, so the
// mesh and material logic can be exercised without a GL context. The go-gl
// implementation lives in gpu/glgpu; a recording fake for tests lives in
// gpu/gputest.
package gpu

import (
	"image"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Buffer is a device buffer handle. Zero means no buffer.
type Buffer uint32

// Texture is a device texture handle. Zero means no texture.
type Texture uint32

// BufferTarget selects what a buffer stores.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementBuffer
)

// TextureTarget selects the texture binding point.
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCubeMap
)

// Filter is a texture filtering mode.
type Filter int

const (
	Nearest Filter = iota
	Linear
	LinearMipmapLinear
)

// Wrap is a texture coordinate wrap mode.
type Wrap int

const (
	Repeat Wrap = iota
	ClampToEdge
)

// Sampling configures how a texture is sampled.
type Sampling struct {
	Min  Filter
	Mag  Filter
	Wrap Wrap
}

// MaterialSampling is used for every material texture slot.
var MaterialSampling = Sampling{Min: Nearest, Mag: Linear, Wrap: Repeat}

// TiledSampling is mipmapped for textures repeated across a large surface.
var TiledSampling = Sampling{Min: LinearMipmapLinear, Mag: Linear, Wrap: Repeat}

// SkyboxSampling is used for cube maps.
var SkyboxSampling = Sampling{Min: Linear, Mag: Linear, Wrap: ClampToEdge}

// DepthFunc is the depth comparison function.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

// ShaderSource holds the stages of one program. Geometry is optional.
type ShaderSource struct {
	Name     string
	Vertex   string
	Geometry string
	Fragment string
}

// Program is a linked shader program. Uniforms and attributes are addressed by
// name; setting a uniform the program does not declare is a no-op.
type Program interface {
	Linked() bool
	Use()
	Release()

	// AttribLocation returns -1 when the attribute is not active.
	AttribLocation(name string) int32

	SetInt(name string, v int32)
	SetBool(name string, v bool)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetMat4(name string, v mgl32.Mat4)
}

// Device creates resources and issues draw calls.
type Device interface {
	CreateBuffer(target BufferTarget, data []byte) Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target BufferTarget, b Buffer)

	CreateTexture(img *image.RGBA, s Sampling) Texture
	// CreateCubemap takes faces in +X, -X, +Y, -Y, +Z, -Z order.
	CreateCubemap(faces [6]*image.RGBA, s Sampling) Texture
	DeleteTexture(t Texture)
	BindTexture(unit int, target TextureTarget, t Texture)
	UnbindTexture(unit int, target TextureTarget)

	// EnableAttribute points a float attribute at the bound array buffer.
	EnableAttribute(loc int32, size, stride, offset int)
	DisableAttribute(loc int32)

	// DrawArrays draws count vertices as a triangle list.
	DrawArrays(first, count int)
	// DrawElements draws count uint32 indices from the bound element buffer as a triangle list.
	DrawElements(count int)

	SetDepthFunc(fn DepthFunc)
	SetDepthWrite(enabled bool)
	Viewport(width, height int)
	Clear(color mgl32.Vec4)
	// ReadPixels copies the back buffer. Rows are bottom-up as GL stores them.
	ReadPixels(width, height int) *image.RGBA

	CompileProgram(src ShaderSource) (Program, error)
}

// Bytes reinterprets a slice of plain values as its backing bytes.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}
