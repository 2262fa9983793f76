// Package glgpu implements gpu.Device on OpenGL 4.1 core via go-gl.
// All methods must be called from the thread that owns the GL context.
package glgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/internal/engine/shader"
	"github.com/Faultbox/glsandbox/internal/logger"
)

// Device is the OpenGL-backed gpu.Device.
type Device struct {
	vao uint32
	log *zap.Logger
}

// New initializes GL function pointers and the shared vertex array.
// The GL context must be current.
func New(log *zap.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	d := &Device{log: logger.Or(log, "gpu")}
	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	// Core profile refuses attribute setup without a bound VAO. One is enough:
	// attributes are re-pointed on every draw.
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return d, nil
}

// Close releases the shared vertex array.
func (d *Device) Close() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func bufferTarget(t gpu.BufferTarget) uint32 {
	if t == gpu.ElementBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func textureTarget(t gpu.TextureTarget) uint32 {
	if t == gpu.TextureCubeMap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func filter(f gpu.Filter) int32 {
	switch f {
	case gpu.Nearest:
		return gl.NEAREST
	case gpu.LinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func wrap(w gpu.Wrap) int32 {
	if w == gpu.ClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

// CreateBuffer uploads data into a new static buffer.
func (d *Device) CreateBuffer(target gpu.BufferTarget, data []byte) gpu.Buffer {
	if len(data) == 0 {
		return 0
	}
	var id uint32
	gl.GenBuffers(1, &id)
	t := bufferTarget(target)
	gl.BindBuffer(t, id)
	gl.BufferData(t, len(data), unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	return gpu.Buffer(id)
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	if b == 0 {
		return
	}
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) BindBuffer(target gpu.BufferTarget, b gpu.Buffer) {
	gl.BindBuffer(bufferTarget(target), uint32(b))
}

func applySampling(target uint32, s gpu.Sampling) {
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, filter(s.Min))
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, filter(s.Mag))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, wrap(s.Wrap))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, wrap(s.Wrap))
	if target == gl.TEXTURE_CUBE_MAP {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_R, wrap(s.Wrap))
	}
}

// CreateTexture uploads img as an RGBA8 2D texture.
func (d *Device) CreateTexture(img *image.RGBA, s gpu.Sampling) gpu.Texture {
	if img == nil || len(img.Pix) == 0 {
		return 0
	}
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	if s.Min == gpu.LinearMipmapLinear {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	applySampling(gl.TEXTURE_2D, s)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gpu.Texture(id)
}

// CreateCubemap uploads six faces into a cube map texture.
func (d *Device) CreateCubemap(faces [6]*image.RGBA, s gpu.Sampling) gpu.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for i, img := range faces {
		if img == nil || len(img.Pix) == 0 {
			continue
		}
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	}
	applySampling(gl.TEXTURE_CUBE_MAP, s)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return gpu.Texture(id)
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	if t == 0 {
		return
	}
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *Device) BindTexture(unit int, target gpu.TextureTarget, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(textureTarget(target), uint32(t))
}

func (d *Device) UnbindTexture(unit int, target gpu.TextureTarget) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(textureTarget(target), 0)
}

func (d *Device) EnableAttribute(loc int32, size, stride, offset int) {
	if loc < 0 {
		return
	}
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(size), gl.FLOAT, false, int32(stride), uintptr(offset))
	gl.EnableVertexAttribArray(uint32(loc))
}

func (d *Device) DisableAttribute(loc int32) {
	if loc < 0 {
		return
	}
	gl.DisableVertexAttribArray(uint32(loc))
}

func (d *Device) DrawArrays(first, count int) {
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

func (d *Device) DrawElements(count int) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, 0)
}

func (d *Device) SetDepthFunc(fn gpu.DepthFunc) {
	if fn == gpu.DepthLessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

func (d *Device) SetDepthWrite(enabled bool) {
	gl.DepthMask(enabled)
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) ReadPixels(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	return img
}

// CompileProgram compiles and links src. Link failures are returned and logged.
func (d *Device) CompileProgram(src gpu.ShaderSource) (gpu.Program, error) {
	id, err := shader.CompileProgram(src.Vertex, src.Geometry, src.Fragment)
	if err != nil {
		d.log.Error("shader program failed", zap.String("program", src.Name), zap.Error(err))
		return nil, fmt.Errorf("%s program: %w", src.Name, err)
	}
	d.log.Debug("shader program linked", zap.String("program", src.Name), zap.Uint32("id", id))
	return &program{id: id, locs: shader.NewLocations(id)}, nil
}
