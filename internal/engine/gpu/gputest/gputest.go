// Package gputest provides a recording gpu.Device for tests that need no GL context.
package gputest

import (
	"fmt"
	"image"
	"maps"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
)

// DefaultAttribs are the attribute locations every fake program reports.
var DefaultAttribs = map[string]int32{
	"inPos":       0,
	"inTexCoord":  1,
	"inNormal":    2,
	"inTangent":   3,
	"inBitangent": 4,
}

// Attribute records one EnableAttribute call.
type Attribute struct {
	Size, Stride, Offset int
}

// TextureInfo describes a created texture.
type TextureInfo struct {
	Target   gpu.TextureTarget
	Width    int
	Height   int
	Sampling gpu.Sampling
}

// Draw records one draw call and the state it saw.
type Draw struct {
	Indexed bool
	First   int
	Count   int
	Program *Program
	Array   gpu.Buffer
	Element gpu.Buffer
	// Units maps texture unit to the texture bound when the draw was issued.
	Units map[int]gpu.Texture
	// Attributes maps enabled locations to their layout.
	Attributes map[int32]Attribute
}

// Device is a gpu.Device that records everything and draws nothing.
type Device struct {
	// CompileErr makes every CompileProgram fail when set.
	CompileErr error
	// FailPrograms names programs that compile but do not link.
	FailPrograms map[string]bool

	Buffers  map[gpu.Buffer][]byte
	Textures map[gpu.Texture]TextureInfo
	Units    map[int]gpu.Texture
	Attribs  map[int32]Attribute

	Draws    []Draw
	Programs []*Program
	Current  *Program

	DepthFunc  gpu.DepthFunc
	DepthWrite bool
	Width      int
	Height     int
	Clears     int
	Reads      int

	// Unbinds counts UnbindTexture calls per unit.
	Unbinds map[int]int

	DeletedBuffers  []gpu.Buffer
	DeletedTextures []gpu.Texture

	array, element gpu.Buffer
	nextID         uint32
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Buffers:    make(map[gpu.Buffer][]byte),
		Textures:   make(map[gpu.Texture]TextureInfo),
		Units:      make(map[int]gpu.Texture),
		Attribs:    make(map[int32]Attribute),
		Unbinds:    make(map[int]int),
		DepthWrite: true,
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) CreateBuffer(_ gpu.BufferTarget, data []byte) gpu.Buffer {
	if len(data) == 0 {
		return 0
	}
	b := gpu.Buffer(d.id())
	d.Buffers[b] = append([]byte(nil), data...)
	return b
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	if b == 0 {
		return
	}
	delete(d.Buffers, b)
	d.DeletedBuffers = append(d.DeletedBuffers, b)
}

func (d *Device) BindBuffer(target gpu.BufferTarget, b gpu.Buffer) {
	if target == gpu.ElementBuffer {
		d.element = b
		return
	}
	d.array = b
}

func (d *Device) CreateTexture(img *image.RGBA, s gpu.Sampling) gpu.Texture {
	if img == nil {
		return 0
	}
	t := gpu.Texture(d.id())
	d.Textures[t] = TextureInfo{Target: gpu.Texture2D, Width: img.Bounds().Dx(), Height: img.Bounds().Dy(), Sampling: s}
	return t
}

func (d *Device) CreateCubemap(faces [6]*image.RGBA, s gpu.Sampling) gpu.Texture {
	t := gpu.Texture(d.id())
	info := TextureInfo{Target: gpu.TextureCubeMap, Sampling: s}
	if faces[0] != nil {
		info.Width, info.Height = faces[0].Bounds().Dx(), faces[0].Bounds().Dy()
	}
	d.Textures[t] = info
	return t
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	if t == 0 {
		return
	}
	delete(d.Textures, t)
	d.DeletedTextures = append(d.DeletedTextures, t)
}

func (d *Device) BindTexture(unit int, _ gpu.TextureTarget, t gpu.Texture) {
	d.Units[unit] = t
}

func (d *Device) UnbindTexture(unit int, _ gpu.TextureTarget) {
	delete(d.Units, unit)
	d.Unbinds[unit]++
}

func (d *Device) EnableAttribute(loc int32, size, stride, offset int) {
	if loc < 0 {
		return
	}
	d.Attribs[loc] = Attribute{Size: size, Stride: stride, Offset: offset}
}

func (d *Device) DisableAttribute(loc int32) {
	delete(d.Attribs, loc)
}

func (d *Device) record(indexed bool, first, count int) {
	d.Draws = append(d.Draws, Draw{
		Indexed:    indexed,
		First:      first,
		Count:      count,
		Program:    d.Current,
		Array:      d.array,
		Element:    d.element,
		Units:      maps.Clone(d.Units),
		Attributes: maps.Clone(d.Attribs),
	})
}

func (d *Device) DrawArrays(first, count int) { d.record(false, first, count) }

func (d *Device) DrawElements(count int) { d.record(true, 0, count) }

func (d *Device) SetDepthFunc(fn gpu.DepthFunc) { d.DepthFunc = fn }

func (d *Device) SetDepthWrite(enabled bool) { d.DepthWrite = enabled }

func (d *Device) Viewport(width, height int) { d.Width, d.Height = width, height }

func (d *Device) Clear(mgl32.Vec4) { d.Clears++ }

// ReadPixels returns a frame whose bottom row is white and the rest black.
func (d *Device) ReadPixels(width, height int) *image.RGBA {
	d.Reads++
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width && height > 0; x++ {
		img.Pix[x*4], img.Pix[x*4+1], img.Pix[x*4+2], img.Pix[x*4+3] = 255, 255, 255, 255
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func (d *Device) CompileProgram(src gpu.ShaderSource) (gpu.Program, error) {
	if d.CompileErr != nil {
		return nil, fmt.Errorf("%s program: %w", src.Name, d.CompileErr)
	}
	p := NewProgram(src.Name)
	p.dev = d
	p.Source = src
	p.linked = !d.FailPrograms[src.Name]
	d.Programs = append(d.Programs, p)
	return p, nil
}

// Program finds a compiled program by name.
func (d *Device) Program(name string) *Program {
	for _, p := range d.Programs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ResetDraws forgets recorded draws.
func (d *Device) ResetDraws() {
	d.Draws = nil
}

var _ gpu.Device = (*Device)(nil)
