package gputest

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
)

// Program records the uniforms set on it.
type Program struct {
	Name   string
	Source gpu.ShaderSource

	Attribs  map[string]int32
	Ints     map[string]int32
	Bools    map[string]bool
	Floats   map[string]float32
	Vec3s    map[string]mgl32.Vec3
	Mat4s    map[string]mgl32.Mat4
	Released bool

	dev    *Device
	linked bool
}

// NewProgram returns a linked program with DefaultAttribs, not tied to a device.
func NewProgram(name string) *Program {
	attribs := make(map[string]int32, len(DefaultAttribs))
	for k, v := range DefaultAttribs {
		attribs[k] = v
	}
	return &Program{
		Name:    name,
		Attribs: attribs,
		Ints:    make(map[string]int32),
		Bools:   make(map[string]bool),
		Floats:  make(map[string]float32),
		Vec3s:   make(map[string]mgl32.Vec3),
		Mat4s:   make(map[string]mgl32.Mat4),
		linked:  true,
	}
}

// SetLinked overrides the link state.
func (p *Program) SetLinked(linked bool) { p.linked = linked }

func (p *Program) Linked() bool { return p.linked && !p.Released }

func (p *Program) Use() {
	if p.dev != nil {
		p.dev.Current = p
	}
}

func (p *Program) Release() { p.Released = true }

func (p *Program) AttribLocation(name string) int32 {
	if loc, ok := p.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (p *Program) SetInt(name string, v int32)       { p.Ints[name] = v }
func (p *Program) SetBool(name string, v bool)       { p.Bools[name] = v }
func (p *Program) SetFloat(name string, v float32)   { p.Floats[name] = v }
func (p *Program) SetVec3(name string, v mgl32.Vec3) { p.Vec3s[name] = v }
func (p *Program) SetMat4(name string, v mgl32.Mat4) { p.Mat4s[name] = v }

var _ gpu.Program = (*Program)(nil)
