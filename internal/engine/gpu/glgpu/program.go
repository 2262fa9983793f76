package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/shader"
)

type program struct {
	id   uint32
	locs *shader.Locations
}

func (p *program) Linked() bool { return p.id != 0 }

func (p *program) Use() { gl.UseProgram(p.id) }

func (p *program) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *program) AttribLocation(name string) int32 {
	if p.id == 0 {
		return -1
	}
	return p.locs.Attrib(name)
}

func (p *program) SetInt(name string, v int32) {
	if loc := p.locs.Uniform(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (p *program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

func (p *program) SetFloat(name string, v float32) {
	if loc := p.locs.Uniform(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (p *program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.locs.Uniform(name); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *program) SetMat4(name string, v mgl32.Mat4) {
	if loc := p.locs.Uniform(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	}
}
