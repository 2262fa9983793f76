// Package lighting provides the light sources of the sandbox and their shader upload.
package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
)

// MaxPointLights is the size of the pointLights array in the lit shaders.
const MaxPointLights = 8

// Attenuation factors of every light unless configured otherwise.
const (
	DefaultConstant  = 1.0
	DefaultLinear    = 0.09
	DefaultQuadratic = 0.032
)

// Phong terms shared by light sources.
type Phong struct {
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
}

// DefaultPhong is a faint ambient, full diffuse and a weak specular.
func DefaultPhong() Phong {
	return Phong{
		Ambient:  mgl32.Vec3{0.05, 0.05, 0.05},
		Diffuse:  mgl32.Vec3{1, 1, 1},
		Specular: mgl32.Vec3{0.1, 0.1, 0.1},
	}
}

// Falloff is the constant/linear/quadratic distance attenuation.
type Falloff struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// DefaultFalloff covers roughly 50 units.
func DefaultFalloff() Falloff {
	return Falloff{Constant: DefaultConstant, Linear: DefaultLinear, Quadratic: DefaultQuadratic}
}

// PointLight is an omnidirectional light with distance falloff.
type PointLight struct {
	Position mgl32.Vec3
	// Color tints the diffuse and specular terms and the light marker.
	Color mgl32.Vec3
	Phong
	Falloff
}

// NewPointLight returns a light at pos with the default terms.
func NewPointLight(pos, color mgl32.Vec3) PointLight {
	return PointLight{
		Position: pos,
		Color:    color,
		Phong:    DefaultPhong(),
		Falloff:  DefaultFalloff(),
	}
}

// PointLightBuffer holds lights for GPU upload.
type PointLightBuffer struct {
	Lights []PointLight
	Count  int
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

// SetLights replaces all lights in the buffer.
// Truncates to MaxPointLights if necessary.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Clear()
	count := min(len(lights), MaxPointLights)
	b.Lights = append(b.Lights, lights[:count]...)
	b.Count = count
}

// Upload writes the lights into the pointLights uniform array.
// When enabled is false the shader sees zero lights.
func (b *PointLightBuffer) Upload(prog gpu.Program, enabled bool) {
	if !enabled {
		prog.SetInt("pointLightCount", 0)
		return
	}
	prog.SetInt("pointLightCount", int32(b.Count))
	for i, l := range b.Lights {
		prefix := fmt.Sprintf("pointLights[%d].", i)
		prog.SetVec3(prefix+"position", l.Position)
		prog.SetVec3(prefix+"color", l.Color)
		prog.SetVec3(prefix+"ambient", l.Ambient)
		prog.SetVec3(prefix+"diffuse", l.Diffuse)
		prog.SetVec3(prefix+"specular", l.Specular)
		prog.SetFloat(prefix+"constant", l.Constant)
		prog.SetFloat(prefix+"linear", l.Linear)
		prog.SetFloat(prefix+"quadratic", l.Quadratic)
	}
}
