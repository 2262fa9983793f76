package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
)

// SpotLight is a cone light. The lamp is a spot light that follows the camera.
type SpotLight struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	// CutOff and OuterCutOff are cone half-angles in degrees; light fades between them.
	CutOff      float32
	OuterCutOff float32
	Phong
	Falloff
	Enabled bool
}

// NewLamp returns a switched-off hand lamp.
func NewLamp(cutOff, outerCutOff float32) SpotLight {
	return SpotLight{
		Direction:   mgl32.Vec3{0, 0, -1},
		CutOff:      cutOff,
		OuterCutOff: outerCutOff,
		Phong: Phong{
			Ambient:  mgl32.Vec3{0, 0, 0},
			Diffuse:  mgl32.Vec3{1, 1, 1},
			Specular: mgl32.Vec3{1, 1, 1},
		},
		Falloff: DefaultFalloff(),
	}
}

// Toggle switches the light and returns the new state.
func (s *SpotLight) Toggle() bool {
	s.Enabled = !s.Enabled
	return s.Enabled
}

// Follow places the light at pos pointing along dir.
func (s *SpotLight) Follow(pos, dir mgl32.Vec3) {
	s.Position = pos
	s.Direction = dir
}

// Upload writes the spotLight uniform struct. Angles are sent as cosines.
func (s SpotLight) Upload(prog gpu.Program) {
	prog.SetBool("spotLight.enabled", s.Enabled)
	prog.SetVec3("spotLight.position", s.Position)
	prog.SetVec3("spotLight.direction", s.Direction)
	prog.SetFloat("spotLight.cutOff", cosDeg(s.CutOff))
	prog.SetFloat("spotLight.outerCutOff", cosDeg(s.OuterCutOff))
	prog.SetVec3("spotLight.ambient", s.Ambient)
	prog.SetVec3("spotLight.diffuse", s.Diffuse)
	prog.SetVec3("spotLight.specular", s.Specular)
	prog.SetFloat("spotLight.constant", s.Constant)
	prog.SetFloat("spotLight.linear", s.Linear)
	prog.SetFloat("spotLight.quadratic", s.Quadratic)
}

func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(deg))))
}
