package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
)

// SunDirection converts longitude/latitude angles in degrees to a light direction vector.
// Longitude is rotation around Y axis (0-360), latitude is elevation from horizon (0-90).
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lonRad := float64(mgl32.DegToRad(longitude))
	latRad := float64(mgl32.DegToRad(latitude))

	// Spherical to Cartesian conversion
	x := float32(math.Cos(latRad) * math.Sin(lonRad))
	y := float32(math.Sin(latRad))
	z := float32(math.Cos(latRad) * math.Cos(lonRad))

	return mgl32.Vec3{x, y, z}
}

// DirLight is a light infinitely far away.
type DirLight struct {
	// Direction points from the light into the scene.
	Direction mgl32.Vec3
	Phong
	Enabled bool
}

// NewSun returns a dim directional light shining down from the given angles.
func NewSun(longitude, latitude float32) DirLight {
	return DirLight{
		Direction: SunDirection(longitude, latitude).Mul(-1),
		Phong: Phong{
			Ambient:  mgl32.Vec3{0.05, 0.05, 0.05},
			Diffuse:  mgl32.Vec3{0.3, 0.3, 0.3},
			Specular: mgl32.Vec3{0.1, 0.1, 0.1},
		},
		Enabled: true,
	}
}

// Upload writes the dirLight uniform struct.
func (d DirLight) Upload(prog gpu.Program) {
	prog.SetBool("dirLight.enabled", d.Enabled)
	prog.SetVec3("dirLight.direction", d.Direction)
	prog.SetVec3("dirLight.ambient", d.Ambient)
	prog.SetVec3("dirLight.diffuse", d.Diffuse)
	prog.SetVec3("dirLight.specular", d.Specular)
}
