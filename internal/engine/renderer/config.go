package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/lighting"
)

// Shading selects the fragment model of the lit pass.
type Shading int

const (
	ShadingPhong Shading = iota
	ShadingPBR
)

func (s Shading) String() string {
	switch s {
	case ShadingPhong:
		return "phong"
	case ShadingPBR:
		return "pbr"
	}
	return fmt.Sprintf("Shading(%d)", int(s))
}

// ParseShading accepts "phong" and "pbr".
func ParseShading(s string) (Shading, error) {
	switch s {
	case "phong":
		return ShadingPhong, nil
	case "pbr":
		return ShadingPBR, nil
	}
	return 0, fmt.Errorf("unknown shading %q", s)
}

// Visibility switches individual parts of the frame.
type Visibility struct {
	Skybox  bool
	Lights  bool
	Cubes   bool
	Floor   bool
	Object  bool
	Normals bool
}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// Projection, angles in degrees.
	FOV    float32
	Near   float32
	Far    float32
	FOVMin float32
	FOVMax float32
	// ZoomSensitivity is degrees of FOV per wheel notch.
	ZoomSensitivity float32

	Shading    Shading
	Visible    Visibility
	Lamp       bool
	ClearColor mgl32.Vec4

	// Built-in assets; empty paths leave the slot empty.
	SkyboxFaces  [6]string
	CubeTexture  string
	CubeSpecular string
	FloorTexture string

	CubePositions []mgl32.Vec3
	FloorSize     float32
	FloorHeight   float32

	Lights          []lighting.PointLight
	LampCutOff      float32
	LampOuterCutOff float32
	Sun             bool
	SunLongitude    float32
	SunLatitude     float32

	// The first light circles the Y axis at OrbitRadius, OrbitSpeed radians/s.
	OrbitRadius float32
	OrbitSpeed  float32
	// RotationSpeed spins the cubes in degrees/s.
	RotationSpeed float32
}

// DefaultConfig returns the stock sandbox view: a 45 degree lens, everything
// but the normals visible and Phong shading.
func DefaultConfig() Config {
	return Config{
		Width:           1280,
		Height:          720,
		FOV:             45,
		Near:            0.1,
		Far:             100,
		FOVMin:          30,
		FOVMax:          90,
		ZoomSensitivity: 6,
		Shading:         ShadingPhong,
		Visible: Visibility{
			Skybox: true,
			Lights: true,
			Cubes:  true,
			Floor:  true,
			Object: true,
		},
		ClearColor:      mgl32.Vec4{0.1, 0.1, 0.15, 1.0},
		FloorSize:       50,
		FloorHeight:     -3,
		LampCutOff:      12.5,
		LampOuterCutOff: 17.5,
		Sun:             true,
		SunLongitude:    45,
		SunLatitude:     45,
		OrbitRadius:     2.5,
		OrbitSpeed:      0.8,
		RotationSpeed:   20,
	}
}
