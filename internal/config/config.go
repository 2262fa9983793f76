// Package config handles sandbox configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Config holds all sandbox settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	View     ViewConfig     `yaml:"view"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    SceneConfig    `yaml:"scene"`
	Assets   AssetsConfig   `yaml:"assets"`
	Lighting LightingConfig `yaml:"lighting"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Source is the file Load read, or "" when none was found.
	Source string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ViewConfig holds the projection settings. Angles are in degrees.
type ViewConfig struct {
	FOV  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`

	// Wheel zoom keeps FOV within [FOVMin, FOVMax].
	FOVMin float32 `yaml:"fov_min"`
	FOVMax float32 `yaml:"fov_max"`
	// ZoomSensitivity is degrees per wheel notch.
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// CameraConfig holds the free-fly camera settings.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	// StepsPerSecond is how many movement steps a held key makes per second.
	StepsPerSecond float32 `yaml:"steps_per_second"`
}

// SceneConfig holds what is drawn and how.
type SceneConfig struct {
	// Path is an OBJ file loaded at startup; empty loads nothing.
	Path    string `yaml:"path"`
	Shading string `yaml:"shading"` // phong | pbr

	ShowSkybox  bool `yaml:"show_skybox"`
	ShowLights  bool `yaml:"show_lights"`
	ShowCubes   bool `yaml:"show_cubes"`
	ShowFloor   bool `yaml:"show_floor"`
	ShowObject  bool `yaml:"show_object"`
	ShowNormals bool `yaml:"show_normals"`
	Lamp        bool `yaml:"lamp"`

	FlipTextures  bool         `yaml:"flip_textures"`
	CubePositions [][3]float32 `yaml:"cube_positions"`
	FloorSize     float32      `yaml:"floor_size"`
	FloorHeight   float32      `yaml:"floor_height"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// AssetsConfig holds built-in asset locations, relative to Dir unless absolute.
type AssetsConfig struct {
	Dir string `yaml:"dir"`
	// SkyboxFaces lists +X, -X, +Y, -Y, +Z, -Z; empty disables the skybox.
	SkyboxFaces  []string `yaml:"skybox_faces"`
	CubeTexture  string   `yaml:"cube_texture"`
	CubeSpecular string   `yaml:"cube_specular"`
	FloorTexture string   `yaml:"floor_texture"`
}

// PointLightConfig places one point light.
type PointLightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
}

// LightingConfig holds light placement and animation.
type LightingConfig struct {
	PointLights []PointLightConfig `yaml:"point_lights"`

	// Lamp cone half-angles in degrees.
	LampCutOff      float32 `yaml:"lamp_cutoff"`
	LampOuterCutOff float32 `yaml:"lamp_outer_cutoff"`

	Sun          bool    `yaml:"sun"`
	SunLongitude float32 `yaml:"sun_longitude"`
	SunLatitude  float32 `yaml:"sun_latitude"`

	// The first point light circles the origin.
	OrbitRadius float32 `yaml:"orbit_radius"`
	OrbitSpeed  float32 `yaml:"orbit_speed"` // radians per second
	// Cubes spin at RotationSpeed degrees per second.
	RotationSpeed float32 `yaml:"rotation_speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "GL Sandbox",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		View: ViewConfig{
			FOV:             45,
			Near:            0.1,
			Far:             100,
			FOVMin:          30,
			FOVMax:          90,
			ZoomSensitivity: 6,
		},
		Camera: CameraConfig{
			Position:       [3]float32{0, 0, 3},
			Speed:          0.1,
			Sensitivity:    0.05,
			StepsPerSecond: 30,
		},
		Scene: SceneConfig{
			Shading:      "phong",
			ShowSkybox:   true,
			ShowLights:   true,
			ShowCubes:    true,
			ShowFloor:    true,
			ShowObject:   true,
			ShowNormals:  false,
			Lamp:         false,
			FlipTextures: true,
			CubePositions: [][3]float32{
				{0, 0, 0},
				{2, 5, -15},
				{-1.5, -2.2, -2.5},
				{-3.8, -2, -12.3},
				{2.4, -0.4, -3.5},
				{-1.7, 3, -7.5},
				{1.3, -2, -2.5},
				{1.5, 2, -2.5},
				{1.5, 0.2, -1.5},
				{-1.3, 1, -1.5},
			},
			FloorSize:     50,
			FloorHeight:   -3,
			ScreenshotDir: "screenshots",
		},
		Assets: AssetsConfig{
			Dir: "assets",
			SkyboxFaces: []string{
				"skybox/right.jpg", "skybox/left.jpg",
				"skybox/top.jpg", "skybox/bottom.jpg",
				"skybox/front.jpg", "skybox/back.jpg",
			},
			CubeTexture:  "textures/container.png",
			CubeSpecular: "textures/container_specular.png",
			FloorTexture: "textures/floor.png",
		},
		Lighting: LightingConfig{
			PointLights: []PointLightConfig{
				{Position: [3]float32{1.2, 1.0, 2.0}, Color: [3]float32{1, 1, 1}},
				{Position: [3]float32{2.3, -3.3, -4.0}, Color: [3]float32{1, 0.6, 0.2}},
				{Position: [3]float32{-4.0, 2.0, -12.0}, Color: [3]float32{0.2, 0.4, 1}},
				{Position: [3]float32{0.0, 0.0, -3.0}, Color: [3]float32{0.3, 1, 0.3}},
			},
			LampCutOff:      12.5,
			LampOuterCutOff: 17.5,
			Sun:             true,
			SunLongitude:    45,
			SunLatitude:     45,
			OrbitRadius:     2.5,
			OrbitSpeed:      0.8,
			RotationSpeed:   20,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ErrInvalid reports a setting outside its allowed range.
var ErrInvalid = errors.New("invalid config")

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	v := c.View
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case v.Near <= 0 || v.Far <= v.Near:
		return fmt.Errorf("%w: near %g, far %g", ErrInvalid, v.Near, v.Far)
	case v.FOVMin <= 0 || v.FOVMax >= 180 || v.FOVMin > v.FOVMax:
		return fmt.Errorf("%w: fov range [%g, %g]", ErrInvalid, v.FOVMin, v.FOVMax)
	case v.FOV < v.FOVMin || v.FOV > v.FOVMax:
		return fmt.Errorf("%w: fov %g outside [%g, %g]", ErrInvalid, v.FOV, v.FOVMin, v.FOVMax)
	case c.Scene.Shading != "phong" && c.Scene.Shading != "pbr":
		return fmt.Errorf("%w: shading %q, want phong or pbr", ErrInvalid, c.Scene.Shading)
	case len(c.Assets.SkyboxFaces) != 0 && len(c.Assets.SkyboxFaces) != 6:
		return fmt.Errorf("%w: %d skybox faces, want 6", ErrInvalid, len(c.Assets.SkyboxFaces))
	}
	return nil
}

// Path resolves an asset name against Dir. Empty names stay empty.
func (a AssetsConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || a.Dir == "" {
		return name
	}
	return filepath.Join(a.Dir, name)
}
