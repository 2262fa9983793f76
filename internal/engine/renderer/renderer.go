// Package renderer draws the sandbox frame: lit geometry, light markers,
// normal lines and the sky.
package renderer

import (
	"errors"
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glsandbox/internal/engine/camera"
	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/internal/engine/lighting"
	"github.com/Faultbox/glsandbox/internal/engine/model"
	"github.com/Faultbox/glsandbox/internal/engine/renderer/shaders"
	"github.com/Faultbox/glsandbox/internal/engine/scene"
	"github.com/Faultbox/glsandbox/internal/logger"
	"github.com/Faultbox/glsandbox/pkg/wavefront"
)

// TextureLoader uploads 2D textures and cube maps.
type TextureLoader interface {
	scene.TextureLoader
	LoadSampled(path string, s gpu.Sampling) (gpu.Texture, error)
	LoadCubemap(paths [6]string) (gpu.Texture, error)
}

// ErrNoCamera is returned by New without a camera.
var ErrNoCamera = errors.New("renderer needs a camera")

// Renderer handles all drawing for one window.
type Renderer struct {
	config Config
	dev    gpu.Device
	cam    camera.Camera
	log    *zap.Logger

	phong   gpu.Program
	pbr     gpu.Program
	light   gpu.Program
	skybox  gpu.Program
	normals gpu.Program

	projection mgl32.Mat4

	builtins   *model.MaterialTable
	cube       *model.Mesh
	floor      *model.Mesh
	sky        *model.Mesh
	skyTexture gpu.Texture

	lights     *lighting.PointLightBuffer
	orbitY     float32
	orbitAngle float32
	cubeAngle  float32
	sun        lighting.DirLight
	lamp       lighting.SpotLight

	object *scene.Object
}

// New compiles the programs and uploads the built-in meshes.
// IMPORTANT: Must be called AFTER the GL context is created!
// A program that fails to build is logged and its pass is skipped; missing
// built-in textures leave their material slots empty.
func New(dev gpu.Device, textures TextureLoader, cam camera.Camera, cfg Config, log *zap.Logger) (*Renderer, error) {
	if cam == nil {
		return nil, ErrNoCamera
	}
	r := &Renderer{
		config: cfg,
		dev:    dev,
		cam:    cam,
		log:    logger.Or(log, "renderer"),
		lights: lighting.NewPointLightBuffer(),
		object: scene.NewObject(dev, textures, log),
	}

	r.phong = r.compile(gpu.ShaderSource{Name: "phong", Vertex: shaders.LitVertexShader, Fragment: shaders.PhongFragmentShader})
	r.pbr = r.compile(gpu.ShaderSource{Name: "pbr", Vertex: shaders.LitVertexShader, Fragment: shaders.PBRFragmentShader})
	r.light = r.compile(gpu.ShaderSource{Name: "light", Vertex: shaders.LightVertexShader, Fragment: shaders.LightFragmentShader})
	r.skybox = r.compile(gpu.ShaderSource{Name: "skybox", Vertex: shaders.SkyboxVertexShader, Fragment: shaders.SkyboxFragmentShader})
	r.normals = r.compile(gpu.ShaderSource{
		Name:     "normals",
		Vertex:   shaders.NormalsVertexShader,
		Geometry: shaders.NormalsGeometryShader,
		Fragment: shaders.NormalsFragmentShader,
	})

	r.setupBuiltins(textures)
	r.setupLights()

	r.Resize(cfg.Width, cfg.Height)
	r.log.Info("renderer ready",
		zap.Stringer("shading", cfg.Shading),
		zap.Int("lights", r.lights.Count),
		zap.Bool("skybox", r.skyTexture != 0))
	return r, nil
}

func (r *Renderer) compile(src gpu.ShaderSource) gpu.Program {
	prog, err := r.dev.CompileProgram(src)
	if err != nil {
		r.log.Error("shader program unavailable, pass disabled", zap.String("program", src.Name), zap.Error(err))
		return nil
	}
	if !prog.Linked() {
		r.log.Error("shader program not linked, pass disabled", zap.String("program", src.Name))
	}
	return prog
}

func (r *Renderer) setupBuiltins(textures TextureLoader) {
	r.builtins = model.NewMaterialTable()

	crate := model.NewMaterial(wavefront.NewMaterialDef("crate"))
	r.attach(textures, crate, wavefront.TextureAlbedo, r.config.CubeTexture, gpu.MaterialSampling)
	r.attach(textures, crate, wavefront.TextureSpecular, r.config.CubeSpecular, gpu.MaterialSampling)
	crateID := r.builtins.Put(crate)

	ground := model.NewMaterial(wavefront.NewMaterialDef("floor"))
	r.attach(textures, ground, wavefront.TextureAlbedo, r.config.FloorTexture, gpu.TiledSampling)
	groundID := r.builtins.Put(ground)

	r.cube = model.NewCube(1, crateID)
	r.floor = model.NewFloor(r.config.FloorSize, r.config.FloorHeight, r.config.FloorSize/2, groundID)
	r.sky = model.NewSkybox()
	for _, m := range []*model.Mesh{r.cube, r.floor, r.sky} {
		m.Upload(r.dev)
	}

	if r.config.SkyboxFaces == [6]string{} {
		return
	}
	tex, err := textures.LoadCubemap(r.config.SkyboxFaces)
	if err != nil {
		r.log.Warn("skybox unavailable", zap.Error(err))
		return
	}
	r.skyTexture = tex
}

func (r *Renderer) attach(textures TextureLoader, m *model.Material, kind wavefront.TextureKind, path string, s gpu.Sampling) {
	if path == "" {
		return
	}
	tex, err := textures.LoadSampled(path, s)
	if err != nil {
		r.log.Warn("built-in texture unavailable, slot left empty",
			zap.String("material", m.Name),
			zap.Stringer("slot", kind),
			zap.Error(err))
		return
	}
	m.SetTexture(kind, tex)
}

func (r *Renderer) setupLights() {
	r.lights.SetLights(r.config.Lights)
	if len(r.config.Lights) > lighting.MaxPointLights {
		r.log.Warn("too many point lights, extra ignored",
			zap.Int("configured", len(r.config.Lights)),
			zap.Int("max", lighting.MaxPointLights))
	}
	if r.lights.Count > 0 {
		first := r.lights.Lights[0].Position
		r.orbitY = first.Y()
		r.orbitAngle = float32(math.Atan2(float64(first.Z()), float64(first.X())))
	}

	r.sun = lighting.NewSun(r.config.SunLongitude, r.config.SunLatitude)
	r.sun.Enabled = r.config.Sun
	r.lamp = lighting.NewLamp(r.config.LampCutOff, r.config.LampOuterCutOff)
	r.lamp.Enabled = r.config.Lamp
}

// Close releases every GPU resource the renderer owns.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.object.Release()
	for _, m := range []*model.Mesh{r.cube, r.floor, r.sky} {
		m.Release(r.dev)
	}
	r.builtins.Release(r.dev)
	r.dev.DeleteTexture(r.skyTexture)
	r.skyTexture = 0
	for _, p := range []gpu.Program{r.phong, r.pbr, r.light, r.skybox, r.normals} {
		if p != nil {
			p.Release()
		}
	}
}

// Resize handles window resize. A zero height is treated as one pixel.
func (r *Renderer) Resize(width, height int) {
	if height <= 0 {
		height = 1
	}
	if width <= 0 {
		width = 1
	}
	r.config.Width = width
	r.config.Height = height
	r.dev.Viewport(width, height)
	r.updateProjection()
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

func (r *Renderer) updateProjection() {
	aspect := float32(r.config.Width) / float32(r.config.Height)
	r.projection = mgl32.Perspective(mgl32.DegToRad(r.config.FOV), aspect, r.config.Near, r.config.Far)
}

// Projection returns the current projection matrix.
func (r *Renderer) Projection() mgl32.Mat4 { return r.projection }

// FOV returns the vertical field of view in degrees.
func (r *Renderer) FOV() float32 { return r.config.FOV }

// SetFOV sets the vertical field of view in degrees, clamped to the zoom range.
func (r *Renderer) SetFOV(deg float32) {
	r.config.FOV = mgl32.Clamp(deg, r.config.FOVMin, r.config.FOVMax)
	r.updateProjection()
}

// Zoom narrows the field of view by notches wheel steps; negative widens it.
func (r *Renderer) Zoom(notches float32) {
	r.SetFOV(r.config.FOV - notches*r.config.ZoomSensitivity)
}

// SetNearPlane moves the near clip plane. Values not in (0, far) are ignored.
func (r *Renderer) SetNearPlane(near float32) {
	if near <= 0 || near >= r.config.Far {
		r.log.Warn("near plane rejected", zap.Float32("near", near), zap.Float32("far", r.config.Far))
		return
	}
	r.config.Near = near
	r.updateProjection()
}

// SetFarPlane moves the far clip plane. Values not beyond near are ignored.
func (r *Renderer) SetFarPlane(far float32) {
	if far <= r.config.Near {
		r.log.Warn("far plane rejected", zap.Float32("near", r.config.Near), zap.Float32("far", far))
		return
	}
	r.config.Far = far
	r.updateProjection()
}

// Camera returns the active camera.
func (r *Renderer) Camera() camera.Camera { return r.cam }

// SetCamera switches the active camera. Nil is ignored.
func (r *Renderer) SetCamera(cam camera.Camera) {
	if cam != nil {
		r.cam = cam
	}
}

// Shading returns the active shading model.
func (r *Renderer) Shading() Shading { return r.config.Shading }

// SetShading switches the lit pass between Phong and PBR.
func (r *Renderer) SetShading(s Shading) {
	r.config.Shading = s
	r.log.Info("shading changed", zap.Stringer("shading", s))
}

// Visibility returns the current visibility switches.
func (r *Renderer) Visibility() Visibility { return r.config.Visible }

// SetVisibility replaces the visibility switches.
func (r *Renderer) SetVisibility(v Visibility) { r.config.Visible = v }

// ToggleLamp switches the camera lamp and returns its new state.
func (r *Renderer) ToggleLamp() bool {
	on := r.lamp.Toggle()
	r.log.Debug("lamp toggled", zap.Bool("on", on))
	return on
}

// Lamp returns the camera lamp.
func (r *Renderer) Lamp() lighting.SpotLight { return r.lamp }

// Lights returns the active point lights.
func (r *Renderer) Lights() []lighting.PointLight { return r.lights.Lights }

// Object returns the loaded scene object.
func (r *Renderer) Object() *scene.Object { return r.object }

// LoadObject replaces the scene object. On failure the previous one stays.
func (r *Renderer) LoadObject(path string) error {
	return r.object.Load(path)
}

// Snapshot reads back the current frame with the top row first.
func (r *Renderer) Snapshot() *image.RGBA {
	return transform.FlipV(r.dev.ReadPixels(r.config.Width, r.config.Height))
}

// Update advances the animations by dt seconds: the first light orbits the
// Y axis and the cubes spin.
func (r *Renderer) Update(dt float32) {
	if r.lights.Count > 0 && r.config.OrbitSpeed != 0 {
		r.orbitAngle = float32(math.Mod(float64(r.orbitAngle+r.config.OrbitSpeed*dt), 2*math.Pi))
		s, c := math.Sincos(float64(r.orbitAngle))
		radius := r.config.OrbitRadius
		r.lights.Lights[0].Position = mgl32.Vec3{radius * float32(c), r.orbitY, radius * float32(s)}
	}
	r.cubeAngle = float32(math.Mod(float64(r.cubeAngle+r.config.RotationSpeed*dt), 360))
}
