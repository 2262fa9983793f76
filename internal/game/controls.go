package game

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/glsandbox/internal/engine/camera"
	"github.com/Faultbox/glsandbox/internal/engine/input"
	"github.com/Faultbox/glsandbox/internal/engine/renderer"
	"github.com/Faultbox/glsandbox/internal/engine/scene"
	"github.com/Faultbox/glsandbox/internal/logger"
)

// View is the part of the renderer the controls drive.
type View interface {
	Camera() camera.Camera
	SetCamera(cam camera.Camera)
	Zoom(notches float32)
	Resize(width, height int)
	ToggleLamp() bool
	Shading() renderer.Shading
	SetShading(s renderer.Shading)
	Visibility() renderer.Visibility
	SetVisibility(v renderer.Visibility)
	Object() *scene.Object
	LoadObject(path string) error
}

// KeyState reports held keys and buttons.
type KeyState interface {
	IsKeyDown(scancode sdl.Scancode) bool
	IsButtonDown(button uint8) bool
}

// Key bindings.
const (
	KeyQuit          = sdl.SCANCODE_ESCAPE
	KeyForward       = sdl.SCANCODE_W
	KeyBack          = sdl.SCANCODE_S
	KeyLeft          = sdl.SCANCODE_A
	KeyRight         = sdl.SCANCODE_D
	KeyLamp          = sdl.SCANCODE_F
	KeyOpen          = sdl.SCANCODE_O
	KeyReload        = sdl.SCANCODE_R
	KeyShading       = sdl.SCANCODE_P
	KeyCamera        = sdl.SCANCODE_C
	KeyScreenshot    = sdl.SCANCODE_F12
	KeyToggleSkybox  = sdl.SCANCODE_1
	KeyToggleLights  = sdl.SCANCODE_2
	KeyToggleCubes   = sdl.SCANCODE_3
	KeyToggleFloor   = sdl.SCANCODE_4
	KeyToggleObject  = sdl.SCANCODE_5
	KeyToggleNormals = sdl.SCANCODE_6
)

// DragButton rotates the camera while held.
const DragButton = sdl.BUTTON_MIDDLE

var visibilityKeys = map[sdl.Scancode]func(v *renderer.Visibility) *bool{
	KeyToggleSkybox:  func(v *renderer.Visibility) *bool { return &v.Skybox },
	KeyToggleLights:  func(v *renderer.Visibility) *bool { return &v.Lights },
	KeyToggleCubes:   func(v *renderer.Visibility) *bool { return &v.Cubes },
	KeyToggleFloor:   func(v *renderer.Visibility) *bool { return &v.Floor },
	KeyToggleObject:  func(v *renderer.Visibility) *bool { return &v.Object },
	KeyToggleNormals: func(v *renderer.Visibility) *bool { return &v.Normals },
}

// Controls maps input to camera motion and view switches.
type Controls struct {
	view  View
	fly   *camera.FlyCamera
	orbit *camera.OrbitCamera
	log   *zap.Logger

	// StepsPerSecond is how many camera steps a held movement key makes per second.
	StepsPerSecond float32
	// OpenScene is called for KeyOpen; it should deliver a path asynchronously.
	OpenScene func()
	// Screenshot is called for KeyScreenshot.
	Screenshot func()

	quit bool
}

// NewControls drives view with the fly camera active.
func NewControls(view View, fly *camera.FlyCamera, orbit *camera.OrbitCamera, log *zap.Logger) *Controls {
	view.SetCamera(fly)
	return &Controls{
		view:           view,
		fly:            fly,
		orbit:          orbit,
		log:            logger.Or(log, "controls"),
		StepsPerSecond: 30,
	}
}

// Quit reports whether the quit key was pressed.
func (c *Controls) Quit() bool { return c.quit }

// Inspecting reports whether the orbit camera is active.
func (c *Controls) Inspecting() bool { return c.view.Camera() == camera.Camera(c.orbit) }

// HandleEvent reacts to one discrete event.
func (c *Controls) HandleEvent(e input.Event, keys KeyState) {
	switch e.Type {
	case input.EventQuit:
		c.quit = true
	case input.EventWindowResize:
		c.view.Resize(e.Width, e.Height)
	case input.EventMouseWheel:
		if c.Inspecting() {
			c.orbit.HandleZoom(e.WheelY)
			return
		}
		c.view.Zoom(e.WheelY)
	case input.EventMouseMove:
		if keys.IsButtonDown(DragButton) {
			c.view.Camera().HandleDrag(float32(e.RelX), float32(-e.RelY))
		}
	case input.EventKeyDown:
		if !e.Repeat {
			c.handleKey(e.Key)
		}
	}
}

func (c *Controls) handleKey(key sdl.Scancode) {
	if field, ok := visibilityKeys[key]; ok {
		v := c.view.Visibility()
		p := field(&v)
		*p = !*p
		c.view.SetVisibility(v)
		return
	}

	switch key {
	case KeyQuit:
		c.quit = true
	case KeyLamp:
		c.view.ToggleLamp()
	case KeyShading:
		if c.view.Shading() == renderer.ShadingPhong {
			c.view.SetShading(renderer.ShadingPBR)
		} else {
			c.view.SetShading(renderer.ShadingPhong)
		}
	case KeyCamera:
		c.switchCamera()
	case KeyOpen:
		if c.OpenScene != nil {
			c.OpenScene()
		}
	case KeyScreenshot:
		if c.Screenshot != nil {
			c.Screenshot()
		}
	case KeyReload:
		if path := c.view.Object().Path(); path != "" {
			c.Load(path)
		}
	}
}

func (c *Controls) switchCamera() {
	if c.Inspecting() {
		c.view.SetCamera(c.fly)
		c.log.Debug("fly camera")
		return
	}
	if obj := c.view.Object(); obj.Loaded() {
		b := obj.Bounds()
		c.orbit.FitToBounds(b.Min, b.Max)
	}
	c.view.SetCamera(c.orbit)
	c.log.Debug("inspect camera")
}

// Load replaces the scene object and logs failures. The old scene stays on error.
func (c *Controls) Load(path string) bool {
	if err := c.view.LoadObject(path); err != nil {
		c.log.Error("scene not loaded", zap.String("path", path), zap.Error(err))
		return false
	}
	if c.Inspecting() {
		b := c.view.Object().Bounds()
		c.orbit.FitToBounds(b.Min, b.Max)
	}
	return true
}

// Update applies held movement keys for dt seconds.
func (c *Controls) Update(dt float32, keys KeyState) {
	steps := c.StepsPerSecond * dt
	var forward, right float32
	if keys.IsKeyDown(KeyForward) {
		forward += steps
	}
	if keys.IsKeyDown(KeyBack) {
		forward -= steps
	}
	if keys.IsKeyDown(KeyRight) {
		right += steps
	}
	if keys.IsKeyDown(KeyLeft) {
		right -= steps
	}
	if forward != 0 || right != 0 {
		c.view.Camera().HandleMovement(forward, right)
	}
}
