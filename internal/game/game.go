// Package game implements the sandbox main loop.
package game

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/glsandbox/internal/config"
	"github.com/Faultbox/glsandbox/internal/engine/camera"
	"github.com/Faultbox/glsandbox/internal/engine/debug"
	"github.com/Faultbox/glsandbox/internal/engine/gpu/glgpu"
	"github.com/Faultbox/glsandbox/internal/engine/input"
	"github.com/Faultbox/glsandbox/internal/engine/lighting"
	"github.com/Faultbox/glsandbox/internal/engine/renderer"
	"github.com/Faultbox/glsandbox/internal/engine/texture"
	"github.com/Faultbox/glsandbox/internal/engine/window"
	"github.com/Faultbox/glsandbox/internal/logger"
)

// Game is the sandbox instance.
type Game struct {
	config   *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	device   *glgpu.Device
	renderer *renderer.Renderer
	input    *input.Input
	controls *Controls

	// scenes carries paths picked in the file dialog to the main thread.
	scenes chan string

	screenshots *debug.Screenshots
	capture     bool
}

// New creates the window, GL device and renderer, and loads the startup scene.
func New(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing sandbox",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	g := &Game{
		config: cfg,
		log:    log,
		input:  input.New(),
		scenes: make(chan string, 1),

		screenshots: debug.NewScreenshots(cfg.Scene.ScreenshotDir, "sandbox", nil),
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// GL device and renderer AFTER window, since the context must exist
	g.device, err = glgpu.New(nil)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	textures := texture.NewLoader(g.device, nil)
	textures.FlipY = cfg.Scene.FlipTextures

	fly := camera.NewFlyCamera(mgl32.Vec3(cfg.Camera.Position))
	fly.Speed = cfg.Camera.Speed
	fly.Sensitivity = cfg.Camera.Sensitivity

	rcfg, err := RendererConfig(cfg)
	if err != nil {
		g.Close()
		return nil, err
	}
	width, height := g.window.DrawableSize()
	rcfg.Width, rcfg.Height = width, height

	g.renderer, err = renderer.New(g.device, textures, fly, rcfg, nil)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.controls = NewControls(g.renderer, fly, camera.NewOrbitCamera(), nil)
	g.controls.StepsPerSecond = cfg.Camera.StepsPerSecond
	g.controls.OpenScene = g.openSceneDialog
	g.controls.Screenshot = func() { g.capture = true }

	if cfg.Scene.Path != "" {
		g.loadScene(cfg.Scene.Path)
	}

	log.Info("sandbox initialized")
	return g, nil
}

// RendererConfig converts the loaded settings into renderer settings.
func RendererConfig(cfg *config.Config) (renderer.Config, error) {
	shading, err := renderer.ParseShading(cfg.Scene.Shading)
	if err != nil {
		return renderer.Config{}, err
	}

	rc := renderer.DefaultConfig()
	rc.Width = cfg.Window.Width
	rc.Height = cfg.Window.Height
	rc.FOV = cfg.View.FOV
	rc.Near = cfg.View.Near
	rc.Far = cfg.View.Far
	rc.FOVMin = cfg.View.FOVMin
	rc.FOVMax = cfg.View.FOVMax
	rc.ZoomSensitivity = cfg.View.ZoomSensitivity

	rc.Shading = shading
	rc.Lamp = cfg.Scene.Lamp
	rc.Visible = renderer.Visibility{
		Skybox:  cfg.Scene.ShowSkybox,
		Lights:  cfg.Scene.ShowLights,
		Cubes:   cfg.Scene.ShowCubes,
		Floor:   cfg.Scene.ShowFloor,
		Object:  cfg.Scene.ShowObject,
		Normals: cfg.Scene.ShowNormals,
	}

	assets := cfg.Assets
	if len(assets.SkyboxFaces) == 6 {
		for i, face := range assets.SkyboxFaces {
			rc.SkyboxFaces[i] = assets.Path(face)
		}
	}
	rc.CubeTexture = assets.Path(assets.CubeTexture)
	rc.CubeSpecular = assets.Path(assets.CubeSpecular)
	rc.FloorTexture = assets.Path(assets.FloorTexture)

	rc.CubePositions = make([]mgl32.Vec3, len(cfg.Scene.CubePositions))
	for i, p := range cfg.Scene.CubePositions {
		rc.CubePositions[i] = mgl32.Vec3(p)
	}
	rc.FloorSize = cfg.Scene.FloorSize
	rc.FloorHeight = cfg.Scene.FloorHeight

	light := cfg.Lighting
	rc.Lights = make([]lighting.PointLight, len(light.PointLights))
	for i, pl := range light.PointLights {
		rc.Lights[i] = lighting.NewPointLight(mgl32.Vec3(pl.Position), mgl32.Vec3(pl.Color))
	}
	rc.LampCutOff = light.LampCutOff
	rc.LampOuterCutOff = light.LampOuterCutOff
	rc.Sun = light.Sun
	rc.SunLongitude = light.SunLongitude
	rc.SunLatitude = light.SunLatitude
	rc.OrbitRadius = light.OrbitRadius
	rc.OrbitSpeed = light.OrbitSpeed
	rc.RotationSpeed = light.RotationSpeed
	return rc, nil
}

// Run starts the main loop and returns when the window closes or Escape is pressed.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting main loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		g.input.Update()
		for _, event := range g.input.Events() {
			g.controls.HandleEvent(event, g.input)
		}
		if g.controls.Quit() {
			g.running = false
			break
		}

		// 2. Scenes picked in the dialog
		select {
		case path := <-g.scenes:
			g.loadScene(path)
		default:
		}

		// 3. Update
		g.controls.Update(dt, g.input)
		g.renderer.Update(dt)

		// 4. Render and present
		g.renderer.Render()
		if g.capture {
			g.capture = false
			if _, err := g.screenshots.Save(g.renderer.Snapshot()); err != nil {
				g.log.Error("screenshot failed", zap.Error(err))
			}
		}
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) loadScene(path string) {
	if !g.controls.Load(path) {
		return
	}
	g.window.SetTitle(fmt.Sprintf("%s - %s", g.config.Window.Title, filepath.Base(path)))
	for _, d := range g.renderer.Object().Diagnostics() {
		g.log.Warn("scene loaded with problems", zap.String("path", path), zap.Error(d))
	}
}

// openSceneDialog shows a native file dialog without blocking the loop.
// The chosen path is loaded on the main thread, which owns the GL context.
func (g *Game) openSceneDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Wavefront OBJ", "obj").
			Filter("All Files", "*").
			Title("Open Scene").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				g.log.Error("file dialog failed", zap.Error(err))
			}
			return
		}

		select {
		case g.scenes <- filename:
		default:
			g.log.Warn("scene already pending, selection dropped", zap.String("path", filename))
		}
	}()
}

// Close cleans up sandbox resources.
func (g *Game) Close() {
	g.log.Info("closing sandbox")

	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.device != nil {
		g.device.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
