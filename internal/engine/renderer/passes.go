package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/internal/engine/model"
)

const (
	markerScale     = 0.2
	normalMagnitude = 0.2
)

var (
	cubeAxis    = mgl32.Vec3{1, 0.3, 0.5}
	normalColor = mgl32.Vec3{1, 1, 0}
)

// Render draws one frame with the active camera.
func (r *Renderer) Render() {
	r.dev.Clear(r.config.ClearColor)

	view := r.cam.ViewMatrix()
	r.lamp.Follow(r.cam.Position(), r.cam.Front())

	r.drawLit(view)
	if r.config.Visible.Lights {
		r.drawLightMarkers(view)
	}
	if r.config.Visible.Normals {
		r.drawNormals(view)
	}
	if r.config.Visible.Skybox {
		r.drawSkybox(view)
	}
}

func ready(p gpu.Program) bool {
	return p != nil && p.Linked()
}

func (r *Renderer) litProgram() gpu.Program {
	if r.config.Shading == ShadingPBR {
		return r.pbr
	}
	return r.phong
}

// cubeModel returns the transform of the i-th cube.
func (r *Renderer) cubeModel(i int, pos mgl32.Vec3) mgl32.Mat4 {
	return model.Transform(pos, 1, r.cubeAngle+20*float32(i), cubeAxis)
}

func (r *Renderer) drawLit(view mgl32.Mat4) {
	prog := r.litProgram()
	if !ready(prog) {
		return
	}
	prog.Use()
	prog.SetMat4("view", view)
	prog.SetMat4("projection", r.projection)
	prog.SetVec3("viewPos", r.cam.Position())
	r.lights.Upload(prog, r.config.Visible.Lights)
	r.sun.Upload(prog)
	r.lamp.Upload(prog)

	if r.config.Visible.Cubes {
		for i, pos := range r.config.CubePositions {
			prog.SetMat4("model", r.cubeModel(i, pos))
			r.cube.Draw(r.dev, prog, r.builtins)
		}
	}
	if r.config.Visible.Floor {
		prog.SetMat4("model", mgl32.Ident4())
		r.floor.Draw(r.dev, prog, r.builtins)
	}
	if r.config.Visible.Object && r.object.Loaded() {
		prog.SetMat4("model", mgl32.Ident4())
		r.object.Draw(prog)
	}
}

func (r *Renderer) drawLightMarkers(view mgl32.Mat4) {
	if !ready(r.light) {
		return
	}
	r.light.Use()
	r.light.SetMat4("view", view)
	r.light.SetMat4("projection", r.projection)
	for _, l := range r.lights.Lights {
		r.light.SetMat4("model", model.Transform(l.Position, markerScale, 0, mgl32.Vec3{}))
		r.light.SetVec3("lightColor", l.Color)
		r.cube.DrawGeometry(r.dev, r.light)
	}
}

func (r *Renderer) drawNormals(view mgl32.Mat4) {
	if !ready(r.normals) {
		return
	}
	r.normals.Use()
	r.normals.SetMat4("view", view)
	r.normals.SetMat4("projection", r.projection)
	r.normals.SetFloat("magnitude", normalMagnitude)
	r.normals.SetVec3("lineColor", normalColor)

	if r.config.Visible.Cubes {
		for i, pos := range r.config.CubePositions {
			r.normals.SetMat4("model", r.cubeModel(i, pos))
			r.cube.DrawGeometry(r.dev, r.normals)
		}
	}
	if r.config.Visible.Object && r.object.Loaded() {
		r.normals.SetMat4("model", mgl32.Ident4())
		r.object.DrawGeometry(r.normals)
	}
}

// drawSkybox draws the sky last at depth 1 with the translation removed from
// the view so it never moves relative to the camera.
func (r *Renderer) drawSkybox(view mgl32.Mat4) {
	if !ready(r.skybox) || r.skyTexture == 0 {
		return
	}
	r.dev.SetDepthFunc(gpu.DepthLessEqual)
	r.dev.SetDepthWrite(false)

	r.skybox.Use()
	r.skybox.SetMat4("view", view.Mat3().Mat4())
	r.skybox.SetMat4("projection", r.projection)
	r.skybox.SetInt("skybox", 0)
	r.dev.BindTexture(0, gpu.TextureCubeMap, r.skyTexture)
	r.sky.DrawGeometry(r.dev, r.skybox)
	r.dev.UnbindTexture(0, gpu.TextureCubeMap)

	r.dev.SetDepthWrite(true)
	r.dev.SetDepthFunc(gpu.DepthLess)
}
