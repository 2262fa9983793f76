// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms scene geometry for the Phong and PBR passes.
//
//go:embed lit.vert
var LitVertexShader string

// PhongFragmentShader shades with Blinn-Phong and material maps.
//
//go:embed phong.frag
var PhongFragmentShader string

// PBRFragmentShader shades with a Cook-Torrance metallic/roughness model.
//
//go:embed pbr.frag
var PBRFragmentShader string

// LightVertexShader draws light markers.
//
//go:embed light.vert
var LightVertexShader string

// LightFragmentShader fills light markers with their color.
//
//go:embed light.frag
var LightFragmentShader string

// SkyboxVertexShader pins the sky cube at the far plane.
//
//go:embed skybox.vert
var SkyboxVertexShader string

// SkyboxFragmentShader samples the sky cube map.
//
//go:embed skybox.frag
var SkyboxFragmentShader string

// NormalsVertexShader passes view-space normals to the geometry stage.
//
//go:embed normals.vert
var NormalsVertexShader string

// NormalsGeometryShader emits one line per vertex along its normal.
//
//go:embed normals.geom
var NormalsGeometryShader string

// NormalsFragmentShader colors normal lines.
//
//go:embed normals.frag
var NormalsFragmentShader string
