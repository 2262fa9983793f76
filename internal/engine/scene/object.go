// Package scene turns parsed Wavefront scenes into drawable, GPU-resident objects.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/internal/engine/model"
	"github.com/Faultbox/glsandbox/internal/engine/texture"
	"github.com/Faultbox/glsandbox/internal/logger"
	"github.com/Faultbox/glsandbox/pkg/wavefront"
)

// TextureLoader uploads an image file as a 2D texture.
type TextureLoader interface {
	Load(path string) (gpu.Texture, error)
}

// Object is a loaded scene: its meshes and the material table they index.
// A failed Load keeps the previous content.
type Object struct {
	dev      gpu.Device
	textures TextureLoader
	log      *zap.Logger

	path        string
	meshes      []*model.Mesh
	materials   *model.MaterialTable
	bounds      model.Bounds
	diagnostics []error
}

// NewObject returns an empty object that loads through dev and textures.
func NewObject(dev gpu.Device, textures TextureLoader, log *zap.Logger) *Object {
	return &Object{
		dev:       dev,
		textures:  textures,
		log:       logger.Or(log, "scene"),
		materials: model.NewMaterialTable(),
	}
}

// Loaded reports whether the object holds any meshes.
func (o *Object) Loaded() bool { return len(o.meshes) > 0 }

// Path returns the file the current content came from.
func (o *Object) Path() string { return o.path }

// Meshes returns the meshes in file order.
func (o *Object) Meshes() []*model.Mesh { return o.meshes }

// Materials returns the material table the meshes index.
func (o *Object) Materials() *model.MaterialTable { return o.materials }

// Bounds returns the box enclosing every mesh.
func (o *Object) Bounds() model.Bounds { return o.bounds }

// Diagnostics returns the non-fatal problems of the last successful load.
func (o *Object) Diagnostics() []error { return o.diagnostics }

// Load parses path, uploads its textures and meshes and, on success, replaces
// the current content and releases the old GPU resources.
func (o *Object) Load(path string) error {
	parsed, err := wavefront.LoadObject(path, o.log)
	if err != nil {
		o.log.Error("scene load failed", zap.String("path", path), zap.Error(err))
		return err
	}

	next := &loadPass{obj: o, diagnostics: append([]error(nil), parsed.Diagnostics...)}
	materials := next.buildMaterials(parsed.Materials)
	meshes, err := next.buildMeshes(parsed.Groups, materials)
	if err != nil {
		for _, m := range meshes {
			m.Release(o.dev)
		}
		materials.Release(o.dev)
		o.log.Error("scene load failed", zap.String("path", path), zap.Error(err))
		return err
	}

	o.Release()
	o.path = path
	o.meshes = meshes
	o.materials = materials
	o.diagnostics = next.diagnostics
	o.bounds = model.Bounds{}
	for i, m := range meshes {
		if i == 0 {
			o.bounds = m.Bounds
			continue
		}
		o.bounds = o.bounds.Union(m.Bounds)
	}

	o.log.Info("scene loaded",
		zap.String("path", path),
		zap.Int("meshes", len(meshes)),
		zap.Int("materials", materials.Len()),
		zap.Int("diagnostics", len(o.diagnostics)))
	return nil
}

// loadPass accumulates one Load before it is committed.
type loadPass struct {
	obj         *Object
	diagnostics []error
}

func (p *loadPass) buildMaterials(lib *wavefront.MaterialLib) *model.MaterialTable {
	table := model.NewMaterialTable()
	for _, def := range lib.Materials() {
		m := model.NewMaterial(def)
		for kind := wavefront.TextureKind(0); kind < wavefront.NumTextureKinds; kind++ {
			if !def.HasMap(kind) {
				continue
			}
			tex, err := p.obj.textures.Load(def.Maps[kind])
			if err != nil {
				p.diagnostics = append(p.diagnostics, fmt.Errorf("material %q %s map: %w", def.Name, kind, err))
				p.obj.log.Warn("texture unavailable, slot left empty",
					zap.String("material", def.Name),
					zap.Stringer("slot", kind),
					zap.Error(err))
				continue
			}
			m.SetTexture(kind, tex)
		}
		table.Put(m)
	}
	return table
}

func (p *loadPass) buildMeshes(groups []*wavefront.Group, materials *model.MaterialTable) ([]*model.Mesh, error) {
	meshes := make([]*model.Mesh, 0, len(groups))
	for _, g := range groups {
		vertices := make([]model.Vertex, len(g.Corners))
		for i, c := range g.Corners {
			vertices[i] = model.Vertex{Position: c.Position, TexCoord: c.TexCoord, Normal: c.Normal}
		}

		id := model.NoMaterial
		if g.Material != "" {
			if found, ok := materials.Lookup(g.Material); ok {
				id = found
			}
		}
		if id != model.NoMaterial {
			if err := model.ComputeTangents(vertices); err != nil {
				p.diagnostics = append(p.diagnostics, fmt.Errorf("mesh %q: %w", g.Name, err))
				p.obj.log.Warn("tangent pass skipped", zap.String("mesh", g.Name), zap.Error(err))
			}
		}

		m, err := model.NewMesh(g.Name, vertices, g.Indices, id)
		if err != nil {
			return meshes, err
		}
		m.Upload(p.obj.dev)
		meshes = append(meshes, m)
		if !m.Uploaded() {
			return meshes, fmt.Errorf("mesh %q: %w", g.Name, errUploadFailed)
		}
	}
	return meshes, nil
}

var errUploadFailed = errors.New("buffer upload failed")

// Draw draws every mesh with its material. The caller has made prog current.
func (o *Object) Draw(prog gpu.Program) {
	for _, m := range o.meshes {
		m.Draw(o.dev, prog, o.materials)
	}
}

// DrawGeometry draws every mesh without material state.
func (o *Object) DrawGeometry(prog gpu.Program) {
	for _, m := range o.meshes {
		m.DrawGeometry(o.dev, prog)
	}
}

// Release frees all GPU resources and empties the object.
func (o *Object) Release() {
	for _, m := range o.meshes {
		m.Release(o.dev)
	}
	o.materials.Release(o.dev)
	o.meshes = nil
	o.materials = model.NewMaterialTable()
	o.bounds = model.Bounds{}
	o.diagnostics = nil
	o.path = ""
}

var _ TextureLoader = (*texture.Loader)(nil)
