package model

import (
	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/pkg/wavefront"
)

// Material is a parsed material with its textures uploaded.
type Material struct {
	wavefront.MaterialDef

	// Textures holds one handle per wavefront.TextureKind; zero means absent.
	Textures [wavefront.NumTextureKinds]gpu.Texture
}

// NewMaterial wraps def without any textures.
func NewMaterial(def *wavefront.MaterialDef) *Material {
	return &Material{MaterialDef: *def}
}

// DefaultMaterial is drawn for meshes without a bound material.
func DefaultMaterial() *Material {
	return NewMaterial(wavefront.NewMaterialDef("default"))
}

// HasTexture reports whether the slot holds a texture.
func (m *Material) HasTexture(kind wavefront.TextureKind) bool {
	return m.Textures[kind] != 0
}

// SetTexture fills an empty slot. It returns false and changes nothing when the
// slot is already populated.
func (m *Material) SetTexture(kind wavefront.TextureKind, tex gpu.Texture) bool {
	if m.Textures[kind] != 0 {
		return false
	}
	m.Textures[kind] = tex
	return true
}

func (m *Material) release(dev gpu.Device) {
	for i, tex := range m.Textures {
		dev.DeleteTexture(tex)
		m.Textures[i] = 0
	}
}

// MaterialID indexes a MaterialTable.
type MaterialID int

// NoMaterial marks a mesh drawn with DefaultMaterial.
const NoMaterial MaterialID = -1

// MaterialTable owns the materials of one scene. Meshes refer to entries by ID.
type MaterialTable struct {
	materials []*Material
	byName    map[string]MaterialID
	replaced  []*Material
}

// NewMaterialTable returns an empty table.
func NewMaterialTable() *MaterialTable {
	return &MaterialTable{byName: make(map[string]MaterialID)}
}

// Put stores m under its name. A material with the same name is replaced in
// place and keeps its ID; its textures are freed on Release.
func (t *MaterialTable) Put(m *Material) MaterialID {
	if id, ok := t.byName[m.Name]; ok {
		t.replaced = append(t.replaced, t.materials[id])
		t.materials[id] = m
		return id
	}
	id := MaterialID(len(t.materials))
	t.materials = append(t.materials, m)
	t.byName[m.Name] = id
	return id
}

// Lookup returns the ID for name.
func (t *MaterialTable) Lookup(name string) (MaterialID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Get returns the material for id, or nil for NoMaterial and unknown IDs.
func (t *MaterialTable) Get(id MaterialID) *Material {
	if t == nil || id < 0 || int(id) >= len(t.materials) {
		return nil
	}
	return t.materials[id]
}

// Len returns the number of materials.
func (t *MaterialTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.materials)
}

// Release deletes every texture the table owns.
func (t *MaterialTable) Release(dev gpu.Device) {
	if t == nil {
		return
	}
	for _, m := range t.materials {
		m.release(dev)
	}
	for _, m := range t.replaced {
		m.release(dev)
	}
	t.replaced = nil
}
