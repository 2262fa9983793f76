package wavefront

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// TextureKind names one of the optional texture roles a material may populate.
type TextureKind int

// Texture roles, in draw-binding order of the original MTL directives.
const (
	TextureAlbedo TextureKind = iota
	TextureNormal
	TextureSpecular
	TextureMetallic
	TextureRoughness
	TextureAmbientOcclusion

	NumTextureKinds
)

var textureKindNames = [NumTextureKinds]string{
	TextureAlbedo:           "albedo",
	TextureNormal:           "normal",
	TextureSpecular:         "specular",
	TextureMetallic:         "metallic",
	TextureRoughness:        "roughness",
	TextureAmbientOcclusion: "ao",
}

func (k TextureKind) String() string {
	if k < 0 || k >= NumTextureKinds {
		return "TextureKind(" + strconv.Itoa(int(k)) + ")"
	}
	return textureKindNames[k]
}

// MaterialDef is a parsed material: shading coefficients plus resolved texture paths.
type MaterialDef struct {
	Name string

	SpecularExponent float32 // Ns
	OpticalDensity   float32 // Ni
	Transparency     float32 // d
	Illum            int     // illum

	Metallic         float32 // Pm
	Roughness        float32 // Pr
	AmbientOcclusion float32

	Ambient  mgl32.Vec3 // Ka
	Diffuse  mgl32.Vec3 // Kd
	Specular mgl32.Vec3 // Ks
	Emissive mgl32.Vec3 // Ke

	// Maps holds an absolute or dir-relative path per texture role; "" means absent.
	Maps [NumTextureKinds]string
}

// NewMaterialDef returns a material with the defaults applied before any directive.
func NewMaterialDef(name string) *MaterialDef {
	return &MaterialDef{
		Name:             name,
		SpecularExponent: 32,
		OpticalDensity:   1,
		Transparency:     1,
		Illum:            2,
		AmbientOcclusion: 1,
		Ambient:          mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:          mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:         mgl32.Vec3{0.5, 0.5, 0.5},
	}
}

// HasMap reports whether the texture role has a file assigned.
func (m *MaterialDef) HasMap(kind TextureKind) bool {
	return m.Maps[kind] != ""
}

// MaterialLib is a name-keyed material table. Redefining a name replaces the
// previous definition in place, so each name appears once.
type MaterialLib struct {
	materials []*MaterialDef
	index     map[string]int

	// Diagnostics collects non-fatal problems (skipped lines) in file order.
	Diagnostics []error
}

// NewMaterialLib returns an empty library.
func NewMaterialLib() *MaterialLib {
	return &MaterialLib{index: make(map[string]int)}
}

// Len returns the number of distinct material names.
func (l *MaterialLib) Len() int {
	return len(l.materials)
}

// Materials returns the definitions in first-definition order.
func (l *MaterialLib) Materials() []*MaterialDef {
	return l.materials
}

// Lookup returns the material with the given name.
func (l *MaterialLib) Lookup(name string) (*MaterialDef, bool) {
	i, ok := l.index[name]
	if !ok {
		return nil, false
	}
	return l.materials[i], true
}

// Put stores def, overwriting any material with the same name.
func (l *MaterialLib) Put(def *MaterialDef) {
	if i, ok := l.index[def.Name]; ok {
		l.materials[i] = def
		return
	}
	l.index[def.Name] = len(l.materials)
	l.materials = append(l.materials, def)
}

// Merge copies every material of other into l with overwrite semantics.
func (l *MaterialLib) Merge(other *MaterialLib) {
	for _, def := range other.materials {
		l.Put(def)
	}
	l.Diagnostics = append(l.Diagnostics, other.Diagnostics...)
}

type mtlParser struct {
	opts Options
	log  *zap.Logger
	lib  *MaterialLib
	cur  *MaterialDef
}

type mtlHandler func(p *mtlParser, st statement) error

var mtlDirectives = map[string]mtlHandler{
	"newmtl": (*mtlParser).newMaterial,

	"Ns":    scalar(func(m *MaterialDef, v float32) { m.SpecularExponent = v }),
	"Ni":    scalar(func(m *MaterialDef, v float32) { m.OpticalDensity = v }),
	"d":     scalar(func(m *MaterialDef, v float32) { m.Transparency = v }),
	"illum": scalar(func(m *MaterialDef, v float32) { m.Illum = int(v) }),
	"Pm":    scalar(func(m *MaterialDef, v float32) { m.Metallic = v }),
	"Pr":    scalar(func(m *MaterialDef, v float32) { m.Roughness = v }),

	"Ka": vector(func(m *MaterialDef, v mgl32.Vec3) { m.Ambient = v }),
	"Kd": vector(func(m *MaterialDef, v mgl32.Vec3) { m.Diffuse = v }),
	"Ks": vector(func(m *MaterialDef, v mgl32.Vec3) { m.Specular = v }),
	"Ke": vector(func(m *MaterialDef, v mgl32.Vec3) { m.Emissive = v }),

	"map_Kd":   textureMap(TextureAlbedo),
	"map_Bump": textureMap(TextureNormal),
	"map_Ks":   textureMap(TextureSpecular),
	"map_Pm":   textureMap(TextureMetallic),
	"map_Pr":   textureMap(TextureRoughness),
	"map_Ka":   textureMap(TextureAmbientOcclusion),
}

// LoadMaterials parses the MTL file at path. Texture paths resolve against its directory.
func LoadMaterials(path string, log *zap.Logger) (*MaterialLib, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseMaterials(f, Options{Name: path, Dir: filepath.Dir(path), Logger: log})
}

// ParseMaterials parses MTL statements from r.
// Malformed values skip their line with a diagnostic; only read failures are fatal.
func ParseMaterials(r io.Reader, opts Options) (*MaterialLib, error) {
	p := &mtlParser{
		opts: opts,
		log:  opts.logger(),
		lib:  NewMaterialLib(),
	}

	err := scan(r, opts.Name, func(st statement) error {
		handler, ok := mtlDirectives[st.keyword]
		if !ok {
			return nil
		}
		if p.cur == nil && st.keyword != "newmtl" {
			p.log.Debug("directive before newmtl ignored",
				zap.String("file", opts.Name),
				zap.Int("line", st.line),
				zap.String("directive", st.keyword))
			return nil
		}
		if err := handler(p, st); err != nil {
			p.skip(st, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.lib, nil
}

// skip records a non-fatal line failure.
func (p *mtlParser) skip(st statement, err error) {
	diag := lineError(p.opts.Name, st.line, ErrParse, "%s: %v", st.keyword, err)
	p.lib.Diagnostics = append(p.lib.Diagnostics, diag)
	p.log.Warn("material line skipped",
		zap.String("file", p.opts.Name),
		zap.Int("line", st.line),
		zap.Error(diag))
}

func (p *mtlParser) newMaterial(st statement) error {
	if len(st.args) == 0 {
		return fmt.Errorf("missing material name")
	}
	p.cur = NewMaterialDef(st.rest())
	p.lib.Put(p.cur)
	return nil
}

func scalar(set func(*MaterialDef, float32)) mtlHandler {
	return func(p *mtlParser, st statement) error {
		f, err := parseFloats(st.args, 1)
		if err != nil {
			return err
		}
		set(p.cur, f[0])
		return nil
	}
}

func vector(set func(*MaterialDef, mgl32.Vec3)) mtlHandler {
	return func(p *mtlParser, st statement) error {
		v, err := parseVec3(st.args)
		if err != nil {
			return err
		}
		set(p.cur, v)
		return nil
	}
}

func textureMap(kind TextureKind) mtlHandler {
	return func(p *mtlParser, st statement) error {
		if len(st.args) == 0 {
			return fmt.Errorf("missing %s texture file", kind)
		}
		p.cur.Maps[kind] = resolvePath(p.opts.Dir, st.rest())
		return nil
	}
}

// resolvePath joins a file reference onto dir unless it is already absolute.
func resolvePath(dir, ref string) string {
	ref = filepath.FromSlash(ref)
	if filepath.IsAbs(ref) || dir == "" {
		return ref
	}
	return filepath.Join(dir, ref)
}
