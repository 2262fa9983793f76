package wavefront

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Corner is one face vertex after index resolution.
type Corner struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

// Group is the geometry accumulated between two `o` statements.
// Corners are not deduplicated: every face appends three corners and three
// sequential indices.
type Group struct {
	Name string
	// Material is the resolved material name, or "" when none is bound.
	Material string
	Corners  []Corner
	Indices  []uint32
}

// Object is a parsed scene file.
type Object struct {
	Name      string
	Groups    []*Group
	Materials *MaterialLib

	// Diagnostics collects non-fatal problems in file order.
	Diagnostics []error
}

type objParser struct {
	opts Options
	log  *zap.Logger
	obj  *Object
	cur  *Group

	positions []mgl32.Vec3
	texCoords []mgl32.Vec2
	normals   []mgl32.Vec3
}

type objHandler func(p *objParser, st statement) error

var objDirectives = map[string]objHandler{
	"mtllib": (*objParser).materialLib,
	"o":      (*objParser).object,
	"v":      (*objParser).position,
	"vt":     (*objParser).texCoord,
	"vn":     (*objParser).normal,
	"usemtl": (*objParser).useMaterial,
	"f":      (*objParser).face,
}

// LoadObject parses the OBJ file at path, loading any referenced material libraries.
func LoadObject(path string, log *zap.Logger) (*Object, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseObject(f, Options{Name: path, Dir: filepath.Dir(path), Logger: log})
}

// ParseObject parses OBJ statements from r.
// Pool and face errors are fatal; unresolved materials and unreadable
// material libraries are recorded as diagnostics.
func ParseObject(r io.Reader, opts Options) (*Object, error) {
	p := &objParser{
		opts: opts,
		log:  opts.logger(),
		obj: &Object{
			Name:      opts.Name,
			Materials: NewMaterialLib(),
		},
	}
	p.cur = &Group{}

	err := scan(r, opts.Name, func(st statement) error {
		handler, ok := objDirectives[st.keyword]
		if !ok {
			return nil
		}
		return handler(p, st)
	})
	if err != nil {
		return nil, err
	}

	p.flush()
	return p.obj, nil
}

// flush moves the pending group into the object if it has geometry.
func (p *objParser) flush() {
	if len(p.cur.Indices) > 0 {
		p.obj.Groups = append(p.obj.Groups, p.cur)
	}
}

func (p *objParser) diagnose(st statement, kind error, format string, args ...any) {
	diag := lineError(p.opts.Name, st.line, kind, format, args...)
	p.obj.Diagnostics = append(p.obj.Diagnostics, diag)
	p.log.Warn("scene diagnostic",
		zap.String("file", p.opts.Name),
		zap.Int("line", st.line),
		zap.Error(diag))
}

func (p *objParser) materialLib(st statement) error {
	if len(st.args) == 0 {
		return lineError(p.opts.Name, st.line, ErrParse, "mtllib: missing file name")
	}
	path := resolvePath(p.opts.Dir, st.rest())
	lib, err := LoadMaterials(path, p.log)
	if err != nil {
		p.diagnose(st, ErrUnresolvedReference, "mtllib %s: %v", path, err)
		return nil
	}
	p.obj.Materials.Merge(lib)
	p.obj.Diagnostics = append(p.obj.Diagnostics, lib.Diagnostics...)
	return nil
}

func (p *objParser) object(st statement) error {
	p.flush()
	p.cur = &Group{Name: st.rest()}
	return nil
}

func (p *objParser) position(st statement) error {
	v, err := parseVec3(st.args)
	if err != nil {
		return lineError(p.opts.Name, st.line, ErrParse, "v: %v", err)
	}
	p.positions = append(p.positions, v)
	return nil
}

func (p *objParser) texCoord(st statement) error {
	v, err := parseVec2(st.args)
	if err != nil {
		return lineError(p.opts.Name, st.line, ErrParse, "vt: %v", err)
	}
	p.texCoords = append(p.texCoords, v)
	return nil
}

func (p *objParser) normal(st statement) error {
	v, err := parseVec3(st.args)
	if err != nil {
		return lineError(p.opts.Name, st.line, ErrParse, "vn: %v", err)
	}
	p.normals = append(p.normals, v)
	return nil
}

func (p *objParser) useMaterial(st statement) error {
	name := st.rest()
	if _, ok := p.obj.Materials.Lookup(name); !ok {
		p.diagnose(st, ErrUnresolvedReference, "material %q not defined", name)
		p.cur.Material = ""
		return nil
	}
	p.cur.Material = name
	return nil
}

func (p *objParser) face(st statement) error {
	if len(st.args) < 3 {
		return lineError(p.opts.Name, st.line, ErrParse, "f: expected 3 vertex references, got %d", len(st.args))
	}
	if len(st.args) > 3 {
		p.diagnose(st, ErrParse, "f: %d-gon truncated to its first triangle", len(st.args))
	}

	var corners [3]Corner
	for i := 0; i < 3; i++ {
		c, err := p.corner(st, st.args[i])
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for _, c := range corners {
		p.cur.Indices = append(p.cur.Indices, uint32(len(p.cur.Corners)))
		p.cur.Corners = append(p.cur.Corners, c)
	}
	return nil
}

// corner resolves one "p/t/n" reference against the pools declared so far.
func (p *objParser) corner(st statement, ref string) (Corner, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 3 {
		return Corner{}, lineError(p.opts.Name, st.line, ErrParse, "f: reference %q is not position/texcoord/normal", ref)
	}

	var idx [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Corner{}, lineError(p.opts.Name, st.line, ErrParse, "f: bad index %q in %q", part, ref)
		}
		idx[i] = n - 1
	}

	if err := p.checkIndex(st, "position", idx[0], len(p.positions)); err != nil {
		return Corner{}, err
	}
	if err := p.checkIndex(st, "texcoord", idx[1], len(p.texCoords)); err != nil {
		return Corner{}, err
	}
	if err := p.checkIndex(st, "normal", idx[2], len(p.normals)); err != nil {
		return Corner{}, err
	}

	return Corner{
		Position: p.positions[idx[0]],
		TexCoord: p.texCoords[idx[1]],
		Normal:   p.normals[idx[2]],
	}, nil
}

func (p *objParser) checkIndex(st statement, pool string, idx, size int) error {
	if idx < 0 || idx >= size {
		return lineError(p.opts.Name, st.line, ErrOutOfRange, "f: %s %d, %d declared", pool, idx+1, size)
	}
	return nil
}

// String summarizes the object for logs.
func (o *Object) String() string {
	corners := 0
	for _, g := range o.Groups {
		corners += len(g.Corners)
	}
	return fmt.Sprintf("%s: %d groups, %d vertices, %d materials", o.Name, len(o.Groups), corners, o.Materials.Len())
}
