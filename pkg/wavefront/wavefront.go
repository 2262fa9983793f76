// Package wavefront parses the Wavefront OBJ/MTL subset used for sandbox scenes.
//
// Only triangulated faces with full position/texcoord/normal references are
// supported; polygons with more than three corners are truncated to their first
// triangle and reported as a diagnostic.
package wavefront

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Parser errors. Failures are wrapped with file and line context; use errors.Is.
var (
	ErrNotFound            = errors.New("file not found")
	ErrIO                  = errors.New("i/o error")
	ErrParse               = errors.New("parse error")
	ErrOutOfRange          = errors.New("index out of range")
	ErrUnresolvedReference = errors.New("unresolved reference")
)

// maxLineSize bounds a single statement; exported scenes rarely exceed a few hundred bytes.
const maxLineSize = 1 << 20

// Options configures a parse pass.
type Options struct {
	// Name identifies the source in diagnostics, usually its path.
	Name string
	// Dir is the directory relative file references (mtllib, map_*) resolve against.
	Dir string
	// Logger receives non-fatal diagnostics. Nil discards them.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// statement is one tokenized, non-empty line.
type statement struct {
	line    int
	keyword string
	args    []string
}

// rest joins the arguments with single spaces so names and paths may contain spaces.
func (s statement) rest() string {
	return strings.Join(s.args, " ")
}

const byteOrderMark = "\ufeff"

// scan tokenizes r line by line and hands each statement to fn.
// Blank lines and comments never reach fn.
func scan(r io.Reader, name string, fn func(statement) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if line == 1 {
			text = strings.TrimPrefix(text, byteOrderMark)
		}
		tokens := strings.Fields(text)
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}
		if err := fn(statement{line: line, keyword: tokens[0], args: tokens[1:]}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIO, name, err)
	}
	return nil
}

// openFile maps os errors onto the package taxonomy.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	return f, nil
}

// lineError wraps kind with source position.
func lineError(name string, line int, kind error, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", name, line, kind, fmt.Sprintf(format, args...))
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", args[i])
		}
		out[i] = float32(v)
	}
	return out, nil
}

func parseVec3(args []string) (mgl32.Vec3, error) {
	f, err := parseFloats(args, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{f[0], f[1], f[2]}, nil
}

func parseVec2(args []string) (mgl32.Vec2, error) {
	f, err := parseFloats(args, 2)
	if err != nil {
		return mgl32.Vec2{}, err
	}
	return mgl32.Vec2{f[0], f[1]}, nil
}
