// Package texture decodes image files and uploads them as material and skybox textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Texture errors.
var (
	ErrNotFound = errors.New("texture not found")
	ErrIO       = errors.New("texture read failed")
	ErrDecode   = errors.New("texture decode failed")
)

// decoder recognises a format by its leading bytes.
type decoder struct {
	name   string
	match  func(data []byte) bool
	decode func(r io.Reader) (image.Image, error)
}

func prefix(magic ...string) func([]byte) bool {
	return func(data []byte) bool {
		for _, m := range magic {
			if bytes.HasPrefix(data, []byte(m)) {
				return true
			}
		}
		return false
	}
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// TGA has no signature, so it is tried only when nothing else matched.
var decoders = []decoder{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
	{"tiff", prefix("II*\x00", "MM\x00*"), tiff.Decode},
	{"webp", isWebP, webp.Decode},
}

// Decode decodes PNG, JPEG, BMP, TIFF, WebP or TGA data and returns the format name.
func Decode(data []byte) (image.Image, string, error) {
	name, decode := "tga", tga.Decode
	for _, d := range decoders {
		if d.match(data) {
			name, decode = d.name, d.decode
			break
		}
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	return img, name, nil
}

// DecodeFile reads and decodes the image at path into RGBA. When flipY is set
// the rows are reversed so the first row is the bottom of the image, matching
// OpenGL texture coordinates.
func DecodeFile(path string, flipY bool) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}

	img, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if flipY {
		return transform.FlipV(img), nil
	}
	return ImageToRGBA(img), nil
}

// ImageToRGBA converts any image.Image to *image.RGBA with its origin at (0, 0).
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
