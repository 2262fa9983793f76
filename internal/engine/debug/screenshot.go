// Package debug provides frame capture for inspecting the sandbox output.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glsandbox/internal/logger"
)

// ErrEmptyFrame is returned for a zero-sized image.
var ErrEmptyFrame = fmt.Errorf("empty frame")

// Screenshots writes captured frames as timestamped PNG files.
type Screenshots struct {
	outputDir string
	prefix    string
	log       *zap.Logger

	// Now stamps file names.
	Now func() time.Time
}

// NewScreenshots saves into outputDir, which is created on first use.
func NewScreenshots(outputDir, prefix string, log *zap.Logger) *Screenshots {
	return &Screenshots{
		outputDir: outputDir,
		prefix:    prefix,
		log:       logger.Or(log, "screenshot"),
		Now:       time.Now,
	}
}

// Filename returns the path the next capture would use, without a collision suffix.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.Now().Format("2006-01-02_15-04-05"))
	return filepath.Join(s.outputDir, name)
}

// Save encodes img as PNG and returns the written path. Captures within the
// same second get a numeric suffix instead of overwriting each other.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if img.Bounds().Empty() {
		return "", ErrEmptyFrame
	}
	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	base := s.Filename()
	path := base
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = fmt.Sprintf("%s_%d.png", base[:len(base)-len(".png")], i)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	b := img.Bounds()
	s.log.Info("screenshot saved", zap.String("path", path), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return path, nil
}
