package texture

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/glsandbox/internal/engine/gpu"
	"github.com/Faultbox/glsandbox/internal/logger"
)

// Loader decodes image files and uploads them through a device.
type Loader struct {
	dev gpu.Device
	log *zap.Logger

	// Sampling applies to every 2D texture the loader creates.
	Sampling gpu.Sampling
	// FlipY stores rows bottom-up.
	FlipY bool
}

// NewLoader returns a loader with material sampling and vertical flip enabled.
func NewLoader(dev gpu.Device, log *zap.Logger) *Loader {
	return &Loader{
		dev:      dev,
		log:      logger.Or(log, "texture"),
		Sampling: gpu.MaterialSampling,
		FlipY:    true,
	}
}

// Load decodes and uploads one 2D texture with the loader's sampling.
func (l *Loader) Load(path string) (gpu.Texture, error) {
	return l.LoadSampled(path, l.Sampling)
}

// LoadSampled is Load with an explicit sampling mode.
func (l *Loader) LoadSampled(path string, s gpu.Sampling) (gpu.Texture, error) {
	img, err := DecodeFile(path, l.FlipY)
	if err != nil {
		return 0, err
	}
	tex := l.dev.CreateTexture(img, s)
	l.log.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return tex, nil
}

// LoadCubemap decodes six faces (+X, -X, +Y, -Y, +Z, -Z) into a cube map.
// Cube map faces are not flipped. All faces must load.
func (l *Loader) LoadCubemap(paths [6]string) (gpu.Texture, error) {
	var faces [6]*image.RGBA
	for i, path := range paths {
		img, err := DecodeFile(path, false)
		if err != nil {
			return 0, fmt.Errorf("cube map face %d: %w", i, err)
		}
		faces[i] = img
	}
	tex := l.dev.CreateCubemap(faces, gpu.SkyboxSampling)
	l.log.Debug("cube map loaded", zap.Strings("faces", paths[:]))
	return tex, nil
}
