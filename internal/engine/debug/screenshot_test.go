package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
}

func TestScreenshots_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "sandbox", nil)
	s.Now = fixedClock

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(3, 1, color.RGBA{R: 255, A: 255})

	path, err := s.Save(img)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sandbox_2026-03-14_15-09-26.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
	r, _, _, _ := decoded.At(3, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestScreenshots_SameSecondDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewScreenshots(dir, "shot", nil)
	s.Now = fixedClock
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	first, err := s.Save(img)
	require.NoError(t, err)
	second, err := s.Save(img)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(dir, "shot_2026-03-14_15-09-26_1.png"), second)
}

func TestScreenshots_EmptyFrame(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "shot", nil)

	_, err := s.Save(image.NewRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrEmptyFrame)
}
