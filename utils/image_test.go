package utils_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutamari/gallery/utils"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func TestDecodeNormalize(t *testing.T) {
	img, err := utils.DecodeNormalize(bytes.NewReader(pngBytes(t, 100, 50)))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestDecodeNormalize_RejectsGarbage(t *testing.T) {
	_, err := utils.DecodeNormalize(bytes.NewReader([]byte("definitely not an image")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInvalidImage))
}

func TestDecodeNormalize_RejectsTruncated(t *testing.T) {
	data := pngBytes(t, 100, 50)
	_, err := utils.DecodeNormalize(bytes.NewReader(data[:len(data)/2]))
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInvalidImage))
}

func TestSaveJPEG_ScalesDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, utils.SaveJPEG(testImage(800, 600), 700, 80, path))

	saved, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 700, saved.Bounds().Dx())
	assert.Equal(t, 525, saved.Bounds().Dy())
}

func TestSaveJPEG_ScalesDownPortrait(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, utils.SaveJPEG(testImage(1000, 1400), 700, 80, path))

	saved, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 500, saved.Bounds().Dx())
	assert.Equal(t, 700, saved.Bounds().Dy())
}

func TestSaveJPEG_NeverUpscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, utils.SaveJPEG(testImage(400, 300), 700, 80, path))

	saved, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 400, saved.Bounds().Dx())
	assert.Equal(t, 300, saved.Bounds().Dy())
}

func TestSaveJPEG_ExactFitKeepsDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, utils.SaveJPEG(testImage(700, 200), 700, 80, path))

	saved, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 700, saved.Bounds().Dx())
	assert.Equal(t, 200, saved.Bounds().Dy())
}
