package ocr_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargoscan/internal/config"
	"cargoscan/internal/ocr"
)

func writeTestImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(t.TempDir(), "capture.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestPreprocessImage_DisabledReturnsOriginal(t *testing.T) {
	e := ocr.NewEngine(config.OCRConfig{Preprocess: false})

	out, err := e.PreprocessImage(context.Background(), "/data/images/capture.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/data/images/capture.jpg", out)
}

func TestPreprocessImage_WritesEnhancedCopy(t *testing.T) {
	e := ocr.NewEngine(config.OCRConfig{Preprocess: true})
	src := writeTestImage(t, 100, 50)

	out, err := e.PreprocessImage(context.Background(), src)
	require.NoError(t, err)
	require.NotEqual(t, src, out)
	t.Cleanup(func() { os.Remove(out) })

	// Small captures are upscaled to the recognition width.
	enhanced, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 1200, enhanced.Bounds().Dx())
}

func TestPreprocessImage_MissingFile(t *testing.T) {
	e := ocr.NewEngine(config.OCRConfig{Preprocess: true})

	_, err := e.PreprocessImage(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
