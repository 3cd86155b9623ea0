package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const minOCRWidth = 1200

// PreprocessImage writes a recognition-friendly copy of the image
// (grayscale, contrast boost, sharpening, upscale of small captures) next
// to a temp path and returns it. Callers keep the original as a fallback
// input when this fails. With preprocessing disabled in config the
// original path is returned untouched.
func (e *Engine) PreprocessImage(_ context.Context, imagePath string) (string, error) {
	if !e.cfg.Preprocess {
		return imagePath, nil
	}

	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("opening image for preprocessing: %w", err)
	}

	img = imaging.Grayscale(img)
	img = imaging.AdjustContrast(img, 20)
	img = imaging.Sharpen(img, 1.0)
	if img.Bounds().Dx() < minOCRWidth {
		img = imaging.Resize(img, minOCRWidth, 0, imaging.Lanczos)
	}

	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	out := filepath.Join(os.TempDir(), base+"_ocr.png")
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("saving preprocessed image: %w", err)
	}
	return out, nil
}
