package utils

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	// webp uploads are allowed; register the decoder
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage marks uploads that could not be decoded as an image.
var ErrInvalidImage = errors.New("invalid image data")

// DecodeNormalize reads an uploaded image, applies the EXIF orientation and
// returns it in NRGBA. Decoding is all-or-nothing: corrupt or unsupported data
// yields an error wrapping ErrInvalidImage and no partial image.
func DecodeNormalize(r io.Reader) (*image.NRGBA, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return imaging.Clone(src), nil
}

// SaveJPEG scales img down so its longest side is at most maxSide (never
// scaling up) and writes it as JPEG at the given quality. A partially written
// file is removed when encoding fails.
func SaveJPEG(img *image.NRGBA, maxSide, quality int, path string) error {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	nw, nh := fitDimensions(w, h, maxSide)

	out := img
	if nw != w || nh != h {
		out = imaging.Resize(img, nw, nh, imaging.Lanczos)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := imaging.Encode(f, out, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// fitDimensions keeps aspect ratio, truncating fractional pixels. Images
// already within maxSide keep their exact dimensions.
func fitDimensions(w, h, maxSide int) (int, int) {
	longest := max(w, h)
	if maxSide <= 0 || longest <= maxSide {
		return w, h
	}
	scale := float64(maxSide) / float64(longest)
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
