package imaging

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
)

// Decode loads an image from disk. Supported formats are PNG, JPEG, GIF, TIFF
// and BMP; EXIF orientation is applied during decode.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// EncodePNG writes an image to disk as PNG.
//
// PNG is the only persisted output format: it is lossless and carries the
// alpha channel the matting strategies produce.
func EncodePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// CloneNRGBA converts any image to a straight-alpha NRGBA copy with bounds at
// the origin. NRGBA inputs are copied byte for byte, so translucent pixels
// keep their unpremultiplied color channels; reading pixels through
// Color.RGBA() instead would scale colors by alpha before any matting math.
func CloneNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// ResampleToMatch resizes img to w×h using a Lanczos filter.
// If img already has the requested dimensions it is returned unchanged.
func ResampleToMatch(img image.Image, w, h int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == w && bounds.Dy() == h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
