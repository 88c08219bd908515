package matte

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/chroma-matte/internal/imaging"
)

const (
	// chromaValueMin excludes pixels too dark to classify reliably by hue
	// from the background mask, regardless of hue match.
	chromaValueMin = 40.0

	// edgeBandAlpha is the fixed midpoint opacity assigned to the dilated
	// ring around the background mask. The legacy method is ternary by
	// design; only the optional blur produces intermediate values.
	edgeBandAlpha = 128
)

// ChromaKey is the legacy hue-threshold matting strategy.
//
// A pixel joins the background mask when its circular hue distance to the
// nominal chroma color is within HueTolerance degrees, its saturation is at
// least SaturationMin (0-255 scale), and its value is at least 40. The mask
// is dilated by two steps; the added ring becomes a half-transparent edge
// band. Color channels pass through unchanged.
type ChromaKey struct {
	Chroma        colorful.Color // nominal chroma key color
	HueTolerance  float64        // degrees
	SaturationMin float64        // 0-255 scale
	BlurSigma     float64        // optional alpha smoothing, 0 disables
}

// Matte implements the Matter interface.
func (ck *ChromaKey) Matte(img image.Image) (*image.NRGBA, error) {
	// Straight-alpha reads: translucent inputs keep their color channels.
	src := imaging.CloneNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	targetHue := imaging.Hue(ck.Chroma)

	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x, y)
			rf := float64(src.Pix[i+0]) / 255.0
			gf := float64(src.Pix[i+1]) / 255.0
			bf := float64(src.Pix[i+2]) / 255.0

			maxC := math.Max(rf, math.Max(gf, bf))
			minC := math.Min(rf, math.Min(gf, bf))
			diff := maxC - minC

			hue := pixelHue(rf, gf, bf, maxC, diff)
			// Saturation and value on the 0-255 scale; saturation truncated
			// to match 8-bit storage.
			var sat float64
			if maxC > 0 {
				sat = math.Floor(diff / maxC * 255.0)
			}
			value := maxC * 255.0

			hueDiff := math.Abs(hue - targetHue)
			if hueDiff > 180 {
				hueDiff = 360 - hueDiff
			}

			if hueDiff <= ck.HueTolerance && sat >= ck.SaturationMin && value >= chromaValueMin {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	// Two dilation steps widen the mask; the ring they add is the edge band.
	dilated := effect.Dilate(effect.Dilate(mask, 1), 1)

	alpha := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case mask.GrayAt(x, y).Y == 255:
				// fully transparent background
			case dilated.RGBAAt(x, y).R > 127:
				alpha.SetGray(x, y, color.Gray{Y: edgeBandAlpha})
			default:
				alpha.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	alphaAt := func(x, y int) uint8 { return alpha.GrayAt(x, y).Y }
	if ck.BlurSigma > 0 {
		// bild's parameter is a kernel support radius, not a standard
		// deviation. 3 sigma covers the effective extent of the Gaussian;
		// rounding up keeps the kernel odd-length and centered.
		blurred := blur.Gaussian(alpha, math.Ceil(3*ck.BlurSigma))
		alphaAt = func(x, y int) uint8 { return blurred.RGBAAt(x, y).R }
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(x, y)
			oi := out.PixOffset(x, y)
			out.Pix[oi+0] = src.Pix[si+0]
			out.Pix[oi+1] = src.Pix[si+1]
			out.Pix[oi+2] = src.Pix[si+2]
			out.Pix[oi+3] = alphaAt(x, y)
		}
	}
	return out, nil
}

// pixelHue computes the HSV hue in degrees for one pixel with normalized
// channels, applying the 60-degree sector formula of whichever channel is
// maximal. Ties resolve in R > G > B priority order and a zero diff
// (achromatic pixel) yields hue 0, so sector assignment is always unique.
func pixelHue(r, g, b, maxC, diff float64) float64 {
	if diff == 0 {
		return 0
	}
	var hue float64
	switch {
	case maxC == r:
		hue = 60.0 * math.Mod((g-b)/diff, 6.0)
	case maxC == g:
		hue = 60.0 * ((b-r)/diff + 2.0)
	default:
		hue = 60.0 * ((r-g)/diff + 4.0)
	}
	hue = math.Mod(hue, 360.0)
	if hue < 0 {
		hue += 360.0
	}
	return hue
}
