package imaging

import "image"

// Planes holds a decoded image as four float64 planes: R, G, B in [0, 255]
// and A in [0, 1].
//
// Decoding always normalizes to four channels; images without an alpha
// channel get a fully opaque alpha plane. Planes are created fresh per
// matting invocation and never shared.
type Planes struct {
	W, H       int
	R, G, B, A *Grid
}

// NewPlanes converts any image.Image to float64 planes. Pixels are read as
// straight (non-premultiplied) NRGBA, so translucent inputs keep their color
// channels intact.
func NewPlanes(img image.Image) *Planes {
	src := CloneNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	p := &Planes{
		W: w, H: h,
		R: NewGrid(w, h),
		G: NewGrid(w, h),
		B: NewGrid(w, h),
		A: NewGrid(w, h),
	}

	i := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			p.R.Pix[i] = float64(row[x*4+0])
			p.G.Pix[i] = float64(row[x*4+1])
			p.B.Pix[i] = float64(row[x*4+2])
			p.A.Pix[i] = float64(row[x*4+3]) / 255.0
			i++
		}
	}
	return p
}

// ToNRGBA quantizes the planes back to an 8-bit RGBA image.
//
// Color values are clamped to [0, 255] and alpha to [0, 1] before
// quantization, so the output always satisfies the channel-range invariant
// even if a caller skipped an intermediate clamp.
func (p *Planes) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, p.W, p.H))
	for i := 0; i < p.W*p.H; i++ {
		out.Pix[i*4+0] = quantize(p.R.Pix[i])
		out.Pix[i*4+1] = quantize(p.G.Pix[i])
		out.Pix[i*4+2] = quantize(p.B.Pix[i])
		out.Pix[i*4+3] = quantize(p.A.Pix[i] * 255.0)
	}
	return out
}

// quantize truncates a float value to an 8-bit channel, clamping to [0, 255].
// Truncation keeps values just above the alpha noise floor from rounding up
// into visible pixels.
func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
