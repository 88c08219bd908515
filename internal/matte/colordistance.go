package matte

import (
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/chroma-matte/internal/imaging"
)

const (
	// recoveryGuard is the alpha below which the Smith-Blinn denominator is
	// substituted with 1 so the division stays finite.
	recoveryGuard = 0.02

	// visibleAlpha gates whether recovered color is written at all; at or
	// below it a pixel becomes transparent black.
	visibleAlpha = 0.01

	// excessCutoff forces full transparency when a pixel's key-channel
	// excess exceeds this fraction of the background's own excess.
	excessCutoff = 0.7
)

// ColorDistance is the key-channel-excess matting strategy with automatic
// background detection and Smith-Blinn foreground recovery.
//
// The channel that dominates the nominal chroma color is the key channel.
// Per pixel, the amount by which the key channel exceeds the other two is
// normalized against the detected background's own excess to produce a
// continuous alpha, which correctly handles semi-transparent gradient edges
// (glows, hair, auras) blending into the screen color.
type ColorDistance struct {
	Chroma          colorful.Color // nominal chroma key color
	NearThreshold   float64        // RGB distance to background below this forces alpha 0
	FarThreshold    float64        // RGB distance to background above this forces alpha 1
	DespillStrength float64        // 0-1, key-channel bleed removal on semi-transparent pixels
	BlurSigma       float64        // optional alpha smoothing, 0 disables
}

// Matte implements the Matter interface.
func (cd *ColorDistance) Matte(img image.Image) (*image.NRGBA, error) {
	p := imaging.NewPlanes(img)
	bg := estimateBackground(p)

	// The dominant channel of the nominal chroma color is the key channel.
	cr, cg, cb := imaging.RGB(cd.Chroma)
	keyIdx := maxChannel(cr, cg, cb)
	nonKey0, nonKey1 := otherChannels(keyIdx)

	channels := [3]*imaging.Grid{p.R, p.G, p.B}
	key := channels[keyIdx]
	nk0 := channels[nonKey0]
	nk1 := channels[nonKey1]

	// Normalize against the detected background's excess, not the
	// theoretical 255; floor at 1 to keep the division finite.
	bgExcess := bg[keyIdx] - math.Max(bg[nonKey0], bg[nonKey1])
	if bgExcess < 1.0 {
		bgExcess = 1.0
	}

	alpha := imaging.NewGrid(p.W, p.H)
	for i := range alpha.Pix {
		keyExcess := key.Pix[i] - math.Max(nk0.Pix[i], nk1.Pix[i])
		a := 1.0 - clampf(keyExcess/bgExcess, 0.0, 1.0)

		dr := p.R.Pix[i] - bg[0]
		dg := p.G.Pix[i] - bg[1]
		db := p.B.Pix[i] - bg[2]
		dist := math.Sqrt(dr*dr + dg*dg + db*db)

		// Far cutoff first: distance alone proves foreground. Transparency
		// cutoffs follow so they win if both ever fire.
		if dist > cd.FarThreshold {
			a = 1.0
		}
		if dist < cd.NearThreshold {
			a = 0.0
		}
		if keyExcess > bgExcess*excessCutoff {
			a = 0.0
		}
		alpha.Pix[i] = a
	}

	if cd.BlurSigma > 0 {
		alpha = alpha.GaussianBlur(cd.BlurSigma)
	}
	alpha.Clamp(0.0, 1.0)

	// Foreground recovery: F = (I - (1-alpha)*B) / alpha removes background
	// bleed from semi-transparent pixels.
	for i := range alpha.Pix {
		a := alpha.Pix[i]
		src := [3]float64{p.R.Pix[i], p.G.Pix[i], p.B.Pix[i]}

		var fg [3]float64
		for c := 0; c < 3; c++ {
			fg[c] = imaging.SafeDivide(src[c]-(1.0-a)*bg[c], a, recoveryGuard, 1.0)
			fg[c] = clampf(fg[c], 0.0, 255.0)
		}

		if cd.DespillStrength > 0 && a > visibleAlpha && a < 1.0 {
			spill := fg[keyIdx] - math.Max(fg[nonKey0], fg[nonKey1])
			if spill > 0 {
				fg[keyIdx] -= cd.DespillStrength * spill
			}
		}

		if a <= visibleAlpha {
			fg = [3]float64{}
		}
		p.R.Pix[i] = fg[0]
		p.G.Pix[i] = fg[1]
		p.B.Pix[i] = fg[2]
		p.A.Pix[i] = a
	}

	return p.ToNRGBA(), nil
}

// estimateBackground detects the actual background color of an image by
// sampling its four corner blocks and taking the per-channel median.
//
// The block side is max(5, min(w,h)/20), clipped to the image dimensions, so
// small images degrade to sampling the whole frame. The median keeps the
// estimate robust to a stray foreground pixel touching a corner.
func estimateBackground(p *imaging.Planes) [3]float64 {
	side := min(p.W, p.H) / 20
	if side < 5 {
		side = 5
	}
	bw := clampInt(side, 1, p.W)
	bh := clampInt(side, 1, p.H)

	corners := [4][2]int{
		{0, 0},
		{p.W - bw, 0},
		{0, p.H - bh},
		{p.W - bw, p.H - bh},
	}

	channels := [3]*imaging.Grid{p.R, p.G, p.B}
	var bg [3]float64
	for c, ch := range channels {
		samples := make([]float64, 0, 4*bw*bh)
		for _, corner := range corners {
			for y := corner[1]; y < corner[1]+bh; y++ {
				for x := corner[0]; x < corner[0]+bw; x++ {
					samples = append(samples, ch.At(x, y))
				}
			}
		}
		// 4*bw*bh samples is always an even count, so the median
		// interpolates the middle pair rather than taking the lower one.
		sort.Float64s(samples)
		n := len(samples)
		bg[c] = stat.Mean(samples[n/2-1:n/2+1], nil)
	}
	return bg
}

// otherChannels returns the two channel indexes that are not the key channel,
// in ascending order.
func otherChannels(keyIdx int) (int, int) {
	switch keyIdx {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

// clampInt constrains an integer value to the range [min, max].
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
