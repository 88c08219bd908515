package matte

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/chroma-matte/internal/imaging"
)

// ErrDegenerateBackgroundPair indicates the two declared background colors
// are effectively identical on every channel, leaving the triangulation
// system unsolvable.
var ErrDegenerateBackgroundPair = errors.New("degenerate background pair")

// bgDiffEps is the per-channel magnitude below which a background difference
// carries no alpha information.
const bgDiffEps = 1e-6

// Triangulation solves the compositing equation exactly from two photographs
// of the same subject over two distinct known backgrounds.
//
// With I1 = alpha*F + (1-alpha)*B1 and I2 = alpha*F + (1-alpha)*B2:
//
//	alpha = 1 - (I1 - I2) / (B1 - B2)    per channel
//	F     = (I2 - (1-alpha)*B2) / alpha
//
// The result is exact under the method's preconditions: a static subject and
// two accurately known flat backgrounds with no motion between captures.
type Triangulation struct {
	Second         image.Image    // capture over the second background
	BG1, BG2       colorful.Color // declared background colors
	AlphaThreshold float64        // noise floor; alpha at or below it snaps to 0
}

// Matte implements the Matter interface. The argument is the capture over
// the first background; the second capture is resampled to its dimensions
// when they differ.
func (tm *Triangulation) Matte(img image.Image) (*image.NRGBA, error) {
	p1 := imaging.NewPlanes(img)
	p2 := imaging.NewPlanes(imaging.ResampleToMatch(tm.Second, p1.W, p1.H))

	r1, g1, b1 := imaging.RGB(tm.BG1)
	r2, g2, b2 := imaging.RGB(tm.BG2)
	bg1 := [3]float64{r1, g1, b1}
	bg2 := [3]float64{r2, g2, b2}

	// Only channels where the backgrounds actually differ carry alpha
	// information.
	var bgDiff [3]float64
	var valid [3]bool
	validCount := 0
	for c := 0; c < 3; c++ {
		bgDiff[c] = bg1[c] - bg2[c]
		if math.Abs(bgDiff[c]) > bgDiffEps {
			valid[c] = true
			validCount++
		}
	}
	if validCount == 0 {
		return nil, fmt.Errorf("%w: background colors %s and %s are identical",
			ErrDegenerateBackgroundPair, imaging.FormatHex(tm.BG1), imaging.FormatHex(tm.BG2))
	}

	ch1 := [3]*imaging.Grid{p1.R, p1.G, p1.B}
	ch2 := [3]*imaging.Grid{p2.R, p2.G, p2.B}

	alpha := imaging.NewGrid(p1.W, p1.H)
	for i := range alpha.Pix {
		var sum float64
		for c := 0; c < 3; c++ {
			if !valid[c] {
				continue
			}
			sum += 1.0 - (ch1[c].Pix[i]-ch2[c].Pix[i])/bgDiff[c]
		}
		a := clampf(sum/float64(validCount), 0.0, 1.0)
		if a < tm.AlphaThreshold {
			a = 0.0
		}
		alpha.Pix[i] = a
	}

	// Foreground recovery from the second capture, guarded at the noise
	// floor; fully transparent pixels resolve to black.
	for i := range alpha.Pix {
		a := alpha.Pix[i]
		var fg [3]float64
		if a > tm.AlphaThreshold {
			for c := 0; c < 3; c++ {
				f := imaging.SafeDivide(ch2[c].Pix[i]-(1.0-a)*bg2[c], a, tm.AlphaThreshold, 1.0)
				fg[c] = clampf(f, 0.0, 255.0)
			}
		}
		p2.R.Pix[i] = fg[0]
		p2.G.Pix[i] = fg[1]
		p2.B.Pix[i] = fg[2]
		p2.A.Pix[i] = a
	}

	return p2.ToNRGBA(), nil
}
