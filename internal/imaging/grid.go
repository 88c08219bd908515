package imaging

import "math"

// Grid is a single-channel float64 pixel plane stored in row-major order.
//
// It backs the continuous-valued intermediates of the matting equations
// (alpha fields, per-channel color planes) so that no 8-bit quantization
// happens between pipeline stages.
type Grid struct {
	W, H int
	Pix  []float64 // len = W*H, index y*W+x
}

// NewGrid allocates a zero-filled W×H plane.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Pix: make([]float64, w*h)}
}

// At returns the value at (x, y). No bounds checking is performed.
func (g *Grid) At(x, y int) float64 {
	return g.Pix[y*g.W+x]
}

// Set stores v at (x, y). No bounds checking is performed.
func (g *Grid) Set(x, y int, v float64) {
	g.Pix[y*g.W+x] = v
}

// Clone returns a deep copy of the plane.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.W, g.H)
	copy(out.Pix, g.Pix)
	return out
}

// Clamp constrains every value to the range [lo, hi] in place.
func (g *Grid) Clamp(lo, hi float64) {
	for i, v := range g.Pix {
		if v < lo {
			g.Pix[i] = lo
		} else if v > hi {
			g.Pix[i] = hi
		}
	}
}

// SafeDivide returns num/den unless den is at or below eps in magnitude, in
// which case fallback is used as the denominator.
//
// Both matting-equation inversions share this guard: degenerate per-pixel
// denominators are resolved locally rather than surfaced as errors, and the
// caller force-sets the affected pixels afterwards.
func SafeDivide(num, den, eps, fallback float64) float64 {
	if math.Abs(den) <= eps {
		return num / fallback
	}
	return num / den
}

// GaussianBlur returns a copy of the plane convolved with an isotropic
// Gaussian of the given standard deviation. A sigma of zero or less returns
// an unmodified copy.
//
// The convolution is separable (horizontal then vertical pass) with a kernel
// radius of ceil(3*sigma); border pixels use replicated edge values.
func (g *Grid) GaussianBlur(sigma float64) *Grid {
	if sigma <= 0 {
		return g.Clone()
	}

	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	var kernelSum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		kernelSum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= kernelSum
	}

	horiz := NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		row := g.Pix[y*g.W : (y+1)*g.W]
		for x := 0; x < g.W; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				px := clampInt(x+k, 0, g.W-1)
				sum += row[px] * kernel[k+radius]
			}
			horiz.Pix[y*g.W+x] = sum
		}
	}

	out := NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				py := clampInt(y+k, 0, g.H-1)
				sum += horiz.Pix[py*g.W+x] * kernel[k+radius]
			}
			out.Pix[y*g.W+x] = sum
		}
	}
	return out
}

// clampInt constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
