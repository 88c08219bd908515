package matte

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/chroma-matte/internal/imaging"
)

func greenDistance(t *testing.T) *ColorDistance {
	t.Helper()
	chroma, err := imaging.ParseHexColor("#00FF00")
	if err != nil {
		t.Fatalf("ParseHexColor failed: %v", err)
	}
	return &ColorDistance{
		Chroma:          chroma,
		NearThreshold:   30,
		FarThreshold:    120,
		DespillStrength: 0.8,
		BlurSigma:       0,
	}
}

func TestColorDistance_UniformGreenBecomesTransparentBlack(t *testing.T) {
	// A 4x4 image entirely in the chroma color must come out fully
	// transparent with all color channels zeroed.
	img := uniformImage(4, 4, color.NRGBA{G: 255, A: 255})

	out, err := greenDistance(t).Matte(img)
	if err != nil {
		t.Fatalf("Matte failed: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := out.NRGBAAt(x, y)
			if got != (color.NRGBA{}) {
				t.Fatalf("pixel (%d,%d) = %+v, want transparent black", x, y, got)
			}
		}
	}
}

func TestColorDistance_ForegroundPixelKeptVerbatim(t *testing.T) {
	// A pixel with no key-channel dominance, far from the background in RGB
	// distance, is fully opaque and its recovered color equals the original.
	img := uniformImage(20, 20, color.NRGBA{G: 255, A: 255})
	for y := 8; y < 12; y++ {
		for x := 8; x < 12; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	out, err := greenDistance(t).Matte(img)
	if err != nil {
		t.Fatalf("Matte failed: %v", err)
	}

	got := out.NRGBAAt(10, 10)
	want := color.NRGBA{R: 255, A: 255}
	if got != want {
		t.Errorf("foreground pixel: got %+v, want %+v", got, want)
	}
	if a := out.NRGBAAt(2, 2).A; a != 0 {
		t.Errorf("background pixel alpha = %d, want 0", a)
	}
}

func TestColorDistance_BackgroundEstimateRobustToOutlier(t *testing.T) {
	// One stray foreground pixel touching a corner must not move the
	// median-based background estimate.
	img := uniformImage(40, 40, color.NRGBA{R: 10, G: 240, B: 10, A: 255})
	img.Set(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})

	p := imaging.NewPlanes(img)
	bg := estimateBackground(p)
	if bg[0] != 10 || bg[1] != 240 || bg[2] != 10 {
		t.Errorf("background estimate = %v, want [10 240 10]", bg)
	}
}

func TestColorDistance_BackgroundEstimateInterpolatesMedian(t *testing.T) {
	// The corner sample count is always even, so the median averages the two
	// middle samples rather than taking the lower one.
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 10, G: 200, B: 5, A: 255})
	img.Set(1, 0, color.NRGBA{R: 20, G: 200, B: 5, A: 255})
	img.Set(0, 1, color.NRGBA{R: 30, G: 200, B: 5, A: 255})
	img.Set(1, 1, color.NRGBA{R: 40, G: 200, B: 5, A: 255})

	p := imaging.NewPlanes(img)
	bg := estimateBackground(p)
	if bg[0] != 25 || bg[1] != 200 || bg[2] != 5 {
		t.Errorf("background estimate = %v, want [25 200 5]", bg)
	}
}

func TestColorDistance_EstimateUsesActualBackground(t *testing.T) {
	// The detected background (a realistic, not fully saturated green)
	// drives the excess normalization: pixels equal to it come out
	// transparent even though the nominal chroma is pure green.
	img := uniformImage(40, 40, color.NRGBA{R: 20, G: 230, B: 25, A: 255})

	out, err := greenDistance(t).Matte(img)
	if err != nil {
		t.Fatalf("Matte failed: %v", err)
	}
	got := out.NRGBAAt(20, 20)
	if got != (color.NRGBA{}) {
		t.Errorf("background-colored pixel = %+v, want transparent black", got)
	}
}

func TestColorDistance_FarThresholdForcesOpaque(t *testing.T) {
	// A dull foreground pixel beyond the far distance stays opaque even if
	// its key channel slightly dominates.
	img := uniformImage(40, 40, color.NRGBA{G: 255, A: 255})
	for y := 18; y < 22; y++ {
		for x := 18; x < 22; x++ {
			// Key excess 40 would give alpha ~0.84 from the ratio alone.
			img.Set(x, y, color.NRGBA{R: 60, G: 100, B: 40, A: 255})
		}
	}

	cd := greenDistance(t)
	cd.FarThreshold = 120
	out, err := cd.Matte(img)
	if err != nil {
		t.Fatalf("Matte failed: %v", err)
	}
	if a := out.NRGBAAt(20, 20).A; a != 255 {
		t.Errorf("far pixel alpha = %d, want 255", a)
	}
}

func TestColorDistance_DespillSuppressesKeyBleed(t *testing.T) {
	// Blur drags alpha below 1 near the subject boundary, which leaves
	// recovered key-channel bleed for despill to remove. With full despill
	// strength no semi-transparent pixel may keep a dominant key channel.
	base := func() *image.NRGBA {
		img := uniformImage(40, 40, color.NRGBA{G: 255, A: 255})
		for y := 0; y < 40; y++ {
			for x := 16; x < 24; x++ {
				img.Set(x, y, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
			}
		}
		return img
	}

	cd := greenDistance(t)
	cd.BlurSigma = 1.5
	cd.FarThreshold = 10000 // keep the boundary in the ratio regime
	cd.DespillStrength = 1.0

	out, err := cd.Matte(base())
	if err != nil {
		t.Fatalf("Matte failed: %v", err)
	}

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			px := out.NRGBAAt(x, y)
			if px.A == 0 || px.A == 255 {
				continue
			}
			// Compare in int: a saturated non-key channel must not wrap.
			maxOther := int(px.R)
			if int(px.B) > maxOther {
				maxOther = int(px.B)
			}
			// Allow one count of quantization slack.
			if int(px.G) > maxOther+1 {
				t.Fatalf("semi-transparent pixel (%d,%d) keeps green bleed: %+v", x, y, px)
			}
		}
	}
}

func TestColorDistance_AlphaRangeInvariant(t *testing.T) {
	img := uniformImage(30, 30, color.NRGBA{G: 250, B: 30, A: 255})
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}

	cd := greenDistance(t)
	cd.BlurSigma = 2
	out, err := cd.Matte(img)
	if err != nil {
		t.Fatalf("Matte failed: %v", err)
	}

	bounds := out.Bounds()
	if bounds.Dx() != 30 || bounds.Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 30x30", bounds.Dx(), bounds.Dy())
	}
	// NRGBA storage already bounds channels to [0,255]; verify the division
	// guard resolved every low-alpha pixel to black rather than noise.
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			px := out.NRGBAAt(x, y)
			if px.A == 0 && (px.R != 0 || px.G != 0 || px.B != 0) {
				t.Fatalf("transparent pixel (%d,%d) carries color %+v", x, y, px)
			}
		}
	}
}

func TestMaxChannel(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    int
	}{
		{"red dominant", 255, 0, 0, 0},
		{"green dominant", 0, 255, 0, 1},
		{"blue dominant", 0, 0, 255, 2},
		{"red-green tie prefers red", 200, 200, 0, 0},
		{"green-blue tie prefers green", 0, 200, 200, 1},
		{"all equal prefers red", 128, 128, 128, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxChannel(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("maxChannel(%v,%v,%v) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}
