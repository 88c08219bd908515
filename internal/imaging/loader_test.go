package imaging

import (
	"image/color"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	img := solidImage(6, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	if err := EncodePNG(img, path); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 6 || bounds.Dy() != 4 {
		t.Errorf("dimensions: got %dx%d, want 6x4", bounds.Dx(), bounds.Dy())
	}

	r, g, b, a := decoded.At(2, 2).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 || a>>8 != 255 {
		t.Errorf("pixel: got (%d,%d,%d,%d), want (1,2,3,255)", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestDecode_MissingFile(t *testing.T) {
	if _, err := Decode(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("Decode of missing file succeeded, want error")
	}
}

func TestResampleToMatch(t *testing.T) {
	img := solidImage(10, 20, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	t.Run("same size returns input", func(t *testing.T) {
		if got := ResampleToMatch(img, 10, 20); got != img {
			t.Error("expected the input image back when dimensions already match")
		}
	})

	t.Run("resizes to target", func(t *testing.T) {
		got := ResampleToMatch(img, 5, 8)
		bounds := got.Bounds()
		if bounds.Dx() != 5 || bounds.Dy() != 8 {
			t.Errorf("dimensions: got %dx%d, want 5x8", bounds.Dx(), bounds.Dy())
		}
	})
}
