package matte

import "image"

// Matter computes a transparent-background matte for an input image.
//
// Implementations must be deterministic and must leave every output channel
// inside [0, 255] with alpha quantized from [0, 1]. Matting never mutates the
// input image.
type Matter interface {
	// Matte returns an RGBA image of the same dimensions as img whose alpha
	// channel encodes per-pixel opacity.
	Matte(img image.Image) (*image.NRGBA, error)
}

// clampf constrains a float value to the range [min, max].
func clampf(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// maxChannel returns the index of the largest of three channel values,
// resolving exact ties in R > G > B priority order. This tie-breaking rule is
// shared with the per-pixel hue computation and must stay consistent with it.
func maxChannel(r, g, b float64) int {
	if r >= g && r >= b {
		return 0
	}
	if g >= b {
		return 1
	}
	return 2
}
