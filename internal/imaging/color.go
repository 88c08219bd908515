package imaging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat indicates a hex color string whose stripped length is
// not 6 or 8 hex digits.
var ErrInvalidColorFormat = errors.New("invalid color format")

// ParseHexColor parses a hex color string like "#00FF00" or "00ff00".
//
// A leading '#' is stripped. After stripping, the string must contain exactly
// 6 or 8 hex digits; with 8 digits only the leading 3 byte pairs are
// interpreted (the trailing alpha pair is accepted and ignored). Any other
// length, or non-hex characters in the leading 6 digits, fails with an error
// wrapping ErrInvalidColorFormat.
func ParseHexColor(s string) (colorful.Color, error) {
	stripped := strings.TrimPrefix(s, "#")
	if len(stripped) != 6 && len(stripped) != 8 {
		return colorful.Color{}, fmt.Errorf("%w: %q has %d hex digits, expected 6 or 8 (e.g. #00FF00)",
			ErrInvalidColorFormat, s, len(stripped))
	}

	c, err := colorful.Hex("#" + strings.ToLower(stripped[:6]))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColorFormat, s, err)
	}
	return c, nil
}

// Hue returns the HSV hue of a color in degrees, in the range [0, 360).
// Achromatic colors (equal channels) return 0.
//
// Ties between maximal channels resolve to the same hue regardless of which
// channel's sector formula is applied, because the 60-degree sector formulas
// agree on sector boundaries.
func Hue(c colorful.Color) float64 {
	h, _, _ := c.Hsv()
	return h
}

// FormatHex renders a color as an uppercase "#RRGGBB" string.
func FormatHex(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// RGB returns the color's channels scaled to the [0, 255] range used by the
// pixel planes, without rounding to integers.
func RGB(c colorful.Color) (r, g, b float64) {
	return c.R * 255.0, c.G * 255.0, c.B * 255.0
}
