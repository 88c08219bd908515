// Package imaging provides the shared pixel-math primitives for the matting
// strategies: hex color parsing, hue derivation, float-precision pixel planes,
// guarded division, Gaussian smoothing, and the image codec boundary.
//
// # Precision Model
//
// Images are 8-bit per channel at rest but all matting arithmetic runs on
// float64 planes to keep quantization error from compounding across the
// matting equations. Color planes hold values in [0, 255]; alpha planes hold
// values in [0, 1] until final quantization. Every plane is clamped back into
// range before it is quantized or fed into foreground recovery.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward.
//
// # Error Handling
//
// Hex color parsing fails with ErrInvalidColorFormat for inputs whose
// stripped length is not 6 or 8 hex digits. Division by near-zero is never an
// error: SafeDivide substitutes a fallback denominator, and callers resolve
// the affected pixels to a fixed color instead.
package imaging
