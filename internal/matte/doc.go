// Package matte implements the background-removal matting strategies.
//
// Every strategy satisfies the Matter interface: it takes a decoded input
// image and returns an RGBA image whose alpha channel encodes per-pixel
// opacity (0 = background, 255 = foreground). The strategies are pure,
// single-pass transforms with no shared state between invocations.
//
// # Strategies
//
//   - ChromaKey: legacy hue-threshold matte producing ternary transparency.
//     Coarse but cheap; kept for compatibility.
//   - ColorDistance: key-channel-excess matting with automatic background
//     detection and Smith-Blinn foreground recovery. The recommended
//     single-image method.
//   - Triangulation: exact alpha from two photographs of the same subject
//     over two distinct known backgrounds. The preferred method when two
//     captures exist.
//   - ExternalSegmentation: delegates to an opaque AI segmentation backend.
//     Never combined with the other strategies.
//
// # The Matting Equation
//
// ColorDistance and Triangulation both invert the Smith-Blinn compositing
// equation I = alpha*F + (1-alpha)*B to recover the unblended foreground
// color F. Division by near-zero alpha is guarded by substituting a fixed
// denominator; the affected pixels are then force-set to transparent black
// rather than carrying a meaningless quotient.
package matte
