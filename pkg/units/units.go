// Package units converts physical lengths to device pixels.
//
// All conversions in a run share one resolution (dots per inch). Pixel counts
// are truncated toward zero, never rounded, so that a computed card or page
// never grows past its physical size.
package units

// MillimetersPerInch is the exact inch length in millimeters.
const MillimetersPerInch = 25.4

// ToPixels converts a length in inches to a whole pixel count at dpi.
// The product is truncated toward zero. Callers validate that inches is
// non-negative and dpi is positive.
func ToPixels(inches float64, dpi int) int {
	return int(inches * float64(dpi))
}

// ToMillimeters converts a pixel count at dpi back to millimeters.
func ToMillimeters(px, dpi int) float64 {
	return float64(px) / float64(dpi) * MillimetersPerInch
}
