package errors

import "math"

// ValidateLength checks a physical length in inches.
// Page and card dimensions must be strictly positive; margins may be zero.
func ValidateLength(field string, inches float64, allowZero bool) error {
	if math.IsNaN(inches) || math.IsInf(inches, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	if inches < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %g)", field, inches)
	}
	if inches == 0 && !allowZero {
		return New(ErrCodeInvalidInput, "%s must be greater than zero", field)
	}
	return nil
}

// ValidateScale checks the card scale factor.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return New(ErrCodeInvalidInput, "scale must be greater than zero (got %g)", scale)
	}
	return nil
}

// ValidateDPI checks the output resolution.
func ValidateDPI(dpi int) error {
	if dpi <= 0 {
		return New(ErrCodeInvalidInput, "dpi must be greater than zero (got %d)", dpi)
	}
	return nil
}

// MaxGridCount bounds an explicit row or column count.
const MaxGridCount = 1000

// ValidateGridCount checks a requested row or column count.
// Zero means auto-compute.
func ValidateGridCount(field string, n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %d, use 0 for auto)", field, n)
	}
	if n > MaxGridCount {
		return New(ErrCodeInvalidInput, "%s cannot exceed %d (got %d)", field, MaxGridCount, n)
	}
	return nil
}

// ValidatePixels checks that a length in inches stays within max pixels at
// dpi. The check runs in floating point, before any integer conversion.
func ValidatePixels(field string, inches float64, dpi, max int) error {
	if px := inches * float64(dpi); px > float64(max) {
		return New(ErrCodeInvalidInput, "%s of %gin at %d dpi is %.0fpx, over the %dpx limit", field, inches, dpi, px, max)
	}
	return nil
}

// ValidateWorkers checks the render worker count.
func ValidateWorkers(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "workers must be at least 1 (got %d)", n)
	}
	return nil
}
