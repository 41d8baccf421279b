package layout

import (
	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/units"
)

// GripBuffer is the space in inches kept free at the top and bottom of the
// page while searching for an automatic row count.
const GripBuffer = 0.25

// Compute resolves s into a Geometry.
//
// It fails with INVALID_INPUT when a setting is out of range or the page is
// larger than MaxPagePixels, LAYOUT_TOO_NARROW when not even one column fits,
// LAYOUT_TOO_TALL when the rows overflow the page height and
// LAYOUT_ZERO_CAPACITY when the grid holds no card.
//
// Requested columns are always honored. When they do not fit, the gap is
// zero and the grid runs past the right margin.
func Compute(s Settings) (Geometry, error) {
	if err := s.Validate(); err != nil {
		return Geometry{}, err
	}

	pageW := units.ToPixels(s.PageWidth, s.DPI)
	pageH := units.ToPixels(s.PageHeight, s.DPI)
	cardW := units.ToPixels(s.CardWidth*s.Scale, s.DPI)
	cardH := units.ToPixels(s.CardHeight*s.Scale, s.DPI)
	marginX := units.ToPixels(s.Margin, s.DPI)

	if pageW*pageH > MaxPagePixels {
		return Geometry{}, errors.New(errors.ErrCodeInvalidInput,
			"page of %dx%dpx exceeds the %d pixel limit", pageW, pageH, MaxPagePixels)
	}
	if cardW < 1 || cardH < 1 {
		return Geometry{}, errors.New(errors.ErrCodeInvalidInput,
			"card size %gx%gin at scale %g is under one pixel at %d dpi", s.CardWidth, s.CardHeight, s.Scale, s.DPI)
	}

	availW := pageW - 2*marginX

	cols := s.Cols
	if cols < 1 {
		cols = floorDiv(availW, cardW)
		if cols < 1 {
			return Geometry{}, errors.New(errors.ErrCodeTooNarrow,
				"page too narrow for even one card plus margins (%dpx printable width, %dpx card)", availW, cardW)
		}
	}

	// Columns are fixed from here on, so one gap serves both the row search
	// and the final geometry.
	gap := columnGap(availW, cols, cardW)

	rows := s.Rows
	if rows < 1 {
		rows = autoRows(pageH, cardH, gap, units.ToPixels(GripBuffer, s.DPI))
	}

	gridH := rows*cardH + (rows-1)*gap
	if gridH > pageH {
		return Geometry{}, errors.New(errors.ErrCodeTooTall,
			"%d rows is too tall for this page height (%dpx grid, %dpx page)", rows, gridH, pageH)
	}

	capacity := cols * rows
	if capacity < 1 {
		return Geometry{}, errors.New(errors.ErrCodeZeroCapacity, "grid of %d cols x %d rows holds no card", cols, rows)
	}

	return Geometry{
		PageWidth:  pageW,
		PageHeight: pageH,
		CardWidth:  cardW,
		CardHeight: cardH,
		MarginX:    marginX,
		MarginY:    (pageH - gridH) / 2,
		Gap:        gap,
		Columns:    cols,
		Rows:       rows,
		Capacity:   capacity,
		DPI:        s.DPI,
	}, nil
}

// columnGap spreads the horizontal slack evenly between columns.
// A single column, or no slack, yields zero.
func columnGap(availW, cols, cardW int) int {
	if cols <= 1 {
		return 0
	}
	rem := availW - cols*cardW
	if rem <= 0 {
		return 0
	}
	return rem / (cols - 1)
}

// autoRows returns the largest row count whose grid fits inside the page
// minus the grip buffer on both edges, and never less than one. A single row
// that does not fit is left for the overflow check in Compute.
//
// rows*cardH + (rows-1)*gap <= limit  is  rows <= (limit+gap)/(cardH+gap).
func autoRows(pageH, cardH, gap, buffer int) int {
	limit := pageH - 2*buffer
	return max(1, floorDiv(limit+gap, cardH+gap))
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
