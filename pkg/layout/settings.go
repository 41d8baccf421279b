package layout

import (
	"github.com/mab8192/tcgprint/pkg/errors"
)

// Page canvases are held in memory as RGBA, so their pixel size is capped.
const (
	// MaxPageSide is the longest page or card edge in pixels.
	MaxPageSide = 20000
	// MaxPagePixels is the largest page area in pixels (about 1 GiB of RGBA).
	MaxPagePixels = 1 << 28
)

// Settings are the physical inputs of the layout computation.
// Lengths are in inches. Rows and Cols of 0 mean auto-compute.
type Settings struct {
	PageWidth  float64 `json:"page_width" toml:"page_width"`
	PageHeight float64 `json:"page_height" toml:"page_height"`
	CardWidth  float64 `json:"card_width" toml:"card_width"`
	CardHeight float64 `json:"card_height" toml:"card_height"`
	Margin     float64 `json:"margin" toml:"margin"`
	Scale      float64 `json:"scale" toml:"scale"`
	DPI        int     `json:"dpi" toml:"dpi"`
	Rows       int     `json:"rows" toml:"rows"`
	Cols       int     `json:"cols" toml:"cols"`
}

// Validate checks every field and returns the first INVALID_INPUT error.
// Lengths are also checked against MaxPageSide at the requested DPI.
func (s Settings) Validate() error {
	checks := []error{
		errors.ValidateLength("page width", s.PageWidth, false),
		errors.ValidateLength("page height", s.PageHeight, false),
		errors.ValidateLength("card width", s.CardWidth, false),
		errors.ValidateLength("card height", s.CardHeight, false),
		errors.ValidateLength("margin", s.Margin, true),
		errors.ValidateScale(s.Scale),
		errors.ValidateDPI(s.DPI),
		errors.ValidateGridCount("rows", s.Rows),
		errors.ValidateGridCount("cols", s.Cols),
		errors.ValidatePixels("page width", s.PageWidth, s.DPI, MaxPageSide),
		errors.ValidatePixels("page height", s.PageHeight, s.DPI, MaxPageSide),
		errors.ValidatePixels("scaled card width", s.CardWidth*s.Scale, s.DPI, MaxPageSide),
		errors.ValidatePixels("scaled card height", s.CardHeight*s.Scale, s.DPI, MaxPageSide),
		errors.ValidatePixels("margin", s.Margin, s.DPI, MaxPageSide),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
