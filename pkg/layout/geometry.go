package layout

import "fmt"

// Geometry is the resolved pixel-space grid for one run.
// All values are in pixels at DPI except Columns, Rows and Capacity.
type Geometry struct {
	PageWidth  int `json:"page_width"`
	PageHeight int `json:"page_height"`
	CardWidth  int `json:"card_width"`
	CardHeight int `json:"card_height"`
	MarginX    int `json:"margin_x"`
	MarginY    int `json:"margin_y"`
	Gap        int `json:"gap"`
	Columns    int `json:"columns"`
	Rows       int `json:"rows"`
	Capacity   int `json:"capacity"`
	DPI        int `json:"dpi"`
}

// GridWidth is the horizontal extent of the cards and the gaps between them.
func (g Geometry) GridWidth() int {
	return g.Columns*g.CardWidth + (g.Columns-1)*g.Gap
}

// GridHeight is the vertical extent of the cards and the gaps between them.
func (g Geometry) GridHeight() int {
	return g.Rows*g.CardHeight + (g.Rows-1)*g.Gap
}

// RightMargin is the space between the last column and the right page edge.
func (g Geometry) RightMargin() int {
	return g.PageWidth - g.MarginX - g.GridWidth()
}

// BottomMargin is the space between the last row and the bottom page edge.
// It equals MarginY, or MarginY+1 when the vertical slack is odd.
func (g Geometry) BottomMargin() int {
	return g.PageHeight - g.MarginY - g.GridHeight()
}

// Cell returns the top-left pixel of the i-th cell, filled left to right
// then top to bottom.
func (g Geometry) Cell(i int) (x, y int) {
	col := i % g.Columns
	row := i / g.Columns
	x = g.MarginX + col*(g.CardWidth+g.Gap)
	y = g.MarginY + row*(g.CardHeight+g.Gap)
	return x, y
}

// String summarizes the grid for log lines.
func (g Geometry) String() string {
	return fmt.Sprintf("%d cols x %d rows, card %dx%dpx, gap %dpx", g.Columns, g.Rows, g.CardWidth, g.CardHeight, g.Gap)
}
