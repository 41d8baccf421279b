// Package layout computes the pixel grid used to place cards on a page.
//
// # Overview
//
// [Compute] turns physical page and card sizes (inches), a horizontal margin,
// a card scale factor and a resolution into an immutable [Geometry]: pixel
// page size, pixel card size, margins, a single gap applied on both axes,
// and the column and row counts. One Geometry is computed per run and reused
// for every page.
//
// # Horizontal axis
//
// The margin is a minimum. The printable width is the page width minus two
// margins. When no column count is requested, the engine fits as many whole
// cards as possible; the slack left over is spread evenly between columns
// as the gap (floor division, never negative). A requested column count is
// used as given: when the cards do not fit, the gap is zero and the last
// columns run past the right margin.
//
// # Vertical axis
//
// The gap found horizontally is reused between rows. When no row count is
// requested, rows are added while the grid still fits inside the page minus
// a 0.25in grip buffer at the top and bottom ([GripBuffer]). The buffer only
// steers the search: explicit row counts may fill the page edge to edge,
// and the final overflow check compares against the full page height. The
// grid is then centered vertically.
//
// # Example
//
//	g, err := layout.Compute(layout.Settings{
//	    PageWidth: 8.5, PageHeight: 11,
//	    CardWidth: 2.5, CardHeight: 3.5,
//	    Margin: 0.5, Scale: 1, DPI: 300,
//	})
//	// g.Columns == 3, g.Rows == 3, g.Gap == 0, g.MarginY == 75
package layout
