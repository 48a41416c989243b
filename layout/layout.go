// Package layout maps between surface coordinates and board cells.
//
// A surface is any drawing area measured in integer units: pixels for a browser canvas,
// character cells for a terminal. It is split into Cols×Rows equal cells; the remainder
// of an uneven division is left unused at the right and bottom edges.
package layout

import "image"

// Grid describes a board drawn on a surface.
type Grid struct {
	Cols     int
	Rows     int
	SurfaceW int
	SurfaceH int
}

// CellSize returns the width and height of one cell.
func (g Grid) CellSize() (int, int) {
	if g.Cols <= 0 || g.Rows <= 0 {
		return 0, 0
	}
	return g.SurfaceW / g.Cols, g.SurfaceH / g.Rows
}

// CellAt maps a surface point to a cell. ok is false outside the board or when the
// surface is too small to give every cell a non-zero size.
func (g Grid) CellAt(px, py int) (x, y int, ok bool) {
	cw, ch := g.CellSize()
	if cw <= 0 || ch <= 0 || px < 0 || py < 0 {
		return 0, 0, false
	}
	x, y = px/cw, py/ch
	if x >= g.Cols || y >= g.Rows {
		return 0, 0, false
	}
	return x, y, true
}

// CellRect returns the surface rectangle of cell (x, y).
func (g Grid) CellRect(x, y int) image.Rectangle {
	cw, ch := g.CellSize()
	return image.Rect(x*cw, y*ch, (x+1)*cw, (y+1)*ch)
}

// CardRect returns where an imgW×imgH card image is drawn inside cell (x, y): inset by
// margin on every side, scaled to fit while keeping its aspect ratio, and centered.
// It returns an empty rectangle when nothing fits.
func (g Grid) CardRect(x, y, imgW, imgH, margin int) image.Rectangle {
	cell := g.CellRect(x, y).Inset(margin)
	if imgW <= 0 || imgH <= 0 || cell.Empty() {
		return image.Rectangle{}
	}
	w, h := cell.Dx(), cell.Dy()
	// Fit by width unless that overflows the height.
	fw, fh := w, imgH*w/imgW
	if fh > h {
		fw, fh = imgW*h/imgH, h
	}
	if fw <= 0 || fh <= 0 {
		return image.Rectangle{}
	}
	origin := image.Pt(cell.Min.X+(w-fw)/2, cell.Min.Y+(h-fh)/2)
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(fw, fh))}
}

// PreferredSurface returns the surface size that shows every card at its natural size.
func PreferredSurface(cols, rows, cardW, cardH int) (int, int) {
	return cols * cardW, rows * cardH
}
