package layout

import (
	"math"

	"github.com/matzehuels/tilepanel/pkg/geom"
)

// Wrap packs items greedily from left to right. An item joins the current
// row while the row width including it stays strictly below the available
// width; otherwise it opens a new row. The first item of a row is always
// placed, so an item wider than the container still gets a row of its own.
//
// Hit-testing splits every item at its midpoint: the boundary between two
// neighbours lies halfway between their centers. For neighbours of equal
// width that is their shared edge; for unequal widths it shifts into the
// wider item, so a pointer over either half of a neighbour resolves to a
// single, stable index while the two swap places.
type Wrap struct {
	rows       []wrapRow
	rowHeights []float64
	items      []wrapItem
}

type wrapRow struct {
	start  int
	widths []float64
	width  float64
}

type wrapItem struct {
	row, column int
	x, width    float64
}

// Measure implements Strategy.
func (w *Wrap) Measure(available geom.Size, sizes []geom.Size, dragging bool) {
	frozenHeights := w.rowHeights

	w.rows = nil
	w.rowHeights = nil
	w.items = nil
	if !available.Valid() || len(sizes) == 0 {
		return
	}

	sizes = sanitize(sizes)
	w.items = make([]wrapItem, len(sizes))

	var heights []float64
	var row *wrapRow
	var rowHeight float64
	for i, s := range sizes {
		if row == nil || !(row.width+s.Width < available.Width) {
			if row != nil {
				heights = append(heights, rowHeight)
			}
			w.rows = append(w.rows, wrapRow{start: i})
			row = &w.rows[len(w.rows)-1]
			rowHeight = 0
		}
		w.items[i] = wrapItem{
			row:    len(w.rows) - 1,
			column: len(row.widths),
			x:      row.width,
			width:  s.Width,
		}
		row.widths = append(row.widths, s.Width)
		row.width += s.Width
		rowHeight = math.Max(rowHeight, s.Height)
	}
	heights = append(heights, rowHeight)

	if dragging && len(frozenHeights) == len(w.rows) {
		w.rowHeights = frozenHeights
		return
	}
	w.rowHeights = heights
}

// Rows returns the current row count.
func (w *Wrap) Rows() int { return len(w.rows) }

// RowLen returns the number of items in row r, or 0 if r is out of range.
func (w *Wrap) RowLen(r int) int {
	if r < 0 || r >= len(w.rows) {
		return 0
	}
	return len(w.rows[r].widths)
}

// ResultSize implements Strategy.
func (w *Wrap) ResultSize() geom.Size {
	if len(w.items) == 0 {
		return geom.Size{}
	}
	var width float64
	for _, r := range w.rows {
		width = math.Max(width, r.width)
	}
	return geom.Size{Width: width, Height: sum(w.rowHeights, len(w.rowHeights))}
}

// Len implements Strategy.
func (w *Wrap) Len() int { return len(w.items) }

// SlotAt implements Strategy.
func (w *Wrap) SlotAt(index int) geom.Rect {
	i := clampIndex(index, len(w.items))
	if i == NoIndex {
		return geom.Rect{}
	}
	it := w.items[i]
	return geom.Rect{
		X:      it.x,
		Y:      sum(w.rowHeights, it.row),
		Width:  it.width,
		Height: w.rowHeights[it.row],
	}
}

// IndexAt implements Strategy.
func (w *Wrap) IndexAt(p geom.Point) int {
	if len(w.items) == 0 {
		return NoIndex
	}
	r := w.rows[hit(w.rowHeights, p.Y)]

	col := len(r.widths) - 1
	var x float64
	for j := 0; j < len(r.widths)-1; j++ {
		center := x + r.widths[j]/2
		next := x + r.widths[j] + r.widths[j+1]/2
		if p.X < (center+next)/2 {
			col = j
			break
		}
		x += r.widths[j]
	}
	return r.start + col
}

// Info implements Strategy.
func (w *Wrap) Info(index int) Info {
	i := clampIndex(index, len(w.items))
	if i == NoIndex {
		return Info{}
	}
	it := w.items[i]
	return Info{
		Row:         it.row,
		Column:      it.column,
		ColumnWidth: it.width,
		RowHeight:   w.rowHeights[it.row],
	}
}
