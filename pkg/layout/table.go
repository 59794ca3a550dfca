package layout

import (
	"math"

	"github.com/matzehuels/tilepanel/pkg/geom"
)

// Table packs items row-major into a grid. Column widths are the widest item
// in each column, row heights the tallest item in each row.
//
// The column count is the largest n whose summed column widths (computed as
// if the grid had n columns) is strictly less than the available width, or 1
// when no count fits.
type Table struct {
	columnWidths []float64
	rowHeights   []float64
	count        int
}

// Measure implements Strategy.
func (t *Table) Measure(available geom.Size, sizes []geom.Size, dragging bool) {
	frozenColumns := len(t.columnWidths)
	frozenHeights := t.rowHeights

	t.columnWidths = nil
	t.rowHeights = nil
	t.count = 0
	if !available.Valid() || len(sizes) == 0 {
		return
	}

	sizes = sanitize(sizes)
	t.count = len(sizes)

	columns := frozenColumns
	if !dragging || columns == 0 {
		columns = columnCount(available.Width, sizes)
	}
	columns = min(columns, len(sizes))
	rows := (len(sizes) + columns - 1) / columns

	t.columnWidths = make([]float64, columns)
	heights := make([]float64, rows)
	for i, s := range sizes {
		col, row := i%columns, i/columns
		t.columnWidths[col] = math.Max(t.columnWidths[col], s.Width)
		heights[row] = math.Max(heights[row], s.Height)
	}

	if dragging && len(frozenHeights) == rows {
		t.rowHeights = frozenHeights
		return
	}
	t.rowHeights = heights
}

// columnCount returns the largest column count whose row width fits
// strictly inside width.
func columnCount(width float64, sizes []geom.Size) int {
	for n := len(sizes); n > 1; n-- {
		var rowWidth float64
		for col := 0; col < n; col++ {
			rowWidth += maxColumnWidth(sizes, n, col)
		}
		if rowWidth < width {
			return n
		}
	}
	return 1
}

func maxColumnWidth(sizes []geom.Size, columns, col int) float64 {
	var w float64
	for i := col; i < len(sizes); i += columns {
		w = math.Max(w, sizes[i].Width)
	}
	return w
}

// Columns returns the current column count.
func (t *Table) Columns() int { return len(t.columnWidths) }

// Rows returns the current row count.
func (t *Table) Rows() int { return len(t.rowHeights) }

// ResultSize implements Strategy.
func (t *Table) ResultSize() geom.Size {
	if t.count == 0 {
		return geom.Size{}
	}
	return geom.Size{
		Width:  sum(t.columnWidths, len(t.columnWidths)),
		Height: sum(t.rowHeights, len(t.rowHeights)),
	}
}

// Len implements Strategy.
func (t *Table) Len() int { return t.count }

// SlotAt implements Strategy.
func (t *Table) SlotAt(index int) geom.Rect {
	i := clampIndex(index, t.count)
	if i == NoIndex {
		return geom.Rect{}
	}
	info := t.Info(i)
	return geom.Rect{
		X:      sum(t.columnWidths, info.Column),
		Y:      sum(t.rowHeights, info.Row),
		Width:  info.ColumnWidth,
		Height: info.RowHeight,
	}
}

// IndexAt implements Strategy.
func (t *Table) IndexAt(p geom.Point) int {
	if t.count == 0 {
		return NoIndex
	}
	col := hit(t.columnWidths, p.X)
	row := hit(t.rowHeights, p.Y)
	return clampIndex(row*len(t.columnWidths)+col, t.count)
}

// Info implements Strategy.
func (t *Table) Info(index int) Info {
	i := clampIndex(index, t.count)
	if i == NoIndex {
		return Info{}
	}
	columns := len(t.columnWidths)
	col, row := i%columns, i/columns
	info := Info{Row: row, Column: col, ColumnWidth: t.columnWidths[col]}
	if row < len(t.rowHeights) {
		info.RowHeight = t.rowHeights[row]
	}
	return info
}
