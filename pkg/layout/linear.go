package layout

import (
	"math"

	"github.com/matzehuels/tilepanel/pkg/geom"
)

// Row lays every item out on a single line. Each item keeps its own width;
// the row is as tall as the tallest item.
type Row struct {
	widths []float64
	height float64
}

// Measure implements Strategy.
func (r *Row) Measure(available geom.Size, sizes []geom.Size, dragging bool) {
	r.widths = r.widths[:0]
	r.height = 0
	if !available.Valid() {
		return
	}
	for _, s := range sanitize(sizes) {
		r.widths = append(r.widths, s.Width)
		r.height = math.Max(r.height, s.Height)
	}
}

// ResultSize implements Strategy.
func (r *Row) ResultSize() geom.Size {
	if len(r.widths) == 0 {
		return geom.Size{}
	}
	return geom.Size{Width: sum(r.widths, len(r.widths)), Height: r.height}
}

// Len implements Strategy.
func (r *Row) Len() int { return len(r.widths) }

// SlotAt implements Strategy.
func (r *Row) SlotAt(index int) geom.Rect {
	i := clampIndex(index, len(r.widths))
	if i == NoIndex {
		return geom.Rect{}
	}
	return geom.Rect{X: sum(r.widths, i), Width: r.widths[i], Height: r.height}
}

// IndexAt implements Strategy.
func (r *Row) IndexAt(p geom.Point) int { return hit(r.widths, p.X) }

// Info implements Strategy.
func (r *Row) Info(index int) Info {
	i := clampIndex(index, len(r.widths))
	if i == NoIndex {
		return Info{}
	}
	return Info{Row: 0, Column: i, ColumnWidth: r.widths[i], RowHeight: r.height}
}

// Column stacks every item vertically. Each item keeps its own height; the
// column is as wide as the widest item.
type Column struct {
	heights []float64
	width   float64
}

// Measure implements Strategy.
func (c *Column) Measure(available geom.Size, sizes []geom.Size, dragging bool) {
	c.heights = c.heights[:0]
	c.width = 0
	if !available.Valid() {
		return
	}
	for _, s := range sanitize(sizes) {
		c.heights = append(c.heights, s.Height)
		c.width = math.Max(c.width, s.Width)
	}
}

// ResultSize implements Strategy.
func (c *Column) ResultSize() geom.Size {
	if len(c.heights) == 0 {
		return geom.Size{}
	}
	return geom.Size{Width: c.width, Height: sum(c.heights, len(c.heights))}
}

// Len implements Strategy.
func (c *Column) Len() int { return len(c.heights) }

// SlotAt implements Strategy.
func (c *Column) SlotAt(index int) geom.Rect {
	i := clampIndex(index, len(c.heights))
	if i == NoIndex {
		return geom.Rect{}
	}
	return geom.Rect{Y: sum(c.heights, i), Width: c.width, Height: c.heights[i]}
}

// IndexAt implements Strategy.
func (c *Column) IndexAt(p geom.Point) int { return hit(c.heights, p.Y) }

// Info implements Strategy.
func (c *Column) Info(index int) Info {
	i := clampIndex(index, len(c.heights))
	if i == NoIndex {
		return Info{}
	}
	return Info{Row: i, Column: 0, ColumnWidth: c.width, RowHeight: c.heights[i]}
}
