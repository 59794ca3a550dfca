package layout

import (
	"testing"

	"github.com/matzehuels/tilepanel/pkg/geom"
)

func TestWrapPacking(t *testing.T) {
	tests := []struct {
		name      string
		width     float64
		sizes     []geom.Size
		wantRows  []int
		wantTotal geom.Size
	}{
		{
			name:      "strict break at available width",
			width:     250,
			sizes:     uniform(4, 100, 50),
			wantRows:  []int{2, 2},
			wantTotal: geom.Size{Width: 200, Height: 100},
		},
		{
			name:      "exact fit still breaks",
			width:     200,
			sizes:     uniform(4, 100, 50),
			wantRows:  []int{1, 1, 1, 1},
			wantTotal: geom.Size{Width: 100, Height: 200},
		},
		{
			name:      "narrower than one item",
			width:     40,
			sizes:     uniform(3, 100, 20),
			wantRows:  []int{1, 1, 1},
			wantTotal: geom.Size{Width: 100, Height: 60},
		},
		{
			name:  "row height is tallest item",
			width: 1000,
			sizes: []geom.Size{
				{Width: 10, Height: 5}, {Width: 10, Height: 30}, {Width: 10, Height: 15},
			},
			wantRows:  []int{3},
			wantTotal: geom.Size{Width: 30, Height: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wrap{}
			w.Measure(geom.Size{Width: tt.width, Height: 500}, tt.sizes, false)

			if w.Rows() != len(tt.wantRows) {
				t.Fatalf("Rows() = %d, want %d", w.Rows(), len(tt.wantRows))
			}
			for r, n := range tt.wantRows {
				if got := w.RowLen(r); got != n {
					t.Errorf("RowLen(%d) = %d, want %d", r, got, n)
				}
			}
			if got := w.ResultSize(); got != tt.wantTotal {
				t.Errorf("ResultSize() = %v, want %v", got, tt.wantTotal)
			}
		})
	}
}

func TestWrapIndexAtMidpointBias(t *testing.T) {
	// One narrow item followed by a wide one: the boundary sits halfway
	// between their centers (10 and 70), not on the shared edge at 20.
	w := &Wrap{}
	w.Measure(geom.Size{Width: 500, Height: 100},
		[]geom.Size{{Width: 20, Height: 10}, {Width: 100, Height: 10}}, false)

	tests := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{25, 0},
		{39.9, 0},
		{40, 1},
		{110, 1},
	}

	for _, tt := range tests {
		if got := w.IndexAt(geom.Point{X: tt.x, Y: 5}); got != tt.want {
			t.Errorf("IndexAt(x=%v) = %d, want %d", tt.x, got, tt.want)
		}
	}

	// Equal widths: halfway between the centers is the shared edge.
	w.Measure(geom.Size{Width: 500, Height: 100},
		[]geom.Size{{Width: 100, Height: 10}, {Width: 100, Height: 10}}, false)
	if got := w.IndexAt(geom.Point{X: 99.9, Y: 5}); got != 0 {
		t.Errorf("IndexAt(x=99.9) = %d, want 0", got)
	}
	if got := w.IndexAt(geom.Point{X: 100, Y: 5}); got != 1 {
		t.Errorf("IndexAt(x=100) = %d, want 1", got)
	}
}

func TestWrapIndexAtRows(t *testing.T) {
	w := &Wrap{}
	w.Measure(geom.Size{Width: 250, Height: 500}, uniform(5, 100, 40), false)

	tests := []struct {
		p    geom.Point
		want int
	}{
		{geom.Point{X: 10, Y: 10}, 0},
		{geom.Point{X: 150, Y: 10}, 1},
		{geom.Point{X: 10, Y: 50}, 2},
		{geom.Point{X: 150, Y: 50}, 3},
		{geom.Point{X: 150, Y: 90}, 4}, // last row has a single item
		{geom.Point{X: 10, Y: 999}, 4},
	}

	for _, tt := range tests {
		if got := w.IndexAt(tt.p); got != tt.want {
			t.Errorf("IndexAt(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestWrapFreezesRowHeightsWhileDragging(t *testing.T) {
	w := &Wrap{}
	available := geom.Size{Width: 250, Height: 500}
	w.Measure(available, []geom.Size{
		{Width: 100, Height: 80}, {Width: 100, Height: 20},
		{Width: 100, Height: 20}, {Width: 100, Height: 20},
	}, false)

	// The tall item moved to the second row mid-drag.
	dragged := []geom.Size{
		{Width: 100, Height: 20}, {Width: 100, Height: 20},
		{Width: 100, Height: 80}, {Width: 100, Height: 20},
	}
	w.Measure(available, dragged, true)
	if got := w.Info(0).RowHeight; got != 80 {
		t.Errorf("frozen row 0 height = %v, want 80", got)
	}

	w.Measure(available, dragged, false)
	if got := w.Info(0).RowHeight; got != 20 {
		t.Errorf("row 0 height after drag = %v, want 20", got)
	}
	if got := w.Info(2).RowHeight; got != 80 {
		t.Errorf("row 1 height after drag = %v, want 80", got)
	}
}

func TestTableColumnSelection(t *testing.T) {
	tests := []struct {
		name        string
		width       float64
		sizes       []geom.Size
		wantColumns int
		wantRows    int
	}{
		{"nine by fifty", 170, uniform(9, 50, 10), 3, 3},
		{"all fit", 1000, uniform(4, 50, 10), 4, 1},
		{"exact fit rejected", 200, uniform(4, 50, 10), 3, 2},
		{"nothing fits", 10, uniform(4, 50, 10), 1, 4},
		{
			name:  "column widths from widest member",
			width: 200,
			sizes: []geom.Size{
				{Width: 120, Height: 10}, {Width: 10, Height: 10},
				{Width: 10, Height: 10}, {Width: 10, Height: 10},
			},
			// 3 columns: 120+10+10 = 140 < 200; 4 columns: 150 < 200.
			wantColumns: 4,
			wantRows:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := &Table{}
			tbl.Measure(geom.Size{Width: tt.width, Height: 500}, tt.sizes, false)

			if got := tbl.Columns(); got != tt.wantColumns {
				t.Errorf("Columns() = %d, want %d", got, tt.wantColumns)
			}
			if got := tbl.Rows(); got != tt.wantRows {
				t.Errorf("Rows() = %d, want %d", got, tt.wantRows)
			}
		})
	}
}

func TestTableSlots(t *testing.T) {
	tbl := &Table{}
	tbl.Measure(geom.Size{Width: 100, Height: 500}, []geom.Size{
		{Width: 30, Height: 10}, {Width: 20, Height: 40},
		{Width: 50, Height: 5},
	}, false)

	// 2 columns: max(30,50)+20 = 70 < 100; 3 columns: 100, not < 100.
	if tbl.Columns() != 2 {
		t.Fatalf("Columns() = %d, want 2", tbl.Columns())
	}

	tests := []struct {
		index int
		want  geom.Rect
	}{
		{0, geom.Rect{X: 0, Y: 0, Width: 50, Height: 40}},
		{1, geom.Rect{X: 50, Y: 0, Width: 20, Height: 40}},
		{2, geom.Rect{X: 0, Y: 40, Width: 50, Height: 5}},
	}
	for _, tt := range tests {
		if got := tbl.SlotAt(tt.index); got != tt.want {
			t.Errorf("SlotAt(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}

	if got := tbl.ResultSize(); got != (geom.Size{Width: 70, Height: 45}) {
		t.Errorf("ResultSize() = %v", got)
	}

	// The empty cell in the last row resolves to the last item.
	if got := tbl.IndexAt(geom.Point{X: 60, Y: 42}); got != 2 {
		t.Errorf("IndexAt(empty cell) = %d, want 2", got)
	}
}

func TestTableFreezesWhileDragging(t *testing.T) {
	tbl := &Table{}
	tbl.Measure(geom.Size{Width: 170, Height: 500}, uniform(9, 50, 10), false)

	// A drag-time measurement against a much wider container must not
	// reflow the grid or change the row heights.
	tall := uniform(9, 50, 10)
	tall[0] = geom.Size{Width: 60, Height: 99}
	tbl.Measure(geom.Size{Width: 1000, Height: 500}, tall, true)

	if tbl.Columns() != 3 || tbl.Rows() != 3 {
		t.Fatalf("grid reflowed during drag: %dx%d", tbl.Columns(), tbl.Rows())
	}
	if got := tbl.Info(0).RowHeight; got != 10 {
		t.Errorf("row height during drag = %v, want frozen 10", got)
	}
	if got := tbl.Info(0).ColumnWidth; got != 60 {
		t.Errorf("column width during drag = %v, want floating 60", got)
	}

	tbl.Measure(geom.Size{Width: 1000, Height: 500}, tall, false)
	if tbl.Columns() != 9 {
		t.Errorf("Columns() after drag = %d, want 9", tbl.Columns())
	}
	if got := tbl.Info(0).RowHeight; got != 99 {
		t.Errorf("row height after drag = %v, want 99", got)
	}
}

func TestLinearStrategies(t *testing.T) {
	sizes := []geom.Size{{Width: 10, Height: 30}, {Width: 40, Height: 20}, {Width: 25, Height: 50}}

	row := &Row{}
	row.Measure(geom.Size{Width: 1, Height: 1}, sizes, false)
	if got := row.ResultSize(); got != (geom.Size{Width: 75, Height: 50}) {
		t.Errorf("Row ResultSize() = %v", got)
	}
	if got := row.SlotAt(2); got != (geom.Rect{X: 50, Width: 25, Height: 50}) {
		t.Errorf("Row SlotAt(2) = %v", got)
	}
	if got := row.IndexAt(geom.Point{X: 49.9}); got != 1 {
		t.Errorf("Row IndexAt(49.9) = %d, want 1", got)
	}
	if got := row.Info(1); got != (Info{Row: 0, Column: 1, ColumnWidth: 40, RowHeight: 50}) {
		t.Errorf("Row Info(1) = %+v", got)
	}

	col := &Column{}
	col.Measure(geom.Size{Width: 1, Height: 1}, sizes, false)
	if got := col.ResultSize(); got != (geom.Size{Width: 40, Height: 100}) {
		t.Errorf("Column ResultSize() = %v", got)
	}
	if got := col.SlotAt(1); got != (geom.Rect{Y: 30, Width: 40, Height: 20}) {
		t.Errorf("Column SlotAt(1) = %v", got)
	}
	if got := col.IndexAt(geom.Point{Y: 50}); got != 2 {
		t.Errorf("Column IndexAt(50) = %d, want 2", got)
	}
	if got := col.Info(2); got != (Info{Row: 2, Column: 0, ColumnWidth: 40, RowHeight: 50}) {
		t.Errorf("Column Info(2) = %+v", got)
	}
}
