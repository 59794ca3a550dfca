// Package layout provides the pluggable arrangement strategies used by the
// panel: single row, single column, grid table and greedy line wrap.
//
// # Overview
//
// A [Strategy] is a pure function of the ordered item sizes. [Strategy.Measure]
// computes every slot in one pass and caches it; the query methods
// ([Strategy.SlotAt], [Strategy.IndexAt], [Strategy.Info]) only read that
// cache. Measuring twice with the same inputs produces the same result.
//
// # Strategies
//
//   - [Row]: items side by side, each keeping its own width, all sharing the
//     tallest height.
//   - [Column]: items stacked, each keeping its own height, all sharing the
//     widest width.
//   - [Wrap]: items packed left to right; a row ends when adding the next
//     item would make its width reach the available width.
//   - [Table]: items packed row-major into the largest column count whose
//     summed column widths stay below the available width.
//
// # Dragging
//
// While the dragging flag is set, [Table] keeps its column count and row
// heights from the last regular measurement and [Wrap] keeps its row
// heights, so the grid does not reflow under the pointer. Only column
// widths float.
//
// # Degenerate input
//
// An empty item list or an invalid available size (NaN or negative) yields
// a zero [Strategy.ResultSize], zero slots and [NoIndex] from
// [Strategy.IndexAt]. Out-of-range indices passed to the queries are
// clamped. Nothing in this package panics on geometry.
package layout
