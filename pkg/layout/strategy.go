package layout

import (
	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/geom"
)

// NoIndex is returned by IndexAt when there is nothing to hit.
const NoIndex = -1

// =============================================================================
// Fill Types
// =============================================================================

// FillType selects a layout strategy.
type FillType string

// Supported fill types.
const (
	FillRow    FillType = "row"
	FillColumn FillType = "column"
	FillTable  FillType = "table"
	FillWrap   FillType = "wrap"
)

// DefaultFillType is the fill type used when none is configured.
const DefaultFillType = FillWrap

// FillTypes lists the supported fill types in cycling order.
var FillTypes = []FillType{FillRow, FillColumn, FillTable, FillWrap}

// ValidFillTypes is the set of supported fill types.
var ValidFillTypes = map[FillType]bool{
	FillRow:    true,
	FillColumn: true,
	FillTable:  true,
	FillWrap:   true,
}

// ValidateFillType checks that a fill type is supported.
func ValidateFillType(ft FillType) error {
	if !ValidFillTypes[ft] {
		return errors.New(errors.ErrCodeInvalidFillType,
			"invalid fill type: %q (must be one of: row, column, table, wrap)", string(ft))
	}
	return nil
}

// ParseFillType converts a configuration string to a FillType.
func ParseFillType(s string) (FillType, error) {
	ft := FillType(s)
	if err := ValidateFillType(ft); err != nil {
		return "", err
	}
	return ft, nil
}

// Next returns the fill type after ft in FillTypes, wrapping around.
func (ft FillType) Next() FillType {
	for i, f := range FillTypes {
		if f == ft {
			return FillTypes[(i+1)%len(FillTypes)]
		}
	}
	return DefaultFillType
}

// IsLinear reports whether ft lays items out along a single axis.
func (ft FillType) IsLinear() bool { return ft == FillRow || ft == FillColumn }

// =============================================================================
// Strategy
// =============================================================================

// Info describes where one item sits in a measured layout.
type Info struct {
	Row         int
	Column      int
	ColumnWidth float64
	RowHeight   float64
}

// Slot is the rectangle and grid coordinates assigned to one item.
type Slot struct {
	Rect geom.Rect
	Info
}

// Strategy turns an ordered list of item sizes into slots.
type Strategy interface {
	// Measure computes and caches the slots for sizes. When dragging is
	// true, row/column boundaries from the previous regular measurement
	// are kept where the strategy supports it.
	Measure(available geom.Size, sizes []geom.Size, dragging bool)

	// ResultSize is the total size of the last measured layout.
	ResultSize() geom.Size

	// Len is the number of items in the last measured layout.
	Len() int

	// SlotAt returns the slot rectangle of the item at index.
	SlotAt(index int) geom.Rect

	// IndexAt returns the index of the slot under p.
	IndexAt(p geom.Point) int

	// Info returns the row/column placement of the item at index.
	Info(index int) Info
}

// New returns a fresh strategy for ft.
func New(ft FillType) (Strategy, error) {
	switch ft {
	case FillRow:
		return &Row{}, nil
	case FillColumn:
		return &Column{}, nil
	case FillTable:
		return &Table{}, nil
	case FillWrap:
		return &Wrap{}, nil
	}
	return nil, ValidateFillType(ft)
}

// SlotOf combines SlotAt and Info for index.
func SlotOf(s Strategy, index int) Slot {
	return Slot{Rect: s.SlotAt(index), Info: s.Info(index)}
}

// =============================================================================
// Helpers
// =============================================================================

// sanitize copies sizes, replacing NaN and negative dimensions with zero.
func sanitize(sizes []geom.Size) []geom.Size {
	out := make([]geom.Size, len(sizes))
	for i, s := range sizes {
		out[i] = s.Sanitize()
	}
	return out
}

// clampIndex maps index into [0, n-1]. It returns NoIndex when n is zero.
func clampIndex(index, n int) int {
	switch {
	case n == 0:
		return NoIndex
	case index < 0:
		return 0
	case index >= n:
		return n - 1
	}
	return index
}

// hit inverts a run of consecutive extents: it returns the first i with
// v < sum(extents[:i+1]), the first index for anything before the run and
// the last index for anything past it.
func hit(extents []float64, v float64) int {
	if len(extents) == 0 {
		return NoIndex
	}
	var end float64
	for i, e := range extents {
		end += e
		if v < end {
			return i
		}
	}
	return len(extents) - 1
}

// sum adds the first n values.
func sum(values []float64, n int) float64 {
	var total float64
	for i := 0; i < n && i < len(values); i++ {
		total += values[i]
	}
	return total
}
