// Package zoom implements the resize engine that rescales panel items.
//
// Two triggers change item sizes. A wheel step multiplies every item by
// [Config.StepUp] or [Config.StepDown] at once, and is rejected as a whole
// when the result would leave the [Config.MinItemSize, Config.MaxItemSize]
// band. Auto-fit, used only by the row and column fill types, scales every
// item so the cross-axis of the tallest (or widest) item matches the
// available container extent. Leaving auto-fit applies one corrective
// factor if the fitted sizes ended up outside the band.
//
// Every applied factor is folded into [Engine.Multiplier], so the
// cumulative scale relative to the items' original sizes is always known.
package zoom

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/layout"
	"github.com/matzehuels/tilepanel/pkg/observability"
)

// Default configuration values.
const (
	DefaultMinItemSize        = 100
	DefaultMaxItemSize        = 1500
	DefaultStepUp             = 1.1
	DefaultStepDown           = 0.9
	DefaultScrollbarAllowance = 22 // scrollbar width 17 + offset 5
)

// Sizer is an item whose target size can be read and replaced.
type Sizer interface {
	Size() geom.Size
	SetSize(geom.Size)
}

// =============================================================================
// Configuration
// =============================================================================

// Config bounds and parameterizes the resize engine.
type Config struct {
	MinItemSize        float64
	MaxItemSize        float64
	StepUp             float64
	StepDown           float64
	ScrollbarAllowance float64
}

// SetDefaults fills zero values with the package defaults.
func (c *Config) SetDefaults() {
	if c.MinItemSize == 0 {
		c.MinItemSize = DefaultMinItemSize
	}
	if c.MaxItemSize == 0 {
		c.MaxItemSize = DefaultMaxItemSize
	}
	if c.StepUp == 0 {
		c.StepUp = DefaultStepUp
	}
	if c.StepDown == 0 {
		c.StepDown = DefaultStepDown
	}
	if c.ScrollbarAllowance == 0 {
		c.ScrollbarAllowance = DefaultScrollbarAllowance
	}
}

// Validate checks that the bounds and steps are usable.
func (c Config) Validate() error {
	switch {
	case c.MinItemSize < 0 || math.IsNaN(c.MinItemSize):
		return errors.New(errors.ErrCodeInvalidConfig, "min item size must be non-negative, got %v", c.MinItemSize)
	case c.MaxItemSize < c.MinItemSize || math.IsNaN(c.MaxItemSize):
		return errors.New(errors.ErrCodeInvalidConfig,
			"max item size %v is below min item size %v", c.MaxItemSize, c.MinItemSize)
	case c.StepUp <= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "zoom step up must be greater than 1, got %v", c.StepUp)
	case c.StepDown <= 0 || c.StepDown >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "zoom step down must be in (0, 1), got %v", c.StepDown)
	case c.ScrollbarAllowance < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "scrollbar allowance must be non-negative, got %v", c.ScrollbarAllowance)
	}
	return nil
}

// =============================================================================
// Engine
// =============================================================================

// Engine holds the zoom state of one panel.
type Engine struct {
	cfg        Config
	multiplier float64
	autoSize   bool
	logger     *log.Logger
}

// New returns an engine with a multiplier of 1 and auto-fit off. Zero
// fields of cfg take their defaults.
func New(cfg Config, logger *log.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{cfg: cfg, multiplier: 1, logger: logger}, nil
}

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// Multiplier is the product of every factor applied so far.
func (e *Engine) Multiplier() float64 { return e.multiplier }

// AutoSize reports whether auto-fit mode is on.
func (e *Engine) AutoSize() bool { return e.autoSize }

// SetBounds replaces the min/max item sizes.
func (e *Engine) SetBounds(minSize, maxSize float64) error {
	cfg := e.cfg
	cfg.MinItemSize, cfg.MaxItemSize = minSize, maxSize
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// Wheel applies one zoom step to every item and reports whether the step
// was applied. A step that would push the largest item dimension above
// MaxItemSize (enlarge) or the smallest below MinItemSize (shrink) is
// rejected without touching any item. Wheel steps are ignored while
// auto-fit controls a linear layout.
func (e *Engine) Wheel(items []Sizer, enlarge bool, ft layout.FillType) bool {
	if len(items) == 0 || (e.autoSize && ft.IsLinear()) {
		return false
	}

	step := e.cfg.StepDown
	if enlarge {
		step = e.cfg.StepUp
	}

	lo, hi := extents(items)
	rejected := (enlarge && hi*step > e.cfg.MaxItemSize) || (!enlarge && lo*step < e.cfg.MinItemSize)
	if rejected {
		e.logger.Debug("zoom step rejected", "step", step, "min", lo, "max", hi)
		observability.Zoom().OnZoom(step, false, e.multiplier)
		return false
	}

	e.resize(items, step)
	observability.Zoom().OnZoom(step, true, e.multiplier)
	return true
}

// SetAutoSize switches auto-fit mode. Turning it on fits items to
// available immediately. Turning it off on a linear layout brings items
// that ended up outside the size bounds back into range. It reports
// whether any item was resized.
func (e *Engine) SetAutoSize(on bool, items []Sizer, ft layout.FillType, available geom.Size) bool {
	if e.autoSize == on {
		return false
	}
	e.autoSize = on
	if on {
		return e.AutoFit(items, ft, available)
	}
	if !ft.IsLinear() {
		return false
	}
	return e.correct(items)
}

// AutoFit scales items so their largest cross-axis extent fills available
// minus the scrollbar allowance: height for the row fill type, width for
// the column fill type. It does nothing unless auto-fit mode is on and the
// layout is linear.
func (e *Engine) AutoFit(items []Sizer, ft layout.FillType, available geom.Size) bool {
	if !e.autoSize || !ft.IsLinear() || len(items) == 0 || !available.Valid() {
		return false
	}

	var target, largest float64
	if ft == layout.FillRow {
		target = available.Height - e.cfg.ScrollbarAllowance
		for _, it := range items {
			largest = math.Max(largest, it.Size().Height)
		}
	} else {
		target = available.Width - e.cfg.ScrollbarAllowance
		for _, it := range items {
			largest = math.Max(largest, it.Size().Width)
		}
	}
	if target <= 0 || largest <= 0 || math.IsInf(target, 0) {
		return false
	}

	factor := target / largest
	if factor == 1 {
		return false
	}
	e.resize(items, factor)
	observability.Zoom().OnAutoFit(factor, e.multiplier)
	return true
}

// correct applies MaxItemSize/max when items are too large, otherwise
// MinItemSize/min when they are too small.
func (e *Engine) correct(items []Sizer) bool {
	if len(items) == 0 {
		return false
	}
	lo, hi := extents(items)

	var factor float64
	switch {
	case hi > e.cfg.MaxItemSize:
		factor = e.cfg.MaxItemSize / hi
	case lo < e.cfg.MinItemSize && lo > 0:
		factor = e.cfg.MinItemSize / lo
	default:
		return false
	}
	e.resize(items, factor)
	observability.Zoom().OnAutoFit(factor, e.multiplier)
	return true
}

func (e *Engine) resize(items []Sizer, factor float64) {
	e.multiplier *= factor
	for _, it := range items {
		it.SetSize(it.Size().Scale(factor))
	}
	e.logger.Debug("items resized", "factor", factor, "multiplier", e.multiplier, "items", len(items))
}

// extents returns the smallest and largest dimension over all items.
func extents(items []Sizer) (lo, hi float64) {
	lo = math.Inf(1)
	for _, it := range items {
		s := it.Size()
		lo = math.Min(lo, math.Min(s.Width, s.Height))
		hi = math.Max(hi, math.Max(s.Width, s.Height))
	}
	return lo, hi
}
