package panel

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/layout"
	"github.com/matzehuels/tilepanel/pkg/zoom"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultAnimationDuration is the transition length for re-layouts.
	DefaultAnimationDuration = 75 * time.Millisecond

	// DefaultMinItemSize is the smallest item dimension a zoom step may
	// produce.
	DefaultMinItemSize = zoom.DefaultMinItemSize

	// DefaultMaxItemSize is the largest item dimension a zoom step may
	// produce.
	DefaultMaxItemSize = zoom.DefaultMaxItemSize
)

// Easing ratios sent with every transition: the first 20% of the duration
// accelerates and the last 70% decelerates.
const (
	EaseInRatio  = 0.2
	EaseOutRatio = 0.7
)

// =============================================================================
// Config
// =============================================================================

// Config holds the user-facing panel settings. Use the Panel setters to
// change them after construction.
type Config struct {
	FillType          layout.FillType `toml:"fill_type" json:"fill_type"`
	AnimationDuration time.Duration   `toml:"-" json:"animation_duration"`
	AutoSizeMode      bool            `toml:"auto_size" json:"auto_size"`
	MinItemSize       float64         `toml:"min_item_size" json:"min_item_size"`
	MaxItemSize       float64         `toml:"max_item_size" json:"max_item_size"`
}

// DefaultConfig returns a configuration with every field at its default.
func DefaultConfig() Config {
	return Config{
		FillType:          layout.DefaultFillType,
		AnimationDuration: DefaultAnimationDuration,
		MinItemSize:       DefaultMinItemSize,
		MaxItemSize:       DefaultMaxItemSize,
	}
}

// SetDefaults fills unset fields. A zero AnimationDuration is a valid
// setting (no animation) and is left alone.
func (c *Config) SetDefaults() {
	if c.FillType == "" {
		c.FillType = layout.DefaultFillType
	}
	if c.MinItemSize == 0 {
		c.MinItemSize = DefaultMinItemSize
	}
	if c.MaxItemSize == 0 {
		c.MaxItemSize = DefaultMaxItemSize
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := layout.ValidateFillType(c.FillType); err != nil {
		return err
	}
	if c.AnimationDuration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation duration must be >= 0, got %v", c.AnimationDuration)
	}
	if c.MinItemSize < 0 || math.IsNaN(c.MinItemSize) {
		return errors.New(errors.ErrCodeInvalidConfig, "min item size must be >= 0, got %v", c.MinItemSize)
	}
	if c.MaxItemSize < c.MinItemSize || math.IsNaN(c.MaxItemSize) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max item size %v is below min item size %v", c.MaxItemSize, c.MinItemSize)
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options wires a panel to its collaborators. Every field is optional.
type Options struct {
	// Logger receives debug traces of layout passes and swaps.
	Logger *log.Logger

	// Animator performs transitions. Without one, transitions are only
	// recorded as the panel's visual positions.
	Animator Animator

	// Swap replaces the default remove-then-insert reorder.
	Swap SwapFunc

	// Zoom tunes the wheel steps and scrollbar allowance. Bounds come from
	// Config.
	Zoom zoom.Config

	// OnConfigChanged is called with the setting name after a setter
	// takes effect.
	OnConfigChanged func(name string)
}

// Setting names passed to Options.OnConfigChanged.
const (
	SettingFillType           = "fill_type"
	SettingAnimationDuration  = "animation_duration"
	SettingAutoSizeMode       = "auto_size"
	SettingItemSizeBounds     = "item_size_bounds"
	SettingItemSizeMultiplier = "item_size_multiplier"
)
