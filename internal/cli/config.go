package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tilepanel/pkg/collection"
	"github.com/matzehuels/tilepanel/pkg/drag"
	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/layout"
	"github.com/matzehuels/tilepanel/pkg/panel"
)

// =============================================================================
// Config File
// =============================================================================

// fileConfig mirrors config.toml:
//
//	[panel]
//	fill_type = "wrap"
//	animation_ms = 75
//	auto_size = false
//	min_item_size = 100
//	max_item_size = 1500
//
//	[drag]
//	press_delay_ms = 40
//	start_shift = 10
//
//	[demo]
//	tiles = "~/tiles.toml"
//	cell_width = 10
//	cell_height = 20
type fileConfig struct {
	Panel panelSection `toml:"panel"`
	Drag  dragSection  `toml:"drag"`
	Demo  demoSection  `toml:"demo"`
}

type panelSection struct {
	FillType string `toml:"fill_type"`
	// AnimationMS is a pointer so an explicit 0 turns animation off.
	AnimationMS *int    `toml:"animation_ms"`
	AutoSize    bool    `toml:"auto_size"`
	MinItemSize float64 `toml:"min_item_size"`
	MaxItemSize float64 `toml:"max_item_size"`
}

type dragSection struct {
	PressDelayMS   int     `toml:"press_delay_ms"`
	StartShift     float64 `toml:"start_shift"`
	MoveEpsilon    float64 `toml:"move_epsilon"`
	MoveIntervalMS int     `toml:"move_interval_ms"`
}

// demoSection sets up the terminal host. Cell sizes convert between
// terminal cells and layout units.
type demoSection struct {
	Tiles      string  `toml:"tiles"`
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
}

const (
	defaultCellWidth  = 10
	defaultCellHeight = 20
)

func defaultFileConfig() fileConfig {
	var cfg fileConfig
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset demo values. Panel and drag defaults are applied
// by their own packages.
func (c *fileConfig) SetDefaults() {
	if c.Demo.CellWidth <= 0 {
		c.Demo.CellWidth = defaultCellWidth
	}
	if c.Demo.CellHeight <= 0 {
		c.Demo.CellHeight = defaultCellHeight
	}
}

// readConfig loads and validates a TOML config file.
func readConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	cfg.SetDefaults()
	if _, err := cfg.panelConfig(); err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.dragConfig().Validate(); err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// panelConfig converts the [panel] section, filling defaults.
func (c fileConfig) panelConfig() (panel.Config, error) {
	cfg := panel.DefaultConfig()
	if c.Panel.FillType != "" {
		ft, err := layout.ParseFillType(c.Panel.FillType)
		if err != nil {
			return panel.Config{}, err
		}
		cfg.FillType = ft
	}
	if c.Panel.AnimationMS != nil {
		cfg.AnimationDuration = time.Duration(*c.Panel.AnimationMS) * time.Millisecond
	}
	cfg.AutoSizeMode = c.Panel.AutoSize
	if c.Panel.MinItemSize != 0 {
		cfg.MinItemSize = c.Panel.MinItemSize
	}
	if c.Panel.MaxItemSize != 0 {
		cfg.MaxItemSize = c.Panel.MaxItemSize
	}
	if err := cfg.Validate(); err != nil {
		return panel.Config{}, err
	}
	return cfg, nil
}

// dragConfig converts the [drag] section, filling defaults.
func (c fileConfig) dragConfig() drag.Config {
	cfg := drag.Config{
		PressDelay:   time.Duration(c.Drag.PressDelayMS) * time.Millisecond,
		StartShift:   c.Drag.StartShift,
		MoveEpsilon:  c.Drag.MoveEpsilon,
		MoveInterval: time.Duration(c.Drag.MoveIntervalMS) * time.Millisecond,
	}
	cfg.SetDefaults()
	return cfg
}

// =============================================================================
// Tile Files
// =============================================================================

// tileFile mirrors a tile set document:
//
//	[[tile]]
//	label = "alpha"
//	width = 120
//	height = 60
type tileFile struct {
	Tiles []tileSpec `toml:"tile" json:"tiles"`
}

type tileSpec struct {
	ID     string  `toml:"id" json:"id,omitempty"`
	Label  string  `toml:"label" json:"label"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// readTiles loads a tile set into a collection. Tiles without an id keep
// the random id NewTile gives them. A leading ~/ is the home directory.
func readTiles(path string) (*collection.List, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, fmt.Errorf("read tiles: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tile file %s", path)
		}
		return nil, fmt.Errorf("read tiles: %w", err)
	}
	var f tileFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return f.list()
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, rest), nil
}

func (f tileFile) list() (*collection.List, error) {
	items := collection.New()
	for i, spec := range f.Tiles {
		if spec.Width <= 0 || spec.Height <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"tile %d (%q): size must be positive, got %vx%v", i, spec.Label, spec.Width, spec.Height)
		}
		label := spec.Label
		if label == "" {
			label = fmt.Sprintf("tile %d", i+1)
		}
		tile := collection.NewTile(label, geom.Size{Width: spec.Width, Height: spec.Height})
		if spec.ID != "" {
			tile.ID = spec.ID
		}
		items.Append(tile)
	}
	return items, nil
}

// sampleTiles returns n tiles cycling through a few sizes, used when no
// tile file is given.
func sampleTiles(n int) *collection.List {
	sizes := []geom.Size{
		{Width: 160, Height: 100},
		{Width: 120, Height: 140},
		{Width: 200, Height: 100},
		{Width: 120, Height: 100},
		{Width: 140, Height: 180},
	}
	names := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet", "kilo", "lima"}
	items := collection.New()
	for i := 0; i < n; i++ {
		label := names[i%len(names)]
		if i >= len(names) {
			label = fmt.Sprintf("%s-%d", label, i/len(names)+1)
		}
		items.Append(collection.NewTile(label, sizes[i%len(sizes)]))
	}
	return items
}
