package zoom

import (
	"math"
	"testing"

	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/layout"
)

type box struct{ size geom.Size }

func (b *box) Size() geom.Size     { return b.size }
func (b *box) SetSize(s geom.Size) { b.size = s }

func boxes(sizes ...geom.Size) []Sizer {
	out := make([]Sizer, len(sizes))
	for i, s := range sizes {
		out[i] = &box{size: s}
	}
	return out
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.MinItemSize != 100 || cfg.MaxItemSize != 1500 || cfg.ScrollbarAllowance != 22 {
		t.Errorf("defaults = %+v", cfg)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"min above max", Config{MinItemSize: 200, MaxItemSize: 100, StepUp: 1.1, StepDown: 0.9}},
		{"negative min", Config{MinItemSize: -1, MaxItemSize: 100, StepUp: 1.1, StepDown: 0.9}},
		{"step up not enlarging", Config{MinItemSize: 1, MaxItemSize: 100, StepUp: 1, StepDown: 0.9}},
		{"step down not shrinking", Config{MinItemSize: 1, MaxItemSize: 100, StepUp: 1.1, StepDown: 1.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want invalid config", err)
			}
		})
	}
}

func TestWheel(t *testing.T) {
	tests := []struct {
		name      string
		sizes     []geom.Size
		enlarge   bool
		wantOK    bool
		wantFirst geom.Size
	}{
		{
			name:      "shrink below min rejected",
			sizes:     []geom.Size{{Width: 101, Height: 200}, {Width: 300, Height: 300}},
			enlarge:   false,
			wantOK:    false,
			wantFirst: geom.Size{Width: 101, Height: 200},
		},
		{
			name:      "shrink within bounds",
			sizes:     []geom.Size{{Width: 200, Height: 400}},
			enlarge:   false,
			wantOK:    true,
			wantFirst: geom.Size{Width: 180, Height: 360},
		},
		{
			name:      "enlarge above max rejected",
			sizes:     []geom.Size{{Width: 1400, Height: 200}},
			enlarge:   true,
			wantOK:    false,
			wantFirst: geom.Size{Width: 1400, Height: 200},
		},
		{
			name:      "enlarge small items",
			sizes:     []geom.Size{{Width: 50, Height: 100}},
			enlarge:   true,
			wantOK:    true,
			wantFirst: geom.Size{Width: 55, Height: 110},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, Config{})
			items := boxes(tt.sizes...)

			if got := e.Wheel(items, tt.enlarge, layout.FillWrap); got != tt.wantOK {
				t.Fatalf("Wheel() = %v, want %v", got, tt.wantOK)
			}
			got := items[0].Size()
			if !approx(got.Width, tt.wantFirst.Width) || !approx(got.Height, tt.wantFirst.Height) {
				t.Errorf("first item = %v, want %v", got, tt.wantFirst)
			}
			wantMul := 1.0
			if tt.wantOK {
				wantMul = 0.9
				if tt.enlarge {
					wantMul = 1.1
				}
			}
			if !approx(e.Multiplier(), wantMul) {
				t.Errorf("Multiplier() = %v, want %v", e.Multiplier(), wantMul)
			}
		})
	}
}

func TestWheelKeepsProportions(t *testing.T) {
	e := newEngine(t, Config{})
	items := boxes(geom.Size{Width: 200, Height: 300}, geom.Size{Width: 400, Height: 150})

	for range 3 {
		e.Wheel(items, true, layout.FillTable)
	}
	a, b := items[0].Size(), items[1].Size()
	if !approx(a.Width/b.Width, 0.5) || !approx(a.Height/b.Height, 2) {
		t.Errorf("proportions drifted: %v %v", a, b)
	}
	if !approx(e.Multiplier(), 1.1*1.1*1.1) {
		t.Errorf("Multiplier() = %v, want cumulative 1.331", e.Multiplier())
	}
}

func TestWheelIgnoredDuringLinearAutoFit(t *testing.T) {
	e := newEngine(t, Config{})
	items := boxes(geom.Size{Width: 200, Height: 200})
	e.SetAutoSize(true, items, layout.FillRow, geom.Size{Width: 1000, Height: 222})

	before := items[0].Size()
	if e.Wheel(items, true, layout.FillRow) {
		t.Error("Wheel should be ignored while auto-fit owns a row layout")
	}
	if items[0].Size() != before {
		t.Errorf("item resized: %v -> %v", before, items[0].Size())
	}
}

func TestAutoFit(t *testing.T) {
	tests := []struct {
		name      string
		ft        layout.FillType
		available geom.Size
		sizes     []geom.Size
		wantOK    bool
		want      []geom.Size
	}{
		{
			name:      "row fits height",
			ft:        layout.FillRow,
			available: geom.Size{Width: 1000, Height: 422},
			sizes:     []geom.Size{{Width: 100, Height: 200}, {Width: 50, Height: 100}},
			wantOK:    true,
			want:      []geom.Size{{Width: 200, Height: 400}, {Width: 100, Height: 200}},
		},
		{
			name:      "column fits width",
			ft:        layout.FillColumn,
			available: geom.Size{Width: 122, Height: 10},
			sizes:     []geom.Size{{Width: 400, Height: 40}},
			wantOK:    true,
			want:      []geom.Size{{Width: 100, Height: 10}},
		},
		{
			name:      "wrap is not fitted",
			ft:        layout.FillWrap,
			available: geom.Size{Width: 500, Height: 500},
			sizes:     []geom.Size{{Width: 100, Height: 100}},
			wantOK:    false,
			want:      []geom.Size{{Width: 100, Height: 100}},
		},
		{
			name:      "container smaller than allowance",
			ft:        layout.FillRow,
			available: geom.Size{Width: 500, Height: 20},
			sizes:     []geom.Size{{Width: 100, Height: 100}},
			wantOK:    false,
			want:      []geom.Size{{Width: 100, Height: 100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, Config{})
			items := boxes(tt.sizes...)

			if got := e.SetAutoSize(true, items, tt.ft, tt.available); got != tt.wantOK {
				t.Fatalf("SetAutoSize(true) = %v, want %v", got, tt.wantOK)
			}
			for i, w := range tt.want {
				got := items[i].Size()
				if !approx(got.Width, w.Width) || !approx(got.Height, w.Height) {
					t.Errorf("item %d = %v, want %v", i, got, w)
				}
			}
		})
	}
}

func TestExitAutoFitCorrects(t *testing.T) {
	tests := []struct {
		name      string
		available geom.Size
		wantMax   float64
		wantMin   float64
	}{
		// Fitted to 2000 high, then pulled back to the 1500 max.
		{"too large", geom.Size{Width: 100, Height: 2022}, 1500, 750},
		// Fitted to 60 high (smallest 30), then pushed up to the 100 min.
		{"too small", geom.Size{Width: 100, Height: 82}, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, Config{})
			items := boxes(geom.Size{Width: 50, Height: 100}, geom.Size{Width: 100, Height: 100})

			e.SetAutoSize(true, items, layout.FillRow, tt.available)
			if !e.SetAutoSize(false, items, layout.FillRow, tt.available) {
				t.Fatal("leaving auto-fit should correct out-of-range items")
			}
			lo, hi := extents(items)
			if !approx(hi, tt.wantMax) || !approx(lo, tt.wantMin) {
				t.Errorf("extents = (%v, %v), want (%v, %v)", lo, hi, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestExitAutoFitInRange(t *testing.T) {
	e := newEngine(t, Config{})
	items := boxes(geom.Size{Width: 200, Height: 200})

	e.SetAutoSize(true, items, layout.FillRow, geom.Size{Width: 100, Height: 322})
	if e.SetAutoSize(false, items, layout.FillRow, geom.Size{}) {
		t.Error("in-range items should not be corrected")
	}
	if e.SetAutoSize(false, items, layout.FillRow, geom.Size{}) {
		t.Error("switching off twice should be a no-op")
	}
}

func TestSetBounds(t *testing.T) {
	e := newEngine(t, Config{})
	if err := e.SetBounds(50, 10); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("SetBounds(50, 10) = %v", err)
	}
	if err := e.SetBounds(10, 50); err != nil {
		t.Fatalf("SetBounds(10, 50): %v", err)
	}
	if cfg := e.Config(); cfg.MinItemSize != 10 || cfg.MaxItemSize != 50 {
		t.Errorf("Config() = %+v", cfg)
	}
}
