package drag

import (
	"testing"
	"time"

	"github.com/matzehuels/tilepanel/pkg/collection"
	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/layout"
	"github.com/matzehuels/tilepanel/pkg/panel"
)

var _ Target = (*panel.Panel)(nil)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

// fixture lays out four 100x50 tiles in a single row: a b c d.
type fixture struct {
	items *collection.List
	panel *panel.Panel
	drag  *Engine
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	items := collection.New()
	for _, l := range []string{"a", "b", "c", "d"} {
		items.Append(collection.NewTile(l, geom.Size{Width: 100, Height: 50}))
	}
	p, err := panel.New(items, panel.DefaultConfig(), panel.Options{})
	if err != nil {
		t.Fatalf("panel.New: %v", err)
	}
	t.Cleanup(p.Close)
	if _, err := p.Layout(geom.Size{Width: 500, Height: 300}); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	e, err := New(p, Config{}, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{items: items, panel: p, drag: e}
}

func (f *fixture) order() string {
	var s string
	for _, it := range f.items.Items() {
		s += it.(*collection.Tile).Label
	}
	return s
}

// startDrag presses on item 0 and crosses both thresholds at 50ms.
func (f *fixture) startDrag(t *testing.T) {
	t.Helper()
	f.drag.PointerDown(geom.Point{X: 50, Y: 25}, at(0))
	if !f.drag.PointerMove(geom.Point{X: 65, Y: 25}, at(50)) {
		t.Fatal("drag did not start")
	}
}

type fakeScroller struct {
	state ScrollState
	lines []Direction
}

func (s *fakeScroller) ScrollState() ScrollState { return s.state }
func (s *fakeScroller) ScrollLine(d Direction)   { s.lines = append(s.lines, d) }

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.PressDelay != 40*time.Millisecond || cfg.StartShift != 10 ||
		cfg.MoveEpsilon != 10 || cfg.MoveInterval != 25*time.Millisecond {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := (Config{StartShift: -1}).Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Validate(negative shift) = %v", err)
	}
}

func TestDebounce(t *testing.T) {
	tests := []struct {
		name      string
		move      geom.Point
		elapsed   int
		wantState State
	}{
		{"too early", geom.Point{X: 65, Y: 25}, 20, PotentialDrag},
		{"held long enough", geom.Point{X: 65, Y: 25}, 50, Dragging},
		{"exactly the delay", geom.Point{X: 65, Y: 25}, 40, PotentialDrag},
		{"too small", geom.Point{X: 58, Y: 33}, 50, PotentialDrag},
		{"vertical shift", geom.Point{X: 50, Y: 36}, 50, Dragging},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.drag.PointerDown(geom.Point{X: 50, Y: 25}, at(0))
			if f.drag.State() != PotentialDrag {
				t.Fatalf("State() after press = %v", f.drag.State())
			}

			f.drag.PointerMove(tt.move, at(tt.elapsed))
			if got := f.drag.State(); got != tt.wantState {
				t.Errorf("State() = %v, want %v", got, tt.wantState)
			}
			if dragging := f.panel.DraggedIndex() != layout.NoIndex; dragging != (tt.wantState == Dragging) {
				t.Errorf("panel dragging = %v", dragging)
			}
		})
	}
}

func TestPressOnEmptyAreaNeverDrags(t *testing.T) {
	f := newFixture(t, Options{})
	f.drag.PointerDown(geom.Point{X: 450, Y: 25}, at(0))
	if f.drag.PointerMove(geom.Point{X: 400, Y: 25}, at(100)) {
		t.Error("move consumed without an item under the press")
	}
	if f.drag.State() != Idle {
		t.Errorf("State() = %v, want idle", f.drag.State())
	}
}

func TestClickReturnsToIdle(t *testing.T) {
	f := newFixture(t, Options{})
	f.drag.PointerDown(geom.Point{X: 50, Y: 25}, at(0))
	f.drag.PointerUp()
	if f.drag.State() != Idle {
		t.Errorf("State() = %v, want idle", f.drag.State())
	}
	if _, ok := f.drag.Session(); ok {
		t.Error("click created a session")
	}
}

func TestDragSwapsIntoSlot(t *testing.T) {
	f := newFixture(t, Options{})
	f.startDrag(t)

	s, ok := f.drag.Session()
	if !ok || s.DraggedIndex != 0 || s.CurrentIndex != 0 || s.FreeOffset != (geom.Point{}) {
		t.Fatalf("Session() = %+v, %v", s, ok)
	}

	// From the press point (50, 25) to the third slot.
	f.drag.PointerMove(geom.Point{X: 250, Y: 25}, at(100))

	if got := f.order(); got != "bcad" {
		t.Errorf("order = %s, want bcad", got)
	}
	s, _ = f.drag.Session()
	if s.DraggedIndex != 2 || s.CurrentIndex != 2 {
		t.Errorf("session indices = (%d, %d), want (2, 2)", s.DraggedIndex, s.CurrentIndex)
	}
	if s.FreeOffset != (geom.Point{X: 200, Y: 0}) {
		t.Errorf("FreeOffset = %v, want (200, 0)", s.FreeOffset)
	}
	if f.panel.DraggedIndex() != 2 {
		t.Errorf("panel DraggedIndex() = %d, want 2", f.panel.DraggedIndex())
	}
	if got := f.panel.ItemRect(2).Origin(); got != (geom.Point{X: 200}) {
		t.Errorf("dragged item drawn at %v", got)
	}

	f.drag.PointerUp()
	if f.drag.State() != Idle || f.panel.DraggedIndex() != layout.NoIndex {
		t.Errorf("after release: state %v, panel dragged %d", f.drag.State(), f.panel.DraggedIndex())
	}
	if got := f.panel.ItemRect(2).Origin(); got != (geom.Point{X: 200}) {
		t.Errorf("released item arranged at %v, want its slot (200, 0)", got)
	}
}

func TestMoveFiltering(t *testing.T) {
	f := newFixture(t, Options{})
	f.startDrag(t)

	// Below the displacement epsilon.
	f.drag.PointerMove(geom.Point{X: 58, Y: 30}, at(200))
	// Far enough, but only 10ms after the drag started.
	f.drag.PointerMove(geom.Point{X: 250, Y: 25}, at(60))

	if got := f.order(); got != "abcd" {
		t.Errorf("filtered moves reordered items: %s", got)
	}
	if s, _ := f.drag.Session(); s.FreeOffset != (geom.Point{}) {
		t.Errorf("filtered moves changed FreeOffset to %v", s.FreeOffset)
	}
}

func TestFreeOffsetClamped(t *testing.T) {
	f := newFixture(t, Options{})
	f.startDrag(t)

	f.drag.PointerMove(geom.Point{X: -500, Y: -500}, at(100))
	s, _ := f.drag.Session()
	if s.FreeOffset != (geom.Point{}) {
		t.Errorf("FreeOffset = %v, want clamped to (0, 0)", s.FreeOffset)
	}
	if got := f.order(); got != "abcd" {
		t.Errorf("order = %s, want abcd", got)
	}

	f.drag.PointerMove(geom.Point{X: 2000, Y: 2000}, at(200))
	s, _ = f.drag.Session()
	// Content is 500x300 and the item 100x50.
	if s.FreeOffset != (geom.Point{X: 400, Y: 250}) {
		t.Errorf("FreeOffset = %v, want (400, 250)", s.FreeOffset)
	}
	if s.DragBounds != (geom.Rect{Width: 400, Height: 250}) {
		t.Errorf("DragBounds = %v", s.DragBounds)
	}
	if got := f.order(); got != "bcda" {
		t.Errorf("order = %s, want bcda", got)
	}
}

func TestFreeOffsetRecoversAfterClamp(t *testing.T) {
	f := newFixture(t, Options{})
	f.drag.PointerDown(geom.Point{X: 350, Y: 25}, at(0))
	if !f.drag.PointerMove(geom.Point{X: 365, Y: 25}, at(50)) {
		t.Fatal("drag did not start")
	}

	f.drag.PointerMove(geom.Point{X: 1000, Y: 25}, at(100))
	s, _ := f.drag.Session()
	if s.FreeOffset != (geom.Point{X: 400}) {
		t.Fatalf("FreeOffset = %v, want clamped to (400, 0)", s.FreeOffset)
	}

	f.drag.PointerMove(geom.Point{X: 350, Y: 25}, at(200))
	s, _ = f.drag.Session()
	if s.FreeOffset != (geom.Point{X: 300}) {
		t.Errorf("FreeOffset = %v, want back at the grab position (300, 0)", s.FreeOffset)
	}
	if s.DraggedIndex != 3 || f.order() != "abcd" {
		t.Errorf("dragged %d, order %s, want 3 and abcd", s.DraggedIndex, f.order())
	}
	if got := f.panel.ItemRect(3).Origin(); got != (geom.Point{X: 300}) {
		t.Errorf("dragged item drawn at %v, want (300, 0)", got)
	}
}

func TestAutoscroll(t *testing.T) {
	tests := []struct {
		name   string
		offset geom.Point
		to     geom.Point
		want   []Direction
	}{
		{"right edge", geom.Point{}, geom.Point{X: 190, Y: 50}, []Direction{ScrollRight}},
		{"right wins over down", geom.Point{}, geom.Point{X: 190, Y: 95}, []Direction{ScrollRight}},
		{"bottom edge", geom.Point{}, geom.Point{X: 100, Y: 90}, []Direction{ScrollDown}},
		{"left edge at start", geom.Point{}, geom.Point{X: 5, Y: 50}, nil},
		{"left edge scrolled", geom.Point{X: 40}, geom.Point{X: -30, Y: 50}, []Direction{ScrollLeft}},
		{"top edge scrolled", geom.Point{Y: 40}, geom.Point{X: 100, Y: 45}, []Direction{ScrollUp}},
		{"right edge at end", geom.Point{X: 300}, geom.Point{X: 490, Y: 50}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &fakeScroller{state: ScrollState{
				Viewport: geom.Size{Width: 200, Height: 100},
				Extent:   geom.Size{Width: 500, Height: 300},
				Offset:   tt.offset,
				Origin:   geom.Point{X: -tt.offset.X, Y: -tt.offset.Y},
				FontSize: 10, // margin = min(20, 50)
			}}
			f := newFixture(t, Options{Scroller: sc})
			f.startDrag(t)

			f.drag.PointerMove(tt.to, at(100))
			if len(sc.lines) != len(tt.want) {
				t.Fatalf("scrolled %v, want %v", sc.lines, tt.want)
			}
			for i := range tt.want {
				if sc.lines[i] != tt.want[i] {
					t.Errorf("scroll %d = %v, want %v", i, sc.lines[i], tt.want[i])
				}
			}
		})
	}
}

func TestCaptureLostEndsDrag(t *testing.T) {
	f := newFixture(t, Options{})
	f.startDrag(t)
	f.drag.CaptureLost()
	if f.drag.State() != Idle || f.panel.DraggedIndex() != layout.NoIndex {
		t.Errorf("after capture loss: state %v, panel dragged %d", f.drag.State(), f.panel.DraggedIndex())
	}
}

func TestExternalChangeDropsSession(t *testing.T) {
	f := newFixture(t, Options{})
	f.startDrag(t)

	if _, err := f.items.RemoveAt(3); err != nil {
		t.Fatal(err)
	}
	if f.drag.State() != Idle {
		t.Errorf("State() = %v after external remove, want idle", f.drag.State())
	}
	if f.drag.PointerMove(geom.Point{X: 250, Y: 25}, at(100)) {
		t.Error("move consumed after the session was dropped")
	}
	f.drag.PointerUp()
	if got := f.order(); got != "abc" {
		t.Errorf("order = %s, want abc", got)
	}
}

func TestCustomHitTester(t *testing.T) {
	f := newFixture(t, Options{HitTester: HitTesterFunc(func(geom.Point) int { return 2 })})
	f.startDrag(t)
	if s, _ := f.drag.Session(); s.DraggedIndex != 2 {
		t.Errorf("DraggedIndex = %d, want 2 from the hit tester", s.DraggedIndex)
	}
}

func TestStateStrings(t *testing.T) {
	if Idle.String() != "idle" || PotentialDrag.String() != "potential-drag" || Dragging.String() != "dragging" {
		t.Error("unexpected state names")
	}
	if ScrollUp.String() != "up" || Direction(9).String() != "unknown" {
		t.Error("unexpected direction names")
	}
}
