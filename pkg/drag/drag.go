// Package drag implements the drag-reorder engine: a small state machine
// fed with pointer events that decides when a press turns into a drag,
// moves the dragged item, scrolls the enclosing viewport near its edges and
// swaps the dragged item into the slot under the pointer.
//
// # States
//
//	Idle --down--> PotentialDrag --move past thresholds--> Dragging
//	PotentialDrag --up--> Idle
//	Dragging --up or capture lost--> Idle
//
// A press only becomes a drag after it has been held longer than
// [Config.PressDelay] and the pointer has moved more than
// [Config.StartShift] on either axis, so quick clicks never start a drag.
// While dragging, moves smaller than [Config.MoveEpsilon] or closer than
// [Config.MoveInterval] to the last processed move are ignored.
//
// The engine knows nothing about rendering. It talks to a [Target] (a
// *panel.Panel in practice) for hit-testing, slot lookups and swaps, and
// to an optional [Scroller] for autoscroll.
package drag

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/layout"
	"github.com/matzehuels/tilepanel/pkg/observability"
)

// =============================================================================
// Configuration
// =============================================================================

// Default thresholds.
const (
	DefaultPressDelay   = 40 * time.Millisecond
	DefaultStartShift   = 10
	DefaultMoveEpsilon  = 10
	DefaultMoveInterval = 25 * time.Millisecond
)

// Config holds the drag thresholds.
type Config struct {
	// PressDelay is how long a press must be held before it can become a
	// drag.
	PressDelay time.Duration

	// StartShift is the displacement on either axis a press must exceed to
	// become a drag.
	StartShift float64

	// MoveEpsilon is the displacement on either axis a move must exceed to
	// be processed while dragging.
	MoveEpsilon float64

	// MoveInterval is the minimum time between processed moves.
	MoveInterval time.Duration
}

// SetDefaults fills zero values with the default thresholds.
func (c *Config) SetDefaults() {
	if c.PressDelay == 0 {
		c.PressDelay = DefaultPressDelay
	}
	if c.StartShift == 0 {
		c.StartShift = DefaultStartShift
	}
	if c.MoveEpsilon == 0 {
		c.MoveEpsilon = DefaultMoveEpsilon
	}
	if c.MoveInterval == 0 {
		c.MoveInterval = DefaultMoveInterval
	}
}

// Validate rejects negative thresholds.
func (c Config) Validate() error {
	if c.PressDelay < 0 || c.MoveInterval < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "drag delays must be >= 0")
	}
	if c.StartShift < 0 || c.MoveEpsilon < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "drag distances must be >= 0")
	}
	return nil
}

// =============================================================================
// Collaborators
// =============================================================================

// Target is the layout the engine reorders.
type Target interface {
	// Len returns the number of items.
	Len() int

	// ItemAt returns the item drawn under p, or layout.NoIndex.
	ItemAt(p geom.Point) int

	// IndexAt returns the slot index under p.
	IndexAt(p geom.Point) int

	// ItemRect returns where the item at index is currently drawn.
	ItemRect(index int) geom.Rect

	// ContentBounds is the area the dragged item must stay inside.
	ContentBounds() geom.Rect

	// BeginDrag, DragTo and EndDrag hand the dragged item's position over
	// to the engine and back.
	BeginDrag(index int) error
	DragTo(p geom.Point)
	EndDrag()

	// DraggedIndex returns the index the target believes is dragged, or
	// layout.NoIndex once the target dropped the drag on its own.
	DraggedIndex() int

	// Swap moves the item at from to to and returns where it ended up, or
	// layout.NoIndex when nothing moved.
	Swap(from, to int) (int, error)
}

// HitTester maps a press position to the item under it. Hosts that know
// better than the target's drawn rectangles (overlays, custom shapes)
// supply their own.
type HitTester interface {
	ItemAt(p geom.Point) int
}

// HitTesterFunc adapts a function to the HitTester interface.
type HitTesterFunc func(p geom.Point) int

// ItemAt calls f(p).
func (f HitTesterFunc) ItemAt(p geom.Point) int { return f(p) }

// Direction is an autoscroll direction.
type Direction int

// Scroll directions.
const (
	ScrollRight Direction = iota
	ScrollLeft
	ScrollDown
	ScrollUp
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case ScrollRight:
		return "right"
	case ScrollLeft:
		return "left"
	case ScrollDown:
		return "down"
	case ScrollUp:
		return "up"
	}
	return "unknown"
}

// ScrollState describes the scrollable viewport enclosing the target.
type ScrollState struct {
	// Viewport is the visible size of the scroll container.
	Viewport geom.Size

	// Offset is the current scroll offset.
	Offset geom.Point

	// Extent is the total scrollable size.
	Extent geom.Size

	// Origin is where the target's (0, 0) sits in viewport coordinates.
	Origin geom.Point

	// FontSize sizes the autoscroll band.
	FontSize float64
}

// Scroller is the scrollable viewport enclosing the target.
type Scroller interface {
	ScrollState() ScrollState
	ScrollLine(d Direction)
}

// Options wires optional collaborators.
type Options struct {
	Logger    *log.Logger
	HitTester HitTester
	Scroller  Scroller
}

// =============================================================================
// Engine
// =============================================================================

// State is the engine's gesture state.
type State int

// Gesture states.
const (
	Idle State = iota
	PotentialDrag
	Dragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PotentialDrag:
		return "potential-drag"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Session is the state of one drag gesture.
type Session struct {
	DraggedIndex int
	CurrentIndex int

	// FreeOffset is the dragged item's top-left corner, kept inside
	// DragBounds.
	FreeOffset geom.Point
	DragBounds geom.Rect
}

// Engine is the drag-reorder state machine for one target.
type Engine struct {
	cfg      Config
	target   Target
	hit      HitTester
	scroller Scroller
	logger   *log.Logger

	state     State
	pressTime time.Time
	pressItem int
	last      geom.Point
	grab      geom.Point
	origin    geom.Point
	lastMove  time.Time
	session   *Session
}

// New returns an idle engine for target. Zero thresholds take their
// defaults.
func New(target Target, cfg Config, opts Options) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	hit := opts.HitTester
	if hit == nil {
		hit = target
	}
	return &Engine{
		cfg:       cfg,
		target:    target,
		hit:       hit,
		scroller:  opts.Scroller,
		logger:    logger,
		pressItem: layout.NoIndex,
	}, nil
}

// State returns the current gesture state.
func (e *Engine) State() State {
	e.sync()
	return e.state
}

// Session returns a copy of the active drag session.
func (e *Engine) Session() (Session, bool) {
	e.sync()
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// PointerDown records a press at p.
func (e *Engine) PointerDown(p geom.Point, t time.Time) {
	e.sync()
	if e.state == Dragging {
		return
	}
	e.state = PotentialDrag
	e.pressTime = t
	e.pressItem = e.hit.ItemAt(p)
	e.last = p
}

// PointerMove feeds a pointer position and reports whether the engine
// consumed it. p may lie outside the target: the drag keeps tracking it.
func (e *Engine) PointerMove(p geom.Point, t time.Time) bool {
	e.sync()
	switch e.state {
	case PotentialDrag:
		d := p.Sub(e.last)
		if t.Sub(e.pressTime) > e.cfg.PressDelay &&
			(math.Abs(d.X) > e.cfg.StartShift || math.Abs(d.Y) > e.cfg.StartShift) {
			return e.start(t)
		}
		return false
	case Dragging:
		e.dragOver(p, t)
		return true
	}
	return false
}

// PointerUp ends the gesture.
func (e *Engine) PointerUp() { e.finish("released") }

// CaptureLost ends the gesture when the host loses the pointer.
func (e *Engine) CaptureLost() { e.finish("capture lost") }

func (e *Engine) start(t time.Time) bool {
	index := e.pressItem
	e.pressItem = layout.NoIndex
	if index < 0 || index >= e.target.Len() {
		e.state = Idle
		return false
	}
	if err := e.target.BeginDrag(index); err != nil {
		e.logger.Warn("could not start drag", "index", index, "err", err)
		e.state = Idle
		return false
	}

	// FreeOffset tracks the pointer relative to the grab point; only the
	// reported value is clamped.
	e.grab = e.last
	e.origin = e.target.ItemRect(index).Origin()
	e.session = &Session{
		DraggedIndex: index,
		CurrentIndex: index,
		FreeOffset:   e.origin,
	}
	e.session.DragBounds = e.bounds(index)
	e.lastMove = t
	e.state = Dragging

	e.logger.Debug("drag started", "index", index)
	observability.Drag().OnDragStart(index)
	return true
}

func (e *Engine) dragOver(p geom.Point, t time.Time) {
	d := p.Sub(e.last)
	if math.Abs(d.X) <= e.cfg.MoveEpsilon && math.Abs(d.Y) <= e.cfg.MoveEpsilon {
		return
	}
	if t.Sub(e.lastMove) <= e.cfg.MoveInterval {
		return
	}

	e.autoscroll(p)

	s := e.session
	index := e.target.IndexAt(p)
	s.DragBounds = e.bounds(s.DraggedIndex)
	s.FreeOffset = s.DragBounds.Clamp(e.origin.Add(p.Sub(e.grab)))
	e.last = p
	e.lastMove = t

	if index >= 0 && index != s.CurrentIndex {
		to, err := e.target.Swap(s.DraggedIndex, index)
		switch {
		case err != nil:
			e.logger.Warn("swap failed", "from", s.DraggedIndex, "to", index, "err", err)
		case to != layout.NoIndex:
			s.DraggedIndex, s.CurrentIndex = to, to
		}
		if !e.sync() {
			return
		}
	}
	e.target.DragTo(s.FreeOffset)
}

func (e *Engine) finish(reason string) {
	e.sync()
	if e.state == Dragging {
		index := e.session.DraggedIndex
		e.session = nil
		e.target.EndDrag()
		e.logger.Debug("drag finished", "index", index, "reason", reason)
	}
	e.state = Idle
	e.pressItem = layout.NoIndex
}

// sync drops the session when the target tore the drag down on its own,
// for example after an external change to its collection. It reports
// whether a session is still active.
func (e *Engine) sync() bool {
	if e.state != Dragging {
		return false
	}
	if e.target.DraggedIndex() == e.session.DraggedIndex {
		return true
	}
	e.logger.Debug("drag dropped by target", "index", e.session.DraggedIndex)
	e.session = nil
	e.state = Idle
	return false
}

// bounds keeps the whole item at index inside the target's content.
func (e *Engine) bounds(index int) geom.Rect {
	content := e.target.ContentBounds()
	item := e.target.ItemRect(index)
	return geom.Rect{
		X:      content.X,
		Y:      content.Y,
		Width:  math.Max(0, content.Width-item.Width),
		Height: math.Max(0, content.Height-item.Height),
	}
}

// autoscroll scrolls one line when p is inside the margin band of a
// viewport edge that can still scroll. Right, left, down and up are tried
// in that order and at most one line is scrolled per move.
func (e *Engine) autoscroll(p geom.Point) {
	if e.scroller == nil {
		return
	}
	st := e.scroller.ScrollState()
	vp := p.Add(st.Origin)
	margin := math.Min(st.FontSize*2, st.Viewport.Height/2)

	var dir Direction
	switch {
	case vp.X >= st.Viewport.Width-margin && st.Offset.X < st.Extent.Width-st.Viewport.Width:
		dir = ScrollRight
	case vp.X < margin && st.Offset.X > 0:
		dir = ScrollLeft
	case vp.Y >= st.Viewport.Height-margin && st.Offset.Y < st.Extent.Height-st.Viewport.Height:
		dir = ScrollDown
	case vp.Y < margin && st.Offset.Y > 0:
		dir = ScrollUp
	default:
		return
	}
	e.scroller.ScrollLine(dir)
	e.logger.Debug("autoscroll", "direction", dir.String())
	observability.Drag().OnAutoScroll(dir.String())
}
