// Package panel implements the layout engine: it measures a collection of
// items with the active fill strategy, arranges them by requesting one
// transition per item, and keeps the layout current as the collection,
// the configuration or the item sizes change.
//
// # Measure and Arrange
//
// A layout pass has two phases. Measure reads every item's own size, runs
// the strategy and caches the total size. Arrange walks the measured
// layout in traversal order and sends each item a [Transition] to its
// slot. The very first arrange of a populated panel uses a zero duration so
// items appear in place; later passes animate with the configured
// duration.
//
// Hosts call [Panel.Layout] whenever the container's available size
// changes. Collection changes trigger a new pass automatically once the
// panel knows its available size.
//
// # Dragging
//
// While an item is dragged (see [Panel.BeginDrag]) its position is driven
// by [Panel.DragTo] and arrange passes leave it alone. Measurements taken
// during a drag ask the strategy to freeze its row and column boundaries.
// Any insert, remove or reset of the collection that did not come from
// [Panel.Swap] tears the drag down and re-lays the panel out without
// animation.
//
// A Panel is driven from a single event loop and is not safe for
// concurrent use.
package panel

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilepanel/pkg/collection"
	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/layout"
	"github.com/matzehuels/tilepanel/pkg/observability"
	"github.com/matzehuels/tilepanel/pkg/zoom"
)

// maxSettlePasses bounds how often a pass is repeated when changes keep
// arriving while the panel is laying out.
const maxSettlePasses = 8

// =============================================================================
// Collaborators
// =============================================================================

// Transition asks the host to move one item.
type Transition struct {
	Index    int
	Item     collection.Item
	X, Y     float64
	Duration time.Duration
	EaseIn   float64
	EaseOut  float64

	// Raised is set for the dragged item, which should be drawn above the
	// others.
	Raised bool
}

// Target returns the transition's destination.
func (t Transition) Target() geom.Point { return geom.Point{X: t.X, Y: t.Y} }

// Animator performs transitions. A new transition for an item supersedes
// any transition still running for it.
type Animator interface {
	AnimateTo(t Transition)
}

// AnimatorFunc adapts a function to the Animator interface.
type AnimatorFunc func(Transition)

// AnimateTo calls f(t).
func (f AnimatorFunc) AnimateTo(t Transition) { f(t) }

// Collection is the ordered, notifying item container a panel lays out.
// *collection.List implements it.
type Collection interface {
	Len() int
	At(i int) collection.Item
	RemoveAt(i int) (collection.Item, error)
	InsertAt(i int, it collection.Item) error
	Subscribe(fn func(collection.Change)) (unsubscribe func())
}

// SwapFunc moves the item at from to index to.
type SwapFunc func(items Collection, from, to int) error

// DefaultSwap removes the item at from and reinserts it at to.
func DefaultSwap(items Collection, from, to int) error {
	it, err := items.RemoveAt(from)
	if err != nil {
		return err
	}
	return items.InsertAt(to, it)
}

var _ Collection = (*collection.List)(nil)

// =============================================================================
// Panel
// =============================================================================

// Panel is the layout engine for one container.
type Panel struct {
	cfg      Config
	items    Collection
	strategy layout.Strategy
	zoom     *zoom.Engine
	animator Animator
	swap     SwapFunc
	logger   *log.Logger
	notify   func(string)

	unsubscribe func()

	available          geom.Size
	hasAvailable       bool
	lastCalculatedSize geom.Size
	isFirstArrange     bool
	visual             []geom.Rect

	dragIndex int
	dragPos   geom.Point

	busy     bool // inside a measure/arrange pass
	batching int  // item resizes in progress
	dirty    bool // a change arrived that the last pass did not see
	swapping bool
	instant  bool // next arrange must not animate
}

// New creates a panel over items and subscribes to its changes.
func New(items Collection, cfg Config, opts Options) (*Panel, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := layout.New(cfg.FillType)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	zcfg := opts.Zoom
	zcfg.MinItemSize, zcfg.MaxItemSize = cfg.MinItemSize, cfg.MaxItemSize
	z, err := zoom.New(zcfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.AutoSizeMode {
		// No available size yet: this only switches the mode on. The first
		// measure fits the items.
		z.SetAutoSize(true, nil, cfg.FillType, geom.Size{})
	}

	swap := opts.Swap
	if swap == nil {
		swap = DefaultSwap
	}

	p := &Panel{
		cfg:            cfg,
		items:          items,
		strategy:       strategy,
		zoom:           z,
		animator:       opts.Animator,
		swap:           swap,
		logger:         logger,
		notify:         opts.OnConfigChanged,
		isFirstArrange: true,
		dragIndex:      layout.NoIndex,
	}
	p.unsubscribe = items.Subscribe(p.onChange)
	return p, nil
}

// Close stops listening to the collection.
func (p *Panel) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// =============================================================================
// Measure / Arrange
// =============================================================================

// Layout measures against available and arranges the result.
func (p *Panel) Layout(available geom.Size) (geom.Size, error) {
	if p.busy {
		p.available, p.hasAvailable, p.dirty = available, true, true
		return p.lastCalculatedSize, nil
	}
	size, err := p.pass(available)
	p.settle()
	return size, err
}

// Measure runs the active strategy over the items' current sizes and
// returns the total size of the layout. It fails when the configured fill
// type is unknown.
func (p *Panel) Measure(available geom.Size) (geom.Size, error) {
	if p.busy {
		p.dirty = true
		return p.lastCalculatedSize, nil
	}
	p.busy = true
	defer func() { p.busy = false }()
	return p.measure(available)
}

// Arrange sends every item except the dragged one a transition to its
// measured slot.
func (p *Panel) Arrange() {
	if p.busy {
		p.dirty = true
		return
	}
	p.busy = true
	p.arrange()
	p.busy = false
	p.settle()
}

func (p *Panel) pass(available geom.Size) (geom.Size, error) {
	p.busy = true
	defer func() { p.busy = false }()

	size, err := p.measure(available)
	if err != nil {
		return size, err
	}
	p.arrange()
	return size, nil
}

// settle repeats passes for changes that arrived while the panel was busy.
func (p *Panel) settle() {
	for i := 0; p.dirty && p.hasAvailable; i++ {
		if i == maxSettlePasses {
			p.logger.Warn("layout did not settle", "passes", i)
			p.dirty = false
			return
		}
		p.dirty = false
		if _, err := p.pass(p.available); err != nil {
			return
		}
	}
}

// relayout runs a full pass against the last known available size.
func (p *Panel) relayout() {
	if p.busy || p.batching > 0 {
		p.dirty = true
		return
	}
	if !p.hasAvailable {
		return
	}
	p.dirty = true
	p.settle()
}

func (p *Panel) measure(available geom.Size) (geom.Size, error) {
	start := time.Now()
	ft := string(p.cfg.FillType)

	if p.strategy == nil {
		err := layout.ValidateFillType(p.cfg.FillType)
		p.logger.Error("refusing to lay out", "fill_type", ft, "err", err)
		observability.Layout().OnMeasure(ft, p.items.Len(), 0, 0, time.Since(start), err)
		p.available, p.hasAvailable = available, true
		p.lastCalculatedSize = geom.Size{}
		p.visual = nil
		return geom.Size{}, err
	}

	if p.cfg.AutoSizeMode && (!p.hasAvailable || available != p.available) {
		p.zoom.AutoFit(p.sizers(), p.cfg.FillType, available)
	}
	p.available, p.hasAvailable = available, true

	n := p.items.Len()
	sizes := make([]geom.Size, n)
	for i := range sizes {
		sizes[i] = p.items.At(i).Size()
	}
	p.strategy.Measure(available, sizes, p.dragIndex != layout.NoIndex)
	p.lastCalculatedSize = p.strategy.ResultSize()
	p.dirty = false

	p.logger.Debug("measured", "fill_type", ft, "items", n,
		"width", p.lastCalculatedSize.Width, "height", p.lastCalculatedSize.Height)
	observability.Layout().OnMeasure(ft, n,
		p.lastCalculatedSize.Width, p.lastCalculatedSize.Height, time.Since(start), nil)
	return p.lastCalculatedSize, nil
}

func (p *Panel) arrange() {
	if p.strategy == nil {
		return
	}
	n := min(p.strategy.Len(), p.items.Len())

	duration := p.cfg.AnimationDuration
	if p.isFirstArrange || p.instant {
		duration = 0
	}
	p.instant = false

	positions := p.positions(n)
	p.visual = make([]geom.Rect, n)
	for i := 0; i < n; i++ {
		it := p.items.At(i)
		size := it.Size().Sanitize()
		if i == p.dragIndex {
			p.visual[i] = geom.NewRect(p.dragPos, size)
			continue
		}
		p.visual[i] = geom.NewRect(positions[i], size)
		p.animate(Transition{
			Index:    i,
			Item:     it,
			X:        positions[i].X,
			Y:        positions[i].Y,
			Duration: duration,
			EaseIn:   EaseInRatio,
			EaseOut:  EaseOutRatio,
		})
	}
	if n > 0 {
		p.isFirstArrange = false
	}
	observability.Layout().OnArrange(n, duration > 0)
}

// positions walks the measured layout in order, adding each item's column
// width to x and, when the next item starts a new row, resetting x and
// adding the row height to y.
func (p *Panel) positions(n int) []geom.Point {
	out := make([]geom.Point, n)
	var x, y float64
	row := 0
	for i := 0; i < n; i++ {
		out[i] = geom.Point{X: x, Y: y}
		info := p.strategy.Info(i)
		x += info.ColumnWidth
		if i+1 < n && p.strategy.Info(i+1).Row > row {
			row++
			x = 0
			y += info.RowHeight
		}
	}
	return out
}

func (p *Panel) animate(t Transition) {
	if p.animator != nil {
		p.animator.AnimateTo(t)
	}
}

// =============================================================================
// Collection changes
// =============================================================================

func (p *Panel) onChange(c collection.Change) {
	if p.swapping {
		return
	}
	if c.Action != collection.Replace && p.dragIndex != layout.NoIndex {
		p.logger.Warn("collection changed during drag, dropping the drag",
			"action", c.Action.String(), "index", c.Index, "dragged", p.dragIndex)
		p.abortDrag()
	}
	p.relayout()
}

func (p *Panel) abortDrag() {
	index := p.dragIndex
	p.dragIndex = layout.NoIndex
	p.instant = true
	observability.Drag().OnDragEnd(index, true)
}

// =============================================================================
// Drag hand-off
// =============================================================================

// BeginDrag marks the item at index as dragged. From now on its position
// follows DragTo and arrange passes skip it.
func (p *Panel) BeginDrag(index int) error {
	if index < 0 || index >= p.items.Len() {
		return errors.New(errors.ErrCodeInvalidIndex, "drag index %d out of range [0, %d)", index, p.items.Len())
	}
	if p.dragIndex != layout.NoIndex {
		return errors.New(errors.ErrCodeInvalidInput, "item %d is already being dragged", p.dragIndex)
	}
	p.dragIndex = index
	p.dragPos = p.ItemRect(index).Origin()
	p.logger.Debug("drag started", "index", index, "x", p.dragPos.X, "y", p.dragPos.Y)
	p.raise()
	return nil
}

// DragTo moves the dragged item to pos without animation.
func (p *Panel) DragTo(pos geom.Point) {
	if p.dragIndex == layout.NoIndex {
		return
	}
	p.dragPos = pos
	if p.dragIndex < len(p.visual) {
		p.visual[p.dragIndex] = geom.NewRect(pos, p.visual[p.dragIndex].Size())
	}
	p.raise()
}

// EndDrag releases the dragged item and re-lays the panel out with the
// strategy unfrozen, animating the item into its slot.
func (p *Panel) EndDrag() {
	if p.dragIndex == layout.NoIndex {
		return
	}
	index := p.dragIndex
	p.dragIndex = layout.NoIndex
	p.logger.Debug("drag finished", "index", index)
	observability.Drag().OnDragEnd(index, false)
	p.relayout()
}

// DraggedIndex returns the index of the dragged item, or layout.NoIndex.
func (p *Panel) DraggedIndex() int { return p.dragIndex }

func (p *Panel) raise() {
	it := p.items.At(p.dragIndex)
	if it == nil {
		return
	}
	p.animate(Transition{
		Index:   p.dragIndex,
		Item:    it,
		X:       p.dragPos.X,
		Y:       p.dragPos.Y,
		EaseIn:  EaseInRatio,
		EaseOut: EaseOutRatio,
		Raised:  true,
	})
}

// Swap moves the item at from to index to and re-lays the panel out. An
// invalid from or a negative to is ignored, to is clamped to the last
// index and from == to does nothing. It returns the index the item ended
// up at, or layout.NoIndex when nothing moved.
func (p *Panel) Swap(from, to int) (int, error) {
	n := p.items.Len()
	if from < 0 || to < 0 || from >= n {
		return layout.NoIndex, nil
	}
	if to >= n {
		to = n - 1
	}
	if from == to {
		return layout.NoIndex, nil
	}

	p.swapping = true
	err := p.swap(p.items, from, to)
	p.swapping = false
	if err != nil {
		if p.dragIndex != layout.NoIndex {
			p.abortDrag()
		}
		p.relayout()
		return layout.NoIndex, errors.Wrap(errors.ErrCodeInternal, err, "swap %d -> %d", from, to)
	}

	if p.dragIndex == from {
		p.dragIndex = to
	}
	p.logger.Debug("swapped", "from", from, "to", to)
	observability.Drag().OnSwap(from, to)
	p.relayout()
	return to, nil
}

// =============================================================================
// Queries
// =============================================================================

// Len returns the number of items in the collection.
func (p *Panel) Len() int { return p.items.Len() }

// IndexAt returns the slot index under pt in the last measured layout.
func (p *Panel) IndexAt(pt geom.Point) int {
	if p.strategy == nil {
		return layout.NoIndex
	}
	return p.strategy.IndexAt(pt)
}

// SlotAt returns the slot rectangle of index in the last measured layout.
func (p *Panel) SlotAt(index int) geom.Rect {
	if p.strategy == nil {
		return geom.Rect{}
	}
	return p.strategy.SlotAt(index)
}

// LayoutInfo returns the row/column placement of index.
func (p *Panel) LayoutInfo(index int) layout.Info {
	if p.strategy == nil {
		return layout.Info{}
	}
	return p.strategy.Info(index)
}

// ItemRect returns where the item at index was last sent: its arranged
// position, or the drag position for the dragged item. index is clamped.
func (p *Panel) ItemRect(index int) geom.Rect {
	if len(p.visual) == 0 {
		return geom.Rect{}
	}
	index = max(0, min(index, len(p.visual)-1))
	return p.visual[index]
}

// ItemAt returns the index of the item drawn under pt, preferring the
// dragged item, or layout.NoIndex.
func (p *Panel) ItemAt(pt geom.Point) int {
	if p.dragIndex >= 0 && p.dragIndex < len(p.visual) && p.visual[p.dragIndex].Contains(pt) {
		return p.dragIndex
	}
	for i, r := range p.visual {
		if r.Contains(pt) {
			return i
		}
	}
	return layout.NoIndex
}

// ContentBounds is the area the dragged item may move in: the larger of
// the measured layout and the finite available size.
func (p *Panel) ContentBounds() geom.Rect {
	b := geom.Rect{Width: p.lastCalculatedSize.Width, Height: p.lastCalculatedSize.Height}
	if !math.IsInf(p.available.Width, 0) {
		b.Width = math.Max(b.Width, p.available.Width)
	}
	if !math.IsInf(p.available.Height, 0) {
		b.Height = math.Max(b.Height, p.available.Height)
	}
	return b
}

// Available returns the size of the last measure.
func (p *Panel) Available() geom.Size { return p.available }

// LastCalculatedSize returns the total size of the last measured layout.
func (p *Panel) LastCalculatedSize() geom.Size { return p.lastCalculatedSize }

// Config returns the current settings.
func (p *Panel) Config() Config { return p.cfg }

// FillType returns the configured fill type.
func (p *Panel) FillType() layout.FillType { return p.cfg.FillType }

// ItemSizeMultiplier returns the cumulative zoom factor.
func (p *Panel) ItemSizeMultiplier() float64 { return p.zoom.Multiplier() }

// =============================================================================
// Setters
// =============================================================================

// SetFillType switches the layout strategy and re-lays the panel out. An
// unknown fill type is reported and leaves the panel refusing to lay out
// until a valid one is set.
func (p *Panel) SetFillType(ft layout.FillType) error {
	strategy, err := layout.New(ft)
	p.cfg.FillType = ft
	p.strategy = strategy
	p.visual = nil
	if err != nil {
		p.logger.Error("invalid fill type", "fill_type", string(ft), "err", err)
		return err
	}
	if p.cfg.AutoSizeMode && p.hasAvailable {
		p.resize(func(items []zoom.Sizer) bool {
			return p.zoom.AutoFit(items, ft, p.available)
		})
	}
	p.changed(SettingFillType)
	p.relayout()
	return nil
}

// SetAnimationDuration changes the duration used by later arrange passes.
func (p *Panel) SetAnimationDuration(d time.Duration) error {
	if d < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation duration must be >= 0, got %v", d)
	}
	p.cfg.AnimationDuration = d
	p.changed(SettingAnimationDuration)
	p.relayout()
	return nil
}

// SetAutoSizeMode turns auto-fit on or off. Switching it on fits the items
// to the container; switching it off brings out-of-bounds items back into
// the configured size range.
func (p *Panel) SetAutoSizeMode(on bool) {
	if p.cfg.AutoSizeMode == on {
		return
	}
	p.cfg.AutoSizeMode = on
	p.resize(func(items []zoom.Sizer) bool {
		return p.zoom.SetAutoSize(on, items, p.cfg.FillType, p.available)
	})
	p.changed(SettingAutoSizeMode)
	p.relayout()
}

// SetItemSizeBounds changes the min/max item size used by zoom.
func (p *Panel) SetItemSizeBounds(minSize, maxSize float64) error {
	if err := p.zoom.SetBounds(minSize, maxSize); err != nil {
		return err
	}
	p.cfg.MinItemSize, p.cfg.MaxItemSize = minSize, maxSize
	p.changed(SettingItemSizeBounds)
	return nil
}

// Zoom applies one wheel step to every item and reports whether it was
// applied.
func (p *Panel) Zoom(enlarge bool) bool {
	applied := p.resize(func(items []zoom.Sizer) bool {
		return p.zoom.Wheel(items, enlarge, p.cfg.FillType)
	})
	if applied {
		p.changed(SettingItemSizeMultiplier)
		p.relayout()
	}
	return applied
}

// resize runs fn with per-item change notifications folded into a single
// pass afterwards.
func (p *Panel) resize(fn func([]zoom.Sizer) bool) bool {
	p.batching++
	applied := fn(p.sizers())
	p.batching--
	return applied
}

func (p *Panel) sizers() []zoom.Sizer {
	out := make([]zoom.Sizer, p.items.Len())
	for i := range out {
		out[i] = p.items.At(i)
	}
	return out
}

func (p *Panel) changed(name string) {
	observability.Layout().OnConfigChange(name)
	if p.notify != nil {
		p.notify(name)
	}
}
