// Package observability provides hooks for metrics, tracing, and logging.
//
// The layout, drag and zoom engines report what they do through the hook
// interfaces below. Nothing is recorded by default; hosts register their own
// implementations at startup to count layout passes, time measurements or
// trace reorder gestures without the engines depending on any particular
// backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetDragHooks(&myDragHooks{})
//	    // ... run application
//	}
//
// Engines call hooks to emit events:
//
//	observability.Layout().OnMeasure(fillType, n, width, height, duration, err)
//
// Hooks are called synchronously from the event loop that drives the panel,
// so implementations must return quickly.
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	// OnMeasure records one measure pass and the resulting total size.
	OnMeasure(fillType string, items int, width, height float64, duration time.Duration, err error)

	// OnArrange records one arrange pass. animated is false for the first
	// pass and for passes issued with a zero duration.
	OnArrange(items int, animated bool)

	// OnConfigChange records a configuration setter taking effect.
	OnConfigChange(name string)
}

// =============================================================================
// Drag Hooks
// =============================================================================

// DragHooks receives events from the drag-reorder engine.
type DragHooks interface {
	// OnDragStart records a gesture crossing the drag thresholds.
	OnDragStart(index int)

	// OnSwap records a committed reorder.
	OnSwap(from, to int)

	// OnAutoScroll records one line of autoscroll in direction.
	OnAutoScroll(direction string)

	// OnDragEnd records the end of a session. aborted is true when the
	// session was torn down instead of released.
	OnDragEnd(index int, aborted bool)
}

// =============================================================================
// Zoom Hooks
// =============================================================================

// ZoomHooks receives events from the resize/zoom engine.
type ZoomHooks interface {
	// OnZoom records a wheel step. applied is false when the step was
	// rejected by the size bounds.
	OnZoom(step float64, applied bool, multiplier float64)

	// OnAutoFit records an auto-fit or corrective rescale.
	OnAutoFit(factor float64, multiplier float64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnMeasure(string, int, float64, float64, time.Duration, error) {}
func (NoopLayoutHooks) OnArrange(int, bool)                                           {}
func (NoopLayoutHooks) OnConfigChange(string)                                         {}

// NoopDragHooks is a no-op implementation of DragHooks.
type NoopDragHooks struct{}

func (NoopDragHooks) OnDragStart(int)     {}
func (NoopDragHooks) OnSwap(int, int)     {}
func (NoopDragHooks) OnAutoScroll(string) {}
func (NoopDragHooks) OnDragEnd(int, bool) {}

// NoopZoomHooks is a no-op implementation of ZoomHooks.
type NoopZoomHooks struct{}

func (NoopZoomHooks) OnZoom(float64, bool, float64) {}
func (NoopZoomHooks) OnAutoFit(float64, float64)    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	dragHooks   DragHooks   = NoopDragHooks{}
	zoomHooks   ZoomHooks   = NoopZoomHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any panel is
// laid out.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetDragHooks registers custom drag hooks.
func SetDragHooks(h DragHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dragHooks = h
	}
}

// SetZoomHooks registers custom zoom hooks.
func SetZoomHooks(h ZoomHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		zoomHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Drag returns the registered drag hooks.
func Drag() DragHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dragHooks
}

// Zoom returns the registered zoom hooks.
func Zoom() ZoomHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return zoomHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	dragHooks = NoopDragHooks{}
	zoomHooks = NoopZoomHooks{}
}
