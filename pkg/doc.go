// Package pkg provides the core libraries for Tilepanel, an animated tile
// panel with drag reordering and zoom.
//
// # Overview
//
// Tilepanel arranges an ordered collection of sized items with one of four
// fill strategies, asks a host-supplied animator to move every item to its
// slot, lets the user drag an item into another slot and resizes all items
// together on zoom. The pkg directory is organized into three areas:
//
//  1. Layout - [geom] value types and the [layout] strategies
//  2. Interaction - the [panel] layout engine, the [drag] state machine and
//     the [zoom] resize engine
//  3. Support - [collection], [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The typical flow of one user gesture:
//
//	pointer events (host)
//	         ↓
//	    [drag] package (debounce, hit-test, autoscroll)
//	         ↓
//	    [panel] package (swap in [collection], measure, arrange)
//	         ↓
//	    [layout] package (slots for the active fill type)
//	         ↓
//	    Transition requests to the host's Animator
//
// # Quick Start
//
//	items := collection.New(
//	    collection.NewTile("a", geom.Size{Width: 120, Height: 80}),
//	    collection.NewTile("b", geom.Size{Width: 120, Height: 80}),
//	)
//
//	p, _ := panel.New(items, panel.DefaultConfig(), panel.Options{
//	    Animator: panel.AnimatorFunc(func(t panel.Transition) {
//	        // move t.Item to (t.X, t.Y) over t.Duration
//	    }),
//	})
//	defer p.Close()
//	p.Layout(geom.Size{Width: 800, Height: 600})
//
//	d, _ := drag.New(p, drag.Config{}, drag.Options{})
//	d.PointerDown(pt, time.Now())
//	d.PointerMove(pt2, time.Now())
//	d.PointerUp()
//
//	p.Zoom(true) // every item 10% larger
//
// # Main Packages
//
// [layout] - Row, Column, Table and Wrap strategies. Each is a pure function
// of the item sizes and the available size, with hit-testing and per-item
// row/column info. Table and Wrap freeze their grid while a drag is active.
//
// [panel] - The layout engine. Owns the active strategy and configuration,
// re-lays out on collection, configuration and item size changes, skips the
// dragged item when arranging and implements the swap used by drag.
//
// [drag] - Pointer state machine (Idle, PotentialDrag, Dragging) with press
// delay and movement thresholds, free-offset tracking clamped to the content,
// autoscroll near viewport edges and swap into the slot under the pointer.
//
// [zoom] - Wheel zoom with an all-or-nothing bound check, auto-fit for the
// row and column fill types and the cumulative size multiplier.
//
// [collection] - Ordered, observable item list and the ready-made [collection.Tile].
//
// [observability] - Hooks for layout, drag and zoom events.
//
// # Testing
//
//	go test ./pkg/...       # All tests
//	go test ./pkg/drag/...  # Specific package
//	go test -run Example    # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/geom
// [layout]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/layout
// [panel]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/panel
// [drag]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/drag
// [zoom]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/zoom
// [collection]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/collection
// [collection.Tile]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/collection#Tile
// [observability]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/tilepanel/pkg/buildinfo
package pkg
