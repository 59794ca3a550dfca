package panel_test

import (
	"fmt"

	"github.com/matzehuels/tilepanel/pkg/collection"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/panel"
)

func ExamplePanel() {
	items := collection.New(
		collection.NewTile("a", geom.Size{Width: 100, Height: 50}),
		collection.NewTile("b", geom.Size{Width: 100, Height: 50}),
		collection.NewTile("c", geom.Size{Width: 100, Height: 50}),
	)

	p, _ := panel.New(items, panel.DefaultConfig(), panel.Options{
		Animator: panel.AnimatorFunc(func(t panel.Transition) {
			fmt.Printf("%s -> (%g, %g) in %v\n", t.Item, t.X, t.Y, t.Duration)
		}),
	})
	defer p.Close()

	// The first layout places items without animating.
	_, _ = p.Layout(geom.Size{Width: 250, Height: 400})

	// Moving "a" to the end animates every item to its new slot.
	_, _ = p.Swap(0, 2)
	// Output:
	// a -> (0, 0) in 0s
	// b -> (100, 0) in 0s
	// c -> (0, 50) in 0s
	// b -> (0, 0) in 75ms
	// c -> (100, 0) in 75ms
	// a -> (0, 50) in 75ms
}
