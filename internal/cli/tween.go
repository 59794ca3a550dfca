package cli

import (
	"time"

	"github.com/matzehuels/tilepanel/pkg/collection"
	"github.com/matzehuels/tilepanel/pkg/geom"
	"github.com/matzehuels/tilepanel/pkg/panel"
)

// ease maps linear progress t in [0, 1] to eased progress. The first a of
// the duration accelerates at a constant rate, the last d decelerates and
// the middle runs at the peak speed v = 2 / (2 - a - d).
func ease(t, a, d float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case a+d <= 0 || a+d > 1:
		return t
	}
	v := 2 / (2 - a - d)
	switch {
	case t < a:
		return v * t * t / (2 * a)
	case t > 1-d:
		return 1 - v*(1-t)*(1-t)/(2*d)
	}
	return v*a/2 + v*(t-a)
}

// tween moves one item from a start point to a target.
type tween struct {
	from, to geom.Point
	start    time.Time
	duration time.Duration
	easeIn   float64
	easeOut  float64
}

func (tw *tween) at(now time.Time) geom.Point {
	if tw.duration <= 0 {
		return tw.to
	}
	t := float64(now.Sub(tw.start)) / float64(tw.duration)
	k := ease(t, tw.easeIn, tw.easeOut)
	return geom.Point{
		X: tw.from.X + (tw.to.X-tw.from.X)*k,
		Y: tw.from.Y + (tw.to.Y-tw.from.Y)*k,
	}
}

func (tw *tween) done(now time.Time) bool {
	return tw.duration <= 0 || now.Sub(tw.start) >= tw.duration
}

// tweener is the demo's animation backend. Positions are interpolated on
// demand from the clock, so the host only has to redraw while Active.
type tweener struct {
	now    func() time.Time
	tweens map[collection.Item]*tween
	raised collection.Item
}

func newTweener(now func() time.Time) *tweener {
	if now == nil {
		now = time.Now
	}
	return &tweener{now: now, tweens: make(map[collection.Item]*tween)}
}

// AnimateTo starts a transition from wherever the item is drawn right now.
// An item seen for the first time appears at its target.
func (a *tweener) AnimateTo(t panel.Transition) {
	now := a.now()
	from := t.Target()
	if tw, ok := a.tweens[t.Item]; ok {
		from = tw.at(now)
	}
	a.tweens[t.Item] = &tween{
		from:     from,
		to:       t.Target(),
		start:    now,
		duration: t.Duration,
		easeIn:   t.EaseIn,
		easeOut:  t.EaseOut,
	}
	switch {
	case t.Raised:
		a.raised = t.Item
	case a.raised == t.Item:
		a.raised = nil
	}
}

// Position returns where it is drawn now.
func (a *tweener) Position(it collection.Item) (geom.Point, bool) {
	tw, ok := a.tweens[it]
	if !ok {
		return geom.Point{}, false
	}
	return tw.at(a.now()), true
}

// Raised returns the item drawn above the others, or nil.
func (a *tweener) Raised() collection.Item { return a.raised }

// Active reports whether any transition is still running.
func (a *tweener) Active() bool {
	now := a.now()
	for _, tw := range a.tweens {
		if !tw.done(now) {
			return true
		}
	}
	return false
}

// Prune forgets items that are no longer in the collection.
func (a *tweener) Prune(items *collection.List) {
	keep := make(map[collection.Item]bool, items.Len())
	for _, it := range items.Items() {
		keep[it] = true
	}
	for it := range a.tweens {
		if !keep[it] {
			delete(a.tweens, it)
		}
	}
	if a.raised != nil && !keep[a.raised] {
		a.raised = nil
	}
}

var _ panel.Animator = (*tweener)(nil)
