// Package collection provides the ordered, notifying item container that a
// panel lays out and reorders.
//
// A [List] raises a [Change] synchronously on every insert, remove and
// reset. While an item is a member, the list also watches it and re-raises
// any change of the item (a new size, typically) as a [Replace] at the
// item's current index. The watch is dropped as soon as the item leaves the
// list.
//
// A List is meant for a single event loop and is not safe for concurrent
// use.
package collection

import (
	"github.com/matzehuels/tilepanel/pkg/errors"
	"github.com/matzehuels/tilepanel/pkg/geom"
)

// Item is anything the panel can size and watch.
type Item interface {
	// Size returns the item's current target size.
	Size() geom.Size

	// SetSize replaces the item's target size.
	SetSize(geom.Size)

	// Watch registers fn to be called after the item changes. The returned
	// function cancels the registration.
	Watch(fn func()) (cancel func())
}

// Action identifies what a Change did to the list.
type Action int

// Change actions.
const (
	Insert Action = iota
	Remove
	Replace
	Reset
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	case Reset:
		return "reset"
	}
	return "unknown"
}

// Change describes one mutation. Index is -1 for Reset.
type Change struct {
	Action Action
	Index  int
	Item   Item
}

type member struct {
	item   Item
	cancel func()
}

type listener struct {
	id int
	fn func(Change)
}

// List is an ordered, index-addressable sequence of items.
type List struct {
	members   []*member
	listeners []listener
	nextID    int
}

// New returns a list holding items in order.
func New(items ...Item) *List {
	l := &List{}
	for _, it := range items {
		l.members = append(l.members, l.watch(it))
	}
	return l
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.members) }

// At returns the item at index i, or nil if i is out of range.
func (l *List) At(i int) Item {
	if i < 0 || i >= len(l.members) {
		return nil
	}
	return l.members[i].item
}

// Items returns a snapshot of the items in order.
func (l *List) Items() []Item {
	out := make([]Item, len(l.members))
	for i, m := range l.members {
		out[i] = m.item
	}
	return out
}

// Append adds it at the end of the list.
func (l *List) Append(it Item) {
	_ = l.InsertAt(len(l.members), it)
}

// InsertAt inserts it before index i. i may equal Len to append.
func (l *List) InsertAt(i int, it Item) error {
	if i < 0 || i > len(l.members) {
		return errors.New(errors.ErrCodeInvalidIndex, "insert index %d out of range [0, %d]", i, len(l.members))
	}
	m := l.watch(it)
	l.members = append(l.members, nil)
	copy(l.members[i+1:], l.members[i:])
	l.members[i] = m
	l.emit(Change{Action: Insert, Index: i, Item: it})
	return nil
}

// RemoveAt removes and returns the item at index i.
func (l *List) RemoveAt(i int) (Item, error) {
	if i < 0 || i >= len(l.members) {
		return nil, errors.New(errors.ErrCodeInvalidIndex, "remove index %d out of range [0, %d)", i, len(l.members))
	}
	m := l.members[i]
	m.cancel()
	l.members = append(l.members[:i], l.members[i+1:]...)
	l.emit(Change{Action: Remove, Index: i, Item: m.item})
	return m.item, nil
}

// Move removes the item at from and reinserts it at to, raising a Remove
// followed by an Insert.
func (l *List) Move(from, to int) error {
	if to < 0 || to >= len(l.members) {
		return errors.New(errors.ErrCodeInvalidIndex, "move target %d out of range [0, %d)", to, len(l.members))
	}
	it, err := l.RemoveAt(from)
	if err != nil {
		return err
	}
	return l.InsertAt(to, it)
}

// Clear removes every item and raises a single Reset.
func (l *List) Clear() {
	for _, m := range l.members {
		m.cancel()
	}
	l.members = nil
	l.emit(Change{Action: Reset, Index: -1})
}

// Subscribe registers fn for every future change. The returned function
// removes the subscription.
func (l *List) Subscribe(fn func(Change)) (unsubscribe func()) {
	id := l.nextID
	l.nextID++
	l.listeners = append(l.listeners, listener{id: id, fn: fn})
	return func() {
		for i, ls := range l.listeners {
			if ls.id == id {
				l.listeners = append(l.listeners[:i:i], l.listeners[i+1:]...)
				return
			}
		}
	}
}

func (l *List) watch(it Item) *member {
	m := &member{item: it}
	m.cancel = it.Watch(func() { l.itemChanged(m) })
	return m
}

func (l *List) itemChanged(m *member) {
	for i, cur := range l.members {
		if cur == m {
			l.emit(Change{Action: Replace, Index: i, Item: m.item})
			return
		}
	}
}

func (l *List) emit(c Change) {
	for _, ls := range l.listeners {
		ls.fn(c)
	}
}
