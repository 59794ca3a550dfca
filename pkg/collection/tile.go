package collection

import (
	"github.com/google/uuid"

	"github.com/matzehuels/tilepanel/pkg/geom"
)

// Tile is a basic Item: an identified, labelled rectangle.
type Tile struct {
	ID    string
	Label string

	size     geom.Size
	watchers map[int]func()
	nextID   int
}

// NewTile creates a tile with a fresh random ID.
func NewTile(label string, size geom.Size) *Tile {
	return &Tile{ID: uuid.NewString(), Label: label, size: size}
}

// Size implements Item.
func (t *Tile) Size() geom.Size { return t.size }

// SetSize implements Item. Watchers are only notified when the size
// actually changes.
func (t *Tile) SetSize(s geom.Size) {
	if s == t.size {
		return
	}
	t.size = s
	for id := 0; id < t.nextID; id++ {
		if fn, ok := t.watchers[id]; ok {
			fn()
		}
	}
}

// Watch implements Item.
func (t *Tile) Watch(fn func()) (cancel func()) {
	if t.watchers == nil {
		t.watchers = make(map[int]func())
	}
	id := t.nextID
	t.nextID++
	t.watchers[id] = fn
	return func() { delete(t.watchers, id) }
}

// Watchers returns the number of active watch registrations.
func (t *Tile) Watchers() int { return len(t.watchers) }

// String returns the tile label.
func (t *Tile) String() string { return t.Label }

// Ensure Tile implements Item.
var _ Item = (*Tile)(nil)
