package maze

import (
	"encoding/json"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// WallSet is an unordered set of unique walls, keyed by the wall value itself.
// The zero value is not usable; create sets with NewWallSet.
type WallSet struct {
	set mapset.Set[Wall]
}

// NewWallSet returns a set holding the passed walls; duplicates collapse.
func NewWallSet(walls ...Wall) WallSet {
	ws := WallSet{set: mapset.New[Wall]()}
	for _, w := range walls {
		ws.set.Put(w)
	}
	return ws
}

func (ws WallSet) Add(w Wall) {
	ws.set.Put(w)
}

func (ws WallSet) Remove(w Wall) {
	ws.set.Remove(w)
}

func (ws WallSet) Has(w Wall) bool {
	return ws.set.Has(w)
}

// Toggle removes the wall if present, else inserts it.
// Returns true if the wall is present afterward.
func (ws WallSet) Toggle(w Wall) (present bool) {
	if ws.set.Has(w) {
		ws.set.Remove(w)
		return false
	}
	ws.set.Put(w)
	return true
}

func (ws WallSet) Len() int {
	return ws.set.Size()
}

// Walls returns the walls sorted bottom-to-top, left-to-right, so that views and
// serialized forms are stable across calls.
func (ws WallSet) Walls() (walls []Wall) {
	walls = make([]Wall, 0, ws.set.Size())
	ws.set.Each(func(w Wall) {
		walls = append(walls, w)
	})
	sort.Slice(walls, func(i, j int) bool { return walls[i].less(walls[j]) })
	return
}

// Clone returns an independent copy of the set.
func (ws WallSet) Clone() WallSet {
	return NewWallSet(ws.Walls()...)
}

// Equal reports whether both sets hold exactly the same walls.
func (ws WallSet) Equal(other WallSet) bool {
	if ws.Len() != other.Len() {
		return false
	}
	equal := true
	ws.set.Each(func(w Wall) {
		if !other.set.Has(w) {
			equal = false
		}
	})
	return equal
}

// Within returns the subset of walls inside a width x width maze.
func (ws WallSet) Within(width int) WallSet {
	inner := NewWallSet()
	ws.set.Each(func(w Wall) {
		if w.InBounds(width) {
			inner.set.Put(w)
		}
	})
	return inner
}

func (ws WallSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(ws.Walls())
}

func (ws *WallSet) UnmarshalJSON(data []byte) error {
	var walls []Wall
	if err := json.Unmarshal(data, &walls); err != nil {
		return err
	}
	*ws = NewWallSet(walls...)
	return nil
}
