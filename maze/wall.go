// maze contains the wall model of a square micromouse maze and the codec between
// the ASCII-art maze text and its walls.
//
// The origin (0,0) is the bottom-left cell. Each cell owns at most two walls: the
// one on its north edge (Up) and the one on its east edge (Right). The west and south
// borders of the maze are implicit and never stored.
package maze

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Direction selects the north (Up) or east (Right) edge of a cell.
type Direction uint8

const (
	Up Direction = iota
	Right
)

func (dir Direction) String() string {
	switch dir {
	case Up:
		return "up"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", uint8(dir))
}

// ErrUnknownDirection is returned when decoding a direction other than "up" or "right".
var ErrUnknownDirection = errors.New("unknown wall direction")

func (dir Direction) MarshalJSON() ([]byte, error) {
	switch dir {
	case Up, Right:
		return json.Marshal(dir.String())
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, uint8(dir))
}

func (dir *Direction) UnmarshalJSON(data []byte) (err error) {
	var name string
	if err = json.Unmarshal(data, &name); err != nil {
		return
	}
	switch name {
	case "up":
		*dir = Up
	case "right":
		*dir = Right
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownDirection, name)
	}
	return
}

// Wall is the wall segment on the Dir edge of cell (X, Y).
// Walls are plain values: two walls with the same fields are the same wall.
type Wall struct {
	X   int       `json:"x"`
	Y   int       `json:"y"`
	Dir Direction `json:"dir"`
}

func (w Wall) String() string {
	return fmt.Sprintf("(%d,%d,%s)", w.X, w.Y, w.Dir)
}

// InBounds reports whether the wall belongs to a cell of a width x width maze.
func (w Wall) InBounds(width int) bool {
	return w.X >= 0 && w.X < width && w.Y >= 0 && w.Y < width
}

// less orders walls bottom-to-top, left-to-right, Up before Right.
func (w Wall) less(other Wall) bool {
	if w.Y != other.Y {
		return w.Y < other.Y
	}
	if w.X != other.X {
		return w.X < other.X
	}
	return w.Dir < other.Dir
}
