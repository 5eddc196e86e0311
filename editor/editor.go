package editor

import (
	"micromouse/geometry"
	"micromouse/maze"
)

// Editor holds the authoritative maze while it is being edited. The maze text is the
// source of truth shared with the simulator input; every edit re-encodes it, and the
// walls are re-read from the encoded text so they always stay canonical.
// Editor is not safe for concurrent use; it belongs to a single owner.
type Editor struct {
	maze     maze.Maze
	text     string
	opts     geometry.Options
	onChange func(text string)
}

// New returns an editor over the passed maze text.
func New(text string, opts geometry.Options) *Editor {
	ed := &Editor{opts: opts}
	ed.load(text)
	return ed
}

// OnChange registers a listener that receives the maze text after every edit.
func (ed *Editor) OnChange(fn func(text string)) {
	ed.onChange = fn
}

// Grid returns the layout of the current maze.
func (ed *Editor) Grid() geometry.Grid {
	return geometry.NewGrid(ed.maze.Width, ed.opts)
}

// Maze returns a copy of the current maze.
func (ed *Editor) Maze() maze.Maze {
	return maze.Maze{Width: ed.maze.Width, Walls: ed.maze.Walls.Clone()}
}

func (ed *Editor) Width() int {
	return ed.maze.Width
}

// Text returns the maze text as last set or edited.
func (ed *Editor) Text() string {
	return ed.text
}

// SetText replaces the maze with externally supplied text, e.g. from a form.
// The text is kept as given; it is canonicalized on the next edit.
func (ed *Editor) SetText(text string) {
	ed.load(text)
}

func (ed *Editor) load(text string) {
	ed.text = text
	ed.maze = maze.Parse(text)
}

// Toggle removes the wall if present, else inserts it, and returns the new maze text.
func (ed *Editor) Toggle(w maze.Wall) string {
	walls := ed.maze.Walls.Clone()
	walls.Toggle(w)

	text := maze.Encode(walls, ed.maze.Width)
	decoded, width := maze.Decode(text)
	ed.text = text
	ed.maze = maze.Maze{Width: width, Walls: decoded}

	if ed.onChange != nil {
		ed.onChange(text)
	}
	return text
}

// Click toggles the wall nearest to a click at screen position (px, py).
// Clicks off the grid, or nearest to the fixed western and southern borders, change
// nothing and report ok false.
func (ed *Editor) Click(px, py float64) (wall maze.Wall, text string, ok bool) {
	grid := ed.Grid()
	if !grid.Contains(px, py) {
		return wall, ed.text, false
	}
	// The far corner of the grid resolves to a wall beyond the maze.
	if wall, ok = Resolve(px, py, grid); !ok || !wall.InBounds(ed.Width()) {
		return wall, ed.text, false
	}
	text = ed.Toggle(wall)
	return
}
