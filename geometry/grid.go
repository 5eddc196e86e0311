// geometry holds the screen layout of the maze grid: where the grid is drawn, how large
// a cell is in pixels and in meters, and the conversions between these spaces.
// Screen y grows downward; grid and physical y grow upward.
package geometry

import (
	"fmt"
	"math"

	"micromouse/maze"
)

// Defaults for the drawn maze. A micromouse cell is 90mm square.
const (
	DefaultMarginX           = 300.0
	DefaultMarginY           = 100.0
	DefaultSquareWidthPixels = 50.0
	DefaultSquareWidthMeters = 0.09
)

// Options are the width-independent layout parameters.
type Options struct {
	MarginX           float64 `mapstructure:"marginX"`
	MarginY           float64 `mapstructure:"marginY"`
	SquareWidthPixels float64 `mapstructure:"squareWidthPixels"`
	SquareWidthMeters float64 `mapstructure:"squareWidthMeters"`
}

func DefaultOptions() Options {
	return Options{
		MarginX:           DefaultMarginX,
		MarginY:           DefaultMarginY,
		SquareWidthPixels: DefaultSquareWidthPixels,
		SquareWidthMeters: DefaultSquareWidthMeters,
	}
}

// Grid is the layout of a maze of Width cells per side. OriginX/OriginY is the screen
// position of the bottom-left corner of the grid.
type Grid struct {
	Width             int
	OriginX, OriginY  float64
	SquareWidthPixels float64
	SquareWidthMeters float64
	MarginX, MarginY  float64
}

// NewGrid lays out a maze of the given width. The grid hangs below the top margin, so
// its bottom-left origin moves down as the maze grows.
func NewGrid(width int, opts Options) Grid {
	return Grid{
		Width:             width,
		OriginX:           opts.MarginX,
		OriginY:           opts.MarginY + float64(width)*opts.SquareWidthPixels,
		SquareWidthPixels: opts.SquareWidthPixels,
		SquareWidthMeters: opts.SquareWidthMeters,
		MarginX:           opts.MarginX,
		MarginY:           opts.MarginY,
	}
}

// Ratio is the number of pixels per meter. Zero when the physical cell size is unset.
func (g Grid) Ratio() float64 {
	if g.SquareWidthMeters <= 0 {
		return 0
	}
	return g.SquareWidthPixels / g.SquareWidthMeters
}

// Project converts a physical position in meters to screen pixels.
func (g Grid) Project(mx, my float64) (px, py float64) {
	ratio := g.Ratio()
	return g.OriginX + mx*ratio, g.OriginY - my*ratio
}

// Local converts a screen position to grid-local pixels relative to the origin, with
// y pointing up.
func (g Grid) Local(px, py float64) (x, y float64) {
	return px - g.OriginX, g.OriginY - py
}

// Contains reports whether the screen position lies on the drawn grid.
func (g Grid) Contains(px, py float64) bool {
	x, y := g.Local(px, py)
	size := float64(g.Width) * g.SquareWidthPixels
	return x >= 0 && y >= 0 && x <= size && y <= size
}

// CanvasSize is the pixel size needed to draw the grid with its margins on every side.
func (g Grid) CanvasSize() (w, h int) {
	size := float64(g.Width) * g.SquareWidthPixels
	return int(math.Ceil(2*g.MarginX + size)), int(math.Ceil(2*g.MarginY + size))
}

// Segment is a line segment in screen pixels.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

func (s Segment) String() string {
	return fmt.Sprintf("M%.2f %.2fL%.2f %.2f", s.X1, s.Y1, s.X2, s.Y2)
}

// WallSegment returns the screen segment of a wall: the top edge of its cell for Up,
// the right edge for Right.
func (g Grid) WallSegment(w maze.Wall) Segment {
	sw := g.SquareWidthPixels
	left := g.OriginX + float64(w.X)*sw
	right := g.OriginX + float64(w.X+1)*sw
	bottom := g.OriginY - float64(w.Y)*sw
	top := g.OriginY - float64(w.Y+1)*sw
	if w.Dir == maze.Up {
		return Segment{X1: left, Y1: top, X2: right, Y2: top}
	}
	return Segment{X1: right, Y1: bottom, X2: right, Y2: top}
}

// Border returns the implicit southern and western borders, which are never stored as
// walls but always drawn.
func (g Grid) Border() []Segment {
	size := float64(g.Width) * g.SquareWidthPixels
	return []Segment{
		{X1: g.OriginX, Y1: g.OriginY, X2: g.OriginX + size, Y2: g.OriginY},
		{X1: g.OriginX, Y1: g.OriginY, X2: g.OriginX, Y2: g.OriginY - size},
	}
}

// Path joins segments into an svg path description.
func Path(segments []Segment) string {
	var path string
	for _, s := range segments {
		path += s.String()
	}
	return path
}
