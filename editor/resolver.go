// editor maps pointer clicks on the drawn grid to maze walls and toggles them.
package editor

import (
	"math"

	"micromouse/geometry"
	"micromouse/maze"
)

type edge int

const (
	leftEdge edge = iota
	rightEdge
	bottomEdge
	topEdge
)

// Resolve returns the wall nearest to a click at screen position (clickX, clickY).
// The click is located in its cell and the distances to the cell's four edges are
// compared in the order left, right, bottom, top; on exact ties the first listed edge
// wins. That order is inherited behavior, not a geometric rule, and is kept for
// compatibility. Clicks nearest the western or southern border resolve to no wall,
// since those borders are not editable. A degenerate grid resolves to no wall.
func Resolve(clickX, clickY float64, grid geometry.Grid) (wall maze.Wall, ok bool) {
	sw := grid.SquareWidthPixels
	if !(sw > 0) {
		return
	}

	x, y := grid.Local(clickX, clickY)
	xquo, yquo := math.Floor(x/sw), math.Floor(y/sw)
	xrem, yrem := x-xquo*sw, y-yquo*sw
	if math.IsNaN(xrem) || math.IsNaN(yrem) || math.IsInf(xquo, 0) || math.IsInf(yquo, 0) {
		return
	}

	distances := [...]float64{
		leftEdge:   xrem,
		rightEdge:  sw - xrem,
		bottomEdge: yrem,
		topEdge:    sw - yrem,
	}
	nearest := leftEdge
	for candidate := leftEdge + 1; candidate <= topEdge; candidate++ {
		// Strictly less keeps the earlier edge on ties.
		if distances[candidate] < distances[nearest] {
			nearest = candidate
		}
	}

	cx, cy := int(xquo), int(yquo)
	switch nearest {
	case rightEdge:
		return maze.Wall{X: cx, Y: cy, Dir: maze.Right}, true
	case topEdge:
		return maze.Wall{X: cx, Y: cy, Dir: maze.Up}, true
	case leftEdge:
		if cx == 0 {
			return
		}
		return maze.Wall{X: cx - 1, Y: cy, Dir: maze.Right}, true
	case bottomEdge:
		if cy == 0 {
			return
		}
		return maze.Wall{X: cx, Y: cy - 1, Dir: maze.Up}, true
	}
	return
}
