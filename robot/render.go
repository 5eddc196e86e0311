package robot

import (
	"math"

	"micromouse/geometry"
)

// Outline dimensions in meters. The robot faces local +y.
const (
	HalfWidth   = 0.02
	BackLength  = 0.02
	FrontLength = 0.035
	MidOffset   = 0.015
)

// Point is a position in meters.
type Point struct {
	X, Y float64
}

// Outline is the robot polygon in its local frame: left-back, right-back, right-mid,
// front, left-mid. The last vertex closes back onto the first.
var Outline = [...]Point{
	{X: -HalfWidth, Y: -BackLength},
	{X: HalfWidth, Y: -BackLength},
	{X: HalfWidth, Y: MidOffset},
	{X: 0, Y: FrontLength},
	{X: -HalfWidth, Y: MidOffset},
}

// Place rotates the outline by theta - π/2, so that a heading of π/2 leaves the local
// +y axis pointing up the maze, and translates it to (x, y). Positions are in meters.
func Place(x, y, theta float64) (vertices [len(Outline)]Point) {
	sin, cos := math.Sincos(theta - math.Pi/2)
	for i, v := range Outline {
		vertices[i] = Point{
			X: x + v.X*cos - v.Y*sin,
			Y: y + v.X*sin + v.Y*cos,
		}
	}
	return
}

// Render returns the outline edges of the robot at pose, projected to screen pixels.
func Render(pose Pose, grid geometry.Grid) []geometry.Segment {
	vertices := Place(pose.X.X, pose.Y.X, pose.Theta.X)
	segments := make([]geometry.Segment, 0, len(vertices))
	for i := range vertices {
		from, to := vertices[i], vertices[(i+1)%len(vertices)]
		x1, y1 := grid.Project(from.X, from.Y)
		x2, y2 := grid.Project(to.X, to.Y)
		segments = append(segments, geometry.Segment{X1: x1, Y1: y1, X2: x2, Y2: y2})
	}
	return segments
}
