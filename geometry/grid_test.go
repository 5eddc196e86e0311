package geometry

import (
	"testing"

	"micromouse/maze"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGrid(t *testing.T) {
	Convey("When laying out a 4x4 maze with the default options", t, func() {
		grid := NewGrid(4, DefaultOptions())

		Convey("The origin is the bottom-left corner below the top margin", func() {
			So(grid.OriginX, ShouldEqual, 300)
			So(grid.OriginY, ShouldEqual, 300)
			So(grid.Ratio(), ShouldAlmostEqual, 50/0.09, 1e-9)
		})

		Convey("Physical positions project with y flipped", func() {
			px, py := grid.Project(0.09, 0.18)
			So(px, ShouldAlmostEqual, 350, 1e-9)
			So(py, ShouldAlmostEqual, 200, 1e-9)
		})

		Convey("Screen positions convert to grid-local pixels", func() {
			x, y := grid.Local(325, 290)
			So(x, ShouldEqual, 25)
			So(y, ShouldEqual, 10)
			So(grid.Contains(325, 290), ShouldBeTrue)
			So(grid.Contains(299, 290), ShouldBeFalse)
			So(grid.Contains(325, 301), ShouldBeFalse)
			So(grid.Contains(500, 100), ShouldBeTrue)
			So(grid.Contains(501, 100), ShouldBeFalse)
		})

		Convey("Walls map to the top and right edges of their cell", func() {
			So(grid.WallSegment(maze.Wall{X: 0, Y: 0, Dir: maze.Up}), ShouldResemble,
				Segment{X1: 300, Y1: 250, X2: 350, Y2: 250})
			So(grid.WallSegment(maze.Wall{X: 1, Y: 2, Dir: maze.Right}), ShouldResemble,
				Segment{X1: 400, Y1: 200, X2: 400, Y2: 150})
		})

		Convey("The implicit border spans the grid", func() {
			So(grid.Border(), ShouldResemble, []Segment{
				{X1: 300, Y1: 300, X2: 500, Y2: 300},
				{X1: 300, Y1: 300, X2: 300, Y2: 100},
			})
			w, h := grid.CanvasSize()
			So(w, ShouldEqual, 800)
			So(h, ShouldEqual, 400)
		})

		Convey("Segments join into an svg path", func() {
			So(Path([]Segment{{1, 2, 3, 4}}), ShouldEqual, "M1.00 2.00L3.00 4.00")
		})
	})

	Convey("When the physical cell size is unset", t, func() {
		grid := NewGrid(2, Options{SquareWidthPixels: 50})
		So(grid.Ratio(), ShouldEqual, 0)
	})
}
