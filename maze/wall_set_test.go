package maze

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWallSet(t *testing.T) {
	Convey("When using a wall set", t, func() {
		ws := NewWallSet(Wall{1, 0, Up}, Wall{0, 0, Right}, Wall{1, 0, Up})

		Convey("Duplicates collapse by value", func() {
			So(ws.Len(), ShouldEqual, 2)
			So(ws.Has(Wall{X: 1, Y: 0, Dir: Up}), ShouldBeTrue)
			So(ws.Has(Wall{X: 1, Y: 0, Dir: Right}), ShouldBeFalse)
		})

		Convey("Toggling twice restores the set", func() {
			before := ws.Clone()
			w := Wall{2, 2, Right}
			So(ws.Toggle(w), ShouldBeTrue)
			So(ws.Has(w), ShouldBeTrue)
			So(ws.Toggle(w), ShouldBeFalse)
			So(ws.Equal(before), ShouldBeTrue)
		})

		Convey("Walls are listed bottom-to-top, left-to-right", func() {
			ws.Add(Wall{0, 1, Up})
			ws.Add(Wall{0, 0, Up})
			So(ws.Walls(), ShouldResemble, []Wall{
				{0, 0, Up}, {0, 0, Right}, {1, 0, Up}, {0, 1, Up},
			})
		})

		Convey("Clones are independent", func() {
			clone := ws.Clone()
			clone.Remove(Wall{0, 0, Right})
			So(ws.Len(), ShouldEqual, 2)
			So(clone.Len(), ShouldEqual, 1)
			So(ws.Equal(clone), ShouldBeFalse)
		})
	})
}
