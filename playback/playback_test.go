package playback

import (
	"context"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMapFrame(t *testing.T) {
	Convey("When mapping a scrub onto frames", t, func() {
		Convey("The start maps to the first frame", func() {
			for _, n := range []int{1, 2, 7, 1000} {
				index, ok := MapFrame(0, n)
				So(ok, ShouldBeTrue)
				So(index, ShouldEqual, 0)
			}
		})

		Convey("The end has no current frame", func() {
			for _, n := range []int{0, 1, 2, 7, 1000} {
				_, ok := MapFrame(100, n)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("An empty sequence has no current frame", func() {
			for _, s := range []float64{0, 0.5, 50, 99.99, 100} {
				_, ok := MapFrame(s, 0)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("Positions in between floor onto the frame", func() {
			index, ok := MapFrame(50, 10)
			So(ok, ShouldBeTrue)
			So(index, ShouldEqual, 5)

			index, ok = MapFrame(99.99, 10)
			So(ok, ShouldBeTrue)
			So(index, ShouldEqual, 9)

			index, ok = MapFrame(33.3, 3)
			So(ok, ShouldBeTrue)
			So(index, ShouldEqual, 0)
		})
	})
}

func TestState(t *testing.T) {
	Convey("When controlling playback", t, func() {
		st := NewState()
		So(st.Speed(), ShouldEqual, 1.0)

		Convey("When paused, ticks do not advance", func() {
			st.Tick(100)
			So(st.Scrub, ShouldEqual, 0)
		})

		Convey("When playing, each tick covers 50 steps of the timeline", func() {
			st.Play()
			st.Tick(1000)
			So(st.Scrub, ShouldAlmostEqual, 5, 1e-9)

			st.Faster()
			st.Tick(1000)
			So(st.Scrub, ShouldAlmostEqual, 15, 1e-9)
		})

		Convey("When playing, the scrub follows elapsed time whatever the tick period", func() {
			st.Play()
			for i := 0; i < 5; i++ {
				st.Advance(1000, 10*time.Millisecond)
			}
			So(st.Scrub, ShouldAlmostEqual, 5, 1e-9)

			other := NewState()
			other.Play()
			other.Tick(1000)
			So(other.Scrub, ShouldAlmostEqual, st.Scrub, 1e-9)

			st.Advance(1000, 0)
			So(st.Scrub, ShouldAlmostEqual, 5, 1e-9)
		})

		Convey("When playing, the scrub never decreases and never exceeds 100", func() {
			st.Play()
			st.SpeedIndex = len(Speeds) - 1
			last := st.Scrub
			for i := 0; i < 50; i++ {
				st.Tick(3000)
				So(st.Scrub, ShouldBeGreaterThanOrEqualTo, last)
				So(st.Scrub, ShouldBeLessThanOrEqualTo, 100)
				last = st.Scrub
			}
			So(st.Scrub, ShouldEqual, 100)
			So(st.Playing, ShouldBeTrue)
			_, ok := st.Frame(3000)
			So(ok, ShouldBeFalse)
		})

		Convey("When there are no frames, ticks are a no-op", func() {
			st.Play()
			st.Scrub = 42
			st.Tick(0)
			So(st.Scrub, ShouldEqual, 42)
			So(math.IsNaN(st.Scrub), ShouldBeFalse)
		})

		Convey("When stepping the speed, it saturates at both ends", func() {
			for i := 0; i < 20; i++ {
				st.Faster()
			}
			So(st.SpeedIndex, ShouldEqual, len(Speeds)-1)
			So(st.Speed(), ShouldEqual, 8.0)
			for i := 0; i < 20; i++ {
				st.Slower()
			}
			So(st.SpeedIndex, ShouldEqual, 0)
			So(st.Speed(), ShouldEqual, 0.25)
		})

		Convey("When resetting, playing is kept", func() {
			st.Play()
			st.Scrub = 70
			st.Reset()
			So(st.Scrub, ShouldEqual, 0)
			So(st.Playing, ShouldBeTrue)
		})

		Convey("When scrubbing manually, the value is clamped", func() {
			st.ScrubTo(37.5)
			So(st.Scrub, ShouldEqual, 37.5)
			st.ScrubTo(120)
			So(st.Scrub, ShouldEqual, 100)
			st.ScrubTo(-3)
			So(st.Scrub, ShouldEqual, 0)
			st.ScrubTo(math.NaN())
			So(st.Scrub, ShouldEqual, 0)
		})

		Convey("When the speed index is corrupt, the nearest speed is used", func() {
			st.SpeedIndex = 99
			So(st.Speed(), ShouldEqual, 8.0)
		})
	})
}

func TestClock(t *testing.T) {
	Convey("When running a clock", t, func() {
		clock := StartClock(context.Background(), time.Millisecond*5)

		Convey("It ticks until stopped", func() {
			select {
			case <-clock.Ticks():
			case <-time.After(time.Second):
				So("no tick received", ShouldBeEmpty)
			}

			clock.Stop()
			clock.Stop()
			select {
			case <-clock.Done():
			case <-time.After(time.Second):
				So("clock not stopped", ShouldBeEmpty)
			}

			_, open := <-clock.Ticks()
			So(open, ShouldBeFalse)
		})

		Convey("It stops with its parent context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			child := StartClock(ctx, 0)
			cancel()
			select {
			case <-child.Done():
			case <-time.After(time.Second):
				So("clock not stopped", ShouldBeEmpty)
			}
			child.Stop()
			clock.Stop()
		})
	})
}
