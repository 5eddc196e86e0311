package viewer

import (
	"context"
	"errors"
	"testing"
	"time"

	"micromouse/maze"
	"micromouse/robot"
	"micromouse/simulator"

	. "github.com/smartystreets/goconvey/convey"
)

type call struct {
	input simulator.Input
	reply chan reply
}

type reply struct {
	results robot.Results
	err     error
}

// fakeSearcher hands every search to the test, which answers it on the call's reply chan.
type fakeSearcher struct {
	calls chan *call
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{calls: make(chan *call, 4)}
}

func (fs *fakeSearcher) Search(ctx context.Context, input simulator.Input) (robot.Results, error) {
	c := &call{input: input, reply: make(chan reply, 1)}
	fs.calls <- c
	select {
	case r := <-c.reply:
		return r.results, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (fs *fakeSearcher) next() *call {
	select {
	case c := <-fs.calls:
		return c
	case <-time.After(2 * time.Second):
		return nil
	}
}

func poses(n int) (results robot.Results) {
	for i := 0; i < n; i++ {
		results = append(results, robot.Pose{
			X:     robot.AxisState{X: 0.045},
			Y:     robot.AxisState{X: 0.045 + float64(i)*0.001},
			Theta: robot.AxisState{X: 1.5707963267948966},
		})
	}
	return
}

func waitFor(snaps <-chan Snapshot, pred func(Snapshot) bool) (Snapshot, bool) {
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				return snap, false
			}
			if pred(snap) {
				return snap, true
			}
		case <-timeout:
			return Snapshot{}, false
		}
	}
}

func TestSession(t *testing.T) {
	Convey("Given a running session over the default input", t, func() {
		searcher := newFakeSearcher()
		opts := DefaultOptions()
		opts.TickPeriod = 5 * time.Millisecond
		session := NewSession(simulator.DefaultInput(), searcher, opts, nil)

		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan error, 1)
		go func() { stopped <- session.Run(ctx) }()
		Reset(func() { cancel() })

		Convey("The initial state is the default maze, paused at the start", func() {
			snap, err := session.Snapshot()
			So(err, ShouldBeNil)
			So(snap.Width, ShouldEqual, 4)
			So(len(snap.Walls), ShouldEqual, 17)
			So(snap.MazeText, ShouldEqual, maze.DefaultText)
			So(snap.Grid.OriginY, ShouldEqual, 300)
			So(snap.Scrub, ShouldEqual, 0)
			So(snap.Speed, ShouldEqual, 1.0)
			So(snap.HasFrame, ShouldBeFalse)
			So(snap.Robot, ShouldBeEmpty)
			So(len(snap.WallSegments()), ShouldEqual, 19)
		})

		Convey("When clicking near a missing wall, it is added and removed again", func() {
			wall, ok, err := session.Click(362, 260)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(wall, ShouldResemble, maze.Wall{X: 1, Y: 0, Dir: maze.Up})

			snap, _ := session.Snapshot()
			So(len(snap.Walls), ShouldEqual, 18)
			input, _ := session.Input()
			So(input.MazeString, ShouldEqual, snap.MazeText)

			So(session.Toggle(wall), ShouldBeNil)
			snap, _ = session.Snapshot()
			So(snap.MazeText, ShouldEqual, maze.DefaultText)
		})

		Convey("When clicking off the grid, nothing changes", func() {
			_, ok, err := session.Click(10, 10)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			_, ok, err = session.Click(500, 100)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			snap, _ := session.Snapshot()
			So(snap.MazeText, ShouldEqual, maze.DefaultText)
		})

		Convey("When setting a new maze, the grid follows its width", func() {
			So(session.SetMaze("+---+\n|   |\n+---+"), ShouldBeNil)
			snap, _ := session.Snapshot()
			So(snap.Width, ShouldEqual, 1)
			So(snap.Grid.OriginY, ShouldEqual, 150)
			input, _ := session.Input()
			So(input.MazeString, ShouldEqual, "+---+\n|   |\n+---+")
		})

		Convey("When a simulation succeeds, its results replace the old ones", func() {
			So(session.Play(), ShouldBeNil)
			So(session.Simulate(), ShouldBeNil)

			snap, _ := session.Snapshot()
			So(snap.Loading, ShouldBeTrue)
			So(snap.Playing, ShouldBeFalse)

			c := searcher.next()
			So(c, ShouldNotBeNil)
			So(c.input.MazeString, ShouldEqual, maze.DefaultText)
			c.reply <- reply{results: poses(10)}

			snap, ok := waitFor(session.Snapshots(), func(s Snapshot) bool { return !s.Loading })
			So(ok, ShouldBeTrue)
			So(snap.FrameCount, ShouldEqual, 10)
			So(snap.Scrub, ShouldEqual, 0)
			So(snap.HasFrame, ShouldBeTrue)
			So(snap.Frame, ShouldEqual, 0)
			So(len(snap.Robot), ShouldEqual, 5)
			So(snap.Err, ShouldBeEmpty)
		})

		Convey("When a simulation fails, the previous results are kept", func() {
			So(session.SetResults(poses(3)), ShouldBeNil)
			So(session.Simulate(), ShouldBeNil)
			c := searcher.next()
			So(c, ShouldNotBeNil)
			c.reply <- reply{err: errors.New("connection refused")}

			snap, ok := waitFor(session.Snapshots(), func(s Snapshot) bool { return !s.Loading })
			So(ok, ShouldBeTrue)
			So(snap.FrameCount, ShouldEqual, 3)
			So(snap.Err, ShouldContainSubstring, "connection refused")
		})

		Convey("When simulations overlap, only the latest is applied", func() {
			So(session.Simulate(), ShouldBeNil)
			first := searcher.next()
			So(session.Simulate(), ShouldBeNil)
			second := searcher.next()
			So(first, ShouldNotBeNil)
			So(second, ShouldNotBeNil)

			first.reply <- reply{results: poses(7)}
			time.Sleep(20 * time.Millisecond)
			snap, _ := session.Snapshot()
			So(snap.Loading, ShouldBeTrue)
			So(snap.FrameCount, ShouldEqual, 0)

			second.reply <- reply{results: poses(4)}
			snap, ok := waitFor(session.Snapshots(), func(s Snapshot) bool { return !s.Loading })
			So(ok, ShouldBeTrue)
			So(snap.FrameCount, ShouldEqual, 4)
		})

		Convey("When results are uploaded, a pending simulation is abandoned", func() {
			So(session.Simulate(), ShouldBeNil)
			pending := searcher.next()
			So(pending, ShouldNotBeNil)
			So(session.SetResults(poses(2)), ShouldBeNil)
			pending.reply <- reply{results: poses(9)}
			time.Sleep(20 * time.Millisecond)

			snap, _ := session.Snapshot()
			So(snap.Loading, ShouldBeFalse)
			So(snap.FrameCount, ShouldEqual, 2)
		})

		Convey("When playing, the clock advances the scrub to the end", func() {
			So(session.SetResults(poses(1000)), ShouldBeNil)
			So(session.Faster(), ShouldBeNil)
			So(session.Play(), ShouldBeNil)

			snap, ok := waitFor(session.Snapshots(), func(s Snapshot) bool { return s.Scrub == 100 })
			So(ok, ShouldBeTrue)
			So(snap.Playing, ShouldBeTrue)
			So(snap.HasFrame, ShouldBeFalse)

			So(session.Reset(), ShouldBeNil)
			So(session.Stop(), ShouldBeNil)
			snap, _ = session.Snapshot()
			So(snap.Scrub, ShouldEqual, 0)
			So(snap.Playing, ShouldBeFalse)
		})

		Convey("When playing at 1x, the timeline advances at wall-clock pace", func() {
			// 10000 steps of 1ms: one second of playback covers a tenth of the timeline.
			So(session.SetResults(poses(10000)), ShouldBeNil)
			So(session.Play(), ShouldBeNil)
			time.Sleep(time.Second)
			snap, _ := session.Snapshot()
			So(snap.Scrub, ShouldBeGreaterThan, 0)
			So(snap.Scrub, ShouldBeLessThanOrEqualTo, 10.5)
		})

		Convey("When scrubbing, the frame follows the position", func() {
			So(session.SetResults(poses(10)), ShouldBeNil)
			So(session.ScrubTo(55), ShouldBeNil)
			snap, _ := session.Snapshot()
			So(snap.Frame, ShouldEqual, 5)
			So(snap.Pose.Y.X, ShouldAlmostEqual, 0.05, 1e-9)
		})

		Convey("When changing speed, it saturates", func() {
			for i := 0; i < 10; i++ {
				So(session.Slower(), ShouldBeNil)
			}
			snap, _ := session.Snapshot()
			So(snap.SpeedIndex, ShouldEqual, 0)
			So(snap.Speed, ShouldEqual, 0.25)
		})

		Convey("When the session ends, commands fail and snapshots close", func() {
			cancel()
			So(<-stopped, ShouldBeNil)
			So(session.Play(), ShouldEqual, ErrSessionClosed)
			_, ok := waitFor(session.Snapshots(), func(Snapshot) bool { return false })
			So(ok, ShouldBeFalse)
		})
	})
}

func TestStill(t *testing.T) {
	Convey("When taking a still of a maze and its results", t, func() {
		snap := Still(maze.DefaultText, poses(4), 50, DefaultOptions().Geometry)
		So(snap.Width, ShouldEqual, 4)
		So(snap.FrameCount, ShouldEqual, 4)
		So(snap.Frame, ShouldEqual, 2)
		So(len(snap.Robot), ShouldEqual, 5)
		So(snap.Playing, ShouldBeFalse)

		Convey("Without results there is no robot", func() {
			snap := Still(maze.DefaultText, nil, 50, DefaultOptions().Geometry)
			So(snap.HasFrame, ShouldBeFalse)
			So(snap.Robot, ShouldBeEmpty)
		})
	})
}
