package maze_views

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"testing"
	"time"

	"micromouse/geometry"
	"micromouse/maze"
	"micromouse/robot"
	"micromouse/server/fastview"
	"micromouse/viewer"

	. "github.com/smartystreets/goconvey/convey"
)

func testSnapshot() viewer.Snapshot {
	m := maze.Parse(maze.DefaultText)
	return viewer.Snapshot{
		MazeText:   maze.DefaultText,
		Width:      m.Width,
		Walls:      m.Walls.Walls(),
		Grid:       geometry.NewGrid(m.Width, geometry.DefaultOptions()),
		Speed:      1,
		SpeedIndex: 3,
	}
}

func opsOf(updates []fastview.EleUpdate, id string) map[string]string {
	for _, update := range updates {
		if update.EleId == id {
			ops := map[string]string{}
			for _, op := range update.Ops {
				ops[op.Key] = op.Value
			}
			return ops
		}
	}
	return nil
}

func TestConvert(t *testing.T) {
	Convey("When converting a snapshot without results", t, func() {
		frame := Convert(testSnapshot())
		So(frame.CanvasWidth, ShouldEqual, 800)
		So(frame.CanvasHeight, ShouldEqual, 400)
		So(frame.WallsPath, ShouldStartWith, "M300.00 300.00L500.00 300.00M300.00 300.00L300.00 100.00")
		So(strings.Count(frame.WallsPath, "M"), ShouldEqual, 19)
		So(frame.RobotPath, ShouldBeEmpty)
		So(frame.FrameLabel, ShouldEqual, "no results")
		So(frame.SpeedLabel, ShouldEqual, "x1")
		So(frame.PlayState, ShouldEqual, "stopped")
		So(frame.Status, ShouldEqual, "ready")
	})

	Convey("When converting a snapshot at a frame", t, func() {
		snap := testSnapshot()
		pose := robot.Pose{X: robot.AxisState{X: 0.045}, Y: robot.AxisState{X: 0.045}, Theta: robot.AxisState{X: 1.5707963267948966}}
		snap.FrameCount, snap.Frame, snap.HasFrame, snap.Pose = 10, 4, true, &pose
		snap.Robot = robot.Render(pose, snap.Grid)
		snap.Playing, snap.Scrub = true, 45

		frame := Convert(snap)
		So(frame.RobotPath, ShouldStartWith, "M")
		So(frame.RobotPath, ShouldEndWith, "Z")
		So(strings.Count(frame.RobotPath, "L"), ShouldEqual, 5)
		So(frame.FrameLabel, ShouldEqual, "5 / 10")
		So(frame.Scrub, ShouldEqual, "45")
		So(frame.PlayState, ShouldEqual, "playing")
	})

	Convey("When a simulation is loading or failed, the status says so", t, func() {
		snap := testSnapshot()
		snap.Loading = true
		So(Convert(snap).Status, ShouldEqual, "simulating...")
		snap.Loading, snap.Err = false, "connection refused"
		So(Convert(snap).Status, ShouldContainSubstring, "connection refused")
		snap.FrameCount, snap.Scrub = 3, 100
		So(Convert(snap).FrameLabel, ShouldEqual, "end / 3")
	})
}

func TestViews(t *testing.T) {
	Convey("Given the maze views", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		frame := Convert(testSnapshot())

		walls := NewWalls(ctx.Done(), make(chan Frame))
		robotView := NewRobot(ctx.Done(), make(chan Frame))
		controls := NewControls(ctx.Done(), make(chan Frame))

		Convey("Each view updates its own elements", func() {
			ops := opsOf(walls.onUpdate(frame), "walls-path")
			So(ops["d"], ShouldEqual, frame.WallsPath)

			ops = opsOf(robotView.onUpdate(frame), "robot-path")
			So(ops["visibility"], ShouldEqual, "hidden")

			updates := controls.onUpdate(frame)
			So(opsOf(updates, "scrub")[fastview.Value], ShouldEqual, "0")
			So(opsOf(updates, "maze-text")[fastview.Value], ShouldEqual, maze.DefaultText)
			So(opsOf(updates, "simulate")[fastview.Disabled], ShouldEqual, "false")
			So(opsOf(updates, "speed-label")[fastview.TextContent], ShouldEqual, "x1")
		})

		Convey("Frames flow through to updates", func() {
			frames := make(chan Frame, 1)
			view := NewWalls(ctx.Done(), frames)
			frames <- frame
			select {
			case updates := <-view.Updates():
				So(len(updates), ShouldEqual, 2)
			case <-time.After(time.Second):
				So("no update", ShouldBeEmpty)
			}
		})

		Convey("The templates render the initial frame", func() {
			tmpl := template.New("page")
			var body string
			for _, vc := range []fastview.ViewComponent{controls, walls, robotView} {
				name, err := vc.Parse(tmpl)
				So(err, ShouldBeNil)
				body += `{{ template "` + name + `" . }}`
			}
			_, err := tmpl.Parse(body)
			So(err, ShouldBeNil)

			buf := &bytes.Buffer{}
			So(tmpl.Execute(buf, frame), ShouldBeNil)
			html := buf.String()
			So(html, ShouldContainSubstring, `id="walls-path" d="M300.00 300.00`)
			So(html, ShouldContainSubstring, `width="800"`)
			So(html, ShouldContainSubstring, `+---+---+---+---+`)
			So(html, ShouldNotContainSubstring, "disabled>")
		})
	})
}
