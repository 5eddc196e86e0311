// maze_views contains views derived from the Frame view-model.
package maze_views

import (
	"fmt"

	"micromouse/geometry"
	"micromouse/viewer"
)

// Frame is a viewer snapshot reduced to values that are immediately usable as view
// parameters, so that the templates need no helper funcs.
type Frame struct {
	CanvasWidth, CanvasHeight int
	WallsPath                 string
	RobotPath                 string
	Scrub                     string
	Playing                   bool
	PlayState                 string
	SpeedLabel                string
	FrameLabel                string
	Status                    string
	Loading                   bool
	MazeText                  string
}

// Convert transforms a viewer snapshot into a Frame.
func Convert(snap viewer.Snapshot) Frame {
	w, h := snap.Grid.CanvasSize()
	frame := Frame{
		CanvasWidth:  w,
		CanvasHeight: h,
		WallsPath:    geometry.Path(snap.WallSegments()),
		Scrub:        fmt.Sprintf("%g", snap.Scrub),
		Playing:      snap.Playing,
		PlayState:    "stopped",
		SpeedLabel:   fmt.Sprintf("x%g", snap.Speed),
		FrameLabel:   frameLabel(snap),
		Status:       status(snap),
		Loading:      snap.Loading,
		MazeText:     snap.MazeText,
	}
	if snap.Playing {
		frame.PlayState = "playing"
	}
	if snap.HasFrame {
		frame.RobotPath = outlinePath(snap.Robot)
	}
	return frame
}

func frameLabel(snap viewer.Snapshot) string {
	if snap.FrameCount == 0 {
		return "no results"
	}
	if !snap.HasFrame {
		return fmt.Sprintf("end / %d", snap.FrameCount)
	}
	return fmt.Sprintf("%d / %d", snap.Frame+1, snap.FrameCount)
}

func status(snap viewer.Snapshot) string {
	switch {
	case snap.Loading:
		return "simulating..."
	case snap.Err != "":
		return "simulation failed: " + snap.Err
	default:
		return "ready"
	}
}

// outlinePath joins the outline edges into a single closed svg path, so it can be filled.
func outlinePath(outline []geometry.Segment) string {
	if len(outline) == 0 {
		return ""
	}
	path := fmt.Sprintf("M%.2f %.2f", outline[0].X1, outline[0].Y1)
	for _, s := range outline {
		path += fmt.Sprintf("L%.2f %.2f", s.X2, s.Y2)
	}
	return path + "Z"
}
