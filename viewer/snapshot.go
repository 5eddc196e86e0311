package viewer

import (
	"micromouse/geometry"
	"micromouse/maze"
	"micromouse/robot"
	"micromouse/simulator"
)

// Snapshot is an immutable copy of everything needed to draw the viewer.
type Snapshot struct {
	MazeText   string             `json:"mazeText"`
	Width      int                `json:"width"`
	Walls      []maze.Wall        `json:"walls"`
	Grid       geometry.Grid      `json:"grid"`
	Scrub      float64            `json:"scrub"`
	Playing    bool               `json:"playing"`
	Speed      float64            `json:"speed"`
	SpeedIndex int                `json:"speedIndex"`
	FrameCount int                `json:"frameCount"`
	Frame      int                `json:"frame"`
	HasFrame   bool               `json:"hasFrame"`
	Pose       *robot.Pose        `json:"pose,omitempty"`
	Robot      []geometry.Segment `json:"robot"`
	Loading    bool               `json:"loading"`
	Err        string             `json:"error,omitempty"`
}

// WallSegments returns the wall segments of the maze, including the implicit western
// and southern borders.
func (snap Snapshot) WallSegments() []geometry.Segment {
	segments := snap.Grid.Border()
	for _, w := range snap.Walls {
		segments = append(segments, snap.Grid.WallSegment(w))
	}
	return segments
}

// snapshot copies the session state. It must only be called by the owner goroutine.
func (s *Session) snapshot() Snapshot {
	m := s.editor.Maze()
	snap := Snapshot{
		MazeText:   s.editor.Text(),
		Width:      m.Width,
		Walls:      m.Walls.Walls(),
		Grid:       s.editor.Grid(),
		Scrub:      s.state.Scrub,
		Playing:    s.state.Playing,
		Speed:      s.state.Speed(),
		SpeedIndex: s.state.SpeedIndex,
		FrameCount: len(s.results),
		Loading:    s.loading,
	}
	if s.lastErr != nil {
		snap.Err = s.lastErr.Error()
	}
	if snap.Frame, snap.HasFrame = s.state.Frame(len(s.results)); snap.HasFrame {
		pose := s.results[snap.Frame]
		snap.Pose = &pose
		snap.Robot = robot.Render(pose, snap.Grid)
	}
	return snap
}

// Still returns the snapshot of a stopped session over text and results, scrubbed to
// scrub. It serves one-off renders that need no running session.
func Still(text string, results robot.Results, scrub float64, geo geometry.Options) Snapshot {
	opts := DefaultOptions()
	opts.Geometry = geo
	s := NewSession(simulator.DefaultInput().WithMaze(text), nil, opts, nil)
	s.results = results
	s.state.ScrubTo(scrub)
	return s.snapshot()
}
