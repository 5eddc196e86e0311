package maze_views

import (
	"fmt"
	"html/template"

	"micromouse/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// Robot draws the robot outline at the current frame, over the walls.
type Robot struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewRobot(
	done <-chan struct{},
	frames <-chan Frame,
) (rv *Robot) {
	rv = &Robot{id: "robot"}
	rv.updates = channerics.Convert(done, frames, rv.onUpdate)
	return
}

func (rv *Robot) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

func (rv *Robot) onUpdate(frame Frame) []fastview.EleUpdate {
	visibility := "visible"
	if frame.RobotPath == "" {
		visibility = "hidden"
	}
	return []fastview.EleUpdate{
		{
			EleId: rv.id + "-canvas",
			Ops: []fastview.Op{
				{Key: "width", Value: fmt.Sprintf("%d", frame.CanvasWidth)},
				{Key: "height", Value: fmt.Sprintf("%d", frame.CanvasHeight)},
			},
		},
		{
			EleId: rv.id + "-path",
			Ops: []fastview.Op{
				{Key: "d", Value: frame.RobotPath},
				{Key: "visibility", Value: visibility},
			},
		},
	}
}

func (rv *Robot) Parse(t *template.Template) (name string, err error) {
	name = rv.id
	_, err = t.Parse(`{{ define "` + name + `" }}
		<svg id="` + rv.id + `-canvas" xmlns='http://www.w3.org/2000/svg'
			width="{{ .CanvasWidth }}" height="{{ .CanvasHeight }}"
			style="position: absolute; left: 0; top: 0; pointer-events: none;">
			<path id="` + rv.id + `-path" d="{{ .RobotPath }}"
				visibility="{{ if .RobotPath }}visible{{ else }}hidden{{ end }}"
				fill="#1e88e5" stroke="#0d47a1" stroke-width="1.5"/>
		</svg>
		{{ end }}`)
	return
}
