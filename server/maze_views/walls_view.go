package maze_views

import (
	"fmt"
	"html/template"

	"micromouse/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// Walls draws the maze walls, including the fixed western and southern borders. Clicks
// on its canvas toggle the nearest wall.
type Walls struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewWalls(
	done <-chan struct{},
	frames <-chan Frame,
) (wv *Walls) {
	wv = &Walls{id: "walls"}
	wv.updates = channerics.Convert(done, frames, wv.onUpdate)
	return
}

func (wv *Walls) Updates() <-chan []fastview.EleUpdate {
	return wv.updates
}

func (wv *Walls) onUpdate(frame Frame) []fastview.EleUpdate {
	return []fastview.EleUpdate{
		{
			EleId: wv.id + "-canvas",
			Ops: []fastview.Op{
				{Key: "width", Value: fmt.Sprintf("%d", frame.CanvasWidth)},
				{Key: "height", Value: fmt.Sprintf("%d", frame.CanvasHeight)},
			},
		},
		{
			EleId: wv.id + "-path",
			Ops: []fastview.Op{
				{Key: "d", Value: frame.WallsPath},
			},
		},
	}
}

// Parse defines the walls svg. It is laid out absolutely so the robot can be drawn over it.
func (wv *Walls) Parse(t *template.Template) (name string, err error) {
	name = wv.id
	_, err = t.Parse(`{{ define "` + name + `" }}
		<svg id="` + wv.id + `-canvas" xmlns='http://www.w3.org/2000/svg'
			width="{{ .CanvasWidth }}" height="{{ .CanvasHeight }}"
			style="position: absolute; left: 0; top: 0; cursor: crosshair;">
			<path id="` + wv.id + `-path" d="{{ .WallsPath }}"
				stroke="black" stroke-width="3" stroke-linecap="square" fill="none"/>
		</svg>
		{{ end }}`)
	return
}
