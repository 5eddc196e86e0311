package maze_views

import (
	"html/template"
	"strconv"

	"micromouse/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// Controls holds the playback buttons, the scrub slider, the labels describing the
// current frame and the maze text editor.
type Controls struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewControls(
	done <-chan struct{},
	frames <-chan Frame,
) (cv *Controls) {
	cv = &Controls{id: "controls"}
	cv.updates = channerics.Convert(done, frames, cv.onUpdate)
	return
}

func (cv *Controls) Updates() <-chan []fastview.EleUpdate {
	return cv.updates
}

func text(id, value string) fastview.EleUpdate {
	return fastview.EleUpdate{
		EleId: id,
		Ops:   []fastview.Op{{Key: fastview.TextContent, Value: value}},
	}
}

func (cv *Controls) onUpdate(frame Frame) []fastview.EleUpdate {
	return []fastview.EleUpdate{
		{
			EleId: "scrub",
			Ops:   []fastview.Op{{Key: fastview.Value, Value: frame.Scrub}},
		},
		{
			EleId: "maze-text",
			Ops:   []fastview.Op{{Key: fastview.Value, Value: frame.MazeText}},
		},
		{
			EleId: "simulate",
			Ops:   []fastview.Op{{Key: fastview.Disabled, Value: strconv.FormatBool(frame.Loading)}},
		},
		text("speed-label", frame.SpeedLabel),
		text("frame-label", frame.FrameLabel),
		text("play-state", frame.PlayState),
		text("status", frame.Status),
	}
}

func (cv *Controls) Parse(t *template.Template) (name string, err error) {
	name = cv.id
	_, err = t.Parse(`{{ define "` + name + `" }}
		<div id="` + cv.id + `" style="padding: 10px; font-family: sans-serif;">
			<div>
				<button data-action="play">play</button>
				<button data-action="stop">stop</button>
				<button data-action="reset">reset</button>
				<button data-action="slower">slower</button>
				<button data-action="faster">faster</button>
				<span id="speed-label">{{ .SpeedLabel }}</span>
				<span id="play-state">{{ .PlayState }}</span>
			</div>
			<div>
				<input id="scrub" type="range" min="0" max="100" step="any" value="{{ .Scrub }}" style="width: 400px;">
				<span id="frame-label">{{ .FrameLabel }}</span>
			</div>
			<div>
				<button id="simulate" data-action="simulate" {{ if .Loading }}disabled{{ end }}>simulate</button>
				<label>results <input id="results-file" type="file" accept="application/json"></label>
				<span id="status">{{ .Status }}</span>
			</div>
			<div>
				<textarea id="maze-text" rows="12" cols="40" spellcheck="false"
					style="font-family: monospace;">{{ .MazeText }}</textarea>
				<button data-action="apply-maze">apply maze</button>
			</div>
		</div>
		{{ end }}`)
	return
}
