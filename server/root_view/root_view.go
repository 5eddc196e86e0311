package root_view

import (
	"context"
	"html/template"
	"time"

	"micromouse/server/fastview"
	"micromouse/server/maze_views"
	"micromouse/viewer"

	channerics "github.com/niceyeti/channerics/channels"
)

// batchRate is the window within which view updates are coalesced before sending.
const batchRate = time.Millisecond * 20

// RootView is the main page's index.html, which is the container for all the
// view components, the wiring for their channels, etc.
type RootView struct {
	views   fastview.Views
	updates <-chan []fastview.EleUpdate
}

// NewRootView creates the main page and the views it contains, all fed by snapshots.
func NewRootView(
	ctx context.Context,
	snapshots <-chan viewer.Snapshot,
) (*RootView, error) {
	views, err := fastview.NewViewBuilder[viewer.Snapshot, maze_views.Frame]().
		WithContext(ctx).
		WithModel(snapshots, maze_views.Convert).
		WithView(
			fastview.View(maze_views.NewControls),
			fastview.View(maze_views.NewWalls),
			fastview.View(maze_views.NewRobot)).
		Build()
	if err != nil {
		return nil, err
	}

	return &RootView{
		views:   views,
		updates: fanIn(ctx.Done(), views),
	}, nil
}

// Updates returns the main ele-update channel for all the views.
func (rv *RootView) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

// Parse builds the main page's template, with websocket bootstrap code, and returns its name.
// The first view is laid out above the canvas; the others are stacked on the canvas.
func (rv *RootView) Parse(
	parent *template.Template,
) (name string, err error) {
	viewTemplates, err := rv.views.Parse(parent)
	if err != nil {
		return
	}

	var header, canvas string
	for i, tname := range viewTemplates {
		if i == 0 {
			header += `{{ template "` + tname + `" . }}`
		} else {
			canvas += `{{ template "` + tname + `" . }}`
		}
	}

	// The main template bootstraps the rest: sets up client websocket and updates, aggregates views.
	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<title>micromouse</title>
			<link rel="icon" href="data:,">
			<!--This is the client bootstrap code by which the server pushes new data to the view via websocket.-->
			<script>
				const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
				ws.onopen = function (event) {
					console.log("Web socket opened")
				};

				ws.onerror = function (event) {
					console.log('WebSocket error: ', event);
				};

				// When the server pushes view updates, find these eles and update them.
				// Inputs being edited by the user are left alone.
				ws.onmessage = function (event) {
					const items = JSON.parse(event.data)
					for (const update of items) {
						const ele = document.getElementById(update.EleId)
						if (ele === null) {
							continue
						}
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else if (op.Key === "value") {
								if (ele !== document.activeElement) {
									ele.value = op.Value;
								}
							} else if (op.Key === "disabled") {
								ele.disabled = (op.Value === "true");
							} else {
								ele.setAttribute(op.Key, op.Value)
							}
						}
					}
				}

				function send(method, path, body) {
					const init = { method: method };
					if (body !== undefined) {
						init.body = body;
					}
					fetch(path, init).then(function (resp) {
						if (!resp.ok) {
							resp.text().then(function (text) { console.log(method, path, resp.status, text) });
						}
					});
				}

				const actions = {
					"play": () => send("POST", "/api/playback/play"),
					"stop": () => send("POST", "/api/playback/stop"),
					"reset": () => send("POST", "/api/playback/reset"),
					"slower": () => send("POST", "/api/playback/slower"),
					"faster": () => send("POST", "/api/playback/faster"),
					"simulate": () => send("POST", "/api/simulate"),
					"apply-maze": () => send("PUT", "/api/maze", document.getElementById("maze-text").value),
				};

				window.addEventListener("DOMContentLoaded", function () {
					for (const button of document.querySelectorAll("button[data-action]")) {
						button.addEventListener("click", function () {
							actions[button.dataset.action]();
						});
					}

					document.getElementById("scrub").addEventListener("input", function (event) {
						send("POST", "/api/playback/scrub", JSON.stringify({ value: Number(event.target.value) }));
					});

					document.getElementById("walls-canvas").addEventListener("click", function (event) {
						send("POST", "/api/maze/click", JSON.stringify({ x: event.offsetX, y: event.offsetY }));
					});

					document.getElementById("results-file").addEventListener("change", function (event) {
						const file = event.target.files[0];
						if (file !== undefined) {
							file.text().then((text) => send("PUT", "/api/results", text));
						}
					});
				});
			</script>
		</head>
		<body>
		` + header + `
		<div style="position: relative;">
		` + canvas + `
		</div>
		</body></html>
	{{ end }}
	`

	_, err = parent.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single channel,
// and throttles its output.
func fanIn(
	done <-chan struct{},
	views fastview.Views,
) <-chan []fastview.EleUpdate {
	return batchify(done, views.Updates(done), batchRate)
}

// batchify batches within the passed time frame before sending, merging the ops of
// updates for the same ele-id so that only the latest value per element and key is sent.
// A batch held back by the rate is flushed at the end of its window, so the last update
// is never stranded.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		var pending []fastview.EleUpdate
		flush := channerics.NewTicker(done, rate)
		last := time.Time{}

		send := func() bool {
			select {
			case output <- pending:
				pending = nil
				last = time.Now()
				return true
			case <-done:
				return false
			}
		}

		for {
			select {
			case <-done:
				return
			case updates, ok := <-source:
				if !ok {
					if len(pending) > 0 {
						send()
					}
					return
				}
				pending = fastview.MergeUpdates(pending, updates)
				if time.Since(last) < rate || len(pending) == 0 {
					continue
				}
			case <-flush:
				if len(pending) == 0 || time.Since(last) < rate {
					continue
				}
			}
			if !send() {
				return
			}
		}
	}()

	return output
}
