package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"micromouse/maze"
	"micromouse/robot"
	"micromouse/simulator"
	"micromouse/snapshot"
	"micromouse/viewer"

	"github.com/gorilla/mux"
)

// MazeResponse describes the maze under edit.
type MazeResponse struct {
	Width int         `json:"width"`
	Text  string      `json:"text"`
	Walls []maze.Wall `json:"walls"`
}

// ClickRequest is a click position in canvas pixels.
type ClickRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClickResponse reports the wall a click toggled, if any.
type ClickResponse struct {
	Toggled bool       `json:"toggled"`
	Wall    *maze.Wall `json:"wall,omitempty"`
	MazeResponse
}

// ScrubRequest is a playback position in [0, 100].
type ScrubRequest struct {
	Value float64 `json:"value"`
}

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return data, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// sessionError maps an error to a status code.
func (server *Server) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, viewer.ErrSessionClosed):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		server.log.Error(err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func mazeResponse(snap viewer.Snapshot) MazeResponse {
	return MazeResponse{Width: snap.Width, Text: snap.MazeText, Walls: snap.Walls}
}

func (server *Server) respondMaze(w http.ResponseWriter) {
	snap, err := server.session.Snapshot()
	if err != nil {
		server.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mazeResponse(snap))
}

func (server *Server) getState(w http.ResponseWriter, r *http.Request) {
	snap, err := server.session.Snapshot()
	if err != nil {
		server.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (server *Server) getSnapshotPNG(w http.ResponseWriter, r *http.Request) {
	snap, err := server.session.Snapshot()
	if err != nil {
		server.sessionError(w, err)
		return
	}
	buf := &bytes.Buffer{}
	if err = snapshot.Render(buf, snap); err != nil {
		server.sessionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (server *Server) getMaze(w http.ResponseWriter, r *http.Request) {
	server.respondMaze(w)
}

// putMaze replaces the maze with the plain-text body.
func (server *Server) putMaze(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		server.sessionError(w, err)
		return
	}
	if err = server.session.SetMaze(string(data)); err != nil {
		server.sessionError(w, err)
		return
	}
	server.respondMaze(w)
}

func (server *Server) postClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := decodeJSON(w, r, &req); err != nil {
		server.sessionError(w, err)
		return
	}
	wall, ok, err := server.session.Click(req.X, req.Y)
	if err != nil {
		server.sessionError(w, err)
		return
	}
	snap, err := server.session.Snapshot()
	if err != nil {
		server.sessionError(w, err)
		return
	}
	resp := ClickResponse{Toggled: ok, MazeResponse: mazeResponse(snap)}
	if ok {
		resp.Wall = &wall
	}
	writeJSON(w, http.StatusOK, resp)
}

func (server *Server) postToggle(w http.ResponseWriter, r *http.Request) {
	var wall maze.Wall
	if err := decodeJSON(w, r, &wall); err != nil {
		server.sessionError(w, err)
		return
	}
	if err := server.session.Toggle(wall); err != nil {
		server.sessionError(w, err)
		return
	}
	server.respondMaze(w)
}

func (server *Server) postScrub(w http.ResponseWriter, r *http.Request) {
	var req ScrubRequest
	if err := decodeJSON(w, r, &req); err != nil {
		server.sessionError(w, err)
		return
	}
	if math.IsNaN(req.Value) {
		server.sessionError(w, fmt.Errorf("%w: scrub value is not a number", errBadRequest))
		return
	}
	if err := server.session.ScrubTo(req.Value); err != nil {
		server.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (server *Server) postPlayback(w http.ResponseWriter, r *http.Request) {
	actions := map[string]func() error{
		"play":   server.session.Play,
		"stop":   server.session.Stop,
		"reset":  server.session.Reset,
		"faster": server.session.Faster,
		"slower": server.session.Slower,
	}
	action, ok := actions[mux.Vars(r)["action"]]
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if err := action(); err != nil {
		server.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postSimulate starts a simulation; its outcome is pushed to the open pages.
func (server *Server) postSimulate(w http.ResponseWriter, r *http.Request) {
	if err := server.session.Simulate(); err != nil {
		server.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// putResults replaces the result sequence with an uploaded one.
func (server *Server) putResults(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		server.sessionError(w, err)
		return
	}
	results, err := robot.DecodeResults(data)
	if err != nil {
		server.sessionError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err = server.session.SetResults(results); err != nil {
		server.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (server *Server) getInput(w http.ResponseWriter, r *http.Request) {
	input, err := server.session.Input()
	if err != nil {
		server.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, input)
}

func (server *Server) putInput(w http.ResponseWriter, r *http.Request) {
	input := simulator.DefaultInput()
	if err := decodeJSON(w, r, &input); err != nil {
		server.sessionError(w, err)
		return
	}
	if err := server.session.SetInput(input); err != nil {
		server.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
