package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"micromouse/maze"
	"micromouse/robot"
)

const (
	DefaultBaseURL    = "http://localhost:3030"
	DefaultSearchPath = "/simulate/16/search/"
	DefaultTimeout    = 30 * time.Second

	// Upper bound on a simulation response. Long runs produce a pose per millisecond.
	maxResponseBytes = 256 << 20
)

var (
	// ErrSimulatorStatus is returned when the simulator answers with a non-2xx status.
	ErrSimulatorStatus = errors.New("simulator returned an error status")
	// ErrEmptyResult is returned when the simulator produces no poses at all.
	ErrEmptyResult = errors.New("simulator returned no poses")
)

// Client posts inputs to a running simulator.
type Client struct {
	baseURL    string
	searchPath string
	padTo      int
	http       *http.Client
}

// NewClient returns a client for the simulator listening at baseURL.
func NewClient(baseURL, searchPath string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if searchPath == "" {
		searchPath = DefaultSearchPath
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		searchPath: "/" + strings.TrimLeft(searchPath, "/"),
		http:       &http.Client{Timeout: timeout},
	}
}

// PadTo makes the client pad every maze to n x n cells before posting it, for simulators
// built for a fixed maze size. Zero disables padding.
func (cli *Client) PadTo(n int) *Client {
	cli.padTo = n
	return cli
}

// URL returns the search endpoint.
func (cli *Client) URL() string {
	return cli.baseURL + cli.searchPath
}

// Search runs a simulation of input and returns the poses it produced.
func (cli *Client) Search(ctx context.Context, input Input) (results robot.Results, err error) {
	if cli.padTo > 0 {
		input = input.WithMaze(maze.Pad(input.MazeString, cli.padTo))
	}

	var body []byte
	if body, err = json.Marshal(input); err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cli.URL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := cli.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %s", ErrSimulatorStatus, resp.Status, strings.TrimSpace(string(data)))
	}

	if results, err = robot.DecodeResults(data); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}
	return
}
