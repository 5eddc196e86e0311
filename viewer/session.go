// viewer owns the state of one viewing session: the maze under edit, the current result
// sequence and the playback position. All state lives on a single goroutine started by
// Run; callers interact with it through commands and observe it through snapshots.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"micromouse/editor"
	"micromouse/geometry"
	"micromouse/logger"
	"micromouse/maze"
	"micromouse/playback"
	"micromouse/robot"
	"micromouse/simulator"

	"github.com/google/uuid"
)

// Searcher produces a result sequence for a simulator input.
type Searcher interface {
	Search(ctx context.Context, input simulator.Input) (robot.Results, error)
}

// Options configure a session.
type Options struct {
	Geometry          geometry.Options
	TickPeriod        time.Duration
	DefaultSpeedIndex int
}

func DefaultOptions() Options {
	return Options{
		Geometry:          geometry.DefaultOptions(),
		TickPeriod:        playback.DefaultPeriod,
		DefaultSpeedIndex: playback.DefaultSpeedIndex,
	}
}

// ErrSessionClosed is returned by commands issued after Run has returned.
var ErrSessionClosed = errors.New("session closed")

type fetchResult struct {
	token   uuid.UUID
	results robot.Results
	err     error
}

// Session is the single owner of the viewer state.
type Session struct {
	// Owned by the Run goroutine.
	editor      *editor.Editor
	state       playback.State
	results     robot.Results
	input       simulator.Input
	loading     bool
	lastErr     error
	token       uuid.UUID
	cancelFetch context.CancelFunc
	ctx         context.Context

	searcher   Searcher
	tickPeriod time.Duration
	log        *logger.Logger

	commands  chan func()
	fetched   chan fetchResult
	snapshots chan Snapshot
	done      chan struct{}
}

// NewSession returns a session over input, whose maze text seeds the editor.
func NewSession(
	input simulator.Input,
	searcher Searcher,
	opts Options,
	log *logger.Logger,
) *Session {
	if log == nil {
		log = logger.Discard()
	}
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = playback.DefaultPeriod
	}
	state := playback.NewState()
	if opts.DefaultSpeedIndex >= 0 && opts.DefaultSpeedIndex < len(playback.Speeds) {
		state.SpeedIndex = opts.DefaultSpeedIndex
	}

	s := &Session{
		editor:     editor.New(input.MazeString, opts.Geometry),
		state:      state,
		input:      input,
		searcher:   searcher,
		tickPeriod: opts.TickPeriod,
		log:        log,
		commands:   make(chan func()),
		fetched:    make(chan fetchResult),
		snapshots:  make(chan Snapshot, 1),
		done:       make(chan struct{}),
	}
	s.editor.OnChange(func(text string) {
		s.input.MazeString = text
	})
	return s
}

// Snapshots delivers the latest state after every change. Intermediate snapshots are
// dropped when the reader falls behind. The channel is closed when Run returns.
func (s *Session) Snapshots() <-chan Snapshot {
	return s.snapshots
}

// Run owns the session state until ctx is done. It must be called exactly once.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx
	clock := playback.StartClock(ctx, s.tickPeriod)
	defer func() {
		clock.Stop()
		if s.cancelFetch != nil {
			s.cancelFetch()
		}
		close(s.done)
		close(s.snapshots)
	}()

	s.publish()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.commands:
			cmd()
			s.publish()
		case <-clock.Ticks():
			if s.tick() {
				s.publish()
			}
		case result := <-s.fetched:
			if s.complete(result) {
				s.publish()
			}
		}
	}
}

// do runs fn on the owner goroutine and waits for it to finish.
func (s *Session) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case s.commands <- func() {
		defer close(finished)
		fn()
	}:
	case <-s.done:
		return ErrSessionClosed
	}
	<-finished
	return nil
}

func (s *Session) publish() {
	snap := s.snapshot()
	select {
	case <-s.snapshots:
	default:
	}
	select {
	case s.snapshots <- snap:
	default:
	}
}

// tick advances playback by the clock period, so playback keeps wall-clock pace at any
// configured period.
func (s *Session) tick() (changed bool) {
	before := s.state.Scrub
	s.state.Advance(len(s.results), s.tickPeriod)
	return s.state.Scrub != before
}

// Click toggles the wall nearest to the screen position, if any.
func (s *Session) Click(px, py float64) (wall maze.Wall, ok bool, err error) {
	err = s.do(func() {
		wall, _, ok = s.editor.Click(px, py)
	})
	return
}

// Toggle inserts or removes a wall.
func (s *Session) Toggle(w maze.Wall) error {
	return s.do(func() {
		s.editor.Toggle(w)
	})
}

// SetMaze replaces the maze with the passed text.
func (s *Session) SetMaze(text string) error {
	return s.do(func() {
		s.editor.SetText(text)
		s.input.MazeString = text
	})
}

func (s *Session) Play() error {
	return s.do(s.state.Play)
}

func (s *Session) Stop() error {
	return s.do(s.state.Stop)
}

func (s *Session) Reset() error {
	return s.do(s.state.Reset)
}

func (s *Session) Faster() error {
	return s.do(s.state.Faster)
}

func (s *Session) Slower() error {
	return s.do(s.state.Slower)
}

// ScrubTo moves playback to a position in [0, 100].
func (s *Session) ScrubTo(value float64) error {
	return s.do(func() {
		s.state.ScrubTo(value)
	})
}

// SetInput replaces the simulator input. Its maze text replaces the edited maze.
func (s *Session) SetInput(input simulator.Input) error {
	return s.do(func() {
		s.input = input
		s.editor.SetText(input.MazeString)
	})
}

// Input returns the simulator input as it would be sent now.
func (s *Session) Input() (input simulator.Input, err error) {
	err = s.do(func() {
		input = s.input.WithMaze(s.editor.Text())
	})
	return
}

// SetResults replaces the result sequence directly, superseding any pending simulation.
func (s *Session) SetResults(results robot.Results) error {
	return s.do(func() {
		s.abandonFetch()
		s.results = results
		s.state.ScrubTo(0)
		s.lastErr = nil
	})
}

// Snapshot returns the current state.
func (s *Session) Snapshot() (snap Snapshot, err error) {
	err = s.do(func() {
		snap = s.snapshot()
	})
	return
}

// Simulate stops playback and requests a new result sequence for the current input.
// It returns once the request is under way; the outcome arrives as a snapshot. Only the
// latest request can complete: earlier ones in flight are cancelled and their results
// discarded.
func (s *Session) Simulate() error {
	return s.do(func() {
		s.abandonFetch()
		s.state.Stop()
		s.loading = true
		s.lastErr = nil

		token := uuid.New()
		fetchCtx, cancel := context.WithCancel(s.ctx)
		s.token, s.cancelFetch = token, cancel
		input := s.input.WithMaze(s.editor.Text())

		s.log.Info(fmt.Sprintf("simulation %s requested, %d cell maze", token, s.editor.Width()))
		go s.fetch(fetchCtx, token, input)
	})
}

func (s *Session) fetch(ctx context.Context, token uuid.UUID, input simulator.Input) {
	results, err := s.searcher.Search(ctx, input)
	select {
	case s.fetched <- fetchResult{token: token, results: results, err: err}:
	case <-s.done:
	}
}

// abandonFetch cancels the pending simulation, if any; its completion will be stale.
func (s *Session) abandonFetch() {
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.token = uuid.Nil
	s.loading = false
}

// complete applies a finished simulation, unless a later request superseded it.
func (s *Session) complete(result fetchResult) (applied bool) {
	if result.token == uuid.Nil || result.token != s.token {
		s.log.Debug(fmt.Sprintf("discarding stale simulation %s", result.token))
		return false
	}
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.token = uuid.Nil
	s.loading = false

	if result.err != nil {
		s.lastErr = result.err
		s.log.Error(fmt.Sprintf("simulation %s failed: %v", result.token, result.err))
		return true
	}
	s.results = result.results
	s.state.ScrubTo(0)
	s.log.Info(fmt.Sprintf("simulation %s produced %d poses", result.token, len(result.results)))
	return true
}
