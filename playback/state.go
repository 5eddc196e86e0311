// playback maps a continuous scrub position onto the frames of a result sequence and
// advances that position on a fixed clock.
package playback

import (
	"math"
	"time"
)

// Speeds are the selectable playback multipliers.
var Speeds = [...]float64{0.25, 0.5, 0.75, 1.0, 2.0, 3.0, 4.0, 8.0}

// DefaultSpeedIndex selects the 1.0 multiplier.
const DefaultSpeedIndex = 3

const (
	// MaxScrub is the end of the timeline.
	MaxScrub = 100.0
	// TickMillis is the length of one default clock tick, which is also the number of
	// result steps that tick covers at 1x speed.
	TickMillis = 50.0
)

// MapFrame maps a scrub position in [0, 100] onto a frame index of a sequence of
// frameCount frames. There is no current frame when the index falls past the last frame,
// which happens exactly at scrub 100, or when the sequence is empty.
func MapFrame(scrub float64, frameCount int) (index int, ok bool) {
	if frameCount <= 0 {
		return 0, false
	}
	index = int(math.Floor(scrub * float64(frameCount) / MaxScrub))
	if index < 0 || index >= frameCount {
		return 0, false
	}
	return index, true
}

// State is the playback position and controls. The zero value is paused at the start
// with the slowest speed; use NewState for the default speed.
type State struct {
	Scrub      float64 `json:"scrub"`
	Playing    bool    `json:"playing"`
	SpeedIndex int     `json:"speedIndex"`
}

func NewState() State {
	return State{SpeedIndex: DefaultSpeedIndex}
}

// Speed is the current multiplier.
func (st *State) Speed() float64 {
	return Speeds[clampIndex(st.SpeedIndex)]
}

func (st *State) Play() { st.Playing = true }

func (st *State) Stop() { st.Playing = false }

// Reset rewinds to the start without changing whether playback is running.
func (st *State) Reset() { st.Scrub = 0 }

// ScrubTo moves to a user-chosen position, clamped to [0, 100]. NaN is ignored.
func (st *State) ScrubTo(value float64) {
	if math.IsNaN(value) {
		return
	}
	st.Scrub = math.Max(0, math.Min(value, MaxScrub))
}

// Faster and Slower step through Speeds, saturating at either end.
func (st *State) Faster() {
	st.SpeedIndex = clampIndex(st.SpeedIndex + 1)
}

func (st *State) Slower() {
	st.SpeedIndex = clampIndex(st.SpeedIndex - 1)
}

// Tick advances the scrub by one DefaultPeriod of result time, scaled by the speed.
func (st *State) Tick(frameCount int) {
	st.Advance(frameCount, DefaultPeriod)
}

// Advance moves the scrub forward by elapsed wall-clock time, scaled by the speed. One
// result step plays for a millisecond at 1x. Nothing happens while paused or when there
// are no frames. Reaching the end does not pause playback; the scrub simply stays at 100.
func (st *State) Advance(frameCount int, elapsed time.Duration) {
	if !st.Playing || frameCount <= 0 || elapsed <= 0 {
		return
	}
	millis := float64(elapsed) / float64(time.Millisecond)
	step := (MaxScrub / float64(frameCount)) * millis * st.Speed()
	st.Scrub = math.Min(st.Scrub+step, MaxScrub)
}

// Frame maps the current scrub onto a sequence of frameCount frames.
func (st *State) Frame(frameCount int) (int, bool) {
	return MapFrame(st.Scrub, frameCount)
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(Speeds) {
		return len(Speeds) - 1
	}
	return i
}
