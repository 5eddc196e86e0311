// robot models the simulated robot's pose over time and renders its outline onto the
// maze grid.
package robot

import (
	"encoding/json"
)

// AxisState is the kinematic state along one axis: position, velocity, acceleration
// and jerk. Only the position is drawn.
type AxisState struct {
	X float64 `json:"x" yaml:"x"`
	V float64 `json:"v" yaml:"v"`
	A float64 `json:"a" yaml:"a"`
	J float64 `json:"j" yaml:"j"`
}

// Pose is the robot state in meters (X, Y) and radians (Theta), measured from the
// bottom-left corner of the maze with theta counter-clockwise from east.
type Pose struct {
	X     AxisState `json:"x" yaml:"x"`
	Y     AxisState `json:"y" yaml:"y"`
	Theta AxisState `json:"theta" yaml:"theta"`
}

// Results is the sequence of poses produced by one simulation run, one per step.
// A sequence is never modified once received; a new run replaces it.
type Results []Pose

// observation is one step as reported by the simulator. Older simulators nest the
// pose under "state".
type observation struct {
	State *Pose `json:"state"`
	Pose
}

// DecodeResults parses a result sequence, accepting both bare poses and poses nested
// under "state".
func DecodeResults(data []byte) (results Results, err error) {
	var observations []observation
	if err = json.Unmarshal(data, &observations); err != nil {
		return
	}
	results = make(Results, 0, len(observations))
	for _, obs := range observations {
		if obs.State != nil {
			results = append(results, *obs.State)
		} else {
			results = append(results, obs.Pose)
		}
	}
	return
}
