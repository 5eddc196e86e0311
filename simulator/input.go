// simulator describes the external trajectory producer: the input document it consumes,
// and an http client that posts the input and returns the simulated poses.
package simulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"micromouse/maze"
	"micromouse/robot"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Direction is one of the eight headings understood by the simulator.
type Direction string

const (
	North     Direction = "North"
	NorthEast Direction = "NorthEast"
	East      Direction = "East"
	SouthEast Direction = "SouthEast"
	South     Direction = "South"
	SouthWest Direction = "SouthWest"
	West      Direction = "West"
	NorthWest Direction = "NorthWest"
)

var directions = map[Direction]struct{}{
	North: {}, NorthEast: {}, East: {}, SouthEast: {},
	South: {}, SouthWest: {}, West: {}, NorthWest: {},
}

// ErrInvalidDirection is returned when a node carries an unknown heading.
var ErrInvalidDirection = errors.New("invalid direction")

func (dir *Direction) UnmarshalJSON(data []byte) (err error) {
	var name string
	if err = json.Unmarshal(data, &name); err != nil {
		return
	}
	if _, ok := directions[Direction(name)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, name)
	}
	*dir = Direction(name)
	return
}

func (dir *Direction) UnmarshalYAML(node *yaml.Node) (err error) {
	var name string
	if err = node.Decode(&name); err != nil {
		return
	}
	if _, ok := directions[Direction(name)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, name)
	}
	*dir = Direction(name)
	return
}

// Node is a cell position and a heading.
type Node struct {
	X         int       `json:"x" yaml:"x"`
	Y         int       `json:"y" yaml:"y"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Config holds the search targets, controller gains and kinematic limits.
type Config struct {
	Start                          Node    `json:"start" yaml:"start"`
	ReturnGoal                     Node    `json:"return_goal" yaml:"return_goal"`
	Goals                          []Node  `json:"goals" yaml:"goals"`
	SearchInitialRoute             string  `json:"search_initial_route" yaml:"search_initial_route"`
	SearchFinalRoute               string  `json:"search_final_route" yaml:"search_final_route"`
	EstimatorCutOffFrequency       float64 `json:"estimator_cut_off_frequency" yaml:"estimator_cut_off_frequency"`
	Period                         float64 `json:"period" yaml:"period"`
	TranslationalKP                float64 `json:"translational_kp" yaml:"translational_kp"`
	TranslationalKI                float64 `json:"translational_ki" yaml:"translational_ki"`
	TranslationalKD                float64 `json:"translational_kd" yaml:"translational_kd"`
	TranslationalModelGain         float64 `json:"translational_model_gain" yaml:"translational_model_gain"`
	TranslationalModelTimeConstant float64 `json:"translational_model_time_constant" yaml:"translational_model_time_constant"`
	RotationalKP                   float64 `json:"rotational_kp" yaml:"rotational_kp"`
	RotationalKI                   float64 `json:"rotational_ki" yaml:"rotational_ki"`
	RotationalKD                   float64 `json:"rotational_kd" yaml:"rotational_kd"`
	RotationalModelGain            float64 `json:"rotational_model_gain" yaml:"rotational_model_gain"`
	RotationalModelTimeConstant    float64 `json:"rotational_model_time_constant" yaml:"rotational_model_time_constant"`
	KX                             float64 `json:"kx" yaml:"kx"`
	KDX                            float64 `json:"kdx" yaml:"kdx"`
	KY                             float64 `json:"ky" yaml:"ky"`
	KDY                            float64 `json:"kdy" yaml:"kdy"`
	ValidControlLowerBound         float64 `json:"valid_control_lower_bound" yaml:"valid_control_lower_bound"`
	LowZeta                        float64 `json:"low_zeta" yaml:"low_zeta"`
	LowB                           float64 `json:"low_b" yaml:"low_b"`
	FailSafeDistance               float64 `json:"fail_safe_distance" yaml:"fail_safe_distance"`
	SearchVelocity                 float64 `json:"search_velocity" yaml:"search_velocity"`
	MaxVelocity                    float64 `json:"max_velocity" yaml:"max_velocity"`
	MaxAcceleration                float64 `json:"max_acceleration" yaml:"max_acceleration"`
	MaxJerk                        float64 `json:"max_jerk" yaml:"max_jerk"`
	SpinAngularVelocity            float64 `json:"spin_angular_velocity" yaml:"spin_angular_velocity"`
	SpinAngularAcceleration        float64 `json:"spin_angular_acceleration" yaml:"spin_angular_acceleration"`
	SpinAngularJerk                float64 `json:"spin_angular_jerk" yaml:"spin_angular_jerk"`
	RunSlalomVelocity              float64 `json:"run_slalom_velocity" yaml:"run_slalom_velocity"`
}

// State is where the robot starts the simulation.
type State struct {
	CurrentNode Node       `json:"current_node" yaml:"current_node"`
	RobotState  robot.Pose `json:"robot_state" yaml:"robot_state"`
}

// Input is the document posted to the simulator. Only its shape is checked; the values
// are the simulator's business.
type Input struct {
	Config     Config `json:"config" yaml:"config"`
	State      State  `json:"state" yaml:"state"`
	MazeString string `json:"maze_string" yaml:"maze_string"`
}

// DefaultInput returns the stock search configuration over the default maze.
func DefaultInput() Input {
	return Input{
		Config: Config{
			Start:      Node{X: 0, Y: 0, Direction: North},
			ReturnGoal: Node{X: 0, Y: 0, Direction: South},
			Goals: []Node{
				{X: 2, Y: 0, Direction: South},
				{X: 2, Y: 0, Direction: West},
			},
			SearchInitialRoute:             "Init",
			SearchFinalRoute:               "Final",
			EstimatorCutOffFrequency:       50.0,
			Period:                         0.001,
			TranslationalKP:                1.0,
			TranslationalKI:                0.05,
			TranslationalKD:                0.01,
			TranslationalModelGain:         1.0,
			TranslationalModelTimeConstant: 0.3694,
			RotationalKP:                   1.0,
			RotationalKI:                   0.2,
			RotationalKD:                   0.0,
			RotationalModelGain:            10.0,
			RotationalModelTimeConstant:    0.1499,
			KX:                             40.0,
			KDX:                            4.0,
			KY:                             40.0,
			KDY:                            4.0,
			ValidControlLowerBound:         0.03,
			LowZeta:                        1.0,
			LowB:                           1e-3,
			FailSafeDistance:               0.05,
			SearchVelocity:                 0.12,
			MaxVelocity:                    1.0,
			MaxAcceleration:                50.0,
			MaxJerk:                        100.0,
			SpinAngularVelocity:            math.Pi,
			SpinAngularAcceleration:        10 * math.Pi,
			SpinAngularJerk:                40 * math.Pi,
			RunSlalomVelocity:              0.5,
		},
		State: State{
			CurrentNode: Node{X: 0, Y: 0, Direction: North},
			RobotState: robot.Pose{
				X:     robot.AxisState{X: 0.045},
				Y:     robot.AxisState{X: 0.045},
				Theta: robot.AxisState{X: math.Pi / 2},
			},
		},
		MazeString: maze.DefaultText,
	}
}

// WithMaze returns a copy of the input carrying the passed maze text.
func (in Input) WithMaze(text string) Input {
	in.Config.Goals = append([]Node(nil), in.Config.Goals...)
	in.MazeString = text
	return in
}

// OuterConfig is the envelope of an input document: a kind selector and its definition.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// KindSearch is the only input kind the simulator understands.
const KindSearch = "search"

// ErrUnknownKind is returned for input documents of a kind other than KindSearch.
var ErrUnknownKind = errors.New("unknown input kind")

// LoadInput reads a yaml input document. Fields missing from the document keep their
// DefaultInput values.
func LoadInput(path string) (*Input, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}

	outerConfig := &OuterConfig{}
	if err = vp.Unmarshal(outerConfig); err != nil {
		return nil, err
	}
	if outerConfig.Kind != KindSearch {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, outerConfig.Kind)
	}

	var spec []byte
	if spec, err = yaml.Marshal(outerConfig.Def); err != nil {
		return nil, err
	}

	input := DefaultInput()
	if err = yaml.Unmarshal(spec, &input); err != nil {
		return nil, fmt.Errorf("decode input %s: %w", path, err)
	}
	return &input, nil
}
