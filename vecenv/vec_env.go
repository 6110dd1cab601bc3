// Package vecenv batches several single-agent environments behind one
// vectorized interface and provides the wrappers commonly layered on top,
// notably observation normalization and frame stacking.
package vecenv

import "github.com/zeu5/multiagent-rl/spaces"

// VecStep is the result of stepping every environment in the batch once.
// Slices are indexed by environment.
type VecStep struct {
	Observations [][]float64
	Rewards      []float64
	Dones        []bool
	Infos        []map[string]interface{}
}

// VecEnv steps a batch of environments in lockstep. When an environment
// finishes its episode it is reset immediately and the observation returned
// for it is the first of the next episode. The observation the episode
// ended on is stashed in the step info under TerminalObsKey.
type VecEnv interface {
	NumEnvs() int
	ObservationSpace() spaces.Space
	ActionSpace() spaces.Space
	Reset() ([][]float64, error)
	Step(actions [][]float64) (*VecStep, error)
	Close() error
}

// TerminalObsKey is the info key holding the final observation of an
// episode that ended during Step.
const TerminalObsKey = "terminal_observation"

// VecEnvWrapper is a VecEnv layered over another VecEnv. Utilities such as
// UnwrapNormalize traverse wrapper chains through Unwrap.
type VecEnvWrapper interface {
	VecEnv
	Unwrap() VecEnv
}
