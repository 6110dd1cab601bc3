// Package envs holds small concrete environments: identity-mapping
// environments used to exercise learning code, and toy multi-agent games.
package envs

import (
	"math"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/util"
)

// IdentityEnv rewards reproducing the observed state as the action. The
// state is resampled from the space after every step, so the only way to
// collect reward is to learn the identity mapping.
type IdentityEnv struct {
	space    spaces.Space
	epLength int
	eps      float64

	state []float64
	step  int
}

var _ core.Env = &IdentityEnv{}

// NewIdentityEnv returns an identity environment over Discrete(dim)
// episodes of epLength steps.
func NewIdentityEnv(dim, epLength int) *IdentityEnv {
	return &IdentityEnv{
		space:    spaces.NewDiscrete(dim),
		epLength: epLength,
	}
}

// NewIdentityEnvMultiDiscrete returns an identity environment over
// MultiDiscrete([dim, dim]).
func NewIdentityEnvMultiDiscrete(dim, epLength int) *IdentityEnv {
	return &IdentityEnv{
		space:    spaces.NewMultiDiscrete([]int{dim, dim}),
		epLength: epLength,
	}
}

// NewIdentityEnvBox returns an identity environment over a 1-dimensional
// Box, rewarding actions within eps of the state.
func NewIdentityEnvBox(low, high, eps float64, epLength int) *IdentityEnv {
	return &IdentityEnv{
		space:    spaces.NewUniformBox(low, high, 1),
		epLength: epLength,
		eps:      eps,
	}
}

func (e *IdentityEnv) ObservationSpace() spaces.Space {
	return e.space
}

func (e *IdentityEnv) ActionSpace() spaces.Space {
	return e.space
}

func (e *IdentityEnv) Seed(seed uint64) {
	e.space.Seed(seed)
}

func (e *IdentityEnv) Reset() ([]float64, error) {
	e.step = 0
	e.state = e.space.Sample()
	return util.CopyFloatSlice(e.state), nil
}

func (e *IdentityEnv) Step(action []float64) (*core.Timestep, error) {
	reward := e.reward(action)
	e.state = e.space.Sample()
	e.step++
	return &core.Timestep{
		Obs:    util.CopyFloatSlice(e.state),
		Reward: reward,
		Done:   e.step >= e.epLength,
	}, nil
}

func (e *IdentityEnv) Close() error {
	return nil
}

func (e *IdentityEnv) reward(action []float64) float64 {
	if len(action) != len(e.state) {
		return 0
	}
	eps := e.eps
	if _, ok := e.space.(*spaces.Box); !ok {
		eps = 0
	}
	for i := range e.state {
		if math.Abs(action[i]-e.state[i]) > eps {
			return 0
		}
	}
	return 1
}
