package vecenv

import (
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
)

// scriptedEnv is a deterministic environment for wrapper tests. The
// observation is [state, state*scale], the reward is the new state value
// and episodes end after epLen steps.
type scriptedEnv struct {
	id    int
	epLen int
	scale float64

	state int
}

var _ core.Env = &scriptedEnv{}

func (s *scriptedEnv) ObservationSpace() spaces.Space {
	return spaces.NewUniformBox(-100, 100, 2)
}

func (s *scriptedEnv) ActionSpace() spaces.Space {
	return spaces.NewDiscrete(2)
}

func (s *scriptedEnv) Reset() ([]float64, error) {
	s.state = 0
	return s.obs(), nil
}

func (s *scriptedEnv) Step(_ []float64) (*core.Timestep, error) {
	s.state++
	return &core.Timestep{
		Obs:    s.obs(),
		Reward: float64(s.state),
		Done:   s.state >= s.epLen,
	}, nil
}

func (s *scriptedEnv) Close() error {
	return nil
}

func (s *scriptedEnv) obs() []float64 {
	return []float64{float64(s.state), float64(s.state) * s.scale}
}

type scriptedConstructor struct {
	epLen int
	scale float64
}

var _ core.EnvConstructor = &scriptedConstructor{}

func (c *scriptedConstructor) NewEnv(i int) core.Env {
	return &scriptedEnv{id: i, epLen: c.epLen, scale: c.scale}
}

func noActions(n int) [][]float64 {
	actions := make([][]float64, n)
	for i := range actions {
		actions[i] = []float64{0}
	}
	return actions
}
