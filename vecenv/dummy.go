package vecenv

import (
	"errors"
	"fmt"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/util"
)

var ErrNoEnvs = errors.New("vectorized environment needs at least one environment")

// DummyVecEnv steps its environments sequentially in the calling goroutine.
// It is the cheapest VecEnv and the right choice when the environments
// themselves are cheap.
type DummyVecEnv struct {
	envs []core.Env
}

var _ VecEnv = &DummyVecEnv{}

// NewDummyVecEnv builds n environments from the constructor. All
// environments are assumed to share the spaces of the first.
func NewDummyVecEnv(c core.EnvConstructor, n int) (*DummyVecEnv, error) {
	if n <= 0 {
		return nil, ErrNoEnvs
	}
	envs := make([]core.Env, n)
	for i := 0; i < n; i++ {
		envs[i] = c.NewEnv(i)
	}
	return &DummyVecEnv{envs: envs}, nil
}

func (d *DummyVecEnv) NumEnvs() int {
	return len(d.envs)
}

func (d *DummyVecEnv) ObservationSpace() spaces.Space {
	return d.envs[0].ObservationSpace()
}

func (d *DummyVecEnv) ActionSpace() spaces.Space {
	return d.envs[0].ActionSpace()
}

func (d *DummyVecEnv) Reset() ([][]float64, error) {
	obs := make([][]float64, len(d.envs))
	for i, env := range d.envs {
		o, err := env.Reset()
		if err != nil {
			return nil, fmt.Errorf("resetting environment %d: %w", i, err)
		}
		obs[i] = o
	}
	return obs, nil
}

func (d *DummyVecEnv) Step(actions [][]float64) (*VecStep, error) {
	if len(actions) != len(d.envs) {
		return nil, fmt.Errorf("expected %d actions, got %d", len(d.envs), len(actions))
	}
	step := &VecStep{
		Observations: make([][]float64, len(d.envs)),
		Rewards:      make([]float64, len(d.envs)),
		Dones:        make([]bool, len(d.envs)),
		Infos:        make([]map[string]interface{}, len(d.envs)),
	}
	for i, env := range d.envs {
		ts, err := env.Step(actions[i])
		if err != nil {
			return nil, fmt.Errorf("stepping environment %d: %w", i, err)
		}
		step.Rewards[i] = ts.Reward
		step.Dones[i] = ts.Done
		info := ts.Info
		if info == nil {
			info = make(map[string]interface{})
		}
		obs := ts.Obs
		if ts.Done {
			info[TerminalObsKey] = util.CopyFloatSlice(ts.Obs)
			obs, err = env.Reset()
			if err != nil {
				return nil, fmt.Errorf("resetting environment %d: %w", i, err)
			}
		}
		step.Observations[i] = obs
		step.Infos[i] = info
	}
	return step, nil
}

func (d *DummyVecEnv) Close() error {
	var firstErr error
	for _, env := range d.envs {
		if err := env.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
