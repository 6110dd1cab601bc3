package policies

import (
	"errors"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/vecenv"
	"gonum.org/v1/gonum/stat"
)

// Predictor maps an observation to an action. *QLearner implements it.
type Predictor interface {
	Predict(obs []float64) []float64
}

// Evaluate plays nEpisodes of env with the predictor acting greedily and
// returns the mean and standard deviation of the episode returns.
func Evaluate(model Predictor, env core.Env, nEpisodes int) (float64, float64, error) {
	if nEpisodes < 2 {
		return 0, 0, errors.New("need at least two evaluation episodes")
	}
	returns := make([]float64, nEpisodes)
	for ep := 0; ep < nEpisodes; ep++ {
		obs, err := env.Reset()
		if err != nil {
			return 0, 0, err
		}
		for {
			ts, err := env.Step(model.Predict(obs))
			if err != nil {
				return 0, 0, err
			}
			returns[ep] += ts.Reward
			if ts.Done {
				break
			}
			obs = ts.Obs
		}
	}
	return stat.Mean(returns, nil), stat.StdDev(returns, nil), nil
}

// EvaluateVec plays nEpisodes through a vectorized environment so the
// predictor sees observations exactly as its wrappers produce them. A model
// trained on normalized observations must be evaluated through a chain
// carrying the same statistics, otherwise every lookup misses.
func EvaluateVec(model Predictor, venv vecenv.VecEnv, nEpisodes int) (float64, float64, error) {
	if nEpisodes < 2 {
		return 0, 0, errors.New("need at least two evaluation episodes")
	}
	n := venv.NumEnvs()
	obs, err := venv.Reset()
	if err != nil {
		return 0, 0, err
	}
	returns := make([]float64, 0, nEpisodes)
	running := make([]float64, n)
	for len(returns) < nEpisodes {
		actions := make([][]float64, n)
		for i := 0; i < n; i++ {
			actions[i] = model.Predict(obs[i])
		}
		step, err := venv.Step(actions)
		if err != nil {
			return 0, 0, err
		}
		for i := 0; i < n; i++ {
			running[i] += step.Rewards[i]
			if step.Dones[i] && len(returns) < nEpisodes {
				returns = append(returns, running[i])
				running[i] = 0
			}
		}
		obs = step.Observations
	}
	return stat.Mean(returns, nil), stat.StdDev(returns, nil), nil
}
