package policies

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/zeu5/multiagent-rl/util"
	"github.com/zeu5/multiagent-rl/vecenv"
)

// QLearnerConfig holds the hyperparameters of a QLearner.
type QLearnerConfig struct {
	Alpha float64
	Gamma float64
	// Exploration decays linearly from EpsilonStart to EpsilonEnd over
	// ExplorationFraction of the timestep budget.
	EpsilonStart        float64
	EpsilonEnd          float64
	ExplorationFraction float64
	Seed                int64
	// Progress lines are written here every LogEvery steps when set.
	Writer   io.Writer
	LogEvery int
}

func DefaultQLearnerConfig() QLearnerConfig {
	return QLearnerConfig{
		Alpha:               0.1,
		Gamma:               0.95,
		EpsilonStart:        1.0,
		EpsilonEnd:          0.05,
		ExplorationFraction: 0.5,
		Seed:                1,
		LogEvery:            10000,
	}
}

// QLearner runs tabular Q-learning against a vectorized environment. It is
// the reference learning algorithm used to sanity-check environments:
// given an identity environment it must learn to echo the observation.
type QLearner struct {
	venv   vecenv.VecEnv
	config QLearnerConfig

	qTable  *QTable
	actions [][]float64
	hashes  []string
	rand    *rand.Rand
}

// NewQLearner returns a learner for venv. The action space must be
// enumerable (Discrete or MultiDiscrete).
func NewQLearner(venv vecenv.VecEnv, config QLearnerConfig) (*QLearner, error) {
	actions, hashes, ok := enumerateActions(venv.ActionSpace())
	if !ok {
		return nil, fmt.Errorf("action space %T is not enumerable", venv.ActionSpace())
	}
	return &QLearner{
		venv:    venv,
		config:  config,
		qTable:  NewQTable(),
		actions: actions,
		hashes:  hashes,
		rand:    rand.New(rand.NewSource(config.Seed)),
	}, nil
}

// Learn runs totalTimesteps environment steps across the batch, updating
// the value table after every step.
func (q *QLearner) Learn(ctx context.Context, totalTimesteps int) error {
	obs, err := q.venv.Reset()
	if err != nil {
		return err
	}
	n := q.venv.NumEnvs()
	decaySteps := float64(totalTimesteps) * q.config.ExplorationFraction

	for t := 0; t < totalTimesteps; t += n {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		epsilon := q.config.EpsilonEnd
		if float64(t) < decaySteps {
			frac := float64(t) / decaySteps
			epsilon = q.config.EpsilonStart + frac*(q.config.EpsilonEnd-q.config.EpsilonStart)
		}

		actions := make([][]float64, n)
		picked := make([]int, n)
		for i := 0; i < n; i++ {
			picked[i] = q.pickAction(obs[i], epsilon)
			actions[i] = q.actions[picked[i]]
		}
		step, err := q.venv.Step(actions)
		if err != nil {
			return err
		}

		for i := 0; i < n; i++ {
			stateHash := util.JsonHash(obs[i])
			// No bootstrap at episode end. On done steps the batch holds
			// the next episode's first observation, not a successor state.
			nextVal := float64(0)
			if !step.Dones[i] {
				_, nextVal = q.qTable.Max(util.JsonHash(step.Observations[i]), 0)
			}
			curVal := q.qTable.Get(stateHash, q.hashes[picked[i]], 0)
			newVal := (1-q.config.Alpha)*curVal + q.config.Alpha*(step.Rewards[i]+q.config.Gamma*nextVal)
			q.qTable.Set(stateHash, q.hashes[picked[i]], newVal)
		}
		obs = step.Observations

		if q.config.Writer != nil && q.config.LogEvery > 0 && t%q.config.LogEvery < n {
			fmt.Fprintf(q.config.Writer, "Timesteps: %d/%d, Epsilon: %.3f, States: %d\n",
				t, totalTimesteps, epsilon, q.qTable.Size())
		}
	}
	return nil
}

// Predict returns the greedy action for the observation.
func (q *QLearner) Predict(obs []float64) []float64 {
	maxHash, _ := q.qTable.MaxAmong(util.JsonHash(obs), q.hashes, 0)
	for i, h := range q.hashes {
		if h == maxHash {
			return q.actions[i]
		}
	}
	return q.actions[0]
}

// Save writes the learned value table as JSONL.
func (q *QLearner) Save(path string) error {
	return q.qTable.Save(path)
}

func (q *QLearner) pickAction(obs []float64, epsilon float64) int {
	if q.rand.Float64() < epsilon {
		return q.rand.Intn(len(q.actions))
	}
	maxHash, _ := q.qTable.MaxAmong(util.JsonHash(obs), q.hashes, 0)
	for i, h := range q.hashes {
		if h == maxHash {
			return i
		}
	}
	return 0
}
