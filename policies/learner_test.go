package policies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/envs"
	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/util"
	"github.com/zeu5/multiagent-rl/vecenv"
)

const identityEpLength = 50

type seededIdentityConstructor struct {
	dim          int
	multiDiscrete bool
}

func (c *seededIdentityConstructor) NewEnv(i int) core.Env {
	var env *envs.IdentityEnv
	if c.multiDiscrete {
		env = envs.NewIdentityEnvMultiDiscrete(c.dim, identityEpLength)
	} else {
		env = envs.NewIdentityEnv(c.dim, identityEpLength)
	}
	env.Seed(uint64(100 + i))
	return env
}

func learnIdentity(t *testing.T, multiDiscrete bool) {
	t.Helper()
	venv, err := vecenv.NewDummyVecEnv(&seededIdentityConstructor{dim: 3, multiDiscrete: multiDiscrete}, 2)
	require.NoError(t, err)
	defer venv.Close()

	config := DefaultQLearnerConfig()
	config.Seed = 7
	learner, err := NewQLearner(venv, config)
	require.NoError(t, err)

	require.NoError(t, learner.Learn(context.Background(), 30000))

	evalEnv := (&seededIdentityConstructor{dim: 3, multiDiscrete: multiDiscrete}).NewEnv(99)
	mean, _, err := Evaluate(learner, evalEnv, 4)
	require.NoError(t, err)
	// A learned identity mapping collects a reward on every step of the
	// episode.
	assert.Greater(t, mean, float64(identityEpLength)*0.9)
}

func TestQLearnerLearnsIdentityDiscrete(t *testing.T) {
	learnIdentity(t, false)
}

func TestQLearnerLearnsIdentityMultiDiscrete(t *testing.T) {
	learnIdentity(t, true)
}

func TestQLearnerRejectsBoxActions(t *testing.T) {
	venv, err := vecenv.NewDummyVecEnv(core.EnvFunc(func() core.Env {
		return envs.NewIdentityEnvBox(-1, 1, 0.05, identityEpLength)
	}), 1)
	require.NoError(t, err)
	defer venv.Close()

	_, err = NewQLearner(venv, DefaultQLearnerConfig())
	assert.Error(t, err)
}

func TestQLearnerHonorsContext(t *testing.T) {
	venv, err := vecenv.NewDummyVecEnv(&seededIdentityConstructor{dim: 3}, 1)
	require.NoError(t, err)
	defer venv.Close()

	learner, err := NewQLearner(venv, DefaultQLearnerConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, learner.Learn(ctx, 1000), context.Canceled)
}

// oneStepEnv ends every episode after a single rewarded step.
type oneStepEnv struct{}

func (e *oneStepEnv) ObservationSpace() spaces.Space { return spaces.NewDiscrete(1) }
func (e *oneStepEnv) ActionSpace() spaces.Space      { return spaces.NewDiscrete(2) }
func (e *oneStepEnv) Reset() ([]float64, error)      { return []float64{0}, nil }
func (e *oneStepEnv) Close() error                   { return nil }

func (e *oneStepEnv) Step(_ []float64) (*core.Timestep, error) {
	return &core.Timestep{Obs: []float64{0}, Reward: 5, Done: true}, nil
}

func TestQLearnerNoBootstrapAtEpisodeEnd(t *testing.T) {
	venv, err := vecenv.NewDummyVecEnv(core.EnvFunc(func() core.Env {
		return &oneStepEnv{}
	}), 1)
	require.NoError(t, err)
	defer venv.Close()

	config := DefaultQLearnerConfig()
	config.Gamma = 0.9
	learner, err := NewQLearner(venv, config)
	require.NoError(t, err)
	require.NoError(t, learner.Learn(context.Background(), 2000))

	// The value of the single state is the terminal reward. Bootstrapping
	// from the restart observation of the same state would inflate it
	// toward reward/(1-gamma).
	state := util.JsonHash([]float64{0})
	for _, h := range learner.hashes {
		assert.InDelta(t, 5.0, learner.qTable.Get(state, h, 0), 0.2)
	}
}

func TestEvaluateNeedsEpisodes(t *testing.T) {
	learner := &QLearner{}
	_, _, err := Evaluate(learner, envs.NewIdentityEnv(3, 5), 1)
	assert.Error(t, err)
}
