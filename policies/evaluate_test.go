package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/vecenv"
)

// constEnv always observes [2], rewards 1 and ends after three steps.
type constEnv struct {
	steps int
}

var _ core.Env = &constEnv{}

func (c *constEnv) ObservationSpace() spaces.Space {
	return spaces.NewUniformBox(0, 4, 1)
}

func (c *constEnv) ActionSpace() spaces.Space {
	return spaces.NewDiscrete(2)
}

func (c *constEnv) Reset() ([]float64, error) {
	c.steps = 0
	return []float64{2}, nil
}

func (c *constEnv) Step(_ []float64) (*core.Timestep, error) {
	c.steps++
	return &core.Timestep{
		Obs:    []float64{2},
		Reward: 1,
		Done:   c.steps >= 3,
		Info:   map[string]interface{}{},
	}, nil
}

func (c *constEnv) Close() error {
	return nil
}

type recordingPredictor struct {
	seen [][]float64
}

func (r *recordingPredictor) Predict(obs []float64) []float64 {
	o := make([]float64, len(obs))
	copy(o, obs)
	r.seen = append(r.seen, o)
	return []float64{0}
}

func TestEvaluateVecFeedsWrapperObservations(t *testing.T) {
	constructor := core.EnvFunc(func() core.Env { return &constEnv{} })

	trainVenv, err := vecenv.NewDummyVecEnv(constructor, 1)
	require.NoError(t, err)
	trainNorm := vecenv.NewVecNormalize(trainVenv, vecenv.DefaultNormalizeConfig())
	trainNorm.SetObsRMS(&vecenv.RunningMeanStd{
		Mean:  []float64{1},
		Var:   []float64{4},
		Count: 100,
	})

	evalVenv, err := vecenv.NewDummyVecEnv(constructor, 1)
	require.NoError(t, err)
	evalConfig := vecenv.DefaultNormalizeConfig()
	evalConfig.Training = false
	evalConfig.NormReward = false
	evalNorm := vecenv.NewVecNormalize(evalVenv, evalConfig)
	require.NoError(t, vecenv.SyncNormalization(trainNorm, evalNorm))

	pred := &recordingPredictor{}
	mean, std, err := EvaluateVec(pred, evalNorm, 2)
	require.NoError(t, err)

	// Two episodes of three unit rewards, reward normalization off.
	assert.InDelta(t, 3.0, mean, 1e-9)
	assert.InDelta(t, 0.0, std, 1e-9)

	// Every observation the model saw is the normalized one: (2-1)/sqrt(4).
	require.NotEmpty(t, pred.seen)
	for _, o := range pred.seen {
		require.Len(t, o, 1)
		assert.InDelta(t, 0.5, o[0], 1e-6)
	}
}

func TestEvaluateVecNeedsTwoEpisodes(t *testing.T) {
	venv, err := vecenv.NewDummyVecEnv(core.EnvFunc(func() core.Env { return &constEnv{} }), 1)
	require.NoError(t, err)
	_, _, err = EvaluateVec(&recordingPredictor{}, venv, 1)
	assert.Error(t, err)
}
