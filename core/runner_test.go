package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/multiagent-rl/analysis"
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/envs"
	"github.com/zeu5/multiagent-rl/policies"
)

// captureComparator stores datasets so the test can inspect them.
type captureComparator struct {
	experiments []string
	datasets    []core.DataSet
}

func (c *captureComparator) Compare(experiments []string, datasets []core.DataSet) {
	c.experiments = experiments
	c.datasets = datasets
}

func runConfig() *core.RunConfig {
	return &core.RunConfig{
		Episodes:                     5,
		Horizon:                      10,
		EpisodeTimeout:               2 * time.Second,
		ThresholdConsecutiveErrors:   3,
		ThresholdConsecutiveTimeouts: 3,
	}
}

func TestComparisonRunCollectsReturns(t *testing.T) {
	capture := &captureComparator{}

	cmp := core.NewComparison()
	cmp.AddExperiment(&core.Experiment{
		Name:        "random-rps",
		Environment: envs.NewRockPaperScissors(),
		Policies: map[core.AgentID]core.Policy{
			envs.RPSAgent1: policies.NewRandomPolicy(),
			envs.RPSAgent2: policies.NewRandomPolicy(),
		},
	})
	cmp.AddAnalysis("returns", analysis.NewReturnAnalyzer(envs.RPSAgent1, envs.RPSAgent2), capture)

	cmp.Run(context.Background(), 1, runConfig())

	require.Equal(t, []string{"random-rps"}, capture.experiments)
	require.Len(t, capture.datasets, 1)
	dataset, ok := capture.datasets[0].(*analysis.ReturnDataset)
	require.True(t, ok)
	require.NotEmpty(t, dataset.Episodes)

	// Rock-paper-scissors is zero sum and three rounds long.
	for i := range dataset.Episodes {
		r1 := dataset.Returns[envs.RPSAgent1][i]
		r2 := dataset.Returns[envs.RPSAgent2][i]
		assert.Equal(t, float64(0), r1+r2)
		assert.LessOrEqual(t, r1, float64(envs.RPSEpisodeLength))
		assert.GreaterOrEqual(t, r1, float64(-envs.RPSEpisodeLength))
	}
}

func TestComparisonRunTurnBasedEnvironment(t *testing.T) {
	capture := &captureComparator{}

	cmp := core.NewComparison()
	cmp.AddExperiment(&core.Experiment{
		Name:        "random-battle",
		Environment: envs.NewTurnBattle(),
		Policies: map[core.AgentID]core.Policy{
			envs.BattleAgent1: policies.NewRandomPolicy(),
			envs.BattleAgent2: policies.NewRandomPolicy(),
		},
	})
	cmp.AddAnalysis("returns", analysis.NewReturnAnalyzer(envs.BattleAgent1, envs.BattleAgent2), capture)

	cmp.Run(context.Background(), 1, runConfig())

	require.Len(t, capture.datasets, 1)
	dataset, ok := capture.datasets[0].(*analysis.ReturnDataset)
	require.True(t, ok)
	require.NotEmpty(t, dataset.Episodes)
	for i := range dataset.Episodes {
		r1 := dataset.Returns[envs.BattleAgent1][i]
		assert.Contains(t, []float64{-1, 0, 1}, r1)
	}
}

func TestParallelComparisonRun(t *testing.T) {
	capture := &captureComparator{}

	cmp := core.NewParallelComparison()
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "random-a",
		Environment: &envs.RockPaperScissorsConstructor{},
		Policies: map[core.AgentID]core.PolicyConstructor{
			envs.RPSAgent1: &policies.RandomPolicyConstructor{},
			envs.RPSAgent2: &policies.RandomPolicyConstructor{},
		},
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "qlearning-a",
		Environment: &envs.RockPaperScissorsConstructor{},
		Policies: map[core.AgentID]core.PolicyConstructor{
			envs.RPSAgent1: policies.NewEpsilonGreedyPolicyConstructor(0.1, 0.95, 0.1),
			envs.RPSAgent2: &policies.RandomPolicyConstructor{},
		},
	})
	cmp.AddAnalysis(
		"returns",
		analysis.NewReturnAnalyzerConstructor(envs.RPSAgent1, envs.RPSAgent2),
		constructorOf(capture),
	)

	cmp.Run(context.Background(), 1, runConfig(), 2)

	require.Len(t, capture.experiments, 2)
	assert.ElementsMatch(t, []string{"random-a", "qlearning-a"}, capture.experiments)
	for _, ds := range capture.datasets {
		dataset, ok := ds.(*analysis.ReturnDataset)
		require.True(t, ok)
		assert.NotEmpty(t, dataset.Episodes)
	}
}

func TestParallelComparisonRunDeliversAllResults(t *testing.T) {
	capture := &captureComparator{}

	cmp := core.NewParallelComparison()
	names := []string{"rps-0", "rps-1", "rps-2", "rps-3", "rps-4"}
	for _, name := range names {
		cmp.AddExperiment(&core.ParallelExperiment{
			Name:        name,
			Environment: &envs.RockPaperScissorsConstructor{},
			Policies: map[core.AgentID]core.PolicyConstructor{
				envs.RPSAgent1: &policies.RandomPolicyConstructor{},
				envs.RPSAgent2: &policies.RandomPolicyConstructor{},
			},
		})
	}
	cmp.AddAnalysis(
		"returns",
		analysis.NewReturnAnalyzerConstructor(envs.RPSAgent1, envs.RPSAgent2),
		constructorOf(capture),
	)

	// More experiments than workers. Every experiment's dataset must reach
	// the comparator, none dropped on the way out of the worker pool.
	cmp.Run(context.Background(), 1, runConfig(), 2)

	assert.ElementsMatch(t, names, capture.experiments)
	require.Len(t, capture.datasets, len(names))
	for _, ds := range capture.datasets {
		require.NotNil(t, ds)
		dataset, ok := ds.(*analysis.ReturnDataset)
		require.True(t, ok)
		assert.NotEmpty(t, dataset.Episodes)
	}
}

type captureConstructor struct {
	c *captureComparator
}

func constructorOf(c *captureComparator) core.ComparatorConstructor {
	return &captureConstructor{c: c}
}

func (cc *captureConstructor) NewComparator(_ int) core.Comparator {
	return cc.c
}
