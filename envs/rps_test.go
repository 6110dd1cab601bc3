package envs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/multiagent-rl/core"
)

func rpsStep(t *testing.T, env *RockPaperScissors, m1, m2 int) *core.MultiStep {
	t.Helper()
	step, err := env.Step(map[core.AgentID][]float64{
		RPSAgent1: {float64(m1)},
		RPSAgent2: {float64(m2)},
	}, nil)
	require.NoError(t, err)
	return step
}

func TestRockPaperScissorsRewards(t *testing.T) {
	cases := []struct {
		name   string
		m1, m2 int
		r1, r2 float64
	}{
		{"rock blunts scissors", Rock, Scissors, 1, -1},
		{"paper wraps rock", Paper, Rock, 1, -1},
		{"scissors cut paper", Scissors, Paper, 1, -1},
		{"scissors lose to rock", Scissors, Rock, -1, 1},
		{"rock loses to paper", Rock, Paper, -1, 1},
		{"paper loses to scissors", Paper, Scissors, -1, 1},
		{"tie rock", Rock, Rock, 0, 0},
		{"tie scissors", Scissors, Scissors, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := NewRockPaperScissors()
			_, err := env.Reset()
			require.NoError(t, err)

			step := rpsStep(t, env, tc.m1, tc.m2)
			assert.Equal(t, tc.r1, step.Rewards[RPSAgent1])
			assert.Equal(t, tc.r2, step.Rewards[RPSAgent2])
		})
	}
}

func TestRockPaperScissorsObservationIsOpponentMove(t *testing.T) {
	env := NewRockPaperScissors()
	_, err := env.Reset()
	require.NoError(t, err)

	step := rpsStep(t, env, Paper, Scissors)
	assert.Equal(t, []float64{Scissors}, step.Observations[RPSAgent1])
	assert.Equal(t, []float64{Paper}, step.Observations[RPSAgent2])
}

func TestRockPaperScissorsEpisodeEndsAfterThreeRounds(t *testing.T) {
	env := NewRockPaperScissors()
	obs, err := env.Reset()
	require.NoError(t, err)
	require.Len(t, obs, 2)

	for i := 0; i < RPSEpisodeLength-1; i++ {
		step := rpsStep(t, env, Rock, Rock)
		assert.False(t, step.AllDone)
		assert.False(t, step.Dones[RPSAgent1])
	}
	step := rpsStep(t, env, Rock, Rock)
	assert.True(t, step.AllDone)
	assert.True(t, step.Dones[RPSAgent1])
	assert.True(t, step.Dones[RPSAgent2])
}

func TestRockPaperScissorsRejectsPartialMoves(t *testing.T) {
	env := NewRockPaperScissors()
	_, err := env.Reset()
	require.NoError(t, err)

	_, err = env.Step(map[core.AgentID][]float64{
		RPSAgent1: {Rock},
	}, nil)
	assert.Error(t, err)
}

func TestRockPaperScissorsSpacesCoverAgents(t *testing.T) {
	env := NewRockPaperScissors()
	assert.Contains(t, env.ActionSpaces(), RPSAgent1)
	assert.Contains(t, env.ActionSpaces(), RPSAgent2)
	assert.Contains(t, env.ObservationSpaces(), RPSAgent1)
	assert.Contains(t, env.ObservationSpaces(), RPSAgent2)
}
