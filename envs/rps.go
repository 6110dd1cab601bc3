package envs

import (
	"fmt"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
)

const (
	Rock     = 0
	Paper    = 1
	Scissors = 2
)

const (
	RPSAgent1 = core.AgentID("agent1")
	RPSAgent2 = core.AgentID("agent2")
)

// RPSEpisodeLength is the number of rounds played per episode.
const RPSEpisodeLength = 3

// RockPaperScissors plays the simultaneous-move game rock-paper-scissors
// with two agents. Each agent observes the opponent's previous move and
// receives +1 for a won round, -1 for a lost one and 0 for a tie.
type RockPaperScissors struct {
	actionSpaces      map[core.AgentID]spaces.Space
	observationSpaces map[core.AgentID]spaces.Space
	steps             int
}

var _ core.MultiAgentEnv = &RockPaperScissors{}

func NewRockPaperScissors() *RockPaperScissors {
	// You get to choose rock, paper, or scissors
	actionSpaces := map[core.AgentID]spaces.Space{
		RPSAgent1: spaces.NewDiscrete(3),
		RPSAgent2: spaces.NewDiscrete(3),
	}
	// You get to see the opponent's last move
	observationSpaces := map[core.AgentID]spaces.Space{
		RPSAgent1: spaces.NewDiscrete(3),
		RPSAgent2: spaces.NewDiscrete(3),
	}
	return &RockPaperScissors{
		actionSpaces:      actionSpaces,
		observationSpaces: observationSpaces,
	}
}

func (r *RockPaperScissors) ActionSpaces() map[core.AgentID]spaces.Space {
	return r.actionSpaces
}

func (r *RockPaperScissors) ObservationSpaces() map[core.AgentID]spaces.Space {
	return r.observationSpaces
}

func (r *RockPaperScissors) Reset() (map[core.AgentID][]float64, error) {
	r.steps = 0
	return map[core.AgentID][]float64{
		RPSAgent1: {Rock},
		RPSAgent2: {Rock},
	}, nil
}

func (r *RockPaperScissors) Step(actions map[core.AgentID][]float64, _ *core.StepContext) (*core.MultiStep, error) {
	a1, ok1 := actions[RPSAgent1]
	a2, ok2 := actions[RPSAgent2]
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("both agents must move, got actions for %d", len(actions))
	}
	m1, m2 := int(a1[0]), int(a2[0])
	if m1 < 0 || m1 > 2 || m2 < 0 || m2 > 2 {
		return nil, fmt.Errorf("moves out of range: %d, %d", m1, m2)
	}

	rewards := map[core.AgentID]float64{RPSAgent1: 0, RPSAgent2: 0}
	// Each move beats the move one below it, cyclically.
	switch (m1 - m2 + 3) % 3 {
	case 1:
		rewards[RPSAgent1], rewards[RPSAgent2] = 1, -1
	case 2:
		rewards[RPSAgent1], rewards[RPSAgent2] = -1, 1
	}

	observations := map[core.AgentID][]float64{
		RPSAgent1: {float64(m2)},
		RPSAgent2: {float64(m1)},
	}

	r.steps++
	done := r.steps >= RPSEpisodeLength
	return &core.MultiStep{
		Observations: observations,
		Rewards:      rewards,
		Dones:        map[core.AgentID]bool{RPSAgent1: done, RPSAgent2: done},
		AllDone:      done,
	}, nil
}

type RockPaperScissorsConstructor struct{}

var _ core.MultiAgentEnvConstructor = &RockPaperScissorsConstructor{}

func (c *RockPaperScissorsConstructor) NewMultiAgentEnv(_ int) core.MultiAgentEnv {
	return NewRockPaperScissors()
}
