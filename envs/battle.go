package envs

import (
	"fmt"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
)

const (
	MoveAttack = 0
	MoveHeal   = 1
)

const (
	BattleAgent1 = core.AgentID("player1")
	BattleAgent2 = core.AgentID("player2")
)

const (
	battleMaxHP    = 10
	battleDamage   = 3
	battleHealing  = 2
	battleMaxTurns = 50
)

// TurnBattle plays a simplified turn-based battle between two agents. The
// agents alternate turns, so only the agent due to move appears in the
// observation map. A move either attacks the opponent or heals the mover.
// The episode ends when one side's hit points reach zero, with +1 for the
// winner and -1 for the loser, or in a draw after a turn cap.
type TurnBattle struct {
	actionSpaces      map[core.AgentID]spaces.Space
	observationSpaces map[core.AgentID]spaces.Space

	hp    map[core.AgentID]int
	turn  core.AgentID
	turns int
}

var _ core.MultiAgentEnv = &TurnBattle{}

func NewTurnBattle() *TurnBattle {
	obsSpace := func() spaces.Space {
		return spaces.NewUniformBox(0, battleMaxHP, 2)
	}
	return &TurnBattle{
		actionSpaces: map[core.AgentID]spaces.Space{
			BattleAgent1: spaces.NewDiscrete(2),
			BattleAgent2: spaces.NewDiscrete(2),
		},
		observationSpaces: map[core.AgentID]spaces.Space{
			BattleAgent1: obsSpace(),
			BattleAgent2: obsSpace(),
		},
		hp: make(map[core.AgentID]int),
	}
}

func (b *TurnBattle) ActionSpaces() map[core.AgentID]spaces.Space {
	return b.actionSpaces
}

func (b *TurnBattle) ObservationSpaces() map[core.AgentID]spaces.Space {
	return b.observationSpaces
}

func (b *TurnBattle) Reset() (map[core.AgentID][]float64, error) {
	b.hp[BattleAgent1] = battleMaxHP
	b.hp[BattleAgent2] = battleMaxHP
	b.turn = BattleAgent1
	b.turns = 0
	return map[core.AgentID][]float64{
		b.turn: b.observe(b.turn),
	}, nil
}

func (b *TurnBattle) Step(actions map[core.AgentID][]float64, _ *core.StepContext) (*core.MultiStep, error) {
	action, ok := actions[b.turn]
	if !ok {
		return nil, fmt.Errorf("expected a move from %q", b.turn)
	}
	if len(actions) != 1 {
		return nil, fmt.Errorf("only %q may move this turn", b.turn)
	}

	mover := b.turn
	opponent := b.opponent(mover)
	switch int(action[0]) {
	case MoveAttack:
		b.hp[opponent] -= battleDamage
		if b.hp[opponent] < 0 {
			b.hp[opponent] = 0
		}
	case MoveHeal:
		b.hp[mover] += battleHealing
		if b.hp[mover] > battleMaxHP {
			b.hp[mover] = battleMaxHP
		}
	default:
		return nil, fmt.Errorf("unknown move %v", action)
	}
	b.turns++

	if b.hp[opponent] == 0 {
		return &core.MultiStep{
			Observations: map[core.AgentID][]float64{
				mover:    b.observe(mover),
				opponent: b.observe(opponent),
			},
			Rewards: map[core.AgentID]float64{mover: 1, opponent: -1},
			Dones:   map[core.AgentID]bool{mover: true, opponent: true},
			AllDone: true,
		}, nil
	}
	if b.turns >= battleMaxTurns {
		return &core.MultiStep{
			Observations: map[core.AgentID][]float64{
				mover:    b.observe(mover),
				opponent: b.observe(opponent),
			},
			Rewards: map[core.AgentID]float64{mover: 0, opponent: 0},
			Dones:   map[core.AgentID]bool{mover: true, opponent: true},
			AllDone: true,
		}, nil
	}

	b.turn = opponent
	return &core.MultiStep{
		Observations: map[core.AgentID][]float64{
			opponent: b.observe(opponent),
		},
		Rewards: map[core.AgentID]float64{opponent: 0},
		Dones:   map[core.AgentID]bool{mover: false},
	}, nil
}

func (b *TurnBattle) observe(agent core.AgentID) []float64 {
	return []float64{
		float64(b.hp[agent]),
		float64(b.hp[b.opponent(agent)]),
	}
}

func (b *TurnBattle) opponent(agent core.AgentID) core.AgentID {
	if agent == BattleAgent1 {
		return BattleAgent2
	}
	return BattleAgent1
}

type TurnBattleConstructor struct{}

var _ core.MultiAgentEnvConstructor = &TurnBattleConstructor{}

func (c *TurnBattleConstructor) NewMultiAgentEnv(_ int) core.MultiAgentEnv {
	return NewTurnBattle()
}
