package policies

import (
	"math/rand"
	"time"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/util"
)

// EpsilonGreedyPolicy is tabular Q-learning with epsilon-greedy
// exploration. It requires an enumerable action space; for anything else
// it falls back to uniform sampling.
type EpsilonGreedyPolicy struct {
	qTable  *QTable
	alpha   float64
	gamma   float64
	epsilon float64
	rand    *rand.Rand
}

var _ core.Policy = &EpsilonGreedyPolicy{}

func NewEpsilonGreedyPolicy(alpha, gamma, epsilon float64) *EpsilonGreedyPolicy {
	return &EpsilonGreedyPolicy{
		qTable:  NewQTable(),
		alpha:   alpha,
		gamma:   gamma,
		epsilon: epsilon,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *EpsilonGreedyPolicy) Save(path string) error {
	return e.qTable.Save(path)
}

func (e *EpsilonGreedyPolicy) Reset() {
	e.qTable = NewQTable()
}

func (e *EpsilonGreedyPolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (e *EpsilonGreedyPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (e *EpsilonGreedyPolicy) PickAction(_ *core.StepContext, obs []float64, space spaces.Space) []float64 {
	actions, hashes, ok := enumerateActions(space)
	if !ok {
		return space.Sample()
	}
	if e.rand.Float64() < e.epsilon {
		return actions[e.rand.Intn(len(actions))]
	}

	maxAction, _ := e.qTable.MaxAmong(util.JsonHash(obs), hashes, 0)
	for i, h := range hashes {
		if h == maxAction {
			return actions[i]
		}
	}
	return actions[0]
}

func (e *EpsilonGreedyPolicy) UpdateStep(_ *core.StepContext, obs, action []float64, reward float64, nextObs []float64, done bool) {
	stateHash := util.JsonHash(obs)
	actionHash := util.JsonHash(action)

	nextVal := float64(0)
	if !done && nextObs != nil {
		_, nextVal = e.qTable.Max(util.JsonHash(nextObs), 0)
	}

	curVal := e.qTable.Get(stateHash, actionHash, 0)
	newVal := (1-e.alpha)*curVal + e.alpha*(reward+e.gamma*nextVal)
	e.qTable.Set(stateHash, actionHash, newVal)
}

type EpsilonGreedyPolicyConstructor struct {
	alpha   float64
	gamma   float64
	epsilon float64
}

var _ core.PolicyConstructor = &EpsilonGreedyPolicyConstructor{}

func NewEpsilonGreedyPolicyConstructor(alpha, gamma, epsilon float64) *EpsilonGreedyPolicyConstructor {
	return &EpsilonGreedyPolicyConstructor{
		alpha:   alpha,
		gamma:   gamma,
		epsilon: epsilon,
	}
}

func (c *EpsilonGreedyPolicyConstructor) NewPolicy() core.Policy {
	return NewEpsilonGreedyPolicy(c.alpha, c.gamma, c.epsilon)
}
