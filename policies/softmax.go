package policies

import (
	"math"
	"time"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/util"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMaxPolicy is tabular Q-learning with Boltzmann exploration: actions
// are sampled with probability proportional to the exponentiated Q values
// scaled by a temperature.
type SoftMaxPolicy struct {
	QTable      *QTable
	Alpha       float64
	Gamma       float64
	Temperature float64

	rand erand.Source
}

var _ core.Policy = &SoftMaxPolicy{}

func NewSoftMaxPolicy(alpha, gamma, temperature float64) *SoftMaxPolicy {
	return &SoftMaxPolicy{
		QTable:      NewQTable(),
		Alpha:       alpha,
		Gamma:       gamma,
		Temperature: temperature,
		rand:        erand.NewSource(uint64(time.Now().UnixMilli())),
	}
}

func (s *SoftMaxPolicy) Reset() {
	s.QTable = NewQTable()
	s.rand = erand.NewSource(uint64(time.Now().UnixMilli()))
}

func (s *SoftMaxPolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (s *SoftMaxPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (s *SoftMaxPolicy) PickAction(_ *core.StepContext, obs []float64, space spaces.Space) []float64 {
	actions, hashes, ok := enumerateActions(space)
	if !ok {
		return space.Sample()
	}
	stateHash := util.JsonHash(obs)

	vals := make([]float64, len(actions))
	largest := math.Inf(-1)
	for i, h := range hashes {
		vals[i] = s.QTable.Get(stateHash, h, 0) / s.Temperature
		if vals[i] > largest {
			largest = vals[i]
		}
	}

	// Normalizing before exponentiation
	sum := float64(0)
	for i := range vals {
		vals[i] = math.Exp(vals[i] - largest)
		sum += vals[i]
	}
	weights := make([]float64, len(vals))
	for i, v := range vals {
		weights[i] = v / sum
	}

	i, ok := sampleuv.NewWeighted(weights, s.rand).Take()
	if !ok {
		return actions[0]
	}
	return actions[i]
}

func (s *SoftMaxPolicy) UpdateStep(_ *core.StepContext, obs, action []float64, reward float64, nextObs []float64, done bool) {
	stateHash := util.JsonHash(obs)
	actionHash := util.JsonHash(action)

	nextVal := float64(0)
	if !done && nextObs != nil {
		_, nextVal = s.QTable.Max(util.JsonHash(nextObs), 0)
	}

	curVal := s.QTable.Get(stateHash, actionHash, 0)
	newVal := (1-s.Alpha)*curVal + s.Alpha*(reward+s.Gamma*nextVal)
	s.QTable.Set(stateHash, actionHash, newVal)
}

type SoftMaxPolicyConstructor struct {
	alpha       float64
	gamma       float64
	temperature float64
}

var _ core.PolicyConstructor = &SoftMaxPolicyConstructor{}

func NewSoftMaxPolicyConstructor(alpha, gamma, temperature float64) *SoftMaxPolicyConstructor {
	return &SoftMaxPolicyConstructor{
		alpha:       alpha,
		gamma:       gamma,
		temperature: temperature,
	}
}

func (s *SoftMaxPolicyConstructor) NewPolicy() core.Policy {
	return NewSoftMaxPolicy(s.alpha, s.gamma, s.temperature)
}
