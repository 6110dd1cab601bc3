package policies

import (
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
)

// RandomPolicy samples every action uniformly from the action space.
type RandomPolicy struct{}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{}
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (r *RandomPolicy) PickAction(_ *core.StepContext, _ []float64, space spaces.Space) []float64 {
	return space.Sample()
}

func (r *RandomPolicy) UpdateStep(_ *core.StepContext, _, _ []float64, _ float64, _ []float64, _ bool) {
}

func (r *RandomPolicy) ResetEpisode(_ *core.EpisodeContext) {}

type RandomPolicyConstructor struct{}

var _ core.PolicyConstructor = &RandomPolicyConstructor{}

func (r *RandomPolicyConstructor) NewPolicy() core.Policy {
	return NewRandomPolicy()
}
