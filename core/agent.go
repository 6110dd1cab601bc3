package core

import "github.com/zeu5/multiagent-rl/spaces"

// Policy picks actions for a single agent of a multi-agent environment.
type Policy interface {
	ResetEpisode(*EpisodeContext)
	UpdateEpisode(*EpisodeContext)
	PickAction(sCtx *StepContext, obs []float64, space spaces.Space) []float64
	UpdateStep(sCtx *StepContext, obs, action []float64, reward float64, nextObs []float64, done bool)
	Reset()
}

type PolicyConstructor interface {
	NewPolicy() Policy
}
