package vecenv

import (
	"math"

	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/util"
)

// NormalizeConfig controls a VecNormalize wrapper.
type NormalizeConfig struct {
	// NormObs and NormReward toggle observation and reward normalization.
	NormObs    bool
	NormReward bool
	// ClipObs and ClipReward bound normalized values symmetrically.
	ClipObs    float64
	ClipReward float64
	// Gamma is the discount used for the return estimate that scales
	// rewards.
	Gamma float64
	// Epsilon keeps divisions by the standard deviation well conditioned.
	Epsilon float64
	// Training freezes the running statistics when false, for evaluation
	// environments fed statistics from a training chain.
	Training bool
}

func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		NormObs:    true,
		NormReward: true,
		ClipObs:    10,
		ClipReward: 10,
		Gamma:      0.99,
		Epsilon:    1e-8,
		Training:   true,
	}
}

// VecNormalize normalizes observations by a running mean and standard
// deviation, and scales rewards by the standard deviation of a discounted
// return estimate.
type VecNormalize struct {
	venv   VecEnv
	config NormalizeConfig

	obsRMS  *RunningMeanStd
	retRMS  *RunningMeanStd
	returns []float64
}

var (
	_ VecEnv        = &VecNormalize{}
	_ VecEnvWrapper = &VecNormalize{}
)

func NewVecNormalize(venv VecEnv, config NormalizeConfig) *VecNormalize {
	return &VecNormalize{
		venv:    venv,
		config:  config,
		obsRMS:  NewRunningMeanStd(venv.ObservationSpace().FlatDim(), 1e-4),
		retRMS:  NewRunningMeanStd(1, 1e-4),
		returns: make([]float64, venv.NumEnvs()),
	}
}

func (v *VecNormalize) Unwrap() VecEnv {
	return v.venv
}

func (v *VecNormalize) NumEnvs() int {
	return v.venv.NumEnvs()
}

func (v *VecNormalize) ObservationSpace() spaces.Space {
	return v.venv.ObservationSpace()
}

func (v *VecNormalize) ActionSpace() spaces.Space {
	return v.venv.ActionSpace()
}

func (v *VecNormalize) Reset() ([][]float64, error) {
	obs, err := v.venv.Reset()
	if err != nil {
		return nil, err
	}
	for i := range v.returns {
		v.returns[i] = 0
	}
	if v.config.Training && v.config.NormObs {
		v.obsRMS.Update(obs)
	}
	return v.normalizeObsBatch(obs), nil
}

func (v *VecNormalize) Step(actions [][]float64) (*VecStep, error) {
	step, err := v.venv.Step(actions)
	if err != nil {
		return nil, err
	}
	if v.config.Training && v.config.NormObs {
		v.obsRMS.Update(step.Observations)
	}
	if v.config.Training && v.config.NormReward {
		batch := make([][]float64, len(step.Rewards))
		for i, r := range step.Rewards {
			v.returns[i] = v.returns[i]*v.config.Gamma + r
			batch[i] = []float64{v.returns[i]}
		}
		v.retRMS.Update(batch)
	}

	out := &VecStep{
		Observations: v.normalizeObsBatch(step.Observations),
		Rewards:      make([]float64, len(step.Rewards)),
		Dones:        step.Dones,
		Infos:        step.Infos,
	}
	for i, r := range step.Rewards {
		out.Rewards[i] = v.NormalizeReward(r)
		if step.Dones[i] {
			v.returns[i] = 0
		}
	}
	// Terminal observations stay comparable with the regular ones.
	for _, info := range out.Infos {
		if term, ok := info[TerminalObsKey].([]float64); ok {
			info[TerminalObsKey] = v.NormalizeObs(term)
		}
	}
	return out, nil
}

func (v *VecNormalize) Close() error {
	return v.venv.Close()
}

// NormalizeObs returns the observation scaled by the current running
// statistics and clipped.
func (v *VecNormalize) NormalizeObs(obs []float64) []float64 {
	if !v.config.NormObs {
		return obs
	}
	out := make([]float64, len(obs))
	for i, o := range obs {
		n := (o - v.obsRMS.Mean[i]) / math.Sqrt(v.obsRMS.Var[i]+v.config.Epsilon)
		out[i] = clip(n, -v.config.ClipObs, v.config.ClipObs)
	}
	return out
}

// NormalizeReward scales the reward by the standard deviation of the
// discounted return estimate and clips it.
func (v *VecNormalize) NormalizeReward(reward float64) float64 {
	if !v.config.NormReward {
		return reward
	}
	n := reward / math.Sqrt(v.retRMS.Var[0]+v.config.Epsilon)
	return clip(n, -v.config.ClipReward, v.config.ClipReward)
}

func (v *VecNormalize) normalizeObsBatch(obs [][]float64) [][]float64 {
	out := make([][]float64, len(obs))
	for i, o := range obs {
		out[i] = v.NormalizeObs(o)
	}
	return out
}

// ObsRMS returns a deep copy of the observation statistics.
func (v *VecNormalize) ObsRMS() *RunningMeanStd {
	return v.obsRMS.Copy()
}

// SetObsRMS replaces the observation statistics with a deep copy of rms.
func (v *VecNormalize) SetObsRMS(rms *RunningMeanStd) {
	v.obsRMS = rms.Copy()
}

// RetRMS returns a deep copy of the return statistics.
func (v *VecNormalize) RetRMS() *RunningMeanStd {
	return v.retRMS.Copy()
}

// SetTraining toggles updates to the running statistics.
func (v *VecNormalize) SetTraining(training bool) {
	v.config.Training = training
}

// Returns reports the current discounted return estimates per environment.
func (v *VecNormalize) Returns() []float64 {
	return util.CopyFloatSlice(v.returns)
}

func clip(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
