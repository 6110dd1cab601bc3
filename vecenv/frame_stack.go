package vecenv

import "github.com/zeu5/multiagent-rl/spaces"

// VecFrameStack augments each observation with the previous K-1 frames,
// concatenated oldest first. The stack of a finished environment is cleared
// before the first observation of the next episode is pushed.
type VecFrameStack struct {
	venv   VecEnv
	k      int
	stacks [][]float64
	dim    int
}

var (
	_ VecEnv        = &VecFrameStack{}
	_ VecEnvWrapper = &VecFrameStack{}
)

func NewVecFrameStack(venv VecEnv, k int) *VecFrameStack {
	dim := venv.ObservationSpace().FlatDim()
	stacks := make([][]float64, venv.NumEnvs())
	for i := range stacks {
		stacks[i] = make([]float64, k*dim)
	}
	return &VecFrameStack{
		venv:   venv,
		k:      k,
		stacks: stacks,
		dim:    dim,
	}
}

func (f *VecFrameStack) Unwrap() VecEnv {
	return f.venv
}

func (f *VecFrameStack) NumEnvs() int {
	return f.venv.NumEnvs()
}

func (f *VecFrameStack) ObservationSpace() spaces.Space {
	return stackSpace(f.venv.ObservationSpace(), f.k)
}

func (f *VecFrameStack) ActionSpace() spaces.Space {
	return f.venv.ActionSpace()
}

func (f *VecFrameStack) Reset() ([][]float64, error) {
	obs, err := f.venv.Reset()
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(obs))
	for i, o := range obs {
		f.clearStack(i)
		out[i] = f.push(i, o)
	}
	return out, nil
}

func (f *VecFrameStack) Step(actions [][]float64) (*VecStep, error) {
	step, err := f.venv.Step(actions)
	if err != nil {
		return nil, err
	}
	out := &VecStep{
		Observations: make([][]float64, len(step.Observations)),
		Rewards:      step.Rewards,
		Dones:        step.Dones,
		Infos:        step.Infos,
	}
	for i, o := range step.Observations {
		if step.Dones[i] {
			if term, ok := step.Infos[i][TerminalObsKey].([]float64); ok {
				step.Infos[i][TerminalObsKey] = f.push(i, term)
			}
			f.clearStack(i)
		}
		out.Observations[i] = f.push(i, o)
	}
	return out, nil
}

func (f *VecFrameStack) Close() error {
	return f.venv.Close()
}

// push shifts the stack of environment i one frame left, appends obs and
// returns a copy of the stacked observation.
func (f *VecFrameStack) push(i int, obs []float64) []float64 {
	stack := f.stacks[i]
	copy(stack, stack[f.dim:])
	copy(stack[(f.k-1)*f.dim:], obs)
	out := make([]float64, len(stack))
	copy(out, stack)
	return out
}

func (f *VecFrameStack) clearStack(i int) {
	for j := range f.stacks[i] {
		f.stacks[i][j] = 0
	}
}

// stackSpace widens a space to hold k concatenated members.
func stackSpace(s spaces.Space, k int) spaces.Space {
	switch sp := s.(type) {
	case *spaces.Box:
		low := make([]float64, 0, k*len(sp.Low))
		high := make([]float64, 0, k*len(sp.High))
		for i := 0; i < k; i++ {
			low = append(low, sp.Low...)
			high = append(high, sp.High...)
		}
		stacked, _ := spaces.NewBox(low, high)
		return stacked
	case *spaces.Discrete:
		nvec := make([]int, k)
		for i := range nvec {
			nvec[i] = sp.N
		}
		return spaces.NewMultiDiscrete(nvec)
	case *spaces.MultiDiscrete:
		nvec := make([]int, 0, k*len(sp.Nvec))
		for i := 0; i < k; i++ {
			nvec = append(nvec, sp.Nvec...)
		}
		return spaces.NewMultiDiscrete(nvec)
	default:
		return s
	}
}
