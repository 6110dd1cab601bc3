package core

import "sync"

// Step records one timestep of a multi-agent episode.
type Step struct {
	Observations map[AgentID][]float64
	Actions      map[AgentID][]float64
	Rewards      map[AgentID]float64
	Dones        map[AgentID]bool

	Misc map[string]interface{}
}

type Trace struct {
	mtx   *sync.Mutex
	steps []*Step
	err   error
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) AddStep(s *Step) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if len(t.steps) == 0 {
		return nil
	}
	return t.steps[len(t.steps)-1]
}

func (t *Trace) SetError(err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.err = err
}

func (t *Trace) Error() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.err
}

// Return sums the recorded rewards of the given agent.
func (t *Trace) Return(agent AgentID) float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	total := float64(0)
	for _, s := range t.steps {
		if r, ok := s.Rewards[agent]; ok {
			total += r
		}
	}
	return total
}
