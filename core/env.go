package core

import (
	"context"

	"github.com/zeu5/multiagent-rl/spaces"
)

// Timestep is the result of taking one step in a single-agent environment.
type Timestep struct {
	Obs    []float64
	Reward float64
	Done   bool
	Info   map[string]interface{}
}

// Env is the single-agent environment convention. Observations and actions
// are flat vectors validated by the corresponding spaces.
type Env interface {
	ObservationSpace() spaces.Space
	ActionSpace() spaces.Space
	// Reset returns the initial observation. It must be called before the
	// first Step and again after a Timestep with Done set.
	Reset() ([]float64, error)
	Step(action []float64) (*Timestep, error)
	Close() error
}

type EpisodeContext struct {
	Context       context.Context
	Episode       int
	Horizon       int
	Run           int
	StartTimeStep int

	Trace *Trace

	err     error
	timeout bool
	doneCh  chan struct{}
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Trace:   NewTrace(),
		doneCh:  make(chan struct{}),
	}
}

func (e *EpisodeContext) Error(err error) {
	e.err = err
	close(e.doneCh)
}

func (e *EpisodeContext) Timeout() {
	e.timeout = true
	close(e.doneCh)
}

func (e *EpisodeContext) Finish() {
	close(e.doneCh)
}

func (e *EpisodeContext) IsError() bool {
	return e.err != nil
}

func (e *EpisodeContext) Err() error {
	return e.err
}

func (e *EpisodeContext) IsTimeout() bool {
	return e.timeout
}

func (e *EpisodeContext) Done() <-chan struct{} {
	return e.doneCh
}

type StepContext struct {
	Step int
	*EpisodeContext
}

type EnvConstructor interface {
	// NewEnv creates a new environment with the given instance number.
	NewEnv(int) Env
}

// EnvFunc adapts a plain constructor function to an EnvConstructor.
type EnvFunc func() Env

func (f EnvFunc) NewEnv(_ int) Env {
	return f()
}
