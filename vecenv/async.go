package vecenv

import (
	"fmt"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/util"
)

type asyncCmdKind int

const (
	asyncReset asyncCmdKind = iota
	asyncStep
	asyncClose
)

type asyncCmd struct {
	kind    asyncCmdKind
	action  []float64
	replyCh chan *asyncReply
}

type asyncReply struct {
	obs  []float64
	step *core.Timestep
	err  error
}

// asyncWorker owns one environment and serves commands from its channel.
type asyncWorker struct {
	id    int
	env   core.Env
	cmdCh chan *asyncCmd
}

func (w *asyncWorker) run() {
	for cmd := range w.cmdCh {
		switch cmd.kind {
		case asyncReset:
			obs, err := w.env.Reset()
			cmd.replyCh <- &asyncReply{obs: obs, err: err}
		case asyncStep:
			ts, err := w.env.Step(cmd.action)
			if err != nil {
				cmd.replyCh <- &asyncReply{err: err}
				continue
			}
			reply := &asyncReply{step: ts}
			if ts.Done {
				obs, err := w.env.Reset()
				if err != nil {
					cmd.replyCh <- &asyncReply{err: err}
					continue
				}
				reply.obs = obs
			}
			cmd.replyCh <- reply
		case asyncClose:
			cmd.replyCh <- &asyncReply{err: w.env.Close()}
			return
		}
	}
}

// AsyncVecEnv runs each environment in its own goroutine and steps the
// batch concurrently. Results are gathered in environment order, so it is a
// drop-in replacement for DummyVecEnv when the environments are expensive
// to step.
type AsyncVecEnv struct {
	workers []*asyncWorker
	obSpace spaces.Space
	acSpace spaces.Space
	closed  bool
}

var _ VecEnv = &AsyncVecEnv{}

func NewAsyncVecEnv(c core.EnvConstructor, n int) (*AsyncVecEnv, error) {
	if n <= 0 {
		return nil, ErrNoEnvs
	}
	workers := make([]*asyncWorker, n)
	for i := 0; i < n; i++ {
		workers[i] = &asyncWorker{
			id:    i,
			env:   c.NewEnv(i),
			cmdCh: make(chan *asyncCmd),
		}
		go workers[i].run()
	}
	return &AsyncVecEnv{
		workers: workers,
		obSpace: workers[0].env.ObservationSpace(),
		acSpace: workers[0].env.ActionSpace(),
	}, nil
}

func (a *AsyncVecEnv) NumEnvs() int {
	return len(a.workers)
}

func (a *AsyncVecEnv) ObservationSpace() spaces.Space {
	return a.obSpace
}

func (a *AsyncVecEnv) ActionSpace() spaces.Space {
	return a.acSpace
}

func (a *AsyncVecEnv) Reset() ([][]float64, error) {
	replies := a.dispatch(func(i int) *asyncCmd {
		return &asyncCmd{kind: asyncReset}
	})
	obs := make([][]float64, len(a.workers))
	for i, reply := range replies {
		if reply.err != nil {
			return nil, fmt.Errorf("resetting environment %d: %w", i, reply.err)
		}
		obs[i] = reply.obs
	}
	return obs, nil
}

func (a *AsyncVecEnv) Step(actions [][]float64) (*VecStep, error) {
	if len(actions) != len(a.workers) {
		return nil, fmt.Errorf("expected %d actions, got %d", len(a.workers), len(actions))
	}
	replies := a.dispatch(func(i int) *asyncCmd {
		return &asyncCmd{kind: asyncStep, action: actions[i]}
	})
	step := &VecStep{
		Observations: make([][]float64, len(a.workers)),
		Rewards:      make([]float64, len(a.workers)),
		Dones:        make([]bool, len(a.workers)),
		Infos:        make([]map[string]interface{}, len(a.workers)),
	}
	for i, reply := range replies {
		if reply.err != nil {
			return nil, fmt.Errorf("stepping environment %d: %w", i, reply.err)
		}
		ts := reply.step
		step.Rewards[i] = ts.Reward
		step.Dones[i] = ts.Done
		info := ts.Info
		if info == nil {
			info = make(map[string]interface{})
		}
		if ts.Done {
			info[TerminalObsKey] = util.CopyFloatSlice(ts.Obs)
			step.Observations[i] = reply.obs
		} else {
			step.Observations[i] = ts.Obs
		}
		step.Infos[i] = info
	}
	return step, nil
}

func (a *AsyncVecEnv) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	replies := a.dispatch(func(i int) *asyncCmd {
		return &asyncCmd{kind: asyncClose}
	})
	var firstErr error
	for _, reply := range replies {
		if reply.err != nil && firstErr == nil {
			firstErr = reply.err
		}
	}
	for _, w := range a.workers {
		close(w.cmdCh)
	}
	return firstErr
}

// dispatch fans a command out to every worker and gathers the replies in
// environment order.
func (a *AsyncVecEnv) dispatch(makeCmd func(int) *asyncCmd) []*asyncReply {
	cmds := make([]*asyncCmd, len(a.workers))
	for i, w := range a.workers {
		cmd := makeCmd(i)
		cmd.replyCh = make(chan *asyncReply, 1)
		cmds[i] = cmd
		w.cmdCh <- cmd
	}
	replies := make([]*asyncReply, len(a.workers))
	for i, cmd := range cmds {
		replies[i] = <-cmd.replyCh
	}
	return replies
}
