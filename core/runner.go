package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zeu5/multiagent-rl/util"
)

var (
	ErrTooManyTimeouts = errors.New("too many timeouts")
	ErrTooManyErrors   = errors.New("too many errors")
)

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	writer io.Writer

	*RunConfig
}

type ExperimentResult struct {
	CompletedEpisodes int
	TotalEpisodes     int
	ErrorEpisodes     int
	TimeoutEpisodes   int
	TotalTimeSteps    int

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

// runEpisode plays out one episode of the multi-agent environment. Each
// iteration collects an action from the policy of every agent due to move,
// steps the environment and feeds the outcome back to those policies.
func (e *Experiment) runEpisode(eCtx *EpisodeContext) {
	obs, err := e.Environment.Reset()
	if err != nil {
		eCtx.Error(err)
		return
	}
	for _, p := range e.Policies {
		p.ResetEpisode(eCtx)
	}
	dropped := make(map[AgentID]bool)
	for step := 0; step < eCtx.Horizon; step++ {
		select {
		case <-eCtx.Context.Done():
			eCtx.Error(eCtx.Context.Err())
			return
		default:
		}
		if len(obs) == 0 {
			break
		}

		sCtx := &StepContext{Step: step, EpisodeContext: eCtx}
		aSpaces := e.Environment.ActionSpaces()
		actions := make(map[AgentID][]float64)
		for agent, o := range obs {
			if dropped[agent] {
				continue
			}
			policy, ok := e.Policies[agent]
			if !ok {
				eCtx.Error(fmt.Errorf("no policy for agent %q", agent))
				return
			}
			actions[agent] = policy.PickAction(sCtx, o, aSpaces[agent])
		}
		mStep, err := e.Environment.Step(actions, sCtx)
		if err != nil {
			eCtx.Error(err)
			return
		}
		for agent, action := range actions {
			done := mStep.AllDone || mStep.Dones[agent]
			e.Policies[agent].UpdateStep(sCtx, obs[agent], action, mStep.Rewards[agent], mStep.Observations[agent], done)
			if mStep.Dones[agent] {
				dropped[agent] = true
			}
		}
		eCtx.Trace.AddStep(&Step{
			Observations: obs,
			Actions:      actions,
			Rewards:      mStep.Rewards,
			Dones:        mStep.Dones,
		})
		if mStep.AllDone {
			break
		}
		obs = mStep.Observations
	}
	for _, p := range e.Policies {
		p.UpdateEpisode(eCtx)
	}
	eCtx.Finish()
}

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}
	for _, p := range e.Policies {
		p.Reset()
	}

	consecutiveErrors := 0
	consecutiveTimeouts := 0
	totalTimeSteps := (ctx.Episodes + 1) * ctx.Horizon
EpisodeLoop:
	for episode := 0; result.TotalTimeSteps <= totalTimeSteps; episode++ {
		select {
		case <-ctx.ctx.Done():
			result.Error = errors.New("context cancelled")
			break EpisodeLoop
		default:
		}

		fmt.Fprintf(
			ctx.writer,
			"Experiment: %s, Run %d, Timesteps: %d/%d, Episode %d, Error: %d, Timedout: %d\n",
			e.Name, ctx.run, result.TotalTimeSteps, totalTimeSteps, episode, result.ErrorEpisodes, result.TimeoutEpisodes,
		)
		timeoutCtx, timeoutCancel := context.WithTimeout(ctx.ctx, ctx.EpisodeTimeout)
		eCtx := NewEpisodeContext(timeoutCtx)
		eCtx.Run = ctx.run
		eCtx.Episode = episode
		eCtx.Horizon = ctx.Horizon
		eCtx.StartTimeStep = result.TotalTimeSteps

		go e.runEpisode(eCtx)

		errorred := false
		timedout := false
		select {
		case <-eCtx.Done():
			if eCtx.IsError() {
				errorred = true
				eCtx.Trace.SetError(eCtx.Err())
			}
		case <-timeoutCtx.Done():
			timedout = true
		}
		timeoutCancel()

		if errorred {
			result.ErrorEpisodes++
			if consecutiveErrors++; consecutiveErrors >= ctx.ThresholdConsecutiveErrors {
				result.Error = ErrTooManyErrors
				break EpisodeLoop
			}
		} else {
			consecutiveErrors = 0
		}
		if timedout {
			result.TimeoutEpisodes++
			if consecutiveTimeouts++; consecutiveTimeouts >= ctx.ThresholdConsecutiveTimeouts {
				result.Error = ErrTooManyTimeouts
				break EpisodeLoop
			}
		} else {
			consecutiveTimeouts = 0
		}

		if !errorred && !timedout {
			result.TotalTimeSteps += eCtx.Trace.Len()
			result.CompletedEpisodes++
		}
		result.TotalEpisodes++

		for _, a := range ctx.analyzers {
			a.Analyze(eCtx, eCtx.Trace)
		}
	}
	if result.Error != nil {
		fmt.Fprintf(ctx.writer, "Experiment: %s, Run %d, Error: %v\n", e.Name, ctx.run, result.Error)
	}

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}

	for _, p := range e.Policies {
		p.Reset()
	}
	return result
}

func (c *Comparison) Run(ctx context.Context, runs int, rConfig *RunConfig) {
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results := make(map[string]*ExperimentResult)

		// Run experiments
		for _, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return
			default:
			}
			ctx := &experimentRunContext{
				run:       run,
				ctx:       ctx,
				analyzers: make(map[string]Analyzer),
				writer:    io.Discard,
				RunConfig: rConfig,
			}

			for name, aC := range c.Analyzers {
				aC.Reset()
				ctx.analyzers[name] = aC
			}

			results[e.Name] = e.run(ctx)
		}

		// Gather datasets to run comparisons
		datasets := make(map[string][]DataSet)
		analyzerNames := make([]string, 0)
		for name := range c.Analyzers {
			analyzerNames = append(analyzerNames, name)
		}
		experimentNames := make([]string, 0)
		for name, result := range results {
			experimentNames = append(experimentNames, name)
			for _, name := range analyzerNames {
				if _, ok := datasets[name]; !ok {
					datasets[name] = make([]DataSet, 0)
				}
				if result.IsError() {
					datasets[name] = append(datasets[name], nil)
				} else {
					datasets[name] = append(datasets[name], result.Datasets[name])
				}
			}
		}
		for name, c := range c.Comparators {
			c.Compare(experimentNames, datasets[name])
		}
	}
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	experiment *ParallelExperiment
	comp       *ParallelComparison
	runNumber  int
	writer     io.Writer
	rConfig    *RunConfig
}

// parallelResult is a struct that contains the result of running an experiment
type parallelResult struct {
	experimentName string
	run            int
	result         *ExperimentResult
}

// Worker main loop that consumes work from a channel
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, more := <-workCh:
			if !more {
				return
			}
			result := w.runWork(ctx, work)
			select {
			case <-ctx.Done():
				return
			case resultsCh <- result:
			}
		}
	}
}

// Run an experiment by constructing the experiment context, *Experiment
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *parallelResult {
	eCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		writer:    work.writer,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, w.id)
	}

	// Construct the experiment
	policies := make(map[AgentID]Policy)
	for agent, pC := range work.experiment.Policies {
		policies[agent] = pC.NewPolicy()
	}
	exp := &Experiment{
		Name:        work.experiment.Name,
		Environment: work.experiment.Environment.NewMultiAgentEnv(w.id),
		Policies:    policies,
	}

	// Run the experiment
	result := exp.run(eCtx)

	return &parallelResult{
		experimentName: work.experiment.Name,
		run:            work.runNumber,
		result:         result,
	}
}

func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) {
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		// Create workers and channels
		printer := util.NewTerminalPrinter(100 * time.Millisecond)
		printer.Write(fmt.Sprintf("Run %d\n", run))

		workCh := make(chan *parallelWork, parallelism)
		resultsCh := make(chan *parallelResult, parallelism)

		// Start workers
		workers := make([]*parallelWorker, parallelism)
		for i := 0; i < parallelism; i++ {
			workers[i] = &parallelWorker{id: i}
			go workers[i].run(ctx, workCh, resultsCh)
		}

		works := make([]*parallelWork, 0, len(c.Experiments))
		for _, e := range c.Experiments {
			works = append(works, &parallelWork{
				experiment: e,
				comp:       c,
				runNumber:  run,
				rConfig:    rConfig,
				writer:     printer.NewOutput(),
			})
		}

		// Feed work to the workers
		go func() {
			for _, work := range works {
				select {
				case <-ctx.Done():
					return
				case workCh <- work:
				}
			}
			close(workCh)
		}()

		// Start printing only once all outputs are registered
		printer.Start(ctx)

		// Collect one result per experiment. The send on resultsCh is the
		// worker's completion signal, so every result is in the map before
		// the comparators run.
		results := make(map[string]*ExperimentResult)
		for received := 0; received < len(works); received++ {
			select {
			case <-ctx.Done():
				printer.Stop()
				return
			case result := <-resultsCh:
				results[result.experimentName] = result.result
			}
		}
		printer.Stop()

		// Gather datasets to run comparisons
		datasets := make(map[string][]DataSet)
		analyzerNames := make([]string, 0)
		for name := range c.Analyzers {
			analyzerNames = append(analyzerNames, name)
		}
		experimentNames := make([]string, 0)
		for name, result := range results {
			experimentNames = append(experimentNames, name)
			for _, name := range analyzerNames {
				if _, ok := datasets[name]; !ok {
					datasets[name] = make([]DataSet, 0)
				}
				if result.IsError() {
					datasets[name] = append(datasets[name], nil)
				} else {
					datasets[name] = append(datasets[name], result.Datasets[name])
				}
			}
		}
		for name, c := range c.Comparators {
			select {
			case <-ctx.Done():
				return
			default:
			}
			c.NewComparator(run).Compare(experimentNames, datasets[name])
		}
	}
}
