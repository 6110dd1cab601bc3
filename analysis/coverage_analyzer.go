package analysis

import (
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/util"
)

type coverageDataset struct {
	Timesteps    []int
	UniqueStates []int
}

func (c *coverageDataset) Copy() *coverageDataset {
	return &coverageDataset{
		Timesteps:    util.CopyIntSlice(c.Timesteps),
		UniqueStates: util.CopyIntSlice(c.UniqueStates),
	}
}

// CoverageAnalyzer counts the unique abstract states visited over time. A
// painter maps each joint observation to a color; two observations with
// the same color count as the same state.
type CoverageAnalyzer struct {
	painter core.Painter
	states  map[string]bool
	dataset *coverageDataset
}

var _ core.Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer(painter core.Painter) *CoverageAnalyzer {
	return &CoverageAnalyzer{
		painter: painter,
		states:  make(map[string]bool),
		dataset: &coverageDataset{
			Timesteps:    make([]int, 0),
			UniqueStates: make([]int, 0),
		},
	}
}

func (c *CoverageAnalyzer) Reset() {
	c.states = make(map[string]bool)
	c.dataset = &coverageDataset{
		Timesteps:    make([]int, 0),
		UniqueStates: make([]int, 0),
	}
}

func (c *CoverageAnalyzer) Analyze(_ *core.EpisodeContext, trace *core.Trace) {
	for i := 0; i < trace.Len(); i++ {
		step := trace.Step(i)
		c.states[c.painter(step.Observations).Hash()] = true
	}
	lastTimeStep := 0
	if len(c.dataset.Timesteps) > 0 {
		lastTimeStep = c.dataset.Timesteps[len(c.dataset.Timesteps)-1]
	}
	c.dataset.Timesteps = append(c.dataset.Timesteps, lastTimeStep+trace.Len())
	c.dataset.UniqueStates = append(c.dataset.UniqueStates, len(c.states))
}

func (c *CoverageAnalyzer) DataSet() core.DataSet {
	return c.dataset.Copy()
}

type CoverageAnalyzerConstructor struct {
	painter core.Painter
}

var _ core.AnalyzerConstructor = &CoverageAnalyzerConstructor{}

func NewCoverageAnalyzerConstructor(painter core.Painter) *CoverageAnalyzerConstructor {
	return &CoverageAnalyzerConstructor{
		painter: painter,
	}
}

func (c *CoverageAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewCoverageAnalyzer(c.painter)
}
