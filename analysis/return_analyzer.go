package analysis

import (
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/util"
)

// ReturnDataset holds per-agent episode returns in episode order.
type ReturnDataset struct {
	Episodes []int
	Returns  map[core.AgentID][]float64
}

func (r *ReturnDataset) Copy() *ReturnDataset {
	out := &ReturnDataset{
		Episodes: util.CopyIntSlice(r.Episodes),
		Returns:  make(map[core.AgentID][]float64),
	}
	for agent, returns := range r.Returns {
		out.Returns[agent] = util.CopyFloatSlice(returns)
	}
	return out
}

// ReturnAnalyzer records the undiscounted return of each agent per episode.
type ReturnAnalyzer struct {
	agents  []core.AgentID
	dataset *ReturnDataset
}

var _ core.Analyzer = &ReturnAnalyzer{}

func NewReturnAnalyzer(agents ...core.AgentID) *ReturnAnalyzer {
	return &ReturnAnalyzer{
		agents: agents,
		dataset: &ReturnDataset{
			Episodes: make([]int, 0),
			Returns:  make(map[core.AgentID][]float64),
		},
	}
}

func (r *ReturnAnalyzer) Reset() {
	r.dataset = &ReturnDataset{
		Episodes: make([]int, 0),
		Returns:  make(map[core.AgentID][]float64),
	}
}

func (r *ReturnAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	r.dataset.Episodes = append(r.dataset.Episodes, eCtx.Episode)
	for _, agent := range r.agents {
		r.dataset.Returns[agent] = append(r.dataset.Returns[agent], trace.Return(agent))
	}
}

func (r *ReturnAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

type ReturnAnalyzerConstructor struct {
	agents []core.AgentID
}

var _ core.AnalyzerConstructor = &ReturnAnalyzerConstructor{}

func NewReturnAnalyzerConstructor(agents ...core.AgentID) *ReturnAnalyzerConstructor {
	return &ReturnAnalyzerConstructor{
		agents: agents,
	}
}

func (r *ReturnAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewReturnAnalyzer(r.agents...)
}
