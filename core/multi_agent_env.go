package core

import "github.com/zeu5/multiagent-rl/spaces"

// AgentID identifies an agent within a multi-agent environment.
type AgentID string

// MultiStep is the result of one timestep of a multi-agent environment.
// All maps are keyed by the applicable agent.
type MultiStep struct {
	Observations map[AgentID][]float64
	Rewards      map[AgentID]float64
	Dones        map[AgentID]bool
	Infos        map[AgentID]map[string]interface{}

	// AllDone marks the end of the episode for every agent.
	AllDone bool
}

// MultiAgentEnv is an environment where multiple policies interact
// simultaneously. Agents may come and go as the environment changes, and
// each may have its own action and observation space.
//
// The core API methods Reset and Step act on and return maps indexed by the
// applicable agent. Agents that moved in this turn won't necessarily move in
// the next turn. An agent absent from the observation and reward maps is
// paused until new observations and rewards are returned for it. An agent
// marked done at the end of a turn has dropped out and must take no further
// actions. This accommodates both turn-based and simultaneous-move games.
//
// Agents moving in this step MUST have entries in the done map. Agents that
// should move in the next step MUST have entries in the observation and
// reward maps. The space maps MUST cover every agent active in the
// environment by the time Reset or Step returns.
type MultiAgentEnv interface {
	ActionSpaces() map[AgentID]spaces.Space
	ObservationSpaces() map[AgentID]spaces.Space

	// Reset returns the environment to a clean state. The returned map
	// holds an observation for each agent who should move first.
	Reset() (map[AgentID][]float64, error)

	// Step runs one timestep of the environment with the provided agent
	// actions.
	Step(actions map[AgentID][]float64, sCtx *StepContext) (*MultiStep, error)
}

type MultiAgentEnvConstructor interface {
	// NewMultiAgentEnv creates a new environment with the given instance
	// number.
	NewMultiAgentEnv(int) MultiAgentEnv
}

// MultiAgentEnvFunc adapts a plain constructor function to a
// MultiAgentEnvConstructor.
type MultiAgentEnvFunc func() MultiAgentEnv

func (f MultiAgentEnvFunc) NewMultiAgentEnv(_ int) MultiAgentEnv {
	return f()
}
