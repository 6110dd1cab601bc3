package core

import "github.com/zeu5/multiagent-rl/util"

// Color is an abstract label for a joint observation.
type Color interface {
	Hash() string
	Copy() Color
}

// A painter that returns a color for the joint observation
type Painter func(map[AgentID][]float64) Color

// A painter that returns a key value pair for the joint observation
// Should be used with ComposedPainter
type KVPainter func(map[AgentID][]float64) (string, interface{})

// ComposedPainter is a painter that is composed of multiple KVPainters
type ComposedPainter struct {
	SegPainters []KVPainter
}

// ComposedColor is a color that is composed of multiple colors
type ComposedColor struct {
	s map[string]interface{}
}

func (s *ComposedColor) Hash() string {
	return util.JsonHash(s.s)
}

func (s *ComposedColor) Copy() Color {
	newMap := make(map[string]interface{})
	for k, v := range s.s {
		newMap[k] = v
	}
	return &ComposedColor{s: newMap}
}

// NewComposedPainter returns a new ComposedPainter with the given KVPainters
func NewComposedPainter(sp ...KVPainter) *ComposedPainter {
	return &ComposedPainter{
		SegPainters: sp,
	}
}

// Painter returns a painter function that returns a ComposedColor
func (c *ComposedPainter) Painter() Painter {
	return func(obs map[AgentID][]float64) Color {
		s := make(map[string]interface{})
		for _, sp := range c.SegPainters {
			k, v := sp(obs)
			s[k] = v
		}
		return &ComposedColor{s: s}
	}
}

// ExactPainter colors each joint observation by its own value.
func ExactPainter() Painter {
	return func(obs map[AgentID][]float64) Color {
		s := make(map[string]interface{})
		for agent, o := range obs {
			s[string(agent)] = util.CopyFloatSlice(o)
		}
		return &ComposedColor{s: s}
	}
}

// AgentPainter colors a joint observation by a single agent's observation.
func AgentPainter(agent AgentID) KVPainter {
	return func(obs map[AgentID][]float64) (string, interface{}) {
		o, ok := obs[agent]
		if !ok {
			return string(agent), nil
		}
		return string(agent), util.CopyFloatSlice(o)
	}
}
