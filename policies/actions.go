package policies

import (
	"github.com/zeu5/multiagent-rl/spaces"
	"github.com/zeu5/multiagent-rl/util"
)

// enumerateActions lists every member of a finite action space along with
// its hash. The second return is false for spaces that cannot be
// enumerated, such as Box.
func enumerateActions(space spaces.Space) ([][]float64, []string, bool) {
	var actions [][]float64
	switch sp := space.(type) {
	case *spaces.Discrete:
		actions = make([][]float64, sp.N)
		for i := 0; i < sp.N; i++ {
			actions[i] = []float64{float64(i)}
		}
	case *spaces.MultiDiscrete:
		actions = [][]float64{{}}
		for _, n := range sp.Nvec {
			next := make([][]float64, 0, len(actions)*n)
			for _, prefix := range actions {
				for v := 0; v < n; v++ {
					action := make([]float64, len(prefix)+1)
					copy(action, prefix)
					action[len(prefix)] = float64(v)
					next = append(next, action)
				}
			}
			actions = next
		}
	default:
		return nil, nil, false
	}

	hashes := make([]string, len(actions))
	for i, a := range actions {
		hashes[i] = util.JsonHash(a)
	}
	return actions, hashes, true
}
