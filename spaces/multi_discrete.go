package spaces

import (
	"math"
	"time"

	erand "golang.org/x/exp/rand"
)

// MultiDiscrete is the space of vectors with one integer per slot, where
// slot i takes values in [0, Nvec[i]).
type MultiDiscrete struct {
	Nvec []int

	rand *erand.Rand
}

var _ Space = &MultiDiscrete{}

func NewMultiDiscrete(nvec []int) *MultiDiscrete {
	return &MultiDiscrete{
		Nvec: nvec,
		rand: erand.New(erand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (m *MultiDiscrete) Contains(x []float64) bool {
	if len(x) != len(m.Nvec) {
		return false
	}
	for i, v := range x {
		if v != math.Trunc(v) {
			return false
		}
		if v < 0 || int(v) >= m.Nvec[i] {
			return false
		}
	}
	return true
}

func (m *MultiDiscrete) Sample() []float64 {
	out := make([]float64, len(m.Nvec))
	for i, n := range m.Nvec {
		out[i] = float64(m.rand.Intn(n))
	}
	return out
}

func (m *MultiDiscrete) Seed(seed uint64) {
	m.rand = erand.New(erand.NewSource(seed))
}

func (m *MultiDiscrete) FlatDim() int {
	return len(m.Nvec)
}
