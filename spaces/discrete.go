package spaces

import (
	"math"
	"time"

	erand "golang.org/x/exp/rand"
)

// Discrete is the space of single-element vectors holding an integer in
// [0, N).
type Discrete struct {
	N int

	rand *erand.Rand
}

var _ Space = &Discrete{}

func NewDiscrete(n int) *Discrete {
	return &Discrete{
		N:    n,
		rand: erand.New(erand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (d *Discrete) Contains(x []float64) bool {
	if len(x) != 1 {
		return false
	}
	v := x[0]
	if v != math.Trunc(v) {
		return false
	}
	return v >= 0 && int(v) < d.N
}

func (d *Discrete) Sample() []float64 {
	return []float64{float64(d.rand.Intn(d.N))}
}

func (d *Discrete) Seed(seed uint64) {
	d.rand = erand.New(erand.NewSource(seed))
}

func (d *Discrete) FlatDim() int {
	return 1
}
