package spaces

import (
	"fmt"
	"time"

	erand "golang.org/x/exp/rand"
)

// Box is the space of vectors bounded elementwise by Low and High.
type Box struct {
	Low  []float64
	High []float64

	rand *erand.Rand
}

var _ Space = &Box{}

func NewBox(low, high []float64) (*Box, error) {
	if len(low) != len(high) {
		return nil, fmt.Errorf("box bounds differ in length: %d != %d", len(low), len(high))
	}
	for i := range low {
		if low[i] > high[i] {
			return nil, fmt.Errorf("box lower bound exceeds upper bound at %d", i)
		}
	}
	return &Box{
		Low:  low,
		High: high,
		rand: erand.New(erand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

// NewUniformBox returns a Box with the same bounds in every dimension.
func NewUniformBox(low, high float64, dim int) *Box {
	lows := make([]float64, dim)
	highs := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lows[i] = low
		highs[i] = high
	}
	b, _ := NewBox(lows, highs)
	return b
}

func (b *Box) Contains(x []float64) bool {
	if len(x) != len(b.Low) {
		return false
	}
	for i, v := range x {
		if v < b.Low[i] || v > b.High[i] {
			return false
		}
	}
	return true
}

func (b *Box) Sample() []float64 {
	out := make([]float64, len(b.Low))
	for i := range out {
		out[i] = b.Low[i] + b.rand.Float64()*(b.High[i]-b.Low[i])
	}
	return out
}

func (b *Box) Seed(seed uint64) {
	b.rand = erand.New(erand.NewSource(seed))
}

func (b *Box) FlatDim() int {
	return len(b.Low)
}
