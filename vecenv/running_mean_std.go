package vecenv

import "github.com/zeu5/multiagent-rl/util"

// RunningMeanStd tracks a streaming estimate of the per-dimension mean and
// variance of a stream of vectors using the parallel variance update, so
// whole batches can be folded in at once.
type RunningMeanStd struct {
	Mean  []float64
	Var   []float64
	Count float64
}

// NewRunningMeanStd returns an estimator for dim-dimensional vectors. The
// initial pseudo-count keeps the first update well conditioned.
func NewRunningMeanStd(dim int, epsilon float64) *RunningMeanStd {
	mean := make([]float64, dim)
	variance := make([]float64, dim)
	for i := range variance {
		variance[i] = 1
	}
	return &RunningMeanStd{
		Mean:  mean,
		Var:   variance,
		Count: epsilon,
	}
}

// Update folds a batch of vectors into the running estimate.
func (r *RunningMeanStd) Update(batch [][]float64) {
	if len(batch) == 0 {
		return
	}
	dim := len(r.Mean)
	batchMean := make([]float64, dim)
	batchVar := make([]float64, dim)
	n := float64(len(batch))
	for _, x := range batch {
		for i := 0; i < dim; i++ {
			batchMean[i] += x[i] / n
		}
	}
	for _, x := range batch {
		for i := 0; i < dim; i++ {
			d := x[i] - batchMean[i]
			batchVar[i] += d * d / n
		}
	}
	r.UpdateFromMoments(batchMean, batchVar, n)
}

// UpdateFromMoments merges precomputed batch moments into the running
// estimate (Chan et al. parallel variance).
func (r *RunningMeanStd) UpdateFromMoments(batchMean, batchVar []float64, batchCount float64) {
	total := r.Count + batchCount
	for i := range r.Mean {
		delta := batchMean[i] - r.Mean[i]
		mA := r.Var[i] * r.Count
		mB := batchVar[i] * batchCount
		m2 := mA + mB + delta*delta*r.Count*batchCount/total
		r.Mean[i] += delta * batchCount / total
		r.Var[i] = m2 / total
	}
	r.Count = total
}

// Copy returns a deep copy of the estimator.
func (r *RunningMeanStd) Copy() *RunningMeanStd {
	return &RunningMeanStd{
		Mean:  util.CopyFloatSlice(r.Mean),
		Var:   util.CopyFloatSlice(r.Var),
		Count: r.Count,
	}
}
