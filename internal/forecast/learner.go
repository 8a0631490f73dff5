package forecast

import "math"

// residualDecay is the EWMA factor for per-user one-step residual variance.
// The variance feeds the uncertainty vector and the forecast intervals.
const residualDecay = 0.8

// learner performs the incremental error-correcting update: a single
// gradient step on the one-step prediction error against the newly observed
// state. Updates are guarded: the step is computed into a scratch copy,
// validated for finiteness and magnitude, and committed or discarded as a
// whole. A rejected update leaves the previous parameters untouched.
type learner struct {
	eta    float64
	decay  float64
	maxW   float64
}

func newLearner(cfg Config) learner {
	return learner{
		eta:   cfg.LearningRate,
		decay: cfg.WeightDecay,
		maxW:  cfg.MaxWeight,
	}
}

// update trains p on one transition prev -> observed. It returns the
// committed parameters (p itself when the update is rejected), the one-step
// error vector, and whether the update was applied.
func (l learner) update(p *params, prev, observed [LatentDim]float64) (*params, [LatentDim]float64, bool) {
	predicted := p.step(prev)

	var errVec [LatentDim]float64
	for i := 0; i < LatentDim; i++ {
		e := observed[i] - predicted[i]
		// Clip per-dimension error so a single wild night cannot swing the
		// shared connectivity.
		if e > 1 {
			e = 1
		} else if e < -1 {
			e = -1
		}
		errVec[i] = e
	}

	phi := p.hidden(prev)
	scratch := p.clone()

	for i := 0; i < LatentDim; i++ {
		scratch.A[i] += l.eta * errVec[i] * prev[i]
		for j := 0; j < HiddenUnits; j++ {
			scratch.W[i][j] += l.eta*errVec[i]*phi[j] - l.decay*p.W[i][j]
		}
	}
	for j := 0; j < HiddenUnits; j++ {
		if phi[j] <= 0 {
			continue // unit inactive for this input, no gradient
		}
		g := 0.0
		for i := 0; i < LatentDim; i++ {
			g += errVec[i] * p.W[i][j]
		}
		scratch.Gains[j] += l.eta * g * prev[basisDim(j)]
	}

	if !scratch.valid(l.maxW) {
		return p, errVec, false
	}
	return scratch, errVec, true
}

// updateResidualVariance folds a fresh one-step error into the running
// per-dimension residual variance estimate.
func updateResidualVariance(variance *[LatentDim]float64, errVec [LatentDim]float64) {
	for i := 0; i < LatentDim; i++ {
		e2 := errVec[i] * errVec[i]
		if math.IsNaN(e2) || math.IsInf(e2, 0) {
			continue
		}
		variance[i] = residualDecay*variance[i] + (1-residualDecay)*e2
	}
}
