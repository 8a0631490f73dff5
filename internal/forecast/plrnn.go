package forecast

import (
	"math"
	"math/rand"
)

// basisThresholds are the fixed breakpoints of the dendritic basis. Hidden
// unit j reads latent dimension j%LatentDim through a learnable gain at
// threshold level j/LatentDim, so the 16 units tile the 5 dimensions with
// piecewise-linear ramps at four offsets. The basis wiring itself is never
// learned; only the gains are. This keeps the model identifiable from a
// handful of nights per user.
var basisThresholds = [4]float64{0, 0.25, 0.5, 0.75}

func basisDim(j int) int {
	return j % LatentDim
}

func basisThreshold(j int) float64 {
	return basisThresholds[j/LatentDim]
}

// params holds the learnable PLRNN connectivity:
//
//	z' = A·z + W·φ(B·z)
//
// A is constrained diagonal (its eigen-spectrum is read directly for
// diagnostics), W maps hidden activity back into the 5 state dimensions, and
// B is the reduced dendritic basis represented by one gain per hidden unit.
type params struct {
	A     [LatentDim]float64
	W     [LatentDim][HiddenUnits]float64
	Gains [HiddenUnits]float64
}

// newParams initializes connectivity deterministically from the seed:
// a near-identity linear part, small random hidden-to-state weights, and
// gains near one.
func newParams(seed int64) *params {
	rng := rand.New(rand.NewSource(seed))

	p := &params{}
	for i := 0; i < LatentDim; i++ {
		p.A[i] = 0.85 + 0.1*rng.Float64()
		for j := 0; j < HiddenUnits; j++ {
			p.W[i][j] = (rng.Float64()*2 - 1) * 0.05
		}
	}
	for j := 0; j < HiddenUnits; j++ {
		p.Gains[j] = 0.8 + 0.4*rng.Float64()
	}
	return p
}

// hidden computes φ(B·z): each unit applies a ReLU ramp to its gained input.
func (p *params) hidden(z [LatentDim]float64) [HiddenUnits]float64 {
	var phi [HiddenUnits]float64
	for j := 0; j < HiddenUnits; j++ {
		h := p.Gains[j]*z[basisDim(j)] - basisThreshold(j)
		if h > 0 {
			phi[j] = h
		}
	}
	return phi
}

// step applies the transition operator once. One step corresponds to one
// night (dt). The returned state is left unclamped; callers bound it for
// rollout or decoding as needed.
func (p *params) step(z [LatentDim]float64) [LatentDim]float64 {
	phi := p.hidden(z)

	var next [LatentDim]float64
	for i := 0; i < LatentDim; i++ {
		v := p.A[i] * z[i]
		for j := 0; j < HiddenUnits; j++ {
			v += p.W[i][j] * phi[j]
		}
		next[i] = v
	}
	return next
}

// clone copies the parameters for guarded scratch updates.
func (p *params) clone() *params {
	cp := *p
	return &cp
}

// valid reports whether every parameter is finite and within maxWeight.
// Updates producing NaN, Inf, or runaway magnitudes are rejected wholesale.
func (p *params) valid(maxWeight float64) bool {
	check := func(v float64) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= maxWeight
	}
	for i := 0; i < LatentDim; i++ {
		if !check(p.A[i]) {
			return false
		}
		for j := 0; j < HiddenUnits; j++ {
			if !check(p.W[i][j]) {
				return false
			}
		}
	}
	for j := 0; j < HiddenUnits; j++ {
		if !check(p.Gains[j]) {
			return false
		}
	}
	return true
}

// boundState keeps a rolled-out latent state in a sane band around the unit
// interval so long rollouts cannot run away.
func boundState(z [LatentDim]float64) [LatentDim]float64 {
	for i := range z {
		if z[i] < -0.25 {
			z[i] = -0.25
		} else if z[i] > 1.25 {
			z[i] = 1.25
		}
	}
	return z
}
