package forecast

import "github.com/noctalab/sleep-forecast/internal/domain"

// edgeThreshold zeroes out small connectivity weights when reading the
// causal graph, for sparsity and readability.
const edgeThreshold = 0.05

// nearZeroWeight is the magnitude below which a connectivity weight counts
// as inactive for the sparsity diagnostic.
const nearZeroWeight = 0.01

// ExtractCausalNetwork reads the learned connectivity as a directed weighted
// graph over the five named sleep dimensions. The influence of dimension i
// on dimension k is the summed pathway weight through every hidden unit
// whose basis reads dimension i; diagonal entries of A appear as self-edges.
// This is read-only introspection of global model parameters, independent of
// any one user's history.
func (e *Engine) ExtractCausalNetwork() domain.CausalNetwork {
	e.ensureInit()
	model := e.snapshotModel()

	nodes := make([]string, LatentDim)
	copy(nodes, DimensionNames[:])

	edges := make([]domain.CausalEdge, 0, LatentDim*LatentDim)

	// Cross-dimension pathways through the hidden layer.
	var influence [LatentDim][LatentDim]float64
	for j := 0; j < HiddenUnits; j++ {
		from := basisDim(j)
		for k := 0; k < LatentDim; k++ {
			influence[from][k] += model.W[k][j] * model.Gains[j]
		}
	}

	for from := 0; from < LatentDim; from++ {
		for to := 0; to < LatentDim; to++ {
			w := influence[from][to]
			if from == to {
				w += model.A[from]
			}
			if w > -edgeThreshold && w < edgeThreshold {
				continue
			}
			edges = append(edges, domain.CausalEdge{
				From:   DimensionNames[from],
				To:     DimensionNames[to],
				Weight: round3(w),
			})
		}
	}

	return domain.CausalNetwork{Nodes: nodes, Edges: edges}
}

// ComplexityMetrics reports model-health diagnostics: the participation
// ratio over the eigen-spectrum of the linear part A (how many latent modes
// are meaningfully active) and the fraction of near-zero connectivity
// weights. With as few as three nights per user, a degenerate or overfit
// model shows up here before it shows up in forecasts.
func (e *Engine) ComplexityMetrics() domain.ComplexityMetrics {
	e.ensureInit()
	model := e.snapshotModel()

	// A is diagonal, so its eigenvalues are the diagonal itself.
	sumSq := 0.0
	sumQuad := 0.0
	for i := 0; i < LatentDim; i++ {
		l2 := model.A[i] * model.A[i]
		sumSq += l2
		sumQuad += l2 * l2
	}
	effDim := 0.0
	if sumQuad > 0 {
		effDim = sumSq * sumSq / sumQuad
	}

	nearZero := 0
	total := 0
	for i := 0; i < LatentDim; i++ {
		for j := 0; j < HiddenUnits; j++ {
			total++
			if model.W[i][j] > -nearZeroWeight && model.W[i][j] < nearZeroWeight {
				nearZero++
			}
		}
	}
	for j := 0; j < HiddenUnits; j++ {
		total++
		if model.Gains[j] > -nearZeroWeight && model.Gains[j] < nearZeroWeight {
			nearZero++
		}
	}

	return domain.ComplexityMetrics{
		EffectiveDimensionality: round2(effDim),
		Sparsity:                round2(float64(nearZero) / float64(total)),
	}
}

func round3(v float64) float64 {
	const s = 1000
	if v >= 0 {
		return float64(int(v*s+0.5)) / s
	}
	return float64(int(v*s-0.5)) / s
}
