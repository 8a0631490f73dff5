package forecast

import "github.com/noctalab/sleep-forecast/internal/domain"

// Mapper converts between domain SleepMetrics and the fixed 5-dimensional
// normalized state vector. Each metric is scaled by its configured maximum
// and clamped to [0,1]; decoding is the inverse scaling.
type Mapper struct {
	norm Normalization
}

// NewMapper creates a Mapper for the given normalization maxima.
func NewMapper(norm Normalization) Mapper {
	return Mapper{norm: norm}
}

// ToVector normalizes one night's metrics into the latent dimension order.
// Out-of-range input (e.g. SOL above the configured maximum) clamps rather
// than producing values outside [0,1].
func (m Mapper) ToVector(metrics domain.SleepMetrics, subjectiveQuality float64) [LatentDim]float64 {
	var v [LatentDim]float64
	v[DimSleepEfficiency] = clamp01(metrics.SleepEfficiency / m.norm.MaxSE)
	v[DimSleepOnsetLatency] = clamp01(metrics.SleepOnsetLatency / m.norm.MaxSOL)
	v[DimWakeAfterSleepOnset] = clamp01(metrics.WakeAfterSleepOnset / m.norm.MaxWASO)
	v[DimTotalSleepTime] = clamp01(metrics.TotalSleepTime / m.norm.MaxTST)
	v[DimSleepQuality] = clamp01(subjectiveQuality)
	return v
}

// DecodedMetrics is a state vector decoded back into domain units.
type DecodedMetrics struct {
	SleepEfficiency     float64
	SleepOnsetLatency   float64
	WakeAfterSleepOnset float64
	TotalSleepTime      float64
	SleepQuality        float64
}

// FromVector inverts ToVector. FromVector(ToVector(m)) reproduces m within
// normalization resolution for in-range input.
func (m Mapper) FromVector(state [LatentDim]float64) DecodedMetrics {
	return DecodedMetrics{
		SleepEfficiency:     clamp01(state[DimSleepEfficiency]) * m.norm.MaxSE,
		SleepOnsetLatency:   clamp01(state[DimSleepOnsetLatency]) * m.norm.MaxSOL,
		WakeAfterSleepOnset: clamp01(state[DimWakeAfterSleepOnset]) * m.norm.MaxWASO,
		TotalSleepTime:      clamp01(state[DimTotalSleepTime]) * m.norm.MaxTST,
		SleepQuality:        clamp01(state[DimSleepQuality]),
	}
}

// DimensionScale returns the normalization maximum for a dimension index,
// used to convert interval widths back into domain units.
func (m Mapper) DimensionScale(dim int) float64 {
	switch dim {
	case DimSleepEfficiency:
		return m.norm.MaxSE
	case DimSleepOnsetLatency:
		return m.norm.MaxSOL
	case DimWakeAfterSleepOnset:
		return m.norm.MaxWASO
	case DimTotalSleepTime:
		return m.norm.MaxTST
	default:
		return 1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
