// Package forecast implements the sleep-metric forecasting engine: a
// per-user piecewise-linear recurrent neural network (PLRNN) over a fixed
// 5-dimensional sleep state, with online learning, multi-horizon prediction,
// early-warning detection, and model introspection.
package forecast

import (
	"fmt"
	"time"

	"github.com/noctalab/sleep-forecast/internal/domain"
)

// LatentDim is the number of sleep-state dimensions. The engine's whole data
// flow relies on the fixed dimension order in DimensionNames; it must never
// be reindexed.
const LatentDim = 5

// HiddenUnits is the number of piecewise-linear hidden units.
const HiddenUnits = 16

// Dimension indices, in the fixed order the engine relies on.
const (
	DimSleepEfficiency = iota
	DimSleepOnsetLatency
	DimWakeAfterSleepOnset
	DimTotalSleepTime
	DimSleepQuality
)

// DimensionNames maps dimension index to its stable identifier.
var DimensionNames = [LatentDim]string{
	"sleepEfficiency",
	"sleepOnsetLatency",
	"wakeAfterSleepOnset",
	"totalSleepTime",
	"sleepQuality",
}

// Normalization holds the fixed maxima used to scale raw metrics into [0,1].
type Normalization struct {
	MaxSE   float64 // sleep efficiency, percent
	MaxSOL  float64 // sleep onset latency, minutes
	MaxWASO float64 // wake after sleep onset, minutes
	MaxTST  float64 // total sleep time, hours
}

// EarlyWarningThresholds configures the deterioration detector.
type EarlyWarningThresholds struct {
	// SEDropThreshold is the trailing sleep efficiency drop, in percentage
	// points, that triggers an efficiency_drop warning.
	SEDropThreshold float64
	// SOLIncreaseThreshold is the trailing onset latency increase in minutes.
	SOLIncreaseThreshold float64
	// WASOIncreaseThreshold is the trailing WASO increase in minutes.
	WASOIncreaseThreshold float64
	// VarianceThreshold is the rolling-to-baseline variance ratio that flags
	// instability.
	VarianceThreshold float64
}

// Horizons holds the three fixed forecast distances.
type Horizons struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Config configures the forecasting engine. Zero values are invalid; use
// DefaultConfig and override as needed.
type Config struct {
	// Dt is the duration of one model step (one night).
	Dt time.Duration
	// PredictionHorizon is the maximum rollout length in nights.
	PredictionHorizon int
	// MinHistoryEntries is the number of observed nights required before
	// predictions are produced.
	MinHistoryEntries int
	// Seed makes weight initialization deterministic.
	Seed int64
	// LearningRate for the online gradient step.
	LearningRate float64
	// WeightDecay is the L2 shrinkage applied during online updates.
	WeightDecay float64
	// MaxWeight bounds parameter magnitude; updates exceeding it are rejected.
	MaxWeight float64

	Normalization Normalization
	EarlyWarning  EarlyWarningThresholds
	Horizons      Horizons
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Dt:                24 * time.Hour,
		PredictionHorizon: 7,
		MinHistoryEntries: 3,
		Seed:              42,
		LearningRate:      0.05,
		WeightDecay:       1e-3,
		MaxWeight:         10,
		Normalization: Normalization{
			MaxSE:   100,
			MaxSOL:  120,
			MaxWASO: 180,
			MaxTST:  12,
		},
		EarlyWarning: EarlyWarningThresholds{
			SEDropThreshold:       10,
			SOLIncreaseThreshold:  15,
			WASOIncreaseThreshold: 20,
			VarianceThreshold:     1.5,
		},
		Horizons: Horizons{
			Short:  24 * time.Hour,
			Medium: 72 * time.Hour,
			Long:   168 * time.Hour,
		},
	}
}

// Validate fails fast on configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive", domain.ErrInvalidConfig)
	}
	if c.MinHistoryEntries <= 0 {
		return fmt.Errorf("%w: minHistoryEntries must be positive", domain.ErrInvalidConfig)
	}
	if c.PredictionHorizon <= 0 {
		return fmt.Errorf("%w: predictionHorizon must be positive", domain.ErrInvalidConfig)
	}
	if c.LearningRate <= 0 || c.LearningRate >= 1 {
		return fmt.Errorf("%w: learningRate must be in (0,1)", domain.ErrInvalidConfig)
	}
	if c.MaxWeight <= 0 {
		return fmt.Errorf("%w: maxWeight must be positive", domain.ErrInvalidConfig)
	}
	n := c.Normalization
	if n.MaxSE <= 0 || n.MaxSOL <= 0 || n.MaxWASO <= 0 || n.MaxTST <= 0 {
		return fmt.Errorf("%w: normalization maxima must be positive", domain.ErrInvalidConfig)
	}
	if c.EarlyWarning.VarianceThreshold <= 0 {
		return fmt.Errorf("%w: varianceThreshold must be positive", domain.ErrInvalidConfig)
	}
	for _, h := range []time.Duration{c.Horizons.Short, c.Horizons.Medium, c.Horizons.Long} {
		if h < c.Dt {
			return fmt.Errorf("%w: horizon %s is shorter than dt", domain.ErrInvalidConfig, h)
		}
		if h%c.Dt != 0 {
			return fmt.Errorf("%w: horizon %s is not a whole number of steps", domain.ErrInvalidConfig, h)
		}
	}
	return nil
}

// HorizonDuration resolves a horizon key to its configured duration.
// Unknown keys return false.
func (c Config) HorizonDuration(h domain.Horizon) (time.Duration, bool) {
	switch h {
	case domain.HorizonShort:
		return c.Horizons.Short, true
	case domain.HorizonMedium:
		return c.Horizons.Medium, true
	case domain.HorizonLong:
		return c.Horizons.Long, true
	default:
		return 0, false
	}
}
