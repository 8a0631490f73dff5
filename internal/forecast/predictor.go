package forecast

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
)

// z95 is the two-sided 95% normal quantile used for forecast intervals.
const z95 = 1.96

// Trend classification thresholds, in sleep efficiency percentage points per
// night of predicted slope.
const (
	improvingSlope = 0.8
	decliningSlope = -0.8
	criticalSlope  = -2.5
)

// buildPrediction rolls the model forward from the user's current latent
// estimate, one step per night, and assembles the full Prediction. Interval
// half-widths grow with the square root of the step count, reflecting
// compounding one-step forecast error; propagated uncertainty never shrinks
// with rollout length.
func (e *Engine) buildPrediction(
	model *params,
	userID uuid.UUID,
	horizon domain.Horizon,
	dur time.Duration,
	start [LatentDim]float64,
	startDate time.Time,
	residualVar [LatentDim]float64,
	hist []domain.HistoryEntry,
) *domain.Prediction {
	steps := int(dur / e.cfg.Dt)

	var residualStd [LatentDim]float64
	for i := 0; i < LatentDim; i++ {
		residualStd[i] = math.Sqrt(residualVar[i])
	}

	trajectory := make([]domain.TrajectoryPoint, 0, steps)
	z := start
	var final [LatentDim]float64
	finalSigmaSE := 0.0

	for k := 1; k <= steps; k++ {
		z = boundState(model.step(z))
		decoded := e.mapper.FromVector(z)

		sigma := residualStd[DimSleepEfficiency] * math.Sqrt(float64(k))
		half := z95 * sigma * e.mapper.DimensionScale(DimSleepEfficiency)

		trajectory = append(trajectory, domain.TrajectoryPoint{
			Date:      startDate.Add(time.Duration(k) * e.cfg.Dt),
			Predicted: round1(decoded.SleepEfficiency),
			Lower95:   round1(clampRange(decoded.SleepEfficiency-half, 0, 100)),
			Upper95:   round1(clampRange(decoded.SleepEfficiency+half, 0, 100)),
		})

		if k == steps {
			final = z
			finalSigmaSE = sigma
		}
	}

	decodedStart := e.mapper.FromVector(start)
	decodedFinal := e.mapper.FromVector(final)

	slope := 0.0
	if steps > 0 {
		slope = (decodedFinal.SleepEfficiency - decodedStart.SleepEfficiency) / float64(steps)
	}

	risk := deteriorationRisk(slope, finalSigmaSE)
	trend := classifyTrend(slope, risk)
	warnings := e.detectWarnings(hist, trajectory)

	seHalf := z95 * finalSigmaSE * e.mapper.DimensionScale(DimSleepEfficiency)
	seValue := decodedFinal.SleepEfficiency

	return &domain.Prediction{
		UserID:     userID,
		Horizon:    horizon,
		HoursAhead: int(dur / time.Hour),
		PredictedSleepEfficiency: domain.PredictedValue{
			Value:      round1(seValue),
			Confidence: confidenceFrom(finalSigmaSE),
			Lower95:    round1(clampRange(seValue-seHalf, 0, 100)),
			Upper95:    round1(clampRange(seValue+seHalf, 0, 100)),
		},
		PredictedMetrics: domain.PredictedMetrics{
			SleepOnsetLatency:   round1(decodedFinal.SleepOnsetLatency),
			WakeAfterSleepOnset: round1(decodedFinal.WakeAfterSleepOnset),
			TotalSleepTime:      round2(decodedFinal.TotalSleepTime),
			SleepQuality:        round2(decodedFinal.SleepQuality),
		},
		SleepEfficiencyTrajectory: trajectory,
		Trend:                     trend,
		DeteriorationRisk:         risk,
		EarlyWarnings:             warnings,
		Recommendations:           recommendationsFor(trend, maxSeverity(warnings)),
		GeneratedAt:               time.Now().UTC(),
	}
}

// deteriorationRisk combines decline steepness with forecast variance,
// normalized to [0,1]. A slope of -5 SE points per night saturates the
// slope component; a normalized forecast std of 0.3 saturates the variance
// component.
func deteriorationRisk(slope, sigmaSE float64) float64 {
	slopeComponent := clamp01(-slope / 5)
	varComponent := clamp01(sigmaSE / 0.3)
	return round2(clamp01(0.6*slopeComponent + 0.4*varComponent))
}

// classifyTrend derives the trend from the predicted SE slope and the
// combined deterioration risk.
func classifyTrend(slope, risk float64) domain.Trend {
	switch {
	case slope <= criticalSlope, slope <= decliningSlope && risk >= 0.7:
		return domain.TrendCritical
	case slope <= decliningSlope:
		return domain.TrendDeclining
	case slope >= improvingSlope:
		return domain.TrendImproving
	default:
		return domain.TrendStable
	}
}

// confidenceFrom maps the final normalized forecast std into a [0,1]
// confidence score.
func confidenceFrom(sigmaSE float64) float64 {
	return round2(clamp01(1 - 2*sigmaSE))
}

func maxSeverity(warnings []domain.EarlyWarning) domain.WarningSeverity {
	rank := map[domain.WarningSeverity]int{
		domain.SeverityLow:      1,
		domain.SeverityModerate: 2,
		domain.SeverityHigh:     3,
		domain.SeverityCritical: 4,
	}
	var top domain.WarningSeverity
	best := 0
	for _, w := range warnings {
		if r := rank[w.Severity]; r > best {
			best = r
			top = w.Severity
		}
	}
	return top
}

// recommendationsFor is a declarative lookup keyed by trend and the highest
// triggered warning severity. No algorithm here on purpose.
func recommendationsFor(trend domain.Trend, severity domain.WarningSeverity) []string {
	recs := make([]string, 0, 4)

	switch trend {
	case domain.TrendImproving:
		recs = append(recs,
			"Your sleep is trending upward. Keep your current bedtime and wake time.",
			"Maintain the wind-down routine that has been working for you.")
	case domain.TrendStable:
		recs = append(recs,
			"Your sleep is holding steady. Consistency in bed and wake times will protect it.",
			"If you want to improve further, reduce time in bed spent awake.")
	case domain.TrendDeclining:
		recs = append(recs,
			"Your sleep efficiency is forecast to decline. Tighten your sleep window: go to bed only when sleepy.",
			"Avoid extending time in bed to compensate; it usually lowers efficiency further.",
			"Keep a fixed wake time for the next week, including weekends.")
	case domain.TrendCritical:
		recs = append(recs,
			"A substantial decline in sleep quality is forecast. Consider reviewing recent changes in routine, stress, or substances.",
			"Apply stimulus control strictly: out of bed if awake for more than 20 minutes.",
			"If this trend persists for another week, discuss it with your care provider.")
	}

	switch severity {
	case domain.SeverityHigh, domain.SeverityCritical:
		recs = append(recs, "Recent nights show marked deterioration; prioritize a stable schedule over everything else this week.")
	case domain.SeverityModerate:
		recs = append(recs, "Some recent nights drifted from your baseline; a regular wind-down hour should help.")
	}

	return recs
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
