package domain

import (
	"time"

	"github.com/google/uuid"
)

// Horizon identifies a fixed forecast distance.
// @Description Forecast horizon: short (24h), medium (72h), or long (168h).
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
	HorizonLong   Horizon = "long"
)

// Trend classifies the predicted sleep efficiency trajectory.
// @Description Direction of the forecast sleep efficiency trajectory.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	TrendCritical  Trend = "critical"
)

// WarningSeverity tiers an early-warning signal.
type WarningSeverity string

const (
	SeverityLow      WarningSeverity = "low"
	SeverityModerate WarningSeverity = "moderate"
	SeverityHigh     WarningSeverity = "high"
	SeverityCritical WarningSeverity = "critical"
)

// WarningType names the rule that triggered an early-warning signal.
type WarningType string

const (
	WarningEfficiencyDrop WarningType = "efficiency_drop"
	WarningSOLIncrease    WarningType = "sol_increase"
	WarningWASOIncrease   WarningType = "waso_increase"
	WarningInstability    WarningType = "instability"
)

// EarlyWarning is one triggered deterioration signal with localized messages.
// @Description Threshold or variance based early-warning signal.
type EarlyWarning struct {
	Type     WarningType     `json:"type" example:"efficiency_drop"`
	Metric   string          `json:"metric" example:"sleepEfficiency"`
	Severity WarningSeverity `json:"severity" example:"moderate"`
	// Message in Russian
	MessageRu string `json:"message_ru"`
	// Message in English
	MessageEn string `json:"message_en"`
}

// PredictedValue is a point forecast with its 95% interval and a confidence
// score in [0,1]. Invariant: Lower95 <= Value <= Upper95.
// @Description Forecast value with confidence and 95% interval.
type PredictedValue struct {
	Value      float64 `json:"value" example:"82.5"`
	Confidence float64 `json:"confidence" example:"0.74"`
	Lower95    float64 `json:"lower_95" example:"71.2"`
	Upper95    float64 `json:"upper_95" example:"93.8"`
}

// PredictedMetrics holds the secondary metric forecasts at the horizon.
// @Description Forecast values for the non-efficiency sleep dimensions.
type PredictedMetrics struct {
	// Sleep onset latency in minutes
	SleepOnsetLatency float64 `json:"sleep_onset_latency" example:"22.4"`
	// Wake after sleep onset in minutes
	WakeAfterSleepOnset float64 `json:"wake_after_sleep_onset" example:"31.0"`
	// Total sleep time in hours
	TotalSleepTime float64 `json:"total_sleep_time" example:"6.9"`
	// Subjective sleep quality in [0,1]
	SleepQuality float64 `json:"sleep_quality" example:"0.68"`
}

// TrajectoryPoint is one simulated night on the forecast path.
// @Description One night of the simulated sleep efficiency trajectory.
type TrajectoryPoint struct {
	Date      time.Time `json:"date" example:"2024-01-17T00:00:00Z"`
	Predicted float64   `json:"predicted" example:"83.1"`
	Lower95   float64   `json:"lower_95" example:"74.0"`
	Upper95   float64   `json:"upper_95" example:"92.2"`
}

// Prediction is a multi-horizon forecast for one user.
// @Description Multi-horizon sleep forecast with risk and warnings.
type Prediction struct {
	UserID                   uuid.UUID         `json:"user_id"`
	Horizon                  Horizon           `json:"horizon" example:"medium"`
	HoursAhead               int               `json:"hours_ahead" example:"72"`
	PredictedSleepEfficiency PredictedValue    `json:"predicted_sleep_efficiency"`
	PredictedMetrics         PredictedMetrics  `json:"predicted_metrics"`
	SleepEfficiencyTrajectory []TrajectoryPoint `json:"sleep_efficiency_trajectory"`
	Trend                    Trend             `json:"trend" example:"stable"`
	DeteriorationRisk        float64           `json:"deterioration_risk" example:"0.18"`
	EarlyWarnings            []EarlyWarning    `json:"early_warnings"`
	Recommendations          []string          `json:"recommendations"`
	GeneratedAt              time.Time         `json:"generated_at"`
}

// LatentState is a snapshot of the model's estimated state for one user.
// The five latent/observed dimensions map, in fixed order, to
// [sleepEfficiency, sleepOnsetLatency, wakeAfterSleepOnset, totalSleepTime,
// sleepQuality], each normalized to roughly [0,1].
// @Description Current model state estimate for a user.
type LatentState struct {
	LatentState       []float64 `json:"latent_state"`
	ObservedState     []float64 `json:"observed_state"`
	HiddenActivations []float64 `json:"hidden_activations"`
	Uncertainty       []float64 `json:"uncertainty"`
	Timestep          int       `json:"timestep" example:"12"`
}

// CausalEdge is one directed weighted influence between sleep dimensions.
// @Description Directed weighted edge of the causal network.
type CausalEdge struct {
	From   string  `json:"from" example:"sleepOnsetLatency"`
	To     string  `json:"to" example:"sleepEfficiency"`
	Weight float64 `json:"weight" example:"-0.31"`
}

// CausalNetwork is the learned connectivity read as a directed graph over the
// five named sleep dimensions. Independent of any one user's history.
// @Description Directed weighted graph over sleep dimensions.
type CausalNetwork struct {
	Nodes []string     `json:"nodes"`
	Edges []CausalEdge `json:"edges"`
}

// ComplexityMetrics are model-health diagnostics.
// @Description Effective dimensionality and sparsity of the learned model.
type ComplexityMetrics struct {
	// Participation ratio over the eigen-spectrum of the linear part
	EffectiveDimensionality float64 `json:"effective_dimensionality" example:"3.4"`
	// Fraction of near-zero connectivity weights
	Sparsity float64 `json:"sparsity" example:"0.45"`
}

// EngineStats summarizes the engine's tracked population.
// @Description Engine-wide history statistics.
type EngineStats struct {
	UsersTracked int `json:"users_tracked" example:"12"`
	TotalEntries int `json:"total_entries" example:"340"`
}

// ForecastResponse wraps a prediction for the HTTP surface. Ready is false
// when the user has fewer than the minimum required history entries; in that
// case Prediction is null and Required/Available explain what is missing.
// @Description Forecast response; insufficient history is a normal outcome, not an error.
type ForecastResponse struct {
	Ready      bool        `json:"ready" example:"true"`
	Required   int         `json:"required,omitempty" example:"3"`
	Available  int         `json:"available,omitempty" example:"1"`
	Prediction *Prediction `json:"prediction,omitempty"`
}

// ForecastInsightsOutput contains the structured narrative from the LLM.
// @Description LLM-generated narrative over a forecast.
type ForecastInsightsOutput struct {
	// Summary of the forecast (2-3 sentences)
	Summary string `json:"summary" example:"Your sleep efficiency is forecast to hold steady near 84% over the next three nights..."`
	// Observations about the forecast and recent nights (3-6 items)
	Observations []string `json:"observations"`
	// Actionable guidance (3-5 items)
	Guidance []string `json:"guidance"`
}

// ForecastInsightsContext is the context object sent to the LLM.
// @Description Context data for LLM forecast narration.
type ForecastInsightsContext struct {
	Prediction    Prediction     `json:"prediction"`
	RecentEntries []HistoryEntry `json:"recent_entries"`
}

// ForecastInsightsResponse is the response for the forecast insights endpoint.
// @Description Forecast plus LLM narrative.
type ForecastInsightsResponse struct {
	Prediction Prediction             `json:"prediction"`
	Insights   ForecastInsightsOutput `json:"insights"`
	// Trace ID for feedback (only present when Langfuse is enabled)
	TraceID string `json:"trace_id,omitempty"`
}
