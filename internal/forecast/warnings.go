package forecast

import (
	"fmt"

	"github.com/noctalab/sleep-forecast/internal/domain"
)

// warningWindow is the number of trailing nights inspected by the detector.
const warningWindow = 7

// minWarningEntries is the smallest window that still allows a baseline /
// recent split.
const minWarningEntries = 4

// detectWarnings applies the threshold and variance rules to the trailing
// window of actual history, and secondarily to the forecast trajectory. The
// result is always a non-nil slice; no warnings means an empty list.
func (e *Engine) detectWarnings(hist []domain.HistoryEntry, trajectory []domain.TrajectoryPoint) []domain.EarlyWarning {
	warnings := make([]domain.EarlyWarning, 0, 4)

	window := hist
	if len(window) > warningWindow {
		window = window[len(window)-warningWindow:]
	}
	if len(window) < minWarningEntries {
		return warnings
	}

	half := len(window) / 2
	baseline := window[:half]
	recent := window[half:]

	t := e.cfg.EarlyWarning

	seBase := meanOf(baseline, func(h domain.HistoryEntry) float64 { return h.Metrics.SleepEfficiency })
	seRecent := meanOf(recent, func(h domain.HistoryEntry) float64 { return h.Metrics.SleepEfficiency })
	if drop := seBase - seRecent; drop >= t.SEDropThreshold {
		warnings = append(warnings, domain.EarlyWarning{
			Type:      domain.WarningEfficiencyDrop,
			Metric:    DimensionNames[DimSleepEfficiency],
			Severity:  severityForRatio(drop / t.SEDropThreshold),
			MessageRu: fmt.Sprintf("Эффективность сна снизилась на %.0f%% за последние ночи", drop),
			MessageEn: fmt.Sprintf("Sleep efficiency dropped by %.0f points over recent nights", drop),
		})
	}

	solBase := meanOf(baseline, func(h domain.HistoryEntry) float64 { return h.Metrics.SleepOnsetLatency })
	solRecent := meanOf(recent, func(h domain.HistoryEntry) float64 { return h.Metrics.SleepOnsetLatency })
	if inc := solRecent - solBase; inc >= t.SOLIncreaseThreshold {
		warnings = append(warnings, domain.EarlyWarning{
			Type:      domain.WarningSOLIncrease,
			Metric:    DimensionNames[DimSleepOnsetLatency],
			Severity:  severityForRatio(inc / t.SOLIncreaseThreshold),
			MessageRu: fmt.Sprintf("Время засыпания увеличилось на %.0f минут", inc),
			MessageEn: fmt.Sprintf("Sleep onset latency increased by %.0f minutes", inc),
		})
	}

	wasoBase := meanOf(baseline, func(h domain.HistoryEntry) float64 { return h.Metrics.WakeAfterSleepOnset })
	wasoRecent := meanOf(recent, func(h domain.HistoryEntry) float64 { return h.Metrics.WakeAfterSleepOnset })
	if inc := wasoRecent - wasoBase; inc >= t.WASOIncreaseThreshold {
		warnings = append(warnings, domain.EarlyWarning{
			Type:      domain.WarningWASOIncrease,
			Metric:    DimensionNames[DimWakeAfterSleepOnset],
			Severity:  severityForRatio(inc / t.WASOIncreaseThreshold),
			MessageRu: fmt.Sprintf("Ночные пробуждения удлинились на %.0f минут", inc),
			MessageEn: fmt.Sprintf("Wake after sleep onset increased by %.0f minutes", inc),
		})
	}

	// Instability: rolling variance of recent nights against the baseline
	// variance. A noisy signal often precedes a sustained drop.
	seBaseVar := varianceOf(baseline, seBase, func(h domain.HistoryEntry) float64 { return h.Metrics.SleepEfficiency })
	seRecentVar := varianceOf(recent, seRecent, func(h domain.HistoryEntry) float64 { return h.Metrics.SleepEfficiency })
	if seBaseVar > 0 && seRecentVar/seBaseVar >= t.VarianceThreshold {
		warnings = append(warnings, domain.EarlyWarning{
			Type:      domain.WarningInstability,
			Metric:    DimensionNames[DimSleepEfficiency],
			Severity:  severityForRatio(seRecentVar / seBaseVar / t.VarianceThreshold),
			MessageRu: "Сон стал заметно менее стабильным от ночи к ночи",
			MessageEn: "Night-to-night sleep stability has noticeably decreased",
		})
	}

	// Secondary check on the forecast path: a projected drop of threshold
	// size that the trailing history has not shown yet.
	if len(trajectory) >= 2 {
		projected := trajectory[0].Predicted - trajectory[len(trajectory)-1].Predicted
		if projected >= t.SEDropThreshold && seBase-seRecent < t.SEDropThreshold {
			warnings = append(warnings, domain.EarlyWarning{
				Type:      domain.WarningEfficiencyDrop,
				Metric:    DimensionNames[DimSleepEfficiency],
				Severity:  domain.SeverityLow,
				MessageRu: fmt.Sprintf("Прогноз указывает на снижение эффективности сна на %.0f%%", projected),
				MessageEn: fmt.Sprintf("Forecast projects a %.0f point decline in sleep efficiency", projected),
			})
		}
	}

	return warnings
}

// severityForRatio tiers how far past its threshold a rule fired.
func severityForRatio(ratio float64) domain.WarningSeverity {
	switch {
	case ratio >= 2.5:
		return domain.SeverityCritical
	case ratio >= 1.75:
		return domain.SeverityHigh
	case ratio >= 1.25:
		return domain.SeverityModerate
	default:
		return domain.SeverityLow
	}
}

func meanOf(entries []domain.HistoryEntry, f func(domain.HistoryEntry) float64) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += f(e)
	}
	return sum / float64(len(entries))
}

func varianceOf(entries []domain.HistoryEntry, mean float64, f func(domain.HistoryEntry) float64) float64 {
	if len(entries) < 2 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		d := f(e) - mean
		sum += d * d
	}
	return sum / float64(len(entries)-1)
}
