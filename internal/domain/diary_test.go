package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSleepMetrics_DerivedEfficiency(t *testing.T) {
	tests := []struct {
		name    string
		metrics SleepMetrics
		want    float64
	}{
		{
			name:    "typical night",
			metrics: SleepMetrics{TimeInBed: 8, TotalSleepTime: 6.8},
			want:    85,
		},
		{
			name:    "full efficiency",
			metrics: SleepMetrics{TimeInBed: 7, TotalSleepTime: 7},
			want:    100,
		},
		{
			name:    "zero time in bed",
			metrics: SleepMetrics{TimeInBed: 0, TotalSleepTime: 6},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metrics.DerivedEfficiency(); got != tt.want {
				t.Errorf("DerivedEfficiency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSleepMetrics_EfficiencyConsistent(t *testing.T) {
	m := SleepMetrics{TimeInBed: 8, TotalSleepTime: 6.8, SleepEfficiency: 85}
	if !m.EfficiencyConsistent(5) {
		t.Error("exact match reported inconsistent")
	}

	m.SleepEfficiency = 88
	if !m.EfficiencyConsistent(5) {
		t.Error("within tolerance reported inconsistent")
	}

	m.SleepEfficiency = 95
	if m.EfficiencyConsistent(5) {
		t.Error("outside tolerance reported consistent")
	}
}

func TestDiaryEntry_ToHistoryEntry(t *testing.T) {
	entry := DiaryEntry{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Date:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		Metrics: SleepMetrics{
			TimeInBed:       8,
			TotalSleepTime:  6.8,
			SleepEfficiency: 85,
		},
		SubjectiveQuality: 0.7,
	}

	hist := entry.ToHistoryEntry()
	if hist.UserID != entry.UserID {
		t.Errorf("user ID = %v, want %v", hist.UserID, entry.UserID)
	}
	if !hist.Date.Equal(entry.Date) {
		t.Errorf("date = %v, want %v", hist.Date, entry.Date)
	}
	if hist.Metrics.SleepEfficiency != 85 {
		t.Errorf("efficiency = %v, want 85", hist.Metrics.SleepEfficiency)
	}
	if hist.SubjectiveQuality != 0.7 {
		t.Errorf("subjective quality = %v, want 0.7", hist.SubjectiveQuality)
	}
}
