package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/noctalab/sleep-forecast/internal/langfuse"
)

// MockDiaryService is a mock implementation of DiaryService
type MockDiaryService struct {
	createFunc func(ctx context.Context, userID uuid.UUID, req *domain.CreateDiaryEntryRequest) (*domain.DiaryEntry, bool, error)
	listFunc   func(ctx context.Context, userID uuid.UUID, filter domain.DiaryEntryFilter) (*domain.DiaryEntryListResponse, error)
}

func (m *MockDiaryService) Create(ctx context.Context, userID uuid.UUID, req *domain.CreateDiaryEntryRequest) (*domain.DiaryEntry, bool, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, req)
	}
	return &domain.DiaryEntry{
		ID:                uuid.New(),
		UserID:            userID,
		Date:              req.Date,
		Metrics:           req.Metrics,
		SubjectiveQuality: req.SubjectiveQuality,
		CreatedAt:         time.Now(),
	}, false, nil
}

func (m *MockDiaryService) List(ctx context.Context, userID uuid.UUID, filter domain.DiaryEntryFilter) (*domain.DiaryEntryListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return &domain.DiaryEntryListResponse{
		Data:       []domain.DiaryEntryResponse{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

// MockForecastService is a mock implementation of ForecastService
type MockForecastService struct {
	predictFunc func(ctx context.Context, userID uuid.UUID, horizon domain.Horizon) (*domain.ForecastResponse, error)
	stateFunc   func(ctx context.Context, userID uuid.UUID) (*domain.LatentState, error)
	networkFunc func(ctx context.Context) (domain.CausalNetwork, error)
}

func (m *MockForecastService) Predict(ctx context.Context, userID uuid.UUID, horizon domain.Horizon) (*domain.ForecastResponse, error) {
	if m.predictFunc != nil {
		return m.predictFunc(ctx, userID, horizon)
	}
	return &domain.ForecastResponse{
		Ready:      true,
		Prediction: samplePrediction(userID, horizon),
	}, nil
}

func (m *MockForecastService) State(ctx context.Context, userID uuid.UUID) (*domain.LatentState, error) {
	if m.stateFunc != nil {
		return m.stateFunc(ctx, userID)
	}
	return &domain.LatentState{
		LatentState:       []float64{0.85, 0.17, 0.19, 0.71, 0.7},
		ObservedState:     []float64{0.85, 0.17, 0.19, 0.71, 0.7},
		HiddenActivations: make([]float64, 16),
		Uncertainty:       []float64{0.02, 0.02, 0.02, 0.02, 0.02},
		Timestep:          5,
	}, nil
}

func (m *MockForecastService) CausalNetwork(ctx context.Context) (domain.CausalNetwork, error) {
	if m.networkFunc != nil {
		return m.networkFunc(ctx)
	}
	return domain.CausalNetwork{
		Nodes: []string{"sleep_efficiency", "sleep_onset_latency", "waso", "total_sleep_time", "subjective_quality"},
		Edges: []domain.CausalEdge{},
	}, nil
}

func (m *MockForecastService) Complexity(ctx context.Context) (domain.ComplexityMetrics, error) {
	return domain.ComplexityMetrics{}, nil
}

func (m *MockForecastService) Stats(ctx context.Context) (domain.EngineStats, error) {
	return domain.EngineStats{UsersTracked: 1, TotalEntries: 5}, nil
}

// MockInsightsService is a mock implementation of InsightsService
type MockInsightsService struct {
	generateFunc func(ctx context.Context, userID uuid.UUID, horizon domain.Horizon) (*domain.ForecastInsightsResponse, error)
}

func (m *MockInsightsService) Generate(ctx context.Context, userID uuid.UUID, horizon domain.Horizon) (*domain.ForecastInsightsResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, userID, horizon)
	}
	return &domain.ForecastInsightsResponse{
		Prediction: *samplePrediction(userID, horizon),
		Insights: domain.ForecastInsightsOutput{
			Summary:      "Sleep efficiency is forecast to hold steady.",
			Observations: []string{"Recent nights are consistent."},
			Guidance:     []string{"Keep a regular bedtime."},
		},
	}, nil
}

// MockLangfuseClient is a mock implementation of langfuse.Client
type MockLangfuseClient struct {
	enabled    bool
	scoreErr   error
	lastScore  *langfuse.ScoreInput
	scoreCalls int
}

func (m *MockLangfuseClient) IsEnabled() bool {
	return m.enabled
}

func (m *MockLangfuseClient) CreateTrace(ctx context.Context, in langfuse.TraceInput) (string, error) {
	return in.ID, nil
}

func (m *MockLangfuseClient) CreateScore(ctx context.Context, in langfuse.ScoreInput) error {
	m.scoreCalls++
	m.lastScore = &in
	return m.scoreErr
}

// Helper functions

func samplePrediction(userID uuid.UUID, horizon domain.Horizon) *domain.Prediction {
	hours := map[domain.Horizon]int{
		domain.HorizonShort:  24,
		domain.HorizonMedium: 72,
		domain.HorizonLong:   168,
	}[horizon]
	return &domain.Prediction{
		UserID:  userID,
		Horizon: horizon,
		PredictedSleepEfficiency: domain.PredictedValue{
			Value:      85,
			Confidence: 0.9,
			Lower95:    80,
			Upper95:    90,
		},
		HoursAhead:        hours,
		Trend:             domain.TrendStable,
		DeteriorationRisk: 0.1,
		EarlyWarnings:     []domain.EarlyWarning{},
		GeneratedAt:       time.Now().UTC(),
	}
}

func strPtr(s string) *string {
	return &s
}

func validMetrics() domain.SleepMetrics {
	return domain.SleepMetrics{
		TimeInBed:           8,
		TotalSleepTime:      6.8,
		SleepOnsetLatency:   25,
		WakeAfterSleepOnset: 35,
		SleepEfficiency:     85,
		Awakenings:          2,
		Bedtime:             "23:15",
		WakeTime:            "07:15",
	}
}
