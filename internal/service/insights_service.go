package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/noctalab/sleep-forecast/internal/llm"
)

// recentEntriesForNarrative caps how many recorded nights are handed to the
// LLM alongside the forecast.
const recentEntriesForNarrative = 14

// InsightsService narrates forecasts through an LLM.
type InsightsService interface {
	// Generate produces a forecast for the user and an LLM narrative over it.
	Generate(ctx context.Context, userID uuid.UUID, horizon domain.Horizon) (*domain.ForecastInsightsResponse, error)
}

type insightsService struct {
	forecastService ForecastService
	llmClient       llm.ForecastLLM
	loader          *EngineLoader
}

// NewInsightsService creates a new InsightsService.
func NewInsightsService(forecastService ForecastService, llmClient llm.ForecastLLM, loader *EngineLoader) InsightsService {
	return &insightsService{
		forecastService: forecastService,
		llmClient:       llmClient,
		loader:          loader,
	}
}

func (s *insightsService) Generate(ctx context.Context, userID uuid.UUID, horizon domain.Horizon) (*domain.ForecastInsightsResponse, error) {
	forecast, err := s.forecastService.Predict(ctx, userID, horizon)
	if err != nil {
		return nil, err
	}
	if !forecast.Ready {
		return nil, domain.ErrInsufficientHistory
	}

	history := s.loader.engine.History(userID)
	if len(history) > recentEntriesForNarrative {
		history = history[len(history)-recentEntriesForNarrative:]
	}

	forecastCtx := &domain.ForecastInsightsContext{
		Prediction:    *forecast.Prediction,
		RecentEntries: history,
	}

	llmOutput, err := s.llmClient.NarrateForecast(ctx, forecastCtx)
	if err != nil {
		return nil, err
	}

	return &domain.ForecastInsightsResponse{
		Prediction: *forecast.Prediction,
		Insights:   *llmOutput,
	}, nil
}
