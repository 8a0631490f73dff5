package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/noctalab/sleep-forecast/internal/forecast"
	"github.com/noctalab/sleep-forecast/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ForecastService exposes the forecasting engine over per-user operations.
type ForecastService interface {
	// Predict builds a multi-horizon forecast for the user. When the user
	// has too little history the response carries Ready=false instead of
	// an error.
	Predict(ctx context.Context, userID uuid.UUID, horizon domain.Horizon) (*domain.ForecastResponse, error)
	// State returns the user's current latent state, or nil when the
	// engine has never seen the user.
	State(ctx context.Context, userID uuid.UUID) (*domain.LatentState, error)
	// CausalNetwork extracts the influence graph from the shared model.
	CausalNetwork(ctx context.Context) (domain.CausalNetwork, error)
	// Complexity reports dynamical complexity diagnostics of the model.
	Complexity(ctx context.Context) (domain.ComplexityMetrics, error)
	// Stats reports engine-wide counters.
	Stats(ctx context.Context) (domain.EngineStats, error)
}

type forecastService struct {
	engine   *forecast.Engine
	userRepo repository.UserRepository
	loader   *EngineLoader
}

// NewForecastService creates a new ForecastService.
func NewForecastService(engine *forecast.Engine, userRepo repository.UserRepository, loader *EngineLoader) ForecastService {
	return &forecastService{
		engine:   engine,
		userRepo: userRepo,
		loader:   loader,
	}
}

func (s *forecastService) Predict(ctx context.Context, userID uuid.UUID, horizon domain.Horizon) (*domain.ForecastResponse, error) {
	tracer := otel.Tracer("sleep-forecast-api/forecast")
	ctx, span := tracer.Start(ctx, "ForecastService.Predict",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("forecast.horizon", string(horizon)),
		),
	)
	defer span.End()

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	cfg := s.engine.Config()
	if _, ok := cfg.HorizonDuration(horizon); !ok {
		return nil, domain.ErrInvalidInput
	}

	if err := s.loader.ensureWarm(ctx, userID, uuid.Nil); err != nil {
		return nil, err
	}

	inputPayload := map[string]any{
		"user_id": userID.String(),
		"horizon": string(horizon),
	}
	if inputJSON, err := json.Marshal(inputPayload); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.input", string(inputJSON)))
	}

	available := len(s.engine.History(userID))
	prediction := s.engine.Predict(userID, horizon)

	response := &domain.ForecastResponse{
		Ready:      prediction != nil,
		Prediction: prediction,
	}
	if prediction == nil {
		response.Required = cfg.MinHistoryEntries
		response.Available = available
	}

	span.SetAttributes(
		attribute.Bool("forecast.ready", response.Ready),
		attribute.Int("forecast.history_entries", available),
	)
	if outputJSON, err := json.Marshal(response); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.output", string(outputJSON)))
	}

	return response, nil
}

func (s *forecastService) State(ctx context.Context, userID uuid.UUID) (*domain.LatentState, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	if err := s.loader.ensureWarm(ctx, userID, uuid.Nil); err != nil {
		return nil, err
	}

	return s.engine.CurrentState(userID), nil
}

func (s *forecastService) CausalNetwork(ctx context.Context) (domain.CausalNetwork, error) {
	tracer := otel.Tracer("sleep-forecast-api/forecast")
	_, span := tracer.Start(ctx, "ForecastService.CausalNetwork")
	defer span.End()

	network := s.engine.ExtractCausalNetwork()

	span.SetAttributes(attribute.Int("causal.edges", len(network.Edges)))
	if outputJSON, err := json.Marshal(network); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.output", string(outputJSON)))
	}

	return network, nil
}

func (s *forecastService) Complexity(ctx context.Context) (domain.ComplexityMetrics, error) {
	return s.engine.ComplexityMetrics(), nil
}

func (s *forecastService) Stats(ctx context.Context) (domain.EngineStats, error) {
	return s.engine.Stats(), nil
}
